package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresvp/lubristock-api/internal/domain"
	"github.com/andresvp/lubristock-api/internal/infrastructure/store"
	"github.com/andresvp/lubristock-api/pkg/config"
	"github.com/andresvp/lubristock-api/pkg/logger"
)

func testConfig(t *testing.T, mode string) *config.Config {
	t.Helper()
	return &config.Config{
		App:   config.AppConfig{Env: "development", Name: "lubristock-test"},
		Store: config.StoreConfig{Mode: mode, DataFile: filepath.Join(t.TempDir(), "lubristock.json")},
	}
}

func testLog() *logger.Logger {
	return logger.New(logger.Config{Env: "development", Level: "error"})
}

// Modo archivo: el handle queda completo y sin pool.
func TestOpen_ModoArchivo(t *testing.T) {
	h, err := store.Open(context.Background(), testConfig(t, config.StoreModeFile), testLog())
	require.NoError(t, err)
	defer h.Close()

	assert.Equal(t, config.StoreModeFile, h.Mode)
	assert.Nil(t, h.Pool(), "en modo archivo no hay pool pgx")
	assert.NotNil(t, h.Employees)
	assert.NotNil(t, h.Tx)
}

// Modo remoto con DSN inválido: falla duro señalando almacén no disponible,
// sin degradarse en silencio al archivo.
func TestOpen_RemotoInaccesibleFallaDuro(t *testing.T) {
	cfg := testConfig(t, config.StoreModeRemote)
	cfg.DB.DatabaseURL = "://esto-no-es-un-dsn"

	h, err := store.Open(context.Background(), cfg, testLog())
	require.Error(t, err)
	assert.Nil(t, h)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

// Modo auto sin credenciales remotas: cae al archivo sin error.
func TestOpen_AutoSinCredencialesUsaArchivo(t *testing.T) {
	h, err := store.Open(context.Background(), testConfig(t, config.StoreModeAuto), testLog())
	require.NoError(t, err)
	defer h.Close()

	assert.Equal(t, config.StoreModeFile, h.Mode)
}

// Modo desconocido: error de configuración.
func TestOpen_ModoDesconocido(t *testing.T) {
	_, err := store.Open(context.Background(), testConfig(t, "memoria"), testLog())
	assert.Error(t, err)
}
