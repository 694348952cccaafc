// Package store selecciona e inicializa el modo de persistencia al arranque
// y entrega un handle construido explícitamente (nada de estado global): los
// repositorios y runners se inyectan a los casos de uso desde main.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/andresvp/lubristock-api/internal/application/inventory"
	"github.com/andresvp/lubristock-api/internal/application/sales"
	"github.com/andresvp/lubristock-api/internal/domain"
	"github.com/andresvp/lubristock-api/internal/domain/repository"
	"github.com/andresvp/lubristock-api/internal/infrastructure/filestore"
	"github.com/andresvp/lubristock-api/internal/infrastructure/postgres"
	"github.com/andresvp/lubristock-api/pkg/config"
	"github.com/andresvp/lubristock-api/pkg/logger"
)

// TxRunner unión de los contratos transaccionales de inventario y ventas.
type TxRunner interface {
	inventory.TxRunner
	sales.TxRunner
}

// Handle agrupa los puertos de persistencia ya construidos. Las capas
// superiores son agnósticas del modo de respaldo: ambas implementaciones
// sirven los mismos registros del mismo esquema.
type Handle struct {
	Mode      string // config.StoreModeRemote o config.StoreModeFile (modo efectivo)
	Employees repository.EmployeeRepository
	Products  repository.ProductRepository
	Orders    repository.OrderRepository
	Sales     repository.SaleRepository
	Movements repository.InventoryMovementRepository
	Tx        TxRunner

	pool *pgxpool.Pool
}

// Pool expone el pool pgx en modo remoto (nil en modo archivo); lo usa el seeder.
func (h *Handle) Pool() *pgxpool.Pool { return h.pool }

// Close libera recursos del modo remoto. En modo archivo no hay nada que cerrar.
func (h *Handle) Close() {
	if h.pool != nil {
		h.pool.Close()
	}
}

// Open construye el handle según STORE_MODE:
//   - remote: conecta a PostgreSQL/Supabase o falla (un despliegue mal
//     configurado debe notarse, no degradarse en silencio).
//   - file: documento JSON local, sin tocar la red.
//   - auto: remoto si hay credenciales y la conexión funciona; si no, cae al
//     modo archivo dejando el motivo en el log (demo/escritorio offline).
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Handle, error) {
	switch cfg.Store.Mode {
	case config.StoreModeRemote:
		return openRemote(ctx, cfg)
	case config.StoreModeFile:
		return openFile(cfg, log)
	case config.StoreModeAuto:
		if !cfg.DB.HasRemoteCredentials() {
			log.Warn().Msg("sin credenciales de almacén remoto, usando modo archivo")
			return openFile(cfg, log)
		}
		h, err := openRemote(ctx, cfg)
		if err != nil {
			log.Warn().Err(err).Msg("almacén remoto inaccesible, usando modo archivo")
			return openFile(cfg, log)
		}
		return h, nil
	}
	return nil, fmt.Errorf("modo de almacén desconocido: %q", cfg.Store.Mode)
}

func openRemote(ctx context.Context, cfg *config.Config) (*Handle, error) {
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return &Handle{
		Mode:      config.StoreModeRemote,
		Employees: postgres.NewEmployeeRepository(pool),
		Products:  postgres.NewProductRepository(pool),
		Orders:    postgres.NewOrderRepository(pool),
		Sales:     postgres.NewSaleRepository(pool),
		Movements: postgres.NewInventoryMovementRepository(pool),
		Tx:        postgres.NewTxRunner(pool),
		pool:      pool,
	}, nil
}

func openFile(cfg *config.Config, log *logger.Logger) (*Handle, error) {
	fs, err := filestore.Open(cfg.Store.DataFile, log)
	if err != nil {
		return nil, err
	}
	return &Handle{
		Mode:      config.StoreModeFile,
		Employees: filestore.NewEmployeeRepository(fs),
		Products:  filestore.NewProductRepository(fs),
		Orders:    filestore.NewOrderRepository(fs),
		Sales:     filestore.NewSaleRepository(fs),
		Movements: filestore.NewMovementRepository(fs),
		Tx:        filestore.NewTxRunner(fs),
	}, nil
}
