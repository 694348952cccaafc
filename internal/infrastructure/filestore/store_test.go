package filestore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/andresvp/lubristock-api/internal/domain"
	"github.com/andresvp/lubristock-api/internal/domain/entity"
	"github.com/andresvp/lubristock-api/pkg/logger"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "lubristock.json")
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	s, err := Open(path, log)
	require.NoError(t, err)
	return s
}

// Primer arranque: el archivo no existe y Open lo siembra con el dataset por
// defecto, incluyendo las cuentas admin y vendedor.
func TestOpen_ArchivoInexistente_Siembra(t *testing.T) {
	s := testStore(t)

	_, err := os.Stat(s.Path())
	require.NoError(t, err, "Open debe crear el archivo")

	repo := NewEmployeeRepository(s)
	admin, err := repo.GetByCode(SeedAdminCode)
	require.NoError(t, err)
	require.NotNil(t, admin, "la cuenta admin semilla debe existir")
	assert.Equal(t, entity.RoleAdmin, admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(SeedAdminPassword)),
		"el hash semilla debe corresponder a la contraseña por defecto")

	seller, err := repo.GetByCode(SeedSellerCode)
	require.NoError(t, err)
	require.NotNil(t, seller)
	assert.Equal(t, entity.RoleEmployee, seller.Role)
	assert.NotEmpty(t, seller.Routes)

	products, err := NewProductRepository(s).List(0, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, products, "el catálogo semilla debe existir")
	for _, p := range products {
		assert.Zero(t, p.Stock, "el stock semilla inicia en 0")
	}
}

// Documento corrupto: se aparta como respaldo y el almacén se resiembra.
func TestOpen_DocumentoCorrupto_ApartaYResiembra(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lubristock.json")
	require.NoError(t, os.WriteFile(path, []byte("{esto no es json"), 0o644))

	log := logger.New(logger.Config{Env: "development", Level: "error"})
	s, err := Open(path, log)
	require.NoError(t, err, "un documento corrupto no debe impedir el arranque")

	admin, err := NewEmployeeRepository(s).GetByCode(SeedAdminCode)
	require.NoError(t, err)
	assert.NotNil(t, admin, "tras resembrar deben existir las cuentas por defecto")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var backup bool
	for _, e := range entries {
		if strings.Contains(e.Name(), ".corrupt-") {
			backup = true
		}
	}
	assert.True(t, backup, "el documento dañado debe conservarse como respaldo")
}

// Round-trip: lo que se escribe es exactamente lo que se lee en la siguiente
// operación, incluidos decimales y colecciones anidadas.
func TestStore_RoundTripPedido(t *testing.T) {
	s := testStore(t)
	orders := NewOrderRepository(s)

	now := time.Now().Truncate(time.Second)
	order := &entity.Order{
		ID:           uuid.New().String(),
		EmployeeID:   uuid.New().String(),
		CustomerName: "Taller El Progreso",
		Route:        "Centro",
		Items: []entity.OrderItem{{
			ProductID:   uuid.New().String(),
			ProductCode: "LUB-2050-1L",
			ProductName: "Aceite mineral 20W-50",
			Quantity:    3,
			PriceTier:   entity.PriceTierCashUnit,
			UnitPrice:   decimal.NewFromFloat(6.50),
			Subtotal:    decimal.NewFromFloat(19.50),
		}},
		Total:     decimal.NewFromFloat(19.50),
		Status:    entity.OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, orders.Create(order))

	got, err := orders.GetByID(order.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, order.CustomerName, got.CustomerName)
	assert.Equal(t, order.Status, got.Status)
	require.Len(t, got.Items, 1)
	assert.True(t, got.Items[0].UnitPrice.Equal(decimal.NewFromFloat(6.50)))
	assert.True(t, got.Total.Equal(order.Total))
}

// La transición de estado solo opera sobre pedidos pending: los estados
// terminales devuelven conflicto y nunca se pisan entre sí.
func TestOrderRepo_TransicionSoloDesdePending(t *testing.T) {
	s := testStore(t)
	orders := NewOrderRepository(s)

	now := time.Now()
	order := &entity.Order{
		ID:         uuid.New().String(),
		EmployeeID: uuid.New().String(),
		Status:     entity.OrderStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, orders.Create(order))

	require.NoError(t, orders.UpdateStatus(order.ID, entity.OrderStatusFulfilled))

	err := orders.UpdateStatus(order.ID, entity.OrderStatusCancelled)
	assert.ErrorIs(t, err, domain.ErrConflict, "un pedido finalizado no admite otra transición")

	got, err := orders.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusFulfilled, got.Status)

	err = orders.UpdateStatus(uuid.New().String(), entity.OrderStatusCancelled)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// La escritura es temp + rename: nunca quedan temporales y el JSON en disco
// siempre es completo y parseable.
func TestStore_EscrituraAtomica(t *testing.T) {
	s := testStore(t)
	products := NewProductRepository(s)

	for i := 0; i < 5; i++ {
		p := &entity.Product{
			ID:        uuid.New().String(),
			Code:      "TST-" + uuid.New().String()[:8],
			Name:      "Producto de prueba",
			Cost:      decimal.NewFromInt(1),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		require.NoError(t, products.Create(p))

		raw, err := os.ReadFile(s.Path())
		require.NoError(t, err)
		var doc map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(raw, &doc), "el archivo en disco siempre debe ser JSON válido")
	}

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"),
			"no deben quedar archivos temporales tras escribir")
	}
}

// El código de empleado es único: un duplicado no pisa el existente.
func TestEmployeeRepo_CodigoDuplicado(t *testing.T) {
	s := testStore(t)
	repo := NewEmployeeRepository(s)

	dup := &entity.Employee{
		ID:           uuid.New().String(),
		Code:         SeedAdminCode,
		Name:         "Impostor",
		Role:         entity.RoleAdmin,
		PasswordHash: "x",
		Status:       entity.StatusActive,
	}
	err := repo.Create(dup)
	assert.Error(t, err, "crear con código existente debe fallar")
}

// DeltaSums agrega el ledger por producto para la conciliación.
func TestMovementRepo_DeltaSums(t *testing.T) {
	s := testStore(t)
	movs := NewMovementRepository(s)

	productID := uuid.New().String()
	otherID := uuid.New().String()
	for _, d := range []int64{10, -3, 5} {
		require.NoError(t, movs.Create(&entity.InventoryMovement{
			ID:        uuid.New().String(),
			ProductID: productID,
			Delta:     d,
			Reason:    entity.MovementReasonAdjustment,
			CreatedAt: time.Now(),
		}))
	}
	require.NoError(t, movs.Create(&entity.InventoryMovement{
		ID:        uuid.New().String(),
		ProductID: otherID,
		Delta:     7,
		Reason:    entity.MovementReasonPurchase,
		CreatedAt: time.Now(),
	}))

	sums, err := movs.DeltaSums()
	require.NoError(t, err)
	assert.Equal(t, int64(12), sums[productID])
	assert.Equal(t, int64(7), sums[otherID])
}
