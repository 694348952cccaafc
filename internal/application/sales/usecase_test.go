package sales_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresvp/lubristock-api/internal/application/dto"
	"github.com/andresvp/lubristock-api/internal/application/sales"
	"github.com/andresvp/lubristock-api/internal/domain"
	"github.com/andresvp/lubristock-api/internal/domain/entity"
	"github.com/andresvp/lubristock-api/internal/domain/repository"
	"github.com/andresvp/lubristock-api/internal/infrastructure/filestore"
	"github.com/andresvp/lubristock-api/pkg/logger"
)

// fakePDFGen evita depender del motor PDF real en estos tests.
type fakePDFGen struct{ calls int }

func (f *fakePDFGen) GenerateReceiptPDF(_ context.Context, _ *entity.Sale, _ *entity.Employee) ([]byte, error) {
	f.calls++
	return []byte("%PDF-fake"), nil
}

type fixture struct {
	uc        *sales.UseCase
	store     *filestore.Store
	employees repository.EmployeeRepository
	products  repository.ProductRepository
	orders    repository.OrderRepository
	salesRepo repository.SaleRepository
	movements repository.InventoryMovementRepository
	pdf       *fakePDFGen
	sellerID  string
	productID string
}

// setup monta el caso de uso sobre el almacén de archivo con un vendedor al
// 10% de comisión y un producto con stock inicial.
func setup(t *testing.T, initialStock int64) *fixture {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lubristock.json")
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	s, err := filestore.Open(path, log)
	require.NoError(t, err)

	now := time.Now()
	employees := filestore.NewEmployeeRepository(s)
	seller := &entity.Employee{
		ID:             uuid.New().String(),
		Code:           "TSTVEND1",
		Name:           "Vendedor de prueba",
		Role:           entity.RoleEmployee,
		Routes:         []string{"Centro"},
		CommissionRate: decimal.NewFromFloat(0.10),
		PasswordHash:   "x",
		Status:         entity.StatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, employees.Create(seller))

	products := filestore.NewProductRepository(s)
	product := &entity.Product{
		ID:        uuid.New().String(),
		Code:      "TST-OIL-1L",
		Name:      "Aceite de prueba",
		Cost:      decimal.NewFromInt(4),
		Prices: entity.Prices{
			CashUnit:   decimal.NewFromFloat(6.50),
			CashBox:    decimal.NewFromFloat(72.00),
			CreditUnit: decimal.NewFromFloat(7.00),
			CreditBox:  decimal.NewFromFloat(78.00),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, products.Create(product))
	if initialStock > 0 {
		require.NoError(t, products.UpdateStock(product.ID, initialStock))
		require.NoError(t, filestore.NewMovementRepository(s).Create(&entity.InventoryMovement{
			ID:        uuid.New().String(),
			ProductID: product.ID,
			Delta:     initialStock,
			Reason:    entity.MovementReasonPurchase,
			CreatedAt: now,
		}))
	}

	pdf := &fakePDFGen{}
	orders := filestore.NewOrderRepository(s)
	salesRepo := filestore.NewSaleRepository(s)
	uc := sales.NewUseCase(
		filestore.NewTxRunner(s),
		orders,
		salesRepo,
		products,
		employees,
		pdf,
	)
	return &fixture{
		uc:        uc,
		store:     s,
		employees: employees,
		products:  products,
		orders:    orders,
		salesRepo: salesRepo,
		movements: filestore.NewMovementRepository(s),
		pdf:       pdf,
		sellerID:  seller.ID,
		productID: product.ID,
	}
}

func (f *fixture) newOrder(t *testing.T, qty int64, tier string) *dto.OrderResponse {
	t.Helper()
	out, err := f.uc.CreateOrder(f.sellerID, dto.CreateOrderRequest{
		CustomerName: "Taller Don Pedro",
		Route:        "Centro",
		Items: []dto.OrderItemRequest{{
			ProductID: f.productID,
			Quantity:  qty,
			PriceTier: tier,
		}},
	})
	require.NoError(t, err)
	return out
}

// Crear un pedido captura el precio del nivel elegido y no toca el stock.
func TestCreateOrder_CapturaPrecioDelNivel(t *testing.T) {
	f := setup(t, 10)

	out := f.newOrder(t, 3, entity.PriceTierCreditUnit)
	assert.Equal(t, entity.OrderStatusPending, out.Status)
	require.Len(t, out.Items, 1)
	assert.True(t, out.Items[0].UnitPrice.Equal(decimal.NewFromFloat(7.00)),
		"el precio unitario debe ser el del nivel credit_unit")
	assert.True(t, out.Total.Equal(decimal.NewFromFloat(21.00)))

	p, err := f.products.GetByID(f.productID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), p.Stock, "levantar un pedido no mueve stock")
}

// Nivel de precio desconocido → ErrInvalidInput.
func TestCreateOrder_NivelInvalido(t *testing.T) {
	f := setup(t, 10)

	_, err := f.uc.CreateOrder(f.sellerID, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{{
			ProductID: f.productID,
			Quantity:  1,
			PriceTier: "mayorista",
		}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Un cambio de tarifa posterior no altera el precio capturado en el pedido.
func TestCreateOrder_PrecioInmuneACambioDeTarifa(t *testing.T) {
	f := setup(t, 10)

	out := f.newOrder(t, 2, entity.PriceTierCashUnit)

	p, err := f.products.GetByID(f.productID)
	require.NoError(t, err)
	p.Prices.CashUnit = decimal.NewFromFloat(9.99)
	require.NoError(t, f.products.Update(p))

	got, err := f.uc.GetOrder(out.ID)
	require.NoError(t, err)
	assert.True(t, got.Items[0].UnitPrice.Equal(decimal.NewFromFloat(6.50)),
		"el pedido conserva el precio vigente al crearse")
}

// Finalizar descuenta stock vía ledger, registra la venta con la comisión del
// vendedor y deja el pedido en fulfilled.
func TestFulfill_GeneraVentaYDescargaStock(t *testing.T) {
	f := setup(t, 10)
	out := f.newOrder(t, 3, entity.PriceTierCashUnit)

	sale, err := f.uc.Fulfill(context.Background(), out.ID)
	require.NoError(t, err)
	assert.Equal(t, out.ID, sale.OrderID)
	assert.True(t, sale.Total.Equal(decimal.NewFromFloat(19.50)))
	assert.True(t, sale.Commission.Equal(decimal.NewFromFloat(1.95)),
		"la comisión es total × tasa del vendedor (10%)")

	p, err := f.products.GetByID(f.productID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.Stock)

	movs, err := f.movements.ListByProduct(f.productID, 0, 0)
	require.NoError(t, err)
	require.NotEmpty(t, movs)
	assert.Equal(t, int64(-3), movs[0].Delta, "la venta deja un movimiento de salida en el ledger")
	assert.Equal(t, entity.MovementReasonSale, movs[0].Reason)

	got, err := f.uc.GetOrder(out.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusFulfilled, got.Status)
}

// Doble finalización: el segundo intento responde ErrConflict y no duplica
// ni venta ni descarga de stock.
func TestFulfill_DobleFinalizacionConflicto(t *testing.T) {
	f := setup(t, 10)
	out := f.newOrder(t, 2, entity.PriceTierCashUnit)

	_, err := f.uc.Fulfill(context.Background(), out.ID)
	require.NoError(t, err)

	_, err = f.uc.Fulfill(context.Background(), out.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	p, err := f.products.GetByID(f.productID)
	require.NoError(t, err)
	assert.Equal(t, int64(8), p.Stock, "el stock solo se descarga una vez")

	ventas, err := f.uc.ListSales("", 0, 0)
	require.NoError(t, err)
	assert.Len(t, ventas.Items, 1)
}

// gatedSaleTxRunner retiene cada transacción hasta que el test la libera:
// permite que dos finalizaciones lean el pedido como pending antes de que
// ninguna entre a la unidad atómica.
type gatedSaleTxRunner struct {
	inner   sales.TxRunner
	entered chan struct{}
	release chan struct{}
}

func (g *gatedSaleTxRunner) RunSale(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	saleRepo repository.SaleRepository,
) error) error {
	g.entered <- struct{}{}
	<-g.release
	return g.inner.RunSale(ctx, fn)
}

// Dos finalizaciones concurrentes del mismo pedido: ambas pasan la lectura
// previa, pero solo una reclama la transición dentro de la unidad atómica.
// La otra termina en ErrConflict sin mover stock ni registrar venta.
func TestFulfill_FinalizacionesConcurrentes(t *testing.T) {
	f := setup(t, 10)
	out := f.newOrder(t, 1, entity.PriceTierCashUnit)

	gate := &gatedSaleTxRunner{
		inner:   filestore.NewTxRunner(f.store),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	uc := sales.NewUseCase(gate, f.orders, f.salesRepo, f.products, f.employees, f.pdf)

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := uc.Fulfill(context.Background(), out.ID)
			errs <- err
		}()
	}
	// Ambas goroutines ya leyeron el pedido (aún pending); recién ahora se
	// las deja entrar a la transacción.
	<-gate.entered
	<-gate.entered
	close(gate.release)

	var oks, conflicts int
	for i := 0; i < 2; i++ {
		switch err := <-errs; {
		case err == nil:
			oks++
		case errors.Is(err, domain.ErrConflict):
			conflicts++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, oks, "exactamente una finalización gana")
	assert.Equal(t, 1, conflicts, "la otra devuelve conflicto")

	p, err := f.products.GetByID(f.productID)
	require.NoError(t, err)
	assert.Equal(t, int64(9), p.Stock, "el stock se descarga una sola vez")

	ventas, err := f.uc.ListSales("", 0, 0)
	require.NoError(t, err)
	assert.Len(t, ventas.Items, 1, "una sola venta registrada")
}

// Stock insuficiente al finalizar: nada cambia, ni venta ni ledger ni estado.
func TestFulfill_StockInsuficienteAtomicidad(t *testing.T) {
	f := setup(t, 2)
	out := f.newOrder(t, 5, entity.PriceTierCashUnit)

	_, err := f.uc.Fulfill(context.Background(), out.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	p, err := f.products.GetByID(f.productID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), p.Stock)

	got, err := f.uc.GetOrder(out.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPending, got.Status, "el pedido sigue pending tras el rechazo")

	ventas, err := f.uc.ListSales("", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, ventas.Items)
}

// Cancelar no mueve stock y el estado es terminal.
func TestCancel_SinMovimientoDeStock(t *testing.T) {
	f := setup(t, 10)
	out := f.newOrder(t, 4, entity.PriceTierCashBox)

	require.NoError(t, f.uc.Cancel(out.ID))

	p, err := f.products.GetByID(f.productID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), p.Stock)

	got, err := f.uc.GetOrder(out.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, got.Status)

	// Terminal: ni finalizar ni recancelar.
	_, err = f.uc.Fulfill(context.Background(), out.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.ErrorIs(t, f.uc.Cancel(out.ID), domain.ErrConflict)
}

// El comprobante se genera a partir de una venta existente.
func TestReceipt_GeneraPDF(t *testing.T) {
	f := setup(t, 10)
	out := f.newOrder(t, 1, entity.PriceTierCashUnit)
	sale, err := f.uc.Fulfill(context.Background(), out.ID)
	require.NoError(t, err)

	pdfBytes, err := f.uc.Receipt(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdfBytes)
	assert.Equal(t, 1, f.pdf.calls)

	_, err = f.uc.Receipt(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
