package sales

import (
	"context"

	"github.com/andresvp/lubristock-api/internal/domain/entity"
	"github.com/andresvp/lubristock-api/internal/domain/repository"
)

// TxRunner unidad atómica para finalizar pedidos: descarga de stock, ledger,
// venta y transición de estado ocurren juntos o no ocurren.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
		orderRepo repository.OrderRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// ReceiptPDFGenerator genera el comprobante PDF de una venta.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(ctx context.Context, sale *entity.Sale, employee *entity.Employee) ([]byte, error)
}
