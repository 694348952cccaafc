package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andresvp/lubristock-api/internal/application/dto"
	"github.com/andresvp/lubristock-api/internal/domain"
	"github.com/andresvp/lubristock-api/internal/domain/entity"
	"github.com/andresvp/lubristock-api/internal/domain/repository"
)

// UseCase ciclo de vida de pedidos y ventas. Un pedido captura precios al
// crearse, queda pending, y solo transiciona a fulfilled (genera venta +
// descarga de stock + comisión) o cancelled. Ambos estados son terminales.
type UseCase struct {
	txRunner     TxRunner
	orderRepo    repository.OrderRepository
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	employeeRepo repository.EmployeeRepository
	pdfGen       ReceiptPDFGenerator
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	orderRepo repository.OrderRepository,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	employeeRepo repository.EmployeeRepository,
	pdfGen ReceiptPDFGenerator,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		orderRepo:    orderRepo,
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		employeeRepo: employeeRepo,
		pdfGen:       pdfGen,
	}
}

// CreateOrder levanta un pedido pending. El precio unitario de cada línea se
// captura del nivel de precio vigente del producto; cambios posteriores de
// tarifa no afectan pedidos ya levantados.
func (uc *UseCase) CreateOrder(employeeID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	employee, err := uc.employeeRepo.GetByID(employeeID)
	if err != nil {
		return nil, err
	}
	if employee == nil || !employee.IsActive() {
		return nil, domain.ErrForbidden
	}

	now := time.Now()
	total := decimal.Zero
	items := make([]entity.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(it.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		unitPrice, ok := product.Prices.PriceFor(it.PriceTier)
		if !ok {
			return nil, domain.ErrInvalidInput
		}
		subtotal := unitPrice.Mul(decimal.NewFromInt(it.Quantity))
		total = total.Add(subtotal)
		items = append(items, entity.OrderItem{
			ProductID:   product.ID,
			ProductCode: product.Code,
			ProductName: product.Name,
			Quantity:    it.Quantity,
			PriceTier:   it.PriceTier,
			UnitPrice:   unitPrice,
			Subtotal:    subtotal,
		})
	}

	order := &entity.Order{
		ID:           uuid.New().String(),
		EmployeeID:   employeeID,
		CustomerName: in.CustomerName,
		Route:        in.Route,
		Items:        items,
		Total:        total,
		Status:       entity.OrderStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.orderRepo.Create(order); err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// GetOrder obtiene un pedido por ID.
func (uc *UseCase) GetOrder(id string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, nil
	}
	return toOrderResponse(order), nil
}

// ListOrders lista pedidos; employeeID/status vacíos no filtran.
func (uc *UseCase) ListOrders(employeeID, status string, limit, offset int) (*dto.OrderListResponse, error) {
	list, err := uc.orderRepo.List(employeeID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toOrderResponse(o))
	}
	return &dto.OrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Fulfill finaliza un pedido pending: en una sola unidad atómica descarga el
// stock de cada línea vía ledger, calcula la comisión del empleado y registra
// la venta inmutable. Un pedido ya finalizado o cancelado devuelve ErrConflict.
func (uc *UseCase) Fulfill(ctx context.Context, orderID string) (*dto.SaleResponse, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.Status != entity.OrderStatusPending {
		return nil, domain.ErrConflict
	}
	employee, err := uc.employeeRepo.GetByID(order.EmployeeID)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, domain.ErrEmployeeNotFound
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:         uuid.New().String(),
		OrderID:    order.ID,
		EmployeeID: order.EmployeeID,
		Items:      order.Items,
		Total:      order.Total,
		Commission: order.Total.Mul(employee.CommissionRate),
		SoldAt:     now,
	}

	err = uc.txRunner.RunSale(ctx, func(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
		orderRepo repository.OrderRepository,
		saleRepo repository.SaleRepository,
	) error {
		// La transición se reclama primero dentro de la unidad atómica: si
		// otra finalización concurrente ya pasó el pre-chequeo, solo una
		// encuentra el pedido pending y la otra devuelve ErrConflict sin
		// tocar stock ni ventas.
		if err := orderRepo.UpdateStatus(order.ID, entity.OrderStatusFulfilled); err != nil {
			return err
		}
		for _, item := range order.Items {
			product, err := productRepo.GetByID(item.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			newStock := product.Stock - item.Quantity
			if newStock < 0 {
				return domain.ErrInsufficientStock
			}
			movement := &entity.InventoryMovement{
				ID:         uuid.New().String(),
				ProductID:  product.ID,
				Delta:      -item.Quantity,
				Reason:     entity.MovementReasonSale,
				EmployeeID: order.EmployeeID,
				CreatedAt:  now,
			}
			if err := movRepo.Create(movement); err != nil {
				return err
			}
			if err := productRepo.UpdateStock(product.ID, newStock); err != nil {
				return err
			}
		}
		return saleRepo.Create(sale)
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// Cancel cancela un pedido pending sin mover stock. Estado terminal.
func (uc *UseCase) Cancel(orderID string) error {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return domain.ErrNotFound
	}
	if order.Status != entity.OrderStatusPending {
		return domain.ErrConflict
	}
	return uc.orderRepo.UpdateStatus(order.ID, entity.OrderStatusCancelled)
}

// GetSale obtiene una venta por ID.
func (uc *UseCase) GetSale(id string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, nil
	}
	return toSaleResponse(sale), nil
}

// ListSales lista ventas; employeeID vacío no filtra.
func (uc *UseCase) ListSales(employeeID string, limit, offset int) (*dto.SaleListResponse, error) {
	list, err := uc.saleRepo.List(employeeID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSaleResponse(s))
	}
	return &dto.SaleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Receipt genera el comprobante PDF de una venta.
func (uc *UseCase) Receipt(ctx context.Context, saleID string) ([]byte, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	employee, err := uc.employeeRepo.GetByID(sale.EmployeeID)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, domain.ErrEmployeeNotFound
	}
	return uc.pdfGen.GenerateReceiptPDF(ctx, sale, employee)
}

func toOrderItems(items []entity.OrderItem) []dto.OrderItemResponse {
	out := make([]dto.OrderItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.OrderItemResponse{
			ProductID:   it.ProductID,
			ProductCode: it.ProductCode,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			PriceTier:   it.PriceTier,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		})
	}
	return out
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	return &dto.OrderResponse{
		ID:           o.ID,
		EmployeeID:   o.EmployeeID,
		CustomerName: o.CustomerName,
		Route:        o.Route,
		Items:        toOrderItems(o.Items),
		Total:        o.Total,
		Status:       o.Status,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	return &dto.SaleResponse{
		ID:         s.ID,
		OrderID:    s.OrderID,
		EmployeeID: s.EmployeeID,
		Items:      toOrderItems(s.Items),
		Total:      s.Total,
		Commission: s.Commission,
		SoldAt:     s.SoldAt,
	}
}
