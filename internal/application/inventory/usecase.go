package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/andresvp/lubristock-api/internal/application/dto"
	"github.com/andresvp/lubristock-api/internal/domain"
	"github.com/andresvp/lubristock-api/internal/domain/entity"
	"github.com/andresvp/lubristock-api/internal/domain/repository"
)

// UseCase registra movimientos del ledger de inventario y mantiene el caché
// de stock del producto. El ledger es la fuente de verdad: el stock cacheado
// debe conciliar siempre con la suma de deltas.
type UseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	movRepo     repository.InventoryMovementRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner, productRepo repository.ProductRepository, movRepo repository.InventoryMovementRepository) *UseCase {
	return &UseCase{txRunner: txRunner, productRepo: productRepo, movRepo: movRepo}
}

// RegisterMovement agrega una entrada al ledger y actualiza el stock cacheado
// en la misma unidad atómica. Rechaza movimientos que dejarían stock negativo.
func (uc *UseCase) RegisterMovement(ctx context.Context, actorEmployeeID string, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	if in.ProductID == "" || in.Delta == 0 || in.Reason == "" {
		return nil, domain.ErrInvalidInput
	}

	movement := &entity.InventoryMovement{
		ID:         uuid.New().String(),
		ProductID:  in.ProductID,
		Delta:      in.Delta,
		Reason:     in.Reason,
		EmployeeID: actorEmployeeID,
		CreatedAt:  time.Now(),
	}

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		product, err := productRepo.GetByID(in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		newStock := product.Stock + in.Delta
		if newStock < 0 {
			return domain.ErrInsufficientStock
		}
		if err := movRepo.Create(movement); err != nil {
			return err
		}
		return productRepo.UpdateStock(product.ID, newStock)
	})
	if err != nil {
		return nil, err
	}
	return toMovementResponse(movement), nil
}

// ListMovements lista movimientos, opcionalmente filtrados por producto.
func (uc *UseCase) ListMovements(productID string, limit, offset int) (*dto.MovementListResponse, error) {
	list, err := uc.movRepo.ListByProduct(productID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Reconcile compara el stock cacheado de cada producto contra la suma del
// ledger y reporta cualquier discrepancia. Productos sin movimientos deben
// tener la suma implícita 0.
func (uc *UseCase) Reconcile() (*dto.ReconcileResponse, error) {
	sums, err := uc.movRepo.DeltaSums()
	if err != nil {
		return nil, err
	}
	products, err := uc.productRepo.List(0, 0)
	if err != nil {
		return nil, err
	}
	out := &dto.ReconcileResponse{Consistent: true}
	for _, p := range products {
		sum := sums[p.ID]
		ok := p.Stock == sum
		if !ok {
			out.Consistent = false
		}
		out.Entries = append(out.Entries, dto.ReconcileEntry{
			ProductID:   p.ID,
			ProductCode: p.Code,
			Cached:      p.Stock,
			LedgerSum:   sum,
			Consistent:  ok,
		})
	}
	return out, nil
}

func toMovementResponse(m *entity.InventoryMovement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:         m.ID,
		ProductID:  m.ProductID,
		Delta:      m.Delta,
		Reason:     m.Reason,
		EmployeeID: m.EmployeeID,
		CreatedAt:  m.CreatedAt,
	}
}
