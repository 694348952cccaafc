package repository

import "github.com/andresvp/lubristock-api/internal/domain/entity"

// InventoryMovementRepository define el puerto del ledger de inventario.
// El ledger es append-only: no hay Update ni Delete.
type InventoryMovementRepository interface {
	Create(movement *entity.InventoryMovement) error
	// ListByProduct devuelve movimientos de un producto, más recientes primero.
	// productID vacío lista todos.
	ListByProduct(productID string, limit, offset int) ([]*entity.InventoryMovement, error)
	// DeltaSums devuelve la suma corrida de deltas por producto, para conciliar
	// contra el stock cacheado.
	DeltaSums() (map[string]int64, error)
}
