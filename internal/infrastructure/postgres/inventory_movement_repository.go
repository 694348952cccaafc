package postgres

import (
	"context"
	"fmt"

	"github.com/andresvp/lubristock-api/internal/domain/entity"
	"github.com/andresvp/lubristock-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo ledger append-only sobre PostgreSQL: solo INSERT y SELECT.
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// Create persiste una entrada del ledger.
func (r *InventoryMovementRepo) Create(movement *entity.InventoryMovement) error {
	query := `
		INSERT INTO inventory_movements (id, product_id, delta, reason, actor_employee_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ProductID, movement.Delta, movement.Reason,
		movement.EmployeeID, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inventory movement: %w", err)
	}
	return nil
}

// ListByProduct devuelve movimientos más recientes primero; productID vacío lista todos.
func (r *InventoryMovementRepo) ListByProduct(productID string, limit, offset int) ([]*entity.InventoryMovement, error) {
	query := `
		SELECT id, product_id, delta, reason, actor_employee_id, created_at
		FROM inventory_movements
		WHERE ($1 = '' OR product_id = $1)
		ORDER BY created_at DESC`
	args := []any{productID}
	if limit > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryMovement
	for rows.Next() {
		var m entity.InventoryMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Delta, &m.Reason, &m.EmployeeID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// DeltaSums suma corrida de deltas por producto para la conciliación de stock.
func (r *InventoryMovementRepo) DeltaSums() (map[string]int64, error) {
	query := `SELECT product_id, COALESCE(SUM(delta), 0) FROM inventory_movements GROUP BY product_id`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("sum inventory movements: %w", err)
	}
	defer rows.Close()
	sums := make(map[string]int64)
	for rows.Next() {
		var productID string
		var sum int64
		if err := rows.Scan(&productID, &sum); err != nil {
			return nil, fmt.Errorf("scan delta sum: %w", err)
		}
		sums[productID] = sum
	}
	return sums, rows.Err()
}
