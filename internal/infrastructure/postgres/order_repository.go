package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/andresvp/lubristock-api/internal/domain"
	"github.com/andresvp/lubristock-api/internal/domain/entity"
	"github.com/andresvp/lubristock-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)
var _ repository.SaleRepository = (*SaleRepo)(nil)

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL.
// Items se guarda como JSONB: las líneas son inmutables una vez creado el
// pedido y no se consultan individualmente.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste un pedido.
func (r *OrderRepo) Create(order *entity.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}
	query := `
		INSERT INTO orders (id, employee_id, customer_name, route, items, total, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = r.q.Exec(context.Background(), query,
		order.ID, order.EmployeeID, order.CustomerName, order.Route, items,
		order.Total, order.Status, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID obtiene un pedido por ID; (nil, nil) si no existe.
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	query := `
		SELECT id, employee_id, customer_name, route, items, total, status, created_at, updated_at
		FROM orders WHERE id = $1`
	row := r.q.QueryRow(context.Background(), query, id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// UpdateStatus transiciona un pedido pending al estado dado. El WHERE sobre
// status hace la transición condicional: dos finalizaciones concurrentes
// compiten por el lock de fila y la segunda no encuentra fila pending.
func (r *OrderRepo) UpdateStatus(id, status string) error {
	ct, err := r.q.Exec(context.Background(),
		`UPDATE orders SET status = $2, updated_at = now() WHERE id = $1 AND status = $3`,
		id, status, entity.OrderStatusPending,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		existing, err := r.GetByID(id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		return domain.ErrConflict
	}
	return nil
}

// List filtra por empleado y/o estado; cadenas vacías no filtran.
func (r *OrderRepo) List(employeeID, status string, limit, offset int) ([]*entity.Order, error) {
	query := `
		SELECT id, employee_id, customer_name, route, items, total, status, created_at, updated_at
		FROM orders
		WHERE ($1 = '' OR employee_id = $1)
		  AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC`
	args := []any{employeeID, status}
	if limit > 0 {
		query += ` LIMIT $3 OFFSET $4`
		args = append(args, limit, offset)
	}
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	var items []byte
	err := row.Scan(
		&o.ID, &o.EmployeeID, &o.CustomerName, &o.Route, &items,
		&o.Total, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}
	return &o, nil
}

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL.
// Las ventas son inmutables: solo inserción y lectura.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste una venta.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	items, err := json.Marshal(sale.Items)
	if err != nil {
		return fmt.Errorf("marshal sale items: %w", err)
	}
	query := `
		INSERT INTO sales (id, order_id, employee_id, items, total, commission, sold_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = r.q.Exec(context.Background(), query,
		sale.ID, sale.OrderID, sale.EmployeeID, items, sale.Total, sale.Commission, sale.SoldAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// GetByID obtiene una venta por ID; (nil, nil) si no existe.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `
		SELECT id, order_id, employee_id, items, total, commission, sold_at
		FROM sales WHERE id = $1`
	row := r.q.QueryRow(context.Background(), query, id)
	s, err := scanSale(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// List lista ventas, más recientes primero; employeeID vacío no filtra.
func (r *SaleRepo) List(employeeID string, limit, offset int) ([]*entity.Sale, error) {
	query := `
		SELECT id, order_id, employee_id, items, total, commission, sold_at
		FROM sales
		WHERE ($1 = '' OR employee_id = $1)
		ORDER BY sold_at DESC`
	args := []any{employeeID}
	if limit > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var items []byte
	err := row.Scan(&s.ID, &s.OrderID, &s.EmployeeID, &items, &s.Total, &s.Commission, &s.SoldAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &s.Items); err != nil {
		return nil, fmt.Errorf("unmarshal sale items: %w", err)
	}
	return &s, nil
}
