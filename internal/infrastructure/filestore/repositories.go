package filestore

import (
	"time"

	"github.com/andresvp/lubristock-api/internal/domain"
	"github.com/andresvp/lubristock-api/internal/domain/entity"
	"github.com/andresvp/lubristock-api/internal/domain/repository"
)

// Las implementaciones de los puertos de repositorio sobre el documento JSON.
// Cada operación pública es un ciclo view/update completo bajo el mutex del
// Store; las variantes doc* operan sobre un documento ya cargado y las reusa
// el TxRunner dentro de su sección crítica.

var (
	_ repository.EmployeeRepository          = (*EmployeeRepo)(nil)
	_ repository.ProductRepository           = (*ProductRepo)(nil)
	_ repository.OrderRepository             = (*OrderRepo)(nil)
	_ repository.SaleRepository              = (*SaleRepo)(nil)
	_ repository.InventoryMovementRepository = (*MovementRepo)(nil)
)

// ── Operaciones sobre un documento cargado ───────────────────────────────────

func docEmployeeByID(doc *document, id string) *entity.Employee {
	for _, e := range doc.Employees {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func docEmployeeByCode(doc *document, code string) *entity.Employee {
	// Coincidencia exacta, sensible a mayúsculas.
	for _, e := range doc.Employees {
		if e.Code == code {
			return e
		}
	}
	return nil
}

func docProductByID(doc *document, id string) *entity.Product {
	for _, p := range doc.Products {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func docOrderByID(doc *document, id string) *entity.Order {
	for _, o := range doc.Orders {
		if o.ID == id {
			return o
		}
	}
	return nil
}

// paginate aplica limit/offset preservando el orden; limit <= 0 devuelve todo
// desde offset.
func paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	out := make([]T, len(items))
	copy(out, items)
	return out
}

func clone[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// ── EmployeeRepo ─────────────────────────────────────────────────────────────

// EmployeeRepo implementación de EmployeeRepository sobre el archivo.
type EmployeeRepo struct{ s *Store }

// NewEmployeeRepository construye el adaptador.
func NewEmployeeRepository(s *Store) *EmployeeRepo { return &EmployeeRepo{s: s} }

func (r *EmployeeRepo) Create(employee *entity.Employee) error {
	return r.s.update(func(doc *document) error {
		// Misma restricción de unicidad que impone el esquema remoto.
		if docEmployeeByCode(doc, employee.Code) != nil {
			return domain.ErrDuplicate
		}
		doc.Employees = append(doc.Employees, clone(employee))
		return nil
	})
}

func (r *EmployeeRepo) GetByID(id string) (*entity.Employee, error) {
	var out *entity.Employee
	err := r.s.view(func(doc *document) error {
		out = clone(docEmployeeByID(doc, id))
		return nil
	})
	return out, err
}

func (r *EmployeeRepo) GetByCode(code string) (*entity.Employee, error) {
	var out *entity.Employee
	err := r.s.view(func(doc *document) error {
		out = clone(docEmployeeByCode(doc, code))
		return nil
	})
	return out, err
}

func (r *EmployeeRepo) Update(employee *entity.Employee) error {
	return r.s.update(func(doc *document) error {
		for i, e := range doc.Employees {
			if e.ID == employee.ID {
				doc.Employees[i] = clone(employee)
				return nil
			}
		}
		return nil
	})
}

func (r *EmployeeRepo) List(limit, offset int) ([]*entity.Employee, error) {
	var out []*entity.Employee
	err := r.s.view(func(doc *document) error {
		out = paginate(doc.Employees, limit, offset)
		return nil
	})
	return out, err
}

// ── ProductRepo ──────────────────────────────────────────────────────────────

// ProductRepo implementación de ProductRepository sobre el archivo.
type ProductRepo struct{ s *Store }

// NewProductRepository construye el adaptador.
func NewProductRepository(s *Store) *ProductRepo { return &ProductRepo{s: s} }

func (r *ProductRepo) Create(product *entity.Product) error {
	return r.s.update(func(doc *document) error {
		for _, p := range doc.Products {
			if p.Code == product.Code {
				return domain.ErrDuplicate
			}
		}
		doc.Products = append(doc.Products, clone(product))
		return nil
	})
}

func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.s.view(func(doc *document) error {
		out = clone(docProductByID(doc, id))
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetByCode(code string) (*entity.Product, error) {
	var out *entity.Product
	err := r.s.view(func(doc *document) error {
		for _, p := range doc.Products {
			if p.Code == code {
				out = clone(p)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) Update(product *entity.Product) error {
	return r.s.update(func(doc *document) error {
		for i, p := range doc.Products {
			if p.ID == product.ID {
				// El stock cacheado solo se muta vía UpdateStock.
				product.Stock = p.Stock
				doc.Products[i] = clone(product)
				return nil
			}
		}
		return nil
	})
}

func (r *ProductRepo) UpdateStock(productID string, stock int64) error {
	return r.s.update(func(doc *document) error {
		if p := docProductByID(doc, productID); p != nil {
			p.Stock = stock
		}
		return nil
	})
}

func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.s.view(func(doc *document) error {
		out = paginate(doc.Products, limit, offset)
		return nil
	})
	return out, err
}

func (r *ProductRepo) Delete(id string) error {
	return r.s.update(func(doc *document) error {
		for i, p := range doc.Products {
			if p.ID == id {
				doc.Products = append(doc.Products[:i], doc.Products[i+1:]...)
				return nil
			}
		}
		return nil
	})
}

// ── OrderRepo y SaleRepo ─────────────────────────────────────────────────────

// OrderRepo implementación de OrderRepository sobre el archivo.
type OrderRepo struct{ s *Store }

// NewOrderRepository construye el adaptador.
func NewOrderRepository(s *Store) *OrderRepo { return &OrderRepo{s: s} }

func (r *OrderRepo) Create(order *entity.Order) error {
	return r.s.update(func(doc *document) error {
		doc.Orders = append(doc.Orders, clone(order))
		return nil
	})
}

func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	var out *entity.Order
	err := r.s.view(func(doc *document) error {
		out = clone(docOrderByID(doc, id))
		return nil
	})
	return out, err
}

func (r *OrderRepo) UpdateStatus(id, status string) error {
	return r.s.update(func(doc *document) error {
		return docUpdateOrderStatus(doc, id, status)
	})
}

func (r *OrderRepo) List(employeeID, status string, limit, offset int) ([]*entity.Order, error) {
	var out []*entity.Order
	err := r.s.view(func(doc *document) error {
		filtered := make([]*entity.Order, 0, len(doc.Orders))
		for _, o := range doc.Orders {
			if employeeID != "" && o.EmployeeID != employeeID {
				continue
			}
			if status != "" && o.Status != status {
				continue
			}
			filtered = append(filtered, o)
		}
		out = paginate(filtered, limit, offset)
		return nil
	})
	return out, err
}

// docUpdateOrderStatus transiciona solo pedidos pending: fulfilled y
// cancelled son terminales y un segundo intento devuelve ErrConflict.
func docUpdateOrderStatus(doc *document, id, status string) error {
	o := docOrderByID(doc, id)
	if o == nil {
		return domain.ErrNotFound
	}
	if o.Status != entity.OrderStatusPending {
		return domain.ErrConflict
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	return nil
}

// SaleRepo implementación de SaleRepository sobre el archivo.
type SaleRepo struct{ s *Store }

// NewSaleRepository construye el adaptador.
func NewSaleRepository(s *Store) *SaleRepo { return &SaleRepo{s: s} }

func (r *SaleRepo) Create(sale *entity.Sale) error {
	return r.s.update(func(doc *document) error {
		doc.Sales = append(doc.Sales, clone(sale))
		return nil
	})
}

func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.s.view(func(doc *document) error {
		for _, s := range doc.Sales {
			if s.ID == id {
				out = clone(s)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *SaleRepo) List(employeeID string, limit, offset int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	err := r.s.view(func(doc *document) error {
		filtered := make([]*entity.Sale, 0, len(doc.Sales))
		for _, s := range doc.Sales {
			if employeeID != "" && s.EmployeeID != employeeID {
				continue
			}
			filtered = append(filtered, s)
		}
		out = paginate(filtered, limit, offset)
		return nil
	})
	return out, err
}

// ── MovementRepo ─────────────────────────────────────────────────────────────

// MovementRepo implementación del ledger append-only sobre el archivo.
type MovementRepo struct{ s *Store }

// NewMovementRepository construye el adaptador.
func NewMovementRepository(s *Store) *MovementRepo { return &MovementRepo{s: s} }

func (r *MovementRepo) Create(movement *entity.InventoryMovement) error {
	return r.s.update(func(doc *document) error {
		doc.InventoryMovements = append(doc.InventoryMovements, clone(movement))
		return nil
	})
}

func (r *MovementRepo) ListByProduct(productID string, limit, offset int) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	err := r.s.view(func(doc *document) error {
		out = docMovementsByProduct(doc, productID, limit, offset)
		return nil
	})
	return out, err
}

func (r *MovementRepo) DeltaSums() (map[string]int64, error) {
	var out map[string]int64
	err := r.s.view(func(doc *document) error {
		out = docDeltaSums(doc)
		return nil
	})
	return out, err
}

func docMovementsByProduct(doc *document, productID string, limit, offset int) []*entity.InventoryMovement {
	filtered := make([]*entity.InventoryMovement, 0, len(doc.InventoryMovements))
	// Más recientes primero: el ledger se guarda en orden de inserción.
	for i := len(doc.InventoryMovements) - 1; i >= 0; i-- {
		m := doc.InventoryMovements[i]
		if productID != "" && m.ProductID != productID {
			continue
		}
		filtered = append(filtered, m)
	}
	return paginate(filtered, limit, offset)
}

func docDeltaSums(doc *document) map[string]int64 {
	sums := make(map[string]int64, len(doc.Products))
	for _, m := range doc.InventoryMovements {
		sums[m.ProductID] += m.Delta
	}
	return sums
}
