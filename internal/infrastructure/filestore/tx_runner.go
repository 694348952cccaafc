package filestore

import (
	"context"

	"github.com/andresvp/lubristock-api/internal/application/inventory"
	"github.com/andresvp/lubristock-api/internal/application/sales"
	"github.com/andresvp/lubristock-api/internal/domain/entity"
	"github.com/andresvp/lubristock-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)
var _ sales.TxRunner = (*TxRunner)(nil)

// TxRunner unidad atómica sobre el documento: toma el mutex, carga el
// documento una sola vez, ejecuta fn con repos atados a esa copia en memoria
// y persiste con rename atómico solo si fn no falla. Si fn falla no se
// escribe nada (rollback implícito).
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner con el Store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run implementa inventory.TxRunner.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.s.update(func(doc *document) error {
		return fn(&txMovementRepo{doc: doc}, &txProductRepo{doc: doc})
	})
}

// RunSale implementa sales.TxRunner.
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	saleRepo repository.SaleRepository,
) error) error {
	return r.s.update(func(doc *document) error {
		return fn(
			&txMovementRepo{doc: doc},
			&txProductRepo{doc: doc},
			&txOrderRepo{doc: doc},
			&txSaleRepo{doc: doc},
		)
	})
}

// Repos transaccionales: mismas operaciones que los públicos pero sobre el
// documento ya cargado, sin tomar el mutex (lo sostiene el runner).

type txProductRepo struct{ doc *document }

func (r *txProductRepo) Create(product *entity.Product) error {
	r.doc.Products = append(r.doc.Products, clone(product))
	return nil
}

func (r *txProductRepo) GetByID(id string) (*entity.Product, error) {
	return clone(docProductByID(r.doc, id)), nil
}

func (r *txProductRepo) GetByCode(code string) (*entity.Product, error) {
	for _, p := range r.doc.Products {
		if p.Code == code {
			return clone(p), nil
		}
	}
	return nil, nil
}

func (r *txProductRepo) Update(product *entity.Product) error {
	for i, p := range r.doc.Products {
		if p.ID == product.ID {
			product.Stock = p.Stock
			r.doc.Products[i] = clone(product)
			return nil
		}
	}
	return nil
}

func (r *txProductRepo) UpdateStock(productID string, stock int64) error {
	if p := docProductByID(r.doc, productID); p != nil {
		p.Stock = stock
	}
	return nil
}

func (r *txProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	return paginate(r.doc.Products, limit, offset), nil
}

func (r *txProductRepo) Delete(id string) error {
	for i, p := range r.doc.Products {
		if p.ID == id {
			r.doc.Products = append(r.doc.Products[:i], r.doc.Products[i+1:]...)
			return nil
		}
	}
	return nil
}

type txMovementRepo struct{ doc *document }

func (r *txMovementRepo) Create(movement *entity.InventoryMovement) error {
	r.doc.InventoryMovements = append(r.doc.InventoryMovements, clone(movement))
	return nil
}

func (r *txMovementRepo) ListByProduct(productID string, limit, offset int) ([]*entity.InventoryMovement, error) {
	return docMovementsByProduct(r.doc, productID, limit, offset), nil
}

func (r *txMovementRepo) DeltaSums() (map[string]int64, error) {
	return docDeltaSums(r.doc), nil
}

type txOrderRepo struct{ doc *document }

func (r *txOrderRepo) Create(order *entity.Order) error {
	r.doc.Orders = append(r.doc.Orders, clone(order))
	return nil
}

func (r *txOrderRepo) GetByID(id string) (*entity.Order, error) {
	return clone(docOrderByID(r.doc, id)), nil
}

func (r *txOrderRepo) UpdateStatus(id, status string) error {
	return docUpdateOrderStatus(r.doc, id, status)
}

func (r *txOrderRepo) List(employeeID, status string, limit, offset int) ([]*entity.Order, error) {
	filtered := make([]*entity.Order, 0, len(r.doc.Orders))
	for _, o := range r.doc.Orders {
		if employeeID != "" && o.EmployeeID != employeeID {
			continue
		}
		if status != "" && o.Status != status {
			continue
		}
		filtered = append(filtered, o)
	}
	return paginate(filtered, limit, offset), nil
}

type txSaleRepo struct{ doc *document }

func (r *txSaleRepo) Create(sale *entity.Sale) error {
	r.doc.Sales = append(r.doc.Sales, clone(sale))
	return nil
}

func (r *txSaleRepo) GetByID(id string) (*entity.Sale, error) {
	for _, s := range r.doc.Sales {
		if s.ID == id {
			return clone(s), nil
		}
	}
	return nil, nil
}

func (r *txSaleRepo) List(employeeID string, limit, offset int) ([]*entity.Sale, error) {
	filtered := make([]*entity.Sale, 0, len(r.doc.Sales))
	for _, s := range r.doc.Sales {
		if employeeID != "" && s.EmployeeID != employeeID {
			continue
		}
		filtered = append(filtered, s)
	}
	return paginate(filtered, limit, offset), nil
}
