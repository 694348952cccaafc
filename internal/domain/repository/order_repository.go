package repository

import "github.com/andresvp/lubristock-api/internal/domain/entity"

// OrderRepository define el puerto de persistencia para Order.
type OrderRepository interface {
	Create(order *entity.Order) error
	GetByID(id string) (*entity.Order, error)
	// UpdateStatus transiciona un pedido pending al estado dado. Solo pending
	// admite transición: sobre un pedido ya finalizado o cancelado devuelve
	// domain.ErrConflict, y domain.ErrNotFound si no existe. No permite
	// modificar líneas: un pedido es inmutable salvo su transición de estado.
	UpdateStatus(id, status string) error
	// List filtra por empleado y/o estado; cadenas vacías no filtran.
	List(employeeID, status string, limit, offset int) ([]*entity.Order, error)
}

// SaleRepository define el puerto de persistencia para Sale (solo inserción y lectura).
type SaleRepository interface {
	Create(sale *entity.Sale) error
	GetByID(id string) (*entity.Sale, error)
	List(employeeID string, limit, offset int) ([]*entity.Sale, error)
}
