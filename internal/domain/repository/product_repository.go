package repository

import "github.com/andresvp/lubristock-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByCode(code string) (*entity.Product, error)
	Update(product *entity.Product) error
	// UpdateStock actualiza solo el caché de stock; se invoca únicamente desde
	// el registro transaccional de movimientos, nunca desde handlers.
	UpdateStock(productID string, stock int64) error
	// List devuelve productos ordenados por código; limit <= 0 devuelve todos.
	List(limit, offset int) ([]*entity.Product, error)
	Delete(id string) error
}
