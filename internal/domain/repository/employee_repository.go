package repository

import "github.com/andresvp/lubristock-api/internal/domain/entity"

// EmployeeRepository define el puerto de persistencia para Employee (DIP).
// Las implementaciones devuelven (nil, nil) cuando el registro no existe.
type EmployeeRepository interface {
	Create(employee *entity.Employee) error
	GetByID(id string) (*entity.Employee, error)
	// GetByCode busca por employee_code con coincidencia exacta (case-sensitive).
	GetByCode(code string) (*entity.Employee, error)
	Update(employee *entity.Employee) error
	List(limit, offset int) ([]*entity.Employee, error)
}
