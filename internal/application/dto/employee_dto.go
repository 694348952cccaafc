package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateEmployeeRequest entrada para crear un empleado (password en texto, se hashea en use case).
type CreateEmployeeRequest struct {
	Code           string          `json:"employee_code" validate:"required,min=3,max=20"`
	Name           string          `json:"name" validate:"required,min=1,max=200"`
	Password       string          `json:"password" validate:"required,min=8"`
	Role           string          `json:"role" validate:"required,oneof=admin employee"`
	Routes         []string        `json:"routes"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
}

// UpdateEmployeeRequest campos opcionales a actualizar. Password no-nil
// restablece la contraseña (solo admin).
type UpdateEmployeeRequest struct {
	Name           *string          `json:"name"`
	Role           *string          `json:"role" validate:"omitempty,oneof=admin employee"`
	Routes         *[]string        `json:"routes"`
	CommissionRate *decimal.Decimal `json:"commission_rate"`
	Status         *string          `json:"status" validate:"omitempty,oneof=active inactive"`
	Password       *string          `json:"password" validate:"omitempty,min=8"`
}

// EmployeeResponse salida de un empleado (sin password_hash).
type EmployeeResponse struct {
	ID             string          `json:"id"`
	Code           string          `json:"employee_code"`
	Name           string          `json:"name"`
	Role           string          `json:"role"`
	Routes         []string        `json:"routes"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// EmployeeListResponse listado paginado de empleados.
type EmployeeListResponse struct {
	Items []EmployeeResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
