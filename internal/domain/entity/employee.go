package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Roles válidos para Employee. El rol determina por completo el alcance de
// autorización: no hay permisos por empleado.
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// Estados de cuenta. Los empleados nunca se borran en duro: se desactivan.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Employee representa un empleado del negocio (vendedor o administrador).
// Routes es la secuencia ordenada de rutas de venta asignadas;
// CommissionRate es la fracción decimal de comisión sobre cada venta.
type Employee struct {
	ID             string          `json:"id"`
	Code           string          `json:"employee_code"` // único, ej. ADMIN001
	Name           string          `json:"name"`
	Role           string          `json:"role"`
	Routes         []string        `json:"routes"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	PasswordHash   string          `json:"password_hash"` // bcrypt, nunca sale por la API
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// IsActive indica si la cuenta puede autenticarse y operar.
func (e *Employee) IsActive() bool {
	return e.Status == StatusActive
}
