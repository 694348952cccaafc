package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de un pedido. pending es el único estado no
// terminal: un pedido finalizado o cancelado es inmutable.
const (
	OrderStatusPending   = "pending"
	OrderStatusFulfilled = "fulfilled"
	OrderStatusCancelled = "cancelled"
)

// OrderItem línea de pedido. UnitPrice se captura del nivel de precio del
// producto al crear el pedido; cambios posteriores de tarifa no lo afectan.
type OrderItem struct {
	ProductID   string          `json:"product_id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	PriceTier   string          `json:"price_tier"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// Order un pedido levantado por un empleado en ruta.
type Order struct {
	ID           string          `json:"id"`
	EmployeeID   string          `json:"employee_id"`
	CustomerName string          `json:"customer_name"`
	Route        string          `json:"route"`
	Items        []OrderItem     `json:"items"`
	Total        decimal.Decimal `json:"total"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Sale registro inmutable generado al finalizar un pedido. Commission es el
// monto ganado por el empleado según su commission_rate al momento de la venta.
type Sale struct {
	ID         string          `json:"id"`
	OrderID    string          `json:"order_id"`
	EmployeeID string          `json:"employee_id"`
	Items      []OrderItem     `json:"items"`
	Total      decimal.Decimal `json:"total"`
	Commission decimal.Decimal `json:"commission"`
	SoldAt     time.Time       `json:"sold_at"`
}
