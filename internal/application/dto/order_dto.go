package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea de pedido: producto, cantidad y nivel de precio.
type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int64  `json:"quantity" validate:"required,min=1"`
	PriceTier string `json:"price_tier" validate:"required,oneof=cash_unit cash_box credit_unit credit_box"`
}

// CreateOrderRequest entrada para levantar un pedido.
type CreateOrderRequest struct {
	CustomerName string             `json:"customer_name"`
	Route        string             `json:"route"`
	Items        []OrderItemRequest `json:"items" validate:"required,min=1"`
}

// UpdateOrderStatusRequest transición de estado de un pedido.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=fulfilled cancelled"`
}

// OrderItemResponse línea de pedido con el precio capturado.
type OrderItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	PriceTier   string          `json:"price_tier"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID           string              `json:"id"`
	EmployeeID   string              `json:"employee_id"`
	CustomerName string              `json:"customer_name"`
	Route        string              `json:"route"`
	Items        []OrderItemResponse `json:"items"`
	Total        decimal.Decimal     `json:"total"`
	Status       string              `json:"status"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// OrderListResponse listado paginado de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// SaleResponse salida de una venta finalizada.
type SaleResponse struct {
	ID         string              `json:"id"`
	OrderID    string              `json:"order_id"`
	EmployeeID string              `json:"employee_id"`
	Items      []OrderItemResponse `json:"items"`
	Total      decimal.Decimal     `json:"total"`
	Commission decimal.Decimal     `json:"commission"`
	SoldAt     time.Time           `json:"sold_at"`
}

// SaleListResponse listado paginado de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
