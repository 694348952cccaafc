package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricesDTO tarifas de un producto.
type PricesDTO struct {
	CashUnit   decimal.Decimal `json:"cash_unit"`
	CashBox    decimal.Decimal `json:"cash_box"`
	CreditUnit decimal.Decimal `json:"credit_unit"`
	CreditBox  decimal.Decimal `json:"credit_box"`
}

// CreateProductRequest entrada para crear un producto. Stock inicia en 0 y
// solo se mueve vía movimientos de inventario.
type CreateProductRequest struct {
	Code      string          `json:"code" validate:"required,min=1,max=50"`
	Name      string          `json:"name" validate:"required,min=1,max=200"`
	Brand     string          `json:"brand"`
	Viscosity string          `json:"viscosity"`
	Capacity  string          `json:"capacity"`
	Cost      decimal.Decimal `json:"cost"`
	Prices    PricesDTO       `json:"prices"`
}

// UpdateProductRequest campos opcionales a actualizar. No incluye Stock:
// el stock se maneja exclusivamente vía movimientos.
type UpdateProductRequest struct {
	Name      *string          `json:"name"`
	Brand     *string          `json:"brand"`
	Viscosity *string          `json:"viscosity"`
	Capacity  *string          `json:"capacity"`
	Cost      *decimal.Decimal `json:"cost"`
	Prices    *PricesDTO       `json:"prices"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID        string          `json:"id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand"`
	Viscosity string          `json:"viscosity"`
	Capacity  string          `json:"capacity"`
	Stock     int64           `json:"stock"`
	Cost      decimal.Decimal `json:"cost"`
	Prices    PricesDTO       `json:"prices"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ProductListResponse listado paginado de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
