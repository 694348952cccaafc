package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Prices tarifas de venta de un producto: contado/crédito por unidad o caja.
type Prices struct {
	CashUnit   decimal.Decimal `json:"cash_unit"`
	CashBox    decimal.Decimal `json:"cash_box"`
	CreditUnit decimal.Decimal `json:"credit_unit"`
	CreditBox  decimal.Decimal `json:"credit_box"`
}

// Niveles de precio válidos en pedidos.
const (
	PriceTierCashUnit   = "cash_unit"
	PriceTierCashBox    = "cash_box"
	PriceTierCreditUnit = "credit_unit"
	PriceTierCreditBox  = "credit_box"
)

// PriceFor devuelve el precio del nivel indicado; ok=false si el nivel no existe.
func (p Prices) PriceFor(tier string) (decimal.Decimal, bool) {
	switch tier {
	case PriceTierCashUnit:
		return p.CashUnit, true
	case PriceTierCashBox:
		return p.CashBox, true
	case PriceTierCreditUnit:
		return p.CreditUnit, true
	case PriceTierCreditBox:
		return p.CreditBox, true
	}
	return decimal.Zero, false
}

// Product representa un lubricante u otro producto del catálogo.
// Stock es un caché del total del ledger de movimientos: solo se muta a través
// de movimientos de inventario y debe conciliar con la suma del ledger.
type Product struct {
	ID        string          `json:"id"`
	Code      string          `json:"code"` // único
	Name      string          `json:"name"`
	Brand     string          `json:"brand"`
	Viscosity string          `json:"viscosity"` // ej. 20W-50
	Capacity  string          `json:"capacity"`  // ej. 1L, 1/4 gal
	Stock     int64           `json:"stock"`     // nunca negativo
	Cost      decimal.Decimal `json:"cost"`
	Prices    Prices          `json:"prices"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
