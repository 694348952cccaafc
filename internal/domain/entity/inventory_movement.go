package entity

import "time"

// Razones predefinidas de movimiento. Reason es texto libre pero estas
// constantes cubren los flujos del sistema.
const (
	MovementReasonPurchase   = "purchase"   // compra a proveedor
	MovementReasonSale       = "sale"       // salida por venta finalizada
	MovementReasonAdjustment = "adjustment" // ajuste por conteo físico
	MovementReasonReturn     = "return"     // devolución de cliente
)

// InventoryMovement entrada del ledger append-only de inventario.
// El stock de un producto es la suma corrida de los Delta de sus movimientos;
// el valor cacheado en Product.Stock debe conciliar siempre con esa suma.
type InventoryMovement struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"product_id"`
	Delta      int64     `json:"delta"` // con signo: entrada positiva, salida negativa
	Reason     string    `json:"reason"`
	EmployeeID string    `json:"actor_employee_id"`
	CreatedAt  time.Time `json:"timestamp"`
}
