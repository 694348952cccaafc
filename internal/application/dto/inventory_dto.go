package dto

import "time"

// RegisterMovementRequest entrada para registrar un movimiento de inventario.
// Delta con signo: positivo entrada, negativo salida.
type RegisterMovementRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Delta     int64  `json:"delta" validate:"required"`
	Reason    string `json:"reason" validate:"required,min=1,max=100"`
}

// MovementResponse salida de una entrada del ledger.
type MovementResponse struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"product_id"`
	Delta      int64     `json:"delta"`
	Reason     string    `json:"reason"`
	EmployeeID string    `json:"actor_employee_id"`
	CreatedAt  time.Time `json:"timestamp"`
}

// MovementListResponse listado paginado de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ReconcileEntry discrepancia (o coincidencia) entre stock cacheado y ledger.
type ReconcileEntry struct {
	ProductID   string `json:"product_id"`
	ProductCode string `json:"product_code"`
	Cached      int64  `json:"cached_stock"`
	LedgerSum   int64  `json:"ledger_sum"`
	Consistent  bool   `json:"consistent"`
}

// ReconcileResponse resultado de la conciliación stock vs ledger.
type ReconcileResponse struct {
	Consistent bool             `json:"consistent"`
	Entries    []ReconcileEntry `json:"entries"`
}
