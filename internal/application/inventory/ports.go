package inventory

import (
	"context"

	"github.com/andresvp/lubristock-api/internal/domain/repository"
)

// TxRunner ejecuta fn con repos atados a una unidad atómica de trabajo:
// transacción SQL en modo remoto, sección crítica sobre el documento en modo archivo.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}
