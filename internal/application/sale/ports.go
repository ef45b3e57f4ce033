package sale

import (
	"context"

	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción del almacén, pasando
// repositorios atados a esa transacción. El descuento de stock y el alta de la
// venta se confirman o rechazan como una unidad: el motor nunca aplica los dos
// efectos por separado ni reconcilia fallos parciales por su cuenta.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error) error
}
