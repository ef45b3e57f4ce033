package cart

import (
	"context"

	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain/entity"
)

// Store es la caché durable local del carrito en borrador: sobrevive
// reinicios del proceso y guarda el carrito como JSON bajo una clave fija
// por usuario. No es el almacén remoto de productos/ventas.
type Store interface {
	// Load devuelve el carrito persistido del usuario. Una clave ausente o un
	// valor corrupto se resuelven como carrito vacío, nunca como error fatal.
	Load(ctx context.Context, userID string) (*entity.Cart, error)
	// Save persiste el carrito completo del usuario.
	Save(ctx context.Context, userID string, c *entity.Cart) error
}
