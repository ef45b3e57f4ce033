// Package cart implementa el Draft Cart Manager: la única venta en curso de
// cada sesión, persistida en la caché local para que una recarga o un
// reinicio no pierdan el borrador.
package cart

import (
	"context"
	"fmt"

	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain/entity"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain/repository"
)

// Manager mantiene el carrito en borrador. Valida cada alta/incremento contra
// el stock vivo del producto y persiste después de cada mutación.
type Manager struct {
	store       Store
	productRepo repository.ProductRepository
}

// NewManager construye el manager.
func NewManager(store Store, productRepo repository.ProductRepository) *Manager {
	return &Manager{store: store, productRepo: productRepo}
}

// Get carga el carrito persistido del usuario. El Store ya resuelve clave
// ausente o valor corrupto como carrito vacío; un error aquí significa caché
// inaccesible y debe surgir como tal, no como carrito vacío (eso confirmaría
// una venta vacía o pisaría el borrador persistido).
func (m *Manager) Get(ctx context.Context, userID string) (*entity.Cart, error) {
	c, err := m.store.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if c == nil {
		return &entity.Cart{}, nil
	}
	return c, nil
}

// AddItem agrega una unidad del producto al carrito. Si el producto no está,
// crea la línea con cantidad 1 y snapshots de precio/costo actuales; si ya
// está, incrementa solo mientras la nueva cantidad no supere el stock vivo.
// Con stock insuficiente devuelve ErrOutOfStock y deja el carrito intacto.
func (m *Manager) AddItem(ctx context.Context, userID, productID string) (*entity.Cart, error) {
	product, err := m.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.UserID != userID {
		return nil, domain.ErrForbidden
	}
	if product.Stock <= 0 {
		return nil, domain.ErrOutOfStock
	}

	c, err := m.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if line := c.Find(productID); line != nil {
		if line.Quantity+1 > product.Stock {
			return nil, domain.ErrOutOfStock
		}
		line.Quantity++
	} else {
		c.Items = append(c.Items, entity.CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  1,
			Price:     product.Price,
			Cost:      product.Cost,
		})
	}
	if err := m.store.Save(ctx, userID, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveItem quita la línea del producto. No es error si no está en el carrito.
func (m *Manager) RemoveItem(ctx context.Context, userID, productID string) (*entity.Cart, error) {
	c, err := m.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.Remove(productID)
	if err := m.store.Save(ctx, userID, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Clear vacía el carrito y persiste el estado vacío. Se invoca tras una
// confirmación de venta exitosa.
func (m *Manager) Clear(ctx context.Context, userID string) error {
	return m.store.Save(ctx, userID, &entity.Cart{})
}
