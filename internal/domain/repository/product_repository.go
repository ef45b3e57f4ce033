package repository

import "github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	Update(product *entity.Product) error
	ListByUser(userID string) ([]*entity.Product, error)
	Delete(id string) error
	// DecrementStock descuenta qty solo si el stock alcanza: la fila se
	// actualiza con la condición stock >= qty. Devuelve ErrOutOfStock si la
	// condición no se cumple y ErrNotFound si el producto no existe.
	// Dentro de una transacción, un error aquí aborta toda la venta.
	DecrementStock(productID string, qty int64) error
}
