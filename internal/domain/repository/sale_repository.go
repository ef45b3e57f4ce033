package repository

import (
	"time"

	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para Sale. Las ventas son
// inmutables: no hay Update; solo creación y borrado en bloque por rango.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateItem(item *entity.SaleItem) error
	GetByID(id string) (*entity.Sale, error)
	// ListByUser devuelve las ventas del usuario (más recientes primero) con
	// sus líneas cargadas. El agregador de reportes pliega sobre esta lista.
	ListByUser(userID string) ([]*entity.Sale, error)
	// DeleteByDateRange elimina las ventas del usuario con fecha en [from, to)
	// y devuelve cuántas se eliminaron. Usado por el reinicio administrativo.
	DeleteByDateRange(userID string, from, to time.Time) (int64, error)
}
