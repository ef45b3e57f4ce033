package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del kiosco. Stock se descuenta únicamente
// al confirmar una venta; Cost y Price son montos de moneda (2 decimales en display).
type Product struct {
	ID        string
	UserID    string // dueño del catálogo: cada usuario tiene sus productos aislados
	Name      string
	Category  string
	Stock     int64 // entero no negativo
	Cost      decimal.Decimal
	Price     decimal.Decimal
	ImageURL  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
