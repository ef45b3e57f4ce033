package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados.
const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
)

// ValidPaymentMethod indica si el método de pago está en el catálogo.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer:
		return true
	}
	return false
}

// Sale representa una venta confirmada. Inmutable: nunca se actualiza,
// solo se elimina en bloque por el reinicio administrativo por fecha.
type Sale struct {
	ID            string
	UserID        string
	Items         []SaleItem
	Total         decimal.Decimal
	Profit        decimal.Decimal
	PaymentMethod string
	Date          time.Time // asignada por el servidor al confirmar
	CreatedAt     time.Time
}

// SaleItem es una línea de venta. Name, UnitPrice y UnitCost son snapshots
// tomados al agregar el producto al carrito; un rename o cambio de precio
// posterior no altera ventas ya registradas.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	Name      string
	Quantity  int64
	UnitPrice decimal.Decimal
	UnitCost  decimal.Decimal
}

// Subtotal de la línea: cantidad × precio unitario.
func (i SaleItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}

// LineProfit ganancia de la línea: cantidad × (precio − costo).
func (i SaleItem) LineProfit() decimal.Decimal {
	return i.UnitPrice.Sub(i.UnitCost).Mul(decimal.NewFromInt(i.Quantity))
}
