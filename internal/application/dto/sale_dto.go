package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConfirmSaleRequest entrada para confirmar la venta en curso.
type ConfirmSaleRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=cash card transfer"`
}

// SaleItemResponse línea de una venta registrada (valores snapshot).
type SaleItemResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID            string             `json:"id"`
	Total         decimal.Decimal    `json:"total"`
	Profit        decimal.Decimal    `json:"profit"`
	PaymentMethod string             `json:"payment_method"`
	Date          time.Time          `json:"date"`
	Items         []SaleItemResponse `json:"items"`
}

// SaleListResponse historial de ventas (más recientes primero).
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
}

// ResetSalesRequest entrada del reinicio administrativo de ventas por fecha.
// Sin ConfirmToken la operación devuelve CONFIRMATION_REQUIRED con un token
// de un solo uso; reinvocar con el token ejecuta el borrado.
type ResetSalesRequest struct {
	Date         string `json:"date" validate:"omitempty,datetime=2006-01-02"` // vacío = hoy
	ConfirmToken string `json:"confirm_token"`
}

// ResetSalesResponse resultado del reinicio: cuántas ventas se eliminaron.
type ResetSalesResponse struct {
	Deleted int64  `json:"deleted"`
	Date    string `json:"date"`
}
