package dto

import "github.com/shopspring/decimal"

// CartItemRequest entrada para agregar/quitar un producto del carrito.
type CartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

// CartItemResponse una línea del carrito en borrador.
type CartItemResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Cost      decimal.Decimal `json:"cost"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// CartResponse el carrito completo con su total.
type CartResponse struct {
	Items []CartItemResponse `json:"items"`
	Total decimal.Decimal    `json:"total"`
}
