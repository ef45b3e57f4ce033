package entity

import "github.com/shopspring/decimal"

// CartItem es una línea del carrito en borrador. Price y Cost son snapshots
// del producto al momento de agregarlo (no se re-leen al confirmar).
type CartItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Cost      decimal.Decimal `json:"cost"`
}

// Cart es la venta en curso de una sesión: aún no confirmada, persistida en
// la caché local para sobrevivir recargas/reinicios del proceso.
type Cart struct {
	Items []CartItem `json:"items"`
}

// Subtotal devuelve cantidad × precio snapshot de la línea.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(i.Quantity))
}

// IsEmpty indica si el carrito no tiene líneas.
func (c Cart) IsEmpty() bool { return len(c.Items) == 0 }

// Find devuelve un puntero a la línea del producto, o nil si no está.
func (c *Cart) Find(productID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// Remove elimina la línea del producto si existe; no es error si no está.
func (c *Cart) Remove(productID string) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// Total suma cantidad × precio de todas las líneas. Puro, sin efectos.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(it.Quantity)))
	}
	return total
}

// Profit suma cantidad × (precio − costo) de todas las líneas.
func (c Cart) Profit() decimal.Decimal {
	profit := decimal.Zero
	for _, it := range c.Items {
		profit = profit.Add(it.Price.Sub(it.Cost).Mul(decimal.NewFromInt(it.Quantity)))
	}
	return profit
}
