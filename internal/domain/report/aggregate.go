// Package report contiene la lógica pura de reportes: agregación de ventas
// por producto, cortes por período para el dashboard y stock crítico.
// Todas las funciones son deterministas sobre sus entradas, sin I/O.
package report

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain/entity"
)

// Row es la fila derivada del reporte por producto. No se persiste: se
// recalcula bajo demanda plegando el historial completo de ventas.
type Row struct {
	ProductID   string
	Name        string // nombre snapshot de las líneas (sobrevive renames y borrados)
	UnitsSold   int64
	TotalSales  decimal.Decimal
	TotalProfit decimal.Decimal
}

// AggregateByProduct pliega todas las líneas de todas las ventas en filas por
// producto. Una sola pasada; los totales son independientes del orden de las
// ventas. El nombre mostrado es el de la última línea vista para ese producto.
func AggregateByProduct(sales []entity.Sale) []Row {
	byProduct := make(map[string]*Row)
	var order []string
	for _, sale := range sales {
		for _, item := range sale.Items {
			row, ok := byProduct[item.ProductID]
			if !ok {
				row = &Row{
					ProductID:   item.ProductID,
					TotalSales:  decimal.Zero,
					TotalProfit: decimal.Zero,
				}
				byProduct[item.ProductID] = row
				order = append(order, item.ProductID)
			}
			row.Name = item.Name
			row.UnitsSold += item.Quantity
			row.TotalSales = row.TotalSales.Add(item.Subtotal())
			row.TotalProfit = row.TotalProfit.Add(item.LineProfit())
		}
	}
	rows := make([]Row, 0, len(order))
	for _, id := range order {
		rows = append(rows, *byProduct[id])
	}
	// Orden estable por nombre para que el reporte no dependa del orden de entrada.
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Name == rows[j].Name {
			return rows[i].ProductID < rows[j].ProductID
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}

// CriticalStock devuelve los productos con stock estrictamente menor al
// umbral, preservando el orden de entrada.
func CriticalStock(products []entity.Product, threshold int64) []entity.Product {
	var critical []entity.Product
	for _, p := range products {
		if p.Stock < threshold {
			critical = append(critical, p)
		}
	}
	return critical
}

// CategoryShare es el balance de stock de una categoría.
type CategoryShare struct {
	Category string
	Units    int64
	Percent  decimal.Decimal // participación sobre el stock total, 1 decimal
}

// StockByCategory agrupa el stock por categoría y calcula la participación
// porcentual de cada una. Las categorías salen en orden de primera aparición.
func StockByCategory(products []entity.Product) []CategoryShare {
	units := make(map[string]int64)
	var order []string
	var total int64
	for _, p := range products {
		if _, ok := units[p.Category]; !ok {
			order = append(order, p.Category)
		}
		units[p.Category] += p.Stock
		total += p.Stock
	}
	shares := make([]CategoryShare, 0, len(order))
	for _, cat := range order {
		share := CategoryShare{Category: cat, Units: units[cat], Percent: decimal.Zero}
		if total > 0 {
			share.Percent = decimal.NewFromInt(units[cat] * 100).
				Div(decimal.NewFromInt(total)).Round(1)
		}
		shares = append(shares, share)
	}
	return shares
}
