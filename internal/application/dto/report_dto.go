package dto

import "github.com/shopspring/decimal"

// ReportRowResponse fila del reporte por producto (derivada, no persistida).
type ReportRowResponse struct {
	ProductID   string          `json:"product_id"`
	Name        string          `json:"name"`
	UnitsSold   int64           `json:"units_sold"`
	TotalSales  decimal.Decimal `json:"total_sales"`
	TotalProfit decimal.Decimal `json:"total_profit"`
}

// ReportResponse reporte completo por producto.
type ReportResponse struct {
	Rows []ReportRowResponse `json:"rows"`
}

// DashboardResponse KPIs del dashboard: cortes de hoy/semana/mes, la serie
// semanal por día, stock crítico y balance por categoría.
type DashboardResponse struct {
	TodaySales    decimal.Decimal         `json:"today_sales"`
	TodayProfit   decimal.Decimal         `json:"today_profit"`
	WeekProfit    decimal.Decimal         `json:"week_profit"`
	MonthProfit   decimal.Decimal         `json:"month_profit"`
	WeekdayProfit []decimal.Decimal       `json:"weekday_profit"` // domingo primero, 7 valores
	CriticalStock []CriticalStockItem     `json:"critical_stock"`
	Categories    []CategoryShareResponse `json:"categories"`
}

// CriticalStockItem producto por debajo del umbral de stock.
type CriticalStockItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Stock     int64  `json:"stock"`
}

// CategoryShareResponse balance de stock de una categoría.
type CategoryShareResponse struct {
	Category string          `json:"category"`
	Units    int64           `json:"units"`
	Percent  decimal.Decimal `json:"percent"`
}
