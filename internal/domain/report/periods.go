package report

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain/entity"
)

// PeriodTotals son los cortes de ganancia del dashboard. Una venta suma su
// ganancia a todos los períodos que la contienen (hoy ⊂ semana ⊂ mes cuando
// los rangos se solapan).
type PeriodTotals struct {
	TodaySales    decimal.Decimal
	TodayProfit   decimal.Decimal
	WeekProfit    decimal.Decimal
	MonthProfit   decimal.Decimal
	WeekdayProfit [7]decimal.Decimal // domingo=0 ... sábado=6, semana en curso
}

// BucketByPeriod particiona las ventas contra los límites de período derivados
// de now: medianoche para "hoy", el domingo más reciente para "semana" y el
// primero del mes para "mes". Función pura: mismo resultado para las mismas
// entradas.
func BucketByPeriod(sales []entity.Sale, now time.Time) PeriodTotals {
	todayStart := StartOfDay(now)
	weekStart := StartOfWeek(now)
	monthStart := StartOfMonth(now)

	totals := PeriodTotals{
		TodaySales:  decimal.Zero,
		TodayProfit: decimal.Zero,
		WeekProfit:  decimal.Zero,
		MonthProfit: decimal.Zero,
	}
	for i := range totals.WeekdayProfit {
		totals.WeekdayProfit[i] = decimal.Zero
	}

	for _, sale := range sales {
		if !sale.Date.Before(todayStart) {
			totals.TodaySales = totals.TodaySales.Add(sale.Total)
			totals.TodayProfit = totals.TodayProfit.Add(sale.Profit)
		}
		if !sale.Date.Before(weekStart) {
			totals.WeekProfit = totals.WeekProfit.Add(sale.Profit)
			day := int(sale.Date.In(now.Location()).Weekday())
			totals.WeekdayProfit[day] = totals.WeekdayProfit[day].Add(sale.Profit)
		}
		if !sale.Date.Before(monthStart) {
			totals.MonthProfit = totals.MonthProfit.Add(sale.Profit)
		}
	}
	return totals
}

// StartOfDay devuelve la medianoche local del día de t.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek devuelve la medianoche del domingo más reciente. La semana del
// dashboard empieza en domingo.
func StartOfWeek(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, -int(t.Weekday()))
}

// StartOfMonth devuelve la medianoche del primer día del mes de t.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
