package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/report"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain/entity"
	domreport "github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain/report"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/infrastructure/memory"
)

const testUserID = "user-1"

type pdfStub struct{ called bool }

func (p *pdfStub) Render(rows []domreport.Row, _ time.Time) ([]byte, error) {
	p.called = true
	return []byte("%PDF-stub"), nil
}

func seedSale(t *testing.T, store *memory.Store, date time.Time, items ...entity.SaleItem) {
	t.Helper()
	var total, profit decimal.Decimal
	for _, it := range items {
		total = total.Add(it.Subtotal())
		profit = profit.Add(it.LineProfit())
	}
	s := &entity.Sale{
		ID: "sale-" + date.Format("20060102150405.000000000"), UserID: testUserID,
		Items: items, Total: total, Profit: profit,
		PaymentMethod: entity.PaymentCash, Date: date, CreatedAt: date,
	}
	require.NoError(t, store.Sales().Create(s))
}

func item(productID, name string, qty int64, price, cost float64) entity.SaleItem {
	return entity.SaleItem{
		ID: productID + "-" + name, ProductID: productID, Name: name, Quantity: qty,
		UnitPrice: decimal.NewFromFloat(price), UnitCost: decimal.NewFromFloat(cost),
	}
}

func TestByProduct_AgrupaLineasDeVariasVentas(t *testing.T) {
	store := memory.NewStore()
	now := time.Now()
	seedSale(t, store, now, item("p1", "Gaseosa", 2, 5, 2))
	seedSale(t, store, now.Add(time.Minute), item("p1", "Gaseosa", 3, 5, 2), item("p2", "Alfajor", 1, 3, 1))

	uc := report.NewUseCase(store.Sales(), store.Products(), &pdfStub{}, 5)
	resp, err := uc.ByProduct(context.Background(), testUserID)
	require.NoError(t, err)
	require.Len(t, resp.Rows, 2)

	// Orden estable por nombre.
	assert.Equal(t, "Alfajor", resp.Rows[0].Name)
	assert.Equal(t, "Gaseosa", resp.Rows[1].Name)
	assert.Equal(t, int64(5), resp.Rows[1].UnitsSold)
	assert.True(t, resp.Rows[1].TotalSales.Equal(decimal.NewFromInt(25)))
	assert.True(t, resp.Rows[1].TotalProfit.Equal(decimal.NewFromInt(15)))
}

func TestDashboard_KPIsYStockCritico(t *testing.T) {
	store := memory.NewStore()
	now := time.Now()
	seedSale(t, store, now, item("p1", "Gaseosa", 2, 5, 2))

	require.NoError(t, store.Products().Create(&entity.Product{
		ID: "p1", UserID: testUserID, Name: "Gaseosa", Category: "Bebidas", Stock: 3,
	}))
	require.NoError(t, store.Products().Create(&entity.Product{
		ID: "p2", UserID: testUserID, Name: "Alfajor", Category: "Golosinas", Stock: 9,
	}))

	uc := report.NewUseCase(store.Sales(), store.Products(), &pdfStub{}, 5)
	resp, err := uc.Dashboard(context.Background(), testUserID)
	require.NoError(t, err)

	assert.True(t, resp.TodaySales.Equal(decimal.NewFromInt(10)))
	assert.True(t, resp.TodayProfit.Equal(decimal.NewFromInt(6)))
	require.Len(t, resp.WeekdayProfit, 7)
	assert.True(t, resp.WeekdayProfit[int(now.Weekday())].Equal(decimal.NewFromInt(6)))

	// Solo p1 está por debajo del umbral 5 (estricto).
	require.Len(t, resp.CriticalStock, 1)
	assert.Equal(t, "p1", resp.CriticalStock[0].ProductID)

	require.Len(t, resp.Categories, 2)
	assert.Equal(t, int64(3), resp.Categories[0].Units)
	assert.True(t, resp.Categories[0].Percent.Equal(decimal.NewFromInt(25)))
}

func TestExportCSV_CabeceraYMontosConDosDecimales(t *testing.T) {
	store := memory.NewStore()
	seedSale(t, store, time.Now(), item("p1", "Gaseosa", 2, 5.5, 2.25))

	uc := report.NewUseCase(store.Sales(), store.Products(), &pdfStub{}, 5)
	out, err := uc.ExportCSV(context.Background(), testUserID)
	require.NoError(t, err)

	assert.Equal(t, "Name,UnitsSold,TotalSales,TotalProfit\nGaseosa,2,11.00,6.50\n", string(out))
}

func TestExportCSV_SinVentasSoloCabecera(t *testing.T) {
	store := memory.NewStore()
	uc := report.NewUseCase(store.Sales(), store.Products(), &pdfStub{}, 5)

	out, err := uc.ExportCSV(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Equal(t, "Name,UnitsSold,TotalSales,TotalProfit\n", string(out))
}

func TestExportPDF_DelegaEnElRenderer(t *testing.T) {
	store := memory.NewStore()
	seedSale(t, store, time.Now(), item("p1", "Gaseosa", 1, 5, 2))
	stub := &pdfStub{}
	uc := report.NewUseCase(store.Sales(), store.Products(), stub, 5)

	out, err := uc.ExportPDF(context.Background(), testUserID)
	require.NoError(t, err)
	assert.True(t, stub.called)
	assert.Contains(t, string(out), "%PDF")
}
