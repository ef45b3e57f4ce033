// Package report expone los reportes derivados del historial de ventas:
// agregado por producto, dashboard de KPIs y exportaciones CSV/PDF. Nada se
// persiste: cada consulta repliega el historial completo.
package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/dto"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain/entity"
	domreport "github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain/report"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain/repository"
)

// PDFRenderer genera el documento PDF del reporte por producto.
type PDFRenderer interface {
	Render(rows []domreport.Row, generatedAt time.Time) ([]byte, error)
}

// UseCase arma los reportes leyendo ventas y productos del usuario y
// delegando los cálculos en las funciones puras de dominio.
type UseCase struct {
	saleRepo       repository.SaleRepository
	productRepo    repository.ProductRepository
	pdf            PDFRenderer
	stockThreshold int64
	now            func() time.Time
}

// NewUseCase construye el caso de uso. threshold es el umbral de stock
// crítico del dashboard (estrictamente menor).
func NewUseCase(saleRepo repository.SaleRepository, productRepo repository.ProductRepository, pdf PDFRenderer, threshold int64) *UseCase {
	return &UseCase{
		saleRepo:       saleRepo,
		productRepo:    productRepo,
		pdf:            pdf,
		stockThreshold: threshold,
		now:            time.Now,
	}
}

// ByProduct devuelve el reporte agregado por producto del usuario.
func (uc *UseCase) ByProduct(ctx context.Context, userID string) (*dto.ReportResponse, error) {
	rows, err := uc.rows(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := &dto.ReportResponse{Rows: make([]dto.ReportRowResponse, 0, len(rows))}
	for _, row := range rows {
		resp.Rows = append(resp.Rows, dto.ReportRowResponse{
			ProductID:   row.ProductID,
			Name:        row.Name,
			UnitsSold:   row.UnitsSold,
			TotalSales:  row.TotalSales,
			TotalProfit: row.TotalProfit,
		})
	}
	return resp, nil
}

// Dashboard arma los KPIs: ventas/ganancia de hoy, ganancia de la semana (que
// empieza el domingo) y del mes, la serie semanal por día, stock crítico y
// balance por categoría.
func (uc *UseCase) Dashboard(ctx context.Context, userID string) (*dto.DashboardResponse, error) {
	sales, err := uc.saleRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	products, err := uc.productRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	deref := make([]entity.Sale, 0, len(sales))
	for _, s := range sales {
		deref = append(deref, *s)
	}
	totals := domreport.BucketByPeriod(deref, uc.now())

	derefP := make([]entity.Product, 0, len(products))
	for _, p := range products {
		derefP = append(derefP, *p)
	}
	critical := domreport.CriticalStock(derefP, uc.stockThreshold)
	shares := domreport.StockByCategory(derefP)

	resp := &dto.DashboardResponse{
		TodaySales:    totals.TodaySales,
		TodayProfit:   totals.TodayProfit,
		WeekProfit:    totals.WeekProfit,
		MonthProfit:   totals.MonthProfit,
		WeekdayProfit: totals.WeekdayProfit[:],
		CriticalStock: make([]dto.CriticalStockItem, 0, len(critical)),
		Categories:    make([]dto.CategoryShareResponse, 0, len(shares)),
	}
	for _, p := range critical {
		resp.CriticalStock = append(resp.CriticalStock, dto.CriticalStockItem{
			ProductID: p.ID, Name: p.Name, Stock: p.Stock,
		})
	}
	for _, s := range shares {
		resp.Categories = append(resp.Categories, dto.CategoryShareResponse{
			Category: s.Category, Units: s.Units, Percent: s.Percent,
		})
	}
	return resp, nil
}

// ExportCSV serializa el reporte por producto como CSV con cabecera fija y
// montos con dos decimales.
func (uc *UseCase) ExportCSV(ctx context.Context, userID string) ([]byte, error) {
	rows, err := uc.rows(ctx, userID)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Name", "UnitsSold", "TotalSales", "TotalProfit"}); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.Name,
			fmt.Sprintf("%d", row.UnitsSold),
			row.TotalSales.StringFixed(2),
			row.TotalProfit.StringFixed(2),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportPDF genera el documento PDF del reporte por producto.
func (uc *UseCase) ExportPDF(ctx context.Context, userID string) ([]byte, error) {
	rows, err := uc.rows(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.pdf.Render(rows, uc.now())
}

func (uc *UseCase) rows(ctx context.Context, userID string) ([]domreport.Row, error) {
	sales, err := uc.saleRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	deref := make([]entity.Sale, 0, len(sales))
	for _, s := range sales {
		deref = append(deref, *s)
	}
	return domreport.AggregateByProduct(deref), nil
}
