package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/dto"
	appreport "github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/report"
)

// ReportHandler maneja los endpoints de reportes y dashboard.
type ReportHandler struct {
	uc *appreport.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *appreport.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// ByProduct godoc
// @Summary      Reporte de ventas agregado por producto
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ReportResponse
// @Router       /api/reports/products [get]
func (h *ReportHandler) ByProduct(c *fiber.Ctx) error {
	out, err := h.uc.ByProduct(c.Context(), GetUserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Dashboard devuelve los KPIs: hoy/semana/mes, serie semanal, stock crítico y
// balance por categoría. Las fechas se calculan en el servidor.
// GET /api/reports/dashboard
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.uc.Dashboard(c.Context(), GetUserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// ExportCSV descarga el reporte por producto como CSV.
// GET /api/reports/products/csv
func (h *ReportHandler) ExportCSV(c *fiber.Ctx) error {
	out, err := h.uc.ExportCSV(c.Context(), GetUserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="reporte-ventas.csv"`)
	return c.Send(out)
}

// ExportPDF descarga el reporte por producto como PDF.
// GET /api/reports/products/pdf
func (h *ReportHandler) ExportPDF(c *fiber.Ctx) error {
	out, err := h.uc.ExportPDF(c.Context(), GetUserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="reporte-ventas.pdf"`)
	return c.Send(out)
}
