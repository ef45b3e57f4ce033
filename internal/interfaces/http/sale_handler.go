package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/dto"
	appsale "github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/sale"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain"
)

// SaleHandler maneja la confirmación de ventas, el historial y el reinicio
// administrativo.
type SaleHandler struct {
	confirmUC *appsale.ConfirmSaleUseCase
	resetUC   *appsale.ResetSalesUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(confirmUC *appsale.ConfirmSaleUseCase, resetUC *appsale.ResetSalesUseCase) *SaleHandler {
	return &SaleHandler{confirmUC: confirmUC, resetUC: resetUC}
}

// Confirm godoc
// @Summary      Confirmar la venta en curso (carrito completo, todo o nada)
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConfirmSaleRequest  true  "payment_method: cash|card|transfer"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Confirm(c *fiber.Ctx) error {
	var in dto.ConfirmSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.confirmUC.ConfirmSale(c.Context(), GetUserID(c), in.PaymentMethod)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "payment_method debe ser cash, card o transfer"})
		case errors.Is(err, domain.ErrEmptyCart):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "EMPTY_CART", Message: "el carrito está vacío"})
		case errors.Is(err, domain.ErrReconciliationFailed):
			// El carrito quedó intacto; el cliente puede reintentar.
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "RECONCILIATION_FAILED", Message: err.Error()})
		case errors.Is(err, domain.ErrStoreUnavailable):
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "STORE_UNAVAILABLE", Message: "la caché del carrito no está disponible"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List devuelve el historial de ventas del usuario, más recientes primero.
// GET /api/sales
func (h *SaleHandler) List(c *fiber.Ctx) error {
	out, err := h.confirmUC.List(c.Context(), GetUserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// GetByID devuelve una venta del usuario con sus líneas.
// GET /api/sales/:id
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.confirmUC.GetByID(c.Context(), GetUserID(c), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "venta no encontrada"})
		case errors.Is(err, domain.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "la venta no pertenece al usuario"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}
	return c.JSON(out)
}

// Reset godoc
// @Summary      Reinicio administrativo: eliminar las ventas de un día (requiere confirmación)
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ResetSalesRequest  true  "date (YYYY-MM-DD, vacío = hoy) y confirm_token"
// @Success      200   {object}  dto.ResetSalesResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/sales/reset [post]
func (h *SaleHandler) Reset(c *fiber.Ctx) error {
	var in dto.ResetSalesRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	day := time.Now()
	if in.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", in.Date, time.Local)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date debe tener formato YYYY-MM-DD"})
		}
		day = parsed
	}
	res, err := h.resetUC.Reset(c.Context(), GetUserID(c), day, in.ConfirmToken)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "INVALID_CONFIRM_TOKEN", Message: "token de confirmación inválido o vencido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if res.Pending != nil {
		return c.JSON(dto.ConfirmationRequiredResponse{
			Code:         "CONFIRMATION_REQUIRED",
			Message:      "reinvocar con confirm_token para eliminar las ventas del día " + res.Day.Format("2006-01-02"),
			ConfirmToken: res.Pending.Token,
			ExpiresInSec: int(res.Pending.ExpiresIn.Seconds()),
		})
	}
	return c.JSON(dto.ResetSalesResponse{Deleted: res.Deleted, Date: res.Day.Format("2006-01-02")})
}
