package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/cart"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/dto"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain/entity"
)

// CartHandler maneja el carrito en borrador del usuario autenticado.
type CartHandler struct {
	mgr *cart.Manager
}

// NewCartHandler construye el handler.
func NewCartHandler(mgr *cart.Manager) *CartHandler {
	return &CartHandler{mgr: mgr}
}

// Get devuelve el carrito actual del usuario.
// GET /api/cart
func (h *CartHandler) Get(c *fiber.Ctx) error {
	out, err := h.mgr.Get(c.Context(), GetUserID(c))
	if err != nil {
		return cartError(c, err)
	}
	return c.JSON(toCartResponse(out))
}

// AddItem godoc
// @Summary      Agregar una unidad de un producto al carrito
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CartItemRequest  true  "product_id"
// @Success      200   {object}  dto.CartResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cart/items [post]
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var in dto.CartItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id es requerido"})
	}
	out, err := h.mgr.AddItem(c.Context(), GetUserID(c), in.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		case errors.Is(err, domain.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el producto no pertenece al usuario"})
		case errors.Is(err, domain.ErrOutOfStock):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "OUT_OF_STOCK", Message: "no hay stock suficiente"})
		default:
			return cartError(c, err)
		}
	}
	return c.JSON(toCartResponse(out))
}

// RemoveItem quita la línea completa del producto. Quitar algo que no está es
// un no-op.
// DELETE /api/cart/items/:productId
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	productID := c.Params("productId")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "productId es requerido"})
	}
	out, err := h.mgr.RemoveItem(c.Context(), GetUserID(c), productID)
	if err != nil {
		return cartError(c, err)
	}
	return c.JSON(toCartResponse(out))
}

// cartError mapea los errores restantes del carrito: caché inaccesible es un
// 503 reintentable, el resto 500.
func cartError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrStoreUnavailable) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "STORE_UNAVAILABLE", Message: "la caché del carrito no está disponible"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// Clear vacía el carrito del usuario.
// DELETE /api/cart
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	if err := h.mgr.Clear(c.Context(), GetUserID(c)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func toCartResponse(c *entity.Cart) dto.CartResponse {
	resp := dto.CartResponse{
		Items: make([]dto.CartItemResponse, 0, len(c.Items)),
		Total: c.Total(),
	}
	for _, it := range c.Items {
		resp.Items = append(resp.Items, dto.CartItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Cost:      it.Cost,
			Subtotal:  it.Subtotal(),
		})
	}
	return resp
}
