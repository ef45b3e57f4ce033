package http

import (
	"bufio"
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/dto"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/state"
)

// EventsHandler expone el feed de snapshots como Server-Sent Events: el
// cliente recibe el estado completo al conectarse y uno nuevo tras cada
// mutación de productos o ventas.
type EventsHandler struct {
	feed *state.Feed
}

// NewEventsHandler construye el handler.
func NewEventsHandler(feed *state.Feed) *EventsHandler {
	return &EventsHandler{feed: feed}
}

// Subscribe abre el stream SSE del usuario autenticado.
// GET /api/events
func (h *EventsHandler) Subscribe(c *fiber.Ctx) error {
	userID := GetUserID(c)
	sub, err := h.feed.Subscribe(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer sub.Cancel()
		for snap := range sub.C {
			payload, err := json.Marshal(toSnapshotResponse(snap))
			if err != nil {
				return
			}
			fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", payload)
			// Un Flush fallido significa cliente desconectado.
			if err := w.Flush(); err != nil {
				return
			}
		}
	}))
	return nil
}

func toSnapshotResponse(snap *state.Snapshot) dto.SnapshotResponse {
	resp := dto.SnapshotResponse{
		Products: make([]dto.ProductResponse, 0, len(snap.Products)),
		Sales:    make([]dto.SaleResponse, 0, len(snap.Sales)),
		TakenAt:  snap.TakenAt,
	}
	for _, p := range snap.Products {
		resp.Products = append(resp.Products, dto.ProductResponse{
			ID:        p.ID,
			Name:      p.Name,
			Category:  p.Category,
			Stock:     p.Stock,
			Cost:      p.Cost,
			Price:     p.Price,
			ImageURL:  p.ImageURL,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		})
	}
	for _, s := range snap.Sales {
		sr := dto.SaleResponse{
			ID:            s.ID,
			Total:         s.Total,
			Profit:        s.Profit,
			PaymentMethod: s.PaymentMethod,
			Date:          s.Date,
			Items:         make([]dto.SaleItemResponse, 0, len(s.Items)),
		}
		for _, it := range s.Items {
			sr.Items = append(sr.Items, dto.SaleItemResponse{
				ProductID: it.ProductID,
				Name:      it.Name,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice,
				UnitCost:  it.UnitCost,
				Subtotal:  it.Subtotal(),
			})
		}
		resp.Sales = append(resp.Sales, sr)
	}
	return resp
}
