// Package sale implementa el motor de reconciliación: convierte el carrito en
// borrador en una venta permanente descontando stock en una sola transacción.
package sale

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/cart"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/dto"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/state"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain/entity"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain/repository"
)

// ConfirmSaleUseCase confirma la venta en curso: descuenta stock por cada
// línea y crea el registro inmutable de la venta, todo o nada.
type ConfirmSaleUseCase struct {
	txRunner TxRunner
	cartMgr  *cart.Manager
	saleRepo repository.SaleRepository
	notifier state.Notifier
}

// NewConfirmSaleUseCase construye el caso de uso.
func NewConfirmSaleUseCase(txRunner TxRunner, cartMgr *cart.Manager, saleRepo repository.SaleRepository, notifier state.Notifier) *ConfirmSaleUseCase {
	return &ConfirmSaleUseCase{txRunner: txRunner, cartMgr: cartMgr, saleRepo: saleRepo, notifier: notifier}
}

// ConfirmSale valida el carrito, computa total y ganancia desde los snapshots
// (no relee precios vivos: un cambio posterior al agregado no afecta la línea)
// y aplica en una transacción: (a) descuento de stock por línea con guarda
// stock >= cantidad, (b) alta de la venta con timestamp del servidor.
//
// Si la transacción no se puede confirmar —almacén caído, stock concurrente
// insuficiente— no queda ningún efecto parcial, el carrito sigue intacto para
// reintentar y el error surge como ErrReconciliationFailed.
func (uc *ConfirmSaleUseCase) ConfirmSale(ctx context.Context, userID, paymentMethod string) (*dto.SaleResponse, error) {
	if !entity.ValidPaymentMethod(paymentMethod) {
		return nil, domain.ErrInvalidInput
	}

	c, err := uc.cartMgr.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}

	now := time.Now()
	newSale := &entity.Sale{
		ID:            uuid.New().String(),
		UserID:        userID,
		Total:         c.Total(),
		Profit:        c.Profit(),
		PaymentMethod: paymentMethod,
		Date:          now,
		CreatedAt:     now,
	}
	for _, line := range c.Items {
		newSale.Items = append(newSale.Items, entity.SaleItem{
			ID:        uuid.New().String(),
			SaleID:    newSale.ID,
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.Price,
			UnitCost:  line.Cost,
		})
	}

	err = uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error {
		for _, line := range c.Items {
			if err := productRepo.DecrementStock(line.ProductID, line.Quantity); err != nil {
				return err
			}
		}
		if err := saleRepo.Create(newSale); err != nil {
			return err
		}
		for i := range newSale.Items {
			if err := saleRepo.CreateItem(&newSale.Items[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrReconciliationFailed, err)
	}

	// La venta ya está confirmada: un fallo al limpiar el borrador no debe
	// reportarse como fallo de la venta (reintentarla la duplicaría).
	_ = uc.cartMgr.Clear(ctx, userID)
	uc.notifier.Notify(ctx, userID)

	return toSaleResponse(newSale), nil
}

// GetByID obtiene una venta del usuario con sus líneas.
func (uc *ConfirmSaleUseCase) GetByID(ctx context.Context, userID, id string) (*dto.SaleResponse, error) {
	s, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if s.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return toSaleResponse(s), nil
}

// List devuelve el historial de ventas del usuario, más recientes primero.
func (uc *ConfirmSaleUseCase) List(ctx context.Context, userID string) (*dto.SaleListResponse, error) {
	sales, err := uc.saleRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	out := &dto.SaleListResponse{Items: make([]dto.SaleResponse, 0, len(sales))}
	for _, s := range sales {
		out.Items = append(out.Items, *toSaleResponse(s))
	}
	return out, nil
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:            s.ID,
		Total:         s.Total,
		Profit:        s.Profit,
		PaymentMethod: s.PaymentMethod,
		Date:          s.Date,
		Items:         make([]dto.SaleItemResponse, 0, len(s.Items)),
	}
	for _, it := range s.Items {
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			UnitCost:  it.UnitCost,
			Subtotal:  it.Subtotal(),
		})
	}
	return resp
}
