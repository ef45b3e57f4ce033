package sale

import (
	"context"
	"time"

	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/confirm"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/state"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain/repository"
)

const resetAction = "reset_sales"

// ResetSalesUseCase reinicio administrativo de ventas por fecha: elimina en
// bloque las ventas de un día. Acción destructiva, protegida por el gate de
// confirmación en dos pasos.
type ResetSalesUseCase struct {
	saleRepo repository.SaleRepository
	gate     *confirm.Gate
	notifier state.Notifier
}

// NewResetSalesUseCase construye el caso de uso.
func NewResetSalesUseCase(saleRepo repository.SaleRepository, gate *confirm.Gate, notifier state.Notifier) *ResetSalesUseCase {
	return &ResetSalesUseCase{saleRepo: saleRepo, gate: gate, notifier: notifier}
}

// ResetResult resultado tipado del reinicio. Pending != nil significa que la
// operación no se ejecutó: el caller debe reinvocar con el token emitido.
type ResetResult struct {
	Pending *confirm.Pending
	Deleted int64
	Day     time.Time
}

// Reset elimina las ventas del usuario cuyo timestamp cae en [day 00:00,
// día siguiente 00:00). Sin token devuelve el resultado pendiente; con un
// token inválido o vencido devuelve ErrForbidden sin tocar datos.
func (uc *ResetSalesUseCase) Reset(ctx context.Context, userID string, day time.Time, token string) (*ResetResult, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	subject := userID + "|" + dayStart.Format("2006-01-02")

	if token == "" {
		pending := uc.gate.Request(resetAction, subject)
		return &ResetResult{Pending: &pending, Day: dayStart}, nil
	}
	if !uc.gate.Redeem(token, resetAction, subject) {
		return nil, domain.ErrForbidden
	}

	deleted, err := uc.saleRepo.DeleteByDateRange(userID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	uc.notifier.Notify(ctx, userID)
	return &ResetResult{Deleted: deleted, Day: dayStart}, nil
}
