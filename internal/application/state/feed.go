// Package state publica el estado del usuario como un feed explícito: tras
// cada mutación de productos o ventas se relee la colección completa y se
// entrega un snapshot inmutable a los suscriptores.
package state

import (
	"context"
	"sync"
	"time"

	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain/entity"
)

// Snapshot es la vista completa e inmutable de los datos de un usuario en un
// instante. Los suscriptores nunca reciben deltas, siempre el estado entero.
type Snapshot struct {
	Products []entity.Product
	Sales    []entity.Sale
	TakenAt  time.Time
}

// Loader relee el estado completo de un usuario desde el almacén.
type Loader func(ctx context.Context, userID string) (*Snapshot, error)

// Notifier recibe el aviso de que los datos de un usuario cambiaron.
type Notifier interface {
	Notify(ctx context.Context, userID string)
}

// Noop descarta las notificaciones. Para tests y modos sin feed.
type Noop struct{}

func (Noop) Notify(context.Context, string) {}

type subscriber struct {
	userID string
	ch     chan *Snapshot
}

// Feed publica snapshots por usuario. Cada suscriptor tiene un canal con
// buffer 1 y coalescing: si llega un snapshot nuevo antes de consumir el
// anterior, el viejo se descarta (siempre interesa el estado más reciente).
type Feed struct {
	mu     sync.Mutex
	loader Loader
	subs   map[int]*subscriber
	nextID int
}

var _ Notifier = (*Feed)(nil)

// NewFeed construye el feed con el loader dado.
func NewFeed(loader Loader) *Feed {
	return &Feed{loader: loader, subs: make(map[int]*subscriber)}
}

// Subscription es el handle cancelable de una suscripción.
type Subscription struct {
	C      <-chan *Snapshot
	cancel func()
}

// Cancel da de baja la suscripción y cierra C. Idempotente.
func (s *Subscription) Cancel() { s.cancel() }

// Subscribe registra un suscriptor para el usuario y entrega el snapshot
// actual de inmediato, así el cliente arranca con el estado vigente sin
// esperar la primera mutación.
func (f *Feed) Subscribe(ctx context.Context, userID string) (*Subscription, error) {
	snap, err := f.loader(ctx, userID)
	if err != nil {
		return nil, err
	}

	// El snapshot inicial entra al buffer antes de registrar el suscriptor:
	// un Notify concurrente todavía no lo ve, así que este envío nunca puede
	// bloquear contra un buffer ya ocupado.
	sub := &subscriber{userID: userID, ch: make(chan *Snapshot, 1)}
	sub.ch <- snap

	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = sub
	f.mu.Unlock()

	var once sync.Once
	return &Subscription{
		C: sub.ch,
		cancel: func() {
			once.Do(func() {
				// Cerrar bajo el mutex: Notify publica con el mutex tomado,
				// así que tras el delete nadie más puede enviar al canal y el
				// close despierta a un consumidor bloqueado en range.
				f.mu.Lock()
				delete(f.subs, id)
				close(sub.ch)
				f.mu.Unlock()
			})
		},
	}, nil
}

// Notify relee el estado del usuario y lo publica a sus suscriptores. Un
// loader que falla deja el snapshot anterior vigente (el feed nunca publica
// estado parcial).
func (f *Feed) Notify(ctx context.Context, userID string) {
	snap, err := f.loader(ctx, userID)
	if err != nil {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, sub := range f.subs {
		if sub.userID != userID {
			continue
		}
		// Coalescing: descarta el snapshot pendiente si nadie lo consumió.
		select {
		case <-sub.ch:
		default:
		}
		sub.ch <- snap
	}
}
