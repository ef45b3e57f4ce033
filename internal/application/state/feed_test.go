package state

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain/entity"
)

type fuenteFija struct {
	products map[string][]entity.Product
	err      error
}

func (f *fuenteFija) load(_ context.Context, userID string) (*Snapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &Snapshot{Products: f.products[userID], TakenAt: time.Now()}, nil
}

func TestFeed_SubscribeEntregaSnapshotInicial(t *testing.T) {
	fuente := &fuenteFija{products: map[string][]entity.Product{
		"u1": {{ID: "p1", Name: "Gaseosa", Stock: 5, Price: decimal.NewFromInt(3)}},
	}}
	feed := NewFeed(fuente.load)

	sub, err := feed.Subscribe(context.Background(), "u1")
	require.NoError(t, err)
	defer sub.Cancel()

	snap := <-sub.C
	require.Len(t, snap.Products, 1)
	assert.Equal(t, "Gaseosa", snap.Products[0].Name)
}

func TestFeed_NotifyPublicaEstadoCompleto(t *testing.T) {
	fuente := &fuenteFija{products: map[string][]entity.Product{"u1": nil}}
	feed := NewFeed(fuente.load)

	sub, err := feed.Subscribe(context.Background(), "u1")
	require.NoError(t, err)
	defer sub.Cancel()
	<-sub.C

	fuente.products["u1"] = []entity.Product{
		{ID: "p1", Name: "Alfajor"},
		{ID: "p2", Name: "Yerba"},
	}
	feed.Notify(context.Background(), "u1")

	snap := <-sub.C
	assert.Len(t, snap.Products, 2)
}

func TestFeed_NotifyNoCruzaUsuarios(t *testing.T) {
	fuente := &fuenteFija{products: map[string][]entity.Product{"u1": nil, "u2": nil}}
	feed := NewFeed(fuente.load)

	subU2, err := feed.Subscribe(context.Background(), "u2")
	require.NoError(t, err)
	defer subU2.Cancel()
	<-subU2.C

	feed.Notify(context.Background(), "u1")

	select {
	case <-subU2.C:
		t.Fatal("u2 no debería recibir notificaciones de u1")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestFeed_CoalescingConservaSoloElUltimo(t *testing.T) {
	fuente := &fuenteFija{products: map[string][]entity.Product{"u1": nil}}
	feed := NewFeed(fuente.load)

	sub, err := feed.Subscribe(context.Background(), "u1")
	require.NoError(t, err)
	defer sub.Cancel()
	<-sub.C

	fuente.products["u1"] = []entity.Product{{ID: "p1"}}
	feed.Notify(context.Background(), "u1")
	fuente.products["u1"] = []entity.Product{{ID: "p1"}, {ID: "p2"}}
	feed.Notify(context.Background(), "u1")

	snap := <-sub.C
	assert.Len(t, snap.Products, 2, "el snapshot viejo debe descartarse")
}

func TestFeed_CancelDaDeBajaYCierraElCanal(t *testing.T) {
	fuente := &fuenteFija{products: map[string][]entity.Product{"u1": nil}}
	feed := NewFeed(fuente.load)

	sub, err := feed.Subscribe(context.Background(), "u1")
	require.NoError(t, err)
	<-sub.C
	sub.Cancel()
	sub.Cancel() // idempotente

	// El canal queda cerrado: un consumidor bloqueado en range despierta en
	// lugar de quedar colgado hasta el próximo snapshot.
	snap, ok := <-sub.C
	assert.False(t, ok, "el canal debe cerrarse al cancelar")
	assert.Nil(t, snap)

	// Notify después de la baja no publica ni entra en pánico.
	feed.Notify(context.Background(), "u1")
}

// Un Notify que corre pegado al Subscribe no debe dejar al Subscribe
// bloqueado esperando lugar en el buffer del snapshot inicial.
func TestFeed_SubscribeNoSeBloqueaConNotifyConcurrente(t *testing.T) {
	fuente := &fuenteFija{products: map[string][]entity.Product{"u1": nil}}
	feed := NewFeed(fuente.load)

	for i := 0; i < 500; i++ {
		notified := make(chan struct{})
		go func() {
			feed.Notify(context.Background(), "u1")
			close(notified)
		}()

		subscribed := make(chan *Subscription, 1)
		go func() {
			sub, err := feed.Subscribe(context.Background(), "u1")
			if err != nil {
				t.Error(err)
				return
			}
			subscribed <- sub
		}()

		select {
		case sub := <-subscribed:
			// El snapshot inicial siempre está disponible de inmediato.
			require.NotNil(t, <-sub.C)
			sub.Cancel()
		case <-time.After(2 * time.Second):
			t.Fatal("Subscribe quedó bloqueado con un Notify concurrente")
		}
		<-notified
	}
}

func TestFeed_SubscribeFallaSiElLoaderFalla(t *testing.T) {
	fuente := &fuenteFija{err: errors.New("almacén caído")}
	feed := NewFeed(fuente.load)

	_, err := feed.Subscribe(context.Background(), "u1")
	assert.Error(t, err)
}
