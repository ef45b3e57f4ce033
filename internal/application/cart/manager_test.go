package cart_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/cart"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain/entity"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/infrastructure/memory"
)

const testUserID = "user-1"

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newManager(t *testing.T, products ...entity.Product) (*cart.Manager, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	now := time.Now()
	for i := range products {
		p := products[i]
		p.UserID = testUserID
		p.CreatedAt = now
		p.UpdatedAt = now
		require.NoError(t, store.Products().Create(&p))
	}
	return cart.NewManager(store, store.Products()), store
}

func widget(stock int64) entity.Product {
	return entity.Product{ID: "p1", Name: "Widget", Category: "General", Stock: stock, Cost: dec("2.00"), Price: dec("5.00")}
}

func TestAddItem_CreaLineaConSnapshots(t *testing.T) {
	mgr, _ := newManager(t, widget(10))

	c, err := mgr.AddItem(context.Background(), testUserID, "p1")
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, int64(1), c.Items[0].Quantity)
	assert.True(t, c.Items[0].Price.Equal(dec("5.00")))
	assert.True(t, c.Items[0].Cost.Equal(dec("2.00")))
}

func TestAddItem_IncrementaMismoProducto(t *testing.T) {
	mgr, _ := newManager(t, widget(10))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := mgr.AddItem(ctx, testUserID, "p1")
		require.NoError(t, err)
	}
	c, err := mgr.Get(ctx, testUserID)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, int64(3), c.Items[0].Quantity)
	assert.True(t, c.Total().Equal(dec("15.00")))
}

// Con stock 2: dos altas pasan, la tercera falla con OutOfStock y la cantidad
// queda en 2 (el carrito no cambia ante el rechazo).
func TestAddItem_RespetaStockDisponible(t *testing.T) {
	mgr, _ := newManager(t, widget(2))
	ctx := context.Background()

	_, err := mgr.AddItem(ctx, testUserID, "p1")
	require.NoError(t, err)
	_, err = mgr.AddItem(ctx, testUserID, "p1")
	require.NoError(t, err)

	_, err = mgr.AddItem(ctx, testUserID, "p1")
	assert.ErrorIs(t, err, domain.ErrOutOfStock)

	c, err := mgr.Get(ctx, testUserID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), c.Items[0].Quantity)
}

func TestAddItem_ProductoSinStock(t *testing.T) {
	mgr, _ := newManager(t, widget(0))
	_, err := mgr.AddItem(context.Background(), testUserID, "p1")
	assert.ErrorIs(t, err, domain.ErrOutOfStock)
}

func TestAddItem_ProductoInexistente(t *testing.T) {
	mgr, _ := newManager(t)
	_, err := mgr.AddItem(context.Background(), testUserID, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddItem_ProductoDeOtroUsuario(t *testing.T) {
	mgr, store := newManager(t)
	p := widget(5)
	p.UserID = "otro-usuario"
	p.ID = "ajeno"
	require.NoError(t, store.Products().Create(&p))

	_, err := mgr.AddItem(context.Background(), testUserID, "ajeno")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// El snapshot de precio no se re-lee: subir el precio del producto después de
// agregarlo no cambia la línea ya en el carrito.
func TestAddItem_SnapshotNoSigueElPrecioVivo(t *testing.T) {
	mgr, store := newManager(t, widget(10))
	ctx := context.Background()

	_, err := mgr.AddItem(ctx, testUserID, "p1")
	require.NoError(t, err)

	p, err := store.Products().GetByID("p1")
	require.NoError(t, err)
	p.Price = dec("9.99")
	require.NoError(t, store.Products().Update(p))

	c, err := mgr.Get(ctx, testUserID)
	require.NoError(t, err)
	assert.True(t, c.Items[0].Price.Equal(dec("5.00")), "la línea conserva el precio al momento del alta")
}

func TestRemoveItem_EliminaYEsNoOpSiNoEsta(t *testing.T) {
	mgr, _ := newManager(t, widget(10))
	ctx := context.Background()

	_, err := mgr.AddItem(ctx, testUserID, "p1")
	require.NoError(t, err)

	c, err := mgr.RemoveItem(ctx, testUserID, "p1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	// Quitar algo que no está no es error.
	c, err = mgr.RemoveItem(ctx, testUserID, "p1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestClear_VaciaYPersiste(t *testing.T) {
	mgr, store := newManager(t, widget(10))
	ctx := context.Background()

	_, err := mgr.AddItem(ctx, testUserID, "p1")
	require.NoError(t, err)
	require.NoError(t, mgr.Clear(ctx, testUserID))

	// El estado vacío quedó persistido en la caché, no solo en memoria local.
	persisted, err := store.Load(ctx, testUserID)
	require.NoError(t, err)
	assert.True(t, persisted.IsEmpty())
}

// cacheCaida simula redis inaccesible: Load falla siempre. Save delega para
// que el borrador subyacente se pueda sembrar antes de "tirar" la caché.
type cacheCaida struct {
	cart.Store
}

func (c cacheCaida) Load(context.Context, string) (*entity.Cart, error) {
	return nil, errors.New("dial tcp: connection refused")
}

// Una caché inaccesible no debe leerse como carrito vacío: eso haría que una
// confirmación reporte carrito vacío y que un alta pise el borrador persistido
// con una línea nueva de cantidad 1.
func TestGet_CacheInaccesibleNoEsCarritoVacio(t *testing.T) {
	mgr, store := newManager(t, widget(10))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := mgr.AddItem(ctx, testUserID, "p1")
		require.NoError(t, err)
	}

	caido := cart.NewManager(cacheCaida{Store: store}, store.Products())

	_, err := caido.Get(ctx, testUserID)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	_, err = caido.AddItem(ctx, testUserID, "p1")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	// El borrador persistido quedó intacto.
	persisted, err := store.Load(ctx, testUserID)
	require.NoError(t, err)
	require.Len(t, persisted.Items, 1)
	assert.Equal(t, int64(3), persisted.Items[0].Quantity)
}

// El carrito sobrevive a un "reinicio": un Manager nuevo sobre la misma caché
// ve el borrador persistido.
func TestManager_BorradorSobreviveReinicio(t *testing.T) {
	mgr, store := newManager(t, widget(10))
	ctx := context.Background()

	_, err := mgr.AddItem(ctx, testUserID, "p1")
	require.NoError(t, err)

	reborn := cart.NewManager(store, store.Products())
	c, err := reborn.Get(ctx, testUserID)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, int64(1), c.Items[0].Quantity)
}
