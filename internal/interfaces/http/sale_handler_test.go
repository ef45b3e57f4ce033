package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/auth"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/cart"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/confirm"
	appreport "github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/report"
	appsale "github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/sale"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/state"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/usecase"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain/entity"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/infrastructure/memory"
	infrapdf "github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/infrastructure/pdf"
	apphttp "github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/interfaces/http"
	pkgjwt "github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/pkg/jwt"
)

// apiFixture levanta la API completa sobre el store en memoria.
type apiFixture struct {
	app   *fiber.App
	store *memory.Store
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	store := memory.NewStore()
	gate := confirm.NewGate(time.Minute)
	feed := state.NewFeed(func(_ context.Context, userID string) (*state.Snapshot, error) {
		return &state.Snapshot{TakenAt: time.Now()}, nil
	})
	cartMgr := cart.NewManager(store, store.Products())

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:    auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		ProductUC: usecase.NewProductUseCase(store.Products(), gate, feed),
		CartMgr:   cartMgr,
		ConfirmUC: appsale.NewConfirmSaleUseCase(store, cartMgr, store.Sales(), feed),
		ResetUC:   appsale.NewResetSalesUseCase(store.Sales(), gate, feed),
		ReportUC:  appreport.NewUseCase(store.Sales(), store.Products(), infrapdf.NewMarotoReportGenerator(), 5),
		Feed:      feed,
		JWTSecret: testJWTSecret,
	})
	return &apiFixture{app: app, store: store}
}

func (f *apiFixture) do(t *testing.T, method, path, role string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func (f *apiFixture) seedProduct(t *testing.T, name string, stock int64, price, cost float64) string {
	t.Helper()
	resp := f.do(t, http.MethodPost, "/api/products/", "vendedor", fiber.Map{
		"name": name, "category": "General", "stock": stock,
		"price": decimal.NewFromFloat(price), "cost": decimal.NewFromFloat(cost),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		ID string `json:"id"`
	}
	decode(t, resp, &created)
	return created.ID
}

func TestVentaCompletaViaHTTP(t *testing.T) {
	f := newAPIFixture(t)
	productID := f.seedProduct(t, "Gaseosa", 10, 5, 2)

	// Tres unidades al carrito.
	for i := 0; i < 3; i++ {
		resp := f.do(t, http.MethodPost, "/api/cart/items", "vendedor", fiber.Map{"product_id": productID})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	// Confirmar en efectivo.
	resp := f.do(t, http.MethodPost, "/api/sales/", "vendedor", fiber.Map{"payment_method": "cash"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var sale struct {
		Total  string `json:"total"`
		Profit string `json:"profit"`
		Items  []struct {
			Quantity int64 `json:"quantity"`
		} `json:"items"`
	}
	decode(t, resp, &sale)
	assert.Equal(t, "15", sale.Total)
	assert.Equal(t, "9", sale.Profit)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, int64(3), sale.Items[0].Quantity)

	// El stock quedó descontado y el carrito vacío.
	p, err := f.store.Products().GetByID(productID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.Stock)

	respCart := f.do(t, http.MethodGet, "/api/cart/", "vendedor", nil)
	var cartBody struct {
		Items []any `json:"items"`
	}
	decode(t, respCart, &cartBody)
	assert.Empty(t, cartBody.Items)
}

func TestConfirmarCarritoVacioViaHTTP(t *testing.T) {
	f := newAPIFixture(t)
	resp := f.do(t, http.MethodPost, "/api/sales/", "vendedor", fiber.Map{"payment_method": "cash"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "EMPTY_CART")
}

func TestAgregarSinStockViaHTTP(t *testing.T) {
	f := newAPIFixture(t)
	productID := f.seedProduct(t, "Alfajor", 0, 3, 1)

	resp := f.do(t, http.MethodPost, "/api/cart/items", "vendedor", fiber.Map{"product_id": productID})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "OUT_OF_STOCK")
}

func TestResetVentasViaHTTP_SoloAdmin(t *testing.T) {
	f := newAPIFixture(t)
	productID := f.seedProduct(t, "Gaseosa", 10, 5, 2)
	resp := f.do(t, http.MethodPost, "/api/cart/items", "vendedor", fiber.Map{"product_id": productID})
	resp.Body.Close()
	resp = f.do(t, http.MethodPost, "/api/sales/", "vendedor", fiber.Map{"payment_method": "card"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Vendedor bloqueado.
	resp = f.do(t, http.MethodPost, "/api/sales/reset", "vendedor", fiber.Map{})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Admin: primer paso devuelve el token de confirmación.
	resp = f.do(t, http.MethodPost, "/api/sales/reset", "admin", fiber.Map{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pending struct {
		Code         string `json:"code"`
		ConfirmToken string `json:"confirm_token"`
	}
	decode(t, resp, &pending)
	assert.Equal(t, "CONFIRMATION_REQUIRED", pending.Code)
	require.NotEmpty(t, pending.ConfirmToken)

	// Segundo paso: borra las ventas del día.
	resp = f.do(t, http.MethodPost, "/api/sales/reset", "admin", fiber.Map{"confirm_token": pending.ConfirmToken})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result struct {
		Deleted int64 `json:"deleted"`
	}
	decode(t, resp, &result)
	assert.Equal(t, int64(1), result.Deleted)

	sales, err := f.store.Sales().ListByUser(testUserID)
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestReporteCSVViaHTTP(t *testing.T) {
	f := newAPIFixture(t)
	productID := f.seedProduct(t, "Gaseosa", 10, 5, 2)
	resp := f.do(t, http.MethodPost, "/api/cart/items", "vendedor", fiber.Map{"product_id": productID})
	resp.Body.Close()
	resp = f.do(t, http.MethodPost, "/api/sales/", "vendedor", fiber.Map{"payment_method": "cash"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, http.MethodGet, "/api/reports/products/csv", "vendedor", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "Name,UnitsSold,TotalSales,TotalProfit\nGaseosa,1,5.00,3.00\n", string(body))
}

func TestProductoDeOtroUsuarioViaHTTP(t *testing.T) {
	f := newAPIFixture(t)
	// Producto sembrado directo en el store a nombre de otro usuario.
	require.NoError(t, f.store.Products().Create(&entity.Product{
		ID: "ajeno", UserID: "otro-usuario", Name: "Yerba", Category: "Almacén", Stock: 5,
		Price: decimal.NewFromInt(4), Cost: decimal.NewFromInt(2),
	}))

	resp := f.do(t, http.MethodPost, "/api/cart/items", "vendedor", fiber.Map{"product_id": "ajeno"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
