package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/stock-ledger/internal/application/analytics"
	"github.com/jhoicas/stock-ledger/internal/application/auth"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/stock-ledger/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const testPassword = "clave-de-prueba"

func newServer(t *testing.T, jwtSecret string) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	log := logger.Nop()

	var authUC *auth.AuthUseCase
	if jwtSecret != "" {
		hash, err := auth.HashPassword(testPassword)
		require.NoError(t, err)
		authUC = auth.NewAuthUseCase(
			[]auth.Credential{{UserID: "auditor1", Role: "auditor", PasswordHash: hash}},
			auth.JWTConfig{Secret: jwtSecret, ExpMinutes: 5, Issuer: "test"},
		)
	}

	app := fiber.New()
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC:   usecase.NewProductUseCase(store),
		LocationUC:  usecase.NewLocationUseCase(store),
		LedgerUC:    inventory.NewLedgerUseCase(store, log),
		ReportUC:    inventory.NewReportUseCase(store, infrapdf.NewMarotoPDFGenerator()),
		DashboardUC: appanalytics.NewDashboardUseCase(store),
		AuthUC:      authUC,
		JWTSecret:   jwtSecret,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path string, body any, headers ...string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func createProduct(t *testing.T, app *fiber.App, name, sku string) int64 {
	t.Helper()
	resp := call(t, app, http.MethodPost, "/api/products", map[string]any{"name": name, "sku": sku})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.ProductResponse](t, resp).ID
}

func createLocation(t *testing.T, app *fiber.App, name string) int64 {
	t.Helper()
	resp := call(t, app, http.MethodPost, "/api/locations", map[string]any{"name": name})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.LocationResponse](t, resp).ID
}

func record(t *testing.T, app *fiber.App, body map[string]any) *http.Response {
	t.Helper()
	return call(t, app, http.MethodPost, "/api/movements", body)
}

func report(t *testing.T, app *fiber.App) dto.StockReportResponse {
	t.Helper()
	resp := call(t, app, http.MethodGet, "/api/report", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decode[dto.StockReportResponse](t, resp)
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	return decode[dto.ErrorResponse](t, resp).Code
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios del libro
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_EntradaLuegoTraslado_YBorrado(t *testing.T) {
	app := newServer(t, "")
	p := createProduct(t, app, "Widget", "W-1")
	warehouse := createLocation(t, app, "Warehouse")
	store := createLocation(t, app, "Store")

	resp := record(t, app, map[string]any{"product_id": p, "to_location_id": warehouse, "qty": 100})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	a := decode[dto.MovementResponse](t, resp)
	assert.Equal(t, "IN", a.Type)

	resp = record(t, app, map[string]any{"product_id": p, "from_location_id": warehouse, "to_location_id": store, "qty": 30})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	b := decode[dto.MovementResponse](t, resp)
	assert.Equal(t, "TRANSFER", b.Type)

	rep := report(t, app)
	assert.Equal(t, int64(70), rep[p].Locations[warehouse].Balance)
	assert.Equal(t, int64(30), rep[p].Locations[store].Balance)
	assert.Equal(t, "Warehouse", rep[p].Locations[warehouse].Name)

	resp = call(t, app, http.MethodDelete, fmt.Sprintf("/api/movements/%d", b.ID), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	rep = report(t, app)
	assert.Equal(t, int64(100), rep[p].Locations[warehouse].Balance)
	assert.Equal(t, int64(0), rep[p].Locations[store].Balance)

	resp = call(t, app, http.MethodGet, fmt.Sprintf("/api/balances?product_id=%d&location_id=%d", p, warehouse), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(100), decode[dto.BalanceResponse](t, resp).Balance)
}

func TestAPI_MovimientoMalformado(t *testing.T) {
	app := newServer(t, "")
	p := createProduct(t, app, "Widget", "W-1")
	a := createLocation(t, app, "A")

	cases := []map[string]any{
		{"product_id": p, "qty": 5},
		{"product_id": p, "from_location_id": a, "to_location_id": a, "qty": 5},
		{"product_id": p, "to_location_id": a, "qty": 0},
		{"product_id": p, "to_location_id": a, "qty": -3},
	}
	for _, body := range cases {
		resp := record(t, app, body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "%v", body)
		assert.Equal(t, "VALIDATION", errorCode(t, resp))
	}
}

func TestAPI_ReferenciaInexistente_NoCambiaElLibro(t *testing.T) {
	app := newServer(t, "")
	a := createLocation(t, app, "A")

	resp := record(t, app, map[string]any{"product_id": 999, "to_location_id": a, "qty": 5})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "UNKNOWN_REFERENCE", errorCode(t, resp))

	resp = call(t, app, http.MethodGet, "/api/summary", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	summary := decode[dto.DashboardSummaryDTO](t, resp)
	assert.Zero(t, summary.MovementsCount)
	assert.Equal(t, int64(1), summary.LocationsCount)
}

func TestAPI_SKUDuplicado(t *testing.T) {
	app := newServer(t, "")
	id := createProduct(t, app, "Widget", "W-1")

	resp := call(t, app, http.MethodPost, "/api/products", map[string]any{"name": "Otro", "sku": "W-1"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", errorCode(t, resp))

	resp = call(t, app, http.MethodGet, fmt.Sprintf("/api/products/%d", id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Widget", decode[dto.ProductResponse](t, resp).Name)
}

func TestAPI_BorradoBloqueadoPorMovimientos(t *testing.T) {
	app := newServer(t, "")
	p := createProduct(t, app, "Widget", "W-1")
	a := createLocation(t, app, "A")
	resp := record(t, app, map[string]any{"product_id": p, "to_location_id": a, "qty": 1})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	m := decode[dto.MovementResponse](t, resp)

	resp = call(t, app, http.MethodDelete, fmt.Sprintf("/api/locations/%d", a), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "IN_USE", errorCode(t, resp))

	resp = call(t, app, http.MethodDelete, fmt.Sprintf("/api/movements/%d", m.ID), nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = call(t, app, http.MethodDelete, fmt.Sprintf("/api/locations/%d", a), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestAPI_CorreccionRevalida(t *testing.T) {
	app := newServer(t, "")
	p := createProduct(t, app, "Widget", "W-1")
	a := createLocation(t, app, "A")
	resp := record(t, app, map[string]any{"product_id": p, "to_location_id": a, "qty": 10})
	m := decode[dto.MovementResponse](t, resp)
	path := fmt.Sprintf("/api/movements/%d", m.ID)

	resp = call(t, app, http.MethodPut, path, map[string]any{"from_location_id": a})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "origen y destino iguales")
	resp.Body.Close()

	resp = call(t, app, http.MethodPut, path, map[string]any{"qty": 4})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(4), decode[dto.MovementResponse](t, resp).Quantity)
	assert.Equal(t, int64(4), report(t, app)[p].Locations[a].Balance)
}

func TestAPI_IDInvalidoYNoEncontrado(t *testing.T) {
	app := newServer(t, "")

	resp := call(t, app, http.MethodGet, "/api/products/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/movements/42", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, resp))

	resp = call(t, app, http.MethodGet, "/api/balances?product_id=1", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_ReportePDF(t *testing.T) {
	app := newServer(t, "")
	createProduct(t, app, "Widget", "W-1")
	createLocation(t, app, "A")

	resp := call(t, app, http.MethodGet, "/api/report/pdf", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestAPI_RequestIDEnRespuesta(t *testing.T) {
	app := newServer(t, "")

	resp := call(t, app, http.MethodGet, "/api/products", nil, apphttp.HeaderRequestID, "req-123")
	defer resp.Body.Close()
	assert.Equal(t, "req-123", resp.Header.Get(apphttp.HeaderRequestID))

	resp2 := call(t, app, http.MethodGet, "/api/products", nil)
	defer resp2.Body.Close()
	assert.NotEmpty(t, resp2.Header.Get(apphttp.HeaderRequestID))
}

// ──────────────────────────────────────────────────────────────────────────────
// Autorización por rol
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_AuditorSoloLectura(t *testing.T) {
	app := newServer(t, testJWTSecret)

	resp := call(t, app, http.MethodGet, "/api/products", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	auditor := tokenForRole(t, "auditor")
	resp = call(t, app, http.MethodGet, "/api/products", nil, "Authorization", auditor)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, "/api/products", map[string]any{"name": "W", "sku": "W"}, "Authorization", auditor)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, "/api/products", map[string]any{"name": "W", "sku": "W"}, "Authorization", tokenForRole(t, "bodeguero"))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_Login(t *testing.T) {
	app := newServer(t, testJWTSecret)

	resp := call(t, app, http.MethodPost, "/api/auth/login", map[string]any{"username": "auditor1", "password": "mala"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, "/api/auth/login", map[string]any{"username": "auditor1", "password": testPassword})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.LoginResponse](t, resp)
	assert.Equal(t, "auditor", out.Role)

	resp = call(t, app, http.MethodGet, "/api/locations", nil, "Authorization", "Bearer "+out.Token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_SinJWT_NoHayLogin(t *testing.T) {
	app := newServer(t, "")
	resp := call(t, app, http.MethodPost, "/api/auth/login", map[string]any{"username": "auditor1", "password": testPassword})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
