package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	apphttp "github.com/jhoicas/Inventario-ledger/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Inventario-ledger/pkg/jwt"
)

const otherTenantID = "00000000-0000-0000-0000-000000000099"

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// buildLedgerApp arma el router completo sobre un ledger en memoria con un item y una bodega.
func buildLedgerApp(t *testing.T) (*fiber.App, *ledgerFake) {
	t.Helper()
	return buildLedgerAppWith(t, nil)
}

// buildLedgerAppWith permite ajustar las dependencias del router antes de registrarlo.
func buildLedgerAppWith(t *testing.T, mod func(*apphttp.RouterDeps)) (*fiber.App, *ledgerFake) {
	t.Helper()
	f := newLedgerFake()
	f.tenants[testTenantID] = true
	f.tenants[otherTenantID] = true
	f.items["i1"] = entity.Item{ID: "i1", TenantID: testTenantID, SKU: "LAP-001", Name: "Laptop"}
	f.items["i2"] = entity.Item{ID: "i2", TenantID: testTenantID, SKU: "CAB-001", Name: "Cable"}
	f.warehouses["w1"] = entity.Warehouse{ID: "w1", TenantID: testTenantID, Name: "Central"}

	movs := movementsFake{f}
	uc := inventory.NewLedgerUseCase(
		inventory.NewMovementRecorder(f, zerolog.Nop()),
		inventory.NewBalanceAggregator(movs, time.Second),
		inventory.NewResultEnricher(itemsFake{f}, warehousesFake{f}, nil, zerolog.Nop()),
		movs,
		nil,
		zerolog.Nop(),
		inventory.LedgerConfig{},
	)
	deps := apphttp.RouterDeps{Ledger: uc, JWTSecret: testJWTSecret, Log: zerolog.Nop()}
	if mod != nil {
		mod(&deps)
	}
	app := fiber.New()
	apphttp.Router(app, deps)
	return app, f
}

func bearer(t *testing.T, tenantID, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, tenantID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func send(t *testing.T, app *fiber.App, method, path, auth, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func createMovement(t *testing.T, app *fiber.App, item, warehouse, qty, typ string) dto.MovementResponse {
	t.Helper()
	body := `{"item_id":"` + item + `","warehouse_id":"` + warehouse + `","quantity":` + qty + `,"type":"` + typ + `"}`
	resp := send(t, app, http.MethodPost, "/api/stock", bearer(t, testTenantID, "bodeguero"), body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.MovementResponse](t, resp)
}

// ──────────────────────────────────────────────────────────────────────────────
// POST /api/stock
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateMovement_Registra(t *testing.T) {
	app, f := buildLedgerApp(t)

	out := createMovement(t, app, "i1", "w1", "10", "IN")

	assert.NotEmpty(t, out.ID)
	assert.Equal(t, "IN", out.Type)
	assert.True(t, decimal.NewFromInt(10).Equal(out.Quantity))
	assert.Equal(t, testUserID, out.CreatedBy)
	assert.Len(t, f.movements, 1)
}

func TestCreateMovement_Validaciones(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		field string
	}{
		{"tipo inválido", `{"item_id":"i1","warehouse_id":"w1","quantity":1,"type":"MOVE"}`, "type"},
		{"sin item", `{"warehouse_id":"w1","quantity":1,"type":"IN"}`, "item_id"},
		{"cantidad cero", `{"item_id":"i1","warehouse_id":"w1","quantity":0,"type":"IN"}`, "quantity"},
		{"cantidad negativa", `{"item_id":"i1","warehouse_id":"w1","quantity":-2,"type":"OUT"}`, "quantity"},
		{"cantidad con cinco decimales", `{"item_id":"i1","warehouse_id":"w1","quantity":1.23456,"type":"IN"}`, "quantity"},
		{"cantidad fuera de numeric", `{"item_id":"i1","warehouse_id":"w1","quantity":100000000000000,"type":"IN"}`, "quantity"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app, f := buildLedgerApp(t)
			resp := send(t, app, http.MethodPost, "/api/stock", bearer(t, testTenantID, "admin"), tc.body)

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			e := decode[dto.ErrorResponse](t, resp)
			assert.Equal(t, "VALIDATION", e.Code)
			assert.Equal(t, tc.field, e.Field)
			assert.Empty(t, f.movements)
		})
	}
}

func TestCreateMovement_CuerpoInvalido(t *testing.T) {
	app, _ := buildLedgerApp(t)
	resp := send(t, app, http.MethodPost, "/api/stock", bearer(t, testTenantID, "admin"), `{"item_id":`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateMovement_VendedorNoPuedeEscribir(t *testing.T) {
	app, _ := buildLedgerApp(t)
	resp := send(t, app, http.MethodPost, "/api/stock", bearer(t, testTenantID, "vendedor"),
		`{"item_id":"i1","warehouse_id":"w1","quantity":1,"type":"IN"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCreateMovement_ReferenciasDeOtroTenant(t *testing.T) {
	app, _ := buildLedgerApp(t)

	resp := send(t, app, http.MethodPost, "/api/stock", bearer(t, otherTenantID, "admin"),
		`{"item_id":"i1","warehouse_id":"w1","quantity":1,"type":"IN"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "ITEM_NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code)

	resp = send(t, app, http.MethodPost, "/api/stock", bearer(t, testTenantID, "admin"),
		`{"item_id":"i1","warehouse_id":"w-otra","quantity":1,"type":"IN"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "WAREHOUSE_NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code)
}

func TestCreateMovement_FalloDeBDNoExponeCausa(t *testing.T) {
	app, f := buildLedgerApp(t)
	f.err = errors.New(`FATAL: password authentication failed for user "ledger"`)

	resp := send(t, app, http.MethodPost, "/api/stock", bearer(t, testTenantID, "admin"),
		`{"item_id":"i1","warehouse_id":"w1","quantity":1,"type":"IN"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.NotContains(t, string(body), "password")
	assert.Contains(t, string(body), "INTERNAL")
}

// ──────────────────────────────────────────────────────────────────────────────
// GET /api/stock/balance
// ──────────────────────────────────────────────────────────────────────────────

func TestQueryBalances_OrdenYMetadatos(t *testing.T) {
	app, _ := buildLedgerApp(t)
	createMovement(t, app, "i1", "w1", "10", "IN")
	createMovement(t, app, "i1", "w1", "5", "IN")
	createMovement(t, app, "i1", "w1", "3", "OUT")
	createMovement(t, app, "i2", "w1", "20", "IN")

	resp := send(t, app, http.MethodGet, "/api/stock/balance", bearer(t, testTenantID, "vendedor"), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.BalanceListResponse](t, resp)

	require.Len(t, out.Items, 2)
	assert.Equal(t, "Cable", out.Items[0].ItemName, "mayor balance primero")
	assert.True(t, decimal.NewFromInt(20).Equal(out.Items[0].Balance))
	assert.Equal(t, "LAP-001", out.Items[1].SKU)
	assert.Equal(t, "Central", out.Items[1].WarehouseName)
	assert.True(t, decimal.NewFromInt(12).Equal(out.Items[1].Balance))
	assert.Equal(t, 10, out.Page.Limit, "limit por defecto")
	assert.Equal(t, 2, out.Page.Total)
}

func TestQueryBalances_FiltroSKU(t *testing.T) {
	app, _ := buildLedgerApp(t)
	createMovement(t, app, "i1", "w1", "1", "IN")
	createMovement(t, app, "i2", "w1", "1", "IN")

	resp := send(t, app, http.MethodGet, "/api/stock/balance?sku=lap", bearer(t, testTenantID, "admin"), "")
	out := decode[dto.BalanceListResponse](t, resp)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "i1", out.Items[0].ItemID)
}

func TestQueryBalances_LimiteCeroYOffsetFueraDeRango(t *testing.T) {
	app, _ := buildLedgerApp(t)
	createMovement(t, app, "i1", "w1", "1", "IN")

	for _, path := range []string{"/api/stock/balance?limit=0", "/api/stock/balance?offset=10&limit=10"} {
		resp := send(t, app, http.MethodGet, path, bearer(t, testTenantID, "admin"), "")
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		assert.Contains(t, string(body), `"items":[]`, "página vacía se serializa como arreglo, no null: %s", path)
	}
}

func TestQueryBalances_ParametrosInvalidos(t *testing.T) {
	app, _ := buildLedgerApp(t)
	for _, path := range []string{"/api/stock/balance?limit=abc", "/api/stock/balance?offset=-1"} {
		resp := send(t, app, http.MethodGet, path, bearer(t, testTenantID, "admin"), "")
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
	}
}

func TestQueryBalances_AislamientoPorTenant(t *testing.T) {
	app, _ := buildLedgerApp(t)
	createMovement(t, app, "i1", "w1", "7", "IN")

	resp := send(t, app, http.MethodGet, "/api/stock/balance", bearer(t, otherTenantID, "admin"), "")
	out := decode[dto.BalanceListResponse](t, resp)
	assert.Empty(t, out.Items)
	assert.Equal(t, 0, out.Page.Total)
}

// El tope por petición llega hasta el repositorio aunque el agregador tenga un tope mayor.
func TestQueryBalances_TimeoutDePeticion(t *testing.T) {
	app, f := buildLedgerAppWith(t, func(d *apphttp.RouterDeps) { d.RequestTimeout = 30 * time.Millisecond })
	f.block = true

	start := time.Now()
	resp := send(t, app, http.MethodGet, "/api/stock/balance", bearer(t, testTenantID, "admin"), "")

	assert.Equal(t, http.StatusGatewayTimeout, resp.StatusCode)
	assert.Equal(t, "TIMEOUT", decode[dto.ErrorResponse](t, resp).Code)
	assert.Less(t, time.Since(start), 500*time.Millisecond, "no debe esperar el tope del agregador")
}

func TestQueryBalances_CancelacionDelServidor(t *testing.T) {
	base, cancel := context.WithCancel(context.Background())
	app, f := buildLedgerAppWith(t, func(d *apphttp.RouterDeps) { d.BaseContext = base })
	f.block = true
	cancel()

	resp := send(t, app, http.MethodGet, "/api/stock/balance", bearer(t, testTenantID, "admin"), "")

	assert.Equal(t, apphttp.StatusClientClosedRequest, resp.StatusCode)
	assert.Equal(t, "CANCELLED", decode[dto.ErrorResponse](t, resp).Code)
}

func TestQueryBalances_SinToken(t *testing.T) {
	app, _ := buildLedgerApp(t)
	resp := send(t, app, http.MethodGet, "/api/stock/balance", "", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Historial y reversión
// ──────────────────────────────────────────────────────────────────────────────

func TestReverseMovement_SoloUnaVez(t *testing.T) {
	app, _ := buildLedgerApp(t)
	orig := createMovement(t, app, "i1", "w1", "4", "IN")
	auth := bearer(t, testTenantID, "admin")

	resp := send(t, app, http.MethodPost, "/api/stock/"+orig.ID+"/reverse", auth, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	rev := decode[dto.MovementResponse](t, resp)
	assert.Equal(t, "OUT", rev.Type)
	require.NotNil(t, rev.ReversalOf)
	assert.Equal(t, orig.ID, *rev.ReversalOf)

	resp = send(t, app, http.MethodPost, "/api/stock/"+orig.ID+"/reverse", auth, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = send(t, app, http.MethodGet, "/api/stock/balance", auth, "")
	out := decode[dto.BalanceListResponse](t, resp)
	require.Len(t, out.Items, 1)
	assert.True(t, out.Items[0].Balance.IsZero(), "la reversión deja el balance en cero")
}

func TestGetMovement_DeOtroTenant(t *testing.T) {
	app, _ := buildLedgerApp(t)
	orig := createMovement(t, app, "i1", "w1", "4", "IN")

	resp := send(t, app, http.MethodGet, "/api/stock/"+orig.ID, bearer(t, otherTenantID, "admin"), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = send(t, app, http.MethodGet, "/api/stock/"+orig.ID, bearer(t, testTenantID, "vendedor"), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, orig.ID, decode[dto.MovementResponse](t, resp).ID)
}

func TestListMovements_FiltraPorTipo(t *testing.T) {
	app, _ := buildLedgerApp(t)
	createMovement(t, app, "i1", "w1", "4", "IN")
	createMovement(t, app, "i1", "w1", "1", "OUT")

	resp := send(t, app, http.MethodGet, "/api/stock?type=OUT", bearer(t, testTenantID, "admin"), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.MovementListResponse](t, resp)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "OUT", out.Items[0].Type)
	assert.Equal(t, 10, out.Page.Limit)

	resp = send(t, app, http.MethodGet, "/api/stock?type=SIDEWAYS", bearer(t, testTenantID, "admin"), "")
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
