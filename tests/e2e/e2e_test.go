//go:build integration

package e2e

// End-to-end integration tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v
//
// These tests exercise the guarantees the stub-based unit suites cannot:
// a real transaction rollback across header/lines/payments/decrements, and
// serialization of concurrent atomic stock decrements.

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Thesergioandres/sistema-pos-sub000/internal/config"
	"github.com/Thesergioandres/sistema-pos-sub000/internal/infra"
	"github.com/Thesergioandres/sistema-pos-sub000/internal/middleware"
	"github.com/Thesergioandres/sistema-pos-sub000/internal/model"
	"github.com/Thesergioandres/sistema-pos-sub000/internal/router"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server   *httptest.Server
	token    string // administrador JWT
	db       *gorm.DB
	vendedor *model.Usuario
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("pos_test"),
		tcPostgres.WithUsername("pos"),
		tcPostgres.WithPassword("pos"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:              8000,
		Env:               "test",
		JWTSecret:         "e2e-test-secret",
		DatabaseURL:       pgURL,
		RedisURL:          rdURL,
		WorkerPoolSize:    1,
		CatalogRateLimit:  1000,
		CatalogRateWindow: 60,
	}

	// NewDatabase runs the migrations
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	vendedor := &model.Usuario{
		Username:     "admin.e2e",
		Nombre:       "Admin E2E",
		PasswordHash: "$2a$12$6zcbRzN1cj4B7bqbIp.LOukxBkHZvhKFxrlDTqX61mzKFN7N0dJIi",
		Rol:          "administrador",
		Activo:       true,
	}
	require.NoError(t, db.Create(vendedor).Error)

	srv := httptest.NewServer(router.New(cfg, db, rdb))
	t.Cleanup(srv.Close)

	// Tokens are issued by an external identity service; sign one directly.
	claims := middleware.JWTClaims{
		UserID:   vendedor.ID.String(),
		Username: vendedor.Username,
		Rol:      vendedor.Rol,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)

	return &testEnv{server: srv, token: token, db: db, vendedor: vendedor}
}

func (env *testEnv) seedInsumo(t *testing.T, nombre string, stock float64) *model.Insumo {
	t.Helper()
	insumo := &model.Insumo{Nombre: nombre, Stock: decimal.NewFromFloat(stock), Unidad: "litro"}
	require.NoError(t, env.db.Create(insumo).Error)
	return insumo
}

func (env *testEnv) seedProductoConReceta(t *testing.T, nombre string, precio float64, insumo *model.Insumo, cantidad float64) *model.Producto {
	t.Helper()
	producto := &model.Producto{Nombre: nombre, Precio: decimal.NewFromFloat(precio), Activo: true}
	require.NoError(t, env.db.Create(producto).Error)
	require.NoError(t, env.db.Create(&model.Receta{
		ProductoID: producto.ID,
		InsumoID:   insumo.ID,
		Cantidad:   decimal.NewFromFloat(cantidad),
	}).Error)
	return producto
}

func (env *testEnv) stockActual(t *testing.T, id uuid.UUID) decimal.Decimal {
	t.Helper()
	var insumo model.Insumo
	require.NoError(t, env.db.First(&insumo, id).Error)
	return insumo.Stock
}

func (env *testEnv) cuentaFilas(t *testing.T, modelo any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, env.db.Model(modelo).Count(&n).Error)
	return n
}

// ── Tests ────────────────────────────────────────────────────────────────────

// Full sale cycle over HTTP: catalog product, sale with an initial payment,
// then detail read with derived balances.
func TestE2E_CicloDeVentaCompleto(t *testing.T) {
	env := setupTestEnv(t)

	prodResp := do(t, env.server, "POST", "/productos",
		jsonBody(t, map[string]any{"nombre": "Gaseosa", "tamano": "500ml", "precio": 250.0}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, prodResp.StatusCode)
	var prod struct {
		ID string `json:"ID"`
	}
	decodeJSON(t, prodResp, &prod)
	require.NotEmpty(t, prod.ID)

	ventaResp := do(t, env.server, "POST", "/sales",
		jsonBody(t, map[string]any{
			"usuarioId": env.vendedor.ID.String(),
			"productos": []map[string]any{{"productoId": prod.ID, "cantidad": 3}},
			"pagos":     []map[string]any{{"tipo": "efectivo", "monto": 500.0}},
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, ventaResp.StatusCode)
	var venta struct {
		OK      bool   `json:"ok"`
		VentaID string `json:"ventaId"`
	}
	decodeJSON(t, ventaResp, &venta)
	require.True(t, venta.OK)

	detResp := do(t, env.server, "GET", "/sales/"+venta.VentaID, nil, env.token)
	require.Equal(t, http.StatusOK, detResp.StatusCode)
	var det struct {
		Total      decimal.Decimal `json:"total"`
		TotalPagos decimal.Decimal `json:"totalPagos"`
		SaldoTotal decimal.Decimal `json:"saldoTotal"`
		MedioPago  string          `json:"medioPago"`
	}
	decodeJSON(t, detResp, &det)
	assert.True(t, det.Total.Equal(decimal.NewFromInt(750)), "total %s", det.Total)
	assert.True(t, det.TotalPagos.Equal(decimal.NewFromInt(500)))
	assert.True(t, det.SaldoTotal.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, "efectivo", det.MedioPago)
}

// A write failure at the end of the sale transaction must roll back the
// already-applied stock decrements along with header, lines and payments.
// The seeded FK violation (clienteId pointing nowhere) fires on the aggregate
// insert, after DescontarStockTx already ran inside the same transaction.
func TestE2E_RollbackCompletoAnteFalloDeEscritura(t *testing.T) {
	env := setupTestEnv(t)

	leche := env.seedInsumo(t, "Leche", 10)
	malteada := env.seedProductoConReceta(t, "Malteada", 85, leche, 0.25)

	resp := do(t, env.server, "POST", "/sales",
		jsonBody(t, map[string]any{
			"usuarioId": env.vendedor.ID.String(),
			"clienteId": uuid.NewString(), // no such cliente: FK violation on insert
			"productos": []map[string]any{{"productoId": malteada.ID.String(), "cantidad": 4}},
			"pagos":     []map[string]any{{"tipo": "efectivo", "monto": 340.0}},
		}),
		env.token,
	)
	defer resp.Body.Close()
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	assert.True(t, env.stockActual(t, leche.ID).Equal(decimal.NewFromInt(10)),
		"el descuento de stock debe revertirse con la transacción")
	assert.Zero(t, env.cuentaFilas(t, &model.Venta{}))
	assert.Zero(t, env.cuentaFilas(t, &model.VentaProducto{}))
	assert.Zero(t, env.cuentaFilas(t, &model.VentaPago{}))
}

// Concurrent sales decrementing the same insumo must not lose updates: the
// decrement is a single UPDATE stock = stock - ? statement serialized by
// Postgres row locking.
func TestE2E_DescuentosConcurrentesSinPerdida(t *testing.T) {
	env := setupTestEnv(t)

	leche := env.seedInsumo(t, "Leche", 100)
	batido := env.seedProductoConReceta(t, "Batido", 90, leche, 0.5)

	const ventas = 20
	codes := make([]int, ventas)
	var wg sync.WaitGroup
	for i := 0; i < ventas; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp := do(t, env.server, "POST", "/sales",
				jsonBody(t, map[string]any{
					"usuarioId": env.vendedor.ID.String(),
					"productos": []map[string]any{{"productoId": batido.ID.String(), "cantidad": 1}},
				}),
				env.token,
			)
			resp.Body.Close()
			codes[i] = resp.StatusCode
		}(i)
	}
	wg.Wait()

	for i, code := range codes {
		require.Equal(t, http.StatusCreated, code, "venta %d", i)
	}
	// 100 - 20 * 0.5
	assert.True(t, env.stockActual(t, leche.ID).Equal(decimal.NewFromInt(90)),
		"stock final %s", env.stockActual(t, leche.ID))
	assert.EqualValues(t, ventas, env.cuentaFilas(t, &model.Venta{}))
}

// Replaying the same offlineId must record the sale once and decrement stock
// once; the unique index on offline_id backs the dedup under a real database.
func TestE2E_OfflineReplayIdempotente(t *testing.T) {
	env := setupTestEnv(t)

	leche := env.seedInsumo(t, "Leche", 10)
	malteada := env.seedProductoConReceta(t, "Malteada", 85, leche, 0.25)

	body := map[string]any{
		"usuarioId": env.vendedor.ID.String(),
		"offlineId": uuid.NewString(),
		"productos": []map[string]any{{"productoId": malteada.ID.String(), "cantidad": 2}},
		"pagos":     []map[string]any{{"tipo": "efectivo", "monto": 170.0}},
	}

	var ids [2]string
	for i := range ids {
		resp := do(t, env.server, "POST", "/sales", jsonBody(t, body), env.token)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var out struct {
			VentaID string `json:"ventaId"`
		}
		decodeJSON(t, resp, &out)
		ids[i] = out.VentaID
	}

	assert.Equal(t, ids[0], ids[1], "la repetición debe devolver la misma venta")
	assert.EqualValues(t, 1, env.cuentaFilas(t, &model.Venta{}))
	assert.True(t, env.stockActual(t, leche.ID).Equal(decimal.NewFromFloat(9.5)))
}
