package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Thesergioandres/sistema-pos-sub000/internal/dto"
	"github.com/Thesergioandres/sistema-pos-sub000/internal/model"
	"github.com/Thesergioandres/sistema-pos-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Service stubs ─────────────────────────────────────────────────────────────

type stubVentaService struct {
	venta *model.Venta
	err   error
}

func (s *stubVentaService) RegistrarVenta(_ context.Context, _ dto.RegistrarVentaRequest) (*model.Venta, error) {
	return s.venta, s.err
}
func (s *stubVentaService) SyncBatch(_ context.Context, req dto.SyncBatchRequest) []dto.SyncResultado {
	out := make([]dto.SyncResultado, 0, len(req.Ventas))
	for range req.Ventas {
		out = append(out, dto.SyncResultado{OK: true, VentaID: uuid.New().String()})
	}
	return out
}
func (s *stubVentaService) ListVentas(_ context.Context, _ dto.VentaFilter) (*dto.VentaListResponse, error) {
	return &dto.VentaListResponse{Data: []dto.VentaDetalleResponse{}, Page: 1, Limit: 50}, nil
}
func (s *stubVentaService) EliminarVenta(_ context.Context, _ uuid.UUID) error { return s.err }

type stubPagoService struct {
	detalle    *dto.VentaDetalleResponse
	pendientes []dto.VentaPendienteResponse
	err        error
}

func (s *stubPagoService) RegistrarPago(_ context.Context, _ uuid.UUID, _ dto.RegistrarPagoRequest) error {
	return s.err
}
func (s *stubPagoService) ObtenerVenta(_ context.Context, _ uuid.UUID) (*dto.VentaDetalleResponse, error) {
	return s.detalle, s.err
}
func (s *stubPagoService) ListPendientes(_ context.Context, _ dto.PendientesFilter) ([]dto.VentaPendienteResponse, error) {
	return s.pendientes, nil
}

var (
	_ service.VentaService = (*stubVentaService)(nil)
	_ service.PagoService  = (*stubPagoService)(nil)
)

// ── Helpers ───────────────────────────────────────────────────────────────────

func salesRouter(ventas service.VentaService, pagos service.PagoService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewVentasHandler(ventas, pagos)
	r := gin.New()
	r.POST("/sales", h.RegistrarVenta)
	r.GET("/sales/:id", h.ObtenerVenta)
	r.POST("/sales/:id", h.SyncBatch)
	r.POST("/sales/:id/payments", h.RegistrarPago)
	r.DELETE("/sales/:id", h.EliminarVenta)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func ventaRequest() dto.RegistrarVentaRequest {
	return dto.RegistrarVentaRequest{
		UsuarioID: uuid.New().String(),
		Productos: []dto.ProductoVentaRequest{
			{ProductoID: uuid.New().String(), Cantidad: 1},
		},
	}
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestRegistrarVenta_RespuestaCreada(t *testing.T) {
	venta := &model.Venta{ID: uuid.New()}
	r := salesRouter(&stubVentaService{venta: venta}, &stubPagoService{})

	w := doJSON(t, r, http.MethodPost, "/sales", ventaRequest())
	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["ok"])
	assert.Equal(t, venta.ID.String(), resp["ventaId"])
}

func TestRegistrarVenta_VendedorDesconocidoEs400(t *testing.T) {
	r := salesRouter(&stubVentaService{err: service.ErrUsuarioNoEncontrado}, &stubPagoService{})

	w := doJSON(t, r, http.MethodPost, "/sales", ventaRequest())
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Usuario no encontrado", resp["error"])
}

func TestObtenerVenta_NoEncontradaEs404(t *testing.T) {
	r := salesRouter(&stubVentaService{}, &stubPagoService{err: service.ErrVentaNoEncontrada})
	w := doJSON(t, r, http.MethodGet, "/sales/"+uuid.New().String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestObtenerVenta_IDInvalido(t *testing.T) {
	r := salesRouter(&stubVentaService{}, &stubPagoService{})
	w := doJSON(t, r, http.MethodGet, "/sales/no-es-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestObtenerVenta_LiteralPendingListaPendientes(t *testing.T) {
	pendientes := []dto.VentaPendienteResponse{
		{ID: uuid.New().String(), Total: decimal.NewFromInt(90), Pagado: decimal.NewFromInt(50), Saldo: decimal.NewFromInt(40)},
	}
	r := salesRouter(&stubVentaService{}, &stubPagoService{pendientes: pendientes})

	w := doJSON(t, r, http.MethodGet, "/sales/pending", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp []dto.VentaPendienteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, pendientes[0].ID, resp[0].ID)
}

func TestRegistrarPago_OK(t *testing.T) {
	r := salesRouter(&stubVentaService{}, &stubPagoService{})
	w := doJSON(t, r, http.MethodPost, "/sales/"+uuid.New().String()+"/payments", dto.RegistrarPagoRequest{
		Tipo: "efectivo", Monto: decimal.NewFromInt(10),
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]bool
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp["ok"])
}

func TestRegistrarPago_LineaAjenaEs404(t *testing.T) {
	r := salesRouter(&stubVentaService{}, &stubPagoService{err: service.ErrLineaNoEncontrada})
	w := doJSON(t, r, http.MethodPost, "/sales/"+uuid.New().String()+"/payments", dto.RegistrarPagoRequest{
		Tipo: "efectivo", Monto: decimal.NewFromInt(10),
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSyncBatch_LiteralEnWildcard(t *testing.T) {
	r := salesRouter(&stubVentaService{}, &stubPagoService{})

	w := doJSON(t, r, http.MethodPost, "/sales/sync-batch", dto.SyncBatchRequest{
		Ventas: []dto.RegistrarVentaRequest{ventaRequest()},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp []dto.SyncResultado
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.True(t, resp[0].OK)

	// Any other literal on the POST wildcard is not a resource.
	w = doJSON(t, r, http.MethodPost, "/sales/"+uuid.New().String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEliminarVenta_NoContent(t *testing.T) {
	r := salesRouter(&stubVentaService{}, &stubPagoService{})
	w := doJSON(t, r, http.MethodDelete, "/sales/"+uuid.New().String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
