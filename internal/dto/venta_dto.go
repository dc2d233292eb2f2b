package dto

import "github.com/shopspring/decimal"

// ─── Filters ─────────────────────────────────────────────────────────────────

// VentaFilter is bound from the query string of GET /sales.
type VentaFilter struct {
	Fecha      string `form:"fecha"` // YYYY-MM-DD; empty = all
	SucursalID string `form:"sucursalId"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// PendientesFilter is bound from the query string of GET /sales/pending.
type PendientesFilter struct {
	SucursalID string `form:"sucursalId"`
	NegocioID  string `form:"negocioId"`
	Desde      string `form:"desde"` // YYYY-MM-DD inclusive
	Hasta      string `form:"hasta"` // YYYY-MM-DD inclusive
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ProductoVentaRequest struct {
	ProductoID string `json:"productoId" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"   validate:"required,min=1"`
	// Precio is accepted for compatibility with older clients but ignored:
	// line pricing is always derived server-side from the catalog.
	Precio *decimal.Decimal `json:"precio"`
}

type ComboVentaRequest struct {
	ComboID  string `json:"comboId"  validate:"required,uuid"`
	Cantidad int    `json:"cantidad" validate:"required,min=1"`
}

type PagoRequest struct {
	Tipo  string          `json:"tipo"  validate:"required"`
	Monto decimal.Decimal `json:"monto" validate:"required,gt=0"`
}

type RegistrarVentaRequest struct {
	UsuarioID  string                 `json:"usuarioId"  validate:"required,uuid"`
	SucursalID *string                `json:"sucursalId" validate:"omitempty,uuid"`
	ClienteID  *string                `json:"clienteId"  validate:"omitempty,uuid"`
	Productos  []ProductoVentaRequest `json:"productos"  validate:"omitempty,dive"`
	Combos     []ComboVentaRequest    `json:"combos"     validate:"omitempty,dive"`
	// Total as computed client-side; informational only, the server re-derives
	// it from the expanded lines.
	Total  decimal.Decimal `json:"total"`
	Pagos  []PagoRequest   `json:"pagos" validate:"omitempty,dive"`
	Cambio decimal.Decimal `json:"cambio"`
	// OfflineID is the client-generated idempotency token set by the offline
	// replay queue; a repeated token returns the already-recorded sale.
	OfflineID *string `json:"offlineId" validate:"omitempty,uuid"`
}

type RegistrarPagoRequest struct {
	Tipo            string          `json:"tipo"  validate:"required"`
	Monto           decimal.Decimal `json:"monto" validate:"required,gt=0"`
	VentaProductoID *string         `json:"ventaProductoId" validate:"omitempty,uuid"`
}

// SyncBatchRequest holds multiple offline sales to replay.
type SyncBatchRequest struct {
	Ventas []RegistrarVentaRequest `json:"ventas" validate:"required,min=1,dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type RegistrarVentaResponse struct {
	OK      bool   `json:"ok"`
	VentaID string `json:"ventaId"`
}

// LineaVentaResponse annotates one sale line with its line-scoped payment
// bucket: Pagado sums only payments earmarked to this line; Saldo is clamped
// at zero.
type LineaVentaResponse struct {
	ID         string          `json:"id"`
	ProductoID string          `json:"productoId"`
	Producto   string          `json:"producto"`
	Cantidad   int             `json:"cantidad"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Pagado     decimal.Decimal `json:"pagado"`
	Saldo      decimal.Decimal `json:"saldo"`
}

type PagoResponse struct {
	ID              string          `json:"id"`
	Tipo            string          `json:"tipo"`
	Monto           decimal.Decimal `json:"monto"`
	VentaProductoID *string         `json:"ventaProductoId,omitempty"`
	Fecha           string          `json:"fecha"`
}

type ClienteResumen struct {
	ID       string  `json:"id"`
	Nombre   string  `json:"nombre"`
	Telefono *string `json:"telefono,omitempty"`
}

type VentaDetalleResponse struct {
	ID            string               `json:"id"`
	Fecha         string               `json:"fecha"`
	UsuarioID     string               `json:"usuarioId"`
	SucursalID    *string              `json:"sucursalId,omitempty"`
	Cliente       *ClienteResumen      `json:"cliente,omitempty"`
	Total         decimal.Decimal      `json:"total"`
	MedioPago     string               `json:"medioPago"`
	MontoRecibido decimal.Decimal      `json:"montoRecibido"`
	Cambio        decimal.Decimal      `json:"cambio"`
	Productos     []LineaVentaResponse `json:"productos"`
	Pagos         []PagoResponse       `json:"pagos"`
	TotalPagos    decimal.Decimal      `json:"totalPagos"`
	SaldoTotal    decimal.Decimal      `json:"saldoTotal"`
}

type VentaPendienteResponse struct {
	ID     string          `json:"id"`
	Fecha  string          `json:"fecha"`
	Total  decimal.Decimal `json:"total"`
	Pagado decimal.Decimal `json:"pagado"`
	Saldo  decimal.Decimal `json:"saldo"`
}

type VentaListResponse struct {
	Data  []VentaDetalleResponse `json:"data"`
	Total int64                  `json:"total"`
	Page  int                    `json:"page"`
	Limit int                    `json:"limit"`
}

// SyncResultado reports the outcome of one replayed offline sale. A failed
// entry stays queued client-side and is retried on the next sync.
type SyncResultado struct {
	OK      bool   `json:"ok"`
	VentaID string `json:"ventaId,omitempty"`
	Error   string `json:"error,omitempty"`
}
