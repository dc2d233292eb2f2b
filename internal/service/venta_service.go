package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Thesergioandres/sistema-pos-sub000/internal/dto"
	"github.com/Thesergioandres/sistema-pos-sub000/internal/model"
	"github.com/Thesergioandres/sistema-pos-sub000/internal/repository"
	"github.com/Thesergioandres/sistema-pos-sub000/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VentaService interface {
	RegistrarVenta(ctx context.Context, req dto.RegistrarVentaRequest) (*model.Venta, error)
	SyncBatch(ctx context.Context, req dto.SyncBatchRequest) []dto.SyncResultado
	ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
	EliminarVenta(ctx context.Context, id uuid.UUID) error
}

type ventaService struct {
	ventas     repository.VentaRepository
	productos  repository.ProductoRepository
	combos     repository.ComboRepository
	usuarios   repository.UsuarioRepository
	inventario InventarioService
	dispatcher *worker.Dispatcher
}

func NewVentaService(
	ventas repository.VentaRepository,
	productos repository.ProductoRepository,
	combos repository.ComboRepository,
	usuarios repository.UsuarioRepository,
	inventario InventarioService,
	dispatcher *worker.Dispatcher,
) VentaService {
	return &ventaService{
		ventas:     ventas,
		productos:  productos,
		combos:     combos,
		usuarios:   usuarios,
		inventario: inventario,
		dispatcher: dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// lineaExpandida is one flat (producto, cantidad, subtotal) tuple produced by
// the expander. Combo-expanded lines and direct lines are never merged: a
// product requested twice yields two lines.
type lineaExpandida struct {
	productoID uuid.UUID
	nombre     string
	cantidad   int
	subtotal   decimal.Decimal
}

// expandLineas normalizes the requested purchase into flat product lines.
// Direct lines bill at the live catalog price (the client-supplied precio is
// ignored); each combo of quantity n containing (P, q) expands to a line
// (P, q*n) billed at P's own price. An unknown or inactive combo is skipped
// with an audit log entry instead of failing the sale.
func (s *ventaService) expandLineas(ctx context.Context, req dto.RegistrarVentaRequest) ([]lineaExpandida, error) {
	var lineas []lineaExpandida

	for _, item := range req.Productos {
		pid, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("productoId inválido: %w", err)
		}
		p, err := s.productos.FindByID(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrProductoNoEncontrado, item.ProductoID)
		}
		cantidad := decimal.NewFromInt(int64(item.Cantidad))
		lineas = append(lineas, lineaExpandida{
			productoID: pid,
			nombre:     p.Nombre,
			cantidad:   item.Cantidad,
			subtotal:   p.Precio.Mul(cantidad),
		})
	}

	for _, item := range req.Combos {
		cid, err := uuid.Parse(item.ComboID)
		if err != nil {
			return nil, fmt.Errorf("comboId inválido: %w", err)
		}
		combo, err := s.combos.FindByID(ctx, cid)
		if err != nil {
			// Deliberate leniency: a stale combo reference must not block the
			// rest of the sale. The skip is logged so operators can audit it.
			log.Warn().Str("combo_id", item.ComboID).Err(err).
				Msg("combo desconocido, se omite de la venta")
			continue
		}
		for _, cp := range combo.Productos {
			producto := cp.Producto
			if producto == nil {
				p, err := s.productos.FindByID(ctx, cp.ProductoID)
				if err != nil {
					return nil, fmt.Errorf("%w: %s (combo %s)", ErrProductoNoEncontrado, cp.ProductoID, combo.Nombre)
				}
				producto = p
			}
			cantidad := cp.Cantidad * item.Cantidad
			lineas = append(lineas, lineaExpandida{
				productoID: cp.ProductoID,
				nombre:     producto.Nombre,
				cantidad:   cantidad,
				subtotal:   producto.Precio.Mul(decimal.NewFromInt(int64(cantidad))),
			})
		}
	}

	return lineas, nil
}

// RegistrarVenta records one sale as a single atomic unit of work: ingredient
// stock decrements for every expanded line, the sale header, its lines and
// its initial payments either all commit or none do.
func (s *ventaService) RegistrarVenta(ctx context.Context, req dto.RegistrarVentaRequest) (*model.Venta, error) {
	usuarioID, err := uuid.Parse(req.UsuarioID)
	if err != nil {
		return nil, fmt.Errorf("usuarioId inválido: %w", err)
	}

	// 1. Validate seller before mutating anything
	if _, err := s.usuarios.FindByID(ctx, usuarioID); err != nil {
		return nil, ErrUsuarioNoEncontrado
	}

	// 2. Offline replay dedup — a repeated token returns the recorded sale
	if req.OfflineID != nil {
		if existing, err := s.ventas.FindByOfflineID(ctx, *req.OfflineID); err == nil {
			return existing, nil
		}
	}

	// 3. Expand combos into flat product lines (pre-flight, outside TX)
	lineas, err := s.expandLineas(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(lineas) == 0 {
		return nil, ErrVentaSinLineas
	}

	// Total is derived server-side from the expanded lines; the client value
	// is informational only.
	total := decimal.Zero
	for _, l := range lineas {
		total = total.Add(l.subtotal)
	}

	medioPago := "efectivo"
	if len(req.Pagos) > 0 {
		medioPago = req.Pagos[0].Tipo
	}
	montoRecibido := decimal.Zero
	for _, p := range req.Pagos {
		if !p.Monto.IsPositive() {
			return nil, ErrMontoInvalido
		}
		montoRecibido = montoRecibido.Add(p.Monto)
	}

	var sucursalID, clienteID *uuid.UUID
	if req.SucursalID != nil {
		id, err := uuid.Parse(*req.SucursalID)
		if err != nil {
			return nil, fmt.Errorf("sucursalId inválido: %w", err)
		}
		sucursalID = &id
	}
	if req.ClienteID != nil {
		id, err := uuid.Parse(*req.ClienteID)
		if err != nil {
			return nil, fmt.Errorf("clienteId inválido: %w", err)
		}
		clienteID = &id
	}

	// 4. ACID transaction: stock decrements first, then the aggregate insert.
	// Any failure rolls the whole unit back — no partial lines, payments or
	// decrements survive.
	var venta model.Venta
	var insumosTocados []uuid.UUID
	txErr := runTx(ctx, s.ventas.DB(), func(tx *gorm.DB) error {
		for _, l := range lineas {
			touched, err := s.inventario.DescontarPorProductoTx(ctx, tx, l.productoID, l.cantidad)
			if err != nil {
				return fmt.Errorf("error descontando insumos de %s: %w", l.nombre, err)
			}
			insumosTocados = append(insumosTocados, touched...)
		}

		venta = model.Venta{
			Fecha:         time.Now(),
			UsuarioID:     usuarioID,
			SucursalID:    sucursalID,
			ClienteID:     clienteID,
			Total:         total,
			MedioPago:     medioPago,
			MontoRecibido: montoRecibido,
			Cambio:        req.Cambio,
			OfflineID:     req.OfflineID,
		}
		for _, l := range lineas {
			venta.Productos = append(venta.Productos, model.VentaProducto{
				ProductoID: l.productoID,
				Cantidad:   l.cantidad,
				Subtotal:   l.subtotal,
			})
		}
		// Initial payments are global-scope: no line earmark at creation time.
		for _, p := range req.Pagos {
			venta.Pagos = append(venta.Pagos, model.VentaPago{
				Tipo:  p.Tipo,
				Monto: p.Monto,
			})
		}

		return s.ventas.Create(ctx, tx, &venta)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("venta_id", venta.ID.String()).
		Str("total", total.String()).
		Int("lineas", len(lineas)).
		Msg("venta registrada")

	// 5. Async low-stock check over the insumos this sale consumed
	if s.dispatcher != nil && len(insumosTocados) > 0 {
		ids := make([]string, 0, len(insumosTocados))
		for _, id := range insumosTocados {
			ids = append(ids, id.String())
		}
		_ = s.dispatcher.EnqueueAlertaStock(ctx, worker.AlertaStockPayload{InsumoIDs: ids})
	}

	return &venta, nil
}

// SyncBatch replays a batch of sales captured by the offline queue through the
// regular creation path. Idempotency comes from offlineId dedup; a failed
// entry is reported back so the client keeps it queued for the next sync.
func (s *ventaService) SyncBatch(ctx context.Context, req dto.SyncBatchRequest) []dto.SyncResultado {
	results := make([]dto.SyncResultado, 0, len(req.Ventas))
	for _, ventaReq := range req.Ventas {
		venta, err := s.RegistrarVenta(ctx, ventaReq)
		if err != nil {
			results = append(results, dto.SyncResultado{OK: false, Error: err.Error()})
			continue
		}
		results = append(results, dto.SyncResultado{OK: true, VentaID: venta.ID.String()})
	}
	return results
}

func (s *ventaService) ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	ventas, total, err := s.ventas.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VentaDetalleResponse, 0, len(ventas))
	for i := range ventas {
		items = append(items, *ventaToDetalle(&ventas[i]))
	}
	return &dto.VentaListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// EliminarVenta is an administrative removal: referential cleanup only, not
// constrained by balance state and without inventory compensation.
func (s *ventaService) EliminarVenta(ctx context.Context, id uuid.UUID) error {
	if _, err := s.ventas.FindByID(ctx, id); err != nil {
		return ErrVentaNoEncontrada
	}
	return s.ventas.Delete(ctx, id)
}
