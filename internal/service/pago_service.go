package service

import (
	"context"

	"github.com/Thesergioandres/sistema-pos-sub000/internal/dto"
	"github.com/Thesergioandres/sistema-pos-sub000/internal/model"
	"github.com/Thesergioandres/sistema-pos-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// PagoService is the payment ledger: it appends incremental payments against
// an existing sale and derives outstanding balances per line and per sale.
type PagoService interface {
	RegistrarPago(ctx context.Context, ventaID uuid.UUID, req dto.RegistrarPagoRequest) error
	ObtenerVenta(ctx context.Context, id uuid.UUID) (*dto.VentaDetalleResponse, error)
	ListPendientes(ctx context.Context, filter dto.PendientesFilter) ([]dto.VentaPendienteResponse, error)
}

type pagoService struct {
	ventas repository.VentaRepository
}

func NewPagoService(ventas repository.VentaRepository) PagoService {
	return &pagoService{ventas: ventas}
}

// RegistrarPago appends one payment and refreshes the denormalized
// monto_recibido inside the same transaction. The recompute is a single
// UPDATE-from-SUM statement, so concurrent payments to the same sale cannot
// lose each other's writes.
func (s *pagoService) RegistrarPago(ctx context.Context, ventaID uuid.UUID, req dto.RegistrarPagoRequest) error {
	if _, err := s.ventas.FindByID(ctx, ventaID); err != nil {
		return ErrVentaNoEncontrada
	}
	if !req.Monto.IsPositive() {
		return ErrMontoInvalido
	}

	var lineaID *uuid.UUID
	if req.VentaProductoID != nil {
		id, err := uuid.Parse(*req.VentaProductoID)
		if err != nil {
			return ErrLineaNoEncontrada
		}
		// The earmarked line must belong to this sale.
		if _, err := s.ventas.FindLinea(ctx, ventaID, id); err != nil {
			return ErrLineaNoEncontrada
		}
		lineaID = &id
	}

	err := runTx(ctx, s.ventas.DB(), func(tx *gorm.DB) error {
		pago := &model.VentaPago{
			VentaID:         ventaID,
			VentaProductoID: lineaID,
			Tipo:            req.Tipo,
			Monto:           req.Monto,
		}
		if err := s.ventas.CreatePagoTx(tx, pago); err != nil {
			return err
		}
		return s.ventas.RecalcularMontoRecibidoTx(tx, ventaID)
	})
	if err != nil {
		return err
	}

	log.Info().
		Str("venta_id", ventaID.String()).
		Str("tipo", req.Tipo).
		Str("monto", req.Monto.String()).
		Bool("por_linea", lineaID != nil).
		Msg("pago registrado")
	return nil
}

func (s *pagoService) ObtenerVenta(ctx context.Context, id uuid.UUID) (*dto.VentaDetalleResponse, error) {
	venta, err := s.ventas.FindByID(ctx, id)
	if err != nil {
		return nil, ErrVentaNoEncontrada
	}
	return ventaToDetalle(venta), nil
}

// ListPendientes surfaces sales whose outstanding balance exceeds the rounding
// epsilon, newest first. It derives the balance from a live payment sum — the
// denormalized monto_recibido is never consulted.
func (s *pagoService) ListPendientes(ctx context.Context, filter dto.PendientesFilter) ([]dto.VentaPendienteResponse, error) {
	rows, err := s.ventas.ListConPagos(ctx, filter)
	if err != nil {
		return nil, err
	}
	pendientes := make([]dto.VentaPendienteResponse, 0)
	for _, r := range rows {
		saldo := r.Total.Sub(r.Pagado)
		if saldo.LessThanOrEqual(saldoEpsilon) {
			continue
		}
		pendientes = append(pendientes, dto.VentaPendienteResponse{
			ID:     r.ID.String(),
			Fecha:  r.Fecha.Format(fechaFormato),
			Total:  r.Total,
			Pagado: r.Pagado,
			Saldo:  saldo,
		})
	}
	return pendientes, nil
}
