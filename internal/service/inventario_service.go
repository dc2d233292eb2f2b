package service

import (
	"context"

	"github.com/Thesergioandres/sistema-pos-sub000/internal/dto"
	"github.com/Thesergioandres/sistema-pos-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventarioService applies recipe-driven stock consumption and exposes the
// low-stock report. Decrements are unconditional: a sale is never blocked by
// stock bookkeeping, and stock below zero is an allowed state that surfaces
// through ObtenerAlertas and the alert worker instead of a hard error.
type InventarioService interface {
	// DescontarPorProductoTx resolves the product's recipe and applies one
	// atomic stock decrement per ingredient, all inside the caller's sale
	// transaction. Returns the ids of the insumos it touched. A product
	// without recipe rows is a no-op, not a failure.
	DescontarPorProductoTx(ctx context.Context, tx *gorm.DB, productoID uuid.UUID, cantidad int) ([]uuid.UUID, error)
	ObtenerAlertas(ctx context.Context) ([]dto.AlertaInsumoResponse, error)
}

type inventarioService struct {
	insumos repository.InsumoRepository
	recetas repository.RecetaRepository
}

func NewInventarioService(insumos repository.InsumoRepository, recetas repository.RecetaRepository) InventarioService {
	return &inventarioService{insumos: insumos, recetas: recetas}
}

func (s *inventarioService) DescontarPorProductoTx(ctx context.Context, tx *gorm.DB, productoID uuid.UUID, cantidad int) ([]uuid.UUID, error) {
	recetas, err := s.recetas.ListByProducto(ctx, productoID)
	if err != nil {
		return nil, err
	}
	if len(recetas) == 0 {
		// Deliberate no-op: the product has no tracked ingredient consumption.
		log.Debug().Str("producto_id", productoID.String()).Msg("producto sin receta, no se descuenta stock")
		return nil, nil
	}

	factor := decimal.NewFromInt(int64(cantidad))
	touched := make([]uuid.UUID, 0, len(recetas))
	for _, r := range recetas {
		if err := s.insumos.DescontarStockTx(tx, r.InsumoID, r.Cantidad.Mul(factor)); err != nil {
			return nil, err
		}
		touched = append(touched, r.InsumoID)
	}
	return touched, nil
}

func (s *inventarioService) ObtenerAlertas(ctx context.Context) ([]dto.AlertaInsumoResponse, error) {
	insumos, err := s.insumos.ListBajoStock(ctx)
	if err != nil {
		return nil, err
	}
	alertas := make([]dto.AlertaInsumoResponse, 0, len(insumos))
	for _, i := range insumos {
		alertas = append(alertas, dto.AlertaInsumoResponse{
			ID:          i.ID.String(),
			Nombre:      i.Nombre,
			Stock:       i.Stock,
			Unidad:      i.Unidad,
			StockMinimo: i.StockMinimo,
		})
	}
	return alertas, nil
}
