package repository

import (
	"context"

	"github.com/Thesergioandres/sistema-pos-sub000/internal/dto"
	"github.com/Thesergioandres/sistema-pos-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VentaConPago pairs a sale with the live sum of all its payments. Pagado is
// computed by the query, never read from the denormalized monto_recibido.
type VentaConPago struct {
	model.Venta
	Pagado decimal.Decimal `gorm:"column:pagado"`
}

type VentaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	FindByOfflineID(ctx context.Context, offlineID string) (*model.Venta, error)
	// FindLinea returns the line only when it belongs to the given venta.
	FindLinea(ctx context.Context, ventaID, lineaID uuid.UUID) (*model.VentaProducto, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)
	ListConPagos(ctx context.Context, filter dto.PendientesFilter) ([]VentaConPago, error)

	// Used inside the payment transaction — callers must pass the tx instance
	CreatePagoTx(tx *gorm.DB, p *model.VentaPago) error
	// RecalcularMontoRecibidoTx rewrites monto_recibido from a live SUM over
	// venta_pagos in one statement, so concurrent payment writers cannot lose
	// each other's updates.
	RecalcularMontoRecibidoTx(tx *gorm.DB, ventaID uuid.UUID) error

	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error {
	return tx.WithContext(ctx).Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).
		Preload("Productos.Producto").Preload("Pagos").Preload("Cliente").
		First(&v, id).Error
	return &v, err
}

func (r *ventaRepo) FindByOfflineID(ctx context.Context, offlineID string) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).Where("offline_id = ?", offlineID).First(&v).Error
	return &v, err
}

func (r *ventaRepo) FindLinea(ctx context.Context, ventaID, lineaID uuid.UUID) (*model.VentaProducto, error) {
	var vp model.VentaProducto
	err := r.db.WithContext(ctx).
		Where("id = ? AND venta_id = ?", lineaID, ventaID).
		First(&vp).Error
	return &vp, err
}

func (r *ventaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	// Administrative removal: referential cleanup only, no business rules.
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("venta_id = ?", id).Delete(&model.VentaPago{}).Error; err != nil {
			return err
		}
		if err := tx.Where("venta_id = ?", id).Delete(&model.VentaProducto{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Venta{}, id).Error
	})
}

func (r *ventaRepo) List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var ventas []model.Venta
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Venta{})
	if filter.Fecha != "" {
		q = q.Where("DATE(fecha) = ?", filter.Fecha)
	}
	if filter.SucursalID != "" {
		q = q.Where("sucursal_id = ?", filter.SucursalID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Productos.Producto").Preload("Pagos").
		Order("fecha DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&ventas).Error
	return ventas, total, err
}

func (r *ventaRepo) ListConPagos(ctx context.Context, filter dto.PendientesFilter) ([]VentaConPago, error) {
	var rows []VentaConPago

	q := r.db.WithContext(ctx).Model(&model.Venta{}).
		Select("ventas.*, COALESCE((SELECT SUM(p.monto) FROM venta_pagos p WHERE p.venta_id = ventas.id), 0) AS pagado")

	if filter.SucursalID != "" {
		q = q.Where("ventas.sucursal_id = ?", filter.SucursalID)
	}
	if filter.NegocioID != "" {
		q = q.Joins("JOIN sucursales s ON s.id = ventas.sucursal_id").
			Where("s.negocio_id = ?", filter.NegocioID)
	}
	if filter.Desde != "" {
		q = q.Where("DATE(ventas.fecha) >= ?", filter.Desde)
	}
	if filter.Hasta != "" {
		q = q.Where("DATE(ventas.fecha) <= ?", filter.Hasta)
	}

	err := q.Order("ventas.fecha DESC").Find(&rows).Error
	return rows, err
}

func (r *ventaRepo) CreatePagoTx(tx *gorm.DB, p *model.VentaPago) error {
	return tx.Create(p).Error
}

func (r *ventaRepo) RecalcularMontoRecibidoTx(tx *gorm.DB, ventaID uuid.UUID) error {
	return tx.Model(&model.Venta{}).Where("id = ?", ventaID).
		Update("monto_recibido",
			gorm.Expr("(SELECT COALESCE(SUM(monto), 0) FROM venta_pagos WHERE venta_id = ?)", ventaID)).
		Error
}
