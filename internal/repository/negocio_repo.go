package repository

import (
	"context"

	"github.com/Thesergioandres/sistema-pos-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NegocioRepository interface {
	CreateNegocio(ctx context.Context, n *model.Negocio) error
	CreateSucursal(ctx context.Context, s *model.Sucursal) error
	FindSucursalByID(ctx context.Context, id uuid.UUID) (*model.Sucursal, error)
	ListSucursales(ctx context.Context, negocioID uuid.UUID) ([]model.Sucursal, error)
}

type negocioRepo struct{ db *gorm.DB }

func NewNegocioRepository(db *gorm.DB) NegocioRepository { return &negocioRepo{db: db} }

func (r *negocioRepo) CreateNegocio(ctx context.Context, n *model.Negocio) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *negocioRepo) CreateSucursal(ctx context.Context, s *model.Sucursal) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *negocioRepo) FindSucursalByID(ctx context.Context, id uuid.UUID) (*model.Sucursal, error) {
	var s model.Sucursal
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *negocioRepo) ListSucursales(ctx context.Context, negocioID uuid.UUID) ([]model.Sucursal, error) {
	var sucursales []model.Sucursal
	err := r.db.WithContext(ctx).Where("negocio_id = ?", negocioID).Order("nombre ASC").Find(&sucursales).Error
	return sucursales, err
}
