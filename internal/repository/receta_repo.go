package repository

import (
	"context"

	"github.com/Thesergioandres/sistema-pos-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecetaRepository is the recipe lookup used during sale creation. Reads are
// live (no caching) so recipe edits take effect on the next sale. An empty
// result is valid: the product simply has no tracked ingredient consumption.
type RecetaRepository interface {
	Create(ctx context.Context, r *model.Receta) error
	ListByProducto(ctx context.Context, productoID uuid.UUID) ([]model.Receta, error)
	ListByProductoConInsumo(ctx context.Context, productoID uuid.UUID) ([]model.Receta, error)
}

type recetaRepo struct{ db *gorm.DB }

func NewRecetaRepository(db *gorm.DB) RecetaRepository { return &recetaRepo{db: db} }

func (r *recetaRepo) Create(ctx context.Context, rec *model.Receta) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *recetaRepo) ListByProducto(ctx context.Context, productoID uuid.UUID) ([]model.Receta, error) {
	var recetas []model.Receta
	err := r.db.WithContext(ctx).Where("producto_id = ?", productoID).Find(&recetas).Error
	return recetas, err
}

func (r *recetaRepo) ListByProductoConInsumo(ctx context.Context, productoID uuid.UUID) ([]model.Receta, error) {
	var recetas []model.Receta
	err := r.db.WithContext(ctx).Preload("Insumo").
		Where("producto_id = ?", productoID).Find(&recetas).Error
	return recetas, err
}
