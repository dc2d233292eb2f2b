package repository

import (
	"context"

	"github.com/Thesergioandres/sistema-pos-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ComboRepository interface {
	Create(ctx context.Context, c *model.Combo) error
	// FindByID loads the combo with its membership entries and their products,
	// so the expander can derive each constituent line's price.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Combo, error)
	List(ctx context.Context) ([]model.Combo, error)
}

type comboRepo struct{ db *gorm.DB }

func NewComboRepository(db *gorm.DB) ComboRepository { return &comboRepo{db: db} }

func (r *comboRepo) Create(ctx context.Context, c *model.Combo) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *comboRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Combo, error) {
	var c model.Combo
	err := r.db.WithContext(ctx).Preload("Productos.Producto").
		Where("activo = true").First(&c, id).Error
	return &c, err
}

func (r *comboRepo) List(ctx context.Context) ([]model.Combo, error) {
	var combos []model.Combo
	err := r.db.WithContext(ctx).Preload("Productos.Producto").
		Where("activo = true").Order("nombre ASC").Find(&combos).Error
	return combos, err
}
