package repository

import (
	"context"

	"github.com/Thesergioandres/sistema-pos-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InsumoRepository defines the data access contract for ingredients.
// Stock mutations go through DescontarStockTx exclusively: a single atomic
// "stock = stock - ?" statement, never read-modify-write in the application
// tier, so concurrent sales depleting the same insumo serialize at the row.
type InsumoRepository interface {
	Create(ctx context.Context, i *model.Insumo) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Insumo, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Insumo, error)
	List(ctx context.Context) ([]model.Insumo, error)
	ListBajoStock(ctx context.Context) ([]model.Insumo, error)

	// Used inside sale transactions — callers must pass the tx instance.
	// The decrement is unconditional: stock below zero is allowed.
	DescontarStockTx(tx *gorm.DB, id uuid.UUID, cantidad decimal.Decimal) error

	DB() *gorm.DB
}

type insumoRepo struct{ db *gorm.DB }

func NewInsumoRepository(db *gorm.DB) InsumoRepository { return &insumoRepo{db: db} }

func (r *insumoRepo) DB() *gorm.DB { return r.db }

func (r *insumoRepo) Create(ctx context.Context, i *model.Insumo) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *insumoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Insumo, error) {
	var i model.Insumo
	err := r.db.WithContext(ctx).First(&i, id).Error
	return &i, err
}

func (r *insumoRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Insumo, error) {
	var insumos []model.Insumo
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&insumos).Error
	return insumos, err
}

func (r *insumoRepo) List(ctx context.Context) ([]model.Insumo, error) {
	var insumos []model.Insumo
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&insumos).Error
	return insumos, err
}

func (r *insumoRepo) ListBajoStock(ctx context.Context) ([]model.Insumo, error) {
	var insumos []model.Insumo
	err := r.db.WithContext(ctx).Where("stock <= stock_minimo").Order("nombre ASC").Find(&insumos).Error
	return insumos, err
}

func (r *insumoRepo) DescontarStockTx(tx *gorm.DB, id uuid.UUID, cantidad decimal.Decimal) error {
	return tx.Model(&model.Insumo{}).Where("id = ?", id).
		Update("stock", gorm.Expr("stock - ?", cantidad)).Error
}
