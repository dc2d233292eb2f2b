package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Insumo is a stocked raw material consumed by recipes. Stock is mutated
// exclusively through atomic decrements driven by sales; it may go negative —
// a sale is never blocked by stock bookkeeping, the deficit surfaces through
// the low-stock alerting path instead.
type Insumo struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string          `gorm:"index;not null"`
	Stock       decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	Unidad      string          `gorm:"type:varchar(20);not null;default:'unidad'"`
	Proveedor   *string
	StockMinimo decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BajoStock reports whether the insumo is at or below its minimum threshold.
func (i *Insumo) BajoStock() bool {
	return i.Stock.LessThanOrEqual(i.StockMinimo)
}

// Receta is one row of a product's ingredient-consumption formula: selling one
// unit of ProductoID consumes Cantidad of InsumoID. A product may have several
// rows (one per ingredient) or none at all.
type Receta struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID uuid.UUID       `gorm:"type:uuid;not null;index"`
	InsumoID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad   decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	CreatedAt  time.Time

	Insumo *Insumo `gorm:"foreignKey:InsumoID"`
}
