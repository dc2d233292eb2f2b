package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Combo is a named bundle of products sold as a single purchasable unit.
// Precio is informational (reports, price lists); each expanded sale line
// bills at its own product's catalog price, not a pro-rated combo price.
type Combo struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string          `gorm:"index;not null"`
	Precio    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Activo    bool            `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Productos []ComboProducto `gorm:"foreignKey:ComboID"`
}

// ComboProducto is one membership entry of a combo.
type ComboProducto struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ComboID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductoID uuid.UUID `gorm:"type:uuid;not null;index"`
	Cantidad   int       `gorm:"not null;default:1"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (ComboProducto) TableName() string { return "combo_productos" }
