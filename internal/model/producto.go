package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is a sellable catalog item. Precio is mutable over time; sales
// snapshot it into VentaProducto.Subtotal, so later edits never rewrite history.
type Producto struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre string    `gorm:"index;not null"`
	// Tamano is the size/variant label ("500ml", "1L", "botella").
	Tamano    string          `gorm:"type:varchar(30)"`
	Precio    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Activo    bool            `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
