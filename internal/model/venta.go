package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Venta is the aggregate root of one point-of-sale transaction.
// Total is frozen at creation time and always equals the sum of its
// productos' subtotales. MontoRecibido is a denormalized running sum of
// pagos kept in sync on every payment write; settlement is always derived
// by re-summing pagos at read time, never from this field.
type Venta struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Fecha      time.Time       `gorm:"not null;index"`
	UsuarioID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	SucursalID *uuid.UUID      `gorm:"type:uuid;index"`
	ClienteID  *uuid.UUID      `gorm:"type:uuid;index"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// MedioPago is a label derived from the first payment ("efectivo" when
	// the sale was created without payments).
	MedioPago     string          `gorm:"type:varchar(30);not null;default:'efectivo'"`
	MontoRecibido decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Cambio        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	// OfflineID is the client-generated idempotency token for sales queued
	// while offline; replaying the same token returns the recorded sale.
	OfflineID *string `gorm:"uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Usuario   *Usuario        `gorm:"foreignKey:UsuarioID"`
	Cliente   *Cliente        `gorm:"foreignKey:ClienteID"`
	Productos []VentaProducto `gorm:"foreignKey:VentaID"`
	Pagos     []VentaPago     `gorm:"foreignKey:VentaID"`
}

// VentaProducto is one immutable line of a sale. Combos are expanded before
// lines are written, so a line always references a plain product; Subtotal
// snapshots the catalog price at sale time.
type VentaProducto struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad   int             `gorm:"not null"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

// TableName overrides GORM's pluralization (venta_productoes → venta_productos).
func (VentaProducto) TableName() string { return "venta_productos" }

// VentaPago is one append-only payment toward a sale. VentaProductoID is nil
// for payments applied to the sale as a whole; when set it earmarks the
// payment to a single line. Global and line-scoped payments are separate
// buckets that both roll up into the sale-level total paid.
type VentaPago struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	VentaProductoID *uuid.UUID      `gorm:"type:uuid;index"`
	Tipo            string          `gorm:"type:varchar(30);not null"`
	Monto           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt       time.Time
}

func (VentaPago) TableName() string { return "venta_pagos" }
