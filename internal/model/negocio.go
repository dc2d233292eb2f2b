package model

import (
	"time"

	"github.com/google/uuid"
)

// Negocio is a business; a business owns one or more sucursales.
type Negocio struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"uniqueIndex;not null"`
	Activo    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Sucursal is a branch of a negocio. Sales optionally reference the branch
// they were made in; pending-sale reports can filter by it.
type Sucursal struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NegocioID uuid.UUID `gorm:"type:uuid;not null;index"`
	Nombre    string    `gorm:"not null"`
	Direccion *string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Negocio *Negocio `gorm:"foreignKey:NegocioID"`
}

// TableName overrides GORM's pluralization (sucursals → sucursales).
func (Sucursal) TableName() string { return "sucursales" }
