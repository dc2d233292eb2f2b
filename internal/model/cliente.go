package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente is an optional customer record attached to sales, used by the
// collections workflow when a sale is left partially paid.
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"index;not null"`
	Telefono  *string
	Email     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
