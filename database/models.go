package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Record is the common head of append-only tables: a random UUID key plus
// GORM-managed timestamps.
type Record struct {
	ID        uuid.UUID `gorm:"type:text;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// BeforeCreate assigns an ID unless the caller chose one.
func (r *Record) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
