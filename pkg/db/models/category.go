package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is the second taxonomy level, scoped to a gender.
type Category struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	GenderID  uuid.UUID `gorm:"column:gender_id;type:uuid;not null;index"`
	Name      string    `gorm:"column:name;not null"`
	Slug      string    `gorm:"column:slug;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
