package models

import (
	"time"

	"github.com/google/uuid"
)

// Gender is the top level of the catalog taxonomy (e.g. women, men, kids).
type Gender struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Slug      string    `gorm:"column:slug;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
