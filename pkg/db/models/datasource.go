package models

import (
	"time"

	"gorm.io/gorm"
)

// DataSource represents an entry of the data source catalog
type DataSource struct {
	ID      string   `gorm:"primaryKey;type:text"`
	Name    string   `gorm:"type:text;not null"`
	Columns []string `gorm:"type:text;serializer:json"` // Ordered as the source defines them

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
