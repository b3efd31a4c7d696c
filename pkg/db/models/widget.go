package models

import (
	"time"

	"gorm.io/gorm"
)

// Widget represents a saved filter-editor instance
type Widget struct {
	ID           string `gorm:"primaryKey;type:text"`
	DataSourceID string `gorm:"type:text;index"`
	Settings     string `gorm:"type:text;not null"` // JSON encoded widget settings
	Result       string `gorm:"type:text"`          // JSON encoded result, or a diagnostic string
	Failed       bool   `gorm:"default:false"`      // Result holds a diagnostic

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
