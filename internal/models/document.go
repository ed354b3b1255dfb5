package models

import (
	"time"

	"gorm.io/datatypes"
)

// Document is the relational row behind the postgres store: one table for
// every collection, with the record body kept as jsonb.
type Document struct {
	Collection string         `gorm:"primaryKey;size:64"`
	ID         string         `gorm:"primaryKey;size:128"`
	TenantID   *string        `gorm:"index;size:128"`
	Data       datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt  time.Time      `gorm:"index;autoCreateTime:false"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime:false"`
}

func (Document) TableName() string {
	return "documents"
}
