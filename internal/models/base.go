package models

import "time"

// Base holds the fields the store manages for every record.
type Base struct {
	ID        string    `json:"id,omitempty"`
	TenantID  string    `json:"tenantId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
