package models

import "time"

// AuditFields holds the timestamp columns shared by mutable tables.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}
