package domain

import "time"

// AuditFields holds standard audit information for domain entities.
// There is no user identity in this application, so only timestamps are kept.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}
