package models

import (
	"time"

	"github.com/google/uuid"
)

// EmailOpenEvent is a single pixel fetch for a tracked email.
// It is written in the same transaction that bumps EmailTracking.Opens.
type EmailOpenEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TrackingID uuid.UUID `gorm:"type:uuid;not null;index:idx_email_open_events_tracking_id" json:"tracking_id"`
	IP         string    `gorm:"size:64;not null" json:"ip"`
	UserAgent  *string   `gorm:"type:text" json:"user_agent,omitempty"`
	OpenedAt   time.Time `gorm:"not null;index:idx_email_open_events_opened_at" json:"opened_at"`
}

// TableName returns the table name for EmailOpenEvent
func (EmailOpenEvent) TableName() string { return "email_open_events" }
