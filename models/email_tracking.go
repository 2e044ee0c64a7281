package models

import (
	"time"

	"github.com/amirphl/reachbee/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// EmailTracking is the open-tracking record of one sent email campaign.
// Opens only grows; OpenedBy holds each requester address once.
type EmailTracking struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	TrackingID   uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uk_email_trackings_tracking_id" json:"tracking_id"`
	Subject      string         `gorm:"size:512;not null" json:"subject"`
	CampaignType string         `gorm:"size:64;not null;default:'';index:idx_email_trackings_campaign_type" json:"campaign_type"`
	Recipients   pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"recipients"`
	Opens        int64          `gorm:"not null;default:0" json:"opens"`
	LastOpenedAt *time.Time     `json:"last_opened_at,omitempty"`
	OpenedBy     pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"opened_by"`
	HTML         string         `gorm:"type:text;not null;default:''" json:"-"`
	SentAt       *time.Time     `gorm:"index:idx_email_trackings_sent_at" json:"sent_at,omitempty"`
	CreatedAt    time.Time      `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_email_trackings_created_at" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

// TableName returns the table name for EmailTracking
func (EmailTracking) TableName() string { return "email_trackings" }

// BeforeCreate ensures the tracking id and empty arrays are set
func (e *EmailTracking) BeforeCreate(tx *gorm.DB) error {
	if e.TrackingID == uuid.Nil {
		e.TrackingID = uuid.New()
	}
	if e.Recipients == nil {
		e.Recipients = pq.StringArray{}
	}
	if e.OpenedBy == nil {
		e.OpenedBy = pq.StringArray{}
	}
	now := utils.UTCNow()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = now
	}
	return nil
}

// EmailTrackingFilter provides filter fields for repository queries
type EmailTrackingFilter struct {
	ID           *uint
	TrackingID   *uuid.UUID
	CampaignType *string
	SentAfter    *time.Time
	SentBefore   *time.Time
}
