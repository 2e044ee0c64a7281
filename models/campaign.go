package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/amirphl/reachbee/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// CampaignStatus represents the lifecycle state of a marketing campaign
type CampaignStatus string

const (
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusPaused    CampaignStatus = "paused"
	CampaignStatusCompleted CampaignStatus = "completed"
)

func (s CampaignStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignStatusActive, CampaignStatusPaused, CampaignStatusCompleted:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for CampaignStatus
func (s *CampaignStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = CampaignStatus(v)
	case []byte:
		*s = CampaignStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into CampaignStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for CampaignStatus
func (s CampaignStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid CampaignStatus: %s", s)
	}
	return string(s), nil
}

// CampaignMetrics holds display metrics of a campaign.
// Values are placeholders set at launch; nothing in the service computes them.
type CampaignMetrics struct {
	Reach       string `json:"reach"`
	Engagement  string `json:"engagement"`
	Conversions string `json:"conversions"`
	ROI         string `json:"roi"`
}

// DefaultCampaignMetrics returns the metrics every new campaign starts with
func DefaultCampaignMetrics() CampaignMetrics {
	return CampaignMetrics{
		Reach:       "0",
		Engagement:  "0%",
		Conversions: "0%",
		ROI:         "0%",
	}
}

// Value implements the driver.Valuer interface for CampaignMetrics
func (m CampaignMetrics) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface for CampaignMetrics
func (m *CampaignMetrics) Scan(value any) error {
	if value == nil {
		*m = CampaignMetrics{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into CampaignMetrics", value)
	}

	return json.Unmarshal(bytes, m)
}

// Campaign represents a multi-platform marketing campaign
type Campaign struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UUID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uk_campaigns_uuid" json:"uuid"`
	UserID      string          `gorm:"size:128;not null;index:idx_campaigns_user_id" json:"user_id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Objective   string          `gorm:"size:255;not null" json:"objective"`
	Description *string         `gorm:"type:text" json:"description,omitempty"`
	StartDate   *time.Time      `json:"start_date,omitempty"`
	EndDate     *time.Time      `json:"end_date,omitempty"`
	Platforms   pq.StringArray  `gorm:"type:text[];not null;default:'{}'" json:"platforms"`
	Audience    *string         `gorm:"type:text" json:"audience,omitempty"`
	Budget      *float64        `gorm:"type:numeric(14,2)" json:"budget,omitempty"`
	Content     string          `gorm:"type:text;not null;default:''" json:"content"`
	ContentIDs  pq.StringArray  `gorm:"type:text[];not null;default:'{}'" json:"content_ids"`
	Status      CampaignStatus  `gorm:"type:varchar(16);not null;default:'active';index:idx_campaigns_status" json:"status"`
	Metrics     CampaignMetrics `gorm:"type:jsonb;not null" json:"metrics"`
	TweetID     *string         `gorm:"size:64" json:"tweet_id,omitempty"`
	CreatedAt   time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_campaigns_created_at" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

// TableName returns the table name for the model
func (Campaign) TableName() string { return "campaigns" }

// BeforeCreate fills identifiers, placeholders and timestamps
func (c *Campaign) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	if c.Status == "" {
		c.Status = CampaignStatusActive
	}
	if c.Metrics == (CampaignMetrics{}) {
		c.Metrics = DefaultCampaignMetrics()
	}
	if c.Platforms == nil {
		c.Platforms = pq.StringArray{}
	}
	if c.ContentIDs == nil {
		c.ContentIDs = pq.StringArray{}
	}
	now := utils.UTCNow()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}
	return nil
}

// HasPlatform reports whether the campaign targets the given platform
func (c *Campaign) HasPlatform(platform string) bool {
	return utils.ContainsFold(c.Platforms, platform)
}

// CampaignFilter represents filter criteria for campaign queries
type CampaignFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	UserID        *string
	Status        *CampaignStatus
	Platform      *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
