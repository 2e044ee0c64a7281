package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/amirphl/reachbee/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ContentType classifies a piece of generated content
type ContentType string

const (
	ContentTypeSocial ContentType = "social"
	ContentTypeEmail  ContentType = "email"
	ContentTypeVideo  ContentType = "video"
	ContentTypeAd     ContentType = "ad"
)

func (t ContentType) String() string {
	return string(t)
}

// Valid checks if the content type is one of the known kinds
func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeSocial, ContentTypeEmail, ContentTypeVideo, ContentTypeAd:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for ContentType
func (t *ContentType) Scan(value any) error {
	if value == nil {
		*t = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*t = ContentType(v)
	case []byte:
		*t = ContentType(string(v))
	default:
		return fmt.Errorf("cannot scan %T into ContentType", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for ContentType
func (t ContentType) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid ContentType: %s", t)
	}
	return string(t), nil
}

// ContentRecord is a piece of generated content the user chose to keep.
// Rows are immutable once written.
type ContentRecord struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UUID      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uk_content_records_uuid" json:"uuid"`
	Type      ContentType    `gorm:"type:varchar(16);not null;index:idx_content_records_type" json:"type"`
	Prompt    string         `gorm:"type:text;not null" json:"prompt"`
	Body      string         `gorm:"type:text;not null" json:"body"`
	ImageRef  *string        `gorm:"type:text" json:"image_ref,omitempty"`
	Platforms pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"platforms"`
	CreatedAt time.Time      `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_content_records_created_at" json:"created_at"`
}

// TableName returns the table name for ContentRecord
func (ContentRecord) TableName() string { return "content_records" }

// BeforeCreate ensures UUID and timestamp are set
func (r *ContentRecord) BeforeCreate(tx *gorm.DB) error {
	if r.UUID == uuid.Nil {
		r.UUID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = utils.UTCNow()
	}
	if r.Platforms == nil {
		r.Platforms = pq.StringArray{}
	}
	return nil
}

// ContentRecordFilter provides filter fields for repository queries
type ContentRecordFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	Type          *ContentType
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
