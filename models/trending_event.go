package models

import (
	"strings"
	"time"

	"github.com/amirphl/reachbee/utils"
	"gorm.io/gorm"
)

const (
	EventTypeHoliday = "Holiday"
	EventTypeWeather = "Weather Change"

	// priorityBoost is added to holiday and weather events
	priorityBoost = 50
)

// TrendingEvent is an external happening a campaign can be timed around
type TrendingEvent struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"size:255;not null;uniqueIndex:uk_trending_events_title_location_date" json:"title"`
	Description   string    `gorm:"type:text;not null;default:'No description'" json:"description"`
	Location      string    `gorm:"size:255;not null;default:'Unknown';uniqueIndex:uk_trending_events_title_location_date" json:"location"`
	EventType     *string   `gorm:"size:64;index:idx_trending_events_event_type" json:"event_type,omitempty"`
	Date          time.Time `gorm:"not null;uniqueIndex:uk_trending_events_title_location_date;index:idx_trending_events_date" json:"date"`
	TrendingScore float64   `gorm:"not null" json:"trending_score"`
	CreatedAt     time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
}

// TableName returns the table name for TrendingEvent
func (TrendingEvent) TableName() string { return "trending_events" }

// BeforeCreate fills defaults
func (e *TrendingEvent) BeforeCreate(tx *gorm.DB) error {
	if strings.TrimSpace(e.Description) == "" {
		e.Description = "No description"
	}
	if strings.TrimSpace(e.Location) == "" {
		e.Location = "Unknown"
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = utils.UTCNow()
	}
	return nil
}

// IsUpcoming reports whether the event falls within window from now
func (e *TrendingEvent) IsUpcoming(now time.Time, window time.Duration) bool {
	return !e.Date.Before(now) && !e.Date.After(now.Add(window))
}

// PriorityScore boosts holidays and weather events over the raw trending score
func (e *TrendingEvent) PriorityScore() float64 {
	if e.EventType == nil {
		return e.TrendingScore
	}
	t := *e.EventType
	if t == EventTypeHoliday || strings.HasPrefix(t, "Weather") {
		return e.TrendingScore + priorityBoost
	}
	return e.TrendingScore
}

// TrendingEventFilter represents filter criteria for trending event queries
type TrendingEventFilter struct {
	EventType *string
	Location  *string
	DateFrom  *time.Time
	DateTo    *time.Time
}
