package models

import (
	"testing"
	"time"

	"github.com/amirphl/reachbee/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentTypeValid(t *testing.T) {
	tests := []struct {
		name  string
		value ContentType
		want  bool
	}{
		{"social", ContentTypeSocial, true},
		{"email", ContentTypeEmail, true},
		{"video", ContentTypeVideo, true},
		{"ad", ContentTypeAd, true},
		{"unknown", ContentType("podcast"), false},
		{"empty", ContentType(""), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.value.Valid())
		})
	}

	_, err := ContentType("podcast").Value()
	assert.Error(t, err)
}

func TestCampaignBeforeCreateDefaults(t *testing.T) {
	c := &Campaign{Name: "Spring", Objective: "awareness"}
	require.NoError(t, c.BeforeCreate(nil))

	assert.NotEqual(t, uuid.Nil, c.UUID)
	assert.Equal(t, CampaignStatusActive, c.Status)
	assert.Equal(t, DefaultCampaignMetrics(), c.Metrics)
	assert.NotNil(t, c.Platforms)
	assert.False(t, c.CreatedAt.IsZero())
}

func TestCampaignMetricsScan(t *testing.T) {
	var m CampaignMetrics
	require.NoError(t, m.Scan([]byte(`{"reach":"10","engagement":"1%","conversions":"0%","roi":"2%"}`)))
	assert.Equal(t, "10", m.Reach)
	assert.Equal(t, "2%", m.ROI)

	assert.Error(t, m.Scan(42))
}

func TestCampaignHasPlatform(t *testing.T) {
	c := &Campaign{Platforms: []string{"Twitter", "instagram"}}
	assert.True(t, c.HasPlatform("twitter"))
	assert.False(t, c.HasPlatform("linkedin"))
}

func TestTrendingEventPriorityScore(t *testing.T) {
	tests := []struct {
		name      string
		eventType *string
		want      float64
	}{
		{"holiday boosted", utils.ToPtr(EventTypeHoliday), 135},
		{"weather boosted", utils.ToPtr(EventTypeWeather), 135},
		{"festival not boosted", utils.ToPtr("Festival"), 85},
		{"untyped", nil, 85},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &TrendingEvent{EventType: tt.eventType, TrendingScore: 85}
			assert.Equal(t, tt.want, e.PriorityScore())
		})
	}
}

func TestTrendingEventIsUpcoming(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	window := utils.UpcomingEventsWindow

	assert.True(t, (&TrendingEvent{Date: now.Add(24 * time.Hour)}).IsUpcoming(now, window))
	assert.True(t, (&TrendingEvent{Date: now}).IsUpcoming(now, window))
	assert.False(t, (&TrendingEvent{Date: now.Add(-time.Hour)}).IsUpcoming(now, window))
	assert.False(t, (&TrendingEvent{Date: now.Add(11 * 24 * time.Hour)}).IsUpcoming(now, window))
}
