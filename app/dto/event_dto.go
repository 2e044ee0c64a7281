package dto

import "time"

// UpcomingEventsRequest bounds the look-ahead window
type UpcomingEventsRequest struct {
	Days int `query:"days" validate:"omitempty,min=1,max=365"`
}

// TrendingEventDTO is one upcoming event
type TrendingEventDTO struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Location      string    `json:"location"`
	EventType     *string   `json:"eventType,omitempty"`
	Date          time.Time `json:"date"`
	TrendingScore float64   `json:"trendingScore"`
	PriorityScore float64   `json:"priorityScore"`
}

// UpcomingEventsResponse lists events by descending priority
type UpcomingEventsResponse struct {
	Items []TrendingEventDTO `json:"items"`
}

// RefreshEventsResponse reports one refresh run
type RefreshEventsResponse struct {
	Fetched  int               `json:"fetched"`
	Inserted int64             `json:"inserted"`
	Failures map[string]string `json:"failures,omitempty"`
}
