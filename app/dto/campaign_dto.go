package dto

import "time"

// LaunchCampaignRequest creates a campaign and optionally posts it
type LaunchCampaignRequest struct {
	UserID      string     `json:"userId" validate:"required,max=128"`
	Name        string     `json:"name" validate:"required,max=255"`
	Objective   string     `json:"objective" validate:"required,max=255"`
	Description *string    `json:"description,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Platforms   []string   `json:"platforms" validate:"omitempty,dive,oneof=facebook instagram linkedin twitter"`
	Audience    *string    `json:"audience,omitempty" validate:"omitempty,max=255"`
	Budget      *float64   `json:"budget,omitempty" validate:"omitempty,min=0"`
	Content     string     `json:"content" validate:"max=10000"`
	ContentIDs  []string   `json:"contentIds,omitempty" validate:"omitempty,dive,uuid"`
}

// CampaignDTO is the API view of a campaign
type CampaignDTO struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	Name        string          `json:"name"`
	Objective   string          `json:"objective"`
	Description *string         `json:"description,omitempty"`
	StartDate   *time.Time      `json:"startDate,omitempty"`
	EndDate     *time.Time      `json:"endDate,omitempty"`
	Platforms   []string        `json:"platforms"`
	Audience    *string         `json:"audience,omitempty"`
	Budget      *float64        `json:"budget,omitempty"`
	Content     string          `json:"content"`
	ContentIDs  []string        `json:"contentIds"`
	Status      string          `json:"status"`
	Metrics     CampaignMetrics `json:"metrics"`
	TweetID     *string         `json:"tweetId,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// CampaignMetrics mirrors the placeholder metrics of a campaign
type CampaignMetrics struct {
	Reach       string `json:"reach"`
	Engagement  string `json:"engagement"`
	Conversions string `json:"conversions"`
	ROI         string `json:"roi"`
}

// LaunchCampaignResponse reports the stored campaign and the Twitter outcome
type LaunchCampaignResponse struct {
	Campaign     CampaignDTO `json:"campaign"`
	TweetID      *string     `json:"tweetId,omitempty"`
	TwitterError *string     `json:"twitterError,omitempty"`
	RateLimited  bool        `json:"rateLimited"`
}

// ListCampaignsRequest filters campaigns
type ListCampaignsRequest struct {
	UserID string `query:"userId" validate:"omitempty,max=128"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset int    `query:"offset" validate:"omitempty,min=0"`
}

// ListCampaignsResponse is one page of campaigns
type ListCampaignsResponse struct {
	Items []CampaignDTO `json:"items"`
	Total int64         `json:"total"`
}
