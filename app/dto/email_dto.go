package dto

import "time"

// EmailPreviewRequest asks for a draft without sending
type EmailPreviewRequest struct {
	Prompt       string `json:"prompt" validate:"required,max=4000"`
	CampaignType string `json:"campaignType" validate:"required,max=64"`
}

// EmailPreviewResponse carries the draft and the allowed recipients
type EmailPreviewResponse struct {
	Content       string   `json:"content"`
	AllowedEmails []string `json:"allowedEmails"`
}

// CreateEmailCampaignRequest generates, tracks and sends an email campaign
type CreateEmailCampaignRequest struct {
	Prompt       string   `json:"prompt" validate:"required,max=4000"`
	Subject      string   `json:"subject" validate:"required,max=512"`
	CampaignType string   `json:"campaignType" validate:"required,max=64"`
	Recipients   []string `json:"recipients,omitempty" validate:"omitempty,dive,email"`
}

// FailedRecipient reports a recipient whose send failed
type FailedRecipient struct {
	Email string `json:"email"`
	Error string `json:"error"`
}

// CreateEmailCampaignResponse reports the outcome of a send
type CreateEmailCampaignResponse struct {
	TrackingID string            `json:"trackingId"`
	Subject    string            `json:"subject"`
	Recipients []string          `json:"recipients"`
	SentCount  int               `json:"sentCount"`
	Failed     []FailedRecipient `json:"failed"`
	SentAt     time.Time         `json:"sentAt"`
}

// TrackOpenRequest is one pixel fetch
type TrackOpenRequest struct {
	TrackingID string
	IPAddress  string
	UserAgent  string
}

// EmailAnalyticsDTO is the analytics view of one tracking record
type EmailAnalyticsDTO struct {
	TrackingID     string     `json:"trackingId"`
	Subject        string     `json:"subject"`
	CampaignType   string     `json:"campaignType"`
	Recipients     []string   `json:"recipients"`
	RecipientCount int        `json:"recipientCount"`
	Opens          int64      `json:"opens"`
	OpenRate       string     `json:"openRate"`
	LastOpenedAt   *time.Time `json:"lastOpenedAt,omitempty"`
	OpenedBy       []string   `json:"openedBy"`
	SentAt         *time.Time `json:"sentAt,omitempty"`
}

// ListEmailAnalyticsResponse lists every tracked campaign
type ListEmailAnalyticsResponse struct {
	Items []EmailAnalyticsDTO `json:"items"`
}
