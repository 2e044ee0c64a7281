package businessflow

import (
	"github.com/amirphl/reachbee/app/dto"
	"github.com/amirphl/reachbee/models"
)

// ClientMetadata holds requester information attached to tracked actions
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	RequestID string `json:"request_id,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// ToContentRecordDTO converts a content record model to its API view
func ToContentRecordDTO(r models.ContentRecord) dto.ContentRecordDTO {
	platforms := []string(r.Platforms)
	if platforms == nil {
		platforms = []string{}
	}
	return dto.ContentRecordDTO{
		ID:        r.UUID.String(),
		Type:      r.Type.String(),
		Prompt:    r.Prompt,
		Content:   r.Body,
		ImageRef:  r.ImageRef,
		Platforms: platforms,
		CreatedAt: r.CreatedAt,
	}
}

// ToCampaignDTO converts a campaign model to its API view
func ToCampaignDTO(c models.Campaign) dto.CampaignDTO {
	platforms := []string(c.Platforms)
	if platforms == nil {
		platforms = []string{}
	}
	contentIDs := []string(c.ContentIDs)
	if contentIDs == nil {
		contentIDs = []string{}
	}
	return dto.CampaignDTO{
		ID:          c.UUID.String(),
		UserID:      c.UserID,
		Name:        c.Name,
		Objective:   c.Objective,
		Description: c.Description,
		StartDate:   c.StartDate,
		EndDate:     c.EndDate,
		Platforms:   platforms,
		Audience:    c.Audience,
		Budget:      c.Budget,
		Content:     c.Content,
		ContentIDs:  contentIDs,
		Status:      c.Status.String(),
		Metrics: dto.CampaignMetrics{
			Reach:       c.Metrics.Reach,
			Engagement:  c.Metrics.Engagement,
			Conversions: c.Metrics.Conversions,
			ROI:         c.Metrics.ROI,
		},
		TweetID:   c.TweetID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ToEmailAnalyticsDTO converts a tracking record to its analytics view
func ToEmailAnalyticsDTO(t models.EmailTracking) dto.EmailAnalyticsDTO {
	recipients := []string(t.Recipients)
	if recipients == nil {
		recipients = []string{}
	}
	openedBy := []string(t.OpenedBy)
	if openedBy == nil {
		openedBy = []string{}
	}
	return dto.EmailAnalyticsDTO{
		TrackingID:     t.TrackingID.String(),
		Subject:        t.Subject,
		CampaignType:   t.CampaignType,
		Recipients:     recipients,
		RecipientCount: len(recipients),
		Opens:          t.Opens,
		OpenRate:       OpenRate(t.Opens, len(recipients)),
		LastOpenedAt:   t.LastOpenedAt,
		OpenedBy:       openedBy,
		SentAt:         t.SentAt,
	}
}

// ToTrendingEventDTO converts a trending event to its API view
func ToTrendingEventDTO(e models.TrendingEvent) dto.TrendingEventDTO {
	return dto.TrendingEventDTO{
		ID:            e.ID,
		Title:         e.Title,
		Description:   e.Description,
		Location:      e.Location,
		EventType:     e.EventType,
		Date:          e.Date,
		TrendingScore: e.TrendingScore,
		PriorityScore: e.PriorityScore(),
	}
}
