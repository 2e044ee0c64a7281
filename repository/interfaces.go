// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/amirphl/reachbee/models"
	"github.com/google/uuid"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	Count(ctx context.Context, filter F) (int64, error)
}

// ContentRecordRepository defines operations for saved content
type ContentRecordRepository interface {
	Repository[models.ContentRecord, models.ContentRecordFilter]
	ByUUID(ctx context.Context, id uuid.UUID) (*models.ContentRecord, error)
}

// CampaignRepository defines operations for marketing campaigns
type CampaignRepository interface {
	Repository[models.Campaign, models.CampaignFilter]
	ByUUID(ctx context.Context, id uuid.UUID) (*models.Campaign, error)
	SetTweetID(ctx context.Context, id uint, tweetID string) error
}

// EmailTrackingRepository defines operations for email open tracking
type EmailTrackingRepository interface {
	Repository[models.EmailTracking, models.EmailTrackingFilter]
	ByTrackingID(ctx context.Context, trackingID uuid.UUID) (*models.EmailTracking, error)
	// RecordOpen atomically bumps the open counter and logs the open event.
	// It reports false when no record has the given tracking id.
	RecordOpen(ctx context.Context, trackingID uuid.UUID, ip string, userAgent *string, openedAt time.Time) (bool, error)
	ListOpenEvents(ctx context.Context, trackingID uuid.UUID) ([]*models.EmailOpenEvent, error)
	DeleteByTrackingID(ctx context.Context, trackingID uuid.UUID) error
}

// TrendingEventRepository defines operations for trending events
type TrendingEventRepository interface {
	Repository[models.TrendingEvent, models.TrendingEventFilter]
	InsertIgnoreDuplicates(ctx context.Context, events []*models.TrendingEvent) (int64, error)
}
