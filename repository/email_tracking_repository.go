package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/amirphl/reachbee/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// recordOpenSQL bumps the counter and adds the requester in one statement so
// concurrent opens serialize on the row lock instead of racing a read-modify-write.
const recordOpenSQL = `UPDATE email_trackings
SET opens = opens + 1,
    last_opened_at = ?,
    opened_by = CASE WHEN ? = ANY(opened_by) THEN opened_by ELSE array_append(opened_by, ?) END,
    updated_at = ?
WHERE tracking_id = ?`

const insertOpenEventSQL = `INSERT INTO email_open_events (tracking_id, ip, user_agent, opened_at) VALUES (?, ?, ?, ?)`

// EmailTrackingRepositoryImpl implements EmailTrackingRepository
type EmailTrackingRepositoryImpl struct {
	*BaseRepository[models.EmailTracking, models.EmailTrackingFilter]
}

func NewEmailTrackingRepository(db *gorm.DB) EmailTrackingRepository {
	return &EmailTrackingRepositoryImpl{BaseRepository: NewBaseRepository[models.EmailTracking, models.EmailTrackingFilter](db)}
}

func (r *EmailTrackingRepositoryImpl) ByTrackingID(ctx context.Context, trackingID uuid.UUID) (*models.EmailTracking, error) {
	rows, err := r.ByFilter(ctx, models.EmailTrackingFilter{TrackingID: &trackingID}, "id DESC", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *EmailTrackingRepositoryImpl) RecordOpen(ctx context.Context, trackingID uuid.UUID, ip string, userAgent *string, openedAt time.Time) (bool, error) {
	found := false
	err := WithTransaction(ctx, r.DB, func(txCtx context.Context) error {
		db := r.getDB(txCtx)
		res := db.Exec(recordOpenSQL, openedAt, ip, ip, openedAt, trackingID)
		if res.Error != nil {
			return fmt.Errorf("failed to record open for %s: %w", trackingID, res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}
		if err := db.Exec(insertOpenEventSQL, trackingID, ip, userAgent, openedAt).Error; err != nil {
			return fmt.Errorf("failed to insert open event for %s: %w", trackingID, err)
		}
		found = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// DeleteByTrackingID removes a tracking record together with its open events
func (r *EmailTrackingRepositoryImpl) DeleteByTrackingID(ctx context.Context, trackingID uuid.UUID) error {
	return WithTransaction(ctx, r.DB, func(txCtx context.Context) error {
		db := r.getDB(txCtx)
		if err := db.Where("tracking_id = ?", trackingID).Delete(&models.EmailOpenEvent{}).Error; err != nil {
			return fmt.Errorf("failed to delete open events for %s: %w", trackingID, err)
		}
		if err := db.Where("tracking_id = ?", trackingID).Delete(&models.EmailTracking{}).Error; err != nil {
			return fmt.Errorf("failed to delete tracking record %s: %w", trackingID, err)
		}
		return nil
	})
}

func (r *EmailTrackingRepositoryImpl) ListOpenEvents(ctx context.Context, trackingID uuid.UUID) ([]*models.EmailOpenEvent, error) {
	db := r.getDB(ctx)
	var rows []*models.EmailOpenEvent
	err := db.Model(&models.EmailOpenEvent{}).
		Where("tracking_id = ?", trackingID).
		Order("opened_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *EmailTrackingRepositoryImpl) applyFilter(db *gorm.DB, f models.EmailTrackingFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.TrackingID != nil {
		db = db.Where("tracking_id = ?", *f.TrackingID)
	}
	if f.CampaignType != nil {
		db = db.Where("campaign_type = ?", *f.CampaignType)
	}
	if f.SentAfter != nil {
		db = db.Where("sent_at >= ?", *f.SentAfter)
	}
	if f.SentBefore != nil {
		db = db.Where("sent_at < ?", *f.SentBefore)
	}
	return db
}

func (r *EmailTrackingRepositoryImpl) ByFilter(ctx context.Context, filter models.EmailTrackingFilter, orderBy string, limit, offset int) ([]*models.EmailTracking, error) {
	db := r.getDB(ctx)
	query := paginate(r.applyFilter(db.Model(&models.EmailTracking{}), filter), orderBy, limit, offset)
	var rows []*models.EmailTracking
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *EmailTrackingRepositoryImpl) Count(ctx context.Context, filter models.EmailTrackingFilter) (int64, error) {
	db := r.getDB(ctx)
	var count int64
	if err := r.applyFilter(db.Model(&models.EmailTracking{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
