package businessflow

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/amirphl/reachbee/models"
	"github.com/amirphl/reachbee/utils"
)

// fakeContentRepo keeps content records in memory
type fakeContentRepo struct {
	mu      sync.Mutex
	rows    []*models.ContentRecord
	saveErr error
}

func (r *fakeContentRepo) ByUUID(ctx context.Context, id uuid.UUID) (*models.ContentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.UUID == id {
			return row, nil
		}
	}
	return nil, nil
}

func (r *fakeContentRepo) match(f models.ContentRecordFilter) []*models.ContentRecord {
	out := make([]*models.ContentRecord, 0, len(r.rows))
	for _, row := range r.rows {
		if f.Type != nil && row.Type != *f.Type {
			continue
		}
		out = append(out, row)
	}
	return out
}

func (r *fakeContentRepo) ByFilter(ctx context.Context, f models.ContentRecordFilter, orderBy string, limit, offset int) ([]*models.ContentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := r.match(f)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return window(rows, limit, offset), nil
}

func (r *fakeContentRepo) Save(ctx context.Context, e *models.ContentRecord) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = uint(len(r.rows) + 1)
	if e.UUID == uuid.Nil {
		e.UUID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = utils.UTCNow()
	}
	r.rows = append(r.rows, e)
	return nil
}

func (r *fakeContentRepo) Count(ctx context.Context, f models.ContentRecordFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.match(f))), nil
}

// fakeCampaignRepo keeps campaigns in memory
type fakeCampaignRepo struct {
	mu   sync.Mutex
	rows []*models.Campaign
}

func (r *fakeCampaignRepo) ByUUID(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.UUID == id {
			return row, nil
		}
	}
	return nil, nil
}

func (r *fakeCampaignRepo) match(f models.CampaignFilter) []*models.Campaign {
	out := make([]*models.Campaign, 0, len(r.rows))
	for _, row := range r.rows {
		if f.UserID != nil && row.UserID != *f.UserID {
			continue
		}
		out = append(out, row)
	}
	return out
}

func (r *fakeCampaignRepo) ByFilter(ctx context.Context, f models.CampaignFilter, orderBy string, limit, offset int) ([]*models.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := r.match(f)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].ID > rows[j].ID })
	return window(rows, limit, offset), nil
}

func (r *fakeCampaignRepo) Save(ctx context.Context, e *models.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = uint(len(r.rows) + 1)
	if e.UUID == uuid.Nil {
		e.UUID = uuid.New()
	}
	now := utils.UTCNow()
	e.CreatedAt, e.UpdatedAt = now, now
	r.rows = append(r.rows, e)
	return nil
}

func (r *fakeCampaignRepo) Count(ctx context.Context, f models.CampaignFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.match(f))), nil
}

func (r *fakeCampaignRepo) SetTweetID(ctx context.Context, id uint, tweetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.ID == id {
			row.TweetID = &tweetID
		}
	}
	return nil
}

// fakeTrackingRepo keeps tracking records and open events in memory
type fakeTrackingRepo struct {
	mu        sync.Mutex
	rows      []*models.EmailTracking
	events    []*models.EmailOpenEvent
	saveErr   error
	recordErr error
	deleteErr error
}

func (r *fakeTrackingRepo) ByTrackingID(ctx context.Context, id uuid.UUID) (*models.EmailTracking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.TrackingID == id {
			return row, nil
		}
	}
	return nil, nil
}

func (r *fakeTrackingRepo) ByFilter(ctx context.Context, f models.EmailTrackingFilter, orderBy string, limit, offset int) ([]*models.EmailTracking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := append([]*models.EmailTracking{}, r.rows...)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].ID > rows[j].ID })
	return window(rows, limit, offset), nil
}

func (r *fakeTrackingRepo) Save(ctx context.Context, e *models.EmailTracking) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = uint(len(r.rows) + 1)
	r.rows = append(r.rows, e)
	return nil
}

func (r *fakeTrackingRepo) Count(ctx context.Context, f models.EmailTrackingFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.rows)), nil
}

func (r *fakeTrackingRepo) RecordOpen(ctx context.Context, trackingID uuid.UUID, ip string, userAgent *string, openedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recordErr != nil {
		return false, r.recordErr
	}
	for _, row := range r.rows {
		if row.TrackingID != trackingID {
			continue
		}
		row.Opens++
		row.LastOpenedAt = &openedAt
		// same comparison as "ip = ANY(opened_by)"
		if !slices.Contains(row.OpenedBy, ip) {
			row.OpenedBy = append(row.OpenedBy, ip)
		}
		r.events = append(r.events, &models.EmailOpenEvent{
			ID:         uint(len(r.events) + 1),
			TrackingID: trackingID,
			IP:         ip,
			UserAgent:  userAgent,
			OpenedAt:   openedAt,
		})
		return true, nil
	}
	return false, nil
}

func (r *fakeTrackingRepo) ListOpenEvents(ctx context.Context, trackingID uuid.UUID) ([]*models.EmailOpenEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.EmailOpenEvent
	for _, e := range r.events {
		if e.TrackingID == trackingID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeTrackingRepo) DeleteByTrackingID(ctx context.Context, trackingID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.rows = slices.DeleteFunc(r.rows, func(row *models.EmailTracking) bool { return row.TrackingID == trackingID })
	r.events = slices.DeleteFunc(r.events, func(e *models.EmailOpenEvent) bool { return e.TrackingID == trackingID })
	return nil
}

// fakeEventRepo keeps trending events in memory, unique on title, location and date
type fakeEventRepo struct {
	mu   sync.Mutex
	rows []*models.TrendingEvent
}

func (r *fakeEventRepo) match(f models.TrendingEventFilter) []*models.TrendingEvent {
	out := make([]*models.TrendingEvent, 0, len(r.rows))
	for _, row := range r.rows {
		if f.DateFrom != nil && row.Date.Before(*f.DateFrom) {
			continue
		}
		if f.DateTo != nil && row.Date.After(*f.DateTo) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func (r *fakeEventRepo) ByFilter(ctx context.Context, f models.TrendingEventFilter, orderBy string, limit, offset int) ([]*models.TrendingEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := r.match(f)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	return window(rows, limit, offset), nil
}

func (r *fakeEventRepo) Save(ctx context.Context, e *models.TrendingEvent) error {
	_, err := r.InsertIgnoreDuplicates(ctx, []*models.TrendingEvent{e})
	return err
}

func (r *fakeEventRepo) Count(ctx context.Context, f models.TrendingEventFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.match(f))), nil
}

func (r *fakeEventRepo) InsertIgnoreDuplicates(ctx context.Context, events []*models.TrendingEvent) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var inserted int64
	for _, e := range events {
		dup := false
		for _, row := range r.rows {
			if row.Title == e.Title && row.Location == e.Location && row.Date.Equal(e.Date) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		e.ID = uint(len(r.rows) + 1)
		r.rows = append(r.rows, e)
		inserted++
	}
	return inserted, nil
}

func window[T any](rows []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(rows) {
			return []T{}
		}
		rows = rows[offset:]
	}
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}
