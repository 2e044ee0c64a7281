package businessflow

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/amirphl/reachbee/app/dto"
	"github.com/amirphl/reachbee/app/services"
	"github.com/amirphl/reachbee/models"
	"github.com/amirphl/reachbee/repository"
	"github.com/amirphl/reachbee/utils"
)

const defaultUpcomingDays = 10

// EventFlow refreshes and serves trending events
type EventFlow interface {
	Refresh(ctx context.Context) (*dto.RefreshEventsResponse, error)
	Upcoming(ctx context.Context, req *dto.UpcomingEventsRequest) (*dto.UpcomingEventsResponse, error)
}

// EventFlowImpl implements the trending events flow
type EventFlowImpl struct {
	sources   []services.EventSource
	eventRepo repository.TrendingEventRepository
	logger    *zap.Logger
	now       func() time.Time
}

// NewEventFlow creates a new event flow instance
func NewEventFlow(sources []services.EventSource, eventRepo repository.TrendingEventRepository, logger *zap.Logger) EventFlow {
	return &EventFlowImpl{
		sources:   sources,
		eventRepo: eventRepo,
		logger:    logger,
		now:       utils.UTCNow,
	}
}

// Refresh pulls every source and stores new events. It fails only when all sources fail.
func (f *EventFlowImpl) Refresh(ctx context.Context) (*dto.RefreshEventsResponse, error) {
	resp := &dto.RefreshEventsResponse{}
	var (
		events []*models.TrendingEvent
		errs   []error
	)

	for _, src := range f.sources {
		fetched, err := src.Fetch(ctx)
		if err != nil {
			f.logger.Warn("Event source failed", zap.String("source", src.Name()), zap.Error(err))
			if resp.Failures == nil {
				resp.Failures = map[string]string{}
			}
			resp.Failures[src.Name()] = err.Error()
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
			continue
		}
		events = append(events, fetched...)
	}

	if len(f.sources) > 0 && len(errs) == len(f.sources) {
		return nil, NewBusinessError("EVENTS_REFRESH_FAILED", "All event sources failed", errors.Join(errs...))
	}

	resp.Fetched = len(events)
	inserted, err := f.eventRepo.InsertIgnoreDuplicates(ctx, events)
	if err != nil {
		return nil, NewBusinessError("EVENTS_SAVE_FAILED", "Failed to store trending events", err)
	}
	resp.Inserted = inserted

	f.logger.Info("Trending events refreshed",
		zap.Int("fetched", resp.Fetched),
		zap.Int64("inserted", resp.Inserted),
		zap.Int("failed_sources", len(errs)))
	return resp, nil
}

// Upcoming lists events from the start of today through the window, highest priority first
func (f *EventFlowImpl) Upcoming(ctx context.Context, req *dto.UpcomingEventsRequest) (*dto.UpcomingEventsResponse, error) {
	days := req.Days
	if days <= 0 {
		days = defaultUpcomingDays
	}
	now := f.now()
	from := now.Truncate(24 * time.Hour)
	to := now.Add(time.Duration(days) * 24 * time.Hour)

	rows, err := f.eventRepo.ByFilter(ctx, models.TrendingEventFilter{DateFrom: &from, DateTo: &to}, "date ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("EVENTS_FETCH_FAILED", "Failed to fetch trending events", err)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].PriorityScore() > rows[j].PriorityScore()
	})

	items := make([]dto.TrendingEventDTO, 0, len(rows))
	for _, e := range rows {
		items = append(items, ToTrendingEventDTO(*e))
	}
	return &dto.UpcomingEventsResponse{Items: items}, nil
}
