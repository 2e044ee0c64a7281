// Package scheduler runs periodic background jobs
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/amirphl/reachbee/app/dto"
	businessflow "github.com/amirphl/reachbee/business_flow"
)

// EventRefresher is the part of the event flow the scheduler drives
type EventRefresher interface {
	Refresh(ctx context.Context) (*dto.RefreshEventsResponse, error)
}

// EventScheduler periodically refreshes the trending events calendar
type EventScheduler struct {
	refresher EventRefresher
	logger    *zap.Logger
	interval  time.Duration
	timeout   time.Duration
}

// NewEventScheduler creates a scheduler; a non-positive interval falls back to six hours
func NewEventScheduler(refresher EventRefresher, interval, timeout time.Duration, logger *zap.Logger) *EventScheduler {
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &EventScheduler{
		refresher: refresher,
		logger:    logger,
		interval:  interval,
		timeout:   timeout,
	}
}

// Start runs one refresh immediately and then one per interval until the returned func is called
func (s *EventScheduler) Start(parent context.Context) func() {
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.runOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runOnce(ctx)
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

func (s *EventScheduler) runOnce(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()

	start := time.Now()
	result, err := s.refresher.Refresh(ctx)
	if err != nil {
		s.logger.Warn("Event refresh failed", zap.Error(err), zap.Duration("took", time.Since(start)))
		return
	}

	fields := []zap.Field{
		zap.Int("fetched", result.Fetched),
		zap.Int64("inserted", result.Inserted),
		zap.Duration("took", time.Since(start)),
	}
	for source, reason := range result.Failures {
		s.logger.Warn("Event source failed", zap.String("source", source), zap.String("reason", reason))
	}
	s.logger.Info("Event refresh completed", fields...)
}

var _ EventRefresher = (businessflow.EventFlow)(nil)
