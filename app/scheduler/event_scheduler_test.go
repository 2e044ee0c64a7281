package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/amirphl/reachbee/app/dto"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (r *countingRefresher) Refresh(ctx context.Context) (*dto.RefreshEventsResponse, error) {
	r.calls.Add(1)
	if r.err != nil {
		return nil, r.err
	}
	return &dto.RefreshEventsResponse{
		Fetched:  3,
		Inserted: 2,
		Failures: map[string]string{"weather": "timeout"},
	}, nil
}

func TestEventScheduler_RunsImmediatelyAndOnTick(t *testing.T) {
	refresher := &countingRefresher{}
	core, logs := observer.New(zap.InfoLevel)
	s := NewEventScheduler(refresher, 10*time.Millisecond, time.Second, zap.New(core))

	stop := s.Start(context.Background())
	assert.Eventually(t, func() bool { return refresher.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	stop()

	calls := refresher.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, calls, refresher.calls.Load(), "no refresh after stop")

	assert.NotZero(t, logs.FilterMessage("Event refresh completed").Len())
	assert.NotZero(t, logs.FilterMessage("Event source failed").Len())
}

func TestEventScheduler_LogsFailures(t *testing.T) {
	refresher := &countingRefresher{err: errors.New("all sources failed")}
	core, logs := observer.New(zap.InfoLevel)
	s := NewEventScheduler(refresher, time.Hour, time.Second, zap.New(core))

	stop := s.Start(context.Background())
	assert.Eventually(t, func() bool { return refresher.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	stop()

	assert.Eventually(t, func() bool {
		return logs.FilterMessage("Event refresh failed").Len() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestNewEventScheduler_Defaults(t *testing.T) {
	s := NewEventScheduler(&countingRefresher{}, 0, 0, zap.NewNop())
	assert.Equal(t, 6*time.Hour, s.interval)
	assert.Equal(t, time.Minute, s.timeout)
}
