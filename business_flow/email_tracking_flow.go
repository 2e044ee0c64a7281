package businessflow

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/amirphl/reachbee/app/dto"
	"github.com/amirphl/reachbee/repository"
	"github.com/amirphl/reachbee/utils"
)

// TransparentGIF is the 1x1 transparent pixel returned for every tracked open
var TransparentGIF, _ = base64.StdEncoding.DecodeString("R0lGODlhAQABAIAAAAAAAP///yH5BAEAAAAALAAAAAABAAEAAAIBRAA7")

var emailOpensTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "email_opens_total",
	Help: "Tracking pixel fetches recorded against a known campaign",
})

// EmailTrackingFlow records tracking pixel fetches
type EmailTrackingFlow interface {
	TrackOpen(ctx context.Context, req *dto.TrackOpenRequest) error
}

// EmailTrackingFlowImpl implements the email tracking flow
type EmailTrackingFlowImpl struct {
	repo repository.EmailTrackingRepository
	now  func() time.Time
}

// NewEmailTrackingFlow creates a new email tracking flow instance
func NewEmailTrackingFlow(repo repository.EmailTrackingRepository) EmailTrackingFlow {
	return &EmailTrackingFlowImpl{repo: repo, now: utils.UTCNow}
}

// TrackOpen counts one open. Unknown or malformed ids create nothing and return ErrTrackingNotFound.
func (f *EmailTrackingFlowImpl) TrackOpen(ctx context.Context, req *dto.TrackOpenRequest) error {
	trackingID, err := uuid.Parse(strings.TrimSpace(req.TrackingID))
	if err != nil {
		return ErrTrackingNotFound
	}

	ip := strings.TrimSpace(req.IPAddress)
	if ip == "" {
		ip = utils.UnknownRequesterIP
	}
	var userAgent *string
	if ua := strings.TrimSpace(req.UserAgent); ua != "" {
		userAgent = &ua
	}

	found, err := f.repo.RecordOpen(ctx, trackingID, ip, userAgent, f.now())
	if err != nil {
		return NewBusinessError("EMAIL_TRACK_FAILED", "Error tracking email open", err)
	}
	if !found {
		return ErrTrackingNotFound
	}

	emailOpensTotal.Inc()
	return nil
}
