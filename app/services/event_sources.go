package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/amirphl/reachbee/config"
	"github.com/amirphl/reachbee/models"
	"github.com/amirphl/reachbee/utils"
)

const (
	holidayTrendingScore = 85
	weatherTrendingScore = 90
)

// EventSource produces trending events from one external feed
type EventSource interface {
	Name() string
	Fetch(ctx context.Context) ([]*models.TrendingEvent, error)
}

// CalendarificSource lists the public holidays of a country for the current year
type CalendarificSource struct {
	cfg    *config.EventsConfig
	client *http.Client
	now    func() time.Time
}

// NewCalendarificSource creates a holiday source
func NewCalendarificSource(cfg *config.EventsConfig) *CalendarificSource {
	return &CalendarificSource{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}, now: utils.UTCNow}
}

func (c *CalendarificSource) Name() string { return "calendarific" }

type calendarificResponse struct {
	Response struct {
		Holidays []struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			Date        struct {
				ISO string `json:"iso"`
			} `json:"date"`
		} `json:"holidays"`
	} `json:"response"`
}

// Fetch returns one Holiday event per listed holiday
func (c *CalendarificSource) Fetch(ctx context.Context) (events []*models.TrendingEvent, err error) {
	defer func() { observeUpstream(c.Name(), err) }()

	q := url.Values{}
	q.Set("api_key", c.cfg.CalendarificAPIKey)
	q.Set("country", c.cfg.Country)
	q.Set("year", strconv.Itoa(c.now().Year()))

	var out calendarificResponse
	if err := getJSON(ctx, c.client, c.cfg.CalendarificURL+"?"+q.Encode(), &out); err != nil {
		return nil, err
	}

	for _, h := range out.Response.Holidays {
		date, err := parseISODate(h.Date.ISO)
		if err != nil {
			continue
		}
		events = append(events, &models.TrendingEvent{
			Title:         h.Name,
			Description:   h.Description,
			Location:      c.cfg.Location,
			EventType:     utils.ToPtr(models.EventTypeHoliday),
			Date:          date,
			TrendingScore: holidayTrendingScore,
		})
	}
	return events, nil
}

// OpenWeatherSource raises a weather event when it is raining at the configured location
type OpenWeatherSource struct {
	cfg    *config.EventsConfig
	client *http.Client
	now    func() time.Time
}

// NewOpenWeatherSource creates a weather alert source
func NewOpenWeatherSource(cfg *config.EventsConfig) *OpenWeatherSource {
	return &OpenWeatherSource{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}, now: utils.UTCNow}
}

func (o *OpenWeatherSource) Name() string { return "openweather" }

type openWeatherResponse struct {
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
}

// Fetch returns a single "Heavy Rain Alert" dated today, or nothing
func (o *OpenWeatherSource) Fetch(ctx context.Context) (events []*models.TrendingEvent, err error) {
	defer func() { observeUpstream(o.Name(), err) }()

	q := url.Values{}
	q.Set("q", o.cfg.Location)
	q.Set("appid", o.cfg.OpenWeatherAPIKey)

	var out openWeatherResponse
	if err := getJSON(ctx, o.client, o.cfg.OpenWeatherURL+"?"+q.Encode(), &out); err != nil {
		return nil, err
	}

	if len(out.Weather) == 0 || out.Weather[0].Main != "Rain" {
		return nil, nil
	}

	return []*models.TrendingEvent{{
		Title:         "Heavy Rain Alert",
		Description:   fmt.Sprintf("Heavy rain expected in %s", o.cfg.Location),
		Location:      o.cfg.Location,
		EventType:     utils.ToPtr(models.EventTypeWeather),
		Date:          o.now().Truncate(24 * time.Hour),
		TrendingScore: weatherTrendingScore,
	}}, nil
}

func getJSON(ctx context.Context, client *http.Client, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// parseISODate accepts "2006-01-02" optionally followed by a time part
func parseISODate(iso string) (time.Time, error) {
	if len(iso) < 10 {
		return time.Time{}, fmt.Errorf("invalid date %q", iso)
	}
	return time.Parse("2006-01-02", iso[:10])
}

// StaticEventSource returns fixed events, for tests and local runs
type StaticEventSource struct {
	SourceName string
	Events     []*models.TrendingEvent
	Err        error
}

func (s *StaticEventSource) Name() string { return s.SourceName }

// Fetch returns the configured events
func (s *StaticEventSource) Fetch(ctx context.Context) ([]*models.TrendingEvent, error) {
	return s.Events, s.Err
}
