package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/amirphl/reachbee/config"
)

// ErrProfileNotFound is returned when the scraper knows no such account
var ErrProfileNotFound = errors.New("instagram profile not found")

// InstagramProfile is the subset of profile_by_username used for analysis
type InstagramProfile struct {
	PK             json.Number `json:"pk"`
	Username       string      `json:"username"`
	FullName       string      `json:"full_name"`
	Biography      string      `json:"biography"`
	Category       string      `json:"category"`
	PublicEmail    string      `json:"public_email"`
	FollowerCount  int64       `json:"follower_count"`
	FollowingCount int64       `json:"following_count"`
	MediaCount     int64       `json:"media_count"`
	ProfilePicURL  string      `json:"profile_pic_url"`
}

// InstagramPost is the subset of a posts_by_user_id item used for analysis
type InstagramPost struct {
	ID           string `json:"id"`
	Code         string `json:"code"`
	MediaType    int    `json:"media_type"` // 1 photo, 2 video, 8 carousel
	LikeCount    int64  `json:"like_count"`
	CommentCount int64  `json:"comment_count"`
	PlayCount    int64  `json:"play_count"`
	TakenAt      int64  `json:"taken_at"` // unix seconds
}

// InstagramClient reads public Instagram data
type InstagramClient interface {
	ProfileByUsername(ctx context.Context, username string) (*InstagramProfile, error)
	PostsByUserID(ctx context.Context, userID string) ([]InstagramPost, error)
}

// RapidAPIInstagramClient implements InstagramClient through a RapidAPI scraper
type RapidAPIInstagramClient struct {
	config  *config.InstagramConfig
	baseURL string
	client  *http.Client
}

// NewRapidAPIInstagramClient creates a new RapidAPI-backed Instagram client
func NewRapidAPIInstagramClient(cfg *config.InstagramConfig) *RapidAPIInstagramClient {
	return &RapidAPIInstagramClient{
		config:  cfg,
		baseURL: "https://" + cfg.RapidAPIHost,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

// ProfileByUsername fetches the profile, including its numeric pk
func (r *RapidAPIInstagramClient) ProfileByUsername(ctx context.Context, username string) (profile *InstagramProfile, err error) {
	defer func() { observeUpstream("instagram", err) }()

	var out InstagramProfile
	if err := r.get(ctx, "/profile_by_username?username="+url.QueryEscape(username), &out); err != nil {
		return nil, err
	}
	if out.PK.String() == "" {
		return nil, ErrProfileNotFound
	}
	return &out, nil
}

// PostsByUserID fetches the most recent posts of the account with the given pk
func (r *RapidAPIInstagramClient) PostsByUserID(ctx context.Context, userID string) (posts []InstagramPost, err error) {
	defer func() { observeUpstream("instagram", err) }()

	var out struct {
		Items []InstagramPost `json:"items"`
	}
	if err := r.get(ctx, "/posts_by_user_id?user_id="+url.QueryEscape(userID), &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (r *RapidAPIInstagramClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(r.baseURL, "/")+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("x-rapidapi-key", r.config.RapidAPIKey)
	req.Header.Set("x-rapidapi-host", r.config.RapidAPIHost)

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("instagram request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrProfileNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{Message: "instagram scraper quota exhausted"}
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("instagram API error (%d)", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode instagram response: %w", err)
	}
	return nil
}

// MockInstagramClient implements InstagramClient for testing
type MockInstagramClient struct {
	Profile      *InstagramProfile
	Posts        []InstagramPost
	Err          error
	ProfileCalls int
	PostCalls    []string
}

// ProfileByUsername returns the canned profile
func (m *MockInstagramClient) ProfileByUsername(ctx context.Context, username string) (*InstagramProfile, error) {
	m.ProfileCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Profile == nil {
		return nil, ErrProfileNotFound
	}
	return m.Profile, nil
}

// PostsByUserID returns the canned posts
func (m *MockInstagramClient) PostsByUserID(ctx context.Context, userID string) ([]InstagramPost, error) {
	m.PostCalls = append(m.PostCalls, userID)
	return m.Posts, nil
}
