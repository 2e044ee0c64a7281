package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/amirphl/reachbee/config"
)

// ErrRateLimited is matched by every RateLimitError
var ErrRateLimited = errors.New("rate limit exceeded")

// RateLimitError reports an upstream rate limit and when it resets, if known
type RateLimitError struct {
	ResetAt *time.Time
	Message string
}

func (e *RateLimitError) Error() string {
	if e.Message != "" {
		return "rate limit exceeded: " + e.Message
	}
	return ErrRateLimited.Error()
}

func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

// Tweet is a posted tweet with its public metrics
type Tweet struct {
	ID            string       `json:"id"`
	Text          string       `json:"text"`
	CreatedAt     *time.Time   `json:"created_at,omitempty"`
	PublicMetrics TweetMetrics `json:"public_metrics"`
}

// TweetMetrics mirrors the X API public_metrics object
type TweetMetrics struct {
	RetweetCount    int64 `json:"retweet_count"`
	ReplyCount      int64 `json:"reply_count"`
	LikeCount       int64 `json:"like_count"`
	QuoteCount      int64 `json:"quote_count"`
	ImpressionCount int64 `json:"impression_count"`
}

// TwitterClient posts to and reads from the authenticated X account
type TwitterClient interface {
	UploadMedia(ctx context.Context, data []byte, mediaType string) (string, error)
	CreateTweet(ctx context.Context, text string, mediaIDs []string) (*Tweet, error)
	RecentTweets(ctx context.Context, maxResults int) ([]Tweet, error)
}

// XClient implements TwitterClient against the X API v2 with an OAuth 2.0 user token
type XClient struct {
	baseURL string
	client  *http.Client
}

// NewXClient creates an X API client whose transport injects the bearer token
func NewXClient(ctx context.Context, cfg *config.TwitterConfig) *XClient {
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: cfg.AccessToken,
		TokenType:   "Bearer",
	}))
	httpClient.Timeout = cfg.Timeout
	return &XClient{
		baseURL: strings.TrimRight(cfg.APIBaseURL, "/"),
		client:  httpClient,
	}
}

type xCreateTweetRequest struct {
	Text  string       `json:"text"`
	Media *xTweetMedia `json:"media,omitempty"`
}

type xTweetMedia struct {
	MediaIDs []string `json:"media_ids"`
}

type xError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

type xEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []xError        `json:"errors"`
	Title  string          `json:"title"`
	Detail string          `json:"detail"`
}

// UploadMedia uploads an image and returns the media id
func (x *XClient) UploadMedia(ctx context.Context, data []byte, mediaType string) (mediaID string, err error) {
	defer func() { observeUpstream("twitter", err) }()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if err := mw.WriteField("media_category", "tweet_image"); err != nil {
		return "", err
	}
	if err := mw.WriteField("media_type", mediaType); err != nil {
		return "", err
	}
	part, err := mw.CreateFormFile("media", "upload")
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := x.do(ctx, http.MethodPost, "/2/media/upload", body, mw.FormDataContentType(), &out); err != nil {
		return "", fmt.Errorf("media upload failed: %w", err)
	}
	return out.ID, nil
}

// CreateTweet publishes a tweet, optionally with previously uploaded media
func (x *XClient) CreateTweet(ctx context.Context, text string, mediaIDs []string) (tweet *Tweet, err error) {
	defer func() { observeUpstream("twitter", err) }()

	reqBody := xCreateTweetRequest{Text: text}
	if len(mediaIDs) > 0 {
		reqBody.Media = &xTweetMedia{MediaIDs: mediaIDs}
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tweet: %w", err)
	}

	var out Tweet
	if err := x.do(ctx, http.MethodPost, "/2/tweets", bytes.NewReader(payload), "application/json", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RecentTweets returns the authenticated user's latest tweets with public metrics
func (x *XClient) RecentTweets(ctx context.Context, maxResults int) (tweets []Tweet, err error) {
	defer func() { observeUpstream("twitter", err) }()

	var me struct {
		ID string `json:"id"`
	}
	if err := x.do(ctx, http.MethodGet, "/2/users/me", nil, "", &me); err != nil {
		return nil, fmt.Errorf("failed to resolve account: %w", err)
	}

	q := url.Values{}
	q.Set("max_results", strconv.Itoa(maxResults))
	q.Set("tweet.fields", "public_metrics,created_at")
	path := "/2/users/" + url.PathEscape(me.ID) + "/tweets?" + q.Encode()

	if err := x.do(ctx, http.MethodGet, path, nil, "", &tweets); err != nil {
		return nil, err
	}
	return tweets, nil
}

func (x *XClient) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, x.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := x.client.Do(req)
	if err != nil {
		return fmt.Errorf("twitter request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read twitter response: %w", err)
	}

	var env xEnvelope
	_ = json.Unmarshal(raw, &env)

	if resp.StatusCode == http.StatusTooManyRequests {
		return &RateLimitError{ResetAt: parseRateLimitReset(resp.Header.Get("x-rate-limit-reset")), Message: env.message()}
	}
	if resp.StatusCode >= 300 {
		msg := env.message()
		if strings.Contains(strings.ToLower(msg), "rate limit") {
			return &RateLimitError{ResetAt: parseRateLimitReset(resp.Header.Get("x-rate-limit-reset")), Message: msg}
		}
		return fmt.Errorf("twitter API error (%d): %s", resp.StatusCode, msg)
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode twitter response: %w", err)
	}
	return nil
}

func (e xEnvelope) message() string {
	if e.Detail != "" {
		return e.Detail
	}
	if len(e.Errors) > 0 {
		if e.Errors[0].Detail != "" {
			return e.Errors[0].Detail
		}
		return e.Errors[0].Title
	}
	return e.Title
}

func parseRateLimitReset(v string) *time.Time {
	if v == "" {
		return nil
	}
	secs, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil
	}
	t := time.Unix(secs, 0).UTC()
	return &t
}

// MockTwitterClient implements TwitterClient for testing
type MockTwitterClient struct {
	Posted      []string
	Media       [][]byte
	Tweets      []Tweet
	Err         error
	FailAfter   int // CreateTweet fails with Err once this many tweets were posted; 0 means always
	nextTweetID int
}

// UploadMedia records the media bytes
func (m *MockTwitterClient) UploadMedia(ctx context.Context, data []byte, mediaType string) (string, error) {
	m.Media = append(m.Media, data)
	return fmt.Sprintf("media-%d", len(m.Media)), nil
}

// CreateTweet records the text
func (m *MockTwitterClient) CreateTweet(ctx context.Context, text string, mediaIDs []string) (*Tweet, error) {
	if m.Err != nil && len(m.Posted) >= m.FailAfter {
		return nil, m.Err
	}
	m.Posted = append(m.Posted, text)
	m.nextTweetID++
	return &Tweet{ID: strconv.Itoa(1000 + m.nextTweetID), Text: text}, nil
}

// RecentTweets returns the canned tweets
func (m *MockTwitterClient) RecentTweets(ctx context.Context, maxResults int) ([]Tweet, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if maxResults < len(m.Tweets) {
		return m.Tweets[:maxResults], nil
	}
	return m.Tweets, nil
}
