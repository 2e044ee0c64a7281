package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirphl/reachbee/config"
)

func newTestXClient(url string) *XClient {
	return NewXClient(context.Background(), &config.TwitterConfig{
		APIBaseURL:  url,
		AccessToken: "user-token",
		Timeout:     5 * time.Second,
	})
}

func TestXClient_CreateTweet(t *testing.T) {
	var gotAuth string
	var gotBody xCreateTweetRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2/tweets", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"1850000000000000000","text":"hello"}}`))
	}))
	defer srv.Close()

	tweet, err := newTestXClient(srv.URL).CreateTweet(context.Background(), "hello", []string{"m1"})
	require.NoError(t, err)
	assert.Equal(t, "1850000000000000000", tweet.ID)
	assert.Equal(t, "Bearer user-token", gotAuth)
	require.NotNil(t, gotBody.Media)
	assert.Equal(t, []string{"m1"}, gotBody.Media.MediaIDs)
}

func TestXClient_RateLimit(t *testing.T) {
	t.Run("429 with reset header", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("x-rate-limit-reset", "1900000000")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"title":"Too Many Requests","detail":"Too Many Requests"}`))
		}))
		defer srv.Close()

		_, err := newTestXClient(srv.URL).CreateTweet(context.Background(), "hello", nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrRateLimited))

		var rl *RateLimitError
		require.True(t, errors.As(err, &rl))
		require.NotNil(t, rl.ResetAt)
		assert.Equal(t, int64(1900000000), rl.ResetAt.Unix())
	})

	t.Run("rate limit text in error body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"errors":[{"title":"Forbidden","detail":"Rate limit exceeded for this app"}]}`))
		}))
		defer srv.Close()

		_, err := newTestXClient(srv.URL).CreateTweet(context.Background(), "hello", nil)
		assert.True(t, errors.Is(err, ErrRateLimited))
	})

	t.Run("other errors are not rate limits", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"detail":"duplicate content"}`))
		}))
		defer srv.Close()

		_, err := newTestXClient(srv.URL).CreateTweet(context.Background(), "hello", nil)
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrRateLimited))
		assert.Contains(t, err.Error(), "duplicate content")
	})
}

func TestXClient_RecentTweets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/2/users/me":
			_, _ = w.Write([]byte(`{"data":{"id":"42"}}`))
		case "/2/users/42/tweets":
			assert.Equal(t, "5", r.URL.Query().Get("max_results"))
			_, _ = w.Write([]byte(`{"data":[{"id":"1","text":"a","public_metrics":{"like_count":3,"retweet_count":1,"reply_count":2}}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	tweets, err := newTestXClient(srv.URL).RecentTweets(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, tweets, 1)
	assert.Equal(t, int64(3), tweets[0].PublicMetrics.LikeCount)
	assert.Equal(t, int64(2), tweets[0].PublicMetrics.ReplyCount)
}

func TestXClient_UploadMedia(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "tweet_image", r.FormValue("media_category"))
		assert.Equal(t, "image/png", r.FormValue("media_type"))
		_, _ = w.Write([]byte(`{"data":{"id":"777"}}`))
	}))
	defer srv.Close()

	id, err := newTestXClient(srv.URL).UploadMedia(context.Background(), []byte("png"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "777", id)
}
