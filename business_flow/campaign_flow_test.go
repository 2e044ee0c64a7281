package businessflow

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/amirphl/reachbee/app/dto"
	"github.com/amirphl/reachbee/app/services"
	"github.com/amirphl/reachbee/utils"
)

type stubPoster struct {
	requests []*dto.TweetRequest
	resp     *dto.TweetResponse
	err      error
}

func (s *stubPoster) PostTweet(ctx context.Context, req *dto.TweetRequest) (*dto.TweetResponse, error) {
	s.requests = append(s.requests, req)
	return s.resp, s.err
}

func launchRequest(platforms ...string) *dto.LaunchCampaignRequest {
	return &dto.LaunchCampaignRequest{
		UserID:    "user-1",
		Name:      "Spring launch",
		Objective: "awareness",
		Platforms: platforms,
		Budget:    utils.ToPtr(250.0),
		Content:   "Spring collection is here",
	}
}

func TestCampaignFlow_Launch(t *testing.T) {
	ctx := context.Background()

	t.Run("without twitter", func(t *testing.T) {
		repo := &fakeCampaignRepo{}
		poster := &stubPoster{}
		f := NewCampaignFlow(repo, poster, zap.NewNop())

		resp, err := f.Launch(ctx, launchRequest("Instagram", "instagram", "linkedin"))
		require.NoError(t, err)
		assert.Equal(t, "active", resp.Campaign.Status)
		assert.Equal(t, dto.CampaignMetrics{Reach: "0", Engagement: "0%", Conversions: "0%", ROI: "0%"}, resp.Campaign.Metrics)
		assert.Equal(t, []string{"instagram", "linkedin"}, resp.Campaign.Platforms)
		assert.Nil(t, resp.TweetID)
		assert.Empty(t, poster.requests)
		assert.Len(t, repo.rows, 1)
	})

	t.Run("posts to twitter and stores the tweet id", func(t *testing.T) {
		repo := &fakeCampaignRepo{}
		poster := &stubPoster{resp: &dto.TweetResponse{TweetID: "1789"}}
		f := NewCampaignFlow(repo, poster, zap.NewNop())

		resp, err := f.Launch(ctx, launchRequest("twitter"))
		require.NoError(t, err)
		require.NotNil(t, resp.TweetID)
		assert.Equal(t, "1789", *resp.TweetID)
		assert.Equal(t, "1789", *resp.Campaign.TweetID)
		assert.Equal(t, "1789", *repo.rows[0].TweetID)
		require.Len(t, poster.requests, 1)
		assert.Equal(t, "Spring collection is here", poster.requests[0].Text)
	})

	t.Run("long content reaches twitter truncated", func(t *testing.T) {
		repo := &fakeCampaignRepo{}
		twitter := &services.MockTwitterClient{}
		social := NewSocialFlow(twitter, nil, nil, nil, nil, nil, nil, nil, nil, zap.NewNop())
		f := NewCampaignFlow(repo, social, zap.NewNop())

		req := launchRequest("twitter")
		req.Content = strings.Repeat("b", 500)
		_, err := f.Launch(ctx, req)
		require.NoError(t, err)
		require.Len(t, twitter.Posted, 1)
		assert.Len(t, twitter.Posted[0], 280)
		assert.True(t, strings.HasSuffix(twitter.Posted[0], "..."))
		assert.Len(t, repo.rows[0].Content, 500, "stored content is not truncated")
	})

	t.Run("rate limit keeps the campaign", func(t *testing.T) {
		repo := &fakeCampaignRepo{}
		poster := &stubPoster{err: NewBusinessError("TWITTER_RATE_LIMITED", "Twitter rate limit reached", ErrTwitterRateLimited)}
		f := NewCampaignFlow(repo, poster, zap.NewNop())

		resp, err := f.Launch(ctx, launchRequest("twitter"))
		require.NoError(t, err)
		assert.True(t, resp.RateLimited)
		require.NotNil(t, resp.TwitterError)
		assert.Contains(t, *resp.TwitterError, "rate limited")
		assert.Len(t, repo.rows, 1)
		assert.Nil(t, repo.rows[0].TweetID)
	})

	t.Run("other twitter failure", func(t *testing.T) {
		poster := &stubPoster{err: errors.New("boom")}
		resp, err := NewCampaignFlow(&fakeCampaignRepo{}, poster, zap.NewNop()).Launch(ctx, launchRequest("twitter"))
		require.NoError(t, err)
		assert.False(t, resp.RateLimited)
		assert.Equal(t, "boom", *resp.TwitterError)
	})

	t.Run("no poster configured", func(t *testing.T) {
		resp, err := NewCampaignFlow(&fakeCampaignRepo{}, nil, zap.NewNop()).Launch(ctx, launchRequest("twitter"))
		require.NoError(t, err)
		require.NotNil(t, resp.TwitterError)
	})

	t.Run("end before start", func(t *testing.T) {
		req := launchRequest()
		start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
		end := start.Add(-time.Hour)
		req.StartDate, req.EndDate = &start, &end
		_, err := NewCampaignFlow(&fakeCampaignRepo{}, nil, zap.NewNop()).Launch(ctx, req)
		assert.True(t, IsInvalidDateRange(err))
	})
}

func TestCampaignFlow_ListAndGet(t *testing.T) {
	ctx := context.Background()
	repo := &fakeCampaignRepo{}
	f := NewCampaignFlow(repo, nil, zap.NewNop())

	first, err := f.Launch(ctx, launchRequest())
	require.NoError(t, err)
	other := launchRequest()
	other.UserID = "user-2"
	_, err = f.Launch(ctx, other)
	require.NoError(t, err)

	all, err := f.List(ctx, &dto.ListCampaignsRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.Total)
	assert.Equal(t, "user-2", all.Items[0].UserID)

	mine, err := f.List(ctx, &dto.ListCampaignsRequest{UserID: "user-1"})
	require.NoError(t, err)
	require.Len(t, mine.Items, 1)
	assert.Equal(t, first.Campaign.ID, mine.Items[0].ID)

	got, err := f.Get(ctx, first.Campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spring launch", got.Name)

	_, err = f.Get(ctx, uuid.NewString())
	assert.True(t, IsCampaignNotFound(err))
	_, err = f.Get(ctx, "42")
	assert.True(t, IsInvalidCampaignID(err))
}
