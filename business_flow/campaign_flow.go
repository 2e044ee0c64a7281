// Package businessflow contains the core business logic and use cases for campaign workflows
package businessflow

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/amirphl/reachbee/app/dto"
	"github.com/amirphl/reachbee/models"
	"github.com/amirphl/reachbee/repository"
	"github.com/amirphl/reachbee/utils"
)

const (
	platformTwitter         = "twitter"
	defaultCampaignPageSize = 20
	campaignListOrder       = "created_at DESC"
)

// CampaignFlow handles the campaign business logic
type CampaignFlow interface {
	Launch(ctx context.Context, req *dto.LaunchCampaignRequest) (*dto.LaunchCampaignResponse, error)
	List(ctx context.Context, req *dto.ListCampaignsRequest) (*dto.ListCampaignsResponse, error)
	Get(ctx context.Context, id string) (*dto.CampaignDTO, error)
}

// CampaignFlowImpl implements the campaign business flow
type CampaignFlowImpl struct {
	campaignRepo repository.CampaignRepository
	poster       TweetPoster
	logger       *zap.Logger
}

// NewCampaignFlow creates a new campaign flow instance. A nil poster skips Twitter publishing.
func NewCampaignFlow(campaignRepo repository.CampaignRepository, poster TweetPoster, logger *zap.Logger) CampaignFlow {
	return &CampaignFlowImpl{
		campaignRepo: campaignRepo,
		poster:       poster,
		logger:       logger,
	}
}

// Launch persists an active campaign and posts its content to Twitter when targeted
func (f *CampaignFlowImpl) Launch(ctx context.Context, req *dto.LaunchCampaignRequest) (*dto.LaunchCampaignResponse, error) {
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, ErrInvalidDateRange
	}

	platforms := make([]string, 0, len(req.Platforms))
	for _, p := range req.Platforms {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" && !utils.ContainsFold(platforms, p) {
			platforms = append(platforms, p)
		}
	}

	campaign := &models.Campaign{
		UserID:      strings.TrimSpace(req.UserID),
		Name:        strings.TrimSpace(req.Name),
		Objective:   strings.TrimSpace(req.Objective),
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Platforms:   pq.StringArray(platforms),
		Audience:    req.Audience,
		Budget:      req.Budget,
		Content:     req.Content,
		ContentIDs:  pq.StringArray(req.ContentIDs),
		Status:      models.CampaignStatusActive,
		Metrics:     models.DefaultCampaignMetrics(),
	}
	if err := f.campaignRepo.Save(ctx, campaign); err != nil {
		return nil, NewBusinessError("CAMPAIGN_SAVE_FAILED", "Failed to save campaign", err)
	}

	resp := &dto.LaunchCampaignResponse{}
	if campaign.HasPlatform(platformTwitter) && strings.TrimSpace(campaign.Content) != "" {
		f.publishTweet(ctx, campaign, resp)
	}
	resp.Campaign = ToCampaignDTO(*campaign)
	return resp, nil
}

// publishTweet posts the campaign content; failures are reported, never rolled back
func (f *CampaignFlowImpl) publishTweet(ctx context.Context, campaign *models.Campaign, resp *dto.LaunchCampaignResponse) {
	if f.poster == nil {
		resp.TwitterError = utils.ToPtr(ErrTwitterDisabled.Error())
		return
	}

	out, err := f.poster.PostTweet(ctx, &dto.TweetRequest{Text: campaign.Content})
	if err != nil {
		f.logger.Warn("Campaign tweet failed",
			zap.String("campaign_id", campaign.UUID.String()),
			zap.Error(err))
		resp.TwitterError = utils.ToPtr(describeTwitterFailure(err))
		resp.RateLimited = IsTwitterRateLimited(err)
		return
	}

	if err := f.campaignRepo.SetTweetID(ctx, campaign.ID, out.TweetID); err != nil {
		f.logger.Error("Failed to store campaign tweet id",
			zap.String("campaign_id", campaign.UUID.String()),
			zap.String("tweet_id", out.TweetID),
			zap.Error(err))
	}
	campaign.TweetID = utils.ToPtr(out.TweetID)
	resp.TweetID = campaign.TweetID
}

// List returns campaigns newest first, optionally for one user
func (f *CampaignFlowImpl) List(ctx context.Context, req *dto.ListCampaignsRequest) (*dto.ListCampaignsResponse, error) {
	filter := models.CampaignFilter{}
	if userID := strings.TrimSpace(req.UserID); userID != "" {
		filter.UserID = &userID
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultCampaignPageSize
	}

	rows, err := f.campaignRepo.ByFilter(ctx, filter, campaignListOrder, limit, req.Offset)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LIST_FAILED", "Failed to list campaigns", err)
	}
	total, err := f.campaignRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LIST_FAILED", "Failed to count campaigns", err)
	}

	items := make([]dto.CampaignDTO, 0, len(rows))
	for _, c := range rows {
		items = append(items, ToCampaignDTO(*c))
	}
	return &dto.ListCampaignsResponse{Items: items, Total: total}, nil
}

// Get returns one campaign by its public id
func (f *CampaignFlowImpl) Get(ctx context.Context, id string) (*dto.CampaignDTO, error) {
	campaignID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, ErrInvalidCampaignID
	}

	c, err := f.campaignRepo.ByUUID(ctx, campaignID)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_FETCH_FAILED", "Failed to fetch campaign", err)
	}
	if c == nil {
		return nil, ErrCampaignNotFound
	}

	out := ToCampaignDTO(*c)
	return &out, nil
}
