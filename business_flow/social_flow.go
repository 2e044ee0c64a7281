package businessflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"path"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/amirphl/reachbee/app/dto"
	"github.com/amirphl/reachbee/app/services"
	"github.com/amirphl/reachbee/config"
	"github.com/amirphl/reachbee/utils"
)

const (
	defaultTwitterAnalyticsResults = 10
	tweetEllipsis                  = "..."
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// TweetPoster publishes a single tweet
type TweetPoster interface {
	PostTweet(ctx context.Context, req *dto.TweetRequest) (*dto.TweetResponse, error)
}

// SocialFlow handles Twitter, WhatsApp, Instagram and image storage
type SocialFlow interface {
	TweetPoster
	PostTweetBatch(ctx context.Context, req *dto.TweetBatchRequest) (*dto.TweetBatchResponse, error)
	TwitterAnalytics(ctx context.Context, req *dto.TwitterAnalyticsRequest) (*dto.TwitterAnalyticsResponse, error)
	SaveImage(ctx context.Context, req *dto.SaveImageRequest) (*dto.SaveImageResponse, error)
	SendWhatsApp(ctx context.Context, req *dto.WhatsAppSendRequest) (*dto.WhatsAppSendResponse, error)
	AnalyzeInstagram(ctx context.Context, username string) (*dto.InstagramAnalysisResponse, error)
}

// SocialFlowImpl implements the social business flow
type SocialFlowImpl struct {
	twitter      services.TwitterClient
	store        services.ImageStore
	whatsapp     services.WhatsAppSender
	instagram    services.InstagramClient
	rc           *redis.Client
	cacheConfig  *config.CacheConfig
	twitterCfg   *config.TwitterConfig
	instagramCfg *config.InstagramConfig
	storageCfg   *config.StorageConfig
	logger       *zap.Logger
	now          func() time.Time
}

// NewSocialFlow creates a new social flow instance. A nil twitter client disables Twitter.
func NewSocialFlow(
	twitter services.TwitterClient,
	store services.ImageStore,
	whatsapp services.WhatsAppSender,
	instagram services.InstagramClient,
	rc *redis.Client,
	cacheConfig *config.CacheConfig,
	twitterCfg *config.TwitterConfig,
	instagramCfg *config.InstagramConfig,
	storageCfg *config.StorageConfig,
	logger *zap.Logger,
) SocialFlow {
	return &SocialFlowImpl{
		twitter:      twitter,
		store:        store,
		whatsapp:     whatsapp,
		instagram:    instagram,
		rc:           rc,
		cacheConfig:  cacheConfig,
		twitterCfg:   twitterCfg,
		instagramCfg: instagramCfg,
		storageCfg:   storageCfg,
		logger:       logger,
		now:          utils.UTCNow,
	}
}

// truncateTweet shortens text over the tweet limit to 277 characters plus an ellipsis
func truncateTweet(text string) (string, bool) {
	if utf8.RuneCountInString(text) <= utils.TweetMaxLength {
		return text, false
	}
	runes := []rune(text)
	return string(runes[:utils.TweetMaxLength-len(tweetEllipsis)]) + tweetEllipsis, true
}

func isRateLimit(err error) bool {
	return errors.Is(err, services.ErrRateLimited) || strings.Contains(strings.ToLower(err.Error()), "rate limit")
}

func (f *SocialFlowImpl) cacheKey(parts ...string) string {
	prefix := ""
	if f.cacheConfig != nil {
		prefix = f.cacheConfig.RedisPrefix
	}
	return prefix + strings.Join(parts, ":")
}

// rateLimitedUntil returns the cached Twitter reset time, if it is still in the future
func (f *SocialFlowImpl) rateLimitedUntil(ctx context.Context) *time.Time {
	if f.rc == nil {
		return nil
	}
	val, err := f.rc.Get(ctx, f.cacheKey("twitter", "rate_limited_until")).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			f.logger.Warn("Rate limit cache read failed", zap.Error(err))
		}
		return nil
	}
	until, err := time.Parse(time.RFC3339, val)
	if err != nil || !until.After(f.now()) {
		return nil
	}
	return &until
}

func (f *SocialFlowImpl) rememberRateLimit(ctx context.Context, err error) {
	if f.rc == nil {
		return
	}
	until := f.now().Add(f.twitterCfg.RateLimitBackoff)
	var rl *services.RateLimitError
	if errors.As(err, &rl) && rl.ResetAt != nil && rl.ResetAt.After(f.now()) {
		until = *rl.ResetAt
	}
	ttl := until.Sub(f.now())
	if ttl <= 0 {
		return
	}
	if err := f.rc.Set(ctx, f.cacheKey("twitter", "rate_limited_until"), until.UTC().Format(time.RFC3339), ttl).Err(); err != nil {
		f.logger.Warn("Rate limit cache write failed", zap.Error(err))
	}
}

// PostTweet posts one tweet, uploading the optional data URL image first
func (f *SocialFlowImpl) PostTweet(ctx context.Context, req *dto.TweetRequest) (*dto.TweetResponse, error) {
	if f.twitter == nil {
		return nil, ErrTwitterDisabled
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, NewBusinessError("TWEET_TEXT_REQUIRED", "Tweet text is required", nil)
	}
	if until := f.rateLimitedUntil(ctx); until != nil {
		return nil, NewBusinessErrorf("TWITTER_RATE_LIMITED", "Twitter rate limit active until %s", ErrTwitterRateLimited, until.Format(time.RFC3339))
	}

	text, truncated := truncateTweet(req.Text)

	var mediaIDs []string
	if req.ImageData != "" {
		mimeType, data, err := decodeDataURL(req.ImageData)
		if err != nil {
			return nil, err
		}
		mediaID, err := f.twitter.UploadMedia(ctx, data, mimeType)
		if err != nil {
			return nil, f.twitterError(ctx, err)
		}
		mediaIDs = append(mediaIDs, mediaID)
	}

	tweet, err := f.twitter.CreateTweet(ctx, text, mediaIDs)
	if err != nil {
		return nil, f.twitterError(ctx, err)
	}

	return &dto.TweetResponse{TweetID: tweet.ID, Text: text, Truncated: truncated}, nil
}

func (f *SocialFlowImpl) twitterError(ctx context.Context, err error) error {
	if isRateLimit(err) {
		f.rememberRateLimit(ctx, err)
		return NewBusinessError("TWITTER_RATE_LIMITED", "Twitter rate limit reached", errors.Join(ErrTwitterRateLimited, err))
	}
	return NewBusinessError("TWITTER_POST_FAILED", "Failed to post to Twitter", err)
}

// PostTweetBatch posts sequentially and stops at the first rate limit
func (f *SocialFlowImpl) PostTweetBatch(ctx context.Context, req *dto.TweetBatchRequest) (*dto.TweetBatchResponse, error) {
	if f.twitter == nil {
		return nil, ErrTwitterDisabled
	}

	resp := &dto.TweetBatchResponse{Results: make([]dto.TweetBatchItem, 0, len(req.Posts))}
	for i := range req.Posts {
		out, err := f.PostTweet(ctx, &req.Posts[i])
		if err != nil {
			resp.Results = append(resp.Results, dto.TweetBatchItem{Index: i, Error: publicMessage(err)})
			if IsTwitterRateLimited(err) {
				resp.RateLimited = true
				resp.Aborted = i < len(req.Posts)-1
				break
			}
			continue
		}
		resp.Results = append(resp.Results, dto.TweetBatchItem{Index: i, TweetID: out.TweetID})
		resp.Posted++
	}
	return resp, nil
}

// publicMessage returns the client-safe message of a business error
func publicMessage(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Message
	}
	return err.Error()
}

// TwitterAnalytics aggregates the public metrics of recent tweets
func (f *SocialFlowImpl) TwitterAnalytics(ctx context.Context, req *dto.TwitterAnalyticsRequest) (*dto.TwitterAnalyticsResponse, error) {
	if f.twitter == nil {
		return nil, ErrTwitterDisabled
	}
	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = defaultTwitterAnalyticsResults
	}

	tweets, err := f.twitter.RecentTweets(ctx, maxResults)
	if err != nil {
		if isRateLimit(err) {
			return nil, NewBusinessError("TWITTER_RATE_LIMITED", "Twitter rate limit reached", errors.Join(ErrTwitterRateLimited, err))
		}
		return nil, NewBusinessError("TWITTER_ANALYTICS_FAILED", "Failed to fetch Twitter analytics", err)
	}

	resp := &dto.TwitterAnalyticsResponse{Tweets: make([]dto.TweetStats, 0, len(tweets))}
	for _, t := range tweets {
		m := t.PublicMetrics
		resp.Tweets = append(resp.Tweets, dto.TweetStats{
			ID:          t.ID,
			Text:        t.Text,
			CreatedAt:   t.CreatedAt,
			Likes:       m.LikeCount,
			Retweets:    m.RetweetCount,
			Replies:     m.ReplyCount,
			Impressions: m.ImpressionCount,
		})
		resp.TotalLikes += m.LikeCount
		resp.TotalRetweets += m.RetweetCount
		resp.TotalReplies += m.ReplyCount
	}
	resp.TotalTweets = len(tweets)
	resp.EngagementRate = EngagementRate(resp.TotalLikes+resp.TotalRetweets+resp.TotalReplies, resp.TotalTweets)
	return resp, nil
}

// SaveImage decodes a data URL and uploads it to object storage
func (f *SocialFlowImpl) SaveImage(ctx context.Context, req *dto.SaveImageRequest) (*dto.SaveImageResponse, error) {
	mimeType, data, err := decodeDataURL(req.ImageData)
	if err != nil {
		return nil, err
	}

	name := uuid.New().String()
	if base := strings.TrimSuffix(path.Base(req.Filename), path.Ext(req.Filename)); req.Filename != "" && base != "" {
		if safe := strings.Trim(unsafeFilenameChars.ReplaceAllString(base, "-"), "-"); safe != "" {
			name = safe + "-" + name[:8]
		}
	}
	key := path.Join(f.storageCfg.KeyPrefix, f.now().Format("2006/01"), name+imageExtension(mimeType))

	obj, err := f.store.Put(ctx, key, data, mimeType)
	if err != nil {
		return nil, NewBusinessError("IMAGE_SAVE_FAILED", "Failed to save image", err)
	}

	return &dto.SaveImageResponse{Key: obj.Key, URL: obj.URL, ContentType: mimeType, Size: obj.Size}, nil
}

// SendWhatsApp sends one WhatsApp message through the configured provider
func (f *SocialFlowImpl) SendWhatsApp(ctx context.Context, req *dto.WhatsAppSendRequest) (*dto.WhatsAppSendResponse, error) {
	phone := strings.TrimSpace(req.Phone)
	message := strings.TrimSpace(req.Message)
	if phone == "" || message == "" {
		return nil, ErrPhoneAndMessageRequired
	}

	msg, err := f.whatsapp.Send(ctx, phone, message)
	if err != nil {
		return nil, NewBusinessError("WHATSAPP_SEND_FAILED", "Failed to send WhatsApp message", err)
	}
	return &dto.WhatsAppSendResponse{SID: msg.SID, Status: msg.Status, Body: msg.Body}, nil
}

func mediaTypeLabel(mediaType int) string {
	switch mediaType {
	case 1:
		return "Photo"
	case 2:
		return "Video"
	default:
		return "Carousel"
	}
}

// AnalyzeInstagram fetches the profile, then its posts by pk, and summarizes engagement
func (f *SocialFlowImpl) AnalyzeInstagram(ctx context.Context, username string) (*dto.InstagramAnalysisResponse, error) {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	if username == "" {
		return nil, ErrInstagramUsernameRequired
	}

	key := f.cacheKey("instagram", strings.ToLower(username))
	if f.rc != nil {
		if raw, err := f.rc.Get(ctx, key).Bytes(); err == nil {
			var cached dto.InstagramAnalysisResponse
			if json.Unmarshal(raw, &cached) == nil {
				return &cached, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			f.logger.Warn("Instagram cache read failed", zap.Error(err))
		}
	}

	profile, err := f.instagram.ProfileByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			return nil, ErrInstagramProfileNotFound
		}
		return nil, NewBusinessError("INSTAGRAM_PROFILE_FAILED", "Failed to fetch profile", err)
	}

	posts, err := f.instagram.PostsByUserID(ctx, profile.PK.String())
	if err != nil {
		return nil, NewBusinessError("INSTAGRAM_POSTS_FAILED", "Could not fetch posts", err)
	}
	if len(posts) > utils.InstagramTopPosts {
		posts = posts[:utils.InstagramTopPosts]
	}

	resp := &dto.InstagramAnalysisResponse{
		Profile: dto.InstagramProfileDTO{
			ID:             profile.PK.String(),
			Username:       profile.Username,
			FullName:       profile.FullName,
			Biography:      profile.Biography,
			Category:       profile.Category,
			FollowerCount:  profile.FollowerCount,
			FollowingCount: profile.FollowingCount,
			MediaCount:     profile.MediaCount,
			ProfilePicURL:  profile.ProfilePicURL,
		},
		Posts:          make([]dto.InstagramPostDTO, 0, len(posts)),
		EngagementRate: InstagramEngagementRate(posts, profile.FollowerCount),
		MediaTypes:     map[string]int{},
		PostsPerDay:    map[string]int{},
		FetchedAt:      f.now(),
	}

	var likes, comments int64
	for _, p := range posts {
		item := dto.InstagramPostDTO{
			ID:        p.ID,
			MediaType: mediaTypeLabel(p.MediaType),
			Likes:     p.LikeCount,
			Comments:  p.CommentCount,
			Plays:     p.PlayCount,
		}
		if p.TakenAt > 0 {
			takenAt := time.Unix(p.TakenAt, 0).UTC()
			item.TakenAt = &takenAt
			resp.PostsPerDay[takenAt.Format("2006-01-02")]++
		}
		resp.MediaTypes[item.MediaType]++
		resp.Posts = append(resp.Posts, item)
		likes += p.LikeCount
		comments += p.CommentCount
	}
	if n := len(posts); n > 0 {
		resp.AverageLikes = int64(math.Round(float64(likes) / float64(n)))
		resp.AverageComments = int64(math.Round(float64(comments) / float64(n)))
	}

	if f.rc != nil && f.instagramCfg.CacheTTL > 0 {
		if raw, err := json.Marshal(resp); err == nil {
			if err := f.rc.Set(ctx, key, raw, f.instagramCfg.CacheTTL).Err(); err != nil {
				f.logger.Warn("Instagram cache write failed", zap.Error(err))
			}
		}
	}

	return resp, nil
}

// describeTwitterFailure renders a Twitter error for campaign responses
func describeTwitterFailure(err error) string {
	if IsTwitterRateLimited(err) {
		return fmt.Sprintf("rate limited: %s", publicMessage(err))
	}
	return publicMessage(err)
}
