package dto

import "time"

// TweetRequest posts one tweet
type TweetRequest struct {
	Text      string `json:"text" validate:"required"`
	ImageData string `json:"imageData,omitempty"`
}

// TweetResponse reports a posted tweet
type TweetResponse struct {
	TweetID   string `json:"tweetId"`
	Text      string `json:"text"`
	Truncated bool   `json:"truncated"`
}

// TweetBatchRequest posts several tweets in order
type TweetBatchRequest struct {
	Posts []TweetRequest `json:"posts" validate:"required,min=1,max=20,dive"`
}

// TweetBatchItem is the outcome of one batch entry
type TweetBatchItem struct {
	Index   int    `json:"index"`
	TweetID string `json:"tweetId,omitempty"`
	Error   string `json:"error,omitempty"`
}

// TweetBatchResponse lists every attempted post
type TweetBatchResponse struct {
	Results     []TweetBatchItem `json:"results"`
	Posted      int              `json:"posted"`
	Aborted     bool             `json:"aborted"`
	RateLimited bool             `json:"rateLimited"`
}

// TwitterAnalyticsRequest bounds how many tweets are analyzed
type TwitterAnalyticsRequest struct {
	MaxResults int `query:"maxResults" validate:"omitempty,min=5,max=100"`
}

// TweetStats is one tweet with its metrics
type TweetStats struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	Likes       int64      `json:"likes"`
	Retweets    int64      `json:"retweets"`
	Replies     int64      `json:"replies"`
	Impressions int64      `json:"impressions"`
}

// TwitterAnalyticsResponse aggregates recent tweets
type TwitterAnalyticsResponse struct {
	Tweets         []TweetStats `json:"tweets"`
	TotalTweets    int          `json:"totalTweets"`
	TotalLikes     int64        `json:"totalLikes"`
	TotalRetweets  int64        `json:"totalRetweets"`
	TotalReplies   int64        `json:"totalReplies"`
	EngagementRate string       `json:"engagementRate"`
}

// SaveImageRequest uploads a data URL image
type SaveImageRequest struct {
	ImageData string `json:"imageData" validate:"required"`
	Filename  string `json:"filename,omitempty" validate:"omitempty,max=128"`
}

// SaveImageResponse locates the stored image
type SaveImageResponse struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// WhatsAppSendRequest sends one WhatsApp message
type WhatsAppSendRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// WhatsAppSendResponse reports the provider message
type WhatsAppSendResponse struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
	Body   string `json:"body"`
}

// InstagramProfileDTO is the public profile summary
type InstagramProfileDTO struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	FullName       string `json:"fullName"`
	Biography      string `json:"biography"`
	Category       string `json:"category,omitempty"`
	FollowerCount  int64  `json:"followerCount"`
	FollowingCount int64  `json:"followingCount"`
	MediaCount     int64  `json:"mediaCount"`
	ProfilePicURL  string `json:"profilePicUrl,omitempty"`
}

// InstagramPostDTO is one analyzed post
type InstagramPostDTO struct {
	ID        string     `json:"id"`
	MediaType string     `json:"mediaType"`
	Likes     int64      `json:"likes"`
	Comments  int64      `json:"comments"`
	Plays     int64      `json:"plays"`
	TakenAt   *time.Time `json:"takenAt,omitempty"`
}

// InstagramAnalysisResponse is a competitor analysis
type InstagramAnalysisResponse struct {
	Profile         InstagramProfileDTO `json:"profile"`
	Posts           []InstagramPostDTO  `json:"posts"`
	AverageLikes    int64               `json:"averageLikes"`
	AverageComments int64               `json:"averageComments"`
	EngagementRate  string              `json:"engagementRate"`
	MediaTypes      map[string]int      `json:"mediaTypes"`
	PostsPerDay     map[string]int      `json:"postsPerDay"`
	FetchedAt       time.Time           `json:"fetchedAt"`
}
