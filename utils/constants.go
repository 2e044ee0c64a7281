package utils

import (
	"time"
)

// Request context keys shared by handlers and flows
type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	UserAgentKey contextKey = "user_agent"
	IPAddressKey contextKey = "ip_address"
	EndpointKey  contextKey = "endpoint"
	TimeoutKey   contextKey = "timeout"
)

// DefaultRequestTimeout bounds a single API request including upstream calls
const DefaultRequestTimeout = 30 * time.Second

// Social platform limits
const (
	TweetMaxLength       = 280
	InstagramTopPosts    = 15
	UnknownRequesterIP   = "unknown"
	UpcomingEventsWindow = 10 * 24 * time.Hour
)
