package businessflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amirphl/reachbee/app/services"
)

func TestOpenRate(t *testing.T) {
	tests := []struct {
		name       string
		opens      int64
		recipients int
		want       string
	}{
		{"three of ten", 3, 10, "30.0%"},
		{"no recipients", 5, 0, "0.0%"},
		{"no opens", 0, 4, "0.0%"},
		{"one of three", 1, 3, "33.3%"},
		{"more opens than recipients", 7, 2, "350.0%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OpenRate(tt.opens, tt.recipients))
		})
	}
}

func TestEngagementRate(t *testing.T) {
	assert.Equal(t, "0.0%", EngagementRate(12, 0))
	assert.Equal(t, "250.0%", EngagementRate(25, 10))
}

func TestInstagramEngagementRate(t *testing.T) {
	posts := []services.InstagramPost{
		{LikeCount: 100, CommentCount: 10},
		{LikeCount: 50, CommentCount: 40},
	}
	// avg 100 interactions over 1000 followers
	assert.Equal(t, "10.00%", InstagramEngagementRate(posts, 1000))
	assert.Equal(t, "10000.00%", InstagramEngagementRate(posts, 0))
	assert.Equal(t, "0.00%", InstagramEngagementRate(nil, 1000))
}
