package businessflow

import (
	"fmt"

	"github.com/amirphl/reachbee/app/services"
)

// OpenRate formats opens/recipients as a one-decimal percentage.
// A campaign without recipients has a 0.0% open rate; the rate is not capped at 100%.
func OpenRate(opens int64, recipients int) string {
	if recipients <= 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(opens)/float64(recipients)*100)
}

// EngagementRate formats interactions per unit of base as a one-decimal percentage
func EngagementRate(interactions int64, base int) string {
	if base <= 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(interactions)/float64(base)*100)
}

// InstagramEngagementRate is the average likes plus comments per post over followers, two decimals.
// Zero followers count as one.
func InstagramEngagementRate(posts []services.InstagramPost, followers int64) string {
	if len(posts) == 0 {
		return "0.00%"
	}
	var total int64
	for _, p := range posts {
		total += p.LikeCount + p.CommentCount
	}
	if followers <= 0 {
		followers = 1
	}
	avg := float64(total) / float64(len(posts))
	return fmt.Sprintf("%.2f%%", avg/float64(followers)*100)
}
