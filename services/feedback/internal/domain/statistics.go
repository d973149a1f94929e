package domain

import "time"

// RecentWindow is how far back a review counts as a recent submission.
const RecentWindow = 24 * time.Hour

// Statistics are aggregates over all stored reviews. They are derived on
// every call and never persisted.
type Statistics struct {
	TotalReviews       int         `json:"total_reviews"`
	AvgRating          float64     `json:"avg_rating"`
	RatingDistribution map[int]int `json:"rating_distribution"`
	RecentSubmissions  int         `json:"recent_submissions"`
	PendingReviews     int         `json:"pending_reviews"`
}

// ComputeStatistics aggregates reviews as of now. AvgRating is 0 for an
// empty collection, and the distribution only holds ratings that occur.
func ComputeStatistics(reviews []Review, now time.Time) Statistics {
	stats := Statistics{
		TotalReviews:       len(reviews),
		RatingDistribution: make(map[int]int),
	}
	if len(reviews) == 0 {
		return stats
	}

	cutoff := now.Add(-RecentWindow)
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
		stats.RatingDistribution[r.Rating]++
		if r.Timestamp.After(cutoff) {
			stats.RecentSubmissions++
		}
		if r.Status == ReviewStatusPending {
			stats.PendingReviews++
		}
	}
	stats.AvgRating = float64(sum) / float64(len(reviews))
	return stats
}
