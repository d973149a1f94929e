package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeStatistics_Empty(t *testing.T) {
	stats := ComputeStatistics(nil, time.Now())

	assert.Equal(t, 0, stats.TotalReviews)
	assert.Equal(t, 0.0, stats.AvgRating)
	assert.NotNil(t, stats.RatingDistribution)
	assert.Empty(t, stats.RatingDistribution)
	assert.Equal(t, 0, stats.RecentSubmissions)
	assert.Equal(t, 0, stats.PendingReviews)
}

func TestComputeStatistics(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	reviews := []Review{
		{ID: 1, Rating: 5, Timestamp: now.Add(-1 * time.Hour), Status: ReviewStatusPending},
		{ID: 2, Rating: 3, Timestamp: now.Add(-48 * time.Hour), Status: ReviewStatusReviewed},
		{ID: 3, Rating: 5, Timestamp: now.Add(-23 * time.Hour), Status: ReviewStatusPending},
		{ID: 4, Rating: 1, Timestamp: now.Add(-24 * time.Hour), Status: ReviewStatusPending},
	}

	stats := ComputeStatistics(reviews, now)

	assert.Equal(t, 4, stats.TotalReviews)
	assert.InDelta(t, 3.5, stats.AvgRating, 1e-9)
	assert.Equal(t, map[int]int{5: 2, 3: 1, 1: 1}, stats.RatingDistribution)
	// Exactly 24h old is outside the window.
	assert.Equal(t, 2, stats.RecentSubmissions)
	assert.Equal(t, 3, stats.PendingReviews)
}

func TestComputeStatistics_DistributionSumsToTotal(t *testing.T) {
	now := time.Now()
	var reviews []Review
	for i := 0; i < 23; i++ {
		reviews = append(reviews, Review{ID: i + 1, Rating: i%5 + 1, Timestamp: now})
	}

	stats := ComputeStatistics(reviews, now)

	sum := 0
	for rating, count := range stats.RatingDistribution {
		assert.GreaterOrEqual(t, rating, MinRating)
		assert.LessOrEqual(t, rating, MaxRating)
		sum += count
	}
	assert.Equal(t, stats.TotalReviews, sum)
	assert.GreaterOrEqual(t, stats.AvgRating, 1.0)
	assert.LessOrEqual(t, stats.AvgRating, 5.0)
}
