package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/akajrolkar2644/Assessment/pkg/errors"
)

// ReviewStatus is the admin triage state of a review.
type ReviewStatus string

// Review status constants.
const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusReviewed ReviewStatus = "reviewed"
)

// Submission limits.
const (
	MinRating       = 1
	MaxRating       = 5
	MaxReviewLength = 500
)

// AIFallbackText replaces any AI field whose generation failed.
const AIFallbackText = "AI response generation failed. Please try again."

// Review is one persisted feedback record. JSON names match the reviews.json
// file format.
type Review struct {
	ID         int          `json:"id"`
	Timestamp  time.Time    `json:"timestamp"`
	Rating     int          `json:"user_rating"`
	ReviewText string       `json:"user_review"`
	AIReply    string       `json:"ai_response"`
	AISummary  string       `json:"ai_summary"`
	AIActions  string       `json:"ai_actions"`
	Status     ReviewStatus `json:"status"`
}

// NewReview carries the caller-supplied fields of a review. The store assigns
// ID, Timestamp and Status.
type NewReview struct {
	Rating     int
	ReviewText string
	AIReply    string
	AISummary  string
	AIActions  string
}

// Validate checks the invariants every stored review must satisfy.
func (n *NewReview) Validate() error {
	if err := validateRating(n.Rating); err != nil {
		return err
	}
	if strings.TrimSpace(n.ReviewText) == "" {
		return apperrors.InvalidInput("review text must not be blank")
	}
	return nil
}

// ValidateSubmission checks user input before any AI call is made. It is
// stricter than NewReview.Validate: the review text is also length-limited.
func ValidateSubmission(rating int, reviewText string) error {
	n := NewReview{Rating: rating, ReviewText: reviewText}
	if err := n.Validate(); err != nil {
		return err
	}
	if utf8.RuneCountInString(reviewText) > MaxReviewLength {
		return apperrors.InvalidInput(fmt.Sprintf("review text must be at most %d characters", MaxReviewLength))
	}
	return nil
}

func validateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return apperrors.InvalidInput(fmt.Sprintf("rating must be between %d and %d, got %d", MinRating, MaxRating, rating))
	}
	return nil
}

// ValidStatuses returns the set of valid review statuses.
func ValidStatuses() []ReviewStatus {
	return []ReviewStatus{ReviewStatusPending, ReviewStatusReviewed}
}

// IsValidStatus checks whether s is a valid review status.
func IsValidStatus(s string) bool {
	for _, v := range ValidStatuses() {
		if string(v) == s {
			return true
		}
	}
	return false
}

// ActionItems splits AIActions into individual steps, dropping bullet
// markers and blank lines. Models often put several "•" bullets on one
// line, so each line is also split on that marker.
func (r *Review) ActionItems() []string {
	var items []string
	for _, line := range strings.Split(r.AIActions, "\n") {
		for _, part := range strings.Split(line, "•") {
			item := trimBullet(strings.TrimSpace(part))
			if item != "" {
				items = append(items, item)
			}
		}
	}
	return items
}

func trimBullet(line string) string {
	for _, marker := range []string{"- ", "* ", "• ", "•"} {
		if strings.HasPrefix(line, marker) {
			return strings.TrimSpace(strings.TrimPrefix(line, marker))
		}
	}
	// Numbered lists: "1." or "1)".
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i < len(line) && (line[i] == '.' || line[i] == ')') {
		return strings.TrimSpace(line[i+1:])
	}
	return line
}

// NextID returns max(id)+1 over reviews, or 1 when there are none.
func NextID(reviews []Review) int {
	maxID := 0
	for _, r := range reviews {
		if r.ID > maxID {
			maxID = r.ID
		}
	}
	return maxID + 1
}
