package repository

import (
	"context"
	"time"

	"github.com/akajrolkar2644/Assessment/services/feedback/internal/domain"
)

// ReviewRepository defines the persistence operations for reviews. Every
// backend assigns IDs as max(id)+1, stamps new reviews with its clock in UTC
// and never exposes a partially written review.
type ReviewRepository interface {
	// Append validates and stores a new review with status pending.
	Append(ctx context.Context, review *domain.NewReview) (*domain.Review, error)

	// ReadAll returns every review in id order. A store that does not exist
	// yet reads as empty.
	ReadAll(ctx context.Context) ([]domain.Review, error)

	// GetByID retrieves a review by its ID.
	GetByID(ctx context.Context, id int) (*domain.Review, error)

	// UpdateStatus sets the status of an existing review.
	UpdateStatus(ctx context.Context, id int, status domain.ReviewStatus) (*domain.Review, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}

// Options are shared by all backends.
type Options struct {
	Now func() time.Time
}

// Option configures a backend.
type Option func(*Options)

// WithClock overrides the clock used to timestamp new reviews.
func WithClock(now func() time.Time) Option {
	return func(o *Options) { o.Now = now }
}

// BuildOptions applies opts over the defaults.
func BuildOptions(opts ...Option) Options {
	o := Options{Now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewRecord builds the review a backend will store: it validates in, then
// fills in the store-assigned fields.
func NewRecord(in *domain.NewReview, id int, now time.Time) (*domain.Review, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return &domain.Review{
		ID:         id,
		Timestamp:  now.UTC(),
		Rating:     in.Rating,
		ReviewText: in.ReviewText,
		AIReply:    in.AIReply,
		AISummary:  in.AISummary,
		AIActions:  in.AIActions,
		Status:     domain.ReviewStatusPending,
	}, nil
}
