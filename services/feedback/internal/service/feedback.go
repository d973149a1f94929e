package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"

	apperrors "github.com/akajrolkar2644/Assessment/pkg/errors"
	"github.com/akajrolkar2644/Assessment/pkg/pagination"
	"github.com/akajrolkar2644/Assessment/pkg/tracing"
	"github.com/akajrolkar2644/Assessment/services/feedback/internal/domain"
	"github.com/akajrolkar2644/Assessment/services/feedback/internal/event"
	"github.com/akajrolkar2644/Assessment/services/feedback/internal/llm"
	"github.com/akajrolkar2644/Assessment/services/feedback/internal/repository"
)

// FeedbackService implements the business logic for review submissions and
// the admin views over the review store.
type FeedbackService struct {
	repo     repository.ReviewRepository
	llm      llm.Client
	producer *event.Producer
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a FeedbackService.
type Option func(*FeedbackService)

// WithClock overrides the clock used for the recent-submissions window.
func WithClock(now func() time.Time) Option {
	return func(s *FeedbackService) { s.now = now }
}

// NewFeedbackService creates a new feedback service.
func NewFeedbackService(
	repo repository.ReviewRepository,
	client llm.Client,
	producer *event.Producer,
	logger *slog.Logger,
	opts ...Option,
) *FeedbackService {
	s := &FeedbackService{
		repo:     repo,
		llm:      client,
		producer: producer,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmissionResult is returned to the submitter.
type SubmissionResult struct {
	ReviewID   int                    `json:"review_id"`
	AIReply    string                 `json:"ai_reply"`
	Statistics *domain.Statistics     `json:"statistics,omitempty"`
	Degraded   []string               `json:"degraded"`
	State      domain.SubmissionState `json:"state"`
}

// Submit validates a review, generates the reply, summary and actions, and
// appends the review to the store. A failed AI call never fails the
// submission: its output is replaced with domain.AIFallbackText and listed in
// Degraded. Validation and persistence errors are returned unchanged.
func (s *FeedbackService) Submit(ctx context.Context, rating int, reviewText string) (_ *SubmissionResult, err error) {
	ctx, span := tracing.Tracer("feedback-service").Start(ctx, "FeedbackService.Submit")
	span.SetAttributes(attribute.Int("review.rating", rating))
	defer func() {
		if err != nil {
			tracing.RecordError(span, err)
		}
		span.End()
	}()

	sub := domain.NewSubmission()
	defer func() { submissionsTotal.WithLabelValues(string(sub.State)).Inc() }()

	if err := domain.ValidateSubmission(rating, reviewText); err != nil {
		s.transition(ctx, sub, domain.SubmissionFailed)
		return nil, err
	}

	s.transition(ctx, sub, domain.SubmissionGenerating)
	outputs := make(map[string]string, len(completions))
	for _, c := range completions {
		outputs[c.kind] = s.generate(ctx, sub, c, rating, reviewText)
	}

	review, err := s.repo.Append(ctx, &domain.NewReview{
		Rating:     rating,
		ReviewText: reviewText,
		AIReply:    outputs[domain.AIKindReply],
		AISummary:  outputs[domain.AIKindSummary],
		AIActions:  outputs[domain.AIKindActions],
	})
	if err != nil {
		s.transition(ctx, sub, domain.SubmissionFailed)
		s.logger.ErrorContext(ctx, "failed to store review",
			slog.Int("rating", rating),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	s.transition(ctx, sub, domain.SubmissionStored)
	span.SetAttributes(attribute.Int("review.id", review.ID))

	if err := s.producer.PublishReviewSubmitted(ctx, review, sub.Degraded); err != nil {
		s.logger.WarnContext(ctx, "failed to publish review submitted event",
			slog.Int("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}

	result := &SubmissionResult{
		ReviewID: review.ID,
		AIReply:  review.AIReply,
		Degraded: sub.Degraded,
		State:    sub.State,
	}
	if result.Degraded == nil {
		result.Degraded = []string{}
	}

	// The review is already stored; failing to read statistics must not
	// turn the submission into an error.
	if stats, err := s.Statistics(ctx); err != nil {
		s.logger.WarnContext(ctx, "failed to compute statistics after submit",
			slog.Int("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	} else {
		result.Statistics = stats
	}

	return result, nil
}

func (s *FeedbackService) generate(ctx context.Context, sub *domain.Submission, c completionSpec, rating int, text string) string {
	out, err := s.llm.Complete(ctx, c.prompt(rating, text), c.maxTokens)
	if err != nil {
		aiFallbackTotal.WithLabelValues(c.kind).Inc()
		sub.MarkDegraded(c.kind)
		s.logger.WarnContext(ctx, "ai generation failed, using fallback",
			slog.String("kind", c.kind),
			slog.String("provider", s.llm.Name()),
			slog.String("error", err.Error()),
		)
		return domain.AIFallbackText
	}
	return out
}

func (s *FeedbackService) transition(ctx context.Context, sub *domain.Submission, next domain.SubmissionState) {
	from := sub.State
	if err := sub.Transition(next); err != nil {
		s.logger.ErrorContext(ctx, "invalid submission transition", slog.String("error", err.Error()))
		return
	}
	s.logger.DebugContext(ctx, "submission state changed",
		slog.String("from", string(from)),
		slog.String("to", string(next)),
	)
}

// Statistics computes aggregate statistics over every stored review.
func (s *FeedbackService) Statistics(ctx context.Context) (*domain.Statistics, error) {
	reviews, err := s.repo.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read reviews: %w", err)
	}
	stats := domain.ComputeStatistics(reviews, s.now())
	return &stats, nil
}

// ListFilter selects reviews for the admin list.
type ListFilter struct {
	Status     string
	Pagination pagination.Params
}

// ListReviews returns one page of reviews, newest first, and the number of
// reviews matching the filter.
func (s *FeedbackService) ListReviews(ctx context.Context, filter ListFilter) ([]domain.Review, int, error) {
	if filter.Status != "" && !domain.IsValidStatus(filter.Status) {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("invalid status %q", filter.Status))
	}

	reviews, err := s.AllReviews(ctx, filter.Status)
	if err != nil {
		return nil, 0, err
	}
	sort.SliceStable(reviews, func(i, j int) bool { return reviews[i].ID > reviews[j].ID })

	p := filter.Pagination
	if p.PerPage == 0 {
		p = pagination.DefaultParams()
	}
	return pagination.Window(reviews, p), len(reviews), nil
}

// AllReviews returns every review in id order, optionally restricted to one
// status.
func (s *FeedbackService) AllReviews(ctx context.Context, status string) ([]domain.Review, error) {
	reviews, err := s.repo.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read reviews: %w", err)
	}
	if status == "" {
		return reviews, nil
	}

	filtered := make([]domain.Review, 0, len(reviews))
	for _, r := range reviews {
		if string(r.Status) == status {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

// GetReview retrieves a review by its ID.
func (s *FeedbackService) GetReview(ctx context.Context, id int) (*domain.Review, error) {
	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get review by id: %w", err)
	}
	return review, nil
}

// MarkReviewed sets a review's status to reviewed. Marking an already
// reviewed review succeeds without publishing another event.
func (s *FeedbackService) MarkReviewed(ctx context.Context, id int) (*domain.Review, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get review by id: %w", err)
	}
	if current.Status == domain.ReviewStatusReviewed {
		return current, nil
	}

	review, err := s.repo.UpdateStatus(ctx, id, domain.ReviewStatusReviewed)
	if err != nil {
		return nil, fmt.Errorf("update review status: %w", err)
	}

	s.logger.InfoContext(ctx, "review marked as reviewed", slog.Int("review_id", id))

	if err := s.producer.PublishReviewReviewed(ctx, review); err != nil {
		s.logger.WarnContext(ctx, "failed to publish review reviewed event",
			slog.Int("review_id", id),
			slog.String("error", err.Error()),
		)
	}
	return review, nil
}

// Ping reports whether the review store is reachable.
func (s *FeedbackService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
