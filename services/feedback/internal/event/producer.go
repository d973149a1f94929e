package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	pkgkafka "github.com/akajrolkar2644/Assessment/pkg/kafka"
	"github.com/akajrolkar2644/Assessment/services/feedback/internal/domain"
)

// Kafka topics for review domain events.
var (
	TopicReviewSubmitted = pkgkafka.Topic(AggregateTypeReview, "submitted")
	TopicReviewReviewed  = pkgkafka.Topic(AggregateTypeReview, "reviewed")
)

// Aggregate type constant.
const AggregateTypeReview = "review"

// Source identifier for events originating from the feedback service.
const SourceFeedbackService = "feedback-service"

// ReviewSubmittedData is the payload for a review.submitted event.
type ReviewSubmittedData struct {
	ID        int       `json:"id"`
	Rating    int       `json:"user_rating"`
	Summary   string    `json:"ai_summary"`
	Degraded  []string  `json:"degraded,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ReviewReviewedData is the payload for a review.reviewed event.
type ReviewReviewedData struct {
	ID     int    `json:"id"`
	Status string `json:"status"`
}

// publisher is the part of *pkgkafka.Producer this package uses.
type publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes review domain events to Kafka. A producer built with a
// nil Kafka producer publishes nothing.
type Producer struct {
	kafka  publisher
	logger *slog.Logger
}

// NewProducer creates a new event producer for the feedback service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	p := &Producer{logger: logger}
	if kafka != nil {
		p.kafka = kafka
	}
	return p
}

// PublishReviewSubmitted publishes a review.submitted event.
func (p *Producer) PublishReviewSubmitted(ctx context.Context, review *domain.Review, degraded []string) error {
	data := ReviewSubmittedData{
		ID:        review.ID,
		Rating:    review.Rating,
		Summary:   review.AISummary,
		Degraded:  degraded,
		Timestamp: review.Timestamp,
	}
	return p.publish(ctx, TopicReviewSubmitted, review.ID, data)
}

// PublishReviewReviewed publishes a review.reviewed event.
func (p *Producer) PublishReviewReviewed(ctx context.Context, review *domain.Review) error {
	data := ReviewReviewedData{
		ID:     review.ID,
		Status: string(review.Status),
	}
	return p.publish(ctx, TopicReviewReviewed, review.ID, data)
}

func (p *Producer) publish(ctx context.Context, topic string, reviewID int, data any) error {
	if p.kafka == nil {
		return nil
	}

	id := strconv.Itoa(reviewID)
	event, err := pkgkafka.NewEvent(ctx, topic, AggregateTypeReview, id, SourceFeedbackService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published review event",
		slog.String("topic", topic),
		slog.Int("review_id", reviewID),
	)
	return nil
}
