package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/akajrolkar2644/Assessment/pkg/database"
	apperrors "github.com/akajrolkar2644/Assessment/pkg/errors"
	"github.com/akajrolkar2644/Assessment/services/feedback/internal/domain"
	"github.com/akajrolkar2644/Assessment/services/feedback/internal/repository"
)

const (
	// reviewsKey is a hash of review id to the review as JSON.
	reviewsKey = "feedback:reviews"
	// indexKey is a sorted set of review ids scored by id, used to find max(id).
	indexKey = "feedback:reviews:index"

	maxTxAttempts = 10
)

// ErrConflict is returned when an optimistic transaction kept losing to
// concurrent writers.
var ErrConflict = errors.New("redis: too many concurrent writers")

// ReviewRepository implements repository.ReviewRepository using Redis.
// Writes run as WATCH/MULTI/EXEC transactions so a review is either fully
// visible or absent.
type ReviewRepository struct {
	client *redis.Client
	now    func() time.Time
}

var _ repository.ReviewRepository = (*ReviewRepository)(nil)

// NewReviewRepository creates a new Redis-backed review repository.
func NewReviewRepository(client *redis.Client, opts ...repository.Option) *ReviewRepository {
	o := repository.BuildOptions(opts...)
	return &ReviewRepository{client: client, now: o.Now}
}

// Append stores a review with id max(id)+1.
func (r *ReviewRepository) Append(ctx context.Context, in *domain.NewReview) (_ *domain.Review, err error) {
	ctx, end := database.TraceQuery(ctx, database.SystemRedis, "AppendReview", "HSET "+reviewsKey)
	defer func() { end(err) }()

	if err := in.Validate(); err != nil {
		return nil, err
	}

	var review *domain.Review
	txf := func(tx *redis.Tx) error {
		last, err := tx.ZRevRangeWithScores(ctx, indexKey, 0, 0).Result()
		if err != nil {
			return fmt.Errorf("read max id: %w", err)
		}
		nextID := 1
		if len(last) > 0 {
			nextID = int(last[0].Score) + 1
		}

		review, err = repository.NewRecord(in, nextID, r.now())
		if err != nil {
			return err
		}
		data, err := json.Marshal(review)
		if err != nil {
			return fmt.Errorf("marshal review: %w", err)
		}

		id := strconv.Itoa(review.ID)
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, reviewsKey, id, data)
			pipe.ZAdd(ctx, indexKey, redis.Z{Score: float64(review.ID), Member: id})
			return nil
		})
		return err
	}

	if err := r.retryWatch(ctx, txf, indexKey); err != nil {
		if errors.Is(err, apperrors.ErrInvalidInput) {
			return nil, err
		}
		return nil, apperrors.Persistence(fmt.Errorf("redis append review: %w", err))
	}
	return review, nil
}

// ReadAll returns every review in id order.
func (r *ReviewRepository) ReadAll(ctx context.Context) (_ []domain.Review, err error) {
	ctx, end := database.TraceQuery(ctx, database.SystemRedis, "ReadAll", "HVALS "+reviewsKey)
	defer func() { end(err) }()

	values, err := r.client.HVals(ctx, reviewsKey).Result()
	if err != nil {
		return nil, apperrors.Persistence(fmt.Errorf("redis hvals: %w", err))
	}

	reviews := make([]domain.Review, 0, len(values))
	for _, v := range values {
		review, err := decode(v)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, *review)
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].ID < reviews[j].ID })
	return reviews, nil
}

// GetByID retrieves a review by its ID.
func (r *ReviewRepository) GetByID(ctx context.Context, id int) (_ *domain.Review, err error) {
	ctx, end := database.TraceQuery(ctx, database.SystemRedis, "GetReview", "HGET "+reviewsKey)
	defer func() { end(err) }()

	data, err := r.client.HGet(ctx, reviewsKey, strconv.Itoa(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("review", strconv.Itoa(id))
		}
		return nil, apperrors.Persistence(fmt.Errorf("redis hget review: %w", err))
	}
	return decode(data)
}

// UpdateStatus sets the status of a review.
func (r *ReviewRepository) UpdateStatus(ctx context.Context, id int, status domain.ReviewStatus) (_ *domain.Review, err error) {
	ctx, end := database.TraceQuery(ctx, database.SystemRedis, "UpdateReviewStatus", "HSET "+reviewsKey)
	defer func() { end(err) }()

	field := strconv.Itoa(id)
	var review *domain.Review
	txf := func(tx *redis.Tx) error {
		data, err := tx.HGet(ctx, reviewsKey, field).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return apperrors.NotFound("review", field)
			}
			return fmt.Errorf("redis hget review: %w", err)
		}
		review, err = decode(data)
		if err != nil {
			return err
		}
		review.Status = status
		updated, err := json.Marshal(review)
		if err != nil {
			return fmt.Errorf("marshal review: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, reviewsKey, field, updated)
			return nil
		})
		return err
	}

	if err := r.retryWatch(ctx, txf, reviewsKey); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrCorruptData) {
			return nil, err
		}
		return nil, apperrors.Persistence(err)
	}
	return review, nil
}

// Ping checks the Redis connection.
func (r *ReviewRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *ReviewRepository) retryWatch(ctx context.Context, fn func(*redis.Tx) error, keys ...string) error {
	for range maxTxAttempts {
		err := r.client.Watch(ctx, fn, keys...)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return ErrConflict
}

func decode(data string) (*domain.Review, error) {
	var review domain.Review
	if err := json.Unmarshal([]byte(data), &review); err != nil {
		return nil, apperrors.CorruptData(fmt.Errorf("unmarshal review: %w", err))
	}
	review.Timestamp = review.Timestamp.UTC()
	return &review, nil
}
