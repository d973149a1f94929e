package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/akajrolkar2644/Assessment/pkg/database"
	apperrors "github.com/akajrolkar2644/Assessment/pkg/errors"
	"github.com/akajrolkar2644/Assessment/services/feedback/internal/domain"
	"github.com/akajrolkar2644/Assessment/services/feedback/internal/repository"
)

const reviewColumns = `id, timestamp, user_rating, user_review, ai_response, ai_summary, ai_actions, status`

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	pool database.DBTX
	now  func() time.Time
}

var _ repository.ReviewRepository = (*ReviewRepository)(nil)

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX, opts ...repository.Option) *ReviewRepository {
	o := repository.BuildOptions(opts...)
	return &ReviewRepository{pool: pool, now: o.Now}
}

// Append inserts a review with id max(id)+1. The table lock serialises
// concurrent appenders, including ones in other processes.
func (r *ReviewRepository) Append(ctx context.Context, in *domain.NewReview) (_ *domain.Review, err error) {
	query := `INSERT INTO reviews (` + reviewColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	ctx, end := database.TraceQuery(ctx, database.SystemPostgres, "AppendReview", query)
	defer func() { end(err) }()

	if err := in.Validate(); err != nil {
		return nil, err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.Persistence(fmt.Errorf("begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `LOCK TABLE reviews IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return nil, apperrors.Persistence(fmt.Errorf("lock reviews: %w", err))
	}

	var nextID int
	if err := tx.QueryRow(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM reviews`).Scan(&nextID); err != nil {
		return nil, apperrors.Persistence(fmt.Errorf("next review id: %w", err))
	}

	review, err := repository.NewRecord(in, nextID, r.now())
	if err != nil {
		return nil, err
	}
	// TIMESTAMPTZ keeps microseconds.
	review.Timestamp = review.Timestamp.Truncate(time.Microsecond)

	if _, err := tx.Exec(ctx, query,
		review.ID,
		review.Timestamp,
		review.Rating,
		review.ReviewText,
		review.AIReply,
		review.AISummary,
		review.AIActions,
		string(review.Status),
	); err != nil {
		return nil, apperrors.Persistence(fmt.Errorf("insert review: %w", err))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperrors.Persistence(fmt.Errorf("commit transaction: %w", err))
	}
	return review, nil
}

// ReadAll returns every review ordered by id.
func (r *ReviewRepository) ReadAll(ctx context.Context) (_ []domain.Review, err error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews ORDER BY id`
	ctx, end := database.TraceQuery(ctx, database.SystemPostgres, "ReadAll", query)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.Persistence(fmt.Errorf("query reviews: %w", err))
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, apperrors.Persistence(fmt.Errorf("scan review: %w", err))
		}
		reviews = append(reviews, *review)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Persistence(fmt.Errorf("iterate reviews: %w", err))
	}
	return reviews, nil
}

// GetByID retrieves a review by its ID.
func (r *ReviewRepository) GetByID(ctx context.Context, id int) (_ *domain.Review, err error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`
	ctx, end := database.TraceQuery(ctx, database.SystemPostgres, "GetReview", query)
	defer func() { end(err) }()

	review, err := scanReview(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("review", strconv.Itoa(id))
		}
		return nil, apperrors.Persistence(fmt.Errorf("scan review: %w", err))
	}
	return review, nil
}

// UpdateStatus sets the status of a review and returns the updated row.
func (r *ReviewRepository) UpdateStatus(ctx context.Context, id int, status domain.ReviewStatus) (_ *domain.Review, err error) {
	query := `UPDATE reviews SET status = $1 WHERE id = $2 RETURNING ` + reviewColumns
	ctx, end := database.TraceQuery(ctx, database.SystemPostgres, "UpdateReviewStatus", query)
	defer func() { end(err) }()

	review, err := scanReview(r.pool.QueryRow(ctx, query, string(status), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("review", strconv.Itoa(id))
		}
		return nil, apperrors.Persistence(fmt.Errorf("update review status: %w", err))
	}
	return review, nil
}

// Ping runs a trivial query.
func (r *ReviewRepository) Ping(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "SELECT 1")
	return err
}

func scanReview(row pgx.Row) (*domain.Review, error) {
	var (
		review domain.Review
		status string
	)
	if err := row.Scan(
		&review.ID,
		&review.Timestamp,
		&review.Rating,
		&review.ReviewText,
		&review.AIReply,
		&review.AISummary,
		&review.AIActions,
		&status,
	); err != nil {
		return nil, err
	}
	review.Timestamp = review.Timestamp.UTC()
	review.Status = domain.ReviewStatus(status)
	return &review, nil
}
