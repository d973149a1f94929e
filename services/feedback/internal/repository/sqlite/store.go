// Package sqlite stores reviews in an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/akajrolkar2644/Assessment/pkg/database"
	apperrors "github.com/akajrolkar2644/Assessment/pkg/errors"
	"github.com/akajrolkar2644/Assessment/services/feedback/internal/domain"
	"github.com/akajrolkar2644/Assessment/services/feedback/internal/repository"
)

const schema = `
CREATE TABLE IF NOT EXISTS reviews (
	id          INTEGER PRIMARY KEY,
	timestamp   TEXT NOT NULL,
	user_rating INTEGER NOT NULL CHECK (user_rating BETWEEN 1 AND 5),
	user_review TEXT NOT NULL,
	ai_response TEXT NOT NULL DEFAULT '',
	ai_summary  TEXT NOT NULL DEFAULT '',
	ai_actions  TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL DEFAULT 'pending'
);
CREATE INDEX IF NOT EXISTS idx_reviews_status ON reviews(status);
`

const selectColumns = `SELECT id, timestamp, user_rating, user_review, ai_response, ai_summary, ai_actions, status FROM reviews`

// Store is a SQLite-backed repository.ReviewRepository.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ repository.ReviewRepository = (*Store)(nil)

// Open opens or creates the database at path and applies the schema.
func Open(ctx context.Context, path string, opts ...repository.Option) (*Store, error) {
	db, err := database.OpenSQLite(ctx, path)
	if err != nil {
		return nil, err
	}
	s, err := New(ctx, db, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database and applies the schema.
func New(ctx context.Context, db *sql.DB, opts ...repository.Option) (*Store, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	o := repository.BuildOptions(opts...)
	return &Store{db: db, now: o.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append inserts a review with id max(id)+1 inside one transaction.
func (s *Store) Append(ctx context.Context, in *domain.NewReview) (_ *domain.Review, err error) {
	const insertSQL = `INSERT INTO reviews (id, timestamp, user_rating, user_review, ai_response, ai_summary, ai_actions, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	ctx, end := database.TraceQuery(ctx, database.SystemSQLite, "AppendReview", insertSQL)
	defer func() { end(err) }()

	if err := in.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperrors.Persistence(fmt.Errorf("begin tx: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	var nextID int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM reviews`).Scan(&nextID); err != nil {
		return nil, apperrors.Persistence(fmt.Errorf("next review id: %w", err))
	}

	review, err := repository.NewRecord(in, nextID, s.now())
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, insertSQL,
		review.ID,
		review.Timestamp.Format(time.RFC3339Nano),
		review.Rating,
		review.ReviewText,
		review.AIReply,
		review.AISummary,
		review.AIActions,
		string(review.Status),
	); err != nil {
		return nil, apperrors.Persistence(fmt.Errorf("insert review: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.Persistence(fmt.Errorf("commit review: %w", err))
	}
	return review, nil
}

// ReadAll returns every review ordered by id.
func (s *Store) ReadAll(ctx context.Context) (_ []domain.Review, err error) {
	query := selectColumns + ` ORDER BY id`
	ctx, end := database.TraceQuery(ctx, database.SystemSQLite, "ReadAll", query)
	defer func() { end(err) }()

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Persistence(fmt.Errorf("query reviews: %w", err))
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Persistence(fmt.Errorf("iterate reviews: %w", err))
	}
	return reviews, nil
}

// GetByID returns the review with id.
func (s *Store) GetByID(ctx context.Context, id int) (_ *domain.Review, err error) {
	query := selectColumns + ` WHERE id = ?`
	ctx, end := database.TraceQuery(ctx, database.SystemSQLite, "GetReview", query)
	defer func() { end(err) }()

	r, err := scanReview(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("review", strconv.Itoa(id))
	}
	return r, err
}

// UpdateStatus sets the status of review id.
func (s *Store) UpdateStatus(ctx context.Context, id int, status domain.ReviewStatus) (_ *domain.Review, err error) {
	const updateSQL = `UPDATE reviews SET status = ? WHERE id = ?`
	ctx, end := database.TraceQuery(ctx, database.SystemSQLite, "UpdateReviewStatus", updateSQL)
	defer func() { end(err) }()

	res, err := s.db.ExecContext(ctx, updateSQL, string(status), id)
	if err != nil {
		return nil, apperrors.Persistence(fmt.Errorf("update review status: %w", err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, apperrors.Persistence(fmt.Errorf("update review status: %w", err))
	}
	if n == 0 {
		return nil, apperrors.NotFound("review", strconv.Itoa(id))
	}
	return s.GetByID(ctx, id)
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReview(row rowScanner) (*domain.Review, error) {
	var (
		r      domain.Review
		ts     string
		status string
	)
	if err := row.Scan(&r.ID, &ts, &r.Rating, &r.ReviewText, &r.AIReply, &r.AISummary, &r.AIActions, &status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, apperrors.Persistence(fmt.Errorf("scan review: %w", err))
	}
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return nil, apperrors.CorruptData(fmt.Errorf("review %d timestamp: %w", r.ID, err))
	}
	r.Timestamp = t.UTC()
	r.Status = domain.ReviewStatus(status)
	return &r, nil
}
