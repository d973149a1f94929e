// Package jsonfile stores reviews as one indented JSON array in a file, the
// format the original feedback tool wrote. The whole file is rewritten on
// every change through a temp file and rename.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/akajrolkar2644/Assessment/pkg/database"
	apperrors "github.com/akajrolkar2644/Assessment/pkg/errors"
	"github.com/akajrolkar2644/Assessment/services/feedback/internal/domain"
	"github.com/akajrolkar2644/Assessment/services/feedback/internal/repository"
)

// Store is a file-backed repository.ReviewRepository. Writers within one
// process are serialised; separate processes writing the same file are not
// coordinated.
type Store struct {
	path       string
	now        func() time.Time
	createTemp func(dir, pattern string) (*os.File, error)
	mu         sync.Mutex
}

var _ repository.ReviewRepository = (*Store)(nil)

// New returns a store backed by the file at path. The file is created on the
// first append.
func New(path string, opts ...repository.Option) *Store {
	o := repository.BuildOptions(opts...)
	return &Store{path: path, now: o.Now, createTemp: os.CreateTemp}
}

// record is the on-disk shape. Timestamps are kept as text so files written
// with naive local timestamps still load.
type record struct {
	ID         int    `json:"id"`
	Timestamp  string `json:"timestamp"`
	Rating     int    `json:"user_rating"`
	ReviewText string `json:"user_review"`
	AIReply    string `json:"ai_response"`
	AISummary  string `json:"ai_summary"`
	AIActions  string `json:"ai_actions"`
	Status     string `json:"status"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func parseTimestamp(s string) (time.Time, error) {
	for i, layout := range timestampLayouts {
		var (
			t   time.Time
			err error
		)
		if i == 0 {
			t, err = time.Parse(layout, s)
		} else {
			t, err = time.ParseInLocation(layout, s, time.Local)
		}
		if err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

func (rec record) toDomain() (domain.Review, error) {
	ts, err := parseTimestamp(rec.Timestamp)
	if err != nil {
		return domain.Review{}, fmt.Errorf("review %d: %w", rec.ID, err)
	}
	status := domain.ReviewStatus(rec.Status)
	if rec.Status == "" {
		status = domain.ReviewStatusPending
	}
	return domain.Review{
		ID:         rec.ID,
		Timestamp:  ts,
		Rating:     rec.Rating,
		ReviewText: rec.ReviewText,
		AIReply:    rec.AIReply,
		AISummary:  rec.AISummary,
		AIActions:  rec.AIActions,
		Status:     status,
	}, nil
}

func fromDomain(r domain.Review) record {
	return record{
		ID:         r.ID,
		Timestamp:  r.Timestamp.UTC().Format(time.RFC3339Nano),
		Rating:     r.Rating,
		ReviewText: r.ReviewText,
		AIReply:    r.AIReply,
		AISummary:  r.AISummary,
		AIActions:  r.AIActions,
		Status:     string(r.Status),
	}
}

// ReadAll returns every review in file order, which is id order for files
// this store wrote.
func (s *Store) ReadAll(ctx context.Context) (reviews []domain.Review, err error) {
	_, end := database.TraceQuery(ctx, database.SystemFile, "ReadAll", s.path)
	defer func() { end(err) }()

	return s.load()
}

func (s *Store) load() ([]domain.Review, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []domain.Review{}, nil
		}
		return nil, apperrors.Persistence(fmt.Errorf("read %s: %w", s.path, err))
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []domain.Review{}, nil
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, apperrors.CorruptData(fmt.Errorf("parse %s: %w", s.path, err))
	}

	reviews := make([]domain.Review, 0, len(records))
	for _, rec := range records {
		r, err := rec.toDomain()
		if err != nil {
			return nil, apperrors.CorruptData(fmt.Errorf("parse %s: %w", s.path, err))
		}
		reviews = append(reviews, r)
	}
	return reviews, nil
}

// loadForWrite is load with unreadable content reported as a persistence
// failure, since the caller cannot complete its write.
func (s *Store) loadForWrite() ([]domain.Review, error) {
	reviews, err := s.load()
	if err != nil {
		if errors.Is(err, apperrors.ErrCorruptData) {
			return nil, apperrors.Persistence(err)
		}
		return nil, err
	}
	return reviews, nil
}

// Append adds a review with id max(id)+1 and rewrites the file.
func (s *Store) Append(ctx context.Context, in *domain.NewReview) (_ *domain.Review, err error) {
	_, end := database.TraceQuery(ctx, database.SystemFile, "AppendReview", s.path)
	defer func() { end(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	reviews, err := s.loadForWrite()
	if err != nil {
		return nil, err
	}

	review, err := repository.NewRecord(in, domain.NextID(reviews), s.now())
	if err != nil {
		return nil, err
	}

	if err := s.write(append(reviews, *review)); err != nil {
		return nil, err
	}
	return review, nil
}

// GetByID returns the review with id.
func (s *Store) GetByID(ctx context.Context, id int) (_ *domain.Review, err error) {
	_, end := database.TraceQuery(ctx, database.SystemFile, "GetReview", s.path)
	defer func() { end(err) }()

	reviews, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range reviews {
		if reviews[i].ID == id {
			return &reviews[i], nil
		}
	}
	return nil, apperrors.NotFound("review", strconv.Itoa(id))
}

// UpdateStatus sets the status of review id and rewrites the file.
func (s *Store) UpdateStatus(ctx context.Context, id int, status domain.ReviewStatus) (_ *domain.Review, err error) {
	_, end := database.TraceQuery(ctx, database.SystemFile, "UpdateReviewStatus", s.path)
	defer func() { end(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	reviews, err := s.loadForWrite()
	if err != nil {
		return nil, err
	}
	for i := range reviews {
		if reviews[i].ID != id {
			continue
		}
		reviews[i].Status = status
		if err := s.write(reviews); err != nil {
			return nil, err
		}
		updated := reviews[i]
		return &updated, nil
	}
	return nil, apperrors.NotFound("review", strconv.Itoa(id))
}

// Ping checks that the directory holding the file is accessible.
func (s *Store) Ping(context.Context) error {
	info, err := os.Stat(filepath.Dir(s.path))
	if err != nil {
		return fmt.Errorf("stat reviews dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", filepath.Dir(s.path))
	}
	return nil
}

// write replaces the file atomically with reviews.
func (s *Store) write(reviews []domain.Review) error {
	records := make([]record, len(reviews))
	for i, r := range reviews {
		records[i] = fromDomain(r)
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return apperrors.Persistence(fmt.Errorf("encode reviews: %w", err))
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperrors.Persistence(fmt.Errorf("create %s: %w", dir, err))
	}

	tmp, err := s.createTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return apperrors.Persistence(fmt.Errorf("create temp file: %w", err))
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return apperrors.Persistence(fmt.Errorf("write temp file: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return apperrors.Persistence(fmt.Errorf("sync temp file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		return apperrors.Persistence(fmt.Errorf("close temp file: %w", err))
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return apperrors.Persistence(fmt.Errorf("chmod temp file: %w", err))
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return apperrors.Persistence(fmt.Errorf("replace %s: %w", s.path, err))
	}
	return nil
}
