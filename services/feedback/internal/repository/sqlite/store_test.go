package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/akajrolkar2644/Assessment/pkg/errors"
	"github.com/akajrolkar2644/Assessment/services/feedback/internal/domain"
	"github.com/akajrolkar2644/Assessment/services/feedback/internal/repository"
)

var fixedNow = time.Date(2026, 5, 1, 9, 30, 15, 123456789, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "reviews.db"),
		repository.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleReview(rating int) *domain.NewReview {
	return &domain.NewReview{
		Rating:     rating,
		ReviewText: "The staff were friendly",
		AIReply:    "Thanks!",
		AISummary:  "Friendly staff.",
		AIActions:  "- Recognise the team",
	}
}

func TestReadAll_EmptyDatabase(t *testing.T) {
	s := newTestStore(t)
	reviews, err := s.ReadAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, reviews)
	assert.Empty(t, reviews)
}

func TestAppendAndRead(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.Append(ctx, sampleReview(5))
	require.NoError(t, err)
	second, err := s.Append(ctx, sampleReview(2))
	require.NoError(t, err)

	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)
	assert.Equal(t, fixedNow, first.Timestamp)

	reviews, err := s.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, *first, reviews[0])
	assert.Equal(t, *second, reviews[1])
}

func TestAppend_Invalid(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Append(ctx, &domain.NewReview{Rating: 9, ReviewText: "x"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	reviews, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, reviews)
}

func TestGetByIDAndUpdateStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.Append(ctx, sampleReview(3))
	require.NoError(t, err)

	_, err = s.GetByID(ctx, 99)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	updated, err := s.UpdateStatus(ctx, 1, domain.ReviewStatusReviewed)
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewStatusReviewed, updated.Status)

	got, err := s.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewStatusReviewed, got.Status)

	_, err = s.UpdateStatus(ctx, 99, domain.ReviewStatusReviewed)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCorruptTimestamp(t *testing.T) {
	s := newTestStore(t)
	_, err := s.db.Exec(`INSERT INTO reviews (id, timestamp, user_rating, user_review) VALUES (1, 'not-a-time', 3, 'x')`)
	require.NoError(t, err)

	_, err = s.ReadAll(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrCorruptData)
}

func TestAppend_Concurrent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Append(ctx, sampleReview(4))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	reviews, err := s.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, reviews, 10)
	for i, r := range reviews {
		assert.Equal(t, i+1, r.ID)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.db")
	ctx := context.Background()

	s, err := Open(ctx, path)
	require.NoError(t, err)
	_, err = s.Append(ctx, sampleReview(5))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	reviews, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)
	assert.NoError(t, s.Ping(ctx))
}
