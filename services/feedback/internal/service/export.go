package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	apperrors "github.com/akajrolkar2644/Assessment/pkg/errors"
	"github.com/akajrolkar2644/Assessment/services/feedback/internal/domain"
)

// ExportFormat selects the encoding used by Export.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportJSON ExportFormat = "json"
)

// CSVFilename is the download name the admin view offers.
const CSVFilename = "feedback_data.csv"

var csvHeader = []string{"id", "timestamp", "user_rating", "user_review", "ai_response", "ai_summary", "ai_actions", "status"}

// Export writes every review in id order to w.
func (s *FeedbackService) Export(ctx context.Context, w io.Writer, format ExportFormat) error {
	reviews, err := s.AllReviews(ctx, "")
	if err != nil {
		return err
	}

	switch format {
	case ExportCSV:
		return writeCSV(w, reviews)
	case ExportJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reviews)
	default:
		return apperrors.InvalidInput(fmt.Sprintf("unsupported export format %q", format))
	}
}

func writeCSV(w io.Writer, reviews []domain.Review) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range reviews {
		if err := cw.Write([]string{
			strconv.Itoa(r.ID),
			r.Timestamp.Format(time.RFC3339Nano),
			strconv.Itoa(r.Rating),
			r.ReviewText,
			r.AIReply,
			r.AISummary,
			r.AIActions,
			string(r.Status),
		}); err != nil {
			return fmt.Errorf("write csv row %d: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
