package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/akajrolkar2644/Assessment/services/feedback/internal/domain"
)

func newShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one review with its AI output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			svc, cleanup, err := opts.openService(cmd)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer cleanup()

			review, err := svc.GetReview(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("show: %w", err)
			}
			printReview(cmd.OutOrStdout(), review)
			return nil
		},
	}
}

func printReview(w io.Writer, r *domain.Review) {
	fmt.Fprintf(w, "Review #%d (%s)\n", r.ID, r.Status)
	fmt.Fprintf(w, "Submitted: %s\n", r.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(w, "Rating:    %d/%d\n\n", r.Rating, domain.MaxRating)
	fmt.Fprintf(w, "Review:\n%s\n\n", r.ReviewText)
	fmt.Fprintf(w, "AI response:\n%s\n\n", r.AIReply)
	fmt.Fprintf(w, "AI summary:\n%s\n\n", r.AISummary)
	fmt.Fprintln(w, "Action items:")
	for _, item := range r.ActionItems() {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}
