package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMarkReviewedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mark-reviewed <id>",
		Short: "Mark a review as reviewed",
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

			review, err := svc.MarkReviewed(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("mark reviewed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "review %d is %s\n", review.ID, review.Status)
			return nil
		},
	}
}
