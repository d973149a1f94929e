package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/akajrolkar2644/Assessment/services/feedback/internal/domain"
)

const previewLength = 60

func newListCmd(opts *rootOptions) *cobra.Command {
	var status, format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reviews in id order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if status != "" && !domain.IsValidStatus(status) {
				return fmt.Errorf("invalid status %q (want pending or reviewed)", status)
			}
			if format != "json" && format != "text" {
				return fmt.Errorf("invalid format %q (want json or text)", format)
			}

			svc, cleanup, err := opts.openService(cmd)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer cleanup()

			reviews, err := svc.AllReviews(cmd.Context(), status)
			if err != nil {
				return fmt.Errorf("list: %w", err)
			}

			if format == "text" {
				return writeTable(cmd.OutOrStdout(), reviews)
			}
			b, _ := json.MarshalIndent(reviews, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status: pending or reviewed")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or text")
	return cmd
}

func writeTable(w io.Writer, reviews []domain.Review) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSUBMITTED\tRATING\tSTATUS\tREVIEW")
	for _, r := range reviews {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n",
			r.ID,
			r.Timestamp.Local().Format(time.DateTime),
			r.Rating,
			r.Status,
			preview(r.ReviewText),
		)
	}
	return tw.Flush()
}

// preview flattens text onto one line and cuts it to previewLength runes.
func preview(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= previewLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:previewLength-3]) + "..."
}
