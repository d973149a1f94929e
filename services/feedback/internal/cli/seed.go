package cli

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"
)

// seedTexts are sample reviews grouped by rating.
var seedTexts = map[int][]string{
	1: {"Order arrived broken and support never answered.", "Worst experience so far, I want a refund."},
	2: {"Delivery took two weeks longer than promised.", "Product works but the packaging was damaged."},
	3: {"It is fine, nothing special.", "Decent quality for the price, checkout was confusing."},
	4: {"Good product, shipping could be faster.", "Friendly staff and quick replies to my questions."},
	5: {"Excellent service, will order again!", "Everything arrived on time and works perfectly."},
}

// ratingWeights skews generated ratings towards the positive end.
var ratingWeights = []int{1, 1, 2, 2, 3, 4, 4, 4, 5, 5, 5, 5}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var count int
	var seed int64

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Submit sample reviews for local development",
		Long:  "Submits generated reviews through the normal submission path using the mock language model.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1, got %d", count)
			}

			svc, cleanup, err := opts.openService(cmd)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer cleanup()

			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < count; i++ {
				rating := ratingWeights[rng.Intn(len(ratingWeights))]
				texts := seedTexts[rating]
				text := texts[rng.Intn(len(texts))]

				result, err := svc.Submit(cmd.Context(), rating, text)
				if err != nil {
					return fmt.Errorf("seed review %d: %w", i+1, err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "created review %d (rating %d)\n", result.ReviewID, rating)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d reviews\n", count)
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 20, "Number of reviews to create")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Random seed, the same seed yields the same reviews")
	return cmd
}
