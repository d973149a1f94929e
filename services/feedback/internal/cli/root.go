// Package cli implements the feedbackctl admin commands.
package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/akajrolkar2644/Assessment/pkg/kafka"
	"github.com/akajrolkar2644/Assessment/pkg/logger"
	"github.com/akajrolkar2644/Assessment/services/feedback/internal/app"
	"github.com/akajrolkar2644/Assessment/services/feedback/internal/config"
	"github.com/akajrolkar2644/Assessment/services/feedback/internal/event"
	"github.com/akajrolkar2644/Assessment/services/feedback/internal/llm/mock"
	"github.com/akajrolkar2644/Assessment/services/feedback/internal/service"
)

type rootOptions struct {
	backend string
	path    string
}

// NewRootCmd builds the feedbackctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "feedbackctl",
		Short:         "Inspect and triage stored customer feedback",
		Long:          "Admin CLI for the feedback service. Reads the same configuration as the server and opens the review store directly.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.backend, "store", "s", "", "Store backend: json, sqlite, postgres or redis (default: $STORE_BACKEND)")
	cmd.PersistentFlags().StringVarP(&opts.path, "path", "p", "", "Reviews file (json) or database file (sqlite)")

	cmd.AddCommand(
		newStatsCmd(opts),
		newListCmd(opts),
		newShowCmd(opts),
		newExportCmd(opts),
		newMarkReviewedCmd(opts),
		newSeedCmd(opts),
	)
	return cmd
}

// openService builds a FeedbackService over the configured store. The CLI
// never calls a real model: seeded reviews get their AI fields from the mock.
func (o *rootOptions) openService(cmd *cobra.Command) (*service.FeedbackService, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if o.backend != "" {
		cfg.StoreBackend = o.backend
	}
	if o.path != "" {
		switch cfg.StoreBackend {
		case config.BackendJSON:
			cfg.ReviewsFile = o.path
		case config.BackendSQLite:
			cfg.SQLitePath = o.path
		default:
			return nil, nil, fmt.Errorf("--path is not supported by the %s backend", cfg.StoreBackend)
		}
	}

	log := logger.NewWithWriter("feedbackctl", cfg.LogLevel, cmd.ErrOrStderr())

	repo, closeStore, err := app.OpenStore(cmd.Context(), cfg, log)
	if err != nil {
		return nil, nil, err
	}

	var producer *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = kafka.NewProducer(kafka.DefaultProducerConfig(cfg.KafkaBrokers), log)
	}

	svc := service.NewFeedbackService(repo, mock.NewMockClient(log), event.NewProducer(producer, log), log)
	cleanup := func() {
		if producer != nil {
			_ = producer.Close()
		}
		_ = closeStore()
	}
	return svc, cleanup, nil
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid review id %q", arg)
	}
	return id, nil
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
