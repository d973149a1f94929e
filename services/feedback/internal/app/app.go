package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/akajrolkar2644/Assessment/pkg/database"
	"github.com/akajrolkar2644/Assessment/pkg/health"
	pkgkafka "github.com/akajrolkar2644/Assessment/pkg/kafka"
	"github.com/akajrolkar2644/Assessment/pkg/middleware"
	"github.com/akajrolkar2644/Assessment/pkg/tracing"
	"github.com/akajrolkar2644/Assessment/services/feedback/internal/auth"
	"github.com/akajrolkar2644/Assessment/services/feedback/internal/config"
	"github.com/akajrolkar2644/Assessment/services/feedback/internal/event"
	handler "github.com/akajrolkar2644/Assessment/services/feedback/internal/handler/http"
	"github.com/akajrolkar2644/Assessment/services/feedback/internal/service"
)

const slowQueryThreshold = 200 * time.Millisecond

// App wires together all dependencies and runs the feedback service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	closeStore     func() error
	producer       *pkgkafka.Producer
	shutdownTracer func(context.Context) error
	stopBackground context.CancelFunc
	httpServer     *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	shutdownTracer, err := tracing.InitTracer(ctx, cfg.Tracing(serviceName+"-service"))
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	database.SetSlowQueryLogging(slowQueryThreshold, logger)

	repo, closeStore, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		_ = shutdownTracer(context.Background())
		return nil, err
	}

	// Kafka is optional; without brokers events are not published.
	var kafkaProducer *pkgkafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		kafkaProducer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Build the dependency graph.
	llmClient := NewLLMClient(cfg, logger)
	eventProducer := event.NewProducer(kafkaProducer, logger)
	feedbackService := service.NewFeedbackService(repo, llmClient, eventProducer, logger)

	hash, err := auth.HashPassword(cfg.AdminPassword, bcrypt.DefaultCost)
	if err != nil {
		_ = closeStore()
		_ = shutdownTracer(context.Background())
		return nil, err
	}
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiry)
	adminAuth := auth.NewAdminAuthenticator(hash, jwtManager, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("store", feedbackService.Ping)
	if kafkaProducer != nil {
		healthHandler.RegisterNonCritical("kafka", kafkaProducer.Ping)
	}
	if hc, ok := llmClient.(interface{ Healthy(context.Context) error }); ok {
		healthHandler.RegisterNonCritical("llm", hc.Healthy)
	}

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.CORSAllowedOrigins
	cors.Environment = cfg.Environment

	// One request may wait on three sequential completions.
	requestTimeout := 3*cfg.LLMTimeout + 15*time.Second

	bgCtx, stopBackground := context.WithCancel(context.Background())
	router := handler.NewRouter(bgCtx, handler.RouterConfig{
		Feedback:             feedbackService,
		Admin:                adminAuth,
		TokenValidator:       jwtManager.Validator(),
		Health:               healthHandler,
		CORS:                 cors,
		RequestTimeout:       requestTimeout,
		SubmitRateLimitRPS:   cfg.SubmitRateLimitRPS,
		SubmitRateLimitBurst: cfg.SubmitRateLimitBurst,
		DebugCIDRs:           cfg.DebugAllowedCIDRs,
	}, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: requestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		closeStore:     closeStore,
		producer:       kafkaProducer,
		shutdownTracer: shutdownTracer,
		stopBackground: stopBackground,
		httpServer:     httpServer,
	}, nil
}

// Handler returns the HTTP handler served by Run.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

// Run starts the HTTP server, then blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	// In-flight submissions may still be waiting on the model.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.httpServer.WriteTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}
	a.stopBackground()

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if err := a.closeStore(); err != nil {
		a.logger.Error("review store close error", slog.String("error", err.Error()))
	}

	if err := a.shutdownTracer(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
