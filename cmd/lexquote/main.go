package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/lexquote/lexquote/cmd/lexquote/cli"
	"github.com/lexquote/lexquote/internal/adminapi"
	"github.com/lexquote/lexquote/internal/analytics"
	"github.com/lexquote/lexquote/internal/app"
	"github.com/lexquote/lexquote/internal/auth"
	"github.com/lexquote/lexquote/internal/dashboard"
	dashboardhttp "github.com/lexquote/lexquote/internal/dashboard/http"
	"github.com/lexquote/lexquote/internal/observability"
	"github.com/lexquote/lexquote/internal/panels"
	"github.com/lexquote/lexquote/internal/platform/cache"
	"github.com/lexquote/lexquote/internal/platform/db"
	"github.com/lexquote/lexquote/internal/pricing"
	"github.com/lexquote/lexquote/internal/quotes"
	"github.com/lexquote/lexquote/internal/shared"
	"github.com/lexquote/lexquote/internal/view"
	"github.com/lexquote/lexquote/jobs"
	"github.com/lexquote/lexquote/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	if len(os.Args) > 1 && os.Args[1] == "jobs" {
		if err := runJobs(ctx, cfg, os.Args[2:]); err != nil {
			logger.Error("jobs command", slog.Any("error", err))
			os.Exit(1)
		}
		return
	}

	if err := run(ctx, stop, cfg, logger); err != nil {
		logger.Error("server", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, stop context.CancelFunc, cfg *app.Config, logger *slog.Logger) error {
	dbpool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		return err
	}
	defer dbpool.Close()

	redisOpts := cfg.RedisOptions()
	redisClient, err := cache.New(ctx, redisOpts)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, cfg.SessionCookie, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	authService := auth.NewService(auth.NewRepository(dbpool))
	authHandler := auth.NewHandler(logger, authService, templates, sessionManager, csrfManager)

	adminClient := adminapi.NewClient(cfg.AdminAPIURL, cfg.AdminAPIToken).
		WithHTTPClient(&http.Client{Timeout: cfg.AdminAPITimeout})

	rates := pricing.NewCachedRateSource(pricing.NewHTTPRateSource(cfg.ExchangeAPIURL), redisClient, cfg.RatesTTL)
	converter := pricing.NewConverter(rates)

	analyticsService := analytics.NewService(adminClient, analytics.NewCache(redisClient, cfg.AnalyticsTTL))

	inspector := asynq.NewInspector(redisOpts.AsynqOpt())
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	registry, err := dashboard.NewRegistry(panels.Standard(panels.Deps{
		Quotes:    adminClient,
		Users:     adminClient,
		System:    adminClient,
		Analytics: analyticsService,
		Queues:    inspector,
		Money:     converter,
	})...)
	if err != nil {
		return fmt.Errorf("build panel registry: %w", err)
	}

	metrics := observability.NewMetrics()
	dashboardHandler := dashboardhttp.NewHandler(logger, templates, registry, csrfManager, metrics)

	pdfClient := report.NewClient(cfg.GotenbergURL)
	quotesHandler := quotes.NewHandler(quotes.HandlerConfig{
		Logger:    logger,
		Quotes:    adminClient,
		Templates: templates,
		PDF:       pdfClient,
		Money:     converter,
		Brand:     cfg.AppBrand,
		RateLimit: cfg.PDFRateLimit,
	})

	jobClient := jobs.NewClient(redisOpts.AsynqOpt())
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	if _, err := jobClient.EnqueueAnalyticsWarmup(ctx, false); err != nil && !errors.Is(err, asynq.ErrDuplicateTask) {
		logger.Warn("enqueue analytics warmup", slog.Any("error", err))
	}
	if _, err := jobClient.EnqueueRatesRefresh(ctx); err != nil && !errors.Is(err, asynq.ErrDuplicateTask) {
		logger.Warn("enqueue rates refresh", slog.Any("error", err))
	}

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessionManager,
		CSRFManager:      csrfManager,
		AuthHandler:      authHandler,
		DashboardHandler: dashboardHandler,
		QuotesHandler:    quotesHandler,
		JobHandler:       jobs.NewHandler(inspector, logger),
		Metrics:          metrics,
		Readiness: map[string]app.ReadinessCheck{
			"postgres":  dbpool.Ping,
			"redis":     func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
			"gotenberg": pdfClient.Ping,
		},
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// runJobs handles `lexquote jobs trigger <task> [-bases EUR,USD]` and
// `lexquote jobs stats`.
func runJobs(ctx context.Context, cfg *app.Config, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: lexquote jobs trigger <task> | stats")
	}
	jobsCLI := cli.NewJobsCLI(cfg.RedisOptions().AsynqOpt())
	defer func() { _ = jobsCLI.Close() }()

	switch args[0] {
	case "trigger":
		fs := flag.NewFlagSet("trigger", flag.ContinueOnError)
		bases := fs.String("bases", "", "comma separated base currencies for rates refresh")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if fs.NArg() != 1 {
			return errors.New("usage: lexquote jobs trigger <task>")
		}
		var list []string
		if *bases != "" {
			list = strings.Split(*bases, ",")
		}
		info, err := jobsCLI.Trigger(ctx, fs.Arg(0), list)
		if err != nil {
			return err
		}
		fmt.Printf("enqueued %s id=%s queue=%s\n", info.Type, info.ID, info.Queue)
		return nil
	case "stats":
		stats, err := jobsCLI.InspectQueue()
		if err != nil {
			return err
		}
		return cli.WriteStats(os.Stdout, stats)
	default:
		return fmt.Errorf("unknown jobs command %q", args[0])
	}
}
