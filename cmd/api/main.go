package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"buyer_leads_backend/internal/auth"
	"buyer_leads_backend/internal/buyers"
	"buyer_leads_backend/internal/email"
	"buyer_leads_backend/internal/events"
	apphttp "buyer_leads_backend/internal/http"
	"buyer_leads_backend/internal/http/router"
	"buyer_leads_backend/internal/notification"
	"buyer_leads_backend/migrations"
	"buyer_leads_backend/platform/config"
	"buyer_leads_backend/platform/db"
	"buyer_leads_backend/platform/logger"
	"buyer_leads_backend/platform/ratelimit"
	"buyer_leads_backend/platform/validator"
)

const limiterSweepInterval = 5 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS, ".")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	g, gctx := errgroup.WithContext(ctx)

	limiters := initLimiters(gctx, g, cfg, log)
	sender := initEmailSender(cfg, log)

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	notification.NewModule(pool, sender, eventBus, log)

	authModule := auth.NewModule(pool, cfg, eventBus, val)
	buyersModule := buyers.NewModule(pool, val, eventBus, log, limiters)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			buyersModule,
		},
	}

	engine := router.New(app)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: engine,
	}

	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
}

// initLimiters builds the import and create rate limiters. With REDIS_URL set
// the counters live in Redis so multiple instances share one window; otherwise
// in-memory limiters are used and their sweepers run until shutdown.
func initLimiters(ctx context.Context, g *errgroup.Group, cfg *config.Config, log *logger.Logger) buyers.Limiters {
	if cfg.RedisURL != "" {
		client, err := ratelimit.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Error("failed to initialize redis client", "error", err)
			panic("failed to initialize redis client: " + err.Error())
		}
		log.Info("rate limiting backed by redis")
		return buyers.Limiters{
			Import: ratelimit.NewRedisFixedWindow(client, "ratelimit:import", cfg.ImportRateLimit, cfg.ImportRateWindow),
			Create: ratelimit.NewRedisFixedWindow(client, "ratelimit:create", cfg.CreateRateLimit, cfg.CreateRateWindow),
		}
	}

	importLimiter := ratelimit.NewFixedWindow(cfg.ImportRateLimit, cfg.ImportRateWindow)
	createLimiter := ratelimit.NewFixedWindow(cfg.CreateRateLimit, cfg.CreateRateWindow)

	g.Go(func() error {
		importLimiter.Sweep(ctx, limiterSweepInterval)
		return nil
	})
	g.Go(func() error {
		createLimiter.Sweep(ctx, limiterSweepInterval)
		return nil
	})

	log.Info("rate limiting in-memory (single instance)")
	return buyers.Limiters{Import: importLimiter, Create: createLimiter}
}

func initEmailSender(cfg *config.Config, log *logger.Logger) email.Sender {
	if !cfg.EmailEnabled {
		return email.NewNoopSender(log)
	}
	return email.NewSMTPSender(
		cfg.SMTPHost, cfg.SMTPPort,
		cfg.SMTPUsername, cfg.SMTPPassword,
		cfg.EmailFromAddress, cfg.EmailFromName,
	)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
