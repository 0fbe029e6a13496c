package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"hotpicks/internal/lines"
	linesHandler "hotpicks/internal/lines/handler"
	linesMetrics "hotpicks/internal/lines/metrics"
	"hotpicks/internal/notify"
	"hotpicks/internal/platform/config"
	"hotpicks/internal/platform/httpserver"
	"hotpicks/internal/platform/logger"
	"hotpicks/internal/platform/metrics"
	"hotpicks/internal/platform/middleware"
	"hotpicks/internal/platform/postgres"
	"hotpicks/internal/platform/redis"
	subHandler "hotpicks/internal/subscription/handler"
	subMetrics "hotpicks/internal/subscription/metrics"
	"hotpicks/internal/subscription/pass"
	"hotpicks/internal/subscription/payment"
	"hotpicks/internal/subscription/service"
	"hotpicks/internal/subscription/store"
	httptransport "hotpicks/internal/transport/http"
)

const shutdownGrace = 10 * time.Second

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal module packages.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "hotpicks: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.IsProduction(), cfg.Server.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := lines.ResolvePool(cfg.Lines.PoolFile)
	if err != nil {
		return fmt.Errorf("invalid number pool: %w", err)
	}
	generator := lines.NewGenerator(pool)

	linesM := linesMetrics.New()
	notifyM := notify.NewMetrics()

	mailer, err := newMailer(cfg)
	if err != nil {
		return err
	}

	subscribers, checks, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	lineOpts := []linesHandler.Option{
		linesHandler.WithMetrics(linesM),
		linesHandler.WithMailer(mailer, notifyM),
		linesHandler.WithMaxLines(cfg.Lines.MaxLines),
	}
	var handlers []httptransport.Registrar

	var subService *service.Service
	if cfg.PaywallEnabled() {
		subService, err = newSubscriptionService(cfg, subscribers, log)
		if err != nil {
			return err
		}
		handlers = append(handlers, subHandler.New(subService, log))
		lineOpts = append(lineOpts, linesHandler.WithPremiumGuard(middleware.RequireSubscriber(subService, log)))
	} else {
		log.Warn("STRIPE_SECRET_KEY not set; premium routes are disabled")
	}
	handlers = append(handlers, linesHandler.New(generator, log, lineOpts...))

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:       log,
		Metrics:      metrics.New(),
		HealthChecks: checks,
		Handlers:     handlers,
	})
	srv := httpserver.New(cfg.Server.Addr, router)

	runDigest := subService != nil && cfg.EmailEnabled() && cfg.DigestActive
	if runDigest {
		if err := notify.ValidateSchedule(cfg.DigestCron); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting hotpicks", "addr", cfg.Server.Addr, "store", cfg.StoreKind())
		return httpserver.Run(gctx, srv, shutdownGrace)
	})

	if runDigest {
		digest := notify.NewDigest(subService, generator, mailer,
			notify.WithBatchSize(cfg.DigestSize),
			notify.WithDigestLogger(log),
			notify.WithDigestMetrics(notifyM, linesM),
		)
		g.Go(func() error {
			return digest.Run(gctx, cfg.DigestCron)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("hotpicks stopped")
	return nil
}

func newMailer(cfg config.Config) (notify.Mailer, error) {
	if !cfg.EmailEnabled() {
		return notify.Disabled{}, nil
	}
	return notify.NewSMTP(notify.SMTPConfig{
		Host:     cfg.SMTP.Server,
		Port:     cfg.SMTP.Port,
		Sender:   cfg.SMTP.Sender,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		Timeout:  cfg.SMTP.Timeout,
	})
}

func newSubscriptionService(cfg config.Config, subscribers store.Store, log *slog.Logger) (*service.Service, error) {
	provider, err := payment.NewStripe(payment.StripeConfig{
		SecretKey:     cfg.Stripe.SecretKey,
		PriceID:       cfg.Stripe.PriceID,
		WebhookSecret: cfg.Stripe.WebhookSecret,
		SuccessURL:    cfg.Server.PublicURL + "/subscriptions/complete?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     cfg.Server.PublicURL + "/",
	})
	if err != nil {
		return nil, err
	}
	issuer, err := pass.NewIssuer(cfg.Pass.Secret, cfg.Pass.Issuer, cfg.Pass.TTL)
	if err != nil {
		return nil, err
	}
	return service.New(subscribers, provider, issuer,
		service.WithLogger(log),
		service.WithMetrics(subMetrics.New()),
	)
}

// openStore picks Postgres, then Redis, then memory.
func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (store.Store, map[string]httptransport.HealthCheck, func(), error) {
	checks := map[string]httptransport.HealthCheck{}
	switch cfg.StoreKind() {
	case config.StorePostgres:
		if cfg.Postgres.AutoMigrate {
			version, err := store.Migrate(cfg.Postgres.URL)
			if err != nil {
				return nil, nil, nil, err
			}
			log.Info("database migrated", "version", version)
		}
		db, err := postgres.New(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, nil, err
		}
		checks["postgres"] = db.Health
		return store.NewPostgres(db.Pool), checks, db.Close, nil
	case config.StoreRedis:
		client, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, nil, err
		}
		checks["redis"] = client.Health
		return store.NewRedis(client.Client), checks, func() { _ = client.Close() }, nil
	default:
		log.Warn("no DATABASE_URL or REDIS_URL; subscribers are kept in memory")
		return store.NewInMemoryStore(), checks, func() {}, nil
	}
}
