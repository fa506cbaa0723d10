package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	cfhttp "github.com/Strob0t/CRMForge/internal/adapter/http"
	"github.com/Strob0t/CRMForge/internal/adapter/memory"
	cfnats "github.com/Strob0t/CRMForge/internal/adapter/nats"
	"github.com/Strob0t/CRMForge/internal/adapter/natskv"
	crmotel "github.com/Strob0t/CRMForge/internal/adapter/otel"
	"github.com/Strob0t/CRMForge/internal/adapter/postgres"
	"github.com/Strob0t/CRMForge/internal/adapter/prometheus"
	"github.com/Strob0t/CRMForge/internal/adapter/ristretto"
	"github.com/Strob0t/CRMForge/internal/adapter/tiered"
	"github.com/Strob0t/CRMForge/internal/config"
	"github.com/Strob0t/CRMForge/internal/domain/access"
	"github.com/Strob0t/CRMForge/internal/logger"
	"github.com/Strob0t/CRMForge/internal/middleware"
	"github.com/Strob0t/CRMForge/internal/port/cache"
	"github.com/Strob0t/CRMForge/internal/port/database"
	"github.com/Strob0t/CRMForge/internal/port/messagequeue"
	"github.com/Strob0t/CRMForge/internal/resilience"
	"github.com/Strob0t/CRMForge/internal/service"
)

const (
	shutdownTimeout = 15 * time.Second
	backfillTTL     = 10 * time.Minute
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	var err error
	switch {
	case len(os.Args) > 1 && os.Args[1] == "admin":
		err = runAdmin(os.Args[2:])
	case len(os.Args) > 1 && os.Args[1] == "migrate":
		err = runMigrate(os.Args[2:])
	case len(os.Args) > 1 && os.Args[1] == "events":
		err = runEvents(os.Args[2:])
	default:
		err = run(os.Args[1:])
	}
	if err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags, err := config.ParseFlags(args)
	if err != nil {
		return err
	}
	cfg, cfgPath, err := config.LoadWithCLI(flags)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, closeLog := logger.New(cfg.Logging)
	defer closeLog.Close()
	slog.SetDefault(log)

	slog.Info("config loaded",
		"file", cfgPath,
		"port", cfg.Server.Port,
		"storage", cfg.Storage.Driver,
		"log_level", cfg.Logging.Level,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Observability ---

	shutdownOTEL, err := crmotel.Init(ctx, cfg.OTEL)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownOTEL(sctx); err != nil {
			slog.Warn("otel shutdown", "error", err)
		}
	}()

	metrics, err := crmotel.NewMetrics()
	if err != nil {
		return fmt.Errorf("otel metrics: %w", err)
	}

	// --- Storage ---

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	// --- NATS (optional) ---

	var queue *cfnats.Queue
	if cfg.NATS.URL != "" {
		queue, err = cfnats.Connect(ctx, cfg.NATS)
		if err != nil {
			return fmt.Errorf("nats: %w", err)
		}
		defer func() {
			if err := queue.Drain(); err != nil {
				slog.Warn("nats drain", "error", err)
			}
		}()
	} else {
		slog.Info("nats disabled: change events and shared idempotency store are off")
	}

	var pub messagequeue.Publisher = messagequeue.Discard{}
	if queue != nil && cfg.NATS.Events {
		pub = queue
	}
	breaker := resilience.NewBreaker("nats-events", cfg.Breaker.MaxFailures, cfg.Breaker.Timeout)
	events := service.NewEvents(pub, breaker, metrics)

	// --- Services ---

	handlers := &cfhttp.Handlers{
		Auth:       service.NewAuthService(store, &cfg.Auth),
		Companies:  service.NewCompanyService(store, events),
		Contacts:   service.NewContactService(store, events),
		Deals:      service.NewDealService(store, events),
		Tasks:      service.NewTaskService(store, events),
		Activities: service.NewActivityService(store, events),
		Dashboard:  service.NewDashboardService(store, metrics),
		Store:      store,
	}
	if queue != nil {
		handlers.Queue = queue
	}

	// --- HTTP ---

	limiter := middleware.NewRateLimiter(cfg.Rate)
	go limiter.Run(ctx)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(cfhttp.Logger)
	r.Use(chimw.Recoverer)
	r.Use(crmotel.HTTPMiddleware(cfg.OTEL.ServiceName))
	var httpMetrics *prometheus.HTTPMetrics
	if cfg.Server.MetricsEnabled {
		httpMetrics = prometheus.NewHTTPMetrics(cfg.Logging.Service)
		r.Use(httpMetrics.Middleware)
	}
	r.Use(cfhttp.SecurityHeaders)
	r.Use(cfhttp.CORS(cfg.Server.CORSOrigin))
	r.Use(chimw.Timeout(cfg.Server.RequestTimeout))
	r.Use(limiter.Handler)
	r.Use(middleware.Auth(handlers.Auth))
	if cfg.Idempotency.Enabled {
		idem, closeIdem, err := idempotencyStore(ctx, cfg, queue)
		if err != nil {
			return err
		}
		defer closeIdem()
		r.Use(middleware.Idempotency(idem, cfg.Idempotency.TTL))
	}

	if httpMetrics != nil {
		r.Method(http.MethodGet, "/metrics", httpMetrics.Handler())
	}
	cfhttp.MountRoutes(r, handlers)

	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.Server.RequestTimeout + 10*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStore connects the configured storage driver. The memory driver keeps
// everything in process and is meant for local development and demos.
func openStore(ctx context.Context, cfg *config.Config) (database.Store, func(), error) {
	if cfg.Storage.Driver == config.DriverMemory {
		slog.Warn("using in-memory storage: data is lost on restart")
		return memory.New(access.OwnerPolicy{}), func() {}, nil
	}

	if cfg.Postgres.AutoMigrate {
		if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
			return nil, nil, fmt.Errorf("migrations: %w", err)
		}
		slog.Info("migrations applied")
	}

	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres: %w", err)
	}
	slog.Info("postgres connected", "max_conns", cfg.Postgres.MaxConns)
	return postgres.NewStore(pool, access.OwnerPolicy{}), pool.Close, nil
}

// idempotencyStore layers an in-process ristretto cache over the NATS KV
// bucket so replays work across instances. Without NATS only L1 is used.
func idempotencyStore(ctx context.Context, cfg *config.Config, queue *cfnats.Queue) (cache.Cache, func(), error) {
	l1, err := ristretto.New(cfg.Cache.L1MaxSizeMB)
	if err != nil {
		return nil, nil, fmt.Errorf("idempotency l1: %w", err)
	}
	levels := []cache.Cache{l1}
	if queue != nil {
		kv, err := queue.KeyValue(ctx, cfg.Cache.L2Bucket, cfg.Idempotency.TTL)
		if err != nil {
			l1.Close()
			return nil, nil, fmt.Errorf("idempotency l2: %w", err)
		}
		levels = append(levels, natskv.New(kv))
	}
	return tiered.New(backfillTTL, levels...), l1.Close, nil
}
