package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geocoder89/foodshelter/internal/accounts"
	"github.com/geocoder89/foodshelter/internal/auth"
	"github.com/geocoder89/foodshelter/internal/config"
	"github.com/geocoder89/foodshelter/internal/dashboard"
	"github.com/geocoder89/foodshelter/internal/db"
	"github.com/geocoder89/foodshelter/internal/geocode"
	httpx "github.com/geocoder89/foodshelter/internal/http"
	"github.com/geocoder89/foodshelter/internal/http/handlers"
	"github.com/geocoder89/foodshelter/internal/notifications"
	"github.com/geocoder89/foodshelter/internal/observability"
	"github.com/geocoder89/foodshelter/internal/repo"
	"github.com/geocoder89/foodshelter/internal/repo/postgres"
	"github.com/geocoder89/foodshelter/internal/repo/sqlite"
	"github.com/geocoder89/foodshelter/internal/session"
	"github.com/geocoder89/foodshelter/internal/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "err", err)
		os.Exit(1)
	}
	if cfg.UsesDevSecret() {
		log.Warn("SECRET_KEY not set, using the development secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.OTLPEndpoint != "" {
		shutdownTracer, err := observability.InitTracer(ctx, cfg.Env, cfg.OTLPEndpoint)
		if err != nil {
			log.Error("tracer init failed", "err", err)
		} else {
			defer func() {
				sctx, cancel := config.WithTimeout(5 * time.Second)
				defer cancel()
				_ = shutdownTracer(sctx)
			}()
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom := observability.NewProm(reg)

	repos, err := openStore(ctx, cfg, prom, log)
	if err != nil {
		log.Error("store init failed", "err", err)
		os.Exit(1)
	}
	defer repos.Close()

	checks := map[string]handlers.Check{"database": repos.Ping}

	var sessions session.Store
	if cfg.RedisAddr != "" {
		rs := session.NewRedisStore(session.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, cfg.SessionTTL)
		defer rs.Close()

		pctx, cancel := config.WithTimeout(3 * time.Second)
		err := rs.Ping(pctx)
		cancel()
		if err != nil {
			log.Error("redis unreachable", "addr", cfg.RedisAddr, "err", err)
			os.Exit(1)
		}

		checks["sessions"] = rs.Ping
		sessions = rs
		log.Info("sessions stored in redis", "addr", cfg.RedisAddr)
	} else {
		ms := session.NewMemoryStore(cfg.SessionTTL)
		go worker.Sweeper{Name: "sessions", Interval: time.Minute, Fn: ms.Sweep, Log: log}.Run(ctx)
		sessions = ms
	}

	var geocoder geocode.Geocoder
	if cfg.GeocoderDisabled {
		geocoder = geocode.NewDisabled(prom)
	} else {
		geocoder = geocode.NewClient(geocode.Config{
			BaseURL:           cfg.GeocoderURL,
			UserAgent:         cfg.GeocoderUserAgent,
			Timeout:           cfg.GeocoderTimeout,
			RequestsPerSecond: 1,
		}, prom)
	}

	var mailer notifications.Notifier = notifications.NewLogNotifier(log)
	if cfg.SMTPHost != "" {
		mailer = notifications.NewSMTPNotifier(notifications.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
	}
	notifier := notifications.NewProtectedNotifier(mailer, notifications.ProtectedNotifierConfig{
		Timeout:          5 * time.Second,
		FailureThreshold: 3,
		Cooldown:         30 * time.Second,
		HalfOpenMaxCalls: 1,
	}, prom)

	tokens := auth.NewManager(cfg.SecretKey, cfg.ResetTokenTTL)
	health := handlers.NewHealthHandler(checks)

	// set up routers with the log
	router, err := httpx.NewRouter(httpx.Deps{
		Config:    cfg,
		Log:       log,
		Prom:      prom,
		Gatherer:  reg,
		Repos:     repos,
		Sessions:  sessions,
		Accounts:  accounts.NewService(repos.Users, tokens, notifier, log),
		Dashboard: dashboard.NewService(repos).WithClock(cfg.Clock()),
		Geocoder:  geocoder,
		Health:    health,
	})
	if err != nil {
		log.Error("router init failed", "err", err)
		os.Exit(1)
	}

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "postgres", cfg.UsesPostgres())
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			stop()
		}
	}()

	// Graceful shutdown

	<-ctx.Done()
	log.Info("server shutting down")
	health.Drain()

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		sctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(sctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}

// openStore picks Postgres for postgres:// URLs and SQLite otherwise.
func openStore(ctx context.Context, cfg config.Config, prom *observability.Prom, log *slog.Logger) (repo.Set, error) {
	if cfg.UsesPostgres() {
		pool, err := db.NewPool(ctx, cfg.DBURL)
		if err != nil {
			return repo.Set{}, fmt.Errorf("connect postgres: %w", err)
		}
		if err := db.MigratePostgres(ctx, pool); err != nil {
			pool.Close()
			return repo.Set{}, fmt.Errorf("migrate postgres: %w", err)
		}
		log.Info("using postgres store")
		return postgres.NewSet(pool, postgres.Options{Prom: prom, Now: cfg.Clock()}), nil
	}

	conn, err := db.OpenSQLite(ctx, cfg.SQLitePath)
	if err != nil {
		return repo.Set{}, fmt.Errorf("open sqlite: %w", err)
	}
	log.Info("using sqlite store", "path", cfg.SQLitePath)
	return sqlite.NewSet(conn, sqlite.Options{Prom: prom, Now: cfg.Clock()}), nil
}
