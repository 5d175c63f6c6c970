package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/tapinhq/tapin/internal/config"
	"github.com/tapinhq/tapin/internal/domain/accounts"
	"github.com/tapinhq/tapin/internal/domain/attendance"
	"github.com/tapinhq/tapin/internal/domain/dashboard"
	"github.com/tapinhq/tapin/internal/domain/onboarding"
	"github.com/tapinhq/tapin/internal/domain/roles"
	"github.com/tapinhq/tapin/internal/domain/shops"
	"github.com/tapinhq/tapin/internal/infra/db"
	httpx "github.com/tapinhq/tapin/internal/infra/http"
	"github.com/tapinhq/tapin/internal/infra/logger"
	"github.com/tapinhq/tapin/internal/infra/notify"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type alerter interface {
	roles.Alerter
	shops.Alerter
}

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Error("bad timezone", "tz", cfg.App.Timezone, "err", err)
		return
	}

	if err := runMigrations(cfg.Postgres.DSN); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return
	}
	defer pool.Close()
	log.Info("db connected")

	var alerts alerter = notify.Noop{}
	if cfg.Telegram.Token != "" && cfg.Telegram.OpsChatID != 0 {
		tg, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.OpsChatID, log)
		if err != nil {
			log.Warn("telegram alerts disabled", "err", err)
		} else {
			alerts = tg
		}
	}

	dir := accounts.NewRepo(pool)
	shopStore := shops.NewRepo(pool)
	scans := attendance.NewRepo(pool)

	resolver := roles.NewResolver(dir, log, alerts)
	coordinator := onboarding.NewCoordinator(dir, resolver, log)
	shopSvc := shops.NewService(shopStore, log, alerts)
	dash := dashboard.NewService(shopStore, scans, loc)

	handlers := httpx.NewHandlers(resolver, coordinator, shopSvc, shopStore, dash, loc, log)
	srv := httpx.New(cfg.HTTP.Addr, cfg.App.Env, cfg.Metrics.Enabled, handlers)
	go func() {
		if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
