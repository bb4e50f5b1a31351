package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/z2hlabs/edudesk/internal/backup"
	"github.com/z2hlabs/edudesk/internal/config"
	"github.com/z2hlabs/edudesk/internal/domain/core"
	"github.com/z2hlabs/edudesk/internal/domain/report"
	"github.com/z2hlabs/edudesk/internal/httpapi"
	"github.com/z2hlabs/edudesk/internal/infra/blob"
	httpx "github.com/z2hlabs/edudesk/internal/infra/http"
	"github.com/z2hlabs/edudesk/internal/infra/logger"
	"github.com/z2hlabs/edudesk/internal/infra/metrics"
	"github.com/z2hlabs/edudesk/internal/infra/notify"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus"
)

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("postgres", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func openBlobStore(ctx context.Context, cfg config.Config) (blob.Store, error) {
	if cfg.Storage.Driver == "postgres" {
		if err := runMigrations(cfg.Postgres.DSN); err != nil {
			return nil, err
		}
		return blob.NewPostgresStore(ctx, cfg.Postgres.DSN, cfg.Storage.Namespace)
	}
	return blob.NewFileStore(cfg.Storage.Path)
}

// initialState loads the persisted snapshot, or seeds a fresh install.
func initialState(ctx context.Context, store blob.Store, seedDemo bool, log *slog.Logger) (core.State, error) {
	doc, err := store.Load(ctx)
	if err == blob.ErrNotFound {
		if seedDemo {
			log.Info("no snapshot found, seeding demo data")
			return core.DemoState(time.Now()), nil
		}
		log.Info("no snapshot found, starting empty")
		return core.DefaultState(), nil
	}
	if err != nil {
		return core.State{}, err
	}
	return backup.ParseSnapshot(doc)
}

func main() {
	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	blobStore, err := openBlobStore(ctx, cfg)
	if err != nil {
		log.Error("storage init failed", "driver", cfg.Storage.Driver, "err", err)
		return
	}
	defer blobStore.Close()
	log.Info("storage ready", "driver", cfg.Storage.Driver)

	state, err := initialState(ctx, blobStore, cfg.Data.SeedDemo, log)
	if err != nil {
		log.Error("snapshot load failed", "err", err)
		return
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	// Every effective mutation persists the whole snapshot and
	// refreshes the financial gauges.
	persist := func(st core.State) {
		doc, err := backup.ExportSnapshot(st)
		if err != nil {
			log.Error("snapshot encode failed", "err", err)
			return
		}
		if err := blobStore.Save(context.Background(), doc); err != nil {
			log.Error("snapshot save failed", "err", err)
		}
		sum := report.Summary(st, nil, nil)
		m.Revenue.Set(sum.Revenue)
		m.Debt.Set(sum.Debt)
		m.Students.Set(float64(len(st.Students)))
	}
	store := core.NewStore(state, core.OnChange(persist))

	var notifier *notify.Notifier
	if cfg.Telegram.Token != "" {
		notifier, err = notify.New(cfg.Telegram.Token, cfg.Telegram.AdminChatID)
		if err != nil {
			log.Error("telegram init failed", "err", err)
			return
		}
		log.Info("telegram alerts enabled", "chat_id", cfg.Telegram.AdminChatID)
	}

	api := httpapi.New(log, store, m, notifier)
	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled, api.Routes())
	go func() {
		if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	<-ctx.Done()

	// Final flush so a snapshot written mid-shutdown is not lost.
	persist(store.Snapshot())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
