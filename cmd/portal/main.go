// Command portal serves the medical portal: it keeps one session per browser
// and forwards every screen's data calls to the REST backend with that
// session's credentials.
//
// @title        Medical Portal API
// @version      1.0
// @description  Session gateway and screens for the medical portal.
// @BasePath     /
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

	"github.com/rs/zerolog"

	_ "github.com/medportal/portal/docs"
	"github.com/medportal/portal/internal/api"
	"github.com/medportal/portal/internal/api/handler"
	"github.com/medportal/portal/internal/core/ports"
	"github.com/medportal/portal/internal/core/service"
	"github.com/medportal/portal/internal/gateway"
	"github.com/medportal/portal/internal/infrastructure/backend"
	"github.com/medportal/portal/internal/infrastructure/db/memory"
	mongostore "github.com/medportal/portal/internal/infrastructure/db/mongo"
	redisstore "github.com/medportal/portal/internal/infrastructure/db/redis"
	"github.com/medportal/portal/internal/pkg/config"
	"github.com/medportal/portal/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.Production(),
		Service: "portal",
		Env:     cfg.Env,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("portal stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	durable, pingers, closeStore, err := openDurable(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	gw := gateway.New(gateway.FromContext(), log)
	rest := backend.NewREST(gateway.NewClient(cfg.Backend.URL, gw, cfg.Backend.Timeout))
	pingers["backend"] = rest

	appointments := service.NewAppointmentService(rest, log)
	e := api.NewRouter(api.Deps{
		Config:  cfg,
		Log:     log,
		Durable: durable,
		Services: api.Services{
			Auth:         service.NewAuthService(rest, log),
			Profile:      service.NewProfileService(rest, log),
			Records:      service.NewRecordService(rest, log),
			Appointments: appointments,
			Dashboard:    service.NewDashboardService(appointments, rest, log),
			Directory:    service.NewDirectoryService(rest),
		},
		Pingers: pingers,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("backend", cfg.Backend.URL).Str("sessions", cfg.Session.Store).Msg("portal listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// openDurable connects the configured session backend and returns it with
// its readiness check and a close function.
func openDurable(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.DurableStore, map[string]handler.Pinger, func(), error) {
	pingers := map[string]handler.Pinger{}

	switch cfg.Session.Store {
	case "redis":
		rdb, err := redisstore.Connect(ctx, redisstore.Config{URL: cfg.Redis.URL, Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("session store: %w", err)
		}
		pingers["redis"] = handler.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
		log.Info().Msg("sessions stored in redis")
		return redisstore.NewStore(rdb), pingers, func() { _ = rdb.Close() }, nil

	case "mongo":
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("session store: %w", err)
		}
		store := mongostore.NewStore(db)
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, nil, fmt.Errorf("session store indexes: %w", err)
		}
		pingers["mongodb"] = handler.PingFunc(func(ctx context.Context) error { return client.Ping(ctx, nil) })
		log.Info().Str("database", cfg.Mongo.Database).Msg("sessions stored in mongodb")
		return store, pingers, func() { _ = client.Disconnect(context.Background()) }, nil

	default:
		log.Warn().Msg("sessions kept in memory; they do not survive a restart")
		store := memory.NewStore()
		janitorCtx, stopJanitor := context.WithCancel(ctx)
		go store.RunJanitor(janitorCtx, cfg.Session.SweepInterval, log)
		return store, pingers, stopJanitor, nil
	}
}
