// Command voicy runs the voice transcription bot.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kbukum/voicy/bootstrap"
	"github.com/kbukum/voicy/bot"
	"github.com/kbukum/voicy/config"
	"github.com/kbukum/voicy/database"
	"github.com/kbukum/voicy/kafka"
	"github.com/kbukum/voicy/logger"
	"github.com/kbukum/voicy/observability"
	"github.com/kbukum/voicy/redis"
	"github.com/kbukum/voicy/repository"
	"github.com/kbukum/voicy/server"
	"github.com/kbukum/voicy/telegram"
	"github.com/kbukum/voicy/version"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "voicy: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg bot.Config
	if err := config.LoadConfig("voicy", &cfg); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Version == "" {
		cfg.Version = version.Get().Short()
	}

	app, err := bootstrap.NewApp(&cfg)
	if err != nil {
		return err
	}

	if err := setupTelemetry(ctx, app); err != nil {
		return err
	}
	metrics, err := observability.NewMetrics(observability.Meter("voicy"))
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	client, err := telegram.NewClient(cfg.Telegram)
	if err != nil {
		return fmt.Errorf("telegram client: %w", err)
	}
	engines, err := bot.NewEngines(cfg.Engines)
	if err != nil {
		return err
	}

	db := database.NewComponent(cfg.Database)
	if cfg.Database.AutoMigrate {
		db.WithAutoMigrate(repository.Models()...)
	}
	deps := bot.Deps{Telegram: client, Database: db, Engines: engines, Metrics: metrics}
	if err := app.RegisterComponent(db); err != nil {
		return err
	}
	if cfg.Redis.Enabled {
		deps.Redis = redis.NewComponent(cfg.Redis)
		if err := app.RegisterComponent(deps.Redis); err != nil {
			return err
		}
	}
	if cfg.Kafka.Enabled {
		deps.Kafka = kafka.NewComponent(cfg.Kafka)
		if err := app.RegisterComponent(deps.Kafka); err != nil {
			return err
		}
	}

	if err := app.RegisterComponent(telegram.NewAccount(client)); err != nil {
		return err
	}
	svc := bot.NewService(&cfg, deps)
	if err := app.RegisterComponent(svc); err != nil {
		return err
	}
	if err := registerUpdateSource(app, client, svc); err != nil {
		return err
	}

	app.Summary.Note("mode: %s", cfg.Telegram.Mode)
	app.Summary.Note("engines: %v", engines.Available())
	return app.Run(ctx)
}

// registerUpdateSource wires polling or the webhook server. The HTTP server
// is registered in polling mode too when enabled, serving only the probes.
func registerUpdateSource(app *bootstrap.App[*bot.Config], client *telegram.Client, svc *bot.Service) error {
	cfg := app.Cfg
	var srv *server.Server
	if cfg.Server.Enabled {
		srv = server.New(cfg.Server, logger.Get("http"))
		srv.ApplyDefaults(cfg.Name, app.Components.HealthAll)
	}

	switch cfg.Telegram.Mode {
	case telegram.ModeWebhook:
		srv.RegisterWebhook(cfg.Telegram.WebhookSecret, svc.HandleUpdate)
		webhookURL := cfg.Telegram.WebhookURL + cfg.Telegram.WebhookPath()
		app.OnReady(func(ctx context.Context) error {
			return client.SetWebhook(ctx, webhookURL, cfg.Telegram.WebhookSecret)
		})
	default:
		if err := app.RegisterComponent(telegram.NewPoller(client, svc.HandleUpdate)); err != nil {
			return err
		}
	}

	if srv != nil {
		return app.RegisterComponent(server.NewComponent(srv))
	}
	return nil
}

func setupTelemetry(ctx context.Context, app *bootstrap.App[*bot.Config]) error {
	cfg := app.Cfg
	if !cfg.Observability.Enabled {
		return nil
	}
	svc := observability.Service{Name: cfg.Name, Version: cfg.Version, Environment: cfg.Environment}
	shutdown, err := observability.Setup(ctx, cfg.Observability, svc)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	app.OnStop(shutdown)
	app.Summary.Note("telemetry: %s", cfg.Observability.Endpoint)
	return nil
}
