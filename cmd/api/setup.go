package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wolfman30/templated-mail/cmd/mainconfig"
	appconfig "github.com/wolfman30/templated-mail/internal/config"
	"github.com/wolfman30/templated-mail/internal/mailer"
	"github.com/wolfman30/templated-mail/internal/notify"
	"github.com/wolfman30/templated-mail/internal/observability/metrics"
	"github.com/wolfman30/templated-mail/internal/render"
	"github.com/wolfman30/templated-mail/internal/templates"
	"github.com/wolfman30/templated-mail/pkg/logging"
)

// setupMetrics returns a nil handler and nil metrics when disabled; every
// observer tolerates a nil receiver.
func setupMetrics(enabled bool) (http.Handler, *metrics.MailMetrics) {
	if !enabled {
		return nil, nil
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), metrics.NewMailMetrics(reg)
}

func setupTemplates(ctx context.Context, cfg *appconfig.Config, m *metrics.MailMetrics, logger *logging.Logger) (*templates.Service, error) {
	svc := templates.NewService(templates.NewInMemoryStore(), m, logger.Component("templates"))

	if cfg.SeedDefaults {
		svc.Seed(ctx, templates.DefaultSeed())
	}
	if cfg.SeedFile != "" {
		seed, err := templates.LoadSeedFile(cfg.SeedFile)
		if err != nil {
			return nil, err
		}
		svc.Seed(ctx, seed)
		logger.Info("loaded seed file", "path", cfg.SeedFile, "templates", len(seed))
	}
	return svc, nil
}

func setupSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (notify.EmailSender, error) {
	var awsCfg aws.Config
	if cfg.DeliveryProvider == notify.ProviderSES {
		var err error
		awsCfg, err = mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("load AWS config: %w", err)
		}
	}
	return notify.NewSender(cfg, awsCfg, logger)
}

func mailerOptions(cfg *appconfig.Config) (mailer.Options, error) {
	escape, err := render.ParseEscape(cfg.RenderEscape)
	if err != nil {
		return mailer.Options{}, err
	}
	return mailer.Options{
		Escape:          escape,
		DispatchTimeout: cfg.DispatchTimeout,
		DefaultFrom:     cfg.MailFromEmail,
	}, nil
}
