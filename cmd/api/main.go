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

	"github.com/joho/godotenv"
	"github.com/wolfman30/templated-mail/internal/api/router"
	appconfig "github.com/wolfman30/templated-mail/internal/config"
	"github.com/wolfman30/templated-mail/internal/mailer"
	"github.com/wolfman30/templated-mail/internal/templates"
	"github.com/wolfman30/templated-mail/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.NewWithWriter(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting templated-mail API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"delivery_provider", cfg.DeliveryProvider,
	)

	ctx := context.Background()
	handler, err := buildHandler(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(1)
	}

	srv := newServer(cfg, handler)

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// buildHandler wires store, services and router from cfg.
func buildHandler(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (http.Handler, error) {
	metricsHandler, mailMetrics := setupMetrics(cfg.MetricsEnabled)

	tmplService, err := setupTemplates(ctx, cfg, mailMetrics, logger)
	if err != nil {
		return nil, err
	}

	sender, err := setupSender(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	opts, err := mailerOptions(cfg)
	if err != nil {
		return nil, err
	}
	mailService := mailer.NewService(tmplService.Resolver(), sender, mailMetrics, opts, logger.Component("mailer"))

	return router.New(&router.Config{
		Logger:           logger,
		TemplatesHandler: templates.NewHandler(tmplService, logger.Component("templates")),
		MailerHandler: mailer.NewHandler(mailService, mailer.HandlerConfig{
			RenderFromAddress: cfg.RenderFromAddress,
			RenderFromName:    cfg.RenderFromName,
		}, logger.Component("mailer")),
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}), nil
}

func newServer(cfg *appconfig.Config, handler http.Handler) *http.Server {
	// WriteTimeout leaves room for a slow delivery provider.
	writeTimeout := 15 * time.Second
	if cfg.DispatchTimeout > 0 && cfg.DispatchTimeout+5*time.Second > writeTimeout {
		writeTimeout = cfg.DispatchTimeout + 5*time.Second
	}
	return &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}
}
