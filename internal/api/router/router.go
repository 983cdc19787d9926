package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpmiddleware "github.com/wolfman30/templated-mail/internal/http/middleware"
	"github.com/wolfman30/templated-mail/internal/mailer"
	"github.com/wolfman30/templated-mail/internal/templates"
	"github.com/wolfman30/templated-mail/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	TemplatesHandler   *templates.Handler
	MailerHandler      *mailer.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if h := cfg.TemplatesHandler; h != nil {
		r.Route("/templates", func(r chi.Router) {
			r.Get("/", h.ListTemplates)
			r.Post("/", h.CreateTemplate)
			r.Get("/{templateID}", h.GetTemplate)
			r.Put("/{templateID}", h.UpdateTemplate)
		})
	}

	if h := cfg.MailerHandler; h != nil {
		r.Post("/email/withTemplate", h.SendWithTemplate)
		// Aliases may contain "/", so the whole remainder is the alias.
		r.Put("/v1.0/renderings/*", h.Renderings)
	}

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
