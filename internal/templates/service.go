package templates

import (
	"context"
	"fmt"

	"github.com/wolfman30/templated-mail/internal/observability/metrics"
	"github.com/wolfman30/templated-mail/pkg/logging"
)

// Service implements template authoring on top of a Store.
type Service struct {
	store    Store
	resolver *Resolver
	metrics  *metrics.MailMetrics
	logger   *logging.Logger
}

// NewService creates a template service. metrics may be nil.
func NewService(store Store, m *metrics.MailMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		store:    store,
		resolver: NewResolver(store),
		metrics:  m,
		logger:   logger,
	}
}

// Resolver exposes the id/alias resolver backed by the same store.
func (s *Service) Resolver() *Resolver { return s.resolver }

// Create stores a new active template under the next free id.
func (s *Service) Create(ctx context.Context, req CreateTemplateRequest) Template {
	t := s.store.Insert(ctx, Template{
		Name:     req.Name,
		Alias:    req.Alias,
		Subject:  req.Subject,
		HTMLBody: req.HTMLBody,
		TextBody: req.TextBody,
		Active:   true,
	})
	s.metrics.SetTemplatesStored(s.store.Len(ctx))
	s.logger.Info("template created", "id", t.ID, "alias", t.Alias)
	return t
}

// Update replaces the template stored under id. The read and the write are
// separate atomic steps; a concurrent reader may see either version.
func (s *Service) Update(ctx context.Context, id int, req UpdateTemplateRequest) (Template, error) {
	current, err := s.resolver.ByID(ctx, id)
	if err != nil {
		return Template{}, fmt.Errorf("templates: update %d: %w", id, err)
	}

	current.Name = req.Name
	current.Subject = req.Subject
	current.HTMLBody = req.HTMLBody
	current.TextBody = req.TextBody
	if req.Alias != nil {
		current.Alias = *req.Alias
	}
	if req.Active != nil {
		current.Active = *req.Active
	}

	updated := s.store.Insert(ctx, current)
	s.logger.Info("template updated", "id", updated.ID, "alias", updated.Alias)
	return updated, nil
}

// Get returns the template stored under id.
func (s *Service) Get(ctx context.Context, id int) (Template, error) {
	return s.resolver.ByID(ctx, id)
}

// List returns all templates in insertion order.
func (s *Service) List(ctx context.Context) []Template {
	return s.store.List(ctx)
}

// Seed inserts templates as given, keeping explicit ids.
func (s *Service) Seed(ctx context.Context, seed []Template) {
	for _, t := range seed {
		stored := s.store.Insert(ctx, t)
		s.logger.Debug("template seeded", "id", stored.ID, "alias", stored.Alias)
	}
	s.metrics.SetTemplatesStored(s.store.Len(ctx))
}
