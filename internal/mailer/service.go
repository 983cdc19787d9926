package mailer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wolfman30/templated-mail/internal/notify"
	"github.com/wolfman30/templated-mail/internal/observability/metrics"
	"github.com/wolfman30/templated-mail/internal/render"
	"github.com/wolfman30/templated-mail/internal/templates"
	"github.com/wolfman30/templated-mail/pkg/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("templated-mail.internal.mailer")

// TemplateResolver resolves template references.
type TemplateResolver interface {
	ByID(ctx context.Context, id int) (templates.Template, error)
	ByAlias(ctx context.Context, alias string) (templates.Template, error)
}

// Options tune a Service.
type Options struct {
	Escape render.Escape
	// DispatchTimeout bounds the delivery call when positive.
	DispatchTimeout time.Duration
	// DefaultFrom is the sender's configured fallback address; when empty,
	// every SendRequest must carry From.
	DefaultFrom string
}

// Service renders templates and hands the result to an EmailSender.
type Service struct {
	resolver TemplateResolver
	engine   *render.Engine
	sender   notify.EmailSender
	provider string
	opts     Options
	metrics  *metrics.MailMetrics
	logger   *logging.Logger
	now      func() time.Time
}

// NewService creates a mailer. sender may be nil for render-only use.
func NewService(resolver TemplateResolver, sender notify.EmailSender, m *metrics.MailMetrics, opts Options, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	provider := ""
	if sender != nil {
		provider = notify.ProviderOf(sender)
	}
	return &Service{
		resolver: resolver,
		engine:   render.NewEngine(opts.Escape),
		sender:   sender,
		provider: provider,
		opts:     opts,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// Render renders subject, html and text of tmpl against the same model.
func (s *Service) Render(ctx context.Context, tmpl templates.Template, model render.Value) (Rendered, error) {
	var out Rendered
	fields := []struct {
		name string
		body string
		out  *string
	}{
		{"subject", tmpl.Subject, &out.Subject},
		{"html", tmpl.HTMLBody, &out.HTMLBody},
		{"text", tmpl.TextBody, &out.TextBody},
	}

	for _, f := range fields {
		rendered, err := s.engine.Render(f.body, model)
		s.metrics.ObserveRender(f.name, err == nil)
		if err != nil {
			s.logger.Warn("template render failed", "template_id", tmpl.ID, "field", f.name, "error", err)
			return Rendered{}, &FieldError{Field: f.name, Err: err}
		}
		*f.out = rendered
	}
	return out, nil
}

// RenderByID resolves id and renders the template.
func (s *Service) RenderByID(ctx context.Context, id int, model render.Value) (templates.Template, Rendered, error) {
	tmpl, err := s.resolver.ByID(ctx, id)
	if err != nil {
		return templates.Template{}, Rendered{}, fmt.Errorf("mailer: resolve id %d: %w", id, err)
	}
	out, err := s.Render(ctx, tmpl, model)
	return tmpl, out, err
}

// RenderByAlias resolves alias verbatim and renders the template.
func (s *Service) RenderByAlias(ctx context.Context, alias string, model render.Value) (templates.Template, Rendered, error) {
	tmpl, err := s.resolver.ByAlias(ctx, alias)
	if err != nil {
		return templates.Template{}, Rendered{}, fmt.Errorf("mailer: resolve alias %q: %w", alias, err)
	}
	out, err := s.Render(ctx, tmpl, model)
	return tmpl, out, err
}

// Send resolves, renders and dispatches one message. Delivery is attempted
// once. A rejection returns an error matching notify.ErrDeliveryRejected
// together with a result carrying the rendered content.
func (s *Service) Send(ctx context.Context, req SendRequest) (*SendResult, error) {
	if err := req.validate(s.opts.DefaultFrom); err != nil {
		return nil, err
	}
	if s.sender == nil {
		return nil, errors.New("mailer: no email sender configured")
	}

	ctx, span := tracer.Start(ctx, "mailer.send")
	defer span.End()

	var (
		tmpl     templates.Template
		rendered Rendered
		err      error
	)
	if req.TemplateID > 0 {
		tmpl, rendered, err = s.RenderByID(ctx, req.TemplateID, req.TemplateModel)
	} else {
		tmpl, rendered, err = s.RenderByAlias(ctx, req.TemplateAlias, req.TemplateModel)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("mail.template_id", tmpl.ID),
		attribute.String("mail.provider", s.provider),
	)

	result := &SendResult{
		To:         req.To,
		TemplateID: tmpl.ID,
		Provider:   s.provider,
		Rendered:   rendered,
	}

	sendCtx := ctx
	if s.opts.DispatchTimeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, s.opts.DispatchTimeout)
		defer cancel()
	}

	start := s.now()
	err = s.sender.Send(sendCtx, notify.EmailMessage{
		From:     req.From,
		FromName: req.FromName,
		To:       req.To,
		ToName:   req.ToName,
		Subject:  rendered.Subject,
		HTML:     rendered.HTMLBody,
		Text:     rendered.TextBody,
	})
	s.metrics.ObserveDispatch(s.provider, err == nil, s.now().Sub(start).Seconds())

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delivery rejected")
		result.Message = err.Error()
		s.logger.Error("dispatch failed", "template_id", tmpl.ID, "to", req.To, "provider", s.provider, "error", err)
		if !errors.Is(err, notify.ErrDeliveryRejected) {
			err = &notify.RejectedError{Provider: s.provider, Reason: err.Error(), Err: err}
		}
		return result, fmt.Errorf("mailer: dispatch template %d: %w", tmpl.ID, err)
	}

	submitted := s.now().UTC()
	result.SubmittedAt = &submitted
	result.MessageID = uuid.NewString()
	result.Message = "OK"
	s.logger.Info("message dispatched", "template_id", tmpl.ID, "to", req.To, "provider", s.provider, "message_id", result.MessageID)
	return result, nil
}
