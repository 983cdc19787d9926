package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/wolfman30/templated-mail/pkg/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("templated-mail.internal.notify")

// ErrDeliveryRejected is matched by every error a sender returns when the
// provider did not accept a message.
var ErrDeliveryRejected = errors.New("delivery rejected")

// RejectedError carries the provider's reason for not accepting a message.
type RejectedError struct {
	Provider string
	Reason   string
	Err      error
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("notify: %s rejected message: %s", e.Provider, e.Reason)
}

func (e *RejectedError) Is(target error) bool { return target == ErrDeliveryRejected }

func (e *RejectedError) Unwrap() error { return e.Err }

// EmailSender defines the interface for sending emails.
// Implementations can be swapped (SendGrid, SES, SMTP) without changing callers.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage represents an email to be sent. Empty From/FromName fall back
// to the sender's configured defaults.
type EmailMessage struct {
	From     string
	FromName string
	To       string
	ToName   string
	Subject  string
	HTML     string
	Text     string
}

func (m EmailMessage) sender(defaultEmail, defaultName string) (string, string) {
	from, name := m.From, m.FromName
	if from == "" {
		from = defaultEmail
	}
	if name == "" {
		name = defaultName
	}
	return from, name
}

type sendGridClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridSender sends emails via SendGrid API.
type SendGridSender struct {
	client    sendGridClient
	fromEmail string
	fromName  string
	logger    *logging.Logger
}

// SendGridConfig holds configuration for SendGrid.
type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// NewSendGridSender creates a new SendGrid email sender.
func NewSendGridSender(cfg SendGridConfig, logger *logging.Logger) *SendGridSender {
	if cfg.APIKey == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FromName == "" {
		cfg.FromName = "Templated Mail"
	}
	return &SendGridSender{
		client:    sendgrid.NewSendClient(cfg.APIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		logger:    logger,
	}
}

// Send sends an email via SendGrid. Only 202 Accepted counts as delivered.
func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) error {
	if s.client == nil {
		return fmt.Errorf("notify: sendgrid client not configured")
	}

	ctx, span := tracer.Start(ctx, "notify.sendgrid.send")
	defer span.End()
	span.SetAttributes(attribute.String("mail.provider", ProviderSendGrid))

	fromEmail, fromName := msg.sender(s.fromEmail, s.fromName)
	message := sendGridMessage(fromEmail, fromName, msg)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "send failed")
		s.logger.Error("sendgrid send failed", "error", err, "to", msg.To)
		return &RejectedError{Provider: ProviderSendGrid, Reason: err.Error(), Err: err}
	}

	span.SetAttributes(attribute.Int("http.status_code", response.StatusCode))
	if response.StatusCode != http.StatusAccepted {
		span.SetStatus(codes.Error, "not accepted")
		s.logger.Error("sendgrid returned non-accepted status", "status", response.StatusCode, "body", response.Body, "to", msg.To)
		return &RejectedError{
			Provider: ProviderSendGrid,
			Reason:   fmt.Sprintf("status %d: %s", response.StatusCode, response.Body),
		}
	}

	s.logger.Info("email sent via sendgrid", "to", msg.To, "subject", msg.Subject, "status", response.StatusCode)
	return nil
}

// sendGridMessage omits empty bodies; SendGrid refuses blank content values.
func sendGridMessage(fromEmail, fromName string, msg EmailMessage) *mail.SGMailV3 {
	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail(fromName, fromEmail))
	message.Subject = msg.Subject

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail(msg.ToName, msg.To))
	message.AddPersonalizations(p)

	if msg.Text != "" {
		message.AddContent(mail.NewContent("text/plain", msg.Text))
	}
	if msg.HTML != "" {
		message.AddContent(mail.NewContent("text/html", msg.HTML))
	}
	return message
}

// StubEmailSender is a no-op sender for testing or when email is disabled.
type StubEmailSender struct {
	logger *logging.Logger
}

// NewStubEmailSender creates a stub email sender that logs but doesn't send.
func NewStubEmailSender(logger *logging.Logger) *StubEmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubEmailSender{logger: logger}
}

// Send logs the email but doesn't actually send it.
func (s *StubEmailSender) Send(ctx context.Context, msg EmailMessage) error {
	s.logger.Info("stub email sender: would send email", "from", msg.From, "to", msg.To, "subject", msg.Subject)
	return nil
}

var (
	_ EmailSender = (*SendGridSender)(nil)
	_ EmailSender = (*StubEmailSender)(nil)
)
