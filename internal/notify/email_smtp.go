package notify

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	mail "github.com/go-mail/mail"
	"github.com/wolfman30/templated-mail/pkg/logging"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// SMTPConfig holds configuration for a plain SMTP relay.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	TLSMode   string // auto | starttls | ssl | none
	FromEmail string
	FromName  string
}

type smtpDialer interface {
	DialAndSend(m ...*mail.Message) error
}

// SMTPSender sends multipart/alternative emails through an SMTP relay.
type SMTPSender struct {
	cfg    SMTPConfig
	dial   func(timeout time.Duration) smtpDialer
	logger *logging.Logger
}

// NewSMTPSender creates an SMTP sender. Returns nil without a host.
func NewSMTPSender(cfg SMTPConfig, logger *logging.Logger) *SMTPSender {
	if cfg.Host == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.FromName == "" {
		cfg.FromName = "Templated Mail"
	}
	cfg.TLSMode = strings.ToLower(strings.TrimSpace(cfg.TLSMode))

	s := &SMTPSender{cfg: cfg, logger: logger}
	s.dial = s.newDialer
	return s
}

func (s *SMTPSender) newDialer(timeout time.Duration) smtpDialer {
	d := mail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: s.cfg.Host}
	if timeout > 0 {
		d.Timeout = timeout
	}

	// A failed delivery is reported once and never redialed.
	d.RetryFailure = false

	// go-mail ignores StartTLSPolicy while SSL is set, so every mode sets SSL
	// explicitly instead of inheriting the port-465 default.
	switch s.cfg.TLSMode {
	case "ssl":
		d.SSL = true
	case "starttls":
		d.SSL = false
		d.StartTLSPolicy = mail.MandatoryStartTLS
	case "none":
		d.SSL = false
		d.StartTLSPolicy = mail.NoStartTLS
	default:
		// auto: implicit TLS on 465, otherwise STARTTLS when offered
		d.SSL = s.cfg.Port == 465
		d.StartTLSPolicy = mail.OpportunisticStartTLS
	}
	return d
}

// Send sends an email. Dial and protocol errors are reported as rejections.
func (s *SMTPSender) Send(ctx context.Context, msg EmailMessage) error {
	ctx, span := tracer.Start(ctx, "notify.smtp.send")
	defer span.End()
	span.SetAttributes(
		attribute.String("mail.provider", ProviderSMTP),
		attribute.String("smtp.tls_mode", s.cfg.TLSMode),
	)

	if err := ctx.Err(); err != nil {
		return &RejectedError{Provider: ProviderSMTP, Reason: err.Error(), Err: err}
	}

	var timeout time.Duration
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}

	if err := s.dial(timeout).DialAndSend(s.buildMessage(msg)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "send failed")
		s.logger.Error("smtp send failed", "error", err, "host", s.cfg.Host, "to", msg.To)
		return &RejectedError{Provider: ProviderSMTP, Reason: err.Error(), Err: err}
	}

	s.logger.Info("email sent via smtp", "to", msg.To, "subject", msg.Subject, "host", s.cfg.Host)
	return nil
}

func (s *SMTPSender) buildMessage(msg EmailMessage) *mail.Message {
	fromEmail, fromName := msg.sender(s.cfg.FromEmail, s.cfg.FromName)

	m := mail.NewMessage()
	m.SetAddressHeader("From", fromEmail, fromName)
	if msg.ToName != "" {
		m.SetAddressHeader("To", msg.To, msg.ToName)
	} else {
		m.SetHeader("To", msg.To)
	}
	m.SetHeader("Subject", msg.Subject)

	switch {
	case msg.Text != "" && msg.HTML != "":
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	case msg.HTML != "":
		m.SetBody("text/html", msg.HTML)
	default:
		m.SetBody("text/plain", msg.Text)
	}
	return m
}

var (
	_ EmailSender = (*SMTPSender)(nil)
	_ smtpDialer  = (*mail.Dialer)(nil)
)
