package notify

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/wolfman30/templated-mail/internal/config"
	"github.com/wolfman30/templated-mail/pkg/logging"
)

const (
	ProviderSendGrid = "sendgrid"
	ProviderSES      = "ses"
	ProviderSMTP     = "smtp"
	ProviderStub     = "stub"
)

func (s *SendGridSender) Provider() string  { return ProviderSendGrid }
func (s *SESSender) Provider() string       { return ProviderSES }
func (s *SMTPSender) Provider() string      { return ProviderSMTP }
func (s *StubEmailSender) Provider() string { return ProviderStub }

// ProviderOf names the delivery provider behind sender, for logs and metrics.
func ProviderOf(sender EmailSender) string {
	if p, ok := sender.(interface{ Provider() string }); ok {
		return p.Provider()
	}
	return "custom"
}

// NewSender builds the EmailSender selected by cfg.DeliveryProvider. awsCfg is
// only consulted for SES.
func NewSender(cfg *config.Config, awsCfg aws.Config, logger *logging.Logger) (EmailSender, error) {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Component("notify")

	switch cfg.DeliveryProvider {
	case ProviderSendGrid:
		sender := NewSendGridSender(SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.MailFromEmail,
			FromName:  cfg.MailFromName,
		}, logger)
		if sender == nil {
			return nil, fmt.Errorf("notify: sendgrid selected but SENDGRID_API_KEY is empty")
		}
		return sender, nil
	case ProviderSES:
		return NewSESSender(sesv2.NewFromConfig(awsCfg), SESConfig{
			FromEmail: cfg.MailFromEmail,
			FromName:  cfg.MailFromName,
		}, logger), nil
	case ProviderSMTP:
		sender := NewSMTPSender(SMTPConfig{
			Host:      cfg.SMTPHost,
			Port:      cfg.SMTPPort,
			Username:  cfg.SMTPUsername,
			Password:  cfg.SMTPPassword,
			TLSMode:   cfg.SMTPTLSMode,
			FromEmail: cfg.MailFromEmail,
			FromName:  cfg.MailFromName,
		}, logger)
		if sender == nil {
			return nil, fmt.Errorf("notify: smtp selected but SMTP_HOST is empty")
		}
		return sender, nil
	case ProviderStub, "":
		return NewStubEmailSender(logger), nil
	default:
		return nil, fmt.Errorf("notify: unknown delivery provider %q", cfg.DeliveryProvider)
	}
}
