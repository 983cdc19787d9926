package notify

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/templated-mail/internal/config"
)

func TestNewSender(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.Config
		provider string
		wantErr  bool
	}{
		{"stub", config.Config{DeliveryProvider: "stub"}, ProviderStub, false},
		{"empty defaults to stub", config.Config{}, ProviderStub, false},
		{"sendgrid", config.Config{DeliveryProvider: "sendgrid", SendGridAPIKey: "key"}, ProviderSendGrid, false},
		{"sendgrid without key", config.Config{DeliveryProvider: "sendgrid"}, "", true},
		{"ses", config.Config{DeliveryProvider: "ses"}, ProviderSES, false},
		{"smtp", config.Config{DeliveryProvider: "smtp", SMTPHost: "localhost", SMTPPort: 1025}, ProviderSMTP, false},
		{"smtp without host", config.Config{DeliveryProvider: "smtp"}, "", true},
		{"unknown", config.Config{DeliveryProvider: "pigeon"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			sender, err := NewSender(&cfg, aws.Config{Region: "us-east-1"}, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.provider, ProviderOf(sender))
		})
	}
}

type customSender struct{}

func (customSender) Send(context.Context, EmailMessage) error { return nil }

func TestProviderOf_Custom(t *testing.T) {
	assert.Equal(t, "custom", ProviderOf(customSender{}))
}
