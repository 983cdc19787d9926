package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("ses-123")}, nil
}

func TestNewSESSender_NilClient(t *testing.T) {
	assert.Nil(t, NewSESSender(nil, SESConfig{}, nil))
}

func TestSESSender_Send(t *testing.T) {
	fake := &fakeSES{}
	sender := newSESSender(fake, SESConfig{FromEmail: "noreply@example.com"}, nil)

	err := sender.Send(context.Background(), EmailMessage{
		To:      "ana@example.com",
		Subject: "Hello Ana",
		HTML:    "<b>Hi</b>",
	})
	require.NoError(t, err)

	require.NotNil(t, fake.input)
	assert.Equal(t, "Templated Mail <noreply@example.com>", aws.ToString(fake.input.FromEmailAddress))
	assert.Equal(t, []string{"ana@example.com"}, fake.input.Destination.ToAddresses)
	assert.Equal(t, "Hello Ana", aws.ToString(fake.input.Content.Simple.Subject.Data))
	assert.Equal(t, "<b>Hi</b>", aws.ToString(fake.input.Content.Simple.Body.Html.Data))
	assert.Nil(t, fake.input.Content.Simple.Body.Text)
}

func TestSESSender_SendRequestFrom(t *testing.T) {
	fake := &fakeSES{}
	sender := newSESSender(fake, SESConfig{FromEmail: "noreply@example.com"}, nil)

	require.NoError(t, sender.Send(context.Background(), EmailMessage{
		From:     "team@example.com",
		FromName: "Team",
		To:       "bo@example.com",
		Text:     "plain",
	}))
	assert.Equal(t, "Team <team@example.com>", aws.ToString(fake.input.FromEmailAddress))
}

func TestSESSender_SendRejected(t *testing.T) {
	fake := &fakeSES{err: errors.New("MessageRejected: Email address is not verified")}
	sender := newSESSender(fake, SESConfig{FromEmail: "noreply@example.com"}, nil)

	err := sender.Send(context.Background(), EmailMessage{To: "ana@example.com", Text: "x"})
	require.ErrorIs(t, err, ErrDeliveryRejected)

	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, ProviderSES, rejected.Provider)
	assert.Contains(t, rejected.Reason, "not verified")
}
