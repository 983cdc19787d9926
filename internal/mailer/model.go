package mailer

import (
	"errors"
	"strings"
	"time"

	"github.com/wolfman30/templated-mail/internal/render"
)

var (
	// ErrMissingTemplateRef is returned when neither TemplateId nor TemplateAlias is set
	ErrMissingTemplateRef = errors.New("TemplateId or TemplateAlias is required")

	// ErrMissingRecipient is returned when To is empty
	ErrMissingRecipient = errors.New("To is required")

	// ErrMissingSender is returned when From is empty and no default sender is configured
	ErrMissingSender = errors.New("From is required")
)

// FieldError reports which template field failed to compile.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return "mailer: render " + e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error { return e.Err }

// Rendered holds the three rendered bodies of one template.
type Rendered struct {
	Subject  string `json:"Subject"`
	HTMLBody string `json:"HtmlBody"`
	TextBody string `json:"TextBody"`
}

// SendRequest is the body of POST /email/withTemplate. TemplateId takes
// precedence over TemplateAlias when both are set.
type SendRequest struct {
	TemplateID    int          `json:"TemplateId"`
	TemplateAlias string       `json:"TemplateAlias"`
	TemplateModel render.Value `json:"TemplateModel"`
	From          string       `json:"From"`
	FromName      string       `json:"FromName,omitempty"`
	To            string       `json:"To"`
	ToName        string       `json:"ToName,omitempty"`
}

func (r *SendRequest) validate(defaultFrom string) error {
	r.From = strings.TrimSpace(r.From)
	r.To = strings.TrimSpace(r.To)
	switch {
	case r.TemplateID <= 0 && r.TemplateAlias == "":
		return ErrMissingTemplateRef
	case r.To == "":
		return ErrMissingRecipient
	case r.From == "" && defaultFrom == "":
		return ErrMissingSender
	}
	return nil
}

// SendResult describes a dispatch. On rejection MessageID and SubmittedAt are
// empty but Rendered still carries the content that was offered.
type SendResult struct {
	To          string     `json:"To"`
	SubmittedAt *time.Time `json:"SubmittedAt,omitempty"`
	MessageID   string     `json:"MessageID,omitempty"`
	ErrorCode   int        `json:"ErrorCode"`
	Message     string     `json:"Message"`
	TemplateID  int        `json:"-"`
	Provider    string     `json:"-"`
	Rendered    Rendered   `json:"-"`
}

// RenderingBody is the body part of a rendering response.
type RenderingBody struct {
	HTML  string `json:"html"`
	Plain string `json:"plain"`
}

// RenderingResponse is the response of PUT /v1.0/renderings/{alias}.
type RenderingResponse struct {
	FromAddress     string        `json:"fromAddress"`
	FromDisplayName string        `json:"fromDisplayName"`
	Subject         string        `json:"subject"`
	Body            RenderingBody `json:"body"`
}
