package mailer

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/templated-mail/internal/notify"
	"github.com/wolfman30/templated-mail/internal/templates"
	"github.com/wolfman30/templated-mail/pkg/logging"
)

func newTestHandlerRouter(t *testing.T, sender notify.EmailSender) http.Handler {
	t.Helper()
	svc := newTestService(t, sender, Options{},
		templates.Template{
			ID:       3,
			Alias:    "team/welcome",
			Subject:  "Welcome to {{team}}",
			HTMLBody: "<h1>{{user.name}}</h1>",
			TextBody: "{{user.name}}",
		},
		templates.Template{ID: 4, Alias: "broken", Subject: "{{/oops}}"},
	)
	h := NewHandler(svc, HandlerConfig{RenderFromAddress: "someone@example.com", RenderFromName: "Someone"}, logging.Default())

	r := chi.NewRouter()
	r.Post("/email/withTemplate", h.SendWithTemplate)
	r.Put("/v1.0/renderings/*", h.Renderings)
	return r
}

func TestRenderings(t *testing.T) {
	router := newTestHandlerRouter(t, nil)

	body := `{"team":"Acme & Co","user":{"name":"<Ana>"}}`
	req := httptest.NewRequest(http.MethodPut, "/v1.0/renderings/team/welcome", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp RenderingResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, RenderingResponse{
		FromAddress:     "someone@example.com",
		FromDisplayName: "Someone",
		Subject:         "Welcome to Acme &amp; Co",
		Body: RenderingBody{
			HTML:  "<h1>&lt;Ana&gt;</h1>",
			Plain: "&lt;Ana&gt;",
		},
	}, resp)
}

func TestRenderings_Errors(t *testing.T) {
	router := newTestHandlerRouter(t, nil)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"unknown alias", "/v1.0/renderings/team", `{}`, http.StatusUnprocessableEntity},
		{"no re-splitting", "/v1.0/renderings/welcome", `{}`, http.StatusUnprocessableEntity},
		{"syntax error", "/v1.0/renderings/broken", `{}`, http.StatusUnprocessableEntity},
		{"bad json", "/v1.0/renderings/first-template", `{"name":`, http.StatusBadRequest},
		{"empty alias", "/v1.0/renderings/", `{}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, tt.path, strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestRenderings_EmptyBodyIsNullModel(t *testing.T) {
	router := newTestHandlerRouter(t, nil)

	req := httptest.NewRequest(http.MethodPut, "/v1.0/renderings/first-template", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp RenderingResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "Hello from ", resp.Subject)
}

func TestSendWithTemplate(t *testing.T) {
	sender := &recordingSender{}
	router := newTestHandlerRouter(t, sender)

	body := `{"TemplateAlias":"first-template","TemplateModel":{"name":"Ana","company":{"name":"Acme"}},"From":"someone@example.com","To":"ana@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/email/withTemplate", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp SendResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "ana@example.com", resp.To)
	assert.NotEmpty(t, resp.MessageID)
	assert.NotNil(t, resp.SubmittedAt)
	assert.Equal(t, "OK", resp.Message)

	require.Len(t, sender.messages, 1)
	assert.Equal(t, "Hello from Acme", sender.messages[0].Subject)
}

func TestSendWithTemplate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		sender *recordingSender
		body   string
		status int
	}{
		{"bad json", &recordingSender{}, `{`, http.StatusBadRequest},
		{"missing ref", &recordingSender{}, `{"From":"a@example.com","To":"b@example.com"}`, http.StatusBadRequest},
		{"not found", &recordingSender{}, `{"TemplateId":999,"From":"a@example.com","To":"b@example.com"}`, http.StatusUnprocessableEntity},
		{"syntax error", &recordingSender{}, `{"TemplateId":4,"From":"a@example.com","To":"b@example.com"}`, http.StatusUnprocessableEntity},
		{
			"rejected",
			&recordingSender{err: &notify.RejectedError{Provider: "fake", Reason: "status 400"}},
			`{"TemplateId":1,"From":"a@example.com","To":"b@example.com"}`,
			http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestHandlerRouter(t, tt.sender)

			req := httptest.NewRequest(http.MethodPost, "/email/withTemplate", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, tt.status, w.Code, w.Body.String())

			var resp SendResult
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, tt.status, resp.ErrorCode)
			assert.NotEmpty(t, resp.Message)
			assert.Empty(t, resp.MessageID)
		})
	}
}
