package mailer

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/wolfman30/templated-mail/internal/notify"
	"github.com/wolfman30/templated-mail/internal/render"
	"github.com/wolfman30/templated-mail/internal/templates"
	"github.com/wolfman30/templated-mail/pkg/logging"
)

const maxModelBytes = 1 << 20

// HandlerConfig holds the fixed sender identity reported by renderings.
type HandlerConfig struct {
	RenderFromAddress string
	RenderFromName    string
}

// Handler handles HTTP requests for rendering and dispatch
type Handler struct {
	service *Service
	cfg     HandlerConfig
	logger  *logging.Logger
}

// NewHandler creates a new mailer handler
func NewHandler(service *Service, cfg HandlerConfig, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service: service,
		cfg:     cfg,
		logger:  logger,
	}
}

// SendWithTemplate handles POST /email/withTemplate requests
func (h *Handler) SendWithTemplate(w http.ResponseWriter, r *http.Request) {
	var req SendRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxModelBytes)).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", "error", err)
		writeError(w, http.StatusBadRequest, "", "Invalid request body")
		return
	}

	result, err := h.service.Send(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, req.To, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Renderings handles PUT /v1.0/renderings/{alias...}. The alias is the raw
// path remainder and may itself contain slashes. The body is the data model.
func (h *Handler) Renderings(w http.ResponseWriter, r *http.Request) {
	alias := aliasParam(r)
	if alias == "" {
		writeError(w, http.StatusBadRequest, "", templates.ErrMissingAlias.Error())
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxModelBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "", "Invalid request body")
		return
	}
	model, err := render.ParseJSON(data)
	if err != nil {
		h.logger.Error("failed to decode model", "error", err, "alias", alias)
		writeError(w, http.StatusBadRequest, "", "Invalid data model")
		return
	}

	_, out, err := h.service.RenderByAlias(r.Context(), alias, model)
	if err != nil {
		h.writeServiceError(w, "", err)
		return
	}

	writeJSON(w, http.StatusOK, RenderingResponse{
		FromAddress:     h.cfg.RenderFromAddress,
		FromDisplayName: h.cfg.RenderFromName,
		Subject:         out.Subject,
		Body: RenderingBody{
			HTML:  out.HTMLBody,
			Plain: out.TextBody,
		},
	})
}

func aliasParam(r *http.Request) string {
	raw := chi.URLParam(r, "*")
	if alias, err := url.PathUnescape(raw); err == nil {
		return alias
	}
	return raw
}

func (h *Handler) writeServiceError(w http.ResponseWriter, to string, err error) {
	switch {
	case errors.Is(err, ErrMissingTemplateRef),
		errors.Is(err, ErrMissingRecipient),
		errors.Is(err, ErrMissingSender),
		errors.Is(err, templates.ErrMissingAlias),
		errors.Is(err, templates.ErrInvalidTemplateID):
		writeError(w, http.StatusBadRequest, to, err.Error())
	case errors.Is(err, templates.ErrTemplateNotFound):
		writeError(w, http.StatusUnprocessableEntity, to, err.Error())
	case errors.Is(err, render.ErrSyntax):
		writeError(w, http.StatusUnprocessableEntity, to, err.Error())
	case errors.Is(err, notify.ErrDeliveryRejected):
		writeError(w, http.StatusBadGateway, to, err.Error())
	default:
		h.logger.Error("mailer request failed", "error", err)
		writeError(w, http.StatusInternalServerError, to, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, to, message string) {
	writeJSON(w, status, SendResult{To: to, ErrorCode: status, Message: message})
}
