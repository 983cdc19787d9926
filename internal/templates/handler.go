package templates

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/wolfman30/templated-mail/pkg/logging"
)

// ErrorResponse is the body written for failed template requests.
type ErrorResponse struct {
	ErrorCode int    `json:"ErrorCode"`
	Message   string `json:"Message"`
}

// Handler handles HTTP requests for template authoring
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new templates handler
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// ListTemplates handles GET /templates requests
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	all := h.service.List(r.Context())
	resp := ListTemplatesResponse{
		TotalCount: len(all),
		Templates:  make([]Record, 0, len(all)),
	}
	for _, t := range all {
		resp.Templates = append(resp.Templates, t.Record())
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateTemplate handles POST /templates requests
func (h *Handler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req CreateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	t := h.service.Create(r.Context(), req)
	writeJSON(w, http.StatusCreated, t)
}

// GetTemplate handles GET /templates/{templateID} requests
func (h *Handler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := templateIDParam(w, r)
	if !ok {
		return
	}

	t, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeLookupError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// UpdateTemplate handles PUT /templates/{templateID} requests
func (h *Handler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := templateIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	t, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.writeLookupError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handler) writeLookupError(w http.ResponseWriter, id int, err error) {
	if errors.Is(err, ErrTemplateNotFound) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.logger.Error("template lookup failed", "error", err, "id", id)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func templateIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "templateID"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, ErrInvalidTemplateID.Error())
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{ErrorCode: status, Message: message})
}
