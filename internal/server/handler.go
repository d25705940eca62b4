package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/resumine/resumine/internal/auth"
	"github.com/resumine/resumine/internal/service"
)

// NewHandler creates the http handler set for the public-link API.
func NewHandler(links *service.PublicLinkService, resumes *service.ResumeService, events *service.BillingEventService, identity auth.Identity) *Handler {
	return &Handler{
		links:    links,
		resumes:  resumes,
		events:   events,
		identity: identity,
	}
}

type Handler struct {
	links    *service.PublicLinkService
	resumes  *service.ResumeService
	events   *service.BillingEventService
	identity auth.Identity
}

// Register mounts the routes on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/public-links", h.requireAuth(h.ensurePublicLink))
	mux.HandleFunc("POST /v1/billing/webhook", h.billingWebhook)
	mux.HandleFunc("POST /v1/resumes", h.requireAuth(h.createResume))
	mux.HandleFunc("GET /v1/resumes/{id}", h.requireAuth(h.getResume))
	mux.HandleFunc("GET /r/{slug}", h.resolvePublicLink)
	mux.HandleFunc("GET /health", h.health)
}

func (h *Handler) ensurePublicLink(w http.ResponseWriter, r *http.Request, userID string) {
	var req service.EnsurePublicLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, service.ErrInvalidInput)
		return
	}

	result, err := h.links.EnsurePublicLink(r.Context(), userID, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) billingWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, service.ErrInvalidInput)
		return
	}

	signature := r.Header.Get("Stripe-Signature")
	if err := h.events.HandleWebhook(r.Context(), payload, signature); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func (h *Handler) createResume(w http.ResponseWriter, r *http.Request, userID string) {
	var req service.CreateResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, service.ErrInvalidInput)
		return
	}

	resume, err := h.resumes.CreateResume(r.Context(), userID, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, resume)
}

func (h *Handler) getResume(w http.ResponseWriter, r *http.Request, userID string) {
	resume, err := h.resumes.GetResume(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resume)
}

func (h *Handler) resolvePublicLink(w http.ResponseWriter, r *http.Request) {
	resolved, err := h.links.ResolvePublicLink(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resolved)
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := statusFromError(err)
	if code >= http.StatusInternalServerError {
		logrus.Errorf("request failed: %v", err)
	}

	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrInvalidSignature):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrResumeNotFound), errors.Is(err, service.ErrLinkNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrLinkInactive):
		return http.StatusGone
	case errors.Is(err, service.ErrSlugConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrUpstream):
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}
