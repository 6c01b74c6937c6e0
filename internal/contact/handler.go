// Package contact implements the contact-form submission endpoint: CORS and
// body-size gates, per-client rate limiting, payload validation, a honeypot
// spam check, and dispatch of the notification email.
package contact

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/relaykit/contact-relay/internal/config"
	"github.com/relaykit/contact-relay/internal/logging"
	"github.com/relaykit/contact-relay/internal/mailer"
	"github.com/relaykit/contact-relay/internal/ratelimit"
)

const (
	msgTooManyRequests = "Too many requests. Please try again in a minute."
	msgInvalidForm     = "Invalid form data"
	msgDispatchFailed  = "Failed to send message. Please try again later."

	retryAfterSeconds = "60"
)

type errorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

type successResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
}

// Handler serves POST submissions. All collaborators are injected so tests
// can isolate the limiter and fake the mailer.
type Handler struct {
	limiter        *ratelimit.Limiter
	mailer         mailer.Mailer
	validate       *validator.Validate
	maxBody        int64
	mailFrom       string
	mailTo         string
	allowedOrigins []string
}

func NewHandler(cfg *config.Config, limiter *ratelimit.Limiter, m mailer.Mailer) *Handler {
	return &Handler{
		limiter:        limiter,
		mailer:         m,
		validate:       newValidator(),
		maxBody:        int64(cfg.MaxBodyKB) * 1024,
		mailFrom:       cfg.MailFrom,
		mailTo:         cfg.ContactTo,
		allowedOrigins: cfg.AllowedOrigins,
	}
}

// HandlePreflight answers CORS preflight for the submission endpoint.
func (h *Handler) HandlePreflight(w http.ResponseWriter, r *http.Request) {
	h.applyCORS(w, r)
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.WriteHeader(http.StatusNoContent)
}

// HandleSubmit runs the submission pipeline: rate check, decode and
// validate, honeypot, dispatch.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	if !h.applyCORS(w, r) {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "origin not allowed"})
		return
	}

	key := clientKey(r)
	if !h.limiter.Allow(key) {
		logger.Warn("submission rate limited", "client", key)
		w.Header().Set("Retry-After", retryAfterSeconds)
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: msgTooManyRequests})
		return
	}

	var sub Submission
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "payload too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgInvalidForm})
		return
	}

	if details := validateSubmission(h.validate, sub); details != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgInvalidForm, Details: details})
		return
	}

	// Honeypot: a filled hidden field means a bot. Respond exactly as a
	// real success so the sender cannot tell it was discarded.
	if sub.Website != "" {
		logger.Debug("honeypot tripped, suppressing dispatch", "client", key)
		writeJSON(w, http.StatusOK, successResponse{Success: true})
		return
	}

	// Detach from the request context: if the caller disconnects mid-send
	// the message should still go out.
	msg := composeMessage(sub, h.mailFrom, h.mailTo)
	id, err := h.mailer.Send(context.WithoutCancel(r.Context()), msg)
	if err != nil {
		logger.Error("email dispatch failed", "err", err, "client", key)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgDispatchFailed})
		return
	}

	logger.Info("submission dispatched", "id", id, "client", key)
	writeJSON(w, http.StatusOK, successResponse{Success: true, ID: id})
}

// applyCORS sets the response headers for an allowed origin and reports
// whether the request may proceed. Requests without an Origin header and
// deployments without an origin list always pass.
func (h *Handler) applyCORS(w http.ResponseWriter, r *http.Request) bool {
	if len(h.allowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, ao := range h.allowedOrigins {
		if ao == "*" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			return true
		}
		if ao == origin {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			return true
		}
	}
	return false
}

// clientKey buckets rate-limit state per submitter: first forwarded hop,
// then X-Real-IP, then the socket peer. Proxy headers can be spoofed; the
// deployment platform is expected to set them.
func clientKey(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		first, _, _ := strings.Cut(xf, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if rip := strings.TrimSpace(r.Header.Get("X-Real-IP")); rip != "" {
		return rip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return "unknown"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
