package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/eugenenazirov/semparse-config/internal/parser"
	"github.com/eugenenazirov/semparse-config/internal/storage"
	"github.com/eugenenazirov/semparse-config/internal/training"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const (
	kindNumber  = "number"
	kindBoolean = "boolean"
)

// Handler wires the parser, value storage and training resolution into HTTP handlers.
type Handler struct {
	parser   parser.Parser
	storage  storage.Storage
	fallback training.Lookup

	clock func() time.Time

	mu              sync.RWMutex
	valuesUpdatedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithFallback sets the lookup consulted for keys missing from storage.
func WithFallback(lookup training.Lookup) HandlerOption {
	return func(h *Handler) {
		h.fallback = lookup
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(p parser.Parser, store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		parser:   p,
		storage:  store,
		fallback: training.EnvLookup,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.valuesUpdatedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	switch req.Kind {
	case kindBoolean:
		writeJSON(w, http.StatusOK, parseResponse{
			Kind:  req.Kind,
			Raw:   req.Value,
			Value: h.parser.ParseBoolean(req.Value),
		})
	case kindNumber:
		n, err := h.parser.ParseNumber(req.Value)
		if err != nil {
			if errors.Is(err, parser.ErrInvalidNumberFormat) {
				writeError(w, http.StatusUnprocessableEntity, "Invalid number format", err.Error(),
					"Use digits with an optional leading sign and at most one '.' separator")
				return
			}
			writeInternalError(w, err)
			return
		}
		integer := n.IsInteger()
		writeJSON(w, http.StatusOK, parseResponse{
			Kind:    req.Kind,
			Raw:     req.Value,
			Value:   n,
			Integer: &integer,
		})
	default:
		writeError(w, http.StatusBadRequest, "Invalid request", `kind must be "number" or "boolean"`)
	}
}

func (h *Handler) handleGetValues(w http.ResponseWriter, r *http.Request) {
	_ = r
	values, err := h.storage.GetValues()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, valuesResponse{
		Values:    values,
		UpdatedAt: h.currentValuesUpdatedAt(),
	})
}

func (h *Handler) handlePutValues(w http.ResponseWriter, r *http.Request) {
	var req valuesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if err := h.storage.SetValues(req.Values); err != nil {
		if errors.Is(err, storage.ErrInvalidValues) {
			writeError(w, http.StatusBadRequest, "Invalid values", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	h.markValuesUpdated()

	values, err := h.storage.GetValues()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, valuesResponse{
		Values:    values,
		UpdatedAt: h.currentValuesUpdatedAt(),
		Message:   "Values updated successfully",
	})
}

func (h *Handler) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	_ = r
	cfg, err := training.Resolve(training.Chain(h.storage, h.fallback))
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, configErrorResponse{
			Error:  "Configuration cannot be resolved",
			Errors: keyErrors(err),
		})
		return
	}
	writeJSON(w, http.StatusOK, cfg.Document())
}

func (h *Handler) currentValuesUpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.valuesUpdatedAt
}

func (h *Handler) markValuesUpdated() {
	h.mu.Lock()
	h.valuesUpdatedAt = h.clock()
	h.mu.Unlock()
}

// keyErrors flattens a resolution error into per-key messages.
func keyErrors(err error) map[string]string {
	out := make(map[string]string)
	var errs []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	} else {
		errs = []error{err}
	}
	for _, e := range errs {
		var keyErr *training.KeyError
		if errors.As(e, &keyErr) {
			out[keyErr.Key] = keyErr.Err.Error()
			continue
		}
		out["_"] = e.Error()
	}
	return out
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type parseRequest struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

type parseResponse struct {
	Kind    string `json:"kind"`
	Raw     string `json:"raw"`
	Value   any    `json:"value"`
	Integer *bool  `json:"integer,omitempty"`
}

type valuesRequest struct {
	Values map[string]string `json:"values"`
}

type valuesResponse struct {
	Values    map[string]string `json:"values"`
	UpdatedAt time.Time         `json:"updatedAt"`
	Message   string            `json:"message,omitempty"`
}

type configErrorResponse struct {
	Error  string            `json:"error"`
	Errors map[string]string `json:"errors"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
