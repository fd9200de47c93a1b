package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/modelgate/modelgate"
	"github.com/modelgate/modelgate/internal/logging"
	"github.com/modelgate/modelgate/internal/metrics"
	"github.com/modelgate/modelgate/internal/requestlog"
	"github.com/modelgate/modelgate/internal/secrets"
)

// Caller-facing error messages. Internal detail is logged, never
// returned.
const (
	msgMissingFields    = "Missing 'prompt' or 'target_model' in request body"
	msgInvalidTarget    = "Invalid target_model, choose 'bedrock' or 'azure'"
	msgMethodNotAllowed = "Method Not Allowed, only POST supported"
	msgInternalError    = "Internal server error"
)

type dispatchHandler struct {
	dispatcher *modelgate.Dispatcher
	audit      requestlog.Writer
	timeout    time.Duration
}

// newRouter builds the HTTP router. The dispatch endpoint is POST-only;
// any other method on it answers 405 with the JSON error envelope.
func newRouter(d *modelgate.Dispatcher, audit requestlog.Writer, timeout time.Duration) http.Handler {
	h := &dispatchHandler{dispatcher: d, audit: audit, timeout: timeout}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(logging.Middleware)
	r.Use(jsonRecoverer)

	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found")
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/v1/invoke", h.serve)

	return r
}

// serve runs one activation: decode, dispatch, write exactly one of
// ProviderResponse or the error envelope.
func (h *dispatchHandler) serve(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req modelgate.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, msgMissingFields)
		h.record(r, req, http.StatusBadRequest, "malformed request body", start)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	resp, err := h.dispatcher.Dispatch(ctx, req)
	if err != nil {
		status, msg := classify(err)
		if status == http.StatusInternalServerError {
			logging.FromContext(ctx).Error("dispatch failed", "error", err)
			metrics.DispatchErrors.WithLabelValues(targetLabel(req), errorStage(err)).Inc()
		}
		writeError(w, status, msg)
		h.record(r, req, status, err.Error(), start)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
	h.record(r, req, http.StatusOK, "", start)
}

// record updates metrics and the audit store for a finished activation.
func (h *dispatchHandler) record(r *http.Request, req modelgate.Request, status int, errMsg string, start time.Time) {
	target := targetLabel(req)
	elapsed := time.Since(start)
	metrics.DispatchesTotal.WithLabelValues(target, strconv.Itoa(status)).Inc()
	metrics.DispatchDuration.WithLabelValues(target).Observe(elapsed.Seconds())
	_ = h.audit.Write(r.Context(), requestlog.Entry{
		TraceID:      logging.TraceIDFromContext(r.Context()),
		Target:       target,
		Status:       status,
		DurationMS:   elapsed.Milliseconds(),
		ErrorMessage: errMsg,
	})
}

// classify maps a pipeline error onto a status code and caller-facing
// message. Credential and provider failures deliberately share the
// generic 500 body; the distinction is kept in logs and metrics.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, modelgate.ErrMissingFields):
		return http.StatusBadRequest, msgMissingFields
	case errors.Is(err, modelgate.ErrUnknownTarget):
		return http.StatusBadRequest, msgInvalidTarget
	}
	return http.StatusInternalServerError, msgInternalError
}

// errorStage names the pipeline stage a 500-class error came from, for
// the dispatch_errors metric.
func errorStage(err error) string {
	var lookupErr *secrets.LookupError
	var formatErr *secrets.FormatError
	switch {
	case errors.As(err, &lookupErr), errors.As(err, &formatErr):
		return "credentials"
	case errors.Is(err, context.DeadlineExceeded):
		return "provider"
	}
	if strings.Contains(err.Error(), "invoke") {
		return "provider"
	}
	return "internal"
}

// targetLabel keeps metric label cardinality bounded: only the known
// targets appear as-is, anything else collapses to "invalid".
func targetLabel(req modelgate.Request) string {
	if req.TargetModel == "" {
		return "none"
	}
	target, err := modelgate.ParseTarget(req.TargetModel)
	if err != nil {
		return "invalid"
	}
	return string(target)
}

// writeError writes the JSON error envelope.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// jsonRecoverer converts panics into the generic 500 envelope so every
// response carries exactly one of ProviderResponse or ErrorResponse.
func jsonRecoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logging.FromContext(r.Context()).Error("panic in handler", "panic", rec)
				writeError(w, http.StatusInternalServerError, msgInternalError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
