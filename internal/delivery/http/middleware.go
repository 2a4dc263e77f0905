package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/google/uuid"
)

type ctxKey string

const ctxKeyBusinessID ctxKey = "business_id"

// BusinessHeader carries the authenticated business, set by the gateway
// after it validates the session.
const BusinessHeader = "X-Business-Id"

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", reqID)
		next.ServeHTTP(w, r.WithContext(domain.WithRequestID(r.Context(), reqID)))
	})
}

func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic in handler", "path", r.URL.Path, "panic", rec, "request_id", domain.RequestIDFrom(r.Context()))
				writeError(w, http.StatusInternalServerError, string(domain.CodeInternal), "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", domain.RequestIDFrom(r.Context()),
		)
	})
}

func businessMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		businessID := strings.TrimSpace(r.Header.Get(BusinessHeader))
		if _, err := uuid.Parse(businessID); err != nil {
			writeError(w, http.StatusUnauthorized, string(domain.CodeUnauthorized), "missing or invalid business identity")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyBusinessID, businessID)))
	})
}

func businessFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(ctxKeyBusinessID).(string); ok {
		return s
	}
	return ""
}

func mapDomainError(err error) (int, string, string) {
	code := domain.CodeOf(err)
	switch code {
	case domain.CodeNotFound:
		return http.StatusNotFound, string(code), err.Error()
	case domain.CodeAlreadyPaid, domain.CodeAmountMismatch, domain.CodeInvalidInput:
		return http.StatusBadRequest, string(code), err.Error()
	case domain.CodeUnauthorized:
		return http.StatusUnauthorized, string(code), err.Error()
	default:
		return http.StatusInternalServerError, string(domain.CodeInternal), "internal server error"
	}
}
