package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/izposoja/internal/auth"
	"github.com/erazemk/izposoja/internal/metrics"
)

// UserHeader carries the acting user's id.
const UserHeader = "X-Sharer-User-Id"

// RequestIDHeader carries the request id, generated when the client sends none.
const RequestIDHeader = "X-Request-Id"

type contextKey string

const (
	userIDKey    contextKey = "user_id"
	requestIDKey contextKey = "request_id"
)

// RequireUser resolves the acting user from the user header or from a bearer
// token and adds the id to the request context. The id is trusted as given.
func RequireUser(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var userID int64

			if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
				id, err := auth.ValidateToken(secret, strings.TrimPrefix(header, "Bearer "))
				if err != nil {
					jsonError(w, http.StatusUnauthorized, "invalid token")
					return
				}
				userID = id
			} else {
				raw := r.Header.Get(UserHeader)
				if raw == "" {
					jsonError(w, http.StatusBadRequest, "missing "+UserHeader+" header")
					return
				}
				id, err := strconv.ParseInt(raw, 10, 64)
				if err != nil || id <= 0 {
					jsonError(w, http.StatusBadRequest, "invalid "+UserHeader+" header")
					return
				}
				userID = id
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID returns the acting user's id from the context, or 0.
func GetUserID(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey).(int64)
	return id
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware tags each request with an id, logs it with its status
// and duration, and records the duration in m. m may be nil.
func LoggingMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)
			r = r.WithContext(context.WithValue(r.Context(), requestIDKey, id))

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			elapsed := time.Since(start)
			m.ObserveHTTP(r.Method, rec.status, elapsed)
			slog.Info("http request",
				"method", r.Method,
				"uri", r.URL.RequestURI(),
				"status", rec.status,
				"duration", elapsed.Round(time.Millisecond),
				"request_id", id,
			)
		})
	}
}
