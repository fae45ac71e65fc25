package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/wkusuma/customs-case-management/pkg/logger"
)

func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		// inject into context
		ctx := logger.With(r.Context(), "request_id", requestID)

		// propagate back to response
		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
