package middleware

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"

	"github.com/fireplay/fireplay-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// Inbound ids from proxies are echoed back only when they look like an id.
var requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{8,64}$`)

// RequestID propagates a caller supplied X-Request-Id or mints a uuid, echoes it on the
// response and attaches it to the request logger.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(requestIDHeader)
			if !requestIDPattern.MatchString(reqID) {
				reqID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
