package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/fireplay/fireplay-backend/pkg/config"
	"github.com/fireplay/fireplay-backend/pkg/logger"
	"github.com/google/uuid"
)

const deviceCookieMaxAge = 365 * 24 * time.Hour

// DeviceCookie identifies the browser profile. A missing or malformed cookie is replaced
// with a fresh uuid.
func DeviceCookie(cfg config.CartConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	name := strings.TrimSpace(cfg.DeviceCookieName)
	if name == "" {
		name = "fp_device"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			deviceID := ""
			if c, err := r.Cookie(name); err == nil {
				if parsed, err := uuid.Parse(c.Value); err == nil {
					deviceID = parsed.String()
				}
			}
			if deviceID == "" {
				deviceID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     name,
					Value:    deviceID,
					Path:     "/",
					MaxAge:   int(deviceCookieMaxAge.Seconds()),
					HttpOnly: true,
					Secure:   cfg.CookieSecure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := WithDeviceID(r.Context(), deviceID)
			if logg != nil {
				ctx = logg.WithDeviceID(ctx, deviceID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
