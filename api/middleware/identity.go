package middleware

import (
	"net/http"
	"strings"

	"github.com/fireplay/fireplay-backend/api/responses"
	"github.com/fireplay/fireplay-backend/internal/identity"
	pkgerrors "github.com/fireplay/fireplay-backend/pkg/errors"
	"github.com/fireplay/fireplay-backend/pkg/logger"
)

// Identity resolves an optional bearer token. No Authorization header means anonymous; a
// token that fails verification is rejected.
func Identity(verifier identity.Verifier, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity.Anonymous())))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" || verifier == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			id, err := verifier.Verify(r.Context(), token)
			if err != nil {
				if pkgerrors.As(err) == nil {
					err = pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
				}
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithIdentity(r.Context(), id)
			if logg != nil && !id.IsAnonymous() {
				ctx = logg.WithAccountID(ctx, id.AccountID())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAccount rejects anonymous callers.
func RequireAccount(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IdentityFromContext(r.Context()).IsAnonymous() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
