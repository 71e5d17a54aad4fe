package controllers

import (
	"net/http"

	"github.com/fireplay/fireplay-backend/api/middleware"
	"github.com/fireplay/fireplay-backend/api/responses"
	"github.com/fireplay/fireplay-backend/internal/dashboard"
	"github.com/fireplay/fireplay-backend/pkg/logger"
)

func Dashboard(svc *dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		summary, err := svc.Summary(ctx, middleware.DeviceIDFromContext(ctx), middleware.IdentityFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
