package controllers

import (
	"net/http"

	"github.com/fireplay/fireplay-backend/api/middleware"
	"github.com/fireplay/fireplay-backend/api/responses"
	"github.com/fireplay/fireplay-backend/api/validators"
	"github.com/fireplay/fireplay-backend/internal/messages"
	"github.com/fireplay/fireplay-backend/pkg/logger"
)

// ContactSubmit accepts the contact form from anonymous and signed-in visitors.
func ContactSubmit(svc messages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload messages.SubmitInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		msg, err := svc.Submit(r.Context(), middleware.IdentityFromContext(r.Context()), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, msg)
	}
}

func MessagesList(svc messages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListForUser(r.Context(), middleware.IdentityFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}
