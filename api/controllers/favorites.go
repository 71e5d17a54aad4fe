package controllers

import (
	"net/http"

	"github.com/fireplay/fireplay-backend/api/middleware"
	"github.com/fireplay/fireplay-backend/api/responses"
	"github.com/fireplay/fireplay-backend/api/validators"
	"github.com/fireplay/fireplay-backend/internal/favorites"
	"github.com/fireplay/fireplay-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type toggleFavoriteRequest struct {
	Slug string `json:"slug" validate:"required,max=200"`
}

func FavoritesList(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context(), middleware.IdentityFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func FavoriteStatus(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID, err := validators.ParsePathInt(chi.URLParam(r, "gameId"), "gameId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ok, err := svc.IsFavorite(r.Context(), middleware.IdentityFromContext(r.Context()), gameID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, favorites.ToggleResult{GameID: gameID, Favorite: ok})
	}
}

func FavoriteToggle(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload toggleFavoriteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.Toggle(r.Context(), middleware.IdentityFromContext(r.Context()), payload.Slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
