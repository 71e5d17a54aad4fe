package controllers

import (
	"net/http"
	"strings"

	"github.com/fireplay/fireplay-backend/api/responses"
	"github.com/fireplay/fireplay-backend/api/validators"
	"github.com/fireplay/fireplay-backend/internal/catalog"
	pkgerrors "github.com/fireplay/fireplay-backend/pkg/errors"
	"github.com/fireplay/fireplay-backend/pkg/logger"
	"github.com/fireplay/fireplay-backend/pkg/pagination"
	"github.com/go-chi/chi/v5"
)

// GamesList serves one page of the catalog, ordered by ?ordering.
func GamesList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParseQueryInt(r, "page", 1, 1, pagination.MaxPage)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ordering, err := catalog.ParseOrdering(r.URL.Query().Get("ordering"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListGames(r.Context(), catalog.ListParams{Page: page, Ordering: ordering})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func GameDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		detail, err := svc.GameBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

func GamesSearch(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "search query is required").WithDetails(map[string]any{"field": "q"}))
			return
		}
		page, err := validators.ParseQueryInt(r, "page", 1, 1, pagination.MaxPage)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.SearchGames(r.Context(), query, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
