package controllers

import (
	"context"
	"net/http"

	"github.com/fireplay/fireplay-backend/api/middleware"
	"github.com/fireplay/fireplay-backend/api/responses"
	"github.com/fireplay/fireplay-backend/api/validators"
	"github.com/fireplay/fireplay-backend/internal/cart"
	"github.com/fireplay/fireplay-backend/internal/catalog"
	"github.com/fireplay/fireplay-backend/internal/identity"
	pkgerrors "github.com/fireplay/fireplay-backend/pkg/errors"
	"github.com/fireplay/fireplay-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// CartSessions hands out the requesting device's cart, bound to the caller's identity.
type CartSessions interface {
	Acquire(ctx context.Context, deviceID string, id identity.Identity) (*cart.DeviceCart, error)
}

// GameLookup resolves the product being added to the cart.
type GameLookup interface {
	GameBySlug(ctx context.Context, slug string) (catalog.GameDetail, error)
}

type addCartItemRequest struct {
	Slug string `json:"slug" validate:"required,max=200"`
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

func deviceCart(r *http.Request, sessions CartSessions) (*cart.DeviceCart, error) {
	ctx := r.Context()
	carts, err := sessions.Acquire(ctx, middleware.DeviceIDFromContext(ctx), middleware.IdentityFromContext(ctx))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cart unavailable")
	}
	return carts, nil
}

func CartGet(sessions CartSessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		carts, err := deviceCart(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, carts.Snapshot(r.Context()).View())
	}
}

// CartAddItem adds one unit of the game identified by slug. Name, image and price come from
// the catalog, never from the client.
func CartAddItem(sessions CartSessions, games GameLookup, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := games.GameBySlug(r.Context(), payload.Slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		carts, err := deviceCart(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot := carts.AddItem(r.Context(), cart.Item{
			ProductID: detail.ID,
			Name:      detail.Name,
			Slug:      detail.Slug,
			UnitPrice: detail.Price.Decimal,
			Image:     detail.BackgroundImage,
		})
		responses.WriteSuccess(w, snapshot.View())
	}
}

func CartUpdateQuantity(sessions CartSessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParsePathInt(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		carts, err := deviceCart(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, carts.UpdateQuantity(r.Context(), productID, *payload.Quantity).View())
	}
}

func CartRemoveItem(sessions CartSessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParsePathInt(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		carts, err := deviceCart(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, carts.RemoveItem(r.Context(), productID).View())
	}
}

func CartClear(sessions CartSessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		carts, err := deviceCart(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, carts.Clear(r.Context()).View())
	}
}
