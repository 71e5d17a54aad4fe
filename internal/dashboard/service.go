package dashboard

import (
	"context"
	"fmt"

	"github.com/fireplay/fireplay-backend/internal/cart"
	"github.com/fireplay/fireplay-backend/internal/favorites"
	"github.com/fireplay/fireplay-backend/internal/identity"
	"github.com/fireplay/fireplay-backend/internal/messages"
	pkgerrors "github.com/fireplay/fireplay-backend/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// CartSessions hands out the device's cart. *cart.Sessions satisfies it.
type CartSessions interface {
	Acquire(ctx context.Context, deviceID string, id identity.Identity) (*cart.DeviceCart, error)
}

// Summary is the account overview page.
type Summary struct {
	AccountID     string               `json:"account_id"`
	Favorites     []favorites.Favorite `json:"favorites"`
	FavoriteCount int                  `json:"favorite_count"`
	Messages      []messages.Message   `json:"messages"`
	MessageCount  int                  `json:"message_count"`
	Cart          cart.View            `json:"cart"`
}

type Service struct {
	favorites favorites.Service
	messages  messages.Service
	carts     CartSessions
}

func NewService(favs favorites.Service, msgs messages.Service, carts CartSessions) (*Service, error) {
	if favs == nil || msgs == nil || carts == nil {
		return nil, fmt.Errorf("dashboard requires favorites, messages and cart sessions")
	}
	return &Service{favorites: favs, messages: msgs, carts: carts}, nil
}

// Summary loads the three sections concurrently; any failure fails the whole page.
func (s *Service) Summary(ctx context.Context, deviceID string, id identity.Identity) (Summary, error) {
	if id.IsAnonymous() {
		return Summary{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to view the dashboard")
	}

	var (
		favs []favorites.Favorite
		msgs []messages.Message
		view cart.View
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		favs, err = s.favorites.List(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		msgs, err = s.messages.ListForUser(gctx, id)
		return err
	})
	g.Go(func() error {
		carts, err := s.carts.Acquire(gctx, deviceID, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cart unavailable")
		}
		view = carts.Snapshot(gctx).View()
		return nil
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	return Summary{
		AccountID:     id.AccountID(),
		Favorites:     favs,
		FavoriteCount: len(favs),
		Messages:      msgs,
		MessageCount:  len(msgs),
		Cart:          view,
	}, nil
}
