package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fireplay/fireplay-backend/internal/cart"
	"github.com/fireplay/fireplay-backend/internal/favorites"
	"github.com/fireplay/fireplay-backend/internal/identity"
	"github.com/fireplay/fireplay-backend/internal/messages"
	pkgerrors "github.com/fireplay/fireplay-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

type stubFavorites struct {
	favorites.Service
	list []favorites.Favorite
	err  error
}

func (s stubFavorites) List(context.Context, identity.Identity) ([]favorites.Favorite, error) {
	return s.list, s.err
}

type stubMessages struct {
	messages.Service
	list []messages.Message
}

func (s stubMessages) ListForUser(context.Context, identity.Identity) ([]messages.Message, error) {
	return s.list, nil
}

type accountCarts map[string][]cart.Line

func (a accountCarts) Load(_ context.Context, accountID string) ([]cart.Line, error) {
	return a[accountID], nil
}

func (a accountCarts) Save(context.Context, string, []cart.Line) error {
	return nil
}

func newSessions(t *testing.T, remote cart.RemoteRepository) *cart.Sessions {
	t.Helper()
	sessions, err := cart.NewSessions(cart.SessionsParams{
		LocalStores: cart.NewMemoryLocalStores().Factory(),
		Remote:      remote,
		IdleTTL:     time.Minute,
	})
	if err != nil {
		t.Fatalf("NewSessions: %v", err)
	}
	t.Cleanup(sessions.Wait)
	return sessions
}

func TestSummaryCombinesSections(t *testing.T) {
	remote := accountCarts{"u1": {{ProductID: 1, Name: "Game A", Slug: "game-a", UnitPrice: decimal.RequireFromString("19.99"), Quantity: 2}}}
	favs := stubFavorites{list: []favorites.Favorite{{ID: 1}, {ID: 2}}}
	msgs := stubMessages{list: []messages.Message{{ID: "m1"}}}

	svc, err := NewService(favs, msgs, newSessions(t, remote))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	summary, err := svc.Summary(context.Background(), "device-1", identity.Account("u1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.FavoriteCount != 2 || summary.MessageCount != 1 || summary.AccountID != "u1" {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if summary.Cart.ItemCount != 2 || summary.Cart.Subtotal != "39.98" {
		t.Fatalf("unexpected cart view %+v", summary.Cart)
	}
}

func TestSummaryRequiresAccount(t *testing.T) {
	svc, _ := NewService(stubFavorites{}, stubMessages{}, newSessions(t, accountCarts{}))
	if _, err := svc.Summary(context.Background(), "device-1", identity.Anonymous()); !pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestSummaryFailsWhenASectionFails(t *testing.T) {
	boom := pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("firestore down"), "list favorites failed")
	svc, _ := NewService(stubFavorites{err: boom}, stubMessages{}, newSessions(t, accountCarts{}))
	if _, err := svc.Summary(context.Background(), "device-1", identity.Account("u1")); !pkgerrors.HasCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestSummaryRejectsMissingDevice(t *testing.T) {
	svc, _ := NewService(stubFavorites{}, stubMessages{}, newSessions(t, accountCarts{}))
	if _, err := svc.Summary(context.Background(), "", identity.Account("u1")); !pkgerrors.HasCode(err, pkgerrors.CodeInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
}
