package favorites

import (
	"context"
	"fmt"

	"github.com/fireplay/fireplay-backend/internal/catalog"
	"github.com/fireplay/fireplay-backend/internal/identity"
	pkgerrors "github.com/fireplay/fireplay-backend/pkg/errors"
	"github.com/fireplay/fireplay-backend/pkg/logger"
)

// GameLookup resolves a slug to catalog data. catalog.Service satisfies it.
type GameLookup interface {
	GameBySlug(ctx context.Context, slug string) (catalog.GameDetail, error)
}

// ToggleResult reports the favorite state after a toggle.
type ToggleResult struct {
	GameID   int  `json:"game_id"`
	Favorite bool `json:"favorite"`
}

type Service interface {
	Toggle(ctx context.Context, id identity.Identity, slug string) (ToggleResult, error)
	IsFavorite(ctx context.Context, id identity.Identity, gameID int) (bool, error)
	List(ctx context.Context, id identity.Identity) ([]Favorite, error)
}

type service struct {
	repo  Repository
	games GameLookup
	logg  *logger.Logger
}

func NewService(repo Repository, games GameLookup, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("favorites repository required")
	}
	if games == nil {
		return nil, fmt.Errorf("game lookup required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, games: games, logg: logg}, nil
}

// Toggle stores the game's catalog snapshot, so the favorites page renders without
// calling the catalog again.
func (s *service) Toggle(ctx context.Context, id identity.Identity, slug string) (ToggleResult, error) {
	if err := requireAccount(id); err != nil {
		return ToggleResult{}, err
	}
	detail, err := s.games.GameBySlug(ctx, slug)
	if err != nil {
		return ToggleResult{}, err
	}
	added, err := s.repo.Toggle(ctx, id.AccountID(), FromGame(detail.Game))
	if err != nil {
		return ToggleResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "toggle favorite failed")
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"game_id": detail.ID, "favorite": added}), "favorite toggled")
	return ToggleResult{GameID: detail.ID, Favorite: added}, nil
}

func (s *service) IsFavorite(ctx context.Context, id identity.Identity, gameID int) (bool, error) {
	if err := requireAccount(id); err != nil {
		return false, err
	}
	if gameID <= 0 {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "game id must be positive")
	}
	ok, err := s.repo.Exists(ctx, id.AccountID(), gameID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read favorite failed")
	}
	return ok, nil
}

func (s *service) List(ctx context.Context, id identity.Identity) ([]Favorite, error) {
	if err := requireAccount(id); err != nil {
		return nil, err
	}
	favs, err := s.repo.List(ctx, id.AccountID())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list favorites failed")
	}
	return favs, nil
}

func requireAccount(id identity.Identity) error {
	if id.IsAnonymous() {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to manage favorites")
	}
	return nil
}
