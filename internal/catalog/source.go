package catalog

import (
	"context"
	"errors"
)

// ErrGameNotFound is returned by sources for unknown slugs.
var ErrGameNotFound = errors.New("game not found")

// ListParams selects one catalog page.
type ListParams struct {
	Page     int
	Ordering Ordering
}

// Source supplies raw catalog data. Prices are applied by the Service.
type Source interface {
	ListGames(ctx context.Context, params ListParams) (Page, error)
	SearchGames(ctx context.Context, query string, page int) (Page, error)
	GameBySlug(ctx context.Context, slug string) (GameDetail, error)
}
