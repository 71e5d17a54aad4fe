package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/fireplay/fireplay-backend/pkg/errors"
	"github.com/fireplay/fireplay-backend/pkg/logger"
	"github.com/fireplay/fireplay-backend/pkg/metrics"
	"github.com/fireplay/fireplay-backend/pkg/pagination"
)

const maxQueryLength = 200

// Cache stores serialized source responses. pkg/redis.Client satisfies it.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CacheKey(scope string, parts ...string) string
}

// Service exposes the priced catalog to handlers.
type Service interface {
	ListGames(ctx context.Context, params ListParams) (Page, error)
	SearchGames(ctx context.Context, query string, page int) (Page, error)
	GameBySlug(ctx context.Context, slug string) (GameDetail, error)
}

// ServiceParams groups dependencies for the catalog service. Cache and Metrics are optional.
type ServiceParams struct {
	Source   Source
	Cache    Cache
	CacheTTL time.Duration
	Logger   *logger.Logger
	Metrics  *metrics.CatalogMetrics
}

type service struct {
	source   Source
	cache    Cache
	cacheTTL time.Duration
	logg     *logger.Logger
	metrics  *metrics.CatalogMetrics
}

func NewService(params ServiceParams) (Service, error) {
	if params.Source == nil {
		return nil, fmt.Errorf("catalog source required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		source:   params.Source,
		cache:    params.Cache,
		cacheTTL: params.CacheTTL,
		logg:     logg,
		metrics:  params.Metrics,
	}, nil
}

func (s *service) ListGames(ctx context.Context, params ListParams) (Page, error) {
	params.Page = pagination.NormalizePage(params.Page)
	if params.Ordering == "" {
		params.Ordering = DefaultOrdering
	}
	if _, err := ParseOrdering(string(params.Ordering)); err != nil {
		return Page{}, err
	}

	var page Page
	key := []string{"page=" + strconv.Itoa(params.Page), "ordering=" + string(params.Ordering)}
	err := s.cached(ctx, "list", key, &page, func(ctx context.Context) (any, error) {
		return s.source.ListGames(ctx, params)
	})
	if err != nil {
		return Page{}, s.sourceError(err, "list games")
	}
	applyPrices(page.Results)
	return page, nil
}

func (s *service) SearchGames(ctx context.Context, query string, page int) (Page, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Page{}, pkgerrors.New(pkgerrors.CodeValidation, "search query is required")
	}
	if len(query) > maxQueryLength {
		return Page{}, pkgerrors.New(pkgerrors.CodeValidation, "search query is too long")
	}
	page = pagination.NormalizePage(page)

	var result Page
	key := []string{"q=" + strings.ToLower(query), "page=" + strconv.Itoa(page)}
	err := s.cached(ctx, "search", key, &result, func(ctx context.Context) (any, error) {
		return s.source.SearchGames(ctx, query, page)
	})
	if err != nil {
		return Page{}, s.sourceError(err, "search games")
	}
	applyPrices(result.Results)
	return result, nil
}

func (s *service) GameBySlug(ctx context.Context, slug string) (GameDetail, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return GameDetail{}, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}

	var detail GameDetail
	err := s.cached(ctx, "detail", []string{slug}, &detail, func(ctx context.Context) (any, error) {
		return s.source.GameBySlug(ctx, slug)
	})
	if err != nil {
		return GameDetail{}, s.sourceError(err, "get game")
	}
	applyPrice(&detail.Game)
	return detail, nil
}

// cached fills dest from the cache or, on a miss, from fetch, storing the result. Cache
// failures are logged and bypassed.
func (s *service) cached(ctx context.Context, operation string, parts []string, dest any, fetch func(context.Context) (any, error)) error {
	var key string
	if s.cache != nil {
		key = s.cache.CacheKey("catalog", append([]string{operation}, parts...)...)
		raw, err := s.cache.Get(ctx, key)
		if err == nil {
			if jsonErr := json.Unmarshal([]byte(raw), dest); jsonErr == nil {
				s.metrics.IncCacheHit(operation)
				return nil
			}
		}
		s.metrics.IncCacheMiss(operation)
	}

	started := time.Now()
	value, err := fetch(ctx)
	s.metrics.ObserveUpstream(operation, time.Since(started).Seconds())
	if err != nil {
		return err
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding catalog response: %w", err)
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("decoding catalog response: %w", err)
	}
	if s.cache != nil && s.cacheTTL > 0 {
		if err := s.cache.Set(ctx, key, string(payload), s.cacheTTL); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "catalog cache write failed")
		}
	}
	return nil
}

func (s *service) sourceError(err error, action string) error {
	if errors.Is(err, ErrGameNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "game not found")
	}
	if errors.Is(err, context.Canceled) {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, action)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action+" failed")
}
