package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fireplay/fireplay-backend/pkg/config"
	"github.com/fireplay/fireplay-backend/pkg/pagination"
	"github.com/sethvargo/go-retry"
)

const rawgRetryBase = 200 * time.Millisecond

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RAWGSource reads the catalog from the RAWG game-data API.
type RAWGSource struct {
	baseURL    *url.URL
	apiKey     string
	client     httpDoer
	maxRetries uint64
	retryBase  time.Duration
}

func NewRAWGSource(cfg config.CatalogConfig, client httpDoer) (*RAWGSource, error) {
	if strings.TrimSpace(cfg.RAWGAPIKey) == "" {
		return nil, errors.New("rawg api key is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.RAWGBaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid rawg base url %q", cfg.RAWGBaseURL)
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.RequestTimeout}
	}
	return &RAWGSource{
		baseURL:    base,
		apiKey:     cfg.RAWGAPIKey,
		client:     client,
		maxRetries: cfg.MaxRetries,
		retryBase:  rawgRetryBase,
	}, nil
}

type rawgList struct {
	Count   int    `json:"count"`
	Results []Game `json:"results"`
}

type rawgScreenshots struct {
	Results []Screenshot `json:"results"`
}

func (s *RAWGSource) ListGames(ctx context.Context, params ListParams) (Page, error) {
	page := pagination.NormalizePage(params.Page)
	ordering := params.Ordering
	if ordering == "" {
		ordering = DefaultOrdering
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pagination.DefaultPageSize))
	q.Set("ordering", string(ordering))
	return s.list(ctx, q, page)
}

func (s *RAWGSource) SearchGames(ctx context.Context, query string, page int) (Page, error) {
	page = pagination.NormalizePage(page)
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pagination.DefaultPageSize))
	q.Set("search", query)
	return s.list(ctx, q, page)
}

func (s *RAWGSource) list(ctx context.Context, q url.Values, page int) (Page, error) {
	var body rawgList
	if err := s.getJSON(ctx, "games", q, &body); err != nil {
		return Page{}, err
	}
	if body.Results == nil {
		body.Results = []Game{}
	}
	next, previous := pagination.Links(body.Count, page, pagination.DefaultPageSize)
	return Page{Results: body.Results, Count: body.Count, Page: page, Next: next, Previous: previous}, nil
}

// GameBySlug fetches the game and its screenshots. A screenshot failure leaves the list
// empty instead of failing the page.
func (s *RAWGSource) GameBySlug(ctx context.Context, slug string) (GameDetail, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return GameDetail{}, ErrGameNotFound
	}
	var detail GameDetail
	if err := s.getJSON(ctx, "games/"+url.PathEscape(slug), nil, &detail); err != nil {
		return GameDetail{}, err
	}

	var shots rawgScreenshots
	if err := s.getJSON(ctx, "games/"+url.PathEscape(slug)+"/screenshots", nil, &shots); err == nil {
		detail.Screenshots = shots.Results
	}
	if detail.Screenshots == nil {
		detail.Screenshots = []Screenshot{}
	}
	return detail, nil
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("rawg responded with status %d", e.code)
}

func (s *RAWGSource) getJSON(ctx context.Context, path string, q url.Values, dest any) error {
	if q == nil {
		q = url.Values{}
	}
	q.Set("key", s.apiKey)
	endpoint := s.baseURL.JoinPath(path)
	endpoint.RawQuery = q.Encode()

	backoff := retry.WithMaxRetries(s.maxRetries, retry.NewExponential(s.retryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
		if err != nil {
			return err
		}
		resp, err := s.client.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return ErrGameNotFound
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			_, _ = io.Copy(io.Discard, resp.Body)
			return retry.RetryableError(&statusError{code: resp.StatusCode})
		case resp.StatusCode >= 400:
			return &statusError{code: resp.StatusCode}
		}
		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			return fmt.Errorf("decoding rawg response: %w", err)
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrGameNotFound) {
		return fmt.Errorf("rawg %s: %w", path, err)
	}
	return err
}
