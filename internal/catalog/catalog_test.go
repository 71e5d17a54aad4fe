package catalog

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	pkgerrors "github.com/fireplay/fireplay-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

func TestPriceFor(t *testing.T) {
	cases := []struct {
		rating float64
		want   string
	}{
		{rating: 0, want: "20.99"},
		{rating: -1, want: "20.99"},
		{rating: 4.5, want: "46.99"},
		{rating: 5, want: "49.99"},
		{rating: 2.5, want: "34.99"},
		{rating: 3.333, want: "39.99"},
		{rating: 4.47, want: "46.81"},
	}
	for _, tc := range cases {
		got := PriceFor(tc.rating)
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("PriceFor(%v) = %s, want %s", tc.rating, got, tc.want)
		}
	}
}

func TestPriceMarshalsAsNumber(t *testing.T) {
	payload, err := json.Marshal(Game{ID: 1, Slug: "a", Name: "A", Price: Price{decimal.RequireFromString("20.9")}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(payload), `"price":20.90`) {
		t.Fatalf("unexpected json %s", payload)
	}
	var back Game
	if err := json.Unmarshal(payload, &back); err != nil || !back.Price.Equal(decimal.RequireFromString("20.9")) {
		t.Fatalf("unexpected decode %+v err=%v", back, err)
	}
}

func TestParseOrdering(t *testing.T) {
	for _, raw := range []string{"-rating", "rating", "-released", "released", "name", "-name"} {
		if o, err := ParseOrdering(raw); err != nil || string(o) != raw {
			t.Fatalf("ParseOrdering(%q) = %q, %v", raw, o, err)
		}
	}
	if o, err := ParseOrdering(" "); err != nil || o != DefaultOrdering {
		t.Fatalf("empty ordering should default, got %q %v", o, err)
	}
	if _, err := ParseOrdering("-price"); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMockListGamesPages(t *testing.T) {
	src := NewMockSource()
	ctx := context.Background()

	first, _ := src.ListGames(ctx, ListParams{Page: 1})
	if len(first.Results) != 12 || first.Count != 36 || first.Previous != nil || first.Next == nil || *first.Next != 2 {
		t.Fatalf("unexpected first page %+v", first)
	}
	if first.Results[0].ID != 1 || first.Results[0].Rating != 5 {
		t.Fatalf("default ordering should rank highest rating first, got %+v", first.Results[0])
	}

	last, _ := src.ListGames(ctx, ListParams{Page: 3, Ordering: OrderReleasedAsc})
	if last.Next != nil || last.Previous == nil || *last.Previous != 2 {
		t.Fatalf("unexpected last page links %+v", last)
	}
	if last.Results[0].ID != 25 || last.Results[0].Released != "2010-01-01" {
		t.Fatalf("unexpected last page first game %+v", last.Results[0])
	}

	beyond, _ := src.ListGames(ctx, ListParams{Page: 4})
	if len(beyond.Results) != 0 {
		t.Fatalf("expected no games beyond the catalog, got %d", len(beyond.Results))
	}

	byName, _ := src.ListGames(ctx, ListParams{Page: 1, Ordering: OrderNameDesc})
	for i := 1; i < len(byName.Results); i++ {
		if byName.Results[i-1].Name < byName.Results[i].Name {
			t.Fatalf("results not sorted by name desc: %q before %q", byName.Results[i-1].Name, byName.Results[i].Name)
		}
	}
}

func TestMockSearchIsDeterministic(t *testing.T) {
	src := NewMockSource()
	a, _ := src.SearchGames(context.Background(), "Zelda Breath", 1)
	b, _ := src.SearchGames(context.Background(), "Zelda Breath", 1)
	if a.Count < 3 || a.Count > 5 || a.Count != len(a.Results) {
		t.Fatalf("unexpected result count %d", a.Count)
	}
	if a.Count != b.Count || a.Results[0].Rating != b.Results[0].Rating {
		t.Fatal("search should be deterministic")
	}
	if a.Results[0].Slug != "result-zelda-breath-1" || a.Results[0].ID != 1000 {
		t.Fatalf("unexpected first result %+v", a.Results[0])
	}
}

func TestMockGameBySlug(t *testing.T) {
	src := NewMockSource()
	detail, err := src.GameBySlug(context.Background(), "sample-game-7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.ID != 7 || detail.Name != "Sample Game 7" || len(detail.Screenshots) != 4 {
		t.Fatalf("unexpected detail %+v", detail.Game)
	}

	detail, _ = src.GameBySlug(context.Background(), "portal")
	if detail.ID != 999 {
		t.Fatalf("slug without numeric suffix should use 999, got %d", detail.ID)
	}
	if _, err := src.GameBySlug(context.Background(), ""); err != ErrGameNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
