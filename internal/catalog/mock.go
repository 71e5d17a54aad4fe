package catalog

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fireplay/fireplay-backend/pkg/pagination"
)

const (
	mockTotal    = 36
	mockDetailID = 999
)

var mockImages = []string{
	"https://media.rawg.io/media/games/456/456dea5e1c7e3cd07060c14e96612001.jpg",
	"https://media.rawg.io/media/games/618/618c2031a07bbff6b4f611f10b6bcdbc.jpg",
	"https://media.rawg.io/media/games/328/3283617cb7d75d67257fc58339188742.jpg",
	"https://media.rawg.io/media/games/021/021c4e21a1824d2526f925eff6324653.jpg",
	"https://media.rawg.io/media/games/7fa/7fa0b586293c5861ee32490e953a4996.jpg",
	"https://media.rawg.io/media/games/4be/4be6a6ad0364751a96229c56bf69be59.jpg",
	"https://media.rawg.io/media/games/fc1/fc1307a2774506b5bd65d7e8424664a7.jpg",
	"https://media.rawg.io/media/games/b45/b45575f34285f2c4479c9a5f719d972e.jpg",
	"https://media.rawg.io/media/games/d82/d82990b9c67ba0d2d09d4e6fa88885a7.jpg",
	"https://media.rawg.io/media/games/c4b/c4b0cab189e73432de3a250d8cf1c84e.jpg",
	"https://media.rawg.io/media/games/511/5118aff5091cb3efec399c808f8c598f.jpg",
	"https://media.rawg.io/media/games/b7d/b7d3f1715fa8381a4e780173a197a615.jpg",
	"https://media.rawg.io/media/games/f87/f87457e8347484033cb34cde6101d08d.jpg",
	"https://media.rawg.io/media/games/562/562553814dd54e001a541e4ee83a591c.jpg",
	"https://media.rawg.io/media/games/4cf/4cfc6b7f1850590a4634b08bfab308ab.jpg",
	"https://media.rawg.io/media/games/d58/d588947d4286e7b5e0e12e1bea7d9844.jpg",
	"https://media.rawg.io/media/games/8d6/8d69eb6c32ed6acfd75f82d532144993.jpg",
	"https://media.rawg.io/media/games/46d/46d98e6910fbc0706e2948a7cc9b10c5.jpg",
	"https://media.rawg.io/media/games/34b/34b1f1850a1c06fd971bc6ab3ac0ce0e.jpg",
	"https://media.rawg.io/media/games/b8c/b8c243eaa0fbac8115e0cdccac3f91dc.jpg",
	"https://media.rawg.io/media/games/310/3106b0e012271c5ffb16497b070be739.jpg",
	"https://media.rawg.io/media/games/4e0/4e0e7b6d6906a131307c94266e5c9a1c.jpg",
	"https://media.rawg.io/media/games/c24/c24ec439abf4a2e92f3429dfa83f7f94.jpg",
}

var mockGenres = []string{"Adventure", "RPG", "Strategy", "Sports", "Simulation"}

// MockSource is a deterministic offline catalog for development and tests: three pages of
// twelve games, small search result sets and a generated detail page for any slug.
type MockSource struct{}

func NewMockSource() *MockSource {
	return &MockSource{}
}

func (MockSource) ListGames(_ context.Context, params ListParams) (Page, error) {
	page := pagination.NormalizePage(params.Page)
	ordering := params.Ordering
	if ordering == "" {
		ordering = DefaultOrdering
	}

	results := []Game{}
	start := (page - 1) * pagination.DefaultPageSize
	for i := 0; i < pagination.DefaultPageSize && start+i < mockTotal; i++ {
		id := start + i + 1
		results = append(results, Game{
			ID:              id,
			Slug:            fmt.Sprintf("sample-game-%d", id),
			Name:            fmt.Sprintf("Sample Game %d", id),
			BackgroundImage: mockImage(id),
			Rating:          mockRating(ordering, i, id),
			Released:        mockReleased(ordering, i),
			RatingsCount:    100 + (id*137)%1000,
			Genres:          []Named{{ID: 1, Name: "Action"}, mockGenre(id)},
		})
	}
	if ordering.field() == "name" {
		sort.SliceStable(results, func(a, b int) bool {
			if ordering.descending() {
				return results[a].Name > results[b].Name
			}
			return results[a].Name < results[b].Name
		})
	}

	next, previous := pagination.Links(mockTotal, page, pagination.DefaultPageSize)
	return Page{Results: results, Count: mockTotal, Page: page, Next: next, Previous: previous}, nil
}

func (MockSource) SearchGames(_ context.Context, query string, page int) (Page, error) {
	query = strings.TrimSpace(query)
	count := 3 + seedOf(query)%3
	slugPart := strings.Join(strings.Fields(strings.ToLower(query)), "-")

	results := make([]Game, 0, count)
	for i := 0; i < count; i++ {
		results = append(results, Game{
			ID:              1000 + i,
			Slug:            fmt.Sprintf("result-%s-%d", slugPart, i+1),
			Name:            fmt.Sprintf("Result for %q %d", query, i+1),
			BackgroundImage: mockImage(seedOf(query + strconv.Itoa(i))),
			Rating:          3 + float64((seedOf(query)+i*7)%20)/10,
			Released:        fmt.Sprintf("%d-01-01", 2020+i),
			RatingsCount:    50 + (seedOf(query)*(i+1))%500,
			Genres:          []Named{{ID: 1, Name: "Action"}, {ID: 2, Name: "Adventure"}},
		})
	}
	return Page{Results: results, Count: count, Page: pagination.NormalizePage(page)}, nil
}

func (MockSource) GameBySlug(_ context.Context, slug string) (GameDetail, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return GameDetail{}, ErrGameNotFound
	}
	id := mockDetailID
	if idx := strings.LastIndex(slug, "-"); idx >= 0 {
		if parsed, err := strconv.Atoi(slug[idx+1:]); err == nil {
			id = parsed
		}
	}
	name := titleFromSlug(slug)

	return GameDetail{
		Game: Game{
			ID:              id,
			Slug:            slug,
			Name:            name,
			BackgroundImage: mockImage(id),
			Rating:          4.5,
			RatingsCount:    1250,
			Released:        "2023-01-01",
			Genres:          []Named{{ID: 1, Name: "Action"}, {ID: 2, Name: "Adventure"}, {ID: 3, Name: "RPG"}},
		},
		Description: fmt.Sprintf("<p>Sample description for <strong>%s</strong>, generated for development.</p>", name),
		Website:     "https://example.com",
		Platforms: []PlatformEntry{
			{
				Platform: Named{ID: 1, Name: "PC"},
				Requirements: &Requirements{
					Minimum:     "OS: Windows 10<br>Processor: Intel Core i5-2500K / AMD FX-6300<br>Memory: 8 GB RAM",
					Recommended: "OS: Windows 10<br>Processor: Intel Core i7-4770K / AMD Ryzen 5 1500X<br>Memory: 16 GB RAM",
				},
			},
			{Platform: Named{ID: 2, Name: "PlayStation 5"}},
			{Platform: Named{ID: 3, Name: "Xbox Series X"}},
		},
		Developers: []Named{{ID: 1, Name: "Sample Developer"}},
		Publishers: []Named{{ID: 1, Name: "Sample Publisher"}},
		ESRBRating: &Named{ID: 4, Name: "Mature"},
		Tags: []Named{
			{ID: 1, Name: "Action"},
			{ID: 2, Name: "Multiplayer"},
			{ID: 3, Name: "Open World"},
			{ID: 4, Name: "First-Person"},
			{ID: 5, Name: "Co-op"},
		},
		Screenshots: []Screenshot{
			{ID: 1, Image: mockImage(id + 100)},
			{ID: 2, Image: mockImage(id + 200)},
			{ID: 3, Image: mockImage(id + 300)},
			{ID: 4, Image: mockImage(id + 400)},
		},
	}, nil
}

func mockRating(ordering Ordering, position, id int) float64 {
	if ordering.field() == "rating" {
		if ordering.descending() {
			return 5 - float64(position)*0.2
		}
		return 3 + float64(position)*0.2
	}
	return 3 + float64((id*37)%20)/10
}

func mockReleased(ordering Ordering, position int) string {
	if ordering.field() == "released" {
		if ordering.descending() {
			return fmt.Sprintf("%d-01-01", 2023-position)
		}
		return fmt.Sprintf("%d-01-01", 2010+position)
	}
	return "2023-01-01"
}

func mockGenre(id int) Named {
	i := id % len(mockGenres)
	return Named{ID: i + 2, Name: mockGenres[i]}
}

func mockImage(seed int) string {
	if seed < 0 {
		seed = -seed
	}
	return mockImages[seed%len(mockImages)]
}

func seedOf(s string) int {
	sum := 0
	for _, r := range s {
		sum += int(r)
	}
	return sum
}

func titleFromSlug(slug string) string {
	words := strings.Fields(strings.ReplaceAll(slug, "-", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
