package catalog

import (
	"github.com/shopspring/decimal"
)

// Price is a decimal amount rendered as a JSON number with two decimals.
type Price struct {
	decimal.Decimal
}

func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.StringFixed(2)), nil
}

func (p *Price) UnmarshalJSON(data []byte) error {
	return p.Decimal.UnmarshalJSON(data)
}

// Named is an {id, name} pair used for genres, tags, developers and publishers.
type Named struct {
	ID   int    `json:"id" firestore:"id"`
	Name string `json:"name" firestore:"name"`
}

type Requirements struct {
	Minimum     string `json:"minimum,omitempty"`
	Recommended string `json:"recommended,omitempty"`
}

type PlatformEntry struct {
	Platform     Named         `json:"platform"`
	Requirements *Requirements `json:"requirements,omitempty"`
}

type Screenshot struct {
	ID    int    `json:"id"`
	Image string `json:"image"`
}

// Game is a catalog listing entry.
type Game struct {
	ID              int     `json:"id"`
	Slug            string  `json:"slug"`
	Name            string  `json:"name"`
	Released        string  `json:"released,omitempty"`
	BackgroundImage string  `json:"background_image,omitempty"`
	Rating          float64 `json:"rating"`
	RatingsCount    int     `json:"ratings_count"`
	Genres          []Named `json:"genres,omitempty"`
	Price           Price   `json:"price"`
}

// GameDetail is the product page view of a game.
type GameDetail struct {
	Game
	Description string          `json:"description,omitempty"`
	Website     string          `json:"website,omitempty"`
	Platforms   []PlatformEntry `json:"platforms,omitempty"`
	Developers  []Named         `json:"developers,omitempty"`
	Publishers  []Named         `json:"publishers,omitempty"`
	ESRBRating  *Named          `json:"esrb_rating,omitempty"`
	Tags        []Named         `json:"tags,omitempty"`
	Screenshots []Screenshot    `json:"screenshots"`
}

// Page is one page of catalog results. Next and Previous are page numbers, nil at the ends.
type Page struct {
	Results  []Game `json:"results"`
	Count    int    `json:"count"`
	Page     int    `json:"page"`
	Next     *int   `json:"next"`
	Previous *int   `json:"previous"`
}
