package favorites

import (
	"time"

	"github.com/fireplay/fireplay-backend/internal/catalog"
)

// Favorite is a game saved by an account, stored at users/{uid}/favorites/{gameId}.
type Favorite struct {
	ID              int             `firestore:"id" json:"id"`
	Slug            string          `firestore:"slug" json:"slug"`
	Name            string          `firestore:"name" json:"name"`
	BackgroundImage string          `firestore:"background_image,omitempty" json:"background_image,omitempty"`
	Rating          float64         `firestore:"rating" json:"rating"`
	Released        string          `firestore:"released,omitempty" json:"released,omitempty"`
	Genres          []catalog.Named `firestore:"genres,omitempty" json:"genres,omitempty"`
	AddedAt         time.Time       `firestore:"addedAt,serverTimestamp" json:"added_at"`
}

// FromGame copies the listing fields of a catalog game. AddedAt is left zero so the
// store assigns it.
func FromGame(g catalog.Game) Favorite {
	return Favorite{
		ID:              g.ID,
		Slug:            g.Slug,
		Name:            g.Name,
		BackgroundImage: g.BackgroundImage,
		Rating:          g.Rating,
		Released:        g.Released,
		Genres:          g.Genres,
	}
}
