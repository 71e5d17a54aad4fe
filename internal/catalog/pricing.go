package catalog

import (
	"github.com/shopspring/decimal"
)

var (
	basePrice      = decimal.RequireFromString("19.99")
	unratedPremium = decimal.NewFromInt(1)
	ratingSpan     = decimal.NewFromInt(30)
	maxRating      = decimal.NewFromInt(5)
)

// PriceFor derives the storefront price from a rating: 19.99 + rating/5*30, rounded to
// cents. Unrated games cost 20.99.
func PriceFor(rating float64) decimal.Decimal {
	if rating <= 0 {
		return basePrice.Add(unratedPremium)
	}
	r := decimal.NewFromFloat(rating)
	return basePrice.Add(r.Div(maxRating).Mul(ratingSpan)).Round(2)
}

func applyPrice(g *Game) {
	g.Price = Price{PriceFor(g.Rating)}
}

func applyPrices(games []Game) {
	for i := range games {
		applyPrice(&games[i])
	}
}
