package catalog

import (
	"strings"

	pkgerrors "github.com/fireplay/fireplay-backend/pkg/errors"
)

// Ordering is a catalog sort key understood by the game-data API.
type Ordering string

const (
	OrderRatingDesc   Ordering = "-rating"
	OrderRatingAsc    Ordering = "rating"
	OrderReleasedDesc Ordering = "-released"
	OrderReleasedAsc  Ordering = "released"
	OrderNameAsc      Ordering = "name"
	OrderNameDesc     Ordering = "-name"

	DefaultOrdering = OrderRatingDesc
)

var validOrderings = map[Ordering]struct{}{
	OrderRatingDesc:   {},
	OrderRatingAsc:    {},
	OrderReleasedDesc: {},
	OrderReleasedAsc:  {},
	OrderNameAsc:      {},
	OrderNameDesc:     {},
}

// ParseOrdering returns DefaultOrdering for an empty value and a validation error for
// unknown keys.
func ParseOrdering(raw string) (Ordering, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultOrdering, nil
	}
	o := Ordering(raw)
	if _, ok := validOrderings[o]; !ok {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "unsupported ordering").
			WithDetails(map[string]any{"ordering": raw})
	}
	return o, nil
}

func (o Ordering) descending() bool {
	return strings.HasPrefix(string(o), "-")
}

func (o Ordering) field() string {
	return strings.TrimPrefix(string(o), "-")
}
