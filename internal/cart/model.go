package cart

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrMalformed marks stored cart data that could not be decoded. Callers treat it as absent.
var ErrMalformed = errors.New("malformed cart data")

// Line is one product entry. ProductID is unique within a cart and UnitPrice is fixed when the
// line is first added.
type Line struct {
	ProductID int             `json:"id"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	UnitPrice decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
	Quantity  int             `json:"quantity"`
}

// MarshalJSON writes price as a JSON number so stored snapshots stay readable by any client.
func (l Line) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ProductID int         `json:"id"`
		Name      string      `json:"name"`
		Slug      string      `json:"slug"`
		UnitPrice json.Number `json:"price"`
		Image     string      `json:"image,omitempty"`
		Quantity  int         `json:"quantity"`
	}{
		ProductID: l.ProductID,
		Name:      l.Name,
		Slug:      l.Slug,
		UnitPrice: json.Number(l.UnitPrice.String()),
		Image:     l.Image,
		Quantity:  l.Quantity,
	})
}

// Total is UnitPrice * Quantity.
func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Item is the input of AddItem.
type Item struct {
	ProductID int
	Name      string
	Slug      string
	UnitPrice decimal.Decimal
	Image     string
}

// Cart is an ordered, read-only view of the cart lines.
type Cart struct {
	Lines []Line
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// ItemCount is the sum of line quantities.
func (c Cart) ItemCount() int {
	count := 0
	for _, l := range c.Lines {
		count += l.Quantity
	}
	return count
}

// Subtotal is the sum of unit price times quantity.
func (c Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Total())
	}
	return total
}

// FormattedSubtotal renders the subtotal with two decimal places, e.g. "39.98".
func (c Cart) FormattedSubtotal() string {
	return c.Subtotal().StringFixed(2)
}

// Line looks up the line for productID.
func (c Cart) Line(productID int) (Line, bool) {
	for _, l := range c.Lines {
		if l.ProductID == productID {
			return l, true
		}
	}
	return Line{}, false
}

// EncodeLines serializes lines as the JSON array stored by every cart store. A nil slice
// encodes as [].
func EncodeLines(lines []Line) ([]byte, error) {
	if lines == nil {
		lines = []Line{}
	}
	return json.Marshal(lines)
}

// DecodeLines parses a stored JSON array. Lines that break the cart invariants are repaired:
// duplicates keep the first occurrence and quantities are floored at 1.
func DecodeLines(data []byte) ([]Line, error) {
	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return normalize(lines), nil
}

func normalize(lines []Line) []Line {
	out := make([]Line, 0, len(lines))
	seen := make(map[int]struct{}, len(lines))
	for _, l := range lines {
		if _, dup := seen[l.ProductID]; dup {
			continue
		}
		seen[l.ProductID] = struct{}{}
		if l.Quantity < 1 {
			l.Quantity = 1
		}
		out = append(out, l)
	}
	return out
}

func cloneLines(lines []Line) []Line {
	if len(lines) == 0 {
		return nil
	}
	out := make([]Line, len(lines))
	copy(out, lines)
	return out
}
