package cart

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestLineJSONUsesStoredFieldNames(t *testing.T) {
	payload, err := EncodeLines([]Line{{ProductID: 1, Name: "Game A", Slug: "game-a", UnitPrice: decimal.RequireFromString("19.99"), Quantity: 2}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got := string(payload)
	want := `[{"id":1,"name":"Game A","slug":"game-a","price":19.99,"quantity":2}]`
	if got != want {
		t.Fatalf("unexpected json\n got %s\nwant %s", got, want)
	}

	withImage, _ := json.Marshal(Line{ProductID: 2, UnitPrice: decimal.NewFromInt(20), Image: "x.jpg", Quantity: 1})
	if !strings.Contains(string(withImage), `"image":"x.jpg"`) || !strings.Contains(string(withImage), `"price":20`) {
		t.Fatalf("unexpected json %s", withImage)
	}
}

func TestEncodeNilLinesIsEmptyArray(t *testing.T) {
	payload, err := EncodeLines(nil)
	if err != nil || string(payload) != "[]" {
		t.Fatalf("expected [], got %s err=%v", payload, err)
	}
}

func TestDecodeLinesAcceptsNumbersAndStrings(t *testing.T) {
	lines, err := DecodeLines([]byte(`[{"id":1,"name":"A","slug":"a","price":19.99,"quantity":1},{"id":2,"name":"B","slug":"b","price":"5.50","quantity":3,"image":"b.png"}]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(lines) != 2 || !lines[0].UnitPrice.Equal(decimal.RequireFromString("19.99")) || !lines[1].UnitPrice.Equal(decimal.RequireFromString("5.5")) {
		t.Fatalf("unexpected lines %+v", lines)
	}
	if lines[1].Image != "b.png" {
		t.Fatalf("image not decoded: %+v", lines[1])
	}
}

func TestDecodeLinesRepairsInvariants(t *testing.T) {
	lines, err := DecodeLines([]byte(`[{"id":1,"price":1,"quantity":0},{"id":1,"price":9,"quantity":5},{"id":2,"price":2,"quantity":-4}]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("duplicates should collapse, got %+v", lines)
	}
	if lines[0].Quantity != 1 || !lines[0].UnitPrice.Equal(decimal.NewFromInt(1)) || lines[1].Quantity != 1 {
		t.Fatalf("unexpected repaired lines %+v", lines)
	}
}

func TestDecodeLinesMalformed(t *testing.T) {
	for _, raw := range []string{"", "{", `{"id":1}`, `[{"id":"x"}]`, `[{"price":"abc"}]`} {
		if _, err := DecodeLines([]byte(raw)); !errors.Is(err, ErrMalformed) {
			t.Fatalf("DecodeLines(%q) expected ErrMalformed, got %v", raw, err)
		}
	}
}

func TestCartTotals(t *testing.T) {
	cart := Cart{Lines: []Line{
		{ProductID: 1, UnitPrice: decimal.RequireFromString("19.99"), Quantity: 2},
		{ProductID: 2, UnitPrice: decimal.RequireFromString("20.99"), Quantity: 1},
	}}
	if cart.ItemCount() != 3 {
		t.Fatalf("expected 3 items, got %d", cart.ItemCount())
	}
	if cart.FormattedSubtotal() != "60.97" {
		t.Fatalf("unexpected subtotal %s", cart.FormattedSubtotal())
	}
	if (Cart{}).FormattedSubtotal() != "0.00" {
		t.Fatalf("empty subtotal should be 0.00, got %s", (Cart{}).FormattedSubtotal())
	}
}

func TestOrderedSkipsStaleSnapshots(t *testing.T) {
	var o ordered
	var written []uint64
	write := func(seq uint64) func() error {
		return func() error {
			written = append(written, seq)
			return nil
		}
	}

	if skipped, _ := o.apply(2, write(2)); skipped {
		t.Fatal("first snapshot should be written")
	}
	if skipped, _ := o.apply(1, write(1)); !skipped {
		t.Fatal("older snapshot should be skipped")
	}
	if skipped, _ := o.apply(3, write(3)); skipped {
		t.Fatal("newer snapshot should be written")
	}
	if len(written) != 2 || written[0] != 2 || written[1] != 3 {
		t.Fatalf("unexpected writes %v", written)
	}

	failing := errors.New("boom")
	if _, err := o.apply(4, func() error { return failing }); !errors.Is(err, failing) {
		t.Fatalf("expected write error, got %v", err)
	}
	if skipped, _ := o.apply(4, write(4)); !skipped {
		t.Fatal("a failed sequence is still consumed")
	}
}
