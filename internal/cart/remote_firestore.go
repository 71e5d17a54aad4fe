package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	fsclient "github.com/fireplay/fireplay-backend/pkg/firestore"
)

const (
	cartField      = "cart"
	updatedAtField = "updatedAt"
)

// FirestoreRemoteRepository stores account carts on the users/{accountID} document.
type FirestoreRemoteRepository struct {
	users *firestore.CollectionRef
}

func NewFirestoreRemoteRepository(client *firestore.Client) (*FirestoreRemoteRepository, error) {
	if client == nil {
		return nil, errors.New("firestore client is required")
	}
	return &FirestoreRemoteRepository{users: client.Collection(fsclient.UsersCollection)}, nil
}

func (r *FirestoreRemoteRepository) Load(ctx context.Context, accountID string) ([]Line, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, errors.New("account id is required")
	}
	snap, err := r.users.Doc(accountID).Get(ctx)
	if err != nil {
		return cartFromDocument(nil, err)
	}
	return cartFromDocument(snap, nil)
}

// cartDocument is the slice of a user document snapshot the cart reads.
type cartDocument interface {
	DataAt(path string) (any, error)
}

// cartFromDocument maps the result of reading a user document to lines. A missing document
// or cart field is an empty cart.
func cartFromDocument(doc cartDocument, getErr error) ([]Line, error) {
	if getErr != nil {
		if fsclient.IsNotFound(getErr) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading account cart: %w", getErr)
	}
	raw, err := doc.DataAt(cartField)
	if err != nil || raw == nil {
		return nil, nil
	}
	return linesFromFirestore(raw)
}

func (r *FirestoreRemoteRepository) Save(ctx context.Context, accountID string, lines []Line) error {
	if strings.TrimSpace(accountID) == "" {
		return errors.New("account id is required")
	}
	_, err := r.users.Doc(accountID).Set(ctx, map[string]any{
		cartField:      linesToFirestore(lines),
		updatedAtField: firestore.ServerTimestamp,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("writing account cart: %w", err)
	}
	return nil
}

// linesToFirestore maps lines to plain document values. Prices are stored as doubles, which
// is what other clients of the same document read and write.
func linesToFirestore(lines []Line) []any {
	out := make([]any, 0, len(lines))
	for _, l := range lines {
		m := map[string]any{
			"id":       int64(l.ProductID),
			"name":     l.Name,
			"slug":     l.Slug,
			"price":    l.UnitPrice.InexactFloat64(),
			"quantity": int64(l.Quantity),
		}
		if l.Image != "" {
			m["image"] = l.Image
		}
		out = append(out, m)
	}
	return out
}

// linesFromFirestore decodes the document's cart array through the shared JSON path so
// both stores apply the same malformed-data rules.
func linesFromFirestore(raw any) ([]Line, error) {
	payload, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return DecodeLines(payload)
}
