package favorites

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"cloud.google.com/go/firestore"
	fsclient "github.com/fireplay/fireplay-backend/pkg/firestore"
)

// Repository persists favorites per account.
type Repository interface {
	// Toggle removes the favorite when present, otherwise stores it. It returns the new state.
	Toggle(ctx context.Context, accountID string, fav Favorite) (bool, error)
	Exists(ctx context.Context, accountID string, gameID int) (bool, error)
	List(ctx context.Context, accountID string) ([]Favorite, error)
}

type firestoreRepository struct {
	client *firestore.Client
}

func NewFirestoreRepository(client *firestore.Client) (Repository, error) {
	if client == nil {
		return nil, errors.New("firestore client is required")
	}
	return &firestoreRepository{client: client}, nil
}

func (r *firestoreRepository) collection(accountID string) *firestore.CollectionRef {
	return r.client.Collection(fsclient.UsersCollection).Doc(accountID).Collection(fsclient.FavoritesCollection)
}

func (r *firestoreRepository) Toggle(ctx context.Context, accountID string, fav Favorite) (bool, error) {
	if strings.TrimSpace(accountID) == "" {
		return false, errors.New("account id is required")
	}
	ref := r.collection(accountID).Doc(strconv.Itoa(fav.ID))

	var added bool
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil && !fsclient.IsNotFound(err) {
			return err
		}
		if snap != nil && snap.Exists() {
			added = false
			return tx.Delete(ref)
		}
		added = true
		return tx.Set(ref, fav)
	})
	if err != nil {
		return false, fmt.Errorf("toggling favorite %d: %w", fav.ID, err)
	}
	return added, nil
}

func (r *firestoreRepository) Exists(ctx context.Context, accountID string, gameID int) (bool, error) {
	snap, err := r.collection(accountID).Doc(strconv.Itoa(gameID)).Get(ctx)
	if err != nil {
		if fsclient.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("reading favorite %d: %w", gameID, err)
	}
	return snap.Exists(), nil
}

func (r *firestoreRepository) List(ctx context.Context, accountID string) ([]Favorite, error) {
	iter := r.collection(accountID).OrderBy("addedAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	out := []Favorite{}
	for {
		snap, err := iter.Next()
		if fsclient.IsDone(err) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing favorites: %w", err)
		}
		var fav Favorite
		if err := snap.DataTo(&fav); err != nil {
			return nil, fmt.Errorf("decoding favorite %s: %w", snap.Ref.ID, err)
		}
		out = append(out, fav)
	}
	return out, nil
}
