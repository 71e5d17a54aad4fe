package messages

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"cloud.google.com/go/firestore"
	fsclient "github.com/fireplay/fireplay-backend/pkg/firestore"
)

type Repository interface {
	// Create stores msg and sets its ID.
	Create(ctx context.Context, msg *Message) error
	ListByUser(ctx context.Context, userID string) ([]Message, error)
}

type firestoreRepository struct {
	messages *firestore.CollectionRef
}

func NewFirestoreRepository(client *firestore.Client) (Repository, error) {
	if client == nil {
		return nil, errors.New("firestore client is required")
	}
	return &firestoreRepository{messages: client.Collection(fsclient.MessagesCollection)}, nil
}

func (r *firestoreRepository) Create(ctx context.Context, msg *Message) error {
	ref := r.messages.NewDoc()
	if _, err := ref.Create(ctx, msg); err != nil {
		return fmt.Errorf("creating message: %w", err)
	}
	msg.ID = ref.ID
	return nil
}

// ListByUser returns the user's messages, newest first. Sorting happens here so the
// equality query needs no composite index.
func (r *firestoreRepository) ListByUser(ctx context.Context, userID string) ([]Message, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errors.New("user id is required")
	}
	iter := r.messages.Where("userId", "==", userID).Documents(ctx)
	defer iter.Stop()

	out := []Message{}
	for {
		snap, err := iter.Next()
		if fsclient.IsDone(err) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing messages: %w", err)
		}
		var msg Message
		if err := snap.DataTo(&msg); err != nil {
			return nil, fmt.Errorf("decoding message %s: %w", snap.Ref.ID, err)
		}
		msg.ID = snap.Ref.ID
		out = append(out, msg)
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(msgs []Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].CreatedAt.After(msgs[j].CreatedAt)
	})
}
