package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/fireplay/fireplay-backend/pkg/config"
	"github.com/fireplay/fireplay-backend/pkg/logger"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Collection names shared by the document-backed repositories.
const (
	UsersCollection     = "users"
	FavoritesCollection = "favorites"
	MessagesCollection  = "messages"
)

var errNotInitialized = errors.New("firestore client not initialized")

// Client wraps the Firestore connection used for user carts, favorites and messages.
type Client struct {
	fs        *firestore.Client
	projectID string
}

// New opens a Firestore client. An empty credentials file falls back to ADC.
func New(ctx context.Context, cfg config.GCPConfig, logg *logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.ProjectID) == "" {
		return nil, errors.New("gcp project id is required")
	}
	fs, err := firestore.NewClient(ctx, cfg.ProjectID, ClientOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}
	if logg != nil {
		logg.Info(logg.WithField(ctx, "project_id", cfg.ProjectID), "firestore client initialized")
	}
	return &Client{fs: fs, projectID: cfg.ProjectID}, nil
}

// ClientOptions returns the shared GCP client options for the configured credentials.
func ClientOptions(cfg config.GCPConfig) []option.ClientOption {
	if strings.TrimSpace(cfg.CredentialsFile) == "" {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsFile(cfg.CredentialsFile)}
}

// Firestore returns the raw SDK client.
func (c *Client) Firestore() *firestore.Client {
	if c == nil {
		return nil
	}
	return c.fs
}

// Ping performs a cheap read since Firestore has no ping RPC.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.fs == nil {
		return errNotInitialized
	}
	iter := c.fs.Collections(ctx)
	if _, err := iter.Next(); err != nil && !isIteratorDone(err) {
		return fmt.Errorf("firestore ping: %w", err)
	}
	return nil
}

// Close releases the client.
func (c *Client) Close() error {
	if c == nil || c.fs == nil {
		return nil
	}
	return c.fs.Close()
}

// IsNotFound reports whether err is a Firestore NotFound status.
func IsNotFound(err error) bool {
	return err != nil && status.Code(err) == codes.NotFound
}
