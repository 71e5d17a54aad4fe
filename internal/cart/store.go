package cart

import "context"

// LocalStore is the device-scoped cart copy. Each instance owns one fixed key.
// Load returns (nil, nil) when nothing is stored and an error wrapping ErrMalformed when the
// stored value cannot be decoded.
type LocalStore interface {
	Load(ctx context.Context) ([]Line, error)
	Save(ctx context.Context, lines []Line) error
	Delete(ctx context.Context) error
}

// RemoteRepository is the account-scoped cart copy. Load returns (nil, nil) for accounts
// without a stored cart.
type RemoteRepository interface {
	Load(ctx context.Context, accountID string) ([]Line, error)
	Save(ctx context.Context, accountID string, lines []Line) error
}

// LocalStoreFactory builds the local store for a device.
type LocalStoreFactory func(deviceID string) LocalStore
