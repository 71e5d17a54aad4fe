package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/fireplay/fireplay-backend/internal/identity"
	"github.com/fireplay/fireplay-backend/pkg/logger"
	"github.com/fireplay/fireplay-backend/pkg/metrics"
)

// EngineParams groups the dependencies of an Engine.
type EngineParams struct {
	Local   LocalStore
	Remote  RemoteRepository
	Logger  *logger.Logger
	Metrics *metrics.CartMetrics
}

// Engine owns the in-memory cart of one device session. Mutations apply immediately and
// return the new cart; store writes happen in the background and never fail the caller.
type Engine struct {
	mu       sync.Mutex
	identity identity.Identity
	lines    []Line
	seq      uint64

	local   LocalStore
	remote  RemoteRepository
	persist *persister
	logg    *logger.Logger
	metrics *metrics.CartMetrics
}

func NewEngine(params EngineParams) (*Engine, error) {
	if params.Local == nil {
		return nil, errors.New("local cart store is required")
	}
	if params.Remote == nil {
		return nil, errors.New("remote cart repository is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Engine{
		identity: identity.Anonymous(),
		local:    params.Local,
		remote:   params.Remote,
		persist:  newPersister(params.Local, params.Remote, logg, params.Metrics),
		logg:     logg,
		metrics:  params.Metrics,
	}, nil
}

// Initialize replaces the in-memory cart with the copy applicable to id: the account copy
// when identified (falling back to the device copy if the read fails), the device copy
// otherwise. Missing or malformed data yields an empty cart. Nothing is written.
func (e *Engine) Initialize(ctx context.Context, id identity.Identity) Cart {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.identity = id
	e.lines = e.load(ctx, id)
	return e.snapshotLocked()
}

// OnIdentityChanged reloads from the store for the new identity. The current in-memory cart
// is discarded; an anonymous cart is not merged into the account cart on sign-in.
func (e *Engine) OnIdentityChanged(ctx context.Context, id identity.Identity) Cart {
	ctx = e.logg.WithField(ctx, "identity", id.String())
	e.logg.Info(ctx, "cart identity changed, reloading")
	return e.Initialize(ctx, id)
}

func (e *Engine) load(ctx context.Context, id identity.Identity) []Line {
	if !id.IsAnonymous() {
		lines, err := e.remote.Load(ctx, id.AccountID())
		switch {
		case err == nil:
			return lines
		case errors.Is(err, ErrMalformed):
			e.logg.Warn(e.logg.WithField(ctx, "error", err.Error()), "malformed account cart ignored")
			return nil
		default:
			e.metrics.IncRemoteFallback()
			e.logg.Warn(e.logg.WithField(ctx, "error", err.Error()), "account cart unavailable, using device cart")
		}
	}

	lines, err := e.local.Load(ctx)
	if err != nil {
		e.logg.Warn(e.logg.WithField(ctx, "error", err.Error()), "device cart unreadable, starting empty")
		return nil
	}
	return lines
}

// AddItem increments the quantity of an existing line, keeping its original price, or
// appends a new line with quantity 1.
func (e *Engine) AddItem(ctx context.Context, item Item) Cart {
	e.mu.Lock()
	defer e.mu.Unlock()

	if i := e.indexLocked(item.ProductID); i >= 0 {
		e.lines[i].Quantity++
	} else {
		e.lines = append(e.lines, Line{
			ProductID: item.ProductID,
			Name:      item.Name,
			Slug:      item.Slug,
			UnitPrice: item.UnitPrice,
			Image:     item.Image,
			Quantity:  1,
		})
	}
	return e.commitLocked(ctx)
}

// RemoveItem drops the line for productID if present.
func (e *Engine) RemoveItem(ctx context.Context, productID int) Cart {
	e.mu.Lock()
	defer e.mu.Unlock()

	if i := e.indexLocked(productID); i >= 0 {
		e.lines = append(e.lines[:i:i], e.lines[i+1:]...)
	}
	return e.commitLocked(ctx)
}

// UpdateQuantity sets the quantity of an existing line to max(1, quantity).
func (e *Engine) UpdateQuantity(ctx context.Context, productID, quantity int) Cart {
	e.mu.Lock()
	defer e.mu.Unlock()

	if i := e.indexLocked(productID); i >= 0 {
		e.lines[i].Quantity = max(1, quantity)
	}
	return e.commitLocked(ctx)
}

func (e *Engine) Clear(ctx context.Context) Cart {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.lines = nil
	return e.commitLocked(ctx)
}

// Snapshot returns a copy of the current cart.
func (e *Engine) Snapshot() Cart {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) Identity() identity.Identity {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.identity
}

// Wait blocks until background writes started so far have finished. Request paths never
// call it; tests and shutdown do.
func (e *Engine) Wait() {
	e.persist.wait()
}

func (e *Engine) commitLocked(ctx context.Context) Cart {
	e.seq++
	e.persist.schedule(ctx, snapshot{
		seq:      e.seq,
		identity: e.identity,
		lines:    cloneLines(e.lines),
	})
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Cart {
	return Cart{Lines: cloneLines(e.lines)}
}

func (e *Engine) indexLocked(productID int) int {
	for i, l := range e.lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}
