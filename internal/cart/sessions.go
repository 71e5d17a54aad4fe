package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fireplay/fireplay-backend/internal/identity"
	"github.com/fireplay/fireplay-backend/pkg/logger"
	"github.com/fireplay/fireplay-backend/pkg/metrics"
)

// SessionsParams groups the dependencies of the device session registry.
type SessionsParams struct {
	LocalStores LocalStoreFactory
	Remote      RemoteRepository
	IdleTTL     time.Duration
	Logger      *logger.Logger
	Metrics     *metrics.CartMetrics
}

type session struct {
	// mu serializes identity switches and cart operations for one device.
	mu          sync.Mutex
	engine      *Engine
	holder      *identity.Holder
	unsubscribe func()
	started     bool
	lastSeen    time.Time
}

// bindLocked makes id the device's identity, reloading the engine when it differs from the
// one the last request carried. Callers hold sess.mu.
func (sess *session) bindLocked(ctx context.Context, id identity.Identity) {
	if !sess.started {
		sess.started = true
		sess.holder.Set(ctx, id)
		sess.engine.Initialize(ctx, id)
		engine := sess.engine
		sess.unsubscribe = sess.holder.Subscribe(func(ctx context.Context, next identity.Identity) {
			engine.OnIdentityChanged(ctx, next)
		})
		return
	}
	sess.holder.Set(ctx, id)
	// An evicted session has no listener left; requests still holding it reload directly.
	if !sess.engine.Identity().Equal(id) {
		sess.engine.OnIdentityChanged(ctx, id)
	}
}

// Sessions keeps one Engine per device. Each engine follows its device's identity holder, so
// a sign-in or sign-out observed on any request reloads that device's cart.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*session
	draining sync.WaitGroup

	newLocal LocalStoreFactory
	remote   RemoteRepository
	idleTTL  time.Duration
	now      func() time.Time
	logg     *logger.Logger
	metrics  *metrics.CartMetrics
}

func NewSessions(params SessionsParams) (*Sessions, error) {
	if params.LocalStores == nil {
		return nil, errors.New("local store factory is required")
	}
	if params.Remote == nil {
		return nil, errors.New("remote cart repository is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Sessions{
		sessions: map[string]*session{},
		newLocal: params.LocalStores,
		remote:   params.Remote,
		idleTTL:  params.IdleTTL,
		now:      time.Now,
		logg:     logg,
		metrics:  params.Metrics,
	}, nil
}

// Acquire returns the cart of deviceID bound to id, creating and loading the device's engine
// on first use. The device's identity switches to id immediately.
func (s *Sessions) Acquire(ctx context.Context, deviceID string, id identity.Identity) (*DeviceCart, error) {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return nil, errors.New("device id is required")
	}

	sess, err := s.lookup(deviceID, id)
	if err != nil {
		return nil, err
	}

	// Loads must not be cut short by the request that happened to trigger them.
	sess.mu.Lock()
	sess.bindLocked(context.WithoutCancel(ctx), id)
	sess.mu.Unlock()
	return &DeviceCart{sess: sess, id: id}, nil
}

func (s *Sessions) lookup(deviceID string, id identity.Identity) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[deviceID]; ok {
		sess.lastSeen = s.now()
		return sess, nil
	}

	local := s.newLocal(deviceID)
	if local == nil {
		return nil, fmt.Errorf("no local store for device %q", deviceID)
	}
	engine, err := NewEngine(EngineParams{
		Local:   local,
		Remote:  s.remote,
		Logger:  s.logg,
		Metrics: s.metrics,
	})
	if err != nil {
		return nil, err
	}
	sess := &session{
		engine:   engine,
		holder:   identity.NewHolder(id),
		lastSeen: s.now(),
	}
	s.sessions[deviceID] = sess
	s.metrics.SetSessions(len(s.sessions))
	return sess, nil
}

// DeviceCart is one request's handle on a device cart, bound to the identity that request
// carries. Each call first switches the device back to that identity if another request
// moved it, so a read or write never lands in another account's cart.
type DeviceCart struct {
	sess *session
	id   identity.Identity
}

func (c *DeviceCart) run(ctx context.Context, op func(e *Engine) Cart) Cart {
	c.sess.mu.Lock()
	defer c.sess.mu.Unlock()
	c.sess.bindLocked(context.WithoutCancel(ctx), c.id)
	return op(c.sess.engine)
}

func (c *DeviceCart) Snapshot(ctx context.Context) Cart {
	return c.run(ctx, func(e *Engine) Cart { return e.Snapshot() })
}

func (c *DeviceCart) AddItem(ctx context.Context, item Item) Cart {
	return c.run(ctx, func(e *Engine) Cart { return e.AddItem(ctx, item) })
}

func (c *DeviceCart) RemoveItem(ctx context.Context, productID int) Cart {
	return c.run(ctx, func(e *Engine) Cart { return e.RemoveItem(ctx, productID) })
}

func (c *DeviceCart) UpdateQuantity(ctx context.Context, productID, quantity int) Cart {
	return c.run(ctx, func(e *Engine) Cart { return e.UpdateQuantity(ctx, productID, quantity) })
}

func (c *DeviceCart) Clear(ctx context.Context) Cart {
	return c.run(ctx, func(e *Engine) Cart { return e.Clear(ctx) })
}

// Wait blocks until the device's background writes have finished.
func (c *DeviceCart) Wait() {
	c.sess.engine.Wait()
}

// Len is the number of sessions held in memory.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// EvictIdle drops sessions unused for longer than the idle TTL. Their carts stay in the
// stores; pending writes are allowed to finish.
func (s *Sessions) EvictIdle() int {
	if s.idleTTL <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	var evicted []*session
	for deviceID, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			evicted = append(evicted, sess)
			delete(s.sessions, deviceID)
		}
	}
	s.metrics.SetSessions(len(s.sessions))
	s.mu.Unlock()

	for _, sess := range evicted {
		sess.mu.Lock()
		if sess.unsubscribe != nil {
			sess.unsubscribe()
		}
		sess.mu.Unlock()
		s.draining.Add(1)
		go func(e *Engine) {
			defer s.draining.Done()
			e.Wait()
		}(sess.engine)
	}
	return len(evicted)
}

// RunJanitor evicts idle sessions every interval until ctx is cancelled.
func (s *Sessions) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.EvictIdle(); n > 0 {
				s.logg.Debug(s.logg.WithField(ctx, "evicted", n), "idle cart sessions evicted")
			}
		}
	}
}

// Wait blocks until every background cart write has completed.
func (s *Sessions) Wait() {
	s.mu.Lock()
	engines := make([]*Engine, 0, len(s.sessions))
	for _, sess := range s.sessions {
		engines = append(engines, sess.engine)
	}
	s.mu.Unlock()

	for _, e := range engines {
		e.Wait()
	}
	s.draining.Wait()
}
