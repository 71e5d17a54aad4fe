package cart

import (
	"context"
	"sync"

	"github.com/fireplay/fireplay-backend/internal/identity"
	"github.com/fireplay/fireplay-backend/pkg/logger"
	"github.com/fireplay/fireplay-backend/pkg/metrics"
)

const (
	targetLocal  = "local"
	targetRemote = "remote"
)

// snapshot is the full cart state captured after one mutation.
type snapshot struct {
	seq      uint64
	identity identity.Identity
	lines    []Line
}

// ordered serializes writes to one store target and drops snapshots older than the last one
// written, so a slow write can never overwrite a newer cart.
type ordered struct {
	mu      sync.Mutex
	applied uint64
}

func (o *ordered) apply(seq uint64, write func() error) (skipped bool, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if seq <= o.applied {
		return true, nil
	}
	o.applied = seq
	return false, write()
}

// persister runs detached store writes for one engine.
type persister struct {
	local   LocalStore
	remote  RemoteRepository
	logg    *logger.Logger
	metrics *metrics.CartMetrics

	tasks       sync.WaitGroup
	localOrder  ordered
	remoteMu    sync.Mutex
	remoteOrder map[string]*ordered
}

func newPersister(local LocalStore, remote RemoteRepository, logg *logger.Logger, m *metrics.CartMetrics) *persister {
	return &persister{
		local:       local,
		remote:      remote,
		logg:        logg,
		metrics:     m,
		remoteOrder: map[string]*ordered{},
	}
}

// schedule starts the writes for snap and returns without waiting. Non-empty carts are saved
// locally; empty carts remove the local entry. Identified sessions also write the account copy.
func (p *persister) schedule(ctx context.Context, snap snapshot) {
	ctx = context.WithoutCancel(ctx)

	p.tasks.Add(1)
	go func() {
		defer p.tasks.Done()
		p.writeLocal(ctx, snap)
	}()

	if snap.identity.IsAnonymous() {
		return
	}
	p.tasks.Add(1)
	go func() {
		defer p.tasks.Done()
		p.writeRemote(ctx, snap)
	}()
}

func (p *persister) writeLocal(ctx context.Context, snap snapshot) {
	outcome := metrics.OutcomeSaved
	skipped, err := p.localOrder.apply(snap.seq, func() error {
		if len(snap.lines) == 0 {
			outcome = metrics.OutcomeDeleted
			return p.local.Delete(ctx)
		}
		return p.local.Save(ctx, snap.lines)
	})
	p.record(ctx, targetLocal, snap, outcome, skipped, err)
}

func (p *persister) writeRemote(ctx context.Context, snap snapshot) {
	accountID := snap.identity.AccountID()
	skipped, err := p.remoteOrderFor(accountID).apply(snap.seq, func() error {
		return p.remote.Save(ctx, accountID, snap.lines)
	})
	p.record(ctx, targetRemote, snap, metrics.OutcomeSaved, skipped, err)
}

func (p *persister) remoteOrderFor(accountID string) *ordered {
	p.remoteMu.Lock()
	defer p.remoteMu.Unlock()
	o, ok := p.remoteOrder[accountID]
	if !ok {
		o = &ordered{}
		p.remoteOrder[accountID] = o
	}
	return o
}

func (p *persister) record(ctx context.Context, target string, snap snapshot, outcome string, skipped bool, err error) {
	switch {
	case skipped:
		p.metrics.IncPersist(target, metrics.OutcomeSkipped)
	case err != nil:
		p.metrics.IncPersist(target, metrics.OutcomeFailed)
		ctx = p.logg.WithFields(ctx, map[string]any{
			"target":   target,
			"seq":      snap.seq,
			"identity": snap.identity.String(),
		})
		p.logg.Error(ctx, "cart persist failed", err)
	default:
		p.metrics.IncPersist(target, outcome)
	}
}

func (p *persister) wait() {
	p.tasks.Wait()
}
