// Package engine owns the live economy state. It serialises mutations,
// keeps entitlements current, persists in the background and reconciles
// with the remote backend.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"gold-economy/internal/economy"
	"gold-economy/internal/entitlement"
	"gold-economy/internal/events"
	"gold-economy/internal/ledger"
	"gold-economy/internal/persist"
	"gold-economy/internal/remote"
	"gold-economy/internal/store"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const defaultStateKey = "gold-economy.state"

// Remote is the subset of the backend client used for reconciliation.
type Remote interface {
	Enabled() bool
	Economy(ctx context.Context) (remote.EconomySnapshot, error)
	Inventory(ctx context.Context) (remote.InventorySnapshot, error)
	Entitlements(ctx context.Context) (entitlement.Snapshot, error)
	Tickets(ctx context.Context) (remote.TicketsSnapshot, error)
}

type Options struct {
	Controller     *economy.Controller
	Store          store.Store
	StateKey       string
	Remote         Remote
	Events         *events.Emitter
	Now            func() time.Time
	InitialRole    economy.Role
	InitialBalance int64
}

// Change is published to subscribers after every committed mutation.
type Change struct {
	Op      string    `json:"op"`
	At      time.Time `json:"at"`
	Balance int64     `json:"balance"`
}

type Engine struct {
	ctrl     *economy.Controller
	resolver *entitlement.Resolver
	store    store.Store
	key      string
	remote   Remote
	events   *events.Emitter
	now      func() time.Time

	mu    sync.Mutex
	state *economy.State

	dirty   atomic.Bool
	dirtyCh chan struct{}

	subMu   sync.Mutex
	subs    map[int]chan Change
	nextSub int

	sf singleflight.Group
}

func New(opts Options) *Engine {
	if opts.Controller == nil {
		opts.Controller = economy.NewController(nil, economy.DefaultRules(), nil)
	}
	if opts.Store == nil {
		opts.Store = store.NewMemory()
	}
	if opts.StateKey == "" {
		opts.StateKey = defaultStateKey
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	e := &Engine{
		ctrl:     opts.Controller,
		resolver: entitlement.NewResolver(),
		store:    opts.Store,
		key:      opts.StateKey,
		remote:   opts.Remote,
		events:   opts.Events,
		now:      opts.Now,
		dirtyCh:  make(chan struct{}, 1),
		subs:     map[int]chan Change{},
	}
	e.install(economy.NewState(opts.InitialRole, opts.InitialBalance), e.now())
	return e
}

func (e *Engine) Controller() *economy.Controller { return e.ctrl }

// install replaces the live state and drops any remote entitlement
// override. Callers hold mu or own e exclusively.
func (e *Engine) install(s *economy.State, now time.Time) {
	e.ctrl.Recompute(s, now)
	e.state = s
	e.resolver.Fallback()
}

// Load restores the persisted state. A missing document keeps the initial
// state.
func (e *Engine) Load(ctx context.Context) error {
	raw, err := e.store.Load(ctx, e.key)
	if errors.Is(err, store.ErrNotFound) {
		log.Info().Str("key", e.key).Msg("no saved economy state, starting fresh")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	now := e.now()
	s, err := persist.Restore(raw, e.ctrl, now)
	if err != nil {
		return fmt.Errorf("restore state: %w", err)
	}
	e.mu.Lock()
	e.install(s, now)
	e.mu.Unlock()
	log.Info().Int64("balance", s.Ledger.Balance()).Int("perks", len(s.Perks)).Msg("economy state restored")
	return nil
}

// mutate runs fn against a copy of the state and commits the copy when fn
// succeeds or when the rejection itself changes state.
func (e *Engine) mutate(op string, fn func(s *economy.State, now time.Time) error) error {
	e.mu.Lock()
	now := e.now()
	next := e.state.Clone()
	err := fn(next, now)
	if err != nil && !economy.MutatesOnReject(err) {
		e.mu.Unlock()
		observeOp(op, err)
		return err
	}
	e.install(next, now)
	balance := next.Ledger.Balance()
	e.mu.Unlock()

	observeOp(op, err)
	e.markDirty()
	e.publish(Change{Op: op, At: now, Balance: balance})
	return err
}

func (e *Engine) markDirty() {
	e.dirty.Store(true)
	select {
	case e.dirtyCh <- struct{}{}:
	default:
	}
}

func (e *Engine) emit(t events.Type, at time.Time, meta map[string]any) {
	if e.events == nil {
		return
	}
	e.events.Emit(t, at, meta)
}

func (e *Engine) recordTx(tx ledger.Transaction) {
	observeTx(tx)
	meta := map[string]any{"amount": tx.Amount, "reason": string(tx.Reason), "transactionId": tx.ID}
	switch tx.Kind {
	case ledger.KindEarn:
		e.emit(events.GoldEarned, tx.At, meta)
	case ledger.KindSpend:
		e.emit(events.GoldSpent, tx.At, meta)
	}
}

// Subscribe returns a channel of committed changes. Sends never block: a
// subscriber whose buffer is full misses the change.
func (e *Engine) Subscribe(buffer int) (<-chan Change, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Change, buffer)
	e.subMu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = ch
	e.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			e.subMu.Lock()
			delete(e.subs, id)
			e.subMu.Unlock()
			close(ch)
		})
	}
}

func (e *Engine) publish(c Change) {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	for _, ch := range e.subs {
		select {
		case ch <- c:
		default:
		}
	}
}

// Flush saves the state when it changed since the last save.
func (e *Engine) Flush(ctx context.Context) error {
	if !e.dirty.Swap(false) {
		return nil
	}
	e.mu.Lock()
	raw, err := persist.Encode(e.state, e.now())
	e.mu.Unlock()
	if err != nil {
		flushTotal.WithLabelValues("error").Inc()
		return err
	}
	if err := e.store.Save(ctx, e.key, raw); err != nil {
		e.dirty.Store(true)
		flushTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("save state: %w", err)
	}
	flushTotal.WithLabelValues("ok").Inc()
	return nil
}

// Run flushes dirty state every interval until ctx is done, then flushes
// once more.
func (e *Engine) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := e.Flush(flushCtx); err != nil {
				log.Error().Err(err).Msg("final state flush failed")
			}
			cancel()
			return
		case <-ticker.C:
		case <-e.dirtyCh:
			// Coalesce bursts of mutations into one write per tick.
			select {
			case <-ctx.Done():
				continue
			case <-ticker.C:
			}
		}
		if err := e.Flush(ctx); err != nil {
			log.Warn().Err(err).Msg("state flush failed")
		}
	}
}

// Refresh resets stale day-scoped counters and recomputes derived values.
// It is run when the day may have rolled over.
func (e *Engine) Refresh() {
	_ = e.mutate("refresh", func(s *economy.State, now time.Time) error {
		e.ctrl.ResetStaleDays(s, now)
		return nil
	})
}
