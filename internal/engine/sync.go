package engine

import (
	"context"
	"fmt"
	"time"

	"gold-economy/internal/economy"
	"gold-economy/internal/entitlement"
	"gold-economy/internal/remote"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const syncFailedReason = "Failed to sync economy"

type SyncResult struct {
	OK      bool   `json:"ok"`
	Skipped bool   `json:"skipped,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Balance int64  `json:"balance"`
}

type fetched struct {
	state remoteState
	ents  *entitlement.Snapshot
}

// Sync reconciles with the remote backend. Concurrent calls share one
// fetch. On failure entitlements fall back to the local derivation and the
// returned error matches economy.ErrSyncFailed.
func (e *Engine) Sync(ctx context.Context) (SyncResult, error) {
	if e.remote == nil || !e.remote.Enabled() {
		return SyncResult{OK: true, Skipped: true, Balance: e.Balance()}, nil
	}
	start := time.Now()
	defer func() { syncDuration.Observe(time.Since(start).Seconds()) }()

	v, err, _ := e.sf.Do("sync", func() (any, error) {
		return e.fetch(ctx)
	})
	if err != nil {
		e.resolver.Fallback()
		syncTotal.WithLabelValues("error").Inc()
		log.Warn().Err(err).Str("op", "sync").Msg("economy sync failed")
		e.publish(Change{Op: "sync_failed", At: e.now(), Balance: e.Balance()})
		return SyncResult{OK: false, Reason: syncFailedReason, Balance: e.Balance()},
			fmt.Errorf("%w: %w", &economy.Rejection{Code: economy.ErrSyncFailed, Reason: syncFailedReason}, err)
	}
	f := v.(*fetched)

	var balance int64
	err = e.mutate("sync", func(s *economy.State, now time.Time) error {
		if tx := mergeRemote(e.ctrl, s, f.state, now); tx != nil {
			observeTx(*tx)
		}
		balance = s.Ledger.Balance()
		return nil
	})
	if err != nil {
		return SyncResult{OK: false, Reason: syncFailedReason}, err
	}
	if f.ents != nil {
		e.resolver.Override(*f.ents)
	}
	syncTotal.WithLabelValues("ok").Inc()
	log.Debug().Str("op", "sync").Int64("balance", balance).Msg("economy synced")
	return SyncResult{OK: true, Balance: balance}, nil
}

// fetch loads all remote snapshots concurrently. Economy and inventory are
// required; tickets and entitlements are best effort.
func (e *Engine) fetch(ctx context.Context) (*fetched, error) {
	var (
		out     fetched
		tickets remote.TicketsSnapshot
		ents    entitlement.Snapshot
		tErr    error
		entErr  error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.state.economy, err = e.remote.Economy(gctx)
		if err != nil {
			return fmt.Errorf("economy snapshot: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		out.state.inventory, err = e.remote.Inventory(gctx)
		if err != nil {
			return fmt.Errorf("inventory snapshot: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		tickets, tErr = e.remote.Tickets(gctx)
		return nil
	})
	g.Go(func() error {
		ents, entErr = e.remote.Entitlements(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if tErr == nil {
		out.state.tickets = &tickets
	} else {
		log.Debug().Err(tErr).Msg("ticket snapshot unavailable")
	}
	if entErr == nil {
		out.ents = &ents
	} else {
		log.Debug().Err(entErr).Msg("entitlement snapshot unavailable")
	}
	return &out, nil
}
