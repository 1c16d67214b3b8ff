package engine

import (
	"time"

	"gold-economy/internal/economy"
	"gold-economy/internal/entitlement"
	"gold-economy/internal/events"
	"gold-economy/internal/ledger"
)

type DailyClaimView struct {
	Available bool       `json:"available"`
	NextAt    *time.Time `json:"nextClaimAt,omitempty"`
	Streak    int        `json:"streak"`
}

// View is a read-only copy of the live state with derived values.
type View struct {
	At            time.Time                 `json:"at"`
	Role          economy.Role              `json:"role"`
	WalletAddress string                    `json:"walletAddress,omitempty"`
	Balance       int64                     `json:"balance"`
	Transactions  []ledger.Transaction      `json:"transactions"`
	Perks         []economy.PerkItem        `json:"perkInventory"`
	NFTs          []economy.NFTItem         `json:"inventory"`
	Tickets       []economy.RewardTicket    `json:"rewardTickets"`
	Actions       []economy.ActionStatus    `json:"earningActions"`
	Effects       []economy.PerkEffect      `json:"activeEffects"`
	Boosts        economy.Boosts            `json:"boosts"`
	Entitlements  entitlement.Set           `json:"entitlements"`
	DailyClaim    DailyClaimView            `json:"dailyClaim"`
	EarningLog    []economy.EarningLogEntry `json:"earningLog"`
}

func (e *Engine) Snapshot() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.now()
	s := e.state.Clone()

	effects := e.ctrl.Effects(s, now)
	daily := DailyClaimView{Available: economy.CanClaimDaily(s, now), Streak: s.DailyStreak}
	if next := economy.NextDailyClaimAt(s); !next.IsZero() && next.After(now) {
		daily.NextAt = &next
	}
	return View{
		At:            now,
		Role:          s.Role,
		WalletAddress: s.WalletAddress,
		Balance:       s.Ledger.Balance(),
		Transactions:  s.Ledger.Transactions(),
		Perks:         s.Perks,
		NFTs:          s.NFTs,
		Tickets:       s.Tickets,
		Actions:       e.ctrl.ActionStatuses(s, now),
		Effects:       effects,
		Boosts:        economy.BoostsFrom(effects),
		Entitlements:  e.resolver.Current(entitlement.Derive(s, now), now),
		DailyClaim:    daily,
		EarningLog:    s.EarningLog,
	}
}

func (e *Engine) Balance() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Ledger.Balance()
}

// Entitlements derives the local set at the current time and applies the
// remote override on top.
func (e *Engine) Entitlements() entitlement.Set {
	e.mu.Lock()
	now := e.now()
	local := entitlement.Derive(e.state, now)
	e.mu.Unlock()
	return e.resolver.Current(local, now)
}

func (e *Engine) Catalog() []economy.PerkDefinition {
	return e.ctrl.Catalog().All()
}

// Transactions returns up to limit ledger entries, newest first. A limit of
// zero or less returns all of them.
func (e *Engine) Transactions(limit int) []ledger.Transaction {
	e.mu.Lock()
	txs := e.state.Ledger.Transactions()
	e.mu.Unlock()
	if limit > 0 && len(txs) > limit {
		txs = txs[:limit]
	}
	return txs
}

func (e *Engine) RecentEvents() []events.Event {
	if e.events == nil {
		return nil
	}
	return e.events.Recent()
}
