package engine

import (
	"slices"
	"time"

	"gold-economy/internal/economy"
	"gold-economy/internal/ids"
	"gold-economy/internal/ledger"
	"gold-economy/internal/remote"
)

const maxEarningLog = 100

// remoteState is everything one reconciliation fetched. Optional parts are
// nil when their endpoint failed.
type remoteState struct {
	economy   remote.EconomySnapshot
	inventory remote.InventorySnapshot
	tickets   *remote.TicketsSnapshot
}

// mergeRemote folds a remote snapshot into s. Local entries win on id
// collisions; remote-only entries are added.
func mergeRemote(ctrl *economy.Controller, s *economy.State, rs remoteState, now time.Time) *ledger.Transaction {
	snap := rs.economy
	if snap.WalletAddress != nil {
		s.WalletAddress = *snap.WalletAddress
	}
	if snap.LastDailyClaimAt != nil {
		t := *snap.LastDailyClaimAt
		s.LastDailyClaimAt = &t
	}
	if snap.DailyClaimStreak != nil {
		s.DailyStreak = *snap.DailyClaimStreak
	}

	var adjust *ledger.Transaction
	if snap.Balance != nil {
		adjust = reconcileBalance(s.Ledger, *snap.Balance, now)
	}

	s.Perks = unionByID(s.Perks, snap.PerkInventory, perkID)
	s.Perks = unionByID(s.Perks, rs.inventory.Perks, perkID)
	for id, owned := range snap.OwnedPerks {
		if !owned {
			continue
		}
		if _, ok := ctrl.Catalog().Get(id); !ok {
			continue
		}
		if _, active := s.ActivePerk(id, now); active {
			continue
		}
		s.Perks = append(s.Perks, economy.PerkItem{
			ID:         ids.WithPrefix("perk", now),
			PerkID:     id,
			AcquiredAt: now,
			Source:     economy.SourceShopPurchase,
		})
	}

	s.NFTs = unionByID(s.NFTs, snap.Inventory, nftID)
	s.NFTs = unionByID(s.NFTs, rs.inventory.NFTs, nftID)

	if len(snap.EarningLog) > 0 {
		entries := unionByID(s.EarningLog, snap.EarningLog, func(e economy.EarningLogEntry) string { return e.ID })
		slices.SortStableFunc(entries, func(a, b economy.EarningLogEntry) int { return b.At.Compare(a.At) })
		if len(entries) > maxEarningLog {
			entries = entries[:maxEarningLog]
		}
		s.EarningLog = entries
	}

	if len(snap.EarningActions) > 0 {
		ctrl.RefreshActions(s, snap.EarningActions)
	}

	if rs.tickets != nil {
		s.Tickets = unionByID(s.Tickets, rs.tickets.Tickets, func(t economy.RewardTicket) string { return t.ID })
	}
	return adjust
}

// reconcileBalance moves l to the remote balance through a sync adjustment
// entry so the log explains the change.
func reconcileBalance(l *ledger.Ledger, target int64, now time.Time) *ledger.Transaction {
	if target < 0 {
		target = 0
	}
	diff := target - l.Balance()
	switch {
	case diff > 0:
		tx := l.Earn(now, diff, ledger.ReasonSyncAdjustment, "remote balance")
		return &tx
	case diff < 0:
		tx, ok := l.Spend(now, -diff, ledger.ReasonSyncAdjustment, "remote balance")
		if ok {
			return &tx
		}
	}
	return nil
}

func unionByID[T any](local, incoming []T, id func(T) string) []T {
	if len(incoming) == 0 {
		return local
	}
	seen := make(map[string]struct{}, len(local))
	for _, item := range local {
		seen[id(item)] = struct{}{}
	}
	out := slices.Clone(local)
	for _, item := range incoming {
		key := id(item)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}

func perkID(p economy.PerkItem) string { return p.ID }
func nftID(n economy.NFTItem) string   { return n.ID }
