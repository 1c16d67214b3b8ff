package economy

import (
	"fmt"
	"strings"
	"time"

	"gold-economy/internal/ids"
	"gold-economy/internal/ledger"
)

const (
	claimWindow  = 24 * time.Hour
	streakWindow = 48 * time.Hour
)

type DailyClaimResult struct {
	Amount      int64              `json:"amount"`
	Streak      int                `json:"streak"`
	Breakdown   Breakdown          `json:"breakdown"`
	Transaction ledger.Transaction `json:"transaction"`
}

// NextDailyClaimAt returns when the next daily claim opens. The zero time
// means a claim is available now.
func NextDailyClaimAt(s *State) time.Time {
	if s.LastDailyClaimAt == nil {
		return time.Time{}
	}
	return s.LastDailyClaimAt.Add(claimWindow)
}

// CanClaimDaily reports whether a wallet is bound and the 24h window has
// elapsed.
func CanClaimDaily(s *State, now time.Time) bool {
	if strings.TrimSpace(s.WalletAddress) == "" {
		return false
	}
	return s.LastDailyClaimAt == nil || now.Sub(*s.LastDailyClaimAt) >= claimWindow
}

// ClaimDaily pays the streak-aware daily reward. Eligibility is measured in
// elapsed wall-clock time, not calendar days.
func (c *Controller) ClaimDaily(s *State, now time.Time) (DailyClaimResult, error) {
	if strings.TrimSpace(s.WalletAddress) == "" {
		return DailyClaimResult{}, reject(ErrWalletNotConnected, "Wallet not connected")
	}
	streak := 1
	if s.LastDailyClaimAt != nil {
		elapsed := now.Sub(*s.LastDailyClaimAt)
		if elapsed < claimWindow {
			return DailyClaimResult{}, reject(ErrClaimCooldown, "Next claim in %s", formatRemaining(claimWindow-elapsed))
		}
		if elapsed <= streakWindow {
			streak = s.DailyStreak + 1
		}
	}

	_, holder := s.ActivePerk(PerkGoldPass, now)
	bd := CalculateGoldPoints(ActionDailyClaim, RewardContext{
		BaseReward:   c.rules.DailyClaimBase,
		Streak:       streak,
		StreakCap:    c.rules.StreakCap,
		StreakAdd:    c.rules.StreakAdd,
		IsGoldHolder: holder,
		Effects:      c.Effects(s, now),
	})
	used := contributors(s.Perks, c.catalog, now,
		EffectDailyClaimBonus, EffectDailyClaimMultiplier, EffectEarningMultiplier)

	claimedAt := now
	s.LastDailyClaimAt = &claimedAt
	s.DailyStreak = streak
	tx := s.Ledger.Earn(now, bd.FinalGold, ledger.ReasonDailyClaim, fmt.Sprintf("streak %d", streak))
	s.logEarning(EarningLogEntry{
		ID:     ids.WithPrefix("earn", now),
		Type:   ActionDailyClaim,
		Amount: bd.FinalGold,
		At:     now,
		Note:   fmt.Sprintf("streak %d", streak),
	})
	consumeUses(s, used)
	c.Recompute(s, now)

	return DailyClaimResult{Amount: bd.FinalGold, Streak: streak, Breakdown: bd, Transaction: tx}, nil
}

func formatRemaining(d time.Duration) string {
	if d < time.Minute {
		return "seconds"
	}
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	return fmt.Sprintf("%dh %dm", h, m)
}
