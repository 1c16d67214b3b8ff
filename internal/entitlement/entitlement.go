// Package entitlement derives boolean feature flags from an economy
// snapshot and layers an optional remote override on top.
package entitlement

import (
	"time"

	"gold-economy/internal/economy"
)

type Key string

const (
	CanClaimDailyGold    Key = "CAN_CLAIM_DAILY_GOLD"
	CanUseEarningActions Key = "CAN_USE_EARNING_ACTIONS"
	HasActiveGoldPass    Key = "HAS_ACTIVE_GOLD_PASS"
	CanAccessGameRoom    Key = "CAN_ACCESS_GAME_ROOM"
	CanViewLoraPassport  Key = "CAN_VIEW_LORA_PASSPORT"
	CanClaimRewardTicket Key = "CAN_CLAIM_REWARD_TICKET"
)

type Source string

const (
	SourcePerk   Source = "PERK"
	SourceNFT    Source = "NFT"
	SourceSystem Source = "SYSTEM"
	SourceRemote Source = "REMOTE"
)

type Entitlement struct {
	Key       Key        `json:"key"`
	Value     bool       `json:"value"`
	Source    Source     `json:"source,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// Set is an ordered list of entitlements.
type Set []Entitlement

func (s Set) Get(key Key) (Entitlement, bool) {
	for _, e := range s {
		if e.Key == key {
			return e, true
		}
	}
	return Entitlement{}, false
}

// Has reports whether key is present and true.
func (s Set) Has(key Key) bool {
	e, ok := s.Get(key)
	return ok && e.Value
}

func (s Set) Map() map[Key]bool {
	m := make(map[Key]bool, len(s))
	for _, e := range s {
		m[e.Key] = e.Value
	}
	return m
}

// Derive computes the entitlements implied by s at now.
func Derive(s *economy.State, now time.Time) Set {
	pass, hasPass := s.ActivePerk(economy.PerkGoldPass, now)
	_, priority := s.ActivePerk(economy.PerkPriorityMatchmaking, now)
	_, dropAccess := s.ActivePerk(economy.PerkCreatorDropAccess, now)

	gameRoom := Entitlement{Key: CanAccessGameRoom, Value: hasPass || priority, Source: SourcePerk}
	if hasPass && !priority {
		gameRoom.ExpiresAt = pass.ExpiresAt
	}
	passport := Entitlement{Key: CanViewLoraPassport, Value: hasPass || dropAccess, Source: SourcePerk}
	if hasPass && !dropAccess {
		passport.ExpiresAt = pass.ExpiresAt
	}
	goldPass := Entitlement{Key: HasActiveGoldPass, Value: hasPass, Source: SourcePerk}
	if hasPass {
		goldPass.ExpiresAt = pass.ExpiresAt
	}

	return Set{
		{Key: CanClaimDailyGold, Value: economy.CanClaimDaily(s, now), Source: SourceSystem},
		{Key: CanUseEarningActions, Value: true, Source: SourceSystem},
		goldPass,
		gameRoom,
		passport,
		{Key: CanClaimRewardTicket, Value: s.PendingTickets() > 0, Source: SourceSystem},
	}
}
