// Package persist defines the versioned on-disk form of an economy state
// and the migrations that bring older documents up to date.
package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gold-economy/internal/economy"
	"gold-economy/internal/ledger"
)

const CurrentVersion = 3

var ErrUnsupportedVersion = errors.New("unsupported_version")

// Document is the persisted snapshot. Legacy fields are only read from
// version 1 documents and are never written.
type Document struct {
	Version          int                            `json:"version"`
	SavedAt          time.Time                      `json:"savedAt"`
	Role             economy.Role                   `json:"role"`
	WalletAddress    string                         `json:"walletAddress,omitempty"`
	Balance          int64                          `json:"balance"`
	Transactions     []ledger.Transaction           `json:"transactions"`
	Perks            []economy.PerkItem             `json:"perkInventory"`
	NFTs             []economy.NFTItem              `json:"inventory"`
	Tickets          []economy.RewardTicket         `json:"rewardTickets"`
	Actions          []economy.EarningAction        `json:"earningActions,omitempty"`
	ActionStates     map[string]economy.ActionState `json:"actionState"`
	Models           economy.ModelTracker           `json:"modelActionTracker"`
	LastDailyClaimAt *time.Time                     `json:"lastDailyClaimAt,omitempty"`
	DailyStreak      int                            `json:"dailyClaimStreak"`
	EarningLog       []economy.EarningLogEntry      `json:"earningLog"`

	OwnedPerks     map[string]bool `json:"ownedPerks,omitempty"`
	Perk           *legacyPerk     `json:"perk,omitempty"`
	TasksDoneToday int             `json:"tasksDoneToday,omitempty"`
	TasksDayKey    string          `json:"tasksDayKey,omitempty"`
}

type legacyPerk struct {
	HasGoldPass       bool       `json:"hasGoldPass"`
	GoldPassExpiresAt *time.Time `json:"goldPassExpiresAt,omitempty"`
}

// FromState snapshots s at the current version.
func FromState(s *economy.State, now time.Time) Document {
	c := s.Clone()
	return Document{
		Version:          CurrentVersion,
		SavedAt:          now,
		Role:             c.Role,
		WalletAddress:    c.WalletAddress,
		Balance:          c.Ledger.Balance(),
		Transactions:     c.Ledger.Transactions(),
		Perks:            c.Perks,
		NFTs:             c.NFTs,
		Tickets:          c.Tickets,
		Actions:          c.Actions,
		ActionStates:     c.ActionStates,
		Models:           c.Models,
		LastDailyClaimAt: c.LastDailyClaimAt,
		DailyStreak:      c.DailyStreak,
		EarningLog:       c.EarningLog,
	}
}

// ToState builds a State from a migrated document.
func (d Document) ToState() *economy.State {
	s := economy.NewState(d.Role, 0)
	s.WalletAddress = d.WalletAddress
	s.Ledger = ledger.New(d.Balance, d.Transactions)
	s.Perks = d.Perks
	s.NFTs = d.NFTs
	s.Tickets = d.Tickets
	if len(d.Actions) > 0 {
		s.Actions = economy.MergeActions(economy.DefaultActions(), d.Actions)
	}
	if d.ActionStates != nil {
		s.ActionStates = d.ActionStates
	}
	s.Models = d.Models
	s.LastDailyClaimAt = d.LastDailyClaimAt
	s.DailyStreak = d.DailyStreak
	s.EarningLog = d.EarningLog
	return s.Clone()
}

func Encode(s *economy.State, now time.Time) ([]byte, error) {
	raw, err := json.Marshal(FromState(s, now))
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return raw, nil
}

func Decode(raw []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(raw, &d); err != nil {
		return Document{}, fmt.Errorf("decode state: %w", err)
	}
	return d, nil
}

// Restore decodes, migrates and normalises a stored blob. Day-scoped
// counters from a previous day are reset and boosts are recomputed.
func Restore(raw []byte, ctrl *economy.Controller, now time.Time) (*economy.State, error) {
	d, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	d, err = Migrate(d, ctrl.Catalog(), now)
	if err != nil {
		return nil, err
	}
	s := d.ToState()
	ctrl.ResetStaleDays(s, now)
	ctrl.Recompute(s, now)
	return s, nil
}
