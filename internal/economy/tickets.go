package economy

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"gold-economy/internal/ids"
	"gold-economy/internal/ledger"
)

type MatchOutcome string

const (
	OutcomeWin  MatchOutcome = "WIN"
	OutcomeLoss MatchOutcome = "LOSS"
	OutcomeDraw MatchOutcome = "DRAW"
)

type TicketClaim struct {
	Ticket      RewardTicket        `json:"ticket"`
	Transaction *ledger.Transaction `json:"transaction,omitempty"`
	Perk        *PerkItem           `json:"perk,omitempty"`
	NFT         *NFTItem            `json:"nft,omitempty"`
}

// ClaimTicket redeems a pending ticket. A pending ticket past its expiry is
// moved to EXPIRED and rejected; see MutatesOnReject.
func (c *Controller) ClaimTicket(s *State, now time.Time, ticketID string) (TicketClaim, error) {
	i := s.ticketIndex(ticketID)
	if i < 0 {
		return TicketClaim{}, reject(ErrTicketNotFound, "Ticket not found")
	}
	t := s.Tickets[i]
	if t.Status != TicketPending {
		return TicketClaim{}, reject(ErrTicketProcessed, "Ticket already processed")
	}
	if t.ExpiresAt != nil && t.ExpiresAt.Before(now) {
		s.Tickets[i].Status = TicketExpired
		return TicketClaim{}, reject(ErrTicketExpired, "Ticket expired")
	}

	var claim TicketClaim
	switch r := t.Reward.(type) {
	case GoldPoints:
		tx := s.Ledger.Earn(now, r.Amount, ledger.ReasonRewardTicket, t.ID)
		claim.Transaction = &tx
	case PerkReward:
		def, ok := c.catalog.Get(r.PerkID)
		if !ok {
			return TicketClaim{}, reject(ErrUnknownPerk, "Unknown perk")
		}
		item := materialize(def, now, SourceRewardTicket)
		s.Perks = append([]PerkItem{item}, s.Perks...)
		claim.Perk = &item
	case NFTPlaceholder:
		nft := NFTItem{
			ID:          ids.WithPrefix("nft", now),
			Name:        r.Name,
			Tier:        r.Tier,
			CreatedAt:   now,
			Placeholder: true,
		}
		if nft.Name == "" {
			nft.Name = "Placeholder NFT"
		}
		if !nft.Tier.Valid() {
			nft.Tier = TierGold
		}
		s.NFTs = append([]NFTItem{nft}, s.NFTs...)
		claim.NFT = &nft
	default:
		return TicketClaim{}, reject(ErrInvalidRequest, "Unsupported reward")
	}

	s.Tickets[i].Status = TicketClaimed
	claim.Ticket = s.Tickets[i]
	c.Recompute(s, now)
	return claim, nil
}

// IssueTicket queues a pending ticket. Issuing an existing id returns the
// stored ticket and false.
func (c *Controller) IssueTicket(s *State, now time.Time, t RewardTicket) (RewardTicket, bool, error) {
	if t.ID != "" {
		if existing, ok := s.Ticket(t.ID); ok {
			return existing, false, nil
		}
	}
	switch r := t.Reward.(type) {
	case GoldPoints:
		if r.Amount < 0 {
			return RewardTicket{}, false, reject(ErrInvalidRequest, "Reward amount must not be negative")
		}
	case PerkReward:
		if _, ok := c.catalog.Get(r.PerkID); !ok {
			return RewardTicket{}, false, reject(ErrUnknownPerk, "Unknown perk")
		}
	case NFTPlaceholder:
	default:
		return RewardTicket{}, false, reject(ErrInvalidRequest, "Unsupported reward")
	}
	if t.ID == "" {
		t.ID = ids.WithPrefix("ticket", now)
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.Source == "" {
		t.Source = TicketFromEvent
	}
	t.Status = TicketPending
	s.Tickets = append([]RewardTicket{t}, s.Tickets...)
	return t, true, nil
}

// FinishMatch issues the reward ticket for a finished game match.
func (c *Controller) FinishMatch(s *State, now time.Time, matchID string, outcome MatchOutcome) (RewardTicket, bool, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return RewardTicket{}, false, reject(ErrInvalidRequest, "Match id required")
	}
	reward, err := MatchReward(matchID, outcome)
	if err != nil {
		return RewardTicket{}, false, err
	}
	return c.IssueTicket(s, now, RewardTicket{
		ID:     "ticket-" + matchID,
		Source: TicketFromGameMatch,
		Reward: reward,
	})
}

// MatchReward picks the reward for a match outcome. Wins choose between
// Gold and an earn boost deterministically from the match id.
func MatchReward(matchID string, outcome MatchOutcome) (Reward, error) {
	switch outcome {
	case OutcomeWin:
		sum := sha256.Sum256([]byte(matchID))
		n, _ := strconv.ParseUint(hex.EncodeToString(sum[:])[:8], 16, 32)
		if n%2 == 0 {
			return GoldPoints{Amount: 50}, nil
		}
		return PerkReward{PerkID: PerkEarnBoost10}, nil
	case OutcomeDraw:
		return GoldPoints{Amount: 20}, nil
	case OutcomeLoss:
		return GoldPoints{Amount: 10}, nil
	default:
		return nil, reject(ErrInvalidRequest, "Unknown outcome")
	}
}
