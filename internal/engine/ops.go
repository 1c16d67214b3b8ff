package engine

import (
	"time"

	"gold-economy/internal/economy"
	"gold-economy/internal/events"
	"gold-economy/internal/ledger"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

func (e *Engine) BuyPerk(perkID string) (economy.PurchaseResult, error) {
	var res economy.PurchaseResult
	err := e.mutate("buy_perk", func(s *economy.State, now time.Time) error {
		var err error
		res, err = e.ctrl.BuyPerk(s, now, perkID)
		return err
	})
	if err != nil {
		return res, err
	}
	e.recordTx(res.Transaction)
	e.emit(events.PerkPurchased, res.Item.AcquiredAt, map[string]any{
		"perkId": res.Item.PerkID, "itemId": res.Item.ID, "price": res.Transaction.Amount,
	})
	log.Info().Str("op", "buy_perk").Str("perk_id", perkID).Int64("amount", res.Transaction.Amount).Msg("perk purchased")
	return res, nil
}

func (e *Engine) GrantPerk(perkID string) (economy.PerkItem, error) {
	var item economy.PerkItem
	err := e.mutate("grant_perk", func(s *economy.State, now time.Time) error {
		var err error
		item, err = e.ctrl.GrantPerk(s, now, perkID)
		return err
	})
	return item, err
}

func (e *Engine) ClaimDaily() (economy.DailyClaimResult, error) {
	var res economy.DailyClaimResult
	err := e.mutate("claim_daily", func(s *economy.State, now time.Time) error {
		var err error
		res, err = e.ctrl.ClaimDaily(s, now)
		return err
	})
	if err != nil {
		return res, err
	}
	e.recordTx(res.Transaction)
	log.Info().Str("op", "claim_daily").Int64("amount", res.Amount).Int("streak", res.Streak).Msg("daily gold claimed")
	return res, nil
}

// CanUseAction reports whether an action may be performed now without
// changing state.
func (e *Engine) CanUseAction(actionID string, p economy.ActionParams) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctrl.CanUseAction(e.state, e.now(), actionID, p)
}

func (e *Engine) PerformAction(actionID string, p economy.ActionParams) (economy.ActionResult, error) {
	var res economy.ActionResult
	err := e.mutate("perform_action", func(s *economy.State, now time.Time) error {
		var err error
		res, err = e.ctrl.PerformAction(s, now, actionID, p)
		return err
	})
	if err != nil {
		return res, err
	}
	e.recordTx(res.Transaction)
	log.Info().Str("op", "perform_action").Str("action_id", res.ActionID).Int64("amount", res.Amount).Msg("earning action performed")
	return res, nil
}

func (e *Engine) ClaimTicket(ticketID string) (economy.TicketClaim, error) {
	var res economy.TicketClaim
	err := e.mutate("claim_ticket", func(s *economy.State, now time.Time) error {
		var err error
		res, err = e.ctrl.ClaimTicket(s, now, ticketID)
		return err
	})
	if err != nil {
		return res, err
	}
	if res.Transaction != nil {
		e.recordTx(*res.Transaction)
	}
	e.emit(events.RewardClaimed, e.now(), map[string]any{
		"ticketId": res.Ticket.ID, "rewardKind": string(res.Ticket.Reward.Kind()),
	})
	return res, nil
}

// IssueTicket queues a reward ticket. created is false when the id was
// already known.
func (e *Engine) IssueTicket(t economy.RewardTicket) (economy.RewardTicket, bool, error) {
	var (
		out     economy.RewardTicket
		created bool
	)
	err := e.mutate("issue_ticket", func(s *economy.State, now time.Time) error {
		var err error
		out, created, err = e.ctrl.IssueTicket(s, now, t)
		return err
	})
	if err == nil && created {
		e.ticketCreated(out)
	}
	return out, created, err
}

// StartMatch allocates a match id. Matches hold no state until finished.
func (e *Engine) StartMatch() string {
	id := uuid.NewString()
	observeOp("start_match", nil)
	e.emit(events.GameMatchStarted, e.now(), map[string]any{"matchId": id})
	return id
}

func (e *Engine) FinishMatch(matchID string, outcome economy.MatchOutcome) (economy.RewardTicket, bool, error) {
	var (
		out     economy.RewardTicket
		created bool
	)
	err := e.mutate("finish_match", func(s *economy.State, now time.Time) error {
		var err error
		out, created, err = e.ctrl.FinishMatch(s, now, matchID, outcome)
		return err
	})
	if err != nil {
		return out, false, err
	}
	if created {
		e.emit(events.GameMatchFinished, out.CreatedAt, map[string]any{"matchId": matchID, "outcome": string(outcome)})
		e.ticketCreated(out)
	}
	return out, created, nil
}

func (e *Engine) ticketCreated(t economy.RewardTicket) {
	e.emit(events.RewardTicketCreated, t.CreatedAt, map[string]any{
		"ticketId": t.ID, "source": string(t.Source), "rewardKind": string(t.Reward.Kind()),
	})
}

func (e *Engine) ConnectWallet(address string) error {
	return e.mutate("connect_wallet", func(s *economy.State, _ time.Time) error {
		return e.ctrl.ConnectWallet(s, address)
	})
}

func (e *Engine) DisconnectWallet() {
	_ = e.mutate("disconnect_wallet", func(s *economy.State, _ time.Time) error {
		e.ctrl.DisconnectWallet(s)
		return nil
	})
}

func (e *Engine) SetRole(role economy.Role) error {
	return e.mutate("set_role", func(s *economy.State, _ time.Time) error {
		return e.ctrl.SetRole(s, role)
	})
}

func (e *Engine) MintNFT(tier economy.NFTTier) (economy.MintResult, error) {
	var res economy.MintResult
	err := e.mutate("mint_nft", func(s *economy.State, now time.Time) error {
		var err error
		res, err = e.ctrl.MintNFT(s, now, tier)
		return err
	})
	if err == nil {
		e.recordTx(res.Transaction)
	}
	return res, err
}

func (e *Engine) Airdrop(amount int64, note string) (ledger.Transaction, error) {
	var tx ledger.Transaction
	err := e.mutate("airdrop", func(s *economy.State, now time.Time) error {
		var err error
		tx, err = e.ctrl.Airdrop(s, now, amount, note)
		return err
	})
	if err == nil {
		e.recordTx(tx)
	}
	return tx, err
}
