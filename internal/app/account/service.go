package account

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gold-economy/internal/economy"
	"gold-economy/internal/engine"
	"gold-economy/internal/entitlement"
	"gold-economy/internal/ledger"
)

const (
	defaultTransactionLimit = 50
	maxTransactionLimit     = 200
)

// Service adapts transport requests to engine operations.
type Service struct {
	engine *engine.Engine
}

func NewService(e *engine.Engine) *Service {
	return &Service{engine: e}
}

func (s *Service) State() engine.View {
	return s.engine.Snapshot()
}

func (s *Service) Entitlements() entitlement.Set {
	return s.engine.Entitlements()
}

func (s *Service) Catalog() CatalogResponse {
	return CatalogResponse{Perks: s.engine.Catalog(), Actions: s.engine.Snapshot().Actions}
}

func (s *Service) Transactions(limit int) TransactionsResponse {
	limit = clampTransactionLimit(limit)
	return TransactionsResponse{Items: s.engine.Transactions(limit), Limit: limit}
}

func (s *Service) EarningLog() EarningLogResponse {
	return EarningLogResponse{Items: s.engine.Snapshot().EarningLog}
}

func (s *Service) RecentEvents() EventsResponse {
	return EventsResponse{Items: s.engine.RecentEvents()}
}

func (s *Service) BuyPerk(req BuyPerkRequest) (economy.PurchaseResult, error) {
	id := strings.TrimSpace(req.PerkID)
	if id == "" {
		return economy.PurchaseResult{}, ErrInvalidRequest
	}
	return s.engine.BuyPerk(id)
}

func (s *Service) GrantPerk(req GrantPerkRequest) (economy.PerkItem, error) {
	id := strings.TrimSpace(req.PerkID)
	if id == "" {
		return economy.PerkItem{}, ErrInvalidRequest
	}
	return s.engine.GrantPerk(id)
}

func (s *Service) ClaimDaily() (economy.DailyClaimResult, error) {
	return s.engine.ClaimDaily()
}

// CheckAction reports availability as data; a rejection is not an error.
func (s *Service) CheckAction(req ActionRequest) (ActionCheckResponse, error) {
	id := strings.TrimSpace(req.ActionID)
	if id == "" {
		return ActionCheckResponse{}, ErrInvalidRequest
	}
	out := ActionCheckResponse{ActionID: economy.CanonicalActionID(id), Allowed: true}
	if err := s.engine.CanUseAction(id, economy.ActionParams{ModelID: req.ModelID}); err != nil {
		out.Allowed = false
		out.Code = economy.CodeOf(err)
		out.Reason = economy.ReasonOf(err)
	}
	return out, nil
}

func (s *Service) PerformAction(req ActionRequest) (economy.ActionResult, error) {
	id := strings.TrimSpace(req.ActionID)
	if id == "" {
		return economy.ActionResult{}, ErrInvalidRequest
	}
	return s.engine.PerformAction(id, economy.ActionParams{ModelID: strings.TrimSpace(req.ModelID)})
}

func (s *Service) ClaimTicket(req ClaimTicketRequest) (economy.TicketClaim, error) {
	id := strings.TrimSpace(req.TicketID)
	if id == "" {
		return economy.TicketClaim{}, ErrInvalidRequest
	}
	return s.engine.ClaimTicket(id)
}

func (s *Service) IssueTicket(req IssueTicketRequest, now time.Time) (IssueTicketResponse, error) {
	reward, err := rewardFrom(req)
	if err != nil {
		return IssueTicketResponse{}, err
	}
	t := economy.RewardTicket{
		ID:     strings.TrimSpace(req.ID),
		Source: economy.TicketSource(strings.ToUpper(strings.TrimSpace(req.Source))),
		Reward: reward,
	}
	switch t.Source {
	case "", economy.TicketFromEvent, economy.TicketFromAdmin, economy.TicketFromGameMatch:
	default:
		return IssueTicketResponse{}, fmt.Errorf("%w: source %q", ErrInvalidRequest, req.Source)
	}
	if req.ExpiresInSeconds < 0 {
		return IssueTicketResponse{}, ErrInvalidRequest
	}
	if req.ExpiresInSeconds > 0 {
		exp := now.Add(time.Duration(req.ExpiresInSeconds) * time.Second)
		t.ExpiresAt = &exp
	}
	out, created, err := s.engine.IssueTicket(t)
	if err != nil {
		return IssueTicketResponse{}, err
	}
	return IssueTicketResponse{Ticket: out, Created: created}, nil
}

func rewardFrom(req IssueTicketRequest) (economy.Reward, error) {
	switch req.Kind {
	case economy.RewardGoldPoints:
		if req.Amount <= 0 {
			return nil, ErrInvalidRequest
		}
		return economy.GoldPoints{Amount: req.Amount}, nil
	case economy.RewardPerkItem:
		if strings.TrimSpace(req.PerkID) == "" {
			return nil, ErrInvalidRequest
		}
		return economy.PerkReward{PerkID: strings.TrimSpace(req.PerkID)}, nil
	case economy.RewardNFTPlaceholder:
		if req.Tier != "" && !req.Tier.Valid() {
			return nil, ErrInvalidRequest
		}
		return economy.NFTPlaceholder{Name: req.Name, Tier: req.Tier}, nil
	default:
		return nil, ErrUnknownReward
	}
}

func (s *Service) StartMatch() StartMatchResponse {
	return StartMatchResponse{MatchID: s.engine.StartMatch()}
}

func (s *Service) FinishMatch(req FinishMatchRequest) (IssueTicketResponse, error) {
	outcome, err := parseOutcome(req.Outcome)
	if err != nil {
		return IssueTicketResponse{}, err
	}
	t, created, err := s.engine.FinishMatch(req.MatchID, outcome)
	if err != nil {
		return IssueTicketResponse{}, err
	}
	return IssueTicketResponse{Ticket: t, Created: created}, nil
}

func parseOutcome(raw string) (economy.MatchOutcome, error) {
	switch o := economy.MatchOutcome(strings.ToUpper(strings.TrimSpace(raw))); o {
	case economy.OutcomeWin, economy.OutcomeLoss, economy.OutcomeDraw:
		return o, nil
	default:
		return "", ErrUnknownOutcome
	}
}

func (s *Service) ConnectWallet(req WalletRequest) error {
	return s.engine.ConnectWallet(req.Address)
}

func (s *Service) DisconnectWallet() {
	s.engine.DisconnectWallet()
}

func (s *Service) SetRole(req RoleRequest) error {
	return s.engine.SetRole(economy.Role(strings.ToLower(strings.TrimSpace(req.Role))))
}

func (s *Service) MintNFT(req MintRequest) (economy.MintResult, error) {
	return s.engine.MintNFT(economy.NFTTier(strings.ToLower(strings.TrimSpace(req.Tier))))
}

func (s *Service) Airdrop(req AirdropRequest) (ledger.Transaction, error) {
	return s.engine.Airdrop(req.Amount, strings.TrimSpace(req.Note))
}

func (s *Service) Sync(ctx context.Context) (engine.SyncResult, error) {
	return s.engine.Sync(ctx)
}

func clampTransactionLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultTransactionLimit
	case limit > maxTransactionLimit:
		return maxTransactionLimit
	default:
		return limit
	}
}
