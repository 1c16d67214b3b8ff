package account

import (
	"time"

	"gold-economy/internal/economy"
	"gold-economy/internal/events"
	"gold-economy/internal/ledger"
)

type BuyPerkRequest struct {
	PerkID string `json:"perkId"`
}

type GrantPerkRequest struct {
	PerkID string `json:"perkId"`
}

type ActionRequest struct {
	ActionID string `json:"actionId"`
	ModelID  string `json:"modelId,omitempty"`
}

type ActionCheckResponse struct {
	ActionID string `json:"actionId"`
	Allowed  bool   `json:"allowed"`
	Code     string `json:"code,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

type ClaimTicketRequest struct {
	TicketID string `json:"ticketId"`
}

// IssueTicketRequest describes a ticket from an external source. Kind picks
// which reward fields apply.
type IssueTicketRequest struct {
	ID               string             `json:"id,omitempty"`
	Source           string             `json:"source,omitempty"`
	Kind             economy.RewardKind `json:"kind"`
	Amount           int64              `json:"amount,omitempty"`
	PerkID           string             `json:"perkId,omitempty"`
	Name             string             `json:"name,omitempty"`
	Tier             economy.NFTTier    `json:"tier,omitempty"`
	ExpiresInSeconds int64              `json:"expiresInSeconds,omitempty"`
}

type IssueTicketResponse struct {
	Ticket  economy.RewardTicket `json:"ticket"`
	Created bool                 `json:"created"`
}

type StartMatchResponse struct {
	MatchID string `json:"matchId"`
}

type FinishMatchRequest struct {
	MatchID string `json:"matchId"`
	Outcome string `json:"outcome"`
}

type WalletRequest struct {
	Address string `json:"address"`
}

type RoleRequest struct {
	Role string `json:"role"`
}

type MintRequest struct {
	Tier string `json:"tier,omitempty"`
}

type AirdropRequest struct {
	Amount int64  `json:"amount"`
	Note   string `json:"note,omitempty"`
}

type TransactionsResponse struct {
	Items []ledger.Transaction `json:"items"`
	Limit int                  `json:"limit"`
}

type EarningLogResponse struct {
	Items []economy.EarningLogEntry `json:"items"`
}

type CatalogResponse struct {
	Perks   []economy.PerkDefinition `json:"perks"`
	Actions []economy.ActionStatus   `json:"actions"`
}

type EventsResponse struct {
	Items []events.Event `json:"items"`
}

type AckResponse struct {
	OK bool      `json:"ok"`
	At time.Time `json:"at"`
}
