package remote

import (
	"context"
	"time"

	"gold-economy/internal/economy"
	"gold-economy/internal/entitlement"
)

// EconomySnapshot is the payload of GET /economy/me. Pointer fields are
// only adopted when present.
type EconomySnapshot struct {
	Balance          *int64                    `json:"balance,omitempty"`
	OwnedPerks       map[string]bool           `json:"ownedPerks,omitempty"`
	PerkInventory    []economy.PerkItem        `json:"perkInventory,omitempty"`
	Inventory        []economy.NFTItem         `json:"inventory,omitempty"`
	WalletAddress    *string                   `json:"walletAddress,omitempty"`
	LastDailyClaimAt *time.Time                `json:"lastDailyClaimAt,omitempty"`
	DailyClaimStreak *int                      `json:"dailyClaimStreak,omitempty"`
	EarningLog       []economy.EarningLogEntry `json:"earningLog,omitempty"`
	EarningActions   []economy.EarningAction   `json:"earningActions,omitempty"`
}

type InventorySnapshot struct {
	Perks []economy.PerkItem `json:"perks"`
	NFTs  []economy.NFTItem  `json:"nfts"`
}

type TicketsSnapshot struct {
	Tickets []economy.RewardTicket `json:"tickets"`
}

// Event is one entry for POST /events/log.
type Event struct {
	EventType string         `json:"eventType"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

func (c *Client) Economy(ctx context.Context) (EconomySnapshot, error) {
	var out EconomySnapshot
	err := c.getJSON(ctx, "/economy/me", &out)
	return out, err
}

func (c *Client) Inventory(ctx context.Context) (InventorySnapshot, error) {
	var out InventorySnapshot
	err := c.getJSON(ctx, "/inventory/me", &out)
	return out, err
}

func (c *Client) Entitlements(ctx context.Context) (entitlement.Snapshot, error) {
	var out entitlement.Snapshot
	err := c.getJSON(ctx, "/entitlements/me", &out)
	return out, err
}

func (c *Client) Tickets(ctx context.Context) (TicketsSnapshot, error) {
	var out TicketsSnapshot
	err := c.getJSON(ctx, "/rewards/tickets/me", &out)
	return out, err
}

func (c *Client) LogEvent(ctx context.Context, ev Event) error {
	return c.postJSON(ctx, "/events/log", ev)
}
