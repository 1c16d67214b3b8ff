package economy

import (
	"time"

	"gold-economy/internal/ids"
	"gold-economy/internal/ledger"
)

type PurchaseResult struct {
	Item        PerkItem           `json:"item"`
	Transaction ledger.Transaction `json:"transaction"`
}

// BuyPerk charges the perk's price and adds a new inventory instance.
func (c *Controller) BuyPerk(s *State, now time.Time, perkID string) (PurchaseResult, error) {
	def, err := c.acquirable(s, now, perkID)
	if err != nil {
		return PurchaseResult{}, err
	}
	if def.RoleGate != "" && def.RoleGate != s.Role {
		return PurchaseResult{}, reject(ErrRoleRestricted, "Role restricted")
	}
	if !s.Ledger.CanAfford(def.PriceGold) {
		return PurchaseResult{}, reject(ErrInsufficientGold, "Not enough Gold")
	}
	tx, ok := s.Ledger.Spend(now, def.PriceGold, ledger.ReasonPerkPurchase, def.ID)
	if !ok {
		return PurchaseResult{}, reject(ErrInsufficientGold, "Not enough Gold")
	}
	item := materialize(def, now, SourceShopPurchase)
	s.Perks = append([]PerkItem{item}, s.Perks...)
	c.Recompute(s, now)
	return PurchaseResult{Item: item, Transaction: tx}, nil
}

// GrantPerk adds a perk instance without charging. The NONE stacking rule
// still applies.
func (c *Controller) GrantPerk(s *State, now time.Time, perkID string) (PerkItem, error) {
	def, err := c.acquirable(s, now, perkID)
	if err != nil {
		return PerkItem{}, err
	}
	item := materialize(def, now, SourceAdminGrant)
	s.Perks = append([]PerkItem{item}, s.Perks...)
	c.Recompute(s, now)
	return item, nil
}

func (c *Controller) acquirable(s *State, now time.Time, perkID string) (PerkDefinition, error) {
	def, ok := c.catalog.Get(perkID)
	if !ok {
		return PerkDefinition{}, reject(ErrUnknownPerk, "Unknown perk")
	}
	if def.Stacking == StackNone {
		if _, active := s.ActivePerk(def.ID, now); active {
			return PerkDefinition{}, reject(ErrPerkAlreadyActive, "Perk already active")
		}
	}
	return def, nil
}

// materialize creates an inventory instance following the definition's
// duration policy.
func materialize(def PerkDefinition, now time.Time, source PerkSource) PerkItem {
	item := PerkItem{
		ID:         ids.WithPrefix("perk", now),
		PerkID:     def.ID,
		AcquiredAt: now,
		Source:     source,
	}
	switch def.Duration.Kind {
	case DurationTimeLimited:
		exp := now.Add(time.Duration(def.Duration.Value) * time.Second)
		item.ExpiresAt = &exp
	case DurationUses:
		uses := def.Duration.Value
		item.RemainingUses = &uses
	}
	return item
}
