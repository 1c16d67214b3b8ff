package economy

import (
	"encoding/json"
	"fmt"
	"time"
)

type Role string

const (
	RoleFan     Role = "fan"
	RoleCreator Role = "creator"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleFan, RoleCreator, RoleAdmin:
		return true
	default:
		return false
	}
}

type EffectType string

const (
	EffectEarningMultiplier    EffectType = "EARNING_MULTIPLIER"
	EffectDailyClaimBonus      EffectType = "DAILY_CLAIM_BONUS"
	EffectDailyClaimMultiplier EffectType = "DAILY_CLAIM_MULTIPLIER"
	EffectDailyLimitBonus      EffectType = "DAILY_LIMIT_BONUS"
)

// effectOrder fixes the output order of aggregated effects.
var effectOrder = []EffectType{
	EffectDailyClaimBonus,
	EffectDailyClaimMultiplier,
	EffectEarningMultiplier,
	EffectDailyLimitBonus,
}

type EffectMode string

const (
	ModeAdd EffectMode = "add"
	ModeMul EffectMode = "mul"
)

type PerkEffect struct {
	Type  EffectType `json:"type"`
	Value float64    `json:"value"`
	Mode  EffectMode `json:"mode,omitempty"`
}

// EffectiveMode defaults an unset mode to add.
func (e PerkEffect) EffectiveMode() EffectMode {
	if e.Mode == ModeMul {
		return ModeMul
	}
	return ModeAdd
}

type DurationKind string

const (
	DurationPermanent   DurationKind = "PERMANENT"
	DurationTimeLimited DurationKind = "TIME_LIMITED"
	DurationUses        DurationKind = "USES"
)

// Duration is the lifetime policy of a perk. Value is seconds for
// TIME_LIMITED and a use count for USES.
type Duration struct {
	Kind  DurationKind `json:"kind"`
	Value int64        `json:"value,omitempty"`
}

type StackingRule string

const (
	StackNone           StackingRule = "NONE"
	StackAdditive       StackingRule = "ADDITIVE"
	StackMultiplicative StackingRule = "MULTIPLICATIVE"
)

type PerkCategory string

const (
	CategoryBoost    PerkCategory = "BOOST"
	CategoryGame     PerkCategory = "GAME"
	CategoryCosmetic PerkCategory = "COSMETIC"
	CategoryAccess   PerkCategory = "ACCESS"
)

type PerkDefinition struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	PriceGold   int64        `json:"priceGold"`
	RoleGate    Role         `json:"roleGate,omitempty"`
	Effects     []PerkEffect `json:"effects,omitempty"`
	Duration    Duration     `json:"duration"`
	Stacking    StackingRule `json:"stackingRule"`
	Category    PerkCategory `json:"type"`
}

type PerkSource string

const (
	SourceShopPurchase PerkSource = "SHOP_PURCHASE"
	SourceRewardTicket PerkSource = "REWARD_TICKET"
	SourceAdminGrant   PerkSource = "ADMIN_GRANT"
)

type PerkItem struct {
	ID            string     `json:"id"`
	PerkID        string     `json:"perkId"`
	AcquiredAt    time.Time  `json:"acquiredAt"`
	Source        PerkSource `json:"source"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
	RemainingUses *int64     `json:"remainingUses,omitempty"`
}

// Active reports whether the item is unexpired and has uses left.
func (p PerkItem) Active(now time.Time) bool {
	if p.ExpiresAt != nil && !p.ExpiresAt.After(now) {
		return false
	}
	if p.RemainingUses != nil && *p.RemainingUses <= 0 {
		return false
	}
	return true
}

func (p PerkItem) Permanent() bool {
	return p.ExpiresAt == nil && p.RemainingUses == nil
}

type NFTTier string

const (
	TierSilver  NFTTier = "silver"
	TierGold    NFTTier = "gold"
	TierDiamond NFTTier = "diamond"
)

func (t NFTTier) Valid() bool {
	switch t {
	case TierSilver, TierGold, TierDiamond:
		return true
	default:
		return false
	}
}

// NFTItem is an off-chain inventory entry. Placeholder entries are never
// authoritative ownership records.
type NFTItem struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Tier         NFTTier   `json:"tier"`
	CreatedAt    time.Time `json:"createdAt"`
	SourcePerkID string    `json:"sourcePerkId,omitempty"`
	Chain        string    `json:"chain,omitempty"`
	Placeholder  bool      `json:"isPlaceholder,omitempty"`
}

type TicketStatus string

const (
	TicketPending TicketStatus = "PENDING"
	TicketClaimed TicketStatus = "CLAIMED"
	TicketExpired TicketStatus = "EXPIRED"
)

type TicketSource string

const (
	TicketFromGameMatch TicketSource = "GAME_MATCH"
	TicketFromEvent     TicketSource = "EVENT"
	TicketFromAdmin     TicketSource = "ADMIN"
)

type RewardKind string

const (
	RewardGoldPoints     RewardKind = "GOLD_POINTS"
	RewardPerkItem       RewardKind = "PERK_ITEM"
	RewardNFTPlaceholder RewardKind = "NFT_PLACEHOLDER"
)

// Reward is the closed set of ticket rewards: GoldPoints, PerkReward and
// NFTPlaceholder.
type Reward interface {
	Kind() RewardKind
	sealed()
}

type GoldPoints struct {
	Amount int64
}

type PerkReward struct {
	PerkID string
}

type NFTPlaceholder struct {
	Name string
	Tier NFTTier
}

func (GoldPoints) Kind() RewardKind     { return RewardGoldPoints }
func (PerkReward) Kind() RewardKind     { return RewardPerkItem }
func (NFTPlaceholder) Kind() RewardKind { return RewardNFTPlaceholder }

func (GoldPoints) sealed()     {}
func (PerkReward) sealed()     {}
func (NFTPlaceholder) sealed() {}

type RewardTicket struct {
	ID        string       `json:"id"`
	CreatedAt time.Time    `json:"createdAt"`
	Source    TicketSource `json:"source"`
	Status    TicketStatus `json:"status"`
	ExpiresAt *time.Time   `json:"expiresAt,omitempty"`
	Reward    Reward       `json:"-"`
}

type rewardWire struct {
	Kind   RewardKind `json:"kind"`
	Amount *int64     `json:"amount,omitempty"`
	PerkID string     `json:"perkId,omitempty"`
	Name   string     `json:"name,omitempty"`
	Tier   NFTTier    `json:"tier,omitempty"`
}

type ticketWire struct {
	ID        string       `json:"id"`
	CreatedAt time.Time    `json:"createdAt"`
	Source    TicketSource `json:"source"`
	Status    TicketStatus `json:"status"`
	ExpiresAt *time.Time   `json:"expiresAt,omitempty"`
	Reward    *rewardWire  `json:"reward"`
}

func encodeReward(r Reward) (*rewardWire, error) {
	switch v := r.(type) {
	case GoldPoints:
		amount := v.Amount
		return &rewardWire{Kind: RewardGoldPoints, Amount: &amount}, nil
	case PerkReward:
		return &rewardWire{Kind: RewardPerkItem, PerkID: v.PerkID}, nil
	case NFTPlaceholder:
		return &rewardWire{Kind: RewardNFTPlaceholder, Name: v.Name, Tier: v.Tier}, nil
	case nil:
		return nil, fmt.Errorf("reward is required")
	default:
		return nil, fmt.Errorf("unsupported reward %T", r)
	}
}

func decodeReward(w *rewardWire) (Reward, error) {
	if w == nil {
		return nil, fmt.Errorf("reward is required")
	}
	switch w.Kind {
	case RewardGoldPoints:
		var amount int64
		if w.Amount != nil {
			amount = *w.Amount
		}
		return GoldPoints{Amount: amount}, nil
	case RewardPerkItem:
		return PerkReward{PerkID: w.PerkID}, nil
	case RewardNFTPlaceholder:
		return NFTPlaceholder{Name: w.Name, Tier: w.Tier}, nil
	default:
		return nil, fmt.Errorf("unknown reward kind %q", w.Kind)
	}
}

func (t RewardTicket) MarshalJSON() ([]byte, error) {
	rw, err := encodeReward(t.Reward)
	if err != nil {
		return nil, fmt.Errorf("ticket %s: %w", t.ID, err)
	}
	return json.Marshal(ticketWire{
		ID:        t.ID,
		CreatedAt: t.CreatedAt,
		Source:    t.Source,
		Status:    t.Status,
		ExpiresAt: t.ExpiresAt,
		Reward:    rw,
	})
}

func (t *RewardTicket) UnmarshalJSON(data []byte) error {
	var w ticketWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	reward, err := decodeReward(w.Reward)
	if err != nil {
		return fmt.Errorf("ticket %s: %w", w.ID, err)
	}
	*t = RewardTicket{
		ID:        w.ID,
		CreatedAt: w.CreatedAt,
		Source:    w.Source,
		Status:    w.Status,
		ExpiresAt: w.ExpiresAt,
		Reward:    reward,
	}
	return nil
}

type EarningAction struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	BaseReward      int64  `json:"baseReward"`
	CooldownSeconds int64  `json:"cooldownSeconds"`
	DailyLimit      int    `json:"dailyLimit"`
	RoleGate        Role   `json:"roleGate,omitempty"`
}

// ActionState is the per-action rate-limit record. UsedToday only counts
// when DayKey is today's local key.
type ActionState struct {
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
	UsedToday  int        `json:"usedTodayCount"`
	DayKey     string     `json:"dayKey"`
}

// ModelTracker records which model ids were used today (UTC) by the
// model-scoped actions.
type ModelTracker struct {
	DayKey string              `json:"dayKeyUTC"`
	Models map[string][]string `json:"models,omitempty"`
}

type EarningLogEntry struct {
	ID     string    `json:"id"`
	Type   string    `json:"type"`
	Amount int64     `json:"amount"`
	At     time.Time `json:"createdAt"`
	Note   string    `json:"note,omitempty"`
}

// Boosts is derived from the active effects and never persisted as a
// source of truth.
type Boosts struct {
	DailyClaimMultiplier float64 `json:"dailyClaimMultiplier"`
	EarningMultiplier    float64 `json:"earningMultiplier"`
	DailyLimitBonus      int     `json:"dailyLimitBonus"`
}

func NeutralBoosts() Boosts {
	return Boosts{DailyClaimMultiplier: 1, EarningMultiplier: 1}
}
