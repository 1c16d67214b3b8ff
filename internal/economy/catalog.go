package economy

import (
	"slices"
	"strings"
)

const (
	PerkGoldPass            = "perk_gold_pass"
	PerkBoostDaily          = "perk_boost_daily"
	PerkDailyMultiplier     = "perk_daily_multiplier"
	PerkEarnBoost10         = "perk_earn_boost_10"
	PerkLuckyCharm          = "perk_lucky_charm"
	PerkExtraActions        = "perk_extra_actions"
	PerkProfileBadge        = "perk_profile_badge"
	PerkCreatorDropAccess   = "perk_creator_drop_access"
	PerkPriorityMatchmaking = "perk_priority_matchmaking"
)

const (
	ActionDailyClaim       = "DAILY_CLAIM"
	ActionDailyCheckIn     = "DAILY_CHECK_IN"
	ActionPlayMatch        = "PLAY_MATCH"
	ActionWinMatch         = "WIN_MATCH"
	ActionCompleteSession  = "COMPLETE_SESSION"
	ActionViewModelProfile = "VIEW_MODEL_PROFILE"
	ActionShareProfile     = "SHARE_PROFILE"
	ActionCreatorSpotlight = "CREATOR_SPOTLIGHT"
)

const (
	day  = 24 * 60 * 60
	week = 7 * day
)

// Catalog is an immutable, ordered set of perk definitions.
type Catalog struct {
	defs []PerkDefinition
	byID map[string]int
}

func NewCatalog(defs []PerkDefinition) *Catalog {
	c := &Catalog{byID: make(map[string]int, len(defs))}
	for _, def := range defs {
		if def.ID == "" {
			continue
		}
		if i, ok := c.byID[def.ID]; ok {
			c.defs[i] = def
			continue
		}
		c.byID[def.ID] = len(c.defs)
		c.defs = append(c.defs, def)
	}
	return c
}

func (c *Catalog) Get(id string) (PerkDefinition, bool) {
	i, ok := c.byID[id]
	if !ok {
		return PerkDefinition{}, false
	}
	return c.defs[i], true
}

func (c *Catalog) All() []PerkDefinition {
	return slices.Clone(c.defs)
}

func DefaultCatalog() *Catalog {
	return NewCatalog([]PerkDefinition{
		{
			ID:          PerkGoldPass,
			Title:       "Gold Pass",
			Description: "Seven days of premium access and one extra use of every earning action.",
			PriceGold:   300,
			Effects:     []PerkEffect{{Type: EffectDailyLimitBonus, Value: 1, Mode: ModeAdd}},
			Duration:    Duration{Kind: DurationTimeLimited, Value: week},
			Stacking:    StackNone,
			Category:    CategoryAccess,
		},
		{
			ID:          PerkBoostDaily,
			Title:       "Daily Boost",
			Description: "+20 Gold on every daily claim for a week.",
			PriceGold:   25,
			Effects:     []PerkEffect{{Type: EffectDailyClaimBonus, Value: 20, Mode: ModeAdd}},
			Duration:    Duration{Kind: DurationTimeLimited, Value: week},
			Stacking:    StackNone,
			Category:    CategoryBoost,
		},
		{
			ID:          PerkDailyMultiplier,
			Title:       "Daily Multiplier",
			Description: "+20% on daily claims for three days. Stacks.",
			PriceGold:   150,
			Effects:     []PerkEffect{{Type: EffectDailyClaimMultiplier, Value: 0.2, Mode: ModeMul}},
			Duration:    Duration{Kind: DurationTimeLimited, Value: 3 * day},
			Stacking:    StackAdditive,
			Category:    CategoryBoost,
		},
		{
			ID:          PerkEarnBoost10,
			Title:       "Earn Boost 10%",
			Description: "+10% on every payout for a day. Compounds.",
			PriceGold:   80,
			Effects:     []PerkEffect{{Type: EffectEarningMultiplier, Value: 0.1, Mode: ModeMul}},
			Duration:    Duration{Kind: DurationTimeLimited, Value: day},
			Stacking:    StackMultiplicative,
			Category:    CategoryBoost,
		},
		{
			ID:          PerkLuckyCharm,
			Title:       "Lucky Charm",
			Description: "+50% on the next three payouts.",
			PriceGold:   40,
			Effects:     []PerkEffect{{Type: EffectEarningMultiplier, Value: 0.5, Mode: ModeMul}},
			Duration:    Duration{Kind: DurationUses, Value: 3},
			Stacking:    StackAdditive,
			Category:    CategoryBoost,
		},
		{
			ID:          PerkExtraActions,
			Title:       "Extra Actions",
			Description: "Two more uses of every earning action today.",
			PriceGold:   60,
			Effects:     []PerkEffect{{Type: EffectDailyLimitBonus, Value: 2, Mode: ModeAdd}},
			Duration:    Duration{Kind: DurationTimeLimited, Value: day},
			Stacking:    StackAdditive,
			Category:    CategoryBoost,
		},
		{
			ID:          PerkProfileBadge,
			Title:       "Profile Badge",
			Description: "A gold badge on your profile.",
			PriceGold:   50,
			Duration:    Duration{Kind: DurationPermanent},
			Stacking:    StackNone,
			Category:    CategoryCosmetic,
		},
		{
			ID:          PerkCreatorDropAccess,
			Title:       "Creator Drop Access",
			Description: "Unlocks the Lora passport and creator drops.",
			PriceGold:   120,
			Duration:    Duration{Kind: DurationPermanent},
			Stacking:    StackNone,
			Category:    CategoryAccess,
		},
		{
			ID:          PerkPriorityMatchmaking,
			Title:       "Priority Matchmaking",
			Description: "Game room access with priority queueing.",
			PriceGold:   250,
			RoleGate:    RoleCreator,
			Duration:    Duration{Kind: DurationPermanent},
			Stacking:    StackNone,
			Category:    CategoryGame,
		},
	})
}

func DefaultActions() []EarningAction {
	return []EarningAction{
		{ID: ActionDailyCheckIn, Title: "Daily check-in", BaseReward: 5, DailyLimit: 1},
		{ID: ActionPlayMatch, Title: "Play a match", BaseReward: 10, CooldownSeconds: 60, DailyLimit: 10},
		{ID: ActionWinMatch, Title: "Win a match", BaseReward: 25, CooldownSeconds: 60, DailyLimit: 5},
		{ID: ActionCompleteSession, Title: "Complete a session", BaseReward: 20, CooldownSeconds: 300, DailyLimit: 5},
		{ID: ActionViewModelProfile, Title: "View a model profile", BaseReward: 2, CooldownSeconds: 10, DailyLimit: 10},
		{ID: ActionShareProfile, Title: "Share a profile", BaseReward: 5, CooldownSeconds: 30, DailyLimit: 3},
		{ID: ActionCreatorSpotlight, Title: "Creator spotlight", BaseReward: 100, DailyLimit: 1, RoleGate: RoleCreator},
	}
}

var actionAliases = map[string]string{
	"CHECK_IN":     ActionDailyCheckIn,
	"TASK":         ActionCompleteSession,
	"task":         ActionCompleteSession,
	"MATCH_PLAYED": ActionPlayMatch,
	"MATCH_WON":    ActionWinMatch,
	"VIEW_PROFILE": ActionViewModelProfile,
	"SHARE":        ActionShareProfile,
}

// CanonicalActionID maps legacy action ids to their current name.
func CanonicalActionID(id string) string {
	if canonical, ok := actionAliases[id]; ok {
		return canonical
	}
	return strings.TrimSpace(id)
}

// IsModelScoped reports whether the action requires a unique model id per
// UTC day.
func IsModelScoped(actionID string) bool {
	return actionID == ActionViewModelProfile || actionID == ActionShareProfile
}

// MergeActions overlays a remote action catalog on base. Remote ids are
// canonicalized first; base entries missing remotely are kept.
func MergeActions(base, remote []EarningAction) []EarningAction {
	if len(remote) == 0 {
		return slices.Clone(base)
	}
	incoming := make(map[string]EarningAction, len(remote))
	var extra []string
	for _, a := range remote {
		a.ID = CanonicalActionID(a.ID)
		if a.ID == "" {
			continue
		}
		if _, seen := incoming[a.ID]; !seen {
			extra = append(extra, a.ID)
		}
		incoming[a.ID] = a
	}
	out := make([]EarningAction, 0, len(base)+len(extra))
	known := make(map[string]struct{}, len(base))
	for _, a := range base {
		known[a.ID] = struct{}{}
		if r, ok := incoming[a.ID]; ok {
			out = append(out, r)
			continue
		}
		out = append(out, a)
	}
	for _, id := range extra {
		if _, ok := known[id]; ok {
			continue
		}
		out = append(out, incoming[id])
	}
	return out
}
