package economy

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"gold-economy/internal/daykey"
	"gold-economy/internal/ledger"
)

var t0 = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestController() *Controller {
	return NewController(DefaultCatalog(), DefaultRules(), daykey.New(time.UTC))
}

func walletState(balance int64) *State {
	s := NewState(RoleFan, balance)
	s.WalletAddress = "0xabc"
	return s
}

func effectValue(effects []PerkEffect, typ EffectType, mode EffectMode) (float64, bool) {
	for _, e := range effects {
		if e.Type == typ && e.Mode == mode {
			return e.Value, true
		}
	}
	return 0, false
}

func mustBuy(t *testing.T, c *Controller, s *State, now time.Time, perkID string) PurchaseResult {
	t.Helper()
	res, err := c.BuyPerk(s, now, perkID)
	if err != nil {
		t.Fatalf("BuyPerk(%s): %v", perkID, err)
	}
	return res
}

func TestActiveEffectsMultiplicativeCompounds(t *testing.T) {
	c := newTestController()
	s := NewState(RoleFan, 1000)
	mustBuy(t, c, s, t0, PerkEarnBoost10)
	mustBuy(t, c, s, t0, PerkEarnBoost10)

	got, ok := effectValue(c.Effects(s, t0), EffectEarningMultiplier, ModeMul)
	if !ok {
		t.Fatalf("missing earning multiplier")
	}
	if math.Abs(got-0.21) > 1e-9 {
		t.Fatalf("compounded multiplier = %v, want 0.21", got)
	}
	if math.Abs(s.Boosts.EarningMultiplier-1.21) > 1e-9 {
		t.Fatalf("boost = %v, want 1.21", s.Boosts.EarningMultiplier)
	}
}

func TestActiveEffectsAdditiveSums(t *testing.T) {
	c := newTestController()
	s := NewState(RoleFan, 1000)
	mustBuy(t, c, s, t0, PerkDailyMultiplier)
	mustBuy(t, c, s, t0, PerkDailyMultiplier)

	got, _ := effectValue(c.Effects(s, t0), EffectDailyClaimMultiplier, ModeMul)
	if math.Abs(got-0.4) > 1e-9 {
		t.Fatalf("summed multiplier = %v, want 0.4", got)
	}
}

func TestActiveEffectsNoneTakesStrongest(t *testing.T) {
	catalog := NewCatalog([]PerkDefinition{
		{ID: "small", Stacking: StackNone, Effects: []PerkEffect{{Type: EffectDailyClaimBonus, Value: 10}}},
		{ID: "big", Stacking: StackNone, Effects: []PerkEffect{{Type: EffectDailyClaimBonus, Value: 20}}},
	})
	items := []PerkItem{{PerkID: "small"}, {PerkID: "big"}, {PerkID: "missing"}}

	got, ok := effectValue(ActiveEffects(items, catalog, t0), EffectDailyClaimBonus, ModeAdd)
	if !ok || got != 20 {
		t.Fatalf("strongest = %v (%v), want 20", got, ok)
	}
}

func TestActiveEffectsMixedStacking(t *testing.T) {
	catalog := NewCatalog([]PerkDefinition{
		{ID: "none_small", Stacking: StackNone, Effects: []PerkEffect{{Type: EffectEarningMultiplier, Value: 0.1, Mode: ModeMul}}},
		{ID: "none_big", Stacking: StackNone, Effects: []PerkEffect{{Type: EffectEarningMultiplier, Value: 0.3, Mode: ModeMul}}},
		{ID: "additive", Stacking: StackAdditive, Effects: []PerkEffect{{Type: EffectEarningMultiplier, Value: 0.05, Mode: ModeMul}}},
		{ID: "compound", Stacking: StackMultiplicative, Effects: []PerkEffect{{Type: EffectEarningMultiplier, Value: 0.1, Mode: ModeMul}}},
	})
	cases := []struct {
		name  string
		perks []string
		want  float64
	}{
		{name: "none plus two compounding", perks: []string{"none_small", "compound", "compound"}, want: 0.31},
		{name: "strongest none plus additive", perks: []string{"none_small", "none_big", "additive", "additive"}, want: 0.4},
		{name: "all three rules", perks: []string{"none_big", "additive", "compound", "none_small", "compound"}, want: 0.56},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			items := make([]PerkItem, 0, len(tc.perks))
			for _, id := range tc.perks {
				items = append(items, PerkItem{PerkID: id})
			}
			effects := ActiveEffects(items, catalog, t0)
			got, ok := effectValue(effects, EffectEarningMultiplier, ModeMul)
			if !ok || math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("EARNING_MULTIPLIER mul = %v (%v), want %v", got, ok, tc.want)
			}
			if len(effects) != 1 {
				t.Fatalf("effects = %+v, want one merged entry", effects)
			}
		})
	}
}

func TestActiveEffectsSkipsInactive(t *testing.T) {
	past := t0.Add(-time.Second)
	zero := int64(0)
	items := []PerkItem{
		{PerkID: PerkBoostDaily, ExpiresAt: &past},
		{PerkID: PerkLuckyCharm, RemainingUses: &zero},
	}
	if got := ActiveEffects(items, DefaultCatalog(), t0); len(got) != 0 {
		t.Fatalf("effects = %v, want none", got)
	}
}

func TestCalculateGoldPointsDailyExample(t *testing.T) {
	bd := CalculateGoldPoints(ActionDailyClaim, RewardContext{
		BaseReward: 25,
		Streak:     3,
		Effects: []PerkEffect{
			{Type: EffectDailyClaimBonus, Value: 20, Mode: ModeAdd},
			{Type: EffectDailyClaimMultiplier, Value: 0.2, Mode: ModeMul},
		},
	})
	if bd.FinalGold != 54 {
		t.Fatalf("final gold = %d, want 54", bd.FinalGold)
	}
}

func TestCalculateGoldPoints(t *testing.T) {
	tests := []struct {
		name   string
		action string
		ctx    RewardContext
		want   int64
	}{
		{
			name:   "streak capped",
			action: ActionDailyClaim,
			ctx:    RewardContext{BaseReward: 25, Streak: 7, StreakCap: 3, StreakAdd: 5},
			want:   40,
		},
		{
			name:   "streak uncapped",
			action: ActionDailyClaim,
			ctx:    RewardContext{BaseReward: 25, Streak: 7, StreakAdd: 5},
			want:   60,
		},
		{
			name:   "generic action ignores daily effects",
			action: ActionPlayMatch,
			ctx: RewardContext{BaseReward: 10, Streak: 4, StreakAdd: 5, Effects: []PerkEffect{
				{Type: EffectDailyClaimBonus, Value: 20},
				{Type: EffectDailyClaimMultiplier, Value: 1, Mode: ModeMul},
				{Type: EffectEarningMultiplier, Value: 0.5, Mode: ModeMul},
			}},
			want: 15,
		},
		{
			name:   "negative clamps to zero",
			action: ActionDailyClaim,
			ctx:    RewardContext{BaseReward: 5, Effects: []PerkEffect{{Type: EffectDailyClaimBonus, Value: -50}}},
			want:   0,
		},
		{
			name:   "holder flag is identity",
			action: ActionDailyClaim,
			ctx:    RewardContext{BaseReward: 25, IsGoldHolder: true},
			want:   25,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateGoldPoints(tt.action, tt.ctx).FinalGold; got != tt.want {
				t.Fatalf("final gold = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBuyPerkInsufficientGoldLeavesBalance(t *testing.T) {
	c := newTestController()
	s := NewState(RoleFan, 100)

	_, err := c.BuyPerk(s, t0, PerkCreatorDropAccess)
	if !errors.Is(err, ErrInsufficientGold) {
		t.Fatalf("err = %v, want ErrInsufficientGold", err)
	}
	if ReasonOf(err) != "Not enough Gold" {
		t.Fatalf("reason = %q", ReasonOf(err))
	}
	if s.Ledger.Balance() != 100 {
		t.Fatalf("balance = %d, want 100", s.Ledger.Balance())
	}
	if len(s.Perks) != 0 || len(s.Ledger.Transactions()) != 0 {
		t.Fatalf("state changed: perks=%d txs=%d", len(s.Perks), len(s.Ledger.Transactions()))
	}
}

func TestBuyPerkStackingRules(t *testing.T) {
	c := newTestController()
	s := NewState(RoleFan, 1000)

	mustBuy(t, c, s, t0, PerkProfileBadge)
	if _, err := c.BuyPerk(s, t0, PerkProfileBadge); !errors.Is(err, ErrPerkAlreadyActive) {
		t.Fatalf("second NONE purchase err = %v, want ErrPerkAlreadyActive", err)
	}

	mustBuy(t, c, s, t0, PerkExtraActions)
	mustBuy(t, c, s, t0, PerkExtraActions)
	if s.Boosts.DailyLimitBonus != 4 {
		t.Fatalf("limit bonus = %d, want 4", s.Boosts.DailyLimitBonus)
	}
	if s.Ledger.Balance() != 1000-50-60-60 {
		t.Fatalf("balance = %d", s.Ledger.Balance())
	}
}

func TestBuyPerkAfterExpiry(t *testing.T) {
	c := newTestController()
	s := NewState(RoleFan, 1000)
	res := mustBuy(t, c, s, t0, PerkBoostDaily)
	if res.Item.ExpiresAt == nil || !res.Item.ExpiresAt.Equal(t0.Add(7*24*time.Hour)) {
		t.Fatalf("expiresAt = %v", res.Item.ExpiresAt)
	}
	if _, err := c.BuyPerk(s, t0.Add(time.Hour), PerkBoostDaily); !errors.Is(err, ErrPerkAlreadyActive) {
		t.Fatalf("err = %v, want ErrPerkAlreadyActive", err)
	}
	mustBuy(t, c, s, t0.Add(8*24*time.Hour), PerkBoostDaily)
}

func TestBuyPerkRejections(t *testing.T) {
	c := newTestController()
	s := NewState(RoleFan, 1000)

	if _, err := c.BuyPerk(s, t0, "perk_nope"); !errors.Is(err, ErrUnknownPerk) {
		t.Fatalf("unknown err = %v", err)
	}
	if _, err := c.BuyPerk(s, t0, PerkPriorityMatchmaking); !errors.Is(err, ErrRoleRestricted) {
		t.Fatalf("role err = %v", err)
	}
	s.Role = RoleCreator
	mustBuy(t, c, s, t0, PerkPriorityMatchmaking)
}

func TestGrantPerkIsFree(t *testing.T) {
	c := newTestController()
	s := NewState(RoleFan, 0)
	item, err := c.GrantPerk(s, t0, PerkGoldPass)
	if err != nil {
		t.Fatalf("GrantPerk: %v", err)
	}
	if item.Source != SourceAdminGrant || s.Ledger.Balance() != 0 {
		t.Fatalf("item = %+v balance = %d", item, s.Ledger.Balance())
	}
	if _, err := c.GrantPerk(s, t0, PerkGoldPass); !errors.Is(err, ErrPerkAlreadyActive) {
		t.Fatalf("err = %v, want ErrPerkAlreadyActive", err)
	}
}

func TestClaimDailyStreakWindows(t *testing.T) {
	c := newTestController()
	s := NewState(RoleFan, 0)

	if _, err := c.ClaimDaily(s, t0); ReasonOf(err) != "Wallet not connected" {
		t.Fatalf("err = %v, want wallet rejection", err)
	}
	s.WalletAddress = "0xabc"

	first, err := c.ClaimDaily(s, t0)
	if err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if first.Streak != 1 || first.Amount != 25 {
		t.Fatalf("first = %+v", first)
	}

	_, err = c.ClaimDaily(s, t0.Add(time.Hour))
	if got := ReasonOf(err); got != "Next claim in 23h 0m" {
		t.Fatalf("reason = %q", got)
	}
	_, err = c.ClaimDaily(s, t0.Add(24*time.Hour-30*time.Second))
	if got := ReasonOf(err); got != "Next claim in seconds" {
		t.Fatalf("reason = %q", got)
	}

	second, err := c.ClaimDaily(s, t0.Add(30*time.Hour))
	if err != nil {
		t.Fatalf("second claim: %v", err)
	}
	if second.Streak != 2 {
		t.Fatalf("streak = %d, want 2", second.Streak)
	}

	third, err := c.ClaimDaily(s, t0.Add(30*time.Hour+49*time.Hour))
	if err != nil {
		t.Fatalf("third claim: %v", err)
	}
	if third.Streak != 1 {
		t.Fatalf("streak = %d, want 1", third.Streak)
	}
	if s.Ledger.Balance() != 75 {
		t.Fatalf("balance = %d, want 75", s.Ledger.Balance())
	}
	if len(s.EarningLog) != 3 {
		t.Fatalf("earning log = %d, want 3", len(s.EarningLog))
	}
}

func TestClaimDailyAppliesPerks(t *testing.T) {
	c := newTestController()
	s := walletState(175)
	mustBuy(t, c, s, t0, PerkBoostDaily)
	mustBuy(t, c, s, t0, PerkDailyMultiplier)

	res, err := c.ClaimDaily(s, t0)
	if err != nil {
		t.Fatalf("ClaimDaily: %v", err)
	}
	if res.Amount != 54 {
		t.Fatalf("amount = %d, want 54", res.Amount)
	}
	txs := s.Ledger.Transactions()
	if txs[0].Reason != ledger.ReasonDailyClaim || txs[0].Amount != 54 {
		t.Fatalf("latest tx = %+v", txs[0])
	}
}

func TestCanUseActionRejections(t *testing.T) {
	c := newTestController()
	s := NewState(RoleFan, 0)

	tests := []struct {
		name   string
		action string
		params ActionParams
		want   error
		reason string
	}{
		{"unknown", "NOPE", ActionParams{}, ErrUnknownAction, "Unknown action"},
		{"role", ActionCreatorSpotlight, ActionParams{}, ErrRoleRestricted, "Role restricted"},
		{"model required", ActionViewModelProfile, ActionParams{}, ErrModelRequired, "Model required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.CanUseAction(s, t0, tt.action, tt.params)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if ReasonOf(err) != tt.reason {
				t.Fatalf("reason = %q, want %q", ReasonOf(err), tt.reason)
			}
		})
	}
}

func TestPerformActionCooldown(t *testing.T) {
	c := newTestController()
	s := NewState(RoleFan, 0)

	res, err := c.PerformAction(s, t0, ActionPlayMatch, ActionParams{})
	if err != nil {
		t.Fatalf("PerformAction: %v", err)
	}
	if res.Amount != 10 || res.UsedToday != 1 {
		t.Fatalf("result = %+v", res)
	}
	err = c.CanUseAction(s, t0.Add(30*time.Second), ActionPlayMatch, ActionParams{})
	if ReasonOf(err) != "Cooldown: 30s remaining" {
		t.Fatalf("reason = %q", ReasonOf(err))
	}
	if err := c.CanUseAction(s, t0.Add(61*time.Second), ActionPlayMatch, ActionParams{}); err != nil {
		t.Fatalf("after cooldown: %v", err)
	}
}

func TestPerformActionDailyLimitResetsNextDay(t *testing.T) {
	c := newTestController()
	s := NewState(RoleFan, 0)

	if _, err := c.PerformAction(s, t0, ActionDailyCheckIn, ActionParams{}); err != nil {
		t.Fatalf("first check-in: %v", err)
	}
	if _, err := c.PerformAction(s, t0.Add(time.Minute), ActionDailyCheckIn, ActionParams{}); !errors.Is(err, ErrDailyLimitReached) {
		t.Fatalf("err = %v, want ErrDailyLimitReached", err)
	}
	if _, err := c.PerformAction(s, t0.Add(24*time.Hour), ActionDailyCheckIn, ActionParams{}); err != nil {
		t.Fatalf("next day: %v", err)
	}
	if got := s.ActionStates[ActionDailyCheckIn].UsedToday; got != 1 {
		t.Fatalf("usedToday = %d, want 1", got)
	}
}

func TestPerformActionLimitBonus(t *testing.T) {
	c := newTestController()
	s := NewState(RoleFan, 1000)
	mustBuy(t, c, s, t0, PerkGoldPass)

	for i := 0; i < 2; i++ {
		if _, err := c.PerformAction(s, t0.Add(time.Duration(i)*time.Minute), ActionDailyCheckIn, ActionParams{}); err != nil {
			t.Fatalf("check-in %d: %v", i, err)
		}
	}
	if _, err := c.PerformAction(s, t0.Add(5*time.Minute), ActionDailyCheckIn, ActionParams{}); !errors.Is(err, ErrDailyLimitReached) {
		t.Fatalf("err = %v, want ErrDailyLimitReached", err)
	}
}

func TestModelScopedActionsRequireUniqueModels(t *testing.T) {
	c := newTestController()
	s := NewState(RoleFan, 0)
	p := ActionParams{ModelID: "m1"}

	if err := c.CanUseAction(s, t0, ActionViewModelProfile, p); err != nil {
		t.Fatalf("CanUseAction: %v", err)
	}
	if _, err := c.PerformAction(s, t0, ActionViewModelProfile, p); err != nil {
		t.Fatalf("PerformAction: %v", err)
	}
	later := t0.Add(time.Hour)
	err := c.CanUseAction(s, later, ActionViewModelProfile, p)
	if ReasonOf(err) != "Unique models only" {
		t.Fatalf("reason = %q, want Unique models only", ReasonOf(err))
	}
	if _, err := c.PerformAction(s, later, ActionViewModelProfile, ActionParams{ModelID: "m2"}); err != nil {
		t.Fatalf("second model: %v", err)
	}
	if _, err := c.PerformAction(s, t0.Add(24*time.Hour), ActionViewModelProfile, p); err != nil {
		t.Fatalf("next UTC day: %v", err)
	}
}

func TestUsesPerkDecrementsAndExpires(t *testing.T) {
	c := newTestController()
	s := NewState(RoleFan, 40)
	mustBuy(t, c, s, t0, PerkLuckyCharm)

	var amounts []int64
	for i := 0; i < 4; i++ {
		res, err := c.PerformAction(s, t0.Add(time.Duration(i)*2*time.Minute), ActionPlayMatch, ActionParams{})
		if err != nil {
			t.Fatalf("play %d: %v", i, err)
		}
		amounts = append(amounts, res.Amount)
	}
	want := []int64{15, 15, 15, 10}
	for i := range want {
		if amounts[i] != want[i] {
			t.Fatalf("amounts = %v, want %v", amounts, want)
		}
	}
	if *s.Perks[0].RemainingUses != 0 || s.Perks[0].Active(t0) {
		t.Fatalf("charm still active: %+v", s.Perks[0])
	}
}

func TestUsesConsumedOnlyByWinningNoneItem(t *testing.T) {
	catalog := NewCatalog([]PerkDefinition{
		{ID: "charm_small", Stacking: StackNone, Duration: Duration{Kind: DurationUses, Value: 3},
			Effects: []PerkEffect{{Type: EffectEarningMultiplier, Value: 0.2, Mode: ModeMul}}},
		{ID: "charm_big", Stacking: StackNone, Duration: Duration{Kind: DurationUses, Value: 3},
			Effects: []PerkEffect{{Type: EffectEarningMultiplier, Value: 0.5, Mode: ModeMul}}},
		{ID: "clover", Stacking: StackAdditive, Duration: Duration{Kind: DurationUses, Value: 3},
			Effects: []PerkEffect{{Type: EffectEarningMultiplier, Value: 0.1, Mode: ModeMul}}},
	})
	c := NewController(catalog, DefaultRules(), daykey.New(time.UTC))
	uses := func(n int64) *int64 { return &n }
	s := NewState(RoleFan, 0)
	s.Perks = []PerkItem{
		{ID: "a", PerkID: "charm_small", RemainingUses: uses(3)},
		{ID: "b", PerkID: "charm_big", RemainingUses: uses(3)},
		{ID: "c", PerkID: "clover", RemainingUses: uses(3)},
	}

	if got := contributors(s.Perks, catalog, t0, EffectEarningMultiplier); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("contributors = %v, want [1 2]", got)
	}

	res, err := c.PerformAction(s, t0, ActionPlayMatch, ActionParams{})
	if err != nil {
		t.Fatalf("PerformAction: %v", err)
	}
	if res.Amount != 16 {
		t.Fatalf("amount = %d, want 16", res.Amount)
	}
	left := map[string]int64{}
	for _, p := range s.Perks {
		left[p.ID] = *p.RemainingUses
	}
	if left["a"] != 3 || left["b"] != 2 || left["c"] != 2 {
		t.Fatalf("remaining uses = %v, want a=3 b=2 c=2", left)
	}
}

func TestClaimTicket(t *testing.T) {
	c := newTestController()
	past := t0.Add(-time.Minute)
	s := NewState(RoleFan, 0)
	s.Tickets = []RewardTicket{
		{ID: "gold", Status: TicketPending, Reward: GoldPoints{Amount: 40}},
		{ID: "perk", Status: TicketPending, Reward: PerkReward{PerkID: PerkEarnBoost10}},
		{ID: "nft", Status: TicketPending, Reward: NFTPlaceholder{Name: "Lora", Tier: TierDiamond}},
		{ID: "old", Status: TicketPending, ExpiresAt: &past, Reward: GoldPoints{Amount: 5}},
		{ID: "bad", Status: TicketPending, Reward: PerkReward{PerkID: "perk_gone"}},
	}

	if _, err := c.ClaimTicket(s, t0, "gold"); err != nil {
		t.Fatalf("gold: %v", err)
	}
	if s.Ledger.Balance() != 40 {
		t.Fatalf("balance = %d, want 40", s.Ledger.Balance())
	}
	if _, err := c.ClaimTicket(s, t0, "gold"); ReasonOf(err) != "Ticket already processed" {
		t.Fatalf("reclaim err = %v", err)
	}

	claim, err := c.ClaimTicket(s, t0, "perk")
	if err != nil {
		t.Fatalf("perk: %v", err)
	}
	if claim.Perk == nil || claim.Perk.Source != SourceRewardTicket {
		t.Fatalf("perk claim = %+v", claim)
	}
	if math.Abs(s.Boosts.EarningMultiplier-1.1) > 1e-9 {
		t.Fatalf("boost = %v, want 1.1", s.Boosts.EarningMultiplier)
	}

	claim, err = c.ClaimTicket(s, t0, "nft")
	if err != nil {
		t.Fatalf("nft: %v", err)
	}
	if !claim.NFT.Placeholder || claim.NFT.Tier != TierDiamond {
		t.Fatalf("nft = %+v", claim.NFT)
	}

	_, err = c.ClaimTicket(s, t0, "old")
	if ReasonOf(err) != "Ticket expired" || !MutatesOnReject(err) {
		t.Fatalf("expired err = %v", err)
	}
	if tk, _ := s.Ticket("old"); tk.Status != TicketExpired {
		t.Fatalf("status = %s, want EXPIRED", tk.Status)
	}
	if _, err := c.ClaimTicket(s, t0, "old"); ReasonOf(err) != "Ticket already processed" {
		t.Fatalf("expired reclaim err = %v", err)
	}

	if _, err := c.ClaimTicket(s, t0, "bad"); !errors.Is(err, ErrUnknownPerk) {
		t.Fatalf("bad err = %v", err)
	}
	if tk, _ := s.Ticket("bad"); tk.Status != TicketPending {
		t.Fatalf("bad status = %s, want PENDING", tk.Status)
	}
	if _, err := c.ClaimTicket(s, t0, "missing"); ReasonOf(err) != "Ticket not found" {
		t.Fatalf("missing err = %v", err)
	}
}

func TestFinishMatchIsIdempotent(t *testing.T) {
	c := newTestController()
	s := NewState(RoleFan, 0)

	first, created, err := c.FinishMatch(s, t0, "m-1", OutcomeDraw)
	if err != nil || !created {
		t.Fatalf("FinishMatch: created=%v err=%v", created, err)
	}
	if first.ID != "ticket-m-1" || first.Reward != (GoldPoints{Amount: 20}) {
		t.Fatalf("ticket = %+v", first)
	}
	if _, created, _ := c.FinishMatch(s, t0, "m-1", OutcomeWin); created {
		t.Fatalf("second FinishMatch created a ticket")
	}
	if len(s.Tickets) != 1 {
		t.Fatalf("tickets = %d, want 1", len(s.Tickets))
	}
	if _, _, err := c.FinishMatch(s, t0, "m-2", "TIE"); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("err = %v, want ErrInvalidRequest", err)
	}
}

func TestMatchRewardWinIsDeterministic(t *testing.T) {
	a, _ := MatchReward("match-42", OutcomeWin)
	b, _ := MatchReward("match-42", OutcomeWin)
	if a != b {
		t.Fatalf("rewards differ: %v vs %v", a, b)
	}
	switch a.(type) {
	case GoldPoints, PerkReward:
	default:
		t.Fatalf("unexpected reward %T", a)
	}
}

func TestMintNFTAndAirdrop(t *testing.T) {
	c := newTestController()
	s := NewState(RoleFan, 200)

	if _, err := c.MintNFT(s, t0, TierGold); !errors.Is(err, ErrInsufficientGold) {
		t.Fatalf("err = %v, want ErrInsufficientGold", err)
	}
	if _, err := c.Airdrop(s, t0, 100, "promo"); !errors.Is(err, ErrRoleRestricted) {
		t.Fatalf("err = %v, want ErrRoleRestricted", err)
	}
	s.Role = RoleAdmin
	if _, err := c.Airdrop(s, t0, 100, "promo"); err != nil {
		t.Fatalf("Airdrop: %v", err)
	}
	res, err := c.MintNFT(s, t0, "")
	if err != nil {
		t.Fatalf("MintNFT: %v", err)
	}
	if s.Ledger.Balance() != 50 || !res.NFT.Placeholder || res.NFT.Tier != TierGold {
		t.Fatalf("balance = %d nft = %+v", s.Ledger.Balance(), res.NFT)
	}
}

func TestAirdropRejectsOverflow(t *testing.T) {
	c := newTestController()
	s := NewState(RoleAdmin, 0)
	if _, err := c.Airdrop(s, t0, math.MaxInt64-1, "whale"); err != nil {
		t.Fatalf("Airdrop: %v", err)
	}
	before := len(s.Ledger.Transactions())
	if _, err := c.Airdrop(s, t0, 2, "again"); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("err = %v, want ErrInvalidRequest", err)
	}
	if s.Ledger.Balance() != math.MaxInt64-1 || len(s.Ledger.Transactions()) != before {
		t.Fatalf("balance = %d txs = %d after rejected airdrop", s.Ledger.Balance(), len(s.Ledger.Transactions()))
	}
	if _, err := c.Airdrop(s, t0, 1, "top"); err != nil || s.Ledger.Balance() != math.MaxInt64 {
		t.Fatalf("Airdrop(1) err = %v balance = %d", err, s.Ledger.Balance())
	}
}

func TestMergeActionsRemapsAliases(t *testing.T) {
	remote := []EarningAction{
		{ID: "CHECK_IN", Title: "Check in", BaseReward: 7, DailyLimit: 1},
		{ID: "task", Title: "Task", BaseReward: 30, DailyLimit: 2},
		{ID: "EVENT_QUEST", Title: "Quest", BaseReward: 3, DailyLimit: 1},
	}
	merged := MergeActions(DefaultActions(), remote)

	byID := map[string]EarningAction{}
	for _, a := range merged {
		byID[a.ID] = a
	}
	if byID[ActionDailyCheckIn].BaseReward != 7 {
		t.Fatalf("check-in = %+v", byID[ActionDailyCheckIn])
	}
	if byID[ActionCompleteSession].BaseReward != 30 {
		t.Fatalf("session = %+v", byID[ActionCompleteSession])
	}
	if _, ok := byID[ActionShareProfile]; !ok {
		t.Fatalf("default SHARE_PROFILE dropped")
	}
	if _, ok := byID["EVENT_QUEST"]; !ok {
		t.Fatalf("remote-only action dropped")
	}
	if len(merged) != len(DefaultActions())+1 {
		t.Fatalf("merged = %d actions", len(merged))
	}
}

func TestRewardTicketJSON(t *testing.T) {
	in := RewardTicket{ID: "t1", CreatedAt: t0, Source: TicketFromAdmin, Status: TicketPending, Reward: PerkReward{PerkID: PerkGoldPass}}
	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out RewardTicket
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Reward != in.Reward || !out.CreatedAt.Equal(t0) {
		t.Fatalf("round trip = %+v", out)
	}
	if err := json.Unmarshal([]byte(`{"id":"x","reward":{"kind":"MYSTERY"}}`), &out); err == nil {
		t.Fatalf("unknown reward kind accepted")
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{reject(ErrInsufficientGold, "Not enough Gold"), KindValidation},
		{reject(ErrTicketExpired, "Ticket expired"), KindState},
		{reject(ErrSyncFailed, "Failed to sync economy"), KindSync},
		{errors.New("boom"), KindInternal},
	}
	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.want {
			t.Fatalf("KindOf(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	c := newTestController()
	s := NewState(RoleFan, 100)
	mustBuy(t, c, s, t0, PerkLuckyCharm)

	clone := s.Clone()
	if _, err := c.PerformAction(clone, t0, ActionPlayMatch, ActionParams{}); err != nil {
		t.Fatalf("PerformAction: %v", err)
	}
	if *s.Perks[0].RemainingUses != 3 {
		t.Fatalf("original uses = %d, want 3", *s.Perks[0].RemainingUses)
	}
	if s.Ledger.Balance() != 60 {
		t.Fatalf("original balance = %d, want 60", s.Ledger.Balance())
	}
}
