package persist

import (
	"errors"
	"testing"
	"time"

	"gold-economy/internal/daykey"
	"gold-economy/internal/economy"
)

var t0 = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func testController() *economy.Controller {
	return economy.NewController(economy.DefaultCatalog(), economy.DefaultRules(), daykey.New(time.UTC))
}

func TestEncodeRestoreKeepsState(t *testing.T) {
	c := testController()
	s := economy.NewState(economy.RoleCreator, 500)
	s.WalletAddress = "0xabc"
	if _, err := c.BuyPerk(s, t0, economy.PerkLuckyCharm); err != nil {
		t.Fatalf("BuyPerk: %v", err)
	}
	if _, err := c.PerformAction(s, t0, economy.ActionViewModelProfile, economy.ActionParams{ModelID: "m1"}); err != nil {
		t.Fatalf("PerformAction: %v", err)
	}
	if _, _, err := c.FinishMatch(s, t0, "match-1", economy.OutcomeLoss); err != nil {
		t.Fatalf("FinishMatch: %v", err)
	}

	raw, err := Encode(s, t0)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Restore(raw, c, t0.Add(time.Hour))
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if got.Ledger.Balance() != s.Ledger.Balance() {
		t.Fatalf("balance = %d, want %d", got.Ledger.Balance(), s.Ledger.Balance())
	}
	if len(got.Ledger.Transactions()) != len(s.Ledger.Transactions()) {
		t.Fatalf("transactions = %d, want %d", len(got.Ledger.Transactions()), len(s.Ledger.Transactions()))
	}
	if got.Role != economy.RoleCreator || got.WalletAddress != "0xabc" {
		t.Fatalf("role/wallet = %s/%s", got.Role, got.WalletAddress)
	}
	if *got.Perks[0].RemainingUses != 2 {
		t.Fatalf("remaining uses = %d, want 2", *got.Perks[0].RemainingUses)
	}
	if tk, ok := got.Ticket("ticket-match-1"); !ok || tk.Reward != (economy.GoldPoints{Amount: 10}) {
		t.Fatalf("ticket = %+v (%v)", tk, ok)
	}
	err = c.CanUseAction(got, t0.Add(time.Hour), economy.ActionViewModelProfile, economy.ActionParams{ModelID: "m1"})
	if !errors.Is(err, economy.ErrModelNotUnique) {
		t.Fatalf("model tracker lost: %v", err)
	}
}

func TestRestoreResetsStaleDays(t *testing.T) {
	c := testController()
	s := economy.NewState(economy.RoleFan, 0)
	if _, err := c.PerformAction(s, t0, economy.ActionDailyCheckIn, economy.ActionParams{}); err != nil {
		t.Fatalf("PerformAction: %v", err)
	}
	if _, err := c.PerformAction(s, t0, economy.ActionShareProfile, economy.ActionParams{ModelID: "m1"}); err != nil {
		t.Fatalf("PerformAction: %v", err)
	}
	raw, err := Encode(s, t0)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	next := t0.Add(24 * time.Hour)
	got, err := Restore(raw, c, next)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	st := got.ActionStates[economy.ActionDailyCheckIn]
	if st.UsedToday != 0 || st.DayKey != "2026-03-11" {
		t.Fatalf("action state = %+v", st)
	}
	if len(got.Models.Models) != 0 || got.Models.DayKey != "2026-03-11" {
		t.Fatalf("model tracker = %+v", got.Models)
	}
	if st.LastUsedAt == nil {
		t.Fatalf("reset dropped lastUsedAt")
	}
}

func TestMigrateV1LegacyFields(t *testing.T) {
	expires := t0.Add(48 * time.Hour)
	raw := []byte(`{
		"role": "fan",
		"balance": 120,
		"ownedPerks": {"perk_profile_badge": true, "perk_boost_daily": false, "perk_retired": true},
		"perk": {"hasGoldPass": true, "goldPassExpiresAt": "` + expires.Format(time.RFC3339) + `"},
		"tasksDoneToday": 2,
		"tasksDayKey": "2026-03-10"
	}`)
	d, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	d, err = Migrate(d, economy.DefaultCatalog(), t0)
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if d.Version != CurrentVersion {
		t.Fatalf("version = %d, want %d", d.Version, CurrentVersion)
	}
	perks := map[string]economy.PerkItem{}
	for _, p := range d.Perks {
		perks[p.PerkID] = p
	}
	if len(perks) != 2 {
		t.Fatalf("perks = %+v, want badge and gold pass", d.Perks)
	}
	badge := perks[economy.PerkProfileBadge]
	if badge.Source != economy.SourceShopPurchase || !badge.AcquiredAt.Equal(t0) || !badge.Active(t0) {
		t.Fatalf("badge = %+v", badge)
	}
	pass := perks[economy.PerkGoldPass]
	if pass.ExpiresAt == nil || !pass.ExpiresAt.Equal(expires) {
		t.Fatalf("gold pass = %+v", pass)
	}
	st := d.ActionStates[economy.ActionCompleteSession]
	if st.UsedToday != 2 || st.DayKey != "2026-03-10" {
		t.Fatalf("session state = %+v", st)
	}
	if d.OwnedPerks != nil || d.Perk != nil {
		t.Fatalf("legacy fields kept")
	}
}

func TestMigrateV2RemapsAliases(t *testing.T) {
	d := Document{
		Version: 2,
		ActionStates: map[string]economy.ActionState{
			"CHECK_IN":       {UsedToday: 1, DayKey: "2026-03-10"},
			"DAILY_CHECK_IN": {UsedToday: 1, DayKey: "2026-03-10"},
			"MATCH_WON":      {UsedToday: 3, DayKey: "2026-03-09"},
		},
		Models: economy.ModelTracker{DayKey: "2026-03-10", Models: map[string][]string{
			"VIEW_PROFILE":       {"m1"},
			"VIEW_MODEL_PROFILE": {"m1", "m2"},
		}},
		Actions: []economy.EarningAction{{ID: "SHARE", Title: "Share", BaseReward: 9, DailyLimit: 2}},
	}
	got, err := Migrate(d, economy.DefaultCatalog(), t0)
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if n := got.ActionStates[economy.ActionDailyCheckIn].UsedToday; n != 2 {
		t.Fatalf("check-in used = %d, want 2", n)
	}
	if _, ok := got.ActionStates["MATCH_WON"]; ok {
		t.Fatalf("legacy key kept")
	}
	if n := got.ActionStates[economy.ActionWinMatch].UsedToday; n != 3 {
		t.Fatalf("win used = %d, want 3", n)
	}
	if models := got.Models.Models[economy.ActionViewModelProfile]; len(models) != 2 {
		t.Fatalf("models = %v, want [m1 m2]", models)
	}
	found := false
	for _, a := range got.Actions {
		if a.ID == economy.ActionShareProfile && a.BaseReward == 9 {
			found = true
		}
	}
	if !found {
		t.Fatalf("SHARE not remapped: %+v", got.Actions)
	}
}

func TestMigrateRejectsFutureVersion(t *testing.T) {
	_, err := Migrate(Document{Version: CurrentVersion + 1}, economy.DefaultCatalog(), t0)
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("err = %v, want ErrUnsupportedVersion", err)
	}
}
