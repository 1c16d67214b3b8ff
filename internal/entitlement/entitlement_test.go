package entitlement

import (
	"testing"
	"time"

	"gold-economy/internal/daykey"
	"gold-economy/internal/economy"
)

var t0 = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func TestDeriveFreshState(t *testing.T) {
	s := economy.NewState(economy.RoleFan, 0)
	got := Derive(s, t0).Map()

	want := map[Key]bool{
		CanClaimDailyGold:    false,
		CanUseEarningActions: true,
		HasActiveGoldPass:    false,
		CanAccessGameRoom:    false,
		CanViewLoraPassport:  false,
		CanClaimRewardTicket: false,
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("%s = %v, want %v", k, got[k], v)
		}
	}
}

func TestDeriveGoldPass(t *testing.T) {
	c := economy.NewController(economy.DefaultCatalog(), economy.DefaultRules(), daykey.New(time.UTC))
	s := economy.NewState(economy.RoleFan, 500)
	s.WalletAddress = "0xabc"
	if _, err := c.BuyPerk(s, t0, economy.PerkGoldPass); err != nil {
		t.Fatalf("BuyPerk: %v", err)
	}
	s.Tickets = []economy.RewardTicket{{ID: "t", Status: economy.TicketPending, Reward: economy.GoldPoints{Amount: 1}}}

	set := Derive(s, t0)
	for _, k := range []Key{CanClaimDailyGold, HasActiveGoldPass, CanAccessGameRoom, CanViewLoraPassport, CanClaimRewardTicket} {
		if !set.Has(k) {
			t.Fatalf("%s = false, want true", k)
		}
	}
	pass, _ := set.Get(HasActiveGoldPass)
	if pass.ExpiresAt == nil || !pass.ExpiresAt.Equal(t0.Add(7*24*time.Hour)) {
		t.Fatalf("pass expiry = %v", pass.ExpiresAt)
	}

	later := Derive(s, t0.Add(8*24*time.Hour))
	if later.Has(HasActiveGoldPass) || later.Has(CanAccessGameRoom) {
		t.Fatalf("expired pass still grants access: %v", later.Map())
	}
}

func TestDerivePermanentAccessPerks(t *testing.T) {
	s := economy.NewState(economy.RoleCreator, 0)
	s.Perks = []economy.PerkItem{
		{ID: "a", PerkID: economy.PerkPriorityMatchmaking},
		{ID: "b", PerkID: economy.PerkCreatorDropAccess},
	}
	set := Derive(s, t0)
	if !set.Has(CanAccessGameRoom) || !set.Has(CanViewLoraPassport) {
		t.Fatalf("set = %v", set.Map())
	}
	if set.Has(HasActiveGoldPass) {
		t.Fatalf("gold pass derived from access perks")
	}
}

func TestResolverOverride(t *testing.T) {
	r := NewResolver()
	local := Derive(economy.NewState(economy.RoleFan, 0), t0)

	expired := t0.Add(-time.Minute)
	r.Override(Snapshot{UpdatedAt: t0, Entitlements: []Entitlement{
		{Key: CanAccessGameRoom, Value: true},
		{Key: CanViewLoraPassport, Value: true, ExpiresAt: &expired},
		{Key: "UNKNOWN_FLAG", Value: true},
	}})

	cur := r.Current(local, t0)
	room, _ := cur.Get(CanAccessGameRoom)
	if !room.Value || room.Source != SourceRemote {
		t.Fatalf("room = %+v, want remote true", room)
	}
	if cur.Has(CanViewLoraPassport) {
		t.Fatalf("expired override applied")
	}
	if _, ok := cur.Get("UNKNOWN_FLAG"); ok {
		t.Fatalf("unknown key added")
	}

	r.Fallback()
	if r.Current(local, t0).Has(CanAccessGameRoom) {
		t.Fatalf("override survived fallback")
	}

	r.Override(Snapshot{Entitlements: []Entitlement{{Key: CanAccessGameRoom, Value: true}}})
	if !r.Overridden() {
		t.Fatalf("override not installed")
	}
	r.Fallback()
	if r.Overridden() {
		t.Fatalf("override survived fallback")
	}
}
