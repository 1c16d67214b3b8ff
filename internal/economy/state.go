package economy

import (
	"slices"
	"time"

	"gold-economy/internal/daykey"
	"gold-economy/internal/ledger"
)

const maxEarningLog = 100

// State is one user's complete economy snapshot. Operations on Controller
// mutate a State only when they succeed.
type State struct {
	Role             Role
	WalletAddress    string
	Ledger           *ledger.Ledger
	Perks            []PerkItem
	NFTs             []NFTItem
	Tickets          []RewardTicket
	Actions          []EarningAction
	ActionStates     map[string]ActionState
	Models           ModelTracker
	LastDailyClaimAt *time.Time
	DailyStreak      int
	EarningLog       []EarningLogEntry
	Boosts           Boosts
}

func NewState(role Role, balance int64) *State {
	if !role.Valid() {
		role = RoleFan
	}
	return &State{
		Role:         role,
		Ledger:       ledger.New(balance, nil),
		Actions:      DefaultActions(),
		ActionStates: map[string]ActionState{},
		Boosts:       NeutralBoosts(),
	}
}

// Clone returns a deep copy that shares nothing mutable with s.
func (s *State) Clone() *State {
	c := *s
	if s.Ledger != nil {
		c.Ledger = s.Ledger.Clone()
	} else {
		c.Ledger = ledger.New(0, nil)
	}
	c.Perks = make([]PerkItem, len(s.Perks))
	for i, p := range s.Perks {
		p.ExpiresAt = cloneTime(p.ExpiresAt)
		if p.RemainingUses != nil {
			uses := *p.RemainingUses
			p.RemainingUses = &uses
		}
		c.Perks[i] = p
	}
	c.NFTs = slices.Clone(s.NFTs)
	c.Tickets = make([]RewardTicket, len(s.Tickets))
	for i, t := range s.Tickets {
		t.ExpiresAt = cloneTime(t.ExpiresAt)
		c.Tickets[i] = t
	}
	c.Actions = slices.Clone(s.Actions)
	c.ActionStates = make(map[string]ActionState, len(s.ActionStates))
	for id, st := range s.ActionStates {
		st.LastUsedAt = cloneTime(st.LastUsedAt)
		c.ActionStates[id] = st
	}
	c.Models = ModelTracker{DayKey: s.Models.DayKey}
	if s.Models.Models != nil {
		c.Models.Models = make(map[string][]string, len(s.Models.Models))
		for id, models := range s.Models.Models {
			c.Models.Models[id] = slices.Clone(models)
		}
	}
	c.LastDailyClaimAt = cloneTime(s.LastDailyClaimAt)
	c.EarningLog = slices.Clone(s.EarningLog)
	return &c
}

func (s *State) Action(id string) (EarningAction, bool) {
	id = CanonicalActionID(id)
	for _, a := range s.Actions {
		if a.ID == id {
			return a, true
		}
	}
	return EarningAction{}, false
}

func (s *State) Ticket(id string) (RewardTicket, bool) {
	if i := s.ticketIndex(id); i >= 0 {
		return s.Tickets[i], true
	}
	return RewardTicket{}, false
}

func (s *State) ticketIndex(id string) int {
	for i, t := range s.Tickets {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// ActivePerk returns the first active instance of perkID.
func (s *State) ActivePerk(perkID string, now time.Time) (PerkItem, bool) {
	for _, p := range s.Perks {
		if p.PerkID == perkID && p.Active(now) {
			return p, true
		}
	}
	return PerkItem{}, false
}

func (s *State) PendingTickets() int {
	n := 0
	for _, t := range s.Tickets {
		if t.Status == TicketPending {
			n++
		}
	}
	return n
}

func (s *State) logEarning(entry EarningLogEntry) {
	s.EarningLog = append([]EarningLogEntry{entry}, s.EarningLog...)
	if len(s.EarningLog) > maxEarningLog {
		s.EarningLog = s.EarningLog[:maxEarningLog]
	}
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

type Rules struct {
	DailyClaimBase int64
	StreakAdd      int64
	StreakCap      int
	MintNFTPrice   int64
}

func DefaultRules() Rules {
	return Rules{DailyClaimBase: 25, MintNFTPrice: 250}
}

// Controller applies economy operations to a State. It holds only
// immutable configuration and is safe for concurrent use.
type Controller struct {
	catalog *Catalog
	rules   Rules
	days    *daykey.Service
}

func NewController(catalog *Catalog, rules Rules, days *daykey.Service) *Controller {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if days == nil {
		days = daykey.New(time.Local)
	}
	return &Controller{catalog: catalog, rules: rules, days: days}
}

func (c *Controller) Catalog() *Catalog      { return c.catalog }
func (c *Controller) Rules() Rules           { return c.rules }
func (c *Controller) Days() *daykey.Service { return c.days }

// Effects returns the aggregated active effects of s at now.
func (c *Controller) Effects(s *State, now time.Time) []PerkEffect {
	return ActiveEffects(s.Perks, c.catalog, now)
}

// Recompute refreshes the derived boosts of s.
func (c *Controller) Recompute(s *State, now time.Time) {
	s.Boosts = BoostsFrom(c.Effects(s, now))
}

// ResetStaleDays zeroes day-scoped counters whose key is not today's.
func (c *Controller) ResetStaleDays(s *State, now time.Time) {
	today := c.days.Today(now, daykey.Local)
	for id, st := range s.ActionStates {
		if st.DayKey != today {
			st.UsedToday = 0
			st.DayKey = today
			s.ActionStates[id] = st
		}
	}
	if !c.days.IsSameDay(s.Models.DayKey, now, daykey.UTC) {
		s.Models = ModelTracker{DayKey: c.days.Today(now, daykey.UTC)}
	}
}

// consumeUses takes one use from each USES item at idx.
func consumeUses(s *State, idx []int) {
	for _, i := range idx {
		if s.Perks[i].RemainingUses == nil {
			continue
		}
		left := *s.Perks[i].RemainingUses - 1
		if left < 0 {
			left = 0
		}
		s.Perks[i].RemainingUses = &left
	}
}
