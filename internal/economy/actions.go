package economy

import (
	"math"
	"slices"
	"strings"
	"time"

	"gold-economy/internal/daykey"
	"gold-economy/internal/ids"
	"gold-economy/internal/ledger"
)

type ActionParams struct {
	ModelID string `json:"modelId,omitempty"`
}

type ActionResult struct {
	ActionID    string             `json:"actionId"`
	Amount      int64              `json:"amount"`
	UsedToday   int                `json:"usedToday"`
	Limit       int                `json:"limit"`
	Breakdown   Breakdown          `json:"breakdown"`
	Transaction ledger.Transaction `json:"transaction"`
}

// ActionStatus is a read-only view of an action's availability.
type ActionStatus struct {
	Action          EarningAction `json:"action"`
	UsedToday       int           `json:"usedToday"`
	Limit           int           `json:"limit"`
	CooldownSeconds int64         `json:"cooldownRemainingSeconds"`
	Available       bool          `json:"available"`
	Reason          string        `json:"reason,omitempty"`
}

// CanUseAction validates an earning action without changing s. A nil error
// means the action may be performed.
func (c *Controller) CanUseAction(s *State, now time.Time, actionID string, p ActionParams) error {
	_, err := c.checkAction(s, now, actionID, p)
	return err
}

func (c *Controller) checkAction(s *State, now time.Time, actionID string, p ActionParams) (EarningAction, error) {
	act, ok := s.Action(actionID)
	if !ok {
		return EarningAction{}, reject(ErrUnknownAction, "Unknown action")
	}
	if act.RoleGate != "" && act.RoleGate != s.Role {
		return act, reject(ErrRoleRestricted, "Role restricted")
	}
	if left := cooldownLeft(s.ActionStates[act.ID], act, now); left > 0 {
		secs := int64(math.Ceil(left.Seconds()))
		return act, reject(ErrActionCooldown, "Cooldown: %ds remaining", secs)
	}

	limit := c.limitFor(s, act, now)
	if IsModelScoped(act.ID) {
		model := strings.TrimSpace(p.ModelID)
		if model == "" {
			return act, reject(ErrModelRequired, "Model required")
		}
		seen := c.modelsToday(s, act.ID, now)
		if slices.Contains(seen, model) {
			return act, reject(ErrModelNotUnique, "Unique models only")
		}
		if len(seen) >= limit {
			return act, reject(ErrDailyLimitReached, "Daily limit reached")
		}
		return act, nil
	}
	if c.usedToday(s, act.ID, now) >= limit {
		return act, reject(ErrDailyLimitReached, "Daily limit reached")
	}
	return act, nil
}

// PerformAction re-validates and pays an earning action.
func (c *Controller) PerformAction(s *State, now time.Time, actionID string, p ActionParams) (ActionResult, error) {
	act, err := c.checkAction(s, now, actionID, p)
	if err != nil {
		return ActionResult{}, err
	}
	model := strings.TrimSpace(p.ModelID)

	bd := CalculateGoldPoints(act.ID, RewardContext{
		BaseReward: act.BaseReward,
		Effects:    c.Effects(s, now),
	})

	var before int
	if IsModelScoped(act.ID) {
		before = len(c.modelsToday(s, act.ID, now))
	} else {
		before = c.usedToday(s, act.ID, now)
	}
	types := []EffectType{EffectEarningMultiplier}
	if before >= act.DailyLimit {
		types = append(types, EffectDailyLimitBonus)
	}
	used := contributors(s.Perks, c.catalog, now, types...)

	note := act.ID
	if model != "" {
		note = act.ID + ":" + model
	}
	tx := s.Ledger.Earn(now, bd.FinalGold, ledger.ReasonEarningAction, note)
	s.logEarning(EarningLogEntry{
		ID:     ids.WithPrefix("earn", now),
		Type:   act.ID,
		Amount: bd.FinalGold,
		At:     now,
		Note:   model,
	})

	today := c.days.Today(now, daykey.Local)
	st := s.ActionStates[act.ID]
	if st.DayKey != today {
		st.UsedToday = 0
		st.DayKey = today
	}
	st.UsedToday++
	usedAt := now
	st.LastUsedAt = &usedAt
	if s.ActionStates == nil {
		s.ActionStates = map[string]ActionState{}
	}
	s.ActionStates[act.ID] = st

	if IsModelScoped(act.ID) {
		c.recordModel(s, act.ID, model, now)
	}
	consumeUses(s, used)
	c.Recompute(s, now)

	return ActionResult{
		ActionID:    act.ID,
		Amount:      bd.FinalGold,
		UsedToday:   st.UsedToday,
		Limit:       c.limitFor(s, act, now),
		Breakdown:   bd,
		Transaction: tx,
	}, nil
}

// ActionStatuses reports availability for every action in s. Model-scoped
// actions are checked without a model id, so only role, cooldown and limit
// apply.
func (c *Controller) ActionStatuses(s *State, now time.Time) []ActionStatus {
	out := make([]ActionStatus, 0, len(s.Actions))
	for _, act := range s.Actions {
		status := ActionStatus{
			Action: act,
			Limit:  c.limitFor(s, act, now),
		}
		if IsModelScoped(act.ID) {
			status.UsedToday = len(c.modelsToday(s, act.ID, now))
		} else {
			status.UsedToday = c.usedToday(s, act.ID, now)
		}
		if left := cooldownLeft(s.ActionStates[act.ID], act, now); left > 0 {
			status.CooldownSeconds = int64(math.Ceil(left.Seconds()))
		}
		err := c.CanUseAction(s, now, act.ID, ActionParams{ModelID: probeModel(act.ID)})
		status.Available = err == nil
		status.Reason = ReasonOf(err)
		out = append(out, status)
	}
	return out
}

// RefreshActions merges a remote action catalog over the defaults.
func (c *Controller) RefreshActions(s *State, remote []EarningAction) {
	s.Actions = MergeActions(DefaultActions(), remote)
}

func (c *Controller) limitFor(s *State, act EarningAction, now time.Time) int {
	return act.DailyLimit + BoostsFrom(c.Effects(s, now)).DailyLimitBonus
}

func (c *Controller) usedToday(s *State, actionID string, now time.Time) int {
	st, ok := s.ActionStates[actionID]
	if !ok || !c.days.IsSameDay(st.DayKey, now, daykey.Local) {
		return 0
	}
	if st.UsedToday < 0 {
		return 0
	}
	return st.UsedToday
}

func (c *Controller) modelsToday(s *State, actionID string, now time.Time) []string {
	if !c.days.IsSameDay(s.Models.DayKey, now, daykey.UTC) {
		return nil
	}
	return s.Models.Models[actionID]
}

func (c *Controller) recordModel(s *State, actionID, model string, now time.Time) {
	today := c.days.Today(now, daykey.UTC)
	if s.Models.DayKey != today || s.Models.Models == nil {
		s.Models = ModelTracker{DayKey: today, Models: map[string][]string{}}
	}
	s.Models.Models[actionID] = append(s.Models.Models[actionID], model)
}

func cooldownLeft(st ActionState, act EarningAction, now time.Time) time.Duration {
	if st.LastUsedAt == nil || act.CooldownSeconds <= 0 {
		return 0
	}
	return time.Duration(act.CooldownSeconds)*time.Second - now.Sub(*st.LastUsedAt)
}

// probeModel returns a model id that is never recorded, so status checks
// skip the uniqueness rule.
func probeModel(actionID string) string {
	if !IsModelScoped(actionID) {
		return ""
	}
	return "\x00status"
}
