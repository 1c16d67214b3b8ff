package persist

import (
	"fmt"
	"time"

	"gold-economy/internal/economy"
	"gold-economy/internal/ids"
)

// Migrate upgrades d to CurrentVersion. A missing version is read as 1.
func Migrate(d Document, catalog *economy.Catalog, now time.Time) (Document, error) {
	if d.Version == 0 {
		d.Version = 1
	}
	if d.Version > CurrentVersion {
		return Document{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, d.Version)
	}
	if d.Version == 1 {
		d = migrateV1(d, catalog, now)
	}
	if d.Version == 2 {
		d = migrateV2(d)
	}
	return d, nil
}

// migrateV1 turns the owned-perk map, the gold pass flag and the task
// counter into perk items and action state.
func migrateV1(d Document, catalog *economy.Catalog, now time.Time) Document {
	if d.Perk != nil && d.Perk.HasGoldPass && !hasActive(d.Perks, economy.PerkGoldPass, now) {
		if d.Perk.GoldPassExpiresAt == nil || d.Perk.GoldPassExpiresAt.After(now) {
			d.Perks = append(d.Perks, economy.PerkItem{
				ID:         ids.WithPrefix("perk", now),
				PerkID:     economy.PerkGoldPass,
				AcquiredAt: now,
				Source:     economy.SourceShopPurchase,
				ExpiresAt:  d.Perk.GoldPassExpiresAt,
			})
		}
	}

	for perkID, owned := range d.OwnedPerks {
		if !owned || hasActive(d.Perks, perkID, now) {
			continue
		}
		if _, ok := catalog.Get(perkID); !ok {
			continue
		}
		d.Perks = append(d.Perks, economy.PerkItem{
			ID:         ids.WithPrefix("perk", now),
			PerkID:     perkID,
			AcquiredAt: now,
			Source:     economy.SourceShopPurchase,
		})
	}

	if d.TasksDayKey != "" && d.TasksDoneToday > 0 {
		if d.ActionStates == nil {
			d.ActionStates = map[string]economy.ActionState{}
		}
		d.ActionStates["TASK"] = economy.ActionState{
			UsedToday: d.TasksDoneToday,
			DayKey:    d.TasksDayKey,
		}
	}

	d.OwnedPerks = nil
	d.Perk = nil
	d.TasksDoneToday = 0
	d.TasksDayKey = ""
	d.Version = 2
	return d
}

// migrateV2 renames legacy action ids in the action state, the model
// tracker and the stored action catalog.
func migrateV2(d Document) Document {
	if d.ActionStates != nil {
		states := make(map[string]economy.ActionState, len(d.ActionStates))
		for id, st := range d.ActionStates {
			id = economy.CanonicalActionID(id)
			states[id] = mergeActionState(states[id], st)
		}
		d.ActionStates = states
	}
	if d.Models.Models != nil {
		models := make(map[string][]string, len(d.Models.Models))
		for id, list := range d.Models.Models {
			id = economy.CanonicalActionID(id)
			models[id] = appendUnique(models[id], list...)
		}
		d.Models.Models = models
	}
	if len(d.Actions) > 0 {
		d.Actions = economy.MergeActions(economy.DefaultActions(), d.Actions)
	}
	d.Version = 3
	return d
}

func mergeActionState(a, b economy.ActionState) economy.ActionState {
	if a.DayKey == "" {
		return b
	}
	out := a
	switch {
	case b.DayKey > a.DayKey:
		out.DayKey = b.DayKey
		out.UsedToday = b.UsedToday
	case b.DayKey == a.DayKey:
		out.UsedToday += b.UsedToday
	}
	if b.LastUsedAt != nil && (a.LastUsedAt == nil || b.LastUsedAt.After(*a.LastUsedAt)) {
		out.LastUsedAt = b.LastUsedAt
	}
	return out
}

func appendUnique(list []string, items ...string) []string {
	for _, item := range items {
		dup := false
		for _, have := range list {
			if have == item {
				dup = true
				break
			}
		}
		if !dup {
			list = append(list, item)
		}
	}
	return list
}

func hasActive(items []economy.PerkItem, perkID string, now time.Time) bool {
	for _, item := range items {
		if item.PerkID == perkID && item.Active(now) {
			return true
		}
	}
	return false
}
