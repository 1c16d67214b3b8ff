package economy

import (
	"math"
	"time"
)

type effectKey struct {
	typ  EffectType
	mode EffectMode
}

// bucket accumulates one (type, mode) group. NONE keeps the strongest
// value, ADDITIVE sums, MULTIPLICATIVE compounds mul-mode deltas.
type bucket struct {
	strongest    float64
	hasStrongest bool
	sum          float64
	product      float64
	hasProduct   bool
}

func (b *bucket) add(rule StackingRule, mode EffectMode, v float64) {
	switch rule {
	case StackNone:
		if !b.hasStrongest || math.Abs(v) > math.Abs(b.strongest) {
			b.strongest = v
			b.hasStrongest = true
		}
	case StackMultiplicative:
		if mode != ModeMul {
			b.sum += v
			return
		}
		if !b.hasProduct {
			b.product = 1
			b.hasProduct = true
		}
		b.product *= 1 + v
	default:
		b.sum += v
	}
}

func (b *bucket) total() float64 {
	total := b.sum
	if b.hasStrongest {
		total += b.strongest
	}
	if b.hasProduct {
		total += b.product - 1
	}
	return total
}

// ActiveEffects aggregates the effects of every active inventory item.
// Items whose perk is not in the catalog are skipped. The result holds at
// most one add and one mul entry per effect type.
func ActiveEffects(items []PerkItem, catalog *Catalog, now time.Time) []PerkEffect {
	buckets := make(map[effectKey]*bucket)
	for _, item := range items {
		if !item.Active(now) {
			continue
		}
		def, ok := catalog.Get(item.PerkID)
		if !ok {
			continue
		}
		for _, eff := range def.Effects {
			k := effectKey{typ: eff.Type, mode: eff.EffectiveMode()}
			b := buckets[k]
			if b == nil {
				b = &bucket{}
				buckets[k] = b
			}
			b.add(def.Stacking, k.mode, eff.Value)
		}
	}

	out := make([]PerkEffect, 0, len(buckets))
	for _, typ := range effectOrder {
		for _, mode := range []EffectMode{ModeAdd, ModeMul} {
			if b, ok := buckets[effectKey{typ: typ, mode: mode}]; ok {
				out = append(out, PerkEffect{Type: typ, Value: b.total(), Mode: mode})
			}
		}
	}
	return out
}

// BoostsFrom derives the display boosts from aggregated effects.
func BoostsFrom(effects []PerkEffect) Boosts {
	b := NeutralBoosts()
	var limit float64
	for _, eff := range effects {
		switch eff.Type {
		case EffectDailyClaimMultiplier:
			b.DailyClaimMultiplier += eff.Value
		case EffectEarningMultiplier:
			b.EarningMultiplier += eff.Value
		case EffectDailyLimitBonus:
			limit += eff.Value
		}
	}
	b.DailyLimitBonus = int(floorGold(limit))
	return b
}

// contributors returns the indices of active USES items whose effects of
// one of the given types count toward the aggregate. A NONE-stacked item
// only counts when it holds the strongest value for its effect.
func contributors(items []PerkItem, catalog *Catalog, now time.Time, types ...EffectType) []int {
	winners := strongestNone(items, catalog, now)
	var idx []int
	for i, item := range items {
		if item.RemainingUses == nil || !item.Active(now) {
			continue
		}
		def, ok := catalog.Get(item.PerkID)
		if !ok {
			continue
		}
		for _, eff := range def.Effects {
			if !hasType(types, eff.Type) {
				continue
			}
			k := effectKey{typ: eff.Type, mode: eff.EffectiveMode()}
			if def.Stacking == StackNone && winners[k] != i {
				continue
			}
			idx = append(idx, i)
			break
		}
	}
	return idx
}

// strongestNone maps each effect to the index of the NONE-stacked item
// that bucket.add keeps: the first with the largest magnitude.
func strongestNone(items []PerkItem, catalog *Catalog, now time.Time) map[effectKey]int {
	winners := make(map[effectKey]int)
	best := make(map[effectKey]float64)
	for i, item := range items {
		if !item.Active(now) {
			continue
		}
		def, ok := catalog.Get(item.PerkID)
		if !ok || def.Stacking != StackNone {
			continue
		}
		for _, eff := range def.Effects {
			k := effectKey{typ: eff.Type, mode: eff.EffectiveMode()}
			if v, seen := best[k]; seen && math.Abs(eff.Value) <= math.Abs(v) {
				continue
			}
			best[k] = eff.Value
			winners[k] = i
		}
	}
	return winners
}

func hasType(types []EffectType, t EffectType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

// floorGold floors x with a tolerance for binary float error, so that
// 45*1.2 yields 54 and not 53.
func floorGold(x float64) float64 {
	return math.Floor(x + 1e-9)
}
