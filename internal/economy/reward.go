package economy

import "math"

type RewardContext struct {
	BaseReward   int64
	Streak       int
	StreakCap    int // 0 leaves the streak uncapped
	StreakAdd    int64
	IsGoldHolder bool
	Effects      []PerkEffect
}

type Breakdown struct {
	ActionID         string  `json:"actionId"`
	BaseReward       int64   `json:"baseReward"`
	Streak           int     `json:"streak"`
	StreakBonus      int64   `json:"streakBonus"`
	BaseAfterStreak  int64   `json:"baseAfterStreak"`
	AdditiveBonus    float64 `json:"additiveBonus"`
	Multiplier       float64 `json:"multiplier"`
	HolderMultiplier float64 `json:"holderMultiplier"`
	FinalGold        int64   `json:"finalGold"`
}

// CalculateGoldPoints applies streak, additive and multiplicative terms to
// a base reward. Daily claim effects only count for ActionDailyClaim.
func CalculateGoldPoints(actionID string, ctx RewardContext) Breakdown {
	daily := actionID == ActionDailyClaim

	var streakBonus int64
	if daily {
		streak := ctx.Streak
		if ctx.StreakCap > 0 && streak > ctx.StreakCap {
			streak = ctx.StreakCap
		}
		if streak < 0 {
			streak = 0
		}
		streakBonus = int64(streak) * ctx.StreakAdd
	}
	baseAfterStreak := ctx.BaseReward + streakBonus

	var additive float64
	multiplier := 1.0
	for _, eff := range ctx.Effects {
		switch eff.Type {
		case EffectDailyClaimBonus:
			if daily {
				additive += eff.Value
			}
		case EffectDailyClaimMultiplier:
			if daily {
				multiplier += eff.Value
			}
		case EffectEarningMultiplier:
			multiplier += eff.Value
		}
	}

	holder := holderMultiplier(ctx.IsGoldHolder)
	raw := (float64(baseAfterStreak) + additive) * multiplier * holder
	final := floorGold(math.Max(0, raw))

	return Breakdown{
		ActionID:         actionID,
		BaseReward:       ctx.BaseReward,
		Streak:           ctx.Streak,
		StreakBonus:      streakBonus,
		BaseAfterStreak:  baseAfterStreak,
		AdditiveBonus:    additive,
		Multiplier:       multiplier,
		HolderMultiplier: holder,
		FinalGold:        int64(final),
	}
}

// holderMultiplier is the gold-holder hook. It is the identity until a
// holder bonus is defined.
func holderMultiplier(bool) float64 {
	return 1
}
