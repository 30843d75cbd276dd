package combat

import "math"

const (
	MinRoll = 85
	MaxRoll = 100
)

// critDenominators is indexed by crit stage (move crit ratio minus one).
var critDenominators = [...]int{16, 8, 4, 3, 2}

func clampStage(s int) int {
	if s > 6 {
		return 6
	}
	if s < -6 {
		return -6
	}
	return s
}

// StageMultiplier is (2+s)/2 for s>=0 and 2/(2-s) below zero. Accuracy and evasion use 3.
func StageMultiplier(stage int, accuracy bool) float64 {
	base := 2.0
	if accuracy {
		base = 3.0
	}
	s := float64(clampStage(stage))
	if s >= 0 {
		return (base + s) / base
	}
	return base / (base - s)
}

// EffectiveSpeed is the turn-order speed. Paralysis quarters it.
func EffectiveSpeed(p *Pokemon) float64 {
	spe := float64(p.Stats.Speed) * StageMultiplier(p.Stages[StatSpeed], false)
	if p.Status == StatusParalysis {
		spe *= 0.25
	}
	return spe
}

func offenseStats(mv *Move) (Stat, Stat) {
	if mv.Category == CategorySpecial {
		return StatSpAttack, StatSpDefense
	}
	return StatAttack, StatDefense
}

// Damage computes a single hit with a roll given as a percentage in [85,100].
// The second result is the combined type effectiveness; 0 means the target is immune
// and the damage is 0.
func Damage(chart *TypeChart, att, def *Pokemon, mv *Move, crit bool, roll int) (int, float64) {
	eff := chart.Against(mv.Type, def.Types)
	if eff == 0 || mv.Power <= 0 {
		return 0, eff
	}
	as, ds := offenseStats(mv)
	aStage, dStage := att.Stages[as], def.Stages[ds]
	if crit {
		aStage = max(aStage, 0)
		dStage = min(dStage, 0)
	}
	a := math.Floor(float64(att.Stats.Of(as)) * StageMultiplier(aStage, false))
	d := math.Floor(float64(def.Stats.Of(ds)) * StageMultiplier(dStage, false))
	if d < 1 {
		d = 1
	}

	level := float64(att.Level)
	base := math.Floor(((2*level/5 + 2) * float64(mv.Power) * (a / d)) / 50)
	if att.Status == StatusBurn && mv.Category == CategoryPhysical {
		base = math.Floor(base / 2)
	}
	dmg := int(base) + 2
	if crit {
		dmg *= 2
	}
	dmg = dmg * roll / 100
	if att.HasType(mv.Type) {
		dmg = dmg * 3 / 2
	}
	for _, t := range def.Types {
		if t == TypeNone {
			continue
		}
		dmg = int(math.Floor(float64(dmg) * chart.Effectiveness(mv.Type, t)))
	}
	return dmg, eff
}

// confusionDamage is the typeless 40-power hit a confused Pokémon deals itself.
func confusionDamage(p *Pokemon) int {
	a := math.Floor(float64(p.Stats.Attack) * StageMultiplier(p.Stages[StatAttack], false))
	d := math.Floor(float64(p.Stats.Defense) * StageMultiplier(p.Stages[StatDefense], false))
	if d < 1 {
		d = 1
	}
	inner := math.Floor((2*float64(p.Level)/5 + 2) * 40 * (a / d))
	dmg := int(math.Floor(inner/50)) + 2
	if p.Status == StatusBurn {
		dmg /= 2
	}
	return dmg
}

func critDenominator(mv *Move) int {
	stage := mv.CritRatio - 1
	if stage < 0 {
		stage = 0
	}
	if stage >= len(critDenominators) {
		stage = len(critDenominators) - 1
	}
	return critDenominators[stage]
}
