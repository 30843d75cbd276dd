package combat

import "math"

// Controller decides one side's action for the current phase. It is only asked when the side
// has a real choice; RunMatch fills in Pass otherwise.
type Controller interface {
	Choose(env *Env, st *BattleState, side Side) Action
}

// ControllerFunc adapts a plain function.
type ControllerFunc func(env *Env, st *BattleState, side Side) Action

func (f ControllerFunc) Choose(env *Env, st *BattleState, side Side) Action { return f(env, st, side) }

// RandomController picks uniformly among the legal actions.
type RandomController struct{}

func (RandomController) Choose(env *Env, st *BattleState, side Side) Action {
	legal := LegalActions(st, side)
	if len(legal) == 0 {
		panic(ErrNoLegalAction)
	}
	return legal[env.Rng.Intn(len(legal))]
}

// HeuristicController is the cheap informed policy: finish the foe when it is safe to,
// otherwise prefer moves that carry an extra effect, otherwise hit hardest. Replacements go to
// the member that takes the least from the foe's moves.
type HeuristicController struct{}

func (HeuristicController) Choose(env *Env, st *BattleState, side Side) Action {
	legal := LegalActions(st, side)
	if len(legal) == 0 {
		panic(ErrNoLegalAction)
	}
	if st.Phase == PhaseDeathEndOfTurn {
		if legal[0].Kind == ActionPass {
			return Pass
		}
		return SwitchTo(SafestReplacement(env.Chart, st, side))
	}
	att, def := st.Active(side), st.Active(side.Other())
	if !att.Alive() {
		return legal[env.Rng.Intn(len(legal))]
	}

	faster := EffectiveSpeed(att) > EffectiveSpeed(def)
	threatened := BestDamage(env.Chart, def, att) >= att.HP
	lethal, lethalPrio := -1, math.MinInt
	bestSlot, bestDmg := -1, -1
	var extras []int
	for slot, mv := range att.Moves {
		if mv == nil {
			continue
		}
		if !mv.Damaging() {
			if mv.Status() != StatusNone && canInflictStatus(def, mv.Status(), mv.Type, att) {
				extras = append(extras, slot)
			}
			continue
		}
		dmg, eff := Damage(env.Chart, att, def, mv, false, MaxRoll)
		if eff == 0 {
			continue
		}
		if dmg >= def.HP && (faster || mv.Priority > 0 || !threatened) && mv.Priority > lethalPrio {
			lethal, lethalPrio = slot, mv.Priority
		}
		if mv.Secondary != nil {
			extras = append(extras, slot)
		}
		if dmg > bestDmg {
			bestSlot, bestDmg = slot, dmg
		}
	}
	switch {
	case lethal >= 0:
		return UseMove(lethal)
	case len(extras) > 0:
		return UseMove(extras[env.Rng.Intn(len(extras))])
	case bestSlot >= 0:
		return UseMove(bestSlot)
	}
	return legal[env.Rng.Intn(len(legal))]
}

// BestDamage is the most att could deal to def with a single max-roll, non-critical move.
func BestDamage(chart *TypeChart, att, def *Pokemon) int {
	best := 0
	for _, mv := range att.Moves {
		if mv == nil || !mv.Damaging() {
			continue
		}
		if dmg, _ := Damage(chart, att, def, mv, false, MaxRoll); dmg > best {
			best = dmg
		}
	}
	return best
}

// SafestReplacement picks the benched member that loses the smallest share of its HP to the
// foe's best move; ties go to the lowest party index. Returns -1 with an empty bench.
func SafestReplacement(chart *TypeChart, st *BattleState, side Side) int {
	party := st.Party(side)
	foe := st.Active(side.Other())
	best, bestShare := -1, math.Inf(1)
	for _, i := range party.Bench() {
		cand := &party.Members[i]
		share := 0.0
		if foe.Alive() {
			share = float64(BestDamage(chart, foe, cand)) / float64(max(cand.HP, 1))
		}
		if share < bestShare {
			best, bestShare = i, share
		}
	}
	return best
}
