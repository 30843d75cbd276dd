package trainerai

import "pbs/internal/combat"

// Controller drives a side with the trainer AI: one realized roll per turn and the AI's own
// replacement rule after a faint.
type Controller struct {
	AbilityKnown bool
}

func (c Controller) Choose(env *combat.Env, st *combat.BattleState, side combat.Side) combat.Action {
	legal := combat.LegalActions(st, side)
	if len(legal) == 0 {
		panic(combat.ErrNoLegalAction)
	}
	if st.Phase == combat.PhaseDeathEndOfTurn {
		if legal[0].Kind == combat.ActionPass {
			return combat.Pass
		}
		if i := PickReplacement(env.Chart, st.Party(side), st.Active(side.Other())); i >= 0 {
			return combat.SwitchTo(i)
		}
		return legal[0]
	}
	m := MatchupFor(env.Chart, st, side)
	m.AbilityKnown = c.AbilityKnown
	if slot := Choose(env.Rng, ScoreMoves(env.Rng, m)); slot >= 0 {
		return combat.UseMove(slot)
	}
	return legal[0]
}

// MovePolicy samples the AI's move from its exact distribution instead of rolling the
// adjustments. Both draw from the same law.
func MovePolicy(env *combat.Env, st *combat.BattleState, side combat.Side) combat.Action {
	scores := ScoreMoves(env.Rng, MatchupFor(env.Chart, st, side))
	if slot := Sample(env.Rng, scores, Distribution(scores)); slot >= 0 {
		return combat.UseMove(slot)
	}
	return combat.Pass
}
