package search

import (
	"context"

	"pbs/internal/combat"
)

// Controller lets RunMatch drive a side with the planner. Each decision reseeds the planner
// from the match RNG so a seeded match replays exactly.
type Controller struct {
	Planner *Planner
}

func (c Controller) Choose(env *combat.Env, st *combat.BattleState, side combat.Side) combat.Action {
	p := c.Planner.Reseed(env.Rng.Int63())
	res, err := p.Plan(context.Background(), st, side)
	if err != nil {
		p.opts.Log.Warn().Err(err).Int("turn", st.Turn).Msg("planner failed, using heuristic")
		return combat.HeuristicController{}.Choose(env, st, side)
	}
	return res.Action
}
