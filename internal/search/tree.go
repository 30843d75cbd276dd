package search

import (
	"math"

	"pbs/internal/combat"
	"pbs/internal/trainerai"
)

// TrainerOpponent plays the other side inside simulations: moves are drawn from the trainer
// AI's exact distribution and replacements follow its switch-in rule.
type TrainerOpponent struct{}

func (TrainerOpponent) Choose(env *combat.Env, st *combat.BattleState, side combat.Side) combat.Action {
	if st.Phase == combat.PhaseDeathEndOfTurn {
		return trainerai.Controller{}.Choose(env, st, side)
	}
	return trainerai.MovePolicy(env, st, side)
}

// signature decides whether two outcomes of the same action share a node.
type signature struct {
	phase    combat.Phase
	active   [2]int
	status   [2]combat.Status
	volatile [2]combat.Volatile
}

func signatureOf(st *combat.BattleState) signature {
	sig := signature{phase: st.Phase}
	for s := combat.Player; s <= combat.Opponent; s++ {
		p := st.Active(s)
		sig.active[s] = st.Party(s).Active
		sig.status[s] = p.Status
		sig.volatile[s] = p.Volatile
	}
	return sig
}

type node struct {
	sig   signature
	state *combat.BattleState
	// prior counts as one virtual visit during selection only.
	prior  float64
	visits int
	value  float64
	wins   float64
	deaths float64
	edges  []*edge
}

// edge holds every distinct outcome seen so far for one action.
type edge struct {
	action combat.Action
	nodes  []*node
	bySig  map[signature]*node
}

type totals struct {
	visits   int
	value    float64
	wins     float64
	deaths   float64
	prior    float64
	siblings int
}

func (e *edge) totals() totals {
	var t totals
	for _, n := range e.nodes {
		t.visits += n.visits
		t.value += n.value
		t.wins += n.wins
		t.deaths += n.deaths
		t.prior += n.prior
	}
	t.siblings = len(e.nodes)
	return t
}

func (n *node) edge(a combat.Action) *edge {
	for _, e := range n.edges {
		if e.action == a {
			return e
		}
	}
	return nil
}

func (n *node) untried(legal []combat.Action) []combat.Action {
	var out []combat.Action
	for _, a := range legal {
		if n.edge(a) == nil {
			out = append(out, a)
		}
	}
	return out
}

// attach files the outcome st under action a, merging it into a sibling with the same
// signature. created reports whether a new node was made.
func (n *node) attach(a combat.Action, st *combat.BattleState, prior float64) (*node, bool) {
	e := n.edge(a)
	if e == nil {
		e = &edge{action: a, bySig: map[signature]*node{}}
		n.edges = append(n.edges, e)
	}
	sig := signatureOf(st)
	if child, ok := e.bySig[sig]; ok {
		return child, false
	}
	child := &node{sig: sig, state: st, prior: prior}
	e.bySig[sig] = child
	e.nodes = append(e.nodes, child)
	return child, true
}

func (n *node) mostVisited(e *edge) *node {
	var best *node
	for _, c := range e.nodes {
		if best == nil || c.visits > best.visits {
			best = c
		}
	}
	return best
}

// tree is one independent search. It is owned by a single goroutine.
type tree struct {
	opts       *Options
	env        *combat.Env
	side       combat.Side
	eval       Evaluator
	root       *node
	iterations int
}

func newTree(opts *Options, env *combat.Env, st *combat.BattleState, side combat.Side, eval Evaluator) *tree {
	return &tree{
		opts: opts,
		env:  env,
		side: side,
		eval: eval,
		root: &node{sig: signatureOf(st), state: st},
	}
}

func (t *tree) prior(st *combat.BattleState) float64 {
	return squash(Heuristic(st, t.side, t.opts.HPWeight, t.opts.DeathWeight))
}

// step plays one simulated turn with the opponent model answering a.
func (t *tree) step(st *combat.BattleState, a combat.Action) (*combat.BattleState, error) {
	theirs := t.opts.Opponent.Choose(t.env, st, t.side.Other())
	mine := a
	if t.side == combat.Opponent {
		mine, theirs = theirs, a
	}
	next, _, err := combat.ResolveTurn(t.env, st, mine, theirs)
	return next, err
}

// selectAction picks by UCB1 over the aggregate of each action's siblings.
func (t *tree) selectAction(n *node, legal []combat.Action) combat.Action {
	logN := math.Log(float64(max(n.visits, 1)))
	best, bestU := legal[0], math.Inf(-1)
	for _, a := range legal {
		e := n.edge(a)
		if e == nil {
			return a
		}
		tot := e.totals()
		visits := float64(tot.visits + tot.siblings)
		mean := (tot.value + tot.prior) / visits
		u := mean + t.opts.Exploration*math.Sqrt(2*logN/visits)
		if u > bestU {
			best, bestU = a, u
		}
	}
	return best
}

// iterate runs selection, expansion, rollout and backpropagation once.
func (t *tree) iterate() error {
	path := []*node{t.root}
	cur, st := t.root, t.root.state
	for !st.IsOver() {
		legal := combat.LegalActions(st, t.side)
		var a combat.Action
		if untried := cur.untried(legal); len(untried) > 0 {
			a = untried[t.env.Rng.Intn(len(untried))]
		} else {
			a = t.selectAction(cur, legal)
		}
		next, err := t.step(st, a)
		if err != nil {
			return err
		}
		child, created := cur.attach(a, next, t.prior(next))
		path = append(path, child)
		st = next
		if created {
			break
		}
		cur = child
	}

	reward, win, deaths, err := t.rollout(st)
	if err != nil {
		return err
	}
	for _, n := range path {
		n.visits++
		n.value += reward
		n.wins += win
		n.deaths += deaths
	}
	t.iterations++
	return nil
}

func (t *tree) rolloutAction(st *combat.BattleState) combat.Action {
	legal := combat.LegalActions(st, t.side)
	if len(legal) == 1 {
		return legal[0]
	}
	if t.env.Rng.Float64() < t.opts.HeuristicRate {
		return combat.HeuristicController{}.Choose(t.env, st, t.side)
	}
	return combat.RandomController{}.Choose(t.env, st, t.side)
}

// rollout plays on from st and returns the reward, the win credit and the share of the
// side's party that fainted.
func (t *tree) rollout(st *combat.BattleState) (float64, float64, float64, error) {
	cur := st
	for depth := 0; !cur.IsOver() && depth < t.opts.RolloutDepth; depth++ {
		next, err := t.step(cur, t.rolloutAction(cur))
		if err != nil {
			return 0, 0, 0, err
		}
		cur = next
	}
	party := cur.Party(t.side)
	fainted := party.FaintedCount()
	deaths := float64(fainted) / float64(len(party.Members))
	shaped := t.opts.WinReward * math.Pow(t.opts.DeathDiscount, float64(fainted))
	if !cur.IsOver() {
		win := t.eval.Evaluate(cur, t.side)
		return shaped * win, win, deaths, nil
	}
	if w, ok := cur.Winner(); ok && w == t.side {
		return shaped, 1, deaths, nil
	}
	return 0, 0, deaths, nil
}
