// Package search is a Monte Carlo tree search planner for one side of a battle, playing
// against the trainer AI's move distribution.
package search

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"pbs/internal/combat"
	"pbs/internal/util"
)

var (
	ErrBattleOver = errors.New("battle is over")
	ErrNoBudget   = errors.New("planner has neither an iteration nor a time budget")
)

// Planner is immutable after New and safe to share; each Plan call builds its own trees.
type Planner struct {
	chart *combat.TypeChart
	opts  Options
}

func New(chart *combat.TypeChart, opts ...Option) *Planner {
	o := Defaults()
	for _, fn := range opts {
		fn(&o)
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.Opponent == nil {
		o.Opponent = TrainerOpponent{}
	}
	if o.Evaluator == nil {
		o.Evaluator = HeuristicEvaluator{HPWeight: o.HPWeight, DeathWeight: o.DeathWeight}
	}
	return &Planner{chart: chart, opts: o}
}

func (p *Planner) Options() Options { return p.opts }

// Reseed returns a copy of the planner that searches with a different seed.
func (p *Planner) Reseed(seed int64) *Planner {
	cp := *p
	cp.opts.Seed = seed
	return &cp
}

type ActionStats struct {
	Action     combat.Action `json:"action"`
	Label      string        `json:"label"`
	Visits     int           `json:"visits"`
	WinRate    float64       `json:"win_rate"`
	MeanReward float64       `json:"mean_reward"`
	Wilson     float64       `json:"wilson_lb"`
	DeathRate  float64       `json:"death_rate"`
	Score      float64       `json:"score"`
	Siblings   int           `json:"siblings"`
}

type LineStep struct {
	Action  combat.Action `json:"action"`
	Label   string        `json:"label"`
	Visits  int           `json:"visits"`
	WinRate float64       `json:"win_rate"`
}

type Result struct {
	Action     combat.Action `json:"action"`
	Label      string        `json:"label"`
	Stats      []ActionStats `json:"stats,omitempty"`
	Line       []LineStep    `json:"line,omitempty"`
	Iterations int           `json:"iterations"`
	// Fallback is set when no action reached MinVisits and the raw win rate decided.
	Fallback bool          `json:"fallback"`
	Forced   bool          `json:"forced"`
	Elapsed  time.Duration `json:"elapsed_ns"`
}

// Plan searches from st for side and recommends an action. Budgets are checked between
// iterations only. Cancelling ctx stops the search early; Plan then answers from the
// iterations already run, or returns ctx's error when there were none.
func (p *Planner) Plan(ctx context.Context, st *combat.BattleState, side combat.Side) (Result, error) {
	if st.IsOver() {
		return Result{}, ErrBattleOver
	}
	legal := combat.LegalActions(st, side)
	if len(legal) == 1 {
		return Result{Action: legal[0], Label: legal[0].Describe(st, side), Forced: true}, nil
	}
	if p.opts.Iterations <= 0 && p.opts.TimeBudget <= 0 {
		return Result{}, ErrNoBudget
	}

	start := time.Now()
	if p.opts.TimeBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.TimeBudget)
		defer cancel()
	}

	workers := p.opts.Workers
	base := combat.NewEnv(p.opts.Seed, p.chart)
	trees := make([]*tree, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		budget := -1
		if p.opts.Iterations > 0 {
			budget = p.opts.Iterations / workers
			if w < p.opts.Iterations%workers {
				budget++
			}
		}
		env := base.Fork(util.Derive(p.opts.Seed, w, 0))
		trees[w] = newTree(&p.opts, env, st, side, p.opts.Evaluator)
		wg.Add(1)
		go func(t *tree, budget int, w int) {
			defer wg.Done()
			errs[w] = t.run(ctx, budget)
		}(trees[w], budget, w)
	}
	wg.Wait()
	if err := errors.Join(errs...); err != nil {
		return Result{}, fmt.Errorf("plan: %w", err)
	}

	res := Result{Elapsed: time.Since(start)}
	for _, t := range trees {
		res.Iterations += t.iterations
	}
	if res.Iterations == 0 {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("plan: %w", err)
		}
	}

	res.Stats = p.rootStats(trees, legal, st, side)
	best, fallback := p.pick(res.Stats)
	res.Action, res.Label, res.Fallback = res.Stats[best].Action, res.Stats[best].Label, fallback
	res.Line = p.line(trees, res.Action)

	p.opts.Log.Debug().
		Int("iterations", res.Iterations).
		Int("workers", workers).
		Str("action", res.Label).
		Bool("fallback", res.Fallback).
		Dur("elapsed", res.Elapsed).
		Msg("plan")
	return res, nil
}

func (t *tree) run(ctx context.Context, budget int) error {
	for i := 0; budget < 0 || i < budget; i++ {
		if ctx.Err() != nil {
			return nil
		}
		if err := t.iterate(); err != nil {
			return err
		}
	}
	return nil
}

// WilsonLower is the lower bound of the Wilson score interval for a rate p seen over n trials.
func WilsonLower(p float64, n int, z float64) float64 {
	if n <= 0 {
		return 0
	}
	p = math.Max(0, math.Min(1, p))
	nf := float64(n)
	z2 := z * z
	center := p + z2/(2*nf)
	margin := z * math.Sqrt(p*(1-p)/nf+z2/(4*nf*nf))
	return (center - margin) / (1 + z2/nf)
}

func (p *Planner) statsFor(tot totals, a combat.Action, label string) ActionStats {
	s := ActionStats{Action: a, Label: label, Visits: tot.visits, Siblings: tot.siblings}
	if tot.visits > 0 {
		n := float64(tot.visits)
		s.WinRate = tot.wins / n
		s.MeanReward = tot.value / n
		s.DeathRate = tot.deaths / n
		s.Wilson = WilsonLower(s.WinRate, tot.visits, p.opts.Z)
	}
	s.Score = s.Wilson - p.opts.DeathPenalty*s.DeathRate
	return s
}

// rootStats merges the root edges of every tree, in legal-action order.
func (p *Planner) rootStats(trees []*tree, legal []combat.Action, st *combat.BattleState, side combat.Side) []ActionStats {
	out := make([]ActionStats, 0, len(legal))
	for _, a := range legal {
		var sum totals
		for _, t := range trees {
			e := t.root.edge(a)
			if e == nil {
				continue
			}
			tot := e.totals()
			sum.visits += tot.visits
			sum.value += tot.value
			sum.wins += tot.wins
			sum.deaths += tot.deaths
			sum.siblings += tot.siblings
		}
		out = append(out, p.statsFor(sum, a, a.Describe(st, side)))
	}
	return out
}

// pick returns the index of the recommended action: best score among actions with at least
// MinVisits, else the best raw win rate. More visits break ties.
func (p *Planner) pick(stats []ActionStats) (int, bool) {
	best := -1
	for i, s := range stats {
		if s.Visits < p.opts.MinVisits {
			continue
		}
		if best < 0 || s.Score > stats[best].Score ||
			(s.Score == stats[best].Score && s.Visits > stats[best].Visits) {
			best = i
		}
	}
	if best >= 0 {
		return best, false
	}
	best = 0
	for i, s := range stats {
		b := stats[best]
		if s.WinRate > b.WinRate || (s.WinRate == b.WinRate && s.Visits > b.Visits) {
			best = i
		}
	}
	return best, true
}

// line follows the recommendation down the tree that explored it most, taking the most
// visited outcome at every step.
func (p *Planner) line(trees []*tree, first combat.Action) []LineStep {
	var t *tree
	most := -1
	for _, cand := range trees {
		if e := cand.root.edge(first); e != nil {
			if v := e.totals().visits; v > most {
				t, most = cand, v
			}
		}
	}
	if t == nil {
		return nil
	}

	var out []LineStep
	n, a := t.root, first
	for len(out) < p.opts.LineDepth {
		e := n.edge(a)
		if e == nil {
			break
		}
		s := p.statsFor(e.totals(), a, a.Describe(n.state, t.side))
		out = append(out, LineStep{Action: a, Label: s.Label, Visits: s.Visits, WinRate: s.WinRate})
		n = n.mostVisited(e)
		if n == nil || n.state.IsOver() || len(n.edges) == 0 {
			break
		}
		stats := make([]ActionStats, 0, len(n.edges))
		for _, ce := range n.edges {
			stats = append(stats, p.statsFor(ce.totals(), ce.action, ""))
		}
		i, _ := p.pick(stats)
		a = stats[i].Action
	}
	return out
}
