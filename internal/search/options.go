package search

import (
	"time"

	"github.com/rs/zerolog"

	"pbs/internal/combat"
	"pbs/internal/config"
)

// Options are the planner's tunables. The zero value is not usable; start from Defaults.
type Options struct {
	Iterations    int
	TimeBudget    time.Duration
	Workers       int
	Seed          int64
	Exploration   float64
	RolloutDepth  int
	HeuristicRate float64
	MinVisits     int
	Z             float64
	DeathPenalty  float64
	WinReward     float64
	DeathDiscount float64
	HPWeight      float64
	DeathWeight   float64
	LineDepth     int

	Evaluator Evaluator
	// Opponent decides the other side's actions inside simulations.
	Opponent combat.Controller
	Log      zerolog.Logger
}

func Defaults() Options {
	return Options{
		Iterations:    2000,
		Workers:       1,
		Seed:          1,
		Exploration:   0.5,
		RolloutDepth:  60,
		HeuristicRate: 0.7,
		MinVisits:     30,
		Z:             1.96,
		DeathPenalty:  0.05,
		WinReward:     1,
		DeathDiscount: 0.7,
		HPWeight:      0.8,
		DeathWeight:   1.6,
		LineDepth:     4,
		Opponent:      TrainerOpponent{},
		Log:           zerolog.Nop(),
	}
}

type Option func(*Options)

func WithIterations(n int) Option { return func(o *Options) { o.Iterations = n } }

func WithTimeBudget(d time.Duration) Option { return func(o *Options) { o.TimeBudget = d } }

func WithWorkers(n int) Option { return func(o *Options) { o.Workers = n } }

func WithSeed(seed int64) Option { return func(o *Options) { o.Seed = seed } }

func WithExploration(c float64) Option { return func(o *Options) { o.Exploration = c } }

func WithRollout(depth int, heuristicRate float64) Option {
	return func(o *Options) {
		o.RolloutDepth = depth
		o.HeuristicRate = heuristicRate
	}
}

// WithRecommendation sets the minimum visits, the Wilson z and the death-rate penalty used to
// pick the final action.
func WithRecommendation(minVisits int, z, deathPenalty float64) Option {
	return func(o *Options) {
		o.MinVisits = minVisits
		o.Z = z
		o.DeathPenalty = deathPenalty
	}
}

// WithReward sets the value of a win and the factor it loses per own fainted member.
func WithReward(win, deathDiscount float64) Option {
	return func(o *Options) {
		o.WinReward = win
		o.DeathDiscount = deathDiscount
	}
}

func WithHeuristicWeights(hp, death float64) Option {
	return func(o *Options) {
		o.HPWeight = hp
		o.DeathWeight = death
	}
}

func WithLineDepth(n int) Option { return func(o *Options) { o.LineDepth = n } }

func WithEvaluator(e Evaluator) Option { return func(o *Options) { o.Evaluator = e } }

func WithOpponent(c combat.Controller) Option { return func(o *Options) { o.Opponent = c } }

func WithLogger(l zerolog.Logger) Option { return func(o *Options) { o.Log = l } }

// FromConfig applies every field the planner file sets. Zero fields keep their defaults.
func FromConfig(cfg config.PlannerConfig) Option {
	return func(o *Options) {
		setInt := func(dst *int, v int) {
			if v > 0 {
				*dst = v
			}
		}
		setFloat := func(dst *float64, v float64) {
			if v > 0 {
				*dst = v
			}
		}
		setInt(&o.Iterations, cfg.Iterations)
		setInt(&o.Workers, cfg.Workers)
		setInt(&o.RolloutDepth, cfg.RolloutDepth)
		setInt(&o.MinVisits, cfg.MinVisits)
		setInt(&o.LineDepth, cfg.LineDepth)
		setFloat(&o.Exploration, cfg.Exploration)
		setFloat(&o.HeuristicRate, cfg.HeuristicRate)
		setFloat(&o.Z, cfg.Z)
		setFloat(&o.DeathPenalty, cfg.DeathPenalty)
		setFloat(&o.WinReward, cfg.WinReward)
		setFloat(&o.DeathDiscount, cfg.DeathDiscount)
		setFloat(&o.HPWeight, cfg.HPWeight)
		setFloat(&o.DeathWeight, cfg.DeathWeight)
		if cfg.TimeBudgetMS > 0 {
			o.TimeBudget = time.Duration(cfg.TimeBudgetMS) * time.Millisecond
		}
	}
}
