package search

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/patrikeh/go-deep"
	"github.com/patrikeh/go-deep/training"

	"pbs/internal/combat"
)

// Evaluator scores a non-terminal leaf for side as an estimated win probability in [0,1].
type Evaluator interface {
	Evaluate(st *combat.BattleState, side combat.Side) float64
}

// Heuristic is the static position score: HP differential plus a fainted-count term in which
// own losses weigh DeathWeight times more. Roughly in [-2.5, 2].
func Heuristic(st *combat.BattleState, side combat.Side, hpWeight, deathWeight float64) float64 {
	mine, theirs := st.Party(side), st.Party(side.Other())
	hp := mine.HPFraction() - theirs.HPFraction()
	deaths := float64(theirs.FaintedCount()) - deathWeight*float64(mine.FaintedCount())
	return hpWeight*hp + deaths/combat.MaxPartySize
}

// squash maps a heuristic score onto (0,1).
func squash(x float64) float64 { return 1 / (1 + math.Exp(-2*x)) }

type HeuristicEvaluator struct {
	HPWeight    float64
	DeathWeight float64
}

func (h HeuristicEvaluator) Evaluate(st *combat.BattleState, side combat.Side) float64 {
	return squash(Heuristic(st, side, h.HPWeight, h.DeathWeight))
}

// NetConfig describes a value network over combat.Encode. It is also the weights file format.
type NetConfig struct {
	Hidden  []int         `json:"hidden"`
	Weights [][][]float64 `json:"weights,omitempty"`
}

func DefaultNetConfig() NetConfig {
	return NetConfig{Hidden: []int{64, 32}}
}

// NetEvaluator reads the leaf value from a small regression network. The network keeps its
// activations in place, so calls are serialized.
type NetEvaluator struct {
	mu  sync.Mutex
	cfg NetConfig
	net *deep.Neural
}

func NewNetEvaluator(cfg NetConfig) *NetEvaluator {
	if len(cfg.Hidden) == 0 {
		cfg.Hidden = DefaultNetConfig().Hidden
	}
	layout := append(append([]int(nil), cfg.Hidden...), 1)
	net := deep.NewNeural(&deep.Config{
		Inputs:     combat.EncodeLen,
		Layout:     layout,
		Activation: deep.ActivationReLU,
		Mode:       deep.ModeRegression,
		Weight:     deep.NewNormal(0.0, 0.1),
		Bias:       true,
	})
	if cfg.Weights != nil {
		net.ApplyWeights(cfg.Weights)
	}
	return &NetEvaluator{cfg: cfg, net: net}
}

// LoadNetEvaluator reads a NetConfig written by Save.
func LoadNetEvaluator(r io.Reader) (*NetEvaluator, error) {
	var cfg NetConfig
	if err := json.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("load net weights: %w", err)
	}
	if cfg.Weights == nil {
		return nil, fmt.Errorf("load net weights: file has no weights")
	}
	return NewNetEvaluator(cfg), nil
}

func (n *NetEvaluator) Evaluate(st *combat.BattleState, side combat.Side) float64 {
	in := combat.Encode(st, side)
	n.mu.Lock()
	v := n.net.Predict(in)[0]
	n.mu.Unlock()
	return math.Max(0, math.Min(1, v))
}

// Save writes the current weights in the LoadNetEvaluator format.
func (n *NetEvaluator) Save(w io.Writer) error {
	n.mu.Lock()
	cfg := n.cfg
	cfg.Weights = n.net.Dump().Weights
	n.mu.Unlock()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}

// Sample is one encoded position and the reward the side eventually got from it.
type Sample struct {
	Input  []float64
	Reward float64
}

// Fit runs SGD over the samples for the given number of epochs.
func (n *NetEvaluator) Fit(samples []Sample, epochs int, learningRate float64) {
	if len(samples) == 0 || epochs <= 0 {
		return
	}
	data := make(training.Examples, 0, len(samples))
	for _, s := range samples {
		data = append(data, training.Example{Input: s.Input, Response: []float64{s.Reward}})
	}
	data.Shuffle()
	trainer := training.NewTrainer(training.NewSGD(learningRate, 0.5, 0.0, false), 0)
	n.mu.Lock()
	defer n.mu.Unlock()
	trainer.Train(n.net, data, nil, epochs)
}
