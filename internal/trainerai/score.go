// Package trainerai models the in-game trainer AI as a scoring function over the AI's moves.
// A score is a deterministic base plus independent (delta, chance/256) adjustments, so the
// same scores can be rolled once (Choose) or turned into an exact move distribution.
package trainerai

import (
	"math/rand"

	"pbs/internal/combat"
	"pbs/internal/util"
)

// Adjustment is a score delta that applies with probability Chance/256.
type Adjustment struct {
	Delta  int `json:"delta"`
	Chance int `json:"chance"`
}

type MoveScore struct {
	Slot          int          `json:"slot"`
	Move          *combat.Move `json:"-"`
	Base          int          `json:"base"`
	Damage        int          `json:"damage"`
	Effectiveness float64      `json:"effectiveness"`
	Adjustments   []Adjustment `json:"adjustments,omitempty"`
}

func (ms *MoveScore) add(delta, chance int) {
	ms.Adjustments = append(ms.Adjustments, Adjustment{Delta: delta, Chance: chance})
}

// Bounds is the lowest and highest total the adjustments can reach.
func (ms *MoveScore) Bounds() (int, int) {
	lo, hi := ms.Base, ms.Base
	for _, a := range ms.Adjustments {
		if a.Delta < 0 {
			lo += a.Delta
		} else {
			hi += a.Delta
		}
	}
	return lo, hi
}

// Matchup is what the AI looks at when picking a move for its active Pokémon.
type Matchup struct {
	Chart     *combat.TypeChart
	AI        *combat.Pokemon
	User      *combat.Pokemon
	AIParty   *combat.Party
	UserParty *combat.Party
	Turn      int
	// AbilityKnown means the AI has seen the user's ability. Otherwise it guesses one of the
	// species' abilities every time it scores.
	AbilityKnown bool
}

// MatchupFor builds the matchup for side's active against the other side's.
func MatchupFor(chart *combat.TypeChart, st *combat.BattleState, side combat.Side) Matchup {
	return Matchup{
		Chart:     chart,
		AI:        st.Active(side),
		User:      st.Active(side.Other()),
		AIParty:   st.Party(side),
		UserParty: st.Party(side.Other()),
		Turn:      st.Turn,
	}
}

// damage outliers the max-damage pass leaves alone, on both sides of the comparison.
var maxDamageExempt = map[string]bool{
	"explosion": true, "self-destruct": true, "dream-eater": true, "razor-wind": true,
	"sky-attack": true, "hyper-beam": true, "giga-impact": true, "skull-bash": true,
	"solar-beam": true, "spit-up": true, "focus-punch": true, "superpower": true,
	"eruption": true, "water-spout": true, "sucker-punch": true, "head-smash": true,
}

type scorer struct {
	Matchup
	rng        *rand.Rand
	aiAbility  string
	foeAbility string
	moveFirst  bool
	aiHP       int
	userHP     int
}

func newScorer(rng *rand.Rand, m Matchup) *scorer {
	s := &scorer{Matchup: m, rng: rng, aiHP: m.AI.HPPercent(), userHP: m.User.HPPercent()}
	if m.AI.Ability != nil {
		s.aiAbility = m.AI.Ability.ID
	}
	s.foeAbility = s.guessAbility()
	s.moveFirst = s.rollMoveFirst()
	return s
}

func (s *scorer) guessAbility() string {
	u := s.User
	if !s.AbilityKnown && u.Species != nil && len(u.Species.Abilities) > 0 {
		return u.Species.Abilities[s.rng.Intn(len(u.Species.Abilities))]
	}
	if u.Ability != nil {
		return u.Ability.ID
	}
	return ""
}

// rollMoveFirst compares staged speed without paralysis. The AI cannot see who wins a tie.
func (s *scorer) rollMoveFirst() bool {
	a := float64(s.AI.Stats.Speed) * combat.StageMultiplier(s.AI.Stages[combat.StatSpeed], false)
	u := float64(s.User.Stats.Speed) * combat.StageMultiplier(s.User.Stages[combat.StatSpeed], false)
	switch {
	case a > u:
		return true
	case a < u:
		return false
	}
	return util.CoinFlip(s.rng)
}

func (s *scorer) moldBreaker() bool { return s.aiAbility == "mold-breaker" }

func (s *scorer) foeHas(ids ...string) bool {
	for _, id := range ids {
		if s.foeAbility == id {
			return true
		}
	}
	return false
}

// ScoreMoves scores every move of the AI's active. rng drives the ability guess, speed-tie
// guesses and the few checks the AI rolls inline.
func ScoreMoves(rng *rand.Rand, m Matchup) []MoveScore {
	s := newScorer(rng, m)
	out := make([]MoveScore, 0, len(m.AI.Moves))
	for slot, mv := range m.AI.Moves {
		if mv == nil {
			continue
		}
		ms := MoveScore{Slot: slot, Move: mv, Effectiveness: m.Chart.Against(mv.Type, m.User.Types)}
		ms.Damage, _ = combat.Damage(m.Chart, m.AI, m.User, mv, false, combat.MaxRoll)
		ms.Base += s.attackFlag(&ms)
		ms.Base += s.basicFlag(&ms)
		ms.Base += s.expertFlag(&ms)
		out = append(out, ms)
	}
	s.maxDamagePass(out)
	return out
}

// maxDamagePass docks a point from damaging moves that are outdone by another move and
// would not knock the target out anyway.
func (s *scorer) maxDamagePass(scores []MoveScore) {
	best := 0
	for _, ms := range scores {
		if !maxDamageExempt[ms.Move.ID] && ms.Damage > best {
			best = ms.Damage
		}
	}
	for i := range scores {
		ms := &scores[i]
		if maxDamageExempt[ms.Move.ID] || !ms.Move.Damaging() {
			continue
		}
		if ms.Damage < best && ms.Damage <= s.User.HP {
			ms.Base--
		}
	}
}

// attackFlag rewards knockouts and nudges a few risky attacks.
func (s *scorer) attackFlag(ms *MoveScore) int {
	mv := ms.Move
	if ms.Damage > 0 && ms.Damage >= s.User.HP {
		switch {
		case mv.ID == "explosion" || mv.ID == "self-destruct":
		case mv.ID == "sucker-punch" || mv.ID == "focus-punch" || mv.ID == "future-sight":
			ms.add(4, 85)
			return 0
		case mv.Priority >= 1 && mv.ID != "fake-out":
			return 6
		default:
			return 4
		}
	}
	switch mv.ID {
	case "sucker-punch", "focus-punch", "explosion", "self-destruct":
		ms.add(-2, 176)
	}
	if ms.Effectiveness == 4 {
		ms.add(2, 176)
	}
	return 0
}
