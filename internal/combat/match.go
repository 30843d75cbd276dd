package combat

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
)

const DefaultMaxTurns = 500

type MatchOptions struct {
	MaxTurns int
	Record   bool
	Log      zerolog.Logger
}

type SimResult struct {
	Win     bool       `json:"win"`
	Winner  string     `json:"winner"`
	Turns   int        `json:"turns"`
	Fainted [2]int     `json:"fainted"`
	HPLeft  [2]float64 `json:"hp_left"`
	Events  []Event    `json:"events,omitempty"`
	Meta    SimMeta    `json:"meta"`
}

type SimMeta struct {
	Parties [2]SimPartyMeta `json:"parties"`
}

type SimPartyMeta struct {
	Name    string          `json:"name"`
	Members []SimMemberMeta `json:"members"`
}

type SimMemberMeta struct {
	Species string   `json:"species"`
	Level   int      `json:"level"`
	Types   []string `json:"types"`
	Ability string   `json:"ability,omitempty"`
	Stats   Stats    `json:"stats"`
	HP      int      `json:"hp"`
	Moves   []string `json:"moves"`
}

func partyMeta(p *Party) SimPartyMeta {
	out := SimPartyMeta{Name: p.Name}
	for i := range p.Members {
		m := &p.Members[i]
		mm := SimMemberMeta{Species: m.Name(), Level: m.Level, Stats: m.Stats, HP: m.HP}
		for _, t := range m.Types {
			if t != TypeNone {
				mm.Types = append(mm.Types, t.String())
			}
		}
		if m.Ability != nil {
			mm.Ability = DisplayName(m.Ability.ID)
		}
		for _, mv := range m.Moves {
			mm.Moves = append(mm.Moves, mv.Name)
		}
		out.Members = append(out.Members, mm)
	}
	return out
}

// RunMatch plays st to completion (or the turn cap) with one controller per side.
// st is not modified.
func RunMatch(env *Env, st *BattleState, ctrls [2]Controller, opts MatchOptions) (SimResult, error) {
	if opts.MaxTurns <= 0 {
		opts.MaxTurns = DefaultMaxTurns
	}
	var events []Event
	prevEmit := env.Emit
	if opts.Record {
		env.Emit = func(ev Event) {
			events = append(events, ev)
			if prevEmit != nil {
				prevEmit(ev)
			}
		}
		defer func() { env.Emit = prevEmit }()
	}

	res := SimResult{}
	res.Meta.Parties = [2]SimPartyMeta{partyMeta(st.Party(Player)), partyMeta(st.Party(Opponent))}
	env.emit(st, "BattleStart",
		"player", st.Party(Player).ActivePokemon().Name(), "opponent", st.Party(Opponent).ActivePokemon().Name())

	cur := st
	for !cur.IsOver() && cur.Turn <= opts.MaxTurns {
		var acts [2]Action
		for _, s := range sides {
			legal := LegalActions(cur, s)
			if len(legal) == 0 {
				return res, fmt.Errorf("%s on turn %d: %w", s, cur.Turn, ErrNoLegalAction)
			}
			if len(legal) == 1 && legal[0].Kind == ActionPass {
				acts[s] = Pass
				continue
			}
			acts[s] = ctrls[s].Choose(env, cur, s)
		}
		next, phase, err := ResolveTurn(env, cur, acts[Player], acts[Opponent])
		if err != nil {
			return res, fmt.Errorf("turn %d: %w", cur.Turn, err)
		}
		opts.Log.Debug().
			Int("turn", cur.Turn).
			Str("player", acts[Player].Describe(cur, Player)).
			Str("opponent", acts[Opponent].Describe(cur, Opponent)).
			Stringer("phase", phase).
			Msg("turn resolved")
		cur = next
	}

	res.Turns = cur.Turn - 1
	for _, s := range sides {
		res.Fainted[s] = cur.Party(s).FaintedCount()
		res.HPLeft[s] = cur.Party(s).HPFraction()
	}
	res.Winner = "draw"
	if w, ok := cur.Winner(); ok {
		res.Winner = w.String()
		res.Win = w == Player
	}
	env.emit(cur, "BattleEnd", "winner", res.Winner)
	opts.Log.Info().Str("winner", res.Winner).Int("turns", res.Turns).Msg("match finished")
	if opts.Record {
		res.Events = events
	}
	return res, nil
}

func MarshalPretty(v any) []byte {
	b, _ := json.MarshalIndent(v, "", "  ")
	return b
}
