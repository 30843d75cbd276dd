package combat

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAction = errors.New("invalid action")
	ErrNoLegalAction = errors.New("no legal action")
)

type ActionKind uint8

const (
	ActionPass ActionKind = iota
	ActionMove
	ActionSwitch
)

func (k ActionKind) String() string {
	switch k {
	case ActionMove:
		return "move"
	case ActionSwitch:
		return "switch"
	}
	return "pass"
}

// Action is a comparable value so it can key maps in the search tree.
// Index is a move slot for ActionMove and a party index for ActionSwitch.
type Action struct {
	Kind  ActionKind `json:"kind"`
	Index int        `json:"index"`
}

func UseMove(slot int) Action { return Action{Kind: ActionMove, Index: slot} }
func SwitchTo(i int) Action   { return Action{Kind: ActionSwitch, Index: i} }

var Pass = Action{Kind: ActionPass}

func (a Action) String() string {
	if a.Kind == ActionPass {
		return "pass"
	}
	return fmt.Sprintf("%s:%d", a.Kind, a.Index)
}

// Describe renders the action against the side's party, e.g. "Thunderbolt" or "switch Gastly".
func (a Action) Describe(st *BattleState, side Side) string {
	p := st.Party(side)
	switch a.Kind {
	case ActionMove:
		if mv := p.ActivePokemon().Move(a.Index); mv != nil {
			return mv.Name
		}
	case ActionSwitch:
		if a.Index >= 0 && a.Index < len(p.Members) {
			return "switch " + p.Members[a.Index].Name()
		}
	}
	return a.String()
}

// LegalActions lists what side may do in st. Moves come first in slot order, then switches
// in party order. A side with nothing to decide this phase gets exactly [Pass].
func LegalActions(st *BattleState, side Side) []Action {
	if st.IsOver() {
		return nil
	}
	p := st.Party(side)
	if st.Phase == PhaseDeathEndOfTurn {
		if !st.NeedsReplacement(side) {
			return []Action{Pass}
		}
		var out []Action
		for _, i := range p.Bench() {
			out = append(out, SwitchTo(i))
		}
		return out
	}
	var out []Action
	active := p.ActivePokemon()
	if active.Alive() {
		for slot, mv := range active.Moves {
			if mv != nil {
				out = append(out, UseMove(slot))
			}
		}
	}
	for _, i := range p.Bench() {
		out = append(out, SwitchTo(i))
	}
	return out
}

// Validate rejects an action that is not legal for side in st.
func (st *BattleState) Validate(side Side, a Action) error {
	if st.IsOver() {
		return fmt.Errorf("%s %s: battle is over: %w", side, a, ErrInvalidAction)
	}
	p := st.Party(side)
	if st.Phase == PhaseDeathEndOfTurn {
		if st.NeedsReplacement(side) {
			if a.Kind != ActionSwitch || !p.CanSwitchTo(a.Index) {
				return fmt.Errorf("%s %s: a replacement is required: %w", side, a, ErrInvalidAction)
			}
			return nil
		}
		if a.Kind != ActionPass {
			return fmt.Errorf("%s %s: nothing to replace: %w", side, a, ErrInvalidAction)
		}
		return nil
	}
	switch a.Kind {
	case ActionMove:
		active := p.ActivePokemon()
		if !active.Alive() || active.Move(a.Index) == nil {
			return fmt.Errorf("%s %s: no such move: %w", side, a, ErrInvalidAction)
		}
	case ActionSwitch:
		if !p.CanSwitchTo(a.Index) {
			return fmt.Errorf("%s %s: cannot switch: %w", side, a, ErrInvalidAction)
		}
	default:
		return fmt.Errorf("%s %s: must act: %w", side, a, ErrInvalidAction)
	}
	return nil
}
