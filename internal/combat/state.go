package combat

// BattleState is the full two-sided snapshot. Resolution functions never mutate their input.
type BattleState struct {
	Parties [2]Party `json:"parties"`
	Turn    int      `json:"turn"`
	Phase   Phase    `json:"phase"`
}

func NewBattle(player, opponent Party) *BattleState {
	return &BattleState{Parties: [2]Party{player, opponent}, Turn: 1, Phase: PhaseTurnStart}
}

func (st *BattleState) Clone() *BattleState {
	out := &BattleState{Turn: st.Turn, Phase: st.Phase}
	out.Parties[0] = st.Parties[0].clone()
	out.Parties[1] = st.Parties[1].clone()
	return out
}

func (st *BattleState) Party(s Side) *Party    { return &st.Parties[s] }
func (st *BattleState) Active(s Side) *Pokemon { return st.Parties[s].ActivePokemon() }

func (st *BattleState) IsOver() bool {
	return st.Parties[Player].AliveCount() == 0 || st.Parties[Opponent].AliveCount() == 0
}

// Winner is only meaningful once IsOver reports true. A double knockout counts as a loss for both.
func (st *BattleState) Winner() (Side, bool) {
	p, o := st.Parties[Player].AliveCount(), st.Parties[Opponent].AliveCount()
	switch {
	case p > 0 && o == 0:
		return Player, true
	case o > 0 && p == 0:
		return Opponent, true
	}
	return Player, false
}

// NeedsReplacement is true when the side's active has fainted and someone is left to send in.
func (st *BattleState) NeedsReplacement(s Side) bool {
	p := &st.Parties[s]
	return !p.ActivePokemon().Alive() && p.AliveCount() > 0
}

func (st *BattleState) settlePhase() {
	if !st.Active(Player).Alive() || !st.Active(Opponent).Alive() {
		st.Phase = PhaseDeathEndOfTurn
		return
	}
	st.Phase = PhaseTurnStart
}
