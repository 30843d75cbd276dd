package combat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func duel(p, o Pokemon) *BattleState {
	return NewBattle(testParty("player", p), testParty("opponent", o))
}

func TestResolveTurnRejectsInvalidAction(t *testing.T) {
	st := NewBattle(
		testParty("player", testMon("a", TypeNormal, 100, tackle), testMon("a2", TypeNormal, 100, tackle)),
		testParty("opponent", testMon("b", TypeNormal, 100, tackle)),
	)
	before := st.Clone()
	env := testEnv(1)

	for _, bad := range []Action{UseMove(3), UseMove(-1), SwitchTo(0), SwitchTo(7), Pass} {
		next, phase, err := ResolveTurn(env, st, bad, UseMove(0))
		require.ErrorIs(t, err, ErrInvalidAction, bad.String())
		require.Same(t, st, next)
		require.Equal(t, PhaseTurnStart, phase)
	}
	require.Equal(t, before, st)
}

func TestFaintEntersReplacementPhase(t *testing.T) {
	st := NewBattle(
		testParty("player", testMon("a", TypeNormal, 100, quickStrike)),
		testParty("opponent", testMon("b", TypeNormal, 1, tackle), testMon("c", TypeNormal, 100, tackle)),
	)
	env := testEnv(7)

	next, phase, err := ResolveTurn(env, st, UseMove(0), UseMove(0))
	require.NoError(t, err)
	require.Equal(t, PhaseDeathEndOfTurn, phase)
	require.True(t, next.Active(Opponent).Fainted)
	require.Equal(t, 100, next.Active(Player).HP, "a fainted Pokémon does not act")
	require.Equal(t, 2, next.Turn)
	require.Equal(t, 1, st.Active(Opponent).HP, "input state is untouched")

	require.Equal(t, []Action{SwitchTo(1)}, LegalActions(next, Opponent))
	require.Equal(t, []Action{Pass}, LegalActions(next, Player))

	_, _, err = ResolveTurn(env, next, UseMove(0), SwitchTo(1))
	require.ErrorIs(t, err, ErrInvalidAction)
	_, _, err = ResolveTurn(env, next, Pass, UseMove(0))
	require.ErrorIs(t, err, ErrInvalidAction)

	after, phase, err := ResolveTurn(env, next, Pass, SwitchTo(1))
	require.NoError(t, err)
	require.Equal(t, PhaseTurnStart, phase)
	require.Equal(t, 1, after.Party(Opponent).Active)
	require.Equal(t, 2, after.Turn, "replacement does not consume a turn")

	_, _, err = Replace(env, next, Player, 0)
	require.ErrorIs(t, err, ErrInvalidAction)
	replaced, phase, err := Replace(env, next, Opponent, 1)
	require.NoError(t, err)
	require.Equal(t, PhaseTurnStart, phase)
	require.Equal(t, "C", replaced.Active(Opponent).Name())
}

func TestApplyTurnReadsPassDuringReplacement(t *testing.T) {
	st := NewBattle(
		testParty("player", testMon("a", TypeNormal, 100, quickStrike)),
		testParty("opponent", testMon("b", TypeNormal, 1, tackle), testMon("c", TypeNormal, 100, tackle)),
	)
	env := testEnv(3)
	next, _, err := ApplyTurn(env, st, UseMove(0), UseMove(0))
	require.NoError(t, err)
	after, phase, err := ApplyTurn(env, next, UseMove(0), SwitchTo(1))
	require.NoError(t, err)
	require.Equal(t, PhaseTurnStart, phase)
	require.Equal(t, 1, after.Party(Opponent).Active)
}

func TestLastFaintEndsBattle(t *testing.T) {
	st := duel(testMon("a", TypeNormal, 100, quickStrike), testMon("b", TypeNormal, 1, tackle))
	env := testEnv(11)
	next, _, err := ResolveTurn(env, st, UseMove(0), UseMove(0))
	require.NoError(t, err)
	require.True(t, next.IsOver())
	w, ok := next.Winner()
	require.True(t, ok)
	require.Equal(t, Player, w)
	require.Empty(t, LegalActions(next, Player))

	_, _, err = ResolveTurn(env, next, Pass, Pass)
	require.ErrorIs(t, err, ErrInvalidAction)
}

func TestToxicStacks(t *testing.T) {
	p := testMon("a", TypeNormal, 160, harden)
	p.Status = StatusToxic
	p.ToxicCount = 1
	st := duel(p, testMon("b", TypeNormal, 160, harden))
	env := testEnv(5)

	st, _, err := ResolveTurn(env, st, UseMove(0), UseMove(0))
	require.NoError(t, err)
	require.Equal(t, 150, st.Active(Player).HP)
	require.Equal(t, 2, st.Active(Player).ToxicCount)

	st, _, err = ResolveTurn(env, st, UseMove(0), UseMove(0))
	require.NoError(t, err)
	require.Equal(t, 130, st.Active(Player).HP)
	require.Equal(t, 3, st.Active(Player).ToxicCount)
	require.Equal(t, 160, st.Active(Opponent).HP)
}

func TestBurnAndPoisonResiduals(t *testing.T) {
	p := testMon("a", TypeNormal, 161, harden)
	p.Status = StatusBurn
	o := testMon("b", TypeNormal, 100, harden)
	o.Status = StatusPoison
	st, _, err := ResolveTurn(testEnv(2), duel(p, o), UseMove(0), UseMove(0))
	require.NoError(t, err)
	require.Equal(t, 141, st.Active(Player).HP)
	require.Equal(t, 88, st.Active(Opponent).HP)
}

func TestSwitchResetsOutgoing(t *testing.T) {
	a := testMon("a", TypeNormal, 100, harden)
	a.Stages[StatAttack] = 2
	a.Volatile = VolConfusion | VolLeechSeed
	a.ConfuseTurns = 3
	a.Status = StatusToxic
	a.ToxicCount = 5
	st := NewBattle(
		testParty("player", a, testMon("a2", TypeNormal, 100, harden)),
		testParty("opponent", testMon("b", TypeNormal, 100, harden)),
	)

	next, _, err := ResolveTurn(testEnv(9), st, SwitchTo(1), UseMove(0))
	require.NoError(t, err)
	out := next.Party(Player).Members[0]
	require.Equal(t, 1, next.Party(Player).Active)
	require.Equal(t, Boosts{}, out.Stages)
	require.Zero(t, out.Volatile)
	require.Zero(t, out.ConfuseTurns)
	require.Equal(t, StatusToxic, out.Status)
	require.Equal(t, 2, out.ToxicCount)
	require.Equal(t, 100, out.HP, "benched members take no residual damage")
}

func TestSleepSkipsThenWakes(t *testing.T) {
	a := testMon("a", TypeNormal, 100, tackle)
	a.Status = StatusSleep
	a.SleepTurns = 2
	st := duel(a, testMon("b", TypeNormal, 300, harden))
	env := testEnv(4)

	var err error
	for i := 0; i < 2; i++ {
		st, _, err = ResolveTurn(env, st, UseMove(0), UseMove(0))
		require.NoError(t, err)
		require.Equal(t, 300, st.Active(Opponent).HP)
	}
	require.Equal(t, StatusSleep, st.Active(Player).Status)
	require.Zero(t, st.Active(Player).SleepTurns)

	st, _, err = ResolveTurn(env, st, UseMove(0), UseMove(0))
	require.NoError(t, err)
	require.Equal(t, StatusNone, st.Active(Player).Status)
	require.Less(t, st.Active(Opponent).HP, 300)
}

func TestImmunitySkipsSecondaryEffects(t *testing.T) {
	st := duel(testMon("a", TypeElectric, 100, zap), testMon("b", TypeGround, 100, harden))
	next, _, err := ResolveTurn(testEnv(8), st, UseMove(0), UseMove(0))
	require.NoError(t, err)
	require.Equal(t, 100, next.Active(Opponent).HP)
	require.Equal(t, StatusNone, next.Active(Opponent).Status)

	st = duel(testMon("a", TypeElectric, 100, zap), testMon("b", TypeNormal, 300, harden))
	next, _, err = ResolveTurn(testEnv(8), st, UseMove(0), UseMove(0))
	require.NoError(t, err)
	require.Less(t, next.Active(Opponent).HP, 300)
	require.Equal(t, StatusParalysis, next.Active(Opponent).Status)
}

func TestStatusInflictionFailureRules(t *testing.T) {
	o := testMon("b", TypeNormal, 100, harden)
	o.Status = StatusPoison
	st := duel(testMon("a", TypeNormal, 100, lullaby), o)
	next, _, err := ResolveTurn(testEnv(6), st, UseMove(0), UseMove(0))
	require.NoError(t, err)
	require.Equal(t, StatusPoison, next.Active(Opponent).Status, "one persistent status at a time")

	st = duel(testMon("a", TypeNormal, 100, lullaby), testMon("b", TypeNormal, 100, harden))
	next, _, err = ResolveTurn(testEnv(6), st, UseMove(0), UseMove(0))
	require.NoError(t, err)
	require.Equal(t, StatusSleep, next.Active(Opponent).Status)
	require.GreaterOrEqual(t, next.Active(Opponent).SleepTurns, 1)
	require.LessOrEqual(t, next.Active(Opponent).SleepTurns, 4)
}

func TestStagesClampAtSix(t *testing.T) {
	a := testMon("a", TypeNormal, 100, harden)
	a.Stages[StatDefense] = 6
	env := testEnv(1)
	st := duel(a, testMon("b", TypeNormal, 100, harden))
	next, _, err := ResolveTurn(env, st, UseMove(0), UseMove(0))
	require.NoError(t, err)
	require.Equal(t, 6, next.Active(Player).Stages[StatDefense])
	require.Equal(t, 1, next.Active(Opponent).Stages[StatDefense])
}

func TestSameSeedSameOutcome(t *testing.T) {
	st := duel(testMon("a", TypeNormal, 300, tackle, zap), testMon("b", TypeWater, 300, waterBlast, tackle))
	run := func() *BattleState {
		env := testEnv(42)
		cur := st
		var err error
		for i := 0; i < 3 && !cur.IsOver(); i++ {
			cur, _, err = ResolveTurn(env, cur, UseMove(i%2), UseMove(0))
			require.NoError(t, err)
		}
		return cur
	}
	require.Equal(t, run(), run())
}

func TestEventsAreEmitted(t *testing.T) {
	var types []string
	var hit Event
	env := testEnv(1)
	env.Emit = func(ev Event) {
		types = append(types, ev.Type)
		if ev.Type == "Hit" {
			hit = ev
		}
	}
	st := duel(testMon("a", TypeNormal, 100, quickStrike), testMon("b", TypeNormal, 1, tackle))
	_, _, err := ResolveTurn(env, st, UseMove(0), UseMove(0))
	require.NoError(t, err)
	require.Contains(t, types, "TurnStart")
	require.Contains(t, types, "Hit")
	require.Contains(t, types, "Faint")
	require.Equal(t, "A", hit.Payload["user"])
	require.Equal(t, "B", hit.Payload["target"])
	require.Equal(t, 1, hit.Payload["damage"])
	require.Equal(t, 0, hit.Payload["hp"])

	quiet := testEnv(1)
	next, _, err := ResolveTurn(quiet, st, UseMove(0), UseMove(0))
	require.NoError(t, err)
	require.True(t, next.IsOver())
}

// rate plays trial n times on one env and returns how often it reported true.
func rate(t *testing.T, seed int64, n int, trial func(env *Env) bool) float64 {
	t.Helper()
	env := testEnv(seed)
	hits := 0
	for i := 0; i < n; i++ {
		if trial(env) {
			hits++
		}
	}
	return float64(hits) / float64(n)
}

func turn(t *testing.T, env *Env, st *BattleState, mine, theirs Action) *BattleState {
	t.Helper()
	next, _, err := ResolveTurn(env, st, mine, theirs)
	require.NoError(t, err)
	return next
}

func TestParalysisSkipsAQuarterOfTurns(t *testing.T) {
	a := testMon("a", TypeNormal, 100, tackle)
	a.Status = StatusParalysis
	st := duel(a, testMon("b", TypeNormal, 1000, harden))
	acted := rate(t, 21, 4000, func(env *Env) bool {
		return turn(t, env, st, UseMove(0), UseMove(0)).Active(Opponent).HP < 1000
	})
	require.InDelta(t, 0.75, acted, 0.03)
}

func TestFreezeThawsOneTurnInFive(t *testing.T) {
	a := testMon("a", TypeNormal, 100, tackle)
	a.Status = StatusFreeze
	st := duel(a, testMon("b", TypeNormal, 1000, harden))
	acted := rate(t, 22, 4000, func(env *Env) bool {
		next := turn(t, env, st, UseMove(0), UseMove(0))
		if next.Active(Opponent).HP == 1000 {
			require.Equal(t, StatusFreeze, next.Active(Player).Status)
			return false
		}
		require.Equal(t, StatusNone, next.Active(Player).Status)
		return true
	})
	require.InDelta(t, 0.2, acted, 0.03)
}

func TestFireHitThawsTarget(t *testing.T) {
	ember := &Move{ID: "ember", Name: "Ember", Type: TypeFire, Category: CategorySpecial,
		Power: 40, Accuracy: AlwaysHits, CritRatio: 1}
	a := testMon("a", TypeNormal, 100, ember)
	a.Stats.Speed = 150
	b := testMon("b", TypeNormal, 1000, harden)
	b.Status = StatusFreeze
	next := turn(t, testEnv(3), duel(a, b), UseMove(0), UseMove(0))
	require.Less(t, next.Active(Opponent).HP, 1000)
	require.Equal(t, StatusNone, next.Active(Opponent).Status)
}

func TestFlinchOnlyLandsWhenMovingFirst(t *testing.T) {
	flinchHit := &Move{ID: "flinch-hit", Name: "Flinch Hit", Type: TypeNormal, Category: CategoryPhysical,
		Power: 40, Accuracy: AlwaysHits, CritRatio: 1,
		Secondary: &Secondary{Chance: 100, Effects: []Effect{VolatileInduce{Volatile: VolFlinch}}}}

	flinched := func(speed int) (*BattleState, bool) {
		a := testMon("a", TypeNormal, 200, flinchHit)
		a.Stats.Speed = speed
		env := testEnv(4)
		saw := false
		env.Emit = func(ev Event) {
			if text, ok := ev.Payload["text"].(string); ok && text == "B flinched" {
				saw = true
			}
		}
		return turn(t, env, duel(a, testMon("b", TypeNormal, 1000, tackle)), UseMove(0), UseMove(0)), saw
	}

	next, saw := flinched(150)
	require.True(t, saw)
	require.Equal(t, 200, next.Active(Player).HP)

	next, saw = flinched(50)
	require.False(t, saw)
	require.Less(t, next.Active(Player).HP, 200)
	require.False(t, next.Active(Opponent).Volatile.Has(VolFlinch))

	kept := withoutFlinch([]Effect{
		VolatileInduce{Volatile: VolFlinch | VolConfusion},
		VolatileInduce{Volatile: VolFlinch},
		StatusInduce{Status: StatusBurn},
	})
	require.Equal(t, []Effect{VolatileInduce{Volatile: VolConfusion}, StatusInduce{Status: StatusBurn}}, kept)
}

func TestConfusionHitsItselfHalfTheTime(t *testing.T) {
	a := testMon("a", TypeNormal, 200, tackle)
	a.Volatile = VolConfusion
	a.ConfuseTurns = 5
	self := confusionDamage(&a)
	st := duel(a, testMon("b", TypeNormal, 1000, harden))

	hurt := rate(t, 23, 4000, func(env *Env) bool {
		next := turn(t, env, st, UseMove(0), UseMove(0))
		if next.Active(Player).HP < 200 {
			require.Equal(t, 200-self, next.Active(Player).HP)
			require.Equal(t, 1000, next.Active(Opponent).HP)
			return true
		}
		return false
	})
	require.InDelta(t, 0.5, hurt, 0.03)

	a.ConfuseTurns = 1
	next := turn(t, testEnv(1), duel(a, testMon("b", TypeNormal, 1000, harden)), UseMove(0), UseMove(0))
	require.False(t, next.Active(Player).Volatile.Has(VolConfusion))
	require.Less(t, next.Active(Opponent).HP, 1000)
}

func TestSpeedTieIsACoinFlip(t *testing.T) {
	st := duel(testMon("a", TypeNormal, 1, tackle), testMon("b", TypeNormal, 1, tackle))
	won := rate(t, 24, 4000, func(env *Env) bool {
		return turn(t, env, st, UseMove(0), UseMove(0)).Active(Player).Alive()
	})
	require.InDelta(t, 0.5, won, 0.03)
}

func TestPriorityBeatsSpeed(t *testing.T) {
	a := testMon("a", TypeNormal, 1, quickStrike)
	a.Stats.Speed = 10
	b := testMon("b", TypeNormal, 1, tackle)
	b.Stats.Speed = 300
	for seed := int64(1); seed <= 20; seed++ {
		next := turn(t, testEnv(seed), duel(a, b), UseMove(0), UseMove(0))
		require.True(t, next.Active(Player).Alive())
		require.False(t, next.Active(Opponent).Alive())
	}
}

func TestDrainAndRecoil(t *testing.T) {
	drainHit := &Move{ID: "drain-hit", Name: "Drain Hit", Type: TypeNormal, Category: CategorySpecial,
		Power: 80, Accuracy: AlwaysHits, CritRatio: 1, Effects: []Effect{Drain{Fraction: 0.5}}}
	recoilHit := &Move{ID: "recoil-hit", Name: "Recoil Hit", Type: TypeNormal, Category: CategoryPhysical,
		Power: 80, Accuracy: AlwaysHits, CritRatio: 1, Effects: []Effect{Recoil{Fraction: 0.25}}}

	a := testMon("a", TypeFire, 200, drainHit, recoilHit)
	a.HP = 50
	st := duel(a, testMon("b", TypeNormal, 300, harden))
	next := turn(t, testEnv(5), st, UseMove(0), UseMove(0))
	dealt := 300 - next.Active(Opponent).HP
	require.Positive(t, dealt)
	require.Equal(t, 50+max(1, dealt/2), next.Active(Player).HP)

	a.HP = 200
	st = duel(a, testMon("b", TypeNormal, 300, harden))
	next = turn(t, testEnv(5), st, UseMove(1), UseMove(0))
	dealt = 300 - next.Active(Opponent).HP
	require.Positive(t, dealt)
	require.Equal(t, 200-max(1, dealt/4), next.Active(Player).HP)
}

func TestLeechSeedAndCurseResiduals(t *testing.T) {
	a := testMon("a", TypeNormal, 160, harden)
	a.Volatile = VolLeechSeed
	b := testMon("b", TypeNormal, 160, harden)
	b.HP = 50
	next := turn(t, testEnv(6), duel(a, b), UseMove(0), UseMove(0))
	require.Equal(t, 140, next.Active(Player).HP)
	require.Equal(t, 70, next.Active(Opponent).HP)

	a = testMon("a", TypeNormal, 160, harden)
	a.Volatile = VolCurse
	next = turn(t, testEnv(6), duel(a, testMon("b", TypeNormal, 160, harden)), UseMove(0), UseMove(0))
	require.Equal(t, 120, next.Active(Player).HP)
}

func TestResidualOrderOnSpeedTieIsACoinFlip(t *testing.T) {
	seeded := func(name string) Pokemon {
		p := testMon(name, TypeNormal, 80, harden)
		p.HP = 10
		p.Volatile = VolLeechSeed
		return p
	}
	st := duel(seeded("a"), seeded("b"))
	survived := rate(t, 25, 2000, func(env *Env) bool {
		next := turn(t, env, st, UseMove(0), UseMove(0))
		require.True(t, next.IsOver())
		require.NotEqual(t, next.Active(Player).Alive(), next.Active(Opponent).Alive(), "the second side heals first")
		return next.Active(Player).Alive()
	})
	require.InDelta(t, 0.5, survived, 0.05)
}

func TestForceSwitchDragsInBenchMember(t *testing.T) {
	roar := &Move{ID: "roar", Name: "Roar", Type: TypeNormal, Category: CategoryStatus,
		Accuracy: AlwaysHits, CritRatio: 1, Effects: []Effect{ForceSwitch{}}}
	a := testMon("a", TypeNormal, 100, roar)
	a.Stats.Speed = 150
	b := testMon("b", TypeNormal, 100, harden)
	b.Stages[StatAttack] = 3
	st := NewBattle(testParty("player", a), testParty("opponent", b, testMon("c", TypeNormal, 100, harden)))

	next := turn(t, testEnv(7), st, UseMove(0), UseMove(0))
	require.Equal(t, 1, next.Party(Opponent).Active)
	require.Zero(t, next.Party(Opponent).Members[0].Stages[StatAttack])
	require.Zero(t, next.Active(Opponent).Stages[StatDefense], "the dragged-out member's move is lost")
}

func TestStagesClampAtMinusSixIncludingAccuracyAndEvasion(t *testing.T) {
	sap := &Move{ID: "sap", Name: "Sap", Type: TypeNormal, Category: CategoryStatus,
		Accuracy: AlwaysHits, CritRatio: 1,
		Effects: []Effect{StatChange{Boosts: Boosts{StatAttack: -2, StatAccuracy: -2}}}}
	blur := &Move{ID: "blur", Name: "Blur", Type: TypeNormal, Category: CategoryStatus, Target: TargetSelf,
		Accuracy: AlwaysHits, CritRatio: 1,
		Effects: []Effect{StatChange{Boosts: Boosts{StatEvasion: 2}, Self: true}}}

	a := testMon("a", TypeNormal, 100, sap, blur)
	a.Stages[StatEvasion] = 5
	b := testMon("b", TypeNormal, 100, harden)
	b.Stages[StatAttack] = -6
	b.Stages[StatAccuracy] = -5

	next := turn(t, testEnv(8), duel(a, b), UseMove(0), UseMove(0))
	require.Equal(t, -6, next.Active(Opponent).Stages[StatAttack])
	require.Equal(t, -6, next.Active(Opponent).Stages[StatAccuracy])

	next = turn(t, testEnv(8), next, UseMove(1), UseMove(0))
	require.Equal(t, 6, next.Active(Player).Stages[StatEvasion])
	next = turn(t, testEnv(8), next, UseMove(1), UseMove(0))
	require.Equal(t, 6, next.Active(Player).Stages[StatEvasion])
}

func TestAccuracyStageScalesHitChance(t *testing.T) {
	jab := &Move{ID: "jab", Name: "Jab", Type: TypeNormal, Category: CategoryPhysical,
		Power: 40, Accuracy: 100, CritRatio: 1}
	a := testMon("a", TypeNormal, 100, jab)
	a.Stages[StatAccuracy] = -6
	st := duel(a, testMon("b", TypeNormal, 1000, harden))
	hit := rate(t, 26, 4000, func(env *Env) bool {
		return turn(t, env, st, UseMove(0), UseMove(0)).Active(Opponent).HP < 1000
	})
	require.InDelta(t, 1.0/3, hit, 0.03)
}

func TestZeroDamageHitSkipsSecondary(t *testing.T) {
	weakFlame := &Move{ID: "weak-flame", Name: "Weak Flame", Type: TypeFire, Category: CategorySpecial,
		Power: 10, Accuracy: AlwaysHits, CritRatio: 1,
		Secondary: &Secondary{Chance: 100, Effects: []Effect{StatusInduce{Status: StatusBurn}}}}
	a := testMon("a", TypeNormal, 100, weakFlame)
	a.Stats.SpAttack = 10
	a.Stats.Speed = 150
	b := testMon("b", TypeWater, 100, harden)
	b.Types = [2]Type{TypeWater, TypeWater}
	b.Stats.SpDefense = 500
	b.Ability = &Ability{ID: "shell-armor"}

	for seed := int64(1); seed <= 20; seed++ {
		next := turn(t, testEnv(seed), duel(a, b), UseMove(0), UseMove(0))
		require.Equal(t, 100, next.Active(Opponent).HP)
		require.Equal(t, StatusNone, next.Active(Opponent).Status, "seed %d", seed)
	}
}

func TestForkKeepsChartAndDropsSink(t *testing.T) {
	env := testEnv(1)
	env.Emit = func(Event) {}
	f := env.Fork(9)
	require.Same(t, env.Chart, f.Chart)
	require.Nil(t, f.Emit)
	require.Equal(t, NewEnv(9, env.Chart).Rng.Int63(), f.Rng.Int63())
}
