package trainerai

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"pbs/assets"
	"pbs/internal/combat"
	"pbs/internal/config"
	"pbs/internal/util"
)

func neutralChart() *combat.TypeChart {
	var tc combat.TypeChart
	for i := range tc {
		for j := range tc[i] {
			tc[i][j] = 1
		}
	}
	tc[combat.TypeNormal][combat.TypeGhost] = 0
	tc[combat.TypeElectric][combat.TypeGround] = 0
	tc[combat.TypeWater][combat.TypeFire] = 2
	tc[combat.TypeWater][combat.TypeRock] = 2
	return &tc
}

func physical(id string, typ combat.Type, power, priority int) *combat.Move {
	return &combat.Move{ID: id, Name: combat.DisplayName(id), Type: typ, Category: combat.CategoryPhysical,
		Power: power, Accuracy: 100, Priority: priority, CritRatio: 1}
}

func status(id string, typ combat.Type, effects ...combat.Effect) *combat.Move {
	return &combat.Move{ID: id, Name: combat.DisplayName(id), Type: typ, Category: combat.CategoryStatus,
		Accuracy: 100, CritRatio: 1, Effects: effects}
}

var (
	tackle      = physical("tackle", combat.TypeNormal, 80, 0)
	quickStrike = physical("quick-strike", combat.TypeNormal, 80, 1)
	fakeOut     = physical("fake-out", combat.TypeNormal, 80, 1)
	suckerPunch = physical("sucker-punch", combat.TypeDark, 80, 1)
	weakHit     = physical("weak-hit", combat.TypeNormal, 40, 0)
	megaHit     = physical("mega-hit", combat.TypeNormal, 250, 0)
	splash      = physical("splash-hit", combat.TypeWater, 40, 0)
	zap         = &combat.Move{ID: "zap", Name: "Zap", Type: combat.TypeElectric, Category: combat.CategorySpecial,
		Power: 60, Accuracy: 100, CritRatio: 1}
	stunWave   = status("stun-wave", combat.TypeElectric, combat.StatusInduce{Status: combat.StatusParalysis})
	lullaby    = status("lullaby", combat.TypeNormal, combat.StatusInduce{Status: combat.StatusSleep})
	confuseRay = status("confuse-ray", combat.TypeGhost, combat.VolatileInduce{Volatile: combat.VolConfusion})
	harden     = &combat.Move{ID: "harden", Name: "Harden", Type: combat.TypeNormal, Category: combat.CategoryStatus,
		Target: combat.TargetSelf, Accuracy: combat.AlwaysHits, CritRatio: 1,
		Effects: []combat.Effect{combat.StatChange{Boosts: combat.Boosts{combat.StatDefense: 1}, Self: true}}}
)

func mon(name string, typ combat.Type, hp int, moves ...*combat.Move) combat.Pokemon {
	return combat.Pokemon{
		Species: &combat.Species{ID: name, Types: [2]combat.Type{typ}},
		Level:   50,
		Types:   [2]combat.Type{typ},
		Stats:   combat.Stats{MaxHP: hp, Attack: 100, Defense: 100, SpAttack: 100, SpDefense: 100, Speed: 100},
		HP:      hp,
		Moves:   moves,
	}
}

// battle puts user on the player side and the AI on the opponent side.
func battle(user combat.Pokemon, ai ...combat.Pokemon) *combat.BattleState {
	return combat.NewBattle(
		combat.Party{Name: "player", Members: []combat.Pokemon{user}},
		combat.Party{Name: "ai", Members: ai},
	)
}

func score(t *testing.T, st *combat.BattleState) []MoveScore {
	t.Helper()
	m := MatchupFor(neutralChart(), st, combat.Opponent)
	m.AbilityKnown = true
	return ScoreMoves(util.New(1), m)
}

func TestImmuneDamagingMoveIsDisqualified(t *testing.T) {
	st := battle(mon("ghost", combat.TypeGhost, 100), mon("ai", combat.TypeFire, 100, tackle))
	s := score(t, st)
	require.Len(t, s, 1)
	require.Equal(t, -10, s[0].Base)
	require.Zero(t, s[0].Effectiveness)
	require.Empty(t, s[0].Adjustments)
}

func TestLethalMovesAreRewarded(t *testing.T) {
	st := battle(mon("user", combat.TypeNormal, 10),
		mon("ai", combat.TypeFire, 100, tackle, quickStrike, fakeOut, suckerPunch))
	s := score(t, st)
	require.Equal(t, 4, s[0].Base)
	require.Equal(t, 6, s[1].Base, "priority knockouts score higher")
	require.Equal(t, 4, s[2].Base, "fake out gets no priority bonus")
	require.Zero(t, s[3].Base)
	require.Equal(t, []Adjustment{{Delta: 4, Chance: 85}}, s[3].Adjustments)
	require.Equal(t, 1, Choose(util.New(3), s))
}

func TestStatusMoveDisqualifiers(t *testing.T) {
	poisoned := mon("user", combat.TypeNormal, 100)
	poisoned.Status = combat.StatusPoison
	s := score(t, battle(poisoned, mon("ai", combat.TypeNormal, 100, lullaby)))
	require.Equal(t, -10, s[0].Base, "sleep on a statused target")

	s = score(t, battle(mon("user", combat.TypeGround, 100), mon("ai", combat.TypeNormal, 100, stunWave)))
	require.Equal(t, -10, s[0].Base, "electric paralysis on a ground type")

	confused := mon("user", combat.TypeNormal, 100)
	confused.Volatile = combat.VolConfusion
	s = score(t, battle(confused, mon("ai", combat.TypeNormal, 100, confuseRay)))
	require.Equal(t, -5, s[0].Base)
}

func TestTargetAbilityImmunities(t *testing.T) {
	user := mon("user", combat.TypeNormal, 100)
	user.Ability = &combat.Ability{ID: "volt-absorb"}
	s := score(t, battle(user, mon("ai", combat.TypeFire, 100, zap)))
	require.Equal(t, -10, s[0].Base)

	ai := mon("ai", combat.TypeFire, 100, zap)
	ai.Ability = &combat.Ability{ID: "mold-breaker"}
	s = score(t, battle(user, ai))
	require.Zero(t, s[0].Base)
}

func TestSelfBoostAtFullHealth(t *testing.T) {
	s := score(t, battle(mon("user", combat.TypeNormal, 100), mon("ai", combat.TypeNormal, 100, harden)))
	require.Zero(t, s[0].Base)
	require.Equal(t, []Adjustment{{Delta: 2, Chance: 128}}, s[0].Adjustments)

	capped := mon("ai", combat.TypeNormal, 100, harden)
	capped.Stages[combat.StatDefense] = 6
	s = score(t, battle(mon("user", combat.TypeNormal, 100), capped))
	require.Equal(t, -10, s[0].Base)
}

func TestMaxDamagePenalty(t *testing.T) {
	st := battle(mon("user", combat.TypeNormal, 300), mon("ai", combat.TypeFire, 100, tackle, weakHit))
	s := score(t, st)
	require.Equal(t, 37, s[0].Damage)
	require.Equal(t, 19, s[1].Damage)
	require.Zero(t, s[0].Base)
	require.Equal(t, -1, s[1].Base)

	st = battle(mon("user", combat.TypeNormal, 15), mon("ai", combat.TypeFire, 100, tackle, weakHit))
	s = score(t, st)
	require.Equal(t, 4, s[1].Base, "a weaker move that still knocks out is not docked")
}

func TestDistribution(t *testing.T) {
	scores := []MoveScore{
		{Slot: 0, Base: 0, Adjustments: []Adjustment{{Delta: 1, Chance: 128}}},
		{Slot: 1, Base: 0},
	}
	d := Distribution(scores)
	require.InDelta(t, 0.75, d[0], 1e-12)
	require.InDelta(t, 0.25, d[1], 1e-12)

	scores = append(scores, MoveScore{Slot: 2, Base: -4, Adjustments: []Adjustment{{Delta: 2, Chance: 200}, {Delta: 1, Chance: 10}}})
	d = Distribution(scores)
	require.Zero(t, d[2], "cannot reach the top")
	require.InDelta(t, 1.0, d[0]+d[1]+d[2], 1e-12)

	require.Equal(t, []float64{1}, Distribution([]MoveScore{{Base: -10}}))
	require.Nil(t, Distribution(nil))
}

func TestChooseFollowsDistribution(t *testing.T) {
	scores := []MoveScore{
		{Slot: 0, Adjustments: []Adjustment{{Delta: 1, Chance: 128}}},
		{Slot: 3},
	}
	rng := util.New(99)
	hits := 0
	const n = 8000
	for i := 0; i < n; i++ {
		if Choose(rng, scores) == 0 {
			hits++
		}
	}
	require.InDelta(t, 0.75, float64(hits)/n, 0.03)

	a := Choose(util.New(5), scores)
	b := Choose(util.New(5), scores)
	require.Equal(t, a, b)
	require.Equal(t, -1, Choose(rng, nil))
}

func TestScoreBounds(t *testing.T) {
	ms := MoveScore{Base: 1, Adjustments: []Adjustment{{Delta: -2, Chance: 10}, {Delta: 3, Chance: 10}}}
	lo, hi := ms.Bounds()
	require.Equal(t, -1, lo)
	require.Equal(t, 4, hi)
}

func fainted(m combat.Pokemon) combat.Pokemon {
	m.HP = 0
	m.Fainted = true
	return m
}

func TestPickReplacementPrefersSuperEffectiveHolders(t *testing.T) {
	user := mon("user", combat.TypeFire, 100)
	party := combat.Party{Members: []combat.Pokemon{
		fainted(mon("dead", combat.TypeNormal, 100, tackle)),
		mon("plain", combat.TypeNormal, 100, tackle),
		mon("water", combat.TypeWater, 100, splash),
	}}
	require.Equal(t, 2, PickReplacement(neutralChart(), &party, &user))
}

func TestPickReplacementEightReadsAsOneSeventyFive(t *testing.T) {
	user := mon("user", combat.TypeFire, 100)
	user.Types[1] = combat.TypeRock
	party := combat.Party{Members: []combat.Pokemon{
		fainted(mon("dead", combat.TypeNormal, 100, tackle)),
		mon("water", combat.TypeWater, 100, splash),
		mon("spark", combat.TypeElectric, 100, splash),
	}}
	require.Equal(t, 2, PickReplacement(neutralChart(), &party, &user))
}

func TestPickReplacementDamageWraps(t *testing.T) {
	user := mon("user", combat.TypeNormal, 500)
	dead := fainted(mon("dead", combat.TypeNormal, 100, tackle))
	dead.Level = 100
	party := combat.Party{Members: []combat.Pokemon{
		dead,
		mon("boom", combat.TypeFire, 100, megaHit),
		mon("steady", combat.TypeFire, 100, tackle),
	}}
	require.Equal(t, 2, PickReplacement(neutralChart(), &party, &user), "318 wraps to 63 and loses to 103")

	empty := combat.Party{Members: []combat.Pokemon{dead}}
	require.Equal(t, -1, PickReplacement(neutralChart(), &empty, &user))
}

func TestControllerReplacesWithPickReplacement(t *testing.T) {
	st := battle(mon("user", combat.TypeFire, 100, tackle),
		fainted(mon("dead", combat.TypeNormal, 100, tackle)),
		mon("plain", combat.TypeNormal, 100, tackle),
		mon("water", combat.TypeWater, 100, splash))
	st.Phase = combat.PhaseDeathEndOfTurn
	env := combat.NewEnv(1, neutralChart())
	require.Equal(t, combat.SwitchTo(2), Controller{}.Choose(env, st, combat.Opponent))
	require.Equal(t, combat.Pass, Controller{}.Choose(env, st, combat.Player))
}

func TestControllerPlaysFullMatch(t *testing.T) {
	data, err := config.LoadFS(assets.FS)
	require.NoError(t, err)
	lib, err := combat.NewLibrary(data)
	require.NoError(t, err)
	player, err := lib.Team("player")
	require.NoError(t, err)
	morty, err := lib.Team("morty")
	require.NoError(t, err)

	run := func() combat.SimResult {
		res, err := combat.RunMatch(combat.NewEnv(77, lib.Chart), combat.NewBattle(player, morty),
			[2]combat.Controller{combat.HeuristicController{}, Controller{}}, combat.MatchOptions{Log: zerolog.Nop()})
		require.NoError(t, err)
		return res
	}
	a := run()
	require.Equal(t, a, run())
	require.Positive(t, a.Turns)
}
