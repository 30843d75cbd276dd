package combat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pbs/assets"
	"pbs/internal/config"
)

func testChart() *TypeChart {
	var tc TypeChart
	for i := range tc {
		for j := range tc[i] {
			tc[i][j] = 1
		}
	}
	tc[TypeNormal][TypeGhost] = 0
	tc[TypeElectric][TypeGround] = 0
	tc[TypeWater][TypeFire] = 2
	tc[TypeFire][TypeWater] = 0.5
	return &tc
}

var (
	tackle = &Move{ID: "tackle", Name: "Tackle", Type: TypeNormal, Category: CategoryPhysical,
		Power: 80, Accuracy: AlwaysHits, CritRatio: 1}
	quickStrike = &Move{ID: "quick-strike", Name: "Quick Strike", Type: TypeNormal, Category: CategoryPhysical,
		Power: 80, Accuracy: AlwaysHits, Priority: 1, CritRatio: 1}
	waterBlast = &Move{ID: "water-blast", Name: "Water Blast", Type: TypeWater, Category: CategorySpecial,
		Power: 80, Accuracy: AlwaysHits, CritRatio: 1}
	harden = &Move{ID: "harden", Name: "Harden", Type: TypeNormal, Category: CategoryStatus, Target: TargetSelf,
		Accuracy: AlwaysHits, CritRatio: 1, Effects: []Effect{StatChange{Boosts: Boosts{StatDefense: 1}, Self: true}}}
	zap = &Move{ID: "zap", Name: "Zap", Type: TypeElectric, Category: CategorySpecial,
		Power: 60, Accuracy: AlwaysHits, CritRatio: 1,
		Secondary: &Secondary{Chance: 100, Effects: []Effect{StatusInduce{Status: StatusParalysis}}}}
	lullaby = &Move{ID: "lullaby", Name: "Lullaby", Type: TypeNormal, Category: CategoryStatus,
		Accuracy: AlwaysHits, CritRatio: 1, Effects: []Effect{StatusInduce{Status: StatusSleep}}}
)

func testMon(name string, typ Type, hp int, moves ...*Move) Pokemon {
	return Pokemon{
		Species: &Species{ID: name, Types: [2]Type{typ}},
		Level:   50,
		Types:   [2]Type{typ},
		Stats:   Stats{MaxHP: hp, Attack: 100, Defense: 100, SpAttack: 100, SpDefense: 100, Speed: 100},
		HP:      hp,
		Moves:   moves,
	}
}

func testParty(name string, members ...Pokemon) Party {
	return Party{Name: name, Members: members}
}

func testEnv(seed int64) *Env {
	return NewEnv(seed, testChart())
}

func testLibrary(t *testing.T) *Library {
	t.Helper()
	data, err := config.LoadFS(assets.FS)
	require.NoError(t, err)
	lib, err := NewLibrary(data)
	require.NoError(t, err)
	return lib
}
