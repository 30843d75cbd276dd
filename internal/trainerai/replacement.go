package trainerai

import "pbs/internal/combat"

// PickReplacement chooses who the AI sends in after its active fainted.
//
// Members holding a move that is super effective against user go first and are ranked by how
// well their own types hit user, a single type counting twice. A total of exactly 8 reads as
// 1.75. Without such a member, the AI ranks everyone by the most damage their moves would do
// when computed with the fainted Pokémon's stats, and damage above 255 wraps by 255.
// Ties go to the lowest party index. Returns -1 when nobody can come in.
func PickReplacement(chart *combat.TypeChart, party *combat.Party, user *combat.Pokemon) int {
	bench := party.Bench()
	if len(bench) == 0 {
		return -1
	}

	best, bestScore := -1, 0.0
	for _, i := range bench {
		mon := &party.Members[i]
		if !hasSuperEffectiveMove(chart, mon, user) {
			continue
		}
		t0, t1 := mon.Types[0], mon.Types[1]
		if t1 == combat.TypeNone {
			t1 = t0
		}
		score := chart.Against(t0, user.Types) + chart.Against(t1, user.Types)
		if score == 8 {
			score = 1.75
		}
		if best < 0 || score > bestScore {
			best, bestScore = i, score
		}
	}
	if best >= 0 {
		return best
	}

	dead := party.ActivePokemon()
	bestDmg := -1
	for _, i := range bench {
		mon := &party.Members[i]
		top := 0
		for _, mv := range mon.Moves {
			if mv == nil {
				continue
			}
			dmg, _ := combat.Damage(chart, dead, user, mv, false, combat.MaxRoll)
			if dmg > 255 {
				dmg -= 255
			}
			top = max(top, dmg)
		}
		if top > bestDmg {
			best, bestDmg = i, top
		}
	}
	return best
}

func hasSuperEffectiveMove(chart *combat.TypeChart, mon, user *combat.Pokemon) bool {
	for _, mv := range mon.Moves {
		if mv != nil && chart.Against(mv.Type, user.Types) > 1 {
			return true
		}
	}
	return false
}
