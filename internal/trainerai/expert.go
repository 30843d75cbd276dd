package trainerai

import "pbs/internal/combat"

// expertFlag is the smart-trainer layer: situational nudges on top of the basic checks.
// Named moves are handled first, then status moves by what they do, then moves that never miss.
func (s *scorer) expertFlag(ms *MoveScore) int {
	mv := ms.Move
	switch mv.ID {
	case "self-destruct", "explosion", "memento":
		return s.expertSacrifice(ms)
	case "healing-wish", "lunar-dance":
		return s.expertHealingWish(ms)
	case "dragon-dance":
		if !s.moveFirst {
			ms.add(1, 128)
		} else if s.aiHP <= 50 {
			ms.add(-1, 186)
		}
		return 0
	case "acupressure":
		switch {
		case s.aiHP <= 50:
			return -1
		case s.aiHP > 90:
			ms.add(1, 192)
		default:
			ms.add(1, 96)
		}
		return 0
	}

	if !mv.Damaging() {
		if v, ok := s.expertStatusMove(ms); ok {
			return v
		}
		return 0
	}

	if mv.AlwaysHits() {
		acc, eva := s.AI.Stages[combat.StatAccuracy], s.User.Stages[combat.StatEvasion]
		score := 0
		if acc <= -5 || eva >= 5 {
			score++
		}
		if acc <= -3 || eva >= 3 {
			ms.add(1, 156)
		}
		return score
	}
	return 0
}

func (s *scorer) expertStatusMove(ms *MoveScore) (int, bool) {
	mv := ms.Move
	switch mv.Status() {
	case combat.StatusPoison:
		if s.aiHP < 50 || s.userHP <= 50 {
			return -1, true
		}
	case combat.StatusSleep:
		if s.AI.KnowsMove("dream-eater") || s.AI.KnowsMove("nightmare") {
			ms.add(1, 128)
			return 0, true
		}
	case combat.StatusParalysis:
		if !s.moveFirst {
			ms.add(3, 236)
			return 0, true
		}
	}

	if mv.Volatile().Has(combat.VolConfusion) {
		return s.expertConfusion(ms), true
	}

	b, self := mv.Boosts()
	for i, d := range b {
		st := combat.Stat(i)
		if self && d > 0 {
			if v, done := s.expertSelfBoost(ms, st); done {
				return v, true
			}
		}
		if !self && d < 0 {
			return s.expertFoeDrop(ms, st), true
		}
	}
	return 0, false
}

func (s *scorer) expertConfusion(ms *MoveScore) int {
	id := ms.Move.ID
	if id == "swagger" && s.AI.KnowsMove("psych-up") {
		if s.User.Stages[combat.StatAttack] <= -3 {
			if s.Turn == 1 {
				return 5
			}
			return 3
		}
		return -5
	}
	if id == "flatter" || id == "swagger" {
		ms.add(-1, 128)
	}
	score := 0
	if s.userHP <= 70 {
		ms.add(-1, 128)
		if s.userHP <= 30 {
			score--
		}
		if s.userHP <= 50 {
			score--
		}
	}
	return score
}

// expertSelfBoost reports done=false when the check passes on to the next boosted stat.
func (s *scorer) expertSelfBoost(ms *MoveScore, st combat.Stat) (int, bool) {
	ai, user := s.AI, s.User
	switch st {
	case combat.StatAttack, combat.StatSpAttack, combat.StatDefense, combat.StatSpDefense:
		if ai.Stages[st] >= 3 {
			ms.add(-1, 156)
		}
		switch {
		case s.aiHP >= 100:
			ms.add(2, 128)
		case s.aiHP >= 71:
			return 0, false
		case s.aiHP > 39:
			ms.add(-2, 186)
		default:
			return -2, true
		}
		return 0, true
	case combat.StatSpeed:
		if s.moveFirst {
			return -3, true
		}
		ms.add(3, 186)
		return 0, true
	case combat.StatEvasion:
		if s.aiHP > 89 {
			ms.add(3, 186)
		}
		if ai.Stages[combat.StatEvasion] >= 3 {
			ms.add(-1, 128)
		}
		if user.Status == combat.StatusToxic {
			if s.aiHP > 50 {
				ms.add(3, 206)
			} else {
				ms.add(3, 142)
			}
		}
		if user.Volatile.Has(combat.VolLeechSeed) {
			ms.add(3, 186)
		}
		if user.Volatile.Has(combat.VolCurse) {
			ms.add(3, 186)
		}
		switch {
		case s.aiHP > 70 || user.Stages[combat.StatEvasion] == 0:
		case s.aiHP < 40 || s.userHP < 40:
			return -2, true
		default:
			ms.add(-2, 186)
		}
		return 0, true
	}
	return 0, false
}

func (s *scorer) expertFoeDrop(ms *MoveScore, st combat.Stat) int {
	ai, user := s.AI, s.User
	score := 0
	switch st {
	case combat.StatAttack, combat.StatSpAttack:
		if user.Stages[st] != 0 {
			score--
		}
		if s.aiHP <= 90 {
			score--
		}
		if user.Stages[st] <= -3 {
			ms.add(-2, 206)
		}
		if s.userHP <= 70 {
			score -= 2
		}
	case combat.StatDefense, combat.StatSpDefense:
		if s.aiHP < 70 {
			ms.add(-2, 206)
		}
		if user.Stages[st] <= -3 {
			ms.add(-2, 206)
		}
		if s.userHP < 70 {
			score -= 2
		}
	case combat.StatSpeed:
		if s.moveFirst {
			return -3
		}
		ms.add(2, 186)
	case combat.StatAccuracy:
		if s.userHP <= 70 && s.aiHP < 70 {
			ms.add(-1, 156)
		}
		if ai.Stages[combat.StatAccuracy] <= -2 {
			ms.add(-2, 176)
		}
		if user.Status == combat.StatusToxic {
			ms.add(2, 186)
		}
		if user.Volatile.Has(combat.VolLeechSeed) {
			ms.add(2, 186)
		}
		if user.Volatile.Has(combat.VolCurse) {
			ms.add(2, 186)
		}
		switch {
		case s.aiHP >= 70 || user.Stages[combat.StatAccuracy] == 0:
		case s.aiHP <= 40 || s.userHP <= 40:
			score -= 2
		default:
			ms.add(-2, 186)
		}
	case combat.StatEvasion:
		if s.aiHP < 70 {
			ms.add(-2, 206)
		}
		if user.Stages[combat.StatEvasion] <= -3 {
			ms.add(-2, 206)
		}
		if s.userHP <= 70 {
			score -= 2
		}
	}
	return score
}

func (s *scorer) expertSacrifice(ms *MoveScore) int {
	eva := s.User.Stages[combat.StatEvasion]
	score := 0
	if eva >= 1 {
		score--
	}
	if eva >= 3 {
		ms.add(-1, 128)
	}
	switch {
	case s.aiHP <= 30:
		ms.add(1, 206)
	case s.aiHP <= 50:
		ms.add(1, 128)
	case s.aiHP > 80 && s.moveFirst:
		ms.add(-3, 206)
	default:
		ms.add(-1, 206)
	}
	return score
}

func (s *scorer) expertHealingWish(ms *MoveScore) int {
	if s.aiHP >= 80 && s.moveFirst {
		ms.add(-5, 64)
		return 0
	}
	if s.aiHP > 50 {
		ms.add(-1, 206)
		return 0
	}
	score := 0
	// rolled on the spot: the follow-up only exists when this one lands
	if s.rng.Intn(256) < 64 {
		score++
		if !s.hasSuperEffective() {
			ms.add(1, 64)
		}
	}
	if s.aiHP <= 30 {
		ms.add(1, 128)
	}
	return score
}

func (s *scorer) hasSuperEffective() bool {
	for _, mv := range s.AI.Moves {
		if mv != nil && mv.Damaging() && s.Chart.Against(mv.Type, s.User.Types) > 1 {
			return true
		}
	}
	return false
}
