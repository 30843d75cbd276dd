package trainerai

import "pbs/internal/combat"

// basicFlag collects the disqualifying checks and returns the harshest one (0, -1, -5, -8 or -10).
func (s *scorer) basicFlag(ms *MoveScore) int {
	mv, ai, user := ms.Move, s.AI, s.User
	worst := 0
	pen := func(v int) {
		if v < worst {
			worst = v
		}
	}

	if mv.Damaging() && ms.Effectiveness == 0 {
		return -10
	}
	if !s.moldBreaker() {
		switch {
		case mv.Type == combat.TypeElectric && s.foeHas("volt-absorb", "motor-drive"),
			mv.Type == combat.TypeWater && s.foeHas("water-absorb"),
			mv.Type == combat.TypeFire && s.foeHas("flash-fire"),
			mv.Type == combat.TypeGround && s.foeHas("levitate"),
			mv.HasFlag(combat.FlagSound) && s.foeHas("soundproof"),
			mv.Damaging() && ms.Effectiveness < 2 && s.foeHas("wonder-guard"):
			return -10
		}
	}

	if !mv.Damaging() {
		s.basicStatus(mv, pen)
		s.basicVolatile(mv, pen)
		if b, self := mv.Boosts(); self {
			s.basicSelfBoosts(b, pen)
		} else {
			s.basicFoeDrops(b, pen)
		}
	}

	if mv.Has(combat.EffectForceSwitch) && s.UserParty.AliveCount() > 1 {
		pen(-10)
	}
	if mv.Has(combat.EffectRecovery) && ai.HP == ai.Stats.MaxHP {
		pen(-10)
	}
	if mv.Has(combat.EffectOHKO) && (user.Level > ai.Level || (s.foeHas("sturdy") && !s.moldBreaker())) {
		pen(-10)
	}

	switch mv.ID {
	case "self-destruct", "explosion":
		if ms.Effectiveness == 0 || (s.foeHas("damp") && !s.moldBreaker()) {
			pen(-10)
		}
		if s.AIParty.AliveCount() == 1 {
			if s.UserParty.AliveCount() == 1 {
				pen(-1)
			} else {
				pen(-10)
			}
		}
	case "dream-eater":
		if user.Status != combat.StatusSleep {
			pen(-8)
		} else if ms.Effectiveness == 0 {
			pen(-10)
		}
	case "belly-drum":
		if s.aiHP <= 51 {
			pen(-10)
		}
	case "substitute":
		if ai.Volatile.Has(combat.VolSubstitute) {
			pen(-8)
		} else if s.aiHP < 26 {
			pen(-10)
		}
	case "snore", "sleep-talk":
		if ai.Status != combat.StatusSleep {
			pen(-8)
		}
	case "baton-pass":
		if s.AIParty.AliveCount() <= 1 {
			pen(-10)
		}
	case "helping-hand":
		// singles only
		pen(-10)
	case "refresh":
		switch ai.Status {
		case combat.StatusBurn, combat.StatusParalysis, combat.StatusPoison, combat.StatusToxic:
		default:
			pen(-10)
		}
	case "tickle":
		if s.foeHas("clear-body", "white-smoke") || ai.Stages[combat.StatAttack] >= 6 {
			pen(-10)
		} else if ai.Stages[combat.StatDefense] >= 6 {
			pen(-8)
		}
	case "metal-burst":
		if s.foeHas("stall") || s.moveFirst {
			pen(-10)
		}
	case "copycat":
		if s.Turn == 1 {
			pen(-10)
		}
	case "power-swap":
		if ai.Stages[combat.StatAttack] > user.Stages[combat.StatAttack] ||
			ai.Stages[combat.StatSpAttack] > user.Stages[combat.StatSpAttack] {
			pen(-10)
		}
	case "guard-swap":
		if ai.Stages[combat.StatDefense] > user.Stages[combat.StatDefense] ||
			ai.Stages[combat.StatSpDefense] > user.Stages[combat.StatSpDefense] {
			pen(-10)
		}
	case "worry-seed":
		if s.foeHas("truant", "insomnia", "vital-spirit", "multitype") {
			pen(-10)
		}
	case "captivate":
		if (s.foeHas("oblivious", "clear-body", "white-smoke") && !s.moldBreaker()) ||
			!oppositeGenders(ai, user) || user.Stages[combat.StatSpAttack] <= -6 {
			pen(-10)
		}
	}

	if mv.Has(combat.EffectCurse) {
		if ai.HasType(combat.TypeGhost) {
			if user.Volatile.Has(combat.VolCurse) {
				pen(-10)
			}
		} else if atk, def := ai.Stages[combat.StatAttack], ai.Stages[combat.StatDefense]; (s.aiAbility == "simple" && (atk >= 2 || def >= 2)) || atk >= 6 || def >= 6 {
			pen(-10)
		}
	}
	if mv.Has(combat.EffectAcupressure) {
		for _, v := range ai.Stages {
			if v >= 6 || (s.aiAbility == "simple" && v >= 3) {
				pen(-10)
				break
			}
		}
	}
	return worst
}

func oppositeGenders(a, b *combat.Pokemon) bool {
	return a.Gender != combat.Genderless && b.Gender != combat.Genderless && a.Gender != b.Gender
}

func (s *scorer) basicStatus(mv *combat.Move, pen func(int)) {
	user := s.User
	statused := user.Status != combat.StatusNone
	switch mv.Status() {
	case combat.StatusSleep:
		if statused || s.foeHas("vital-spirit", "insomnia") {
			pen(-10)
		}
	case combat.StatusPoison, combat.StatusToxic:
		if statused || s.foeHas("immunity", "magic-guard", "poison-heal") ||
			user.HasType(combat.TypeSteel) || user.HasType(combat.TypePoison) {
			pen(-10)
		}
	case combat.StatusParalysis:
		electric := mv.Type == combat.TypeElectric
		if statused || s.foeHas("limber", "magic-guard") ||
			(electric && user.HasType(combat.TypeGround)) ||
			(electric && s.foeHas("volt-absorb", "motor-drive") && !s.moldBreaker()) {
			pen(-10)
		}
	case combat.StatusBurn:
		if statused || s.foeHas("water-veil", "magic-guard") || user.HasType(combat.TypeFire) {
			pen(-10)
		}
	}
}

func (s *scorer) basicVolatile(mv *combat.Move, pen func(int)) {
	user, vol := s.User, mv.Volatile()
	if vol.Has(combat.VolConfusion) {
		if s.foeHas("own-tempo") {
			pen(-10)
		} else if user.Volatile.Has(combat.VolConfusion) {
			pen(-5)
		}
	}
	if vol.Has(combat.VolAttract) &&
		(user.Volatile.Has(combat.VolAttract) || s.foeHas("oblivious") || !oppositeGenders(s.AI, user)) {
		pen(-10)
	}
	if vol.Has(combat.VolLeechSeed) &&
		(user.Volatile.Has(combat.VolLeechSeed) || user.HasType(combat.TypeGrass) || s.foeHas("magic-guard")) {
		pen(-10)
	}
}

func (s *scorer) basicSelfBoosts(b combat.Boosts, pen func(int)) {
	ai := s.AI
	for i, d := range b {
		if d <= 0 {
			continue
		}
		st := combat.Stat(i)
		stage := ai.Stages[st]
		switch {
		case s.aiAbility == "no-guard" && (st == combat.StatAccuracy || st == combat.StatEvasion),
			s.aiAbility == "simple" && stage >= 3,
			stage >= 6:
			pen(-10)
		}
	}
}

func (s *scorer) basicFoeDrops(b combat.Boosts, pen func(int)) {
	user := s.User
	noGuard := s.aiAbility == "no-guard" || s.foeHas("no-guard")
	for i, d := range b {
		if d >= 0 {
			continue
		}
		st := combat.Stat(i)
		switch {
		case st == combat.StatAttack && s.foeHas("hyper-cutter"),
			st == combat.StatSpeed && s.foeHas("speed-boost"),
			(st == combat.StatAccuracy || st == combat.StatEvasion) && noGuard,
			st == combat.StatAccuracy && s.aiAbility == "keen-eye",
			s.foeHas("clear-body", "white-smoke"),
			user.Stages[st] <= -6:
			pen(-10)
		}
	}
}
