package combat

import "pbs/internal/util"

// guardOf is the defender's ability as seen by the attacker. Mold Breaker style abilities hide it.
func guardOf(def, att *Pokemon) *Ability {
	if att != nil && att != def && att.Ability != nil && att.Ability.IgnoresAbilities {
		return nil
	}
	return def.Ability
}

// applyBoosts moves p's stages by b. by is the Pokémon responsible; drops it causes on a foe
// can be blocked by the foe's ability. Reports whether any stage changed.
func (env *Env) applyBoosts(st *BattleState, p *Pokemon, b Boosts, by *Pokemon) bool {
	changed := false
	guard := guardOf(p, by)
	double := p.Ability.Is("simple")
	for i, d := range b {
		if d == 0 {
			continue
		}
		stat := Stat(i)
		if d < 0 && by != p && guard != nil && guard.PreventDrops[stat] {
			env.logLine(st, "%s's %s prevents its %s from dropping", p.Name(), DisplayName(guard.ID), stat)
			continue
		}
		if double {
			d *= 2
		}
		next := clampStage(p.Stages[stat] + d)
		if next == p.Stages[stat] {
			env.logLine(st, "%s's %s won't go any further", p.Name(), stat)
			continue
		}
		p.Stages[stat] = next
		changed = true
		env.emit(st, "StatChange", "target", p.Name(), "stat", stat.String(), "stage", next)
	}
	return changed
}

// canInflictStatus applies the persistent-status failure rules: one status at a time,
// type immunities and ability prevention.
func canInflictStatus(p *Pokemon, s Status, moveType Type, by *Pokemon) bool {
	if !p.Alive() || s == StatusNone || p.Status != StatusNone {
		return false
	}
	switch s {
	case StatusBurn:
		if p.HasType(TypeFire) {
			return false
		}
	case StatusFreeze:
		if p.HasType(TypeIce) {
			return false
		}
	case StatusPoison, StatusToxic:
		if p.HasType(TypePoison) || p.HasType(TypeSteel) {
			return false
		}
	case StatusParalysis:
		if moveType == TypeElectric && p.HasType(TypeGround) {
			return false
		}
	}
	return !guardOf(p, by).blocksStatus(s)
}

func (env *Env) inflictStatus(st *BattleState, p *Pokemon, s Status, moveType Type, by *Pokemon) bool {
	if !canInflictStatus(p, s, moveType, by) {
		return false
	}
	p.Status = s
	switch s {
	case StatusSleep:
		p.SleepTurns = util.RandInt(env.Rng, 1, 4)
	case StatusToxic:
		p.ToxicCount = 1
	}
	env.emit(st, "Status", "target", p.Name(), "status", s.String())
	return true
}

func canInflictVolatile(p *Pokemon, v Volatile, by *Pokemon) bool {
	if !p.Alive() || p.Volatile.Has(v) {
		return false
	}
	if g := guardOf(p, by); g != nil && g.PreventVolatile.Has(v) {
		return false
	}
	switch v {
	case VolAttract:
		if by == nil || p.Gender == Genderless || by.Gender == Genderless || p.Gender == by.Gender {
			return false
		}
	case VolLeechSeed:
		if p.HasType(TypeGrass) {
			return false
		}
	}
	return true
}

// inflictVolatile applies every flag in mask independently and reports whether any landed.
func (env *Env) inflictVolatile(st *BattleState, p *Pokemon, mask Volatile, by *Pokemon) bool {
	landed := false
	for i := 0; i < numVolatiles; i++ {
		v := Volatile(1 << i)
		if !mask.Has(v) || !canInflictVolatile(p, v, by) {
			continue
		}
		p.Volatile |= v
		if v == VolConfusion {
			p.ConfuseTurns = util.RandInt(env.Rng, 2, 5)
		}
		landed = true
		if v != VolFlinch {
			env.emit(st, "Volatile", "target", p.Name(), "volatile", v.String())
		}
	}
	return landed
}

func (env *Env) healFraction(st *BattleState, p *Pokemon, frac float64) bool {
	if p.HP >= p.Stats.MaxHP {
		return false
	}
	n := p.heal(max(1, int(float64(p.Stats.MaxHP)*frac)))
	env.emit(st, "Heal", "target", p.Name(), "amount", n, "hp", p.HP)
	return n > 0
}

// forceSwitch drags a random benched member of side onto the field.
func (env *Env) forceSwitch(st *BattleState, side Side) bool {
	party := st.Party(side)
	bench := party.Bench()
	if len(bench) == 0 {
		return false
	}
	idx := bench[env.Rng.Intn(len(bench))]
	party.TrySwitchTo(idx)
	env.emit(st, "Dragged", "side", side.String(), "in", party.ActivePokemon().Name(), "index", idx)
	return true
}

// curse is the Ghost-type sacrifice or the stat trade everyone else gets.
func (env *Env) curse(st *BattleState, att, def *Pokemon) bool {
	if !att.HasType(TypeGhost) {
		var b Boosts
		b[StatAttack], b[StatDefense], b[StatSpeed] = 1, 1, -1
		return env.applyBoosts(st, att, b, att)
	}
	if !def.Alive() || def.Volatile.Has(VolCurse) {
		return false
	}
	env.hurt(st, att, max(1, att.Stats.MaxHP/2), "curse")
	def.Volatile |= VolCurse
	env.emit(st, "Volatile", "target", def.Name(), "volatile", VolCurse.String())
	return true
}

func (env *Env) acupressure(st *BattleState, p *Pokemon) bool {
	var open []Stat
	for s := StatAttack; s < NumStages; s++ {
		if p.Stages[s] < 6 {
			open = append(open, s)
		}
	}
	if len(open) == 0 {
		return false
	}
	var b Boosts
	b[open[env.Rng.Intn(len(open))]] = 2
	return env.applyBoosts(st, p, b, p)
}

// applyEffects runs a list of tagged effects from att onto def (or att when the move is self-targeted).
func (env *Env) applyEffects(st *BattleState, side Side, mv *Move, effects []Effect, self bool) bool {
	att, def := st.Active(side), st.Active(side.Other())
	applied := false
	for _, e := range effects {
		switch e := e.(type) {
		case StatChange:
			target := def
			if e.Self || self {
				target = att
			}
			if !target.Alive() {
				continue
			}
			applied = env.applyBoosts(st, target, e.Boosts, att) || applied
		case StatusInduce:
			target := def
			if self {
				target = att
			}
			applied = env.inflictStatus(st, target, e.Status, mv.Type, att) || applied
		case VolatileInduce:
			target := def
			if self {
				target = att
			}
			applied = env.inflictVolatile(st, target, e.Volatile, att) || applied
		case Recovery:
			applied = env.healFraction(st, att, e.Fraction) || applied
		case ForceSwitch:
			if def.Alive() {
				applied = env.forceSwitch(st, side.Other()) || applied
			}
		case Curse:
			applied = env.curse(st, att, def) || applied
		case Acupressure:
			applied = env.acupressure(st, att) || applied
		case SelfDestruct:
			if mv.Category == CategoryStatus {
				env.hurt(st, att, att.HP, "self-destruct")
				applied = true
			}
		}
	}
	return applied
}
