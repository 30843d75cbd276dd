package combat

import (
	"fmt"
	"math/rand"

	"pbs/internal/util"
)

// Env carries what one simulation needs besides the state: its own RNG, the type chart and an
// optional event sink. An Env is not safe for concurrent use; give every goroutine its own.
type Env struct {
	Rng   *rand.Rand
	Chart *TypeChart
	Emit  func(Event)
}

func NewEnv(seed int64, chart *TypeChart) *Env {
	return &Env{Rng: util.New(seed), Chart: chart}
}

// Fork returns an Env sharing the chart with a fresh RNG and no event sink.
func (env *Env) Fork(seed int64) *Env {
	return &Env{Rng: util.New(seed), Chart: env.Chart}
}

// emit sends an event built from key/value pairs. The payload map is only built when a sink
// is attached.
func (env *Env) emit(st *BattleState, typ string, kv ...any) {
	if env.Emit == nil {
		return
	}
	var payload map[string]any
	if len(kv) > 0 {
		payload = make(map[string]any, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			payload[kv[i].(string)] = kv[i+1]
		}
	}
	env.Emit(Event{Turn: st.Turn, Type: typ, Payload: payload})
}

func (env *Env) logLine(st *BattleState, format string, args ...any) {
	if env.Emit == nil {
		return
	}
	env.Emit(Event{Turn: st.Turn, Type: "LogLine", Payload: map[string]any{"text": fmt.Sprintf(format, args...)}})
}

var sides = [2]Side{Player, Opponent}

// ResolveTurn validates both actions and returns the successor state. st is never mutated;
// an invalid action returns st itself with an error wrapping ErrInvalidAction.
func ResolveTurn(env *Env, st *BattleState, mine, theirs Action) (*BattleState, Phase, error) {
	acts := [2]Action{mine, theirs}
	for _, s := range sides {
		if err := st.Validate(s, acts[s]); err != nil {
			return st, st.Phase, err
		}
	}
	next := st.Clone()
	if next.Phase == PhaseDeathEndOfTurn {
		for _, s := range sides {
			if acts[s].Kind == ActionSwitch {
				env.switchIn(next, s, acts[s].Index)
			}
		}
		next.settlePhase()
		return next, next.Phase, nil
	}
	env.playTurn(next, acts)
	return next, next.Phase, nil
}

// ApplyTurn is ResolveTurn for front ends driving a live battle: during replacement a side with
// nothing to decide may send any action and it is read as Pass.
func ApplyTurn(env *Env, st *BattleState, mine, theirs Action) (*BattleState, Phase, error) {
	if st.Phase == PhaseDeathEndOfTurn && !st.IsOver() {
		if !st.NeedsReplacement(Player) {
			mine = Pass
		}
		if !st.NeedsReplacement(Opponent) {
			theirs = Pass
		}
	}
	return ResolveTurn(env, st, mine, theirs)
}

// Replace sends in a single side's replacement. The phase only returns to TurnStart once
// both actives are standing.
func Replace(env *Env, st *BattleState, side Side, idx int) (*BattleState, Phase, error) {
	if st.Phase != PhaseDeathEndOfTurn || !st.NeedsReplacement(side) {
		return st, st.Phase, fmt.Errorf("%s replace %d: no replacement pending: %w", side, idx, ErrInvalidAction)
	}
	if err := st.Validate(side, SwitchTo(idx)); err != nil {
		return st, st.Phase, err
	}
	next := st.Clone()
	env.switchIn(next, side, idx)
	next.settlePhase()
	return next, next.Phase, nil
}

func (env *Env) switchIn(st *BattleState, side Side, idx int) {
	party := st.Party(side)
	out := party.ActivePokemon().Name()
	if !party.TrySwitchTo(idx) {
		return
	}
	env.emit(st, "Switch", "side", side.String(), "out", out, "in", party.ActivePokemon().Name(), "index", idx)
}

type mover struct {
	side Side
	who  int
	mv   *Move
}

func (env *Env) playTurn(st *BattleState, acts [2]Action) {
	env.emit(st, "TurnStart")
	for _, s := range sides {
		if acts[s].Kind == ActionSwitch {
			env.switchIn(st, s, acts[s].Index)
		}
	}
	order := env.order(st, acts)
	for i, m := range order {
		env.execute(st, m, i == 0 && len(order) == 2)
	}
	env.endOfTurn(st)
	for _, s := range sides {
		st.Active(s).Volatile &^= VolFlinch
	}
	st.Turn++
	st.settlePhase()
}

func (env *Env) order(st *BattleState, acts [2]Action) []mover {
	out := make([]mover, 0, 2)
	for _, s := range sides {
		if acts[s].Kind != ActionMove {
			continue
		}
		out = append(out, mover{side: s, who: st.Party(s).Active, mv: st.Active(s).Move(acts[s].Index)})
	}
	if len(out) == 2 && !env.movesBefore(st, out[0], out[1]) {
		out[0], out[1] = out[1], out[0]
	}
	return out
}

func (env *Env) movesBefore(st *BattleState, a, b mover) bool {
	if a.mv.Priority != b.mv.Priority {
		return a.mv.Priority > b.mv.Priority
	}
	sa, sb := EffectiveSpeed(st.Active(a.side)), EffectiveSpeed(st.Active(b.side))
	if sa != sb {
		return sa > sb
	}
	return util.CoinFlip(env.Rng)
}

// hurt applies damage and reports a knockout once.
func (env *Env) hurt(st *BattleState, p *Pokemon, n int, cause string) int {
	wasAlive := p.Alive()
	dealt := p.takeDamage(n)
	if dealt > 0 && cause != "" {
		env.emit(st, "Damage", "target", p.Name(), "amount", dealt, "hp", p.HP, "cause", cause)
	}
	if wasAlive && !p.Alive() {
		env.emit(st, "Faint", "target", p.Name())
	}
	return dealt
}

// canAct runs the status and volatile gates in order. Any of them may consume the turn.
func (env *Env) canAct(st *BattleState, p *Pokemon) bool {
	switch p.Status {
	case StatusSleep:
		if p.SleepTurns > 0 {
			p.SleepTurns--
			env.logLine(st, "%s is fast asleep", p.Name())
			return false
		}
		p.Status = StatusNone
		env.logLine(st, "%s woke up", p.Name())
	case StatusParalysis:
		if util.Percent(env.Rng, 25) {
			env.logLine(st, "%s is fully paralyzed", p.Name())
			return false
		}
	case StatusFreeze:
		if util.RandInt(env.Rng, 1, 5) > 1 {
			env.logLine(st, "%s is frozen solid", p.Name())
			return false
		}
		p.Status = StatusNone
		env.logLine(st, "%s thawed out", p.Name())
	}
	if p.Volatile.Has(VolFlinch) {
		env.logLine(st, "%s flinched", p.Name())
		return false
	}
	if p.Volatile.Has(VolConfusion) {
		p.ConfuseTurns--
		if p.ConfuseTurns <= 0 {
			p.Volatile &^= VolConfusion
			env.logLine(st, "%s snapped out of confusion", p.Name())
		} else if util.CoinFlip(env.Rng) {
			env.hurt(st, p, confusionDamage(p), "confusion")
			return false
		}
	}
	if p.Volatile.Has(VolAttract) && util.CoinFlip(env.Rng) {
		env.logLine(st, "%s is immobilized by love", p.Name())
		return false
	}
	return true
}

// execute runs one ordered move. targetLater is true when the foe has yet to act this turn,
// which is the only time a flinch can land.
func (env *Env) execute(st *BattleState, m mover, targetLater bool) {
	party := st.Party(m.side)
	if party.Active != m.who {
		return
	}
	att := party.ActivePokemon()
	if !att.Alive() {
		return
	}
	def := st.Active(m.side.Other())
	mv := m.mv
	onFoe := !mv.Target.OnSelf()
	if onFoe && !def.Alive() {
		env.logLine(st, "%s used %s but it failed", att.Name(), mv.Name)
		return
	}
	if !env.canAct(st, att) {
		return
	}
	env.emit(st, "Move", "side", m.side.String(), "user", att.Name(), "move", mv.Name)

	if mv.Has(EffectSelfDestruct) && (att.Ability.Is("damp") || guardOf(def, att).Is("damp")) {
		env.logLine(st, "but it failed")
		return
	}
	env.useMove(st, m.side, mv, targetLater)
	if mv.Damaging() && mv.Has(EffectSelfDestruct) {
		env.hurt(st, att, att.HP, "self-destruct")
	}
}

func (env *Env) useMove(st *BattleState, side Side, mv *Move, targetLater bool) {
	att, def := st.Active(side), st.Active(side.Other())
	onFoe := !mv.Target.OnSelf()
	if onFoe && env.abilityBlocks(att, def, mv) {
		env.emit(st, "Immune", "target", def.Name(), "ability", def.Ability.ID)
		return
	}
	if onFoe && !env.hits(att, def, mv) {
		env.emit(st, "Miss", "user", att.Name(), "move", mv.Name)
		return
	}
	if !mv.Damaging() {
		if !env.applyEffects(st, side, mv, mv.Effects, !onFoe) {
			env.logLine(st, "but it failed")
		}
		return
	}
	env.strike(st, side, mv, targetLater)
}

// abilityBlocks covers immunities granted by the target's ability: absorbed types,
// soundproofing and Wonder Guard.
func (env *Env) abilityBlocks(att, def *Pokemon, mv *Move) bool {
	g := guardOf(def, att)
	if g == nil {
		return false
	}
	if g.ImmuneSound && mv.HasFlag(FlagSound) {
		return true
	}
	if mv.Damaging() || mv.Status() != StatusNone {
		for _, t := range g.ImmuneTypes {
			if t == mv.Type {
				return true
			}
		}
	}
	if mv.Damaging() && g.Is("wonder-guard") && env.Chart.Against(mv.Type, def.Types) < 2 {
		return true
	}
	return false
}

func (env *Env) hits(att, def *Pokemon, mv *Move) bool {
	if mv.AlwaysHits() || att.Ability.Is("no-guard") || def.Ability.Is("no-guard") {
		return true
	}
	if mv.Has(EffectOHKO) {
		return util.Percent(env.Rng, mv.Accuracy+att.Level-def.Level)
	}
	acc := float64(mv.Accuracy) * StageMultiplier(att.Stages[StatAccuracy]-def.Stages[StatEvasion], true)
	if acc >= 100 {
		return true
	}
	return float64(util.RandInt(env.Rng, 1, 100)) <= acc
}

func (env *Env) strike(st *BattleState, side Side, mv *Move, targetLater bool) {
	att, def := st.Active(side), st.Active(side.Other())
	guard := guardOf(def, att)

	if mv.Has(EffectOHKO) {
		if att.Level < def.Level || (guard != nil && guard.ImmuneOHKO) || env.Chart.Against(mv.Type, def.Types) == 0 {
			env.logLine(st, "but it failed")
			return
		}
		env.hurt(st, def, def.HP, "ohko")
		return
	}
	if mv.ID == "dream-eater" && def.Status != StatusSleep {
		env.logLine(st, "%s wasn't affected", def.Name())
		return
	}

	crit := false
	if !guard.Is("shell-armor") && !guard.Is("battle-armor") {
		crit = env.Rng.Intn(critDenominator(mv)) == 0
	}
	roll := util.RandInt(env.Rng, MinRoll, MaxRoll)
	dmg, eff := Damage(env.Chart, att, def, mv, crit, roll)
	if eff == 0 {
		env.emit(st, "Immune", "target", def.Name(), "move", mv.Name)
		return
	}
	dealt := def.takeDamage(dmg)
	env.emit(st, "Hit", "user", att.Name(), "target", def.Name(), "move", mv.Name,
		"damage", dealt, "crit", crit, "effectiveness", eff, "hp", def.HP)
	if !def.Alive() {
		env.emit(st, "Faint", "target", def.Name())
	} else if def.Status == StatusFreeze && mv.Type == TypeFire {
		def.Status = StatusNone
		env.logLine(st, "%s thawed out", def.Name())
	}

	if f := mv.DrainFraction(); f > 0 && dealt > 0 {
		if n := att.heal(max(1, int(float64(dealt)*f))); n > 0 {
			env.emit(st, "Heal", "target", att.Name(), "amount", n, "hp", att.HP, "cause", "drain")
		}
	}
	if f := mv.RecoilFraction(); f > 0 && dealt > 0 && !att.Ability.Is("magic-guard") {
		env.hurt(st, att, max(1, int(float64(dealt)*f)), "recoil")
	}
	if dealt > 0 && def.Alive() {
		env.applyEffects(st, side, mv, mv.Effects, false)
	}
	if s := mv.Secondary; s != nil && dealt > 0 && util.Percent(env.Rng, s.Chance) {
		effects := s.Effects
		if !targetLater {
			effects = withoutFlinch(effects)
		}
		env.applyEffects(st, side, mv, effects, s.Self)
	}
}

func withoutFlinch(effects []Effect) []Effect {
	out := make([]Effect, 0, len(effects))
	for _, e := range effects {
		if v, ok := e.(VolatileInduce); ok && v.Volatile.Has(VolFlinch) {
			v.Volatile &^= VolFlinch
			if v.Volatile == 0 {
				continue
			}
			e = v
		}
		out = append(out, e)
	}
	return out
}

// endOfTurn applies residual damage, faster active first. Speed ties are a coin flip.
func (env *Env) endOfTurn(st *BattleState) {
	first, second := Player, Opponent
	sp, so := EffectiveSpeed(st.Active(Player)), EffectiveSpeed(st.Active(Opponent))
	if so > sp || (so == sp && util.CoinFlip(env.Rng)) {
		first, second = Opponent, Player
	}
	env.residual(st, first)
	env.residual(st, second)
	for _, s := range sides {
		p := st.Active(s)
		if p.Alive() && p.Ability.Is("speed-boost") {
			var b Boosts
			b[StatSpeed] = 1
			env.applyBoosts(st, p, b, p)
		}
	}
}

func (env *Env) residual(st *BattleState, side Side) {
	p := st.Active(side)
	if !p.Alive() {
		return
	}
	guarded := p.Ability.Is("magic-guard")
	full := p.Stats.MaxHP
	switch p.Status {
	case StatusBurn, StatusPoison:
		if p.Status == StatusPoison && p.Ability.Is("poison-heal") {
			p.heal(full / 8)
		} else if !guarded {
			env.hurt(st, p, full/8, p.Status.String())
		}
	case StatusToxic:
		if p.Ability.Is("poison-heal") {
			p.heal(full / 8)
		} else if !guarded {
			env.hurt(st, p, full*p.ToxicCount/16, "toxic")
		}
		p.ToxicCount++
	}
	if p.Alive() && p.Volatile.Has(VolLeechSeed) && !guarded {
		drained := env.hurt(st, p, full/8, "leech-seed")
		if foe := st.Active(side.Other()); foe.Alive() {
			foe.heal(drained)
		}
	}
	if p.Alive() && p.Volatile.Has(VolCurse) && !guarded {
		env.hurt(st, p, full/4, "curse")
	}
}
