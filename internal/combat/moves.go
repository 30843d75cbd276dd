package combat

import (
	"fmt"

	"pbs/internal/config"
)

// AlwaysHits is the accuracy sentinel for moves that skip the accuracy check.
const AlwaysHits = -1

type EffectKind uint8

const (
	EffectStatChange EffectKind = iota
	EffectStatusInduce
	EffectVolatileInduce
	EffectDrain
	EffectRecoil
	EffectForceSwitch
	EffectRecovery
	EffectOHKO
	EffectSelfDestruct
	EffectCurse
	EffectAcupressure
)

// Effect is one tagged move effect. Each variant carries only its own fields.
type Effect interface {
	Kind() EffectKind
}

type StatChange struct {
	Boosts Boosts
	Self   bool
}

type StatusInduce struct{ Status Status }

type VolatileInduce struct{ Volatile Volatile }

type Drain struct{ Fraction float64 }

type Recoil struct{ Fraction float64 }

type ForceSwitch struct{}

type Recovery struct{ Fraction float64 }

type OHKO struct{}

type SelfDestruct struct{}

// Curse: a Ghost user pays half its HP to curse the target, anyone else trades speed for attack and defense.
type Curse struct{}

// Acupressure raises a random stage that is not yet maxed by 2.
type Acupressure struct{}

func (StatChange) Kind() EffectKind     { return EffectStatChange }
func (StatusInduce) Kind() EffectKind   { return EffectStatusInduce }
func (VolatileInduce) Kind() EffectKind { return EffectVolatileInduce }
func (Drain) Kind() EffectKind          { return EffectDrain }
func (Recoil) Kind() EffectKind         { return EffectRecoil }
func (ForceSwitch) Kind() EffectKind    { return EffectForceSwitch }
func (Recovery) Kind() EffectKind       { return EffectRecovery }
func (OHKO) Kind() EffectKind           { return EffectOHKO }
func (SelfDestruct) Kind() EffectKind   { return EffectSelfDestruct }
func (Curse) Kind() EffectKind          { return EffectCurse }
func (Acupressure) Kind() EffectKind    { return EffectAcupressure }

type Secondary struct {
	Chance  int
	Self    bool
	Effects []Effect
}

// Move is immutable once built and is shared by pointer between clones.
type Move struct {
	ID        string
	Name      string
	Type      Type
	Category  Category
	Target    Target
	Power     int
	Accuracy  int
	Priority  int
	CritRatio int
	Flags     MoveFlag
	Effects   []Effect
	Secondary *Secondary
}

func (m *Move) Damaging() bool           { return m.Category != CategoryStatus }
func (m *Move) AlwaysHits() bool         { return m.Accuracy == AlwaysHits }
func (m *Move) HasFlag(f MoveFlag) bool  { return m.Flags&f != 0 }
func (m *Move) Has(kind EffectKind) bool { return m.effect(kind) != nil }

func (m *Move) effect(kind EffectKind) Effect {
	for _, e := range m.Effects {
		if e.Kind() == kind {
			return e
		}
	}
	return nil
}

// Status is the primary non-volatile status the move inflicts.
func (m *Move) Status() Status {
	if e, ok := m.effect(EffectStatusInduce).(StatusInduce); ok {
		return e.Status
	}
	return StatusNone
}

func (m *Move) Volatile() Volatile {
	if e, ok := m.effect(EffectVolatileInduce).(VolatileInduce); ok {
		return e.Volatile
	}
	return 0
}

// Boosts returns the primary stage deltas and whether they land on the user.
func (m *Move) Boosts() (Boosts, bool) {
	if e, ok := m.effect(EffectStatChange).(StatChange); ok {
		return e.Boosts, e.Self
	}
	return Boosts{}, false
}

func (m *Move) DrainFraction() float64 {
	if e, ok := m.effect(EffectDrain).(Drain); ok {
		return e.Fraction
	}
	return 0
}

func (m *Move) RecoilFraction() float64 {
	if e, ok := m.effect(EffectRecoil).(Recoil); ok {
		return e.Fraction
	}
	return 0
}

func buildEffects(status string, volatile []string, boosts config.BoostsDef, self bool) ([]Effect, error) {
	var out []Effect
	if status != "" {
		st, err := parseStatus(status)
		if err != nil {
			return nil, err
		}
		out = append(out, StatusInduce{Status: st})
	}
	if len(volatile) > 0 {
		v, err := parseVolatiles(volatile)
		if err != nil {
			return nil, err
		}
		out = append(out, VolatileInduce{Volatile: v})
	}
	var b Boosts
	for i, v := range boosts.Values() {
		if v < -6 || v > 12 {
			return nil, fmt.Errorf("boost %s=%d out of range", Stat(i), v)
		}
		b[i] = v
	}
	if b.Any() {
		out = append(out, StatChange{Boosts: b, Self: self})
	}
	return out, nil
}

// NewMove validates a table entry and turns it into its tagged form.
func NewMove(def config.MoveDef) (*Move, error) {
	id := config.ID(def.Name)
	wrap := func(err error) error { return fmt.Errorf("move %s: %w", id, err) }

	typ, err := ParseType(def.Type)
	if err != nil {
		return nil, wrap(err)
	}
	cat, err := parseCategory(def.Category)
	if err != nil {
		return nil, wrap(err)
	}
	tgt, err := parseTarget(def.Target)
	if err != nil {
		return nil, wrap(err)
	}
	m := &Move{
		ID:        id,
		Name:      DisplayName(id),
		Type:      typ,
		Category:  cat,
		Target:    tgt,
		Power:     def.Power,
		Accuracy:  def.Accuracy,
		Priority:  def.Priority,
		CritRatio: def.CritRatio,
	}
	if m.Accuracy <= 0 {
		m.Accuracy = AlwaysHits
	}
	if m.Accuracy > 100 {
		return nil, wrap(fmt.Errorf("accuracy %d", def.Accuracy))
	}
	if m.CritRatio <= 0 {
		m.CritRatio = 1
	}
	if m.Damaging() && m.Power <= 0 && def.Effect != "ohko" {
		return nil, wrap(fmt.Errorf("damaging move without power"))
	}
	for _, f := range def.Flags {
		bit, ok := flagNames[f]
		if !ok {
			return nil, wrap(fmt.Errorf("unknown flag %q", f))
		}
		m.Flags |= bit
	}

	m.Effects, err = buildEffects(def.Status, def.Volatile, def.Boosts, tgt.OnSelf())
	if err != nil {
		return nil, wrap(err)
	}
	if def.Drain < 0 || def.Drain > 1 || def.Recoil < 0 || def.Recoil > 1 || def.Heal < 0 || def.Heal > 1 {
		return nil, wrap(fmt.Errorf("fraction out of range"))
	}
	if def.Drain > 0 {
		m.Effects = append(m.Effects, Drain{Fraction: def.Drain})
	}
	if def.Recoil > 0 {
		m.Effects = append(m.Effects, Recoil{Fraction: def.Recoil})
	}
	switch def.Effect {
	case "":
	case "recovery":
		if def.Heal == 0 {
			return nil, wrap(fmt.Errorf("recovery without heal fraction"))
		}
		m.Effects = append(m.Effects, Recovery{Fraction: def.Heal})
	case "force-switch":
		m.Effects = append(m.Effects, ForceSwitch{})
		m.Flags |= FlagForceSwitch
	case "ohko":
		m.Effects = append(m.Effects, OHKO{})
	case "self-destruct":
		m.Effects = append(m.Effects, SelfDestruct{})
	case "curse":
		m.Effects = append(m.Effects, Curse{})
	case "acupressure":
		m.Effects = append(m.Effects, Acupressure{})
	default:
		return nil, wrap(fmt.Errorf("unknown effect %q", def.Effect))
	}

	if s := def.Secondary; s != nil {
		if s.Chance <= 0 || s.Chance > 100 {
			return nil, wrap(fmt.Errorf("secondary chance %d", s.Chance))
		}
		effs, err := buildEffects(s.Status, s.Volatile, s.Boosts, s.Self)
		if err != nil {
			return nil, wrap(err)
		}
		m.Secondary = &Secondary{Chance: s.Chance, Self: s.Self, Effects: effs}
	}
	return m, nil
}
