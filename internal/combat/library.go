package combat

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"pbs/internal/config"
)

// DisplayName turns a table key like "thunder-wave" into "Thunder Wave". A Caser keeps state
// between calls, so each call gets its own.
func DisplayName(id string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(id, "-", " "))
}

// TypeChart holds attacker x defender multipliers. Unlisted pairs are neutral.
type TypeChart [numTypes][numTypes]float64

func NewTypeChart(cfg config.TypeChartConfig) (*TypeChart, error) {
	var tc TypeChart
	for i := range tc {
		for j := range tc[i] {
			tc[i][j] = 1
		}
	}
	for atk, row := range cfg.Matchups {
		a, err := ParseType(atk)
		if err != nil {
			return nil, fmt.Errorf("type chart: %w", err)
		}
		for def, mult := range row {
			d, err := ParseType(def)
			if err != nil {
				return nil, fmt.Errorf("type chart: %w", err)
			}
			if mult < 0 {
				return nil, fmt.Errorf("type chart: %s->%s negative multiplier", atk, def)
			}
			tc[a][d] = mult
		}
	}
	return &tc, nil
}

func (tc *TypeChart) Effectiveness(atk, def Type) float64 {
	if atk == TypeNone || def == TypeNone {
		return 1
	}
	return tc[atk][def]
}

// Against multiplies the factors of both defending types.
func (tc *TypeChart) Against(atk Type, defs [2]Type) float64 {
	return tc.Effectiveness(atk, defs[0]) * tc.Effectiveness(atk, defs[1])
}

type AbilityTrigger uint8

const (
	TriggerPassive AbilityTrigger = iota
	TriggerOnHit
	TriggerOnStatus
	TriggerOnStatDrop
	TriggerEndOfTurn
	TriggerOnSwitchIn
)

var triggerNames = map[string]AbilityTrigger{
	"": TriggerPassive, "passive": TriggerPassive, "on-hit": TriggerOnHit, "on-status": TriggerOnStatus,
	"on-stat-drop": TriggerOnStatDrop, "end-of-turn": TriggerEndOfTurn, "on-switch-in": TriggerOnSwitchIn,
}

type Ability struct {
	ID               string
	Trigger          AbilityTrigger
	ImmuneTypes      []Type
	ImmuneSound      bool
	ImmuneOHKO       bool
	PreventStatus    []Status
	PreventVolatile  Volatile
	PreventDrops     [NumStages]bool
	IgnoresAbilities bool
}

func (a *Ability) Is(id string) bool { return a != nil && a.ID == id }

func (a *Ability) blocksStatus(s Status) bool {
	if a == nil {
		return false
	}
	for _, p := range a.PreventStatus {
		if p == s {
			return true
		}
	}
	return false
}

func newAbility(def config.AbilityDef) (*Ability, error) {
	id := config.ID(def.Name)
	trig, ok := triggerNames[def.Trigger]
	if !ok {
		return nil, fmt.Errorf("ability %s: unknown trigger %q", id, def.Trigger)
	}
	a := &Ability{ID: id, Trigger: trig, IgnoresAbilities: def.IgnoreAbilities}
	for _, t := range def.ImmuneTypes {
		typ, err := ParseType(t)
		if err != nil {
			return nil, fmt.Errorf("ability %s: %w", id, err)
		}
		a.ImmuneTypes = append(a.ImmuneTypes, typ)
	}
	for _, f := range def.ImmuneFlags {
		switch f {
		case "sound":
			a.ImmuneSound = true
		case "ohko":
			a.ImmuneOHKO = true
		default:
			return nil, fmt.Errorf("ability %s: unknown immune flag %q", id, f)
		}
	}
	for _, s := range def.PreventStatus {
		st, err := parseStatus(s)
		if err != nil {
			return nil, fmt.Errorf("ability %s: %w", id, err)
		}
		a.PreventStatus = append(a.PreventStatus, st)
	}
	v, err := parseVolatiles(def.PreventVolatile)
	if err != nil {
		return nil, fmt.Errorf("ability %s: %w", id, err)
	}
	a.PreventVolatile = v
	for _, s := range def.PreventDrops {
		st, err := parseStat(s)
		if err != nil {
			return nil, fmt.Errorf("ability %s: %w", id, err)
		}
		a.PreventDrops[st] = true
	}
	return a, nil
}

type Species struct {
	ID          string
	Name        string
	Types       [2]Type
	Base        config.StatBlock
	Abilities   []string
	Weight      float64
	FemaleRatio float64
}

// Library is the validated, typed view of the data tables. Read-only and safe to share.
type Library struct {
	Chart     *TypeChart
	data      *config.Data
	species   map[string]*Species
	moves     map[string]*Move
	abilities map[string]*Ability
}

func NewLibrary(data *config.Data) (*Library, error) {
	chart, err := NewTypeChart(data.TypeChart)
	if err != nil {
		return nil, err
	}
	lib := &Library{
		Chart:     chart,
		data:      data,
		species:   map[string]*Species{},
		moves:     map[string]*Move{},
		abilities: map[string]*Ability{},
	}
	for _, id := range data.AbilityNames() {
		def, _ := data.Ability(id)
		a, err := newAbility(def)
		if err != nil {
			return nil, err
		}
		lib.abilities[id] = a
	}
	for _, id := range data.MoveNames() {
		def, _ := data.Move(id)
		m, err := NewMove(def)
		if err != nil {
			return nil, err
		}
		lib.moves[id] = m
	}
	for _, id := range data.SpeciesNames() {
		def, _ := data.Species(id)
		sp := &Species{
			ID:          id,
			Name:        DisplayName(id),
			Base:        def.BaseStats,
			Weight:      def.Weight,
			FemaleRatio: def.FemaleRatio,
		}
		if len(def.Types) == 0 || len(def.Types) > 2 {
			return nil, fmt.Errorf("species %s: %d types", id, len(def.Types))
		}
		for i, t := range def.Types {
			typ, err := ParseType(t)
			if err != nil {
				return nil, fmt.Errorf("species %s: %w", id, err)
			}
			sp.Types[i] = typ
		}
		for _, a := range def.Abilities {
			sp.Abilities = append(sp.Abilities, config.ID(a))
			if _, err := lib.Ability(a); err != nil {
				return nil, fmt.Errorf("species %s: %w", id, err)
			}
		}
		lib.species[id] = sp
	}
	return lib, nil
}

func (l *Library) Species(name string) (*Species, error) {
	if s, ok := l.species[config.ID(name)]; ok {
		return s, nil
	}
	_, err := l.data.Species(name)
	return nil, err
}

func (l *Library) Move(name string) (*Move, error) {
	if m, ok := l.moves[config.ID(name)]; ok {
		return m, nil
	}
	_, err := l.data.Move(name)
	return nil, err
}

func (l *Library) Ability(name string) (*Ability, error) {
	if a, ok := l.abilities[config.ID(name)]; ok {
		return a, nil
	}
	_, err := l.data.Ability(name)
	return nil, err
}

func (l *Library) Item(name string) (config.ItemDef, error) {
	return l.data.Item(name)
}

func (l *Library) Data() *config.Data { return l.data }

func natureMultipliers(n config.NatureDef) (map[string]int, error) {
	out := map[string]int{"atk": 10, "def": 10, "spa": 10, "spd": 10, "spe": 10}
	if n.Up == n.Down {
		return out, nil
	}
	if _, ok := out[n.Up]; !ok {
		return nil, fmt.Errorf("nature %s: bad stat %q", n.Name, n.Up)
	}
	if _, ok := out[n.Down]; !ok {
		return nil, fmt.Errorf("nature %s: bad stat %q", n.Name, n.Down)
	}
	out[n.Up] = 11
	out[n.Down] = 9
	return out, nil
}

// CalcStats derives battle stats once per Pokémon. A species with base HP 1 always has 1 HP.
func CalcStats(base, ivs, evs config.StatBlock, level int, nature config.NatureDef) (Stats, error) {
	mult, err := natureMultipliers(nature)
	if err != nil {
		return Stats{}, err
	}
	core := func(i int) int {
		return (2*base.Get(i) + ivs.Get(i) + evs.Get(i)/4) * level / 100
	}
	var s Stats
	if base.HP == 1 {
		s.MaxHP = 1
	} else {
		s.MaxHP = core(0) + level + 10
	}
	other := func(i int, key string) int { return (core(i) + 5) * mult[key] / 10 }
	s.Attack = other(1, "atk")
	s.Defense = other(2, "def")
	s.SpAttack = other(3, "spa")
	s.SpDefense = other(4, "spd")
	s.Speed = other(5, "spe")
	return s, nil
}

// NewPokemon builds a battle-ready Pokémon. Every referenced name is resolved here so
// that simulations never look anything up.
func (l *Library) NewPokemon(m config.MemberDef) (Pokemon, error) {
	sp, err := l.Species(m.Species)
	if err != nil {
		return Pokemon{}, err
	}
	if m.Level < 1 || m.Level > 100 {
		return Pokemon{}, fmt.Errorf("%s: level %d out of range", sp.ID, m.Level)
	}
	nature := config.NatureDef{Name: "neutral"}
	if m.Nature != "" {
		if nature, err = l.data.Nature(m.Nature); err != nil {
			return Pokemon{}, err
		}
	}
	stats, err := CalcStats(sp.Base, m.IVs, m.EVs, m.Level, nature)
	if err != nil {
		return Pokemon{}, err
	}
	abilityName := m.Ability
	if abilityName == "" && len(sp.Abilities) > 0 {
		abilityName = sp.Abilities[0]
	}
	var ab *Ability
	if abilityName != "" {
		if ab, err = l.Ability(abilityName); err != nil {
			return Pokemon{}, err
		}
	}
	if m.Item != "" {
		if _, err := l.Item(m.Item); err != nil {
			return Pokemon{}, err
		}
	}
	if len(m.Moves) == 0 || len(m.Moves) > 4 {
		return Pokemon{}, fmt.Errorf("%s: %d moves", sp.ID, len(m.Moves))
	}
	moves := make([]*Move, 0, len(m.Moves))
	for _, name := range m.Moves {
		mv, err := l.Move(name)
		if err != nil {
			return Pokemon{}, err
		}
		moves = append(moves, mv)
	}
	gender := parseGender(m.Gender)
	if sp.FemaleRatio < 0 {
		gender = Genderless
	}
	return Pokemon{
		Species: sp,
		Level:   m.Level,
		Types:   sp.Types,
		Gender:  gender,
		Weight:  sp.Weight,
		Stats:   stats,
		HP:      stats.MaxHP,
		Ability: ab,
		Item:    config.ID(m.Item),
		Moves:   moves,
	}, nil
}

func (l *Library) NewParty(team config.TeamConfig) (Party, error) {
	if len(team.Members) == 0 || len(team.Members) > MaxPartySize {
		return Party{}, fmt.Errorf("team %s: party size %d", team.ID, len(team.Members))
	}
	p := Party{Name: team.Name, Members: make([]Pokemon, 0, len(team.Members))}
	for i, m := range team.Members {
		mon, err := l.NewPokemon(m)
		if err != nil {
			return Party{}, fmt.Errorf("team %s member %d: %w", team.ID, i, err)
		}
		p.Members = append(p.Members, mon)
	}
	return p, nil
}

// Team loads a party by team id.
func (l *Library) Team(id string) (Party, error) {
	tc, err := l.data.Team(id)
	if err != nil {
		return Party{}, err
	}
	return l.NewParty(tc)
}
