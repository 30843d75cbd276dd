package combat

type Stats struct {
	MaxHP     int `json:"max_hp"`
	Attack    int `json:"atk"`
	Defense   int `json:"def"`
	SpAttack  int `json:"spa"`
	SpDefense int `json:"spd"`
	Speed     int `json:"spe"`
}

// Of returns the raw stat behind a stage slot. Accuracy and evasion have no raw value.
func (s Stats) Of(st Stat) int {
	switch st {
	case StatAttack:
		return s.Attack
	case StatDefense:
		return s.Defense
	case StatSpAttack:
		return s.SpAttack
	case StatSpDefense:
		return s.SpDefense
	case StatSpeed:
		return s.Speed
	}
	return 0
}

// Pokemon is a value type; copying it copies all mutable battle state.
// Species, Ability and Moves point at shared immutable data.
type Pokemon struct {
	Species *Species
	Level   int
	Types   [2]Type
	Gender  Gender
	Weight  float64
	Stats   Stats

	HP           int
	Stages       Boosts
	Status       Status
	SleepTurns   int
	ToxicCount   int
	Volatile     Volatile
	ConfuseTurns int
	Fainted      bool

	Ability *Ability
	Item    string
	Moves   []*Move
}

func (p *Pokemon) Name() string {
	if p.Species == nil {
		return "?"
	}
	if p.Species.Name != "" {
		return p.Species.Name
	}
	return DisplayName(p.Species.ID)
}

func (p *Pokemon) Alive() bool { return !p.Fainted && p.HP > 0 }

func (p *Pokemon) HasType(t Type) bool { return p.Types[0] == t || p.Types[1] == t }

func (p *Pokemon) HPFraction() float64 {
	if p.Stats.MaxHP == 0 {
		return 0
	}
	return float64(p.HP) / float64(p.Stats.MaxHP)
}

// HPPercent is the floored percentage the trainer AI thresholds use.
func (p *Pokemon) HPPercent() int {
	if p.Stats.MaxHP == 0 {
		return 0
	}
	return p.HP * 100 / p.Stats.MaxHP
}

func (p *Pokemon) Move(slot int) *Move {
	if slot < 0 || slot >= len(p.Moves) {
		return nil
	}
	return p.Moves[slot]
}

func (p *Pokemon) KnowsMove(id string) bool {
	for _, m := range p.Moves {
		if m.ID == id {
			return true
		}
	}
	return false
}

// takeDamage subtracts HP floored at 0 and returns what was actually lost.
func (p *Pokemon) takeDamage(n int) int {
	if n <= 0 {
		return 0
	}
	if n > p.HP {
		n = p.HP
	}
	p.HP -= n
	if p.HP == 0 {
		p.Fainted = true
	}
	return n
}

func (p *Pokemon) heal(n int) int {
	if n <= 0 || p.Fainted {
		return 0
	}
	if p.HP+n > p.Stats.MaxHP {
		n = p.Stats.MaxHP - p.HP
	}
	p.HP += n
	return n
}

// resetOnSwitchOut clears what does not survive leaving the field.
func (p *Pokemon) resetOnSwitchOut() {
	p.Stages = Boosts{}
	p.Volatile = 0
	p.ConfuseTurns = 0
	if p.Status == StatusToxic {
		p.ToxicCount /= 2
		if p.ToxicCount < 1 {
			p.ToxicCount = 1
		}
	}
}
