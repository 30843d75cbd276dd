package config

type SpeciesConfig struct {
	Species []SpeciesDef `yaml:"species"`
}

type SpeciesDef struct {
	Name      string    `yaml:"name"`
	Types     []string  `yaml:"types"`
	BaseStats StatBlock `yaml:"base_stats"`
	Abilities []string  `yaml:"abilities"`
	Weight    float64   `yaml:"weight"`
	// FemaleRatio < 0 marks a genderless species.
	FemaleRatio float64 `yaml:"female_ratio"`
	Note        string  `yaml:"note"`
}

type StatBlock struct {
	HP        int `yaml:"hp"`
	Attack    int `yaml:"atk"`
	Defense   int `yaml:"def"`
	SpAttack  int `yaml:"spa"`
	SpDefense int `yaml:"spd"`
	Speed     int `yaml:"spe"`
}

// Get indexes the block in hp, atk, def, spa, spd, spe order.
func (s StatBlock) Get(i int) int {
	switch i {
	case 0:
		return s.HP
	case 1:
		return s.Attack
	case 2:
		return s.Defense
	case 3:
		return s.SpAttack
	case 4:
		return s.SpDefense
	case 5:
		return s.Speed
	}
	return 0
}
