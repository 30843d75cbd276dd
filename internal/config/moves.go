package config

type MovesConfig struct {
	Moves []MoveDef `yaml:"moves"`
}

type MoveDef struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Category string `yaml:"category"`
	Target   string `yaml:"target"`
	Power    int    `yaml:"power"`
	// Accuracy 0 (or omitted) means the move never misses.
	Accuracy  int           `yaml:"accuracy"`
	Priority  int           `yaml:"priority"`
	CritRatio int           `yaml:"crit_ratio"`
	Status    string        `yaml:"status"`
	Volatile  []string      `yaml:"volatile"`
	Boosts    BoostsDef     `yaml:"boosts"`
	Drain     float64       `yaml:"drain"`
	Recoil    float64       `yaml:"recoil"`
	Heal      float64       `yaml:"heal"`
	Effect    string        `yaml:"effect"`
	Flags     []string      `yaml:"flags"`
	Secondary *SecondaryDef `yaml:"secondary"`
	Note      string        `yaml:"note"`
}

type SecondaryDef struct {
	Chance   int       `yaml:"chance"`
	Self     bool      `yaml:"self"`
	Status   string    `yaml:"status"`
	Volatile []string  `yaml:"volatile"`
	Boosts   BoostsDef `yaml:"boosts"`
}

type BoostsDef struct {
	Attack    int `yaml:"atk"`
	Defense   int `yaml:"def"`
	SpAttack  int `yaml:"spa"`
	SpDefense int `yaml:"spd"`
	Speed     int `yaml:"spe"`
	Accuracy  int `yaml:"acc"`
	Evasion   int `yaml:"eva"`
}

func (b BoostsDef) Values() [7]int {
	return [7]int{b.Attack, b.Defense, b.SpAttack, b.SpDefense, b.Speed, b.Accuracy, b.Evasion}
}
