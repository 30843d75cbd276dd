package config

// TypeChartConfig maps attacking type -> defending type -> multiplier.
// Pairs that are not listed are neutral.
type TypeChartConfig struct {
	Types    []string                      `yaml:"types"`
	Matchups map[string]map[string]float64 `yaml:"matchups"`
}

type NaturesConfig struct {
	Natures []NatureDef `yaml:"natures"`
}

// NatureDef raises Up by 10% and lowers Down by 10%. Up == Down is neutral.
type NatureDef struct {
	Name string `yaml:"name"`
	Up   string `yaml:"up"`
	Down string `yaml:"down"`
}
