package config

type AbilitiesConfig struct {
	Abilities []AbilityDef `yaml:"abilities"`
}

// AbilityDef describes the handful of ability behaviours the engine models.
// Anything else is carried as an id only.
type AbilityDef struct {
	Name            string   `yaml:"name"`
	Trigger         string   `yaml:"trigger"`
	ImmuneTypes     []string `yaml:"immune_types"`
	ImmuneFlags     []string `yaml:"immune_flags"`
	PreventStatus   []string `yaml:"prevent_status"`
	PreventVolatile []string `yaml:"prevent_volatile"`
	PreventDrops    []string `yaml:"prevent_drops"`
	IgnoreAbilities bool     `yaml:"ignore_abilities"`
	Note            string   `yaml:"note"`
}

type ItemsConfig struct {
	Items []ItemDef `yaml:"items"`
}

type ItemDef struct {
	Name string `yaml:"name"`
	Note string `yaml:"note"`
}
