package config

type TeamConfig struct {
	ID      string      `yaml:"id"`
	Name    string      `yaml:"name"`
	Note    string      `yaml:"note"`
	Members []MemberDef `yaml:"members"`
}

type MemberDef struct {
	Species string    `yaml:"species"`
	Level   int       `yaml:"level"`
	Gender  string    `yaml:"gender"`
	Ability string    `yaml:"ability"`
	Nature  string    `yaml:"nature"`
	Item    string    `yaml:"item"`
	IVs     StatBlock `yaml:"ivs"`
	EVs     StatBlock `yaml:"evs"`
	Moves   []string  `yaml:"moves"`
}

type PlannerConfig struct {
	Iterations    int     `yaml:"iterations"`
	TimeBudgetMS  int     `yaml:"time_budget_ms"`
	Workers       int     `yaml:"workers"`
	Exploration   float64 `yaml:"exploration"`
	RolloutDepth  int     `yaml:"rollout_depth"`
	HeuristicRate float64 `yaml:"heuristic_rate"`
	MinVisits     int     `yaml:"min_visits"`
	Z             float64 `yaml:"z"`
	DeathPenalty  float64 `yaml:"death_penalty"`
	WinReward     float64 `yaml:"win_reward"`
	DeathDiscount float64 `yaml:"death_discount"`
	HPWeight      float64 `yaml:"hp_weight"`
	DeathWeight   float64 `yaml:"death_weight"`
	LineDepth     int     `yaml:"line_depth"`
}
