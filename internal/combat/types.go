package combat

import (
	"fmt"
	"strings"
)

type Event struct {
	Turn    int            `json:"turn"`
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

type Side uint8

const (
	Player Side = iota
	Opponent
)

func (s Side) Other() Side { return 1 - s }

func (s Side) String() string {
	if s == Player {
		return "player"
	}
	return "opponent"
}

type Phase uint8

const (
	PhaseTurnStart Phase = iota
	PhaseDeathEndOfTurn
)

func (p Phase) String() string {
	if p == PhaseDeathEndOfTurn {
		return "death_end_of_turn"
	}
	return "turn_start"
}

type Type uint8

const (
	TypeNone Type = iota
	TypeNormal
	TypeFire
	TypeWater
	TypeElectric
	TypeGrass
	TypeIce
	TypeFighting
	TypePoison
	TypeGround
	TypeFlying
	TypePsychic
	TypeBug
	TypeRock
	TypeGhost
	TypeDragon
	TypeDark
	TypeSteel
	TypeFairy
	numTypes
)

var typeNames = [numTypes]string{
	"", "normal", "fire", "water", "electric", "grass", "ice", "fighting", "poison", "ground",
	"flying", "psychic", "bug", "rock", "ghost", "dragon", "dark", "steel", "fairy",
}

func (t Type) String() string {
	if t >= numTypes {
		return "unknown"
	}
	return typeNames[t]
}

func ParseType(s string) (Type, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i := TypeNormal; i < numTypes; i++ {
		if typeNames[i] == s {
			return i, nil
		}
	}
	return TypeNone, fmt.Errorf("unknown type %q", s)
}

type Category uint8

const (
	CategoryPhysical Category = iota
	CategorySpecial
	CategoryStatus
)

func (c Category) String() string {
	switch c {
	case CategoryPhysical:
		return "physical"
	case CategorySpecial:
		return "special"
	}
	return "status"
}

func parseCategory(s string) (Category, error) {
	switch strings.ToLower(s) {
	case "physical":
		return CategoryPhysical, nil
	case "special":
		return CategorySpecial, nil
	case "status":
		return CategoryStatus, nil
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

// Stat indexes the stage vector. HP has no stage.
type Stat uint8

const (
	StatAttack Stat = iota
	StatDefense
	StatSpAttack
	StatSpDefense
	StatSpeed
	StatAccuracy
	StatEvasion
	NumStages
)

var statNames = [NumStages]string{"atk", "def", "spa", "spd", "spe", "acc", "eva"}

func (s Stat) String() string { return statNames[s] }

func parseStat(s string) (Stat, error) {
	for i, n := range statNames {
		if n == s {
			return Stat(i), nil
		}
	}
	return 0, fmt.Errorf("unknown stat %q", s)
}

// Boosts is a signed stage delta (on a move) or a current stage vector (on a Pokémon).
type Boosts [NumStages]int

func (b Boosts) Any() bool {
	for _, v := range b {
		if v != 0 {
			return true
		}
	}
	return false
}

type Status uint8

const (
	StatusNone Status = iota
	StatusSleep
	StatusFreeze
	StatusParalysis
	StatusBurn
	StatusPoison
	StatusToxic
	numStatuses
)

var statusNames = [numStatuses]string{"", "sleep", "freeze", "paralysis", "burn", "poison", "toxic"}

func (s Status) String() string { return statusNames[s] }

func parseStatus(s string) (Status, error) {
	for i, n := range statusNames {
		if n == s {
			return Status(i), nil
		}
	}
	return StatusNone, fmt.Errorf("unknown status %q", s)
}

// Volatile is a bitmask of conditions cleared on switch-out.
type Volatile uint16

const (
	VolFlinch Volatile = 1 << iota
	VolConfusion
	VolLeechSeed
	VolCurse
	VolAttract
	VolSubstitute
	numVolatiles = 6
)

var volatileNames = [numVolatiles]string{"flinch", "confusion", "leech-seed", "curse", "attract", "substitute"}

func (v Volatile) Has(f Volatile) bool { return v&f != 0 }

func (v Volatile) String() string {
	var parts []string
	for i, n := range volatileNames {
		if v&(1<<i) != 0 {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, "|")
}

func parseVolatiles(names []string) (Volatile, error) {
	var out Volatile
	for _, s := range names {
		found := false
		for i, n := range volatileNames {
			if n == s {
				out |= 1 << i
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown volatile %q", s)
		}
	}
	return out, nil
}

type Target uint8

const (
	TargetNormal Target = iota
	TargetSelf
	TargetAdjacentAlly
	TargetAdjacentAllyOrSelf
	TargetAllies
	TargetAllySide
	TargetAdjacentFoe
	TargetAllAdjacentFoes
	TargetAllAdjacent
	TargetAny
	TargetFoeSide
	TargetRandomNormal
	TargetScripted
)

var targetNames = map[string]Target{
	"normal": TargetNormal, "self": TargetSelf, "adjacent-ally": TargetAdjacentAlly,
	"adjacent-ally-or-self": TargetAdjacentAllyOrSelf, "allies": TargetAllies, "ally-side": TargetAllySide,
	"adjacent-foe": TargetAdjacentFoe, "all-adjacent-foes": TargetAllAdjacentFoes,
	"all-adjacent": TargetAllAdjacent, "any": TargetAny, "foe-side": TargetFoeSide,
	"random-normal": TargetRandomNormal, "scripted": TargetScripted,
}

func parseTarget(s string) (Target, error) {
	if s == "" {
		return TargetNormal, nil
	}
	t, ok := targetNames[s]
	if !ok {
		return 0, fmt.Errorf("unknown target %q", s)
	}
	return t, nil
}

// OnSelf reports whether the selector points at the user's own side.
func (t Target) OnSelf() bool {
	switch t {
	case TargetSelf, TargetAdjacentAlly, TargetAdjacentAllyOrSelf, TargetAllies, TargetAllySide:
		return true
	}
	return false
}

type MoveFlag uint16

const (
	FlagContact MoveFlag = 1 << iota
	FlagSound
	FlagHeal
	FlagForceSwitch
	FlagBypassSub
	FlagCharge
	FlagRecharge
	FlagPunch
)

var flagNames = map[string]MoveFlag{
	"contact": FlagContact, "sound": FlagSound, "heal": FlagHeal, "force-switch": FlagForceSwitch,
	"bypass-sub": FlagBypassSub, "charge": FlagCharge, "recharge": FlagRecharge, "punch": FlagPunch,
}

type Gender uint8

const (
	Genderless Gender = iota
	Male
	Female
)

func parseGender(s string) Gender {
	switch strings.ToLower(s) {
	case "male", "m":
		return Male
	case "female", "f":
		return Female
	}
	return Genderless
}

func (g Gender) String() string {
	switch g {
	case Male:
		return "male"
	case Female:
		return "female"
	}
	return "genderless"
}
