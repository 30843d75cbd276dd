package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrDataLookupMiss is returned when a name does not resolve in the loaded tables.
var ErrDataLookupMiss = errors.New("data lookup miss")

// Data holds every table loaded from an assets directory. It is read-only after LoadFS returns.
type Data struct {
	species   map[string]SpeciesDef
	moves     map[string]MoveDef
	abilities map[string]AbilityDef
	items     map[string]ItemDef
	natures   map[string]NatureDef
	teams     map[string]TeamConfig

	TypeChart TypeChartConfig
	Planner   PlannerConfig
}

// ID normalizes a display name ("Thunder Wave", "thunder_wave") into the table key "thunder-wave".
func ID(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.NewReplacer(" ", "-", "_", "-").Replace(s)
	return s
}

func loadYAML(fsys fs.FS, p string, out any) error {
	b, err := fs.ReadFile(fsys, p)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, out); err != nil {
		return fmt.Errorf("%s: %w", p, err)
	}
	return nil
}

func LoadAll(dir string) (*Data, error) {
	return LoadFS(os.DirFS(dir))
}

func LoadFS(fsys fs.FS) (*Data, error) {
	var sc SpeciesConfig
	var mc MovesConfig
	var ac AbilitiesConfig
	var ic ItemsConfig
	var nc NaturesConfig
	d := &Data{
		species:   map[string]SpeciesDef{},
		moves:     map[string]MoveDef{},
		abilities: map[string]AbilityDef{},
		items:     map[string]ItemDef{},
		natures:   map[string]NatureDef{},
		teams:     map[string]TeamConfig{},
	}
	if err := loadYAML(fsys, "species.yaml", &sc); err != nil {
		return nil, err
	}
	if err := loadYAML(fsys, "moves.yaml", &mc); err != nil {
		return nil, err
	}
	if err := loadYAML(fsys, "abilities.yaml", &ac); err != nil {
		return nil, err
	}
	if err := loadYAML(fsys, "items.yaml", &ic); err != nil {
		return nil, err
	}
	if err := loadYAML(fsys, "natures.yaml", &nc); err != nil {
		return nil, err
	}
	if err := loadYAML(fsys, "typechart.yaml", &d.TypeChart); err != nil {
		return nil, err
	}
	if err := loadYAML(fsys, "planner.yaml", &d.Planner); err != nil {
		return nil, err
	}
	for _, s := range sc.Species {
		d.species[ID(s.Name)] = s
	}
	for _, m := range mc.Moves {
		d.moves[ID(m.Name)] = m
	}
	for _, a := range ac.Abilities {
		d.abilities[ID(a.Name)] = a
	}
	for _, it := range ic.Items {
		d.items[ID(it.Name)] = it
	}
	for _, n := range nc.Natures {
		d.natures[ID(n.Name)] = n
	}

	teamFiles, err := fs.Glob(fsys, "teams/*.yaml")
	if err != nil {
		return nil, err
	}
	for _, p := range teamFiles {
		var tc TeamConfig
		if err := loadYAML(fsys, p, &tc); err != nil {
			return nil, err
		}
		if tc.ID == "" {
			tc.ID = strings.TrimSuffix(path.Base(p), ".yaml")
		}
		d.teams[ID(tc.ID)] = tc
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// validate resolves every cross-table reference so that nothing can miss once a battle starts.
func (d *Data) validate() error {
	for _, s := range d.species {
		for _, a := range s.Abilities {
			if _, err := d.Ability(a); err != nil {
				return fmt.Errorf("species %s: %w", s.Name, err)
			}
		}
	}
	for _, t := range d.teams {
		if len(t.Members) == 0 || len(t.Members) > 6 {
			return fmt.Errorf("team %s: party size %d out of range", t.ID, len(t.Members))
		}
		for i, m := range t.Members {
			if _, err := d.Species(m.Species); err != nil {
				return fmt.Errorf("team %s member %d: %w", t.ID, i, err)
			}
			if m.Ability != "" {
				if _, err := d.Ability(m.Ability); err != nil {
					return fmt.Errorf("team %s member %d: %w", t.ID, i, err)
				}
			}
			if m.Nature != "" {
				if _, err := d.Nature(m.Nature); err != nil {
					return fmt.Errorf("team %s member %d: %w", t.ID, i, err)
				}
			}
			if m.Item != "" {
				if _, err := d.Item(m.Item); err != nil {
					return fmt.Errorf("team %s member %d: %w", t.ID, i, err)
				}
			}
			if len(m.Moves) == 0 || len(m.Moves) > 4 {
				return fmt.Errorf("team %s member %d: %d moves", t.ID, i, len(m.Moves))
			}
			for _, mv := range m.Moves {
				if _, err := d.Move(mv); err != nil {
					return fmt.Errorf("team %s member %d: %w", t.ID, i, err)
				}
			}
		}
	}
	return nil
}

func miss(kind, name string) error {
	return fmt.Errorf("%s %q: %w", kind, name, ErrDataLookupMiss)
}

func (d *Data) Species(name string) (SpeciesDef, error) {
	s, ok := d.species[ID(name)]
	if !ok {
		return SpeciesDef{}, miss("species", name)
	}
	return s, nil
}

func (d *Data) Move(name string) (MoveDef, error) {
	m, ok := d.moves[ID(name)]
	if !ok {
		return MoveDef{}, miss("move", name)
	}
	return m, nil
}

func (d *Data) Ability(name string) (AbilityDef, error) {
	a, ok := d.abilities[ID(name)]
	if !ok {
		return AbilityDef{}, miss("ability", name)
	}
	return a, nil
}

func (d *Data) Item(name string) (ItemDef, error) {
	it, ok := d.items[ID(name)]
	if !ok {
		return ItemDef{}, miss("item", name)
	}
	return it, nil
}

func (d *Data) Nature(name string) (NatureDef, error) {
	n, ok := d.natures[ID(name)]
	if !ok {
		return NatureDef{}, miss("nature", name)
	}
	return n, nil
}

func (d *Data) Team(id string) (TeamConfig, error) {
	t, ok := d.teams[ID(id)]
	if !ok {
		return TeamConfig{}, miss("team", id)
	}
	return t, nil
}

// MoveNames lists every move key in sorted order.
func (d *Data) MoveNames() []string {
	out := make([]string, 0, len(d.moves))
	for k := range d.moves {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (d *Data) SpeciesNames() []string {
	out := make([]string, 0, len(d.species))
	for k := range d.species {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (d *Data) AbilityNames() []string {
	out := make([]string, 0, len(d.abilities))
	for k := range d.abilities {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (d *Data) TeamIDs() []string {
	out := make([]string, 0, len(d.teams))
	for k := range d.teams {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
