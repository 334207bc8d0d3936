// Package theme — YAML theme directory loading.
package theme

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/adventure/internal/game/equipment"
	"github.com/cory-johannsen/adventure/internal/game/monster"
)

// The four tables a theme directory must provide.
const (
	MonstersFile   = "monsters.yaml"
	AttributesFile = "attributes.yaml"
	NarrationFile  = "narration.yaml"
	SetBonusesFile = "set_bonuses.yaml"
)

type monstersDoc struct {
	Monsters []monster.Monster `yaml:"monsters"`
}

type attributesDoc struct {
	Attributes map[string]AttributeMults `yaml:"attributes"`
}

type setBonusesDoc struct {
	Sets map[string][]equipment.SetBonus `yaml:"sets"`
}

// Load reads the four theme tables from dir and assembles a Theme named
// after the directory.
//
// Precondition: dir must contain monsters.yaml, attributes.yaml,
// narration.yaml, and set_bonuses.yaml.
// Postcondition: Returns a validated Theme, or a non-nil error naming the
// offending file or table entry.
func Load(dir string) (*Theme, error) {
	var monsters monstersDoc
	if err := readYAML(filepath.Join(dir, MonstersFile), &monsters); err != nil {
		return nil, err
	}
	var attrs attributesDoc
	if err := readYAML(filepath.Join(dir, AttributesFile), &attrs); err != nil {
		return nil, err
	}
	var narration Narration
	if err := readYAML(filepath.Join(dir, NarrationFile), &narration); err != nil {
		return nil, err
	}
	var sets setBonusesDoc
	if err := readYAML(filepath.Join(dir, SetBonusesFile), &sets); err != nil {
		return nil, err
	}
	return New(filepath.Base(dir), monsters.Monsters, attrs.Attributes, narration, sets.Sets)
}

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading theme file %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing theme file %q: %w", path, err)
	}
	return nil
}
