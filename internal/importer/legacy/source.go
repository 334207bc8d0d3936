package legacy

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cory-johannsen/adventure/internal/game/theme"
	"github.com/cory-johannsen/adventure/internal/importer"
)

// The files a legacy bundle directory provides. RaisinsFile is the
// original's spelling of the reasons table.
const (
	MonstersFile   = "monsters.json"
	AscendedFile   = "as_monsters.json"
	AttributesFile = "attribs.json"
	LocationsFile  = "locations.json"
	RaisinsFile    = "raisins.json"
	ThreateeFile   = "threatee.json"
	SetBonusesFile = "set_bonuses.json"
)

var _ importer.Source = (*BundleSource)(nil)

// BundleSource implements importer.Source for the legacy JSON bundle layout:
//
//	sourceDir/
//	  monsters.json     <- base roster, display name -> stat block
//	  as_monsters.json  <- ascended roster, merged over the base (optional)
//	  attribs.json      <- attribute -> [hp_mult, dipl_mult]
//	  locations.json    <- where the encounter happens
//	  raisins.json      <- why the monster is there
//	  threatee.json     <- who it menaces
//	  set_bonuses.json  <- set name -> bonus rows
//
// Extra bundle files (pets, loot prefixes, crafting materials) are ignored.
type BundleSource struct{}

// NewSource constructs a BundleSource.
func NewSource() *BundleSource { return &BundleSource{} }

// Load reads the legacy bundle rooted at sourceDir and returns its tables as
// one ThemeData. Warnings for roster collisions, malformed miniboss gates,
// and unusable attribute rows are printed to stderr. A missing
// as_monsters.json is tolerated; every other file is required.
//
// Precondition: sourceDir must contain the required bundle files.
// Postcondition: returns a non-nil ThemeData or a non-nil error.
func (s *BundleSource) Load(sourceDir string) (*importer.ThemeData, error) {
	base, err := readMonsters(filepath.Join(sourceDir, MonstersFile))
	if err != nil {
		return nil, err
	}
	ascended, err := readMonsters(filepath.Join(sourceDir, AscendedFile))
	if errors.Is(err, fs.ErrNotExist) {
		ascended = nil
	} else if err != nil {
		return nil, err
	}

	monsters, warnings := ConvertMonsters(base, ascended)

	rawAttrs, err := readAttributes(filepath.Join(sourceDir, AttributesFile))
	if err != nil {
		return nil, err
	}
	attrs, attrWarnings := ConvertAttributes(rawAttrs)
	warnings = append(warnings, attrWarnings...)

	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "WARNING: %s\n", w)
	}

	locations, err := readLines(filepath.Join(sourceDir, LocationsFile))
	if err != nil {
		return nil, err
	}
	reasons, err := readLines(filepath.Join(sourceDir, RaisinsFile))
	if err != nil {
		return nil, err
	}
	threatened, err := readLines(filepath.Join(sourceDir, ThreateeFile))
	if err != nil {
		return nil, err
	}

	setData, err := os.ReadFile(filepath.Join(sourceDir, SetBonusesFile))
	if err != nil {
		return nil, fmt.Errorf("reading bundle file %s: %w", SetBonusesFile, err)
	}
	sets, err := ParseSetBonuses(setData)
	if err != nil {
		return nil, fmt.Errorf("parsing bundle file %s: %w", SetBonusesFile, err)
	}

	return &importer.ThemeData{
		Monsters:   monsters,
		Attributes: attrs,
		Narration: theme.Narration{
			Locations:  locations,
			Reasons:    reasons,
			Threatened: threatened,
		},
		SetBonuses: sets,
	}, nil
}

func readMonsters(path string) (map[string]Monster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bundle file %s: %w", filepath.Base(path), err)
	}
	roster, err := ParseMonsters(data)
	if err != nil {
		return nil, fmt.Errorf("parsing bundle file %s: %w", filepath.Base(path), err)
	}
	return roster, nil
}

func readAttributes(path string) (map[string][]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bundle file %s: %w", filepath.Base(path), err)
	}
	attrs, err := ParseAttributes(data)
	if err != nil {
		return nil, fmt.Errorf("parsing bundle file %s: %w", filepath.Base(path), err)
	}
	return attrs, nil
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bundle file %s: %w", filepath.Base(path), err)
	}
	lines, err := ParseLines(data)
	if err != nil {
		return nil, fmt.Errorf("parsing bundle file %s: %w", filepath.Base(path), err)
	}
	return lines, nil
}
