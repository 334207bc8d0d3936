package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cory-johannsen/adventure/internal/game/equipment"
	"github.com/cory-johannsen/adventure/internal/game/monster"
	"github.com/cory-johannsen/adventure/internal/game/theme"
	"gopkg.in/yaml.v3"
)

// The per-file document shapes mirror what theme.Load reads.
type monstersDoc struct {
	Monsters []monster.Monster `yaml:"monsters"`
}

type attributesDoc struct {
	Attributes map[string]theme.AttributeMults `yaml:"attributes"`
}

type setBonusesDoc struct {
	Sets map[string][]equipment.SetBonus `yaml:"sets"`
}

// Importer orchestrates content import from a Source to an output directory.
type Importer struct {
	source Source
}

// New constructs an Importer backed by the given Source.
//
// Precondition: source must be non-nil.
// Postcondition: returns a non-nil Importer.
func New(source Source) *Importer {
	return &Importer{source: source}
}

// Run loads a theme from sourceDir, validates it, and writes the four theme
// table files to outputDir. The theme takes its name from the output
// directory's base name, same as theme.Load will on read.
//
// Precondition: sourceDir must satisfy the source's layout requirements;
// outputDir must exist or be creatable.
// Postcondition: outputDir holds a directory theme.Load accepts, or an error
// is returned.
func (imp *Importer) Run(sourceDir, outputDir string) error {
	overall := time.Now()

	t0 := time.Now()
	data, err := imp.source.Load(sourceDir)
	if err != nil {
		return fmt.Errorf("loading source: %w", err)
	}
	fmt.Printf("load    %d monster(s), %d attribute(s), %d set(s) in %s\n",
		len(data.Monsters), len(data.Attributes), len(data.SetBonuses),
		time.Since(t0).Round(time.Millisecond))

	// Validate the assembled theme before writing anything.
	name := filepath.Base(filepath.Clean(outputDir))
	if _, err := theme.New(name, data.Monsters, data.Attributes, data.Narration, data.SetBonuses); err != nil {
		return fmt.Errorf("converted theme failed validation: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", outputDir, err)
	}

	files := []struct {
		name  string
		doc   any
		count int
		unit  string
	}{
		{theme.MonstersFile, monstersDoc{Monsters: data.Monsters}, len(data.Monsters), "monsters"},
		{theme.AttributesFile, attributesDoc{Attributes: data.Attributes}, len(data.Attributes), "attributes"},
		{theme.NarrationFile, data.Narration,
			len(data.Narration.Locations) + len(data.Narration.Reasons) + len(data.Narration.Threatened), "lines"},
		{theme.SetBonusesFile, setBonusesDoc{Sets: data.SetBonuses}, len(data.SetBonuses), "sets"},
	}
	for _, f := range files {
		t1 := time.Now()

		out, err := yaml.Marshal(f.doc)
		if err != nil {
			return fmt.Errorf("serialising %s: %w", f.name, err)
		}
		outPath := filepath.Join(outputDir, f.name)
		if err := os.WriteFile(outPath, out, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}

		fmt.Printf("wrote   %s  (%d %s)  in %s\n",
			outPath, f.count, f.unit, time.Since(t1).Round(time.Millisecond))
	}

	// Read the written directory back so serialisation drift cannot produce
	// a theme the loader rejects.
	if _, err := theme.Load(outputDir); err != nil {
		return fmt.Errorf("written theme failed to load back: %w", err)
	}

	fmt.Printf("total   %s\n", time.Since(overall).Round(time.Millisecond))
	return nil
}
