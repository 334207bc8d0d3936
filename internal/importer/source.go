package importer

import (
	"github.com/cory-johannsen/adventure/internal/game/equipment"
	"github.com/cory-johannsen/adventure/internal/game/monster"
	"github.com/cory-johannsen/adventure/internal/game/theme"
)

// ThemeData is the common intermediate format produced by all Source
// implementations: the four content tables a theme carries, already in the
// engine's model types. The importer serialises each table to its own YAML
// file in the schema theme.Load reads.
type ThemeData struct {
	Monsters   []monster.Monster
	Attributes map[string]theme.AttributeMults
	Narration  theme.Narration
	SetBonuses map[string][]equipment.SetBonus
}

// Source loads content from a format-specific source directory and produces
// one ThemeData ready to be written as a theme directory.
//
// Precondition: sourceDir must exist and contain the expected layout for the
// format.
// Postcondition: returns a non-nil ThemeData, or a non-nil error.
type Source interface {
	Load(sourceDir string) (*ThemeData, error)
}
