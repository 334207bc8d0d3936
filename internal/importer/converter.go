package importer

import "strings"

// NormalizeAttribute converts a legacy attribute key to the engine's
// canonical form. Legacy keys are article fragments meant to be glued onto
// a leading "a" (" mighty" reads "a mighty", "n ancient" reads "an
// ancient"); normalisation strips the fragment back to the bare adjective.
//
// Postcondition: result is lowercase with no surrounding space, and is
// idempotent (NormalizeAttribute(NormalizeAttribute(s)) ==
// NormalizeAttribute(s)).
func NormalizeAttribute(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	for {
		rest, ok := strings.CutPrefix(s, "n ")
		if !ok {
			return s
		}
		s = strings.TrimSpace(rest)
	}
}
