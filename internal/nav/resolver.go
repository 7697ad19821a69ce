package nav

import "github.com/spec-kit/station-console/internal/domain"

// ActiveEntry maps the current path to the menu entry it highlights.
// Matching is exact, never by prefix; entries have disjoint paths so at most
// one can match. No match means no highlight, which is not an error.
func ActiveEntry(currentPath string, entries []domain.MenuEntry) (domain.MenuEntry, bool) {
	for _, entry := range entries {
		if entry.Path == currentPath {
			return entry, true
		}
	}
	return domain.MenuEntry{}, false
}
