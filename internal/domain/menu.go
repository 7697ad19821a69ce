package domain

// MenuEntry is one static navigation item in the console shell. Entries are
// defined once at startup and never mutated.
type MenuEntry struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Path  string `json:"path"`
}
