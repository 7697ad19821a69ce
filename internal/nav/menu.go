package nav

import "github.com/spec-kit/station-console/internal/domain"

// DefaultMenu returns the console's static navigation entries, defined once
// at startup.
func DefaultMenu() []domain.MenuEntry {
	return []domain.MenuEntry{
		{Label: "Dashboard", Icon: "dashboard", Path: "/dashboard"},
		{Label: "Patients", Icon: "people", Path: "/patients"},
		{Label: "Examinations", Icon: "local-hospital", Path: "/examinations"},
		{Label: "Disease Prevention", Icon: "vaccines", Path: "/disease-prevention"},
		{Label: "Maternal & Child Care", Icon: "child-care", Path: "/maternal-childcare"},
		{Label: "Population", Icon: "health-and-safety", Path: "/population"},
		{Label: "Medications", Icon: "medication", Path: "/medications"},
		{Label: "Medical Equipment", Icon: "medical-services", Path: "/medical-equipment"},
		{Label: "Food Safety", Icon: "restaurant", Path: "/food-safety"},
		{Label: "Appointments", Icon: "event-note", Path: "/appointments"},
		{Label: "Medical Records", Icon: "assignment", Path: "/medical-records"},
	}
}

// MenuPaths returns the protected view paths derived from the menu.
func MenuPaths(entries []domain.MenuEntry) []string {
	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		paths = append(paths, entry.Path)
	}
	return paths
}
