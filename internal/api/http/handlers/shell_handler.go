package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/station-console/internal/api/dto"
	"github.com/spec-kit/station-console/internal/domain"
	"github.com/spec-kit/station-console/internal/nav"
	"github.com/spec-kit/station-console/internal/session"
	"github.com/spec-kit/station-console/pkg/util"
)

// ShellHandler serves the protected shell's data: the menu with its active
// entry, the dashboard greeting, and the content pages. Every route here sits
// behind the navigation guard.
type ShellHandler struct {
	store   *session.Store
	entries []domain.MenuEntry
}

// NewShellHandler constructs handler.
func NewShellHandler(store *session.Store, entries []domain.MenuEntry) *ShellHandler {
	return &ShellHandler{store: store, entries: entries}
}

// Menu handles GET /api/v1/shell/menu. The optional path query marks the
// active entry.
func (h *ShellHandler) Menu(c *fiber.Ctx) error {
	currentPath := c.Query("path")
	active, _ := nav.ActiveEntry(currentPath, h.entries)

	items := make([]dto.MenuEntryResponse, 0, len(h.entries))
	for _, entry := range h.entries {
		items = append(items, dto.MenuEntryResponse{
			Label:  entry.Label,
			Icon:   entry.Icon,
			Path:   entry.Path,
			Active: entry.Path == active.Path && entry.Path != "",
		})
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"entries": items}})
}

// Dashboard handles GET /api/v1/shell/dashboard.
func (h *ShellHandler) Dashboard(c *fiber.Ctx) error {
	sess := h.store.Current()
	if sess == nil {
		// The guard rejects before this point; a vanished session between
		// the check and the read still must not render protected content.
		return util.NewUnauthorized("no active session", nil)
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"greeting": fmt.Sprintf("Welcome back, %s", sess.DisplayName),
			"user": fiber.Map{
				"display_name": sess.DisplayName,
				"email":        sess.Email,
				"role":         sess.Role,
			},
		},
	})
}

// Page handles GET /api/v1/shell/page?path=/patients for the content views.
func (h *ShellHandler) Page(c *fiber.Ctx) error {
	path := c.Query("path")
	entry, ok := nav.ActiveEntry(path, h.entries)
	if !ok {
		return util.NewNotFound("page", map[string]any{"path": path})
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"title": entry.Label,
			"icon":  entry.Icon,
			"path":  entry.Path,
		},
	})
}
