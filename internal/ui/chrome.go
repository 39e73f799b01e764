package ui

import (
	"fmt"
	"strings"

	"newsdeck/internal/layout"
)

// chrome is the mounted navigation element: a tagged union over the three
// variants. Exactly one payload is non-nil at any time; mounting a new
// variant replaces the whole value.
type chrome struct {
	variant layout.NavigationVariant
	bar     *barChrome
	rail    *railChrome
	drawer  *drawerChrome
}

type barChrome struct{}

type railChrome struct{}

type drawerChrome struct {
	width int
}

func mountChrome(variant layout.NavigationVariant) chrome {
	c := chrome{variant: variant}
	switch variant {
	case layout.NavBar:
		c.bar = &barChrome{}
	case layout.NavRail:
		c.rail = &railChrome{}
	case layout.NavPermanentDrawer:
		c.drawer = &drawerChrome{width: drawerWidth}
	default:
		panic(fmt.Sprintf("ui: unreachable navigation variant %d", int(variant)))
	}
	return c
}

func (c chrome) id() string { return c.variant.ID() }

func (c chrome) mounted() bool {
	return c.bar != nil || c.rail != nil || c.drawer != nil
}

const (
	railWidth   = 8
	drawerWidth = 26
)

// renderNavigationBar draws the compact chrome: one full-width line of
// destinations along the bottom edge.
func (r *Root) renderNavigationBar(width int) string {
	sep := " • "
	marker := "▸ "
	if r.ascii {
		sep = " | "
		marker = "> "
	}
	parts := make([]string, 0, 3)
	for _, dest := range Destinations() {
		label := dest.Title()
		if dest == r.destination {
			parts = append(parts, r.theme.NavActive.Render(marker+label))
		} else {
			parts = append(parts, r.theme.NavInactive.Render("  "+label))
		}
	}
	line := strings.Join(parts, r.theme.NavInactive.Render(sep))
	return r.theme.NavBar.Width(max(1, width)).Render(line)
}

// renderNavigationRail draws the medium/expanded chrome: a narrow vertical
// strip of abbreviated destinations along the leading edge.
func (r *Root) renderNavigationRail(height int) string {
	marker := "▸"
	if r.ascii {
		marker = ">"
	}
	lines := make([]string, 0, height)
	lines = append(lines, "")
	for _, dest := range Destinations() {
		prefix := " "
		style := r.theme.NavInactive
		if dest == r.destination {
			prefix = marker
			style = r.theme.NavActive
		}
		lines = append(lines, style.Render(prefix+" "+dest.Abbrev()))
		lines = append(lines, "")
	}
	return r.drawPanel("", lines, railWidth, max(3, height))
}

// renderPermanentDrawer draws the extra-large chrome: a wide panel with full
// destination labels and the followed-topic roster.
func (r *Root) renderPermanentDrawer(height int) string {
	marker := "▸ "
	if r.ascii {
		marker = "> "
	}
	lines := make([]string, 0, height)
	for _, dest := range Destinations() {
		prefix := "  "
		style := r.theme.NavInactive
		if dest == r.destination {
			prefix = marker
			style = r.theme.NavActive
		}
		label := dest.Title()
		switch dest {
		case DestSaved:
			label = fmt.Sprintf("%s (%d)", label, len(r.saved))
		case DestInterests:
			label = fmt.Sprintf("%s (%d)", label, len(r.topics))
		}
		lines = append(lines, style.Render(prefix+label))
	}
	followed := make([]string, 0)
	for _, topic := range r.topics {
		if topic.Followed {
			followed = append(followed, topic.Name)
		}
	}
	if len(followed) > 0 {
		lines = append(lines, "")
		lines = append(lines, r.theme.Muted.Render("Following"))
		for _, name := range followed {
			lines = append(lines, "  "+trimForWidth(name, drawerWidth-4))
		}
	}
	return r.drawPanel("Navigation", lines, drawerWidth, max(3, height))
}
