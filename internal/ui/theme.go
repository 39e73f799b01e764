package ui

import lipgloss "charm.land/lipgloss/v2"

type Theme struct {
	Header      lipgloss.Style
	Status      lipgloss.Style
	NavBar      lipgloss.Style
	NavActive   lipgloss.Style
	NavInactive lipgloss.Style
	PanelTitle  lipgloss.Style
	PanelBorder lipgloss.Style
	PanelBody   lipgloss.Style
	Overlay     lipgloss.Style
	Accent      lipgloss.Style
	Online      lipgloss.Style
	Offline     lipgloss.Style
	Muted       lipgloss.Style
	Headline    lipgloss.Style
	Saved       lipgloss.Style
}

func DefaultTheme() Theme {
	return ThemeForVariant("dusk")
}

func ThemeForVariant(variant string) Theme {
	switch variant {
	case "dawn":
		return dawnTheme()
	case "mono":
		return monoTheme()
	default:
		return duskTheme()
	}
}

func duskTheme() Theme {
	ink := lipgloss.Color("#101723")
	slate := lipgloss.Color("#1C2940")
	powder := lipgloss.Color("#E8F0FE")
	cyan := lipgloss.Color("#5BD8F5")
	mint := lipgloss.Color("#7BE8A8")
	coral := lipgloss.Color("#F58B9B")
	gold := lipgloss.Color("#F0C566")
	border := lipgloss.Color("#47608F")

	return Theme{
		Header: lipgloss.NewStyle().
			Background(ink).
			Foreground(powder).
			Padding(0, 1),
		Status: lipgloss.NewStyle().
			Background(slate).
			Foreground(powder).
			Padding(0, 1),
		NavBar: lipgloss.NewStyle().
			Background(slate).
			Foreground(powder).
			Padding(0, 1),
		NavActive: lipgloss.NewStyle().
			Foreground(cyan).
			Bold(true),
		NavInactive: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#93A3C4")),
		PanelTitle: lipgloss.NewStyle().
			Foreground(cyan).
			Bold(true),
		PanelBorder: lipgloss.NewStyle().
			Foreground(border),
		PanelBody: lipgloss.NewStyle().
			Foreground(powder),
		Overlay: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(cyan).
			Background(ink).
			Foreground(powder).
			Padding(1, 2),
		Accent:   lipgloss.NewStyle().Foreground(cyan).Bold(true),
		Online:   lipgloss.NewStyle().Foreground(mint).Bold(true),
		Offline:  lipgloss.NewStyle().Foreground(coral).Bold(true),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("#8B99B8")),
		Headline: lipgloss.NewStyle().Foreground(powder).Bold(true),
		Saved:    lipgloss.NewStyle().Foreground(gold),
	}
}

func dawnTheme() Theme {
	paper := lipgloss.Color("#FBF7F0")
	inkdark := lipgloss.Color("#2A2520")
	clay := lipgloss.Color("#B4654A")
	moss := lipgloss.Color("#5E7F5A")
	plum := lipgloss.Color("#7D5B8C")
	sand := lipgloss.Color("#D9C8A9")

	return Theme{
		Header:      lipgloss.NewStyle().Background(inkdark).Foreground(paper).Padding(0, 1),
		Status:      lipgloss.NewStyle().Background(sand).Foreground(inkdark).Padding(0, 1),
		NavBar:      lipgloss.NewStyle().Background(sand).Foreground(inkdark).Padding(0, 1),
		NavActive:   lipgloss.NewStyle().Foreground(clay).Bold(true),
		NavInactive: lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8377")),
		PanelTitle:  lipgloss.NewStyle().Foreground(clay).Bold(true),
		PanelBorder: lipgloss.NewStyle().Foreground(sand),
		PanelBody:   lipgloss.NewStyle().Foreground(inkdark),
		Overlay: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(clay).
			Background(paper).
			Foreground(inkdark).
			Padding(1, 2),
		Accent:   lipgloss.NewStyle().Foreground(plum).Bold(true),
		Online:   lipgloss.NewStyle().Foreground(moss).Bold(true),
		Offline:  lipgloss.NewStyle().Foreground(clay).Bold(true),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("#9A8F80")),
		Headline: lipgloss.NewStyle().Foreground(inkdark).Bold(true),
		Saved:    lipgloss.NewStyle().Foreground(plum),
	}
}

func monoTheme() Theme {
	fg := lipgloss.Color("#D8D8D8")
	dim := lipgloss.Color("#808080")
	bright := lipgloss.Color("#FFFFFF")

	return Theme{
		Header:      lipgloss.NewStyle().Foreground(bright).Bold(true).Padding(0, 1),
		Status:      lipgloss.NewStyle().Foreground(dim).Padding(0, 1),
		NavBar:      lipgloss.NewStyle().Foreground(fg).Padding(0, 1),
		NavActive:   lipgloss.NewStyle().Foreground(bright).Bold(true).Underline(true),
		NavInactive: lipgloss.NewStyle().Foreground(dim),
		PanelTitle:  lipgloss.NewStyle().Foreground(bright).Bold(true),
		PanelBorder: lipgloss.NewStyle().Foreground(dim),
		PanelBody:   lipgloss.NewStyle().Foreground(fg),
		Overlay: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(fg).
			Foreground(fg).
			Padding(1, 2),
		Accent:   lipgloss.NewStyle().Foreground(bright).Bold(true),
		Online:   lipgloss.NewStyle().Foreground(fg),
		Offline:  lipgloss.NewStyle().Foreground(bright).Bold(true).Reverse(true),
		Muted:    lipgloss.NewStyle().Foreground(dim),
		Headline: lipgloss.NewStyle().Foreground(bright).Bold(true),
		Saved:    lipgloss.NewStyle().Foreground(fg).Underline(true),
	}
}
