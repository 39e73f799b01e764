package ui

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"newsdeck/internal/layout"
)

// With the default 8x16 cell metrics, 75 columns measure exactly 600
// units, 105 columns 840, and 155 columns 1240.
func TestResizeMountsChromeForWidthBucket(t *testing.T) {
	cases := []struct {
		cols int
		want string
	}{
		{50, "navigationBar"},
		{74, "navigationBar"},
		{75, "navigationRail"},
		{104, "navigationRail"},
		{105, "navigationRail"},
		{154, "navigationRail"},
		{155, "permanentDrawer"},
		{200, "permanentDrawer"},
	}
	v := New(Options{})
	for _, tc := range cases {
		_, _ = v.Update(tea.WindowSizeMsg{Width: tc.cols, Height: 30})
		if got := v.nav.id(); got != tc.want {
			t.Fatalf("cols=%d: chrome %q, want %q", tc.cols, got, tc.want)
		}
	}
}

func TestExactlyOneChromeMounted(t *testing.T) {
	v := New(Options{})
	for _, cols := range []int{40, 74, 75, 104, 105, 154, 155, 220} {
		for _, rows := range []int{20, 35, 70} {
			_, _ = v.Update(tea.WindowSizeMsg{Width: cols, Height: rows})
			mounted := 0
			if v.nav.bar != nil {
				mounted++
			}
			if v.nav.rail != nil {
				mounted++
			}
			if v.nav.drawer != nil {
				mounted++
			}
			if mounted != 1 {
				t.Fatalf("%dx%d: %d chrome payloads mounted, want 1", cols, rows, mounted)
			}
		}
	}
}

// Each chrome renders a marker the other two never emit: the bar joins
// destinations with a bullet, the rail shows three-letter abbreviations, and
// the drawer panel is titled Navigation.
func TestRenderedFrameShowsExactlyOneChrome(t *testing.T) {
	v := New(Options{})
	v.SetFeed(sampleArticles())
	v.SetTopics(sampleTopics())

	markers := map[string]string{
		"navigationBar":   "•",
		"navigationRail":  "SAV",
		"permanentDrawer": "Navigation",
	}

	for _, cols := range []int{50, 90, 120, 180} {
		for _, rows := range []int{24, 40, 70} {
			_, _ = v.Update(tea.WindowSizeMsg{Width: cols, Height: rows})
			// The help line on the last row uses a bullet separator of its
			// own, so scan everything above it.
			lines := strings.Split(v.renderScreen(), "\n")
			frame := strings.Join(lines[:len(lines)-1], "\n")
			want := v.nav.id()
			for id, marker := range markers {
				present := strings.Contains(frame, marker)
				if id == want && !present {
					t.Fatalf("%dx%d: chrome %s missing marker %q", cols, rows, id, marker)
				}
				if id != want && present {
					t.Fatalf("%dx%d: chrome %s leaked marker %q while %s active", cols, rows, id, marker, want)
				}
			}
		}
	}
}

func TestHeightDoesNotChangeChrome(t *testing.T) {
	v := New(Options{})
	for _, rows := range []int{5, 24, 29, 30, 55, 56, 120} {
		_, _ = v.Update(tea.WindowSizeMsg{Width: 90, Height: rows})
		if got := v.nav.id(); got != "navigationRail" {
			t.Fatalf("rows=%d changed chrome to %q", rows, got)
		}
	}
}

func TestMountChromePanicsOnUnknownVariant(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for unknown variant")
		}
	}()
	mountChrome(layout.NavigationVariant(99))
}

func TestChromeIdentifiersStable(t *testing.T) {
	v := New(Options{})
	_, _ = v.Update(tea.WindowSizeMsg{Width: 50, Height: 24})
	first := v.nav.id()
	_, _ = v.Update(tea.WindowSizeMsg{Width: 180, Height: 24})
	_, _ = v.Update(tea.WindowSizeMsg{Width: 50, Height: 24})
	if v.nav.id() != first {
		t.Fatalf("identifier changed across remounts: %q then %q", first, v.nav.id())
	}
}

func TestInvalidResizeKeepsPreviousChrome(t *testing.T) {
	v := New(Options{})
	_, _ = v.Update(tea.WindowSizeMsg{Width: 90, Height: 30})
	before := v.nav.id()

	_, _ = v.Update(tea.WindowSizeMsg{Width: -5, Height: 30})
	if v.nav.id() != before {
		t.Fatalf("invalid resize remounted chrome: %q -> %q", before, v.nav.id())
	}
	if v.statusFlash == "" {
		t.Fatalf("expected invalid viewport to flash status")
	}
}
