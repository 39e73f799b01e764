package devtools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Step is one beat of a scripted demo: resize the viewport, optionally
// switch destination, then hold for the delay so screenshot tooling can
// capture the frame.
type Step struct {
	Cols        int
	Rows        int
	Destination string
	Delay       time.Duration
}

type Scenario struct {
	Name  string
	Steps []Step
}

type Manager struct{}

func NewManager() *Manager { return &Manager{} }

const stepHold = 400 * time.Millisecond

// Resolve maps a requested demo name to a scenario, falling back to the
// breakpoint sweep for unknown names.
func (m *Manager) Resolve(name string) Scenario {
	switch strings.TrimSpace(name) {
	case "destination_tour":
		return Scenario{Name: "destination_tour", Steps: []Step{
			{Cols: 120, Rows: 40, Destination: "for_you", Delay: stepHold},
			{Cols: 120, Rows: 40, Destination: "saved", Delay: stepHold},
			{Cols: 120, Rows: 40, Destination: "interests", Delay: stepHold},
		}}
	case "chrome_grid":
		steps := make([]Step, 0, 12)
		for _, cols := range []int{50, 90, 130, 180} {
			for _, rows := range []int{24, 40, 70} {
				steps = append(steps, Step{Cols: cols, Rows: rows, Delay: stepHold})
			}
		}
		return Scenario{Name: "chrome_grid", Steps: steps}
	case "reader":
		return Scenario{Name: "reader", Steps: []Step{
			{Cols: 120, Rows: 40, Destination: "for_you", Delay: stepHold},
		}}
	default:
		// Walks the width axis across every breakpoint in both directions,
		// one column either side of each threshold.
		steps := make([]Step, 0, 16)
		for _, cols := range []int{50, 74, 75, 104, 105, 154, 155, 200, 155, 154, 105, 104, 75, 74, 50} {
			steps = append(steps, Step{Cols: cols, Rows: 30, Delay: stepHold})
		}
		return Scenario{Name: "breakpoint_sweep", Steps: steps}
	}
}

func (m *Manager) Names() []string {
	names := []string{"breakpoint_sweep", "destination_tour", "chrome_grid", "reader"}
	sort.Strings(names)
	return names
}

// SetState persists the demo driver state for external tooling that polls
// the cache file instead of the dev HTTP endpoint.
func (m *Manager) SetState(ctx context.Context, cacheDir string, state string, rendered bool) error {
	_ = ctx
	if cacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		cacheDir = filepath.Join(home, ".cache", "newsdeck")
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return err
	}
	payload := map[string]any{
		"state":    strings.TrimSpace(state),
		"rendered": rendered,
	}
	b, _ := json.Marshal(payload)
	return os.WriteFile(filepath.Join(cacheDir, "dev_state.json"), b, 0o644)
}
