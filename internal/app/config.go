package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config controls runtime behavior for the TUI app.
type Config struct {
	Dev          bool
	DevHTTP      string
	LogPath      string
	DebugLayout  bool
	DemoScenario string
	ASCIIOnly    bool
	DataDir      string
	ContentDir   string
	UI           UIConfig
	Network      NetworkConfig
	Feed         FeedConfig
}

type UIConfig struct {
	StyleVariant string
	MotionLevel  string
	CellWidth    float64
	CellHeight   float64
}

type NetworkConfig struct {
	ProbeAddr       string
	ProbeIntervalMS int
}

type FeedConfig struct {
	WatchContent bool
	DebounceMS   int
}

func DefaultConfig() Config {
	return Config{
		DevHTTP:    "127.0.0.1:17421",
		ContentDir: "content",
		UI: UIConfig{
			StyleVariant: "dusk",
			MotionLevel:  "full",
			CellWidth:    8,
			CellHeight:   16,
		},
		Network: NetworkConfig{
			ProbeAddr:       "1.1.1.1:53",
			ProbeIntervalMS: 15000,
		},
		Feed: FeedConfig{
			WatchContent: true,
			DebounceMS:   250,
		},
	}
}

// Keys under which UI settings are persisted in the state store.
const (
	settingStyleVariant = "ui.style_variant"
	settingMotionLevel  = "ui.motion_level"
)

// applyStoredSettings lets previously persisted UI settings override the
// compiled-in defaults. A config value that already differs from the default
// came from a flag and wins over the stored one.
func applyStoredSettings(cfg *Config, stored map[string]string) {
	def := DefaultConfig()
	if v := stored[settingStyleVariant]; isStyleVariant(v) && cfg.UI.StyleVariant == def.UI.StyleVariant {
		cfg.UI.StyleVariant = v
	}
	if v := stored[settingMotionLevel]; isMotionLevel(v) && cfg.UI.MotionLevel == def.UI.MotionLevel {
		cfg.UI.MotionLevel = v
	}
}

func isStyleVariant(v string) bool {
	switch v {
	case "dawn", "dusk", "mono":
		return true
	}
	return false
}

func isMotionLevel(v string) bool {
	switch v {
	case "off", "reduced", "full":
		return true
	}
	return false
}

func (c *Config) Validate() error {
	switch c.UI.StyleVariant {
	case "", "dawn", "dusk", "mono":
	default:
		return fmt.Errorf("invalid ui style variant %q", c.UI.StyleVariant)
	}
	if c.UI.StyleVariant == "" {
		c.UI.StyleVariant = "dusk"
	}
	switch c.UI.MotionLevel {
	case "", "off", "reduced", "full":
	default:
		return fmt.Errorf("invalid ui motion level %q", c.UI.MotionLevel)
	}
	if c.UI.MotionLevel == "" {
		c.UI.MotionLevel = "full"
	}
	if c.UI.CellWidth < 0 || c.UI.CellHeight < 0 {
		return fmt.Errorf("invalid cell metrics %gx%g", c.UI.CellWidth, c.UI.CellHeight)
	}
	if c.UI.CellWidth == 0 {
		c.UI.CellWidth = 8
	}
	if c.UI.CellHeight == 0 {
		c.UI.CellHeight = 16
	}

	if c.Network.ProbeAddr == "" {
		c.Network.ProbeAddr = "1.1.1.1:53"
	}
	if c.Network.ProbeIntervalMS <= 0 {
		c.Network.ProbeIntervalMS = 15000
	}
	if c.Feed.DebounceMS <= 0 {
		c.Feed.DebounceMS = 250
	}

	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.New("cannot resolve user home directory")
		}
		c.DataDir = filepath.Join(home, ".local", "share", "newsdeck")
	}

	return nil
}
