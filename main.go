package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"newsdeck/internal/app"
)

func main() {
	cfg := app.DefaultConfig()

	flag.BoolVar(&cfg.Dev, "dev", false, "enable the dev HTTP endpoint and demo scenarios")
	flag.StringVar(&cfg.DevHTTP, "dev-http", cfg.DevHTTP, "listen address for the dev HTTP endpoint")
	flag.StringVar(&cfg.DemoScenario, "demo", "", "demo scenario to run on startup (requires -dev)")
	flag.StringVar(&cfg.LogPath, "log", "", "write JSON logs to this file")
	flag.StringVar(&cfg.DataDir, "data-dir", "", "directory for the state database (default ~/.local/share/newsdeck)")
	flag.StringVar(&cfg.ContentDir, "content", cfg.ContentDir, "directory holding feed sources")
	flag.BoolVar(&cfg.ASCIIOnly, "ascii", false, "render without unicode box drawing")
	flag.BoolVar(&cfg.DebugLayout, "debug-layout", false, "show the viewport size class in the status line")
	flag.StringVar(&cfg.UI.StyleVariant, "style", cfg.UI.StyleVariant, "color theme: dawn, dusk, or mono")
	flag.StringVar(&cfg.UI.MotionLevel, "motion", cfg.UI.MotionLevel, "overlay animation: off, reduced, or full")
	flag.Float64Var(&cfg.UI.CellWidth, "cell-width", cfg.UI.CellWidth, "terminal cell width in device-independent units")
	flag.Float64Var(&cfg.UI.CellHeight, "cell-height", cfg.UI.CellHeight, "terminal cell height in device-independent units")
	flag.BoolVar(&cfg.Feed.WatchContent, "watch", cfg.Feed.WatchContent, "reload feed sources when content files change")
	flag.Parse()

	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "newsdeck:", err)
		os.Exit(1)
	}
}

func run(cfg app.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.Run(ctx)
}
