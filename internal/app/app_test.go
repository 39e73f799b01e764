package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"newsdeck/internal/feed"
	"newsdeck/internal/netmon"
	"newsdeck/internal/ui"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.UI.CellWidth != 8 || cfg.UI.CellHeight != 16 {
		t.Fatalf("unexpected cell metrics %gx%g", cfg.UI.CellWidth, cfg.UI.CellHeight)
	}
	if cfg.ContentDir != "content" {
		t.Fatalf("unexpected content dir %q", cfg.ContentDir)
	}
}

func TestValidateFillsZeroValues(t *testing.T) {
	cfg := Config{DataDir: t.TempDir()}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.UI.StyleVariant != "dusk" || cfg.UI.MotionLevel != "full" {
		t.Fatalf("unexpected ui defaults %+v", cfg.UI)
	}
	if cfg.Network.ProbeIntervalMS != 15000 || cfg.Feed.DebounceMS != 250 {
		t.Fatalf("unexpected defaults %+v %+v", cfg.Network, cfg.Feed)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Config{DataDir: t.TempDir(), UI: UIConfig{StyleVariant: "neon"}}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected style variant error")
	}
	cfg = Config{DataDir: t.TempDir(), UI: UIConfig{MotionLevel: "warp"}}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected motion level error")
	}
	cfg = Config{DataDir: t.TempDir(), UI: UIConfig{CellWidth: -1}}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected cell metrics error")
	}
}

func TestRankForYouPrefersFollowedTopics(t *testing.T) {
	old := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	fresh := old.Add(72 * time.Hour)
	articles := []feed.Article{
		{ArticleID: "fresh-misc", Topics: []string{"misc"}, PublishedAt: fresh},
		{ArticleID: "old-followed", Topics: []string{"releases"}, PublishedAt: old},
		{ArticleID: "fresh-followed", Topics: []string{"releases"}, PublishedAt: fresh},
	}
	ranked := rankForYou(articles, map[string]bool{"releases": true})
	if ranked[0].ArticleID != "fresh-followed" || ranked[1].ArticleID != "old-followed" {
		t.Fatalf("unexpected order: %q, %q, %q", ranked[0].ArticleID, ranked[1].ArticleID, ranked[2].ArticleID)
	}
	if ranked[2].ArticleID != "fresh-misc" {
		t.Fatalf("expected unfollowed article last, got %q", ranked[2].ArticleID)
	}
}

func TestRankForYouKeepsInputUntouched(t *testing.T) {
	articles := []feed.Article{
		{ArticleID: "b", PublishedAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)},
		{ArticleID: "a", PublishedAt: time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)},
	}
	_ = rankForYou(articles, nil)
	if articles[0].ArticleID != "b" {
		t.Fatalf("rankForYou mutated its input")
	}
}

func TestChromeIDForViewport(t *testing.T) {
	a := &App{cells: ui.DefaultCellMetrics()}
	cases := []struct {
		cols int
		want string
	}{
		{50, "navigationBar"},
		{75, "navigationRail"},
		{120, "navigationRail"},
		{155, "permanentDrawer"},
	}
	for _, tc := range cases {
		if got := a.chromeID(tc.cols, 30); got != tc.want {
			t.Fatalf("cols=%d: %q, want %q", tc.cols, got, tc.want)
		}
	}
	if got := a.chromeID(-1, 30); got != "" {
		t.Fatalf("expected empty chrome id for invalid viewport, got %q", got)
	}
}

func stageContent(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "wire")
	if err := os.MkdirAll(filepath.Join(dir, "articles"), 0o755); err != nil {
		t.Fatal(err)
	}
	source := `kind: source
schema_version: 1
source_id: test-wire
name: Test Wire
version: 0.1.0
topics:
  - topic_id: releases
    name: Releases
articles:
  - article_id: art-001
    path: articles/art-001.yaml
`
	article := `kind: article
schema_version: 1
article_id: art-001
headline: Hello
url: https://example.com/art-001
topics: [releases]
published_at: 2026-08-20T09:30:00Z
body_md: |
  Body text.
`
	if err := os.WriteFile(filepath.Join(dir, "source.yaml"), []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "articles", "art-001.yaml"), []byte(article), 0o644); err != nil {
		t.Fatal(err)
	}
	return root
}

func newTestAppAt(t *testing.T, dataDir, contentDir string) *App {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DataDir = dataDir
	cfg.ContentDir = contentDir
	cfg.LogPath = filepath.Join(dataDir, "app.log")
	cfg.Network.ProbeAddr = "127.0.0.1:1"
	cfg.Feed.WatchContent = false
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_ = a.netmon.Close()
	a.netmon = netmon.NewStatic(true)
	return a
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	a := newTestAppAt(t, t.TempDir(), stageContent(t))
	t.Cleanup(a.Close)
	return a
}

func TestBookmarkToggleRoundTrip(t *testing.T) {
	a := newTestApp(t)

	a.OnToggleBookmark("art-001")
	if !a.bookmarked["art-001"] {
		t.Fatalf("expected article bookmarked")
	}
	if saved, err := a.store.IsBookmarked(context.Background(), "art-001"); err != nil || !saved {
		t.Fatalf("store disagrees: saved=%v err=%v", saved, err)
	}

	a.OnToggleBookmark("art-001")
	if a.bookmarked["art-001"] {
		t.Fatalf("expected bookmark removed")
	}
}

func TestFollowTopicPersists(t *testing.T) {
	a := newTestApp(t)

	a.OnToggleFollowTopic("releases")
	followed, err := a.store.ListFollowedTopics(context.Background())
	if err != nil {
		t.Fatalf("ListFollowedTopics: %v", err)
	}
	if len(followed) != 1 || followed[0] != "releases" {
		t.Fatalf("unexpected followed topics %v", followed)
	}

	a.OnToggleFollowTopic("releases")
	followed, err = a.store.ListFollowedTopics(context.Background())
	if err != nil {
		t.Fatalf("ListFollowedTopics: %v", err)
	}
	if len(followed) != 0 {
		t.Fatalf("expected unfollow to persist, got %v", followed)
	}
}

func TestOpenArticleMarksViewedAndRecordsSession(t *testing.T) {
	a := newTestApp(t)

	a.OnOpenArticle("art-001")
	if !a.viewed["art-001"] {
		t.Fatalf("expected article marked viewed")
	}
	count, err := a.store.CountViewed(context.Background())
	if err != nil || count != 1 {
		t.Fatalf("CountViewed=%d err=%v", count, err)
	}

	a.OnResize(155, 40)
	last, err := a.store.GetLastSession(context.Background())
	if err != nil || last == nil {
		t.Fatalf("GetLastSession: %v", err)
	}
	if last.LastChrome != "permanentDrawer" || last.Cols != 155 {
		t.Fatalf("unexpected session %+v", last)
	}
}

func TestViewedMarkersSurviveRestart(t *testing.T) {
	dataDir := t.TempDir()
	contentDir := stageContent(t)

	a := newTestAppAt(t, dataDir, contentDir)
	a.OnOpenArticle("art-001")
	a.Close()

	b := newTestAppAt(t, dataDir, contentDir)
	t.Cleanup(b.Close)
	if err := b.restorePersisted(context.Background()); err != nil {
		t.Fatalf("restorePersisted: %v", err)
	}
	if !b.viewed["art-001"] {
		t.Fatalf("viewed flag lost across restart")
	}
}

func TestStoredSettingsPreferredOverDefaults(t *testing.T) {
	dataDir := t.TempDir()
	contentDir := stageContent(t)

	a := newTestAppAt(t, dataDir, contentDir)
	err := a.store.SaveSettings(context.Background(), map[string]string{
		settingStyleVariant: "mono",
		settingMotionLevel:  "reduced",
	})
	if err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	a.Close()

	b := newTestAppAt(t, dataDir, contentDir)
	t.Cleanup(b.Close)
	if b.cfg.UI.StyleVariant != "mono" || b.cfg.UI.MotionLevel != "reduced" {
		t.Fatalf("stored settings ignored: %+v", b.cfg.UI)
	}

	stored, err := b.store.LoadSettings(context.Background())
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if stored[settingStyleVariant] != "mono" {
		t.Fatalf("effective settings not persisted back: %v", stored)
	}
}

func TestApplyStoredSettingsFlagWins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UI.StyleVariant = "dawn" // explicit choice, not the default
	applyStoredSettings(&cfg, map[string]string{
		settingStyleVariant: "mono",
		settingMotionLevel:  "reduced",
	})
	if cfg.UI.StyleVariant != "dawn" {
		t.Fatalf("stored setting overrode an explicit value: %q", cfg.UI.StyleVariant)
	}
	if cfg.UI.MotionLevel != "reduced" {
		t.Fatalf("default motion level should defer to store, got %q", cfg.UI.MotionLevel)
	}

	applyStoredSettings(&cfg, map[string]string{settingMotionLevel: "warp"})
	if cfg.UI.MotionLevel != "reduced" {
		t.Fatalf("invalid stored value applied: %q", cfg.UI.MotionLevel)
	}
}

func TestSelectDestinationPersistsForRestore(t *testing.T) {
	a := newTestApp(t)

	a.OnSelectDestination(ui.DestInterests)
	last, err := a.store.GetLastSession(context.Background())
	if err != nil || last == nil {
		t.Fatalf("GetLastSession: %v", err)
	}
	if last.LastDestination != "interests" {
		t.Fatalf("unexpected destination %q", last.LastDestination)
	}

	if err := a.restorePersisted(context.Background()); err != nil {
		t.Fatalf("restorePersisted: %v", err)
	}
	if a.destination != ui.DestInterests {
		t.Fatalf("expected restored destination Interests, got %v", a.destination)
	}
}
