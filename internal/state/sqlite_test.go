package state

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "state.db")
	store, err := NewSQLite(dbPath)
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return store
}

func TestToggleBookmarkFlipsState(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, time.August, 20, 12, 0, 0, 0, time.UTC)

	saved, err := store.ToggleBookmark(ctx, "wire-001-scheduler-latency", now)
	if err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if !saved {
		t.Fatalf("expected bookmark to be saved on first toggle")
	}

	marked, err := store.IsBookmarked(ctx, "wire-001-scheduler-latency")
	if err != nil {
		t.Fatalf("is bookmarked: %v", err)
	}
	if !marked {
		t.Fatalf("expected article to be bookmarked")
	}

	saved, err = store.ToggleBookmark(ctx, "wire-001-scheduler-latency", now)
	if err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if saved {
		t.Fatalf("expected bookmark to be removed on second toggle")
	}

	list, err := store.ListBookmarks(ctx)
	if err != nil {
		t.Fatalf("list bookmarks: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty bookmark list, got %d", len(list))
	}
}

func TestListBookmarksNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, time.August, 20, 12, 0, 0, 0, time.UTC)

	if _, err := store.ToggleBookmark(ctx, "older", base); err != nil {
		t.Fatalf("toggle older: %v", err)
	}
	if _, err := store.ToggleBookmark(ctx, "newer", base.Add(time.Hour)); err != nil {
		t.Fatalf("toggle newer: %v", err)
	}

	list, err := store.ListBookmarks(ctx)
	if err != nil {
		t.Fatalf("list bookmarks: %v", err)
	}
	if len(list) != 2 || list[0].ArticleID != "newer" || list[1].ArticleID != "older" {
		t.Fatalf("unexpected bookmark order: %#v", list)
	}
}

func TestFollowedTopicsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if err := store.SetTopicFollowed(ctx, "tooling", true, now); err != nil {
		t.Fatalf("follow: %v", err)
	}
	// Following twice must not error or duplicate.
	if err := store.SetTopicFollowed(ctx, "tooling", true, now); err != nil {
		t.Fatalf("follow again: %v", err)
	}
	if err := store.SetTopicFollowed(ctx, "releases", true, now); err != nil {
		t.Fatalf("follow second: %v", err)
	}

	topics, err := store.ListFollowedTopics(ctx)
	if err != nil {
		t.Fatalf("list followed: %v", err)
	}
	if len(topics) != 2 || topics[0] != "releases" || topics[1] != "tooling" {
		t.Fatalf("unexpected followed topics: %v", topics)
	}

	if err := store.SetTopicFollowed(ctx, "tooling", false, now); err != nil {
		t.Fatalf("unfollow: %v", err)
	}
	topics, err = store.ListFollowedTopics(ctx)
	if err != nil {
		t.Fatalf("list after unfollow: %v", err)
	}
	if len(topics) != 1 || topics[0] != "releases" {
		t.Fatalf("unexpected followed topics after unfollow: %v", topics)
	}
}

func TestMarkViewedAccumulates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if err := store.MarkViewed(ctx, "wire-002-sqlite-wal", now); err != nil {
		t.Fatalf("mark viewed: %v", err)
	}
	if err := store.MarkViewed(ctx, "wire-002-sqlite-wal", now); err != nil {
		t.Fatalf("mark viewed again: %v", err)
	}
	if err := store.MarkViewed(ctx, "wire-003-terminal-renderers", now); err != nil {
		t.Fatalf("mark second article: %v", err)
	}

	n, err := store.CountViewed(ctx)
	if err != nil {
		t.Fatalf("count viewed: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 distinct viewed articles, got %d", n)
	}

	ids, err := store.ListViewed(ctx)
	if err != nil {
		t.Fatalf("list viewed: %v", err)
	}
	if len(ids) != 2 || ids[0] != "wire-002-sqlite-wal" || ids[1] != "wire-003-terminal-renderers" {
		t.Fatalf("unexpected viewed ids: %v", ids)
	}
}

func TestRecordSessionUpsertsLatestObservation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	started := time.Date(2026, time.August, 20, 9, 0, 0, 0, time.UTC)

	session := Session{
		SessionID:       "sess-1",
		StartedTS:       started,
		LastDestination: "for_you",
		LastChrome:      "navigationRail",
		Cols:            100,
		Rows:            30,
	}
	if err := store.RecordSession(ctx, session); err != nil {
		t.Fatalf("record session: %v", err)
	}

	session.LastDestination = "interests"
	session.LastChrome = "permanentDrawer"
	session.Cols = 180
	if err := store.RecordSession(ctx, session); err != nil {
		t.Fatalf("record session update: %v", err)
	}

	got, err := store.GetLastSession(ctx)
	if err != nil {
		t.Fatalf("get last session: %v", err)
	}
	if got == nil {
		t.Fatalf("expected a session row")
	}
	if got.LastDestination != "interests" || got.LastChrome != "permanentDrawer" || got.Cols != 180 {
		t.Fatalf("expected updated observation, got %#v", got)
	}

	summary, err := store.GetSummary(ctx)
	if err != nil {
		t.Fatalf("get summary: %v", err)
	}
	if summary.Sessions != 1 {
		t.Fatalf("expected a single session row after upsert, got %d", summary.Sessions)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveSettings(ctx, map[string]string{"ui.style_variant": "dusk", "ui.motion_level": "reduced"}); err != nil {
		t.Fatalf("save settings: %v", err)
	}
	if err := store.SaveSettings(ctx, map[string]string{"ui.style_variant": "dawn"}); err != nil {
		t.Fatalf("overwrite setting: %v", err)
	}

	values, err := store.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if values["ui.style_variant"] != "dawn" || values["ui.motion_level"] != "reduced" {
		t.Fatalf("unexpected settings: %#v", values)
	}
}
