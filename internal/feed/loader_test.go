package feed

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestBuiltinWireSourceLoadsExpectedArticles(t *testing.T) {
	loader := NewLoader()
	contentRoot := filepath.Join("..", "..", "content")
	sources, err := loader.LoadSources(context.Background(), contentRoot)
	if err != nil {
		t.Fatalf("load sources: %v", err)
	}

	var builtin *Source
	for i := range sources {
		if sources[i].SourceID == "builtin-wire" {
			builtin = &sources[i]
			break
		}
	}
	if builtin == nil {
		t.Fatalf("builtin-wire source not found")
	}
	if len(builtin.LoadedArticles) != 4 {
		t.Fatalf("expected 4 articles, got %d", len(builtin.LoadedArticles))
	}

	got := make([]string, 0, len(builtin.LoadedArticles))
	for _, a := range builtin.LoadedArticles {
		got = append(got, a.ArticleID)
	}
	want := []string{
		"wire-001-scheduler-latency",
		"wire-002-sqlite-wal",
		"wire-003-terminal-renderers",
		"wire-004-release-train",
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("article order mismatch at %d: got %q want %q", i, got[i], want[i])
		}
	}
	if builtin.LoadedArticles[0].SourceID != "builtin-wire" {
		t.Fatalf("expected hydrated source id, got %q", builtin.LoadedArticles[0].SourceID)
	}
	if builtin.LoadedArticles[0].ReadMinutes != 6 {
		t.Fatalf("expected explicit read_minutes to survive, got %d", builtin.LoadedArticles[0].ReadMinutes)
	}
}

func TestLoadSourcesScanModeOrdersByPublishedAtDesc(t *testing.T) {
	root := t.TempDir()
	sourceDir := filepath.Join(root, "scratch")
	articleDir := filepath.Join(sourceDir, "articles")
	if err := os.MkdirAll(articleDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(sourceDir, "source.yaml"), `
kind: source
schema_version: 1
source_id: scratch-pad
name: Scratch
version: 0.0.1
`)
	writeFile(t, filepath.Join(articleDir, "older.yaml"), `
kind: article
schema_version: 1
article_id: scratch-older
headline: Older story
body_md: older body
published_at: 2026-01-01T00:00:00Z
`)
	writeFile(t, filepath.Join(articleDir, "newer.yaml"), `
kind: article
schema_version: 1
article_id: scratch-newer
headline: Newer story
body_md: newer body
published_at: 2026-06-01T00:00:00Z
`)

	sources, err := NewLoader().LoadSources(context.Background(), root)
	if err != nil {
		t.Fatalf("load sources: %v", err)
	}
	if len(sources) != 1 {
		t.Fatalf("expected 1 source, got %d", len(sources))
	}
	articles := sources[0].LoadedArticles
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
	if articles[0].ArticleID != "scratch-newer" || articles[1].ArticleID != "scratch-older" {
		t.Fatalf("expected newest-first order, got %q then %q", articles[0].ArticleID, articles[1].ArticleID)
	}
	if articles[0].ReadMinutes != 4 {
		t.Fatalf("expected default read_minutes 4, got %d", articles[0].ReadMinutes)
	}
}

func TestFindArticleAcrossSources(t *testing.T) {
	loader := NewLoader()
	sources := []Source{
		{
			SourceID: "a",
			LoadedArticles: []Article{
				{ArticleID: "a-one", Headline: "one"},
			},
		},
		{
			SourceID: "b",
			LoadedArticles: []Article{
				{ArticleID: "b-two", Headline: "two"},
			},
		},
	}
	source, article, err := loader.FindArticle(sources, "b-two")
	if err != nil {
		t.Fatalf("find article: %v", err)
	}
	if source.SourceID != "b" || article.Headline != "two" {
		t.Fatalf("unexpected match: source=%q headline=%q", source.SourceID, article.Headline)
	}
	if _, _, err := loader.FindArticle(sources, "missing"); err == nil {
		t.Fatalf("expected error for missing article")
	}
}

func TestAllTopicsDeduplicatesAndSorts(t *testing.T) {
	sources := []Source{
		{Topics: []Topic{{TopicID: "tooling", Name: "Tooling"}, {TopicID: "releases", Name: "Releases"}}},
		{Topics: []Topic{{TopicID: "tooling", Name: "Tooling"}}},
	}
	topics := AllTopics(sources)
	if len(topics) != 2 {
		t.Fatalf("expected 2 topics, got %d", len(topics))
	}
	if topics[0].TopicID != "releases" || topics[1].TopicID != "tooling" {
		t.Fatalf("unexpected topic order: %v", topics)
	}
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}
