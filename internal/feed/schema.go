package feed

import (
	"fmt"
	"regexp"
	"time"
)

const (
	SourceKind             = "source"
	ArticleKind            = "article"
	SupportedSchemaVersion = 1
)

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{2,63}$`)

type Source struct {
	Kind          string             `yaml:"kind"`
	SchemaVersion int                `yaml:"schema_version"`
	SourceID      string             `yaml:"source_id"`
	Name          string             `yaml:"name"`
	Version       string             `yaml:"version"`
	DescriptionMD string             `yaml:"description_md"`
	Topics        []Topic            `yaml:"topics"`
	Defaults      SourceDefaults     `yaml:"defaults"`
	Articles      []SourceArticleRef `yaml:"articles"`
	Extensions    map[string]any     `yaml:"extensions"`

	Path           string    `yaml:"-"`
	LoadedArticles []Article `yaml:"-"`
}

type Topic struct {
	TopicID   string `yaml:"topic_id"`
	Name      string `yaml:"name"`
	SummaryMD string `yaml:"summary_md"`
}

type SourceDefaults struct {
	Reader  ReaderSpec  `yaml:"reader"`
	Refresh RefreshSpec `yaml:"refresh"`
}

type ReaderSpec struct {
	WordWrap    int `yaml:"word_wrap"`
	ReadMinutes int `yaml:"read_minutes"`
}

type RefreshSpec struct {
	DebounceMS int `yaml:"debounce_ms"`
}

type SourceArticleRef struct {
	ArticleID string `yaml:"article_id"`
	Path      string `yaml:"path"`
	Enabled   *bool  `yaml:"enabled"`
}

type Article struct {
	Kind          string         `yaml:"kind"`
	SchemaVersion int            `yaml:"schema_version"`
	ArticleID     string         `yaml:"article_id"`
	Headline      string         `yaml:"headline"`
	SummaryMD     string         `yaml:"summary_md"`
	BodyMD        string         `yaml:"body_md"`
	URL           string         `yaml:"url"`
	Topics        []string       `yaml:"topics"`
	PublishedAt   time.Time      `yaml:"published_at"`
	ReadMinutes   int            `yaml:"read_minutes"`
	Extensions    map[string]any `yaml:"extensions"`

	SourceID string `yaml:"-"`
	Path     string `yaml:"-"`
}

func (s Source) Validate() error {
	if s.Kind != SourceKind {
		return fmt.Errorf("kind must be %q", SourceKind)
	}
	if s.SchemaVersion == 0 {
		return fmt.Errorf("schema_version is required")
	}
	if s.SchemaVersion > SupportedSchemaVersion {
		return fmt.Errorf("unsupported source schema_version %d (max supported %d)", s.SchemaVersion, SupportedSchemaVersion)
	}
	if !idPattern.MatchString(s.SourceID) {
		return fmt.Errorf("invalid source_id %q", s.SourceID)
	}
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Version == "" {
		return fmt.Errorf("version is required")
	}
	seenTopics := map[string]struct{}{}
	for _, topic := range s.Topics {
		if !idPattern.MatchString(topic.TopicID) {
			return fmt.Errorf("invalid topic_id %q", topic.TopicID)
		}
		if topic.Name == "" {
			return fmt.Errorf("topics[%s].name is required", topic.TopicID)
		}
		if _, ok := seenTopics[topic.TopicID]; ok {
			return fmt.Errorf("duplicate topic_id %q", topic.TopicID)
		}
		seenTopics[topic.TopicID] = struct{}{}
	}
	seenArticles := map[string]struct{}{}
	for _, ref := range s.Articles {
		if ref.ArticleID == "" {
			return fmt.Errorf("articles[].article_id is required")
		}
		if _, ok := seenArticles[ref.ArticleID]; ok {
			return fmt.Errorf("duplicate article_id %q in source.yaml", ref.ArticleID)
		}
		seenArticles[ref.ArticleID] = struct{}{}
	}
	return nil
}

func (a Article) Validate() error {
	if a.Kind != ArticleKind {
		return fmt.Errorf("kind must be %q", ArticleKind)
	}
	if a.SchemaVersion == 0 {
		return fmt.Errorf("schema_version is required")
	}
	if a.SchemaVersion > SupportedSchemaVersion {
		return fmt.Errorf("unsupported article schema_version %d (max supported %d)", a.SchemaVersion, SupportedSchemaVersion)
	}
	if !idPattern.MatchString(a.ArticleID) {
		return fmt.Errorf("invalid article_id %q", a.ArticleID)
	}
	if a.Headline == "" {
		return fmt.Errorf("headline is required")
	}
	if a.BodyMD == "" {
		return fmt.Errorf("body_md is required")
	}
	for _, topicID := range a.Topics {
		if !idPattern.MatchString(topicID) {
			return fmt.Errorf("invalid topic reference %q", topicID)
		}
	}
	return nil
}
