package feed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

type FSLoader struct{}

func NewLoader() *FSLoader { return &FSLoader{} }

// LoadSources reads every source directory under root. A source directory is
// any directory containing a source.yaml; anything else is skipped.
func (l *FSLoader) LoadSources(ctx context.Context, root string) ([]Source, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	sources := make([]Source, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		sourcePath := filepath.Join(root, entry.Name())
		sourceYAML := filepath.Join(sourcePath, "source.yaml")
		if _, err := os.Stat(sourceYAML); err != nil {
			continue
		}
		source, err := readSource(sourceYAML)
		if err != nil {
			return nil, fmt.Errorf("load source %s: %w", sourcePath, err)
		}
		source.Path = sourcePath
		applySourceDefaults(&source)

		articles, err := l.readArticles(ctx, source)
		if err != nil {
			return nil, err
		}
		source.LoadedArticles = articles
		sources = append(sources, source)
	}

	sort.Slice(sources, func(i, j int) bool { return sources[i].SourceID < sources[j].SourceID })
	return sources, nil
}

func readSource(path string) (Source, error) {
	var source Source
	b, err := os.ReadFile(path)
	if err != nil {
		return source, err
	}
	if err := yaml.Unmarshal(b, &source); err != nil {
		return source, err
	}
	if err := source.Validate(); err != nil {
		return source, err
	}
	return source, nil
}

func applySourceDefaults(source *Source) {
	if source.Defaults.Reader.WordWrap <= 0 {
		source.Defaults.Reader.WordWrap = 78
	}
	if source.Defaults.Reader.ReadMinutes <= 0 {
		source.Defaults.Reader.ReadMinutes = 4
	}
	if source.Defaults.Refresh.DebounceMS <= 0 {
		source.Defaults.Refresh.DebounceMS = 250
	}
}

func (l *FSLoader) readArticles(ctx context.Context, source Source) ([]Article, error) {
	if len(source.Articles) > 0 {
		return l.readArticlesFromManifest(ctx, source)
	}
	return l.readArticlesFromScan(ctx, source)
}

func (l *FSLoader) readArticlesFromManifest(_ context.Context, source Source) ([]Article, error) {
	articles := make([]Article, 0, len(source.Articles))
	for _, ref := range source.Articles {
		if ref.Enabled != nil && !*ref.Enabled {
			continue
		}
		path := filepath.Join(source.Path, ref.Path)
		article, err := loadArticleFile(path)
		if err != nil {
			return nil, err
		}
		if article.ArticleID != ref.ArticleID {
			return nil, fmt.Errorf("article id mismatch for %s: manifest=%s file=%s", path, ref.ArticleID, article.ArticleID)
		}
		hydrateArticle(&article, source, path)
		articles = append(articles, article)
	}
	return articles, nil
}

func (l *FSLoader) readArticlesFromScan(_ context.Context, source Source) ([]Article, error) {
	articleRoot := filepath.Join(source.Path, "articles")
	entries, err := os.ReadDir(articleRoot)
	if err != nil {
		return nil, err
	}
	articles := make([]Article, 0)
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(articleRoot, e.Name())
		article, err := loadArticleFile(path)
		if err != nil {
			return nil, err
		}
		hydrateArticle(&article, source, path)
		articles = append(articles, article)
	}
	sort.Slice(articles, func(i, j int) bool {
		if !articles[i].PublishedAt.Equal(articles[j].PublishedAt) {
			return articles[i].PublishedAt.After(articles[j].PublishedAt)
		}
		return articles[i].ArticleID < articles[j].ArticleID
	})
	return articles, nil
}

func loadArticleFile(path string) (Article, error) {
	var article Article
	b, err := os.ReadFile(path)
	if err != nil {
		return article, err
	}
	if err := yaml.Unmarshal(b, &article); err != nil {
		return article, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := article.Validate(); err != nil {
		return article, fmt.Errorf("validate %s: %w", path, err)
	}
	return article, nil
}

func hydrateArticle(article *Article, source Source, path string) {
	article.SourceID = source.SourceID
	article.Path = path
	if article.ReadMinutes <= 0 {
		article.ReadMinutes = source.Defaults.Reader.ReadMinutes
	}
}

// FindArticle locates an article by id across all loaded sources.
func (l *FSLoader) FindArticle(sources []Source, articleID string) (Source, Article, error) {
	for _, source := range sources {
		for _, article := range source.LoadedArticles {
			if article.ArticleID == articleID {
				return source, article, nil
			}
		}
	}
	return Source{}, Article{}, fmt.Errorf("article %q not found", articleID)
}

// AllTopics merges the topic tables of every source, deduplicated by id and
// sorted by name.
func AllTopics(sources []Source) []Topic {
	seen := map[string]struct{}{}
	topics := make([]Topic, 0)
	for _, source := range sources {
		for _, topic := range source.Topics {
			if _, ok := seen[topic.TopicID]; ok {
				continue
			}
			seen[topic.TopicID] = struct{}{}
			topics = append(topics, topic)
		}
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].Name < topics[j].Name })
	return topics
}
