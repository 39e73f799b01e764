package feed

import "context"

type Loader interface {
	LoadSources(ctx context.Context, root string) ([]Source, error)
	FindArticle(sources []Source, articleID string) (Source, Article, error)
}
