package app

import (
	"sort"

	"newsdeck/internal/feed"
)

// rankForYou orders the combined article pool for the For You destination:
// articles tagged with a followed topic come first, then everything else,
// newest first within each band.
func rankForYou(articles []feed.Article, followed map[string]bool) []feed.Article {
	out := append([]feed.Article(nil), articles...)
	sort.SliceStable(out, func(i, j int) bool {
		fi := touchesFollowed(out[i], followed)
		fj := touchesFollowed(out[j], followed)
		if fi != fj {
			return fi
		}
		return out[i].PublishedAt.After(out[j].PublishedAt)
	})
	return out
}

func touchesFollowed(a feed.Article, followed map[string]bool) bool {
	for _, topicID := range a.Topics {
		if followed[topicID] {
			return true
		}
	}
	return false
}

func allArticles(sources []feed.Source) []feed.Article {
	var out []feed.Article
	for _, s := range sources {
		out = append(out, s.LoadedArticles...)
	}
	return out
}
