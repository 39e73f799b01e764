package state

import (
	"context"
	"time"
)

type Store interface {
	EnsureSchema(ctx context.Context) error
	ToggleBookmark(ctx context.Context, articleID string, now time.Time) (bool, error)
	ListBookmarks(ctx context.Context) ([]Bookmark, error)
	IsBookmarked(ctx context.Context, articleID string) (bool, error)
	SetTopicFollowed(ctx context.Context, topicID string, followed bool, now time.Time) error
	ListFollowedTopics(ctx context.Context) ([]string, error)
	MarkViewed(ctx context.Context, articleID string, now time.Time) error
	ListViewed(ctx context.Context) ([]string, error)
	CountViewed(ctx context.Context) (int, error)
	RecordSession(ctx context.Context, session Session) error
	GetLastSession(ctx context.Context) (*Session, error)
	SaveSettings(ctx context.Context, values map[string]string) error
	LoadSettings(ctx context.Context) (map[string]string, error)
	GetSummary(ctx context.Context) (Summary, error)
	Close() error
}

type Bookmark struct {
	ArticleID string
	SavedTS   time.Time
}

// Session records the shell's last observed state so the next launch can
// restore the destination and report the prior viewport.
type Session struct {
	SessionID       string
	StartedTS       time.Time
	LastDestination string
	LastChrome      string
	Cols            int
	Rows            int
}

type Summary struct {
	Bookmarks      int
	FollowedTopics int
	ViewedArticles int
	Sessions       int
}
