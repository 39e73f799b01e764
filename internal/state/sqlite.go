package state

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS bookmarks (
			article_id TEXT PRIMARY KEY,
			saved_ts TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS followed_topics (
			topic_id TEXT PRIMARY KEY,
			followed_ts TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS viewed_articles (
			article_id TEXT PRIMARY KEY,
			first_viewed_ts TEXT NOT NULL,
			view_count INTEGER NOT NULL DEFAULT 1
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			started_ts TEXT NOT NULL,
			last_destination TEXT NOT NULL DEFAULT '',
			last_chrome TEXT NOT NULL DEFAULT '',
			cols INTEGER NOT NULL DEFAULT 0,
			rows INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS app_settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	// Backfill older schemas that predate sessions.last_chrome.
	if _, err := s.db.ExecContext(ctx, `ALTER TABLE sessions ADD COLUMN last_chrome TEXT NOT NULL DEFAULT ''`); err != nil {
		msg := strings.ToLower(err.Error())
		if !strings.Contains(msg, "duplicate column name") {
			return fmt.Errorf("ensure schema alter sessions.last_chrome: %w", err)
		}
	}
	return nil
}

// ToggleBookmark flips the bookmark state for an article and reports the new
// state.
func (s *SQLiteStore) ToggleBookmark(ctx context.Context, articleID string, now time.Time) (bool, error) {
	articleID = strings.TrimSpace(articleID)
	if articleID == "" {
		return false, fmt.Errorf("article id is required")
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE article_id = ?`, articleID)
	if err != nil {
		return false, err
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if removed > 0 {
		return false, nil
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO bookmarks(article_id, saved_ts) VALUES(?, ?)`,
		articleID, now.UTC().Format(timeLayout))
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *SQLiteStore) ListBookmarks(ctx context.Context) ([]Bookmark, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT article_id, saved_ts FROM bookmarks ORDER BY saved_ts DESC, article_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Bookmark, 0)
	for rows.Next() {
		var (
			b     Bookmark
			tsRaw string
		)
		if err := rows.Scan(&b.ArticleID, &tsRaw); err != nil {
			return nil, err
		}
		if t, err := time.Parse(timeLayout, tsRaw); err == nil {
			b.SavedTS = t
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) IsBookmarked(ctx context.Context, articleID string) (bool, error) {
	var n int
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookmarks WHERE article_id = ?`, articleID)
	if err := row.Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLiteStore) SetTopicFollowed(ctx context.Context, topicID string, followed bool, now time.Time) error {
	topicID = strings.TrimSpace(topicID)
	if topicID == "" {
		return nil
	}
	if !followed {
		_, err := s.db.ExecContext(ctx, `DELETE FROM followed_topics WHERE topic_id = ?`, topicID)
		return err
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO followed_topics(topic_id, followed_ts) VALUES(?, ?)
		ON CONFLICT(topic_id) DO NOTHING
	`, topicID, now.UTC().Format(timeLayout))
	return err
}

func (s *SQLiteStore) ListFollowedTopics(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT topic_id FROM followed_topics ORDER BY topic_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) MarkViewed(ctx context.Context, articleID string, now time.Time) error {
	articleID = strings.TrimSpace(articleID)
	if articleID == "" {
		return nil
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO viewed_articles(article_id, first_viewed_ts, view_count)
		VALUES(?, ?, 1)
		ON CONFLICT(article_id) DO UPDATE SET
			view_count = viewed_articles.view_count + 1
	`, articleID, now.UTC().Format(timeLayout))
	return err
}

func (s *SQLiteStore) ListViewed(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT article_id FROM viewed_articles ORDER BY article_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) CountViewed(ctx context.Context) (int, error) {
	var n int
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM viewed_articles`)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// RecordSession upserts the row for the current session so the last
// destination, chrome, and viewport always reflect the latest observation.
func (s *SQLiteStore) RecordSession(ctx context.Context, session Session) error {
	sessionID := strings.TrimSpace(session.SessionID)
	if sessionID == "" {
		return fmt.Errorf("session id is required")
	}
	started := session.StartedTS
	if started.IsZero() {
		started = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET
			last_destination = ?,
			last_chrome = ?,
			cols = ?,
			rows = ?
		WHERE session_id = ?
	`, session.LastDestination, session.LastChrome, session.Cols, session.Rows, sessionID)
	if err != nil {
		return err
	}
	updated, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if updated > 0 {
		return nil
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions(session_id, started_ts, last_destination, last_chrome, cols, rows)
		VALUES(?, ?, ?, ?, ?, ?)
	`, sessionID, started.UTC().Format(timeLayout), session.LastDestination, session.LastChrome, session.Cols, session.Rows)
	return err
}

func (s *SQLiteStore) GetLastSession(ctx context.Context) (*Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT session_id, started_ts, last_destination, last_chrome, cols, rows
		FROM sessions
		ORDER BY id DESC
		LIMIT 1
	`)
	var (
		out        Session
		startedRaw string
	)
	if err := row.Scan(&out.SessionID, &startedRaw, &out.LastDestination, &out.LastChrome, &out.Cols, &out.Rows); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if t, err := time.Parse(timeLayout, startedRaw); err == nil {
		out.StartedTS = t
	}
	return &out, nil
}

func (s *SQLiteStore) SaveSettings(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	for key, value := range values {
		k := strings.TrimSpace(key)
		if k == "" {
			continue
		}
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO app_settings(key, value) VALUES(?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, k, value); err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	return nil
}

func (s *SQLiteStore) LoadSettings(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM app_settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) GetSummary(ctx context.Context) (Summary, error) {
	var out Summary
	row := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM bookmarks) as bookmarks,
			(SELECT COUNT(*) FROM followed_topics) as followed,
			(SELECT COUNT(*) FROM viewed_articles) as viewed,
			(SELECT COUNT(*) FROM sessions) as sessions
	`)
	if err := row.Scan(&out.Bookmarks, &out.FollowedTopics, &out.ViewedArticles, &out.Sessions); err != nil {
		return Summary{}, err
	}
	return out, nil
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

const timeLayout = "2006-01-02T15:04:05Z07:00"

var _ Store = (*SQLiteStore)(nil)
