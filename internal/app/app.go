package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"newsdeck/internal/devtools"
	"newsdeck/internal/feed"
	"newsdeck/internal/layout"
	"newsdeck/internal/netmon"
	"newsdeck/internal/state"
	"newsdeck/internal/telemetry"
	"newsdeck/internal/ui"

	"github.com/google/uuid"
)

type App struct {
	cfg Config

	logger  *telemetry.JSONLogger
	feedLog *telemetry.JSONLogger
	netLog  *telemetry.JSONLogger
	store   *state.SQLiteStore
	loader  *feed.FSLoader
	watcher *feed.Watcher
	netmon  netmon.Monitor
	demo    *devtools.Manager

	view  *ui.Root
	cells ui.CellMetrics

	sessionID string
	startedAt time.Time

	mu          sync.Mutex
	sources     []feed.Source
	bookmarked  map[string]bool
	followed    map[string]bool
	viewed      map[string]bool
	destination ui.Destination
	readerID    string
	cols        int
	rows        int

	devMu     sync.Mutex
	devServer *http.Server
	demoMu    sync.Mutex
	devState  struct {
		State     string
		Demo      string
		RenderSeq int
		Rendered  bool
		Pending   bool
		Error     string
	}
}

func New(cfg Config) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}

	logger, err := telemetry.NewJSONLogger(cfg.LogPath)
	if err != nil {
		return nil, err
	}

	store, err := state.NewSQLite(filepath.Join(cfg.DataDir, "state.db"))
	if err != nil {
		_ = logger.Close()
		return nil, err
	}
	if err := store.EnsureSchema(context.Background()); err != nil {
		_ = store.Close()
		_ = logger.Close()
		return nil, err
	}

	if stored, err := store.LoadSettings(context.Background()); err != nil {
		logger.Error("settings.load_failed", map[string]any{"error": err.Error()})
	} else {
		applyStoredSettings(&cfg, stored)
	}
	if err := store.SaveSettings(context.Background(), map[string]string{
		settingStyleVariant: cfg.UI.StyleVariant,
		settingMotionLevel:  cfg.UI.MotionLevel,
	}); err != nil {
		logger.Error("settings.save_failed", map[string]any{"error": err.Error()})
	}

	loader := feed.NewLoader()
	sources, err := loader.LoadSources(context.Background(), cfg.ContentDir)
	if err != nil {
		_ = store.Close()
		_ = logger.Close()
		return nil, err
	}
	if len(sources) == 0 {
		_ = store.Close()
		_ = logger.Close()
		return nil, fmt.Errorf("no sources available under %s/", cfg.ContentDir)
	}

	cells := ui.CellMetrics{CellWidth: cfg.UI.CellWidth, CellHeight: cfg.UI.CellHeight}
	view := ui.New(ui.Options{
		ASCIIOnly:    cfg.ASCIIOnly,
		Debug:        cfg.DebugLayout,
		StyleVariant: cfg.UI.StyleVariant,
		MotionLevel:  cfg.UI.MotionLevel,
		Cells:        cells,
	})

	a := &App{
		cfg:         cfg,
		logger:      logger,
		feedLog:     logger.With("feed"),
		netLog:      logger.With("netmon"),
		store:       store,
		loader:      loader,
		netmon:      netmon.NewProber(cfg.Network.ProbeAddr, time.Duration(cfg.Network.ProbeIntervalMS)*time.Millisecond),
		demo:        devtools.NewManager(),
		view:        view,
		cells:       cells,
		sessionID:   uuid.NewString(),
		startedAt:   time.Now().UTC(),
		sources:     sources,
		bookmarked:  map[string]bool{},
		followed:    map[string]bool{},
		viewed:      map[string]bool{},
		destination: ui.DestForYou,
		cols:        120,
		rows:        30,
	}
	view.SetController(a)
	return a, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("app.start", map[string]any{"session": a.sessionID, "content_dir": a.cfg.ContentDir})

	if err := a.restorePersisted(ctx); err != nil {
		a.logger.Error("state.restore_failed", map[string]any{"error": err.Error()})
	}
	if sum, err := a.store.GetSummary(ctx); err == nil {
		a.logger.Info("state.summary", map[string]any{
			"bookmarks": sum.Bookmarks,
			"followed":  sum.FollowedTopics,
			"viewed":    sum.ViewedArticles,
			"sessions":  sum.Sessions,
		})
	}
	a.pushAll()

	a.view.SetOnline(a.netmon.Online())
	a.netmon.Subscribe(func(online bool) {
		a.netLog.Info("network.change", map[string]any{"online": online})
		a.view.SetOnline(online)
		if !online {
			a.view.FlashStatus("Offline: showing cached content")
		}
		a.view.RequestDraw()
	})

	if a.cfg.Feed.WatchContent {
		watcher, err := feed.NewWatcher(time.Duration(a.cfg.Feed.DebounceMS)*time.Millisecond, a.onContentChanged)
		if err != nil {
			a.feedLog.Error("watch.init_failed", map[string]any{"error": err.Error()})
		} else {
			a.watcher = watcher
			a.mu.Lock()
			sources := a.sources
			a.mu.Unlock()
			if err := watcher.Watch(a.cfg.ContentDir, sources); err != nil {
				a.feedLog.Error("watch.start_failed", map[string]any{"error": err.Error()})
			}
		}
	}

	if a.cfg.Dev {
		if err := a.startDevHTTP(); err != nil {
			return err
		}
		if a.cfg.DemoScenario != "" {
			go func() {
				_, err := a.runDemoScenario(context.Background(), a.cfg.DemoScenario)
				if err != nil {
					a.logger.Error("dev.demo.initial_failed", map[string]any{"demo": a.cfg.DemoScenario, "error": err.Error()})
				}
			}()
		} else {
			a.setDevState("browsing", "")
			_ = a.demo.SetState(context.Background(), "", "browsing", true)
		}
	}

	a.persistSession(ctx)
	return a.view.Run()
}

func (a *App) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if a.devServer != nil {
		_ = a.devServer.Shutdown(ctx)
	}
	if a.watcher != nil {
		_ = a.watcher.Close()
	}
	_ = a.netmon.Close()
	a.persistSession(ctx)
	_ = a.store.Close()
	_ = a.logger.Close()
}

// restorePersisted loads bookmarks, followed topics and the last session so
// the shell reopens where the reader left it.
func (a *App) restorePersisted(ctx context.Context) error {
	bookmarks, err := a.store.ListBookmarks(ctx)
	if err != nil {
		return err
	}
	followed, err := a.store.ListFollowedTopics(ctx)
	if err != nil {
		return err
	}
	viewed, err := a.store.ListViewed(ctx)
	if err != nil {
		return err
	}

	a.mu.Lock()
	for _, b := range bookmarks {
		a.bookmarked[b.ArticleID] = true
	}
	for _, id := range followed {
		a.followed[id] = true
	}
	for _, id := range viewed {
		a.viewed[id] = true
	}
	a.mu.Unlock()

	if last, err := a.store.GetLastSession(ctx); err == nil && last != nil {
		if dest, ok := ui.DestinationFromID(last.LastDestination); ok {
			a.mu.Lock()
			a.destination = dest
			a.mu.Unlock()
			a.view.SetDestination(dest)
		}
	}
	return nil
}

func (a *App) onContentChanged() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	sources, err := a.loader.LoadSources(ctx, a.cfg.ContentDir)
	if err != nil {
		a.feedLog.Error("feed.reload_failed", map[string]any{"error": err.Error()})
		a.view.FlashStatus("Content reload failed: " + err.Error())
		return
	}
	a.mu.Lock()
	a.sources = sources
	a.mu.Unlock()
	a.feedLog.Info("feed.reloaded", map[string]any{"sources": len(sources)})
	a.pushAll()
	a.view.FlashStatus("Content updated")
	a.view.RequestDraw()
}

// pushAll rebuilds every destination's rows from the current sources and
// persisted flags and hands them to the view.
func (a *App) pushAll() {
	a.mu.Lock()
	sources := a.sources
	bookmarked := copySet(a.bookmarked)
	followed := copySet(a.followed)
	viewed := copySet(a.viewed)
	a.mu.Unlock()

	names := map[string]string{}
	for _, s := range sources {
		names[s.SourceID] = s.Name
	}

	ranked := rankForYou(allArticles(sources), followed)
	feedRows := make([]ui.ArticleRow, 0, len(ranked))
	for _, art := range ranked {
		feedRows = append(feedRows, articleRow(art, names, bookmarked, viewed))
	}
	a.view.SetFeed(feedRows)

	savedRows := make([]ui.ArticleRow, 0, len(bookmarked))
	if marks, err := a.store.ListBookmarks(context.Background()); err == nil {
		for _, b := range marks {
			if _, art, err := a.loader.FindArticle(sources, b.ArticleID); err == nil {
				savedRows = append(savedRows, articleRow(art, names, bookmarked, viewed))
			}
		}
	}
	a.view.SetSaved(savedRows)

	topics := feed.AllTopics(sources)
	topicRows := make([]ui.TopicRow, 0, len(topics))
	for _, t := range topics {
		topicRows = append(topicRows, ui.TopicRow{
			TopicID:  t.TopicID,
			Name:     t.Name,
			Summary:  t.SummaryMD,
			Followed: followed[t.TopicID],
		})
	}
	a.view.SetTopics(topicRows)
}

func articleRow(art feed.Article, names map[string]string, bookmarked, viewed map[string]bool) ui.ArticleRow {
	return ui.ArticleRow{
		ArticleID:   art.ArticleID,
		Headline:    art.Headline,
		Summary:     art.SummaryMD,
		SourceName:  names[art.SourceID],
		URL:         art.URL,
		Topics:      append([]string(nil), art.Topics...),
		PublishedAt: art.PublishedAt,
		ReadMinutes: art.ReadMinutes,
		Bookmarked:  bookmarked[art.ArticleID],
		Viewed:      viewed[art.ArticleID],
	}
}

func copySet(in map[string]bool) map[string]bool {
	out := make(map[string]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (a *App) OnSelectDestination(dest ui.Destination) {
	a.mu.Lock()
	a.destination = dest
	a.mu.Unlock()
	a.view.SetDestination(dest)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.persistSession(ctx)
}

func (a *App) OnOpenArticle(articleID string) {
	a.mu.Lock()
	sources := a.sources
	a.mu.Unlock()

	source, art, err := a.loader.FindArticle(sources, articleID)
	if err != nil {
		a.view.FlashStatus("article not found: " + err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.store.MarkViewed(ctx, articleID, time.Now().UTC()); err != nil {
		a.logger.Error("state.mark_viewed_failed", map[string]any{"article": articleID, "error": err.Error()})
	}

	a.mu.Lock()
	a.viewed[articleID] = true
	a.readerID = articleID
	bookmarked := a.bookmarked[articleID]
	a.mu.Unlock()

	wordWrap := source.Defaults.Reader.WordWrap
	a.view.SetReader(ui.ReaderState{
		Visible:    true,
		ArticleID:  art.ArticleID,
		Headline:   art.Headline,
		BodyMD:     art.BodyMD,
		URL:        art.URL,
		Bookmarked: bookmarked,
		WordWrap:   wordWrap,
	})
	a.pushAll()
	a.logger.Info("article.opened", map[string]any{"article": articleID, "source": source.SourceID})
	a.setDevState("reading", "")
}

func (a *App) OnCloseArticle() {
	a.mu.Lock()
	a.readerID = ""
	a.mu.Unlock()
	a.view.SetReader(ui.ReaderState{})
	a.setDevState("browsing", "")
}

func (a *App) OnToggleBookmark(articleID string) {
	if articleID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	saved, err := a.store.ToggleBookmark(ctx, articleID, time.Now().UTC())
	if err != nil {
		a.view.FlashStatus("bookmark failed: " + err.Error())
		return
	}

	a.mu.Lock()
	a.bookmarked[articleID] = saved
	readerOpen := a.readerID == articleID
	a.mu.Unlock()

	if saved {
		a.view.FlashStatus("Saved")
	} else {
		a.view.FlashStatus("Removed from Saved")
	}
	if readerOpen {
		a.mu.Lock()
		sources := a.sources
		a.mu.Unlock()
		if source, art, err := a.loader.FindArticle(sources, articleID); err == nil {
			a.view.SetReader(ui.ReaderState{
				Visible:    true,
				ArticleID:  art.ArticleID,
				Headline:   art.Headline,
				BodyMD:     art.BodyMD,
				URL:        art.URL,
				Bookmarked: saved,
				WordWrap:   source.Defaults.Reader.WordWrap,
			})
		}
	}
	a.pushAll()
	a.logger.Info("bookmark.toggled", map[string]any{"article": articleID, "saved": saved})
}

func (a *App) OnToggleFollowTopic(topicID string) {
	if topicID == "" {
		return
	}
	a.mu.Lock()
	next := !a.followed[topicID]
	a.followed[topicID] = next
	a.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.store.SetTopicFollowed(ctx, topicID, next, time.Now().UTC()); err != nil {
		a.view.FlashStatus("follow failed: " + err.Error())
		return
	}
	if next {
		a.view.FlashStatus("Following " + topicID)
	} else {
		a.view.FlashStatus("Unfollowed " + topicID)
	}
	a.pushAll()
	a.logger.Info("topic.follow_toggled", map[string]any{"topic": topicID, "followed": next})
}

func (a *App) OnRefresh() {
	a.view.SetSyncing(true)
	defer a.view.SetSyncing(false)
	if !a.netmon.Online() {
		a.view.FlashStatus("Offline: refreshed from local content only")
	}
	a.onContentChanged()
}

func (a *App) OnResize(cols, rows int) {
	a.mu.Lock()
	a.cols = cols
	a.rows = rows
	a.mu.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.persistSession(ctx)
}

func (a *App) OnQuit() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.persistSession(ctx)
	a.view.Stop()
}

// persistSession records the current destination, viewport and mounted
// chrome identifier so the next launch (and external tooling) can see them.
func (a *App) persistSession(ctx context.Context) {
	a.mu.Lock()
	session := state.Session{
		SessionID:       a.sessionID,
		StartedTS:       a.startedAt,
		LastDestination: a.destination.ID(),
		LastChrome:      a.chromeID(a.cols, a.rows),
		Cols:            a.cols,
		Rows:            a.rows,
	}
	a.mu.Unlock()
	if err := a.store.RecordSession(ctx, session); err != nil {
		a.logger.Error("state.record_session_failed", map[string]any{"error": err.Error()})
	}
}

// chromeID reports the navigation chrome the current viewport selects, or
// an empty string when the viewport is unclassifiable.
func (a *App) chromeID(cols, rows int) string {
	dim, err := a.cells.Dimension(cols, rows)
	if err != nil {
		return ""
	}
	return layout.SelectNavigation(layout.ClassifyDimension(dim).Width).ID()
}

func (a *App) setDevState(state, demo string) {
	a.devMu.Lock()
	defer a.devMu.Unlock()
	a.devState.State = state
	a.devState.Demo = demo
	a.devState.Rendered = true
	a.devState.Pending = false
	a.devState.Error = ""
	a.devState.RenderSeq++
}

func (a *App) setDevPending(state, demo string) {
	a.devMu.Lock()
	defer a.devMu.Unlock()
	a.devState.State = state
	a.devState.Demo = demo
	a.devState.Rendered = false
	a.devState.Pending = true
	a.devState.Error = ""
	a.devState.RenderSeq++
}

func (a *App) setDevError(state, demo, errText string) {
	a.devMu.Lock()
	defer a.devMu.Unlock()
	a.devState.State = state
	a.devState.Demo = demo
	a.devState.Rendered = false
	a.devState.Pending = false
	a.devState.Error = errText
	a.devState.RenderSeq++
}

func (a *App) getDevState() map[string]any {
	a.devMu.Lock()
	defer a.devMu.Unlock()
	return map[string]any{
		"ok":         true,
		"state":      a.devState.State,
		"demo":       a.devState.Demo,
		"render_seq": a.devState.RenderSeq,
		"rendered":   a.devState.Rendered,
		"pending":    a.devState.Pending,
		"error":      a.devState.Error,
	}
}

// applyDemoScenario walks a scripted viewport tour so screenshot tooling can
// capture each chrome variant deterministically.
func (a *App) applyDemoScenario(ctx context.Context, scenario devtools.Scenario) error {
	for _, step := range scenario.Steps {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if step.Cols > 0 && step.Rows > 0 {
			a.view.Resize(step.Cols, step.Rows)
		}
		if step.Destination != "" {
			if dest, ok := ui.DestinationFromID(step.Destination); ok {
				a.mu.Lock()
				a.destination = dest
				a.mu.Unlock()
				a.view.SetDestination(dest)
			}
		}
		a.view.RequestDraw()
		if step.Delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(step.Delay):
			}
		}
	}
	return nil
}

func (a *App) runDemoScenario(ctx context.Context, requested string) (string, error) {
	scenario := a.demo.Resolve(requested)
	a.logger.Info("dev.demo.dispatch.begin", map[string]any{"requested": requested, "resolved": scenario.Name})
	a.setDevPending(scenario.Name, requested)

	a.demoMu.Lock()
	defer a.demoMu.Unlock()

	if err := a.applyDemoScenario(ctx, scenario); err != nil {
		a.logger.Error("dev.demo.dispatch.apply_failed", map[string]any{"requested": requested, "resolved": scenario.Name, "error": err.Error()})
		a.setDevError(scenario.Name, requested, err.Error())
		_ = a.demo.SetState(ctx, "", scenario.Name, false)
		return scenario.Name, err
	}
	a.logger.Info("dev.demo.dispatch.done", map[string]any{"requested": requested, "resolved": scenario.Name})
	a.setDevState(scenario.Name, scenario.Name)
	if err := a.demo.SetState(ctx, "", scenario.Name, true); err != nil {
		a.logger.Error("dev_state.write_failed", map[string]any{"state": scenario.Name, "error": err.Error()})
	}
	return scenario.Name, nil
}

func (a *App) startDevHTTP() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/__dev/ready", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(a.getDevState())
	})
	mux.HandleFunc("/__dev/demo", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Demo string `json:"demo"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "invalid json"})
			return
		}
		req.Demo = strings.TrimSpace(req.Demo)
		if req.Demo == "" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "demo is required"})
			return
		}
		a.logger.Info("dev.demo.request", map[string]any{"demo": req.Demo})

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		resolved, err := a.runDemoScenario(ctx, req.Demo)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": err.Error(), "state": resolved})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "state": resolved, "requested": req.Demo})
	})

	a.devServer = &http.Server{Addr: a.cfg.DevHTTP, Handler: mux}
	a.setDevState("browsing", a.cfg.DemoScenario)
	go func() {
		if err := a.devServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("dev_http.listen_failed", map[string]any{"error": err.Error(), "addr": a.cfg.DevHTTP})
		}
	}()
	return nil
}

var _ ui.Controller = (*App)(nil)
