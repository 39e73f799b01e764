package ui

import (
	"fmt"
	"os"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"newsdeck/internal/layout"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/harmonica"
	clog "github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"
	"github.com/sahilm/fuzzy"
)

type applyMsg struct {
	fn func(*Root)
}

type drawMsg struct{}
type clockMsg time.Time
type animateMsg time.Time

type deckKeyMap struct {
	NextDest key.Binding
	Open     key.Binding
	Bookmark key.Binding
	Follow   key.Binding
	Search   key.Binding
	Refresh  key.Binding
	Copy     key.Binding
	Quit     key.Binding
}

func (k deckKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextDest, k.Open, k.Bookmark, k.Follow, k.Search, k.Refresh, k.Quit}
}

func (k deckKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.NextDest, k.Open, k.Bookmark, k.Follow}, {k.Search, k.Refresh, k.Copy, k.Quit}}
}

type Root struct {
	theme        Theme
	ascii        bool
	debug        bool
	ctrl         Controller
	styleVariant string
	motionLevel  string
	cells        CellMetrics

	mu      sync.Mutex
	program *tea.Program
	running bool

	destination Destination
	windowClass layout.WindowClass
	nav         chrome
	cols        int
	rows        int

	feed   []ArticleRow
	saved  []ArticleRow
	topics []TopicRow
	reader ReaderState

	cursor      [3]int
	online      bool
	syncing     bool
	statusFlash string

	searchActive bool
	searchQuery  string

	help     help.Model
	keymap   deckKeyMap
	syncSpin spinner.Model
	markdown *glamour.TermRenderer
	logger   *clog.Logger

	overlayPos float64
	overlayVel float64
	spring     harmonica.Spring

	drawPending atomic.Bool

	lastInputEvent string
}

type Options struct {
	ASCIIOnly    bool
	Debug        bool
	StyleVariant string
	MotionLevel  string
	Cells        CellMetrics
}

func New(opts Options) *Root {
	logger := clog.NewWithOptions(os.Stderr, clog.Options{Prefix: "newsdeck-ui", Level: clog.WarnLevel})
	if opts.Debug {
		logger.SetLevel(clog.DebugLevel)
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(78),
	)
	if err != nil {
		renderer = nil
	}

	h := help.New()
	h.Styles = help.DefaultDarkStyles()
	motionLevel := normalizeMotionLevel(opts.MotionLevel)
	styleVariant := normalizeStyleVariant(opts.StyleVariant)
	theme := ThemeForVariant(styleVariant)
	spring := harmonica.NewSpring(harmonica.FPS(60), 10.0, 0.8)
	switch motionLevel {
	case "reduced":
		spring = harmonica.NewSpring(harmonica.FPS(30), 9.0, 0.92)
	case "off":
		spring = harmonica.NewSpring(harmonica.FPS(60), 1000.0, 1.0)
	}
	syncSpin := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(theme.Accent),
	)

	cols, rows := 120, 30
	cells := opts.Cells.normalized()
	dim, _ := cells.Dimension(cols, rows)
	class := layout.ClassifyDimension(dim)

	r := &Root{
		theme:        theme,
		ascii:        opts.ASCIIOnly,
		debug:        opts.Debug,
		styleVariant: styleVariant,
		motionLevel:  motionLevel,
		cells:        cells,
		destination:  DestForYou,
		windowClass:  class,
		nav:          mountChrome(layout.SelectNavigation(class.Width)),
		cols:         cols,
		rows:         rows,
		online:       true,
		help:         h,
		syncSpin:     syncSpin,
		markdown:     renderer,
		logger:       logger,
		spring:       spring,
	}
	r.keymap = deckKeyMap{
		NextDest: key.NewBinding(key.WithKeys("tab"), key.WithHelp("Tab", "Next")),
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Open")),
		Bookmark: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "Save")),
		Follow:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "Follow")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "Search")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "Refresh")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "Copy URL")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+q"), key.WithHelp("Ctrl+Q", "Quit")),
	}
	return r
}

func (r *Root) Init() tea.Cmd {
	return tea.Batch(clockTickCmd(), animateTickCmd(), spinnerTickCmd(r.syncSpin))
}

func (r *Root) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	defer func() {
		if rec := recover(); rec != nil {
			r.onModelPanic("update", rec, msg)
			model = r
			cmd = nil
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.resize(msg.Width, msg.Height)
		return r, nil
	case applyMsg:
		if msg.fn != nil {
			msg.fn(r)
		}
		return r, r.animateIfNeeded()
	case drawMsg:
		r.drawPending.Store(false)
		return r, nil
	case clockMsg:
		return r, clockTickCmd()
	case animateMsg:
		target := 0.0
		if r.reader.Visible {
			target = 1.0
		}
		r.overlayPos, r.overlayVel = r.spring.Update(r.overlayPos, r.overlayVel, target)
		if r.shouldAnimate(target) {
			return r, animateTickCmd()
		}
		r.overlayPos = target
		r.overlayVel = 0
		return r, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		r.syncSpin, cmd = r.syncSpin.Update(msg)
		return r, cmd
	case tea.KeyPressMsg:
		return r.handleKey(msg)
	}
	return r, nil
}

// resize reclassifies the viewport and remounts the navigation chrome.
// Invalid cell counts (a misbehaving terminal reporting negatives) leave the
// previous chrome in place and surface on the status line.
func (r *Root) resize(cols, rows int) {
	r.cols = cols
	r.rows = rows
	dim, err := r.cells.Dimension(cols, rows)
	if err != nil {
		r.logger.Error("viewport rejected", "cols", cols, "rows", rows, "err", err)
		r.statusFlash = "Invalid viewport size reported by terminal"
		return
	}
	class := layout.ClassifyDimension(dim)
	if class != r.windowClass || !r.nav.mounted() {
		r.windowClass = class
		r.nav = mountChrome(layout.SelectNavigation(class.Width))
	}
	r.dispatchController(func(c Controller) { c.OnResize(cols, rows) })
}

func (r *Root) View() (view tea.View) {
	defer func() {
		if rec := recover(); rec != nil {
			r.onModelPanic("view", rec, nil)
			width := max(1, r.cols)
			msg := "UI recovered from a rendering panic. Check logs."
			if r.statusFlash == "" {
				r.statusFlash = "Recovered UI panic"
			}
			view = tea.NewView(r.theme.Offline.Width(width).Render(trimForWidth(msg, max(1, width-1))))
		}
	}()

	if r.cols < 1 {
		r.cols = 120
	}
	if r.rows < 1 {
		r.rows = 30
	}

	base := r.renderScreen()
	if overlay := r.renderReaderOverlay(); overlay != "" {
		base = composeOverlay(base, overlay, r.cols, r.rows)
	}
	v := tea.NewView(base)
	v.AltScreen = true
	v.DisableBracketedPasteMode = false
	return v
}

func (r *Root) Run() error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	p := tea.NewProgram(r)
	r.program = p
	r.running = true
	r.mu.Unlock()

	_, err := p.Run()

	r.mu.Lock()
	r.program = nil
	r.running = false
	r.mu.Unlock()
	return err
}

func (r *Root) Stop() {
	r.mu.Lock()
	p := r.program
	r.mu.Unlock()
	if p != nil {
		p.Quit()
	}
}

func (r *Root) SetController(c Controller) {
	r.ctrl = c
}

// Resize is the programmatic path used by scripted demos; interactive
// resizes arrive as tea.WindowSizeMsg.
func (r *Root) Resize(cols, rows int) {
	r.apply(func(m *Root) {
		m.resize(cols, rows)
	})
}

func (r *Root) SetDestination(dest Destination) {
	r.apply(func(m *Root) {
		m.destination = dest
		m.searchActive = false
		m.searchQuery = ""
	})
}

func (r *Root) SetFeed(rows []ArticleRow) {
	r.apply(func(m *Root) {
		m.feed = append([]ArticleRow(nil), rows...)
		m.clampCursor(DestForYou)
	})
}

func (r *Root) SetSaved(rows []ArticleRow) {
	r.apply(func(m *Root) {
		m.saved = append([]ArticleRow(nil), rows...)
		m.clampCursor(DestSaved)
	})
}

func (r *Root) SetTopics(rows []TopicRow) {
	r.apply(func(m *Root) {
		m.topics = append([]TopicRow(nil), rows...)
		m.clampCursor(DestInterests)
	})
}

func (r *Root) SetReader(state ReaderState) {
	r.apply(func(m *Root) {
		m.reader = state
		if m.motionLevel == "off" {
			if state.Visible {
				m.overlayPos = 1
			} else {
				m.overlayPos = 0
			}
			m.overlayVel = 0
		}
	})
}

func (r *Root) SetOnline(online bool) {
	r.apply(func(m *Root) {
		m.online = online
	})
}

func (r *Root) SetSyncing(syncing bool) {
	r.apply(func(m *Root) {
		m.syncing = syncing
	})
}

func (r *Root) FlashStatus(msg string) {
	r.apply(func(m *Root) {
		m.statusFlash = msg
	})
}

func (r *Root) RequestDraw() {
	r.mu.Lock()
	p := r.program
	running := r.running
	r.mu.Unlock()
	if !running || p == nil {
		return
	}
	if !r.drawPending.CompareAndSwap(false, true) {
		return
	}
	time.AfterFunc(16*time.Millisecond, func() {
		r.mu.Lock()
		p := r.program
		running := r.running
		r.mu.Unlock()
		if !running || p == nil {
			r.drawPending.Store(false)
			return
		}
		p.Send(drawMsg{})
	})
}

func (r *Root) apply(fn func(*Root)) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	p := r.program
	running := r.running
	if !running || p == nil {
		fn(r)
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()
	p.Send(applyMsg{fn: fn})
}

func (r *Root) dispatchController(fn func(Controller)) {
	if fn == nil || r.ctrl == nil {
		return
	}
	ctrl := r.ctrl
	go fn(ctrl)
}

func (r *Root) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	r.recordInputEvent(fmt.Sprintf("key:%v mod:%v text:%q", msg.Code, msg.Mod, msg.Text))

	if key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+q"))) {
		r.dispatchController(func(c Controller) { c.OnQuit() })
		return r, nil
	}

	if r.reader.Visible {
		return r.handleReaderKey(msg)
	}
	if r.searchActive {
		return r.handleSearchKey(msg)
	}
	return r.handleListKey(msg)
}

func (r *Root) handleReaderKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Code == tea.KeyEsc || msg.Code == tea.KeyEscape ||
		(msg.Mod == 0 && (msg.Code == 'q' || msg.Code == 'Q')):
		r.dispatchController(func(c Controller) { c.OnCloseArticle() })
		return r, r.animateIfNeeded()
	case msg.Mod == 0 && msg.Code == 'b':
		id := r.reader.ArticleID
		r.dispatchController(func(c Controller) { c.OnToggleBookmark(id) })
		return r, nil
	case msg.Mod == 0 && (msg.Code == 'y' || msg.Code == 'Y'):
		url := strings.TrimSpace(r.reader.URL)
		if url == "" {
			return r, nil
		}
		r.statusFlash = "Copied article URL"
		return r, tea.SetClipboard(url)
	}
	return r, nil
}

func (r *Root) handleSearchKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.Code {
	case tea.KeyEsc:
		r.searchActive = false
		r.searchQuery = ""
		return r, nil
	case tea.KeyEnter:
		r.searchActive = false
		return r, nil
	case tea.KeyBackspace:
		if q := []rune(r.searchQuery); len(q) > 0 {
			r.searchQuery = string(q[:len(q)-1])
		}
		r.clampCursor(DestInterests)
		return r, nil
	}
	if msg.Text != "" && !strings.ContainsAny(msg.Text, "\x00\n\r") {
		r.searchQuery += msg.Text
		r.cursor[DestInterests] = 0
	}
	return r, nil
}

func (r *Root) handleListKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	dests := Destinations()
	switch msg.Code {
	case tea.KeyTab:
		next := dests[wrapIndex(int(r.destination)+1, len(dests))]
		if msg.Mod&tea.ModShift != 0 {
			next = dests[wrapIndex(int(r.destination)-1, len(dests))]
		}
		r.dispatchController(func(c Controller) { c.OnSelectDestination(next) })
		return r, nil
	case '1', '2', '3':
		next := dests[int(msg.Code-'1')]
		r.dispatchController(func(c Controller) { c.OnSelectDestination(next) })
		return r, nil
	case tea.KeyUp:
		r.moveCursor(-1)
		return r, nil
	case tea.KeyDown:
		r.moveCursor(1)
		return r, nil
	case tea.KeyEnter:
		return r.activateSelection()
	case tea.KeyEsc:
		if r.searchQuery != "" {
			r.searchQuery = ""
			r.clampCursor(DestInterests)
			return r, nil
		}
		r.dispatchController(func(c Controller) { c.OnQuit() })
		return r, nil
	}

	if msg.Mod != 0 {
		return r, nil
	}
	switch msg.Code {
	case 'b':
		if row, ok := r.selectedArticle(); ok {
			id := row.ArticleID
			r.dispatchController(func(c Controller) { c.OnToggleBookmark(id) })
		}
		return r, nil
	case 'f':
		if r.destination == DestInterests {
			if row, ok := r.selectedTopic(); ok {
				id := row.TopicID
				r.dispatchController(func(c Controller) { c.OnToggleFollowTopic(id) })
			}
		}
		return r, nil
	case '/':
		if r.destination == DestInterests {
			r.searchActive = true
		}
		return r, nil
	case 'r':
		r.dispatchController(func(c Controller) { c.OnRefresh() })
		return r, nil
	case 'y':
		if row, ok := r.selectedArticle(); ok && strings.TrimSpace(row.URL) != "" {
			r.statusFlash = "Copied article URL"
			return r, tea.SetClipboard(row.URL)
		}
		return r, nil
	case 'q':
		r.dispatchController(func(c Controller) { c.OnQuit() })
		return r, nil
	}
	return r, nil
}

func (r *Root) activateSelection() (tea.Model, tea.Cmd) {
	switch r.destination {
	case DestInterests:
		if row, ok := r.selectedTopic(); ok {
			id := row.TopicID
			r.dispatchController(func(c Controller) { c.OnToggleFollowTopic(id) })
		}
	default:
		if row, ok := r.selectedArticle(); ok {
			id := row.ArticleID
			r.dispatchController(func(c Controller) { c.OnOpenArticle(id) })
		}
	}
	return r, r.animateIfNeeded()
}

func (r *Root) moveCursor(delta int) {
	n := r.visibleCount()
	if n == 0 {
		return
	}
	r.cursor[r.destination] = wrapIndex(r.cursor[r.destination]+delta, n)
}

func (r *Root) visibleCount() int {
	switch r.destination {
	case DestSaved:
		return len(r.saved)
	case DestInterests:
		return len(r.filteredTopics())
	default:
		return len(r.feed)
	}
}

func (r *Root) clampCursor(dest Destination) {
	var n int
	switch dest {
	case DestSaved:
		n = len(r.saved)
	case DestInterests:
		n = len(r.filteredTopics())
	default:
		n = len(r.feed)
	}
	if r.cursor[dest] >= n {
		r.cursor[dest] = max(0, n-1)
	}
}

func (r *Root) selectedArticle() (ArticleRow, bool) {
	var rows []ArticleRow
	switch r.destination {
	case DestForYou:
		rows = r.feed
	case DestSaved:
		rows = r.saved
	default:
		return ArticleRow{}, false
	}
	if len(rows) == 0 {
		return ArticleRow{}, false
	}
	return rows[wrapIndex(r.cursor[r.destination], len(rows))], true
}

func (r *Root) selectedTopic() (TopicRow, bool) {
	rows := r.filteredTopics()
	if len(rows) == 0 {
		return TopicRow{}, false
	}
	return rows[wrapIndex(r.cursor[DestInterests], len(rows))], true
}

type topicSource []TopicRow

func (s topicSource) String(i int) string { return s[i].Name }
func (s topicSource) Len() int            { return len(s) }

func (r *Root) filteredTopics() []TopicRow {
	q := strings.TrimSpace(r.searchQuery)
	if q == "" {
		return r.topics
	}
	matches := fuzzy.FindFrom(q, topicSource(r.topics))
	sort.Stable(matches)
	out := make([]TopicRow, 0, len(matches))
	for _, m := range matches {
		out = append(out, r.topics[m.Index])
	}
	return out
}

func (r *Root) renderScreen() string {
	w, h := r.cols, r.rows
	header := r.headerText()
	status := r.statusText()
	bodyH := max(3, h-2)

	var frame string
	switch {
	case r.nav.bar != nil:
		listH := max(3, bodyH-1)
		body := r.renderBody(w, listH)
		bar := r.renderNavigationBar(w)
		frame = body + "\n" + bar
	case r.nav.rail != nil:
		rail := r.renderNavigationRail(bodyH)
		body := r.renderBody(max(20, w-railWidth), bodyH)
		frame = lipgloss.JoinHorizontal(lipgloss.Top, rail, body)
	case r.nav.drawer != nil:
		drawer := r.renderPermanentDrawer(bodyH)
		body := r.renderBody(max(20, w-drawerWidth), bodyH)
		frame = lipgloss.JoinHorizontal(lipgloss.Top, drawer, body)
	default:
		panic(fmt.Sprintf("ui: no chrome mounted for variant %q", r.nav.id()))
	}
	return header + "\n" + frame + "\n" + status
}

func (r *Root) renderBody(width, height int) string {
	switch r.destination {
	case DestInterests:
		return r.renderTopicList(width, height)
	case DestSaved:
		return r.renderArticleList("Saved", r.saved, width, height)
	default:
		return r.renderArticleList("For You", r.feed, width, height)
	}
}

func (r *Root) renderArticleList(title string, rows []ArticleRow, width, height int) string {
	if len(rows) == 0 {
		empty := []string{"Nothing here yet.", "", "Press r to refresh the feed."}
		return r.drawPanel(title, empty, width, height)
	}
	cursor := wrapIndex(r.cursor[r.destination], len(rows))
	lines := make([]string, 0, len(rows)*3)
	for i, row := range rows {
		prefix := "  "
		headStyle := r.theme.Headline
		if i == cursor {
			prefix = "> "
			headStyle = r.theme.Accent
		}
		mark := " "
		if row.Bookmarked {
			mark = "*"
			if !r.ascii {
				mark = "★"
			}
		}
		head := fmt.Sprintf("%s%s %s", prefix, mark, row.Headline)
		lines = append(lines, headStyle.Render(trimForWidth(head, max(4, width-4))))
		meta := fmt.Sprintf("    %s · %s · %dm", row.SourceName, relativeAge(row.PublishedAt), row.ReadMinutes)
		if r.ascii {
			meta = fmt.Sprintf("    %s | %s | %dm", row.SourceName, relativeAge(row.PublishedAt), row.ReadMinutes)
		}
		if row.Viewed {
			meta += "  (read)"
		}
		lines = append(lines, r.theme.Muted.Render(trimForWidth(meta, max(4, width-4))))
		if i == cursor && strings.TrimSpace(row.Summary) != "" {
			lines = append(lines, r.theme.PanelBody.Render(trimForWidth("    "+row.Summary, max(4, width-4))))
		}
		lines = append(lines, "")
	}
	return r.drawPanel(title, lines, width, height)
}

func (r *Root) renderTopicList(width, height int) string {
	rows := r.filteredTopics()
	lines := make([]string, 0, len(rows)+2)
	if r.searchActive || r.searchQuery != "" {
		prompt := "/" + r.searchQuery
		if r.searchActive {
			prompt += "_"
		}
		lines = append(lines, r.theme.Accent.Render(trimForWidth(prompt, max(4, width-4))), "")
	}
	if len(rows) == 0 {
		lines = append(lines, "No topics match.")
		return r.drawPanel("Interests", lines, width, height)
	}
	cursor := wrapIndex(r.cursor[DestInterests], len(rows))
	for i, row := range rows {
		prefix := "  "
		style := r.theme.PanelBody
		if i == cursor {
			prefix = "> "
			style = r.theme.Accent
		}
		mark := "[ ]"
		if row.Followed {
			mark = "[x]"
			if !r.ascii {
				mark = "[✓]"
			}
		}
		line := fmt.Sprintf("%s%s %s", prefix, mark, row.Name)
		if strings.TrimSpace(row.Summary) != "" {
			line += "  " + row.Summary
		}
		lines = append(lines, style.Render(trimForWidth(line, max(4, width-4))))
	}
	lines = append(lines, "", r.theme.Muted.Render("Enter/f toggles following. / filters."))
	return r.drawPanel("Interests", lines, width, height)
}

func (r *Root) renderReaderOverlay() string {
	progress := r.overlayPos
	if r.reader.Visible && progress < 0.2 {
		progress = 0.2
	}
	if !r.reader.Visible && progress < 0.05 {
		return ""
	}
	fullW := min(max(56, r.cols-12), r.cols)
	w := int(float64(fullW) * maxFloat(progress, 0))
	if w < 24 {
		return ""
	}
	h := min(max(12, r.rows-6), max(8, r.rows-4))

	body := r.reader.BodyMD
	if r.markdown != nil {
		if rendered, err := r.markdown.Render(body); err == nil {
			body = rendered
		}
	}
	lines := strings.Split(strings.TrimRight(ansi.Strip(body), "\n"), "\n")
	mark := ""
	if r.reader.Bookmarked {
		mark = " ★"
		if r.ascii {
			mark = " *"
		}
	}
	footer := "b: Save  y: Copy URL  Esc: Close"
	lines = append(lines, "", r.theme.Muted.Render(footer))
	title := trimForWidth(r.reader.Headline+mark, max(8, w-6))
	return r.drawPanel(title, lines, w, h)
}

func (r *Root) headerText() string {
	width := max(1, r.cols-1)
	conn := r.theme.Online.Render("online")
	if !r.online {
		conn = r.theme.Offline.Render("offline")
	}
	parts := []string{"Newsdeck", r.destination.Title(), conn}
	if r.syncing {
		parts = append(parts, strings.TrimSpace(r.syncSpin.View())+" syncing")
	}
	txt := strings.Join(parts, " | ")
	if r.debug {
		txt = fmt.Sprintf("%s | %dx%d %s/%s %s", txt, r.cols, r.rows, r.windowClass.Width, r.windowClass.Height, r.nav.id())
	}
	txt = trimForWidth(txt, width)
	return r.theme.Header.Width(max(1, r.cols)).Render(txt)
}

func (r *Root) statusText() string {
	keys := r.help.View(r.keymap)
	if keys == "" {
		keys = "Tab Next  Enter Open  b Save  f Follow  / Search  r Refresh  Ctrl+Q Quit"
	}
	if r.statusFlash != "" {
		keys += " | " + r.statusFlash
	}
	keys = trimForWidth(keys, max(1, r.cols-1))
	return r.theme.Status.Width(max(1, r.cols)).Render(keys)
}

func (r *Root) drawPanel(title string, lines []string, width, height int) string {
	width = max(4, width)
	height = max(3, height)
	innerW := width - 2
	innerH := height - 2

	h := "─"
	v := "│"
	tl := "┌"
	tr := "┐"
	bl := "└"
	br := "┘"
	if r.ascii {
		h = "-"
		v = "|"
		tl, tr, bl, br = "+", "+", "+", "+"
	}

	top := tl + strings.Repeat(h, innerW) + tr
	if title != "" && innerW > 2 {
		t := " " + title + " "
		runes := []rune(top)
		start := 1
		for i, ch := range []rune(t) {
			pos := start + i
			if pos >= len(runes)-1 {
				break
			}
			runes[pos] = ch
		}
		top = string(runes)
	}

	out := make([]string, 0, height)
	out = append(out, r.theme.PanelBorder.Render(top))
	for row := 0; row < innerH; row++ {
		line := ""
		if row < len(lines) {
			line = lines[row]
		}
		line = padCells(line, innerW)
		out = append(out, r.theme.PanelBorder.Render(v)+r.theme.PanelBody.Render(line)+r.theme.PanelBorder.Render(v))
	}
	out = append(out, r.theme.PanelBorder.Render(bl+strings.Repeat(h, innerW)+br))
	return strings.Join(out, "\n")
}

func (r *Root) animateIfNeeded() tea.Cmd {
	target := 0.0
	if r.reader.Visible {
		target = 1.0
	}
	if r.shouldAnimate(target) {
		return animateTickCmd()
	}
	return nil
}

func (r *Root) shouldAnimate(target float64) bool {
	if r.motionLevel == "off" {
		return false
	}
	if target > 0 {
		return r.overlayPos < 0.999 || abs(r.overlayVel) > 0.001
	}
	return r.overlayPos > 0.001 || abs(r.overlayVel) > 0.001
}

func clockTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return clockMsg(t) })
}

func animateTickCmd() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return animateMsg(t) })
}

func spinnerTickCmd(model spinner.Model) tea.Cmd {
	return func() tea.Msg {
		return model.Tick()
	}
}

func relativeAge(t time.Time) string {
	if t.IsZero() {
		return "undated"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

func wrapIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	if i < 0 {
		i = n - 1
	}
	if i >= n {
		i = 0
	}
	return i
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// padCells trims and pads a possibly styled line to an exact cell width.
// Escape sequences are preserved and carry no width.
func padCells(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = strings.ReplaceAll(s, "\t", "    ")
	s = ansi.Truncate(s, width, "")
	if w := ansi.StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

func composeOverlay(base, overlay string, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return base
	}
	baseLines := strings.Split(base, "\n")
	if len(baseLines) < rows {
		pad := make([]string, rows-len(baseLines))
		baseLines = append(baseLines, pad...)
	}
	for i := 0; i < rows; i++ {
		baseLines[i] = padCells(baseLines[i], cols)
	}

	overlayLines := strings.Split(strings.TrimRight(overlay, "\n"), "\n")
	if len(overlayLines) == 0 {
		return strings.Join(baseLines[:rows], "\n")
	}
	ow := 1
	for _, line := range overlayLines {
		if lw := ansi.StringWidth(line); lw > ow {
			ow = lw
		}
	}
	if ow > cols {
		ow = cols
	}
	oh := len(overlayLines)
	if oh > rows {
		oh = rows
	}
	startRow := (rows - oh) / 2
	startCol := (cols - ow) / 2
	if startCol < 0 {
		startCol = 0
	}

	for i := 0; i < oh; i++ {
		row := startRow + i
		if row < 0 || row >= rows {
			continue
		}
		line := baseLines[row]
		left := ansi.Truncate(line, startCol, "")
		right := ansi.TruncateLeft(line, startCol+ow, "")
		seg := padCells(overlayLines[i], ow)
		// Resets keep an open SGR run in the base from bleeding into the
		// overlay segment and vice versa.
		baseLines[row] = left + ansi.ResetStyle + seg + ansi.ResetStyle + right
	}
	return strings.Join(baseLines[:rows], "\n")
}

func trimForWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(strings.ReplaceAll(ansi.Strip(s), "\n", " "))
	if len(r) <= width {
		return string(r)
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

func normalizeStyleVariant(v string) string {
	switch strings.TrimSpace(v) {
	case "dawn", "dusk", "mono":
		return strings.TrimSpace(v)
	default:
		return "dusk"
	}
}

func normalizeMotionLevel(v string) string {
	switch strings.TrimSpace(v) {
	case "off", "reduced", "full":
		return strings.TrimSpace(v)
	default:
		return "full"
	}
}

func (r *Root) recordInputEvent(event string) {
	r.lastInputEvent = trimForWidth(strings.TrimSpace(event), 160)
}

func (r *Root) onModelPanic(where string, recovered any, msg tea.Msg) {
	if r.statusFlash == "" {
		r.statusFlash = "Recovered UI panic"
	}

	message := fmt.Sprintf("%v", recovered)
	msgType := ""
	if msg != nil {
		msgType = fmt.Sprintf("%T", msg)
	}
	r.logger.Error("ui.panic_recovered",
		"where", where,
		"panic", message,
		"messageType", msgType,
		"destination", r.destination.ID(),
		"chrome", r.nav.id(),
		"cols", r.cols,
		"rows", r.rows,
		"last_input", r.lastInputEvent,
		"stack", string(debug.Stack()),
	)
}

var _ tea.Model = (*Root)(nil)
var _ View = (*Root)(nil)
