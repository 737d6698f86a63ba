package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/jaskinput/input"
	"github.com/jask/jaskinput/internal/config"
	"github.com/jask/jaskinput/internal/journal"
	"github.com/jask/jaskinput/profile"
	"github.com/jask/jaskinput/replay"
)

const maxLogEntries = 256

// App drives an input manager from terminal key events and shows the
// resulting action state live. Every key that is not a system key (ctrl+c,
// tab) is game input and goes straight to the manager.
type App struct {
	ctx  context.Context
	cfg  config.Config
	deps Deps

	manager *input.Manager[Action]
	prof    *profile.Profile

	state     appState
	sorted    bool
	width     int
	height    int
	now       time.Time
	lastEvent input.Event
	status    string
	statusErr bool

	log     []logEntry
	presses []time.Time
	pending []journal.Press
	totals  map[Action]int64

	sessions   []journal.Session
	counts     []journal.ActionCount
	histCursor int
}

// Deps carries the optional outer services. A nil Store disables
// journaling, a nil Recorder disables capture, a nil Reloads channel
// disables hot reload.
type Deps struct {
	Store     *journal.Store
	SessionID string
	Recorder  *replay.Recorder
	Reloads   <-chan *profile.Profile
}

type appState string

const (
	viewLive    appState = "live"
	viewHistory appState = "history"
)

type logEntry struct {
	at     time.Time
	key    string
	action string
}

func New(ctx context.Context, cfg config.Config, prof *profile.Profile, deps Deps) (*App, error) {
	a := &App{
		ctx:    ctx,
		cfg:    cfg,
		deps:   deps,
		state:  viewLive,
		sorted: true,
		totals: make(map[Action]int64),
	}
	m, err := profile.Resolve(prof, Actions())
	if err != nil {
		return nil, fmt.Errorf("resolve profile %q: %w", prof.Name, err)
	}
	m.Resort()
	a.adopt(m, prof)
	return a, nil
}

// adopt swaps in a manager and re-arms the press hook on it.
func (a *App) adopt(m *input.Manager[Action], p *profile.Profile) {
	a.manager = m
	a.prof = p
	m.OnPress(func(act Action, _ input.Signature) {
		a.notePress(act)
	})
}

func (a *App) notePress(act Action) {
	ev := a.lastEvent
	key := input.NormalizeKey(ev.Key)
	a.totals[act]++
	a.presses = append(a.presses, ev.At)
	a.log = append(a.log, logEntry{at: ev.At, key: key, action: act.String()})
	if len(a.log) > maxLogEntries {
		a.log = a.log[len(a.log)-maxLogEntries:]
	}
	if a.deps.Store != nil && a.deps.SessionID != "" {
		a.pending = append(a.pending, journal.Press{
			SessionID: a.deps.SessionID,
			Action:    act.String(),
			Key:       key,
			PressedAt: ev.At.UTC(),
		})
	}
}

func (a *App) frameInterval() time.Duration {
	fps := a.cfg.UI.FPS
	if fps <= 0 {
		fps = 30
	}
	return time.Second / time.Duration(fps)
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.tickCmd()}
	if a.deps.Reloads != nil {
		cmds = append(cmds, a.waitReload())
	}
	return tea.Batch(cmds...)
}

func (a *App) tickCmd() tea.Cmd {
	return tea.Tick(a.frameInterval(), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (a *App) waitReload() tea.Cmd {
	return func() tea.Msg {
		p, ok := <-a.deps.Reloads
		if !ok {
			return nil
		}
		return reloadMsg{p}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
	case tea.KeyMsg:
		return a.handleKey(m)
	case frameMsg:
		a.now = time.Time(m)
		a.manager.Tick(a.now)
		a.pruneStale()
		cmds := []tea.Cmd{a.tickCmd()}
		if cmd := a.flushJournal(); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)
	case reloadMsg:
		return a.applyProfile(m.p)
	case sessionsMsg:
		a.sessions = []journal.Session(m)
		if a.histCursor >= len(a.sessions) {
			a.histCursor = 0
		}
		a.counts = nil
	case countsMsg:
		a.counts = []journal.ActionCount(m)
	case statusMsg:
		a.status = string(m)
		a.statusErr = false
	case errMsg:
		a.status = "error: " + m.Error()
		a.statusErr = true
	}
	return a, nil
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "ctrl+o":
		a.toggleOrder()
		return a, nil
	case "tab":
		if a.state == viewHistory {
			a.state = viewLive
			return a, nil
		}
		a.state = viewHistory
		return a, a.loadSessions()
	}
	if a.state == viewHistory {
		return a.handleHistoryKey(m)
	}
	return a.handleLiveKey(m)
}

func (a *App) handleLiveKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	ev := input.Event{Key: m.String(), At: time.Now()}
	if a.deps.Recorder != nil {
		if err := a.deps.Recorder.Record(ev.Key, ev.At); err != nil {
			a.status = "error: " + err.Error()
			a.statusErr = true
		}
	}
	a.lastEvent = ev
	a.manager.Feed(ev)
	return a, a.flushJournal()
}

func (a *App) handleHistoryKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "esc":
		a.state = viewLive
	case "up", "k":
		if a.histCursor > 0 {
			a.histCursor--
		}
	case "down", "j":
		if a.histCursor < len(a.sessions)-1 {
			a.histCursor++
		}
	case "enter":
		if len(a.sessions) == 0 {
			return a, nil
		}
		return a, a.loadCounts(a.sessions[a.histCursor].ID)
	case "r":
		return a, a.loadSessions()
	}
	return a, nil
}

func (a *App) applyProfile(p *profile.Profile) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if a.deps.Reloads != nil {
		cmds = append(cmds, a.waitReload())
	}
	m, err := profile.Resolve(p, Actions())
	if err != nil {
		a.status = "profile rejected: " + err.Error()
		a.statusErr = true
		return a, tea.Batch(cmds...)
	}
	if a.sorted {
		m.Resort()
	}
	a.adopt(m, p)
	a.status = fmt.Sprintf("profile %q reloaded, %d bindings", p.Name, len(p.Bindings))
	a.statusErr = false
	return a, tea.Batch(cmds...)
}

// toggleOrder flips polling between precedence order and profile file
// order. Going back to file order rebuilds the manager, which drops any
// in-flight key state.
func (a *App) toggleOrder() {
	if a.sorted {
		m, err := profile.Resolve(a.prof, Actions())
		if err != nil {
			a.status = "reorder failed: " + err.Error()
			a.statusErr = true
			return
		}
		a.adopt(m, a.prof)
		a.sorted = false
		a.status = "polling in profile order"
		a.statusErr = false
		return
	}
	a.manager.Resort()
	a.sorted = true
	a.status = "polling in precedence order"
	a.statusErr = false
}

// pruneStale keeps the press history bounded to what the chart can show.
func (a *App) pruneStale() {
	window := time.Duration(a.chartWindowS()+5) * time.Second
	cutoff := a.now.Add(-window)
	i := 0
	for i < len(a.presses) && a.presses[i].Before(cutoff) {
		i++
	}
	if i > 0 {
		a.presses = append(a.presses[:0], a.presses[i:]...)
	}
}

func (a *App) chartWindowS() int {
	if a.cfg.UI.ChartWindowS <= 0 {
		return 60
	}
	return a.cfg.UI.ChartWindowS
}

// commands
func (a *App) flushJournal() tea.Cmd {
	if a.deps.Store == nil || len(a.pending) == 0 {
		return nil
	}
	batch := a.pending
	a.pending = nil
	store := a.deps.Store
	ctx := a.ctx
	return func() tea.Msg {
		for _, p := range batch {
			if err := store.RecordPress(ctx, p); err != nil {
				return errMsg{err}
			}
		}
		return nil
	}
}

func (a *App) loadSessions() tea.Cmd {
	if a.deps.Store == nil {
		return func() tea.Msg { return statusMsg("journal disabled") }
	}
	return func() tea.Msg {
		list, err := a.deps.Store.RecentSessions(a.ctx, 20)
		if err != nil {
			return errMsg{err}
		}
		return sessionsMsg(list)
	}
}

func (a *App) loadCounts(sessionID string) tea.Cmd {
	return func() tea.Msg {
		counts, err := a.deps.Store.ActionCounts(a.ctx, sessionID)
		if err != nil {
			return errMsg{err}
		}
		return countsMsg(counts)
	}
}

// messages
type frameMsg time.Time

type reloadMsg struct{ p *profile.Profile }

type sessionsMsg []journal.Session

type countsMsg []journal.ActionCount

type statusMsg string

type errMsg struct{ error }
