package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/jaskinput/input"
	"github.com/jask/jaskinput/internal/config"
	"github.com/jask/jaskinput/internal/journal"
	"github.com/jask/jaskinput/internal/tui"
	"github.com/jask/jaskinput/profile"
	"github.com/jask/jaskinput/replay"
)

func main() {
	replayPath := flag.String("replay", "", "replay a recording headlessly and print the action summary")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	prof, err := profile.Load(cfg.Profile.Path)
	if err != nil {
		log.Fatalf("profile: %v", err)
	}

	if *replayPath != "" {
		if err := runReplay(ctx, cfg, prof, *replayPath); err != nil {
			log.Fatalf("replay: %v", err)
		}
		return
	}

	store, sessionID, closeStore := openStore(ctx, cfg, prof.Name)
	defer closeStore()

	rec, closeRec, err := openRecorder(cfg)
	if err != nil {
		log.Fatalf("recorder: %v", err)
	}
	defer closeRec()

	var reloads chan *profile.Profile
	if cfg.Profile.Watch {
		reloads = make(chan *profile.Profile, 1)
		go func() {
			err := profile.Watch(ctx, cfg.Profile.Path,
				func(p *profile.Profile) {
					select {
					case reloads <- p:
					default:
					}
				},
				func(err error) { log.Printf("profile watch: %v", err) },
			)
			if err != nil && ctx.Err() == nil {
				log.Printf("profile watch stopped: %v", err)
			}
		}()
	}

	app, err := tui.New(ctx, cfg, prof, tui.Deps{
		Store:     store,
		SessionID: sessionID,
		Recorder:  rec,
		Reloads:   reloads,
	})
	if err != nil {
		log.Fatalf("tui: %v", err)
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

// openStore sets up the session journal. Journaling is best effort: on any
// failure the app runs without it.
func openStore(ctx context.Context, cfg config.Config, profileName string) (*journal.Store, string, func()) {
	noop := func() {}
	if !cfg.Journal.Enabled {
		return nil, "", noop
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Journal.Path), 0o755); err != nil {
		log.Printf("warn: journal disabled: mkdir: %v", err)
		return nil, "", noop
	}
	if err := journal.RunMigrations(cfg.Journal.Path, migrationsPath()); err != nil {
		log.Printf("warn: journal disabled: migrate: %v", err)
		return nil, "", noop
	}
	db, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		log.Printf("warn: journal disabled: open: %v", err)
		return nil, "", noop
	}
	store := journal.NewStore(db)
	sess, err := store.BeginSession(ctx, profileName)
	if err != nil {
		log.Printf("warn: journal disabled: begin session: %v", err)
		_ = db.Close()
		return nil, "", noop
	}
	return store, sess.ID, func() {
		if err := store.EndSession(ctx, sess.ID); err != nil {
			log.Printf("warn: end session: %v", err)
		}
		_ = db.Close()
	}
}

func migrationsPath() string {
	if p := os.Getenv("JASKINPUT_MIGRATIONS"); p != "" {
		return p
	}
	return "internal/journal/migrations"
}

func openRecorder(cfg config.Config) (*replay.Recorder, func(), error) {
	noop := func() {}
	if !cfg.Replay.Record {
		return nil, noop, nil
	}
	if err := os.MkdirAll(cfg.Replay.Dir, 0o755); err != nil {
		return nil, noop, fmt.Errorf("mkdir replay dir: %w", err)
	}
	now := time.Now()
	path := filepath.Join(cfg.Replay.Dir, now.Format("20060102-150405")+".jsonl")
	f, err := os.Create(path)
	if err != nil {
		return nil, noop, fmt.Errorf("create recording: %w", err)
	}
	log.Printf("recording to %s", path)
	return replay.NewRecorder(f, now), func() { _ = f.Close() }, nil
}

// runReplay drives the manager from a recording on a fixed frame clock and
// prints what matched, journaling the run like a live session.
func runReplay(ctx context.Context, cfg config.Config, prof *profile.Profile, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	frames, err := replay.ReadAll(f)
	f.Close()
	if err != nil {
		return err
	}

	m, err := profile.Resolve(prof, tui.Actions())
	if err != nil {
		return fmt.Errorf("resolve profile %q: %w", prof.Name, err)
	}
	m.Resort()

	store, sessionID, closeStore := openStore(ctx, cfg, prof.Name)
	defer closeStore()

	counts := make(map[tui.Action]int)
	var lastEvent input.Event
	m.OnPress(func(act tui.Action, _ input.Signature) {
		counts[act]++
		if store != nil {
			_ = store.RecordPress(ctx, journal.Press{
				SessionID: sessionID,
				Action:    act.String(),
				Key:       input.NormalizeKey(lastEvent.Key),
				PressedAt: lastEvent.At.UTC(),
			})
		}
	})

	start := time.Now()
	events := replay.Events(frames, start)

	fps := cfg.UI.FPS
	if fps <= 0 {
		fps = 30
	}
	step := time.Second / time.Duration(fps)

	hold := prof.HoldWindow()
	if hold <= 0 {
		hold = input.DefaultHoldWindow
	}
	end := start.Add(replay.Duration(frames) + hold + step)

	i := 0
	for now := start; !now.After(end); now = now.Add(step) {
		m.Tick(now)
		for i < len(events) && !events[i].At.After(now) {
			lastEvent = events[i]
			m.Feed(events[i])
			i++
		}
	}

	fmt.Printf("replayed %d events over %s with profile %q\n",
		len(frames), replay.Duration(frames).Round(time.Millisecond), prof.Name)

	type row struct {
		name string
		n    int
	}
	rows := make([]row, 0, len(counts))
	for act, n := range counts {
		rows = append(rows, row{act.String(), n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].n != rows[j].n {
			return rows[i].n > rows[j].n
		}
		return rows[i].name < rows[j].name
	})
	if len(rows) == 0 {
		fmt.Println("no actions matched")
	}
	for _, r := range rows {
		fmt.Printf("  %-12s %d\n", r.name, r.n)
	}
	if sessionID != "" {
		fmt.Printf("journaled as session %s\n", sessionID)
	}
	return nil
}
