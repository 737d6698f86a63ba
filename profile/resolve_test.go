package profile

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jask/jaskinput/input"
)

type gameAction uint8

const (
	gameJump gameAction = iota + 1
	gameFire
	gameMove
	gameSave
	gameMenu
)

func defaultActions() map[string]gameAction {
	return map[string]gameAction{
		"jump":       gameJump,
		"fire":       gameFire,
		"move":       gameMove,
		"quick-save": gameSave,
		"menu":       gameMenu,
	}
}

func TestResolveDefaultProfile(t *testing.T) {
	m, err := Resolve(Default(), defaultActions())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	bindings := m.Bindings()
	if len(bindings) != 5 {
		t.Fatalf("bindings = %d, want 5", len(bindings))
	}
	// File order until the caller sorts.
	fileOrder := []string{"jump", "fire", "move", "quick-save", "menu"}
	for i, want := range fileOrder {
		if bindings[i].ID() != want {
			t.Fatalf("polling order[%d] = %q, want %q", i, bindings[i].ID(), want)
		}
	}

	m.Resort()
	bindings = m.Bindings()
	// Precedence order: menu (-3), quick-save (-2), move (-1), jump (0), fire (5).
	wantOrder := []string{"menu", "quick-save", "move", "jump", "fire"}
	for i, want := range wantOrder {
		if bindings[i].ID() != want {
			t.Fatalf("sorted order[%d] = %q, want %q", i, bindings[i].ID(), want)
		}
	}

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m.Tick(now)
	m.Feed(input.Event{Key: "space", At: now})
	if !m.Down(gameJump) {
		t.Fatal("jump not down after space")
	}
	m.Feed(input.Event{Key: "a", At: now})
	if got := m.Value(gameMove); got != -1 {
		t.Fatalf("Value(move) = %v, want -1", got)
	}
}

func TestResolveUnknownActionSuggests(t *testing.T) {
	p := &Profile{Bindings: []Binding{{Action: "jmup", Kind: KindKey, Keys: []string{"space"}}}}
	_, err := Resolve(p, defaultActions())
	if err == nil {
		t.Fatal("expected resolve error")
	}
	if !strings.Contains(err.Error(), `unknown action "jmup"`) {
		t.Fatalf("error = %q, want unknown action", err)
	}
	if !strings.Contains(err.Error(), `did you mean "jump"`) {
		t.Fatalf("error = %q, want a jump suggestion", err)
	}
}

func TestResolveUnknownActionNoCloseMatch(t *testing.T) {
	p := &Profile{Bindings: []Binding{{Action: "teleport", Kind: KindKey, Keys: []string{"t"}}}}
	_, err := Resolve(p, defaultActions())
	if err == nil {
		t.Fatal("expected resolve error")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Fatalf("error = %q, suggestion for a far name", err)
	}
}

func TestResolveRepeatedStepChord(t *testing.T) {
	p := &Profile{Bindings: []Binding{
		{Action: "quick-save", Kind: KindChord, Sequence: []string{"g", "g"}},
	}}
	m, err := Resolve(p, defaultActions())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m.Tick(now)
	m.Feed(input.Event{Key: "g", At: now})
	if m.Down(gameSave) {
		t.Fatal("double-tap fired on a single press")
	}
	m.Feed(input.Event{Key: "g", At: now.Add(50 * time.Millisecond)})
	if !m.Down(gameSave) {
		t.Fatal("double-tap did not complete on the second press")
	}
}

func TestWatchReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.toml")
	if err := Save(path, Default()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changed := make(chan *Profile, 1)
	go func() {
		_ = Watch(ctx, path, func(p *Profile) {
			select {
			case changed <- p:
			default:
			}
		}, nil)
	}()

	// Give the watcher time to attach before the edit.
	time.Sleep(300 * time.Millisecond)
	edited := Default()
	edited.Name = "edited"
	if err := Save(path, edited); err != nil {
		t.Fatalf("Save edited: %v", err)
	}

	select {
	case got := <-changed:
		if got.Name != "edited" {
			t.Fatalf("reloaded profile name = %q, want edited", got.Name)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not reload the profile")
	}
}
