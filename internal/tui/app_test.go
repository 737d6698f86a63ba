package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/jaskinput/internal/config"
	"github.com/jask/jaskinput/profile"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	a, err := New(context.Background(), config.Config{}, profile.Default(), Deps{})
	if err != nil {
		t.Fatalf("New = %v", err)
	}
	return a
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+o":
		return tea.KeyMsg{Type: tea.KeyCtrlO}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestAppFeedsManager(t *testing.T) {
	a := newTestApp(t)

	a.Update(keyMsg("f"))
	if !a.manager.Down(ActionFire) {
		t.Fatal("fire should be down after feeding f")
	}
	if a.totals[ActionFire] != 1 {
		t.Fatalf("totals[fire] = %d, want 1", a.totals[ActionFire])
	}
	if len(a.log) != 1 || a.log[0].action != "fire" {
		t.Fatalf("log = %+v, want one fire entry", a.log)
	}

	a.Update(keyMsg("space"))
	if !a.manager.Down(ActionJump) {
		t.Fatal("jump should be down after feeding space")
	}
}

func TestAppFrameReleasesHeldKeys(t *testing.T) {
	a := newTestApp(t)

	a.Update(keyMsg("f"))
	pressAt := a.lastEvent.At

	a.Update(frameMsg(pressAt.Add(100 * time.Millisecond)))
	if !a.manager.Down(ActionFire) {
		t.Fatal("fire should survive a frame inside the hold window")
	}

	a.Update(frameMsg(pressAt.Add(2 * time.Second)))
	if a.manager.Down(ActionFire) {
		t.Fatal("fire should decay once the hold window lapses")
	}
}

func TestAppAxisValue(t *testing.T) {
	a := newTestApp(t)

	a.Update(keyMsg("a"))
	if v := a.manager.Value(ActionMove); v != -1 {
		t.Fatalf("Value(move) = %v, want -1", v)
	}
}

func TestAppTabTogglesHistory(t *testing.T) {
	a := newTestApp(t)

	_, cmd := a.Update(keyMsg("tab"))
	if a.state != viewHistory {
		t.Fatalf("state = %q, want history", a.state)
	}
	if cmd == nil {
		t.Fatal("expected a load command")
	}
	if msg, ok := cmd().(statusMsg); !ok || msg != "journal disabled" {
		t.Fatalf("cmd msg = %#v, want journal disabled status", msg)
	}

	a.Update(keyMsg("tab"))
	if a.state != viewLive {
		t.Fatalf("state = %q, want live", a.state)
	}
}

func TestAppOrderToggle(t *testing.T) {
	a := newTestApp(t)

	first := a.manager.Bindings()[0].ID()
	if first != "menu" {
		t.Fatalf("initial polling starts with %q, want menu (lowest precedence)", first)
	}

	a.Update(keyMsg("ctrl+o"))
	if a.sorted {
		t.Fatal("toggle should leave precedence order")
	}
	if got := a.manager.Bindings()[0].ID(); got != "jump" {
		t.Fatalf("profile order starts with %q, want jump", got)
	}

	a.Update(keyMsg("ctrl+o"))
	if !a.sorted {
		t.Fatal("toggle should restore precedence order")
	}
	if got := a.manager.Bindings()[0].ID(); got != "menu" {
		t.Fatalf("sorted order starts with %q, want menu", got)
	}
}

func TestAppHistoryKeysDoNotFeedManager(t *testing.T) {
	a := newTestApp(t)
	a.state = viewHistory

	a.Update(keyMsg("f"))
	if a.manager.Down(ActionFire) {
		t.Fatal("history-view keys should not reach the manager")
	}
}

func TestAppReloadSwapsProfile(t *testing.T) {
	a := newTestApp(t)

	next, err := profile.Parse([]byte(`
name = "alt"

[[binding]]
action = "fire"
keys = ["x"]
`))
	if err != nil {
		t.Fatalf("Parse = %v", err)
	}

	a.Update(reloadMsg{next})
	if a.prof.Name != "alt" {
		t.Fatalf("profile = %q, want alt", a.prof.Name)
	}
	if a.statusErr {
		t.Fatalf("status marked as error: %q", a.status)
	}

	a.Update(keyMsg("x"))
	if !a.manager.Down(ActionFire) {
		t.Fatal("fire should rebind to x after reload")
	}
	a.Update(keyMsg("space"))
	if a.manager.Down(ActionJump) {
		t.Fatal("jump is not bound in the reloaded profile")
	}
}

func TestAppReloadRejectsBadProfile(t *testing.T) {
	a := newTestApp(t)

	bad, err := profile.Parse([]byte(`
name = "bad"

[[binding]]
action = "warp"
keys = ["w"]
`))
	if err != nil {
		t.Fatalf("Parse = %v", err)
	}

	a.Update(reloadMsg{bad})
	if !a.statusErr || !strings.Contains(a.status, "profile rejected") {
		t.Fatalf("status = %q, want rejection", a.status)
	}
	if a.prof.Name != "default" {
		t.Fatalf("profile = %q, old profile should stay active", a.prof.Name)
	}

	a.Update(keyMsg("space"))
	if !a.manager.Down(ActionJump) {
		t.Fatal("old bindings should keep working after a rejected reload")
	}
}

func TestAppViewSmoke(t *testing.T) {
	a := newTestApp(t)
	a.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	a.Update(keyMsg("f"))
	a.Update(frameMsg(time.Now()))

	out := a.View()
	for _, want := range []string{"jaskinput", "Bindings", "fire", "Presses per second", "Recent presses"} {
		if !strings.Contains(out, want) {
			t.Errorf("View missing %q", want)
		}
	}

	a.state = viewHistory
	out = a.View()
	if !strings.Contains(out, "Session history") {
		t.Error("history view missing title")
	}
}

func TestAppStatusMessages(t *testing.T) {
	a := newTestApp(t)

	a.Update(statusMsg("hello"))
	if a.status != "hello" || a.statusErr {
		t.Fatalf("status = %q err=%v", a.status, a.statusErr)
	}

	a.Update(errMsg{errFake("boom")})
	if !a.statusErr || !strings.Contains(a.status, "boom") {
		t.Fatalf("status = %q err=%v", a.status, a.statusErr)
	}
}

type errFake string

func (e errFake) Error() string { return string(e) }
