package input

import (
	"testing"
	"time"
)

type slot uint8

const (
	slotPause slot = iota + 1
	slotJump
	slotStrafe
	slotSave
)

func TestManagerExclusiveClaim(t *testing.T) {
	m := NewManager[slot]()
	pause := NewKey("pause", []string{"space"}, WithPrecedence(-1), WithExclusive(true), WithHoldWindow(100*time.Millisecond))
	jump := NewKey("jump", []string{"space"}, WithHoldWindow(100*time.Millisecond))

	if err := m.Bind(slotJump, jump); err != nil {
		t.Fatalf("Bind(jump) = %v", err)
	}
	if err := m.Bind(slotPause, pause); err != nil {
		t.Fatalf("Bind(pause) = %v", err)
	}
	m.Resort()

	m.Tick(at(0))
	got := m.Feed(Event{Key: "space", At: at(0)})
	if len(got) != 1 || got[0] != slotPause {
		t.Fatalf("Feed matched %v, want [pause slot]", got)
	}
	if !m.Down(slotPause) {
		t.Fatal("pause not down after claim")
	}
	if m.Down(slotJump) {
		t.Fatal("exclusive claim leaked to lower precedence")
	}
}

func TestManagerSharedKeyWithoutExclusivity(t *testing.T) {
	m := NewManager[slot]()
	a := NewKey("pause", []string{"space"}, WithHoldWindow(100*time.Millisecond))
	b := NewKey("jump", []string{"space"}, WithHoldWindow(100*time.Millisecond))
	if err := m.Bind(slotPause, a); err != nil {
		t.Fatalf("Bind = %v", err)
	}
	if err := m.Bind(slotJump, b); err != nil {
		t.Fatalf("Bind = %v", err)
	}

	m.Tick(at(0))
	got := m.Feed(Event{Key: "space", At: at(0)})
	if len(got) != 2 {
		t.Fatalf("Feed matched %v, want both slots", got)
	}
	if !m.Down(slotPause) || !m.Down(slotJump) {
		t.Fatal("both signatures should be down")
	}
}

func TestManagerPressHook(t *testing.T) {
	m := NewManager[slot]()
	jump := NewKey("jump", []string{"space"}, WithHoldWindow(100*time.Millisecond))
	if err := m.Bind(slotJump, jump); err != nil {
		t.Fatalf("Bind = %v", err)
	}

	var presses []slot
	m.OnPress(func(mapping slot, sig Signature) {
		if sig.ID() != "jump" {
			t.Fatalf("hook signature = %q, want jump", sig.ID())
		}
		presses = append(presses, mapping)
	})

	m.Tick(at(0))
	m.Feed(Event{Key: "space", At: at(0)})
	m.Tick(at(50))
	m.Feed(Event{Key: "space", At: at(50)}) // auto-repeat, no new press
	m.Tick(at(300))                         // window lapses, release
	m.Tick(at(310))
	m.Feed(Event{Key: "space", At: at(310)}) // fresh press

	if len(presses) != 2 {
		t.Fatalf("press hook fired %d times, want 2", len(presses))
	}
	for _, mapping := range presses {
		if mapping != slotJump {
			t.Fatalf("press hook mapping = %v, want %v", mapping, slotJump)
		}
	}
}

func TestManagerQueries(t *testing.T) {
	m := NewManager[slot]()
	strafe := NewAxis("strafe", []string{"a"}, []string{"d"}, WithHoldWindow(100*time.Millisecond))
	jump := NewKey("jump", []string{"space"}, WithHoldWindow(100*time.Millisecond))
	if err := m.Bind(slotStrafe, strafe); err != nil {
		t.Fatalf("Bind = %v", err)
	}
	if err := m.Bind(slotJump, jump); err != nil {
		t.Fatalf("Bind = %v", err)
	}

	m.Tick(at(0))
	m.Feed(Event{Key: "a", At: at(0)})
	if got := m.Value(slotStrafe); got != -1 {
		t.Fatalf("Value(strafe) = %v, want -1", got)
	}
	if got := m.Value(slotJump); got != 0 {
		t.Fatalf("Value(jump) while idle = %v, want 0", got)
	}
	m.Feed(Event{Key: "space", At: at(0)})
	if got := m.Value(slotJump); got != 1 {
		t.Fatalf("Value(jump) while down = %v, want 1", got)
	}
	if !m.JustPressed(slotJump) {
		t.Fatal("JustPressed(jump) = false")
	}
	if m.JustReleased(slotJump) {
		t.Fatal("JustReleased(jump) = true on press frame")
	}
	if m.Down(slotSave) || m.JustPressed(slotSave) || m.Value(slotSave) != 0 {
		t.Fatal("unbound slot reported state")
	}
}

func TestManagerChordClaimsLeader(t *testing.T) {
	m := NewManager[slot]()
	save := NewChord("quick-save", []string{"g", "s"}, WithPrecedence(-1), WithHoldWindow(100*time.Millisecond))
	jumpG := NewKey("goto", []string{"g"}, WithHoldWindow(100*time.Millisecond))
	if err := m.Bind(slotSave, save); err != nil {
		t.Fatalf("Bind = %v", err)
	}
	if err := m.Bind(slotJump, jumpG); err != nil {
		t.Fatalf("Bind = %v", err)
	}
	m.Resort()

	m.Tick(at(0))
	m.Feed(Event{Key: "g", At: at(0)})
	if m.Down(slotJump) {
		t.Fatal("pending chord leaked its leader key")
	}
	m.Feed(Event{Key: "s", At: at(20)})
	if !m.Down(slotSave) {
		t.Fatal("chord did not complete")
	}
}

func TestManagerBindUnbind(t *testing.T) {
	m := NewManager[slot]()
	jump := NewKey("jump", []string{"space"})
	if err := m.Bind(slotJump, jump); err != nil {
		t.Fatalf("Bind = %v", err)
	}
	if err := m.Bind(slotJump, NewKey("dup", []string{"x"})); err == nil {
		t.Fatal("rebinding an occupied slot must fail")
	}
	if got := len(m.Bindings()); got != 1 {
		t.Fatalf("Bindings = %d, want 1", got)
	}
	if !m.Unbind(slotJump) {
		t.Fatal("Unbind = false, want true")
	}
	if m.Unbind(slotJump) {
		t.Fatal("second Unbind = true, want false")
	}
	if m.Collection().Len() != 0 {
		t.Fatalf("Len = %d, want 0", m.Collection().Len())
	}
}
