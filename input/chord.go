package input

import (
	"slices"
	"time"
)

// ChordSignature matches an ordered key sequence. Each step must arrive
// within the hold window of the previous one or the pending progress
// resets. Chords are exclusive by default so that pending steps do not
// leak to plain bindings on the same keys; a broken sequence releases the
// breaking key back to later signatures unless it starts the sequence
// over. A completed chord acts as a pulse: it stays down for one hold
// window, since the terminal only repeats the final key.
type ChordSignature struct {
	state
	seq       []string
	step      int
	pendingAt time.Time
}

func NewChord(id string, sequence []string, opts ...Option) *ChordSignature {
	c := &ChordSignature{state: newState(id, WithExclusive(true)), seq: normalizeKeySequence(sequence)}
	for _, opt := range opts {
		opt(&c.state)
	}
	return c
}

// Sequence returns the normalized key sequence.
func (c *ChordSignature) Sequence() []string {
	return slices.Clone(c.seq)
}

// Pending reports how many steps of the sequence have matched so far.
func (c *ChordSignature) Pending() int {
	return c.step
}

func (c *ChordSignature) Feed(ev Event) bool {
	if len(c.seq) == 0 {
		return false
	}
	norm := NormalizeKey(ev.Key)
	if norm == c.seq[c.step] {
		c.step++
		c.pendingAt = ev.At
		if c.step == len(c.seq) {
			c.step = 0
			c.press(ev.At)
		}
		return true
	}
	if c.step > 0 {
		c.step = 0
		if norm == c.seq[0] {
			c.step = 1
			c.pendingAt = ev.At
			return true
		}
	}
	return false
}

func (c *ChordSignature) Tick(now time.Time) {
	c.state.Tick(now)
	if c.step > 0 && now.Sub(c.pendingAt) >= c.window {
		c.step = 0
	}
}
