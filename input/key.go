package input

import (
	"slices"
	"time"
)

// DefaultHoldWindow is how long a signature stays down after its last
// matching event. Terminals never send releases, so a held key is inferred
// from auto-repeat; the window sits above common initial repeat delays.
const DefaultHoldWindow = 750 * time.Millisecond

// Option adjusts a built-in signature at construction time.
type Option func(*state)

// WithPrecedence sets the polling precedence. Lower values poll first.
func WithPrecedence(p int) Option {
	return func(s *state) { s.precedence = p }
}

// WithHash overrides the FNV-1a hash derived from the ID, for callers that
// key collections by a hash-valued enumeration.
func WithHash(h uint32) Option {
	return func(s *state) { s.hash = h }
}

// WithHoldWindow overrides DefaultHoldWindow.
func WithHoldWindow(d time.Duration) Option {
	return func(s *state) { s.window = d }
}

// WithExclusive controls whether matched events are claimed, hiding them
// from lower-precedence signatures.
func WithExclusive(on bool) Option {
	return func(s *state) { s.exclusive = on }
}

// state carries the identity and press lifecycle shared by the built-in
// signatures.
type state struct {
	id         string
	hash       uint32
	precedence int
	window     time.Duration
	exclusive  bool

	down     bool
	pressed  bool
	released bool
	last     time.Time
}

func newState(id string, opts ...Option) state {
	s := state{id: id, hash: HashID(id), window: DefaultHoldWindow}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func (s *state) ID() string         { return s.id }
func (s *state) Hash() uint32       { return s.hash }
func (s *state) Precedence() int    { return s.precedence }
func (s *state) Down() bool         { return s.down }
func (s *state) JustPressed() bool  { return s.pressed }
func (s *state) JustReleased() bool { return s.released }
func (s *state) Exclusive() bool    { return s.exclusive }

// Tick starts a new frame: edge flags reset, and the signature releases
// once the hold window passes without a matching event.
func (s *state) Tick(now time.Time) {
	s.pressed = false
	s.released = false
	if s.down && now.Sub(s.last) >= s.window {
		s.down = false
		s.released = true
	}
}

func (s *state) press(at time.Time) {
	s.last = at
	if !s.down {
		s.down = true
		s.pressed = true
	}
}

// KeySignature matches any one of a set of key names.
type KeySignature struct {
	state
	keys []string
}

func NewKey(id string, keys []string, opts ...Option) *KeySignature {
	return &KeySignature{state: newState(id, opts...), keys: normalizeKeyList(keys)}
}

// Keys returns the normalized trigger keys.
func (k *KeySignature) Keys() []string {
	return slices.Clone(k.keys)
}

func (k *KeySignature) Feed(ev Event) bool {
	if !slices.Contains(k.keys, NormalizeKey(ev.Key)) {
		return false
	}
	k.press(ev.At)
	return true
}
