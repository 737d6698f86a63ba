package input

import (
	"hash/fnv"
	"strings"
	"time"
)

// Event is a single key arrival from the terminal. Terminals report key
// presses only; holds show up as auto-repeat, releases never arrive at all.
type Event struct {
	Key string
	At  time.Time
}

// Signature identifies one bindable input gesture. Implementations expose a
// stable string ID, a numeric hash derived from it, and a precedence used
// for polling order.
type Signature interface {
	ID() string
	Hash() uint32
	Precedence() int
}

// Pollable is a Signature that tracks its own press state from the event
// stream. Feed reports whether the signature matched the event; Tick ages
// state at the start of each frame, so Down/JustPressed/JustReleased are
// valid for exactly one frame. Exclusive signatures claim matched events,
// stopping lower-precedence signatures from seeing them.
type Pollable interface {
	Signature
	Feed(ev Event) bool
	Tick(now time.Time)
	Down() bool
	JustPressed() bool
	JustReleased() bool
	Exclusive() bool
}

// Validator is implemented by mapping types that know their own member set,
// letting AddSignature reject hashes that coerce cleanly but name no member.
type Validator interface {
	Valid() bool
}

// Mapping constrains collection keys to integer-backed kinds so a signature
// hash can be checked for representability before conversion.
type Mapping interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// HashID returns the 32-bit FNV-1a hash of id.
func HashID(id string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(id))
	return h.Sum32()
}

// NormalizeKey canonicalizes a key name so bindings and incoming events
// compare equal regardless of spelling.
func NormalizeKey(k string) string {
	if k == " " {
		return "space"
	}
	trimmed := strings.TrimSpace(k)
	if trimmed == "" {
		return ""
	}
	if len(trimmed) == 1 {
		ch := trimmed[0]
		if ch >= 'A' && ch <= 'Z' {
			// Preserve single uppercase rune so uppercase/lowercase bindings
			// can be distinct gestures.
			return trimmed
		}
	}
	s := strings.ToLower(trimmed)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "control+", "ctrl+")
	s = strings.ReplaceAll(s, "ctl+", "ctrl+")
	s = strings.ReplaceAll(s, "return", "enter")
	s = strings.ReplaceAll(s, "spacebar", "space")
	return s
}

func normalizeKeyList(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool)
	for _, k := range keys {
		n := NormalizeKey(k)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// normalizeKeySequence keeps repeated entries, unlike normalizeKeyList:
// an ordered sequence may bind the same key twice in a row (double-tap).
func normalizeKeySequence(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if n := NormalizeKey(k); n != "" {
			out = append(out, n)
		}
	}
	return out
}
