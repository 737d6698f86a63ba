package profile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jask/jaskinput/input"
)

// Binding kinds.
const (
	KindKey   = "key"
	KindChord = "chord"
	KindAxis  = "axis"
)

// Binding maps one action name to a gesture definition.
type Binding struct {
	Action     string   `toml:"action"`
	Kind       string   `toml:"kind"` // key (default), chord, axis
	Keys       []string `toml:"keys,omitempty"`
	Sequence   []string `toml:"sequence,omitempty"`
	Negative   []string `toml:"negative,omitempty"` // axis only
	Positive   []string `toml:"positive,omitempty"` // axis only
	Precedence int      `toml:"precedence"`
	Exclusive  *bool    `toml:"exclusive,omitempty"` // nil = kind default
	Help       string   `toml:"help,omitempty"`
}

// Profile is the top-level TOML structure.
type Profile struct {
	Name         string    `toml:"name"`
	HoldWindowMS int       `toml:"hold_window_ms"`
	Bindings     []Binding `toml:"binding"`
}

// HoldWindow returns the configured hold window, or zero when the profile
// leaves it to the signature default.
func (p *Profile) HoldWindow() time.Duration {
	if p.HoldWindowMS <= 0 {
		return 0
	}
	return time.Duration(p.HoldWindowMS) * time.Millisecond
}

const defaultProfileTOML = `# Jaskinput binding profile.
# Add [[binding]] blocks to map actions onto keys, chords, or axes.

name = "default"
hold_window_ms = 750

[[binding]]
action = "jump"
keys = ["space"]
help = "jump"

[[binding]]
action = "fire"
keys = ["f", "enter"]
precedence = 5
help = "fire"

[[binding]]
action = "move"
kind = "axis"
negative = ["a", "left"]
positive = ["d", "right"]
precedence = -1
help = "move"

[[binding]]
action = "quick-save"
kind = "chord"
sequence = ["g", "s"]
precedence = -2
help = "quick save"

[[binding]]
action = "menu"
keys = ["esc"]
precedence = -3
exclusive = true
help = "menu"
`

// Default returns the built-in profile.
func Default() *Profile {
	p, err := Parse([]byte(defaultProfileTOML))
	if err != nil {
		panic(fmt.Sprintf("profile: default profile invalid: %v", err))
	}
	return p
}

// Parse parses and validates TOML bytes into a profile.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	if len(p.Bindings) == 0 {
		return nil, fmt.Errorf("no bindings defined in profile")
	}
	if p.HoldWindowMS < 0 {
		return nil, fmt.Errorf("hold_window_ms is negative")
	}
	seen := make(map[string]bool)
	for i := range p.Bindings {
		b := &p.Bindings[i]
		b.Action = strings.TrimSpace(b.Action)
		if b.Action == "" {
			return nil, fmt.Errorf("binding[%d]: action is required", i)
		}
		if seen[b.Action] {
			return nil, fmt.Errorf("binding[%d] %q: duplicated action", i, b.Action)
		}
		seen[b.Action] = true
		if b.Kind == "" {
			b.Kind = KindKey
		}
		switch b.Kind {
		case KindKey:
			if usableKeys(b.Keys) == 0 {
				return nil, fmt.Errorf("binding[%d] %q: keys are required", i, b.Action)
			}
		case KindChord:
			if usableKeys(b.Sequence) < 2 {
				return nil, fmt.Errorf("binding[%d] %q: chord needs at least two steps", i, b.Action)
			}
		case KindAxis:
			if usableKeys(b.Negative) == 0 || usableKeys(b.Positive) == 0 {
				return nil, fmt.Errorf("binding[%d] %q: axis needs negative and positive keys", i, b.Action)
			}
		default:
			return nil, fmt.Errorf("binding[%d] %q: unknown kind %q", i, b.Action, b.Kind)
		}
	}
	return &p, nil
}

// usableKeys counts entries that survive key normalization. Blank entries
// normalize away and can never match an event, so they do not count toward
// a binding's required keys. Repeats count, since chord steps may repeat.
func usableKeys(keys []string) int {
	n := 0
	for _, k := range keys {
		if input.NormalizeKey(k) != "" {
			n++
		}
	}
	return n
}

// Load reads a profile from path. A missing file is created with the
// default profile first.
func Load(path string) (*Profile, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if mkErr := os.MkdirAll(filepath.Dir(path), 0755); mkErr != nil {
			return nil, fmt.Errorf("create profile dir: %w", mkErr)
		}
		if wErr := os.WriteFile(path, []byte(defaultProfileTOML), 0644); wErr != nil {
			return nil, fmt.Errorf("write default profile: %w", wErr)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	return Parse(data)
}

// Save writes the profile to path.
func Save(path string, p *Profile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create profile dir: %w", err)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(p); err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}

// Find looks up a binding by action name (case-insensitive).
func Find(p *Profile, action string) *Binding {
	for i := range p.Bindings {
		if strings.EqualFold(p.Bindings[i].Action, action) {
			return &p.Bindings[i]
		}
	}
	return nil
}
