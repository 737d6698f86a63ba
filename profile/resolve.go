package profile

import (
	"fmt"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"

	"github.com/jask/jaskinput/input"
)

// Resolve builds a manager from a profile. actions maps profile action
// names onto the caller's mapping values; an unknown name fails with a
// close-match suggestion when one exists. Bindings poll in profile file
// order until the caller asks for precedence order with Resort.
func Resolve[T input.Mapping](p *Profile, actions map[string]T) (*input.Manager[T], error) {
	m := input.NewManager[T]()
	for i, b := range p.Bindings {
		mapping, ok := actions[b.Action]
		if !ok {
			return nil, fmt.Errorf("binding[%d]: unknown action %q%s", i, b.Action, didYouMean(b.Action, actions))
		}
		sig, err := b.signature(p.HoldWindow())
		if err != nil {
			return nil, fmt.Errorf("binding[%d] %q: %w", i, b.Action, err)
		}
		if err := m.Bind(mapping, sig); err != nil {
			return nil, fmt.Errorf("binding[%d] %q: %w", i, b.Action, err)
		}
	}
	return m, nil
}

func (b Binding) signature(window time.Duration) (input.Signature, error) {
	opts := []input.Option{input.WithPrecedence(b.Precedence)}
	if window > 0 {
		opts = append(opts, input.WithHoldWindow(window))
	}
	if b.Exclusive != nil {
		opts = append(opts, input.WithExclusive(*b.Exclusive))
	}
	switch b.Kind {
	case "", KindKey:
		return input.NewKey(b.Action, b.Keys, opts...), nil
	case KindChord:
		return input.NewChord(b.Action, b.Sequence, opts...), nil
	case KindAxis:
		return input.NewAxis(b.Action, b.Negative, b.Positive, opts...), nil
	}
	return nil, fmt.Errorf("unknown binding kind %q", b.Kind)
}

// didYouMean suggests the closest known action name within a small edit
// distance.
func didYouMean[T any](name string, actions map[string]T) string {
	best := ""
	bestDist := 3
	for candidate := range actions {
		d := levenshtein.ComputeDistance(strings.ToLower(name), strings.ToLower(candidate))
		if d < bestDist {
			best, bestDist = candidate, d
		}
	}
	if best == "" {
		return ""
	}
	return fmt.Sprintf(" (did you mean %q?)", best)
}
