package input

import (
	"slices"
	"time"
)

// AxisSignature folds two key sets into a digital axis in [-1, 1]. Each
// side stays held for the hold window after its last event; when both
// sides are held the most recent press wins.
type AxisSignature struct {
	state
	neg, pos         []string
	negDown, posDown bool
	negLast, posLast time.Time
}

func NewAxis(id string, negative, positive []string, opts ...Option) *AxisSignature {
	return &AxisSignature{
		state: newState(id, opts...),
		neg:   normalizeKeyList(negative),
		pos:   normalizeKeyList(positive),
	}
}

func (a *AxisSignature) Feed(ev Event) bool {
	norm := NormalizeKey(ev.Key)
	switch {
	case slices.Contains(a.neg, norm):
		a.negDown = true
		a.negLast = ev.At
	case slices.Contains(a.pos, norm):
		a.posDown = true
		a.posLast = ev.At
	default:
		return false
	}
	a.press(ev.At)
	return true
}

func (a *AxisSignature) Tick(now time.Time) {
	a.state.Tick(now)
	if a.negDown && now.Sub(a.negLast) >= a.window {
		a.negDown = false
	}
	if a.posDown && now.Sub(a.posLast) >= a.window {
		a.posDown = false
	}
}

// Value returns -1, 0, or 1 for the currently winning side.
func (a *AxisSignature) Value() float64 {
	switch {
	case a.negDown && a.posDown:
		if a.posLast.After(a.negLast) {
			return 1
		}
		return -1
	case a.negDown:
		return -1
	case a.posDown:
		return 1
	}
	return 0
}
