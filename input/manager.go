package input

import "time"

// Valuer is implemented by signatures that report a continuous value, like
// an axis.
type Valuer interface {
	Value() float64
}

// Manager owns a collection and drives its pollable signatures from a
// frame clock: Tick once per frame, Feed for each event that arrived, then
// query by mapping. Polling follows the collection's order sequence, so
// call Resort after binding to honor precedence. Single-threaded like the
// collection it wraps.
type Manager[T Mapping] struct {
	col   *MappedCollection[T]
	press func(mapping T, sig Signature)
}

func NewManager[T Mapping]() *Manager[T] {
	return &Manager[T]{col: NewMappedCollection[T]()}
}

// OnPress registers a hook invoked whenever a signature newly comes down,
// with the mapping it is bound under.
func (m *Manager[T]) OnPress(fn func(mapping T, sig Signature)) {
	m.press = fn
}

func (m *Manager[T]) Bind(mapping T, sig Signature) error {
	return m.col.Add(mapping, sig)
}

func (m *Manager[T]) Unbind(mapping T) bool {
	return m.col.Remove(mapping)
}

// Resort re-sorts the underlying collection by precedence.
func (m *Manager[T]) Resort() {
	m.col.Sort()
}

// Tick starts a new frame on every pollable signature.
func (m *Manager[T]) Tick(now time.Time) {
	for _, sig := range m.col.order {
		if p, ok := sig.(Pollable); ok {
			p.Tick(now)
		}
	}
}

// Feed offers ev to pollable signatures in polling order and returns the
// mappings that matched. An exclusive match claims the event and stops the
// walk.
func (m *Manager[T]) Feed(ev Event) []T {
	var matched []T
	for _, sig := range m.col.order {
		p, ok := sig.(Pollable)
		if !ok {
			continue
		}
		before := p.Down()
		if !p.Feed(ev) {
			continue
		}
		if mapping, ok := m.mappingFor(sig); ok {
			matched = append(matched, mapping)
			if !before && p.Down() && m.press != nil {
				m.press(mapping, sig)
			}
		}
		if p.Exclusive() {
			break
		}
	}
	return matched
}

func (m *Manager[T]) mappingFor(sig Signature) (T, bool) {
	for mapping, cur := range m.col.index {
		if cur == sig {
			return mapping, true
		}
	}
	var zero T
	return zero, false
}

func (m *Manager[T]) pollable(mapping T) (Pollable, bool) {
	sig, ok := m.col.Get(mapping)
	if !ok {
		return nil, false
	}
	p, ok := sig.(Pollable)
	return p, ok
}

func (m *Manager[T]) Down(mapping T) bool {
	p, ok := m.pollable(mapping)
	return ok && p.Down()
}

func (m *Manager[T]) JustPressed(mapping T) bool {
	p, ok := m.pollable(mapping)
	return ok && p.JustPressed()
}

func (m *Manager[T]) JustReleased(mapping T) bool {
	p, ok := m.pollable(mapping)
	return ok && p.JustReleased()
}

// Value returns the axis value for mapping, or 1/0 from the down state for
// signatures without one.
func (m *Manager[T]) Value(mapping T) float64 {
	sig, ok := m.col.Get(mapping)
	if !ok {
		return 0
	}
	if v, ok := sig.(Valuer); ok {
		return v.Value()
	}
	if p, ok := sig.(Pollable); ok && p.Down() {
		return 1
	}
	return 0
}

// Collection exposes the underlying collection for direct manipulation.
func (m *Manager[T]) Collection() *MappedCollection[T] {
	return m.col
}

// Bindings returns the bound signatures in polling order.
func (m *Manager[T]) Bindings() []Signature {
	return m.col.Signatures()
}
