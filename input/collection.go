package input

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
)

// MappedCollection stores signatures indexed by a mapping key, keeping an
// insertion-ordered sequence alongside the index for enumeration and
// precedence sorting. The index and the order sequence always hold the same
// membership; every mutation updates both. Not safe for concurrent use; it
// expects a single frame-driven owner.
type MappedCollection[T Mapping] struct {
	index map[T]Signature
	order []Signature
	gen   uint64
}

func NewMappedCollection[T Mapping]() *MappedCollection[T] {
	return &MappedCollection[T]{index: make(map[T]Signature)}
}

// Add binds sig under mapping and appends it to the order sequence. The
// append is unsorted; call Sort to restore precedence order. By convention
// each signature is registered under exactly one mapping key.
func (c *MappedCollection[T]) Add(mapping T, sig Signature) error {
	if sig == nil {
		return ErrNilSignature
	}
	if _, exists := c.index[mapping]; exists {
		return fmt.Errorf("%w: %v", ErrDuplicateMapping, mapping)
	}
	c.index[mapping] = sig
	c.order = append(c.order, sig)
	c.gen++
	return nil
}

// AddSignature derives the mapping key from the signature's hash. The hash
// must round-trip through T unchanged, and if T implements Validator the
// coerced value must name a member.
func (c *MappedCollection[T]) AddSignature(sig Signature) error {
	if sig == nil {
		return ErrNilSignature
	}
	mapping, err := coerce[T](sig.Hash())
	if err != nil {
		return fmt.Errorf("signature %q: %w", sig.ID(), err)
	}
	return c.Add(mapping, sig)
}

func coerce[T Mapping](h uint32) (T, error) {
	m := T(h)
	if uint64(m) != uint64(h) {
		var zero T
		return zero, fmt.Errorf("%w: hash %d overflows %T", ErrCoercion, h, zero)
	}
	if v, ok := any(m).(Validator); ok && !v.Valid() {
		var zero T
		return zero, fmt.Errorf("%w: hash %d is not a member of %T", ErrCoercion, h, zero)
	}
	return m, nil
}

// Get looks up the signature bound under mapping.
func (c *MappedCollection[T]) Get(mapping T) (Signature, bool) {
	sig, ok := c.index[mapping]
	return sig, ok
}

// GetByID scans for a signature whose ID matches. Slower than Get; when
// several signatures share an ID the match order is unspecified.
func (c *MappedCollection[T]) GetByID(id string) (Signature, bool) {
	for _, sig := range c.index {
		if sig.ID() == id {
			return sig, true
		}
	}
	return nil, false
}

// GetByHash scans for a signature whose hash matches, with the same
// ordering caveat as GetByID.
func (c *MappedCollection[T]) GetByHash(hash uint32) (Signature, bool) {
	for _, sig := range c.index {
		if sig.Hash() == hash {
			return sig, true
		}
	}
	return nil, false
}

func (c *MappedCollection[T]) Contains(mapping T) bool {
	_, ok := c.index[mapping]
	return ok
}

func (c *MappedCollection[T]) ContainsID(id string) bool {
	_, ok := c.GetByID(id)
	return ok
}

// ContainsSignature reports whether sig itself is stored, compared by
// identity.
func (c *MappedCollection[T]) ContainsSignature(sig Signature) bool {
	return slices.Contains(c.order, sig)
}

// Remove unbinds mapping, dropping the signature from both the index and
// the order sequence. Reports whether anything was removed.
func (c *MappedCollection[T]) Remove(mapping T) bool {
	sig, ok := c.index[mapping]
	if !ok {
		return false
	}
	delete(c.index, mapping)
	c.dropFromOrder(sig)
	c.gen++
	return true
}

// RemoveByID removes the first signature whose ID matches, with the same
// ordering caveat as GetByID.
func (c *MappedCollection[T]) RemoveByID(id string) bool {
	for mapping, sig := range c.index {
		if sig.ID() == id {
			delete(c.index, mapping)
			c.dropFromOrder(sig)
			c.gen++
			return true
		}
	}
	return false
}

// RemoveSignature removes sig, compared by identity.
func (c *MappedCollection[T]) RemoveSignature(sig Signature) bool {
	for mapping, cur := range c.index {
		if cur == sig {
			delete(c.index, mapping)
			c.dropFromOrder(cur)
			c.gen++
			return true
		}
	}
	return false
}

func (c *MappedCollection[T]) dropFromOrder(sig Signature) {
	if i := slices.Index(c.order, sig); i >= 0 {
		c.order = slices.Delete(c.order, i, i+1)
	}
}

// Clear empties the collection.
func (c *MappedCollection[T]) Clear() {
	clear(c.index)
	c.order = nil
	c.gen++
}

// Sort reorders the order sequence by ascending precedence. The sort is
// stable, so equal-precedence signatures keep their relative order.
// Sorting never happens implicitly; signatures added after a Sort sit at
// the end until the next call.
func (c *MappedCollection[T]) Sort() {
	slices.SortStableFunc(c.order, func(a, b Signature) int {
		return cmp.Compare(a.Precedence(), b.Precedence())
	})
	c.gen++
}

func (c *MappedCollection[T]) Len() int {
	return len(c.index)
}

// All returns a restartable sequence over the order sequence: insertion
// order until Sort has been called, sorted order after. Mutating the
// collection during a walk panics.
func (c *MappedCollection[T]) All() iter.Seq[Signature] {
	return func(yield func(Signature) bool) {
		gen := c.gen
		for _, sig := range c.order {
			if c.gen != gen {
				panic("input: collection modified during iteration")
			}
			if !yield(sig) {
				return
			}
		}
	}
}

// Signatures returns a copy of the order sequence.
func (c *MappedCollection[T]) Signatures() []Signature {
	return slices.Clone(c.order)
}

// CopyTo copies the order sequence into dst starting at offset at.
func (c *MappedCollection[T]) CopyTo(dst []Signature, at int) error {
	if at < 0 || at > len(dst) {
		return fmt.Errorf("%w: %d", ErrOffsetOutOfRange, at)
	}
	if len(dst)-at < len(c.order) {
		return fmt.Errorf("%w: need %d, have %d", ErrBufferTooSmall, len(c.order), len(dst)-at)
	}
	copy(dst[at:], c.order)
	return nil
}
