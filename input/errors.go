package input

import "errors"

var (
	// ErrNilSignature is returned when a nil signature is passed to an
	// operation that requires one.
	ErrNilSignature = errors.New("input: nil signature")

	// ErrDuplicateMapping is returned when a mapping key is already bound.
	ErrDuplicateMapping = errors.New("input: mapping already bound")

	// ErrCoercion is returned when a signature hash cannot be represented
	// as a value of the collection's mapping type.
	ErrCoercion = errors.New("input: hash not representable as mapping")

	// ErrOffsetOutOfRange is returned by CopyTo for a negative offset or
	// one past the end of the destination.
	ErrOffsetOutOfRange = errors.New("input: offset out of range")

	// ErrBufferTooSmall is returned by CopyTo when the destination cannot
	// hold every signature.
	ErrBufferTooSmall = errors.New("input: destination buffer too small")
)
