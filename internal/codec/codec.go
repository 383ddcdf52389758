// Package codec provides typed encode/decode strategies and the registry that
// maps application types to them.
package codec

import (
	"errors"
	"fmt"
)

// ErrNoCodec is returned when no codec is registered for a type and the
// registry has no fallback serializer.
var ErrNoCodec = errors.New("codec: no codec for type")

// Codec encodes and decodes values of T to and from wire bytes.
// Implementations must be stateless: Decode(Encode(x)) must equal x.
type Codec[T any] interface {
	Encode(v T) ([]byte, error)
	Decode(data []byte) (T, error)
}

// Serializer is an untyped marshal/unmarshal pair for structured payloads.
type Serializer interface {
	// Marshal serializes v into bytes.
	Marshal(v any) ([]byte, error)
	// Unmarshal deserializes data into v (must be a pointer).
	Unmarshal(data []byte, v any) error
	// Name returns the serializer identifier used for diagnostics.
	Name() string
}

// Funcs is a Codec built from a pair of functions.
type Funcs[T any] struct {
	EncodeFunc func(T) ([]byte, error)
	DecodeFunc func([]byte) (T, error)
}

// New returns a Codec from an encode and a decode function.
func New[T any](enc func(T) ([]byte, error), dec func([]byte) (T, error)) Codec[T] {
	return Funcs[T]{EncodeFunc: enc, DecodeFunc: dec}
}

// Encode calls EncodeFunc.
func (f Funcs[T]) Encode(v T) ([]byte, error) { return f.EncodeFunc(v) }

// Decode calls DecodeFunc.
func (f Funcs[T]) Decode(data []byte) (T, error) { return f.DecodeFunc(data) }

// structured adapts a Serializer to a typed Codec.
type structured[T any] struct {
	s Serializer
}

// Structured returns a Codec for T that delegates to s.
func Structured[T any](s Serializer) Codec[T] {
	return structured[T]{s: s}
}

func (c structured[T]) Encode(v T) ([]byte, error) {
	b, err := c.s.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("codec %s marshal: %w", c.s.Name(), err)
	}
	return b, nil
}

func (c structured[T]) Decode(data []byte) (T, error) {
	var v T
	if err := c.s.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("codec %s unmarshal: %w", c.s.Name(), err)
	}
	return v, nil
}

// missing is returned by Lookup-family helpers that must not fail at
// construction time; every call reports the original lookup error.
type missing[T any] struct {
	err error
}

// Missing returns a Codec whose every call fails with err.
func Missing[T any](err error) Codec[T] {
	return missing[T]{err: err}
}

func (m missing[T]) Encode(T) ([]byte, error) { return nil, m.err }

func (m missing[T]) Decode([]byte) (T, error) {
	var zero T
	return zero, m.err
}
