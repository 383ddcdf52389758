package codec

import (
	"fmt"
	"reflect"
	"sync"
)

// entry is a registered codec plus an untyped encode path for runtime lookups.
type entry struct {
	codec     any
	encodeAny func(any) ([]byte, error)
}

func entryFor[T any](c Codec[T]) entry {
	return entry{
		codec: c,
		encodeAny: func(v any) ([]byte, error) {
			return c.Encode(v.(T))
		},
	}
}

// Registry maps type tags to codecs. Overrides take precedence over the
// built-in scalar table; a fallback serializer, when set, serves every other
// type. Payload codecs apply only to stored values, never to keys, hash
// fields or set members, which must encode deterministically. Safe for
// concurrent use.
type Registry struct {
	mu        sync.RWMutex
	overrides map[reflect.Type]entry
	payloads  map[reflect.Type]any
	fallback  Serializer
}

// NewRegistry creates a registry with only the built-in scalar codecs.
func NewRegistry() *Registry {
	return &Registry{overrides: make(map[reflect.Type]entry), payloads: make(map[reflect.Type]any)}
}

// SetFallback installs a serializer used for types without a codec.
// A nil serializer removes the fallback.
func (r *Registry) SetFallback(s Serializer) {
	r.mu.Lock()
	r.fallback = s
	r.mu.Unlock()
}

// Fallback returns the current fallback serializer, or nil.
func (r *Registry) Fallback() Serializer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fallback
}

// Register inserts or replaces the codec for T.
func Register[T any](r *Registry, c Codec[T]) {
	r.mu.Lock()
	r.overrides[reflect.TypeFor[T]()] = entryFor(c)
	r.mu.Unlock()
}

// RegisterPayload inserts or replaces the codec for T used when T is a
// stored value. Lookup is unaffected.
func RegisterPayload[T any](r *Registry, c Codec[T]) {
	r.mu.Lock()
	r.payloads[reflect.TypeFor[T]()] = c
	r.mu.Unlock()
}

// LookupPayload resolves the codec for T as a stored value: a payload codec
// if one is registered, otherwise Lookup.
func LookupPayload[T any](r *Registry) (Codec[T], error) {
	r.mu.RLock()
	c, ok := r.payloads[reflect.TypeFor[T]()]
	r.mu.RUnlock()
	if ok {
		return c.(Codec[T]), nil
	}
	return Lookup[T](r)
}

// MustLookupPayload is LookupPayload with the error deferred to each call.
func MustLookupPayload[T any](r *Registry) Codec[T] {
	c, err := LookupPayload[T](r)
	if err != nil {
		return Missing[T](err)
	}
	return c
}

// Lookup resolves the codec for T: overrides, then built-ins, then the
// fallback serializer.
func Lookup[T any](r *Registry) (Codec[T], error) {
	t := reflect.TypeFor[T]()
	r.mu.RLock()
	e, ok := r.overrides[t]
	fb := r.fallback
	r.mu.RUnlock()
	if !ok {
		e, ok = builtins[t]
	}
	if ok {
		return e.codec.(Codec[T]), nil
	}
	if fb != nil {
		return Structured[T](fb), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNoCodec, t)
}

// MustLookup is like Lookup but returns a codec that reports the lookup
// error on every call instead of failing immediately.
func MustLookup[T any](r *Registry) Codec[T] {
	c, err := Lookup[T](r)
	if err != nil {
		return Missing[T](err)
	}
	return c
}

// Encode encodes v using its runtime type. Strings and byte slices pass
// through without consulting the tables.
func (r *Registry) Encode(v any) ([]byte, error) {
	switch x := v.(type) {
	case string:
		return []byte(x), nil
	case []byte:
		return x, nil
	case nil:
		return nil, fmt.Errorf("%w: <nil>", ErrNoCodec)
	}
	t := reflect.TypeOf(v)
	r.mu.RLock()
	e, ok := r.overrides[t]
	fb := r.fallback
	r.mu.RUnlock()
	if !ok {
		e, ok = builtins[t]
	}
	if ok {
		return e.encodeAny(v)
	}
	if fb != nil {
		b, err := fb.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("codec %s marshal: %w", fb.Name(), err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNoCodec, t)
}
