// Package marshal applies codecs to command arguments and reply frames,
// including the collection-shaped decoders shared by every command group.
package marshal

import (
	"errors"
	"fmt"

	"github.com/AndrewDonelson/typedis/internal/codec"
	"github.com/AndrewDonelson/typedis/internal/frame"
)

// ErrDecode wraps codec failures while decoding a reply.
var ErrDecode = errors.New("marshal: decode failed")

// ErrEncode wraps codec failures while encoding an argument.
var ErrEncode = errors.New("marshal: encode failed")

// Marshaller binds a registry to the key and value hint types of one
// command group. The codecs are resolved once, at construction.
type Marshaller[K, V any] struct {
	registry *codec.Registry
	keys     codec.Codec[K]
	values   codec.Codec[V]
}

// New resolves the codecs for K and V from r. A type with no codec yields a
// marshaller whose calls for that type fail with codec.ErrNoCodec.
func New[K, V any](r *codec.Registry) *Marshaller[K, V] {
	return &Marshaller[K, V]{
		registry: r,
		keys:     codec.MustLookup[K](r),
		values:   codec.MustLookup[V](r),
	}
}

// NewPayload is New with V resolved as a stored value, so payload codecs
// such as encryption apply to values while keys keep their plain codec.
func NewPayload[K, V any](r *codec.Registry) *Marshaller[K, V] {
	return &Marshaller[K, V]{
		registry: r,
		keys:     codec.MustLookup[K](r),
		values:   codec.MustLookupPayload[V](r),
	}
}

// WithCodecs builds a marshaller from explicit codecs.
func WithCodecs[K, V any](r *codec.Registry, keys codec.Codec[K], values codec.Codec[V]) *Marshaller[K, V] {
	return &Marshaller[K, V]{registry: r, keys: keys, values: values}
}

// Registry returns the registry the marshaller was built from.
func (m *Marshaller[K, V]) Registry() *codec.Registry { return m.registry }

// Keys returns the key codec.
func (m *Marshaller[K, V]) Keys() codec.Codec[K] { return m.keys }

// Values returns the value codec.
func (m *Marshaller[K, V]) Values() codec.Codec[V] { return m.values }

// EncodeKey encodes one key.
func (m *Marshaller[K, V]) EncodeKey(k K) ([]byte, error) { return Encode(m.keys, k) }

// EncodeKeys encodes keys in order.
func (m *Marshaller[K, V]) EncodeKeys(ks []K) ([][]byte, error) { return EncodeAll(m.keys, ks) }

// EncodeValue encodes one value.
func (m *Marshaller[K, V]) EncodeValue(v V) ([]byte, error) { return Encode(m.values, v) }

// EncodeValues encodes values in order.
func (m *Marshaller[K, V]) EncodeValues(vs []V) ([][]byte, error) { return EncodeAll(m.values, vs) }

// DecodeKey decodes a key frame; Null yields the zero key.
func (m *Marshaller[K, V]) DecodeKey(f frame.Frame) (K, error) { return Decode(m.keys, f) }

// DecodeValue decodes a value frame; Null yields the zero value.
func (m *Marshaller[K, V]) DecodeValue(f frame.Frame) (V, error) { return Decode(m.values, f) }

// Encode applies c to v, wrapping failures in ErrEncode.
func Encode[T any](c codec.Codec[T], v T) ([]byte, error) {
	b, err := c.Encode(v)
	if err != nil {
		if errors.Is(err, codec.ErrNoCodec) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return b, nil
}

// EncodeAll encodes vs in order.
func EncodeAll[T any](c codec.Codec[T], vs []T) ([][]byte, error) {
	out := make([][]byte, 0, len(vs))
	for _, v := range vs {
		b, err := Encode(c, v)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// Decode turns a scalar frame into T. Null returns the zero value; an Error
// frame returns its *frame.ServerError.
func Decode[T any](c codec.Codec[T], f frame.Frame) (T, error) {
	var zero T
	switch f.Kind() {
	case frame.KindNull:
		return zero, nil
	case frame.KindError:
		return zero, f.Err()
	}
	b, err := f.Bytes()
	if err != nil {
		return zero, err
	}
	v, err := c.Decode(b)
	if err != nil {
		if errors.Is(err, codec.ErrNoCodec) {
			return zero, err
		}
		return zero, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return v, nil
}

// DecodeOptional is Decode returning nil for a Null frame.
func DecodeOptional[T any](c codec.Codec[T], f frame.Frame) (*T, error) {
	if f.IsNull() {
		return nil, nil
	}
	v, err := Decode(c, f)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Decoder returns a frame decoder bound to c.
func Decoder[T any](c codec.Codec[T]) func(frame.Frame) (T, error) {
	return func(f frame.Frame) (T, error) { return Decode(c, f) }
}
