package marshal

import (
	"fmt"

	"github.com/AndrewDonelson/typedis/internal/frame"
)

// Entry is one field/value pair of a hash-like reply.
type Entry[F, V any] struct {
	Field F
	Value V
}

// DecodeList decodes every child of a Multi frame with dec, keeping order.
// A Null frame decodes to an empty list.
func DecodeList[T any](f frame.Frame, dec func(frame.Frame) (T, error)) ([]T, error) {
	if f.IsNull() {
		return []T{}, nil
	}
	items, err := f.Items()
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	for i, it := range items {
		v, err := dec(it)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// DecodeSet decodes every child of a Multi frame into a set.
func DecodeSet[T comparable](f frame.Frame, dec func(frame.Frame) (T, error)) (map[T]struct{}, error) {
	list, err := DecodeList(f, dec)
	if err != nil {
		return nil, err
	}
	out := make(map[T]struct{}, len(list))
	for _, v := range list {
		out[v] = struct{}{}
	}
	return out, nil
}

// DecodePairs decodes a field/value reply. Both the flat alternating Multi
// shape and the native Map shape are accepted; order is preserved.
func DecodePairs[F, V any](f frame.Frame, fdec func(frame.Frame) (F, error), vdec func(frame.Frame) (V, error)) ([]Entry[F, V], error) {
	switch f.Kind() {
	case frame.KindNull:
		return []Entry[F, V]{}, nil
	case frame.KindMap:
		pairs, _ := f.Pairs()
		out := make([]Entry[F, V], 0, len(pairs))
		for _, p := range pairs {
			e, err := decodeEntry(p.Key, p.Value, fdec, vdec)
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}
		return out, nil
	case frame.KindMulti:
		items, _ := f.Items()
		if len(items)%2 != 0 {
			return nil, fmt.Errorf("%w: odd number of elements (%d) in field/value reply", frame.ErrShape, len(items))
		}
		out := make([]Entry[F, V], 0, len(items)/2)
		var pending frame.Frame
		for i, it := range items {
			if i%2 == 0 {
				pending = it
				continue
			}
			e, err := decodeEntry(pending, it, fdec, vdec)
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: map or multi expected, got %s", frame.ErrShape, f.Kind())
}

func decodeEntry[F, V any](kf, vf frame.Frame, fdec func(frame.Frame) (F, error), vdec func(frame.Frame) (V, error)) (Entry[F, V], error) {
	var e Entry[F, V]
	k, err := fdec(kf)
	if err != nil {
		return e, fmt.Errorf("field: %w", err)
	}
	v, err := vdec(vf)
	if err != nil {
		return e, fmt.Errorf("value of %v: %w", k, err)
	}
	return Entry[F, V]{Field: k, Value: v}, nil
}

// DecodeMap is DecodePairs collected into a Go map. A repeated field keeps
// its last value.
func DecodeMap[F comparable, V any](f frame.Frame, fdec func(frame.Frame) (F, error), vdec func(frame.Frame) (V, error)) (map[F]V, error) {
	entries, err := DecodePairs(f, fdec, vdec)
	if err != nil {
		return nil, err
	}
	out := make(map[F]V, len(entries))
	for _, e := range entries {
		out[e.Field] = e.Value
	}
	return out, nil
}

// DecodeOrderedMap zips the requested fields with the positional values of a
// Multi reply, as returned by MGET and HMGET. Fields whose value is Null are
// absent from the result.
func DecodeOrderedMap[F comparable, V any](f frame.Frame, vdec func(frame.Frame) (V, error), fields []F) (map[F]V, error) {
	items, err := f.Items()
	if err != nil {
		return nil, err
	}
	if len(items) != len(fields) {
		return nil, fmt.Errorf("%w: %d values for %d fields", frame.ErrShape, len(items), len(fields))
	}
	out := make(map[F]V, len(fields))
	for i, it := range items {
		if it.IsNull() {
			continue
		}
		v, err := vdec(it)
		if err != nil {
			return nil, fmt.Errorf("value of %v: %w", fields[i], err)
		}
		out[fields[i]] = v
	}
	return out, nil
}
