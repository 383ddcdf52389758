package typedis

import (
	"fmt"

	"github.com/AndrewDonelson/typedis/internal/frame"
	"github.com/AndrewDonelson/typedis/internal/marshal"
)

// ScoredValue is a sorted-set member with its score.
type ScoredValue[V any] struct {
	Value V
	Score float64
}

func asInt(f frame.Frame) (int64, error) { return f.Int() }

func asFloat(f frame.Frame) (float64, error) { return f.Float() }

func asBool(f frame.Frame) (bool, error) { return f.Bool() }

func asText(f frame.Frame) (string, error) { return f.Text() }

// asOK accepts the OK status reply.
func asOK(f frame.Frame) (struct{}, error) {
	s, err := f.Text()
	if err != nil {
		return struct{}{}, err
	}
	if s != "OK" {
		return struct{}{}, fmt.Errorf("%w: OK expected, got %q", frame.ErrShape, s)
	}
	return struct{}{}, nil
}

// asApplied reports whether a conditional write took effect: Null means
// the condition failed.
func asApplied(f frame.Frame) (bool, error) {
	if f.IsNull() {
		return false, nil
	}
	_, err := asOK(f)
	return err == nil, err
}

// required maps a Null reply to ErrNil before calling dec.
func required[T any](dec func(frame.Frame) (T, error)) func(frame.Frame) (T, error) {
	return func(f frame.Frame) (T, error) {
		if f.IsNull() {
			var zero T
			return zero, ErrNil
		}
		return dec(f)
	}
}

// decodeScored decodes a scored member list. RESP3 servers reply with
// nested [member, score] pairs; RESP2 servers and the *SCAN commands reply
// with a flat alternating list. The shape is chosen by the kind of the
// first element.
func decodeScored[V any](f frame.Frame, vdec func(frame.Frame) (V, error)) ([]ScoredValue[V], error) {
	if f.IsNull() {
		return []ScoredValue[V]{}, nil
	}
	items, err := f.Items()
	if err != nil {
		return nil, err
	}
	if len(items) > 0 && items[0].Kind() == frame.KindMulti {
		return marshal.DecodeList(f, func(pair frame.Frame) (ScoredValue[V], error) {
			if pair.Len() != 2 {
				return ScoredValue[V]{}, fmt.Errorf("%w: scored pair of %d elements", frame.ErrShape, pair.Len())
			}
			m, _ := pair.Index(0)
			s, _ := pair.Index(1)
			return scored(m, s, vdec)
		})
	}
	if len(items)%2 != 0 {
		return nil, fmt.Errorf("%w: odd number of elements (%d) in scored reply", frame.ErrShape, len(items))
	}
	out := make([]ScoredValue[V], 0, len(items)/2)
	for i := 0; i < len(items); i += 2 {
		sv, err := scored(items[i], items[i+1], vdec)
		if err != nil {
			return nil, err
		}
		out = append(out, sv)
	}
	return out, nil
}

func scored[V any](member, score frame.Frame, vdec func(frame.Frame) (V, error)) (ScoredValue[V], error) {
	v, err := vdec(member)
	if err != nil {
		return ScoredValue[V]{}, err
	}
	s, err := score.Float()
	if err != nil {
		return ScoredValue[V]{}, err
	}
	return ScoredValue[V]{Value: v, Score: s}, nil
}
