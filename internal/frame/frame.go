// Package frame models a decoded wire reply as a tree of typed nodes.
package frame

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrShape is returned when a frame does not have the shape a decoder expects.
var ErrShape = errors.New("frame: unexpected shape")

// Kind identifies the variant of a Frame.
type Kind int

const (
	KindNull Kind = iota
	KindSimple
	KindBulk
	KindInteger
	KindDouble
	KindBoolean
	KindError
	KindMulti
	KindMap
)

var kindNames = [...]string{"null", "simple", "bulk", "integer", "double", "boolean", "error", "multi", "map"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Pair is one key/value entry of a Map frame.
type Pair struct {
	Key   Frame
	Value Frame
}

// Frame is one node of a reply tree. The zero value is a Null frame.
type Frame struct {
	kind  Kind
	str   []byte
	num   int64
	dbl   float64
	items []Frame
	pairs []Pair
}

// Null returns a Null frame.
func Null() Frame { return Frame{} }

// Simple returns a simple-string frame.
func Simple(s string) Frame { return Frame{kind: KindSimple, str: []byte(s)} }

// Bulk returns a bulk-bytes frame.
func Bulk(b []byte) Frame { return Frame{kind: KindBulk, str: b} }

// BulkString is Bulk for text.
func BulkString(s string) Frame { return Frame{kind: KindBulk, str: []byte(s)} }

// Integer returns an integer frame.
func Integer(n int64) Frame { return Frame{kind: KindInteger, num: n} }

// Double returns a floating point frame.
func Double(f float64) Frame { return Frame{kind: KindDouble, dbl: f} }

// Boolean returns a boolean frame.
func Boolean(b bool) Frame {
	f := Frame{kind: KindBoolean}
	if b {
		f.num = 1
	}
	return f
}

// Error returns an error frame carrying the server message.
func Error(msg string) Frame { return Frame{kind: KindError, str: []byte(msg)} }

// Multi returns an ordered sequence frame.
func Multi(items ...Frame) Frame {
	if items == nil {
		items = []Frame{}
	}
	return Frame{kind: KindMulti, items: items}
}

// Map returns a map frame; pair order is preserved.
func Map(pairs ...Pair) Frame {
	if pairs == nil {
		pairs = []Pair{}
	}
	return Frame{kind: KindMap, pairs: pairs}
}

// Kind returns the frame variant.
func (f Frame) Kind() Kind { return f.kind }

// IsNull reports whether f is a Null frame.
func (f Frame) IsNull() bool { return f.kind == KindNull }

// IsError reports whether f is an Error frame.
func (f Frame) IsError() bool { return f.kind == KindError }

// Bytes returns the raw bytes of a Simple or Bulk frame. Scalar numeric and
// boolean frames are rendered as text so that byte codecs can read them
// regardless of protocol version.
func (f Frame) Bytes() ([]byte, error) {
	switch f.kind {
	case KindSimple, KindBulk:
		return f.str, nil
	case KindInteger:
		return strconv.AppendInt(nil, f.num, 10), nil
	case KindDouble:
		return strconv.AppendFloat(nil, f.dbl, 'f', -1, 64), nil
	case KindBoolean:
		if f.num == 1 {
			return []byte("1"), nil
		}
		return []byte("0"), nil
	}
	return nil, mismatch("string", f)
}

// Text is Bytes as a string.
func (f Frame) Text() (string, error) {
	b, err := f.Bytes()
	return string(b), err
}

// Int returns an Integer frame's value, or parses a string frame.
func (f Frame) Int() (int64, error) {
	switch f.kind {
	case KindInteger, KindBoolean:
		return f.num, nil
	case KindSimple, KindBulk:
		n, err := strconv.ParseInt(string(f.str), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: integer expected, got %q", ErrShape, f.str)
		}
		return n, nil
	}
	return 0, mismatch("integer", f)
}

// Float returns a Double frame's value, or parses a string or integer frame.
func (f Frame) Float() (float64, error) {
	switch f.kind {
	case KindDouble:
		return f.dbl, nil
	case KindInteger:
		return float64(f.num), nil
	case KindSimple, KindBulk:
		v, err := strconv.ParseFloat(string(f.str), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: float expected, got %q", ErrShape, f.str)
		}
		return v, nil
	}
	return 0, mismatch("double", f)
}

// Bool interprets Boolean frames and the integer 0/1 convention.
func (f Frame) Bool() (bool, error) {
	switch f.kind {
	case KindBoolean, KindInteger:
		return f.num == 1, nil
	case KindSimple, KindBulk:
		switch string(f.str) {
		case "1", "OK":
			return true, nil
		case "0":
			return false, nil
		}
	}
	return false, mismatch("boolean", f)
}

// Len returns the number of children of a Multi frame or pairs of a Map
// frame; zero for any other kind.
func (f Frame) Len() int {
	switch f.kind {
	case KindMulti:
		return len(f.items)
	case KindMap:
		return len(f.pairs)
	}
	return 0
}

// Items returns the children of a Multi frame.
func (f Frame) Items() ([]Frame, error) {
	if f.kind != KindMulti {
		return nil, mismatch("multi", f)
	}
	return f.items, nil
}

// Index returns the i-th child of a Multi frame.
func (f Frame) Index(i int) (Frame, error) {
	if f.kind != KindMulti {
		return Frame{}, mismatch("multi", f)
	}
	if i < 0 || i >= len(f.items) {
		return Frame{}, fmt.Errorf("%w: index %d out of range [0,%d)", ErrShape, i, len(f.items))
	}
	return f.items[i], nil
}

// Pairs returns the entries of a Map frame.
func (f Frame) Pairs() ([]Pair, error) {
	if f.kind != KindMap {
		return nil, mismatch("map", f)
	}
	return f.pairs, nil
}

// Err returns a *ServerError for Error frames and nil otherwise.
func (f Frame) Err() error {
	if f.kind != KindError {
		return nil
	}
	return &ServerError{Message: string(f.str)}
}

// String renders the frame for logs and test failures.
func (f Frame) String() string {
	var sb strings.Builder
	f.write(&sb)
	return sb.String()
}

func (f Frame) write(sb *strings.Builder) {
	switch f.kind {
	case KindNull:
		sb.WriteString("(nil)")
	case KindSimple:
		sb.WriteString("+")
		sb.Write(f.str)
	case KindBulk:
		sb.WriteString(strconv.Quote(string(f.str)))
	case KindInteger:
		sb.WriteString("(integer) ")
		sb.WriteString(strconv.FormatInt(f.num, 10))
	case KindDouble:
		sb.WriteString("(double) ")
		sb.WriteString(strconv.FormatFloat(f.dbl, 'g', -1, 64))
	case KindBoolean:
		sb.WriteString("(boolean) ")
		sb.WriteString(strconv.FormatBool(f.num == 1))
	case KindError:
		sb.WriteString("(error) ")
		sb.Write(f.str)
	case KindMulti:
		sb.WriteString("[")
		for i, it := range f.items {
			if i > 0 {
				sb.WriteString(", ")
			}
			it.write(sb)
		}
		sb.WriteString("]")
	case KindMap:
		sb.WriteString("{")
		for i, p := range f.pairs {
			if i > 0 {
				sb.WriteString(", ")
			}
			p.Key.write(sb)
			sb.WriteString(": ")
			p.Value.write(sb)
		}
		sb.WriteString("}")
	}
}

func mismatch(want string, f Frame) error {
	return fmt.Errorf("%w: %s expected, got %s", ErrShape, want, f.kind)
}

// ServerError is an error reply returned by the server.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string { return e.Message }

// Code returns the leading error code, e.g. "ERR" or "WRONGTYPE".
func (e *ServerError) Code() string {
	code, _, _ := strings.Cut(e.Message, " ")
	return code
}
