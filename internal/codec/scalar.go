package codec

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// String encodes text as its UTF-8 bytes.
var String Codec[string] = New(
	func(v string) ([]byte, error) { return []byte(v), nil },
	func(b []byte) (string, error) { return string(b), nil },
)

// Bytes passes raw bytes through unchanged (copied on decode).
var Bytes Codec[[]byte] = New(
	func(v []byte) ([]byte, error) { return v, nil },
	func(b []byte) ([]byte, error) {
		out := make([]byte, len(b))
		copy(out, b)
		return out, nil
	},
)

// Bool encodes true as "1" and false as "0".
var Bool Codec[bool] = New(
	func(v bool) ([]byte, error) {
		if v {
			return []byte("1"), nil
		}
		return []byte("0"), nil
	},
	func(b []byte) (bool, error) {
		switch string(b) {
		case "1", "true", "TRUE", "True":
			return true, nil
		case "0", "false", "FALSE", "False":
			return false, nil
		}
		return false, fmt.Errorf("codec: invalid bool %q", b)
	},
)

// Float64 encodes floats in the shortest form that round-trips; infinities
// use the server's "+inf" / "-inf" spelling.
var Float64 Codec[float64] = floating[float64](64)

// Float32 is the 32-bit variant of Float64.
var Float32 Codec[float32] = floating[float32](32)

func floating[T ~float32 | ~float64](bits int) Codec[T] {
	return New(
		func(v T) ([]byte, error) { return []byte(FormatFloat(float64(v), bits)), nil },
		func(b []byte) (T, error) {
			f, err := strconv.ParseFloat(string(b), bits)
			if err != nil {
				return 0, fmt.Errorf("codec: invalid float %q: %w", b, err)
			}
			return T(f), nil
		},
	)
}

// FormatFloat renders f the way the server parses it.
func FormatFloat(f float64, bits int) string {
	switch {
	case math.IsInf(f, 1):
		return "+inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}

func signed[T ~int | ~int8 | ~int16 | ~int32 | ~int64](bits int) Codec[T] {
	return New(
		func(v T) ([]byte, error) { return strconv.AppendInt(nil, int64(v), 10), nil },
		func(b []byte) (T, error) {
			n, err := strconv.ParseInt(string(b), 10, bits)
			if err != nil {
				return 0, fmt.Errorf("codec: invalid integer %q: %w", b, err)
			}
			return T(n), nil
		},
	)
}

func unsigned[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](bits int) Codec[T] {
	return New(
		func(v T) ([]byte, error) { return strconv.AppendUint(nil, uint64(v), 10), nil },
		func(b []byte) (T, error) {
			n, err := strconv.ParseUint(string(b), 10, bits)
			if err != nil {
				return 0, fmt.Errorf("codec: invalid unsigned integer %q: %w", b, err)
			}
			return T(n), nil
		},
	)
}

// Integer codecs.
var (
	Int    Codec[int]    = signed[int](strconv.IntSize)
	Int8   Codec[int8]   = signed[int8](8)
	Int16  Codec[int16]  = signed[int16](16)
	Int32  Codec[int32]  = signed[int32](32)
	Int64  Codec[int64]  = signed[int64](64)
	Uint   Codec[uint]   = unsigned[uint](strconv.IntSize)
	Uint8  Codec[uint8]  = unsigned[uint8](8)
	Uint16 Codec[uint16] = unsigned[uint16](16)
	Uint32 Codec[uint32] = unsigned[uint32](32)
	Uint64 Codec[uint64] = unsigned[uint64](64)
)

// builtins is the default table consulted after a registry's overrides.
var builtins = map[reflect.Type]entry{}

func init() {
	addBuiltin(String)
	addBuiltin(Bytes)
	addBuiltin(Bool)
	addBuiltin(Float64)
	addBuiltin(Float32)
	addBuiltin(Int)
	addBuiltin(Int8)
	addBuiltin(Int16)
	addBuiltin(Int32)
	addBuiltin(Int64)
	addBuiltin(Uint)
	addBuiltin(Uint8)
	addBuiltin(Uint16)
	addBuiltin(Uint32)
	addBuiltin(Uint64)
}

func addBuiltin[T any](c Codec[T]) {
	builtins[reflect.TypeFor[T]()] = entryFor(c)
}
