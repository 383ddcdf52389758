package codec_test

import (
	"math"
	"testing"

	"github.com/AndrewDonelson/typedis/internal/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   int    `json:"id" msgpack:"id"`
	Name string `json:"name" msgpack:"name"`
}

func roundTrip[T any](t *testing.T, c codec.Codec[T], values ...T) {
	t.Helper()
	for _, v := range values {
		b, err := c.Encode(v)
		require.NoError(t, err)
		got, err := c.Decode(b)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestBuiltins_RoundTrip(t *testing.T) {
	roundTrip(t, codec.String, "", "user:1", "héllo wörld")
	roundTrip(t, codec.Bytes, []byte{}, []byte{0, 1, 2, 255})
	roundTrip(t, codec.Bool, true, false)
	roundTrip(t, codec.Int, 0, 42, -7, math.MaxInt)
	roundTrip(t, codec.Int64, int64(math.MinInt64), int64(math.MaxInt64))
	roundTrip(t, codec.Int32, int32(-12), int32(math.MaxInt32))
	roundTrip(t, codec.Uint64, uint64(0), uint64(math.MaxUint64))
	roundTrip(t, codec.Float64, 0, 3.14, -2.5e-9, 1e21, math.Inf(1), math.Inf(-1))
	roundTrip(t, codec.Float32, float32(1.5), float32(-0.25))
}

func TestFloat64_InfinitySpelling(t *testing.T) {
	b, err := codec.Float64.Encode(math.Inf(1))
	require.NoError(t, err)
	assert.Equal(t, "+inf", string(b))

	b, err = codec.Float64.Encode(math.Inf(-1))
	require.NoError(t, err)
	assert.Equal(t, "-inf", string(b))
}

func TestInt_DecodeInvalid(t *testing.T) {
	_, err := codec.Int64.Decode([]byte("forty-two"))
	assert.Error(t, err)
}

func TestBool_DecodeInvalid(t *testing.T) {
	_, err := codec.Bool.Decode([]byte("maybe"))
	assert.Error(t, err)
}

func TestStructured_JSON(t *testing.T) {
	c := codec.Structured[item](codec.JSON{})
	roundTrip(t, c, item{ID: 1, Name: "test"})
	assert.Equal(t, "json", codec.JSON{}.Name())
}

func TestStructured_MsgPack(t *testing.T) {
	c := codec.Structured[item](codec.MsgPack{})
	roundTrip(t, c, item{ID: 42, Name: "pack"})
	assert.Equal(t, "msgpack", codec.MsgPack{}.Name())
}

func TestStructured_UnmarshalError(t *testing.T) {
	c := codec.Structured[item](codec.JSON{})
	_, err := c.Decode([]byte("{not json"))
	assert.Error(t, err)
}

func TestSerializerByName(t *testing.T) {
	s, ok := codec.SerializerByName("msgpack")
	require.True(t, ok)
	assert.Equal(t, "msgpack", s.Name())

	s, ok = codec.SerializerByName("")
	assert.True(t, ok)
	assert.Nil(t, s)

	_, ok = codec.SerializerByName("xml")
	assert.False(t, ok)
}

func TestEncrypted_RoundTrip(t *testing.T) {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	c, err := codec.Encrypted(codec.String, key)
	require.NoError(t, err)

	b, err := c.Encode("Hello, typedis!")
	require.NoError(t, err)
	assert.NotContains(t, string(b), "Hello")
	roundTrip(t, c, "Hello, typedis!", "")
}

func TestEncrypted_InvalidKeyLength(t *testing.T) {
	_, err := codec.Encrypted(codec.String, []byte("short"))
	assert.Error(t, err)
}

func TestEncrypted_TamperDetection(t *testing.T) {
	c, err := codec.Encrypted(codec.Int64, make([]byte, 32))
	require.NoError(t, err)
	b, err := c.Encode(99)
	require.NoError(t, err)
	b[len(b)-1] ^= 0xFF
	_, err = c.Decode(b)
	assert.ErrorIs(t, err, codec.ErrCiphertext)

	_, err = c.Decode([]byte("x"))
	assert.ErrorIs(t, err, codec.ErrCiphertext)
}
