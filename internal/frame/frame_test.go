package frame_test

import (
	"testing"

	"github.com/AndrewDonelson/typedis/internal/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrame_ZeroValueIsNull(t *testing.T) {
	var f frame.Frame
	assert.True(t, f.IsNull())
	assert.Equal(t, frame.KindNull, f.Kind())
	assert.Equal(t, "(nil)", f.String())
}

func TestFrame_SimpleAndBulkBytes(t *testing.T) {
	s, err := frame.Simple("OK").Bytes()
	require.NoError(t, err)
	b, err := frame.BulkString("OK").Bytes()
	require.NoError(t, err)
	assert.Equal(t, s, b)
}

func TestFrame_ScalarText(t *testing.T) {
	cases := []struct {
		f    frame.Frame
		want string
	}{
		{frame.Integer(-3), "-3"},
		{frame.Double(1.5), "1.5"},
		{frame.Boolean(true), "1"},
		{frame.Boolean(false), "0"},
	}
	for _, tc := range cases {
		got, err := tc.f.Text()
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}

func TestFrame_BytesOnMulti(t *testing.T) {
	_, err := frame.Multi().Bytes()
	assert.ErrorIs(t, err, frame.ErrShape)
}

func TestFrame_Int(t *testing.T) {
	n, err := frame.Integer(42).Int()
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	n, err = frame.BulkString("17").Int()
	require.NoError(t, err)
	assert.Equal(t, int64(17), n)

	_, err = frame.BulkString("x").Int()
	assert.ErrorIs(t, err, frame.ErrShape)

	_, err = frame.Null().Int()
	assert.ErrorIs(t, err, frame.ErrShape)
}

func TestFrame_Float(t *testing.T) {
	for _, f := range []frame.Frame{frame.Double(2.5), frame.BulkString("2.5"), frame.Simple("2.5")} {
		v, err := f.Float()
		require.NoError(t, err)
		assert.Equal(t, 2.5, v)
	}
	v, err := frame.BulkString("inf").Float()
	require.NoError(t, err)
	assert.True(t, v > 1e308)
}

func TestFrame_Bool(t *testing.T) {
	ok, err := frame.Integer(1).Bool()
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = frame.Boolean(false).Bool()
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = frame.Simple("OK").Bool()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFrame_MultiAccess(t *testing.T) {
	f := frame.Multi(frame.BulkString("a"), frame.Integer(1))
	assert.Equal(t, 2, f.Len())

	items, err := f.Items()
	require.NoError(t, err)
	assert.Len(t, items, 2)

	second, err := f.Index(1)
	require.NoError(t, err)
	assert.Equal(t, frame.KindInteger, second.Kind())

	_, err = f.Index(2)
	assert.ErrorIs(t, err, frame.ErrShape)
	assert.Equal(t, `["a", (integer) 1]`, f.String())
}

func TestFrame_MapAccess(t *testing.T) {
	f := frame.Map(frame.Pair{Key: frame.BulkString("f1"), Value: frame.BulkString("v1")})
	assert.Equal(t, 1, f.Len())
	pairs, err := f.Pairs()
	require.NoError(t, err)
	assert.Equal(t, "v1", mustText(t, pairs[0].Value))

	_, err = frame.Multi().Pairs()
	assert.ErrorIs(t, err, frame.ErrShape)
	_, err = f.Items()
	assert.ErrorIs(t, err, frame.ErrShape)
	assert.Equal(t, `{"f1": "v1"}`, f.String())
}

func TestFrame_EmptyCollectionsNotNull(t *testing.T) {
	assert.False(t, frame.Multi().IsNull())
	assert.False(t, frame.Map().IsNull())
	assert.Equal(t, 0, frame.Map().Len())
}

func TestFrame_ErrorFrame(t *testing.T) {
	f := frame.Error("WRONGTYPE Operation against a key holding the wrong kind of value")
	assert.True(t, f.IsError())

	err := f.Err()
	require.Error(t, err)
	var se *frame.ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "WRONGTYPE", se.Code())
	assert.Nil(t, frame.BulkString("x").Err())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "multi", frame.KindMulti.String())
	assert.Equal(t, "kind(42)", frame.Kind(42).String())
}

func mustText(t *testing.T, f frame.Frame) string {
	t.Helper()
	s, err := f.Text()
	require.NoError(t, err)
	return s
}
