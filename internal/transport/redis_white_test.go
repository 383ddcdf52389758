package transport

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/AndrewDonelson/typedis/internal/frame"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToFrame_Scalars(t *testing.T) {
	cases := []struct {
		in   interface{}
		kind frame.Kind
		want string
	}{
		{nil, frame.KindNull, "(nil)"},
		{"v", frame.KindBulk, `"v"`},
		{int64(3), frame.KindInteger, "(integer) 3"},
		{1.5, frame.KindDouble, "(double) 1.5"},
		{true, frame.KindBoolean, "(boolean) true"},
		{big.NewInt(12), frame.KindBulk, `"12"`},
	}
	for _, tc := range cases {
		f, err := toFrame(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.kind, f.Kind())
		assert.Equal(t, tc.want, f.String())
	}
}

func TestToFrame_Nested(t *testing.T) {
	f, err := toFrame([]interface{}{"a", []interface{}{int64(1), nil}})
	require.NoError(t, err)
	assert.Equal(t, `["a", [(integer) 1, (nil)]]`, f.String())
}

func TestToFrame_Map(t *testing.T) {
	f, err := toFrame(map[interface{}]interface{}{"f": "v"})
	require.NoError(t, err)
	assert.Equal(t, frame.KindMap, f.Kind())
	pairs, err := f.Pairs()
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, `"f"`, pairs[0].Key.String())
}

func TestToFrame_Unsupported(t *testing.T) {
	_, err := toFrame(struct{}{})
	assert.Error(t, err)

	_, err = toFrame(errors.New("io"))
	assert.Error(t, err)
}

func TestReplyFrame_Nil(t *testing.T) {
	rc := redis.NewCmd(context.Background(), "GET", "k")
	rc.SetErr(redis.Nil)
	f, err := replyFrame(rc)
	require.NoError(t, err)
	assert.True(t, f.IsNull())
}
