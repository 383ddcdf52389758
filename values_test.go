package typedis_test

import (
	"context"
	"testing"
	"time"

	"github.com/AndrewDonelson/typedis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Values ───────────────────────────────────────────────────────────────────

func TestValues_SetGetInt(t *testing.T) {
	c, mr := newTestClient(t, typedis.Config{})
	ctx := context.Background()
	vals := typedis.Values[string, int64](c)

	require.NoError(t, vals.Set(ctx, "user:1", 42))
	raw, err := mr.Get("user:1")
	require.NoError(t, err)
	assert.Equal(t, "42", raw)

	got, err := vals.Get(ctx, "user:1")
	require.NoError(t, err)
	assert.Equal(t, int64(42), got)
}

func TestValues_GetMissing(t *testing.T) {
	c, _ := newTestClient(t, typedis.Config{})
	_, err := typedis.Values[string, string](c).Get(context.Background(), "nope")
	assert.ErrorIs(t, err, typedis.ErrNil)
}

func TestValues_GetUndecodable(t *testing.T) {
	c, mr := newTestClient(t, typedis.Config{})
	require.NoError(t, mr.Set("n", "not-a-number"))
	_, err := typedis.Values[string, int](c).Get(context.Background(), "n")
	assert.ErrorIs(t, err, typedis.ErrDecodeFailed)
}

func TestValues_GetWrongType(t *testing.T) {
	c, mr := newTestClient(t, typedis.Config{})
	_, err := mr.SetAdd("s", "a")
	require.NoError(t, err)
	_, err = typedis.Values[string, string](c).Get(context.Background(), "s")
	se, ok := typedis.IsServerError(err)
	require.True(t, ok)
	assert.Equal(t, "WRONGTYPE", se.Code())
}

func TestValues_SetEX(t *testing.T) {
	c, mr := newTestClient(t, typedis.Config{})
	ctx := context.Background()
	vals := typedis.Values[string, string](c)

	require.NoError(t, vals.SetEX(ctx, "session", "abc", 10*time.Second))
	assert.Equal(t, 10*time.Second, mr.TTL("session"))

	require.NoError(t, vals.SetEX(ctx, "short", "x", 1500*time.Millisecond))
	assert.Equal(t, 1500*time.Millisecond, mr.TTL("short"))

	mr.FastForward(2 * time.Second)
	assert.False(t, mr.Exists("short"))
	assert.True(t, mr.Exists("session"))
}

func TestValues_SetWithArgs(t *testing.T) {
	c, _ := newTestClient(t, typedis.Config{})
	ctx := context.Background()
	vals := typedis.Values[string, string](c)

	ok, err := vals.SetWithArgs(ctx, "lock", "a", typedis.SetArgs{NX: true})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = vals.SetWithArgs(ctx, "lock", "b", typedis.SetArgs{NX: true})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = vals.SetWithArgs(ctx, "absent", "b", typedis.SetArgs{XX: true})
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := vals.Get(ctx, "lock")
	require.NoError(t, err)
	assert.Equal(t, "a", got)
}

func TestValues_SetWithArgsInvalid(t *testing.T) {
	c, mr := newTestClient(t, typedis.Config{})
	_, err := typedis.Values[string, string](c).SetWithArgs(context.Background(), "k", "v",
		typedis.SetArgs{EX: time.Second, PX: time.Second})
	assert.ErrorIs(t, err, typedis.ErrInvalidArgument)

	_, err = typedis.Values[string, string](c).SetWithArgs(context.Background(), "k", "v",
		typedis.SetArgs{EX: 1500 * time.Millisecond})
	assert.ErrorIs(t, err, typedis.ErrInvalidArgument)
	assert.Equal(t, 0, mr.CommandCount())
}

func TestValues_SetEXSubMillisecond(t *testing.T) {
	c, mr := newTestClient(t, typedis.Config{})
	vals := typedis.Values[string, string](c)
	ctx := context.Background()

	err := vals.SetEX(ctx, "k", "v", 500*time.Microsecond)
	assert.ErrorIs(t, err, typedis.ErrInvalidArgument)
	assert.False(t, mr.Exists("k"))

	require.NoError(t, vals.SetEX(ctx, "k", "v", 1500*time.Microsecond))
	assert.Equal(t, 2*time.Millisecond, mr.TTL("k"))
}

func TestValues_SetGet(t *testing.T) {
	c, _ := newTestClient(t, typedis.Config{})
	ctx := context.Background()
	vals := typedis.Values[string, string](c)

	prev, err := vals.SetGet(ctx, "k", "one", typedis.SetArgs{})
	require.NoError(t, err)
	assert.Nil(t, prev)

	prev, err = vals.SetGet(ctx, "k", "two", typedis.SetArgs{})
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, "one", *prev)
}

func TestValues_SetNXAndGetDel(t *testing.T) {
	c, mr := newTestClient(t, typedis.Config{})
	ctx := context.Background()
	vals := typedis.Values[string, string](c)

	ok, err := vals.SetNX(ctx, "k", "v")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = vals.SetNX(ctx, "k", "w")
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := vals.GetDel(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
	assert.False(t, mr.Exists("k"))

	_, err = vals.GetDel(ctx, "k")
	assert.ErrorIs(t, err, typedis.ErrNil)
}

func TestValues_MGetOmitsMissing(t *testing.T) {
	c, _ := newTestClient(t, typedis.Config{})
	ctx := context.Background()
	vals := typedis.Values[string, int](c)

	require.NoError(t, vals.MSet(ctx, map[string]int{"a": 1, "c": 3}))
	got, err := vals.MGet(ctx, []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 1, "c": 3}, got)
}

func TestValues_MGetEmpty(t *testing.T) {
	c, _ := newTestClient(t, typedis.Config{})
	_, err := typedis.Values[string, int](c).MGet(context.Background(), nil)
	assert.ErrorIs(t, err, typedis.ErrInvalidArgument)
	err = typedis.Values[string, int](c).MSet(context.Background(), map[string]int{})
	assert.ErrorIs(t, err, typedis.ErrInvalidArgument)
}

func TestValues_Counters(t *testing.T) {
	c, _ := newTestClient(t, typedis.Config{})
	ctx := context.Background()
	vals := typedis.Values[string, int64](c)

	n, err := vals.Incr(ctx, "ctr")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = vals.IncrBy(ctx, "ctr", 10)
	require.NoError(t, err)
	assert.Equal(t, int64(11), n)

	n, err = vals.DecrBy(ctx, "ctr", 4)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	f, err := vals.IncrByFloat(ctx, "ctr", 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 7.5, f, 1e-9)
}

func TestValues_AppendStrLen(t *testing.T) {
	c, _ := newTestClient(t, typedis.Config{})
	ctx := context.Background()
	vals := typedis.Values[string, string](c)

	n, err := vals.Append(ctx, "greet", "hello")
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	n, err = vals.Append(ctx, "greet", " world")
	require.NoError(t, err)
	assert.Equal(t, int64(11), n)

	n, err = vals.StrLen(ctx, "greet")
	require.NoError(t, err)
	assert.Equal(t, int64(11), n)
}

func TestValues_BytesAndTypedKeys(t *testing.T) {
	c, mr := newTestClient(t, typedis.Config{})
	ctx := context.Background()
	vals := typedis.Values[int, []byte](c)

	require.NoError(t, vals.Set(ctx, 7, []byte{0, 1, 2}))
	raw, err := mr.Get("7")
	require.NoError(t, err)
	assert.Equal(t, string([]byte{0, 1, 2}), raw)

	got, err := vals.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1, 2}, got)
}

// ── Keys ─────────────────────────────────────────────────────────────────────

func TestKeys_DelExists(t *testing.T) {
	c, mr := newTestClient(t, typedis.Config{})
	ctx := context.Background()
	keys := typedis.Keys[string](c)
	require.NoError(t, mr.Set("a", "1"))
	require.NoError(t, mr.Set("b", "2"))

	n, err := keys.Exists(ctx, []string{"a", "a", "zz"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = keys.Del(ctx, []string{"a", "b", "zz"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = keys.Del(ctx, nil)
	assert.ErrorIs(t, err, typedis.ErrInvalidArgument)
}

func TestKeys_ExpireTTLPersist(t *testing.T) {
	c, mr := newTestClient(t, typedis.Config{})
	ctx := context.Background()
	keys := typedis.Keys[string](c)
	require.NoError(t, mr.Set("k", "v"))

	ttl, err := keys.TTL(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, typedis.NoExpiry, ttl)

	ok, err := keys.Expire(ctx, "k", 30*time.Second, typedis.ExpireArgs{})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 30*time.Second, mr.TTL("k"))

	ttl, err = keys.TTL(ctx, "k")
	require.NoError(t, err)
	assert.InDelta(t, float64(30*time.Second), float64(ttl), float64(time.Second))

	ok, err = keys.Expire(ctx, "k", 2500*time.Millisecond, typedis.ExpireArgs{})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2500*time.Millisecond, mr.TTL("k"))

	ok, err = keys.Expire(ctx, "k", 1500*time.Microsecond, typedis.ExpireArgs{})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2*time.Millisecond, mr.TTL("k"))

	ok, err = keys.Persist(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Duration(0), mr.TTL("k"))

	_, err = keys.TTL(ctx, "gone")
	assert.ErrorIs(t, err, typedis.ErrKeyNotFound)

	_, err = keys.Expire(ctx, "k", 0, typedis.ExpireArgs{})
	assert.ErrorIs(t, err, typedis.ErrInvalidArgument)
	_, err = keys.Expire(ctx, "k", 500*time.Microsecond, typedis.ExpireArgs{})
	assert.ErrorIs(t, err, typedis.ErrInvalidArgument)
	assert.True(t, mr.Exists("k"))
	_, err = keys.Expire(ctx, "k", time.Second, typedis.ExpireArgs{GT: true, LT: true})
	assert.ErrorIs(t, err, typedis.ErrInvalidArgument)
}

func TestKeys_Type(t *testing.T) {
	c, mr := newTestClient(t, typedis.Config{})
	ctx := context.Background()
	keys := typedis.Keys[string](c)
	require.NoError(t, mr.Set("str", "v"))
	_, err := mr.Lpush("l", "v")
	require.NoError(t, err)

	for k, want := range map[string]string{"str": "string", "l": "list", "missing": "none"} {
		got, err := keys.Type(ctx, k)
		require.NoError(t, err)
		assert.Equal(t, want, got, k)
	}
}

func TestKeys_Rename(t *testing.T) {
	c, mr := newTestClient(t, typedis.Config{})
	ctx := context.Background()
	keys := typedis.Keys[string](c)
	require.NoError(t, mr.Set("old", "v"))

	require.NoError(t, keys.Rename(ctx, "old", "new"))
	assert.True(t, mr.Exists("new"))
	assert.False(t, mr.Exists("old"))

	err := keys.Rename(ctx, "old", "other")
	assert.ErrorIs(t, err, typedis.ErrKeyNotFound)
	_, isServer := typedis.IsServerError(err)
	assert.True(t, isServer)

	require.NoError(t, mr.Set("taken", "x"))
	ok, err := keys.RenameNX(ctx, "new", "taken")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = keys.RenameNX(ctx, "ghost", "x")
	assert.ErrorIs(t, err, typedis.ErrKeyNotFound)
}
