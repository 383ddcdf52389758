package typedis_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/AndrewDonelson/typedis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedKeys(t *testing.T, c *typedis.Client, n int) []string {
	t.Helper()
	vals := typedis.Values[string, int](c)
	kv := make(map[string]int, n)
	keys := make([]string, 0, n)
	for i := 0; i < n; i++ {
		k := fmt.Sprintf("item:%02d", i)
		kv[k] = i
		keys = append(keys, k)
	}
	require.NoError(t, vals.MSet(context.Background(), kv))
	return keys
}

func TestScan_AllKeys(t *testing.T) {
	c, _ := newTestClient(t, typedis.Config{})
	want := seedKeys(t, c, 25)

	cur, err := typedis.Keys[string](c).Scan(typedis.ScanArgs{Count: 10})
	require.NoError(t, err)
	assert.True(t, cur.HasNext())

	got, err := cur.All(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, want, dedupe(got))
	assert.False(t, cur.HasNext())
	assert.Equal(t, "0", cur.Token())

	_, err = cur.Next(context.Background())
	assert.ErrorIs(t, err, typedis.ErrCursorExhausted)
}

func TestScan_FreshCursorRestarts(t *testing.T) {
	c, _ := newTestClient(t, typedis.Config{})
	seedKeys(t, c, 12)
	keys := typedis.Keys[string](c)

	first, err := keys.Scan(typedis.ScanArgs{Count: 5})
	require.NoError(t, err)
	a, err := first.All(context.Background())
	require.NoError(t, err)

	second, err := keys.Scan(typedis.ScanArgs{Count: 5})
	require.NoError(t, err)
	b, err := second.All(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, dedupe(a), dedupe(b))
}

func TestScan_Pages(t *testing.T) {
	c, _ := newTestClient(t, typedis.Config{})
	want := seedKeys(t, c, 25)

	cur, err := typedis.Keys[string](c).Scan(typedis.ScanArgs{Count: 10})
	require.NoError(t, err)
	var got []string
	pages := 0
	for page, err := range cur.Pages(context.Background()) {
		require.NoError(t, err)
		got = append(got, page...)
		pages++
	}
	assert.GreaterOrEqual(t, pages, 1)
	assert.ElementsMatch(t, want, dedupe(got))
}

func TestScan_MatchAndType(t *testing.T) {
	c, mr := newTestClient(t, typedis.Config{})
	seedKeys(t, c, 5)
	_, err := mr.Lpush("item:list", "x")
	require.NoError(t, err)
	require.NoError(t, mr.Set("other", "1"))

	cur, err := typedis.Keys[string](c).Scan(typedis.ScanArgs{Match: "item:*", Type: "list"})
	require.NoError(t, err)
	got, err := cur.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"item:list"}, got)
}

func TestScan_EmptyKeyspace(t *testing.T) {
	c, _ := newTestClient(t, typedis.Config{})
	cur, err := typedis.Keys[string](c).Scan(typedis.ScanArgs{})
	require.NoError(t, err)
	page, err := cur.Next(context.Background())
	require.NoError(t, err)
	assert.Empty(t, page)
	assert.False(t, cur.HasNext())
}

func TestScan_InvalidArgs(t *testing.T) {
	c, _ := newTestClient(t, typedis.Config{})
	_, err := typedis.Keys[string](c).Scan(typedis.ScanArgs{Count: -1})
	assert.ErrorIs(t, err, typedis.ErrInvalidArgument)
	_, err = typedis.Sets[string, string](c).SScan("s", typedis.ScanArgs{Type: "set"})
	assert.ErrorIs(t, err, typedis.ErrInvalidArgument)
}

func TestHScan(t *testing.T) {
	for _, proto := range []int{2, 3} {
		c, _ := newTestClient(t, typedis.Config{Protocol: proto})
		ctx := context.Background()
		h := typedis.Hashes[string, string, int](c)
		_, err := h.HSet(ctx, "h", map[string]int{"a": 1, "b": 2, "c": 3})
		require.NoError(t, err)

		cur, err := h.HScan("h", typedis.ScanArgs{})
		require.NoError(t, err)
		entries, err := cur.All(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []typedis.Entry[string, int]{
			{Field: "a", Value: 1}, {Field: "b", Value: 2}, {Field: "c", Value: 3},
		}, entries)
	}
}

func TestSScan(t *testing.T) {
	c, _ := newTestClient(t, typedis.Config{})
	ctx := context.Background()
	s := typedis.Sets[string, int](c)
	_, err := s.SAdd(ctx, "s", []int{1, 2, 3, 4})
	require.NoError(t, err)

	cur, err := s.SScan("s", typedis.ScanArgs{Match: "*"})
	require.NoError(t, err)
	got, err := cur.All(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{1, 2, 3, 4}, got)
}

func TestZScan(t *testing.T) {
	c, _ := newTestClient(t, typedis.Config{})
	ctx := context.Background()
	z := typedis.SortedSets[string, string](c)
	_, err := z.ZAdd(ctx, "z", typedis.ZAddArgs{}, []typedis.ScoredValue[string]{
		{Value: "a", Score: 1}, {Value: "b", Score: 2.5},
	})
	require.NoError(t, err)

	cur, err := z.ZScan("z", typedis.ScanArgs{})
	require.NoError(t, err)
	got, err := cur.All(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []typedis.ScoredValue[string]{{Value: "a", Score: 1}, {Value: "b", Score: 2.5}}, got)
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0:0]
	for _, s := range in {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}
