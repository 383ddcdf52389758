package typedis

import (
	"context"
	"testing"

	"github.com/AndrewDonelson/typedis/internal/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanPage(token string, items ...string) frame.Frame {
	fs := make([]frame.Frame, len(items))
	for i, it := range items {
		fs[i] = frame.BulkString(it)
	}
	return frame.Multi(frame.BulkString(token), frame.Multi(fs...))
}

func TestCursor_FollowsTokens(t *testing.T) {
	ex := newScripted().
		on("SCAN 0 COUNT 2", scanPage("17", "a", "b")).
		on("SCAN 17 COUNT 2", scanPage("9")).
		on("SCAN 9 COUNT 2", scanPage("0", "c"))
	c, _ := newFakeClient(t, Config{}, ex, nil)

	cur, err := Keys[string](c).Scan(ScanArgs{Count: 2})
	require.NoError(t, err)
	ctx := context.Background()

	page, err := cur.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, page)
	assert.Equal(t, "17", cur.Token())

	// an empty page does not end the scan
	page, err = cur.Next(ctx)
	require.NoError(t, err)
	assert.Empty(t, page)
	assert.True(t, cur.HasNext())

	page, err = cur.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, page)
	assert.False(t, cur.HasNext())

	_, err = cur.Next(ctx)
	assert.ErrorIs(t, err, ErrCursorExhausted)
	assert.Equal(t, []string{"SCAN 0 COUNT 2", "SCAN 17 COUNT 2", "SCAN 9 COUNT 2"}, ex.lines())
}

func TestCursor_HScanArgs(t *testing.T) {
	ex := newScripted().on("HSCAN h 0 MATCH f*", scanPage("0", "f1", "1", "f2", "2"))
	c, _ := newFakeClient(t, Config{}, ex, nil)

	cur, err := Hashes[string, string, int](c).HScan("h", ScanArgs{Match: "f*"})
	require.NoError(t, err)
	got, err := cur.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Entry[string, int]{{Field: "f1", Value: 1}, {Field: "f2", Value: 2}}, got)
}

func TestCursor_ZScanFlatPairs(t *testing.T) {
	ex := newScripted().on("ZSCAN z 0", scanPage("0", "m", "1.5", "n", "+inf"))
	c, _ := newFakeClient(t, Config{}, ex, nil)

	cur, err := SortedSets[string, string](c).ZScan("z", ScanArgs{})
	require.NoError(t, err)
	got, err := cur.All(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1.5, got[0].Score)
	assert.Equal(t, "n", got[1].Value)
}

func TestCursor_BadReply(t *testing.T) {
	ex := newScripted().on("SCAN 0", frame.Multi(frame.BulkString("0")))
	c, _ := newFakeClient(t, Config{}, ex, nil)
	cur, err := Keys[string](c).Scan(ScanArgs{})
	require.NoError(t, err)

	_, err = cur.Next(context.Background())
	assert.ErrorIs(t, err, ErrShape)
	// a failed page leaves the cursor where it was
	assert.True(t, cur.HasNext())
	assert.Equal(t, "0", cur.Token())
}

func TestCursor_ServerErrorStopsPages(t *testing.T) {
	ex := newScripted().
		on("SCAN 0", scanPage("5", "a")).
		on("SCAN 5", frame.Error("ERR invalid cursor"))
	c, _ := newFakeClient(t, Config{}, ex, nil)
	cur, err := Keys[string](c).Scan(ScanArgs{})
	require.NoError(t, err)

	var pages [][]string
	var last error
	for page, err := range cur.Pages(context.Background()) {
		if err != nil {
			last = err
			continue
		}
		pages = append(pages, page)
	}
	assert.Equal(t, [][]string{{"a"}}, pages)
	se, isServer := IsServerError(last)
	require.True(t, isServer)
	assert.Equal(t, "ERR", se.Code())
}

func TestCursor_AllReturnsPartialOnError(t *testing.T) {
	ex := newScripted().on("SCAN 0", scanPage("3", "a", "b"))
	c, _ := newFakeClient(t, Config{}, ex, nil)
	cur, err := Keys[string](c).Scan(ScanArgs{})
	require.NoError(t, err)

	got, err := cur.All(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
}
