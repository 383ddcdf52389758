package typedis

import (
	"context"

	"github.com/AndrewDonelson/typedis/internal/command"
	"github.com/AndrewDonelson/typedis/internal/frame"
	"github.com/AndrewDonelson/typedis/internal/marshal"
	"github.com/AndrewDonelson/typedis/internal/transport"
)

// sortedSetCore builds the sorted-set commands for keys K and members V.
type sortedSetCore[K, V any] struct {
	m *marshal.Marshaller[K, V]
}

func (g sortedSetCore[K, V]) scoredDecoder() func(frame.Frame) ([]ScoredValue[V], error) {
	return func(f frame.Frame) ([]ScoredValue[V], error) { return decodeScored(f, g.m.DecodeValue) }
}

func (g sortedSetCore[K, V]) zadd(k K, opts ZAddArgs, members []ScoredValue[V]) call[int64] {
	if len(members) == 0 {
		return failed[int64](invalidArg("zadd: need at least one scored member"))
	}
	if err := opts.validate(); err != nil {
		return failed[int64](err)
	}
	a := newArgs("ZADD").put(g.m.EncodeKey(k)).opts(opts)
	for _, sv := range members {
		a.score(sv.Score).put(g.m.EncodeValue(sv.Value))
	}
	return callOf(a, asInt)
}

func (g sortedSetCore[K, V]) zaddIncr(k K, opts ZAddArgs, score float64, member V) call[float64] {
	if err := opts.validate(); err != nil {
		return failed[float64](err)
	}
	a := newArgs("ZADD").put(g.m.EncodeKey(k)).opts(opts).str("INCR").score(score).put(g.m.EncodeValue(member))
	return callOf(a, required(asFloat))
}

func (g sortedSetCore[K, V]) zscore(k K, member V) call[float64] {
	return callOf(newArgs("ZSCORE").put(g.m.EncodeKey(k)).put(g.m.EncodeValue(member)), required(asFloat))
}

func (g sortedSetCore[K, V]) zincrBy(k K, inc float64, member V) call[float64] {
	return callOf(newArgs("ZINCRBY").put(g.m.EncodeKey(k)).score(inc).put(g.m.EncodeValue(member)), asFloat)
}

func (g sortedSetCore[K, V]) zrange(k K, start, stop int64) call[[]V] {
	return callOf(newArgs("ZRANGE").put(g.m.EncodeKey(k)).num(start).num(stop), func(f frame.Frame) ([]V, error) {
		return marshal.DecodeList(f, g.m.DecodeValue)
	})
}

func (g sortedSetCore[K, V]) zrangeWithScores(k K, start, stop int64) call[[]ScoredValue[V]] {
	a := newArgs("ZRANGE").put(g.m.EncodeKey(k)).num(start).num(stop).str("WITHSCORES")
	return callOf(a, g.scoredDecoder())
}

func (g sortedSetCore[K, V]) zrank(k K, member V) call[int64] {
	return callOf(newArgs("ZRANK").put(g.m.EncodeKey(k)).put(g.m.EncodeValue(member)), required(asInt))
}

func (g sortedSetCore[K, V]) zrem(k K, members []V) call[int64] {
	if len(members) == 0 {
		return failed[int64](invalidArg("zrem: members must not be empty"))
	}
	return callOf(newArgs("ZREM").put(g.m.EncodeKey(k)).putAll(g.m.EncodeValues(members)), asInt)
}

func (g sortedSetCore[K, V]) zcard(k K) call[int64] {
	return callOf(newArgs("ZCARD").put(g.m.EncodeKey(k)), asInt)
}

func (g sortedSetCore[K, V]) zpopMin(k K, count int64) call[[]ScoredValue[V]] {
	if count <= 0 {
		return failed[[]ScoredValue[V]](invalidArg("zpopmin: count must be positive, got %d", count))
	}
	return callOf(newArgs("ZPOPMIN").put(g.m.EncodeKey(k)).num(count), g.scoredDecoder())
}

// SortedSetCommands runs sorted-set commands immediately.
type SortedSetCommands[K, V any] struct {
	core sortedSetCore[K, V]
	ex   transport.Executor
}

// SortedSets returns the sorted-set commands of c for keys K and members V.
func SortedSets[K, V any](c *Client) *SortedSetCommands[K, V] {
	return &SortedSetCommands[K, V]{core: sortedSetCore[K, V]{m: marshal.New[K, V](c.registry)}, ex: c.executor()}
}

// ZAdd adds or updates members and returns how many were added, or changed
// with CH.
func (g *SortedSetCommands[K, V]) ZAdd(ctx context.Context, k K, opts ZAddArgs, members []ScoredValue[V]) (int64, error) {
	return run(ctx, g.ex, g.core.zadd(k, opts, members))
}

// ZAddIncr increments the score of member and returns the new score. When
// the options prevent the update it returns ErrNil.
func (g *SortedSetCommands[K, V]) ZAddIncr(ctx context.Context, k K, opts ZAddArgs, score float64, member V) (float64, error) {
	return run(ctx, g.ex, g.core.zaddIncr(k, opts, score, member))
}

// ZScore returns the score of member, or ErrNil.
func (g *SortedSetCommands[K, V]) ZScore(ctx context.Context, k K, member V) (float64, error) {
	return run(ctx, g.ex, g.core.zscore(k, member))
}

// ZIncrBy increments the score of member by inc.
func (g *SortedSetCommands[K, V]) ZIncrBy(ctx context.Context, k K, inc float64, member V) (float64, error) {
	return run(ctx, g.ex, g.core.zincrBy(k, inc, member))
}

// ZRange returns members by rank, start and stop inclusive.
func (g *SortedSetCommands[K, V]) ZRange(ctx context.Context, k K, start, stop int64) ([]V, error) {
	return run(ctx, g.ex, g.core.zrange(k, start, stop))
}

// ZRangeWithScores is ZRange with each member's score.
func (g *SortedSetCommands[K, V]) ZRangeWithScores(ctx context.Context, k K, start, stop int64) ([]ScoredValue[V], error) {
	return run(ctx, g.ex, g.core.zrangeWithScores(k, start, stop))
}

// ZRank returns the rank of member, or ErrNil.
func (g *SortedSetCommands[K, V]) ZRank(ctx context.Context, k K, member V) (int64, error) {
	return run(ctx, g.ex, g.core.zrank(k, member))
}

// ZRem removes members and returns how many existed.
func (g *SortedSetCommands[K, V]) ZRem(ctx context.Context, k K, members []V) (int64, error) {
	return run(ctx, g.ex, g.core.zrem(k, members))
}

// ZCard returns the number of members.
func (g *SortedSetCommands[K, V]) ZCard(ctx context.Context, k K) (int64, error) {
	return run(ctx, g.ex, g.core.zcard(k))
}

// ZPopMin removes and returns up to count lowest-scored members.
func (g *SortedSetCommands[K, V]) ZPopMin(ctx context.Context, k K, count int64) ([]ScoredValue[V], error) {
	return run(ctx, g.ex, g.core.zpopMin(k, count))
}

// ZScan returns a cursor over the members of the sorted set at k.
func (g *SortedSetCommands[K, V]) ZScan(k K, opts ScanArgs) (*Cursor[ScoredValue[V]], error) {
	if err := opts.validate(true); err != nil {
		return nil, err
	}
	key, err := g.core.m.EncodeKey(k)
	if err != nil {
		return nil, err
	}
	build := func(token string) command.Command {
		return command.Of("ZSCAN").Put(key).PutString(token).PutArgs(opts).Build()
	}
	return newCursor(g.ex, build, g.core.scoredDecoder()), nil
}

// TxSortedSetCommands queues sorted-set commands in a transaction.
type TxSortedSetCommands[K, V any] struct {
	core sortedSetCore[K, V]
	tx   *Tx
}

// TxSortedSets returns the sorted-set commands of tx.
func TxSortedSets[K, V any](tx *Tx) *TxSortedSetCommands[K, V] {
	return &TxSortedSetCommands[K, V]{core: sortedSetCore[K, V]{m: marshal.New[K, V](tx.client.registry)}, tx: tx}
}

func (g *TxSortedSetCommands[K, V]) ZAdd(ctx context.Context, k K, opts ZAddArgs, members []ScoredValue[V]) (Queued[int64], error) {
	return enqueue(ctx, g.tx, g.core.zadd(k, opts, members))
}

func (g *TxSortedSetCommands[K, V]) ZAddIncr(ctx context.Context, k K, opts ZAddArgs, score float64, member V) (Queued[float64], error) {
	return enqueue(ctx, g.tx, g.core.zaddIncr(k, opts, score, member))
}

func (g *TxSortedSetCommands[K, V]) ZScore(ctx context.Context, k K, member V) (Queued[float64], error) {
	return enqueue(ctx, g.tx, g.core.zscore(k, member))
}

func (g *TxSortedSetCommands[K, V]) ZIncrBy(ctx context.Context, k K, inc float64, member V) (Queued[float64], error) {
	return enqueue(ctx, g.tx, g.core.zincrBy(k, inc, member))
}

func (g *TxSortedSetCommands[K, V]) ZRange(ctx context.Context, k K, start, stop int64) (Queued[[]V], error) {
	return enqueue(ctx, g.tx, g.core.zrange(k, start, stop))
}

func (g *TxSortedSetCommands[K, V]) ZRangeWithScores(ctx context.Context, k K, start, stop int64) (Queued[[]ScoredValue[V]], error) {
	return enqueue(ctx, g.tx, g.core.zrangeWithScores(k, start, stop))
}

func (g *TxSortedSetCommands[K, V]) ZRank(ctx context.Context, k K, member V) (Queued[int64], error) {
	return enqueue(ctx, g.tx, g.core.zrank(k, member))
}

func (g *TxSortedSetCommands[K, V]) ZRem(ctx context.Context, k K, members []V) (Queued[int64], error) {
	return enqueue(ctx, g.tx, g.core.zrem(k, members))
}

func (g *TxSortedSetCommands[K, V]) ZCard(ctx context.Context, k K) (Queued[int64], error) {
	return enqueue(ctx, g.tx, g.core.zcard(k))
}

func (g *TxSortedSetCommands[K, V]) ZPopMin(ctx context.Context, k K, count int64) (Queued[[]ScoredValue[V]], error) {
	return enqueue(ctx, g.tx, g.core.zpopMin(k, count))
}
