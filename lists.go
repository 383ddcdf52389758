package typedis

import (
	"context"

	"github.com/AndrewDonelson/typedis/internal/frame"
	"github.com/AndrewDonelson/typedis/internal/marshal"
	"github.com/AndrewDonelson/typedis/internal/transport"
)

// listCore builds the list commands for keys K and elements V.
type listCore[K, V any] struct {
	m *marshal.Marshaller[K, V]
}

func (g listCore[K, V]) push(name string, k K, values []V) call[int64] {
	if len(values) == 0 {
		return failed[int64](invalidArg("%s: values must not be empty", name))
	}
	return callOf(newArgs(name).put(g.m.EncodeKey(k)).putAll(g.m.EncodeValues(values)), asInt)
}

func (g listCore[K, V]) pop(name string, k K) call[V] {
	return callOf(newArgs(name).put(g.m.EncodeKey(k)), required(g.m.DecodeValue))
}

func (g listCore[K, V]) lrange(k K, start, stop int64) call[[]V] {
	return callOf(newArgs("LRANGE").put(g.m.EncodeKey(k)).num(start).num(stop), func(f frame.Frame) ([]V, error) {
		return marshal.DecodeList(f, g.m.DecodeValue)
	})
}

func (g listCore[K, V]) llen(k K) call[int64] {
	return callOf(newArgs("LLEN").put(g.m.EncodeKey(k)), asInt)
}

func (g listCore[K, V]) lindex(k K, i int64) call[V] {
	return callOf(newArgs("LINDEX").put(g.m.EncodeKey(k)).num(i), required(g.m.DecodeValue))
}

// ListCommands runs list commands immediately.
type ListCommands[K, V any] struct {
	core listCore[K, V]
	ex   transport.Executor
}

// Lists returns the list commands of c for keys K and elements V.
func Lists[K, V any](c *Client) *ListCommands[K, V] {
	return &ListCommands[K, V]{core: listCore[K, V]{m: marshal.NewPayload[K, V](c.registry)}, ex: c.executor()}
}

// LPush prepends values and returns the new length.
func (g *ListCommands[K, V]) LPush(ctx context.Context, k K, values []V) (int64, error) {
	return run(ctx, g.ex, g.core.push("LPUSH", k, values))
}

// RPush appends values and returns the new length.
func (g *ListCommands[K, V]) RPush(ctx context.Context, k K, values []V) (int64, error) {
	return run(ctx, g.ex, g.core.push("RPUSH", k, values))
}

// LPop removes and returns the first element, or ErrNil.
func (g *ListCommands[K, V]) LPop(ctx context.Context, k K) (V, error) {
	return run(ctx, g.ex, g.core.pop("LPOP", k))
}

// RPop removes and returns the last element, or ErrNil.
func (g *ListCommands[K, V]) RPop(ctx context.Context, k K) (V, error) {
	return run(ctx, g.ex, g.core.pop("RPOP", k))
}

// LRange returns the elements between start and stop inclusive. Negative
// indexes count from the end.
func (g *ListCommands[K, V]) LRange(ctx context.Context, k K, start, stop int64) ([]V, error) {
	return run(ctx, g.ex, g.core.lrange(k, start, stop))
}

// LLen returns the list length.
func (g *ListCommands[K, V]) LLen(ctx context.Context, k K) (int64, error) {
	return run(ctx, g.ex, g.core.llen(k))
}

// LIndex returns the element at i, or ErrNil.
func (g *ListCommands[K, V]) LIndex(ctx context.Context, k K, i int64) (V, error) {
	return run(ctx, g.ex, g.core.lindex(k, i))
}

// TxListCommands queues list commands in a transaction.
type TxListCommands[K, V any] struct {
	core listCore[K, V]
	tx   *Tx
}

// TxLists returns the list commands of tx.
func TxLists[K, V any](tx *Tx) *TxListCommands[K, V] {
	return &TxListCommands[K, V]{core: listCore[K, V]{m: marshal.NewPayload[K, V](tx.client.registry)}, tx: tx}
}

func (g *TxListCommands[K, V]) LPush(ctx context.Context, k K, values []V) (Queued[int64], error) {
	return enqueue(ctx, g.tx, g.core.push("LPUSH", k, values))
}

func (g *TxListCommands[K, V]) RPush(ctx context.Context, k K, values []V) (Queued[int64], error) {
	return enqueue(ctx, g.tx, g.core.push("RPUSH", k, values))
}

func (g *TxListCommands[K, V]) LPop(ctx context.Context, k K) (Queued[V], error) {
	return enqueue(ctx, g.tx, g.core.pop("LPOP", k))
}

func (g *TxListCommands[K, V]) RPop(ctx context.Context, k K) (Queued[V], error) {
	return enqueue(ctx, g.tx, g.core.pop("RPOP", k))
}

func (g *TxListCommands[K, V]) LRange(ctx context.Context, k K, start, stop int64) (Queued[[]V], error) {
	return enqueue(ctx, g.tx, g.core.lrange(k, start, stop))
}

func (g *TxListCommands[K, V]) LLen(ctx context.Context, k K) (Queued[int64], error) {
	return enqueue(ctx, g.tx, g.core.llen(k))
}

func (g *TxListCommands[K, V]) LIndex(ctx context.Context, k K, i int64) (Queued[V], error) {
	return enqueue(ctx, g.tx, g.core.lindex(k, i))
}
