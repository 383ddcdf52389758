package typedis

import (
	"context"
	"slices"
	"time"

	"github.com/AndrewDonelson/typedis/internal/frame"
	"github.com/AndrewDonelson/typedis/internal/marshal"
	"github.com/AndrewDonelson/typedis/internal/transport"
)

// valueCore builds the string-family commands for keys K and values V.
type valueCore[K comparable, V any] struct {
	m *marshal.Marshaller[K, V]
}

func (g valueCore[K, V]) set(k K, v V, opts SetArgs) call[bool] {
	if err := opts.validate(); err != nil {
		return failed[bool](err)
	}
	a := newArgs("SET").put(g.m.EncodeKey(k)).put(g.m.EncodeValue(v)).opts(opts)
	return callOf(a, asApplied)
}

func (g valueCore[K, V]) setGet(k K, v V, opts SetArgs) call[*V] {
	if err := opts.validate(); err != nil {
		return failed[*V](err)
	}
	a := newArgs("SET").put(g.m.EncodeKey(k)).put(g.m.EncodeValue(v)).opts(opts).str("GET")
	return callOf(a, func(f frame.Frame) (*V, error) { return marshal.DecodeOptional(g.m.Values(), f) })
}

func (g valueCore[K, V]) setNX(k K, v V) call[bool] {
	return callOf(newArgs("SETNX").put(g.m.EncodeKey(k)).put(g.m.EncodeValue(v)), asBool)
}

func (g valueCore[K, V]) get(k K) call[V] {
	return callOf(newArgs("GET").put(g.m.EncodeKey(k)), required(g.m.DecodeValue))
}

func (g valueCore[K, V]) getDel(k K) call[V] {
	return callOf(newArgs("GETDEL").put(g.m.EncodeKey(k)), required(g.m.DecodeValue))
}

func (g valueCore[K, V]) mget(keys []K) call[map[K]V] {
	if len(keys) == 0 {
		return failed[map[K]V](invalidArg("mget: keys must not be empty"))
	}
	keys = slices.Clone(keys)
	a := newArgs("MGET").putAll(g.m.EncodeKeys(keys))
	return callOf(a, func(f frame.Frame) (map[K]V, error) {
		return marshal.DecodeOrderedMap(f, g.m.DecodeValue, keys)
	})
}

func (g valueCore[K, V]) mset(kv map[K]V) call[struct{}] {
	if len(kv) == 0 {
		return failed[struct{}](invalidArg("mset: map must not be empty"))
	}
	a := newArgs("MSET")
	for k, v := range kv {
		a.put(g.m.EncodeKey(k)).put(g.m.EncodeValue(v))
	}
	return callOf(a, asOK)
}

func (g valueCore[K, V]) incrBy(name string, k K, n int64, withArg bool) call[int64] {
	a := newArgs(name).put(g.m.EncodeKey(k))
	if withArg {
		a.num(n)
	}
	return callOf(a, asInt)
}

func (g valueCore[K, V]) incrByFloat(k K, f float64) call[float64] {
	return callOf(newArgs("INCRBYFLOAT").put(g.m.EncodeKey(k)).score(f), asFloat)
}

func (g valueCore[K, V]) append(k K, v V) call[int64] {
	return callOf(newArgs("APPEND").put(g.m.EncodeKey(k)).put(g.m.EncodeValue(v)), asInt)
}

func (g valueCore[K, V]) strLen(k K) call[int64] {
	return callOf(newArgs("STRLEN").put(g.m.EncodeKey(k)), asInt)
}

// ValueCommands runs string-family commands immediately.
type ValueCommands[K comparable, V any] struct {
	core valueCore[K, V]
	ex   transport.Executor
}

// Values returns the string-family commands of c for keys K and values V.
// Codecs are resolved now; register custom codecs first.
func Values[K comparable, V any](c *Client) *ValueCommands[K, V] {
	return &ValueCommands[K, V]{core: valueCore[K, V]{m: marshal.NewPayload[K, V](c.registry)}, ex: c.executor()}
}

// Set stores v at k.
func (g *ValueCommands[K, V]) Set(ctx context.Context, k K, v V) error {
	return runErr(ctx, g.ex, g.core.set(k, v, SetArgs{}))
}

// SetEX stores v at k with an expiry, see Expiry.
func (g *ValueCommands[K, V]) SetEX(ctx context.Context, k K, v V, ttl time.Duration) error {
	return runErr(ctx, g.ex, g.core.set(k, v, Expiry(ttl)))
}

// SetWithArgs stores v at k and reports whether the write took effect;
// NX and XX conditions may prevent it.
func (g *ValueCommands[K, V]) SetWithArgs(ctx context.Context, k K, v V, opts SetArgs) (bool, error) {
	return run(ctx, g.ex, g.core.set(k, v, opts))
}

// SetGet stores v at k and returns the previous value, nil if there was
// none.
func (g *ValueCommands[K, V]) SetGet(ctx context.Context, k K, v V, opts SetArgs) (*V, error) {
	return run(ctx, g.ex, g.core.setGet(k, v, opts))
}

// SetNX stores v only if k does not exist.
func (g *ValueCommands[K, V]) SetNX(ctx context.Context, k K, v V) (bool, error) {
	return run(ctx, g.ex, g.core.setNX(k, v))
}

// Get returns the value at k, or ErrNil.
func (g *ValueCommands[K, V]) Get(ctx context.Context, k K) (V, error) {
	return run(ctx, g.ex, g.core.get(k))
}

// GetDel returns and deletes the value at k, or ErrNil.
func (g *ValueCommands[K, V]) GetDel(ctx context.Context, k K) (V, error) {
	return run(ctx, g.ex, g.core.getDel(k))
}

// MGet returns the values of keys. Missing keys are absent from the map.
func (g *ValueCommands[K, V]) MGet(ctx context.Context, keys []K) (map[K]V, error) {
	return run(ctx, g.ex, g.core.mget(keys))
}

// MSet stores every pair of kv.
func (g *ValueCommands[K, V]) MSet(ctx context.Context, kv map[K]V) error {
	return runErr(ctx, g.ex, g.core.mset(kv))
}

// Incr increments the integer at k by one.
func (g *ValueCommands[K, V]) Incr(ctx context.Context, k K) (int64, error) {
	return run(ctx, g.ex, g.core.incrBy("INCR", k, 0, false))
}

// IncrBy increments the integer at k by n.
func (g *ValueCommands[K, V]) IncrBy(ctx context.Context, k K, n int64) (int64, error) {
	return run(ctx, g.ex, g.core.incrBy("INCRBY", k, n, true))
}

// DecrBy decrements the integer at k by n.
func (g *ValueCommands[K, V]) DecrBy(ctx context.Context, k K, n int64) (int64, error) {
	return run(ctx, g.ex, g.core.incrBy("DECRBY", k, n, true))
}

// IncrByFloat increments the number at k by f.
func (g *ValueCommands[K, V]) IncrByFloat(ctx context.Context, k K, f float64) (float64, error) {
	return run(ctx, g.ex, g.core.incrByFloat(k, f))
}

// Append appends v to the value at k and returns the new length.
func (g *ValueCommands[K, V]) Append(ctx context.Context, k K, v V) (int64, error) {
	return run(ctx, g.ex, g.core.append(k, v))
}

// StrLen returns the length of the value at k.
func (g *ValueCommands[K, V]) StrLen(ctx context.Context, k K) (int64, error) {
	return run(ctx, g.ex, g.core.strLen(k))
}

// TxValueCommands queues string-family commands in a transaction.
type TxValueCommands[K comparable, V any] struct {
	core valueCore[K, V]
	tx   *Tx
}

// TxValues returns the string-family commands of tx.
func TxValues[K comparable, V any](tx *Tx) *TxValueCommands[K, V] {
	return &TxValueCommands[K, V]{core: valueCore[K, V]{m: marshal.NewPayload[K, V](tx.client.registry)}, tx: tx}
}

func (g *TxValueCommands[K, V]) Set(ctx context.Context, k K, v V) (Queued[bool], error) {
	return enqueue(ctx, g.tx, g.core.set(k, v, SetArgs{}))
}

func (g *TxValueCommands[K, V]) SetEX(ctx context.Context, k K, v V, ttl time.Duration) (Queued[bool], error) {
	return enqueue(ctx, g.tx, g.core.set(k, v, Expiry(ttl)))
}

func (g *TxValueCommands[K, V]) SetWithArgs(ctx context.Context, k K, v V, opts SetArgs) (Queued[bool], error) {
	return enqueue(ctx, g.tx, g.core.set(k, v, opts))
}

func (g *TxValueCommands[K, V]) SetGet(ctx context.Context, k K, v V, opts SetArgs) (Queued[*V], error) {
	return enqueue(ctx, g.tx, g.core.setGet(k, v, opts))
}

func (g *TxValueCommands[K, V]) SetNX(ctx context.Context, k K, v V) (Queued[bool], error) {
	return enqueue(ctx, g.tx, g.core.setNX(k, v))
}

func (g *TxValueCommands[K, V]) Get(ctx context.Context, k K) (Queued[V], error) {
	return enqueue(ctx, g.tx, g.core.get(k))
}

func (g *TxValueCommands[K, V]) GetDel(ctx context.Context, k K) (Queued[V], error) {
	return enqueue(ctx, g.tx, g.core.getDel(k))
}

func (g *TxValueCommands[K, V]) MGet(ctx context.Context, keys []K) (Queued[map[K]V], error) {
	return enqueue(ctx, g.tx, g.core.mget(keys))
}

func (g *TxValueCommands[K, V]) MSet(ctx context.Context, kv map[K]V) (Queued[struct{}], error) {
	return enqueue(ctx, g.tx, g.core.mset(kv))
}

func (g *TxValueCommands[K, V]) Incr(ctx context.Context, k K) (Queued[int64], error) {
	return enqueue(ctx, g.tx, g.core.incrBy("INCR", k, 0, false))
}

func (g *TxValueCommands[K, V]) IncrBy(ctx context.Context, k K, n int64) (Queued[int64], error) {
	return enqueue(ctx, g.tx, g.core.incrBy("INCRBY", k, n, true))
}

func (g *TxValueCommands[K, V]) DecrBy(ctx context.Context, k K, n int64) (Queued[int64], error) {
	return enqueue(ctx, g.tx, g.core.incrBy("DECRBY", k, n, true))
}

func (g *TxValueCommands[K, V]) IncrByFloat(ctx context.Context, k K, f float64) (Queued[float64], error) {
	return enqueue(ctx, g.tx, g.core.incrByFloat(k, f))
}

func (g *TxValueCommands[K, V]) Append(ctx context.Context, k K, v V) (Queued[int64], error) {
	return enqueue(ctx, g.tx, g.core.append(k, v))
}

func (g *TxValueCommands[K, V]) StrLen(ctx context.Context, k K) (Queued[int64], error) {
	return enqueue(ctx, g.tx, g.core.strLen(k))
}
