package typedis

import (
	"context"
	"slices"

	"github.com/AndrewDonelson/typedis/internal/codec"
	"github.com/AndrewDonelson/typedis/internal/command"
	"github.com/AndrewDonelson/typedis/internal/frame"
	"github.com/AndrewDonelson/typedis/internal/marshal"
	"github.com/AndrewDonelson/typedis/internal/transport"
)

// hashCore builds the hash commands for keys K, fields F and values V.
type hashCore[K any, F comparable, V any] struct {
	m      *marshal.Marshaller[K, V]
	fields codec.Codec[F]
}

func newHashCore[K any, F comparable, V any](r *codec.Registry) hashCore[K, F, V] {
	return hashCore[K, F, V]{m: marshal.NewPayload[K, V](r), fields: codec.MustLookup[F](r)}
}

func (g hashCore[K, F, V]) field(f F) ([]byte, error) { return marshal.Encode(g.fields, f) }

func (g hashCore[K, F, V]) fieldDecoder() func(frame.Frame) (F, error) {
	return marshal.Decoder(g.fields)
}

func (g hashCore[K, F, V]) hset(k K, fv map[F]V) call[int64] {
	if len(fv) == 0 {
		return failed[int64](invalidArg("hset: field map must not be empty"))
	}
	a := newArgs("HSET").put(g.m.EncodeKey(k))
	for f, v := range fv {
		a.put(g.field(f)).put(g.m.EncodeValue(v))
	}
	return callOf(a, asInt)
}

func (g hashCore[K, F, V]) hget(k K, f F) call[V] {
	return callOf(newArgs("HGET").put(g.m.EncodeKey(k)).put(g.field(f)), required(g.m.DecodeValue))
}

func (g hashCore[K, F, V]) hgetAll(k K) call[map[F]V] {
	return callOf(newArgs("HGETALL").put(g.m.EncodeKey(k)), func(fr frame.Frame) (map[F]V, error) {
		return marshal.DecodeMap(fr, g.fieldDecoder(), g.m.DecodeValue)
	})
}

func (g hashCore[K, F, V]) hmget(k K, fields []F) call[map[F]V] {
	if len(fields) == 0 {
		return failed[map[F]V](invalidArg("hmget: fields must not be empty"))
	}
	fields = slices.Clone(fields)
	a := newArgs("HMGET").put(g.m.EncodeKey(k)).putAll(marshal.EncodeAll(g.fields, fields))
	return callOf(a, func(fr frame.Frame) (map[F]V, error) {
		return marshal.DecodeOrderedMap(fr, g.m.DecodeValue, fields)
	})
}

func (g hashCore[K, F, V]) hdel(k K, fields []F) call[int64] {
	if len(fields) == 0 {
		return failed[int64](invalidArg("hdel: fields must not be empty"))
	}
	return callOf(newArgs("HDEL").put(g.m.EncodeKey(k)).putAll(marshal.EncodeAll(g.fields, fields)), asInt)
}

func (g hashCore[K, F, V]) hexists(k K, f F) call[bool] {
	return callOf(newArgs("HEXISTS").put(g.m.EncodeKey(k)).put(g.field(f)), asBool)
}

func (g hashCore[K, F, V]) hlen(k K) call[int64] {
	return callOf(newArgs("HLEN").put(g.m.EncodeKey(k)), asInt)
}

func (g hashCore[K, F, V]) hincrBy(k K, f F, n int64) call[int64] {
	return callOf(newArgs("HINCRBY").put(g.m.EncodeKey(k)).put(g.field(f)).num(n), asInt)
}

func (g hashCore[K, F, V]) hkeys(k K) call[[]F] {
	return callOf(newArgs("HKEYS").put(g.m.EncodeKey(k)), func(fr frame.Frame) ([]F, error) {
		return marshal.DecodeList(fr, g.fieldDecoder())
	})
}

func (g hashCore[K, F, V]) hvals(k K) call[[]V] {
	return callOf(newArgs("HVALS").put(g.m.EncodeKey(k)), func(fr frame.Frame) ([]V, error) {
		return marshal.DecodeList(fr, g.m.DecodeValue)
	})
}

// HashCommands runs hash commands immediately.
type HashCommands[K any, F comparable, V any] struct {
	core hashCore[K, F, V]
	ex   transport.Executor
}

// Hashes returns the hash commands of c for keys K, fields F and values V.
func Hashes[K any, F comparable, V any](c *Client) *HashCommands[K, F, V] {
	return &HashCommands[K, F, V]{core: newHashCore[K, F, V](c.registry), ex: c.executor()}
}

// HSet stores every field of fv and returns how many fields were added.
func (g *HashCommands[K, F, V]) HSet(ctx context.Context, k K, fv map[F]V) (int64, error) {
	return run(ctx, g.ex, g.core.hset(k, fv))
}

// HGet returns the value of field f, or ErrNil.
func (g *HashCommands[K, F, V]) HGet(ctx context.Context, k K, f F) (V, error) {
	return run(ctx, g.ex, g.core.hget(k, f))
}

// HGetAll returns every field of the hash.
func (g *HashCommands[K, F, V]) HGetAll(ctx context.Context, k K) (map[F]V, error) {
	return run(ctx, g.ex, g.core.hgetAll(k))
}

// HMGet returns the requested fields. Missing fields are absent.
func (g *HashCommands[K, F, V]) HMGet(ctx context.Context, k K, fields []F) (map[F]V, error) {
	return run(ctx, g.ex, g.core.hmget(k, fields))
}

// HDel removes fields and returns how many existed.
func (g *HashCommands[K, F, V]) HDel(ctx context.Context, k K, fields []F) (int64, error) {
	return run(ctx, g.ex, g.core.hdel(k, fields))
}

// HExists reports whether field f exists.
func (g *HashCommands[K, F, V]) HExists(ctx context.Context, k K, f F) (bool, error) {
	return run(ctx, g.ex, g.core.hexists(k, f))
}

// HLen returns the number of fields.
func (g *HashCommands[K, F, V]) HLen(ctx context.Context, k K) (int64, error) {
	return run(ctx, g.ex, g.core.hlen(k))
}

// HIncrBy increments the integer in field f by n.
func (g *HashCommands[K, F, V]) HIncrBy(ctx context.Context, k K, f F, n int64) (int64, error) {
	return run(ctx, g.ex, g.core.hincrBy(k, f, n))
}

// HKeys returns the field names.
func (g *HashCommands[K, F, V]) HKeys(ctx context.Context, k K) ([]F, error) {
	return run(ctx, g.ex, g.core.hkeys(k))
}

// HVals returns the field values.
func (g *HashCommands[K, F, V]) HVals(ctx context.Context, k K) ([]V, error) {
	return run(ctx, g.ex, g.core.hvals(k))
}

// HScan returns a cursor over the fields of the hash at k.
func (g *HashCommands[K, F, V]) HScan(k K, opts ScanArgs) (*Cursor[Entry[F, V]], error) {
	if err := opts.validate(true); err != nil {
		return nil, err
	}
	key, err := g.core.m.EncodeKey(k)
	if err != nil {
		return nil, err
	}
	build := func(token string) command.Command {
		return command.Of("HSCAN").Put(key).PutString(token).PutArgs(opts).Build()
	}
	page := func(f frame.Frame) ([]Entry[F, V], error) {
		return marshal.DecodePairs(f, g.core.fieldDecoder(), g.core.m.DecodeValue)
	}
	return newCursor(g.ex, build, page), nil
}

// TxHashCommands queues hash commands in a transaction.
type TxHashCommands[K any, F comparable, V any] struct {
	core hashCore[K, F, V]
	tx   *Tx
}

// TxHashes returns the hash commands of tx.
func TxHashes[K any, F comparable, V any](tx *Tx) *TxHashCommands[K, F, V] {
	return &TxHashCommands[K, F, V]{core: newHashCore[K, F, V](tx.client.registry), tx: tx}
}

func (g *TxHashCommands[K, F, V]) HSet(ctx context.Context, k K, fv map[F]V) (Queued[int64], error) {
	return enqueue(ctx, g.tx, g.core.hset(k, fv))
}

func (g *TxHashCommands[K, F, V]) HGet(ctx context.Context, k K, f F) (Queued[V], error) {
	return enqueue(ctx, g.tx, g.core.hget(k, f))
}

func (g *TxHashCommands[K, F, V]) HGetAll(ctx context.Context, k K) (Queued[map[F]V], error) {
	return enqueue(ctx, g.tx, g.core.hgetAll(k))
}

func (g *TxHashCommands[K, F, V]) HMGet(ctx context.Context, k K, fields []F) (Queued[map[F]V], error) {
	return enqueue(ctx, g.tx, g.core.hmget(k, fields))
}

func (g *TxHashCommands[K, F, V]) HDel(ctx context.Context, k K, fields []F) (Queued[int64], error) {
	return enqueue(ctx, g.tx, g.core.hdel(k, fields))
}

func (g *TxHashCommands[K, F, V]) HExists(ctx context.Context, k K, f F) (Queued[bool], error) {
	return enqueue(ctx, g.tx, g.core.hexists(k, f))
}

func (g *TxHashCommands[K, F, V]) HLen(ctx context.Context, k K) (Queued[int64], error) {
	return enqueue(ctx, g.tx, g.core.hlen(k))
}

func (g *TxHashCommands[K, F, V]) HIncrBy(ctx context.Context, k K, f F, n int64) (Queued[int64], error) {
	return enqueue(ctx, g.tx, g.core.hincrBy(k, f, n))
}

func (g *TxHashCommands[K, F, V]) HKeys(ctx context.Context, k K) (Queued[[]F], error) {
	return enqueue(ctx, g.tx, g.core.hkeys(k))
}

func (g *TxHashCommands[K, F, V]) HVals(ctx context.Context, k K) (Queued[[]V], error) {
	return enqueue(ctx, g.tx, g.core.hvals(k))
}
