package typedis

import (
	"context"

	"github.com/AndrewDonelson/typedis/internal/command"
	"github.com/AndrewDonelson/typedis/internal/frame"
	"github.com/AndrewDonelson/typedis/internal/marshal"
	"github.com/AndrewDonelson/typedis/internal/transport"
)

// setCore builds the set commands for keys K and members V.
type setCore[K any, V comparable] struct {
	m *marshal.Marshaller[K, V]
}

func (g setCore[K, V]) members(name string, k K, members []V) call[int64] {
	if len(members) == 0 {
		return failed[int64](invalidArg("%s: members must not be empty", name))
	}
	return callOf(newArgs(name).put(g.m.EncodeKey(k)).putAll(g.m.EncodeValues(members)), asInt)
}

func (g setCore[K, V]) smembers(k K) call[map[V]struct{}] {
	return callOf(newArgs("SMEMBERS").put(g.m.EncodeKey(k)), func(f frame.Frame) (map[V]struct{}, error) {
		return marshal.DecodeSet(f, g.m.DecodeValue)
	})
}

func (g setCore[K, V]) sismember(k K, v V) call[bool] {
	return callOf(newArgs("SISMEMBER").put(g.m.EncodeKey(k)).put(g.m.EncodeValue(v)), asBool)
}

func (g setCore[K, V]) scard(k K) call[int64] {
	return callOf(newArgs("SCARD").put(g.m.EncodeKey(k)), asInt)
}

func (g setCore[K, V]) spop(k K) call[V] {
	return callOf(newArgs("SPOP").put(g.m.EncodeKey(k)), required(g.m.DecodeValue))
}

// SetCommands runs set commands immediately.
type SetCommands[K any, V comparable] struct {
	core setCore[K, V]
	ex   transport.Executor
}

// Sets returns the set commands of c for keys K and members V.
func Sets[K any, V comparable](c *Client) *SetCommands[K, V] {
	return &SetCommands[K, V]{core: setCore[K, V]{m: marshal.New[K, V](c.registry)}, ex: c.executor()}
}

// SAdd adds members and returns how many were new.
func (g *SetCommands[K, V]) SAdd(ctx context.Context, k K, members []V) (int64, error) {
	return run(ctx, g.ex, g.core.members("SADD", k, members))
}

// SRem removes members and returns how many existed.
func (g *SetCommands[K, V]) SRem(ctx context.Context, k K, members []V) (int64, error) {
	return run(ctx, g.ex, g.core.members("SREM", k, members))
}

// SMembers returns every member.
func (g *SetCommands[K, V]) SMembers(ctx context.Context, k K) (map[V]struct{}, error) {
	return run(ctx, g.ex, g.core.smembers(k))
}

// SIsMember reports whether v is a member.
func (g *SetCommands[K, V]) SIsMember(ctx context.Context, k K, v V) (bool, error) {
	return run(ctx, g.ex, g.core.sismember(k, v))
}

// SCard returns the number of members.
func (g *SetCommands[K, V]) SCard(ctx context.Context, k K) (int64, error) {
	return run(ctx, g.ex, g.core.scard(k))
}

// SPop removes and returns a random member, or ErrNil.
func (g *SetCommands[K, V]) SPop(ctx context.Context, k K) (V, error) {
	return run(ctx, g.ex, g.core.spop(k))
}

// SScan returns a cursor over the members of the set at k.
func (g *SetCommands[K, V]) SScan(k K, opts ScanArgs) (*Cursor[V], error) {
	if err := opts.validate(true); err != nil {
		return nil, err
	}
	key, err := g.core.m.EncodeKey(k)
	if err != nil {
		return nil, err
	}
	build := func(token string) command.Command {
		return command.Of("SSCAN").Put(key).PutString(token).PutArgs(opts).Build()
	}
	page := func(f frame.Frame) ([]V, error) {
		return marshal.DecodeList(f, g.core.m.DecodeValue)
	}
	return newCursor(g.ex, build, page), nil
}

// TxSetCommands queues set commands in a transaction.
type TxSetCommands[K any, V comparable] struct {
	core setCore[K, V]
	tx   *Tx
}

// TxSets returns the set commands of tx.
func TxSets[K any, V comparable](tx *Tx) *TxSetCommands[K, V] {
	return &TxSetCommands[K, V]{core: setCore[K, V]{m: marshal.New[K, V](tx.client.registry)}, tx: tx}
}

func (g *TxSetCommands[K, V]) SAdd(ctx context.Context, k K, members []V) (Queued[int64], error) {
	return enqueue(ctx, g.tx, g.core.members("SADD", k, members))
}

func (g *TxSetCommands[K, V]) SRem(ctx context.Context, k K, members []V) (Queued[int64], error) {
	return enqueue(ctx, g.tx, g.core.members("SREM", k, members))
}

func (g *TxSetCommands[K, V]) SMembers(ctx context.Context, k K) (Queued[map[V]struct{}], error) {
	return enqueue(ctx, g.tx, g.core.smembers(k))
}

func (g *TxSetCommands[K, V]) SIsMember(ctx context.Context, k K, v V) (Queued[bool], error) {
	return enqueue(ctx, g.tx, g.core.sismember(k, v))
}

func (g *TxSetCommands[K, V]) SCard(ctx context.Context, k K) (Queued[int64], error) {
	return enqueue(ctx, g.tx, g.core.scard(k))
}

func (g *TxSetCommands[K, V]) SPop(ctx context.Context, k K) (Queued[V], error) {
	return enqueue(ctx, g.tx, g.core.spop(k))
}
