package typedis

import (
	"context"
	"time"

	"github.com/AndrewDonelson/typedis/internal/codec"
	"github.com/AndrewDonelson/typedis/internal/command"
	"github.com/AndrewDonelson/typedis/internal/frame"
	"github.com/AndrewDonelson/typedis/internal/marshal"
	"github.com/AndrewDonelson/typedis/internal/transport"
)

// NoExpiry is returned by TTL for keys without an expiry.
const NoExpiry time.Duration = -1

// keyCore builds the generic key commands for keys K.
type keyCore[K any] struct {
	keys codec.Codec[K]
}

func newKeyCore[K any](r *codec.Registry) keyCore[K] {
	return keyCore[K]{keys: codec.MustLookup[K](r)}
}

func (g keyCore[K]) key(k K) ([]byte, error) { return marshal.Encode(g.keys, k) }

func (g keyCore[K]) multi(name string, keys []K) call[int64] {
	if len(keys) == 0 {
		return failed[int64](invalidArg("%s: keys must not be empty", name))
	}
	return callOf(newArgs(name).putAll(marshal.EncodeAll(g.keys, keys)), asInt)
}

func (g keyCore[K]) expire(k K, ttl time.Duration, opts ExpireArgs) call[bool] {
	if ttl < time.Millisecond {
		return failed[bool](invalidArg("expire: ttl must be at least 1ms, got %s", ttl))
	}
	if err := opts.validate(); err != nil {
		return failed[bool](err)
	}
	var a *args
	if ttl%time.Second == 0 {
		a = newArgs("EXPIRE").put(g.key(k)).num(int64(ttl / time.Second))
	} else {
		a = newArgs("PEXPIRE").put(g.key(k)).num(ceilMillis(ttl))
	}
	return callOf(a.opts(opts), asBool)
}

func (g keyCore[K]) ttl(k K) call[time.Duration] {
	return callOf(newArgs("PTTL").put(g.key(k)), func(f frame.Frame) (time.Duration, error) {
		n, err := f.Int()
		switch {
		case err != nil:
			return 0, err
		case n == -2:
			return 0, ErrKeyNotFound
		case n == -1:
			return NoExpiry, nil
		}
		return time.Duration(n) * time.Millisecond, nil
	})
}

func (g keyCore[K]) persist(k K) call[bool] {
	return callOf(newArgs("PERSIST").put(g.key(k)), asBool)
}

func (g keyCore[K]) typeOf(k K) call[string] {
	return callOf(newArgs("TYPE").put(g.key(k)), asText)
}

func (g keyCore[K]) rename(k, to K) call[struct{}] {
	c := callOf(newArgs("RENAME").put(g.key(k)).put(g.key(to)), asOK)
	c.translate = translateRenameError
	return c
}

func (g keyCore[K]) renameNX(k, to K) call[bool] {
	c := callOf(newArgs("RENAMENX").put(g.key(k)).put(g.key(to)), asBool)
	c.translate = translateRenameError
	return c
}

// KeyCommands runs generic key commands immediately.
type KeyCommands[K any] struct {
	core keyCore[K]
	ex   transport.Executor
}

// Keys returns the generic key commands of c for keys K.
func Keys[K any](c *Client) *KeyCommands[K] {
	return &KeyCommands[K]{core: newKeyCore[K](c.registry), ex: c.executor()}
}

// Del removes keys and returns how many existed.
func (g *KeyCommands[K]) Del(ctx context.Context, keys []K) (int64, error) {
	return run(ctx, g.ex, g.core.multi("DEL", keys))
}

// Exists returns how many of keys exist. Repeated keys count repeatedly.
func (g *KeyCommands[K]) Exists(ctx context.Context, keys []K) (int64, error) {
	return run(ctx, g.ex, g.core.multi("EXISTS", keys))
}

// Expire sets a relative expiry on k. Whole seconds use EXPIRE, anything
// finer PEXPIRE.
func (g *KeyCommands[K]) Expire(ctx context.Context, k K, ttl time.Duration, opts ExpireArgs) (bool, error) {
	return run(ctx, g.ex, g.core.expire(k, ttl, opts))
}

// TTL returns the remaining time to live of k, NoExpiry, or ErrKeyNotFound.
func (g *KeyCommands[K]) TTL(ctx context.Context, k K) (time.Duration, error) {
	return run(ctx, g.ex, g.core.ttl(k))
}

// Persist removes the expiry of k.
func (g *KeyCommands[K]) Persist(ctx context.Context, k K) (bool, error) {
	return run(ctx, g.ex, g.core.persist(k))
}

// Type returns the type name of the value at k, "none" if absent.
func (g *KeyCommands[K]) Type(ctx context.Context, k K) (string, error) {
	return run(ctx, g.ex, g.core.typeOf(k))
}

// Rename renames k. A missing k yields ErrKeyNotFound.
func (g *KeyCommands[K]) Rename(ctx context.Context, k, to K) error {
	return runErr(ctx, g.ex, g.core.rename(k, to))
}

// RenameNX renames k only if to does not exist.
func (g *KeyCommands[K]) RenameNX(ctx context.Context, k, to K) (bool, error) {
	return run(ctx, g.ex, g.core.renameNX(k, to))
}

// Scan returns a cursor over the keyspace.
func (g *KeyCommands[K]) Scan(opts ScanArgs) (*Cursor[K], error) {
	if err := opts.validate(false); err != nil {
		return nil, err
	}
	build := func(token string) command.Command {
		return command.Of("SCAN").PutString(token).PutArgs(opts).Build()
	}
	page := func(f frame.Frame) ([]K, error) {
		return marshal.DecodeList(f, marshal.Decoder(g.core.keys))
	}
	return newCursor(g.ex, build, page), nil
}

// TxKeyCommands queues generic key commands in a transaction.
type TxKeyCommands[K any] struct {
	core keyCore[K]
	tx   *Tx
}

// TxKeys returns the generic key commands of tx.
func TxKeys[K any](tx *Tx) *TxKeyCommands[K] {
	return &TxKeyCommands[K]{core: newKeyCore[K](tx.client.registry), tx: tx}
}

func (g *TxKeyCommands[K]) Del(ctx context.Context, keys []K) (Queued[int64], error) {
	return enqueue(ctx, g.tx, g.core.multi("DEL", keys))
}

func (g *TxKeyCommands[K]) Exists(ctx context.Context, keys []K) (Queued[int64], error) {
	return enqueue(ctx, g.tx, g.core.multi("EXISTS", keys))
}

func (g *TxKeyCommands[K]) Expire(ctx context.Context, k K, ttl time.Duration, opts ExpireArgs) (Queued[bool], error) {
	return enqueue(ctx, g.tx, g.core.expire(k, ttl, opts))
}

func (g *TxKeyCommands[K]) TTL(ctx context.Context, k K) (Queued[time.Duration], error) {
	return enqueue(ctx, g.tx, g.core.ttl(k))
}

func (g *TxKeyCommands[K]) Persist(ctx context.Context, k K) (Queued[bool], error) {
	return enqueue(ctx, g.tx, g.core.persist(k))
}

func (g *TxKeyCommands[K]) Type(ctx context.Context, k K) (Queued[string], error) {
	return enqueue(ctx, g.tx, g.core.typeOf(k))
}

func (g *TxKeyCommands[K]) Rename(ctx context.Context, k, to K) (Queued[struct{}], error) {
	return enqueue(ctx, g.tx, g.core.rename(k, to))
}

func (g *TxKeyCommands[K]) RenameNX(ctx context.Context, k, to K) (Queued[bool], error) {
	return enqueue(ctx, g.tx, g.core.renameNX(k, to))
}
