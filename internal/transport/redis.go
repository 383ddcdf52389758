// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// redis.go — go-redis adapter: runs commands through Process on the pooled
// client or a checked-out *redis.Conn and converts reply values into frames.

package transport

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/AndrewDonelson/typedis/internal/command"
	"github.com/AndrewDonelson/typedis/internal/frame"
	"github.com/redis/go-redis/v9"
)

// wirePool pools the []interface{} slices handed to redis.NewCmd so a
// command's wire form is not reallocated on every call.
var wirePool = sync.Pool{
	New: func() any {
		s := make([]interface{}, 0, 8)
		return &s
	},
}

// processor is satisfied by *redis.Client and *redis.Conn.
type processor interface {
	Process(ctx context.Context, cmd redis.Cmder) error
}

// Redis executes commands on a go-redis client pool.
type Redis struct {
	client *redis.Client
}

// NewRedis wraps an existing go-redis client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Client returns the underlying go-redis client.
func (r *Redis) Client() *redis.Client { return r.client }

// Execute runs cmd on a pooled connection.
func (r *Redis) Execute(ctx context.Context, cmd command.Command) (frame.Frame, error) {
	return process(ctx, r.client, cmd)
}

// Connect checks out a dedicated connection. The connection must be closed
// to return it to the pool.
func (r *Redis) Connect(ctx context.Context) (Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &redisConn{conn: r.client.Conn()}, nil
}

// Close closes the client pool.
func (r *Redis) Close() error {
	return r.client.Close()
}

type redisConn struct {
	conn   *redis.Conn
	closed atomic.Bool
}

func (c *redisConn) Execute(ctx context.Context, cmd command.Command) (frame.Frame, error) {
	if c.closed.Load() {
		return frame.Null(), ErrClosed
	}
	return process(ctx, c.conn, cmd)
}

func (c *redisConn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.conn.Close()
}

// process sends cmd through p using a pooled args slice.
//
// Safety: Process is synchronous. The *redis.Cmd holds no reference to the
// args once Process has returned and the reply has been converted, so the
// slice can be reset and pooled.
func process(ctx context.Context, p processor, cmd command.Command) (frame.Frame, error) {
	ap := wirePool.Get().(*[]interface{})
	args := cmd.AppendWire((*ap)[:0])
	rc := redis.NewCmd(ctx, args...)
	_ = p.Process(ctx, rc)
	f, err := replyFrame(rc)
	for i := range args {
		args[i] = nil
	}
	*ap = args[:0]
	wirePool.Put(ap)
	return f, err
}

// replyFrame converts a completed go-redis command into a frame.
func replyFrame(rc *redis.Cmd) (frame.Frame, error) {
	if err := rc.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return frame.Null(), nil
		}
		var rerr redis.Error
		if errors.As(err, &rerr) {
			return frame.Error(rerr.Error()), nil
		}
		return frame.Null(), err
	}
	return toFrame(rc.Val())
}

// toFrame converts one go-redis reply value. RESP3 maps arrive as Go maps, so
// their pair order is not preserved.
func toFrame(v interface{}) (frame.Frame, error) {
	switch x := v.(type) {
	case nil:
		return frame.Null(), nil
	case string:
		return frame.BulkString(x), nil
	case []byte:
		return frame.Bulk(x), nil
	case int64:
		return frame.Integer(x), nil
	case float64:
		return frame.Double(x), nil
	case bool:
		return frame.Boolean(x), nil
	case *big.Int:
		return frame.BulkString(x.String()), nil
	case redis.Error:
		return frame.Error(x.Error()), nil
	case []interface{}:
		items := make([]frame.Frame, len(x))
		for i, it := range x {
			f, err := toFrame(it)
			if err != nil {
				return frame.Null(), err
			}
			items[i] = f
		}
		return frame.Multi(items...), nil
	case map[interface{}]interface{}:
		pairs := make([]frame.Pair, 0, len(x))
		for k, val := range x {
			kf, err := toFrame(k)
			if err != nil {
				return frame.Null(), err
			}
			vf, err := toFrame(val)
			if err != nil {
				return frame.Null(), err
			}
			pairs = append(pairs, frame.Pair{Key: kf, Value: vf})
		}
		return frame.Map(pairs...), nil
	case error:
		return frame.Null(), x
	}
	return frame.Null(), fmt.Errorf("transport: unsupported reply value %T", v)
}
