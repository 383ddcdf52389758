package transport

import (
	"context"
	"strings"

	"github.com/AndrewDonelson/typedis/internal/clock"
	"github.com/AndrewDonelson/typedis/internal/command"
	"github.com/AndrewDonelson/typedis/internal/frame"
	"github.com/AndrewDonelson/typedis/internal/metrics"
)

// Observer holds the collaborators used by the instrumenting decorators.
type Observer struct {
	Metrics metrics.Recorder
	Clock   clock.Clock
	Logger  Logger
}

func (o *Observer) defaults() {
	if o.Metrics == nil {
		o.Metrics = metrics.Noop{}
	}
	if o.Clock == nil {
		o.Clock = clock.Real{}
	}
}

// Instrument records latency and failures of every call made through next.
// Server error replies count as failures.
func Instrument(next Executor, obs Observer) Executor {
	obs.defaults()
	return &instrumented{next: next, obs: obs}
}

// InstrumentConnector instruments every connection checked out from next.
func InstrumentConnector(next Connector, obs Observer) Connector {
	obs.defaults()
	return &instrumentedConnector{next: next, obs: obs}
}

type instrumented struct {
	next Executor
	obs  Observer
}

func (i *instrumented) Execute(ctx context.Context, cmd command.Command) (frame.Frame, error) {
	return observe(ctx, &i.obs, cmd, i.next)
}

type instrumentedConnector struct {
	next Connector
	obs  Observer
}

func (i *instrumentedConnector) Connect(ctx context.Context) (Conn, error) {
	conn, err := i.next.Connect(ctx)
	if err != nil {
		i.obs.Metrics.RecordError("CONNECT")
		return nil, err
	}
	return &instrumentedConn{Conn: conn, obs: &i.obs}, nil
}

type instrumentedConn struct {
	Conn
	obs *Observer
}

func (i *instrumentedConn) Execute(ctx context.Context, cmd command.Command) (frame.Frame, error) {
	return observe(ctx, i.obs, cmd, i.Conn)
}

func observe(ctx context.Context, obs *Observer, cmd command.Command, next Executor) (frame.Frame, error) {
	start := obs.Clock.Now()
	f, err := next.Execute(ctx, cmd)
	d := obs.Clock.Since(start)
	label := Label(cmd.Name())
	obs.Metrics.RecordLatency(label, d)
	switch {
	case err != nil:
		obs.Metrics.RecordError(label)
		if obs.Logger != nil {
			obs.Logger.Debug("typedis: command failed", "command", cmd.Name(), "duration", d, "error", err)
		}
	case f.IsError():
		obs.Metrics.RecordError(label)
		if obs.Logger != nil {
			obs.Logger.Debug("typedis: server error", "command", cmd.Name(), "duration", d, "reply", f.String())
		}
	}
	return f, err
}

// OtherCommand is the metric label shared by command names outside the
// known set, which keeps label cardinality bounded for raw commands.
const OtherCommand = "OTHER"

var knownCommands = func() map[string]struct{} {
	names := strings.Fields(`
		PING ECHO AUTH HELLO SELECT INFO DBSIZE FLUSHDB FLUSHALL
		GET SET SETNX SETEX PSETEX GETDEL GETEX GETSET MGET MSET MSETNX
		INCR INCRBY DECR DECRBY INCRBYFLOAT APPEND STRLEN GETRANGE SETRANGE
		DEL UNLINK EXISTS EXPIRE PEXPIRE EXPIREAT PEXPIREAT TTL PTTL PERSIST
		TYPE RENAME RENAMENX KEYS SCAN COPY TOUCH
		HSET HSETNX HGET HGETALL HMGET HMSET HDEL HEXISTS HLEN HINCRBY
		HINCRBYFLOAT HKEYS HVALS HSTRLEN HSCAN
		SADD SREM SMEMBERS SISMEMBER SMISMEMBER SCARD SPOP SRANDMEMBER
		SINTER SUNION SDIFF SSCAN
		LPUSH RPUSH LPOP RPOP LRANGE LLEN LINDEX LSET LREM LTRIM LPOS LINSERT
		ZADD ZSCORE ZINCRBY ZRANGE ZRANGEBYSCORE ZREVRANGE ZRANK ZREVRANK
		ZREM ZCARD ZCOUNT ZPOPMIN ZPOPMAX ZMSCORE ZSCAN
		WATCH UNWATCH MULTI EXEC DISCARD
		EVAL EVALSHA SCRIPT OBJECT MEMORY CLIENT CONFIG TIME`)
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}()

// Label returns the metric label for a command name: the upper-cased name
// when it is a known command, OtherCommand otherwise.
func Label(name string) string {
	up := strings.ToUpper(name)
	if _, ok := knownCommands[up]; ok {
		return up
	}
	return OtherCommand
}
