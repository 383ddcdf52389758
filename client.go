// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// client.go — Client construction over go-redis, the timeout-bounded view,
// raw command execution, and codec registration helpers.

package typedis

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/AndrewDonelson/typedis/internal/codec"
	"github.com/AndrewDonelson/typedis/internal/command"
	"github.com/AndrewDonelson/typedis/internal/frame"
	"github.com/AndrewDonelson/typedis/internal/marshal"
	"github.com/AndrewDonelson/typedis/internal/transport"
	"github.com/redis/go-redis/v9"
)

// Re-export types so callers only import this package.
type (
	Codec[T any]    = codec.Codec[T]
	Serializer      = codec.Serializer
	Frame           = frame.Frame
	Entry[F, V any] = marshal.Entry[F, V]
)

// Client is the entry point of typedis. It is safe for concurrent use;
// command groups built from it share its connection pool.
type Client struct {
	cfg       Config
	registry  *codec.Registry
	exec      transport.Executor
	connector transport.Connector
	logger    Logger
	redis     *transport.Redis
	owned     bool
	closed    *atomic.Bool
	// bound is set on clients pinned to a transaction connection.
	bound bool
}

// NewClient creates a Client with its own go-redis pool. No connection is
// made until the first command. Failed commands are never retried, since a
// retry may run a non-idempotent command twice.
func NewClient(cfg Config) (*Client, error) {
	cfg.defaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	rc := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Protocol:     cfg.Protocol,
		PoolSize:     cfg.PoolSize,
		MaxRetries:   -1,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	c, err := newClient(cfg, transport.NewRedis(rc))
	if err != nil {
		_ = rc.Close()
		return nil, err
	}
	c.owned = true
	return c, nil
}

// Wrap creates a Client over an existing go-redis client. Close does not
// close rc.
func Wrap(rc *redis.Client, cfg Config) (*Client, error) {
	cfg.defaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return newClient(cfg, transport.NewRedis(rc))
}

func newClient(cfg Config, r *transport.Redis) (*Client, error) {
	c, err := build(cfg, r, r)
	if err != nil {
		return nil, err
	}
	c.redis = r
	return c, nil
}

// build assembles a client over any executor/connector pair.
func build(cfg Config, ex transport.Executor, conn transport.Connector) (*Client, error) {
	reg := codec.NewRegistry()
	s, ok := codec.SerializerByName(cfg.Fallback)
	if !ok {
		return nil, fmt.Errorf("%w: unknown fallback serializer %q", ErrInvalidConfig, cfg.Fallback)
	}
	reg.SetFallback(s)

	obs := transport.Observer{Metrics: cfg.Metrics, Clock: cfg.Clock, Logger: cfg.Logger}
	c := &Client{
		cfg:       cfg,
		registry:  reg,
		exec:      transport.Instrument(ex, obs),
		connector: transport.InstrumentConnector(conn, obs),
		logger:    cfg.Logger,
		closed:    new(atomic.Bool),
	}
	if cfg.CommandTimeout > 0 {
		c.exec = transport.WithTimeout(c.exec, cfg.CommandTimeout)
		c.connector = transport.ConnectorWithTimeout(c.connector, cfg.CommandTimeout)
	}
	return c, nil
}

// WithTimeout returns a view of c whose every call, including the pages of
// cursors and the commands of transactions, is bounded by d. Expiry is
// reported as ErrTimeout. The view shares c's pool and registry.
func (c *Client) WithTimeout(d time.Duration) *Client {
	cp := *c
	cp.exec = transport.WithTimeout(c.exec, d)
	if c.connector != nil {
		cp.connector = transport.ConnectorWithTimeout(c.connector, d)
	}
	cp.owned = false
	return &cp
}

// Registry returns the codec registry. Codecs must be registered before
// the command groups that use them are constructed.
func (c *Client) Registry() *codec.Registry { return c.registry }

// Ping checks that the server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := run(ctx, c.executor(), call[string]{cmd: command.Of("PING").Build(), decode: asText})
	return err
}

// Execute sends a raw command. Arguments are encoded with the registry's
// runtime codecs. A server error reply is returned as *ServerError together
// with the reply frame.
func (c *Client) Execute(ctx context.Context, name string, args []any) (Frame, error) {
	cmd, err := rawCommand(c.registry, name, args)
	if err != nil {
		return frame.Null(), err
	}
	f, err := c.executor().Execute(ctx, cmd)
	if err != nil {
		return f, err
	}
	return f, f.Err()
}

// Close releases the connection pool if the client owns it. Idempotent.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	if c.owned && c.redis != nil {
		return c.redis.Close()
	}
	return nil
}

// executor returns the executor used by command groups. Calls made after
// Close fail with ErrClosed, including those of groups built earlier.
func (c *Client) executor() transport.Executor {
	return transport.ExecutorFunc(func(ctx context.Context, cmd command.Command) (frame.Frame, error) {
		if c.closed.Load() {
			return frame.Null(), ErrClosed
		}
		return c.exec.Execute(ctx, cmd)
	})
}

func rawCommand(reg *codec.Registry, name string, args []any) (command.Command, error) {
	if name == "" {
		return command.Command{}, invalidArg("command name must not be empty")
	}
	b := command.Of(name)
	for i, a := range args {
		enc, err := reg.Encode(a)
		if err != nil {
			return command.Command{}, fmt.Errorf("argument %d: %w", i, err)
		}
		b.Put(enc)
	}
	return b.Build(), nil
}

// Register installs cd for T in c's registry.
func Register[T any](c *Client, cd Codec[T]) {
	codec.Register(c.registry, cd)
}

// RegisterEncrypted seals stored values of type T with AES-256-GCM using the
// configured EncryptionKey. It applies to the values of the Values, Hashes
// and Lists groups. Keys, hash fields and set or sorted-set members of type
// T keep the plain codec, since a sealed encoding is different on every
// write and could never be addressed again.
func RegisterEncrypted[T any](c *Client) error {
	if len(c.cfg.EncryptionKey) == 0 {
		return fmt.Errorf("%w: no encryption key configured", ErrInvalidConfig)
	}
	inner, err := codec.Lookup[T](c.registry)
	if err != nil {
		return err
	}
	enc, err := codec.Encrypted(inner, c.cfg.EncryptionKey)
	if err != nil {
		return fmt.Errorf("typedis: encryption init: %w", err)
	}
	codec.RegisterPayload(c.registry, enc)
	return nil
}

// NewCodec builds a codec from an encode and a decode function.
func NewCodec[T any](enc func(T) ([]byte, error), dec func([]byte) (T, error)) Codec[T] {
	return codec.New(enc, dec)
}

// JSONCodec returns a codec storing T as JSON.
func JSONCodec[T any]() Codec[T] { return codec.Structured[T](codec.JSON{}) }

// MsgPackCodec returns a codec storing T as MessagePack.
func MsgPackCodec[T any]() Codec[T] { return codec.Structured[T](codec.MsgPack{}) }

// IsServerError reports whether err carries a server error reply, and
// returns it.
func IsServerError(err error) (*ServerError, bool) {
	var se *ServerError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
