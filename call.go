package typedis

import (
	"context"

	"github.com/AndrewDonelson/typedis/internal/command"
	"github.com/AndrewDonelson/typedis/internal/frame"
	"github.com/AndrewDonelson/typedis/internal/transport"
)

// call is one prepared command plus the decoder for its reply. Every command
// group method builds a call; the direct and queued adapters differ only in
// what they do with it.
type call[T any] struct {
	cmd    command.Command
	decode func(frame.Frame) (T, error)
	// translate rewrites server errors, nil for none.
	translate func(error) error
	// err is a validation or encoding failure found before any wire call.
	err error
}

func failed[T any](err error) call[T] { return call[T]{err: err} }

func (c call[T]) serverError(err error) error {
	if c.translate != nil {
		return c.translate(err)
	}
	return err
}

// run executes c and decodes its reply.
func run[T any](ctx context.Context, ex transport.Executor, c call[T]) (T, error) {
	var zero T
	if c.err != nil {
		return zero, c.err
	}
	f, err := ex.Execute(ctx, c.cmd)
	if err != nil {
		return zero, err
	}
	if f.IsError() {
		return zero, c.serverError(f.Err())
	}
	return c.decode(f)
}

// runErr is run for commands whose reply carries no information.
func runErr[T any](ctx context.Context, ex transport.Executor, c call[T]) error {
	_, err := run(ctx, ex, c)
	return err
}

// args accumulates command arguments and keeps the first encoding error.
type args struct {
	b   *command.Builder
	err error
}

func newArgs(name string) *args {
	return &args{b: command.Of(name)}
}

func (a *args) put(b []byte, err error) *args {
	if a.err != nil {
		return a
	}
	if err != nil {
		a.err = err
		return a
	}
	a.b.Put(b)
	return a
}

func (a *args) putAll(bs [][]byte, err error) *args {
	if a.err != nil {
		return a
	}
	if err != nil {
		a.err = err
		return a
	}
	a.b.PutAll(bs)
	return a
}

func (a *args) str(s string) *args {
	a.b.PutString(s)
	return a
}

func (a *args) num(n int64) *args {
	a.b.PutInt(n)
	return a
}

func (a *args) score(f float64) *args {
	a.b.PutFloat(f)
	return a
}

func (a *args) flag(cond bool, token string) *args {
	a.b.PutFlag(cond, token)
	return a
}

func (a *args) opts(o command.Args) *args {
	a.b.PutArgs(o)
	return a
}

// callOf finishes a into a call with decoder dec.
func callOf[T any](a *args, dec func(frame.Frame) (T, error)) call[T] {
	if a.err != nil {
		return failed[T](a.err)
	}
	return call[T]{cmd: a.b.Build(), decode: dec}
}
