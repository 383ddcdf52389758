package transport

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AndrewDonelson/typedis/internal/command"
	"github.com/AndrewDonelson/typedis/internal/frame"
)

// WithTimeout bounds every call of next by d. Expiry of the bound is
// reported as ErrTimeout; cancellation of the caller's context is passed
// through unchanged. A non-positive d returns next.
func WithTimeout(next Executor, d time.Duration) Executor {
	if d <= 0 {
		return next
	}
	return &timeoutExecutor{next: next, d: d}
}

// ConnectorWithTimeout bounds every call on connections checked out from
// next, and the checkout itself.
func ConnectorWithTimeout(next Connector, d time.Duration) Connector {
	if d <= 0 {
		return next
	}
	return &timeoutConnector{next: next, d: d}
}

type timeoutExecutor struct {
	next Executor
	d    time.Duration
}

func (t *timeoutExecutor) Execute(ctx context.Context, cmd command.Command) (frame.Frame, error) {
	return bounded(ctx, t.d, cmd.Name(), func(ctx context.Context) (frame.Frame, error) {
		return t.next.Execute(ctx, cmd)
	})
}

type timeoutConnector struct {
	next Connector
	d    time.Duration
}

func (t *timeoutConnector) Connect(ctx context.Context) (Conn, error) {
	tctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	conn, err := t.next.Connect(tctx)
	if err != nil {
		return nil, timeoutError(ctx, tctx, "connect", t.d, err)
	}
	return &timeoutConn{Conn: conn, d: t.d}, nil
}

type timeoutConn struct {
	Conn
	d time.Duration
}

func (t *timeoutConn) Execute(ctx context.Context, cmd command.Command) (frame.Frame, error) {
	return bounded(ctx, t.d, cmd.Name(), func(ctx context.Context) (frame.Frame, error) {
		return t.Conn.Execute(ctx, cmd)
	})
}

func bounded(ctx context.Context, d time.Duration, op string, fn func(context.Context) (frame.Frame, error)) (frame.Frame, error) {
	tctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	f, err := fn(tctx)
	if err != nil {
		return f, timeoutError(ctx, tctx, op, d, err)
	}
	return f, nil
}

// timeoutError maps err to ErrTimeout when the bound expired while the
// parent context was still live.
func timeoutError(parent, bounded context.Context, op string, d time.Duration, err error) error {
	if parent.Err() == nil && errors.Is(bounded.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s after %s: %w", ErrTimeout, op, d, err)
	}
	return err
}
