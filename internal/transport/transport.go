// Package transport executes built commands against a server and returns the
// decoded reply frame.
package transport

import (
	"context"
	"errors"

	"github.com/AndrewDonelson/typedis/internal/command"
	"github.com/AndrewDonelson/typedis/internal/frame"
)

// ErrTimeout is returned when a bounded call did not complete in time. The
// command may still have been executed by the server.
var ErrTimeout = errors.New("transport: operation timed out")

// ErrClosed is returned by a connection used after Close.
var ErrClosed = errors.New("transport: connection closed")

// Executor sends one command and returns its reply. Server error replies are
// returned as Error frames with a nil error; only transport failures are Go
// errors.
type Executor interface {
	Execute(ctx context.Context, cmd command.Command) (frame.Frame, error)
}

// Conn is an Executor bound to one dedicated connection.
type Conn interface {
	Executor
	Close() error
}

// Connector checks out dedicated connections.
type Connector interface {
	Connect(ctx context.Context) (Conn, error)
}

// Logger is the subset of the client logger used by this package.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, cmd command.Command) (frame.Frame, error)

// Execute calls f.
func (f ExecutorFunc) Execute(ctx context.Context, cmd command.Command) (frame.Frame, error) {
	return f(ctx, cmd)
}
