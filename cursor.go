package typedis

import (
	"context"
	"fmt"
	"iter"

	"github.com/AndrewDonelson/typedis/internal/command"
	"github.com/AndrewDonelson/typedis/internal/frame"
	"github.com/AndrewDonelson/typedis/internal/transport"
)

// startToken is the cursor token that starts a scan and signals its end.
const startToken = "0"

// Cursor pages through a SCAN-family command. It is restartable only by
// constructing a new cursor, and does not remove the duplicates the server
// may return across pages. A Cursor is not safe for concurrent use.
type Cursor[T any] struct {
	ex      transport.Executor
	build   func(token string) command.Command
	decode  func(frame.Frame) ([]T, error)
	token   string
	started bool
}

func newCursor[T any](ex transport.Executor, build func(token string) command.Command, decode func(frame.Frame) ([]T, error)) *Cursor[T] {
	return &Cursor[T]{ex: ex, build: build, decode: decode, token: startToken}
}

// HasNext reports whether another page may be fetched.
func (c *Cursor[T]) HasNext() bool {
	return !c.started || c.token != startToken
}

// Token returns the current resume token.
func (c *Cursor[T]) Token() string { return c.token }

// Next fetches one page. The page may be empty while HasNext still
// reports true. After the last page it returns ErrCursorExhausted.
func (c *Cursor[T]) Next(ctx context.Context) ([]T, error) {
	if !c.HasNext() {
		return nil, ErrCursorExhausted
	}
	f, err := c.ex.Execute(ctx, c.build(c.token))
	if err != nil {
		return nil, err
	}
	if f.IsError() {
		return nil, f.Err()
	}
	if f.Len() != 2 {
		return nil, fmt.Errorf("%w: scan reply must be [cursor, items], got %s", frame.ErrShape, f.Kind())
	}
	tf, _ := f.Index(0)
	next, err := tf.Text()
	if err != nil {
		return nil, fmt.Errorf("scan cursor: %w", err)
	}
	itemsFrame, _ := f.Index(1)
	items, err := c.decode(itemsFrame)
	if err != nil {
		return nil, err
	}
	c.token = next
	c.started = true
	return items, nil
}

// All drains the cursor.
func (c *Cursor[T]) All(ctx context.Context) ([]T, error) {
	var out []T
	for c.HasNext() {
		page, err := c.Next(ctx)
		if err != nil {
			return out, err
		}
		out = append(out, page...)
	}
	return out, nil
}

// Pages yields pages until the cursor is exhausted or a call fails. The
// failing error is yielded once with a nil page and ends the sequence.
func (c *Cursor[T]) Pages(ctx context.Context) iter.Seq2[[]T, error] {
	return func(yield func([]T, error) bool) {
		for c.HasNext() {
			page, err := c.Next(ctx)
			if !yield(page, err) || err != nil {
				return
			}
		}
	}
}
