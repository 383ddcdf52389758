package typedis

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/AndrewDonelson/typedis/internal/command"
	"github.com/AndrewDonelson/typedis/internal/frame"
	"github.com/AndrewDonelson/typedis/internal/transport"
	"github.com/stretchr/testify/require"
)

// ── Fakes ────────────────────────────────────────────────────────────────────

// line renders cmd as space separated tokens.
func line(cmd command.Command) string {
	parts := make([]string, 0, cmd.Len()+1)
	for _, w := range cmd.Wire() {
		parts = append(parts, fmt.Sprint(w))
	}
	return strings.Join(parts, " ")
}

// scripted replies by rendered command line; unknown lines reply with an
// error frame so tests fail loudly.
type scripted struct {
	mu      sync.Mutex
	replies map[string][]frame.Frame
	errs    map[string]error
	sent    []string
}

func newScripted() *scripted {
	return &scripted{replies: map[string][]frame.Frame{}, errs: map[string]error{}}
}

// on queues reply for the next call of l.
func (s *scripted) on(l string, reply frame.Frame) *scripted {
	s.replies[l] = append(s.replies[l], reply)
	return s
}

func (s *scripted) fail(l string, err error) *scripted {
	s.errs[l] = err
	return s
}

func (s *scripted) Execute(_ context.Context, cmd command.Command) (frame.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := line(cmd)
	s.sent = append(s.sent, l)
	if err, ok := s.errs[l]; ok {
		return frame.Null(), err
	}
	q := s.replies[l]
	if len(q) == 0 {
		return frame.Error("ERR unscripted " + l), nil
	}
	s.replies[l] = q[1:]
	return q[0], nil
}

func (s *scripted) lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sent...)
}

// fakeConn is a scripted dedicated connection that counts Close calls.
type fakeConn struct {
	*scripted
	closes int
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closes++
	return nil
}

type fakeConnector struct {
	conn     *fakeConn
	connects int
	err      error
	// wrap, when set, decorates the handed out connection.
	wrap func(*fakeConn) transport.Conn
}

func (f *fakeConnector) Connect(ctx context.Context) (transport.Conn, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.connects++
	if f.wrap != nil {
		return f.wrap(f.conn), nil
	}
	return f.conn, nil
}

// recorder captures transaction outcomes.
type recorder struct {
	mu       sync.Mutex
	outcomes []string
	errors   []string
}

func (r *recorder) RecordLatency(string, time.Duration) {}

func (r *recorder) RecordError(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, op)
}

func (r *recorder) RecordTransaction(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

// newFakeClient builds a client over ex and a connector handing out conn.
func newFakeClient(t *testing.T, cfg Config, ex transport.Executor, conn *fakeConn) (*Client, *fakeConnector) {
	t.Helper()
	cfg.defaults()
	require.NoError(t, cfg.validate())
	fc := &fakeConnector{conn: conn}
	c, err := build(cfg, ex, fc)
	require.NoError(t, err)
	return c, fc
}

var okReply = frame.Simple("OK")

var queuedReply = frame.Simple("QUEUED")
