// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// transaction.go — WATCH/MULTI/EXEC coordinator: dedicated connection
// checkout, command queuing with QUEUED acknowledgement, discard and
// optimistic-lock variants, and typed result assembly.

package typedis

import (
	"context"
	"fmt"
	"sync"

	"github.com/AndrewDonelson/typedis/internal/command"
	"github.com/AndrewDonelson/typedis/internal/frame"
	"github.com/AndrewDonelson/typedis/internal/metrics"
	"github.com/AndrewDonelson/typedis/internal/transport"
	"github.com/AndrewDonelson/typedis/internal/txn"
	"github.com/segmentio/ksuid"
)

// Tx is one MULTI block. Commands are queued through the Tx* command groups
// or Execute; nothing runs until the block function returns. A Tx must not
// be retained after its block returns.
type Tx struct {
	id     string
	conn   transport.Conn
	holder *txn.Holder
	client *Client

	mu     sync.Mutex
	closed bool
	// failure is the first enqueue failure; it aborts the transaction even
	// when the block swallows it.
	failure error
}

// ID returns the transaction id used in log fields.
func (tx *Tx) ID() string { return tx.id }

// Discard abandons the transaction. Queued commands are dropped with
// DISCARD when the block returns.
func (tx *Tx) Discard() {
	tx.holder.Discard()
}

// Len returns the number of queued commands.
func (tx *Tx) Len() int { return tx.holder.Len() }

// Execute queues a raw command.
func (tx *Tx) Execute(ctx context.Context, name string, args []any) (Queued[Frame], error) {
	cmd, err := rawCommand(tx.client.registry, name, args)
	if err != nil {
		return Queued[Frame]{}, err
	}
	return enqueue(ctx, tx, call[Frame]{cmd: cmd, decode: func(f frame.Frame) (Frame, error) { return f, nil }})
}

// enqueue pushes dec and sends cmd, which must be acknowledged with QUEUED.
func (tx *Tx) enqueue(ctx context.Context, cmd command.Command, dec txn.Decoder) (int, error) {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	switch {
	case tx.closed:
		return 0, ErrTxClosed
	case tx.failure != nil:
		return 0, fmt.Errorf("%w: earlier command failed: %w", ErrTxClosed, tx.failure)
	case tx.holder.Discarded():
		return 0, fmt.Errorf("%w: discarded", ErrTxClosed)
	}
	idx, err := tx.holder.Enqueue(dec)
	if err != nil {
		return 0, err
	}
	f, err := tx.conn.Execute(ctx, cmd)
	if err == nil {
		err = queuedAck(f)
	}
	if err != nil {
		tx.failure = fmt.Errorf("%s: %w", cmd.Name(), err)
		tx.client.logger.Warn("typedis: enqueue failed", "tx", tx.id, "command", cmd.Name(), "error", err)
		return 0, tx.failure
	}
	return idx, nil
}

func queuedAck(f frame.Frame) error {
	if f.IsError() {
		return fmt.Errorf("%w: %w", ErrNotQueued, f.Err())
	}
	if s, err := f.Text(); err != nil || s != "QUEUED" {
		return fmt.Errorf("%w: unexpected reply %s", ErrNotQueued, f)
	}
	return nil
}

func (tx *Tx) close() error {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	tx.closed = true
	return tx.failure
}

// Queued is the handle of one command queued in a transaction.
type Queued[T any] struct {
	txID      string
	index     int
	translate func(error) error
}

// Index returns the command's position in the transaction.
func (q Queued[T]) Index() int { return q.index }

// Get returns the command's typed result from res. A command the server
// rejected at EXEC time yields its *ServerError.
func (q Queued[T]) Get(res *TxResult) (T, error) {
	var zero T
	if res == nil || res.id != q.txID {
		return zero, invalidArg("result belongs to another transaction")
	}
	v, err := res.Get(q.index)
	if err != nil {
		if q.translate != nil {
			err = q.translate(err)
		}
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: slot %d holds %T", ErrShape, q.index, v)
	}
	return t, nil
}

func enqueue[T any](ctx context.Context, tx *Tx, c call[T]) (Queued[T], error) {
	if c.err != nil {
		return Queued[T]{}, c.err
	}
	idx, err := tx.enqueue(ctx, c.cmd, func(f frame.Frame) (any, error) {
		v, err := c.decode(f)
		if err != nil {
			return nil, err
		}
		return v, nil
	})
	if err != nil {
		return Queued[T]{}, err
	}
	return Queued[T]{txID: tx.id, index: idx, translate: c.translate}, nil
}

// TxResult is the outcome of an executed or discarded transaction.
type TxResult struct {
	id        string
	discarded bool
	values    []any
}

// Discarded reports whether the transaction was discarded, either by the
// caller or because a watched key changed. A discarded result carries no
// values.
func (r *TxResult) Discarded() bool { return r.discarded }

// Len returns the number of results.
func (r *TxResult) Len() int { return len(r.values) }

// Get returns the i-th result. Late failures are returned as the error.
func (r *TxResult) Get(i int) (any, error) {
	if r.discarded {
		return nil, ErrTxDiscarded
	}
	if i < 0 || i >= len(r.values) {
		return nil, invalidArg("result index %d out of range [0,%d)", i, len(r.values))
	}
	if err, ok := r.values[i].(error); ok {
		return nil, err
	}
	return r.values[i], nil
}

// OptimisticTxResult adds the value computed before MULTI.
type OptimisticTxResult[I any] struct {
	*TxResult
	pre I
}

// PreTransactionResult returns the value of the pre-transaction step. It is
// available even when the transaction was discarded.
func (r *OptimisticTxResult[I]) PreTransactionResult() I { return r.pre }

// WithTransaction runs fn inside MULTI/EXEC on a dedicated connection,
// watching keys first when watch is non-empty. If fn returns an error or a
// command fails to queue, the transaction is discarded and the error
// returned. An EXEC aborted by a watched key change yields a discarded
// result, not an error.
func (c *Client) WithTransaction(ctx context.Context, watch []string, fn func(ctx context.Context, tx *Tx) error) (*TxResult, error) {
	if fn == nil {
		return nil, invalidArg("transaction block must not be nil")
	}
	var res *TxResult
	err := c.withConn(ctx, func(tx *Tx) error {
		if err := tx.watch(ctx, watch); err != nil {
			return err
		}
		var err error
		res, err = tx.run(ctx, fn)
		return err
	})
	return res, err
}

// WithOptimisticTransaction watches keys, runs pre against a client bound
// to the transaction connection, then runs fn inside MULTI/EXEC with the
// value pre returned. If pre fails, the keys are unwatched and no
// transaction is started.
func WithOptimisticTransaction[I any](
	ctx context.Context,
	c *Client,
	watch []string,
	pre func(ctx context.Context, c *Client) (I, error),
	fn func(ctx context.Context, in I, tx *Tx) error,
) (*OptimisticTxResult[I], error) {
	if len(watch) == 0 {
		return nil, invalidArg("optimistic transaction needs at least one key to watch")
	}
	if pre == nil || fn == nil {
		return nil, invalidArg("transaction functions must not be nil")
	}
	var out *OptimisticTxResult[I]
	err := c.withConn(ctx, func(tx *Tx) error {
		if err := tx.watch(ctx, watch); err != nil {
			return err
		}
		in, err := pre(ctx, tx.boundClient())
		if err != nil {
			tx.unwatch(ctx)
			tx.client.cfg.Metrics.RecordTransaction(metrics.OutcomeAborted)
			return err
		}
		res, err := tx.run(ctx, func(ctx context.Context, tx *Tx) error { return fn(ctx, in, tx) })
		if err != nil {
			return err
		}
		out = &OptimisticTxResult[I]{TxResult: res, pre: in}
		return nil
	})
	return out, err
}

// withConn checks out a dedicated connection for one transaction and
// releases it exactly once.
func (c *Client) withConn(ctx context.Context, fn func(tx *Tx) error) error {
	if c.bound {
		return ErrNestedTransaction
	}
	if c.closed.Load() {
		return ErrClosed
	}
	conn, err := c.connector.Connect(ctx)
	if err != nil {
		return fmt.Errorf("typedis: checkout connection: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			c.logger.Warn("typedis: release connection", "error", cerr)
		}
	}()
	tx := &Tx{
		id:     ksuid.New().String(),
		conn:   conn,
		holder: txn.NewHolder(),
		client: c,
	}
	return fn(tx)
}

// boundClient returns a client whose commands run on the transaction
// connection. It cannot start transactions of its own.
func (tx *Tx) boundClient() *Client {
	cp := *tx.client
	cp.exec = tx.conn
	cp.connector = nil
	cp.owned = false
	cp.bound = true
	return &cp
}

func (tx *Tx) watch(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	b := command.Of("WATCH")
	for _, k := range keys {
		b.PutString(k)
	}
	_, err := run(ctx, tx.conn, call[struct{}]{cmd: b.Build(), decode: asOK})
	if err != nil {
		return fmt.Errorf("typedis: watch: %w", err)
	}
	return nil
}

// cleanup sends cmd detached from ctx cancellation so the connection is
// left outside MULTI and WATCH when it returns to the pool.
func (tx *Tx) cleanup(ctx context.Context, name string) {
	if _, err := tx.conn.Execute(context.WithoutCancel(ctx), command.Of(name).Build()); err != nil {
		tx.client.logger.Warn("typedis: transaction cleanup failed", "tx", tx.id, "command", name, "error", err)
	}
}

func (tx *Tx) unwatch(ctx context.Context) { tx.cleanup(ctx, "UNWATCH") }

func (tx *Tx) discard(ctx context.Context) { tx.cleanup(ctx, "DISCARD") }

// run drives MULTI, the block, and EXEC or DISCARD.
func (tx *Tx) run(ctx context.Context, fn func(ctx context.Context, tx *Tx) error) (*TxResult, error) {
	log := tx.client.logger
	rec := tx.client.cfg.Metrics

	if _, err := run(ctx, tx.conn, call[struct{}]{cmd: command.Of("MULTI").Build(), decode: asOK}); err != nil {
		tx.unwatch(ctx)
		rec.RecordTransaction(metrics.OutcomeAborted)
		return nil, fmt.Errorf("typedis: multi: %w", err)
	}
	log.Debug("typedis: transaction begin", "tx", tx.id)

	fnErr := fn(ctx, tx)
	failure := tx.close()
	switch {
	case fnErr != nil || failure != nil:
		tx.discard(ctx)
		rec.RecordTransaction(metrics.OutcomeAborted)
		log.Debug("typedis: transaction aborted", "tx", tx.id, "error", firstErr(fnErr, failure))
		return nil, firstErr(fnErr, failure)
	case tx.holder.Discarded():
		tx.discard(ctx)
		rec.RecordTransaction(metrics.OutcomeDiscarded)
		log.Debug("typedis: transaction discarded", "tx", tx.id)
		return &TxResult{id: tx.id, discarded: true}, nil
	}

	f, err := tx.conn.Execute(ctx, command.Of("EXEC").Build())
	if err != nil {
		rec.RecordTransaction(metrics.OutcomeAborted)
		return nil, fmt.Errorf("typedis: exec: %w", err)
	}
	if f.IsError() {
		rec.RecordTransaction(metrics.OutcomeAborted)
		return nil, fmt.Errorf("%w: %w", ErrTxFailed, f.Err())
	}
	values, err := tx.holder.Assemble(f)
	if err != nil {
		rec.RecordTransaction(metrics.OutcomeAborted)
		return nil, fmt.Errorf("%w: %w", ErrTxFailed, err)
	}
	if tx.holder.Discarded() {
		rec.RecordTransaction(metrics.OutcomeDiscarded)
		log.Debug("typedis: transaction discarded by server", "tx", tx.id)
		return &TxResult{id: tx.id, discarded: true}, nil
	}
	rec.RecordTransaction(metrics.OutcomeCommitted)
	log.Debug("typedis: transaction committed", "tx", tx.id, "commands", len(values))
	return &TxResult{id: tx.id, values: values}, nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
