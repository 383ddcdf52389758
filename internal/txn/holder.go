// Package txn pairs commands queued inside MULTI with the decoders for
// their eventual EXEC results.
package txn

import (
	"errors"
	"fmt"
	"sync"

	"github.com/AndrewDonelson/typedis/internal/frame"
)

var (
	// ErrLengthMismatch is returned when the EXEC reply does not carry one
	// element per queued command.
	ErrLengthMismatch = errors.New("txn: exec reply length does not match queued commands")
	// ErrConsumed is returned when a holder is used after Assemble.
	ErrConsumed = errors.New("txn: holder already assembled")
)

// Decoder turns one EXEC element into a typed value.
type Decoder func(frame.Frame) (any, error)

// Holder is the ordered queue of decoders for one transaction.
type Holder struct {
	mu        sync.Mutex
	decoders  []Decoder
	discarded bool
	consumed  bool
}

// NewHolder returns an empty holder.
func NewHolder() *Holder {
	return &Holder{}
}

// Enqueue appends dec and returns its slot index.
func (h *Holder) Enqueue(dec Decoder) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.consumed {
		return 0, ErrConsumed
	}
	h.decoders = append(h.decoders, dec)
	return len(h.decoders) - 1, nil
}

// Discard marks the transaction as discarded.
func (h *Holder) Discard() {
	h.mu.Lock()
	h.discarded = true
	h.mu.Unlock()
}

// Discarded reports whether Discard was called or EXEC returned Null.
func (h *Holder) Discarded() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.discarded
}

// Len returns the number of queued decoders.
func (h *Holder) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.decoders)
}

// Assemble decodes an EXEC reply. A Null reply marks the holder discarded
// and returns no results. An Error element becomes a *frame.ServerError in
// its slot; a decoder failure is stored in its slot the same way, so one bad
// element never hides the others.
func (h *Holder) Assemble(exec frame.Frame) ([]any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.consumed {
		return nil, ErrConsumed
	}
	h.consumed = true

	if exec.IsNull() {
		h.discarded = true
		return nil, nil
	}
	items, err := exec.Items()
	if err != nil {
		return nil, err
	}
	if len(items) != len(h.decoders) {
		return nil, fmt.Errorf("%w: %d results for %d commands", ErrLengthMismatch, len(items), len(h.decoders))
	}
	out := make([]any, len(items))
	for i, it := range items {
		if it.IsError() {
			out[i] = it.Err()
			continue
		}
		v, err := h.decoders[i](it)
		if err != nil {
			out[i] = err
			continue
		}
		out[i] = v
	}
	return out, nil
}
