// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// errors.go — sentinel error variables returned by the public typedis API,
// covering argument validation, codecs, reply decoding, cursors and
// transactions, plus re-exports of the internal package sentinels.

// Package typedis is a typed client layer over the Redis wire protocol:
// codecs map Go types to wire bytes, command groups build and decode
// commands for one key/field/value type combination, and transactions run
// WATCH/MULTI/EXEC cycles on a dedicated connection.
package typedis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AndrewDonelson/typedis/internal/codec"
	"github.com/AndrewDonelson/typedis/internal/frame"
	"github.com/AndrewDonelson/typedis/internal/marshal"
	"github.com/AndrewDonelson/typedis/internal/transport"
	"github.com/AndrewDonelson/typedis/internal/txn"
)

// Argument errors
var (
	ErrInvalidArgument = errors.New("typedis: invalid argument")
)

// Codec and decode errors
var (
	ErrNoCodec      = codec.ErrNoCodec
	ErrShape        = frame.ErrShape
	ErrDecodeFailed = marshal.ErrDecode
	ErrEncodeFailed = marshal.ErrEncode
	ErrCiphertext   = codec.ErrCiphertext
)

// Reply errors
var (
	ErrNil         = errors.New("typedis: nil reply")
	ErrKeyNotFound = errors.New("typedis: no such key")
	ErrTimeout     = transport.ErrTimeout
)

// Cursor errors
var (
	ErrCursorExhausted = errors.New("typedis: cursor exhausted")
)

// Transaction errors
var (
	ErrNotQueued         = errors.New("typedis: command was not queued")
	ErrTxClosed          = errors.New("typedis: transaction closed")
	ErrTxDiscarded       = errors.New("typedis: transaction discarded")
	ErrTxFailed          = errors.New("typedis: transaction failed")
	ErrNestedTransaction = errors.New("typedis: transactions cannot be nested")
	ErrLengthMismatch    = txn.ErrLengthMismatch
)

// Config errors
var (
	ErrInvalidConfig = errors.New("typedis: invalid configuration")
	ErrClosed        = errors.New("typedis: client closed")
)

// ServerError is an error reply returned by the server.
type ServerError = frame.ServerError

func invalidArg(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// translateRenameError maps the "no such key" reply of RENAME and RENAMENX
// to ErrKeyNotFound. Other errors pass through unchanged.
func translateRenameError(err error) error {
	var se *frame.ServerError
	if errors.As(err, &se) && strings.Contains(strings.ToLower(se.Message), "no such key") {
		return fmt.Errorf("%w: %w", ErrKeyNotFound, err)
	}
	return err
}
