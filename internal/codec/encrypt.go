// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// encrypt.go — AES-256-GCM codec decorator that seals the bytes produced by
// an inner codec before they are written to the server and opens them on
// the way back.

package codec

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

// ErrCiphertext is returned when a stored value is too short or fails
// authentication.
var ErrCiphertext = errors.New("codec: invalid ciphertext")

type encrypted[T any] struct {
	inner Codec[T]
	gcm   cipher.AEAD
}

// Encrypted wraps inner so that every encoded value is AES-256-GCM sealed.
// key must be exactly 32 bytes.
func Encrypted[T any](inner Codec[T], key []byte) (Codec[T], error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("codec: encryption key must be exactly 32 bytes (got %d)", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return encrypted[T]{inner: inner, gcm: gcm}, nil
}

// Encode seals the inner encoding. Output: nonce (12 bytes) || ciphertext.
func (e encrypted[T]) Encode(v T) ([]byte, error) {
	plain, err := e.inner.Encode(v)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, e.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return e.gcm.Seal(nonce, nonce, plain, nil), nil
}

// Decode opens data and hands the plaintext to the inner codec.
func (e encrypted[T]) Decode(data []byte) (T, error) {
	var zero T
	n := e.gcm.NonceSize()
	if len(data) < n {
		return zero, fmt.Errorf("%w: too short", ErrCiphertext)
	}
	plain, err := e.gcm.Open(nil, data[:n], data[n:], nil)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrCiphertext, err)
	}
	return e.inner.Decode(plain)
}
