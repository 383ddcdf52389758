// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// serializer.go — structured payload serializers used for struct-typed
// values and as the registry fallback, resolvable by configuration name.

package codec

import (
	"bytes"
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// JSON stores values as JSON text, readable from redis-cli.
type JSON struct{}

func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func (JSON) Name() string { return "json" }

// MsgPack stores values as MessagePack. Integers are written in their
// smallest encoding.
type MsgPack struct{}

func (MsgPack) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.GetEncoder()
	defer msgpack.PutEncoder(enc)
	enc.Reset(&buf)
	enc.UseCompactInts(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (MsgPack) Unmarshal(data []byte, v any) error { return msgpack.Unmarshal(data, v) }

func (MsgPack) Name() string { return "msgpack" }

// SerializerByName resolves a configured fallback name. The empty name
// means no fallback and yields nil.
func SerializerByName(name string) (Serializer, bool) {
	switch name {
	case "":
		return nil, true
	case JSON{}.Name():
		return JSON{}, true
	case MsgPack{}.Name():
		return MsgPack{}, true
	}
	return nil, false
}
