// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package codec

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
)

// TypeMsgPack is the MessagePack codec type.
const TypeMsgPack Type = "msgpack"

func init() {
	RegisterEncoder(TypeMsgPack, MsgPackCodec{})
	RegisterDecoder(TypeMsgPack, MsgPackCodec{})
	defaultRegistry.RegisterMediaType(TypeMsgPack, "application/msgpack", "application/x-msgpack", "application/vnd.msgpack")
}

// MsgPackCodec wraps github.com/vmihailenco/msgpack/v5, naming struct fields
// by their json tags.
type MsgPackCodec struct{}

// Encode implements [Encoder].
func (MsgPackCodec) Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	enc.UseCompactInts(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decode implements [Decoder].
func (MsgPackCodec) Decode(data []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")

	return dec.Decode(v)
}
