// Package vaultv1 defines the daemon's gRPC surface: request and response
// messages, service descriptors and client stubs. Messages travel as JSON.
package vaultv1

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/mem"
)

// CodecName is the gRPC content subtype of Codec.
const CodecName = "json"

// Codec marshals messages with encoding/json.
type Codec struct{}

// Marshal encodes v as JSON into a single buffer.
func (Codec) Marshal(v any) (mem.BufferSlice, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mem.BufferSlice{mem.SliceBuffer(b)}, nil
}

// Unmarshal decodes the JSON in data into v.
func (Codec) Unmarshal(data mem.BufferSlice, v any) error {
	return json.Unmarshal(data.Materialize(), v)
}

// Name returns CodecName.
func (Codec) Name() string { return CodecName }

// init registers Codec so clients and servers can select it by CodecName.
func init() {
	encoding.RegisterCodecV2(Codec{})
}
