// Package deckrpc is the wire contract between the studydeck client and the
// persistence server: request/response types, a JSON codec for gRPC, and the
// RemoteStore service descriptor with its client and server bindings.
//
// Messages travel as JSON inside gRPC frames (content-subtype "json"), so the
// types here are plain Go structs with json tags.
package deckrpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content-subtype of the JSON codec.
const CodecName = "json"

// Codec marshals gRPC messages as JSON.
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (Codec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (Codec) Name() string {
	return CodecName
}

func init() {
	encoding.RegisterCodec(Codec{})
}
