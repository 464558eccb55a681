// Package api defines the splitroom.v1 Connect services: message types,
// procedure names, and handler and client constructors.
//
// Messages are plain Go structs carried as JSON. The codec below is
// registered under the name "json", so Connect clients speaking
// application/json (including curl and browsers) reach the handlers
// unchanged.
package api

import (
	"encoding/json"

	"connectrpc.com/connect"
)

const codecName = "json"

type jsonCodec struct{}

var _ connect.Codec = jsonCodec{}

func (jsonCodec) Name() string { return codecName }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	// An empty body is an empty message.
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

// WithJSON registers the JSON codec on a handler or client.
func WithJSON() connect.Option {
	return connect.WithCodec(jsonCodec{})
}
