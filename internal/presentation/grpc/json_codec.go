package grpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// codecName is the content-subtype clients must request. The service
// descriptor in proto.go carries no generated protobuf types, so every
// payload on the wire is JSON.
const codecName = "json"

func init() {
	encoding.RegisterCodec(payloadCodec{})
}

type payloadCodec struct{}

func (payloadCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (payloadCodec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

func (payloadCodec) Name() string { return codecName }
