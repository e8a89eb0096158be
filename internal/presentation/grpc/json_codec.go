package grpc

import (
	"bytes"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// JSONSubtype is the content-subtype AmlService messages travel under
// ("application/grpc+json"). The service has no generated protobuf types, so
// this codec is the wire format for every call.
const JSONSubtype = "json"

func init() {
	encoding.RegisterCodec(amlWireCodec{})
}

// amlWireCodec encodes AmlService messages as JSON. Unknown fields are
// rejected: a misspelled settlement_amount must fail the call rather than
// score a zero amount.
type amlWireCodec struct{}

func (amlWireCodec) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %T: %w", v, err)
	}
	return data, nil
}

func (amlWireCodec) Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("failed to decode %T: %w", v, err)
	}
	return nil
}

func (amlWireCodec) Name() string {
	return JSONSubtype
}
