package apiconnect

import (
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

// jsonCodec encodes plain Go structs with encoding/json. It is registered
// under the names Connect uses for JSON so that browsers and the generated
// clients below talk "application/json".
type jsonCodec struct {
	name string
}

func (c jsonCodec) Name() string { return c.name }

func (c jsonCodec) Marshal(message any) ([]byte, error) {
	data, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", message, err)
	}
	return data, nil
}

func (c jsonCodec) Unmarshal(data []byte, message any) error {
	// Empty bodies decode to the zero message.
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, message); err != nil {
		return fmt.Errorf("unmarshal into %T: %w", message, err)
	}
	return nil
}

// WithJSON replaces Connect's protobuf JSON codecs with the struct codec.
func WithJSON() connect.Option {
	return connect.WithOptions(
		connect.WithCodec(jsonCodec{name: "json"}),
		connect.WithCodec(jsonCodec{name: "json; charset=utf-8"}),
	)
}
