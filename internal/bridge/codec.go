package bridge

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// encode converts any JSON-shaped value into a Struct message.
func encode(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	fields := map[string]any{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	return structpb.NewStruct(fields)
}

// decode fills out from a Struct message.
func decode(msg *structpb.Struct, out any) error {
	data, err := msg.MarshalJSON()
	if err != nil {
		return fmt.Errorf("decode message: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode message: %w", err)
	}
	return nil
}

// stringField reads a string field, treating absent and non-string values
// as empty.
func stringField(msg *structpb.Struct, key string) string {
	if msg == nil {
		return ""
	}
	return msg.GetFields()[key].GetStringValue()
}

// objectField returns a nested object as a plain map, or nil when absent.
func objectField(msg *structpb.Struct, key string) map[string]any {
	if msg == nil {
		return nil
	}
	nested := msg.GetFields()[key].GetStructValue()
	if nested == nil {
		return nil
	}
	return nested.AsMap()
}
