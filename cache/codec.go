package cache

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// The codec fixes one canonical byte representation per record so that
// value-equality list removal behaves deterministically across backends:
// encoding/json emits struct fields in declaration order, so encoding the
// same record twice always yields identical bytes.

// EncodeFields flattens record into a field map, one JSON-encoded value per
// exported struct field. This is the hash-entry representation.
func EncodeFields[T any](record T) (map[string]string, error) {
	blob, err := json.Marshal(record)
	if err != nil {
		return nil, errors.Wrap(err, "cache: encode hash fields")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(blob, &raw); err != nil {
		return nil, errors.Wrap(err, "cache: hash records must encode to JSON objects")
	}

	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		fields[k] = string(v)
	}
	return fields, nil
}

// DecodeFields rebuilds a record of type T from its hash field map. Fields
// absent from the map keep their zero value.
func DecodeFields[T any](fields map[string]string) (T, error) {
	var out T

	raw := make(map[string]json.RawMessage, len(fields))
	for k, v := range fields {
		raw[k] = json.RawMessage(v)
	}

	blob, err := json.Marshal(raw)
	if err != nil {
		return out, errors.Wrap(err, "cache: decode hash fields")
	}
	if err := json.Unmarshal(blob, &out); err != nil {
		return out, errors.Wrap(err, "cache: decode hash fields")
	}
	return out, nil
}

// DecodeFieldsInto rebuilds a record from its hash field map into dest,
// which must be a pointer. Callers that pick the concrete type at runtime
// use this instead of DecodeFields.
func DecodeFieldsInto(fields map[string]string, dest any) error {
	raw := make(map[string]json.RawMessage, len(fields))
	for k, v := range fields {
		raw[k] = json.RawMessage(v)
	}

	blob, err := json.Marshal(raw)
	if err != nil {
		return errors.Wrap(err, "cache: decode hash fields")
	}
	if err := json.Unmarshal(blob, dest); err != nil {
		return errors.Wrap(err, "cache: decode hash fields")
	}
	return nil
}

// EncodeItem produces the canonical encoding for a list item or plain value.
func EncodeItem[T any](item T) ([]byte, error) {
	b, err := json.Marshal(item)
	if err != nil {
		return nil, errors.Wrap(err, "cache: encode item")
	}
	return b, nil
}

// DecodeItem decodes a canonical encoding back into a value of type T.
func DecodeItem[T any](data []byte) (T, error) {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return out, errors.Wrap(err, "cache: decode item")
	}
	return out, nil
}
