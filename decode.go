package houdiniswap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// ValueKind tags the shape of a decoded response body.
type ValueKind int

const (
	// ValueNull marks an empty or JSON null body.
	ValueNull ValueKind = iota
	// ValueList marks a JSON array.
	ValueList
	// ValueMapping marks a JSON object.
	ValueMapping
	// ValueScalar marks a JSON string, number or boolean, or a non-JSON
	// body kept as raw text (some endpoints return bare `true`).
	ValueScalar
)

func (k ValueKind) String() string {
	switch k {
	case ValueNull:
		return "null"
	case ValueList:
		return "list"
	case ValueMapping:
		return "mapping"
	case ValueScalar:
		return "scalar"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
}

// Value is the tagged variant produced once at the JSON boundary.
// Downstream code matches on Kind instead of re-checking types ad hoc;
// exactly one of List, Mapping, Scalar is populated according to Kind.
type Value struct {
	Kind    ValueKind
	List    []any
	Mapping map[string]any
	Scalar  any
}

// decodeValue classifies a raw response body. Bodies that are not valid
// JSON degrade to a scalar carrying the raw text rather than being
// discarded.
func decodeValue(data []byte) Value {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Value{Kind: ValueNull}
	}

	var raw any
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return Value{Kind: ValueScalar, Scalar: string(trimmed)}
	}

	switch v := raw.(type) {
	case nil:
		return Value{Kind: ValueNull}
	case []any:
		return Value{Kind: ValueList, List: v}
	case map[string]any:
		return Value{Kind: ValueMapping, Mapping: v}
	default:
		return Value{Kind: ValueScalar, Scalar: v}
	}
}

// ExpectList narrows the value to a list, returning it unchanged (identity,
// not a copy). Any other shape is an API-kind error: the partner sent a
// shape the endpoint contract forbids.
func (v Value) ExpectList() ([]any, error) {
	if v.Kind != ValueList {
		return nil, &Error{
			Kind:    KindAPI,
			Message: fmt.Sprintf("unexpected response shape: expected list, got %s", v.Kind),
			Body:    v.raw(),
		}
	}
	return v.List, nil
}

// ExpectMapping narrows the value to a mapping, returning it unchanged.
func (v Value) ExpectMapping() (map[string]any, error) {
	if v.Kind != ValueMapping {
		return nil, &Error{
			Kind:    KindAPI,
			Message: fmt.Sprintf("unexpected response shape: expected mapping, got %s", v.Kind),
			Body:    v.raw(),
		}
	}
	return v.Mapping, nil
}

// raw returns the untagged payload for error context.
func (v Value) raw() any {
	switch v.Kind {
	case ValueList:
		return v.List
	case ValueMapping:
		return v.Mapping
	case ValueScalar:
		return v.Scalar
	default:
		return nil
	}
}

// ValidateRecord checks that every required field is present in the record,
// reporting all missing fields at once. Every typed-record constructor
// applies this before trusting a partner payload: an empty or partial
// payload must never silently produce a record with fabricated defaults.
func ValidateRecord(record map[string]any, required ...string) error {
	var missing []string
	for _, field := range required {
		if _, ok := record[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &Error{
			Kind:    KindValidation,
			Message: "record is missing required fields",
			Fields:  missing,
		}
	}
	return nil
}

// Accessors for untrusted records. JSON numbers decode as float64; these
// helpers tolerate the handful of representations the API actually sends.

func recString(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func recFloat(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	default:
		return 0
	}
}

func recInt(m map[string]any, key string) int {
	return int(recFloat(m, key))
}

func recBool(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}

func recMapping(m map[string]any, key string) map[string]any {
	sub, _ := m[key].(map[string]any)
	return sub
}

func recStrings(m map[string]any, key string) []string {
	raw, _ := m[key].([]any)
	if raw == nil {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
