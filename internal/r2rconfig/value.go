package r2rconfig

import (
	"encoding/json"
	"sort"
	"strconv"
)

// Value is a configuration value copied verbatim from the source document.
// The zero Value is unset; a Value holding JSON null is set.
type Value struct {
	v   any
	set bool
}

func valueOf(v any) Value { return Value{v: v, set: true} }

func StringValue(s string) Value { return valueOf(s) }

func IntValue(n int64) Value { return valueOf(json.Number(strconv.FormatInt(n, 10))) }

func BoolValue(b bool) Value { return valueOf(b) }

func NullValue() Value { return valueOf(nil) }

func (v Value) IsSet() bool { return v.set }

func (v Value) IsNull() bool { return v.set && v.v == nil }

// String returns the string held by v. Non-string values are rendered as JSON.
func (v Value) String() string {
	if !v.set {
		return ""
	}
	if s, ok := v.v.(string); ok {
		return s
	}
	blob, err := json.Marshal(v.v)
	if err != nil {
		return ""
	}
	return string(blob)
}

// Text returns the string held by v and whether v holds a string.
func (v Value) Text() (string, bool) {
	s, ok := v.v.(string)
	return s, ok
}

func (v Value) Int() (int64, bool) {
	n, ok := v.v.(json.Number)
	if !ok {
		return 0, false
	}
	i, err := n.Int64()
	return i, err == nil
}

func (v Value) Float() (float64, bool) {
	n, ok := v.v.(json.Number)
	if !ok {
		return 0, false
	}
	f, err := n.Float64()
	return f, err == nil
}

func (v Value) Bool() (bool, bool) {
	b, ok := v.v.(bool)
	return b, ok
}

// Interface returns a deep copy of the underlying JSON value.
func (v Value) Interface() any { return cloneJSON(v.v) }

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.v)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	decoded, err := decodeJSON(data)
	if err != nil {
		return err
	}
	*v = valueOf(decoded)
	return nil
}

// Fields is a read-only set of keys a record does not declare itself.
type Fields struct {
	m map[string]Value
}

func (f Fields) Get(key string) (Value, bool) {
	v, ok := f.m[key]
	return v, ok
}

func (f Fields) Len() int { return len(f.m) }

// Keys returns the keys in sorted order.
func (f Fields) Keys() []string {
	keys := make([]string, 0, len(f.m))
	for k := range f.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func cloneJSON(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = cloneJSON(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneJSON(item)
		}
		return out
	default:
		return t
	}
}
