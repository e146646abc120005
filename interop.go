package jsondoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// FromInterface converts a Go value into a Value tree. It accepts the types
// produced by encoding/json decoding into an interface (nil, bool, float64,
// json.Number, string, []any and map[string]any), the Go integer types and
// Value itself. Anything else is marshaled with encoding/json and parsed.
func FromInterface(v any) (Value, error) {
	switch v := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return v.Clone(), nil
	case bool:
		return Bool(v), nil
	case string:
		return String(v), nil
	case float64:
		return fromFloat(v)
	case float32:
		return fromFloat(float64(v))
	case int:
		return fromInt(int64(v)), nil
	case int8:
		return fromInt(int64(v)), nil
	case int16:
		return fromInt(int64(v)), nil
	case int32:
		return fromInt(int64(v)), nil
	case int64:
		return fromInt(v), nil
	case uint:
		return fromUint(uint64(v)), nil
	case uint8:
		return fromUint(uint64(v)), nil
	case uint16:
		return fromUint(uint64(v)), nil
	case uint32:
		return fromUint(uint64(v)), nil
	case uint64:
		return fromUint(v), nil
	case json.Number:
		parsed, err := Parse(string(v))
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", v, err)
		}
		if _, ok := parsed.(Number); !ok {
			return nil, fmt.Errorf("invalid number %q", v)
		}
		return parsed, nil
	case []any:
		a := NewArray()
		for i, e := range v {
			ev, err := FromInterface(e)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			a.Append(ev)
		}
		return a, nil
	case map[string]any:
		o := NewObject()
		for k, e := range v {
			ev, err := FromInterface(e)
			if err != nil {
				return nil, fmt.Errorf("member %q: %w", k, err)
			}
			o.Add(k, ev)
		}
		return o, nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to marshal %T: %w", v, err)
	}
	return Parse(buf.String())
}

func fromFloat(f float64) (Value, error) {
	if f == math.Trunc(f) && math.Abs(f) < 1<<63 {
		return fromInt(int64(f)), nil
	}
	d, err := DoubleFromFloat(f)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func fromInt(i int64) Number {
	if i < 0 {
		n, _ := NewInteger(true, uint64(-(i+1))+1)
		return n
	}
	return fromUint(uint64(i))
}

func fromUint(u uint64) Number {
	n, _ := NewInteger(false, u)
	return n
}

// ToInterface converts v into the representation encoding/json uses when
// decoding into an interface: nil, bool, float64, string, []any and
// map[string]any. Raw values are decoded from their text. A nil Value
// converts to nil.
func ToInterface(v Value) (any, error) {
	switch v := v.(type) {
	case nil, Null:
		return nil, nil
	case Bool:
		return bool(v), nil
	case String:
		return string(v), nil
	case Int32:
		return float64(v), nil
	case UInt32:
		return float64(v), nil
	case Int64:
		return float64(v), nil
	case UInt64:
		return float64(v), nil
	case Double:
		return v.Value(), nil
	case Raw:
		var out any
		if err := json.Unmarshal([]byte(v), &out); err != nil {
			return nil, fmt.Errorf("invalid raw value: %w", err)
		}
		return out, nil
	case *Array:
		out := make([]any, 0, v.Len())
		for i, e := range v.Elements() {
			ev, err := ToInterface(e)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out = append(out, ev)
		}
		return out, nil
	case *Object:
		out := make(map[string]any, v.Len())
		for k, e := range v.Members() {
			ev, err := ToInterface(e)
			if err != nil {
				return nil, fmt.Errorf("member %q: %w", k, err)
			}
			out[k] = ev
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported value %T", v)
}
