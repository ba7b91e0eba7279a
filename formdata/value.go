package formdata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Kind identifies the shape of a Value.
type Kind uint8

const (
	// KindScalar is a leaf value (string, number, bool or nil).
	KindScalar Kind = iota
	// KindList is an ordered sequence of values.
	KindList
	// KindMap is an ordered sequence of keyed values.
	KindMap
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "scalar"
	}
}

// Value is a tree-shaped request input. The zero Value is a nil scalar.
// Maps keep insertion order, which is the order fields are emitted in.
type Value struct {
	kind    Kind
	scalar  any
	items   []Value
	entries []Entry
}

// Entry is one keyed child of a map Value.
type Entry struct {
	Key   string
	Value Value
}

// Scalar wraps a leaf value.
func Scalar(v any) Value {
	return Value{kind: KindScalar, scalar: v}
}

// List builds a list Value.
func List(items ...Value) Value {
	return Value{kind: KindList, items: items}
}

// Map builds a map Value from entries in the given order.
func Map(entries ...Entry) Value {
	return Value{kind: KindMap, entries: entries}
}

// Pair is shorthand for an Entry literal.
func Pair(key string, v Value) Entry {
	return Entry{Key: key, Value: v}
}

// Kind reports the shape of the value.
func (v Value) Kind() Kind { return v.kind }

// Items returns the children of a list value.
func (v Value) Items() []Value { return v.items }

// Entries returns the children of a map value.
func (v Value) Entries() []Entry { return v.entries }

// Len returns the number of children for lists and maps, and 0 for scalars.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.items)
	case KindMap:
		return len(v.entries)
	default:
		return 0
	}
}

// Lookup returns the child stored under key in a map value.
func (v Value) Lookup(key string) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	for _, e := range v.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return Value{}, false
}

// Text returns the form-field representation of a scalar value.
func (v Value) Text() string {
	return scalarText(v.scalar)
}

// Interface converts the tree back into plain Go values:
// map[string]any, []any and the original scalars.
func (v Value) Interface() any {
	switch v.kind {
	case KindList:
		out := make([]any, 0, len(v.items))
		for _, item := range v.items {
			out = append(out, item.Interface())
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.entries))
		for _, e := range v.entries {
			out[e.Key] = e.Value.Interface()
		}
		return out
	default:
		return v.scalar
	}
}

// MarshalJSON encodes the value keeping map key order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) writeJSON(buf *bytes.Buffer) error {
	switch v.kind {
	case KindList:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMap:
		buf.WriteByte('{')
		for i, e := range v.entries {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(e.Key)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := e.Value.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		raw, err := json.Marshal(v.scalar)
		if err != nil {
			return fmt.Errorf("encode scalar: %w", err)
		}
		buf.Write(raw)
	}
	return nil
}

// FromAny converts plain Go values into a Value. Map keys are sorted since Go
// maps carry no order of their own.
func FromAny(in any) Value {
	switch t := in.(type) {
	case Value:
		return t
	case map[string]any:
		keys := sortedKeys(t)
		entries := make([]Entry, 0, len(keys))
		for _, k := range keys {
			entries = append(entries, Pair(k, FromAny(t[k])))
		}
		return Map(entries...)
	case map[string]string:
		keys := sortedKeys(t)
		entries := make([]Entry, 0, len(keys))
		for _, k := range keys {
			entries = append(entries, Pair(k, Scalar(t[k])))
		}
		return Map(entries...)
	case []any:
		items := make([]Value, 0, len(t))
		for _, item := range t {
			items = append(items, FromAny(item))
		}
		return List(items...)
	case []string:
		items := make([]Value, 0, len(t))
		for _, item := range t {
			items = append(items, Scalar(item))
		}
		return List(items...)
	default:
		return Scalar(in)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func scalarText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
