package formdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrInvalidJSON is returned by FromJSON for malformed documents.
var ErrInvalidJSON = errors.New("formdata: invalid JSON document")

// FromJSON parses a JSON document into a Value, keeping object keys in
// document order. Numbers are kept as json.Number. An empty document yields
// an empty map.
func FromJSON(data []byte) (Value, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Map(), nil
	}
	if !gjson.ValidBytes(data) {
		return Value{}, ErrInvalidJSON
	}
	return fromResult(gjson.ParseBytes(data)), nil
}

func fromResult(r gjson.Result) Value {
	switch {
	case r.IsObject():
		var entries []Entry
		r.ForEach(func(key, value gjson.Result) bool {
			entries = append(entries, Pair(key.String(), fromResult(value)))
			return true
		})
		return Map(entries...)
	case r.IsArray():
		var items []Value
		r.ForEach(func(_, value gjson.Result) bool {
			items = append(items, fromResult(value))
			return true
		})
		return List(items...)
	}

	switch r.Type {
	case gjson.String:
		return Scalar(r.Str)
	case gjson.Number:
		return Scalar(json.Number(r.Raw))
	case gjson.True, gjson.False:
		return Scalar(r.Bool())
	default:
		return Scalar(nil)
	}
}

// FormPair is one decoded name=value pair of a form body.
type FormPair struct {
	Name  string
	Value string
}

// ParseForm rebuilds nested input from decoded form values. Keys use bracket
// notation: "b[c]" nests under b, "d[]" appends to the list d. url.Values
// carries no order, so keys are processed in sorted order; use ParsePairs
// when the original order is known. A plain key with several values becomes
// a list.
func ParseForm(values url.Values) Value {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var pairs []FormPair
	for _, key := range keys {
		for _, val := range values[key] {
			pairs = append(pairs, FormPair{Name: key, Value: val})
		}
	}
	return ParsePairs(pairs)
}

// ParsePairs rebuilds nested input like ParseForm, keeping keys in the order
// they first appear in pairs.
func ParsePairs(pairs []FormPair) Value {
	root := newFormNode()
	for _, p := range pairs {
		root.insert(splitFormName(p.Name), p.Value)
	}
	return root.value()
}

// ParseURLEncoded decodes an application/x-www-form-urlencoded body into
// pairs in body order.
func ParseURLEncoded(body string) ([]FormPair, error) {
	var pairs []FormPair
	for body != "" {
		var item string
		item, body, _ = strings.Cut(body, "&")
		if item == "" {
			continue
		}
		if strings.Contains(item, ";") {
			return nil, fmt.Errorf("formdata: invalid semicolon separator in %q", item)
		}
		rawName, rawValue, _ := strings.Cut(item, "=")
		name, err := url.QueryUnescape(rawName)
		if err != nil {
			return nil, fmt.Errorf("formdata: invalid form name %q: %w", rawName, err)
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, fmt.Errorf("formdata: invalid form value for %q: %w", name, err)
		}
		pairs = append(pairs, FormPair{Name: name, Value: value})
	}
	return pairs, nil
}

type formNode struct {
	keys     []string
	children map[string]*formNode
	scalars  []string
	list     bool
}

func newFormNode() *formNode {
	return &formNode{children: make(map[string]*formNode)}
}

func (n *formNode) insert(segs []string, val string) {
	if len(segs) == 0 {
		n.scalars = append(n.scalars, val)
		return
	}
	seg := segs[0]
	if seg == "" {
		n.list = true
		seg = strconv.Itoa(len(n.keys))
	}
	child, ok := n.children[seg]
	if !ok {
		child = newFormNode()
		n.children[seg] = child
		n.keys = append(n.keys, seg)
	}
	child.insert(segs[1:], val)
}

func (n *formNode) value() Value {
	if len(n.keys) == 0 {
		switch len(n.scalars) {
		case 0:
			return Map()
		case 1:
			return Scalar(n.scalars[0])
		default:
			items := make([]Value, 0, len(n.scalars))
			for _, s := range n.scalars {
				items = append(items, Scalar(s))
			}
			return List(items...)
		}
	}

	if n.list {
		items := make([]Value, 0, len(n.keys))
		for _, k := range n.keys {
			items = append(items, n.children[k].value())
		}
		return List(items...)
	}

	entries := make([]Entry, 0, len(n.keys))
	for _, k := range n.keys {
		entries = append(entries, Pair(k, n.children[k].value()))
	}
	return Map(entries...)
}

// splitFormName splits "a[b][]" into ["a", "b", ""]. Names that are not
// well-formed bracket paths are returned whole.
func splitFormName(name string) []string {
	i := strings.IndexByte(name, '[')
	if i <= 0 {
		return []string{name}
	}
	segs := []string{name[:i]}
	rest := name[i:]
	for rest != "" {
		if rest[0] != '[' {
			return []string{name}
		}
		j := strings.IndexByte(rest, ']')
		if j < 0 {
			return []string{name}
		}
		segs = append(segs, rest[1:j])
		rest = rest[j+1:]
	}
	return segs
}

// FieldName strips a trailing "[]" so files uploaded as "photos[]" share the
// field name "photos".
func FieldName(name string) string {
	return strings.TrimSuffix(name, "[]")
}
