package entities

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// OrderedMap is a string-keyed map that remembers insertion order. Reports,
// fixes and ignore rules are printed and persisted in the order they were
// found, so every keyed collection in the pipeline uses it.
// The zero value is ready to use.
type OrderedMap[V any] struct {
	pairs *orderedmap.OrderedMap[string, V]
}

// NewOrderedMap creates an empty OrderedMap.
func NewOrderedMap[V any]() *OrderedMap[V] {
	return &OrderedMap[V]{pairs: orderedmap.New[string, V]()}
}

// Set stores value under key. A new key goes to the end; an existing key
// keeps its position.
func (m *OrderedMap[V]) Set(key string, value V) {
	if m.pairs == nil {
		m.pairs = orderedmap.New[string, V]()
	}
	m.pairs.Set(key, value)
}

// Get returns the value stored under key.
func (m *OrderedMap[V]) Get(key string) (V, bool) {
	if m == nil || m.pairs == nil {
		var zero V
		return zero, false
	}
	return m.pairs.Get(key)
}

// Has reports whether key is present.
func (m *OrderedMap[V]) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Delete removes key, keeping the order of the remaining keys.
func (m *OrderedMap[V]) Delete(key string) {
	if m == nil || m.pairs == nil {
		return
	}
	m.pairs.Delete(key)
}

// Keys returns a copy of the keys in insertion order.
func (m *OrderedMap[V]) Keys() []string {
	if m.Len() == 0 {
		return nil
	}
	keys := make([]string, 0, m.pairs.Len())
	for pair := m.pairs.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Len returns the number of entries.
func (m *OrderedMap[V]) Len() int {
	if m == nil || m.pairs == nil {
		return 0
	}
	return m.pairs.Len()
}

// Each calls fn for every entry in insertion order. fn may modify the map.
func (m *OrderedMap[V]) Each(fn func(key string, value V)) {
	for _, k := range m.Keys() {
		if v, ok := m.Get(k); ok {
			fn(k, v)
		}
	}
}

// First returns the earliest inserted entry.
func (m *OrderedMap[V]) First() (string, V, bool) {
	if m.Len() == 0 {
		var zero V
		return "", zero, false
	}
	pair := m.pairs.Oldest()
	return pair.Key, pair.Value, true
}

// MarshalJSON encodes the map as a JSON object with keys in insertion order.
// Values are written without HTML escaping.
func (m *OrderedMap[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := MarshalJSONNoEscape(k)
		if err != nil {
			return nil, err
		}
		v, _ := m.Get(k)
		value, err := MarshalJSONNoEscape(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %q: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalYAML decodes a YAML (or JSON) mapping, keeping the key order of
// the document. A null node leaves the map empty.
func (m *OrderedMap[V]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil
	}
	if m.pairs == nil {
		m.pairs = orderedmap.New[string, V]()
	}
	if err := m.pairs.UnmarshalYAML(node); err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	return nil
}

// MarshalYAML encodes the map as a YAML mapping in insertion order.
func (m *OrderedMap[V]) MarshalYAML() (interface{}, error) {
	if m == nil || m.pairs == nil {
		return orderedmap.New[string, V]().MarshalYAML()
	}
	return m.pairs.MarshalYAML()
}

// MarshalJSONNoEscape is json.Marshal without HTML escaping, so that ranges
// such as ">=1.0.0 <2.0.0" stay readable.
func MarshalJSONNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
