package frontmatter

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	// KindScalar is a plain string value.
	KindScalar Kind = iota
	// KindList is a flow sequence such as [a, b, c].
	KindList
	// KindMap is a one-level nested mapping of string keys to string values.
	KindMap
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is a single frontmatter value. Exactly one of the variants is meaningful,
// selected by Kind.
type Value struct {
	kind   Kind
	scalar string
	list   []string
	fields *Fields
}

// Scalar returns a scalar value.
func Scalar(s string) Value {
	return Value{kind: KindScalar, scalar: s}
}

// List returns a list value holding a copy of items.
func List(items ...string) Value {
	return Value{kind: KindList, list: append([]string{}, items...)}
}

// Map returns a mapping value. A nil f yields an empty mapping.
func Map(f *Fields) Value {
	if f == nil {
		f = NewFields()
	}
	return Value{kind: KindMap, fields: f}
}

// Kind reports which variant the value holds.
func (v Value) Kind() Kind {
	return v.kind
}

// AsScalar returns the scalar string and whether the value is a scalar.
func (v Value) AsScalar() (string, bool) {
	return v.scalar, v.kind == KindScalar
}

// AsList returns a copy of the list items and whether the value is a list.
func (v Value) AsList() ([]string, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return append([]string{}, v.list...), true
}

// AsMap returns the nested mapping and whether the value is a mapping.
func (v Value) AsMap() (*Fields, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	return v.fields, true
}

// Len returns the length of the value: characters for scalars, items for lists
// and keys for mappings.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.list)
	case KindMap:
		return v.fields.Len()
	default:
		return utf8.RuneCountInString(v.scalar)
	}
}

// IsZero reports whether the value is blank: a whitespace-only scalar, an empty
// list or an empty mapping.
func (v Value) IsZero() bool {
	switch v.kind {
	case KindList:
		return len(v.list) == 0
	case KindMap:
		return v.fields.Len() == 0
	default:
		return strings.TrimSpace(v.scalar) == ""
	}
}

// String renders the value for display.
func (v Value) String() string {
	switch v.kind {
	case KindList:
		return "[" + strings.Join(v.list, ", ") + "]"
	case KindMap:
		parts := make([]string, 0, v.fields.Len())
		for _, k := range v.fields.Keys() {
			val, _ := v.fields.Get(k)
			parts = append(parts, k+": "+val)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return v.scalar
	}
}

// MarshalJSON encodes scalars as strings, lists as arrays and mappings as objects.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindList:
		items := v.list
		if items == nil {
			items = []string{}
		}
		return json.Marshal(items)
	case KindMap:
		return v.fields.MarshalJSON()
	default:
		return json.Marshal(v.scalar)
	}
}

// MarshalYAML encodes the value as a YAML node.
func (v Value) MarshalYAML() (interface{}, error) {
	return v.node(), nil
}

func (v Value) node() *yaml.Node {
	switch v.kind {
	case KindList:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
		for _, item := range v.list {
			n.Content = append(n.Content, stringNode(item))
		}
		return n
	case KindMap:
		return v.fields.node()
	default:
		return stringNode(v.scalar)
	}
}

// Fields is an insertion-ordered mapping of string keys to string values.
type Fields struct {
	keys []string
	vals map[string]string
}

// NewFields returns an empty mapping.
func NewFields() *Fields {
	return &Fields{vals: make(map[string]string)}
}

// Set assigns key to val. Existing keys keep their position.
func (f *Fields) Set(key, val string) {
	if _, ok := f.vals[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.vals[key] = val
}

// Get returns the value stored for key.
func (f *Fields) Get(key string) (string, bool) {
	if f == nil {
		return "", false
	}
	v, ok := f.vals[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (f *Fields) Keys() []string {
	if f == nil {
		return nil
	}
	return append([]string{}, f.keys...)
}

// Len returns the number of keys.
func (f *Fields) Len() int {
	if f == nil {
		return 0
	}
	return len(f.keys)
}

// MarshalJSON encodes the mapping as a JSON object in insertion order.
func (f *Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range f.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONPair(&buf, k, f.vals[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (f *Fields) node() *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range f.Keys() {
		n.Content = append(n.Content, stringNode(k), stringNode(f.vals[k]))
	}
	return n
}

// Block is the ordered set of top-level frontmatter entries of one document.
type Block struct {
	keys []string
	vals map[string]Value
}

// NewBlock returns an empty block.
func NewBlock() Block {
	return Block{vals: make(map[string]Value)}
}

// Set assigns key to v. Existing keys keep their position.
func (b *Block) Set(key string, v Value) {
	if b.vals == nil {
		b.vals = make(map[string]Value)
	}
	if _, ok := b.vals[key]; !ok {
		b.keys = append(b.keys, key)
	}
	b.vals[key] = v
}

// Get returns the value stored for key.
func (b Block) Get(key string) (Value, bool) {
	v, ok := b.vals[key]
	return v, ok
}

// Has reports whether key is present.
func (b Block) Has(key string) bool {
	_, ok := b.vals[key]
	return ok
}

// Scalar returns the scalar stored for key. Non-scalar or absent keys return false.
func (b Block) Scalar(key string) (string, bool) {
	v, ok := b.vals[key]
	if !ok {
		return "", false
	}
	return v.AsScalar()
}

// Keys returns the keys in insertion order.
func (b Block) Keys() []string {
	return append([]string{}, b.keys...)
}

// Len returns the number of top-level keys.
func (b Block) Len() int {
	return len(b.keys)
}

// MarshalJSON encodes the block as a JSON object in insertion order.
func (b Block) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range b.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONPair(&buf, k, b.vals[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the block as a YAML mapping in insertion order.
func (b Block) MarshalYAML() (interface{}, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range b.keys {
		n.Content = append(n.Content, stringNode(k), b.vals[k].node())
	}
	return n, nil
}

// JSONSchema describes the encoded block: an object whose values are strings,
// string arrays or string-valued objects.
func (Block) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "object",
		Description: "Frontmatter entries in document order",
		AdditionalProperties: &jsonschema.Schema{
			OneOf: []*jsonschema.Schema{
				{Type: "string"},
				{Type: "array", Items: &jsonschema.Schema{Type: "string"}},
				{Type: "object", AdditionalProperties: &jsonschema.Schema{Type: "string"}},
			},
		},
	}
}

func writeJSONPair(buf *bytes.Buffer, key string, val any) error {
	kb, err := json.Marshal(key)
	if err != nil {
		return err
	}
	vb, err := json.Marshal(val)
	if err != nil {
		return err
	}
	buf.Write(kb)
	buf.WriteByte(':')
	buf.Write(vb)
	return nil
}

func stringNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
