package schemas

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Schema is a JSON Schema node. Property and $defs order is preserved so that
// summaries and prompts list fields in declaration order.
type Schema struct {
	Ref                  string          `json:"$ref,omitempty"`
	Type                 any             `json:"type,omitempty"`
	Title                string          `json:"title,omitempty"`
	Description          string          `json:"description,omitempty"`
	Format               string          `json:"format,omitempty"`
	Default              json.RawMessage `json:"default,omitempty"`
	Enum                 []any           `json:"enum,omitempty"`
	Items                *Schema         `json:"items,omitempty"`
	AnyOf                []*Schema       `json:"anyOf,omitempty"`
	OneOf                []*Schema       `json:"oneOf,omitempty"`
	Properties           Properties      `json:"properties,omitempty"`
	AdditionalProperties *Schema         `json:"additionalProperties,omitempty"`
	Required             []string        `json:"required,omitempty"`
	Defs                 Properties      `json:"$defs,omitempty"`

	// raw holds the source document for parsed schemas so that keywords this
	// type does not model still take part in validation.
	raw []byte
}

// Property is a named sub-schema inside properties or $defs.
type Property struct {
	Name   string
	Schema *Schema
}

// Properties is an ordered JSON object of named sub-schemas.
type Properties []Property

// Parse decodes a JSON Schema document.
func Parse(data []byte) (*Schema, error) {
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, &SchemaLoadError{Path: "(inline schema)", Message: "invalid schema document", Cause: err}
	}
	s.raw = append([]byte(nil), data...)
	return &s, nil
}

// JSON returns the schema document. Parsed schemas return their source bytes.
func (s *Schema) JSON() ([]byte, error) {
	if len(s.raw) > 0 {
		return s.raw, nil
	}
	return json.Marshal(s)
}

// PropertyNames returns the top-level property names in declaration order.
func (s *Schema) PropertyNames() []string {
	return s.Properties.Names()
}

// IsRequired reports whether name is listed in required.
func (s *Schema) IsRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// Resolve follows a local "#/$defs/<name>" reference.
func (s *Schema) Resolve(ref string) (*Schema, error) {
	name, ok := strings.CutPrefix(ref, "#/$defs/")
	if !ok {
		return nil, fmt.Errorf("unsupported reference %q", ref)
	}
	def := s.Defs.Get(name)
	if def == nil {
		return nil, fmt.Errorf("reference %q not found", ref)
	}
	return def, nil
}

// UnmarshalJSON accepts boolean schemas in addition to objects.
func (s *Schema) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("true")) || bytes.Equal(trimmed, []byte("false")) {
		*s = Schema{}
		return nil
	}
	type plain Schema
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = Schema(p)
	return nil
}

// Get returns the sub-schema registered under name, or nil.
func (p Properties) Get(name string) *Schema {
	for _, prop := range p {
		if prop.Name == name {
			return prop.Schema
		}
	}
	return nil
}

// Names returns the property names in order.
func (p Properties) Names() []string {
	names := make([]string, 0, len(p))
	for _, prop := range p {
		names = append(names, prop.Name)
	}
	return names
}

// MarshalJSON writes the properties as a JSON object in order.
func (p Properties) MarshalJSON() ([]byte, error) {
	return marshalOrdered(len(p), func(i int) (string, any) {
		return p[i].Name, p[i].Schema
	})
}

// UnmarshalJSON reads a JSON object keeping key order.
func (p *Properties) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("properties must be a JSON object")
	}

	var out Properties
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v in properties", tok)
		}
		var sub Schema
		if err := dec.Decode(&sub); err != nil {
			return fmt.Errorf("property %q: %w", key, err)
		}
		out = append(out, Property{Name: key, Schema: &sub})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*p = out
	return nil
}

// marshalOrdered encodes n key/value pairs as a JSON object in the given order.
func marshalOrdered(n int, pair func(i int) (string, any)) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := 0; i < n; i++ {
		key, value := pair(i)
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
