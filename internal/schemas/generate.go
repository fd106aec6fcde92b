package schemas

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"
)

// Formatter is implemented by types that serialize as formatted strings (dates, URIs).
type Formatter interface {
	SchemaFormat() string
}

var (
	formatterType = reflect.TypeOf((*Formatter)(nil)).Elem()
	timeType      = reflect.TypeOf(time.Time{})
	nullDefault   = json.RawMessage("null")
)

// For generates the schema of T. T must be a struct or a pointer to one.
func For[T any]() (*Schema, error) {
	return FromType(reflect.TypeOf((*T)(nil)).Elem())
}

// MustFor is like For but panics on error. Use it for package-level schemas.
func MustFor[T any]() *Schema {
	s, err := For[T]()
	if err != nil {
		panic(fmt.Sprintf("failed to generate schema: %v", err))
	}
	return s
}

// FromType generates a JSON Schema for a struct type.
//
// Field rules follow the struct tags:
//   - json name and omitempty: omitempty fields are optional, default null
//   - schema:"nullable": the field accepts null but must still be present
//   - schema:"required": forces a field into required
//   - description:"...": copied into the property description
//
// Nested structs are emitted once under $defs and referenced by $ref.
func FromType(t reflect.Type) (*Schema, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema root must be a struct, got %s", t.Kind())
	}

	g := &generator{defs: make(map[string]*Schema)}
	root, err := g.object(t)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(g.defs))
	for name := range g.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		root.Defs = append(root.Defs, Property{Name: name, Schema: g.defs[name]})
	}
	return root, nil
}

type generator struct {
	defs map[string]*Schema
}

func (g *generator) object(t reflect.Type) (*Schema, error) {
	s := &Schema{Type: "object", Title: t.Name()}
	if err := g.fields(t, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (g *generator) fields(t reflect.Type, s *Schema) error {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, opts := jsonName(field)
		if name == "-" {
			continue
		}
		if field.Anonymous && name == "" && indirect(field.Type).Kind() == reflect.Struct {
			if err := g.fields(indirect(field.Type), s); err != nil {
				return err
			}
			continue
		}
		if name == "" {
			name = field.Name
		}

		prop, err := g.property(field, name, opts)
		if err != nil {
			return fmt.Errorf("field %s.%s: %w", t.Name(), field.Name, err)
		}
		s.Properties = append(s.Properties, Property{Name: name, Schema: prop})
		if isRequired(field, opts) {
			s.Required = append(s.Required, name)
		}
	}
	return nil
}

func (g *generator) property(field reflect.StructField, name string, opts string) (*Schema, error) {
	base, err := g.typeSchema(field.Type)
	if err != nil {
		return nil, err
	}

	optional := hasOption(opts, "omitempty") && !hasOption(field.Tag.Get("schema"), "required")
	nullable := optional || hasOption(field.Tag.Get("schema"), "nullable")

	prop := base
	if nullable {
		prop = &Schema{AnyOf: []*Schema{base, {Type: "null"}}}
	}
	if optional {
		prop.Default = nullDefault
	}
	prop.Title = fieldTitle(name)
	if desc := field.Tag.Get("description"); desc != "" {
		prop.Description = desc
	}
	return prop, nil
}

func (g *generator) typeSchema(t reflect.Type) (*Schema, error) {
	t = indirect(t)

	if t.Implements(formatterType) || reflect.PointerTo(t).Implements(formatterType) {
		f := reflect.New(t).Interface().(Formatter)
		return &Schema{Type: "string", Format: f.SchemaFormat()}, nil
	}
	if t == timeType {
		return &Schema{Type: "string", Format: "date-time"}, nil
	}

	switch t.Kind() {
	case reflect.String:
		return &Schema{Type: "string"}, nil
	case reflect.Bool:
		return &Schema{Type: "boolean"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}, nil
	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}, nil
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return &Schema{Type: "string"}, nil
		}
		items, err := g.typeSchema(t.Elem())
		if err != nil {
			return nil, err
		}
		return &Schema{Type: "array", Items: items}, nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, fmt.Errorf("map keys must be strings, got %s", t.Key())
		}
		values, err := g.typeSchema(t.Elem())
		if err != nil {
			return nil, err
		}
		return &Schema{Type: "object", AdditionalProperties: values}, nil
	case reflect.Struct:
		return g.reference(t)
	case reflect.Interface:
		return &Schema{}, nil
	default:
		return nil, fmt.Errorf("unsupported kind %s", t.Kind())
	}
}

// reference registers t under $defs and returns a $ref to it.
func (g *generator) reference(t reflect.Type) (*Schema, error) {
	name := t.Name()
	if name == "" {
		return nil, fmt.Errorf("anonymous struct types are not supported")
	}
	if _, ok := g.defs[name]; !ok {
		def := &Schema{Type: "object", Title: name}
		g.defs[name] = def
		if err := g.fields(t, def); err != nil {
			return nil, err
		}
	}
	return &Schema{Ref: "#/$defs/" + name}, nil
}

func isRequired(field reflect.StructField, opts string) bool {
	if hasOption(field.Tag.Get("schema"), "required") {
		return true
	}
	if strings.Contains(field.Tag.Get("validate"), "required") {
		return true
	}
	return !hasOption(opts, "omitempty")
}

func jsonName(field reflect.StructField) (string, string) {
	tag := field.Tag.Get("json")
	name, opts, _ := strings.Cut(tag, ",")
	return name, opts
}

func hasOption(opts, option string) bool {
	for _, o := range strings.Split(opts, ",") {
		if strings.TrimSpace(o) == option {
			return true
		}
	}
	return false
}

func indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// fieldTitle turns job_title into "Job Title".
func fieldTitle(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool { return r == '_' || r == '-' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
