package schemas

import (
	"bytes"
	"encoding/json"
)

// Field is one row of a field table.
type Field struct {
	Name        string
	Type        any
	Description string
	Default     json.RawMessage
}

// Table is an ordered field table. It marshals as {name: {type, description, default}}.
type Table []Field

// Definition is the summary of one $defs entry.
type Definition struct {
	Name       string
	Type       any
	Properties Table
}

// Summary is the compact view of a schema given to the model in prompts.
type Summary struct {
	Definitions []Definition
	Properties  Table
}

// Summarize reduces a schema to the field table used in extraction prompts.
// Union types take their first typed branch, fields with neither a type nor a
// description are dropped, and titles are never carried over. The result is
// deterministic for a given schema.
func Summarize(s *Schema) Summary {
	var sum Summary
	for _, def := range s.Defs {
		sum.Definitions = append(sum.Definitions, Definition{
			Name:       def.Name,
			Type:       def.Schema.Type,
			Properties: summarizeProperties(def.Schema.Properties),
		})
	}
	sum.Properties = summarizeProperties(s.Properties)
	return sum
}

func summarizeProperties(props Properties) Table {
	table := Table{}
	for _, prop := range props {
		typ := fieldType(prop.Schema)
		if isEmptyType(typ) && prop.Schema.Description == "" {
			continue
		}
		f := Field{Name: prop.Name, Type: typ, Description: prop.Schema.Description}
		if len(prop.Schema.Default) > 0 && !bytes.Equal(bytes.TrimSpace(prop.Schema.Default), nullDefault) {
			f.Default = prop.Schema.Default
		}
		table = append(table, f)
	}
	return table
}

// fieldType returns the declared type, or the type of the first union branch that has one.
func fieldType(s *Schema) any {
	branches := s.AnyOf
	if len(branches) == 0 {
		branches = s.OneOf
	}
	if len(branches) == 0 {
		return s.Type
	}
	for _, b := range branches {
		if !isEmptyType(b.Type) {
			return b.Type
		}
	}
	return nil
}

func isEmptyType(t any) bool {
	switch v := t.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	}
	return false
}

// Bare reports whether the summary has no definitions and renders as the plain field table.
func (s Summary) Bare() bool {
	return len(s.Definitions) == 0
}

// MarshalJSON renders the bare field table when there are no definitions,
// otherwise one entry per definition followed by "properties".
func (s Summary) MarshalJSON() ([]byte, error) {
	if s.Bare() {
		return s.Properties.MarshalJSON()
	}
	return marshalOrdered(len(s.Definitions)+1, func(i int) (string, any) {
		if i == len(s.Definitions) {
			return "properties", s.Properties
		}
		return s.Definitions[i].Name, s.Definitions[i]
	})
}

// String renders the summary as indented JSON.
func (s Summary) String() string {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}

// MarshalJSON omits the type or properties when empty.
func (d Definition) MarshalJSON() ([]byte, error) {
	var keys []string
	var values []any
	if !isEmptyType(d.Type) {
		keys, values = append(keys, "type"), append(values, d.Type)
	}
	if len(d.Properties) > 0 {
		keys, values = append(keys, "properties"), append(values, d.Properties)
	}
	return marshalOrdered(len(keys), func(i int) (string, any) { return keys[i], values[i] })
}

// MarshalJSON writes the table as an ordered object.
func (t Table) MarshalJSON() ([]byte, error) {
	return marshalOrdered(len(t), func(i int) (string, any) { return t[i].Name, t[i] })
}

// MarshalJSON omits unset attributes.
func (f Field) MarshalJSON() ([]byte, error) {
	var keys []string
	var values []any
	if !isEmptyType(f.Type) {
		keys, values = append(keys, "type"), append(values, f.Type)
	}
	if f.Description != "" {
		keys, values = append(keys, "description"), append(values, f.Description)
	}
	if len(f.Default) > 0 {
		keys, values = append(keys, "default"), append(values, f.Default)
	}
	return marshalOrdered(len(keys), func(i int) (string, any) { return keys[i], values[i] })
}
