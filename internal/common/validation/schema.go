// Package validation checks loosely-typed payloads against JSON schemas.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var ErrSchemaViolation = errors.New("SCHEMA_VIOLATION")

// Schema is a compiled JSON schema.
type Schema struct {
	name   string
	schema *gojsonschema.Schema
}

// Compile builds a schema from its Go map form.
func Compile(name string, definition map[string]interface{}) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(definition))
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return &Schema{name: name, schema: s}, nil
}

// MustCompile is Compile for package-level schema literals.
func MustCompile(name string, definition map[string]interface{}) *Schema {
	s, err := Compile(name, definition)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) Name() string { return s.name }

// Validate checks a decoded document (maps, slices, scalars).
func (s *Schema) Validate(document interface{}) error {
	result, err := s.schema.Validate(gojsonschema.NewGoLoader(document))
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSchemaViolation, s.name, err)
	}
	if result.Valid() {
		return nil
	}

	errs := make([]string, len(result.Errors()))
	for i, desc := range result.Errors() {
		errs[i] = desc.String()
	}
	return fmt.Errorf("%w: %s: %s", ErrSchemaViolation, s.name, strings.Join(errs, "; "))
}

// Object returns an object schema whose listed properties, when present, have
// the given JSON types. Absent properties are allowed.
func Object(properties map[string][]string) map[string]interface{} {
	props := make(map[string]interface{}, len(properties))
	for name, types := range properties {
		t := make([]interface{}, 0, len(types)+1)
		for _, typ := range types {
			t = append(t, typ)
		}
		t = append(t, "null")
		props[name] = map[string]interface{}{"type": t}
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
}
