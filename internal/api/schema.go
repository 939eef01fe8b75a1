package api

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"path"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const schemaBase = "https://tada.local/schemas/"

type validator struct {
	todo *jsonschema.Schema
	list *jsonschema.Schema
}

func newValidator() (*validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7

	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, fmt.Errorf("read schemas: %w", err)
	}
	for _, e := range entries {
		b, err := schemaFS.ReadFile(path.Join("schemas", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", e.Name(), err)
		}
		if err := compiler.AddResource(schemaBase+e.Name(), bytes.NewReader(b)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", e.Name(), err)
		}
	}

	todo, err := compiler.Compile(schemaBase + "todo.json")
	if err != nil {
		return nil, fmt.Errorf("compile todo schema: %w", err)
	}
	list, err := compiler.Compile(schemaBase + "list.json")
	if err != nil {
		return nil, fmt.Errorf("compile list schema: %w", err)
	}
	return &validator{todo: todo, list: list}, nil
}

func (v *validator) validateTodo(doc any) error {
	if v == nil {
		return nil
	}
	return schemaError(v.todo.Validate(doc))
}

func (v *validator) validateList(doc any) error {
	if v == nil {
		return nil
	}
	return schemaError(v.list.Validate(doc))
}

// schemaError reduces a validation tree to its first leaf.
func schemaError(err error) error {
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &SchemaError{Message: err.Error()}
	}
	leaf := ve
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	return &SchemaError{Path: pointerPath(leaf.InstanceLocation), Message: leaf.Message}
}

func pointerPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}
	return strings.ReplaceAll(ptr, "/", ".")
}
