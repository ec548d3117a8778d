// Package schemas provides JSON Schema validation for persisted CV state.
package schemas

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed cv_document.schema.json
var cvDocumentSchema string

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// Definitions inside the embedded schema that callers validate against
const (
	DefinitionEnvelope = "envelope"
	DefinitionDocument = "document"
)

var (
	compileOnce sync.Once
	compiled    map[string]*gojsonschema.Schema
	compileErr  error
)

// compile builds one schema per definition. Each compiled schema is the
// embedded schema with its root pointed at the definition via $ref.
func compile() (map[string]*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled = make(map[string]*gojsonschema.Schema)
		for _, def := range []string{DefinitionEnvelope, DefinitionDocument} {
			var root map[string]any
			if err := json.Unmarshal([]byte(cvDocumentSchema), &root); err != nil {
				compileErr = &SchemaLoadError{Path: "cv_document.schema.json", Message: "failed to parse schema", Cause: err}
				return
			}
			root["$ref"] = "#/definitions/" + def

			schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(root))
			if err != nil {
				compileErr = &SchemaLoadError{Path: "cv_document.schema.json#/definitions/" + def, Message: "failed to compile schema", Cause: err}
				return
			}
			compiled[def] = schema
		}
	})
	return compiled, compileErr
}

// ValidateDefinition validates raw JSON against one definition of the
// embedded CV schema
func ValidateDefinition(definition string, data []byte) error {
	schemas, err := compile()
	if err != nil {
		return err
	}
	schema, ok := schemas[definition]
	if !ok {
		return &SchemaLoadError{Path: "cv_document.schema.json#/definitions/" + definition, Message: "unknown definition"}
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("failed to read JSON document: %w", err)
	}
	return toValidationError(result)
}

func toValidationError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}
