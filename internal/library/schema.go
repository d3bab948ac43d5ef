package library

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ErrInvalidProblem wraps record-level validation failures.
var ErrInvalidProblem = errors.New("invalid problem")

// ErrInvalidSnapshot wraps failures to parse an imported collection.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// snapshotSchema describes an exported collection. Records are checked for
// shape here; enum membership is checked per record by the validator.
const snapshotSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "statement"],
    "properties": {
      "id":            {"type": "string", "minLength": 1},
      "title":         {"type": "string"},
      "statement":     {"type": "string"},
      "topic":         {"type": "string"},
      "difficulty":    {"type": "string"},
      "status":        {"type": "string"},
      "solution":      {"type": "string"},
      "leanCode":      {"type": "string"},
      "notes":         {"type": "string"},
      "created":       {"type": "number"},
      "tags":          {"type": "array", "items": {"type": "string"}},
      "jsxGraphCode":  {"type": "string"},
      "asymptoteCode": {"type": "string"},
      "similars":      {"type": "string"},
      "stressTest":    {"type": "string"}
    }
  }
}`

const snapshotSchemaURL = "schema://olympiad-forge/problems.json"

var (
	compiledOnce   sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error

	validate = validator.New(validator.WithRequiredStructEnabled())
)

func snapshotValidator() (*jsonschema.Schema, error) {
	compiledOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader([]byte(snapshotSchema)))
		if err != nil {
			compileErr = fmt.Errorf("parse snapshot schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(snapshotSchemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add snapshot schema: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(snapshotSchemaURL)
	})
	return compiledSchema, compileErr
}

// checkSnapshotShape validates raw JSON against the collection schema.
func checkSnapshotShape(data []byte) error {
	sch, err := snapshotValidator()
	if err != nil {
		return err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return nil
}

// Validate checks p's required fields and enum membership.
func Validate(p Problem) error {
	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("%w: %s failed %q (value %v)", ErrInvalidProblem, f.Field(), f.Tag(), f.Value())
		}
		return fmt.Errorf("%w: %v", ErrInvalidProblem, err)
	}
	return nil
}
