package mapping

import (
	"encoding/json"
	"errors"
	"fmt"
)

// SchemaError - upstream document does not match the expected shape.
type SchemaError struct {
	Resource string
	Field    string
	Err      error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("upstream schema: %s.%s: %v", e.Resource, e.Field, e.Err)
	}
	return fmt.Sprintf("upstream schema: %s: %v", e.Resource, e.Err)
}

// Unwrap returns the underlying error.
func (e *SchemaError) Unwrap() error {
	return e.Err
}

// ErrMissingID - document has no id.
var ErrMissingID = errors.New("missing id")

// decode unmarshals an upstream document. Type mismatches become a
// SchemaError; syntax errors are returned wrapped so callers treat them as
// malformed responses.
func decode(resource string, data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return &SchemaError{Resource: resource, Field: typeErr.Field, Err: err}
		}
		return fmt.Errorf("decode %s: %w", resource, err)
	}
	return nil
}
