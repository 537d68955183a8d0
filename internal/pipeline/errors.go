package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingInput means no file was supplied; callers show a "no data available" warning.
var ErrMissingInput = errors.New("no data available: no file supplied")

// SchemaError reports required fields absent from an uploaded table.
type SchemaError struct {
	Missing   []string
	Available []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required field(s): %s", strings.Join(e.Missing, ", "))
}

// IsSchemaError reports whether err is or wraps a SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}
