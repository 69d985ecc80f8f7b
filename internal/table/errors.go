package table

import (
	"fmt"
	"strings"
)

// SchemaError reports required columns that are absent from a table.
// No computation is possible without them, so callers surface it as a hard failure.
type SchemaError struct {
	Table   string
	Missing []string
}

func (e *SchemaError) Error() string {
	name := e.Table
	if name == "" {
		name = "table"
	}
	return fmt.Sprintf("%s: missing required column(s): %s", name, strings.Join(e.Missing, ", "))
}
