// Package backup is the import/export bridge: it serializes the whole
// entity store to an opaque JSON document for backup, restores it, and
// handles the xlsx bulk-upload and attendance-grid documents. It only
// touches the store boundary (whole-state replace or batch insert).
package backup

import (
	"encoding/json"
	"fmt"

	"github.com/z2hlabs/edudesk/internal/domain/core"
)

// ParseError reports a malformed import document. The store is left
// unchanged when one is returned.
type ParseError struct {
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("backup: parse error: %v", e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// ExportSnapshot serializes the full state verbatim. The document is
// the same shape as the persisted blob, so a backup file can be
// re-imported as-is.
func ExportSnapshot(st core.State) ([]byte, error) {
	return json.MarshalIndent(st, "", "  ")
}

// ParseSnapshot decodes a backup or persisted document into a State
// without applying it anywhere.
func ParseSnapshot(data []byte) (core.State, error) {
	var st core.State
	if err := json.Unmarshal(data, &st); err != nil {
		return core.State{}, &ParseError{Cause: err}
	}
	return st, nil
}

// ImportSnapshot parses the document and whole-replaces the store. The
// signed-in identity is reset to the built-in admin by the store; on a
// ParseError nothing is touched.
func ImportSnapshot(store *core.Store, data []byte) error {
	st, err := ParseSnapshot(data)
	if err != nil {
		return err
	}
	store.ReplaceState(st)
	return nil
}
