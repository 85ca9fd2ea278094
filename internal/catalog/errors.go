package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports an entry id that is not in the catalog.
	ErrNotFound = errors.New("pipeline not found")
	// ErrDuplicateID reports an add whose id is already in use.
	ErrDuplicateID = errors.New("pipeline id already exists")
	// ErrInvalidSnapshot wraps every snapshot import rejection.
	ErrInvalidSnapshot = errors.New("invalid pipeline snapshot")
	// ErrInvalidInterchange reports a malformed interchange JSON file.
	ErrInvalidInterchange = errors.New("invalid pipeline file")
	// ErrEmptyPipeline reports an import whose pipeline text is empty.
	ErrEmptyPipeline = errors.New("pipeline file is empty")
	// ErrDuplicateImport reports an import token that was already processed.
	ErrDuplicateImport = errors.New("import already processed")
)

// ValidationError describes a rejected field value.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
