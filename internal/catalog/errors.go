package catalog

import (
	"errors"
	"fmt"
)

// ErrRecordNotFound is returned when a record key does not exist in the store
var ErrRecordNotFound = errors.New("record not found")

// DataLoadError reports that a required data file could not be fetched or parsed.
// It is the only load failure surfaced to the person browsing the catalog.
type DataLoadError struct {
	Source string
	Err    error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Source, e.Err)
}

func (e *DataLoadError) Unwrap() error {
	return e.Err
}

// IsDataLoadError reports whether err wraps a *DataLoadError
func IsDataLoadError(err error) bool {
	var dle *DataLoadError
	return errors.As(err, &dle)
}
