package catalog

import "fmt"

// DataSourceError reports a catalog source that is missing, unreadable or
// malformed. No partial corpus is returned alongside it.
type DataSourceError struct {
	Path   string
	Reason string
	Err    error
}

func (e *DataSourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("catalog %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("catalog %s: %s", e.Path, e.Reason)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}

func sourceError(path, reason string, err error) error {
	return &DataSourceError{Path: path, Reason: reason, Err: err}
}
