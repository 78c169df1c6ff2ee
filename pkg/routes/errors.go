package routes

import "fmt"

// LoadError is a fatal failure reading or compiling one route file.
type LoadError struct {
	File string
	Err  error
}

func (e *LoadError) Error() string { return fmt.Sprintf("load %s: %v", e.File, e.Err) }

func (e *LoadError) Unwrap() error { return e.Err }

// DuplicateRouteError reports two files resolving to the same key.
type DuplicateRouteError struct {
	Key    Key
	First  string
	Second string
}

func (e *DuplicateRouteError) Error() string {
	return fmt.Sprintf("duplicate route %s: defined by %s and %s", e.Key, e.First, e.Second)
}
