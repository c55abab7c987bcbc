package grid

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is matching across the error taxonomy.
var (
	ErrConfiguration = errors.New("grid configuration error")
	ErrRender        = errors.New("grid render error")
	ErrGridNotFound  = errors.New("grid not found")
)

// ConfigurationError reports a malformed or contradictory column setting.
type ConfigurationError struct {
	Field   string // Setting name, e.g. "hiddenFromExport"
	Value   any    // Offending value, if any
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid %s: %s (got: %v)", e.Field, e.Message, e.Value)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// RenderError reports a failed data cell render. It carries the row
// identity so the failing record can be located.
type RenderError struct {
	Key   string
	Index int
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render row %q (index %d): %v", e.Key, e.Index, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

func (e *RenderError) Is(target error) bool {
	return target == ErrRender
}
