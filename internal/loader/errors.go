package loader

import (
	"fmt"
	"io/fs"
	"strings"
)

// NotFoundError is returned when a referenced configuration file does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("config file %s does not exist", e.Path)
}

func (e *NotFoundError) Unwrap() error { return fs.ErrNotExist }

// ParseError is returned when a file is not valid YAML or its root is not a mapping.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// CycleError is returned when a file is reached again along its own
// inheritance or include chain.
type CycleError struct {
	Chain []string
}

func (e *CycleError) Error() string {
	return "configuration cycle: " + strings.Join(e.Chain, " -> ")
}

// InheritError is returned when the inheritance key holds a value that
// cannot name parent files.
type InheritError struct {
	Key   string
	Value any
}

func (e *InheritError) Error() string {
	return fmt.Sprintf("%q must hold a string, sequence, or mapping of parent files, got %T", e.Key, e.Value)
}
