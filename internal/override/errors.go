package override

import (
	"fmt"
	"strings"
)

// ArgError is returned when an override argument is not of the form
// key.path=value.
type ArgError struct {
	Arg    string
	Reason string
}

func (e *ArgError) Error() string {
	return fmt.Sprintf("invalid override %q: %s", e.Arg, e.Reason)
}

// CoercionError is returned when an override value cannot be coerced to the
// type of the value it replaces.
type CoercionError struct {
	Path []string
	Raw  string
	Want string
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("cannot coerce %q to %s for key %s", e.Raw, e.Want, strings.Join(e.Path, "."))
}
