// Package override applies externally supplied key.path=value entries on
// top of a loaded configuration, coercing raw string values to the type of
// the value they replace.
package override

import (
	"strings"

	"go.uber.org/multierr"

	"github.com/confmerge/confmerge/internal/merge"
)

// Entry is a single override: a dot-delimited key path and the raw
// replacement value as it appeared on the command line.
type Entry struct {
	Path []string
	Raw  string
}

// Key returns the dot-delimited form of the entry's path.
func (e Entry) Key() string {
	return strings.Join(e.Path, ".")
}

// Parse splits a key.path=value argument into an Entry. The value is taken
// verbatim after the first "=", so values may themselves contain "=".
func Parse(arg string) (Entry, error) {
	key, raw, found := strings.Cut(arg, "=")
	if !found {
		return Entry{}, &ArgError{Arg: arg, Reason: "missing '='"}
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return Entry{}, &ArgError{Arg: arg, Reason: "empty key"}
	}
	path := strings.Split(key, ".")
	for _, segment := range path {
		if strings.TrimSpace(segment) == "" {
			return Entry{}, &ArgError{Arg: arg, Reason: "empty key path segment"}
		}
	}
	return Entry{Path: path, Raw: raw}, nil
}

// ParseAll parses a list of arguments, reporting every malformed one.
func ParseAll(args []string) ([]Entry, error) {
	entries := make([]Entry, 0, len(args))
	var errs error
	for _, arg := range args {
		entry, err := Parse(arg)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		entries = append(entries, entry)
	}
	if errs != nil {
		return nil, errs
	}
	return entries, nil
}

// Apply sets every entry in doc and returns the result as a new document;
// doc is not mutated. Intermediate mappings are created as needed, and an
// intermediate that exists with a non-mapping value is replaced by a fresh
// mapping: the override always wins. Entries that fail to coerce are
// reported together.
func Apply(doc map[string]any, entries []Entry) (map[string]any, error) {
	out := merge.Merge(doc, nil)

	var errs error
	for _, entry := range entries {
		if err := apply(out, entry); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	if errs != nil {
		return nil, errs
	}
	return out, nil
}

func apply(doc map[string]any, entry Entry) error {
	current := doc
	for _, segment := range entry.Path[:len(entry.Path)-1] {
		next, ok := current[segment].(map[string]any)
		if !ok {
			next = map[string]any{}
			current[segment] = next
		}
		current = next
	}

	leaf := entry.Path[len(entry.Path)-1]
	value, err := coerce(entry.Raw, current[leaf], entry.Path)
	if err != nil {
		return err
	}
	current[leaf] = value
	return nil
}
