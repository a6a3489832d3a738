package override

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// coerce converts a raw override string to a value for the given key path.
// When the key already holds a value, the raw string must parse as that
// value's kind; otherwise the Literal policy decides the type.
func coerce(raw string, existing any, path []string) (any, error) {
	switch existing.(type) {
	case nil:
		// Absent key or explicit null: nothing to match against.
		return Literal(raw), nil

	case bool:
		if value, err := strconv.ParseBool(strings.TrimSpace(raw)); err == nil {
			return value, nil
		}
		return nil, &CoercionError{Path: path, Raw: raw, Want: "bool"}

	case int:
		if value, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			return value, nil
		}
		return nil, &CoercionError{Path: path, Raw: raw, Want: "int"}

	case int64:
		if value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); err == nil {
			return value, nil
		}
		return nil, &CoercionError{Path: path, Raw: raw, Want: "int"}

	case float64:
		if value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			return value, nil
		}
		return nil, &CoercionError{Path: path, Raw: raw, Want: "float"}

	case string:
		return raw, nil

	case []any:
		value, err := parseYAML(raw)
		if err == nil {
			if sequence, ok := value.([]any); ok {
				return sequence, nil
			}
		}
		return nil, &CoercionError{Path: path, Raw: raw, Want: "sequence"}

	case map[string]any:
		value, err := parseYAML(raw)
		if err == nil {
			if mapping, ok := value.(map[string]any); ok {
				return mapping, nil
			}
		}
		return nil, &CoercionError{Path: path, Raw: raw, Want: "mapping"}

	default:
		// Exotic existing types (timestamps, binary) fall back to the
		// literal policy.
		return Literal(raw), nil
	}
}

// Literal converts a raw override string for a key with no existing value.
// The policy is a fixed enumeration: null, bool, int, float, then string.
func Literal(raw string) any {
	trimmed := strings.TrimSpace(raw)
	switch trimmed {
	case "", "~", "null", "Null", "NULL":
		return nil
	case "true", "True", "TRUE":
		return true
	case "false", "False", "FALSE":
		return false
	}
	if value, err := strconv.Atoi(trimmed); err == nil {
		return value
	}
	if value, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return value
	}
	return raw
}

func parseYAML(raw string) (any, error) {
	var value any
	if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
		return nil, err
	}
	return value, nil
}
