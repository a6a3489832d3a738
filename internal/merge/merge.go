// Package merge implements the recursive merge of configuration mappings.
// A configuration value is a map[string]any, a []any, or a scalar, exactly
// as produced by decoding a YAML document.
package merge

// Merge combines two configuration mappings into a new one. Keys only
// present in base are retained; for keys present in both, two mappings are
// merged recursively while any other pairing (including two sequences) is
// replaced wholesale by the overlay value. Neither input is mutated and the
// result shares no mutable structure with them.
func Merge(base, overlay map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(overlay))
	for key, value := range base {
		out[key] = Clone(value)
	}
	for key, value := range overlay {
		baseMap, baseOK := out[key].(map[string]any)
		overlayMap, overlayOK := value.(map[string]any)
		if baseOK && overlayOK {
			out[key] = Merge(baseMap, overlayMap)
			continue
		}
		out[key] = Clone(value)
	}
	return out
}

// Clone returns a deep copy of a configuration value. Scalars are returned
// as-is since they are immutable.
func Clone(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, element := range typed {
			out[key] = Clone(element)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, element := range typed {
			out[i] = Clone(element)
		}
		return out
	default:
		return value
	}
}
