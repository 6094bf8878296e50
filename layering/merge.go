// Package layering composes option snapshots ordered by precedence. A
// snapshot is a flat-or-nested map of option values; stronger layers keep
// their explicit settings while missing keys fill in from weaker ones.
package layering

// Overlay merges layers ordered from strongest to weakest, returning a new
// map that keeps explicit settings from stronger layers while filling any
// missing keys from weaker ones. Nested maps merge recursively; every other
// value type replaces wholesale.
func Overlay(layers ...map[string]any) map[string]any {
	if len(layers) == 0 {
		return map[string]any{}
	}

	merged := Clone(layers[len(layers)-1])
	for i := len(layers) - 2; i >= 0; i-- {
		merged = overlayMap(layers[i], merged)
	}
	if merged == nil {
		return map[string]any{}
	}
	return merged
}

func overlayMap(strong, weak map[string]any) map[string]any {
	if strong == nil {
		return Clone(weak)
	}
	out := Clone(weak)
	if out == nil {
		out = make(map[string]any, len(strong))
	}
	for key, value := range strong {
		if existing, ok := out[key]; ok {
			strongMap, strongOK := value.(map[string]any)
			weakMap, weakOK := existing.(map[string]any)
			if strongOK && weakOK {
				out[key] = overlayMap(strongMap, weakMap)
				continue
			}
		}
		out[key] = cloneValue(value)
	}
	return out
}

// Clone returns a deep copy of a snapshot so layering never aliases caller
// state.
func Clone(snapshot map[string]any) map[string]any {
	if snapshot == nil {
		return nil
	}
	out := make(map[string]any, len(snapshot))
	for key, value := range snapshot {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return Clone(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), typed...)
	default:
		return value
	}
}
