package state

// deepCloneMap returns a deep copy of a JSON-compatible map so that callers
// of Get cannot mutate the manager's internal state by reference.
func deepCloneMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = deepCloneValue(v)
	}
	return out
}

func deepCloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return deepCloneMap(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = deepCloneValue(item)
		}
		return out
	default:
		// Primitives (string, float64, bool, nil) and opaque values are
		// copied by value assignment, which is the deep clone for their
		// primitive identity.
		return val
	}
}

// deepMergeMap implements the merge rules of section 4.2:
//   - two mappings merge recursively key-by-key
//   - anything else, including list-vs-list, is replaced wholesale by the
//     patch's value
//   - an explicit null/absent source value is written as-is; it is a valid
//     assignment, not a skip
func deepMergeMap(target, patch map[string]interface{}) map[string]interface{} {
	if target == nil {
		target = make(map[string]interface{})
	}
	for k, patchVal := range patch {
		existing, hasExisting := target[k]
		existingMap, existingIsMap := existing.(map[string]interface{})
		patchMap, patchIsMap := patchVal.(map[string]interface{})

		if hasExisting && existingIsMap && patchIsMap {
			target[k] = deepMergeMap(existingMap, patchMap)
			continue
		}
		target[k] = deepCloneValue(patchVal)
	}
	return target
}
