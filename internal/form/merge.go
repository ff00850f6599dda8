package form

// mergeRecursive returns a copy of base with override applied on top. Nested
// maps are merged key by key; any other override value replaces the base
// value.
func mergeRecursive(base, override map[string]any) map[string]any {
	out := cloneMap(base)
	for key, value := range override {
		overrideMap, overrideIsMap := asMap(value)
		baseMap, baseIsMap := asMap(out[key])
		if overrideIsMap && baseIsMap {
			out[key] = mergeRecursive(baseMap, overrideMap)
			continue
		}
		out[key] = cloneValue(value)
	}
	return out
}

func cloneMap(in map[string]any) map[string]any {
	if in == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	default:
		return v
	}
}

func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	default:
		return nil, false
	}
}
