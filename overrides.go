package authconfig

import "sort"

// Override is a single raw override. A nil Value means the key was present
// without a value.
type Override struct {
	Key   string
	Value *string
}

// Overrides are processed in slice order; for keys that end up under the
// same destination the last one wins.
type Overrides []Override

// String builds an override carrying value.
func String(key, value string) Override {
	return Override{Key: key, Value: &value}
}

// Null builds an override without a value.
func Null(key string) Override {
	return Override{Key: key}
}

// OverridesFromMap converts a plain map, sorting keys so the result is stable.
func OverridesFromMap(m map[string]string) Overrides {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(Overrides, 0, len(keys))
	for _, k := range keys {
		out = append(out, String(k, m[k]))
	}
	return out
}
