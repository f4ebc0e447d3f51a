package authconfig

import (
	"github.com/goliatone/go-authconfig/opt"
)

type target struct {
	opt  opt.Opt
	dest string
}

// Normalize converts raw overrides for group into typed values keyed by
// option destination.
//
// Only the first schema group named group is consulted. Deprecated names fold
// into their option's destination. Keys that match no option are kept as they
// are, and so are nil values, which are never converted or renamed. The first
// conversion failure aborts with a *ConfigurationError.
func Normalize(group string, schema opt.Schema, raw Overrides) (map[string]any, error) {
	return normalize(group, schema, raw, nil)
}

func normalize(group string, schema opt.Schema, raw Overrides, onUnknown func(key string)) (map[string]any, error) {
	if len(raw) == 0 {
		return map[string]any{}, nil
	}

	targets := map[string]target{}
	if g, ok := schema.Lookup(group); ok {
		for _, o := range g.Opts {
			t := target{opt: o, dest: o.DestName()}
			targets[t.dest] = t
			for _, d := range o.Deprecated {
				if d.Name != "" {
					targets[d.Name] = t
				}
			}
		}
	}

	out := make(map[string]any, len(raw))
	for _, ov := range raw {
		if ov.Value == nil {
			out[ov.Key] = nil
			continue
		}

		t, ok := targets[ov.Key]
		if !ok {
			if onUnknown != nil {
				onUnknown(ov.Key)
			}
			out[ov.Key] = *ov.Value
			continue
		}

		v, err := t.opt.Convert(*ov.Value)
		if err != nil {
			return nil, &ConfigurationError{Key: ov.Key, Err: err}
		}
		out[t.dest] = v
	}
	return out, nil
}
