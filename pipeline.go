package authconfig

import (
	"context"
	"fmt"
	"sort"

	"github.com/goliatone/go-authconfig/opt"
	"github.com/goliatone/go-authconfig/store"
)

// Reserved pipeline keys selecting the backing store.
const (
	KeyStore   = "config_store"
	KeyProject = "config_project"
	KeyFile    = "config_file"
)

// FromPipeline builds a Config from the untyped settings map a pipeline hands
// to a middleware factory. KeyStore carrying a store.Store selects External;
// otherwise KeyProject selects ProjectBacked with the optional KeyFile;
// otherwise Default. Every string or nil entry is treated as a raw override,
// reserved string keys included.
func FromPipeline(ctx context.Context, group string, schema opt.Schema, conf map[string]any, opts ...Option) (*Config, error) {
	raw, backing := SplitPipeline(conf)
	return New(ctx, group, schema, raw, backing, opts...)
}

// SplitPipeline separates raw overrides from the backing selection.
func SplitPipeline(conf map[string]any) (Overrides, Backing) {
	keys := make([]string, 0, len(conf))
	for k := range conf {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	raw := make(Overrides, 0, len(keys))
	for _, k := range keys {
		switch v := conf[k].(type) {
		case nil:
			raw = append(raw, Null(k))
		case string:
			raw = append(raw, String(k, v))
		case *string:
			raw = append(raw, Override{Key: k, Value: v})
		case store.Store:
			// backing selection, not an override
		case fmt.Stringer:
			raw = append(raw, String(k, v.String()))
		default:
			raw = append(raw, String(k, fmt.Sprint(v)))
		}
	}

	if s, ok := conf[KeyStore].(store.Store); ok && !isNilStore(s) {
		return raw, External{Store: s}
	}
	if project, ok := conf[KeyProject]; ok {
		pb := ProjectBacked{Project: stringValue(project)}
		if file, ok := conf[KeyFile]; ok {
			pb.ConfigFile = stringValue(file)
		}
		return raw, pb
	}
	return raw, Default{}
}

func stringValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case *string:
		if s == nil {
			return ""
		}
		return *s
	default:
		return fmt.Sprint(s)
	}
}
