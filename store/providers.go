package store

import (
	"context"
	goerrors "errors"
	"os"
	"strings"
	"syscall"

	"github.com/goliatone/go-authconfig/koanf/providers/env"
	"github.com/goliatone/go-authconfig/opt"
	"github.com/goliatone/go-errors"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

type ProviderBuilder func(*KoanfStore) (Provider, error)

type ProviderType string

func (p ProviderType) String() string {
	return string(p)
}

const (
	ProviderTypeStruct    ProviderType = "struct"
	ProviderTypeMap       ProviderType = "map"
	ProviderTypeLocalFile ProviderType = "file"
	ProviderTypeEnv       ProviderType = "env"
	ProviderTypeFlag      ProviderType = "pflag"
)

// Provider loads one configuration source into the store's koanf instance.
// Providers are loaded by ascending Priority so later sources win.
type Provider interface {
	Type() ProviderType
	Priority() int
	Load(context.Context, *koanf.Koanf) error
}

type Loader struct {
	order        int
	providerType ProviderType
	load         func(context.Context, *koanf.Koanf) error
}

func (l *Loader) Priority() int {
	return l.order
}

func (l *Loader) Type() ProviderType {
	return l.providerType
}

func (l *Loader) Load(ctx context.Context, k *koanf.Koanf) error {
	return l.load(ctx, k)
}

type Priority int

func (p Priority) WithOffset(offset int) Priority {
	return Priority(int(p) + offset)
}

var (
	PriorityStruct Priority = 10
	PriorityConfig Priority = 20
	PriorityEnv    Priority = 30
	PriorityFlags  Priority = 40
)

var DefaultEnvDelimiter = "__"

// StructProvider loads default values from a struct using koanf tags.
func StructProvider(v any, order ...int) ProviderBuilder {
	return func(s *KoanfStore) (Provider, error) {
		if v == nil {
			return nil, errors.New("struct cannot be nil", errors.CategoryBadInput).
				WithTextCode("NIL_STRUCT")
		}
		kprv := structs.Provider(v, "koanf")
		return &Loader{
			providerType: ProviderTypeStruct,
			order:        getOrder(PriorityStruct, order...),
			load: func(ctx context.Context, k *koanf.Koanf) error {
				s.logger.Debug("struct provider")
				if err := k.Load(kprv, nil); err != nil {
					return errors.Wrap(err, errors.CategoryOperation, "failed to load configuration from struct").
						WithTextCode("STRUCT_LOAD_FAILED")
				}
				return nil
			},
		}, nil
	}
}

// MapProvider loads default values from a nested or dotted map, e.g.
// {"auth.region_name": "RegionOne"}.
func MapProvider(values map[string]any, order ...int) ProviderBuilder {
	return func(s *KoanfStore) (Provider, error) {
		if values == nil {
			return nil, errors.New("map cannot be nil", errors.CategoryBadInput).
				WithTextCode("NIL_MAP")
		}
		kprv := confmap.Provider(values, delimiter)
		return &Loader{
			providerType: ProviderTypeMap,
			order:        getOrder(PriorityStruct, order...),
			load: func(ctx context.Context, k *koanf.Koanf) error {
				s.logger.Debug("map provider", "keys", len(values))
				if err := k.Load(kprv, nil); err != nil {
					return errors.Wrap(err, errors.CategoryOperation, "failed to load configuration from map").
						WithTextCode("MAP_LOAD_FAILED")
				}
				return nil
			},
		}, nil
	}
}

func FileProvider(filepath string, order ...int) ProviderBuilder {
	filetype := inferConfigFiletype(filepath)

	return func(s *KoanfStore) (Provider, error) {
		kprovider := file.Provider(filepath)
		return &Loader{
			providerType: ProviderTypeLocalFile,
			order:        getOrder(PriorityConfig, order...),
			load: func(ctx context.Context, k *koanf.Koanf) error {
				s.logger.Debug("file provider", "filepath", filepath)
				if err := k.Load(kprovider, filetype.Parser()); err != nil {
					return errors.Wrap(err, errors.CategoryOperation, "failed to load configuration from file").
						WithTextCode("FILE_LOAD_FAILED").
						WithMetadata(map[string]any{
							"filepath":  filepath,
							"file_type": string(filetype),
						})
				}
				return nil
			},
		}, nil
	}
}

// EnvProvider reads variables such as KEYSTONE_AUTH__AUTH_URL into auth.auth_url.
// The DEFAULT group keeps its upper case spelling.
func EnvProvider(prefix, delim string, order ...int) ProviderBuilder {
	return func(s *KoanfStore) (Provider, error) {
		kprov := env.Provider(prefix, delim, func(name string) string {
			key := strings.ToLower(strings.TrimPrefix(name, prefix))
			group, rest, ok := strings.Cut(key, delim)
			if ok && strings.EqualFold(group, opt.DefaultGroup) {
				return opt.DefaultGroup + delim + rest
			}
			return key
		})

		return &Loader{
			providerType: ProviderTypeEnv,
			order:        getOrder(PriorityEnv, order...),
			load: func(ctx context.Context, k *koanf.Koanf) error {
				s.logger.Debug("env provider", "prefix", prefix)
				if err := k.Load(kprov, json.Parser()); err != nil {
					return errors.Wrap(err, errors.CategoryOperation, "failed to load environment variables").
						WithTextCode("ENV_LOAD_FAILED").
						WithMetadata(map[string]any{
							"prefix":    prefix,
							"delimiter": delim,
						})
				}
				return nil
			},
		}, nil
	}
}

// FlagsProvider loads flags named group.option, e.g. --auth.region.
func FlagsProvider(flagset *pflag.FlagSet, order ...int) ProviderBuilder {
	return func(s *KoanfStore) (Provider, error) {
		if flagset == nil {
			return nil, errors.New("flagset cannot be nil", errors.CategoryBadInput).
				WithTextCode("NIL_FLAGSET")
		}
		return &Loader{
			providerType: ProviderTypeFlag,
			order:        getOrder(PriorityFlags, order...),
			load: func(ctx context.Context, k *koanf.Koanf) error {
				s.logger.Debug("flags provider")
				if err := k.Load(posflag.Provider(flagset, ".", k), nil); err != nil {
					return errors.Wrap(err, errors.CategoryOperation, "failed to load configuration from posix flags").
						WithTextCode("FLAGS_LOAD_FAILED")
				}
				return nil
			},
		}, nil
	}
}

type ErrorFilter func(err error) bool

// DefaultErrorFilter ignores missing files unless allowedErrors are given,
// in which case only those are ignored.
func DefaultErrorFilter(allowedErrors ...error) ErrorFilter {
	return func(err error) bool {
		if err == nil {
			return false
		}
		if len(allowedErrors) == 0 {
			return os.IsNotExist(err) || goerrors.Is(err, syscall.ENOENT)
		}
		for _, allowed := range allowedErrors {
			if goerrors.Is(err, allowed) {
				return true
			}
		}
		return false
	}
}

// OptionalProvider wraps a provider so the errors accepted by the filter are
// swallowed. Discovered config files use it so absent candidates are skipped.
func OptionalProvider(f ProviderBuilder, errIgnoreFuncs ...ErrorFilter) ProviderBuilder {
	errIgnore := DefaultErrorFilter()
	if len(errIgnoreFuncs) > 0 {
		errIgnore = errIgnoreFuncs[0]
	}

	return func(s *KoanfStore) (Provider, error) {
		base, err := f(s)
		if err != nil {
			return nil, err
		}
		return &Loader{
			providerType: base.Type(),
			order:        base.Priority(),
			load: func(ctx context.Context, k *koanf.Koanf) error {
				if err := base.Load(ctx, k); err != nil && !errIgnore(err) {
					return err
				}
				return nil
			},
		}, nil
	}
}

func getOrder(defaultOrder Priority, orders ...int) int {
	if len(orders) > 0 {
		return orders[0]
	}
	return int(defaultOrder)
}
