package authconfig

import (
	"context"
	"reflect"

	"github.com/goliatone/go-authconfig/opt"
	"github.com/goliatone/go-authconfig/store"
)

// Backing selects the store a Config falls back to. It is one of External,
// ProjectBacked or Default.
type Backing interface {
	backing()
}

// External adopts a store owned by the caller. The schema is not registered
// against it.
type External struct {
	Store store.Store
}

// ProjectBacked loads a new store for Project. ConfigFile, when set, is the
// only file loaded; otherwise files are discovered from the project name.
// Every schema group is registered against the new store.
type ProjectBacked struct {
	Project    string
	ConfigFile string
}

// Default uses the process-wide store, store.Global unless replaced with
// WithSharedStore. Nothing is registered against it.
type Default struct{}

func (External) backing()      {}
func (ProjectBacked) backing() {}
func (Default) backing()       {}

func (c *Config) resolveBacking(ctx context.Context, b Backing, schema opt.Schema, o *options) (store.Store, error) {
	switch v := b.(type) {
	case External:
		if !isNilStore(v.Store) {
			c.logger.Debug("using external store", "group", c.group)
			return v.Store, nil
		}
	case *External:
		if v != nil && !isNilStore(v.Store) {
			c.logger.Debug("using external store", "group", c.group)
			return v.Store, nil
		}
	case ProjectBacked:
		return c.projectStore(ctx, v, schema, o)
	case *ProjectBacked:
		if v != nil {
			return c.projectStore(ctx, *v, schema, o)
		}
	}

	c.logger.Debug("using shared store", "group", c.group)
	if !isNilStore(o.shared) {
		return o.shared, nil
	}
	return store.Global(), nil
}

// isNilStore also catches typed nil pointers wrapped in the interface.
func isNilStore(s store.Store) bool {
	if s == nil {
		return true
	}
	v := reflect.ValueOf(s)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return v.IsNil()
	}
	return false
}

func (c *Config) projectStore(ctx context.Context, pb ProjectBacked, schema opt.Schema, o *options) (store.Store, error) {
	storeOpts := append([]store.Option{
		store.WithLogger(c.logger),
		store.WithDefaultConfigFiles(pb.ConfigFile),
		store.WithValidateDefaults(true),
	}, o.storeOpts...)

	s, err := store.New(ctx, pb.Project, storeOpts...)
	if err != nil {
		return nil, err
	}

	for _, g := range schema {
		if err := s.Register(g.Name, g.Opts...); err != nil {
			return nil, err
		}
	}
	c.logger.Debug("created project store", "project", pb.Project, "groups", len(schema))
	return s, nil
}
