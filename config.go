package authconfig

import (
	"context"
	"fmt"

	"github.com/goliatone/go-authconfig/logger"
	"github.com/goliatone/go-authconfig/opt"
	"github.com/goliatone/go-authconfig/store"
)

// Config is the lookup surface handed to middleware. It is immutable once
// built and safe for concurrent use.
type Config struct {
	group     string
	overrides map[string]any
	store     store.Store
	logger    logger.Logger
}

// New normalizes raw for group and selects the backing store. Building a
// ProjectBacked store reads config files, so ctx bounds construction.
func New(ctx context.Context, group string, schema opt.Schema, raw Overrides, backing Backing, opts ...Option) (*Config, error) {
	o := &options{logger: logger.NewDefaultLogger("authconfig")}
	for _, fn := range opts {
		if fn != nil {
			fn(o)
		}
	}

	c := &Config{
		group:  group,
		logger: o.logger,
	}

	overrides, err := normalize(group, schema, raw, func(key string) {
		c.logger.Debug("passing through unknown override", "group", group, "key", key)
	})
	if err != nil {
		c.logger.Error("invalid override", "group", group, "error", err.Error())
		return nil, err
	}
	c.overrides = overrides

	s, err := c.resolveBacking(ctx, backing, schema, o)
	if err != nil {
		return nil, err
	}
	c.store = s

	return c, nil
}

// Get looks name up in the active group.
func (c *Config) Get(name string) (any, error) {
	return c.GetIn(c.group, name)
}

// GetIn checks the override layer by exact key first, whatever the group, and
// then asks the store for group.name. Store errors are returned unchanged.
func (c *Config) GetIn(group, name string) (any, error) {
	if v, ok := c.overrides[name]; ok {
		return v, nil
	}
	return c.store.Lookup(group, name)
}

// Project reports the project name: the "project" option of the active
// group when set, otherwise the store's project. ok is false when neither is
// known.
func (c *Config) Project() (name string, ok bool, err error) {
	v, err := c.GetIn(c.group, "project")
	switch {
	case err == nil:
		if v == nil {
			return "", false, nil
		}
		if s, isString := v.(string); isString {
			return s, true, nil
		}
		return fmt.Sprint(v), true, nil
	case !store.IsNoSuchOption(err):
		return "", false, err
	}

	// the store project is only set after the host initialised the store
	p, err := c.store.Project()
	if err != nil {
		if store.IsNoSuchOption(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return p, true, nil
}

// Group is the active group name.
func (c *Config) Group() string {
	return c.group
}

// Store is the backing store.
func (c *Config) Store() store.Store {
	return c.store
}

// Overrides returns a copy of the normalized override layer.
func (c *Config) Overrides() map[string]any {
	out := make(map[string]any, len(c.overrides))
	for k, v := range c.overrides {
		out[k] = v
	}
	return out
}
