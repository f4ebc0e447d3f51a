package authconfig

import (
	"fmt"
	"time"

	"github.com/goliatone/go-authconfig/cfgx"
	"github.com/goliatone/go-authconfig/store"
)

// Value looks name up in the active group and asserts its type. A nil value
// yields the zero T.
func Value[T any](c *Config, name string) (T, error) {
	var zero T
	v, err := c.Get(name)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	typed, ok := v.(T)
	if !ok {
		return zero, &TypeError{Name: name, Want: fmt.Sprintf("%T", zero), Got: v}
	}
	return typed, nil
}

func (c *Config) String(name string) (string, error) {
	return Value[string](c, name)
}

func (c *Config) Int(name string) (int, error) {
	return Value[int](c, name)
}

func (c *Config) Bool(name string) (bool, error) {
	return Value[bool](c, name)
}

func (c *Config) Duration(name string) (time.Duration, error) {
	return Value[time.Duration](c, name)
}

func (c *Config) Strings(name string) ([]string, error) {
	return Value[[]string](c, name)
}

// Decode fills a T from the active group: every value the store holds for
// the group, with the override layer merged on top. Fields are matched by
// their koanf tag.
func Decode[T any](c *Config, opts ...cfgx.Option[T]) (T, error) {
	base := map[string]any{}
	if r, ok := c.store.(store.GroupReader); ok {
		values, err := r.Values(c.group)
		if err != nil {
			var zero T
			return zero, err
		}
		for k, v := range values {
			if v != nil {
				base[k] = v
			}
		}
	}

	overlay := map[string]any{}
	for k, v := range c.overrides {
		if v != nil {
			overlay[k] = v
		}
	}

	build := append([]cfgx.Option[T]{
		cfgx.WithTagName[T]("koanf"),
		cfgx.WithMerge[T](overlay),
	}, opts...)
	return cfgx.Build[T](base, build...)
}
