// Package opt declares configuration options: their names, destination keys,
// value types and deprecated aliases, grouped into an ordered Schema.
//
// Declarations are static data. Resolving values is the job of a store and of
// the override layer in the root package.
package opt

import (
	"fmt"
	"strings"
)

// DefaultGroup names the group used when an option is registered without one.
const DefaultGroup = "DEFAULT"

// DeprecatedOpt is an older name an option used to be known by. An empty Group
// means the alias lives in the same group as the option.
type DeprecatedOpt struct {
	Name  string
	Group string
}

// Opt describes a single configuration option.
type Opt struct {
	Name       string
	Dest       string
	Type       Type
	Default    any
	Help       string
	Secret     bool
	Deprecated []DeprecatedOpt
}

// DestName is the canonical key the option is stored and looked up under.
func (o Opt) DestName() string {
	if o.Dest != "" {
		return o.Dest
	}
	return strings.ReplaceAll(o.Name, "-", "_")
}

// ValueType returns the declared type, String when none was given.
func (o Opt) ValueType() Type {
	if o.Type == nil {
		return String
	}
	return o.Type
}

// Convert parses a raw string into the option's type.
func (o Opt) Convert(raw string) (any, error) {
	return o.ValueType().Parse(raw)
}

// Coerce converts a value produced by a typed source (a TOML integer, a YAML
// list) into the option's type.
func (o Opt) Coerce(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	t := o.ValueType()
	if c, ok := t.(Coercer); ok {
		return c.Coerce(v)
	}
	switch val := v.(type) {
	case string:
		return t.Parse(val)
	case []any, map[string]any:
		return nil, fmt.Errorf("cannot use %T as %s", v, t.Name())
	default:
		return t.Parse(fmt.Sprint(val))
	}
}

// Equal reports whether two declarations describe the same option. Used to make
// repeated registration idempotent.
func (o Opt) Equal(other Opt) bool {
	if o.Name != other.Name || o.DestName() != other.DestName() {
		return false
	}
	if o.ValueType().Name() != other.ValueType().Name() {
		return false
	}
	if fmt.Sprint(o.Default) != fmt.Sprint(other.Default) || o.Secret != other.Secret {
		return false
	}
	if len(o.Deprecated) != len(other.Deprecated) {
		return false
	}
	for i := range o.Deprecated {
		if o.Deprecated[i] != other.Deprecated[i] {
			return false
		}
	}
	return true
}

// Group is a named list of options.
type Group struct {
	Name string
	Opts []Opt
}

// Schema is an ordered list of groups. Group names may repeat; lookups only
// ever see the first occurrence.
type Schema []Group

// Lookup returns the first group named name.
func (s Schema) Lookup(name string) (Group, bool) {
	for _, g := range s {
		if g.Name == name {
			return g, true
		}
	}
	return Group{}, false
}

// Names lists group names in schema order, duplicates included.
func (s Schema) Names() []string {
	out := make([]string, 0, len(s))
	for _, g := range s {
		out = append(out, g.Name)
	}
	return out
}
