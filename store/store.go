// Package store holds resolved configuration values for registered options.
//
// A Store answers lookups by (group, option) and reports unknown options with
// a *NoSuchOptionError. KoanfStore is the bundled implementation: it loads
// config files, environment variables and flags through koanf, then coerces
// the loaded values to each registered option's type at lookup time.
package store

import (
	goerrors "errors"
	"fmt"

	"github.com/goliatone/go-authconfig/opt"
)

// Store is the schema store contract consumed by config views.
type Store interface {
	Register(group string, opts ...opt.Opt) error
	Lookup(group, name string) (any, error)
	Project() (string, error)
}

// GroupReader is implemented by stores that can list every value in a group.
type GroupReader interface {
	Values(group string) (map[string]any, error)
}

var (
	ErrNoSuchOption    = goerrors.New("no such option")
	ErrDuplicateOption = goerrors.New("duplicate option")
	ErrInvalidOption   = goerrors.New("invalid option")
	ErrInvalidDefault  = goerrors.New("invalid default value")
	ErrInvalidValue    = goerrors.New("invalid option value")
)

// NoSuchOptionError reports a lookup for an option that was never registered.
// An empty Group means a store-wide property.
type NoSuchOptionError struct {
	Group string
	Name  string
}

func (e *NoSuchOptionError) Error() string {
	if e.Group == "" {
		return fmt.Sprintf("no such option %s", e.Name)
	}
	return fmt.Sprintf("no such option %s in group %s", e.Name, e.Group)
}

func (e *NoSuchOptionError) Is(target error) bool {
	return target == ErrNoSuchOption
}

// IsNoSuchOption reports whether err signals a missing option.
func IsNoSuchOption(err error) bool {
	return goerrors.Is(err, ErrNoSuchOption)
}
