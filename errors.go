package authconfig

import (
	"fmt"
)

// ConfigurationError reports an override whose value cannot be converted to
// the option's declared type.
type ConfigurationError struct {
	Key string
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("unable to convert the value of %s option into correct type: %v", e.Key, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// TypeError is returned by the typed accessors when a resolved value has a
// different Go type than requested.
type TypeError struct {
	Name string
	Want string
	Got  any
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("option %s: expected %s, got %T", e.Name, e.Want, e.Got)
}
