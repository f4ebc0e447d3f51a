package env

import (
	"errors"
	"os"
	"strings"

	"github.com/tidwall/sjson"
)

// KeyFunc maps an environment variable name to a config path. Returning an
// empty string drops the variable.
type KeyFunc func(name string) string

// Env reads prefixed environment variables into a JSON document so nested
// group/option paths and array indexes survive the trip through koanf:
//
//	KEYSTONE_AUTH__ROLES__0=admin
//	KEYSTONE_AUTH__ROLES__1=member
//	KEYSTONE_AUTH__AUTH_URL=http://keystone:5000
//
// With delim "__" and a key func that trims the prefix and lowercases the
// rest, that yields {"auth": {"roles": ["admin", "member"], "auth_url": "..."}}.
type Env struct {
	prefix  string
	delim   string
	keyFn   KeyFunc
	environ func() []string
}

// Provider returns an env provider. Only variables starting with prefix
// (case sensitive) are read. delim separates nesting levels in the variable
// name after keyFn has run.
func Provider(prefix, delim string, keyFn KeyFunc) *Env {
	return &Env{
		prefix:  prefix,
		delim:   delim,
		keyFn:   keyFn,
		environ: os.Environ,
	}
}

// WithEnviron replaces the variable source, used by tests.
func (e *Env) WithEnviron(fn func() []string) *Env {
	if fn != nil {
		e.environ = fn
	}
	return e
}

// ReadBytes returns the matching variables as a JSON object.
func (e *Env) ReadBytes() ([]byte, error) {
	out := "{}"
	for _, kv := range e.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, e.prefix) {
			continue
		}

		key := name
		if e.keyFn != nil {
			key = e.keyFn(name)
		}
		if key == "" {
			continue
		}

		path := key
		if e.delim != "" {
			path = strings.ReplaceAll(key, e.delim, ".")
		}

		next, err := sjson.Set(out, path, value)
		if err != nil {
			return nil, err
		}
		out = next
	}
	return []byte(out), nil
}

// Read is not supported, the provider is meant to be paired with a JSON parser.
func (e *Env) Read() (map[string]any, error) {
	return nil, errors.New("env provider does not support Read, use ReadBytes")
}
