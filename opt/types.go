package opt

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Type converts the string form of an option value into its typed form.
type Type interface {
	Name() string
	Parse(raw string) (any, error)
}

// Coercer is implemented by types that can accept structured values coming
// from typed file formats (lists, tables) without going through a string.
type Coercer interface {
	Coerce(v any) (any, error)
}

type funcType struct {
	name  string
	parse func(string) (any, error)
}

func (t funcType) Name() string { return t.name }

func (t funcType) Parse(raw string) (any, error) { return t.parse(raw) }

// NewType wraps a parse function as a Type.
func NewType(name string, parse func(string) (any, error)) Type {
	return funcType{name: name, parse: parse}
}

var (
	String Type = NewType("string", func(s string) (any, error) {
		return s, nil
	})

	Integer Type = NewType("integer", func(s string) (any, error) {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", s)
		}
		return n, nil
	})

	Float Type = NewType("float", func(s string) (any, error) {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float %q", s)
		}
		return f, nil
	})

	Boolean Type = NewType("boolean", func(s string) (any, error) {
		return ParseBool(s)
	})

	// Duration accepts Go duration strings and bare integers as seconds.
	Duration Type = NewType("duration", func(s string) (any, error) {
		s = strings.TrimSpace(s)
		if n, err := strconv.Atoi(s); err == nil {
			return time.Duration(n) * time.Second, nil
		}
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("invalid duration %q", s)
		}
		return d, nil
	})

	URI Type = NewType("uri", func(s string) (any, error) {
		s = strings.TrimSpace(s)
		u, err := url.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid uri %q: %v", s, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid uri %q: scheme and host required", s)
		}
		return s, nil
	})

	Port = IntegerRange(0, 65535)

	List Type = listType{}

	Dict Type = dictType{}
)

// ParseBool parses canonical and common boolean aliases.
func ParseBool(s string) (bool, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "1", "t", "true", "y", "yes", "on":
		return true, nil
	case "0", "f", "false", "n", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", s)
	}
}

// IntegerRange is an Integer bounded to [min, max].
func IntegerRange(min, max int) Type {
	name := fmt.Sprintf("integer(%d..%d)", min, max)
	return NewType(name, func(s string) (any, error) {
		v, err := Integer.Parse(s)
		if err != nil {
			return nil, err
		}
		n := v.(int)
		if n < min || n > max {
			return nil, fmt.Errorf("%d out of range [%d, %d]", n, min, max)
		}
		return n, nil
	})
}

// Choices restricts a string option to the given values. The allowed values
// are part of the type name, so options with different sets are not Equal.
func Choices(values ...string) Type {
	allowed := make(map[string]struct{}, len(values))
	for _, v := range values {
		allowed[v] = struct{}{}
	}
	name := "choices(" + strings.Join(values, "|") + ")"
	return NewType(name, func(s string) (any, error) {
		if _, ok := allowed[s]; !ok {
			return nil, fmt.Errorf("%q is not one of %v", s, values)
		}
		return s, nil
	})
}

type listType struct{}

func (listType) Name() string { return "list" }

func (listType) Parse(raw string) (any, error) {
	out := []string{}
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (l listType) Coerce(v any) (any, error) {
	switch val := v.(type) {
	case []string:
		return val, nil
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, fmt.Sprint(item))
		}
		return out, nil
	case string:
		return l.Parse(val)
	default:
		return l.Parse(fmt.Sprint(val))
	}
}

type dictType struct{}

func (dictType) Name() string { return "dict" }

// Parse reads "k1:v1,k2:v2".
func (dictType) Parse(raw string) (any, error) {
	out := map[string]string{}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("invalid dict entry %q, expected key:value", pair)
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out, nil
}

func (d dictType) Coerce(v any) (any, error) {
	switch val := v.(type) {
	case map[string]string:
		return val, nil
	case map[string]any:
		out := make(map[string]string, len(val))
		for k, item := range val {
			out[k] = fmt.Sprint(item)
		}
		return out, nil
	case string:
		return d.Parse(val)
	default:
		return nil, fmt.Errorf("cannot use %T as dict", v)
	}
}
