package cfgx

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
)

// DefaultTagName is the struct tag read when no WithTagName option is given.
const DefaultTagName = "koanf"

var (
	ErrMerge    = errors.New("cfgx: merge failed")
	ErrDecode   = errors.New("cfgx: decode failed")
	ErrValidate = errors.New("cfgx: validation failed")
	ErrOption   = errors.New("cfgx: invalid option")
)

// StageError reports which step of Build failed. Key is set when the failure
// can be tied to a single input key.
type StageError struct {
	Stage error
	Key   string
	Err   error
}

func (e *StageError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%v: %s: %v", e.Stage, e.Key, e.Err)
	}
	return fmt.Sprintf("%v: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() []error {
	return []error{e.Stage, e.Err}
}

// Build decodes input, with every WithMerge overlay applied in order, into a T.
// T may be a struct or a pointer to one.
func Build[T any](input map[string]any, opts ...Option[T]) (T, error) {
	var out T

	s := settings[T]{tag: DefaultTagName}
	for _, o := range opts {
		if o != nil {
			o(&s)
		}
	}
	if s.err != nil {
		return out, &StageError{Stage: ErrOption, Err: s.err}
	}

	values := cloneMap(input)
	for _, overlay := range s.overlays {
		if err := mergeInto(values, overlay, ""); err != nil {
			return out, err
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          s.tag,
		Result:           target(&out),
		WeaklyTypedInput: true,
		ErrorUnused:      s.strict,
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(append(DefaultDecodeHooks(), s.hooks...)...),
	})
	if err != nil {
		return out, &StageError{Stage: ErrDecode, Err: err}
	}
	if err := decoder.Decode(values); err != nil {
		return out, &StageError{Stage: ErrDecode, Err: err}
	}

	if s.validate != nil {
		if err := s.validate(&out); err != nil {
			return out, &StageError{Stage: ErrValidate, Err: err}
		}
	}
	return out, nil
}

// target allocates pointer results so Build[*X] decodes like Build[X].
func target[T any](out *T) any {
	v := reflect.ValueOf(out).Elem()
	if v.Kind() != reflect.Pointer {
		return out
	}
	if v.IsNil() {
		v.Set(reflect.New(v.Type().Elem()))
	}
	return v.Interface()
}

func cloneMap(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		if nested, ok := v.(map[string]any); ok {
			v = cloneMap(nested)
		}
		dst[k] = v
	}
	return dst
}

// mergeInto writes overlay over dst. Nested maps merge key by key; a nested
// map may not replace a scalar.
func mergeInto(dst, overlay map[string]any, prefix string) error {
	for k, v := range overlay {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		incoming, isMap := v.(map[string]any)
		if !isMap {
			dst[k] = v
			continue
		}
		switch existing := dst[k].(type) {
		case nil:
			dst[k] = cloneMap(incoming)
		case map[string]any:
			if err := mergeInto(existing, incoming, key); err != nil {
				return err
			}
		default:
			return &StageError{Stage: ErrMerge, Key: key, Err: fmt.Errorf("cannot merge a map over %T", existing)}
		}
	}
	return nil
}
