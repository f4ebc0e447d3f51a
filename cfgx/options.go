package cfgx

import (
	"errors"

	"github.com/go-viper/mapstructure/v2"
)

type settings[T any] struct {
	tag      string
	overlays []map[string]any
	hooks    []mapstructure.DecodeHookFunc
	strict   bool
	validate func(*T) error
	err      error
}

type Option[T any] func(*settings[T])

// WithMerge layers overlays over the input, later overlays winning.
func WithMerge[T any](overlays ...map[string]any) Option[T] {
	return func(s *settings[T]) {
		for _, o := range overlays {
			if o != nil {
				s.overlays = append(s.overlays, o)
			}
		}
	}
}

// WithTagName overrides the struct tag field names are read from.
func WithTagName[T any](tag string) Option[T] {
	return func(s *settings[T]) {
		if tag != "" {
			s.tag = tag
		}
	}
}

// WithDecodeHooks runs hooks after the default set.
func WithDecodeHooks[T any](hooks ...mapstructure.DecodeHookFunc) Option[T] {
	return func(s *settings[T]) {
		for _, h := range hooks {
			if h != nil {
				s.hooks = append(s.hooks, h)
			}
		}
	}
}

// WithStrictKeys fails when the merged input carries keys T has no field for.
func WithStrictKeys[T any]() Option[T] {
	return func(s *settings[T]) {
		s.strict = true
	}
}

// WithValidator registers the post-decode check. Only one is allowed.
func WithValidator[T any](fn func(*T) error) Option[T] {
	return func(s *settings[T]) {
		if fn == nil {
			return
		}
		if s.validate != nil {
			s.err = errors.New("validator already registered")
			return
		}
		s.validate = fn
	}
}

// WithValidatorFunc is WithValidator for value receivers, e.g. Config.Validate.
func WithValidatorFunc[T any](fn func(T) error) Option[T] {
	if fn == nil {
		return nil
	}
	return WithValidator(func(v *T) error {
		return fn(*v)
	})
}
