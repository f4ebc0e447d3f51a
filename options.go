package authconfig

import (
	"github.com/goliatone/go-authconfig/logger"
	"github.com/goliatone/go-authconfig/store"
)

type options struct {
	logger    logger.Logger
	shared    store.Store
	storeOpts []store.Option
}

type Option func(*options)

func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSharedStore replaces store.Global as the store used by Default backing.
func WithSharedStore(s store.Store) Option {
	return func(o *options) {
		o.shared = s
	}
}

// WithStoreOptions passes extra options to the store built for ProjectBacked.
func WithStoreOptions(opts ...store.Option) Option {
	return func(o *options) {
		o.storeOpts = append(o.storeOpts, opts...)
	}
}
