package store

import (
	"time"

	"github.com/goliatone/go-authconfig/koanf/solvers"
	"github.com/goliatone/go-authconfig/logger"
	"github.com/spf13/pflag"
)

var DefaultLoadTimeout = 30 * time.Second

type Option func(*KoanfStore)

// WithDefaultConfigFiles sets the files loaded at Init, in order, later files
// winning. Empty paths are dropped. When at least one path remains, file
// discovery is skipped and every listed file must exist.
func WithDefaultConfigFiles(paths ...string) Option {
	return func(s *KoanfStore) {
		files := make([]string, 0, len(paths))
		for _, p := range paths {
			if p != "" {
				files = append(files, p)
			}
		}
		s.defaultFiles = files
	}
}

// WithSearchDirs replaces the directories probed for <project>.<ext> files.
// Directories are listed lowest precedence first.
func WithSearchDirs(dirs ...string) Option {
	return func(s *KoanfStore) {
		s.searchDirs = append([]string{}, dirs...)
		s.searchDirsSet = true
	}
}

// WithValidateDefaults checks every registered default against its type.
func WithValidateDefaults(enabled bool) Option {
	return func(s *KoanfStore) {
		s.validateDefaults = enabled
	}
}

// WithEnvPrefix overrides the env prefix, by default PROJECT_.
// An empty prefix disables the env source.
func WithEnvPrefix(prefix string) Option {
	return func(s *KoanfStore) {
		s.envPrefix = prefix
		s.envPrefixSet = true
	}
}

func WithFlags(fs *pflag.FlagSet) Option {
	return func(s *KoanfStore) {
		s.flags = fs
	}
}

// WithStructDefaults seeds values from a struct tagged with koanf.
func WithStructDefaults(v any) Option {
	return func(s *KoanfStore) {
		s.structDefaults = v
	}
}

// WithMapDefaults seeds values from a map keyed by group.option paths. Map
// defaults load after struct defaults.
func WithMapDefaults(values map[string]any) Option {
	return func(s *KoanfStore) {
		s.mapDefaults = values
	}
}

func WithProvider(builders ...ProviderBuilder) Option {
	return func(s *KoanfStore) {
		for _, b := range builders {
			if b != nil {
				s.extraProviders = append(s.extraProviders, b)
			}
		}
	}
}

// WithSolvers replaces the solver list, allowing explicit ordering.
func WithSolvers(slvrs ...solvers.ConfigSolver) Option {
	return func(s *KoanfStore) {
		s.solvers = append([]solvers.ConfigSolver{}, slvrs...)
	}
}

// WithExpressions appends the `{{ expr }}` solver to the solver list. Values
// are only evaluated when this option is given.
func WithExpressions(options ...solvers.ExpressionOption) Option {
	return func(s *KoanfStore) {
		s.solvers = append(s.solvers, solvers.NewExpressionSolver(options...))
	}
}

// WithSolverPasses sets the maximum number of solver passes (minimum 1).
func WithSolverPasses(passes int) Option {
	return func(s *KoanfStore) {
		if passes < 1 {
			passes = 1
		}
		s.solverPasses = passes
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(s *KoanfStore) {
		s.loadTimeout = timeout
	}
}

func WithLogger(l logger.Logger) Option {
	return func(s *KoanfStore) {
		if l != nil {
			s.logger = l
		}
	}
}
