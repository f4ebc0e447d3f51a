package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-authconfig/koanf/solvers"
	"github.com/goliatone/go-authconfig/logger"
	"github.com/goliatone/go-authconfig/opt"
	"github.com/goliatone/go-errors"
	"github.com/knadh/koanf/v2"
	"github.com/mitchellh/copystructure"
	"github.com/spf13/pflag"
)

const delimiter = "."

type registeredGroup struct {
	order []string
	opts  map[string]opt.Opt
}

// KoanfStore is a Store backed by a koanf instance. Options are registered per
// group; values come from whatever sources Init loaded and fall back to the
// option default. It is safe for concurrent use.
type KoanfStore struct {
	mu      sync.RWMutex
	k       *koanf.Koanf
	project string
	groups  map[string]*registeredGroup

	defaultFiles     []string
	searchDirs       []string
	searchDirsSet    bool
	validateDefaults bool
	envPrefix        string
	envPrefixSet     bool
	flags            *pflag.FlagSet
	structDefaults   any
	mapDefaults      map[string]any
	extraProviders   []ProviderBuilder
	solvers          []solvers.ConfigSolver
	solverPasses     int
	loadTimeout      time.Duration
	logger           logger.Logger
}

// NewEmpty returns a store with no sources loaded and no project set.
func NewEmpty(opts ...Option) *KoanfStore {
	s := &KoanfStore{
		k:            koanf.New(delimiter),
		groups:       map[string]*registeredGroup{},
		loadTimeout:  DefaultLoadTimeout,
		logger:       logger.NewDefaultLogger("store"),
		solverPasses: 1,
		solvers: []solvers.ConfigSolver{
			solvers.NewVariablesSolver("${", "}"),
			solvers.NewURISolverWithFS("@", "://", os.DirFS("/")),
		},
	}
	for _, o := range opts {
		if o != nil {
			o(s)
		}
	}
	return s
}

// New creates an isolated store and loads it for project.
func New(ctx context.Context, project string, opts ...Option) (*KoanfStore, error) {
	s := NewEmpty(opts...)
	if err := s.Init(ctx, project); err != nil {
		return nil, err
	}
	return s, nil
}

// Init loads every configured source for project and replaces the store's
// values. Registered options are kept. Until Init succeeds with a non-empty
// project, Project reports no such option.
func (s *KoanfStore) Init(ctx context.Context, project string, opts ...Option) error {
	s.mu.Lock()
	for _, o := range opts {
		if o != nil {
			o(s)
		}
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.loadTimeout)
	defer cancel()

	builders := s.providerBuilders(project)
	providers := make([]Provider, 0, len(builders))
	for i, build := range builders {
		p, err := build(s)
		if err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "failed to create provider").
				WithTextCode("PROVIDER_CREATION_FAILED").
				WithMetadata(map[string]any{
					"factory_index":   i,
					"total_factories": len(builders),
				})
		}
		providers = append(providers, p)
	}

	sort.SliceStable(providers, func(i, j int) bool {
		return providers[i].Priority() < providers[j].Priority()
	})

	k := koanf.New(delimiter)
	for i, p := range providers {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "configuration load interrupted").
				WithTextCode("CONFIG_LOAD_CANCELLED")
		}
		if err := p.Load(ctx, k); err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "failed to load configuration from source").
				WithTextCode("CONFIG_LOAD_FAILED").
				WithMetadata(map[string]any{
					"source_type":   p.Type().String(),
					"source_index":  i,
					"total_sources": len(providers),
					"project":       project,
				})
		}
	}

	s.solve(k)

	s.mu.Lock()
	s.k = k
	s.project = project
	s.mu.Unlock()

	s.logger.Info("configuration loaded", "project", project, "sources", len(providers))
	return nil
}

func (s *KoanfStore) providerBuilders(project string) []ProviderBuilder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []ProviderBuilder
	if s.structDefaults != nil {
		out = append(out, StructProvider(s.structDefaults))
	}
	if s.mapDefaults != nil {
		out = append(out, MapProvider(s.mapDefaults, int(PriorityStruct.WithOffset(1))))
	}

	if len(s.defaultFiles) > 0 {
		for i, f := range s.defaultFiles {
			out = append(out, FileProvider(f, int(PriorityConfig.WithOffset(i))))
		}
	} else {
		for i, f := range s.discoverFiles(project) {
			out = append(out, OptionalProvider(FileProvider(f, int(PriorityConfig.WithOffset(i)))))
		}
	}

	prefix := s.envPrefix
	if !s.envPrefixSet && project != "" {
		prefix = envPrefixFor(project)
	}
	if prefix != "" {
		out = append(out, EnvProvider(prefix, DefaultEnvDelimiter))
	}

	if s.flags != nil {
		out = append(out, FlagsProvider(s.flags))
	}

	return append(out, s.extraProviders...)
}

// discoverFiles lists <project>.<ext> candidates, lowest precedence first:
// /etc, /etc/<project>, ~, ~/.<project>.
func (s *KoanfStore) discoverFiles(project string) []string {
	if project == "" {
		return nil
	}

	dirs := s.searchDirs
	if !s.searchDirsSet {
		dirs = []string{"/etc", filepath.Join("/etc", project)}
		if home, err := os.UserHomeDir(); err == nil {
			dirs = append(dirs, home, filepath.Join(home, "."+project))
		}
	}

	var files []string
	for _, dir := range dirs {
		for _, ext := range ConfigFileExtensions {
			files = append(files, filepath.Join(dir, project+ext))
		}
	}
	return files
}

func envPrefixFor(project string) string {
	p := strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(project))
	return p + "_"
}

func (s *KoanfStore) solve(k *koanf.Koanf) {
	if len(s.solvers) == 0 {
		return
	}
	for pass := 0; pass < s.solverPasses; pass++ {
		before, err := copystructure.Copy(k.Raw())
		for _, solver := range s.solvers {
			solver.Solve(k)
		}
		if err == nil && reflect.DeepEqual(before, k.Raw()) {
			return
		}
	}
}

// Register adds options to group. Registering an identical option twice is a
// no-op; registering a different option under an existing destination fails.
func (s *KoanfStore) Register(group string, opts ...opt.Opt) error {
	if group == "" {
		group = opt.DefaultGroup
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[group]
	if !ok {
		g = &registeredGroup{opts: map[string]opt.Opt{}}
		s.groups[group] = g
	}

	for _, o := range opts {
		if o.Name == "" {
			return errors.Wrap(ErrInvalidOption, errors.CategoryBadInput, "option name is required").
				WithTextCode("INVALID_OPTION").
				WithMetadata(map[string]any{"group": group})
		}

		dest := o.DestName()
		if existing, ok := g.opts[dest]; ok {
			if existing.Equal(o) {
				continue
			}
			return errors.Wrap(ErrDuplicateOption, errors.CategoryConflict, "option already registered with a different definition").
				WithTextCode("DUPLICATE_OPTION").
				WithMetadata(map[string]any{"group": group, "option": dest})
		}

		if s.validateDefaults && o.Default != nil {
			if _, err := o.Coerce(o.Default); err != nil {
				return errors.Wrap(fmt.Errorf("%w: %v", ErrInvalidDefault, err), errors.CategoryValidation, "default value does not match option type").
					WithTextCode("INVALID_DEFAULT").
					WithMetadata(map[string]any{
						"group":  group,
						"option": dest,
						"type":   o.ValueType().Name(),
					})
			}
		}

		g.opts[dest] = o
		g.order = append(g.order, dest)
	}
	return nil
}

// Lookup resolves group.name, trying the option's own key, then its deprecated
// names, then its default.
func (s *KoanfStore) Lookup(group, name string) (any, error) {
	if group == "" {
		group = opt.DefaultGroup
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.groups[group]
	if !ok {
		return nil, &NoSuchOptionError{Group: group, Name: name}
	}
	o, ok := g.opts[name]
	if !ok {
		return nil, &NoSuchOptionError{Group: group, Name: name}
	}
	return s.resolve(group, o)
}

func (s *KoanfStore) resolve(group string, o opt.Opt) (any, error) {
	raw, path, found := s.rawValue(group, o)
	if !found {
		def, isString := o.Default.(string)
		if !isString {
			return o.Default, nil
		}
		v, err := o.Convert(def)
		if err != nil {
			return nil, errors.Wrap(fmt.Errorf("%w: %v", ErrInvalidDefault, err), errors.CategoryValidation, "default value does not match option type").
				WithTextCode("INVALID_DEFAULT").
				WithMetadata(map[string]any{"group": group, "option": o.DestName()})
		}
		return v, nil
	}

	v, err := o.Coerce(raw)
	if err != nil {
		meta := map[string]any{
			"group":  group,
			"option": o.DestName(),
			"path":   path,
			"type":   o.ValueType().Name(),
		}
		if !o.Secret {
			meta["value"] = raw
		}
		return nil, errors.Wrap(fmt.Errorf("%w: %v", ErrInvalidValue, err), errors.CategoryValidation, "configured value does not match option type").
			WithTextCode("INVALID_VALUE").
			WithMetadata(meta)
	}
	return v, nil
}

func (s *KoanfStore) rawValue(group string, o opt.Opt) (any, string, bool) {
	path := group + delimiter + o.DestName()
	if s.k.Exists(path) {
		return s.k.Get(path), path, true
	}
	for _, d := range o.Deprecated {
		dg, dn := d.Group, d.Name
		if dg == "" {
			dg = group
		}
		if dn == "" {
			dn = o.DestName()
		}
		depPath := dg + delimiter + dn
		if s.k.Exists(depPath) {
			s.logger.Warn("deprecated option in use", "deprecated", depPath, "replacement", path)
			return s.k.Get(depPath), depPath, true
		}
	}
	return nil, path, false
}

// Values resolves every option registered in group, keyed by destination.
func (s *KoanfStore) Values(group string) (map[string]any, error) {
	if group == "" {
		group = opt.DefaultGroup
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.groups[group]
	if !ok {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(g.order))
	for _, dest := range g.order {
		v, err := s.resolve(group, g.opts[dest])
		if err != nil {
			return nil, err
		}
		out[dest] = v
	}
	return out, nil
}

// Registered lists the options of group in registration order.
func (s *KoanfStore) Registered(group string) []opt.Opt {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.groups[group]
	if !ok {
		return nil
	}
	out := make([]opt.Opt, 0, len(g.order))
	for _, dest := range g.order {
		out = append(out, g.opts[dest])
	}
	return out
}

// Project returns the project the store was initialised for.
func (s *KoanfStore) Project() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.project == "" {
		return "", &NoSuchOptionError{Name: "project"}
	}
	return s.project, nil
}
