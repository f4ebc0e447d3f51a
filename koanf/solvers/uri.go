package solvers

import (
	"encoding/base64"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/v2"
)

// ProtocolFunc resolves the part of a URI value that follows the protocol.
type ProtocolFunc func(fsys fs.FS, rest string) (string, error)

type uris struct {
	fs         fs.FS
	delimeters *delimiters
	protocols  map[string]ProtocolFunc
}

// NewURISolver resolves values of the form @file://path, @base64://data and
// @env://NAME. Secrets such as admin passwords are usually kept out of the
// main config file this way.
func NewURISolver(s, e string) ConfigSolver {
	return NewURISolverWithFS(s, e, os.DirFS("."))
}

func NewURISolverWithFS(s, e string, f fs.FS) ConfigSolver {
	return &uris{
		fs: f,
		delimeters: &delimiters{
			Start: s,
			End:   e,
		},
		protocols: map[string]ProtocolFunc{
			"file":   SolveFileProtocol,
			"base64": SolveBase64DecodeProtocol,
			"env":    SolveEnvProtocol,
		},
	}
}

func (s uris) Solve(config *koanf.Koanf) *koanf.Koanf {
	for key, val := range config.All() {
		str, ok := val.(string)
		if !ok || !strings.HasPrefix(str, s.delimeters.Start) {
			continue
		}
		s.keypath(key, str, config)
	}
	return config
}

func (s uris) keypath(key, val string, config *koanf.Koanf) {
	body := val[len(s.delimeters.Start):]
	end := strings.Index(body, s.delimeters.End)
	if end <= 0 {
		return
	}

	protocol := body[:end]
	rest := body[end+len(s.delimeters.End):]

	solve, ok := s.protocols[protocol]
	if !ok {
		return
	}
	if content, err := solve(s.fs, rest); err == nil {
		config.Set(key, content)
	}
}

func SolveFileProtocol(f fs.FS, uri string) (string, error) {
	b, err := fs.ReadFile(f, strings.TrimPrefix(uri, "/"))
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), "\n"), nil
}

func SolveBase64DecodeProtocol(_ fs.FS, uri string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(uri)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func SolveEnvProtocol(_ fs.FS, name string) (string, error) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return "", fmt.Errorf("environment variable %s not set", name)
	}
	return v, nil
}
