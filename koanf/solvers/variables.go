package solvers

import (
	"strings"

	"github.com/knadh/koanf/v2"
)

type variables struct {
	delimeters *delimiters
}

// NewVariablesSolver replaces references such as ${auth.region} with the
// value found at that path. A value made of a single reference keeps the
// referenced value's type; references embedded in text are stringified.
// Unknown paths are left untouched.
func NewVariablesSolver(s, e string) ConfigSolver {
	return &variables{
		delimeters: &delimiters{
			Start: s,
			End:   e,
		},
	}
}

func (s variables) Solve(context *koanf.Koanf) *koanf.Koanf {
	for key, val := range context.All() {
		str, ok := val.(string)
		if !ok {
			continue
		}
		if next, changed := s.resolve(str, context); changed {
			context.Set(key, next)
		}
	}
	return context
}

func (s variables) resolve(val string, context *koanf.Koanf) (any, bool) {
	start, end := s.delimeters.Start, s.delimeters.End

	if strings.HasPrefix(val, start) && strings.HasSuffix(val, end) {
		path := val[len(start) : len(val)-len(end)]
		if path != "" && !strings.Contains(path, start) && context.Exists(path) {
			return context.Get(path), true
		}
	}

	var (
		b       strings.Builder
		changed bool
		rest    = val
	)
	for {
		i := strings.Index(rest, start)
		if i == -1 {
			b.WriteString(rest)
			break
		}
		j := strings.Index(rest[i+len(start):], end)
		if j == -1 {
			b.WriteString(rest)
			break
		}
		path := rest[i+len(start) : i+len(start)+j]
		ref := rest[i : i+len(start)+j+len(end)]

		b.WriteString(rest[:i])
		if path != "" && context.Exists(path) {
			b.WriteString(ToString(context.Get(path)))
			changed = true
		} else {
			b.WriteString(ref)
		}
		rest = rest[i+len(ref):]
	}

	return b.String(), changed
}
