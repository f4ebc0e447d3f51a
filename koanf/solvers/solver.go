package solvers

import (
	"fmt"

	"github.com/knadh/koanf/v2"
)

// ConfigSolver rewrites values in a loaded config, typically replacing
// placeholders with values found elsewhere.
type ConfigSolver interface {
	Solve(config *koanf.Koanf) *koanf.Koanf
}

func ToString(v any) string {
	return fmt.Sprint(v)
}

type delimiters struct {
	Start string
	End   string
}
