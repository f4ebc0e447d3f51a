package solvers

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-authconfig/logger"
	opts "github.com/goliatone/go-options"
	"github.com/knadh/koanf/v2"
)

// EvalError reports a value whose expression failed to compile or evaluate.
type EvalError struct {
	Key  string
	Expr string
	Err  error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("expression %q at %s: %v", e.Expr, e.Key, e.Err)
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

// EvalErrorHandler is called once per failed value, after the solver has
// left the value as it was.
type EvalErrorHandler func(cfg *koanf.Koanf, err *EvalError)

type ExpressionOption func(*expression)

// WithExpressionDelimiters changes the markers around an expression. Empty
// values keep the defaults.
func WithExpressionDelimiters(start, end string) ExpressionOption {
	return func(e *expression) {
		if start != "" {
			e.start = start
		}
		if end != "" {
			e.end = end
		}
	}
}

// WithEvaluator replaces the expr-lang evaluator, e.g. with a CEL one.
func WithEvaluator(ev opts.Evaluator) ExpressionOption {
	return func(e *expression) {
		if ev != nil {
			e.evaluator = ev
		}
	}
}

func WithEvalErrorHandler(h EvalErrorHandler) ExpressionOption {
	return func(e *expression) {
		if h != nil {
			e.onError = h
		}
	}
}

type expression struct {
	start, end string
	evaluator  opts.Evaluator
	onError    EvalErrorHandler
}

// NewExpressionSolver evaluates values that are a single `{{ expr }}` block,
// e.g. `{{ auth.region_name == "RegionOne" }}`. Expressions see the config
// as it was before the pass started, so results do not depend on key order.
// Failed values are kept as they are.
func NewExpressionSolver(options ...ExpressionOption) ConfigSolver {
	e := &expression{
		start:     "{{",
		end:       "}}",
		evaluator: opts.NewExprEvaluator(),
		onError:   func(*koanf.Koanf, *EvalError) {},
	}
	for _, o := range options {
		if o != nil {
			o(e)
		}
	}
	return e
}

func (e *expression) Solve(config *koanf.Koanf) *koanf.Koanf {
	if config == nil {
		return nil
	}

	ctx := opts.RuleContext{Snapshot: config.Raw()}
	for _, key := range config.Keys() {
		src, ok := e.unwrap(config.Get(key))
		if !ok {
			continue
		}

		rule, err := e.evaluator.Compile(src)
		if err != nil {
			e.onError(config, &EvalError{Key: key, Expr: src, Err: err})
			continue
		}
		result, err := rule.Evaluate(ctx)
		if err != nil {
			e.onError(config, &EvalError{Key: key, Expr: src, Err: err})
			continue
		}
		config.Set(key, result)
	}
	return config
}

func (e *expression) unwrap(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || len(s) < len(e.start)+len(e.end) {
		return "", false
	}
	if !strings.HasPrefix(s, e.start) || !strings.HasSuffix(s, e.end) {
		return "", false
	}
	return strings.TrimSpace(s[len(e.start) : len(s)-len(e.end)]), true
}

// LogEvalErrors logs every failure at warn level.
func LogEvalErrors(l logger.Logger) EvalErrorHandler {
	if l == nil {
		l = logger.Nop()
	}
	return func(_ *koanf.Koanf, err *EvalError) {
		l.Warn("expression evaluation failed", "key", err.Key, "expr", err.Expr, "error", err.Err.Error())
	}
}

// RemoveOnEvalError deletes failed keys.
func RemoveOnEvalError() EvalErrorHandler {
	return func(cfg *koanf.Koanf, err *EvalError) {
		cfg.Delete(err.Key)
	}
}

// CollectEvalErrors appends failures to dst.
func CollectEvalErrors(dst *[]*EvalError) EvalErrorHandler {
	return func(_ *koanf.Koanf, err *EvalError) {
		*dst = append(*dst, err)
	}
}
