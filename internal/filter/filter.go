package filter

import (
	"strings"
	"time"

	"github.com/google/cel-go/cel"

	"github.com/Akash-pugazh/gg-flash-mgr/internal/record"
)

// Filter wraps a compiled CEL program evaluated against one record. When
// built from an empty expression it is disabled and matches everything.
//
// Available variables:
//
//	id          record ID (int)
//	ts          record timestamp, seconds since epoch (int)
//	kind        the record's type tag (int)
//	unit        the record's unit tag (int)
//	value       the measurement as a float (value_x1000 / 1000)
//	value_x1000 the raw fixed-point value (int)
//	now         current time, seconds since epoch (int)
type Filter struct {
	prog    cel.Program
	enabled bool
}

// New compiles expr. An empty (or all-whitespace) expression yields a
// disabled filter.
func New(expr string) (Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Filter{}, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("id", cel.IntType),
		cel.Variable("ts", cel.IntType),
		cel.Variable("kind", cel.IntType),
		cel.Variable("unit", cel.IntType),
		cel.Variable("value", cel.DoubleType),
		cel.Variable("value_x1000", cel.IntType),
		cel.Variable("now", cel.IntType),
	)
	if err != nil {
		return Filter{}, err
	}
	ast, iss := env.Parse(expr)
	if iss != nil && iss.Err() != nil {
		return Filter{}, iss.Err()
	}
	checked, iss2 := env.Check(ast)
	if iss2 != nil && iss2.Err() != nil {
		return Filter{}, iss2.Err()
	}
	prog, err := env.Program(checked)
	if err != nil {
		return Filter{}, err
	}
	return Filter{prog: prog, enabled: true}, nil
}

// Enabled reports whether the filter holds a compiled expression.
func (f Filter) Enabled() bool { return f.enabled }

// Match evaluates the expression against rec. A disabled filter matches
// everything; an evaluation error counts as no match.
func (f Filter) Match(rec record.Record) bool {
	if !f.enabled {
		return true
	}
	out, _, err := f.prog.Eval(map[string]any{
		"id":          int64(rec.ID),
		"ts":          int64(rec.Timestamp),
		"kind":        int64(rec.Type),
		"unit":        int64(rec.Unit),
		"value":       rec.RealValue(),
		"value_x1000": int64(rec.Value),
		"now":         time.Now().Unix(),
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}
