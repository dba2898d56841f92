// Package filter evaluates boolean expressions against records, for the
// --where flag of list commands. Expressions use expr-lang syntax and see the
// record's JSON fields as variables:
//
//	price > 10 && stock < 50
//	completed == false
//	user.username startsWith "emily"
package filter

import (
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// ErrInvalidExpression is returned for expressions that do not compile.
var ErrInvalidExpression = errors.New("invalid filter expression")

// Filter is a compiled expression. The zero value and nil match everything.
type Filter struct {
	expression string
	program    *exprvm.Program
}

// Compile parses expression. An empty expression yields a filter that
// matches every record.
func Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return &Filter{}, nil
	}
	program, err := exprlang.Compile(expression,
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "compiling %q", expression), ErrInvalidExpression)
	}
	return &Filter{expression: expression, program: program}, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.expression
}

// Match reports whether record satisfies the expression. record is
// converted to its JSON object form first, so field names follow the JSON
// tags. A result that is not a boolean is an error.
func (f *Filter) Match(record any) (bool, error) {
	if f == nil || f.program == nil {
		return true, nil
	}
	env, err := environment(record)
	if err != nil {
		return false, err
	}
	out, err := exprlang.Run(f.program, env)
	if err != nil {
		return false, errors.Wrapf(err, "evaluating %q", f.expression)
	}
	ok, isBool := out.(bool)
	if !isBool {
		return false, errors.Newf("filter %q returned %T, not a boolean", f.expression, out)
	}
	return ok, nil
}

// Keep returns the records of items matching f, stopping at the first
// evaluation error.
func Keep[T any](f *Filter, items []T) ([]T, error) {
	if f == nil || f.program == nil {
		return items, nil
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		ok, err := f.Match(item)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func environment(record any) (map[string]any, error) {
	if m, ok := record.(map[string]any); ok {
		return m, nil
	}
	buf, err := json.Marshal(record)
	if err != nil {
		return nil, errors.Wrap(err, "encoding record for filter")
	}
	env := make(map[string]any)
	if err := json.Unmarshal(buf, &env); err != nil {
		return nil, errors.Wrap(err, "filter records must be JSON objects")
	}
	return env, nil
}
