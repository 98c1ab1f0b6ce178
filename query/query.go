// Package query filters records with expr-lang boolean expressions, such as
//
//	status == "FAILED" && ts_id == "TS01"
//	severity in ["High", "Critical"] && note contains "login"
//
// Field names match the JSON keys of the data file.
package query

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/qadesk/qadesk/model"
)

// Filter is a compiled expression. A nil Filter matches every record.
type Filter struct {
	src     string
	program *vm.Program
}

// CompileCases compiles src against the test case fields. An empty src
// returns a nil Filter.
func CompileCases(src string) (*Filter, error) {
	return compile(src, CaseEnv(model.TestCase{}))
}

// CompileBugs compiles src against the bug report fields. An empty src
// returns a nil Filter.
func CompileBugs(src string) (*Filter, error) {
	return compile(src, BugEnv(model.BugReport{}))
}

func compile(src string, env map[string]any) (*Filter, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, nil
	}
	program, err := expr.Compile(src, expr.Env(env), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", src, err)
	}
	return &Filter{src: src, program: program}, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.src
}

// Match evaluates the filter against env.
func (f *Filter) Match(env map[string]any) (bool, error) {
	if f == nil {
		return true, nil
	}
	out, err := expr.Run(f.program, env)
	if err != nil {
		return false, fmt.Errorf("eval filter %q: %w", f.src, err)
	}
	ok, isBool := out.(bool)
	if !isBool {
		return false, fmt.Errorf("filter %q did not return bool (got %T)", f.src, out)
	}
	return ok, nil
}

// Cases returns the cases matching f, keeping their order.
func (f *Filter) Cases(cases []model.TestCase) ([]model.TestCase, error) {
	return apply(f, cases, CaseEnv)
}

// Bugs returns the bug reports matching f, keeping their order.
func (f *Filter) Bugs(bugs []model.BugReport) ([]model.BugReport, error) {
	return apply(f, bugs, BugEnv)
}

func apply[T any](f *Filter, items []T, env func(T) map[string]any) ([]T, error) {
	if f == nil {
		return items, nil
	}
	out := []T{}
	for _, it := range items {
		ok, err := f.Match(env(it))
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, it)
		}
	}
	return out, nil
}

// CaseEnv exposes a test case to expressions.
func CaseEnv(tc model.TestCase) map[string]any {
	return map[string]any{
		"id":            tc.ID,
		"title":         tc.Title,
		"preconditions": tc.Preconditions,
		"ts_id":         string(tc.ScenarioID),
		"steps":         stepsOf(tc.Steps),
		"expected":      tc.Expected,
		"actual":        tc.Actual,
		"status":        string(tc.Status),
	}
}

// BugEnv exposes a bug report to expressions. created_at is the formatted
// timestamp, so it compares lexically in time order.
func BugEnv(b model.BugReport) map[string]any {
	created := ""
	if !b.CreatedAt.IsZero() {
		created = b.CreatedAt.String()
	}
	return map[string]any{
		"id":         b.ID,
		"title":      b.Title,
		"related_tc": string(b.RelatedCase),
		"steps":      stepsOf(b.Steps),
		"expected":   b.Expected,
		"actual":     b.Actual,
		"severity":   string(b.Severity),
		"note":       b.Note,
		"screenshot": string(b.Screenshot),
		"created_at": created,
	}
}

func stepsOf(steps []string) []string {
	if steps == nil {
		return []string{}
	}
	return steps
}
