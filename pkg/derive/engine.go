// Package derive recomputes derived field values from their parents. Formulas
// run inside a restricted expression engine: the only names visible to a
// formula are its positional parent bindings, and there is no access to
// ambient state, I/O, or user-registered functions.
package derive

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/goliatone/go-formbuilder/pkg/schema"
)

// Sentinel is stored as a derived field's value whenever its formula cannot
// be compiled or evaluated. Failures never propagate to the caller.
const Sentinel = "Error"

// Engine evaluates derivation formulas, caching compiled programs per formula
// text. Compilation failures are not cached so a formula that only fails for
// certain parent types can still succeed later.
type Engine struct {
	mu       sync.RWMutex
	programs map[string]*vm.Program
}

// NewEngine returns an Engine with an empty program cache.
func NewEngine() *Engine {
	return &Engine{programs: make(map[string]*vm.Program)}
}

// Recompute returns a copy of state in which every derived field's value has
// been recomputed from its parents' current values, walking fields in
// declaration order so forward chains settle within a pass. Recomputing an
// already-settled state yields an equal state.
func (e *Engine) Recompute(form schema.FormSchema, state map[string]schema.Value) map[string]schema.Value {
	next := make(map[string]schema.Value, len(state))
	for id, value := range state {
		next[id] = value
	}
	for _, field := range form.Fields {
		if !field.IsDerived {
			continue
		}
		next[field.ID] = schema.StringValue(e.evaluate(field, next))
	}
	return next
}

// Validate reports whether the formula compiles against the given number of
// positional parent bindings. Parents bind as numbers or as strings at run
// time, so the formula is accepted when it compiles against either; malformed
// expressions and out-of-range bindings fail both. Builders call this before
// accepting a derived field configuration.
func (e *Engine) Validate(formula string, parents int) error {
	env := make(map[string]any, parents)
	for i := 0; i < parents; i++ {
		env[bindingName(i)] = float64(0)
	}
	_, numErr := expr.Compile(formula, expr.Env(env))
	if numErr == nil {
		return nil
	}
	for i := 0; i < parents; i++ {
		env[bindingName(i)] = ""
	}
	if _, err := expr.Compile(formula, expr.Env(env)); err != nil {
		return fmt.Errorf("derive: compile formula: %w", numErr)
	}
	return nil
}

func (e *Engine) evaluate(field schema.Field, state map[string]schema.Value) string {
	env := make(map[string]any, len(field.ParentFields))
	for i, parentID := range field.ParentFields {
		value, ok := state[parentID]
		if !ok {
			return Sentinel
		}
		env[bindingName(i)] = bind(value)
	}

	program, err := e.program(field.DerivationFormula, env)
	if err != nil {
		return Sentinel
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return Sentinel
	}
	return stringify(out)
}

func (e *Engine) program(formula string, env map[string]any) (*vm.Program, error) {
	e.mu.RLock()
	if program, ok := e.programs[formula]; ok {
		e.mu.RUnlock()
		return program, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if program, ok := e.programs[formula]; ok {
		return program, nil
	}
	program, err := expr.Compile(formula, expr.Env(env))
	if err != nil {
		return nil, err
	}
	e.programs[formula] = program
	return program, nil
}

// bindingName maps the i-th parent to its positional formula name: the first
// parent is parentField1, matching the naming stored formulas have always
// used.
func bindingName(i int) string {
	return fmt.Sprintf("parentField%d", i+1)
}

// bind converts a stored value into its formula-facing form. Scalars that
// parse as numbers bind as float64 so arithmetic over number fields works;
// everything else binds as-is and fails arithmetic at evaluation time, which
// lands on the sentinel.
func bind(value schema.Value) any {
	if value.IsList() {
		return value.List()
	}
	raw := value.String()
	if trimmed := strings.TrimSpace(raw); trimmed != "" {
		if parsed, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return parsed
		}
	}
	return raw
}

func stringify(out any) string {
	switch v := out.(type) {
	case nil:
		return Sentinel
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
