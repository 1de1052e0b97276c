package schema

import (
	"errors"
	"fmt"
	"strings"
)

var (
	errNameMissing   = errors.New("schema: form name is required")
	errNoFields      = errors.New("schema: form has no fields")
	errCyclicParents = errors.New("schema: derived fields form a cycle")
)

// Validate checks the schema invariants: unique non-empty field ids, options
// only on choice fields, complete derivation wiring, and an acyclic
// derived-field dependency graph. Cyclic parentFields references are rejected
// here so the preview runtime never has to resolve them.
func (s FormSchema) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return errNameMissing
	}
	if len(s.Fields) == 0 {
		return errNoFields
	}

	ids := make(map[string]struct{}, len(s.Fields))
	for _, field := range s.Fields {
		if field.ID == "" {
			return fmt.Errorf("schema: field %q has no id", field.Label)
		}
		if _, exists := ids[field.ID]; exists {
			return fmt.Errorf("schema: duplicate field id %q", field.ID)
		}
		ids[field.ID] = struct{}{}
	}

	for _, field := range s.Fields {
		if err := field.Validate(); err != nil {
			return err
		}
		for _, parentID := range field.ParentFields {
			if parentID == field.ID {
				return fmt.Errorf("schema: field %q lists itself as a parent", field.ID)
			}
			if _, ok := ids[parentID]; !ok {
				return fmt.Errorf("schema: field %q references unknown parent %q", field.ID, parentID)
			}
		}
	}

	if err := s.checkCycles(); err != nil {
		return err
	}
	return nil
}

// Validate checks the invariants a field must hold on its own, independent of
// its siblings.
func (f Field) Validate() error {
	if !f.Type.Valid() {
		return fmt.Errorf("schema: field %q has unsupported type %q", f.ID, f.Type)
	}

	if f.Type.HasOptions() {
		if len(f.Options) == 0 {
			return fmt.Errorf("schema: %s field %q needs at least one option", f.Type, f.ID)
		}
		seen := make(map[string]struct{}, len(f.Options))
		for _, option := range f.Options {
			if option.Value == "" {
				return fmt.Errorf("schema: field %q has an option without a value", f.ID)
			}
			if _, exists := seen[option.Value]; exists {
				return fmt.Errorf("schema: field %q has duplicate option value %q", f.ID, option.Value)
			}
			seen[option.Value] = struct{}{}
		}
	} else if len(f.Options) > 0 {
		return fmt.Errorf("schema: %s field %q cannot have options", f.Type, f.ID)
	}

	if f.Type == FieldTypeCheckbox {
		if !f.DefaultValue.IsList() && !f.DefaultValue.Empty() {
			return fmt.Errorf("schema: checkbox field %q needs a list default", f.ID)
		}
	} else if f.DefaultValue.IsList() {
		return fmt.Errorf("schema: %s field %q cannot have a list default", f.Type, f.ID)
	}

	if f.IsDerived {
		if len(f.ParentFields) == 0 {
			return fmt.Errorf("schema: derived field %q has no parent fields", f.ID)
		}
		if strings.TrimSpace(f.DerivationFormula) == "" {
			return fmt.Errorf("schema: derived field %q has no formula", f.ID)
		}
		if len(f.ValidationRules) > 0 {
			return fmt.Errorf("schema: derived field %q cannot have validation rules", f.ID)
		}
		return nil
	}

	if len(f.ParentFields) > 0 || f.DerivationFormula != "" {
		return fmt.Errorf("schema: field %q has derivation wiring but is not derived", f.ID)
	}

	for _, rule := range f.ValidationRules {
		if !rule.Type.Valid() {
			return fmt.Errorf("schema: field %q has unsupported rule type %q", f.ID, rule.Type)
		}
		if rule.Type.HasBound() && rule.Value < 0 {
			return fmt.Errorf("schema: field %q has negative %s bound", f.ID, rule.Type)
		}
		if rule.Message == "" {
			return fmt.Errorf("schema: field %q has a %s rule without a message", f.ID, rule.Type)
		}
	}
	return nil
}

// checkCycles walks the parent graph of derived fields depth-first. Parents
// that are not derived terminate a path; revisiting a field on the current
// path means the configuration is cyclic.
func (s FormSchema) checkCycles() error {
	const (
		unvisited = iota
		visiting
		done
	)

	states := make(map[string]int, len(s.Fields))
	byID := make(map[string]Field, len(s.Fields))
	for _, field := range s.Fields {
		byID[field.ID] = field
	}

	var visit func(id string) error
	visit = func(id string) error {
		switch states[id] {
		case visiting:
			return fmt.Errorf("%w: field %q", errCyclicParents, id)
		case done:
			return nil
		}
		states[id] = visiting
		field := byID[id]
		if field.IsDerived {
			for _, parentID := range field.ParentFields {
				if err := visit(parentID); err != nil {
					return err
				}
			}
		}
		states[id] = done
		return nil
	}

	for _, field := range s.Fields {
		if !field.IsDerived {
			continue
		}
		if err := visit(field.ID); err != nil {
			return err
		}
	}
	return nil
}
