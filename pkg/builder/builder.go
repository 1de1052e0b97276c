// Package builder assembles form schemas incrementally. A Draft holds an
// ordered field list under edit; Save turns the draft into a validated
// FormSchema ready for the registry.
package builder

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formbuilder/pkg/derive"
	"github.com/goliatone/go-formbuilder/pkg/schema"
)

// Direction moves a field within a draft.
type Direction string

const (
	MoveUp   Direction = "up"
	MoveDown Direction = "down"
)

// ErrFieldNotFound is returned when a draft operation targets an unknown
// field id.
var ErrFieldNotFound = errors.New("builder: field not found")

// Draft is an in-progress form. It is not safe for concurrent use.
type Draft struct {
	fields []schema.Field
}

// NewDraft returns an empty draft.
func NewDraft() *Draft {
	return &Draft{}
}

// NewDraftFrom returns a draft seeded with a copy of the given fields, for
// editing an existing form.
func NewDraftFrom(fields []schema.Field) *Draft {
	return &Draft{fields: append([]schema.Field(nil), fields...)}
}

// AddField appends a new field of the given type with a generated id and a
// placeholder label. Choice fields start with a single seed option so the
// draft stays saveable.
func (d *Draft) AddField(fieldType schema.FieldType) (schema.Field, error) {
	if !fieldType.Valid() {
		return schema.Field{}, fmt.Errorf("builder: unsupported field type %q", fieldType)
	}
	field := schema.Field{
		ID:    "field_" + uuid.NewString(),
		Type:  fieldType,
		Label: fmt.Sprintf("New %s field", fieldType),
	}
	if fieldType.HasOptions() {
		field.Options = []schema.Option{{Label: "Option 1", Value: "option1"}}
	}
	d.fields = append(d.fields, field)
	return field, nil
}

// UpdateField applies mutate to the field with the given id in place.
func (d *Draft) UpdateField(fieldID string, mutate func(*schema.Field)) error {
	for i := range d.fields {
		if d.fields[i].ID == fieldID {
			mutate(&d.fields[i])
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrFieldNotFound, fieldID)
}

// ReplaceField swaps the field with a matching id for the given one, or
// appends it when no field has that id.
func (d *Draft) ReplaceField(field schema.Field) {
	for i := range d.fields {
		if d.fields[i].ID == field.ID {
			d.fields[i] = field
			return
		}
	}
	d.fields = append(d.fields, field)
}

// RemoveField deletes the field with the given id.
func (d *Draft) RemoveField(fieldID string) error {
	for i := range d.fields {
		if d.fields[i].ID == fieldID {
			d.fields = append(d.fields[:i], d.fields[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrFieldNotFound, fieldID)
}

// MoveField swaps the field with its neighbor in the given direction. Moving
// past either end is a no-op.
func (d *Draft) MoveField(fieldID string, direction Direction) error {
	for i := range d.fields {
		if d.fields[i].ID != fieldID {
			continue
		}
		switch direction {
		case MoveUp:
			if i > 0 {
				d.fields[i-1], d.fields[i] = d.fields[i], d.fields[i-1]
			}
		case MoveDown:
			if i < len(d.fields)-1 {
				d.fields[i], d.fields[i+1] = d.fields[i+1], d.fields[i]
			}
		default:
			return fmt.Errorf("builder: unknown direction %q", direction)
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrFieldNotFound, fieldID)
}

// Fields returns a copy of the draft's fields in order.
func (d *Draft) Fields() []schema.Field {
	return append([]schema.Field(nil), d.fields...)
}

// Len reports the number of fields in the draft.
func (d *Draft) Len() int {
	return len(d.fields)
}

// Save freezes the draft into a FormSchema with a generated id and creation
// time, validating the result before returning it.
func (d *Draft) Save(name string) (schema.FormSchema, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return schema.FormSchema{}, errors.New("builder: form name is required")
	}
	if len(d.fields) == 0 {
		return schema.FormSchema{}, errors.New("builder: form has no fields")
	}
	form := schema.FormSchema{
		ID:        "form_" + uuid.NewString(),
		Name:      name,
		Fields:    d.Fields(),
		CreatedAt: time.Now().UTC(),
	}
	if err := form.Validate(); err != nil {
		return schema.FormSchema{}, fmt.Errorf("builder: %w", err)
	}
	engine := derive.NewEngine()
	for _, field := range form.Fields {
		if !field.IsDerived {
			continue
		}
		if err := engine.Validate(field.DerivationFormula, len(field.ParentFields)); err != nil {
			return schema.FormSchema{}, fmt.Errorf("builder: field %q: %w", field.ID, err)
		}
	}
	return form, nil
}

// NewRule returns a rule of the given type with its default message.
func NewRule(ruleType schema.RuleType) schema.ValidationRule {
	return schema.ValidationRule{
		Type:    ruleType,
		Message: fmt.Sprintf("Invalid %s", ruleType),
	}
}

// OptionFromLabel builds an option whose value is the lowercased label with
// spaces removed.
func OptionFromLabel(label string) schema.Option {
	return schema.Option{
		Label: label,
		Value: strings.ReplaceAll(strings.ToLower(label), " ", ""),
	}
}
