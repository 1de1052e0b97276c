package schema

import "time"

// FieldType enumerates the input kinds a form field can take.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeNumber   FieldType = "number"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeSelect   FieldType = "select"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeDate     FieldType = "date"
)

// Valid reports whether the field type is one of the supported kinds.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeText, FieldTypeNumber, FieldTypeTextarea, FieldTypeSelect,
		FieldTypeRadio, FieldTypeCheckbox, FieldTypeDate:
		return true
	default:
		return false
	}
}

// HasOptions reports whether fields of this type carry an option list.
func (t FieldType) HasOptions() bool {
	switch t {
	case FieldTypeSelect, FieldTypeRadio, FieldTypeCheckbox:
		return true
	default:
		return false
	}
}

// RuleType names a validation rule kind.
type RuleType string

const (
	RuleRequired  RuleType = "required"
	RuleMinLength RuleType = "minLength"
	RuleMaxLength RuleType = "maxLength"
	RuleEmail     RuleType = "email"
	RulePassword  RuleType = "password"
)

// Valid reports whether the rule type is one of the supported kinds.
func (t RuleType) Valid() bool {
	switch t {
	case RuleRequired, RuleMinLength, RuleMaxLength, RuleEmail, RulePassword:
		return true
	default:
		return false
	}
}

// HasBound reports whether rules of this type use the numeric Value bound.
func (t RuleType) HasBound() bool {
	return t == RuleMinLength || t == RuleMaxLength
}

// ValidationRule is a single named check applied to a field value. Value is
// the length bound for minLength/maxLength and unused otherwise. Message is
// the user-facing failure text, supplied when the rule is created.
type ValidationRule struct {
	Type    RuleType `json:"type"`
	Value   int      `json:"value,omitempty"`
	Message string   `json:"message"`
}

// Option is one selectable choice on a select, radio or checkbox field.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Field describes a single form input. Derived fields compute their value
// from the listed parent fields through DerivationFormula instead of direct
// user input; they never carry validation rules and are skipped at submit.
type Field struct {
	ID                string           `json:"id"`
	Type              FieldType        `json:"type"`
	Label             string           `json:"label"`
	Required          bool             `json:"required"`
	DefaultValue      Value            `json:"defaultValue"`
	ValidationRules   []ValidationRule `json:"validationRules,omitempty"`
	Options           []Option         `json:"options,omitempty"`
	IsDerived         bool             `json:"isDerived,omitempty"`
	ParentFields      []string         `json:"parentFields,omitempty"`
	DerivationFormula string           `json:"derivationFormula,omitempty"`
}

// SeedValue returns the value a fresh preview session starts with: the
// declared default when present, otherwise an empty scalar, or an empty list
// for checkbox fields.
func (f Field) SeedValue() Value {
	if f.Type == FieldTypeCheckbox {
		if f.DefaultValue.IsList() {
			return f.DefaultValue
		}
		return ListValue()
	}
	return f.DefaultValue
}

// HasRule reports whether the field declares a rule of the given type.
func (f Field) HasRule(ruleType RuleType) bool {
	for _, rule := range f.ValidationRules {
		if rule.Type == ruleType {
			return true
		}
	}
	return false
}

// FormSchema is a saved, named form definition. Field order is both the
// display order and the dependency order for derived fields. ID and CreatedAt
// are assigned when a draft is saved; drafts carry zero values for both.
type FormSchema struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Fields    []Field   `json:"fields"`
	CreatedAt time.Time `json:"createdAt"`
}

// Field returns the field with the given id.
func (s FormSchema) Field(id string) (Field, bool) {
	for _, field := range s.Fields {
		if field.ID == id {
			return field, true
		}
	}
	return Field{}, false
}
