package schema

import (
	"strings"
	"testing"
	"time"
)

func validForm() FormSchema {
	return FormSchema{
		ID:        "form_1",
		Name:      "Order",
		CreatedAt: time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC),
		Fields: []Field{
			{ID: "price", Type: FieldTypeNumber, Label: "Price"},
			{ID: "qty", Type: FieldTypeNumber, Label: "Quantity"},
			{
				ID:                "total",
				Type:              FieldTypeText,
				Label:             "Total",
				IsDerived:         true,
				ParentFields:      []string{"price", "qty"},
				DerivationFormula: "parentField1 * parentField2",
			},
		},
	}
}

func TestFormSchemaValidate(t *testing.T) {
	t.Parallel()

	if err := validForm().Validate(); err != nil {
		t.Fatalf("Validate returned error for valid form: %v", err)
	}
}

func TestFormSchemaValidateRejections(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		mutate  func(*FormSchema)
		wantErr string
	}{
		{
			name:    "missing name",
			mutate:  func(s *FormSchema) { s.Name = " " },
			wantErr: "form name is required",
		},
		{
			name:    "no fields",
			mutate:  func(s *FormSchema) { s.Fields = nil },
			wantErr: "form has no fields",
		},
		{
			name:    "duplicate ids",
			mutate:  func(s *FormSchema) { s.Fields[1].ID = "price" },
			wantErr: "duplicate field id",
		},
		{
			name:    "missing id",
			mutate:  func(s *FormSchema) { s.Fields[0].ID = "" },
			wantErr: "has no id",
		},
		{
			name:    "unknown parent",
			mutate:  func(s *FormSchema) { s.Fields[2].ParentFields = []string{"price", "missing"} },
			wantErr: "unknown parent",
		},
		{
			name:    "self reference",
			mutate:  func(s *FormSchema) { s.Fields[2].ParentFields = []string{"total"} },
			wantErr: "lists itself as a parent",
		},
		{
			name:    "derived without formula",
			mutate:  func(s *FormSchema) { s.Fields[2].DerivationFormula = "  " },
			wantErr: "has no formula",
		},
		{
			name:    "derived without parents",
			mutate:  func(s *FormSchema) { s.Fields[2].ParentFields = nil },
			wantErr: "no parent fields",
		},
		{
			name: "derived with rules",
			mutate: func(s *FormSchema) {
				s.Fields[2].ValidationRules = []ValidationRule{{Type: RuleRequired, Message: "Required"}}
			},
			wantErr: "cannot have validation rules",
		},
		{
			name:    "formula on plain field",
			mutate:  func(s *FormSchema) { s.Fields[0].DerivationFormula = "1 + 1" },
			wantErr: "not derived",
		},
		{
			name:    "unsupported type",
			mutate:  func(s *FormSchema) { s.Fields[0].Type = "color" },
			wantErr: "unsupported type",
		},
		{
			name: "rule without message",
			mutate: func(s *FormSchema) {
				s.Fields[0].ValidationRules = []ValidationRule{{Type: RuleRequired}}
			},
			wantErr: "without a message",
		},
		{
			name: "negative bound",
			mutate: func(s *FormSchema) {
				s.Fields[0].ValidationRules = []ValidationRule{{Type: RuleMinLength, Value: -1, Message: "Too short"}}
			},
			wantErr: "negative minLength bound",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			form := validForm()
			tc.mutate(&form)
			err := form.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestFormSchemaValidateOptionInvariants(t *testing.T) {
	t.Parallel()

	form := validForm()
	form.Fields = append(form.Fields, Field{
		ID:    "color",
		Type:  FieldTypeSelect,
		Label: "Color",
		Options: []Option{
			{Label: "Red", Value: "red"},
			{Label: "Also red", Value: "red"},
		},
	})
	err := form.Validate()
	if err == nil || !strings.Contains(err.Error(), "duplicate option value") {
		t.Fatalf("expected duplicate option error, got %v", err)
	}

	form.Fields[3].Options = nil
	err = form.Validate()
	if err == nil || !strings.Contains(err.Error(), "at least one option") {
		t.Fatalf("expected missing options error, got %v", err)
	}

	form.Fields[3] = Field{
		ID:      "plain",
		Type:    FieldTypeText,
		Label:   "Plain",
		Options: []Option{{Label: "A", Value: "a"}},
	}
	err = form.Validate()
	if err == nil || !strings.Contains(err.Error(), "cannot have options") {
		t.Fatalf("expected options rejection for text field, got %v", err)
	}
}

func TestFormSchemaValidateRejectsCycles(t *testing.T) {
	t.Parallel()

	form := FormSchema{
		ID:   "form_cycle",
		Name: "Cycle",
		Fields: []Field{
			{
				ID: "a", Type: FieldTypeText, Label: "A",
				IsDerived: true, ParentFields: []string{"b"}, DerivationFormula: "parentField1",
			},
			{
				ID: "b", Type: FieldTypeText, Label: "B",
				IsDerived: true, ParentFields: []string{"a"}, DerivationFormula: "parentField1",
			},
		},
	}
	err := form.Validate()
	if err == nil || !strings.Contains(err.Error(), "cycle") {
		t.Fatalf("expected cycle rejection, got %v", err)
	}
}

func TestFormSchemaValidateAllowsChains(t *testing.T) {
	t.Parallel()

	form := validForm()
	form.Fields = append(form.Fields, Field{
		ID:                "grand",
		Type:              FieldTypeText,
		Label:             "Grand total",
		IsDerived:         true,
		ParentFields:      []string{"total"},
		DerivationFormula: "parentField1",
	})
	if err := form.Validate(); err != nil {
		t.Fatalf("Validate rejected a valid chain: %v", err)
	}
}

func TestFieldSeedValue(t *testing.T) {
	t.Parallel()

	text := Field{ID: "f", Type: FieldTypeText}
	if got := text.SeedValue(); !got.Equal(StringValue("")) {
		t.Fatalf("text seed = %#v, want empty scalar", got)
	}

	text.DefaultValue = StringValue("hi")
	if got := text.SeedValue(); !got.Equal(StringValue("hi")) {
		t.Fatalf("text seed = %#v, want default", got)
	}

	box := Field{ID: "c", Type: FieldTypeCheckbox}
	if got := box.SeedValue(); !got.IsList() || !got.Empty() {
		t.Fatalf("checkbox seed = %#v, want empty list", got)
	}

	box.DefaultValue = ListValue("a")
	if got := box.SeedValue(); !got.Equal(ListValue("a")) {
		t.Fatalf("checkbox seed = %#v, want default list", got)
	}
}
