package validation

import (
	"testing"

	"github.com/goliatone/go-formbuilder/pkg/schema"
)

func fieldWithRules(rules ...schema.ValidationRule) schema.Field {
	return schema.Field{
		ID:              "f",
		Type:            schema.FieldTypeText,
		Label:           "Field",
		ValidationRules: rules,
	}
}

func TestValidateRequired(t *testing.T) {
	t.Parallel()

	field := fieldWithRules(schema.ValidationRule{Type: schema.RuleRequired, Message: "Required"})

	cases := []struct {
		name  string
		value schema.Value
		want  string
	}{
		{name: "empty string", value: schema.StringValue(""), want: "Required"},
		{name: "absent", value: schema.Value{}, want: "Required"},
		{name: "empty list", value: schema.ListValue(), want: "Required"},
		{name: "zero string passes", value: schema.StringValue("0"), want: ""},
		{name: "non-empty list passes", value: schema.ListValue("a"), want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := Validate(field, tc.value); got != tc.want {
				t.Fatalf("Validate = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestValidateLengthBounds(t *testing.T) {
	t.Parallel()

	field := fieldWithRules(
		schema.ValidationRule{Type: schema.RuleMinLength, Value: 3, Message: "Too short"},
		schema.ValidationRule{Type: schema.RuleMaxLength, Value: 5, Message: "Too long"},
	)

	cases := []struct {
		name  string
		value string
		want  string
	}{
		{name: "below min", value: "ab", want: "Too short"},
		{name: "at min passes", value: "abc", want: ""},
		{name: "at max passes", value: "abcde", want: ""},
		{name: "above max", value: "abcdef", want: "Too long"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := Validate(field, schema.StringValue(tc.value)); got != tc.want {
				t.Fatalf("Validate(%q) = %q, want %q", tc.value, got, tc.want)
			}
		})
	}
}

func TestValidateLengthIgnoresLists(t *testing.T) {
	t.Parallel()

	field := fieldWithRules(schema.ValidationRule{Type: schema.RuleMinLength, Value: 3, Message: "Too short"})
	if got := Validate(field, schema.ListValue("a")); got != "" {
		t.Fatalf("Validate = %q, want no error for list value", got)
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	field := fieldWithRules(schema.ValidationRule{Type: schema.RuleEmail, Message: "Invalid email"})

	cases := []struct {
		value string
		want  string
	}{
		{value: "a@b.com", want: ""},
		{value: "first.last@example.co", want: ""},
		{value: "not-an-email", want: "Invalid email"},
		{value: "missing@tld", want: "Invalid email"},
		{value: "spaces in@addr.com", want: "Invalid email"},
		{value: "two@@at.com", want: "Invalid email"},
	}

	for _, tc := range cases {
		t.Run(tc.value, func(t *testing.T) {
			t.Parallel()

			if got := Validate(field, schema.StringValue(tc.value)); got != tc.want {
				t.Fatalf("Validate(%q) = %q, want %q", tc.value, got, tc.want)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	field := fieldWithRules(schema.ValidationRule{Type: schema.RulePassword, Message: "Weak password"})

	cases := []struct {
		name  string
		value string
		want  string
	}{
		{name: "eight chars with digit passes", value: "abcdefg1", want: ""},
		{name: "no digit", value: "abcdefgh", want: "Weak password"},
		{name: "too short", value: "short1", want: "Weak password"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := Validate(field, schema.StringValue(tc.value)); got != tc.want {
				t.Fatalf("Validate(%q) = %q, want %q", tc.value, got, tc.want)
			}
		})
	}
}

func TestValidateFirstFailureWins(t *testing.T) {
	t.Parallel()

	field := fieldWithRules(
		schema.ValidationRule{Type: schema.RuleRequired, Message: "Required"},
		schema.ValidationRule{Type: schema.RuleMinLength, Value: 5, Message: "Too short"},
	)

	if got := Validate(field, schema.StringValue("")); got != "Required" {
		t.Fatalf("Validate = %q, want the first rule's message", got)
	}
	if got := Validate(field, schema.StringValue("abc")); got != "Too short" {
		t.Fatalf("Validate = %q, want the second rule's message", got)
	}
}

func TestValidateSkipsDerivedFields(t *testing.T) {
	t.Parallel()

	field := schema.Field{
		ID:                "d",
		Type:              schema.FieldTypeText,
		IsDerived:         true,
		ParentFields:      []string{"p"},
		DerivationFormula: "parentField1",
	}
	if got := Validate(field, schema.StringValue("")); got != "" {
		t.Fatalf("Validate = %q, want no error for derived field", got)
	}
}
