// Package openapi turns an OpenAPI operation's request body into form
// fields, so a form can be bootstrapped from an existing API contract
// instead of being assembled by hand.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/uuid"

	"github.com/goliatone/go-formbuilder/pkg/schema"
)

// ErrOperationNotFound is returned when the document declares no operation
// with the requested id.
var ErrOperationNotFound = errors.New("openapi importer: operation not found")

// Fields loads an OpenAPI document and converts the JSON request body of the
// operation with the given operationId into form fields, one per top-level
// property in name order.
func Fields(ctx context.Context, document []byte, operationID string) ([]schema.Field, error) {
	if len(document) == 0 {
		return nil, errors.New("openapi importer: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(document)
	if err != nil {
		return nil, fmt.Errorf("openapi importer: load document: %w", err)
	}

	operation := findOperation(spec, operationID)
	if operation == nil {
		return nil, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}

	body := requestSchema(operation)
	if body == nil {
		return nil, fmt.Errorf("openapi importer: operation %q has no JSON request body", operationID)
	}

	names := make([]string, 0, len(body.Properties))
	for name := range body.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	required := make(map[string]bool, len(body.Required))
	for _, name := range body.Required {
		required[name] = true
	}

	fields := make([]schema.Field, 0, len(names))
	for _, name := range names {
		property := body.Properties[name]
		if property == nil || property.Value == nil {
			continue
		}
		src := property.Value
		if firstType(src.Type) == "object" {
			fields = append(fields, flattenObject(name, src)...)
			continue
		}
		fields = append(fields, convertProperty(humanize(name), src, required[name]))
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("openapi importer: operation %q has no usable properties", operationID)
	}
	return fields, nil
}

func findOperation(spec *openapi3.T, operationID string) *openapi3.Operation {
	if spec.Paths == nil {
		return nil
	}
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		candidates := []*openapi3.Operation{
			item.Get, item.Put, item.Post, item.Delete,
			item.Patch, item.Head, item.Options, item.Trace,
		}
		for _, op := range candidates {
			if op != nil && op.OperationID == operationID {
				return op
			}
		}
	}
	return nil
}

func requestSchema(operation *openapi3.Operation) *openapi3.Schema {
	if operation.RequestBody == nil || operation.RequestBody.Value == nil {
		return nil
	}
	mt, ok := operation.RequestBody.Value.Content["application/json"]
	if !ok || mt.Schema == nil || mt.Schema.Value == nil {
		return nil
	}
	return mt.Schema.Value
}

// flattenObject emits one field per scalar property of a nested object,
// labeled parent.child. Objects nested deeper than one level are skipped.
func flattenObject(parent string, src *openapi3.Schema) []schema.Field {
	names := make([]string, 0, len(src.Properties))
	for name := range src.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	required := make(map[string]bool, len(src.Required))
	for _, name := range src.Required {
		required[name] = true
	}

	fields := make([]schema.Field, 0, len(names))
	for _, name := range names {
		property := src.Properties[name]
		if property == nil || property.Value == nil {
			continue
		}
		if firstType(property.Value.Type) == "object" {
			continue
		}
		label := humanize(parent) + "." + humanize(name)
		fields = append(fields, convertProperty(label, property.Value, required[name]))
	}
	return fields
}

func convertProperty(label string, src *openapi3.Schema, required bool) schema.Field {
	field := schema.Field{
		ID:       "field_" + uuid.NewString(),
		Label:    label,
		Required: required,
	}

	switch firstType(src.Type) {
	case "number", "integer":
		field.Type = schema.FieldTypeNumber
	case "boolean":
		field.Type = schema.FieldTypeRadio
		field.Options = []schema.Option{
			{Label: "Yes", Value: "true"},
			{Label: "No", Value: "false"},
		}
	case "array":
		field.Type = schema.FieldTypeCheckbox
		if src.Items != nil && src.Items.Value != nil {
			field.Options = enumOptions(src.Items.Value.Enum)
		}
		if len(field.Options) == 0 {
			field.Options = []schema.Option{{Label: "Option 1", Value: "option1"}}
		}
	default:
		field.Type = stringFieldType(src)
		if len(src.Enum) > 0 {
			field.Type = schema.FieldTypeSelect
			field.Options = enumOptions(src.Enum)
		}
	}

	field.ValidationRules = propertyRules(label, src, required)
	field.DefaultValue = defaultValue(field.Type, src.Default)
	return field
}

func stringFieldType(src *openapi3.Schema) schema.FieldType {
	switch src.Format {
	case "date", "date-time":
		return schema.FieldTypeDate
	case "textarea":
		return schema.FieldTypeTextarea
	default:
		return schema.FieldTypeText
	}
}

func propertyRules(label string, src *openapi3.Schema, required bool) []schema.ValidationRule {
	var rules []schema.ValidationRule
	if required {
		rules = append(rules, schema.ValidationRule{
			Type:    schema.RuleRequired,
			Message: fmt.Sprintf("%s is required", label),
		})
	}
	if src.MinLength != 0 {
		rules = append(rules, schema.ValidationRule{
			Type:    schema.RuleMinLength,
			Value:   int(src.MinLength),
			Message: fmt.Sprintf("Must be at least %d characters", src.MinLength),
		})
	}
	if src.MaxLength != nil {
		rules = append(rules, schema.ValidationRule{
			Type:    schema.RuleMaxLength,
			Value:   int(*src.MaxLength),
			Message: fmt.Sprintf("Must be at most %d characters", *src.MaxLength),
		})
	}
	switch src.Format {
	case "email":
		rules = append(rules, schema.ValidationRule{
			Type:    schema.RuleEmail,
			Message: "Invalid email address",
		})
	case "password":
		rules = append(rules, schema.ValidationRule{
			Type:    schema.RulePassword,
			Message: "Password must be at least 8 characters and contain a number",
		})
	}
	return rules
}

func enumOptions(enum []any) []schema.Option {
	options := make([]schema.Option, 0, len(enum))
	for _, entry := range enum {
		value := fmt.Sprint(entry)
		options = append(options, schema.Option{Label: humanize(value), Value: value})
	}
	return options
}

func defaultValue(fieldType schema.FieldType, raw any) schema.Value {
	if raw == nil {
		return schema.Value{}
	}
	if fieldType == schema.FieldTypeCheckbox {
		items, ok := raw.([]any)
		if !ok {
			return schema.ListValue()
		}
		values := make([]string, 0, len(items))
		for _, item := range items {
			values = append(values, fmt.Sprint(item))
		}
		return schema.ListValue(values...)
	}
	return schema.StringValue(fmt.Sprint(raw))
}

func firstType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// humanize turns a property name like shipping_address or firstName into a
// label like "Shipping address" or "First name".
func humanize(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case r == '_' || r == '-':
			b.WriteRune(' ')
		case i > 0 && r >= 'A' && r <= 'Z':
			b.WriteRune(' ')
			b.WriteRune(r - 'A' + 'a')
		default:
			b.WriteRune(r)
		}
	}
	label := strings.TrimSpace(b.String())
	if label == "" {
		return name
	}
	return strings.ToUpper(label[:1]) + label[1:]
}
