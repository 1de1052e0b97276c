// Package formbuilder builds, stores, and previews form schemas. A schema is
// an ordered list of fields with validation rules, choice options, and
// optionally a derivation formula that computes the field's value from other
// fields. The root package re-exports the common types and constructors;
// the pkg tree holds the implementations.
package formbuilder

import (
	"context"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/derive"
	importeropenapi "github.com/goliatone/go-formbuilder/pkg/importer/openapi"
	"github.com/goliatone/go-formbuilder/pkg/preview"
	"github.com/goliatone/go-formbuilder/pkg/registry"
	"github.com/goliatone/go-formbuilder/pkg/schema"
)

// Core schema types, re-exported for convenience.
type (
	Field          = schema.Field
	FieldType      = schema.FieldType
	FormSchema     = schema.FormSchema
	Option         = schema.Option
	RuleType       = schema.RuleType
	ValidationRule = schema.ValidationRule
	Value          = schema.Value
)

// StringValue wraps a scalar field value.
func StringValue(s string) Value {
	return schema.StringValue(s)
}

// ListValue wraps a multi-select field value.
func ListValue(items ...string) Value {
	return schema.ListValue(items...)
}

// NewDraft starts an empty form draft.
func NewDraft() *builder.Draft {
	return builder.NewDraft()
}

// NewDraftFrom starts a draft seeded from an existing form's fields.
func NewDraftFrom(form FormSchema) *builder.Draft {
	return builder.NewDraftFrom(form.Fields)
}

// NewRegistry opens a schema registry over the given blob store. Pass nil
// for an in-memory store.
func NewRegistry(blob registry.Blob, opts ...registry.Option) *registry.Registry {
	return registry.New(blob, opts...)
}

// NewEngine constructs a derivation engine with an empty program cache.
func NewEngine() *derive.Engine {
	return derive.NewEngine()
}

// Preview starts a fill-out session over the form.
func Preview(form FormSchema, opts ...preview.Option) (*preview.Session, error) {
	return preview.NewSession(form, opts...)
}

// FieldsFromOpenAPI converts the JSON request body of an OpenAPI operation
// into form fields.
func FieldsFromOpenAPI(ctx context.Context, document []byte, operationID string) ([]Field, error) {
	return importeropenapi.Fields(ctx, document, operationID)
}
