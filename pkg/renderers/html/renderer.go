// Package html renders a preview session as a static HTML form. Output is a
// snapshot: current values, selection state, and validation messages baked
// into the markup.
package html

import (
	"context"
	"fmt"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formbuilder/pkg/preview"
	"github.com/goliatone/go-formbuilder/pkg/schema"
)

// Renderer renders sessions through the embedded pongo2 template bundle.
// Labels and messages are sanitized before templating so schema text can
// never smuggle markup into the output.
type Renderer struct {
	set    *pongo2.TemplateSet
	policy *bluemonday.Policy
}

// New constructs an HTML renderer over the embedded templates.
func New() (*Renderer, error) {
	set := pongo2.NewSet("formbuilder", pongo2.NewFSLoader(TemplatesFS()))
	return &Renderer{
		set:    set,
		policy: bluemonday.StrictPolicy(),
	}, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "html"
}

// ContentType reports the MIME type of Render output.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the form markup for the session's current state.
func (r *Renderer) Render(ctx context.Context, session *preview.Session) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tpl, err := r.set.FromFile("templates/form.tmpl")
	if err != nil {
		return nil, fmt.Errorf("html: load template: %w", err)
	}

	form := session.Form()
	fields := make([]pongo2.Context, 0, len(form.Fields))
	for _, field := range form.Fields {
		fields = append(fields, r.fieldContext(session, field))
	}

	out, err := tpl.ExecuteBytes(pongo2.Context{
		"form": pongo2.Context{
			"id":   form.ID,
			"name": r.policy.Sanitize(form.Name),
		},
		"fields": fields,
	})
	if err != nil {
		return nil, fmt.Errorf("html: execute template: %w", err)
	}
	return out, nil
}

func (r *Renderer) fieldContext(session *preview.Session, field schema.Field) pongo2.Context {
	value, _ := session.Value(field.ID)

	selected := make(map[string]bool)
	if value.IsList() {
		for _, item := range value.List() {
			selected[item] = true
		}
	} else {
		selected[value.String()] = true
	}

	options := make([]pongo2.Context, 0, len(field.Options))
	for _, option := range field.Options {
		options = append(options, pongo2.Context{
			"label":    r.policy.Sanitize(option.Label),
			"value":    option.Value,
			"selected": selected[option.Value],
		})
	}

	return pongo2.Context{
		"id":         field.ID,
		"type":       string(field.Type),
		"input_type": inputType(field),
		"label":      r.policy.Sanitize(field.Label),
		"required":   field.Required || field.HasRule(schema.RuleRequired),
		"value":      value.String(),
		"options":    options,
		"derived":    field.IsDerived,
		"error":      r.policy.Sanitize(session.Err(field.ID)),
	}
}

// inputType picks the <input> type attribute for scalar fields.
func inputType(field schema.Field) string {
	switch {
	case field.HasRule(schema.RulePassword):
		return "password"
	case field.HasRule(schema.RuleEmail):
		return "email"
	case field.Type == schema.FieldTypeNumber:
		return "number"
	case field.Type == schema.FieldTypeDate:
		return "date"
	default:
		return "text"
	}
}
