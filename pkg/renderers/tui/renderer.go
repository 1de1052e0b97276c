// Package tui fills out a form interactively in the terminal. Prompts run
// through a PromptDriver so the flow is testable without a terminal; the
// default driver is backed by survey.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-formbuilder/pkg/notify"
	"github.com/goliatone/go-formbuilder/pkg/preview"
	"github.com/goliatone/go-formbuilder/pkg/schema"
)

// Renderer walks a preview session field by field, re-prompting until each
// value passes its rules, then submits.
type Renderer struct {
	driver        PromptDriver
	confirmSubmit bool
}

// New constructs a TUI renderer with the survey driver by default.
func New(options ...Option) (*Renderer, error) {
	driver, err := newSurveyDriver()
	if err != nil {
		return nil, err
	}
	r := &Renderer{
		driver:        driver,
		confirmSubmit: true,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// Run prompts for every editable field in declaration order, shows derived
// values, and submits the session. A rejected submission reports per-field
// messages and returns the session's *preview.SubmitError.
func (r *Renderer) Run(ctx context.Context, session *preview.Session) error {
	for _, field := range session.Form().Fields {
		if field.IsDerived {
			continue
		}
		if err := r.promptField(ctx, session, field); err != nil {
			return err
		}
	}

	for _, field := range session.Form().Fields {
		if !field.IsDerived {
			continue
		}
		value, _ := session.Value(field.ID)
		msg := fmt.Sprintf("%s: %s (auto-calculated)", field.Label, value.String())
		if err := r.driver.Info(ctx, msg); err != nil {
			return err
		}
	}

	if r.confirmSubmit {
		ok, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Submit this form?", Default: true})
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	submitErr := session.Submit()
	var rejected *preview.SubmitError
	if errors.As(submitErr, &rejected) {
		for _, field := range session.Form().Fields {
			if msg, ok := rejected.Errors[field.ID]; ok {
				if err := r.driver.Info(ctx, fmt.Sprintf("%s: %s", field.Label, msg)); err != nil {
					return err
				}
			}
		}
	} else if submitErr != nil {
		return submitErr
	}

	for _, note := range session.Notifications() {
		prefix := "✔"
		if note.Kind == notify.KindError {
			prefix = "✖"
		}
		if err := r.driver.Info(ctx, prefix+" "+note.Text); err != nil {
			return err
		}
	}
	return submitErr
}

// promptField asks for one field's value until the session accepts it
// without a validation message.
func (r *Renderer) promptField(ctx context.Context, session *preview.Session, field schema.Field) error {
	for {
		value, err := r.askValue(ctx, session, field)
		if err != nil {
			return err
		}
		if err := session.SetValue(field.ID, value); err != nil {
			return err
		}
		msg := session.Err(field.ID)
		if msg == "" {
			return nil
		}
		if err := r.driver.Info(ctx, fmt.Sprintf("✖ %s", msg)); err != nil {
			return err
		}
	}
}

func (r *Renderer) askValue(ctx context.Context, session *preview.Session, field schema.Field) (schema.Value, error) {
	current, _ := session.Value(field.ID)
	message := promptMessage(field)

	switch field.Type {
	case schema.FieldTypeCheckbox:
		cfg := SelectConfig{
			Message:  message,
			Options:  optionLabels(field.Options),
			Defaults: selectedIndices(field.Options, current),
		}
		picked, err := r.driver.MultiSelect(ctx, cfg)
		if err != nil {
			return schema.Value{}, err
		}
		values := make([]string, 0, len(picked))
		for _, idx := range picked {
			if idx >= 0 && idx < len(field.Options) {
				values = append(values, field.Options[idx].Value)
			}
		}
		return schema.ListValue(values...), nil

	case schema.FieldTypeSelect, schema.FieldTypeRadio:
		labels := optionLabels(field.Options)
		blank := !field.Required && !field.HasRule(schema.RuleRequired)
		if blank {
			labels = append([]string{"(leave blank)"}, labels...)
		}
		cfg := SelectConfig{
			Message:      message,
			Options:      labels,
			DefaultIndex: currentIndex(field.Options, current, blank),
		}
		idx, err := r.driver.Select(ctx, cfg)
		if err != nil {
			return schema.Value{}, err
		}
		if blank {
			if idx == 0 {
				return schema.StringValue(""), nil
			}
			idx--
		}
		if idx < 0 || idx >= len(field.Options) {
			return schema.StringValue(""), nil
		}
		return schema.StringValue(field.Options[idx].Value), nil

	case schema.FieldTypeTextarea:
		out, err := r.driver.TextArea(ctx, TextAreaConfig{Message: message, Default: current.String()})
		if err != nil {
			return schema.Value{}, err
		}
		return schema.StringValue(out), nil

	default:
		if field.HasRule(schema.RulePassword) {
			out, err := r.driver.Password(ctx, InputConfig{Message: message})
			if err != nil {
				return schema.Value{}, err
			}
			return schema.StringValue(out), nil
		}
		out, err := r.driver.Input(ctx, InputConfig{Message: message, Default: current.String()})
		if err != nil {
			return schema.Value{}, err
		}
		return schema.StringValue(out), nil
	}
}

func promptMessage(field schema.Field) string {
	if field.Required || field.HasRule(schema.RuleRequired) {
		return field.Label + " *"
	}
	return field.Label
}

func optionLabels(options []schema.Option) []string {
	labels := make([]string, len(options))
	for i, option := range options {
		labels[i] = option.Label
	}
	return labels
}

// currentIndex maps the stored value back to its position in the prompt's
// option list, accounting for the leading blank entry when present.
func currentIndex(options []schema.Option, current schema.Value, blank bool) int {
	for i, option := range options {
		if option.Value == current.String() {
			if blank {
				return i + 1
			}
			return i
		}
	}
	return 0
}

func selectedIndices(options []schema.Option, current schema.Value) []int {
	if !current.IsList() {
		return nil
	}
	selected := make(map[string]struct{})
	for _, value := range current.List() {
		selected[value] = struct{}{}
	}
	var out []int
	for i, option := range options {
		if _, ok := selected[option.Value]; ok {
			out = append(out, i)
		}
	}
	return out
}
