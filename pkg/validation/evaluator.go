// Package validation evaluates a field's validation rules against a live
// value. Rules run in declaration order and the first failure wins; later
// rules are not consulted once one has failed.
package validation

import (
	"regexp"
	"unicode/utf8"

	"github.com/goliatone/go-formbuilder/pkg/schema"
)

// emailPattern is a minimal local@domain.tld shape check, not RFC validation.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var digitPattern = regexp.MustCompile(`[0-9]`)

const passwordMinLength = 8

// Validate returns the message of the first failing rule, or "" when the
// value passes every rule. Derived fields are never validated.
func Validate(field schema.Field, value schema.Value) string {
	if field.IsDerived {
		return ""
	}
	for _, rule := range field.ValidationRules {
		if ruleFails(rule, value) {
			return rule.Message
		}
	}
	return ""
}

func ruleFails(rule schema.ValidationRule, value schema.Value) bool {
	switch rule.Type {
	case schema.RuleRequired:
		return value.Empty()
	case schema.RuleMinLength:
		if value.IsList() {
			return false
		}
		return utf8.RuneCountInString(value.String()) < rule.Value
	case schema.RuleMaxLength:
		if value.IsList() {
			return false
		}
		return utf8.RuneCountInString(value.String()) > rule.Value
	case schema.RuleEmail:
		if value.IsList() {
			return false
		}
		return !emailPattern.MatchString(value.String())
	case schema.RulePassword:
		if value.IsList() {
			return false
		}
		raw := value.String()
		return utf8.RuneCountInString(raw) < passwordMinLength || !digitPattern.MatchString(raw)
	default:
		return false
	}
}
