package openapi

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-formbuilder/pkg/schema"
)

const signupDocument = `{
  "openapi": "3.0.3",
  "info": {"title": "Accounts", "version": "1.0.0"},
  "paths": {
    "/signup": {
      "post": {
        "operationId": "createAccount",
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["email", "password"],
                "properties": {
                  "email": {"type": "string", "format": "email"},
                  "password": {"type": "string", "format": "password", "minLength": 8},
                  "displayName": {"type": "string", "maxLength": 40, "default": "Anonymous"},
                  "age": {"type": "integer"},
                  "newsletter": {"type": "boolean"},
                  "plan": {"type": "string", "enum": ["free", "pro"]},
                  "topics": {
                    "type": "array",
                    "items": {"type": "string", "enum": ["news", "product_updates"]}
                  },
                  "birthday": {"type": "string", "format": "date"},
                  "shipping": {
                    "type": "object",
                    "required": ["city"],
                    "properties": {
                      "city": {"type": "string"},
                      "meta": {"type": "object", "properties": {"carrier": {"type": "string"}}}
                    }
                  }
                }
              }
            }
          }
        },
        "responses": {"201": {"description": "created"}}
      }
    }
  }
}`

func importFields(t *testing.T) map[string]schema.Field {
	t.Helper()
	fields, err := Fields(context.Background(), []byte(signupDocument), "createAccount")
	if err != nil {
		t.Fatalf("Fields returned error: %v", err)
	}
	byLabel := make(map[string]schema.Field, len(fields))
	for _, field := range fields {
		byLabel[field.Label] = field
	}
	return byLabel
}

func TestFieldsTypeMapping(t *testing.T) {
	t.Parallel()

	fields := importFields(t)

	if got := fields["Age"].Type; got != schema.FieldTypeNumber {
		t.Fatalf("age type = %q, want number", got)
	}
	if got := fields["Birthday"].Type; got != schema.FieldTypeDate {
		t.Fatalf("birthday type = %q, want date", got)
	}

	newsletter := fields["Newsletter"]
	if newsletter.Type != schema.FieldTypeRadio || len(newsletter.Options) != 2 {
		t.Fatalf("newsletter = %+v, want yes/no radio", newsletter)
	}

	plan := fields["Plan"]
	if plan.Type != schema.FieldTypeSelect {
		t.Fatalf("plan type = %q, want select", plan.Type)
	}
	if len(plan.Options) != 2 || plan.Options[0].Value != "free" {
		t.Fatalf("plan options = %v", plan.Options)
	}

	city := fields["Shipping.City"]
	if city.Type != schema.FieldTypeText || !city.Required {
		t.Fatalf("shipping city = %+v, want required text", city)
	}
	if _, ok := fields["Shipping.Meta"]; ok {
		t.Fatal("deeply nested object should be skipped")
	}

	topics := fields["Topics"]
	if topics.Type != schema.FieldTypeCheckbox {
		t.Fatalf("topics type = %q, want checkbox", topics.Type)
	}
	if len(topics.Options) != 2 || topics.Options[1].Label != "Product updates" {
		t.Fatalf("topics options = %v", topics.Options)
	}
}

func TestFieldsRules(t *testing.T) {
	t.Parallel()

	fields := importFields(t)

	email := fields["Email"]
	if !email.Required || !email.HasRule(schema.RuleRequired) || !email.HasRule(schema.RuleEmail) {
		t.Fatalf("email rules = %+v", email.ValidationRules)
	}

	password := fields["Password"]
	if !password.HasRule(schema.RulePassword) || !password.HasRule(schema.RuleMinLength) {
		t.Fatalf("password rules = %+v", password.ValidationRules)
	}

	display := fields["Display name"]
	if display.Required || !display.HasRule(schema.RuleMaxLength) {
		t.Fatalf("display name rules = %+v", display.ValidationRules)
	}
	if got := display.DefaultValue.String(); got != "Anonymous" {
		t.Fatalf("display name default = %q", got)
	}
}

func TestFieldsProducesValidForm(t *testing.T) {
	t.Parallel()

	fields, err := Fields(context.Background(), []byte(signupDocument), "createAccount")
	if err != nil {
		t.Fatalf("Fields returned error: %v", err)
	}
	form := schema.FormSchema{ID: "form_import", Name: "Signup", Fields: fields}
	if err := form.Validate(); err != nil {
		t.Fatalf("imported fields fail validation: %v", err)
	}
}

func TestFieldsErrors(t *testing.T) {
	t.Parallel()

	if _, err := Fields(context.Background(), nil, "createAccount"); err == nil {
		t.Fatal("expected error for empty document")
	}
	if _, err := Fields(context.Background(), []byte(signupDocument), "missingOp"); !errors.Is(err, ErrOperationNotFound) {
		t.Fatalf("err = %v, want ErrOperationNotFound", err)
	}
	if _, err := Fields(context.Background(), []byte("{not json"), "x"); err == nil {
		t.Fatal("expected error for malformed document")
	}
}
