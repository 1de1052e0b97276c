package formbuilder_test

import (
	"testing"

	formbuilder "github.com/goliatone/go-formbuilder"
	"github.com/goliatone/go-formbuilder/pkg/schema"
)

// End to end: build a form with the draft API, store it, reload it, and fill
// it out in a preview session.
func TestBuildStorePreview(t *testing.T) {
	t.Parallel()

	draft := formbuilder.NewDraft()
	price, err := draft.AddField(schema.FieldTypeNumber)
	if err != nil {
		t.Fatalf("AddField returned error: %v", err)
	}
	qty, err := draft.AddField(schema.FieldTypeNumber)
	if err != nil {
		t.Fatalf("AddField returned error: %v", err)
	}
	total, err := draft.AddField(schema.FieldTypeText)
	if err != nil {
		t.Fatalf("AddField returned error: %v", err)
	}

	if err := draft.UpdateField(price.ID, func(f *schema.Field) { f.Label = "Price" }); err != nil {
		t.Fatalf("UpdateField returned error: %v", err)
	}
	err = draft.UpdateField(total.ID, func(f *schema.Field) {
		f.Label = "Total"
		f.IsDerived = true
		f.ParentFields = []string{price.ID, qty.ID}
		f.DerivationFormula = "parentField1 * parentField2"
	})
	if err != nil {
		t.Fatalf("UpdateField returned error: %v", err)
	}

	form, err := draft.Save("Order")
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	reg := formbuilder.NewRegistry(nil)
	if err := reg.Add(form); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	stored, ok := reg.Get(form.ID)
	if !ok {
		t.Fatal("stored form not found")
	}

	session, err := formbuilder.Preview(stored)
	if err != nil {
		t.Fatalf("Preview returned error: %v", err)
	}
	if err := session.SetValue(price.ID, formbuilder.StringValue("10")); err != nil {
		t.Fatalf("SetValue returned error: %v", err)
	}
	if err := session.SetValue(qty.ID, formbuilder.StringValue("3")); err != nil {
		t.Fatalf("SetValue returned error: %v", err)
	}
	if got, _ := session.Value(total.ID); got.String() != "30" {
		t.Fatalf("total = %q, want %q", got.String(), "30")
	}
	if err := session.Submit(); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
}
