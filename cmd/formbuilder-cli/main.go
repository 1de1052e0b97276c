// Command formbuilder-cli previews a form schema in the terminal or renders
// it to static HTML. Schemas load from a JSON or YAML file, or can be
// bootstrapped from an OpenAPI operation's request body.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	formbuilder "github.com/goliatone/go-formbuilder"
	"github.com/goliatone/go-formbuilder/pkg/registry"
	"github.com/goliatone/go-formbuilder/pkg/renderers/html"
	"github.com/goliatone/go-formbuilder/pkg/renderers/tui"
)

func main() {
	schemaPath := flag.String("schema", "", "form schema file (JSON or YAML)")
	importPath := flag.String("import", "", "OpenAPI document to bootstrap a schema from")
	operation := flag.String("operation", "", "operationId to import the request body of")
	name := flag.String("name", "", "form name when importing")
	renderer := flag.String("renderer", "tui", "renderer to use: tui or html")
	output := flag.String("output", "", "output file for html (stdout if empty)")
	store := flag.String("store", "", "registry file to save loaded schemas into")
	list := flag.Bool("list", false, "list schemas in the registry file and exit")
	flag.Parse()

	ctx := context.Background()

	if *list {
		if *store == "" {
			log.Fatalf("-list requires -store")
		}
		reg := formbuilder.NewRegistry(registry.NewFileBlob(*store))
		for _, form := range reg.LoadAll() {
			fmt.Printf("%s\t%s\t%d field(s)\t%s\n", form.ID, form.Name, len(form.Fields), form.CreatedAt.Format(time.RFC3339))
		}
		return
	}

	form, err := loadForm(ctx, *schemaPath, *importPath, *operation, *name)
	if err != nil {
		log.Fatalf("Failed to load form: %v", err)
	}

	if *store != "" {
		reg := formbuilder.NewRegistry(registry.NewFileBlob(*store))
		if err := reg.Add(form); err != nil {
			log.Printf("Not stored: %v", err)
		} else {
			for _, note := range reg.Notifications() {
				fmt.Println(note.Text)
			}
		}
	}

	session, err := formbuilder.Preview(form)
	if err != nil {
		log.Fatalf("Failed to start preview: %v", err)
	}

	switch *renderer {
	case "tui":
		r, err := tui.New()
		if err != nil {
			log.Fatalf("Failed to build renderer: %v", err)
		}
		if err := r.Run(ctx, session); err != nil {
			log.Fatalf("Preview failed: %v", err)
		}
	case "html":
		r, err := html.New()
		if err != nil {
			log.Fatalf("Failed to build renderer: %v", err)
		}
		markup, err := r.Render(ctx, session)
		if err != nil {
			log.Fatalf("Failed to render form: %v", err)
		}
		if *output != "" {
			if err := os.WriteFile(*output, markup, 0o644); err != nil {
				log.Fatalf("Failed to write output: %v", err)
			}
			fmt.Printf("Form written to %s\n", *output)
		} else {
			fmt.Println(string(markup))
		}
	default:
		log.Fatalf("Unknown renderer %q (want tui or html)", *renderer)
	}
}

func loadForm(ctx context.Context, schemaPath, importPath, operation, name string) (formbuilder.FormSchema, error) {
	switch {
	case schemaPath != "":
		return loadSchemaFile(schemaPath)
	case importPath != "":
		return importForm(ctx, importPath, operation, name)
	default:
		return formbuilder.FormSchema{}, fmt.Errorf("either -schema or -import is required")
	}
}

func loadSchemaFile(path string) (formbuilder.FormSchema, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return formbuilder.FormSchema{}, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		payload, err = yamlToJSON(payload)
		if err != nil {
			return formbuilder.FormSchema{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	var form formbuilder.FormSchema
	if err := json.Unmarshal(payload, &form); err != nil {
		return formbuilder.FormSchema{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := form.Validate(); err != nil {
		return formbuilder.FormSchema{}, err
	}
	return form, nil
}

func importForm(ctx context.Context, path, operation, name string) (formbuilder.FormSchema, error) {
	if operation == "" {
		return formbuilder.FormSchema{}, fmt.Errorf("-operation is required with -import")
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		return formbuilder.FormSchema{}, err
	}
	fields, err := formbuilder.FieldsFromOpenAPI(ctx, payload, operation)
	if err != nil {
		return formbuilder.FormSchema{}, err
	}
	if name == "" {
		name = operation
	}
	form := formbuilder.FormSchema{
		ID:        "form_" + operation,
		Name:      name,
		Fields:    fields,
		CreatedAt: time.Now().UTC(),
	}
	if err := form.Validate(); err != nil {
		return formbuilder.FormSchema{}, err
	}
	return form, nil
}

// yamlToJSON re-encodes a YAML document as JSON so the schema decoder only
// has one wire format to care about.
func yamlToJSON(payload []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(payload, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(normalizeYAML(doc))
}

func normalizeYAML(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = normalizeYAML(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = normalizeYAML(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalizeYAML(item)
		}
		return out
	default:
		return v
	}
}
