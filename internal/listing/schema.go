package listing

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/draft.json
var schemaFS embed.FS

const draftSchemaPath = "schemas/draft.json"

var draftSchema = mustCompileDraftSchema()

func mustCompileDraftSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	file, err := schemaFS.Open(draftSchemaPath)
	if err != nil {
		panic(fmt.Sprintf("open draft schema: %v", err))
	}
	defer file.Close()

	if err := compiler.AddResource(draftSchemaPath, file); err != nil {
		panic(fmt.Sprintf("add draft schema: %v", err))
	}
	return compiler.MustCompile(draftSchemaPath)
}

// DecodeDraft checks body against the draft JSON schema and decodes it.
// Shape problems come back as FieldErrors keyed by the offending property.
func DecodeDraft(body []byte) (Draft, error) {
	var raw interface{}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return Draft{}, fmt.Errorf("listing body is not valid JSON: %w", err)
	}

	if err := draftSchema.Validate(raw); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return Draft{}, schemaFieldErrors(verr)
		}
		return Draft{}, fmt.Errorf("listing schema validation failed: %w", err)
	}

	var d Draft
	if err := json.Unmarshal(body, &d); err != nil {
		return Draft{}, fmt.Errorf("failed to decode listing: %w", err)
	}
	return d, nil
}

func schemaFieldErrors(verr *jsonschema.ValidationError) FieldErrors {
	errs := FieldErrors{}
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			field := strings.TrimPrefix(e.InstanceLocation, "/")
			if i := strings.Index(field, "/"); i >= 0 {
				field = field[:i]
			}
			if field == "" {
				field = "body"
			}
			if _, seen := errs[field]; !seen {
				errs[field] = e.Message
			}
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(verr)
	return errs
}
