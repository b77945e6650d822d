package interpreter

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/invoicer/backend/internal/domain/invoice"
)

const draftSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["is_invoice_request", "items"],
  "properties": {
    "is_invoice_request": {"type": "boolean"},
    "reason": {"type": ["string", "null"]},
    "items": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string"},
          "quantity": {"type": ["number", "null"]}
        }
      }
    },
    "customer": {"type": ["string", "null"]},
    "invoice_date": {"type": ["string", "null"]},
    "due_date": {"type": ["string", "null"]},
    "currency": {"type": ["string", "null"]},
    "notes": {"type": ["string", "null"]}
  }
}`

var (
	draftSchema     *jsonschema.Schema
	draftSchemaErr  error
	draftSchemaOnce sync.Once
)

func compiledDraftSchema() (*jsonschema.Schema, error) {
	draftSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("draft.json", strings.NewReader(draftSchemaJSON)); err != nil {
			draftSchemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		draftSchema, draftSchemaErr = compiler.Compile("draft.json")
	})
	return draftSchema, draftSchemaErr
}

// DecodeDraft validates raw model output against the draft schema and decodes it.
func DecodeDraft(raw []byte) (*invoice.Draft, error) {
	schema, err := compiledDraftSchema()
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("unmarshal draft: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return nil, fmt.Errorf("draft does not match schema: %w", err)
	}
	var d invoice.Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return &d, nil
}
