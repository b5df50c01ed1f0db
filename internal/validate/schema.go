package validate

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildInvoiceJSONSchema returns the JSON-Schema (draft 2020-12 subset) that
// every staged canonical invoice blob must satisfy, as a generic map.
func BuildInvoiceJSONSchema() map[string]any {
	party := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"name":              map[string]any{"type": "string"},
			"rut":               map[string]any{"type": "string"},
			"economic_activity": map[string]any{"type": "string"},
			"address":           map[string]any{"type": "string"},
			"commune":           map[string]any{"type": "string"},
			"email":             map[string]any{"type": "string"},
			"phone":             map[string]any{"type": "string"},
		},
	}
	item := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"sku":         map[string]any{"type": "string"},
			"description": map[string]any{"type": "string"},
			"quantity":    map[string]any{"type": "integer", "minimum": 0},
			"unit_price":  amountProp(),
			"discount":    amountProp(),
			"subtotal":    amountProp(),
		},
		"required": []string{"description", "quantity", "unit_price", "subtotal"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"invoice_number": map[string]any{"type": "string", "minLength": 1},
			"invoice_type":   map[string]any{"type": "string"},
			"issue_date":     map[string]any{"type": "string", "pattern": `^\d{8}$`},
			"pay_method":     map[string]any{"type": "string"},
			"items":          map[string]any{"type": []string{"array", "null"}, "items": item},
			"subtotal":       amountProp(),
			"tax":            amountProp(),
			"total":          amountProp(),
			"issuer":         party,
			"buyer":          party,
		},
		"required": []string{"invoice_number", "issue_date", "total", "issuer"},
	}
}

func amountProp() map[string]any {
	return map[string]any{"type": "number", "minimum": 0.0}
}

// JSONAgainstSchema validates data against the schema map.
func JSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
