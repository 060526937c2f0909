// Structured output helpers
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/swaggest/jsonschema-go"
)

// SchemaFromStruct generates a JSON Schema from a Go struct using the
// swaggest/jsonschema-go reflector.
//
// Example:
//
//	type Person struct {
//	    Name string `json:"name" required:"true"`
//	    Age  int    `json:"age" minimum:"0"`
//	}
//	schema, err := llm.SchemaFromStruct(Person{})
func SchemaFromStruct(structType any) (any, error) {
	reflector := jsonschema.Reflector{}

	schema, err := reflector.Reflect(structType)
	if err != nil {
		return nil, fmt.Errorf("failed to reflect struct to JSON schema: %w", err)
	}

	return schema, nil
}

// SchemaFromStructAsMap generates a JSON Schema as map[string]any from
// a Go struct. Useful when the schema must be embedded in an API payload.
func SchemaFromStructAsMap(structType any) (map[string]any, error) {
	schema, err := SchemaFromStruct(structType)
	if err != nil {
		return nil, err
	}

	jsonBytes, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema to JSON: %w", err)
	}

	var schemaMap map[string]any
	if err := json.Unmarshal(jsonBytes, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema JSON to map: %w", err)
	}

	return schemaMap, nil
}

// CleanJSONOutput strips markdown code fences from model output.
// Models frequently wrap JSON answers in ``` fences; every line starting
// with ``` is removed, the rest is kept verbatim.
func CleanJSONOutput(s string) string {
	lines := strings.Split(s, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		cleaned = append(cleaned, line)
	}
	return strings.Join(cleaned, "\n")
}

// CompleteStructured performs a chat completion and unmarshals the JSON
// answer into out. Code fences around the JSON are tolerated. A response
// that is not valid JSON for out is reported as a provider response error
// so callers can distinguish it from transport problems.
func CompleteStructured(ctx context.Context, client ChatCompleter, req ChatRequest, out any) error {
	resp, err := client.ChatCompletion(ctx, req)
	if err != nil {
		return err
	}

	cleaned := CleanJSONOutput(resp.Text())
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return &Error{
			Code:    "invalid_json_output",
			Message: fmt.Sprintf("model output is not valid JSON: %v", err),
			Type:    ErrorTypeProviderResponse,
		}
	}
	return nil
}
