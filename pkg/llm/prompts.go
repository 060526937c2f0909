package llm

import (
	"bytes"
	"encoding/json"
	"text/template"

	"github.com/swaggest/jsonschema-go"
)

// PromptTemplate represents a prompt template.
// It can be rendered with specific inputs.
// It uses Go's text/template syntax for placeholders.
type PromptTemplate struct {
	Template string // The prompt template with placeholders
}

// NewPromptTemplate creates a new PromptTemplate with the given template string
func NewPromptTemplate(template string) PromptTemplate {
	return PromptTemplate{
		Template: template,
	}
}

// NewPromptTemplateRendered creates and renders a new PromptTemplate with the given inputs
func NewPromptTemplateRendered(template string, inputs map[string]any) (string, error) {
	pt := PromptTemplate{
		Template: template,
	}
	return pt.Render(inputs)
}

// Render fills the template with the provided inputs
func (pt PromptTemplate) Render(inputs map[string]any) (string, error) {
	tmpl, err := template.New("prompt").Parse(pt.Template)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, inputs); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderWithJSONSchemaFor fills the template with the provided inputs
// and adds a JSON schema representation of the provided struct 's' under the key "JSONSchema".
// This is useful for prompts that need to include a schema definition.
func (pt PromptTemplate) RenderWithJSONSchemaFor(inputs map[string]any, s any) (string, error) {
	reflector := jsonschema.Reflector{}

	schema, err := reflector.Reflect(s)
	if err != nil {
		return "", err
	}

	j, err := json.MarshalIndent(schema, "", " ")
	if err != nil {
		return "", err
	}

	if inputs == nil {
		inputs = map[string]any{}
	}
	inputs["JSONSchema"] = string(j)
	return pt.Render(inputs)
}
