// Model information and pricing
package llm

// ModelInfo contains information about the model
type ModelInfo struct {
	Name      string  `json:"name"`
	Provider  string  `json:"provider"`
	MaxTokens int     `json:"max_tokens"`
	Pricing   Pricing `json:"pricing"`
}

// Pricing holds the dollar cost per 1000 tokens for a model.
// The zero value means the model is free (local models, mocks).
type Pricing struct {
	InputPer1KTokens  float64 `json:"input_per_1k_tokens"`
	OutputPer1KTokens float64 `json:"output_per_1k_tokens"`
}

// Cost computes the dollar cost of the given usage
func (p Pricing) Cost(u Usage) float64 {
	return float64(u.PromptTokens)*p.InputPer1KTokens/1000 +
		float64(u.CompletionTokens)*p.OutputPer1KTokens/1000
}
