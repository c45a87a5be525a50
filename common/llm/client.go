package llm

import (
	"context"

	"github.com/invopop/jsonschema"
)

// Client is the single contract the agent core depends on: given a system
// instruction and a user prompt, return either a value conforming to a
// target schema or raw text, or fail. Swapping provider families behind
// this interface must not change any handler behavior.
type Client interface {
	// Chat requests structured output and unmarshals it into result.
	// A nil req.Schema requests a free-form JSON object instead of a
	// schema-constrained one.
	Chat(ctx context.Context, req Request, result any) (*Response, error)
	// Text requests a plain text completion.
	Text(ctx context.Context, req Request) (string, *Response, error)
	Model() string
}

type Request struct {
	SystemPrompt string
	UserPrompt   string
	SchemaName   string
	Schema       any
	MaxTokens    int
	Temperature  *float64 // nil = model default, explicit 0 = deterministic
}

type Response struct {
	PromptTokens     int
	CompletionTokens int
}

// GenerateSchema reflects a JSON schema from T for structured output.
func GenerateSchema[T any]() any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

// Temp returns a pointer to a temperature value, for Request literals.
func Temp(t float64) *float64 {
	return &t
}
