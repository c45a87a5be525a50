package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// outputToolName is the forced tool carrying the structured-output schema.
// Anthropic has no response_format parameter; forcing a single tool whose
// input schema is the target schema gives the same guarantee.
const outputToolName = "record_output"

type anthropicClient struct {
	client anthropic.Client
	model  string
}

func newAnthropicClient(cfg ProviderConfig, model string) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("model name is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &anthropicClient{
		client: anthropic.NewClient(opts...),
		model:  model,
	}, nil
}

func (c *anthropicClient) Chat(ctx context.Context, req Request, result any) (*Response, error) {
	params := c.baseParams(req)

	if req.Schema != nil {
		inputSchema := anthropic.ToolInputSchemaParam{
			Type: "object",
		}
		if props, required := schemaConstraints(req.Schema); props != nil {
			inputSchema.Properties = props
			inputSchema.Required = required
		}

		params.Tools = []anthropic.ToolUnionParam{
			{
				OfTool: &anthropic.ToolParam{
					Name:        outputToolName,
					Description: anthropic.String("Record the structured response"),
					InputSchema: inputSchema,
				},
			},
		}
		params.ToolChoice = anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: outputToolName},
		}

		resp, usage, err := c.send(ctx, params)
		if err != nil {
			return nil, err
		}

		for _, block := range resp.Content {
			if block.Type == "tool_use" && block.Name == outputToolName {
				if err := json.Unmarshal(block.Input, result); err != nil {
					return nil, fmt.Errorf("unmarshal tool input: %w", err)
				}
				return usage, nil
			}
		}
		return nil, fmt.Errorf("no %s tool call in response", outputToolName)
	}

	// No schema: ask for a bare JSON object and parse the text response.
	params.System = append(params.System, anthropic.TextBlockParam{
		Type: "text",
		Text: "Respond with a single JSON object and nothing else. No prose, no code fences.",
	})

	resp, usage, err := c.send(ctx, params)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(textContent(resp)), result); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return usage, nil
}

func (c *anthropicClient) Text(ctx context.Context, req Request) (string, *Response, error) {
	resp, usage, err := c.send(ctx, c.baseParams(req))
	if err != nil {
		return "", nil, err
	}
	return textContent(resp), usage, nil
}

func (c *anthropicClient) Model() string {
	return c.model
}

func (c *anthropicClient) baseParams(req Request) anthropic.MessageNewParams {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 8192
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			{
				Role: anthropic.MessageParamRoleUser,
				Content: []anthropic.ContentBlockParamUnion{
					anthropic.NewTextBlock(req.UserPrompt),
				},
			},
		},
	}

	if req.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{
			{Type: "text", Text: req.SystemPrompt},
		}
	}
	if req.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Temperature)
	}

	return params
}

func (c *anthropicClient) send(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, *Response, error) {
	start := time.Now()
	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, nil, fmt.Errorf("anthropic chat: %w", err)
	}

	slog.DebugContext(ctx, "llm chat completed",
		"model", c.model,
		"duration_ms", time.Since(start).Milliseconds(),
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"stop_reason", resp.StopReason)

	return resp, &Response{
		PromptTokens:     int(resp.Usage.InputTokens),
		CompletionTokens: int(resp.Usage.OutputTokens),
	}, nil
}

func textContent(resp *anthropic.Message) string {
	var out string
	for _, block := range resp.Content {
		if block.Type == "text" {
			out += block.Text
		}
	}
	return out
}

// schemaConstraints extracts the top-level "properties" object and
// "required" list of a reflected JSON schema, the shape Anthropic tool
// input schemas expect.
func schemaConstraints(schema any) (map[string]any, []string) {
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, nil
	}

	var wrapper struct {
		Properties map[string]any `json:"properties"`
		Required   []string       `json:"required"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, nil
	}
	return wrapper.Properties, wrapper.Required
}
