package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/xeipuuv/gojsonschema"
	"google.golang.org/api/option"
)

// Schema describes the structured output a Request must produce. Response
// constrains the model's decoder; Document is the matching JSON Schema used
// to verify the payload after the fact, since decoder constraints are not a
// guarantee. Tier selects the model capability the request runs on; empty
// means TierStandard.
type Schema struct {
	Name     string
	Tier     ModelTier
	Response *genai.Schema
	Document string
}

// Client is an abstraction over LLM providers
type Client interface {
	// Request sends a system/user prompt pair and returns the raw JSON
	// payload, validated against the schema
	Request(ctx context.Context, system, user string, schema Schema) ([]byte, error)
	// GetModel returns the underlying provider model for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	return NewGeminiClient(ctx, config, apiKey)
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// modelFor resolves the model a schema's tier maps to.
func (c *GeminiClient) modelFor(schema Schema) string {
	tier := schema.Tier
	if tier == "" {
		tier = TierStandard
	}
	return c.config.GetModel(tier)
}

// Request generates a schema-constrained JSON completion on the model tier
// the schema asks for.
func (c *GeminiClient) Request(ctx context.Context, system, user string, schema Schema) ([]byte, error) {
	modelName := c.modelFor(schema)
	if modelName == "" {
		return nil, fmt.Errorf("no model configured for tier %s", schema.Tier)
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(0.1) // Low temperature for consistent output
	model.ResponseMIMEType = "application/json"
	if schema.Response != nil {
		model.ResponseSchema = schema.Response
	}
	if system != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(system)},
		}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return nil, classifyUpstream(err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return nil, &UpstreamError{Message: err.Error(), Cause: err}
	}

	return decodeAndValidate(schema, text)
}

// GetModel returns the model name for a tier
func (c *GeminiClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}

// decodeAndValidate strips markdown wrappers from the completion and checks
// the payload against the schema's JSON Schema document.
func decodeAndValidate(schema Schema, text string) ([]byte, error) {
	payload := CleanJSONBlock(text)
	if payload == "" {
		return nil, &SchemaViolationError{
			Schema:  schema.Name,
			Message: "completion contained no JSON payload",
		}
	}

	if schema.Document == "" {
		return []byte(payload), nil
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema.Document),
		gojsonschema.NewStringLoader(payload),
	)
	if err != nil {
		return nil, &SchemaViolationError{
			Schema:  schema.Name,
			Message: "payload is not valid JSON",
			Cause:   err,
		}
	}

	if !result.Valid() {
		violations := make([]FieldError, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			field := desc.Field()
			if field == "" {
				field = "(root)"
			}
			violations = append(violations, FieldError{
				Field:   field,
				Message: desc.Description(),
			})
		}
		return nil, &SchemaViolationError{
			Schema:     schema.Name,
			Message:    "payload does not match schema",
			Violations: violations,
		}
	}

	return []byte(payload), nil
}
