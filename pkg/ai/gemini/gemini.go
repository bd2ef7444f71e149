package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/OFFIS-RIT/contingency/backend/pkg/ai"

	"google.golang.org/genai"
)

// GraphGeminiClient implements ai.GraphAIClient on the Gemini API.
type GraphGeminiClient struct {
	ai.MetricsRecorder

	chatModel string

	Client *genai.Client
}

type NewGraphGeminiClientParams struct {
	ChatModel string
	ChatKey   string
}

func NewGraphGeminiClient(ctx context.Context, params NewGraphGeminiClientParams) (*GraphGeminiClient, error) {
	if params.ChatKey == "" {
		return nil, fmt.Errorf("gemini: %w", ai.ErrMissingCredentials)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  params.ChatKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GraphGeminiClient{
		chatModel: params.ChatModel,
		Client:    client,
	}, nil
}

func (c *GraphGeminiClient) GenerateCompletionWithSchema(
	ctx context.Context,
	name string,
	description string,
	prompt string,
	schema any,
	opts ...ai.GenerateOption,
) (string, error) {
	options := ai.ApplyOptions(ai.GenerateOptions{
		Model:       c.chatModel,
		Temperature: 0.01,
	}, opts...)

	temperature := float32(options.Temperature)
	config := &genai.GenerateContentConfig{
		ResponseMIMEType:   "application/json",
		ResponseJsonSchema: schema,
		Temperature:        &temperature,
	}
	if len(options.SystemPrompts) > 0 {
		config.SystemInstruction = genai.NewContentFromText(
			strings.Join(options.SystemPrompts, "\n\n"),
			genai.RoleUser,
		)
	}

	start := time.Now()
	resp, err := c.Client.Models.GenerateContent(ctx, options.Model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini %s: %w", name, err)
	}

	m := ai.ModelMetrics{DurationMs: time.Since(start).Milliseconds()}
	if usage := resp.UsageMetadata; usage != nil {
		m.InputTokens = int(usage.PromptTokenCount)
		m.OutputTokens = int(usage.CandidatesTokenCount)
		m.TotalTokens = int(usage.TotalTokenCount)
	}
	c.Record(m)

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}
