package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/OFFIS-RIT/contingency/backend/pkg/ai"

	"github.com/pkoukk/tiktoken-go"
	"github.com/revrost/go-openrouter"
)

// GraphOpenRouterClient routes structured generation through OpenRouter.
// Token usage is estimated locally because routed providers report it
// inconsistently.
type GraphOpenRouterClient struct {
	ai.MetricsRecorder

	chatModel string
	encoder   *tiktoken.Tiktoken

	Client *openrouter.Client
}

type NewGraphOpenRouterClientParams struct {
	ChatModel    string
	ChatKey      string
	TokenEncoder string
}

// NewGraphOpenRouterClient returns ai.ErrMissingCredentials when ChatKey is empty.
func NewGraphOpenRouterClient(params NewGraphOpenRouterClientParams) (*GraphOpenRouterClient, error) {
	if params.ChatKey == "" {
		return nil, fmt.Errorf("openrouter: %w", ai.ErrMissingCredentials)
	}
	encoding := params.TokenEncoder
	if encoding == "" {
		encoding = "o200k_base"
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, err
	}
	return &GraphOpenRouterClient{
		chatModel: params.ChatModel,
		encoder:   enc,
		Client:    openrouter.NewClient(params.ChatKey),
	}, nil
}

func (c *GraphOpenRouterClient) GenerateCompletionWithSchema(
	ctx context.Context,
	name string,
	description string,
	prompt string,
	schema any,
	opts ...ai.GenerateOption,
) (string, error) {
	schemaBytes, err := json.Marshal(schema)
	if err != nil {
		return "", fmt.Errorf("marshal %s schema: %w", name, err)
	}

	options := ai.ApplyOptions(ai.GenerateOptions{
		Model:       c.chatModel,
		Temperature: 0.01,
	}, opts...)

	messages := make([]openrouter.ChatCompletionMessage, 0, len(options.SystemPrompts)+1)
	for _, sp := range options.SystemPrompts {
		messages = append(messages, openrouter.ChatCompletionMessage{
			Role:    openrouter.ChatMessageRoleSystem,
			Content: openrouter.Content{Text: sp},
		})
	}
	messages = append(messages, openrouter.ChatCompletionMessage{
		Role:    openrouter.ChatMessageRoleUser,
		Content: openrouter.Content{Text: prompt},
	})

	request := openrouter.ChatCompletionRequest{
		Model:       options.Model,
		Messages:    messages,
		Temperature: float32(options.Temperature),
		ResponseFormat: &openrouter.ChatCompletionResponseFormat{
			Type: openrouter.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openrouter.ChatCompletionResponseFormatJSONSchema{
				Name:   name,
				Schema: json.RawMessage(schemaBytes),
				// not every routed provider supports strict mode
				Strict: false,
			},
		},
	}

	start := time.Now()
	response, err := c.Client.CreateChatCompletion(ctx, request)
	if err != nil {
		return "", fmt.Errorf("openrouter completion: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}
	text := response.Choices[0].Message.Content.Text

	input := 0
	for _, m := range messages {
		input += len(c.encoder.Encode(m.Content.Text, nil, nil))
	}
	output := len(c.encoder.Encode(text, nil, nil))
	c.Record(ai.ModelMetrics{
		InputTokens:  input,
		OutputTokens: output,
		TotalTokens:  input + output,
		DurationMs:   time.Since(start).Milliseconds(),
	})

	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}
