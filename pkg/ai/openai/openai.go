package openai

import (
	"fmt"

	"github.com/OFFIS-RIT/contingency/backend/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// GraphOpenAIClient talks to an OpenAI compatible chat completions endpoint
// and requests strict JSON schema output.
//
// A GraphOpenAIClient should be created using NewGraphOpenAIClient.
type GraphOpenAIClient struct {
	ai.MetricsRecorder

	chatModel string
	chatURL   string

	ChatClient *openai.Client
}

// NewGraphOpenAIClientParams defines the configuration parameters for creating
// a new GraphOpenAIClient.
//
// ChatModel is used for every extraction stage. ChatURL may be empty to use
// the official endpoint. ChatKey is required.
type NewGraphOpenAIClientParams struct {
	ChatModel string
	ChatURL   string
	ChatKey   string
}

// NewGraphOpenAIClient creates and returns a new GraphOpenAIClient.
// It returns ai.ErrMissingCredentials when no API key is configured.
//
// Example:
//
//	client, err := openai.NewGraphOpenAIClient(openai.NewGraphOpenAIClientParams{
//		ChatModel: "gpt-4o-mini",
//		ChatKey:   os.Getenv("AI_CHAT_KEY"),
//	})
func NewGraphOpenAIClient(
	params NewGraphOpenAIClientParams,
) (*GraphOpenAIClient, error) {
	chatClient := newOpenaiClient(params.ChatURL, params.ChatKey)
	if chatClient == nil {
		return nil, fmt.Errorf("openai: %w", ai.ErrMissingCredentials)
	}

	return &GraphOpenAIClient{
		chatModel:  params.ChatModel,
		chatURL:    params.ChatURL,
		ChatClient: chatClient,
	}, nil
}

func newOpenaiClient(
	baseURL string,
	apiKey string,
) *openai.Client {
	if apiKey == "" {
		return nil
	}
	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}

	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(options...)

	return &client
}
