package config

import (
	"context"
	"fmt"

	"github.com/OFFIS-RIT/contingency/backend/pkg/ai"
	gemini "github.com/OFFIS-RIT/contingency/backend/pkg/ai/gemini"
	oai "github.com/OFFIS-RIT/contingency/backend/pkg/ai/ollama"
	gai "github.com/OFFIS-RIT/contingency/backend/pkg/ai/openai"
	orai "github.com/OFFIS-RIT/contingency/backend/pkg/ai/openrouter"
)

// NewAIClient builds the generator backend selected by AI.Adapter. Missing
// credentials surface as an error wrapping ai.ErrMissingCredentials.
func (c *Config) NewAIClient(ctx context.Context) (ai.GraphAIClient, error) {
	var (
		client ai.GraphAIClient
		err    error
	)

	switch c.AI.Adapter {
	case "ollama":
		var cl *oai.GraphOllamaClient
		cl, err = oai.NewGraphOllamaClient(oai.NewGraphOllamaClientParams{
			ChatModel:             c.AI.ChatModel,
			BaseURL:               c.AI.ChatURL,
			ApiKey:                c.AI.ChatKey,
			TokenEncoder:          c.AI.TokenEncoder,
			MaxConcurrentRequests: int64(c.AI.ParallelRequests),
		})
		client = cl
	case "openrouter":
		var cl *orai.GraphOpenRouterClient
		cl, err = orai.NewGraphOpenRouterClient(orai.NewGraphOpenRouterClientParams{
			ChatModel:    c.AI.ChatModel,
			ChatKey:      c.AI.ChatKey,
			TokenEncoder: c.AI.TokenEncoder,
		})
		client = cl
	case "gemini":
		var cl *gemini.GraphGeminiClient
		cl, err = gemini.NewGraphGeminiClient(ctx, gemini.NewGraphGeminiClientParams{
			ChatModel: c.AI.ChatModel,
			ChatKey:   c.AI.ChatKey,
		})
		client = cl
	case "", "openai":
		var cl *gai.GraphOpenAIClient
		cl, err = gai.NewGraphOpenAIClient(gai.NewGraphOpenAIClientParams{
			ChatModel: c.AI.ChatModel,
			ChatURL:   c.AI.ChatURL,
			ChatKey:   c.AI.ChatKey,
		})
		client = cl
	default:
		return nil, fmt.Errorf("unknown AI adapter %q", c.AI.Adapter)
	}

	if err != nil {
		return nil, err
	}
	return client, nil
}
