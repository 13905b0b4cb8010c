package gemini

import (
	"context"
	"net/http"

	"github.com/akolanti/KnowledgeSearch/internal/config"
	"github.com/akolanti/KnowledgeSearch/internal/domain/commonModels"
	"github.com/akolanti/KnowledgeSearch/internal/rag/llm"
	"github.com/akolanti/KnowledgeSearch/pkg/logger_i"
	"google.golang.org/genai"
)

type llmClient struct {
	client    *genai.Client
	modelName string
	apiKey    string
	logger    *logger_i.Logger
}

// GetGeminiClient builds the provider from an explicit config. A missing key fails here,
// before any network call can be attempted.
func GetGeminiClient(ctx context.Context, cfg config.LLMConfig, httpClient *http.Client) (llm.Provider, error) {
	logger := logger_i.NewLogger("llm_gemini")
	if cfg.APIKey == "" {
		return nil, commonModels.ConfigurationError(config.ErrMissingAPIKey)
	}

	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		logger.Error("Error creating Gemini client", "error", err)
		return nil, commonModels.ConfigurationError(err)
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = config.GeminiModelName
	}
	logger.Info("Gemini client created", "model", modelName)
	return &llmClient{client: c, modelName: modelName, apiKey: cfg.APIKey, logger: logger}, nil
}

func (c *llmClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" || c.client == nil {
		return "", commonModels.ConfigurationError(config.ErrMissingAPIKey)
	}
	log := c.logger.WithTrace(ctx, config.TRACE_ID_KEY)
	log.Debug("Calling Gemini", "model", c.modelName, "promptBytes", len(prompt))

	result, err := c.client.Models.GenerateContent(ctx, c.modelName, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", nil
	}
	return result.Text(), nil
}
