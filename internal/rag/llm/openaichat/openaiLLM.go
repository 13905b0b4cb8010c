package openaichat

import (
	"context"
	"net/http"

	"github.com/akolanti/KnowledgeSearch/internal/config"
	"github.com/akolanti/KnowledgeSearch/internal/domain/commonModels"
	"github.com/akolanti/KnowledgeSearch/internal/rag/llm"
	"github.com/akolanti/KnowledgeSearch/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type llmClient struct {
	client    openai.Client
	modelName string
	apiKey    string
	logger    *logger_i.Logger
}

func GetOpenAIClient(cfg config.LLMConfig, httpClient *http.Client) (llm.Provider, error) {
	if cfg.APIKey == "" {
		return nil, commonModels.ConfigurationError(config.ErrMissingAPIKey)
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0), //one outbound call per question
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = config.OpenAIModelName
	}
	logger := logger_i.NewLogger("llm_openai")
	logger.Info("OpenAI client created", "model", modelName)
	return &llmClient{
		client:    openai.NewClient(opts...),
		modelName: modelName,
		apiKey:    cfg.APIKey,
		logger:    logger,
	}, nil
}

func (c *llmClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", commonModels.ConfigurationError(config.ErrMissingAPIKey)
	}
	log := c.logger.WithTrace(ctx, config.TRACE_ID_KEY)
	log.Debug("Calling OpenAI", "model", c.modelName, "promptBytes", len(prompt))

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", err
	}
	if completion == nil || len(completion.Choices) == 0 {
		return "", nil
	}
	return completion.Choices[0].Message.Content, nil
}
