package providers

import (
	"context"
	"fmt"

	"github.com/akolanti/KnowledgeSearch/internal/config"
	"github.com/akolanti/KnowledgeSearch/internal/customHttpClient"
	"github.com/akolanti/KnowledgeSearch/internal/domain/commonModels"
	"github.com/akolanti/KnowledgeSearch/internal/rag/llm"
	"github.com/akolanti/KnowledgeSearch/internal/rag/llm/gemini"
	"github.com/akolanti/KnowledgeSearch/internal/rag/llm/openaichat"
)

// New picks the answer-generation provider named in cfg.
func New(ctx context.Context, cfg config.LLMConfig) (llm.Provider, error) {
	switch cfg.Provider {
	case config.LLMProviderGemini, "":
		return gemini.GetGeminiClient(ctx, cfg, customHttpClient.Get())
	case config.LLMProviderOpenAI:
		return openaichat.GetOpenAIClient(cfg, customHttpClient.Get())
	default:
		return nil, commonModels.ConfigurationError(fmt.Errorf("unknown llm provider %q", cfg.Provider))
	}
}
