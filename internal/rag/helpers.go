package rag

import (
	"context"
	"time"

	"github.com/akolanti/KnowledgeSearch/internal/domain/commonModels"
	"github.com/akolanti/KnowledgeSearch/internal/metrics"
	"github.com/akolanti/KnowledgeSearch/internal/rag/prompt"
	"github.com/akolanti/KnowledgeSearch/pkg/logger_i"
)

func (s *service) serviceError(log *logger_i.Logger, err error) error {
	log.Error("LLM_GENERATION_FAILURE", "error", err)
	return commonModels.ServiceError(err)
}

// no budget is applied, the size is only made visible
func (s *service) executePromptStep(log *logger_i.Logger, documents []commonModels.Document, query string) string {
	fullPrompt := prompt.Build(documents, query)
	metrics.ObservePromptSize(len(fullPrompt))
	log.Debug("Prompt assembled", "documents", len(documents), "promptBytes", len(fullPrompt))
	return fullPrompt
}

func (s *service) executeLLMStep(ctx context.Context, fullPrompt string) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	return s.llmProvider.Generate(ctx, fullPrompt)
}
