package rag

import (
	"context"
	"strings"
	"time"

	"github.com/akolanti/KnowledgeSearch/internal/config"
	"github.com/akolanti/KnowledgeSearch/internal/domain/commonModels"
	"github.com/akolanti/KnowledgeSearch/internal/metrics"
	"github.com/akolanti/KnowledgeSearch/internal/rag/llm"
	"github.com/akolanti/KnowledgeSearch/pkg/logger_i"
)

// Service is the whole pipeline as seen by sessions: ingestion, then synthesis.
type Service interface {
	Ingest(ctx context.Context, files []commonModels.InputFile) (commonModels.Batch, error)
	Synthesize(ctx context.Context, query string, documents []commonModels.Document) (string, error)
}

// Ingestor is satisfied by *ingest.Ingestor.
type Ingestor interface {
	ProcessFiles(ctx context.Context, files []commonModels.InputFile) (commonModels.Batch, error)
}

type service struct {
	ingestor    Ingestor
	llmProvider llm.Provider
	logger      *logger_i.Logger
}

func NewService(ingestor Ingestor, provider llm.Provider) Service {
	return &service{
		ingestor:    ingestor,
		llmProvider: provider,
		logger:      logger_i.NewLogger("RAG Service"),
	}
}

func (s *service) Ingest(ctx context.Context, files []commonModels.InputFile) (commonModels.Batch, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()

	return s.ingestor.ProcessFiles(ctx, files)
}

// Synthesize makes exactly one call to the provider. Transport and service failures come back
// as a generic service error, the cause is only logged.
func (s *service) Synthesize(ctx context.Context, query string, documents []commonModels.Document) (string, error) {
	log := s.logger.WithTrace(ctx, config.TRACE_ID_KEY)

	if s.llmProvider == nil {
		return "", commonModels.ConfigurationError(config.ErrMissingAPIKey)
	}
	query = strings.TrimSpace(query)
	if query == "" || len(documents) == 0 {
		return "", commonModels.ValidationError(commonModels.ValidationMessage)
	}

	fullPrompt := s.executePromptStep(log, documents, query)

	answer, err := s.executeLLMStep(ctx, fullPrompt)
	if err != nil {
		if commonModels.KindOf(err) == commonModels.KindConfiguration {
			log.Error("LLM_CONFIGURATION_FAILURE", "error", err)
			return "", err
		}
		return "", s.serviceError(log, err)
	}
	if answer == "" {
		log.Warn("LLM_EMPTY_RESPONSE", "promptBytes", len(fullPrompt))
		return "", commonModels.EmptyResponseError()
	}
	return answer, nil
}
