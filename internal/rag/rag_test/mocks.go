package rag_test

import (
	"context"
	"sync/atomic"

	"github.com/akolanti/KnowledgeSearch/internal/domain/commonModels"
)

// MockIngestor implements rag.Ingestor
type MockIngestor struct {
	OnProcessFiles func(ctx context.Context, files []commonModels.InputFile) (commonModels.Batch, error)
}

func (m *MockIngestor) ProcessFiles(ctx context.Context, files []commonModels.InputFile) (commonModels.Batch, error) {
	if m.OnProcessFiles != nil {
		return m.OnProcessFiles(ctx, files)
	}
	docs := make([]commonModels.Document, 0, len(files))
	for _, f := range files {
		docs = append(docs, commonModels.Document{Name: f.Name})
	}
	return commonModels.Batch{Documents: docs}, nil
}

// MockLLM implements llm.Provider
type MockLLM struct {
	OnGenerate func(ctx context.Context, prompt string) (string, error)
	Calls      int32
	LastPrompt string
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	atomic.AddInt32(&m.Calls, 1)
	m.LastPrompt = prompt
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, prompt)
	}
	return "mocked llm response", nil
}
