package main

import (
	"context"
	"errors"
	"testing"

	"github.com/akolanti/KnowledgeSearch/internal/config"
	"github.com/akolanti/KnowledgeSearch/internal/domain/commonModels"
	"github.com/akolanti/KnowledgeSearch/internal/rag/llm"
)

func TestRun_StartupFailuresExitNonZero(t *testing.T) {
	original := newProvider
	t.Cleanup(func() { newProvider = original })

	t.Run("missing api key", func(t *testing.T) {
		t.Setenv(config.LLMAPIKeyVariable, "")
		if code := run("", ""); code != 1 {
			t.Errorf("run() = %d; want 1", code)
		}
	})

	t.Run("provider init failure", func(t *testing.T) {
		t.Setenv(config.LLMAPIKeyVariable, "test-key")
		t.Setenv("SESSION_STORE", config.SessionStoreMemory)
		called := false
		newProvider = func(ctx context.Context, cfg config.LLMConfig) (llm.Provider, error) {
			called = true
			return nil, commonModels.ConfigurationError(errors.New("client rejected"))
		}
		if code := run("", ""); code != 1 {
			t.Errorf("run() = %d; want 1", code)
		}
		if !called {
			t.Error("provider constructor was not reached")
		}
	})
}
