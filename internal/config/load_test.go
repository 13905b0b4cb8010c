package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv(LLMAPIKeyVariable, "")

	_, err := Load("")
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("Load() error = %v; want ErrMissingAPIKey", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(LLMAPIKeyVariable, "secret")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.LLM.Provider != LLMProviderGemini || cfg.LLM.Model != GeminiModelName {
		t.Errorf("llm config = %+v; want gemini defaults", cfg.LLM)
	}
	if cfg.LLM.APIKey != "secret" {
		t.Errorf("APIKey = %q; want secret", cfg.LLM.APIKey)
	}
	if cfg.Ingest.Policy != IngestPolicyAllOrNothing {
		t.Errorf("Policy = %q; want %q", cfg.Ingest.Policy, IngestPolicyAllOrNothing)
	}
	if cfg.Session.Store != SessionStoreMemory {
		t.Errorf("Store = %q; want %q", cfg.Session.Store, SessionStoreMemory)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
log_level: info
server:
  listen_addr: ":8080"
llm:
  provider: openai
ingest:
  policy: partial
  pool_size: 3
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(LLMAPIKeyVariable, "secret")
	t.Setenv("LISTEN_ADDR", ":9090")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"listen addr overridden by env", cfg.Server.ListenAddr, ":9090"},
		{"provider from file", cfg.LLM.Provider, LLMProviderOpenAI},
		{"model switched with provider", cfg.LLM.Model, OpenAIModelName},
		{"policy from file", cfg.Ingest.Policy, IngestPolicyPartial},
		{"pool size from file", cfg.Ingest.PoolSize, 3},
		{"log level from file", cfg.LogLevel, "info"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	base := Default()
	base.LLM.APIKey = "k"

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"unknown provider", func(c *Config) { c.LLM.Provider = "llama" }, true},
		{"unknown policy", func(c *Config) { c.Ingest.Policy = "some" }, true},
		{"unknown store", func(c *Config) { c.Session.Store = "badger" }, true},
		{"bad pool size", func(c *Config) { c.Ingest.PoolSize = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
