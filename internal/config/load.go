package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrMissingAPIKey is returned when no credential for the answer-generation service is configured.
var ErrMissingAPIKey = errors.New(LLMAPIKeyVariable + " environment variable is not set.")

type Config struct {
	IsProd   bool   `yaml:"is_prod"`
	LogLevel string `yaml:"log_level"`

	Server  ServerConfig  `yaml:"server"`
	LLM     LLMConfig     `yaml:"llm"`
	Ingest  IngestConfig  `yaml:"ingest"`
	Session SessionConfig `yaml:"session"`
}

type ServerConfig struct {
	ListenAddr       string `yaml:"listen_addr"`
	AuthToken        string `yaml:"-"` //env only
	RateLimitEnabled bool   `yaml:"rate_limit_enabled"`
}

// LLMConfig is handed to the provider explicitly, nothing reads the credential from globals.
type LLMConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"-"` //env only
}

type IngestConfig struct {
	Policy   string `yaml:"policy"`
	PoolSize int    `yaml:"pool_size"`
}

type SessionConfig struct {
	Store         string `yaml:"store"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"-"` //env only
}

func Default() Config {
	return Config{
		LogLevel: "debug",
		Server: ServerConfig{
			ListenAddr: ServerListenAddr,
		},
		LLM: LLMConfig{
			Provider: LLMProviderGemini,
			Model:    GeminiModelName,
		},
		Ingest: IngestConfig{
			Policy:   IngestPolicyAllOrNothing,
			PoolSize: IngestPoolSize,
		},
		Session: SessionConfig{
			Store:     SessionStoreMemory,
			RedisAddr: RedisAddr,
		},
	}
}

// Load builds the process configuration: defaults, then the optional yaml file at path,
// then .env (if present), then the process environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	//a missing .env is fine
	_ = godotenv.Load()

	applyEnv(&cfg)

	//switching provider without naming a model should not send a gemini model name to openai
	if cfg.LLM.Provider == LLMProviderOpenAI && cfg.LLM.Model == GeminiModelName {
		cfg.LLM.Model = OpenAIModelName
	}

	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config) {
	setString(&cfg.LLM.APIKey, LLMAPIKeyVariable)
	setString(&cfg.LLM.Provider, "LLM_PROVIDER")
	setString(&cfg.LLM.Model, "LLM_MODEL")
	setString(&cfg.Server.ListenAddr, "LISTEN_ADDR")
	setString(&cfg.Server.AuthToken, "AUTH_TOKEN")
	setBool(&cfg.Server.RateLimitEnabled, "RATE_LIMIT_ENABLED")
	setString(&cfg.Session.Store, "SESSION_STORE")
	setString(&cfg.Session.RedisAddr, "REDIS_ADDR")
	setString(&cfg.Session.RedisPassword, "REDIS_PASSWORD")
	setString(&cfg.Ingest.Policy, "INGEST_POLICY")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setBool(&cfg.IsProd, "IS_PROD")

	cfg.LLM.Provider = strings.ToLower(cfg.LLM.Provider)
	cfg.Ingest.Policy = strings.ToLower(cfg.Ingest.Policy)
	cfg.Session.Store = strings.ToLower(cfg.Session.Store)
}

// Validate reports the first unusable setting. A missing API key is reported as ErrMissingAPIKey.
func (c Config) Validate() error {
	switch c.LLM.Provider {
	case LLMProviderGemini, LLMProviderOpenAI:
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	switch c.Ingest.Policy {
	case IngestPolicyAllOrNothing, IngestPolicyPartial:
	default:
		return fmt.Errorf("unknown ingest policy %q", c.Ingest.Policy)
	}
	switch c.Session.Store {
	case SessionStoreMemory, SessionStoreRedis:
	default:
		return fmt.Errorf("unknown session store %q", c.Session.Store)
	}
	if c.Ingest.PoolSize < 1 {
		return fmt.Errorf("ingest pool size must be positive, got %d", c.Ingest.PoolSize)
	}
	if c.LLM.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

func setString(target *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*target = v
	}
}

func setBool(target *bool, key string) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err == nil {
		*target = b
	}
}
