package config

import (
	"log/slog"
	"time"
)

const (
	LOG_LEVEL_PROD                  = slog.LevelInfo
	LOG_LEVEL_DEV                   = slog.LevelDebug
	FALLBACK_REDIS_TO_INTERNALSTORE = true //if redis init fails, it falls back to the in-memory session store
	TRACE_ID_KEY                    = "traceId"
	RATE_LIMIT_PER_SECOND           = 2
	BURST_RATE_LIMIT_PER_SECOND     = 5

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//serverTimeouts
	ReadTimeout            = 30 * time.Second //uploads can be slow
	WriteTimeout           = 30 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//uploads
	MaxUploadSize       = 32 << 20 //32mb
	UploadFormField     = "documents"
	TemporaryDataFolder = "temporary_data"

	//ingestion
	IngestPolicyAllOrNothing = "all_or_nothing"
	IngestPolicyPartial      = "partial"
	IngestPoolSize           = 8

	//llm
	LLMProviderGemini   = "gemini"
	LLMProviderOpenAI   = "openai"
	GeminiModelName     = "gemini-2.5-flash"
	OpenAIModelName     = "gpt-4o-mini"
	LLMAPIKeyVariable   = "API_KEY"
	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//sessions
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
	SessionTTL         = 24 * time.Hour
	SessionKeyPrefix   = "session:"

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	//redis has 16 DB we can use
	RedisSessionStore = 0
	RedisPingTimeout  = 3 * time.Second
	RedisIOTimeout    = 30 * time.Second

	//mcp
	MCPServerName    = "knowledge-search"
	MCPServerVersion = "1.0.0"
)
