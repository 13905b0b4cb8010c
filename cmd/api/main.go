// @title           Knowledge Search API
// @version         1.0
// @description     Upload text and PDF documents into a session, then ask questions answered from them.
// @termsOfService  http://swagger.io/terms/

// @contact.name    API Support
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/KnowledgeSearch/internal/config"
	"github.com/akolanti/KnowledgeSearch/internal/data/store"
	"github.com/akolanti/KnowledgeSearch/internal/domain/sessionModel"
	"github.com/akolanti/KnowledgeSearch/internal/handlers"
	"github.com/akolanti/KnowledgeSearch/internal/job"
	"github.com/akolanti/KnowledgeSearch/internal/mcpserver"
	"github.com/akolanti/KnowledgeSearch/internal/middleware"
	"github.com/akolanti/KnowledgeSearch/internal/rag"
	"github.com/akolanti/KnowledgeSearch/internal/rag/ingest"
	"github.com/akolanti/KnowledgeSearch/internal/rag/llm/providers"
	"github.com/akolanti/KnowledgeSearch/internal/server"
	"github.com/akolanti/KnowledgeSearch/internal/session"
	"github.com/akolanti/KnowledgeSearch/internal/worker"
	"github.com/akolanti/KnowledgeSearch/pkg/logger_i"
)

var (
	configPath        string
	listenAddr        string
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup

	newProvider = providers.New
)

func main() {
	flag.StringVar(&configPath, "config", "", "optional YAML config file")
	flag.StringVar(&listenAddr, "listen-addr", "", "server listen address, overrides config")
	flag.Parse()

	os.Exit(run(configPath, listenAddr))
}

// run blocks until the server is shut down and returns the process exit code.
func run(configPath string, listenAddr string) int {
	cfg, err := config.Load(configPath)
	logger_i.Init(cfg.IsProd, cfg.LogLevel)
	var logger = logger_i.NewLogger("main")
	if err != nil {
		//the credential is checked before anything can reach the network
		logger.Error("Invalid configuration", "error", err)
		return 1
	}
	if listenAddr == "" {
		listenAddr = cfg.Server.ListenAddr
	}

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	sessionStore := initSessionStore(serviceContext, cfg.Session, logger)

	llmProvider, err := newProvider(serviceContext, cfg.LLM)
	if err != nil {
		logger.Error("LLM provider failed to initialize. Shutting down.", "provider", cfg.LLM.Provider, "error", err)
		return 1
	}

	ingestor := ingest.NewIngestor(
		ingest.WithPolicy(cfg.Ingest.Policy),
		ingest.WithPoolSize(cfg.Ingest.PoolSize),
	)
	ragService := rag.NewService(ingestor, llmProvider)

	//init job service and worker pool
	logger.Info("Starting job service")
	jobService := job.InitJobService(job.ServiceConfig{})
	sessionService := session.NewService(sessionStore, ragService, jobService)

	stopWorkerChannel = make(chan bool, 1)
	pool := worker.NewPool(jobService, sessionService, stopWorkerChannel, &workerWaitGroup)
	pool.Start()

	router := server.NewRouter(server.Routes{
		Handler:    handlers.NewHandler(sessionService, ""),
		MCP:        mcpserver.NewHandler(mcpserver.NewServer(sessionService)),
		Middleware: middleware.New(cfg.Server),
	})

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		DrainJobs:        pool.DrainQueue,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr, router)

	<-stopExecution
	logger.Info("Server stopped")
	return 0
}

func initSessionStore(ctx context.Context, cfg config.SessionConfig, logger *logger_i.Logger) sessionModel.SessionStore {
	if cfg.Store != config.SessionStoreRedis {
		logger.Info("Using in-memory session store")
		return store.InitInMemorySessionStore()
	}
	redisSessions, err := store.GetRedisSessionStore(ctx, cfg)
	if err == nil {
		logger.Info("Using redis session store", "addr", cfg.RedisAddr)
		return redisSessions
	}
	if !config.FALLBACK_REDIS_TO_INTERNALSTORE {
		logger.Error("Redis session store is offline", "error", err)
		os.Exit(1)
	}
	logger.Error("Redis session store is offline, falling back to in-memory", "error", err)
	return store.InitInMemorySessionStore()
}
