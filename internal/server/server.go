package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"

	"github.com/akolanti/KnowledgeSearch/internal/adapter/utils"
	"github.com/akolanti/KnowledgeSearch/internal/config"
	"github.com/akolanti/KnowledgeSearch/internal/handlers"
	"github.com/akolanti/KnowledgeSearch/internal/middleware"
	"github.com/akolanti/KnowledgeSearch/pkg/logger_i"
)

var (
	server  *http.Server
	_logger = logger_i.NewLogger("Server")
	ready   = make(chan struct{})
)

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	WorkerStop       chan bool
	Group            *sync.WaitGroup
	DrainJobs        func()
	CloseServices    context.CancelFunc
}

type Routes struct {
	Handler    *handlers.Handler
	MCP        http.Handler
	Middleware *middleware.Middleware
}

// NewRouter registers every route behind the middleware chain. /metrics and /swagger stay open.
func NewRouter(routes Routes) http.Handler {
	r := utils.NewRouter()
	wrap := routes.Middleware.Wrap
	h := routes.Handler

	r.Router.Get("/health", wrap(h.GetHandler))
	r.Router.Post("/sessions", wrap(h.CreateSessionHandler))
	r.Router.Get("/sessions/{id}", wrap(h.GetSessionHandler))
	r.Router.Delete("/sessions/{id}", wrap(h.DeleteSessionHandler))
	r.Router.Post("/sessions/{id}/documents", wrap(h.PostDocumentsHandler))
	r.Router.Post("/sessions/{id}/query", wrap(h.PostQueryHandler))
	if routes.MCP != nil {
		r.Router.Handle("/mcp", routes.Middleware.Handler(routes.MCP))
	}
	return r.Router
}

func CreateServer(listenAddr string, handler http.Handler) {
	server = &http.Server{
		Addr:         listenAddr,
		Handler:      handler,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}
	close(ready)

	_logger.Info("Server is listening at", "address", listenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_logger.Error("Server crashed", "error", err.Error(), "addr", listenAddr)
	}
}

func ShutDownHandler(shutdownParams ShutdownParams) {
	state := <-shutdownParams.GracefulShutdown
	_logger.Info("Server is shutting down", "signal", state.String())

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})

	go func() {
		<-ready
		server.SetKeepAlivesEnabled(false)

		if err := server.Shutdown(ctx); err != nil {
			_logger.Error("Could not shutdown gracefully", "error", err)
		}

		//close workers, running jobs finish first
		close(shutdownParams.WorkerStop)
		shutdownParams.Group.Wait()
		//queued jobs never ran, settle their sessions while the stores are still open
		if shutdownParams.DrainJobs != nil {
			shutdownParams.DrainJobs()
		}
		shutdownParams.CloseServices()
		close(shutdownParams.StopExecution)
		close(done)
	}()

	select {
	case <-done:
		_logger.Info("Gracefully shut down")
	case <-ctx.Done():
		_logger.Info("Force Shut down")
		os.Exit(1)
	}
}
