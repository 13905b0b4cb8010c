package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/KnowledgeSearch/internal/config"
	"github.com/akolanti/KnowledgeSearch/internal/metrics"
	"github.com/akolanti/KnowledgeSearch/pkg/logger_i"
	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

// Middleware runs trace injection, auth and the optional rate limiter before every handler.
type Middleware struct {
	authToken string
	limiter   *IPRateLimiter
}

// New builds the chain from server config. An empty AuthToken disables auth, a nil limiter
// disables rate limiting.
func New(cfg config.ServerConfig) *Middleware {
	m := &Middleware{authToken: cfg.AuthToken}
	if cfg.RateLimitEnabled {
		m.limiter = NewIPRateLimiter(rate.Limit(config.RATE_LIMIT_PER_SECOND), config.BURST_RATE_LIMIT_PER_SECOND)
	}
	return m
}

func (m *Middleware) Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200} //metrics
		re := m.processRequest(requestResponseStruct{req: r, writer: rec})

		if re.badRequest.isBadRequest {
			handleBadRequest(re)
		} else {
			next(rec, re.req)
		}

		metrics.HttpRequestsTotal.WithLabelValues(routePattern(r), strconv.Itoa(rec.Status)).Inc() //metrics
	}
}

// Handler adapts Wrap for handlers mounted as http.Handler.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return m.Wrap(next.ServeHTTP)
}

func (m *Middleware) processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re = injectTrace(re)
	if re.badRequest.isBadRequest {
		return re
	}
	re.logger.Debug("New request received", "method", re.req.Method, "path", re.req.URL.Path)

	re = m.authenticate(re)
	if re.badRequest.isBadRequest {
		return re //stop if auth fails
	}
	if m.limiter != nil {
		re = m.rateLimiter(re)
	}
	return re
}

// route patterns keep the label set bounded, session ids are not labels
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
