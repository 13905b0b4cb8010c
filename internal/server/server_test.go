package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akolanti/KnowledgeSearch/internal/config"
	"github.com/akolanti/KnowledgeSearch/internal/data/store"
	"github.com/akolanti/KnowledgeSearch/internal/handlers"
	"github.com/akolanti/KnowledgeSearch/internal/middleware"
	"github.com/akolanti/KnowledgeSearch/internal/session"
)

func newTestRouter(t *testing.T, token string) http.Handler {
	sessions := session.NewService(store.InitInMemorySessionStore(), nil, nil)
	return NewRouter(Routes{
		Handler:    handlers.NewHandler(sessions, t.TempDir()),
		Middleware: middleware.New(config.ServerConfig{AuthToken: token}),
	})
}

func TestNewRouter(t *testing.T) {
	router := newTestRouter(t, "secret")
	tests := []struct {
		name   string
		method string
		path   string
		auth   string
		want   int
	}{
		{"Metrics_Open", http.MethodGet, "/metrics", "", http.StatusOK},
		{"Swagger_Redirect", http.MethodGet, "/swagger", "", http.StatusMovedPermanently},
		{"Health_Needs_Token", http.MethodGet, "/health", "", http.StatusUnauthorized},
		{"Health", http.MethodGet, "/health", "Bearer secret", http.StatusOK},
		{"Create_Session", http.MethodPost, "/sessions", "Bearer secret", http.StatusCreated},
		{"Unknown_Session", http.MethodGet, "/sessions/ghost", "Bearer secret", http.StatusNotFound},
		{"Unknown_Route", http.MethodGet, "/nope", "Bearer secret", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("%s %s = %d; want %d", tt.method, tt.path, rec.Code, tt.want)
			}
		})
	}
}
