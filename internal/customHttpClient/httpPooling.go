package customHttpClient

import (
	"net/http"
	"sync"

	"github.com/akolanti/KnowledgeSearch/internal/config"
)

var (
	once   sync.Once
	client *http.Client
)

// Get returns the pooled client shared by the llm providers. No timeout is set here,
// a call takes as long as the caller's context allows.
func Get() *http.Client {
	once.Do(func() {
		client = &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        config.MaxIdleConns,
				MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
				IdleConnTimeout:     config.IdleConnTimeout,
			},
		}
	})
	return client
}
