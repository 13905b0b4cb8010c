package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/akolanti/KnowledgeSearch/internal/config"
	"github.com/akolanti/KnowledgeSearch/internal/domain/commonModels"
	"github.com/akolanti/KnowledgeSearch/internal/domain/sessionModel"
	"github.com/akolanti/KnowledgeSearch/pkg/logger_i"
)

type InMemorySessionStore struct {
	sessionMutex *sync.RWMutex
	sessionMap   map[string]sessionModel.Session
	ttl          time.Duration
	now          func() time.Time
	logger       *logger_i.Logger
}

func InitInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		sessionMutex: new(sync.RWMutex),
		sessionMap:   make(map[string]sessionModel.Session),
		ttl:          config.SessionTTL,
		now:          time.Now,
		logger:       logger_i.NewLogger("InMem SessionStore"),
	}
}

// expired sessions are dropped lazily, on the next access
func (store *InMemorySessionStore) expired(s sessionModel.Session) bool {
	return store.ttl > 0 && store.now().Sub(s.UpdatedTime) > store.ttl
}

func (store *InMemorySessionStore) CreateSession(ctx context.Context, newSession sessionModel.Session) error {
	store.sessionMutex.Lock()
	defer store.sessionMutex.Unlock()
	if existing, found := store.sessionMap[newSession.Id]; found && !store.expired(existing) {
		return fmt.Errorf("session %s already exists", newSession.Id)
	}
	store.sessionMap[newSession.Id] = newSession
	store.logger.Debug("Saved session to store", "sessionId", newSession.Id)
	return nil
}

func (store *InMemorySessionStore) GetSession(ctx context.Context, id string) (sessionModel.Session, bool) {
	store.sessionMutex.RLock()
	result, found := store.sessionMap[id]
	store.sessionMutex.RUnlock()

	if found && store.expired(result) {
		store.DeleteSession(ctx, id)
		return sessionModel.Session{}, false
	}
	return result, found
}

// UpdateSession runs fn on a copy under the write lock. The copy only replaces the stored
// session when fn succeeds.
func (store *InMemorySessionStore) UpdateSession(ctx context.Context, id string, fn func(*sessionModel.Session) error) (sessionModel.Session, error) {
	store.sessionMutex.Lock()
	defer store.sessionMutex.Unlock()

	current, found := store.sessionMap[id]
	if !found || store.expired(current) {
		delete(store.sessionMap, id)
		return sessionModel.Session{}, commonModels.NotFoundError(id)
	}

	next := current
	if err := fn(&next); err != nil {
		return sessionModel.Session{}, err
	}
	store.sessionMap[id] = next
	return next, nil
}

func (store *InMemorySessionStore) DeleteSession(ctx context.Context, id string) {
	store.sessionMutex.Lock()
	defer store.sessionMutex.Unlock()
	delete(store.sessionMap, id)
}
