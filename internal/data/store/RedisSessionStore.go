package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/akolanti/KnowledgeSearch/internal/config"
	"github.com/akolanti/KnowledgeSearch/internal/data/redisStore"
	"github.com/akolanti/KnowledgeSearch/internal/domain/commonModels"
	"github.com/akolanti/KnowledgeSearch/internal/domain/sessionModel"
	"github.com/akolanti/KnowledgeSearch/pkg/logger_i"
)

// RedisSessionStore keeps each session as JSON under "session:<id>". The TTL is refreshed on
// every write, so an untouched session expires after config.SessionTTL.
type RedisSessionStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisSessionStore(ctx context.Context, cfg config.SessionConfig) (*RedisSessionStore, error) {
	s, err := redisStore.GetRedisStore(ctx, cfg, config.RedisSessionStore)
	if err != nil {
		return nil, err
	}
	return &RedisSessionStore{
		store:  s,
		logger: logger_i.NewLogger("SessionStore"),
	}, nil
}

func sessionKey(id string) string {
	return config.SessionKeyPrefix + id
}

func (s *RedisSessionStore) CreateSession(ctx context.Context, newSession sessionModel.Session) error {
	log := s.logger.WithTrace(ctx, config.TRACE_ID_KEY).With("sessionId", newSession.Id)
	data, err := json.Marshal(newSession)
	if err != nil {
		return err
	}
	created, err := s.store.SetNX(ctx, sessionKey(newSession.Id), data, config.SessionTTL)
	if err != nil {
		log.Error("Failed to save session to Redis", "error", err)
		return err
	}
	if !created {
		return fmt.Errorf("session %s already exists", newSession.Id)
	}
	log.Debug("Saved session to Redis")
	return nil
}

func (s *RedisSessionStore) GetSession(ctx context.Context, id string) (sessionModel.Session, bool) {
	var found sessionModel.Session
	log := s.logger.WithTrace(ctx, config.TRACE_ID_KEY).With("sessionId", id)
	val, err := s.store.Get(ctx, sessionKey(id))
	if s.store.IsNil(err) {
		return found, false
	} else if err != nil {
		log.Error("Failed to read session from Redis", "error", err)
		return found, false
	}

	if err = json.Unmarshal([]byte(val), &found); err != nil {
		log.Error("Corrupt session in Redis", "error", err)
		return sessionModel.Session{}, false
	}
	return found, true
}

func (s *RedisSessionStore) UpdateSession(ctx context.Context, id string, fn func(*sessionModel.Session) error) (sessionModel.Session, error) {
	var next sessionModel.Session
	err := s.store.Update(ctx, sessionKey(id), config.SessionTTL, func(current string) (string, error) {
		next = sessionModel.Session{}
		if err := json.Unmarshal([]byte(current), &next); err != nil {
			return "", fmt.Errorf("decoding session %s: %w", id, err)
		}
		if err := fn(&next); err != nil {
			return "", err
		}
		data, err := json.Marshal(next)
		return string(data), err
	})
	if s.store.IsNil(err) {
		return sessionModel.Session{}, commonModels.NotFoundError(id)
	}
	if err != nil {
		var pe *commonModels.PipelineError
		if !errors.As(err, &pe) {
			s.logger.WithTrace(ctx, config.TRACE_ID_KEY).Error("Failed to update session in Redis", "sessionId", id, "error", err)
		}
		return sessionModel.Session{}, err
	}
	return next, nil
}

func (s *RedisSessionStore) DeleteSession(ctx context.Context, id string) {
	if err := s.store.Del(ctx, sessionKey(id)); err != nil {
		s.logger.Error("Error deleting session from Redis", "sessionId", id, "error", err)
		return
	}
	s.logger.Debug("Session deleted from Redis", "sessionId", id)
}

func TestSessionStore(store *redisStore.Store) *RedisSessionStore {
	return &RedisSessionStore{
		store:  store,
		logger: logger_i.NewLogger("test redis"),
	}
}
