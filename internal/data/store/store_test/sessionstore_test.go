package store_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/akolanti/KnowledgeSearch/internal/config"
	"github.com/akolanti/KnowledgeSearch/internal/data/redisStore"
	"github.com/akolanti/KnowledgeSearch/internal/data/store"
	"github.com/akolanti/KnowledgeSearch/internal/domain/commonModels"
	"github.com/akolanti/KnowledgeSearch/internal/domain/sessionModel"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type storeCase struct {
	name string
	// concurrent writers the store is expected to serialize without losing an update
	writers int
	create  func(t *testing.T) sessionModel.SessionStore
}

func storeCases() []storeCase {
	return []storeCase{
		{
			name:    "InMemory",
			writers: 50,
			create: func(t *testing.T) sessionModel.SessionStore {
				return store.InitInMemorySessionStore()
			},
		},
		{
			name:    "Redis",
			writers: 5,
			create: func(t *testing.T) sessionModel.SessionStore {
				mr := miniredis.RunT(t)
				client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
				t.Cleanup(func() { _ = client.Close() })
				return store.TestSessionStore(redisStore.NewTestStore(client))
			},
		},
	}
}

func newTestSession(id string) sessionModel.Session {
	now := time.Now()
	return sessionModel.Session{
		Id:          id,
		State:       sessionModel.Idle,
		Documents:   []commonModels.Document{},
		CreatedTime: now,
		UpdatedTime: now,
	}
}

func TestSessionStore_Lifecycle(t *testing.T) {
	for _, tc := range storeCases() {
		t.Run(tc.name, func(t *testing.T) {
			sessionStore := tc.create(t)
			ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

			if err := sessionStore.CreateSession(ctx, newTestSession("s1")); err != nil {
				t.Fatalf("CreateSession failed: %v", err)
			}
			if err := sessionStore.CreateSession(ctx, newTestSession("s1")); err == nil {
				t.Error("expected duplicate CreateSession to fail")
			}

			got, found := sessionStore.GetSession(ctx, "s1")
			if !found || got.State != sessionModel.Idle {
				t.Fatalf("GetSession = %+v, %v", got, found)
			}

			updated, err := sessionStore.UpdateSession(ctx, "s1", func(s *sessionModel.Session) error {
				s.State = sessionModel.Ready
				s.Documents = []commonModels.Document{{Name: "a.txt", Content: "Paris"}}
				return nil
			})
			if err != nil {
				t.Fatalf("UpdateSession failed: %v", err)
			}
			if updated.State != sessionModel.Ready {
				t.Errorf("returned state = %s; want READY", updated.State)
			}

			got, _ = sessionStore.GetSession(ctx, "s1")
			if len(got.Documents) != 1 || got.Documents[0].Content != "Paris" {
				t.Errorf("stored documents = %+v", got.Documents)
			}

			sessionStore.DeleteSession(ctx, "s1")
			if _, found := sessionStore.GetSession(ctx, "s1"); found {
				t.Error("session still present after DeleteSession")
			}
		})
	}
}

func TestSessionStore_FailedUpdateWritesNothing(t *testing.T) {
	for _, tc := range storeCases() {
		t.Run(tc.name, func(t *testing.T) {
			sessionStore := tc.create(t)
			ctx := context.Background()
			_ = sessionStore.CreateSession(ctx, newTestSession("s1"))

			_, err := sessionStore.UpdateSession(ctx, "s1", func(s *sessionModel.Session) error {
				s.State = sessionModel.Querying
				return commonModels.BusyError()
			})
			if !errors.Is(err, commonModels.ErrBusy) {
				t.Fatalf("error = %v; want the error returned by fn", err)
			}

			got, _ := sessionStore.GetSession(ctx, "s1")
			if got.State != sessionModel.Idle {
				t.Errorf("state = %s; want IDLE", got.State)
			}
		})
	}
}

func TestSessionStore_UpdateUnknownSession(t *testing.T) {
	for _, tc := range storeCases() {
		t.Run(tc.name, func(t *testing.T) {
			sessionStore := tc.create(t)
			called := false
			_, err := sessionStore.UpdateSession(context.Background(), "ghost", func(s *sessionModel.Session) error {
				called = true
				return nil
			})
			if !errors.Is(err, commonModels.ErrNotFound) {
				t.Errorf("error = %v; want not found", err)
			}
			if called {
				t.Error("fn called for a missing session")
			}
		})
	}
}

func TestSessionStore_ConcurrentUpdates(t *testing.T) {
	for _, tc := range storeCases() {
		t.Run(tc.name, func(t *testing.T) {
			sessionStore := tc.create(t)
			ctx := context.Background()
			_ = sessionStore.CreateSession(ctx, newTestSession("race"))

			var wg sync.WaitGroup
			errs := make(chan error, tc.writers)
			for i := 0; i < tc.writers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, err := sessionStore.UpdateSession(ctx, "race", func(s *sessionModel.Session) error {
						docs := make([]commonModels.Document, len(s.Documents), len(s.Documents)+1)
						copy(docs, s.Documents)
						s.Documents = append(docs, commonModels.Document{Name: fmt.Sprintf("doc-%d", i)})
						return nil
					})
					if err != nil {
						errs <- err
					}
				}(i)
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				t.Errorf("concurrent update failed: %v", err)
			}

			got, _ := sessionStore.GetSession(ctx, "race")
			if len(got.Documents) != tc.writers {
				t.Errorf("documents = %d; want %d (lost update)", len(got.Documents), tc.writers)
			}
		})
	}
}

func TestRedisSessionStore_KeyAndTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	sessionStore := store.TestSessionStore(redisStore.NewTestStore(client))
	ctx := context.Background()

	if err := sessionStore.CreateSession(ctx, newTestSession("abc")); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	key := config.SessionKeyPrefix + "abc"
	if !mr.Exists(key) {
		t.Fatalf("expected key %s in redis", key)
	}
	if ttl := mr.TTL(key); ttl != config.SessionTTL {
		t.Errorf("ttl = %v; want %v", ttl, config.SessionTTL)
	}

	mr.FastForward(config.SessionTTL + time.Second)
	if _, found := sessionStore.GetSession(ctx, "abc"); found {
		t.Error("session should have expired")
	}
}
