package sessionModel

import (
	"context"
	"time"

	"github.com/akolanti/KnowledgeSearch/internal/domain/commonModels"
)

type State string

const (
	Idle            State = "IDLE"
	ProcessingFiles State = "PROCESSING_FILES"
	Ready           State = "READY"
	Querying        State = "QUERYING"
	Answered        State = "ANSWERED"
	Error           State = "ERROR"
)

// Busy reports whether an asynchronous stage is in flight.
func (s State) Busy() bool {
	return s == ProcessingFiles || s == Querying
}

type SessionError struct {
	Kind    commonModels.ErrorKind `json:"kind"`
	Message string                 `json:"message"`
}

type Session struct {
	Id            string                     `json:"id"`
	State         State                      `json:"state"`
	Documents     []commonModels.Document    `json:"documents"`
	Skipped       []commonModels.SkippedFile `json:"skipped,omitempty"`
	Failures      []commonModels.FileFailure `json:"failures,omitempty"`
	Query         string                     `json:"query,omitempty"`
	Answer        string                     `json:"answer,omitempty"`
	Error         *SessionError              `json:"error,omitempty"`
	StatusMessage string                     `json:"status_message"`
	CreatedTime   time.Time                  `json:"created_time"`
	UpdatedTime   time.Time                  `json:"updated_time"`
}

type SessionStore interface {
	CreateSession(ctx context.Context, session Session) error
	GetSession(ctx context.Context, id string) (Session, bool)
	// UpdateSession applies fn atomically. If fn returns an error nothing is written.
	UpdateSession(ctx context.Context, id string, fn func(*Session) error) (Session, error)
	DeleteSession(ctx context.Context, id string)
}
