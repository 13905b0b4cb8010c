package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akolanti/KnowledgeSearch/internal/domain/commonModels"
	"github.com/akolanti/KnowledgeSearch/internal/domain/sessionModel"
	"github.com/akolanti/KnowledgeSearch/internal/metrics"
)

const (
	NoFilesMessage       = "Please select at least one file."
	IngestFailedStatus   = "File processing failed."
	SynthesizingStatus   = "Synthesizing answer..."
	AnswerCompleteStatus = "Answer generated."
)

// ErrStaleTransition is returned when a stage finishes for a session that is no longer
// waiting on it.
var ErrStaleTransition = errors.New("session is not waiting for this stage")

func NewSession(id string) sessionModel.Session {
	now := time.Now()
	return sessionModel.Session{
		Id:          id,
		State:       sessionModel.Idle,
		Documents:   []commonModels.Document{},
		CreatedTime: now,
		UpdatedTime: now,
	}
}

func transition(s *sessionModel.Session, to sessionModel.State, status string) {
	s.State = to
	s.StatusMessage = status
	s.UpdatedTime = time.Now()
	metrics.CaptureTransition(string(to))
}

func setError(s *sessionModel.Session, err error) {
	s.Error = &sessionModel.SessionError{
		Kind:    commonModels.KindOf(err),
		Message: commonModels.UserMessage(err),
	}
}

// BeginIngest starts a new file batch. Documents, answer and error of the previous batch are dropped.
func BeginIngest(s *sessionModel.Session, fileCount int) error {
	if s.State.Busy() {
		return commonModels.BusyError()
	}
	if fileCount == 0 {
		return commonModels.ValidationError(NoFilesMessage)
	}
	s.Documents = []commonModels.Document{}
	s.Skipped = nil
	s.Failures = nil
	s.Query = ""
	s.Answer = ""
	s.Error = nil
	transition(s, sessionModel.ProcessingFiles, fmt.Sprintf("Processing %d file(s)...", fileCount))
	return nil
}

// CompleteIngest replaces the collection with the batch result. A partial batch where every
// recognized file failed is reported as a failure.
func CompleteIngest(s *sessionModel.Session, batch commonModels.Batch) error {
	if s.State != sessionModel.ProcessingFiles {
		return ErrStaleTransition
	}
	if len(batch.Documents) == 0 && len(batch.Failures) > 0 {
		s.Documents = []commonModels.Document{}
		s.Skipped = batch.Skipped
		s.Failures = batch.Failures
		first := batch.Failures[0]
		kind := first.Kind
		if kind == "" {
			kind = commonModels.KindParse
		}
		s.Error = &sessionModel.SessionError{Kind: kind, Message: first.Error}
		transition(s, sessionModel.Error, IngestFailedStatus)
		return nil
	}
	s.Documents = batch.Documents
	if s.Documents == nil {
		s.Documents = []commonModels.Document{}
	}
	s.Skipped = batch.Skipped
	s.Failures = batch.Failures
	transition(s, sessionModel.Ready, fmt.Sprintf("%d document(s) loaded successfully.", len(s.Documents)))
	return nil
}

// FailIngest leaves the session without documents.
func FailIngest(s *sessionModel.Session, err error) error {
	if s.State != sessionModel.ProcessingFiles {
		return ErrStaleTransition
	}
	s.Documents = []commonModels.Document{}
	s.Skipped = nil
	s.Failures = nil
	setError(s, err)
	transition(s, sessionModel.Error, IngestFailedStatus)
	return nil
}

// BeginQuery gates a query. A rejected query is recorded on the session as a validation error
// and also returned, so no synthesis is started.
func BeginQuery(s *sessionModel.Session, query string) error {
	if s.State.Busy() {
		return commonModels.BusyError()
	}
	query = strings.TrimSpace(query)
	if query == "" || len(s.Documents) == 0 {
		err := commonModels.ValidationError(commonModels.ValidationMessage)
		s.Answer = ""
		setError(s, err)
		transition(s, sessionModel.Error, err.Message)
		return err
	}
	s.Query = query
	s.Answer = ""
	s.Error = nil
	transition(s, sessionModel.Querying, SynthesizingStatus)
	return nil
}

func CompleteQuery(s *sessionModel.Session, answer string) error {
	if s.State != sessionModel.Querying {
		return ErrStaleTransition
	}
	s.Answer = answer
	transition(s, sessionModel.Answered, AnswerCompleteStatus)
	return nil
}

// FailQuery keeps the documents so the user can ask again.
func FailQuery(s *sessionModel.Session, err error) error {
	if s.State != sessionModel.Querying {
		return ErrStaleTransition
	}
	s.Answer = ""
	setError(s, err)
	transition(s, sessionModel.Error, commonModels.UserMessage(err))
	return nil
}
