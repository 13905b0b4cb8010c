package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akolanti/KnowledgeSearch/internal/config"
	"github.com/akolanti/KnowledgeSearch/internal/domain/commonModels"
	"github.com/akolanti/KnowledgeSearch/internal/domain/jobModel"
	"github.com/akolanti/KnowledgeSearch/internal/domain/sessionModel"
	"github.com/akolanti/KnowledgeSearch/internal/rag"
	"github.com/akolanti/KnowledgeSearch/pkg/logger_i"
	"github.com/google/uuid"
)

// Enqueuer is satisfied by *job.Service.
type Enqueuer interface {
	Enqueue(ctx context.Context, newJob jobModel.Job) error
}

// Service drives sessions through the pipeline. Submit* hand the work to the worker pool,
// Load and Ask run it on the caller's goroutine.
type Service struct {
	store  sessionModel.SessionStore
	rag    rag.Service
	queue  Enqueuer
	logger *logger_i.Logger
}

func NewService(store sessionModel.SessionStore, ragService rag.Service, queue Enqueuer) *Service {
	return &Service{
		store:  store,
		rag:    ragService,
		queue:  queue,
		logger: logger_i.NewLogger("SessionService"),
	}
}

func (s *Service) Create(ctx context.Context) (sessionModel.Session, error) {
	newSession := NewSession(uuid.NewString())
	if err := s.store.CreateSession(ctx, newSession); err != nil {
		s.logger.WithTrace(ctx, config.TRACE_ID_KEY).Error("Failed to create session", "error", err)
		return sessionModel.Session{}, err
	}
	s.logger.WithTrace(ctx, config.TRACE_ID_KEY).Info("Session created", "sessionId", newSession.Id)
	return newSession, nil
}

func (s *Service) Get(ctx context.Context, id string) (sessionModel.Session, error) {
	found, ok := s.store.GetSession(ctx, id)
	if !ok {
		return sessionModel.Session{}, commonModels.NotFoundError(id)
	}
	return found, nil
}

// End discards the session and its documents. A stage still in flight finds nothing to update.
func (s *Service) End(ctx context.Context, id string) error {
	if _, ok := s.store.GetSession(ctx, id); !ok {
		return commonModels.NotFoundError(id)
	}
	s.store.DeleteSession(ctx, id)
	s.logger.WithTrace(ctx, config.TRACE_ID_KEY).Info("Session ended", "sessionId", id)
	return nil
}

// SubmitFiles starts a new batch and queues its ingestion. cleanup runs once the files are no
// longer needed, whether or not the batch was accepted.
func (s *Service) SubmitFiles(ctx context.Context, id string, files []commonModels.InputFile, cleanup func()) (sessionModel.Session, error) {
	if cleanup == nil {
		cleanup = func() {}
	}
	updated, err := s.store.UpdateSession(ctx, id, func(sess *sessionModel.Session) error {
		return BeginIngest(sess, len(files))
	})
	if err != nil {
		cleanup()
		return sessionModel.Session{}, err
	}

	newJob := s.newJob(ctx, id, jobModel.JobTypeIngest)
	newJob.Files = files
	newJob.Cleanup = cleanup
	if err := s.queue.Enqueue(ctx, newJob); err != nil {
		cleanup()
		return s.finishIngest(context.WithoutCancel(ctx), id, commonModels.Batch{}, commonModels.IngestServiceError(err))
	}
	return updated, nil
}

// SubmitQuery validates the query against the session and queues the synthesis.
func (s *Service) SubmitQuery(ctx context.Context, id string, query string) (sessionModel.Session, error) {
	updated, err := s.beginQuery(ctx, id, query)
	if err != nil {
		return updated, err
	}

	newJob := s.newJob(ctx, id, jobModel.JobTypeQuery)
	newJob.Query = updated.Query
	if err := s.queue.Enqueue(ctx, newJob); err != nil {
		return s.finishQuery(context.WithoutCancel(ctx), id, "", commonModels.ServiceError(err))
	}
	return updated, nil
}

// Load ingests files inline and returns the settled session.
func (s *Service) Load(ctx context.Context, id string, files []commonModels.InputFile) (sessionModel.Session, error) {
	if _, err := s.store.UpdateSession(ctx, id, func(sess *sessionModel.Session) error {
		return BeginIngest(sess, len(files))
	}); err != nil {
		return sessionModel.Session{}, err
	}
	return s.runIngest(ctx, id, files)
}

// Ask answers inline and returns the settled session.
func (s *Service) Ask(ctx context.Context, id string, query string) (sessionModel.Session, error) {
	updated, err := s.beginQuery(ctx, id, query)
	if err != nil {
		return updated, err
	}
	return s.runQuery(ctx, id, updated.Query)
}

// RunJob is the worker entry point.
func (s *Service) RunJob(ctx context.Context, j jobModel.Job) error {
	var err error
	switch j.JobType {
	case jobModel.JobTypeIngest:
		_, err = s.runIngest(ctx, j.SessionId, j.Files)
	case jobModel.JobTypeQuery:
		_, err = s.runQuery(ctx, j.SessionId, j.Query)
	default:
		err = errors.New("unknown job type " + string(j.JobType))
	}
	return err
}

// AbandonJob settles the session of a job that will never run, so it does not stay busy.
func (s *Service) AbandonJob(ctx context.Context, j jobModel.Job, cause error) error {
	_, err := s.abandon(ctx, j.SessionId, j.JobType, cause)
	return err
}

func (s *Service) abandon(ctx context.Context, id string, jobType jobModel.JobType, cause error) (sessionModel.Session, error) {
	switch jobType {
	case jobModel.JobTypeIngest:
		return s.finishIngest(ctx, id, commonModels.Batch{}, commonModels.IngestServiceError(cause))
	case jobModel.JobTypeQuery:
		return s.finishQuery(ctx, id, "", commonModels.ServiceError(cause))
	default:
		return sessionModel.Session{}, errors.New("unknown job type " + string(jobType))
	}
}

// recoverStage is deferred by the stage runners. A panic fails the stage like any other error.
func (s *Service) recoverStage(ctx context.Context, id string, jobType jobModel.JobType, updated *sessionModel.Session, err *error) {
	r := recover()
	if r == nil {
		return
	}
	s.logger.WithTrace(ctx, config.TRACE_ID_KEY).Error("Stage panicked", "sessionId", id, "type", jobType, "panic", fmt.Sprint(r))
	*updated, *err = s.abandon(ctx, id, jobType, fmt.Errorf("stage panicked: %v", r))
}

func (s *Service) beginQuery(ctx context.Context, id string, query string) (sessionModel.Session, error) {
	var rejected error
	updated, err := s.store.UpdateSession(ctx, id, func(sess *sessionModel.Session) error {
		beginErr := BeginQuery(sess, query)
		// a rejected query is still written, the session shows the validation message
		if errors.Is(beginErr, commonModels.ErrValidation) {
			rejected = beginErr
			return nil
		}
		return beginErr
	})
	if err != nil {
		return sessionModel.Session{}, err
	}
	if rejected != nil {
		return updated, rejected
	}
	return updated, nil
}

func (s *Service) runIngest(ctx context.Context, id string, files []commonModels.InputFile) (updated sessionModel.Session, err error) {
	defer s.recoverStage(ctx, id, jobModel.JobTypeIngest, &updated, &err)
	batch, err := s.rag.Ingest(ctx, files)
	return s.finishIngest(ctx, id, batch, err)
}

func (s *Service) runQuery(ctx context.Context, id string, query string) (updated sessionModel.Session, err error) {
	defer s.recoverStage(ctx, id, jobModel.JobTypeQuery, &updated, &err)
	current, ok := s.store.GetSession(ctx, id)
	if !ok {
		return sessionModel.Session{}, commonModels.NotFoundError(id)
	}
	answer, err := s.rag.Synthesize(ctx, query, current.Documents)
	return s.finishQuery(ctx, id, answer, err)
}

func (s *Service) finishIngest(ctx context.Context, id string, batch commonModels.Batch, stageErr error) (sessionModel.Session, error) {
	log := s.logger.WithTrace(ctx, config.TRACE_ID_KEY).With("sessionId", id)
	updated, err := s.store.UpdateSession(ctx, id, func(sess *sessionModel.Session) error {
		if stageErr != nil {
			return FailIngest(sess, stageErr)
		}
		return CompleteIngest(sess, batch)
	})
	if err != nil {
		log.Warn("Ingestion result dropped", "error", err)
		return sessionModel.Session{}, err
	}
	if stageErr != nil {
		log.Warn("Ingestion failed", "error", stageErr)
		return updated, stageErr
	}
	log.Info("Ingestion complete", "documents", len(updated.Documents), "skipped", len(updated.Skipped))
	return updated, nil
}

func (s *Service) finishQuery(ctx context.Context, id string, answer string, stageErr error) (sessionModel.Session, error) {
	log := s.logger.WithTrace(ctx, config.TRACE_ID_KEY).With("sessionId", id)
	updated, err := s.store.UpdateSession(ctx, id, func(sess *sessionModel.Session) error {
		if stageErr != nil {
			return FailQuery(sess, stageErr)
		}
		return CompleteQuery(sess, answer)
	})
	if err != nil {
		log.Warn("Answer dropped", "error", err)
		return sessionModel.Session{}, err
	}
	if stageErr != nil {
		return updated, stageErr
	}
	log.Info("Answer stored", "answerBytes", len(answer))
	return updated, nil
}

func (s *Service) newJob(ctx context.Context, sessionId string, jobType jobModel.JobType) jobModel.Job {
	traceId, _ := ctx.Value(config.TRACE_ID_KEY).(string)
	if traceId == "" {
		traceId = uuid.NewString()
	}
	return jobModel.Job{
		Id:          uuid.NewString(),
		SessionId:   sessionId,
		TraceId:     traceId,
		JobType:     jobType,
		CreatedTime: time.Now(),
	}
}
