package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/akolanti/KnowledgeSearch/internal/data/store"
	"github.com/akolanti/KnowledgeSearch/internal/domain/commonModels"
	"github.com/akolanti/KnowledgeSearch/internal/domain/jobModel"
	"github.com/akolanti/KnowledgeSearch/internal/domain/sessionModel"
)

// MockRagService implements rag.Service
type MockRagService struct {
	OnIngest     func(ctx context.Context, files []commonModels.InputFile) (commonModels.Batch, error)
	OnSynthesize func(ctx context.Context, query string, docs []commonModels.Document) (string, error)
	Synthesized  int32
}

func (m *MockRagService) Ingest(ctx context.Context, files []commonModels.InputFile) (commonModels.Batch, error) {
	if m.OnIngest != nil {
		return m.OnIngest(ctx, files)
	}
	docs := make([]commonModels.Document, 0, len(files))
	for _, f := range files {
		docs = append(docs, commonModels.Document{Name: f.Name, Content: "content of " + f.Name})
	}
	return commonModels.Batch{Documents: docs}, nil
}

func (m *MockRagService) Synthesize(ctx context.Context, query string, docs []commonModels.Document) (string, error) {
	atomic.AddInt32(&m.Synthesized, 1)
	if m.OnSynthesize != nil {
		return m.OnSynthesize(ctx, query, docs)
	}
	return "Paris.", nil
}

// MockQueue keeps jobs instead of handing them to workers
type MockQueue struct {
	mu        sync.Mutex
	Jobs      []jobModel.Job
	OnEnqueue func(ctx context.Context, j jobModel.Job) error
}

func (q *MockQueue) Enqueue(ctx context.Context, j jobModel.Job) error {
	if q.OnEnqueue != nil {
		if err := q.OnEnqueue(ctx, j); err != nil {
			return err
		}
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.Jobs = append(q.Jobs, j)
	return nil
}

func newTestService(ragService *MockRagService, queue *MockQueue) *Service {
	return NewService(store.InitInMemorySessionStore(), ragService, queue)
}

func textFiles(names ...string) []commonModels.InputFile {
	files := make([]commonModels.InputFile, 0, len(names))
	for _, n := range names {
		files = append(files, commonModels.NewBytesFile(n, commonModels.MediaTypeText, []byte(n)))
	}
	return files
}

func TestService_AsyncFlow(t *testing.T) {
	ragService := &MockRagService{}
	queue := &MockQueue{}
	svc := newTestService(ragService, queue)
	ctx := context.Background()

	created, err := svc.Create(ctx)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	cleaned := false
	pending, err := svc.SubmitFiles(ctx, created.Id, textFiles("a.txt", "b.txt"), func() { cleaned = true })
	if err != nil {
		t.Fatalf("SubmitFiles failed: %v", err)
	}
	if pending.State != sessionModel.ProcessingFiles {
		t.Errorf("state = %s; want PROCESSING_FILES", pending.State)
	}

	// a second batch while the first one is in flight is rejected
	if _, err := svc.SubmitFiles(ctx, created.Id, textFiles("c.txt"), nil); !errors.Is(err, commonModels.ErrBusy) {
		t.Errorf("second SubmitFiles error = %v; want busy", err)
	}
	if len(queue.Jobs) != 1 {
		t.Fatalf("queued jobs = %d; want 1", len(queue.Jobs))
	}

	ingestJob := queue.Jobs[0]
	if ingestJob.JobType != jobModel.JobTypeIngest || ingestJob.SessionId != created.Id || ingestJob.TraceId == "" {
		t.Errorf("unexpected job %+v", ingestJob)
	}
	if err := svc.RunJob(ctx, ingestJob); err != nil {
		t.Fatalf("RunJob(ingest) failed: %v", err)
	}
	ingestJob.Cleanup()
	if !cleaned {
		t.Error("cleanup not carried by the job")
	}

	ready, _ := svc.Get(ctx, created.Id)
	if ready.State != sessionModel.Ready || len(ready.Documents) != 2 || ready.Documents[0].Name != "a.txt" {
		t.Fatalf("after ingest: state=%s docs=%+v", ready.State, ready.Documents)
	}

	if _, err := svc.SubmitQuery(ctx, created.Id, "What is the capital of France?"); err != nil {
		t.Fatalf("SubmitQuery failed: %v", err)
	}
	if err := svc.RunJob(ctx, queue.Jobs[1]); err != nil {
		t.Fatalf("RunJob(query) failed: %v", err)
	}

	answered, _ := svc.Get(ctx, created.Id)
	if answered.State != sessionModel.Answered || answered.Answer != "Paris." {
		t.Errorf("after query: state=%s answer=%q", answered.State, answered.Answer)
	}
}

func TestService_QueryValidationMakesNoCall(t *testing.T) {
	tests := []struct {
		name  string
		load  bool
		query string
	}{
		{"No_Documents", false, "What is the capital of France?"},
		{"Whitespace_Query", true, "   "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ragService := &MockRagService{}
			queue := &MockQueue{}
			svc := newTestService(ragService, queue)
			ctx := context.Background()
			s, _ := svc.Create(ctx)
			if tt.load {
				if _, err := svc.Load(ctx, s.Id, textFiles("a.txt")); err != nil {
					t.Fatalf("Load failed: %v", err)
				}
			}

			got, err := svc.SubmitQuery(ctx, s.Id, tt.query)
			if !errors.Is(err, commonModels.ErrValidation) {
				t.Fatalf("error = %v; want validation", err)
			}
			if got.Error == nil || got.Error.Message != commonModels.ValidationMessage {
				t.Errorf("session error = %+v", got.Error)
			}
			if len(queue.Jobs) != 0 || ragService.Synthesized != 0 {
				t.Errorf("jobs=%d synthesize calls=%d; want none", len(queue.Jobs), ragService.Synthesized)
			}

			stored, _ := svc.Get(ctx, s.Id)
			if stored.State != sessionModel.Error {
				t.Errorf("stored state = %s; want ERROR", stored.State)
			}
		})
	}
}

func TestService_SyncLoadAndAsk(t *testing.T) {
	ragService := &MockRagService{
		OnSynthesize: func(ctx context.Context, query string, docs []commonModels.Document) (string, error) {
			if len(docs) != 1 || docs[0].Name != "notes.txt" {
				t.Errorf("synthesize got docs %+v", docs)
			}
			return "", commonModels.EmptyResponseError()
		},
	}
	svc := newTestService(ragService, &MockQueue{})
	ctx := context.Background()
	s, _ := svc.Create(ctx)

	loaded, err := svc.Load(ctx, s.Id, textFiles("notes.txt"))
	if err != nil || loaded.State != sessionModel.Ready {
		t.Fatalf("Load = %s, %v", loaded.State, err)
	}

	asked, err := svc.Ask(ctx, s.Id, "q")
	if !errors.Is(err, commonModels.ErrEmptyResponse) {
		t.Fatalf("Ask error = %v; want empty response", err)
	}
	if asked.State != sessionModel.Error || asked.Answer != "" {
		t.Errorf("state=%s answer=%q", asked.State, asked.Answer)
	}
	if ragService.Synthesized != 1 {
		t.Errorf("synthesize calls = %d; want 1", ragService.Synthesized)
	}
}

func TestService_IngestFailureIsAllOrNothing(t *testing.T) {
	ragService := &MockRagService{
		OnIngest: func(ctx context.Context, files []commonModels.InputFile) (commonModels.Batch, error) {
			return commonModels.Batch{}, commonModels.ParseError("broken.pdf", errors.New("malformed"))
		},
	}
	svc := newTestService(ragService, &MockQueue{})
	ctx := context.Background()
	s, _ := svc.Create(ctx)

	got, err := svc.Load(ctx, s.Id, textFiles("a.txt", "broken.pdf"))
	if !errors.Is(err, commonModels.ErrParse) {
		t.Fatalf("error = %v; want parse", err)
	}
	if got.State != sessionModel.Error || len(got.Documents) != 0 {
		t.Errorf("state=%s docs=%d", got.State, len(got.Documents))
	}
}

func TestService_EnqueueFailureSettlesSession(t *testing.T) {
	queue := &MockQueue{OnEnqueue: func(ctx context.Context, j jobModel.Job) error { return context.Canceled }}
	svc := newTestService(&MockRagService{}, queue)
	ctx := context.Background()
	s, _ := svc.Create(ctx)

	cleaned := false
	_, err := svc.SubmitFiles(ctx, s.Id, textFiles("a.txt"), func() { cleaned = true })
	if !errors.Is(err, commonModels.ErrService) {
		t.Errorf("error = %v; want service", err)
	}
	if !cleaned {
		t.Error("cleanup not run for a rejected batch")
	}
	got, _ := svc.Get(ctx, s.Id)
	if got.State.Busy() {
		t.Error("session left busy after enqueue failure")
	}
}

func TestService_EndedSession(t *testing.T) {
	queue := &MockQueue{}
	svc := newTestService(&MockRagService{}, queue)
	ctx := context.Background()
	s, _ := svc.Create(ctx)
	_, _ = svc.SubmitFiles(ctx, s.Id, textFiles("a.txt"), nil)

	if err := svc.End(ctx, s.Id); err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if err := svc.RunJob(ctx, queue.Jobs[0]); !errors.Is(err, commonModels.ErrNotFound) {
		t.Errorf("RunJob after End: %v; want not found", err)
	}
	if _, err := svc.Get(ctx, s.Id); !errors.Is(err, commonModels.ErrNotFound) {
		t.Errorf("Get after End: %v; want not found", err)
	}
	if err := svc.End(ctx, s.Id); !errors.Is(err, commonModels.ErrNotFound) {
		t.Errorf("second End: %v; want not found", err)
	}
}

func TestService_PanickingStageSettlesSession(t *testing.T) {
	ragService := &MockRagService{}
	queue := &MockQueue{}
	svc := newTestService(ragService, queue)
	ctx := context.Background()
	s, _ := svc.Create(ctx)

	if _, err := svc.Load(ctx, s.Id, textFiles("a.txt")); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	ragService.OnSynthesize = func(ctx context.Context, query string, docs []commonModels.Document) (string, error) {
		panic("provider blew up")
	}
	if _, err := svc.SubmitQuery(ctx, s.Id, "capital?"); err != nil {
		t.Fatalf("SubmitQuery failed: %v", err)
	}
	if err := svc.RunJob(ctx, queue.Jobs[len(queue.Jobs)-1]); !errors.Is(err, commonModels.ErrService) {
		t.Errorf("RunJob error = %v; want service error", err)
	}

	got, _ := svc.Get(ctx, s.Id)
	if got.State != sessionModel.Error || got.Error == nil || got.Error.Message != commonModels.ServiceMessage {
		t.Fatalf("session after panic = %s %+v; want ERROR with the service message", got.State, got.Error)
	}
	if len(got.Documents) != 1 {
		t.Errorf("documents = %d; want them kept after a failed query", len(got.Documents))
	}

	// the session takes new work again
	ragService.OnSynthesize = nil
	if _, err := svc.Ask(ctx, s.Id, "capital?"); err != nil {
		t.Errorf("Ask after panic: %v", err)
	}

	ragService.OnIngest = func(ctx context.Context, files []commonModels.InputFile) (commonModels.Batch, error) {
		panic("extractor blew up")
	}
	_, err := svc.Load(ctx, s.Id, textFiles("b.txt"))
	if !errors.Is(err, commonModels.ErrService) {
		t.Errorf("Load error = %v; want service error", err)
	}
	got, _ = svc.Get(ctx, s.Id)
	if got.State != sessionModel.Error || got.Error.Message != commonModels.UnknownIngestMessage {
		t.Errorf("session after ingest panic = %s %+v", got.State, got.Error)
	}
}

func TestService_AbandonJob(t *testing.T) {
	queue := &MockQueue{}
	svc := newTestService(&MockRagService{}, queue)
	ctx := context.Background()
	s, _ := svc.Create(ctx)

	_, _ = svc.SubmitFiles(ctx, s.Id, textFiles("a.txt"), nil)
	if err := svc.AbandonJob(ctx, queue.Jobs[0], errors.New("shutting down")); !errors.Is(err, commonModels.ErrService) {
		t.Errorf("AbandonJob error = %v; want service error", err)
	}
	got, _ := svc.Get(ctx, s.Id)
	if got.State.Busy() {
		t.Fatalf("session still %s after its job was abandoned", got.State)
	}
	if _, err := svc.SubmitFiles(ctx, s.Id, textFiles("a.txt"), nil); err != nil {
		t.Errorf("resubmit after abandon: %v", err)
	}
}
