package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/akolanti/KnowledgeSearch/internal/data/store"
	"github.com/akolanti/KnowledgeSearch/internal/domain/commonModels"
	"github.com/akolanti/KnowledgeSearch/internal/domain/jobModel"
	"github.com/akolanti/KnowledgeSearch/internal/domain/sessionModel"
	"github.com/akolanti/KnowledgeSearch/internal/job"
	"github.com/akolanti/KnowledgeSearch/internal/session"
)

// MockRunner tracks executed and abandoned jobs
type MockRunner struct {
	OnRunJob       func(ctx context.Context, j jobModel.Job) error
	ProcessedCount int32
	AbandonedCount int32
}

func (m *MockRunner) AbandonJob(ctx context.Context, j jobModel.Job, cause error) error {
	atomic.AddInt32(&m.AbandonedCount, 1)
	return nil
}

func (m *MockRunner) RunJob(ctx context.Context, j jobModel.Job) error {
	atomic.AddInt32(&m.ProcessedCount, 1)
	if m.OnRunJob != nil {
		return m.OnRunJob(ctx, j)
	}
	return nil
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestWorkerPool_Flow(t *testing.T) {
	jobSvc := job.InitJobService(job.ServiceConfig{})
	runner := &MockRunner{}
	stopChan := make(chan bool)
	wg := &sync.WaitGroup{}

	pool := NewPool(jobSvc, runner, stopChan, wg)
	pool.Start()

	t.Run("Worker processes a job and runs cleanup", func(t *testing.T) {
		var cleaned int32
		err := jobSvc.Enqueue(context.Background(), jobModel.Job{
			Id:          "test-1",
			JobType:     jobModel.JobTypeQuery,
			CreatedTime: time.Now(),
			Cleanup:     func() { atomic.AddInt32(&cleaned, 1) },
		})
		if err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
		waitFor(t, "job cleanup", func() bool { return atomic.LoadInt32(&cleaned) == 1 })
		if processed := atomic.LoadInt32(&runner.ProcessedCount); processed != 1 {
			t.Errorf("Expected 1 job processed, got %d", processed)
		}
	})

	t.Run("Ingest job signals a new worker", func(t *testing.T) {
		before := pool.WorkerCount()
		_ = jobSvc.Enqueue(context.Background(), jobModel.Job{Id: "ingest-1", JobType: jobModel.JobTypeIngest})
		waitFor(t, "extra worker", func() bool { return pool.WorkerCount() > before })
	})

	t.Run("Stop signal retires workers", func(t *testing.T) {
		close(stopChan)

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("Workers did not stop within timeout")
		}
		if count := pool.WorkerCount(); count != 0 {
			t.Errorf("worker count after stop = %d", count)
		}
	})
}

func TestWorker_IdleTimeoutKeepsMinimum(t *testing.T) {
	jobSvc := job.InitJobService(job.ServiceConfig{})
	stopChan := make(chan bool)
	wg := &sync.WaitGroup{}
	pool := NewPool(jobSvc, &MockRunner{}, stopChan, wg)
	pool.idleTimeout = 20 * time.Millisecond
	pool.minWorkerCount = 1

	for i := 0; i < 3; i++ {
		pool.createWorker()
	}
	waitFor(t, "idle workers to retire", func() bool { return pool.WorkerCount() == 1 })

	time.Sleep(5 * pool.idleTimeout)
	if count := pool.WorkerCount(); count != 1 {
		t.Errorf("worker count = %d; want the minimum of 1", count)
	}

	close(stopChan)
	wg.Wait()
}

func TestWorker_SurvivesPanickingJob(t *testing.T) {
	jobSvc := job.InitJobService(job.ServiceConfig{})
	runner := &MockRunner{
		OnRunJob: func(ctx context.Context, j jobModel.Job) error {
			if j.Id == "bad" {
				panic("boom")
			}
			return nil
		},
	}
	stopChan := make(chan bool)
	wg := &sync.WaitGroup{}
	pool := NewPool(jobSvc, runner, stopChan, wg)
	pool.Start()
	defer func() {
		close(stopChan)
		wg.Wait()
	}()

	var cleaned int32
	cleanup := func() { atomic.AddInt32(&cleaned, 1) }
	_ = jobSvc.Enqueue(context.Background(), jobModel.Job{Id: "bad", JobType: jobModel.JobTypeQuery, Cleanup: cleanup})
	_ = jobSvc.Enqueue(context.Background(), jobModel.Job{Id: "good", JobType: jobModel.JobTypeQuery, Cleanup: cleanup})

	waitFor(t, "both jobs", func() bool { return atomic.LoadInt32(&cleaned) == 2 })
	if processed := atomic.LoadInt32(&runner.ProcessedCount); processed != 2 {
		t.Errorf("processed = %d; want 2", processed)
	}
	if abandoned := atomic.LoadInt32(&runner.AbandonedCount); abandoned != 1 {
		t.Errorf("abandoned = %d; want the panicking job settled", abandoned)
	}
}

func TestPool_DrainQueueSettlesLeftoverJobs(t *testing.T) {
	jobSvc := job.InitJobService(job.ServiceConfig{})
	runner := &MockRunner{}
	pool := NewPool(jobSvc, runner, make(chan bool), &sync.WaitGroup{})

	var cleaned int32
	for _, id := range []string{"q1", "q2", "i1"} {
		jobType := jobModel.JobTypeQuery
		if id == "i1" {
			jobType = jobModel.JobTypeIngest
		}
		err := jobSvc.Enqueue(context.Background(), jobModel.Job{
			Id:      id,
			JobType: jobType,
			Cleanup: func() { atomic.AddInt32(&cleaned, 1) },
		})
		if err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
	}

	pool.DrainQueue()

	if got := atomic.LoadInt32(&runner.AbandonedCount); got != 3 {
		t.Errorf("abandoned = %d; want 3", got)
	}
	if got := atomic.LoadInt32(&cleaned); got != 3 {
		t.Errorf("cleanups = %d; want 3", got)
	}
	if got := atomic.LoadInt32(&runner.ProcessedCount); got != 0 {
		t.Errorf("drained jobs were run: %d", got)
	}
	if len(jobSvc.JobChannel) != 0 {
		t.Errorf("queue still holds %d jobs", len(jobSvc.JobChannel))
	}
}

// panickingRag loads documents but blows up on every question
type panickingRag struct{}

func (panickingRag) Ingest(ctx context.Context, files []commonModels.InputFile) (commonModels.Batch, error) {
	docs := make([]commonModels.Document, 0, len(files))
	for _, f := range files {
		docs = append(docs, commonModels.Document{Name: f.Name, Content: "text"})
	}
	return commonModels.Batch{Documents: docs}, nil
}

func (panickingRag) Synthesize(ctx context.Context, query string, docs []commonModels.Document) (string, error) {
	panic("generate exploded")
}

func TestPool_PanickingQueryLeavesSessionUsable(t *testing.T) {
	jobSvc := job.InitJobService(job.ServiceConfig{})
	sessions := session.NewService(store.InitInMemorySessionStore(), panickingRag{}, jobSvc)
	stopChan := make(chan bool)
	wg := &sync.WaitGroup{}
	pool := NewPool(jobSvc, sessions, stopChan, wg)
	pool.Start()
	defer func() {
		close(stopChan)
		wg.Wait()
	}()

	ctx := context.Background()
	s, _ := sessions.Create(ctx)
	if _, err := sessions.Load(ctx, s.Id, []commonModels.InputFile{
		commonModels.NewBytesFile("a.txt", commonModels.MediaTypeText, []byte("a")),
	}); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := sessions.SubmitQuery(ctx, s.Id, "anything?"); err != nil {
		t.Fatalf("SubmitQuery failed: %v", err)
	}

	waitFor(t, "session to settle", func() bool {
		got, _ := sessions.Get(ctx, s.Id)
		return got.State == sessionModel.Error
	})
	if _, err := sessions.SubmitQuery(ctx, s.Id, "again?"); err != nil {
		t.Errorf("resubmit after panic: %v; want accepted", err)
	}
}
