package jobModel

import (
	"time"

	"github.com/akolanti/KnowledgeSearch/internal/domain/commonModels"
)

type JobType string

const (
	JobTypeQuery  JobType = "Query"
	JobTypeIngest JobType = "Ingest"
)

// Job is an in-process unit of work for the worker pool. It never leaves the process,
// so it can carry file openers.
type Job struct {
	Id          string
	SessionId   string
	TraceId     string
	JobType     JobType
	Files       []commonModels.InputFile
	Query       string
	CreatedTime time.Time
	// Cleanup runs after the job finished, successful or not.
	Cleanup func()
}
