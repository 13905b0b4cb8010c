package api

import (
	"time"

	"github.com/akolanti/KnowledgeSearch/internal/adapter/markup"
)

type SessionResponse struct {
	Id            string                `json:"id" example:"3f0c6d3e-8a51-4bb1-9d7c-1d3c7f7b9a10"`
	State         string                `json:"state" example:"READY"`
	Busy          bool                  `json:"busy" example:"false"`
	StatusMessage string                `json:"status_message" example:"2 document(s) loaded successfully."`
	StatusURL     string                `json:"status_url,omitempty" example:"sessions/3f0c6d3e-8a51-4bb1-9d7c-1d3c7f7b9a10"`
	Documents     []DocumentSummary     `json:"documents"`
	Skipped       []SkippedFile         `json:"skipped,omitempty"`
	Failures      []FileFailure         `json:"failures,omitempty"`
	Query         string                `json:"query,omitempty" example:"What is the capital of France?"`
	Answer        string                `json:"answer,omitempty" example:"Paris."`
	AnswerBlocks  []markup.Block        `json:"answer_blocks,omitempty"`
	Error         *SessionOutgoingError `json:"error,omitempty"`
	CreatedTime   time.Time             `json:"created_time"`
	UpdatedTime   time.Time             `json:"updated_time"`
}

type DocumentSummary struct {
	Name       string `json:"name" example:"notes.txt"`
	Characters int    `json:"characters" example:"1024"`
}

type SkippedFile struct {
	Name      string `json:"name" example:"photo.png"`
	MediaType string `json:"media_type" example:"image/png"`
}

type FileFailure struct {
	Name    string `json:"name" example:"broken.pdf"`
	Kind    string `json:"kind" example:"PARSE"`
	Message string `json:"message" example:"Error parsing PDF file broken.pdf"`
}

type SessionOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Kind    string `json:"kind" example:"VALIDATION"`
	Message string `json:"message" example:"Please upload documents and enter a query."`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// requests---------------------

type QueryRequest struct {
	Query string `json:"query" validate:"required" example:"What is the capital of France?"`
}
