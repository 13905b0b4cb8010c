package adapter

import (
	"fmt"

	"github.com/akolanti/KnowledgeSearch/internal/adapter/markup"
	"github.com/akolanti/KnowledgeSearch/internal/api"
	"github.com/akolanti/KnowledgeSearch/internal/domain/commonModels"
	"github.com/akolanti/KnowledgeSearch/internal/domain/sessionModel"
)

// ToSessionResponse is the outward view of a session. Document contents never leave the server.
func ToSessionResponse(s sessionModel.Session) api.SessionResponse {
	documents := make([]api.DocumentSummary, 0, len(s.Documents))
	for _, d := range s.Documents {
		documents = append(documents, api.DocumentSummary{Name: d.Name, Characters: len([]rune(d.Content))})
	}

	var skipped []api.SkippedFile
	for _, f := range s.Skipped {
		skipped = append(skipped, api.SkippedFile{Name: f.Name, MediaType: f.MediaType})
	}

	var failures []api.FileFailure
	for _, f := range s.Failures {
		failures = append(failures, api.FileFailure{Name: f.Name, Kind: string(f.Kind), Message: f.Error})
	}

	var errorPtr *api.SessionOutgoingError
	if s.Error != nil {
		errorPtr = &api.SessionOutgoingError{
			Code:    commonModels.HttpStatus(&commonModels.PipelineError{Kind: s.Error.Kind}),
			Kind:    string(s.Error.Kind),
			Message: s.Error.Message,
		}
	}

	return api.SessionResponse{
		Id:            s.Id,
		State:         string(s.State),
		Busy:          s.State.Busy(),
		StatusMessage: s.StatusMessage,
		Documents:     documents,
		Skipped:       skipped,
		Failures:      failures,
		Query:         s.Query,
		Answer:        s.Answer,
		AnswerBlocks:  markup.Format(s.Answer),
		Error:         errorPtr,
		CreatedTime:   s.CreatedTime,
		UpdatedTime:   s.UpdatedTime,
	}
}

// ToAcceptedResponse is returned with 202, pointing at where the outcome will show up.
func ToAcceptedResponse(s sessionModel.Session) api.SessionResponse {
	res := ToSessionResponse(s)
	res.StatusURL = fmt.Sprintf("sessions/%s", s.Id)
	return res
}

func BadRequest(id string, err error) api.SessionResponse {
	return api.SessionResponse{
		Id:        id,
		State:     string(sessionModel.Error),
		Documents: []api.DocumentSummary{},
		Error: &api.SessionOutgoingError{
			Code:    commonModels.HttpStatus(err),
			Kind:    string(commonModels.KindOf(err)),
			Message: commonModels.UserMessage(err),
		},
	}
}

// StatusError is for failures outside the pipeline, such as auth or rate limiting.
func StatusError(id string, code int, message string) api.SessionResponse {
	return api.SessionResponse{
		Id:        id,
		State:     string(sessionModel.Error),
		Documents: []api.DocumentSummary{},
		Error: &api.SessionOutgoingError{
			Code:    code,
			Kind:    "HTTP",
			Message: message,
		},
	}
}
