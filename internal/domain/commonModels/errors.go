package commonModels

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind string

const (
	KindFileRead      ErrorKind = "FILE_READ"
	KindParse         ErrorKind = "PARSE"
	KindValidation    ErrorKind = "VALIDATION"
	KindConfiguration ErrorKind = "CONFIGURATION"
	KindEmptyResponse ErrorKind = "EMPTY_RESPONSE"
	KindService       ErrorKind = "SERVICE"
	KindBusy          ErrorKind = "BUSY"
	KindNotFound      ErrorKind = "NOT_FOUND"
)

const (
	ValidationMessage    = "Please upload documents and enter a query."
	EmptyResponseMessage = "Received an empty response from the API."
	ServiceMessage       = "Failed to get a response from the AI model. Please check your API key and network connection."
	BusyMessage          = "Another operation is still in progress."
	UnknownIngestMessage = "An unknown error occurred during file processing."
)

// PipelineError carries the kind of failure, the file it concerns (if any) and the cause.
// Message is what the user sees; Err stays for operators.
type PipelineError struct {
	Kind    ErrorKind
	File    string
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil && e.Kind != KindService {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Is matches any PipelineError of the same kind, so errors.Is(err, ErrValidation) works.
func (e *PipelineError) Is(target error) bool {
	t, ok := target.(*PipelineError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.File == "" && t.Err == nil
}

// kind sentinels, only compared through errors.Is
var (
	ErrFileRead      = &PipelineError{Kind: KindFileRead}
	ErrParse         = &PipelineError{Kind: KindParse}
	ErrValidation    = &PipelineError{Kind: KindValidation}
	ErrConfiguration = &PipelineError{Kind: KindConfiguration}
	ErrEmptyResponse = &PipelineError{Kind: KindEmptyResponse}
	ErrService       = &PipelineError{Kind: KindService}
	ErrBusy          = &PipelineError{Kind: KindBusy}
	ErrNotFound      = &PipelineError{Kind: KindNotFound}
)

func FileReadError(file string, err error) *PipelineError {
	return &PipelineError{Kind: KindFileRead, File: file, Message: fmt.Sprintf("Error reading file %s", file), Err: err}
}

func ParseError(file string, err error) *PipelineError {
	return &PipelineError{Kind: KindParse, File: file, Message: fmt.Sprintf("Error parsing PDF file %s", file), Err: err}
}

func ValidationError(message string) *PipelineError {
	return &PipelineError{Kind: KindValidation, Message: message}
}

func ConfigurationError(err error) *PipelineError {
	return &PipelineError{Kind: KindConfiguration, Message: err.Error(), Err: err}
}

func EmptyResponseError() *PipelineError {
	return &PipelineError{Kind: KindEmptyResponse, Message: EmptyResponseMessage}
}

func ServiceError(err error) *PipelineError {
	return &PipelineError{Kind: KindService, Message: ServiceMessage, Err: err}
}

// IngestServiceError is a service failure during file processing. The cause stays hidden.
func IngestServiceError(err error) *PipelineError {
	return &PipelineError{Kind: KindService, Message: UnknownIngestMessage, Err: err}
}

func BusyError() *PipelineError {
	return &PipelineError{Kind: KindBusy, Message: BusyMessage}
}

func NotFoundError(id string) *PipelineError {
	return &PipelineError{Kind: KindNotFound, Message: fmt.Sprintf("session %s not found", id)}
}

// KindOf returns the kind of err, KindService for anything that is not a PipelineError.
func KindOf(err error) ErrorKind {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindService
}

// UserMessage is the text shown to the user. Service failures never leak their cause.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var pe *PipelineError
	if !errors.As(err, &pe) {
		return ServiceMessage
	}
	if pe.Kind == KindService && pe.Message == "" {
		return ServiceMessage
	}
	return pe.Error()
}

func HttpStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindBusy:
		return http.StatusConflict
	case KindService, KindEmptyResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
