package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/akolanti/KnowledgeSearch/internal/adapter"
	"github.com/akolanti/KnowledgeSearch/internal/adapter/utils"
	"github.com/akolanti/KnowledgeSearch/internal/api"
	"github.com/akolanti/KnowledgeSearch/internal/config"
	"github.com/akolanti/KnowledgeSearch/internal/domain/commonModels"
	"github.com/akolanti/KnowledgeSearch/internal/domain/sessionModel"
	"github.com/akolanti/KnowledgeSearch/internal/session"
	"github.com/akolanti/KnowledgeSearch/pkg/logger_i"
)

// SessionAPI is satisfied by *session.Service.
type SessionAPI interface {
	Create(ctx context.Context) (sessionModel.Session, error)
	Get(ctx context.Context, id string) (sessionModel.Session, error)
	End(ctx context.Context, id string) error
	SubmitFiles(ctx context.Context, id string, files []commonModels.InputFile, cleanup func()) (sessionModel.Session, error)
	SubmitQuery(ctx context.Context, id string, query string) (sessionModel.Session, error)
}

type Handler struct {
	sessions   SessionAPI
	uploadRoot string
	logger     *logger_i.Logger
}

// NewHandler spools uploads under uploadRoot, config.TemporaryDataFolder in the working
// directory when empty.
func NewHandler(sessions SessionAPI, uploadRoot string) *Handler {
	return &Handler{
		sessions:   sessions,
		uploadRoot: uploadRoot,
		logger:     logger_i.NewLogger("RequestHandler"),
	}
}

// GetHandler godoc
// @Summary      Health check
// @Tags         Health
// @Produce      json
// @Success      200  {object}  api.HealthResponse
// @Router       /health [get]
func (h *Handler) GetHandler(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, api.HealthResponse{Status: "ok"})
}

// CreateSessionHandler godoc
// @Summary      Start a session
// @Description  Creates an idle session with no documents.
// @Tags         Sessions
// @Produce      json
// @Success      201  {object}  api.SessionResponse
// @Failure      500  {object}  api.SessionResponse
// @Router       /sessions [post]
func (h *Handler) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	created, err := h.sessions.Create(r.Context())
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Storage error")
		return
	}
	writeJsonResponse(w, http.StatusCreated, adapter.ToSessionResponse(created))
}

// GetSessionHandler godoc
// @Summary      Get session status
// @Description  State, status message, loaded documents, skipped files and the latest answer or error.
// @Tags         Sessions
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  api.SessionResponse
// @Failure      404  {object}  api.SessionResponse
// @Router       /sessions/{id} [get]
func (h *Handler) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	found, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		h.writePipelineError(w, id, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToSessionResponse(found))
}

// DeleteSessionHandler godoc
// @Summary      End a session
// @Description  Discards the session and its documents.
// @Tags         Sessions
// @Param        id   path      string  true  "Session ID"
// @Success      204
// @Failure      404  {object}  api.SessionResponse
// @Router       /sessions/{id} [delete]
func (h *Handler) DeleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	if err := h.sessions.End(r.Context(), id); err != nil {
		h.writePipelineError(w, id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PostDocumentsHandler godoc
// @Summary      Upload a batch of documents
// @Description  Replaces the session's documents with the uploaded batch. Only text/plain and application/pdf are ingested, other files are listed as skipped. Processing is asynchronous, poll the session for the outcome.
// @Tags         Sessions
// @Accept       multipart/form-data
// @Produce      json
// @Param        id         path      string  true  "Session ID"
// @Param        documents  formData  file    true  "Files to ingest, repeat the field for several files"
// @Success      202  {object}  api.SessionResponse
// @Failure      400  {object}  api.SessionResponse  "No files or bad form"
// @Failure      404  {object}  api.SessionResponse
// @Failure      409  {object}  api.SessionResponse  "Another operation is in progress"
// @Failure      500  {object}  api.SessionResponse  "Storage error"
// @Router       /sessions/{id}/documents [post]
func (h *Handler) PostDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	log := h.logger.WithTrace(r.Context(), config.TRACE_ID_KEY)
	id := utils.GetChiURLParam(r, "id")

	current, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		h.writePipelineError(w, id, err)
		return
	}
	if current.State.Busy() {
		h.writePipelineError(w, id, commonModels.BusyError())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadSize)
	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		log.Warn("Bad upload", "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, id, "File too large or bad request")
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			log.Warn("Could not remove multipart temp files", "error", err)
		}
	}()

	headers := r.MultipartForm.File[config.UploadFormField]
	if len(headers) == 0 {
		h.writePipelineError(w, id, commonModels.ValidationError(session.NoFilesMessage))
		return
	}

	files, cleanup, err := h.spoolUploads(headers)
	if err != nil {
		log.Error("Could not store upload", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, id, "Storage error")
		return
	}

	pending, err := h.sessions.SubmitFiles(r.Context(), id, files, cleanup)
	if err != nil {
		h.writePipelineError(w, id, err)
		return
	}
	log.Info("Document batch accepted", "sessionId", id, "files", len(files))
	writeJsonResponse(w, http.StatusAccepted, adapter.ToAcceptedResponse(pending))
}

// PostQueryHandler godoc
// @Summary      Ask a question
// @Description  Answers from the session's documents. Processing is asynchronous, poll the session for the answer.
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        id       path      string            true  "Session ID"
// @Param        request  body      api.QueryRequest  true  "Question"
// @Success      202  {object}  api.SessionResponse
// @Failure      400  {object}  api.SessionResponse  "No documents loaded or empty query"
// @Failure      404  {object}  api.SessionResponse
// @Failure      409  {object}  api.SessionResponse  "Another operation is in progress"
// @Router       /sessions/{id}/query [post]
func (h *Handler) PostQueryHandler(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	id := utils.GetChiURLParam(r, "id")

	var requestData api.QueryRequest
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			h.logger.Error("Couldn't close the query reader", "error", err)
		}
	}(r.Body)
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		h.logger.Warn("Bad query request", "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, id, "Bad Request")
		return
	}

	pending, err := h.sessions.SubmitQuery(r.Context(), id, requestData.Query)
	if err != nil {
		if errors.Is(err, commonModels.ErrValidation) && pending.Id != "" {
			writeJsonResponse(w, http.StatusBadRequest, adapter.ToSessionResponse(pending))
			return
		}
		h.writePipelineError(w, id, err)
		return
	}
	writeJsonResponse(w, http.StatusAccepted, adapter.ToAcceptedResponse(pending))
}
