package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/akolanti/KnowledgeSearch/internal/adapter"
	"github.com/akolanti/KnowledgeSearch/internal/adapter/utils"
	"github.com/akolanti/KnowledgeSearch/internal/config"
	"github.com/akolanti/KnowledgeSearch/internal/domain/commonModels"
	"github.com/akolanti/KnowledgeSearch/pkg/logger_i"
)

var logRH = logger_i.NewLogger("RequestHandler")

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// the status is already written
		logRH.Error("Error encoding response", "error", err)
	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, id string, message string) {
	writeJsonResponse(w, httpCode, adapter.StatusError(id, httpCode, message))
}

func (h *Handler) writePipelineError(w http.ResponseWriter, id string, err error) {
	writeJsonResponse(w, commonModels.HttpStatus(err), adapter.BadRequest(id, err))
}

func (h *Handler) validateContext(ctx context.Context) bool {
	if err := ctx.Err(); err != nil {
		h.logger.WithTrace(ctx, config.TRACE_ID_KEY).Warn("context error", "error", err)
		return false
	}
	return true
}

func (h *Handler) getTargetDirectory() (string, error) {
	root := h.uploadRoot
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		root = filepath.Join(wd, config.TemporaryDataFolder)
	}
	targetDir := filepath.Join(root, utils.GetNewUUID())
	if err := os.MkdirAll(targetDir, 0750); err != nil {
		return "", err
	}
	return targetDir, nil
}

// spoolUploads copies the batch into its own directory. The multipart temp files are gone once
// the handler returns, the worker reads these copies instead. cleanup removes the directory.
func (h *Handler) spoolUploads(headers []*multipart.FileHeader) ([]commonModels.InputFile, func(), error) {
	targetDir, err := h.getTargetDirectory()
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := os.RemoveAll(targetDir); err != nil {
			h.logger.Warn("Could not remove upload directory", "dir", targetDir, "error", err)
		}
	}

	files := make([]commonModels.InputFile, 0, len(headers))
	for i, header := range headers {
		name := filepath.Base(header.Filename)
		path := filepath.Join(targetDir, fmt.Sprintf("%d-%s", i, name))
		if err := copyUpload(header, path); err != nil {
			cleanup()
			return nil, nil, err
		}
		files = append(files, commonModels.NewPathFile(name, declaredMediaType(header), path))
	}
	return files, cleanup, nil
}

func copyUpload(header *multipart.FileHeader, path string) error {
	src, err := header.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

// the part's Content-Type is the declared type; clients that send none get one from the extension
func declaredMediaType(header *multipart.FileHeader) string {
	declared := header.Header.Get("Content-Type")
	if declared == "" || declared == "application/octet-stream" {
		return commonModels.MediaTypeFromName(header.Filename)
	}
	return declared
}
