package handler

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"time"

	"studentrecords/internal/metrics"
	"studentrecords/internal/service"
)

// maxUploadSize bounds a multipart upload.
const maxUploadSize = 100 << 20 // 100MB

type Importer interface {
	ImportCSV(ctx context.Context, fileName string, r io.Reader) (service.ImportResult, error)
}

type UploadHandler struct {
	uploadService Importer
	metrics       *metrics.Metrics
}

func NewUploadHandler(uploadService Importer, m *metrics.Metrics) *UploadHandler {
	return &UploadHandler{uploadService: uploadService, metrics: m}
}

// UploadCSV imports every file of the "files" form field, one after another.
// Each file is appended to the table as it is processed. When a file fails,
// the files before it stay imported and are listed in the error response.
func (h *UploadHandler) UploadCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "File too large or bad request", http.StatusRequestEntityTooLarge)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		http.Error(w, "No files uploaded", http.StatusBadRequest)
		return
	}

	results := make([]service.ImportResult, 0, len(files))
	for _, header := range files {
		start := time.Now()
		fileName := filepath.Base(header.Filename)

		result, err := h.importFile(r, header, fileName)
		h.metrics.Observe("import", start, err)
		if err != nil {
			status := errorStatus(err)
			message := err.Error()
			if status == http.StatusInternalServerError {
				message = "Internal server error"
			}
			writeJSON(w, status, map[string]interface{}{
				"error":  message,
				"failed": fileName,
				"files":  results,
			})
			return
		}
		results = append(results, result)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Files imported",
		"files":   results,
	})
}

func (h *UploadHandler) importFile(r *http.Request, header *multipart.FileHeader, fileName string) (service.ImportResult, error) {
	file, err := header.Open()
	if err != nil {
		log.Println("Error opening file:", err)
		return service.ImportResult{}, err
	}
	defer file.Close()

	result, err := h.uploadService.ImportCSV(r.Context(), fileName, file)
	if err != nil {
		return result, fmt.Errorf("%s: %w", fileName, err)
	}
	return result, nil
}
