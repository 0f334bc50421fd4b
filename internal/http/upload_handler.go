package httpapi

import (
	"net/http"

	"roster-data/internal/service"

	"go.uber.org/zap"
)

// UploadHandler accepts the roster spreadsheet and runs the ingestion
// pipeline.
type UploadHandler struct {
	ingest service.IngestService
	logger *zap.Logger
}

func NewUploadHandler(ingest service.IngestService, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{ingest: ingest, logger: logger}
}

// UploadExcel handles POST /api/upload-excel-dynamic (multipart form, field
// "excelFile"). Validation failures return 400 with the current snapshot
// untouched.
func (h *UploadHandler) UploadExcel(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(20 << 20); err != nil { // 20MB max
		writeJSON(w, http.StatusBadRequest, Fail("failed to parse form"))
		return
	}

	file, _, err := r.FormFile("excelFile")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("excelFile not found in request"))
		return
	}
	defer file.Close()

	uploader := r.FormValue("uploader")
	if uploader == "" {
		uploader = "unknown"
	}

	summary, err := h.ingest.IngestSheet(r.Context(), file, uploader)
	if err != nil {
		h.logger.Error("IngestSheet failed", zap.String("uploader", uploader), zap.Error(err))
		failError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Ok(summary))
}
