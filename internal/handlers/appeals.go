package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/BerylCAtieno/claim-appeal-api/internal/models"
	"github.com/BerylCAtieno/claim-appeal-api/internal/services"
	"github.com/BerylCAtieno/claim-appeal-api/internal/storage"
	"github.com/BerylCAtieno/claim-appeal-api/internal/utils"
)

// formOverhead is allowed on top of the file bytes for multipart framing and
// text fields.
const formOverhead = 1 << 20

type AppealHandler struct {
	service     services.AppealService
	logger      *utils.Logger
	maxFileSize int64
}

func NewAppealHandler(service services.AppealService, maxFileSize int64, logger *utils.Logger) *AppealHandler {
	return &AppealHandler{
		service:     service,
		logger:      logger,
		maxFileSize: maxFileSize,
	}
}

// ExtractDocument previews the text of a single upload.
func (h *AppealHandler) ExtractDocument(w http.ResponseWriter, r *http.Request) {
	hasFiles, err := h.parseForm(w, r, 1)
	if err != nil {
		h.respondError(w, err)
		return
	}

	kind := models.DocumentKind(r.FormValue("kind"))
	if !kind.Valid() {
		h.respondError(w, utils.NewBadRequestError("kind must be one of eob, medical_records, denial_letter"))
		return
	}

	var doc *models.UploadedDocument
	if hasFiles {
		doc, err = h.readPDF(r, "file", kind)
		if err != nil {
			h.respondError(w, err)
			return
		}
	}
	if doc == nil {
		h.respondError(w, utils.NewBadRequestError("No file provided"))
		return
	}

	resp, err := h.service.ExtractDocument(r.Context(), doc)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}

func (h *AppealHandler) GenerateAppeal(w http.ResponseWriter, r *http.Request) {
	req, err := h.readGenerateRequest(w, r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	resp, err := h.service.GenerateAppeal(r.Context(), req)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, resp)
}

func (h *AppealHandler) GetAppeal(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	result, err := h.service.GetAppeal(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

func (h *AppealHandler) ListAppeals(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	appeals, err := h.service.ListAppeals(r.Context(), limit)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, appeals)
}

// DownloadAppeal serves the letter as appeal_letter.txt.
func (h *AppealHandler) DownloadAppeal(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	result, err := h.service.GetAppeal(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, storage.LetterFilename))
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, result.Letter)
}

// DownloadDocument serves an archived source PDF.
func (h *AppealHandler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	kind := models.DocumentKind(vars["kind"])

	data, err := h.service.GetDocument(r.Context(), vars["id"], kind)
	if err != nil {
		h.respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, kind))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// readGenerateRequest reads the API key and the three uploads. Missing files
// are left out of the map; the service reports them.
func (h *AppealHandler) readGenerateRequest(w http.ResponseWriter, r *http.Request) (*models.GenerateRequest, error) {
	hasFiles, err := h.parseForm(w, r, len(models.DocumentKinds))
	if err != nil {
		return nil, err
	}

	req := &models.GenerateRequest{
		APIKey:    r.FormValue("api_key"),
		Documents: make(map[models.DocumentKind]*models.UploadedDocument, len(models.DocumentKinds)),
	}
	if !hasFiles {
		return req, nil
	}

	for _, kind := range models.DocumentKinds {
		doc, err := h.readPDF(r, string(kind), kind)
		if err != nil {
			return nil, err
		}
		if doc != nil {
			req.Documents[kind] = doc
		}
	}

	return req, nil
}

// parseForm reports whether the body is multipart and may carry files. An
// empty or url-encoded body is parsed for its fields and holds no files.
func (h *AppealHandler) parseForm(w http.ResponseWriter, r *http.Request, files int) (bool, error) {
	limit := int64(files)*h.maxFileSize + formOverhead

	if r.ContentLength > limit {
		return false, h.tooLarge()
	}

	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(limit); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return false, h.tooLarge()
		case errors.Is(err, http.ErrNotMultipart):
			return false, nil
		}
		return false, utils.NewBadRequestError("Invalid form data").WithCause(err)
	}

	return true, nil
}

// readPDF returns nil, nil when the field has no file.
func (h *AppealHandler) readPDF(r *http.Request, field string, kind models.DocumentKind) (*models.UploadedDocument, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, utils.NewBadRequestError("Invalid form data").WithCause(err)
	}
	defer file.Close()

	if !isPDF(header.Filename, header.Header.Get("Content-Type")) {
		h.logger.Warn("Rejected non-PDF upload", "field", field, "filename", header.Filename,
			"content_type", header.Header.Get("Content-Type"))
		return nil, utils.NewBadRequestError(fmt.Sprintf("The %s must be a PDF file", kind.Label()))
	}

	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		return nil, utils.NewInternalError("Failed to read file").WithCause(err)
	}
	if int64(len(data)) > h.maxFileSize {
		return nil, h.tooLarge()
	}
	if len(data) == 0 {
		return nil, nil
	}

	h.logger.Debug("File uploaded", "field", field, "filename", header.Filename, "size", len(data))

	return &models.UploadedDocument{
		Kind:     kind,
		Filename: header.Filename,
		Data:     data,
	}, nil
}

func (h *AppealHandler) tooLarge() *utils.AppError {
	return utils.NewBadRequestError(fmt.Sprintf("Each file must be at most %d MB", h.maxFileSize>>20))
}

// isPDF accepts a .pdf extension, or a PDF content type when the name has
// no extension.
func isPDF(filename, contentType string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != "" {
		return ext == ".pdf"
	}

	switch strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0])) {
	case "application/pdf", "application/x-pdf":
		return true
	}
	return false
}

func (h *AppealHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", "error", err)
	}
}

func (h *AppealHandler) respondError(w http.ResponseWriter, err error) {
	appErr := utils.AsAppError(err)

	h.logger.Error("Request error", "status", appErr.StatusCode, "error", appErr.Message, "cause", appErr.Err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": appErr.Message})
}
