package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BerylCAtieno/claim-appeal-api/internal/models"
	"github.com/BerylCAtieno/claim-appeal-api/internal/services"
	"github.com/BerylCAtieno/claim-appeal-api/internal/utils"
)

type emptyService struct{}

func (emptyService) ExtractDocument(context.Context, *models.UploadedDocument) (*models.ExtractionResponse, error) {
	return nil, utils.NewBadRequestError("No file provided")
}

func (emptyService) GenerateAppeal(context.Context, *models.GenerateRequest) (*models.AppealResponse, error) {
	return nil, services.ErrMissingUploads
}

func (emptyService) GetAppeal(context.Context, string) (*models.Appeal, error) {
	return nil, utils.NewNotFoundError("Appeal not found")
}

func (emptyService) ListAppeals(context.Context, int) ([]models.Appeal, error) {
	return []models.Appeal{}, nil
}

func (emptyService) GetDocument(context.Context, string, models.DocumentKind) ([]byte, error) {
	return nil, utils.NewNotFoundError("Document archive is not enabled")
}

func newTestRouter(burst int) http.Handler {
	return NewRouter(emptyService{}, Options{
		MaxFileSize:    1 << 20,
		RateLimitRPS:   0.001,
		RateLimitBurst: burst,
	}, utils.NopLogger())
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(1).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestRoutes(t *testing.T) {
	h := newTestRouter(10)

	tests := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/api/v1/appeals", http.StatusOK},
		{http.MethodGet, "/api/v1/appeals/missing", http.StatusNotFound},
		{http.MethodGet, "/api/v1/appeals/missing/download", http.StatusNotFound},
		{http.MethodGet, "/api/v1/appeals/missing/documents/eob", http.StatusNotFound},
		{http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
		// mux reports a method mismatch inside a subrouter as not found.
		{http.MethodDelete, "/api/v1/appeals/missing", http.StatusNotFound},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, tt.want, rec.Code, "%s %s", tt.method, tt.path)
	}
}

func TestGenerationIsRateLimited(t *testing.T) {
	h := newTestRouter(1)

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/api/v1/appeals", nil))
	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/generate", nil))

	assert.Equal(t, http.StatusBadRequest, first.Code)
	assert.Contains(t, first.Body.String(), services.ErrMissingUploads.Message)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
