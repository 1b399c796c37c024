package router

import (
	"net/http"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/BerylCAtieno/claim-appeal-api/internal/handlers"
	"github.com/BerylCAtieno/claim-appeal-api/internal/middleware"
	"github.com/BerylCAtieno/claim-appeal-api/internal/services"
	"github.com/BerylCAtieno/claim-appeal-api/internal/utils"
)

type Options struct {
	MaxFileSize    int64
	RateLimitRPS   float64
	RateLimitBurst int
}

func NewRouter(appealService services.AppealService, opts Options, logger *utils.Logger) http.Handler {
	r := mux.NewRouter()

	// Middlewares
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Recovery(logger))

	appealHandler := handlers.NewAppealHandler(appealService, opts.MaxFileSize, logger)

	// Generation calls a paid API; one bucket covers the form and the JSON endpoint.
	limited := middleware.RateLimit(rate.NewLimiter(rate.Limit(opts.RateLimitRPS), opts.RateLimitBurst), logger)

	// HTML form
	r.HandleFunc("/", appealHandler.Index).Methods(http.MethodGet)
	r.Handle("/generate", limited(http.HandlerFunc(appealHandler.GenerateForm))).Methods(http.MethodPost)

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	api.HandleFunc("/documents/extract", appealHandler.ExtractDocument).Methods(http.MethodPost)
	api.Handle("/appeals", limited(http.HandlerFunc(appealHandler.GenerateAppeal))).Methods(http.MethodPost)
	api.HandleFunc("/appeals", appealHandler.ListAppeals).Methods(http.MethodGet)
	api.HandleFunc("/appeals/{id}", appealHandler.GetAppeal).Methods(http.MethodGet)
	api.HandleFunc("/appeals/{id}/download", appealHandler.DownloadAppeal).Methods(http.MethodGet)
	api.HandleFunc("/appeals/{id}/documents/{kind}", appealHandler.DownloadDocument).Methods(http.MethodGet)

	return r
}
