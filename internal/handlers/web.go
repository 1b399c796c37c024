package handlers

import (
	"net/http"

	"github.com/BerylCAtieno/claim-appeal-api/internal/utils"
	"github.com/BerylCAtieno/claim-appeal-api/internal/web"
)

// Index renders the upload form.
func (h *AppealHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, web.NewPageData())
}

// GenerateForm handles the form post and renders the letter or the error.
func (h *AppealHandler) GenerateForm(w http.ResponseWriter, r *http.Request) {
	page := web.NewPageData()

	req, err := h.readGenerateRequest(w, r)
	if err == nil {
		page.Result, err = h.service.GenerateAppeal(r.Context(), req)
	}
	if err != nil {
		appErr := utils.AsAppError(err)
		h.logger.Warn("Appeal form failed", "status", appErr.StatusCode, "error", appErr.Message, "cause", appErr.Err)
		page.Error = appErr.Message
		h.render(w, appErr.StatusCode, page)
		return
	}

	h.render(w, http.StatusOK, page)
}

func (h *AppealHandler) render(w http.ResponseWriter, status int, page web.PageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := web.RenderIndex(w, page); err != nil {
		h.logger.Error("Failed to render page", "error", err)
	}
}
