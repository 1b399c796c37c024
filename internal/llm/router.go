package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/BerylCAtieno/claim-appeal-api/internal/utils"
)

// ModelSelector picks the chat model for a generation. It never fails: any
// problem resolves to the default model.
type ModelSelector interface {
	SelectModel(ctx context.Context) string
}

type routerSelector struct {
	url          string
	query        string
	defaultModel string
	logger       *utils.Logger
	client       *http.Client
}

type routerRequest struct {
	Query string `json:"query"`
}

type routerResponse struct {
	Model string `json:"model"`
}

func NewRouterSelector(baseURL, query, defaultModel string, logger *utils.Logger) ModelSelector {
	return &routerSelector{
		url:          joinURL(baseURL, "/routerllm"),
		query:        query,
		defaultModel: defaultModel,
		logger:       logger,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *routerSelector) SelectModel(ctx context.Context) string {
	status, body, err := postJSON(ctx, s.client, s.url, routerRequest{Query: s.query})
	if err != nil {
		s.logger.Warn("Model router unreachable, using default model", "error", err, "model", s.defaultModel)
		return s.defaultModel
	}

	if status != http.StatusOK {
		s.logger.Warn("Model router returned error status, using default model", "status", status, "model", s.defaultModel)
		return s.defaultModel
	}

	var resp routerResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		s.logger.Warn("Model router returned invalid JSON, using default model", "error", err, "model", s.defaultModel)
		return s.defaultModel
	}

	model := strings.TrimSpace(resp.Model)
	if model == "" {
		s.logger.Warn("Model router returned no model, using default model", "model", s.defaultModel)
		return s.defaultModel
	}

	s.logger.Debug("Model selected by router", "model", model)
	return model
}
