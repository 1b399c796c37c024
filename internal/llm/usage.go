package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/BerylCAtieno/claim-appeal-api/internal/models"
	"github.com/BerylCAtieno/claim-appeal-api/internal/utils"
)

// UsageLogger reports one generation to the router's log endpoint.
type UsageLogger interface {
	Log(ctx context.Context, record models.UsageRecord) error
}

type httpUsageLogger struct {
	url    string
	logger *utils.Logger
	client *http.Client
}

func NewUsageLogger(baseURL string, logger *utils.Logger) UsageLogger {
	return &httpUsageLogger{
		url:    joinURL(baseURL, "/logs"),
		logger: logger,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Log posts the record. The response is ignored; only transport failures
// are errors.
func (l *httpUsageLogger) Log(ctx context.Context, record models.UsageRecord) error {
	status, _, err := postJSON(ctx, l.client, l.url, record)
	if err != nil {
		return fmt.Errorf("usage log: %w", err)
	}
	if status >= http.StatusBadRequest {
		l.logger.Warn("Usage log endpoint returned error status", "status", status)
	}

	l.logger.Debug("Usage recorded", "model", record.Model, "latency", record.Latency)
	return nil
}
