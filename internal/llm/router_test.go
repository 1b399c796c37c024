package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/claim-appeal-api/internal/utils"
)

const testDefaultModel = "gpt-4o-mini"

func TestRouterSelectorReturnsRoutedModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/routerllm", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req routerRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Summarize medical appeal", req.Query)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"model":"gpt-4-turbo"}`))
	}))
	defer srv.Close()

	selector := NewRouterSelector(srv.URL+"/", "Summarize medical appeal", testDefaultModel, utils.NopLogger())
	assert.Equal(t, "gpt-4-turbo", selector.SelectModel(context.Background()))
}

func TestRouterSelectorFallsBackToDefault(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-200 status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"model":"ignored"}`))
			},
		},
		{
			name: "invalid JSON",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html>router</html>`))
			},
		},
		{
			name: "empty model",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"model":""}`))
			},
		},
		{
			name: "missing model field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"choice":"gpt-4"}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			selector := NewRouterSelector(srv.URL, "q", testDefaultModel, utils.NopLogger())
			assert.Equal(t, testDefaultModel, selector.SelectModel(context.Background()))
		})
	}
}

func TestRouterSelectorUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	selector := NewRouterSelector(url, "q", testDefaultModel, utils.NopLogger())
	assert.Equal(t, testDefaultModel, selector.SelectModel(context.Background()))
}
