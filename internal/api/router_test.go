package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/vantage/backend/internal/api/handlers"
	"github.com/wonny/vantage/backend/pkg/logger"
)

func TestHealthCheck(t *testing.T) {
	router := NewRouter(
		handlers.NewResearchHandler(nil, logger.NewNop()),
		handlers.NewBacktestHandler(nil, nil, logger.NewNop()),
		handlers.NewAnalyzeHandler(nil, logger.NewNop()),
		logger.NewNop(),
	)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestMethodNotAllowed(t *testing.T) {
	router := NewRouter(
		handlers.NewResearchHandler(nil, logger.NewNop()),
		handlers.NewBacktestHandler(nil, nil, logger.NewNop()),
		handlers.NewAnalyzeHandler(nil, logger.NewNop()),
		logger.NewNop(),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/research", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
