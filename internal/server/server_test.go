package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"investment-assistant/internal/common/logger"
)

type stubProcessor struct {
	answer  string
	err     error
	queries []string
}

func (s *stubProcessor) Process(_ context.Context, query string) (string, error) {
	s.queries = append(s.queries, query)
	if s.err != nil {
		return "", s.err
	}
	return s.answer, nil
}

func postQuery(t *testing.T, handler http.Handler, body []byte) queryResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/query", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp queryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestServer_HandleQuery(t *testing.T) {
	processor := &stubProcessor{answer: "Stock AAPL (Apple Inc.) — Price: $150.00"}
	srv := New(processor, 8080, logger.NewTestLogger(t))

	resp := postQuery(t, srv.Handler(), []byte(`{"q": "AAPL price"}`))

	assert.Equal(t, "Stock AAPL (Apple Inc.) — Price: $150.00", resp.Result)
	assert.Equal(t, []string{"AAPL price"}, processor.queries)
}

func TestServer_HandleQuery_TrimsWhitespace(t *testing.T) {
	processor := &stubProcessor{answer: "answer"}
	srv := New(processor, 8080, logger.NewNoOpLogger())

	postQuery(t, srv.Handler(), []byte(`{"q": "  bitcoin  "}`))

	assert.Equal(t, []string{"bitcoin"}, processor.queries)
}

func TestServer_HandleQuery_EmptyQuery(t *testing.T) {
	tests := []struct {
		name string
		body []byte
	}{
		{name: "empty value", body: []byte(`{"q": ""}`)},
		{name: "whitespace only", body: []byte(`{"q": "   "}`)},
		{name: "missing field", body: []byte(`{}`)},
		{name: "malformed json", body: []byte(`{not json`)},
		{name: "no body", body: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			processor := &stubProcessor{answer: "never"}
			srv := New(processor, 8080, logger.NewNoOpLogger())

			resp := postQuery(t, srv.Handler(), tt.body)

			assert.Equal(t, "Please send a query.", resp.Result)
			assert.Empty(t, processor.queries)
		})
	}
}

func TestServer_HandleQuery_AgentError(t *testing.T) {
	processor := &stubProcessor{err: errors.New("intent classification failed")}
	srv := New(processor, 8080, logger.NewTestLogger(t))

	resp := postQuery(t, srv.Handler(), []byte(`{"q": "AAPL"}`))

	assert.Contains(t, resp.Result, "Agent error: ")
	assert.Contains(t, resp.Result, "intent classification failed")
}

func TestServer_HandleQuery_MethodNotAllowed(t *testing.T) {
	srv := New(&stubProcessor{}, 8080, logger.NewNoOpLogger())

	req := httptest.NewRequest(http.MethodGet, "/query", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServer_HandleHealth(t *testing.T) {
	srv := New(&stubProcessor{}, 8080, logger.NewNoOpLogger())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
}

func TestServer_MetricsEndpoint(t *testing.T) {
	srv := New(&stubProcessor{}, 8080, logger.NewNoOpLogger())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
