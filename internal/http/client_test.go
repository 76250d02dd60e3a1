package http_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bchttp "github.com/fivetwenty-io/bcext/internal/http"
	"github.com/fivetwenty-io/bcext/pkg/bcapi"
)

// MockLogger for testing.
type MockLogger struct {
	logs []map[string]interface{}
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "debug", "msg": msg, "fields": fields})
}

func (l *MockLogger) Info(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "info", "msg": msg, "fields": fields})
}

func (l *MockLogger) Warn(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "warn", "msg": msg, "fields": fields})
}

func (l *MockLogger) Error(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "error", "msg": msg, "fields": fields})
}

func TestJoinURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		base     string
		path     string
		rawQuery string
		expected string
	}{
		{"base without slash", "https://bc.example.com/api", "extensions", "", "https://bc.example.com/api/extensions"},
		{"base with slash", "https://bc.example.com/api/", "extensions", "", "https://bc.example.com/api/extensions"},
		{"path with leading slash", "https://bc.example.com/api/", "/extensions", "", "https://bc.example.com/api/extensions"},
		{"with query", "https://bc.example.com/api", "extensions", "$top=1", "https://bc.example.com/api/extensions?$top=1"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, bchttp.JoinURL(tc.base, tc.path, tc.rawQuery))
		})
	}
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Do(t *testing.T) {
	t.Parallel()

	t.Run("successful request with basic auth", func(t *testing.T) {
		t.Parallel()

		expectedAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("admin:secret"))

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/api/extensions", request.URL.Path)
			assert.Equal(t, http.MethodGet, request.Method)
			assert.Equal(t, expectedAuth, request.Header.Get("Authorization"))
			assert.Equal(t, "application/json", request.Header.Get("Content-Type"))

			_ = json.NewEncoder(writer).Encode(map[string]interface{}{"value": []interface{}{}})
		}))
		defer server.Close()

		client := bchttp.NewClient(server.URL+"/api", &bchttp.Credentials{Username: "admin", Password: "secret"})

		resp, err := client.Get(context.Background(), "extensions", "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"value":[]}`, string(resp.Body))
	})

	t.Run("query is sent as given", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "10", request.URL.Query().Get("$top"))
			assert.Equal(t, "id eq 1", request.URL.Query().Get("$filter"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := bchttp.NewClient(server.URL, nil)

		resp, err := client.Get(context.Background(), "extensions", "$top=10&$filter=id%20eq%201")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("request with body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, http.MethodPost, request.Method)
			assert.Equal(t, "application/json", request.Header.Get("Content-Type"))

			var body map[string]string

			_ = json.NewDecoder(request.Body).Decode(&body)
			assert.Equal(t, "ext-1", body["id"])

			writer.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		client := bchttp.NewClient(server.URL, nil)

		resp, err := client.Post(context.Background(), "extensions", map[string]string{"id": "ext-1"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("error envelope becomes remote error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(writer).Encode(bcapi.ErrorResponse{
				Error: &bcapi.ErrorDetail{Code: "Internal_EntityWithSameKeyExists", Message: "duplicate"},
			})
		}))
		defer server.Close()

		client := bchttp.NewClient(server.URL, nil)

		resp, err := client.Post(context.Background(), "extensions", map[string]string{"id": "ext-1"})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.True(t, bcapi.IsRemote(err))
		assert.Equal(t, "duplicate", err.Error())
	})

	t.Run("empty rejected response", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := bchttp.NewClient(server.URL, nil)

		_, err := client.Get(context.Background(), "extensions(1)", "")
		require.Error(t, err)
		assert.True(t, bcapi.IsRemote(err))
		assert.Equal(t, bcapi.EmptyResponseMessage, err.Error())
	})

	t.Run("server error becomes transport error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := bchttp.NewClient(server.URL, nil)

		resp, err := client.Get(context.Background(), "extensions", "")
		require.Error(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.True(t, bcapi.IsTransport(err))
		assert.False(t, bcapi.IsRemote(err))
	})

	t.Run("network failure becomes transport error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {}))
		url := server.URL
		server.Close()

		client := bchttp.NewClient(url, nil)

		resp, err := client.Get(context.Background(), "extensions", "")
		require.Error(t, err)
		assert.Nil(t, resp)
		assert.True(t, bcapi.IsTransport(err))
	})

	t.Run("custom headers", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "custom-value", request.Header.Get("X-Custom-Header"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := bchttp.NewClient(server.URL, nil)

		resp, err := client.Do(context.Background(), &bchttp.Request{
			Method:  http.MethodGet,
			Path:    "extensions",
			Headers: map[string]string{"X-Custom-Header": "custom-value"},
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("with debug logging", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			_ = json.NewEncoder(writer).Encode(map[string]string{"result": "ok"})
		}))
		defer server.Close()

		logger := &MockLogger{}
		client := bchttp.NewClient(server.URL, nil, bchttp.WithLogger(logger), bchttp.WithDebug(true))

		_, err := client.Get(context.Background(), "extensions", "")
		require.NoError(t, err)

		var messages []interface{}
		for _, entry := range logger.logs {
			messages = append(messages, entry["msg"])
		}

		assert.Contains(t, messages, "HTTP Request")
		assert.Contains(t, messages, "HTTP Response")
	})
}

func TestClient_RetryLogic(t *testing.T) {
	t.Parallel()

	t.Run("does not retry by default", func(t *testing.T) {
		t.Parallel()

		var attempts int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			atomic.AddInt32(&attempts, 1)
			writer.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := bchttp.NewClient(server.URL, nil)

		_, err := client.Get(context.Background(), "extensions", "")
		require.Error(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
	})

	t.Run("retries on 5xx errors when enabled", func(t *testing.T) {
		t.Parallel()

		var attempts int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if atomic.AddInt32(&attempts, 1) < 3 {
				writer.WriteHeader(http.StatusInternalServerError)

				return
			}

			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := bchttp.NewClient(server.URL, nil, bchttp.WithRetryConfig(3, 10*time.Millisecond, 100*time.Millisecond))

		resp, err := client.Get(context.Background(), "extensions", "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
	})

	t.Run("does not retry on client errors", func(t *testing.T) {
		t.Parallel()

		var attempts int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			atomic.AddInt32(&attempts, 1)
			writer.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		client := bchttp.NewClient(server.URL, nil, bchttp.WithRetryConfig(3, 10*time.Millisecond, 100*time.Millisecond))

		resp, err := client.Get(context.Background(), "extensions", "")
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
	})
}
