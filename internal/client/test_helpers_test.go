package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/bcext/internal/testutil"
	"github.com/fivetwenty-io/bcext/pkg/bcapi"
)

// NewTestClient creates a client against the fake extension management API.
func NewTestClient(t *testing.T) (*Client, *testutil.FakeAPI) {
	t.Helper()

	api := testutil.NewFakeAPI(t)

	client, err := New(api.Config())
	require.NoError(t, err)

	return client, api
}

// NewRawTestClient creates a client against a server answering every request with handler.
func NewRawTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(&bcapi.Config{
		APIBaseURL:  server.URL,
		APIUsername: testutil.Username,
		APIPassword: testutil.Password,
	})
	require.NoError(t, err)

	return client
}

// respondWith returns a handler that writes status and body verbatim.
func respondWith(status int, body string) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(status)
		_, _ = writer.Write([]byte(body))
	}
}

// respondJSON returns a handler that encodes value with status.
func respondJSON(status int, value interface{}) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(status)
		_ = json.NewEncoder(writer).Encode(value)
	}
}
