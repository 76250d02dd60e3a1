package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/bcext/pkg/bcapi"
)

func TestResourceClient_BuildURL(t *testing.T) {
	t.Parallel()

	for _, base := range []string{"https://bc.example.com/api", "https://bc.example.com/api/"} {
		client, err := New(&bcapi.Config{APIBaseURL: base, APIUsername: "admin", APIPassword: "secret"})
		require.NoError(t, err)

		resources := client.Resources()

		tests := []struct {
			name     string
			resource string
			id       string
			action   string
			query    *bcapi.PageQuery
			expected string
		}{
			{
				name:     "collection",
				resource: "extensions",
				expected: "https://bc.example.com/api/extensions",
			},
			{
				name:     "entity",
				resource: "extensions",
				id:       "42",
				expected: "https://bc.example.com/api/extensions(42)",
			},
			{
				name:     "bound action with top",
				resource: "extensions",
				id:       "42",
				action:   "createLine",
				query:    bcapi.NewPageQuery().WithTop(5),
				expected: "https://bc.example.com/api/extensions(42)/Microsoft.NAV.createLine?$top=5",
			},
			{
				name:     "top skip and filter",
				resource: "extensions",
				query:    bcapi.NewPageQuery().WithTop(10).WithSkip(20).WithFilter("id eq 1"),
				expected: "https://bc.example.com/api/extensions?$top=10&$skip=20&$filter=id eq 1",
			},
			{
				name:     "empty query",
				resource: "assignableRanges",
				query:    bcapi.NewPageQuery(),
				expected: "https://bc.example.com/api/assignableRanges",
			},
		}

		for _, tt := range tests {
			tt := tt
			t.Run(base+" "+tt.name, func(t *testing.T) {
				t.Parallel()
				assert.Equal(t, tt.expected, resources.BuildURL(tt.resource, tt.id, tt.action, tt.query))
			})
		}
	}
}

func TestResourceClient_ReadAllPaged(t *testing.T) {
	t.Parallel()

	tests := []struct {
		records          int
		expectedRequests int
	}{
		{records: 0, expectedRequests: 1},
		{records: 1, expectedRequests: 1},
		{records: 49, expectedRequests: 1},
		{records: 50, expectedRequests: 2},
		{records: 51, expectedRequests: 2},
		{records: 100, expectedRequests: 3},
		{records: 120, expectedRequests: 3},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(fmt.Sprintf("%d records", tt.records), func(t *testing.T) {
			t.Parallel()

			client, api := NewTestClient(t)
			api.GenerateRanges(tt.records)

			records, err := client.Resources().ReadAllPaged(context.Background(), bcapi.ResourceAssignableRanges, "")
			require.NoError(t, err)
			require.Len(t, records, tt.records)

			for i, record := range records {
				var assignableRange bcapi.AssignableRange

				require.NoError(t, json.Unmarshal(record, &assignableRange))
				assert.Equal(t, fmt.Sprintf("RANGE%04d", i+1), assignableRange.Code)
			}

			requests := api.Requests()
			require.Len(t, requests, tt.expectedRequests)

			for i, req := range requests {
				assert.Equal(t, http.MethodGet, req.Method)
				assert.Equal(t, "50", req.Query.Get("$top"))
				assert.Equal(t, fmt.Sprint(i*50), req.Query.Get("$skip"))
				assert.False(t, req.Query.Has("$filter"))
			}
		})
	}
}

func TestResourceClient_ReadAllPaged_StopsOnError(t *testing.T) {
	t.Parallel()

	var requests int32

	client := NewRawTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		atomic.AddInt32(&requests, 1)

		if request.URL.Query().Get("$skip") == "50" {
			respondJSON(http.StatusForbidden, bcapi.ErrorResponse{Error: &bcapi.ErrorDetail{Message: "forbidden"}})(writer, request)

			return
		}

		page := make([]bcapi.AssignableRange, 50)
		respondJSON(http.StatusOK, bcapi.ListResponse[bcapi.AssignableRange]{Value: page})(writer, request)
	})

	records, err := client.Resources().ReadAllPaged(context.Background(), bcapi.ResourceAssignableRanges, "")
	require.Error(t, err)
	assert.Nil(t, records)
	assert.True(t, bcapi.IsRemote(err))
	assert.Equal(t, "forbidden", err.Error())
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests))
}

func TestResourceClient_GetByFilter(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()

		client, api := NewTestClient(t)
		api.AddExtension(bcapi.Extension{ID: "other", Code: "EXT0001"})
		api.AddExtension(bcapi.Extension{ID: "ext-1", Code: "EXT0002"})

		record, found, err := client.Resources().GetByFilter(context.Background(), bcapi.ResourceExtensions, "id eq ext-1")
		require.NoError(t, err)
		require.True(t, found)
		assert.JSONEq(t, `{"id":"ext-1","code":"EXT0002","rangeCode":"","name":"","description":""}`, string(record))

		requests := api.Requests()
		require.Len(t, requests, 1)
		assert.Equal(t, "1", requests[0].Query.Get("$top"))
		assert.Equal(t, "id eq ext-1", requests[0].Query.Get("$filter"))
		assert.False(t, requests[0].Query.Has("$skip"))
	})

	t.Run("empty value is not found", func(t *testing.T) {
		t.Parallel()

		client, _ := NewTestClient(t)

		record, found, err := client.Resources().GetByFilter(context.Background(), bcapi.ResourceExtensions, "id eq missing")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, record)
	})
}

func TestResourceClient_ResponseShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		call func(resources bcapi.ResourceClient) error
	}{
		{
			name: "page body is an array",
			body: `[]`,
			call: func(resources bcapi.ResourceClient) error {
				_, err := resources.ReadPage(context.Background(), "extensions", nil)

				return err
			},
		},
		{
			name: "page without value",
			body: `{"items":[]}`,
			call: func(resources bcapi.ResourceClient) error {
				_, _, err := resources.GetByFilter(context.Background(), "extensions", "id eq 1")

				return err
			},
		},
		{
			name: "page value is not an array",
			body: `{"value":{"id":"1"}}`,
			call: func(resources bcapi.ResourceClient) error {
				_, err := resources.ReadAllPaged(context.Background(), "extensions", "")

				return err
			},
		},
		{
			name: "created record is a string",
			body: `"created"`,
			call: func(resources bcapi.ResourceClient) error {
				_, err := resources.Create(context.Background(), "extensions", map[string]string{"id": "1"})

				return err
			},
		},
		{
			name: "read record is empty",
			body: ``,
			call: func(resources bcapi.ResourceClient) error {
				_, err := resources.Read(context.Background(), "extensions", "1")

				return err
			},
		},
		{
			name: "action result without value",
			body: `{"id":1}`,
			call: func(resources bcapi.ResourceClient) error {
				_, err := resources.InvokeAction(context.Background(), "extensions", "1", "createLine", nil)

				return err
			},
		},
		{
			name: "action result is an array",
			body: `[1]`,
			call: func(resources bcapi.ResourceClient) error {
				_, err := resources.InvokeAction(context.Background(), "extensions", "1", "createLine", nil)

				return err
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := NewRawTestClient(t, respondWith(http.StatusOK, tt.body))

			err := tt.call(client.Resources())
			require.Error(t, err)
			assert.True(t, bcapi.IsUnexpectedShape(err))
		})
	}
}

func TestResourceClient_Read(t *testing.T) {
	t.Parallel()

	client := NewRawTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/extensions(ext-1)", request.URL.Path)
		respondWith(http.StatusOK, `{"id":"ext-1","code":"EXT0001"}`)(writer, request)
	})

	record, err := client.Resources().Read(context.Background(), bcapi.ResourceExtensions, "ext-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"ext-1","code":"EXT0001"}`, string(record))
}

func TestResourceClient_Create(t *testing.T) {
	t.Parallel()

	t.Run("posts json and returns record", func(t *testing.T) {
		t.Parallel()

		client, api := NewTestClient(t)

		record, err := client.Resources().Create(context.Background(), bcapi.ResourceExtensions, &bcapi.ExtensionCreateRequest{
			ID:        "ext-1",
			RangeCode: "R1",
			Name:      "Sales",
		})
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"ext-1","code":"EXT0001","rangeCode":"R1","name":"Sales","description":""}`, string(record))

		requests := api.Requests()
		require.Len(t, requests, 1)
		assert.Equal(t, http.MethodPost, requests[0].Method)
		assert.Equal(t, "application/json", requests[0].ContentType)
		assert.JSONEq(t, `{"id":"ext-1","rangeCode":"R1","name":"Sales","description":""}`, string(requests[0].Body))
	})

	t.Run("remote message is returned verbatim", func(t *testing.T) {
		t.Parallel()

		client, api := NewTestClient(t)
		api.CreateError = &bcapi.ErrorDetail{Code: "Internal_EntityWithSameKeyExists", Message: "duplicate"}

		_, err := client.Resources().Create(context.Background(), bcapi.ResourceExtensions, map[string]string{"id": "ext-1"})
		require.Error(t, err)
		assert.True(t, bcapi.IsRemote(err))
		assert.Equal(t, "duplicate", err.Error())
	})

	t.Run("rejection without body", func(t *testing.T) {
		t.Parallel()

		client := NewRawTestClient(t, respondWith(http.StatusConflict, ""))

		_, err := client.Resources().Create(context.Background(), bcapi.ResourceExtensions, map[string]string{"id": "ext-1"})
		require.Error(t, err)
		assert.True(t, bcapi.IsRemote(err))
		assert.Equal(t, "Empty response", err.Error())
	})

	t.Run("server failure is a transport error", func(t *testing.T) {
		t.Parallel()

		client := NewRawTestClient(t, respondWith(http.StatusInternalServerError, ""))

		_, err := client.Resources().Create(context.Background(), bcapi.ResourceExtensions, map[string]string{"id": "ext-1"})
		require.Error(t, err)
		assert.True(t, bcapi.IsTransport(err))
	})
}

func TestResourceClient_InvokeAction(t *testing.T) {
	t.Parallel()

	client := NewRawTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodPost, request.Method)
		assert.Equal(t, "/extensions(ext-1)/Microsoft.NAV.createLine", request.URL.Path)

		var body map[string]interface{}

		assert.NoError(t, json.NewDecoder(request.Body).Decode(&body))
		assert.Equal(t, "Table", body["type"])

		respondWith(http.StatusOK, `{"@odata.context":"$metadata#Edm.Int32","value":50100}`)(writer, request)
	})

	value, err := client.Resources().InvokeAction(context.Background(), bcapi.ResourceExtensions, "ext-1",
		bcapi.ActionCreateLine, map[string]string{"type": "Table"})
	require.NoError(t, err)
	assert.JSONEq(t, `50100`, string(value))
}

func TestResourceClient_DebugLogging(t *testing.T) {
	t.Parallel()

	client, api := NewTestClient(t)
	require.NotNil(t, client)

	logger := &recordingLogger{}
	config := api.Config()
	config.Logger = logger
	config.Debug = true

	debugClient, err := New(config)
	require.NoError(t, err)

	_, _, err = debugClient.Extensions().Get(context.Background(), "ext-1")
	require.NoError(t, err)
	assert.Contains(t, logger.messages, "HTTP Request")
	assert.Contains(t, logger.messages, "HTTP Response")
}
