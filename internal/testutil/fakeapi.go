// Package testutil provides an in-memory extension management API for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/fivetwenty-io/bcext/pkg/bcapi"
)

// Test credentials accepted by FakeAPI.
const (
	Username = "admin"
	Password = "secret"
)

// RecordedRequest is a request received by FakeAPI.
type RecordedRequest struct {
	Method        string
	Path          string
	Query         url.Values
	Body          []byte
	Authorization string
	ContentType   string
}

// FakeAPI serves extensions and assignableRanges with $top, $skip and `id eq` filters.
type FakeAPI struct {
	Server *httptest.Server

	mutex      sync.Mutex
	extensions []bcapi.Extension
	ranges     []bcapi.AssignableRange
	requests   []RecordedRequest
	nextCode   int

	// CreateStatus and CreateError make extension creation fail when CreateError is set.
	CreateStatus int
	CreateError  *bcapi.ErrorDetail
	// ObjectIDResponse is returned as the value of the createLine action.
	ObjectIDResponse interface{}
}

// NewFakeAPI starts a FakeAPI that is closed when the test ends.
func NewFakeAPI(t testing.TB) *FakeAPI {
	t.Helper()

	api := &FakeAPI{
		nextCode:         1,
		CreateStatus:     http.StatusBadRequest,
		ObjectIDResponse: 50000,
	}
	api.Server = httptest.NewServer(http.HandlerFunc(api.handle))
	t.Cleanup(api.Server.Close)

	return api
}

// Config returns a client configuration pointing at the fake.
func (a *FakeAPI) Config() *bcapi.Config {
	return &bcapi.Config{
		APIBaseURL:  a.Server.URL + "/api/v1.0",
		APIUsername: Username,
		APIPassword: Password,
	}
}

// AddExtension stores an existing extension.
func (a *FakeAPI) AddExtension(extension bcapi.Extension) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	a.extensions = append(a.extensions, extension)
}

// Extensions returns the stored extensions.
func (a *FakeAPI) Extensions() []bcapi.Extension {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	return append([]bcapi.Extension(nil), a.extensions...)
}

// SetRanges replaces the assignable ranges.
func (a *FakeAPI) SetRanges(ranges []bcapi.AssignableRange) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	a.ranges = ranges
}

// GenerateRanges replaces the assignable ranges with count ranges named RANGE0001...
func (a *FakeAPI) GenerateRanges(count int) {
	ranges := make([]bcapi.AssignableRange, 0, count)
	for i := 1; i <= count; i++ {
		ranges = append(ranges, bcapi.AssignableRange{Code: fmt.Sprintf("RANGE%04d", i)})
	}

	a.SetRanges(ranges)
}

// Requests returns every request received so far.
func (a *FakeAPI) Requests() []RecordedRequest {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	return append([]RecordedRequest(nil), a.requests...)
}

// CountRequests counts requests with the given method whose path ends with suffix.
func (a *FakeAPI) CountRequests(method, suffix string) int {
	count := 0

	for _, req := range a.Requests() {
		if req.Method == method && strings.HasSuffix(req.Path, suffix) {
			count++
		}
	}

	return count
}

func (a *FakeAPI) handle(writer http.ResponseWriter, request *http.Request) {
	body, _ := io.ReadAll(request.Body)

	a.mutex.Lock()
	a.requests = append(a.requests, RecordedRequest{
		Method:        request.Method,
		Path:          request.URL.Path,
		Query:         request.URL.Query(),
		Body:          body,
		Authorization: request.Header.Get("Authorization"),
		ContentType:   request.Header.Get("Content-Type"),
	})
	a.mutex.Unlock()

	username, password, ok := request.BasicAuth()
	if !ok || username != Username || password != Password {
		writeError(writer, http.StatusUnauthorized, "Authentication_InvalidCredentials", "The server has rejected the client credentials.")

		return
	}

	path := strings.TrimPrefix(request.URL.Path, "/api/v1.0/")

	switch {
	case request.Method == http.MethodGet && path == bcapi.ResourceExtensions:
		a.listExtensions(writer, request.URL.Query())
	case request.Method == http.MethodPost && path == bcapi.ResourceExtensions:
		a.createExtension(writer, body)
	case request.Method == http.MethodGet && path == bcapi.ResourceAssignableRanges:
		a.listRanges(writer, request.URL.Query())
	case request.Method == http.MethodPost && strings.HasSuffix(path, "/"+bcapi.ActionNamespace+"."+bcapi.ActionCreateLine):
		writeJSON(writer, http.StatusOK, map[string]interface{}{"value": a.ObjectIDResponse})
	default:
		writeError(writer, http.StatusNotFound, "BadRequest_NotFound", "The request URI is not valid.")
	}
}

func (a *FakeAPI) listExtensions(writer http.ResponseWriter, query url.Values) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	matches := make([]bcapi.Extension, 0, len(a.extensions))

	id, filtered := parseIDFilter(query.Get("$filter"))
	for _, extension := range a.extensions {
		if !filtered || extension.ID == id {
			matches = append(matches, extension)
		}
	}

	writeJSON(writer, http.StatusOK, bcapi.ListResponse[bcapi.Extension]{Value: page(matches, query)})
}

func (a *FakeAPI) listRanges(writer http.ResponseWriter, query url.Values) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	writeJSON(writer, http.StatusOK, bcapi.ListResponse[bcapi.AssignableRange]{Value: page(a.ranges, query)})
}

func (a *FakeAPI) createExtension(writer http.ResponseWriter, body []byte) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if a.CreateError != nil {
		writeJSON(writer, a.CreateStatus, bcapi.ErrorResponse{Error: a.CreateError})

		return
	}

	var request bcapi.ExtensionCreateRequest

	err := json.Unmarshal(body, &request)
	if err != nil {
		writeError(writer, http.StatusBadRequest, "BadRequest", err.Error())

		return
	}

	extension := bcapi.Extension{
		ID:          request.ID,
		Code:        fmt.Sprintf("EXT%04d", a.nextCode),
		RangeCode:   request.RangeCode,
		Name:        request.Name,
		Description: request.Description,
	}
	a.nextCode++
	a.extensions = append(a.extensions, extension)

	writeJSON(writer, http.StatusCreated, extension)
}

func parseIDFilter(filter string) (string, bool) {
	if filter == "" {
		return "", false
	}

	return strings.TrimPrefix(filter, "id eq "), true
}

func page[T any](items []T, query url.Values) []T {
	skip, _ := strconv.Atoi(query.Get("$skip"))
	if skip > len(items) {
		skip = len(items)
	}

	end := len(items)

	if topValue := query.Get("$top"); topValue != "" {
		top, _ := strconv.Atoi(topValue)
		if skip+top < end {
			end = skip + top
		}
	}

	return append([]T{}, items[skip:end]...)
}

func writeJSON(writer http.ResponseWriter, status int, value interface{}) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(value)
}

func writeError(writer http.ResponseWriter, status int, code, message string) {
	writeJSON(writer, status, bcapi.ErrorResponse{Error: &bcapi.ErrorDetail{Code: code, Message: message}})
}
