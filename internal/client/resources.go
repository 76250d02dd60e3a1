package client

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/fivetwenty-io/bcext/internal/http"
	"github.com/fivetwenty-io/bcext/pkg/bcapi"
)

// ResourceClient implements bcapi.ResourceClient.
type ResourceClient struct {
	httpClient *http.Client
}

// NewResourceClient creates a new resource client.
func NewResourceClient(httpClient *http.Client) *ResourceClient {
	return &ResourceClient{
		httpClient: httpClient,
	}
}

// resourcePath returns resource, resource(id) or resource(id)/<namespace>.<action>.
func resourcePath(resource, id, action string) string {
	var path strings.Builder

	path.WriteString(resource)

	if id != "" {
		path.WriteString("(" + id + ")")
	}

	if action != "" {
		path.WriteString("/" + bcapi.ActionNamespace + "." + action)
	}

	return path.String()
}

// BuildURL implements bcapi.ResourceClient.BuildURL. Query values are not escaped.
func (c *ResourceClient) BuildURL(resource, id, action string, query *bcapi.PageQuery) string {
	return http.JoinURL(c.httpClient.BaseURL(), resourcePath(resource, id, action), query.String())
}

// Read implements bcapi.ResourceClient.Read.
func (c *ResourceClient) Read(ctx context.Context, resource, id string) (json.RawMessage, error) {
	resp, err := c.httpClient.Get(ctx, resourcePath(resource, id, ""), "")
	if err != nil {
		return nil, err
	}

	return requireObject(resp.Body)
}

// ReadPage implements bcapi.PageReader.ReadPage.
func (c *ResourceClient) ReadPage(ctx context.Context, resource string, query *bcapi.PageQuery) ([]json.RawMessage, error) {
	resp, err := c.httpClient.Get(ctx, resourcePath(resource, "", ""), query.Encode())
	if err != nil {
		return nil, err
	}

	object, err := requireObject(resp.Body)
	if err != nil {
		return nil, err
	}

	var envelope map[string]json.RawMessage

	err = json.Unmarshal(object, &envelope)
	if err != nil {
		return nil, bcapi.NewUnexpectedShapeError("unexpected return type: %v", err)
	}

	value, ok := envelope["value"]
	if !ok || bcapi.JSONType(value) != "array" {
		return nil, bcapi.NewUnexpectedShapeError("unexpected return type: %s", bcapi.JSONType(value))
	}

	var records []json.RawMessage

	err = json.Unmarshal(value, &records)
	if err != nil {
		return nil, bcapi.NewUnexpectedShapeError("unexpected return type: %v", err)
	}

	return records, nil
}

// GetByFilter implements bcapi.ResourceClient.GetByFilter.
func (c *ResourceClient) GetByFilter(ctx context.Context, resource, filter string) (json.RawMessage, bool, error) {
	records, err := c.ReadPage(ctx, resource, bcapi.NewPageQuery().WithTop(1).WithFilter(filter))
	if err != nil {
		return nil, false, err
	}

	if len(records) == 0 {
		return nil, false, nil
	}

	return records[0], true, nil
}

// ReadAllPaged implements bcapi.ResourceClient.ReadAllPaged.
func (c *ResourceClient) ReadAllPaged(ctx context.Context, resource, filter string) ([]json.RawMessage, error) {
	return bcapi.FetchAllPages(ctx, c, resource, filter)
}

// Pages implements bcapi.ResourceClient.Pages.
func (c *ResourceClient) Pages(ctx context.Context, resource, filter string) *bcapi.PageIterator {
	return bcapi.NewPageIterator(ctx, c, resource, filter)
}

// Create implements bcapi.ResourceClient.Create.
func (c *ResourceClient) Create(ctx context.Context, resource string, payload interface{}) (json.RawMessage, error) {
	resp, err := c.httpClient.Post(ctx, resourcePath(resource, "", ""), payload)
	if err != nil {
		return nil, err
	}

	return requireObject(resp.Body)
}

// InvokeAction implements bcapi.ResourceClient.InvokeAction.
func (c *ResourceClient) InvokeAction(ctx context.Context, resource, id, action string, payload interface{}) (json.RawMessage, error) {
	resp, err := c.httpClient.Post(ctx, resourcePath(resource, id, action), payload)
	if err != nil {
		return nil, err
	}

	object, err := requireObject(resp.Body)
	if err != nil {
		return nil, err
	}

	var envelope map[string]json.RawMessage

	err = json.Unmarshal(object, &envelope)
	if err != nil {
		return nil, bcapi.NewUnexpectedShapeError("unexpected response format: %v", err)
	}

	value, ok := envelope["value"]
	if !ok {
		return nil, bcapi.NewUnexpectedShapeError("unexpected response format: %s", string(object))
	}

	return value, nil
}

// requireObject returns body if it is a JSON object.
func requireObject(body []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)

	if bcapi.JSONType(trimmed) != "object" || !json.Valid(trimmed) {
		return nil, bcapi.NewUnexpectedShapeError("unexpected return type: %s", bcapi.JSONType(trimmed))
	}

	return json.RawMessage(trimmed), nil
}
