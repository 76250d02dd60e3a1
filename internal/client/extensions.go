package client

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/fivetwenty-io/bcext/pkg/bcapi"
)

// ExtensionsClient implements bcapi.ExtensionsClient.
type ExtensionsClient struct {
	resources *ResourceClient
}

// NewExtensionsClient creates a new extensions client.
func NewExtensionsClient(resources *ResourceClient) *ExtensionsClient {
	return &ExtensionsClient{
		resources: resources,
	}
}

// Get implements bcapi.ExtensionsClient.Get.
func (c *ExtensionsClient) Get(ctx context.Context, id string) (*bcapi.Extension, bool, error) {
	record, found, err := c.resources.GetByFilter(ctx, bcapi.ResourceExtensions, bcapi.FilterEquals("id", id))
	if err != nil || !found {
		return nil, false, err
	}

	extension, err := bcapi.DecodeRecord[bcapi.Extension](record)
	if err != nil {
		return nil, false, err
	}

	return extension, true, nil
}

// Create implements bcapi.ExtensionsClient.Create.
func (c *ExtensionsClient) Create(ctx context.Context, request *bcapi.ExtensionCreateRequest) (*bcapi.Extension, error) {
	record, err := c.resources.Create(ctx, bcapi.ResourceExtensions, request)
	if err != nil {
		return nil, err
	}

	return bcapi.DecodeRecord[bcapi.Extension](record)
}

// CreateObject implements bcapi.ExtensionsClient.CreateObject.
func (c *ExtensionsClient) CreateObject(ctx context.Context, extensionID string, payload interface{}) (int, error) {
	value, err := c.resources.InvokeAction(ctx, bcapi.ResourceExtensions, extensionID, bcapi.ActionCreateLine, payload)
	if err != nil {
		return 0, err
	}

	objectID, ok := parseObjectID(value)
	if !ok {
		return 0, bcapi.NewUnexpectedShapeError("unexpected object id response: %s", string(value))
	}

	return objectID, nil
}

// parseObjectID accepts the id as a JSON number or a numeric string.
func parseObjectID(value json.RawMessage) (int, bool) {
	if bcapi.JSONType(value) == "null" {
		return 0, false
	}

	var number int

	err := json.Unmarshal(value, &number)
	if err == nil {
		return number, true
	}

	var text string

	err = json.Unmarshal(value, &text)
	if err != nil {
		return 0, false
	}

	number, err = strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, false
	}

	return number, true
}
