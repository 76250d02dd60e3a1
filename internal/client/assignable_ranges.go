package client

import (
	"context"

	"github.com/fivetwenty-io/bcext/pkg/bcapi"
)

// AssignableRangesClient implements bcapi.AssignableRangesClient.
type AssignableRangesClient struct {
	resources *ResourceClient
}

// NewAssignableRangesClient creates a new assignable ranges client.
func NewAssignableRangesClient(resources *ResourceClient) *AssignableRangesClient {
	return &AssignableRangesClient{
		resources: resources,
	}
}

// ListAll implements bcapi.AssignableRangesClient.ListAll.
func (c *AssignableRangesClient) ListAll(ctx context.Context) ([]bcapi.AssignableRange, error) {
	records, err := c.resources.ReadAllPaged(ctx, bcapi.ResourceAssignableRanges, "")
	if err != nil {
		return nil, err
	}

	return bcapi.DecodeRecords[bcapi.AssignableRange](records)
}
