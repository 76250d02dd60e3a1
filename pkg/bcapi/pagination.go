package bcapi

import (
	"context"
	"encoding/json"

	"github.com/fivetwenty-io/bcext/internal/constants"
)

// PageReader reads a single page of a resource collection.
type PageReader interface {
	ReadPage(ctx context.Context, resource string, query *PageQuery) ([]json.RawMessage, error)
}

// PageIterator walks a collection page by page using $top/$skip.
//
// A page shorter than the page size is the last one. A full page is never treated as the
// last, so a collection whose size is an exact multiple of the page size ends with an empty
// page. Pages are requested one at a time in increasing $skip order.
type PageIterator struct {
	ctx      context.Context
	reader   PageReader
	resource string
	filter   string
	pageSize int
	skip     int
	done     bool
}

// NewPageIterator creates an iterator over resource. An empty filter is omitted.
func NewPageIterator(ctx context.Context, reader PageReader, resource, filter string) *PageIterator {
	return &PageIterator{
		ctx:      ctx,
		reader:   reader,
		resource: resource,
		filter:   filter,
		pageSize: constants.StandardPageSize,
	}
}

// HasNext reports whether another page may be requested.
func (it *PageIterator) HasNext() bool {
	return !it.done
}

// NextPage fetches the next page. After an error the iterator is exhausted.
func (it *PageIterator) NextPage() ([]json.RawMessage, error) {
	if it.done {
		return nil, ErrNoMoreItems
	}

	query := NewPageQuery().WithTop(it.pageSize).WithSkip(it.skip)
	if it.filter != "" {
		query.WithFilter(it.filter)
	}

	page, err := it.reader.ReadPage(it.ctx, it.resource, query)
	if err != nil {
		it.done = true

		return nil, err
	}

	if len(page) < it.pageSize {
		it.done = true
	} else {
		it.skip += it.pageSize
	}

	return page, nil
}

// ForEach calls fn for every record in order, stopping at the first error.
func (it *PageIterator) ForEach(fn func(json.RawMessage) error) error {
	for it.HasNext() {
		page, err := it.NextPage()
		if err != nil {
			return err
		}

		for _, record := range page {
			err := fn(record)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

// All accumulates every remaining record in request order.
func (it *PageIterator) All() ([]json.RawMessage, error) {
	result := make([]json.RawMessage, 0, it.pageSize)

	err := it.ForEach(func(record json.RawMessage) error {
		result = append(result, record)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// FetchAllPages reads a whole collection.
func FetchAllPages(ctx context.Context, reader PageReader, resource, filter string) ([]json.RawMessage, error) {
	return NewPageIterator(ctx, reader, resource, filter).All()
}

// DecodeRecords decodes raw records into T. A record that does not decode is reported as an
// UnexpectedShapeError.
func DecodeRecords[T any](records []json.RawMessage) ([]T, error) {
	result := make([]T, 0, len(records))

	for i, record := range records {
		var item T

		err := json.Unmarshal(record, &item)
		if err != nil {
			return nil, NewUnexpectedShapeError("unexpected record at index %d: %v", i, err)
		}

		result = append(result, item)
	}

	return result, nil
}

// DecodeRecord decodes a single raw record into T.
func DecodeRecord[T any](record json.RawMessage) (*T, error) {
	var item T

	err := json.Unmarshal(record, &item)
	if err != nil {
		return nil, NewUnexpectedShapeError("unexpected record: %v", err)
	}

	return &item, nil
}
