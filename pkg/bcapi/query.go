package bcapi

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// PageQuery holds the OData query options supported by collection reads.
// Absent options are left nil and omitted from the query string.
type PageQuery struct {
	Top    *int
	Skip   *int
	Filter *string
}

// NewPageQuery creates an empty query.
func NewPageQuery() *PageQuery {
	return &PageQuery{}
}

// WithTop sets $top.
func (q *PageQuery) WithTop(top int) *PageQuery {
	q.Top = &top

	return q
}

// WithSkip sets $skip.
func (q *PageQuery) WithSkip(skip int) *PageQuery {
	q.Skip = &skip

	return q
}

// WithFilter sets $filter.
func (q *PageQuery) WithFilter(filter string) *PageQuery {
	q.Filter = &filter

	return q
}

// String returns the query options joined in the fixed order $top, $skip, $filter,
// without escaping. It returns an empty string when no option is set.
func (q *PageQuery) String() string {
	return q.join(func(s string) string { return s })
}

// Encode is like String but percent-encodes the filter expression for use on the wire.
func (q *PageQuery) Encode() string {
	return q.join(escapeQueryValue)
}

func (q *PageQuery) join(escape func(string) string) string {
	if q == nil {
		return ""
	}

	var parameters []string

	if q.Top != nil {
		parameters = append(parameters, "$top="+strconv.Itoa(*q.Top))
	}

	if q.Skip != nil {
		parameters = append(parameters, "$skip="+strconv.Itoa(*q.Skip))
	}

	if q.Filter != nil {
		parameters = append(parameters, "$filter="+escape(*q.Filter))
	}

	return strings.Join(parameters, "&")
}

func escapeQueryValue(value string) string {
	return strings.ReplaceAll(url.QueryEscape(value), "+", "%20")
}

// FilterEquals builds an `eq` filter expression. The value is used as-is, matching how the
// API expects GUID identifiers.
func FilterEquals(field, value string) string {
	return fmt.Sprintf("%s eq %s", field, value)
}
