package bastion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bastionsec-io/bastion-client/internal/constants"
)

// Endpoint is an accessor for one resource collection. It is an immutable
// reference to (application prefix, resource path) and carries no state
// beyond configuration.
type Endpoint struct {
	doer     Doer
	path     string
	resource string
	masked   []string
	pageSize int
	readOnly bool
}

// EndpointOption configures an Endpoint.
type EndpointOption func(*Endpoint)

// WithMaskedKeys declares server-derived keys that must be stripped from
// records before they are sent back in a save.
func WithMaskedKeys(keys ...string) EndpointOption {
	return func(e *Endpoint) {
		e.masked = append(e.masked, keys...)
	}
}

// WithPageSize overrides the page size used when walking collections.
func WithPageSize(size int) EndpointOption {
	return func(e *Endpoint) {
		e.pageSize = size
	}
}

// WithReadOnly marks the collection as query-only. Create, Update and
// Delete fail with ErrEndpointReadOnly, as does Save on its records.
func WithReadOnly() EndpointOption {
	return func(e *Endpoint) {
		e.readOnly = true
	}
}

// NewEndpoint creates an endpoint for the collection at path. The resource
// name is used in error messages.
func NewEndpoint(doer Doer, path, resource string, opts ...EndpointOption) *Endpoint {
	endpoint := &Endpoint{
		doer:     doer,
		path:     path,
		resource: resource,
		pageSize: constants.DefaultPageSize,
	}

	for _, opt := range opts {
		opt(endpoint)
	}

	return endpoint
}

// Path returns the collection path.
func (e *Endpoint) Path() string {
	return e.path
}

// Resource returns the resource name.
func (e *Endpoint) Resource() string {
	return e.resource
}

// All fetches the entire collection, walking pages sequentially until the
// server signals none remain. Server ordering is preserved.
func (e *Endpoint) All(ctx context.Context) ([]*Record, error) {
	return e.list(ctx, nil, e.pageSize)
}

// Filter fetches the records matching the given criteria, forwarded as
// query parameters. Zero matches yield an empty slice, not an error.
func (e *Endpoint) Filter(ctx context.Context, criteria map[string]string) ([]*Record, error) {
	if len(criteria) == 0 {
		return nil, &ValidationError{Message: "filter requires at least one criterion, use All instead"}
	}

	base := url.Values{}
	for key, value := range criteria {
		base.Set(key, value)
	}

	records, err := e.list(ctx, base, e.pageSize)
	if err != nil {
		return nil, e.translate(err, "")
	}

	return records, nil
}

// Query fetches the records matching params, walking pages to exhaustion
// like All. Sort, search and filter criteria are forwarded on every page
// request; a PageSize on params overrides the endpoint's page size.
func (e *Endpoint) Query(ctx context.Context, params *QueryParams) ([]*Record, error) {
	if params == nil {
		return e.All(ctx)
	}

	base := params.ToValues()
	base.Del("page")
	base.Del("pageSize")

	pageSize := e.pageSize
	if params.PageSize > 0 {
		pageSize = params.PageSize
	}

	records, err := e.list(ctx, base, pageSize)
	if err != nil {
		return nil, e.translate(err, "")
	}

	return records, nil
}

// Get fetches the record with the given id.
func (e *Endpoint) Get(ctx context.Context, id int) (*Record, error) {
	resp, err := e.doer.Do(ctx, &Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("%s/%d", e.path, id),
	})
	if err != nil {
		return nil, e.translate(err, strconv.Itoa(id))
	}

	return e.load(resp.Body)
}

// GetBy fetches the single record matching the given criteria. Zero matches
// fail with NotFoundError, more than one with AmbiguousResultError.
func (e *Endpoint) GetBy(ctx context.Context, criteria map[string]string) (*Record, error) {
	records, err := e.Filter(ctx, criteria)
	if err != nil {
		return nil, err
	}

	key := criteriaKey(criteria)

	switch len(records) {
	case 0:
		return nil, &NotFoundError{Resource: e.resource, Key: key}
	case 1:
		return records[0], nil
	default:
		return nil, &AmbiguousResultError{Resource: e.resource, Key: key, Matches: len(records)}
	}
}

// Create posts a new resource and returns the record the server stored,
// including server-assigned defaults.
func (e *Endpoint) Create(ctx context.Context, payload Fields) (*Record, error) {
	if e.readOnly {
		return nil, fmt.Errorf("creating %s: %w", e.resource, ErrEndpointReadOnly)
	}

	resp, err := e.doer.Do(ctx, &Request{
		Method: http.MethodPost,
		Path:   e.path,
		Body:   payload,
	})
	if err != nil {
		return nil, e.translate(err, "")
	}

	if len(resp.Body) == 0 {
		// Some create calls answer 204; echo the payload back.
		return newRecord(e, payload.clone()), nil
	}

	return e.load(resp.Body)
}

// Count returns the server-side total for a query without fetching the
// result set.
func (e *Endpoint) Count(ctx context.Context, criteria map[string]string) (int, error) {
	query := url.Values{}
	for key, value := range criteria {
		query.Set(key, value)
	}

	query.Set("page", "0")
	query.Set("pageSize", "1")

	resp, err := e.doer.Do(ctx, &Request{
		Method: http.MethodGet,
		Path:   e.path,
		Query:  query,
	})
	if err != nil {
		return 0, e.translate(err, "")
	}

	var page Page
	if err := json.Unmarshal(resp.Body, &page); err != nil {
		return 0, fmt.Errorf("parsing %s count response: %w", e.resource, err)
	}

	return page.Total, nil
}

// Update sends a partial update for the resource with the given id and
// returns the server's view of the result, if any.
func (e *Endpoint) Update(ctx context.Context, id int, fields Fields) (Fields, error) {
	if e.readOnly {
		return nil, fmt.Errorf("updating %s %d: %w", e.resource, id, ErrEndpointReadOnly)
	}

	resp, err := e.doer.Do(ctx, &Request{
		Method: http.MethodPut,
		Path:   fmt.Sprintf("%s/%d", e.path, id),
		Body:   fields,
	})
	if err != nil {
		return nil, e.translate(err, strconv.Itoa(id))
	}

	if len(resp.Body) == 0 {
		return nil, nil
	}

	var updated Fields
	if err := json.Unmarshal(resp.Body, &updated); err != nil {
		// Not a JSON object; callers keep their local state.
		return nil, nil //nolint:nilerr
	}

	return updated, nil
}

// Delete removes the resource with the given id.
func (e *Endpoint) Delete(ctx context.Context, id int) error {
	if e.readOnly {
		return fmt.Errorf("deleting %s %d: %w", e.resource, id, ErrEndpointReadOnly)
	}

	_, err := e.doer.Do(ctx, &Request{
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("%s/%d", e.path, id),
	})
	if err != nil {
		return e.translate(err, strconv.Itoa(id))
	}

	return nil
}

// list walks the paginated collection to exhaustion.
func (e *Endpoint) list(ctx context.Context, base url.Values, pageSize int) ([]*Record, error) {
	var records []*Record

	fetched := 0

	for pageNum := 0; ; pageNum++ {
		query := url.Values{}
		for key, values := range base {
			query[key] = values
		}

		query.Set("page", strconv.Itoa(pageNum))
		query.Set("pageSize", strconv.Itoa(pageSize))

		resp, err := e.doer.Do(ctx, &Request{
			Method: http.MethodGet,
			Path:   e.path,
			Query:  query,
		})
		if err != nil {
			return nil, e.translate(err, "")
		}

		results, total, paged, err := e.decodePage(resp.Body)
		if err != nil {
			return nil, err
		}

		for _, raw := range results {
			record, err := e.load(raw)
			if err != nil {
				return nil, err
			}

			records = append(records, record)
		}

		fetched += len(results)

		// Endpoints that answer with a bare array are not paginated.
		if !paged || fetched >= total || len(results) == 0 {
			break
		}
	}

	return records, nil
}

// decodePage accepts either the standard list envelope or a bare JSON
// array, which a handful of endpoints still answer with. An envelope
// without a results key counts as an empty page.
func (e *Endpoint) decodePage(body []byte) ([]json.RawMessage, int, bool, error) {
	var page Page
	if err := json.Unmarshal(body, &page); err == nil {
		return page.Results, page.Total, true, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, 0, false, fmt.Errorf("parsing %s list response: %w", e.resource, err)
	}

	return raw, len(raw), false, nil
}

// load builds a Record from one JSON object.
func (e *Endpoint) load(raw []byte) (*Record, error) {
	var fields Fields
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", e.resource, err)
	}

	return newRecord(e, fields), nil
}

// translate maps generic server errors onto the lookup-level taxonomy.
func (e *Endpoint) translate(err error, key string) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusNotFound:
			return &NotFoundError{Resource: e.resource, Key: key}
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			return &ValidationError{
				StatusCode: apiErr.StatusCode,
				Message:    apiErr.Message,
				Payload:    apiErr.Payload,
			}
		}
	}

	return err
}

func criteriaKey(criteria map[string]string) string {
	values := url.Values{}
	for key, value := range criteria {
		values.Set(key, value)
	}

	return values.Encode()
}
