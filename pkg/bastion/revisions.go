package bastion

import (
	"context"
	"fmt"
	"net/http"
)

// Revision is one collected device configuration revision.
type Revision struct {
	*Record

	doer Doer
	base string
}

// DeviceID returns the device the revision belongs to.
func (r *Revision) DeviceID() int {
	return r.Int("deviceId")
}

// Complete reports whether normalization of the revision finished.
func (r *Revision) Complete() bool {
	return r.Bool("complete")
}

// CorrelationID returns the collection correlation id.
func (r *Revision) CorrelationID() string {
	return r.String("correlationId")
}

// Export downloads the raw configuration files of the revision as the
// server's archive blob.
func (r *Revision) Export(ctx context.Context) ([]byte, error) {
	resp, err := r.doer.Do(ctx, &Request{
		Method:  http.MethodGet,
		Path:    r.base + "/export/config",
		Headers: http.Header{"Accept": []string{"application/octet-stream"}},
	})
	if err != nil {
		return nil, fmt.Errorf("exporting revision %d: %w", r.ID(), err)
	}

	return resp.Body, nil
}

// RevisionsEndpoint accesses a revision collection, either domain-wide or
// scoped to one device.
type RevisionsEndpoint struct {
	ep   *Endpoint
	doer Doer
}

// NewRevisionsEndpoint creates a revision accessor rooted at path.
func NewRevisionsEndpoint(doer Doer, path string) *RevisionsEndpoint {
	return &RevisionsEndpoint{
		ep:   NewEndpoint(doer, path, "revision"),
		doer: doer,
	}
}

// All returns every revision in the collection.
func (e *RevisionsEndpoint) All(ctx context.Context) ([]*Revision, error) {
	records, err := e.ep.All(ctx)
	if err != nil {
		return nil, err
	}

	return wrapRecords(records, e.wrap), nil
}

// Filter returns the revisions matching the criteria.
func (e *RevisionsEndpoint) Filter(ctx context.Context, criteria map[string]string) ([]*Revision, error) {
	records, err := e.ep.Filter(ctx, criteria)
	if err != nil {
		return nil, err
	}

	return wrapRecords(records, e.wrap), nil
}

// Get returns the revision with the given id.
func (e *RevisionsEndpoint) Get(ctx context.Context, id int) (*Revision, error) {
	record, err := e.ep.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return e.wrap(record), nil
}

// Latest returns the most recent revision in the collection.
func (e *RevisionsEndpoint) Latest(ctx context.Context) (*Revision, error) {
	revisions, err := e.Filter(ctx, map[string]string{"latest": "true"})
	if err != nil {
		return nil, err
	}

	if len(revisions) == 0 {
		return nil, &NotFoundError{Resource: "revision", Key: "latest=true"}
	}

	return revisions[0], nil
}

// Count returns the number of revisions matching the criteria.
func (e *RevisionsEndpoint) Count(ctx context.Context, criteria map[string]string) (int, error) {
	return e.ep.Count(ctx, criteria)
}

// Endpoint exposes the underlying generic endpoint.
func (e *RevisionsEndpoint) Endpoint() *Endpoint {
	return e.ep
}

func (e *RevisionsEndpoint) wrap(record *Record) *Revision {
	return &Revision{
		Record: record,
		doer:   e.doer,
		base:   fmt.Sprintf("%s/%d", e.ep.Path(), record.ID()),
	}
}
