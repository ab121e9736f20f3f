package bastion

import "context"

// Siql runs queries written in the platform's search language against one
// application. Every entity is served at
// "<app>/api/siql/<entity>/paged-search" with the statement in the "q"
// parameter, paginated like any collection. Results are read-only; Save and
// Delete on them fail with ErrEndpointReadOnly.
type Siql struct {
	doer Doer
	path string
}

// NewSiql creates the query accessor rooted at the application prefix.
func NewSiql(doer Doer, appPath string) *Siql {
	return &Siql{doer: doer, path: appPath + "/siql"}
}

// Search runs a query against an arbitrary entity key, e.g. "device" or
// "secrule". The named helpers cover the common entities.
func (s *Siql) Search(ctx context.Context, entity, query string) ([]*Record, error) {
	ep := NewEndpoint(s.doer, s.path+"/"+entity+"/paged-search", entity, WithReadOnly())

	return ep.Query(ctx, NewQueryParams().WithSearch(query))
}

// Devices queries the device entity.
func (s *Siql) Devices(ctx context.Context, query string) ([]*Record, error) {
	return s.Search(ctx, "device", query)
}

// DeviceGroups queries the devicegroup entity.
func (s *Siql) DeviceGroups(ctx context.Context, query string) ([]*Record, error) {
	return s.Search(ctx, "devicegroup", query)
}

// Rules queries the secrule entity.
func (s *Siql) Rules(ctx context.Context, query string) ([]*Record, error) {
	return s.Search(ctx, "secrule", query)
}

// Policies queries the policy entity.
func (s *Siql) Policies(ctx context.Context, query string) ([]*Record, error) {
	return s.Search(ctx, "policy", query)
}

// NetworkObjects queries the networkobj entity.
func (s *Siql) NetworkObjects(ctx context.Context, query string) ([]*Record, error) {
	return s.Search(ctx, "networkobj", query)
}

// ServiceObjects queries the serviceobj entity.
func (s *Siql) ServiceObjects(ctx context.Context, query string) ([]*Record, error) {
	return s.Search(ctx, "serviceobj", query)
}

// Tickets queries the ticket entity, served by the change-workflow
// application only.
func (s *Siql) Tickets(ctx context.Context, query string) ([]*Record, error) {
	return s.Search(ctx, "ticket", query)
}
