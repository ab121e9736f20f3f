package bastion

import (
	"context"

	goversion "github.com/hashicorp/go-version"
)

// App is the surface every backend application exposes: a raw request
// escape hatch scoped to the application's URL prefix and the dynamic
// operation set built from its published API description.
type App interface {
	// Name returns the application identifier used in URLs, e.g.
	// "securitymanager".
	Name() string

	// Request issues a raw call. The request path is taken relative to the
	// application prefix ("<app>/api"); absolute paths are passed through.
	Request(ctx context.Context, req *Request) (*Response, error)

	// Operations returns the application's dynamic operation set, loading
	// the machine-readable API description on first use.
	Operations(ctx context.Context) (*OperationSet, error)
}

// SecurityManager is the device-inventory application.
type SecurityManager interface {
	App

	Devices() *DevicesEndpoint
	DeviceGroups() *DeviceGroupsEndpoint
	DevicePacks() *DevicePacksEndpoint
	Revisions() *RevisionsEndpoint
	Users() *UsersEndpoint
	UserGroups() *UserGroupsEndpoint
	CentralSyslogs() *CentralSyslogsEndpoint
	Collectors() *CollectorsEndpoint
	CollectorGroups() *CollectorGroupsEndpoint

	// Siql runs read-only queries in the platform's search language.
	Siql() *Siql
}

// PolicyPlanner is the change-workflow application.
type PolicyPlanner interface {
	App

	Workflows() *WorkflowsEndpoint

	// Siql runs read-only queries in the platform's search language.
	Siql() *Siql
}

// Client is the top-level handle on one platform instance.
type Client interface {
	// SecurityManager returns the device-inventory application.
	SecurityManager() SecurityManager
	// PolicyPlanner returns the change-workflow application.
	PolicyPlanner() PolicyPlanner
	// PolicyOptimizer returns the rule-review application. Its endpoints are
	// served through the dynamic operation layer.
	PolicyOptimizer() App
	// GlobalPolicyController returns the policy-compute application. Its
	// endpoints are served through the dynamic operation layer.
	GlobalPolicyController() App

	// Version returns the parsed server version, or nil when the version
	// probe was skipped.
	Version() *goversion.Version
	// VersionInfo fetches the raw version document from the server.
	VersionInfo(ctx context.Context) (*VersionInfo, error)

	// Domain returns the working security domain id.
	Domain() int
	// VerifyDomain checks that the given domain exists and is readable.
	VerifyDomain(ctx context.Context, id int) (*DomainInfo, error)
}
