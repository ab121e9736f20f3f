package bastion

import "context"

// The thinner typed views live here. They are attribute mappings over the
// generic Record with filter-style lookups and nothing else; resources with
// actions or sub-collections get their own files.

// DevicePack is one installed device pack artifact.
type DevicePack struct {
	*Record
}

// ArtifactID returns the pack's artifact coordinate.
func (p *DevicePack) ArtifactID() string {
	return p.String("artifactId")
}

// Vendor returns the firewall vendor the pack covers.
func (p *DevicePack) Vendor() string {
	return p.String("vendor")
}

// DeviceType returns the kind of device the pack manages.
func (p *DevicePack) DeviceType() string {
	return p.String("deviceType")
}

// PackVersion returns the installed pack version string.
func (p *DevicePack) PackVersion() string {
	return p.String("version")
}

// DevicePacksEndpoint accesses the installed device pack catalog.
type DevicePacksEndpoint struct {
	ep *Endpoint
}

// NewDevicePacksEndpoint creates the device pack accessor. Device packs are
// application-scoped, not domain-scoped.
func NewDevicePacksEndpoint(doer Doer, appPath string) *DevicePacksEndpoint {
	return &DevicePacksEndpoint{
		ep: NewEndpoint(doer, appPath+"/plugin/list/DEVICE_PACK", "devicepack"),
	}
}

// All returns every installed device pack.
func (e *DevicePacksEndpoint) All(ctx context.Context) ([]*DevicePack, error) {
	records, err := e.ep.All(ctx)
	if err != nil {
		return nil, err
	}

	return wrapRecords(records, func(r *Record) *DevicePack { return &DevicePack{Record: r} }), nil
}

// GetByArtifactID returns the single pack with the given artifact id.
func (e *DevicePacksEndpoint) GetByArtifactID(ctx context.Context, artifactID string) (*DevicePack, error) {
	record, err := e.ep.GetBy(ctx, map[string]string{"artifactId": artifactID})
	if err != nil {
		return nil, err
	}

	return &DevicePack{Record: record}, nil
}

// Endpoint exposes the underlying generic endpoint.
func (e *DevicePacksEndpoint) Endpoint() *Endpoint {
	return e.ep
}

// CentralSyslog is one central syslog server registration.
type CentralSyslog struct {
	*Record
}

// Name returns the syslog server name.
func (c *CentralSyslog) Name() string {
	return c.String("name")
}

// IP returns the syslog server address.
func (c *CentralSyslog) IP() string {
	return c.String("ip")
}

// CentralSyslogsEndpoint accesses central syslog registrations.
type CentralSyslogsEndpoint struct {
	ep *Endpoint
}

// NewCentralSyslogsEndpoint creates the central syslog accessor.
func NewCentralSyslogsEndpoint(doer Doer, domainPath string) *CentralSyslogsEndpoint {
	return &CentralSyslogsEndpoint{
		ep: NewEndpoint(doer, domainPath+"/central-syslog", "centralsyslog"),
	}
}

// All returns every registration.
func (e *CentralSyslogsEndpoint) All(ctx context.Context) ([]*CentralSyslog, error) {
	records, err := e.ep.All(ctx)
	if err != nil {
		return nil, err
	}

	return wrapRecords(records, func(r *Record) *CentralSyslog { return &CentralSyslog{Record: r} }), nil
}

// Get returns the registration with the given id.
func (e *CentralSyslogsEndpoint) Get(ctx context.Context, id int) (*CentralSyslog, error) {
	record, err := e.ep.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return &CentralSyslog{Record: record}, nil
}

// GetByName returns the single registration with the given name.
func (e *CentralSyslogsEndpoint) GetByName(ctx context.Context, name string) (*CentralSyslog, error) {
	record, err := e.ep.GetBy(ctx, map[string]string{"name": name})
	if err != nil {
		return nil, err
	}

	return &CentralSyslog{Record: record}, nil
}

// Create registers a new central syslog server.
func (e *CentralSyslogsEndpoint) Create(ctx context.Context, payload Fields) (*CentralSyslog, error) {
	record, err := e.ep.Create(ctx, payload)
	if err != nil {
		return nil, err
	}

	return &CentralSyslog{Record: record}, nil
}

// Endpoint exposes the underlying generic endpoint.
func (e *CentralSyslogsEndpoint) Endpoint() *Endpoint {
	return e.ep
}

// Collector is one data collector process registration.
type Collector struct {
	*Record
}

// Name returns the collector name.
func (c *Collector) Name() string {
	return c.String("name")
}

// Status returns the collector's reported status.
func (c *Collector) Status() string {
	return c.String("status")
}

// CollectorsEndpoint accesses collector registrations.
type CollectorsEndpoint struct {
	ep *Endpoint
}

// NewCollectorsEndpoint creates the collector accessor.
func NewCollectorsEndpoint(doer Doer, appPath string) *CollectorsEndpoint {
	return &CollectorsEndpoint{
		ep: NewEndpoint(doer, appPath+"/collector", "collector"),
	}
}

// All returns every collector.
func (e *CollectorsEndpoint) All(ctx context.Context) ([]*Collector, error) {
	records, err := e.ep.All(ctx)
	if err != nil {
		return nil, err
	}

	return wrapRecords(records, func(r *Record) *Collector { return &Collector{Record: r} }), nil
}

// Get returns the collector with the given id.
func (e *CollectorsEndpoint) Get(ctx context.Context, id int) (*Collector, error) {
	record, err := e.ep.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return &Collector{Record: record}, nil
}

// Endpoint exposes the underlying generic endpoint.
func (e *CollectorsEndpoint) Endpoint() *Endpoint {
	return e.ep
}

// CollectorGroup is one collector group.
type CollectorGroup struct {
	*Record
}

// Name returns the group name.
func (g *CollectorGroup) Name() string {
	return g.String("name")
}

// CollectorGroupsEndpoint accesses collector groups.
type CollectorGroupsEndpoint struct {
	ep *Endpoint
}

// NewCollectorGroupsEndpoint creates the collector group accessor.
func NewCollectorGroupsEndpoint(doer Doer, appPath string) *CollectorGroupsEndpoint {
	return &CollectorGroupsEndpoint{
		ep: NewEndpoint(doer, appPath+"/collector/group", "collectorgroup"),
	}
}

// All returns every collector group.
func (e *CollectorGroupsEndpoint) All(ctx context.Context) ([]*CollectorGroup, error) {
	records, err := e.ep.All(ctx)
	if err != nil {
		return nil, err
	}

	return wrapRecords(records, func(r *Record) *CollectorGroup { return &CollectorGroup{Record: r} }), nil
}

// Get returns the group with the given id.
func (e *CollectorGroupsEndpoint) Get(ctx context.Context, id int) (*CollectorGroup, error) {
	record, err := e.ep.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return &CollectorGroup{Record: record}, nil
}

// Endpoint exposes the underlying generic endpoint.
func (e *CollectorGroupsEndpoint) Endpoint() *Endpoint {
	return e.ep
}

// DeviceGroup is one device group.
type DeviceGroup struct {
	*Record
}

// Name returns the group name.
func (g *DeviceGroup) Name() string {
	return g.String("name")
}

// DeviceGroupsEndpoint accesses device groups.
type DeviceGroupsEndpoint struct {
	ep *Endpoint
}

// NewDeviceGroupsEndpoint creates the device group accessor.
func NewDeviceGroupsEndpoint(doer Doer, domainPath string) *DeviceGroupsEndpoint {
	return &DeviceGroupsEndpoint{
		ep: NewEndpoint(doer, domainPath+"/devicegroup", "devicegroup"),
	}
}

// All returns every device group.
func (e *DeviceGroupsEndpoint) All(ctx context.Context) ([]*DeviceGroup, error) {
	records, err := e.ep.All(ctx)
	if err != nil {
		return nil, err
	}

	return wrapRecords(records, func(r *Record) *DeviceGroup { return &DeviceGroup{Record: r} }), nil
}

// Get returns the group with the given id.
func (e *DeviceGroupsEndpoint) Get(ctx context.Context, id int) (*DeviceGroup, error) {
	record, err := e.ep.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return &DeviceGroup{Record: record}, nil
}

// GetByName returns the single group with the given name.
func (e *DeviceGroupsEndpoint) GetByName(ctx context.Context, name string) (*DeviceGroup, error) {
	record, err := e.ep.GetBy(ctx, map[string]string{"name": name})
	if err != nil {
		return nil, err
	}

	return &DeviceGroup{Record: record}, nil
}

// Create registers a new device group.
func (e *DeviceGroupsEndpoint) Create(ctx context.Context, payload Fields) (*DeviceGroup, error) {
	record, err := e.ep.Create(ctx, payload)
	if err != nil {
		return nil, err
	}

	return &DeviceGroup{Record: record}, nil
}

// Endpoint exposes the underlying generic endpoint.
func (e *DeviceGroupsEndpoint) Endpoint() *Endpoint {
	return e.ep
}
