package client

import (
	"github.com/bastionsec-io/bastion-client/pkg/bastion"
)

// SecurityManagerApp implements bastion.SecurityManager.
type SecurityManagerApp struct {
	*App

	devices         *bastion.DevicesEndpoint
	deviceGroups    *bastion.DeviceGroupsEndpoint
	devicePacks     *bastion.DevicePacksEndpoint
	revisions       *bastion.RevisionsEndpoint
	users           *bastion.UsersEndpoint
	userGroups      *bastion.UserGroupsEndpoint
	centralSyslogs  *bastion.CentralSyslogsEndpoint
	collectors      *bastion.CollectorsEndpoint
	collectorGroups *bastion.CollectorGroupsEndpoint
	siql            *bastion.Siql
}

// NewSecurityManagerApp wires the Security Manager endpoints.
func NewSecurityManagerApp(doer bastion.Doer, domainID int) *SecurityManagerApp {
	app := NewApp(doer, "securitymanager", domainID)

	return &SecurityManagerApp{
		App:             app,
		devices:         bastion.NewDevicesEndpoint(doer, app.DomainPath()),
		deviceGroups:    bastion.NewDeviceGroupsEndpoint(doer, app.DomainPath()),
		devicePacks:     bastion.NewDevicePacksEndpoint(doer, app.AppPath()),
		revisions:       bastion.NewRevisionsEndpoint(doer, app.DomainPath()+"/rev"),
		users:           bastion.NewUsersEndpoint(doer, app.DomainPath()),
		userGroups:      bastion.NewUserGroupsEndpoint(doer, app.DomainPath()),
		centralSyslogs:  bastion.NewCentralSyslogsEndpoint(doer, app.DomainPath()),
		collectors:      bastion.NewCollectorsEndpoint(doer, app.AppPath()),
		collectorGroups: bastion.NewCollectorGroupsEndpoint(doer, app.AppPath()),
		siql:            bastion.NewSiql(doer, app.AppPath()),
	}
}

// Devices implements bastion.SecurityManager.
func (a *SecurityManagerApp) Devices() *bastion.DevicesEndpoint {
	return a.devices
}

// DeviceGroups implements bastion.SecurityManager.
func (a *SecurityManagerApp) DeviceGroups() *bastion.DeviceGroupsEndpoint {
	return a.deviceGroups
}

// DevicePacks implements bastion.SecurityManager.
func (a *SecurityManagerApp) DevicePacks() *bastion.DevicePacksEndpoint {
	return a.devicePacks
}

// Revisions implements bastion.SecurityManager.
func (a *SecurityManagerApp) Revisions() *bastion.RevisionsEndpoint {
	return a.revisions
}

// Users implements bastion.SecurityManager.
func (a *SecurityManagerApp) Users() *bastion.UsersEndpoint {
	return a.users
}

// UserGroups implements bastion.SecurityManager.
func (a *SecurityManagerApp) UserGroups() *bastion.UserGroupsEndpoint {
	return a.userGroups
}

// CentralSyslogs implements bastion.SecurityManager.
func (a *SecurityManagerApp) CentralSyslogs() *bastion.CentralSyslogsEndpoint {
	return a.centralSyslogs
}

// Collectors implements bastion.SecurityManager.
func (a *SecurityManagerApp) Collectors() *bastion.CollectorsEndpoint {
	return a.collectors
}

// CollectorGroups implements bastion.SecurityManager.
func (a *SecurityManagerApp) CollectorGroups() *bastion.CollectorGroupsEndpoint {
	return a.collectorGroups
}

// Siql implements bastion.SecurityManager.
func (a *SecurityManagerApp) Siql() *bastion.Siql {
	return a.siql
}

// PolicyPlannerApp implements bastion.PolicyPlanner.
type PolicyPlannerApp struct {
	*App

	workflows *bastion.WorkflowsEndpoint
	siql      *bastion.Siql
}

// NewPolicyPlannerApp wires the Policy Planner endpoints.
func NewPolicyPlannerApp(doer bastion.Doer, domainID int) *PolicyPlannerApp {
	app := NewApp(doer, "policyplanner", domainID)

	return &PolicyPlannerApp{
		App:       app,
		workflows: bastion.NewWorkflowsEndpoint(doer, app.DomainPath()),
		siql:      bastion.NewSiql(doer, app.AppPath()),
	}
}

// Workflows implements bastion.PolicyPlanner.
func (a *PolicyPlannerApp) Workflows() *bastion.WorkflowsEndpoint {
	return a.workflows
}

// Siql implements bastion.PolicyPlanner.
func (a *PolicyPlannerApp) Siql() *bastion.Siql {
	return a.siql
}
