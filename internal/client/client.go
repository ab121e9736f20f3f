package client

import (
	"context"
	"fmt"
	"strconv"

	goversion "github.com/hashicorp/go-version"

	"github.com/bastionsec-io/bastion-client/pkg/bastion"
)

// Client wires the per-application clients over a shared transport and
// implements bastion.Client.
type Client struct {
	doer     bastion.Doer
	domainID int
	version  *goversion.Version

	sm  *SecurityManagerApp
	pp  *PolicyPlannerApp
	po  *App
	gpc *App
}

// New creates a Client over the given transport scoped to domainID.
func New(doer bastion.Doer, domainID int) *Client {
	return &Client{
		doer:     doer,
		domainID: domainID,
		sm:       NewSecurityManagerApp(doer, domainID),
		pp:       NewPolicyPlannerApp(doer, domainID),
		po:       NewApp(doer, "policyoptimizer", domainID),
		gpc:      NewApp(doer, "globalpolicycontroller", domainID),
	}
}

// SecurityManager implements bastion.Client.
func (c *Client) SecurityManager() bastion.SecurityManager {
	return c.sm
}

// PolicyPlanner implements bastion.Client.
func (c *Client) PolicyPlanner() bastion.PolicyPlanner {
	return c.pp
}

// PolicyOptimizer implements bastion.Client.
func (c *Client) PolicyOptimizer() bastion.App {
	return c.po
}

// GlobalPolicyController implements bastion.Client.
func (c *Client) GlobalPolicyController() bastion.App {
	return c.gpc
}

// Domain implements bastion.Client.
func (c *Client) Domain() int {
	return c.domainID
}

// Version returns the server version captured at connect time, or nil when
// the version probe was skipped.
func (c *Client) Version() *goversion.Version {
	return c.version
}

// SetVersion records the server version discovered during the connect probe.
func (c *Client) SetVersion(v *goversion.Version) {
	c.version = v
}

// VersionInfo implements bastion.Client.
func (c *Client) VersionInfo(ctx context.Context) (*bastion.VersionInfo, error) {
	resp, err := c.doer.Do(ctx, &bastion.Request{
		Method: "GET",
		Path:   "/securitymanager/api/version",
	})
	if err != nil {
		return nil, fmt.Errorf("fetching server version: %w", err)
	}

	var info bastion.VersionInfo
	if err := resp.JSON(&info); err != nil {
		return nil, fmt.Errorf("parsing version response: %w", err)
	}

	return &info, nil
}

// VerifyDomain implements bastion.Client.
func (c *Client) VerifyDomain(ctx context.Context, id int) (*bastion.DomainInfo, error) {
	resp, err := c.doer.Do(ctx, &bastion.Request{
		Method: "GET",
		Path:   "/securitymanager/api/domain/" + strconv.Itoa(id),
	})
	if err != nil {
		return nil, fmt.Errorf("verifying domain %d: %w", id, err)
	}

	var info bastion.DomainInfo
	if err := resp.JSON(&info); err != nil {
		return nil, fmt.Errorf("parsing domain response: %w", err)
	}

	return &info, nil
}
