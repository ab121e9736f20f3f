package bastion_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bastionsec-io/bastion-client/pkg/bastion"
)

func TestDevicePacksEndpoint_GetByArtifactID(t *testing.T) {
	doer := &fakeDoer{
		handler: func(req *bastion.Request) (*bastion.Response, error) {
			assert.Equal(t, "/securitymanager/api/plugin/list/DEVICE_PACK", req.Path)
			assert.Equal(t, "cisco_asa", req.Query.Get("artifactId"))

			return &bastion.Response{
				StatusCode: 200,
				Body: pageBody(t, 1, 100, map[string]interface{}{
					"id": 93, "artifactId": "cisco_asa", "vendor": "Cisco",
					"deviceType": "FIREWALL", "version": "1.14.7",
				}),
			}, nil
		},
	}

	ep := bastion.NewDevicePacksEndpoint(doer, "/securitymanager/api")

	pack, err := ep.GetByArtifactID(context.Background(), "cisco_asa")
	require.NoError(t, err)
	assert.Equal(t, "cisco_asa", pack.ArtifactID())
	assert.Equal(t, "Cisco", pack.Vendor())
	assert.Equal(t, "FIREWALL", pack.DeviceType())
	assert.Equal(t, "1.14.7", pack.PackVersion())
}

func TestCentralSyslogsEndpoint_Create(t *testing.T) {
	doer := &fakeDoer{
		handler: func(req *bastion.Request) (*bastion.Response, error) {
			assert.Equal(t, "/securitymanager/api/domain/1/central-syslog", req.Path)

			return &bastion.Response{
				StatusCode: 201,
				Body:       []byte(`{"id": 6, "name": "syslog-east", "ip": "10.2.0.9"}`),
			}, nil
		},
	}

	ep := bastion.NewCentralSyslogsEndpoint(doer, "/securitymanager/api/domain/1")

	syslog, err := ep.Create(context.Background(), bastion.Fields{
		"name": "syslog-east",
		"ip":   "10.2.0.9",
	})
	require.NoError(t, err)
	assert.Equal(t, 6, syslog.ID())
	assert.Equal(t, "syslog-east", syslog.Name())
	assert.Equal(t, "10.2.0.9", syslog.IP())
}

func TestCollectorsEndpoint_All(t *testing.T) {
	doer := &fakeDoer{
		handler: func(req *bastion.Request) (*bastion.Response, error) {
			assert.Equal(t, "/securitymanager/api/collector", req.Path)

			return &bastion.Response{
				StatusCode: 200,
				Body: pageBody(t, 2, 100,
					map[string]interface{}{"id": 1, "name": "dc-east", "status": "OK"},
					map[string]interface{}{"id": 2, "name": "dc-west", "status": "DEGRADED"}),
			}, nil
		},
	}

	ep := bastion.NewCollectorsEndpoint(doer, "/securitymanager/api")

	collectors, err := ep.All(context.Background())
	require.NoError(t, err)
	require.Len(t, collectors, 2)
	assert.Equal(t, "dc-east", collectors[0].Name())
	assert.Equal(t, "DEGRADED", collectors[1].Status())
}

func TestDeviceGroupsEndpoint_GetByName(t *testing.T) {
	doer := &fakeDoer{
		handler: func(req *bastion.Request) (*bastion.Response, error) {
			assert.Equal(t, "/securitymanager/api/domain/1/devicegroup", req.Path)

			return &bastion.Response{
				StatusCode: 200,
				Body:       pageBody(t, 1, 100, map[string]interface{}{"id": 4, "name": "perimeter"}),
			}, nil
		},
	}

	ep := bastion.NewDeviceGroupsEndpoint(doer, "/securitymanager/api/domain/1")

	group, err := ep.GetByName(context.Background(), "perimeter")
	require.NoError(t, err)
	assert.Equal(t, 4, group.ID())
	assert.Equal(t, "perimeter", group.Name())
}
