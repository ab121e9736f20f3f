package bastion_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bastionsec-io/bastion-client/pkg/bastion"
)

const deviceJSON = `{
  "id": 42,
  "name": "edge-fw",
  "description": "perimeter firewall",
  "managementIp": "10.0.0.1",
  "domainId": 1,
  "devicePack": {"id": 93, "artifactId": "cisco_asa"}
}`

func devicesEndpoint(doer bastion.Doer) *bastion.DevicesEndpoint {
	return bastion.NewDevicesEndpoint(doer, "/securitymanager/api/domain/1")
}

func TestDevice_TypedAccessors(t *testing.T) {
	doer := &fakeDoer{
		handler: func(_ *bastion.Request) (*bastion.Response, error) {
			return &bastion.Response{StatusCode: 200, Body: []byte(deviceJSON)}, nil
		},
	}

	device, err := devicesEndpoint(doer).Get(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, 42, device.ID())
	assert.Equal(t, "edge-fw", device.Name())
	assert.Equal(t, "perimeter firewall", device.Description())
	assert.Equal(t, "10.0.0.1", device.Address())
	assert.Equal(t, 1, device.DomainID())
	assert.Equal(t, 93, device.DevicePackID())

	// Unmapped fields stay reachable through the record.
	pack, ok := device.Get("devicePack")
	require.True(t, ok)
	assert.Equal(t, "cisco_asa", pack.(map[string]interface{})["artifactId"])
}

func TestDevice_DevicePackID_Unassigned(t *testing.T) {
	doer := &fakeDoer{
		handler: func(_ *bastion.Request) (*bastion.Response, error) {
			return &bastion.Response{StatusCode: 200, Body: []byte(`{"id": 42}`)}, nil
		},
	}

	device, err := devicesEndpoint(doer).Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 0, device.DevicePackID())
}

func TestDevice_SubEndpointPaths(t *testing.T) {
	doer := &fakeDoer{
		handler: func(_ *bastion.Request) (*bastion.Response, error) {
			return &bastion.Response{StatusCode: 200, Body: []byte(deviceJSON)}, nil
		},
	}

	device, err := devicesEndpoint(doer).Get(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, "/securitymanager/api/domain/1/device/42/zone", device.Zones().Path())
	assert.Equal(t, "/securitymanager/api/domain/1/device/42/route", device.Routes().Path())
	assert.Equal(t, "/securitymanager/api/domain/1/device/42/collectionconfig", device.CollectionConfigs().Path())
}

func TestDevice_RetrieveConfig(t *testing.T) {
	doer := &fakeDoer{
		handler: func(_ *bastion.Request) (*bastion.Response, error) {
			return &bastion.Response{StatusCode: 200, Body: []byte(deviceJSON)}, nil
		},
	}

	device, err := devicesEndpoint(doer).Get(context.Background(), 42)
	require.NoError(t, err)

	doer.requests = nil
	doer.handler = func(_ *bastion.Request) (*bastion.Response, error) {
		return &bastion.Response{StatusCode: 204}, nil
	}

	require.NoError(t, device.RetrieveConfig(context.Background()))

	require.Len(t, doer.requests, 1)
	assert.Equal(t, "POST", doer.requests[0].Method)
	assert.Equal(t, "/securitymanager/api/domain/1/device/42/manualretrieval", doer.requests[0].Path)
}

func TestDevicesEndpoint_GetByName(t *testing.T) {
	doer := &fakeDoer{
		handler: func(req *bastion.Request) (*bastion.Response, error) {
			assert.Equal(t, "edge-fw", req.Query.Get("name"))

			return &bastion.Response{
				StatusCode: 200,
				Body:       pageBody(t, 1, 100, map[string]interface{}{"id": 42, "name": "edge-fw"}),
			}, nil
		},
	}

	device, err := devicesEndpoint(doer).GetByName(context.Background(), "edge-fw")
	require.NoError(t, err)
	assert.Equal(t, 42, device.ID())
}

func TestDevicesEndpoint_SaveMasksDerivedFields(t *testing.T) {
	doer := &fakeDoer{
		handler: func(_ *bastion.Request) (*bastion.Response, error) {
			return &bastion.Response{
				StatusCode: 200,
				Body:       []byte(`{"id": 42, "name": "edge-fw", "policyStatus": "STALE", "securityConcernIndex": 4.5}`),
			}, nil
		},
	}

	device, err := devicesEndpoint(doer).Get(context.Background(), 42)
	require.NoError(t, err)

	doer.requests = nil
	doer.handler = func(_ *bastion.Request) (*bastion.Response, error) {
		return &bastion.Response{StatusCode: 204}, nil
	}

	device.Set("name", "edge-fw-2")
	device.Set("policyStatus", "RECOMPUTE")
	require.NoError(t, device.Save(context.Background()))

	require.Len(t, doer.requests, 1)
	assert.Equal(t, bastion.Fields{"name": "edge-fw-2"}, doer.requests[0].Body)

	serialized := device.Serialize()
	assert.NotContains(t, serialized, "policyStatus")
	assert.NotContains(t, serialized, "securityConcernIndex")
}
