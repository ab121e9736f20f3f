package bastion_test

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bastionsec-io/bastion-client/pkg/bastion"
)

const apiDescription = `{
  "paths": {
    "/device/{id}/rulerec": {
      "get": {
        "operationId": "getRuleRecommendations",
        "parameters": [
          {"name": "id", "in": "path", "required": true},
          {"name": "deviceGroupId", "in": "query", "required": false}
        ]
      }
    },
    "/device/{id}/pendingchanges": {
      "get": {
        "operationId": "getPendingChanges",
        "parameters": [{"name": "id", "in": "path", "required": true}]
      },
      "delete": {
        "operationId": "clearPendingChanges",
        "parameters": [{"name": "id", "in": "path", "required": true}]
      }
    },
    "/health": {
      "get": {}
    }
  }
}`

func operationSet(t *testing.T, doer bastion.Doer) *bastion.OperationSet {
	t.Helper()

	doc, err := bastion.ParseAPIDocument([]byte(apiDescription))
	require.NoError(t, err)

	return bastion.NewOperationSet(doer, "/policyoptimizer/api", doc)
}

func TestOperationSet_Names(t *testing.T) {
	set := operationSet(t, &fakeDoer{})

	// Verbs without an operation id are not callable.
	assert.Equal(t, []string{
		"clearPendingChanges",
		"getPendingChanges",
		"getRuleRecommendations",
	}, set.Names())

	assert.True(t, set.Has("getPendingChanges"))
	assert.False(t, set.Has("health"))

	spec, ok := set.Spec("clearPendingChanges")
	require.True(t, ok)
	assert.Equal(t, "DELETE", spec.Method)
	assert.Equal(t, "/device/{id}/pendingchanges", spec.Path)
}

func TestOperationSet_Call(t *testing.T) {
	doer := &fakeDoer{
		handler: func(_ *bastion.Request) (*bastion.Response, error) {
			return &bastion.Response{StatusCode: 200, Body: []byte(`{"results": []}`)}, nil
		},
	}
	set := operationSet(t, doer)

	query := url.Values{}
	query.Set("deviceGroupId", "7")

	resp, err := set.Call(context.Background(), "getRuleRecommendations", &bastion.OperationArgs{
		PathParams: map[string]string{"id": "42"},
		Query:      query,
	})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	require.Len(t, doer.requests, 1)
	req := doer.requests[0]
	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "/policyoptimizer/api/device/42/rulerec", req.Path)
	assert.Equal(t, "7", req.Query.Get("deviceGroupId"))
}

// A dispatched call and a hand-built raw request must hit the same URL.
func TestOperationSet_CallMatchesRawRequest(t *testing.T) {
	doer := &fakeDoer{
		handler: func(_ *bastion.Request) (*bastion.Response, error) {
			return &bastion.Response{StatusCode: 200, Body: []byte(`{}`)}, nil
		},
	}
	set := operationSet(t, doer)

	_, err := set.Call(context.Background(), "getPendingChanges", &bastion.OperationArgs{
		PathParams: map[string]string{"id": "42"},
	})
	require.NoError(t, err)

	_, err = doer.Do(context.Background(), &bastion.Request{
		Method: "GET",
		Path:   "/policyoptimizer/api/device/42/pendingchanges",
	})
	require.NoError(t, err)

	require.Len(t, doer.requests, 2)
	assert.Equal(t, doer.requests[1].Path, doer.requests[0].Path)
	assert.Equal(t, doer.requests[1].Method, doer.requests[0].Method)
}

func TestOperationSet_Call_UnknownOperation(t *testing.T) {
	set := operationSet(t, &fakeDoer{})

	_, err := set.Call(context.Background(), "noSuchOperation", nil)
	require.Error(t, err)
	assert.True(t, bastion.IsNotFound(err))
}

func TestOperationSet_Call_MissingPathParam(t *testing.T) {
	doer := &fakeDoer{}
	set := operationSet(t, doer)

	_, err := set.Call(context.Background(), "getPendingChanges", &bastion.OperationArgs{})
	require.Error(t, err)
	assert.True(t, bastion.IsConfiguration(err))
	assert.Empty(t, doer.requests)

	var confErr *bastion.ConfigurationError
	require.ErrorAs(t, err, &confErr)
	assert.Equal(t, "getPendingChanges", confErr.Operation)
}

func TestOperationSet_Call_EscapesPathParams(t *testing.T) {
	doer := &fakeDoer{
		handler: func(_ *bastion.Request) (*bastion.Response, error) {
			return &bastion.Response{StatusCode: 200}, nil
		},
	}
	set := operationSet(t, doer)

	_, err := set.Call(context.Background(), "getPendingChanges", &bastion.OperationArgs{
		PathParams: map[string]string{"id": "a/b c"},
	})
	require.NoError(t, err)

	assert.Equal(t, "/policyoptimizer/api/device/a%2Fb%20c/pendingchanges", doer.requests[0].Path)
}

func TestNewOperationSet_DuplicateIDsCollapse(t *testing.T) {
	doc := &bastion.APIDocument{
		Paths: map[string]map[string]bastion.APIOperation{
			"/collector": {
				"get": {OperationID: "listCollectors"},
			},
		},
	}
	doc.Paths["/collector/all"] = map[string]bastion.APIOperation{
		"get": {OperationID: "listCollectors"},
	}

	set := bastion.NewOperationSet(&fakeDoer{}, "/securitymanager/api", doc)
	assert.Equal(t, []string{"listCollectors"}, set.Names())
}

func TestParseAPIDocument_Invalid(t *testing.T) {
	_, err := bastion.ParseAPIDocument([]byte(`{"paths": "nope"`))
	require.Error(t, err)
}
