package bastion_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bastionsec-io/bastion-client/pkg/bastion"
)

// fakeDoer records every request and answers with a scripted handler.
type fakeDoer struct {
	requests []*bastion.Request
	handler  func(req *bastion.Request) (*bastion.Response, error)
}

func (d *fakeDoer) Do(_ context.Context, req *bastion.Request) (*bastion.Response, error) {
	d.requests = append(d.requests, req)

	if d.handler == nil {
		return &bastion.Response{StatusCode: 200, Body: []byte(`{}`)}, nil
	}

	return d.handler(req)
}

func jsonBody(t *testing.T, v interface{}) []byte {
	t.Helper()

	body, err := json.Marshal(v)
	require.NoError(t, err)

	return body
}

func pageBody(t *testing.T, total, pageSize int, results ...interface{}) []byte {
	t.Helper()

	raw := make([]json.RawMessage, 0, len(results))
	for _, r := range results {
		raw = append(raw, jsonBody(t, r))
	}

	return jsonBody(t, map[string]interface{}{
		"total":    total,
		"pageSize": pageSize,
		"count":    len(raw),
		"results":  raw,
	})
}

func TestEndpoint_All_WalksPages(t *testing.T) {
	doer := &fakeDoer{}
	doer.handler = func(req *bastion.Request) (*bastion.Response, error) {
		var body []byte

		switch req.Query.Get("page") {
		case "0":
			body = pageBody(t, 5, 2,
				map[string]interface{}{"id": 1}, map[string]interface{}{"id": 2})
		case "1":
			body = pageBody(t, 5, 2,
				map[string]interface{}{"id": 3}, map[string]interface{}{"id": 4})
		case "2":
			body = pageBody(t, 5, 2, map[string]interface{}{"id": 5})
		default:
			t.Fatalf("unexpected page %q", req.Query.Get("page"))
		}

		return &bastion.Response{StatusCode: 200, Body: body}, nil
	}

	ep := bastion.NewEndpoint(doer, "/securitymanager/api/domain/1/device", "device",
		bastion.WithPageSize(2))

	records, err := ep.All(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 5)

	// Server ordering survives the page walk.
	for i, record := range records {
		assert.Equal(t, i+1, record.ID())
	}

	require.Len(t, doer.requests, 3)
	assert.Equal(t, "2", doer.requests[0].Query.Get("pageSize"))
	assert.Equal(t, "/securitymanager/api/domain/1/device", doer.requests[0].Path)
}

func TestEndpoint_All_BareArray(t *testing.T) {
	doer := &fakeDoer{
		handler: func(_ *bastion.Request) (*bastion.Response, error) {
			return &bastion.Response{
				StatusCode: 200,
				Body:       []byte(`[{"id": 7}, {"id": 8}]`),
			}, nil
		},
	}

	ep := bastion.NewEndpoint(doer, "/securitymanager/api/collector", "collector")

	records, err := ep.All(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	// Unpaginated responses must not trigger a second fetch.
	assert.Len(t, doer.requests, 1)
}

func TestEndpoint_All_EmptyCollection(t *testing.T) {
	doer := &fakeDoer{
		handler: func(_ *bastion.Request) (*bastion.Response, error) {
			return &bastion.Response{StatusCode: 200, Body: pageBody(t, 0, 100)}, nil
		},
	}

	ep := bastion.NewEndpoint(doer, "/securitymanager/api/domain/1/device", "device")

	records, err := ep.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Len(t, doer.requests, 1)
}

func TestEndpoint_All_EnvelopeWithoutResults(t *testing.T) {
	doer := &fakeDoer{
		handler: func(_ *bastion.Request) (*bastion.Response, error) {
			// Some zero-row responses omit the results key entirely.
			return &bastion.Response{
				StatusCode: 200,
				Body:       []byte(`{"total": 0, "page": 0, "pageSize": 100}`),
			}, nil
		},
	}

	ep := bastion.NewEndpoint(doer, "/securitymanager/api/domain/1/device", "device")

	records, err := ep.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Len(t, doer.requests, 1)
}

func TestEndpoint_All_MalformedResponse(t *testing.T) {
	doer := &fakeDoer{
		handler: func(_ *bastion.Request) (*bastion.Response, error) {
			return &bastion.Response{StatusCode: 200, Body: []byte(`"not a collection"`)}, nil
		},
	}

	ep := bastion.NewEndpoint(doer, "/securitymanager/api/domain/1/device", "device")

	_, err := ep.All(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing device list response")
}

func TestEndpoint_Query(t *testing.T) {
	doer := &fakeDoer{
		handler: func(req *bastion.Request) (*bastion.Response, error) {
			var body []byte

			switch req.Query.Get("page") {
			case "0":
				body = pageBody(t, 3, 2,
					map[string]interface{}{"id": 1}, map[string]interface{}{"id": 2})
			case "1":
				body = pageBody(t, 3, 2, map[string]interface{}{"id": 3})
			default:
				t.Fatalf("unexpected page %q", req.Query.Get("page"))
			}

			return &bastion.Response{StatusCode: 200, Body: body}, nil
		},
	}

	ep := bastion.NewEndpoint(doer, "/securitymanager/api/domain/1/device", "device")

	params := bastion.NewQueryParams().
		WithSort("-lastUpdated").
		WithSearch("edge").
		WithFilter("vendor", "cisco").
		WithPageSize(2)

	records, err := ep.Query(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, records, 3)

	require.Len(t, doer.requests, 2)
	// Sort, search and filters travel with every page request.
	for _, req := range doer.requests {
		assert.Equal(t, "-lastUpdated", req.Query.Get("sort"))
		assert.Equal(t, "edge", req.Query.Get("q"))
		assert.Equal(t, "cisco", req.Query.Get("vendor"))
		assert.Equal(t, "2", req.Query.Get("pageSize"))
	}
}

func TestEndpoint_Query_NilParamsFetchesAll(t *testing.T) {
	doer := &fakeDoer{
		handler: func(_ *bastion.Request) (*bastion.Response, error) {
			return &bastion.Response{StatusCode: 200, Body: pageBody(t, 1, 100, map[string]interface{}{"id": 1})}, nil
		},
	}

	ep := bastion.NewEndpoint(doer, "/securitymanager/api/domain/1/device", "device")

	records, err := ep.Query(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, "100", doer.requests[0].Query.Get("pageSize"))
}

func TestEndpoint_ReadOnlyRejectsWrites(t *testing.T) {
	doer := &fakeDoer{}
	ep := bastion.NewEndpoint(doer, "/securitymanager/api/siql/device/paged-search", "device",
		bastion.WithReadOnly())

	_, err := ep.Create(context.Background(), bastion.Fields{"name": "x"})
	require.ErrorIs(t, err, bastion.ErrEndpointReadOnly)

	_, err = ep.Update(context.Background(), 1, bastion.Fields{"name": "x"})
	require.ErrorIs(t, err, bastion.ErrEndpointReadOnly)

	err = ep.Delete(context.Background(), 1)
	require.ErrorIs(t, err, bastion.ErrEndpointReadOnly)

	// None of the rejected writes may reach the server.
	assert.Empty(t, doer.requests)
}

func TestEndpoint_Filter(t *testing.T) {
	doer := &fakeDoer{
		handler: func(_ *bastion.Request) (*bastion.Response, error) {
			return &bastion.Response{
				StatusCode: 200,
				Body:       pageBody(t, 1, 100, map[string]interface{}{"id": 9, "name": "edge-fw"}),
			}, nil
		},
	}

	ep := bastion.NewEndpoint(doer, "/securitymanager/api/domain/1/device", "device")

	records, err := ep.Filter(context.Background(), map[string]string{"name": "edge-fw"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "edge-fw", records[0].String("name"))
	assert.Equal(t, "edge-fw", doer.requests[0].Query.Get("name"))
}

func TestEndpoint_Filter_EmptyCriteria(t *testing.T) {
	doer := &fakeDoer{}
	ep := bastion.NewEndpoint(doer, "/securitymanager/api/domain/1/device", "device")

	_, err := ep.Filter(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, bastion.IsValidation(err))
	// The validation failure is local; nothing may reach the server.
	assert.Empty(t, doer.requests)
}

func TestEndpoint_Filter_NoMatches(t *testing.T) {
	doer := &fakeDoer{
		handler: func(_ *bastion.Request) (*bastion.Response, error) {
			return &bastion.Response{StatusCode: 200, Body: pageBody(t, 0, 100)}, nil
		},
	}

	ep := bastion.NewEndpoint(doer, "/securitymanager/api/domain/1/device", "device")

	records, err := ep.Filter(context.Background(), map[string]string{"name": "nope"})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestEndpoint_Get(t *testing.T) {
	doer := &fakeDoer{
		handler: func(req *bastion.Request) (*bastion.Response, error) {
			assert.Equal(t, "GET", req.Method)
			assert.Equal(t, "/securitymanager/api/domain/1/device/42", req.Path)

			return &bastion.Response{
				StatusCode: 200,
				Body:       []byte(`{"id": 42, "name": "edge-fw"}`),
			}, nil
		},
	}

	ep := bastion.NewEndpoint(doer, "/securitymanager/api/domain/1/device", "device")

	record, err := ep.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 42, record.ID())
	assert.Equal(t, "edge-fw", record.String("name"))
}

func TestEndpoint_Get_NotFound(t *testing.T) {
	doer := &fakeDoer{
		handler: func(_ *bastion.Request) (*bastion.Response, error) {
			return nil, &bastion.APIError{StatusCode: 404, Message: "not found"}
		},
	}

	ep := bastion.NewEndpoint(doer, "/securitymanager/api/domain/1/device", "device")

	_, err := ep.Get(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, bastion.IsNotFound(err))

	var notFound *bastion.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "device", notFound.Resource)
	assert.Equal(t, "42", notFound.Key)
}

func TestEndpoint_GetBy(t *testing.T) {
	matches := 0
	doer := &fakeDoer{
		handler: func(_ *bastion.Request) (*bastion.Response, error) {
			results := make([]interface{}, 0, matches)
			for i := 0; i < matches; i++ {
				results = append(results, map[string]interface{}{"id": i + 1})
			}

			return &bastion.Response{StatusCode: 200, Body: pageBody(t, matches, 100, results...)}, nil
		},
	}

	ep := bastion.NewEndpoint(doer, "/securitymanager/api/domain/1/device", "device")
	criteria := map[string]string{"name": "edge-fw"}

	t.Run("zero matches", func(t *testing.T) {
		matches = 0
		_, err := ep.GetBy(context.Background(), criteria)
		assert.True(t, bastion.IsNotFound(err))
	})

	t.Run("one match", func(t *testing.T) {
		matches = 1
		record, err := ep.GetBy(context.Background(), criteria)
		require.NoError(t, err)
		assert.Equal(t, 1, record.ID())
	})

	t.Run("multiple matches", func(t *testing.T) {
		matches = 3
		_, err := ep.GetBy(context.Background(), criteria)
		require.Error(t, err)
		assert.True(t, bastion.IsAmbiguous(err))

		var ambiguous *bastion.AmbiguousResultError
		require.ErrorAs(t, err, &ambiguous)
		assert.Equal(t, 3, ambiguous.Matches)
	})
}

func TestEndpoint_Create(t *testing.T) {
	doer := &fakeDoer{
		handler: func(req *bastion.Request) (*bastion.Response, error) {
			assert.Equal(t, "POST", req.Method)

			return &bastion.Response{
				StatusCode: 201,
				Body:       []byte(`{"id": 11, "name": "edge-fw", "managedType": "ACTIVE"}`),
			}, nil
		},
	}

	ep := bastion.NewEndpoint(doer, "/securitymanager/api/domain/1/device", "device")

	record, err := ep.Create(context.Background(), bastion.Fields{"name": "edge-fw"})
	require.NoError(t, err)
	assert.Equal(t, 11, record.ID())
	// Server-assigned defaults must be visible on the returned record.
	assert.Equal(t, "ACTIVE", record.String("managedType"))
}

func TestEndpoint_Create_NoContent(t *testing.T) {
	doer := &fakeDoer{
		handler: func(_ *bastion.Request) (*bastion.Response, error) {
			return &bastion.Response{StatusCode: 204}, nil
		},
	}

	ep := bastion.NewEndpoint(doer, "/securitymanager/api/domain/1/centralsyslog", "centralsyslog")

	record, err := ep.Create(context.Background(), bastion.Fields{"name": "syslog-1"})
	require.NoError(t, err)
	assert.Equal(t, "syslog-1", record.String("name"))
}

func TestEndpoint_Create_Validation(t *testing.T) {
	doer := &fakeDoer{
		handler: func(_ *bastion.Request) (*bastion.Response, error) {
			return nil, &bastion.APIError{StatusCode: 422, Message: "name is required"}
		},
	}

	ep := bastion.NewEndpoint(doer, "/securitymanager/api/domain/1/device", "device")

	_, err := ep.Create(context.Background(), bastion.Fields{})
	require.Error(t, err)
	assert.True(t, bastion.IsValidation(err))

	var validation *bastion.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "name is required", validation.Message)
}

func TestEndpoint_Count(t *testing.T) {
	doer := &fakeDoer{
		handler: func(req *bastion.Request) (*bastion.Response, error) {
			// Count asks for the smallest possible page.
			assert.Equal(t, "0", req.Query.Get("page"))
			assert.Equal(t, "1", req.Query.Get("pageSize"))

			return &bastion.Response{
				StatusCode: 200,
				Body:       pageBody(t, 137, 1, map[string]interface{}{"id": 1}),
			}, nil
		},
	}

	ep := bastion.NewEndpoint(doer, "/securitymanager/api/domain/1/device", "device")

	total, err := ep.Count(context.Background(), map[string]string{"vendor": "cisco"})
	require.NoError(t, err)
	assert.Equal(t, 137, total)
	assert.Equal(t, "cisco", doer.requests[0].Query.Get("vendor"))
}

func TestEndpoint_Delete(t *testing.T) {
	doer := &fakeDoer{
		handler: func(req *bastion.Request) (*bastion.Response, error) {
			assert.Equal(t, "DELETE", req.Method)
			assert.Equal(t, "/securitymanager/api/domain/1/device/42", req.Path)

			return &bastion.Response{StatusCode: 204}, nil
		},
	}

	ep := bastion.NewEndpoint(doer, "/securitymanager/api/domain/1/device", "device")

	require.NoError(t, ep.Delete(context.Background(), 42))
}

func TestEndpoint_TransportErrorPassesThrough(t *testing.T) {
	doer := &fakeDoer{
		handler: func(req *bastion.Request) (*bastion.Response, error) {
			return nil, &bastion.TransportError{
				Op:  req.Method,
				URL: req.Path,
				Err: fmt.Errorf("connection refused"),
			}
		},
	}

	ep := bastion.NewEndpoint(doer, "/securitymanager/api/domain/1/device", "device")

	_, err := ep.Get(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, bastion.IsTransport(err))
	assert.False(t, bastion.IsNotFound(err))
}
