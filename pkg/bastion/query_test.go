package bastion_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bastionsec-io/bastion-client/pkg/bastion"
)

func TestQueryParams_ToValues(t *testing.T) {
	params := bastion.NewQueryParams().
		WithPageSize(50).
		WithSort("-lastUpdated").
		WithSearch("edge").
		WithFilter("vendor", "cisco").
		WithFilter("managed", "true")

	values := params.ToValues()
	assert.Equal(t, "50", values.Get("pageSize"))
	assert.Equal(t, "-lastUpdated", values.Get("sort"))
	assert.Equal(t, "edge", values.Get("q"))
	assert.Equal(t, "cisco", values.Get("vendor"))
	assert.Equal(t, "true", values.Get("managed"))
}

func TestQueryParams_ZeroValuesOmitted(t *testing.T) {
	values := bastion.NewQueryParams().ToValues()
	assert.Empty(t, values)

	// Page zero is the first page and the server default; never sent.
	params := &bastion.QueryParams{Page: 0, PageSize: 25}
	values = params.ToValues()
	assert.Empty(t, values.Get("page"))
	assert.Equal(t, "25", values.Get("pageSize"))
}

func TestQueryParams_WithFilterOnZeroValue(t *testing.T) {
	var params bastion.QueryParams

	params.WithFilter("name", "edge-fw")
	assert.Equal(t, "edge-fw", params.ToValues().Get("name"))
}
