package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilterDefaults(t *testing.T) {
	filter := ParseFilterFromQuery(url.Values{})

	assert.Equal(t, 20, filter.Limit)
	assert.Equal(t, 0, filter.Offset)
	assert.Equal(t, 1, filter.Page)
	assert.True(t, filter.WithPagination)
	assert.Empty(t, filter.Search)
	assert.Empty(t, filter.Filter)
	assert.Empty(t, filter.Sort)
}

func TestParseFilterBrackets(t *testing.T) {
	query, err := url.ParseQuery("filter[status]=in-progress&sort[created_at]=desc&search=acme")
	require.NoError(t, err)

	filter := ParseFilterFromQuery(query)

	assert.Equal(t, "in-progress", filter.Filter["status"])
	assert.Equal(t, "desc", filter.Sort["created_at"])
	assert.Equal(t, "acme", filter.Search)
}

func TestParseFilterPageComputesOffset(t *testing.T) {
	query, err := url.ParseQuery("page=3&limit=10")
	require.NoError(t, err)

	filter := ParseFilterFromQuery(query)

	assert.Equal(t, 3, filter.Page)
	assert.Equal(t, 10, filter.Limit)
	assert.Equal(t, 20, filter.Offset)
}

func TestParseFilterExplicitOffsetWinsOverPage(t *testing.T) {
	query, err := url.ParseQuery("offset=40&page=9&limit=20")
	require.NoError(t, err)

	filter := ParseFilterFromQuery(query)

	assert.Equal(t, 40, filter.Offset)
	assert.Equal(t, 3, filter.Page)
}

func TestParseFilterPaginationOptOut(t *testing.T) {
	query, err := url.ParseQuery("withPagination=false")
	require.NoError(t, err)

	filter := ParseFilterFromQuery(query)
	assert.False(t, filter.WithPagination)
}

func TestParseFilterIgnoresBadNumbers(t *testing.T) {
	query, err := url.ParseQuery("limit=abc&offset=-5&page=zero")
	require.NoError(t, err)

	filter := ParseFilterFromQuery(query)
	assert.Equal(t, 20, filter.Limit)
	assert.Equal(t, 0, filter.Offset)
	assert.Equal(t, 1, filter.Page)
}
