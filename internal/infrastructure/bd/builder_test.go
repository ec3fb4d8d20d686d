package bd

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rma-system/pkg/types"
)

var allowed = map[string]string{"status": "status", "created_at": "created_at"}

func baseQuery() sq.SelectBuilder {
	return sq.Select("*").From("rmas").PlaceholderFormat(sq.Dollar)
}

func TestApplyListParamsFilterAndSort(t *testing.T) {
	filter := types.Filter{
		Filter:         map[string]interface{}{"status": "in-progress"},
		Sort:           map[string]string{"created_at": "desc"},
		Limit:          10,
		Offset:         20,
		WithPagination: true,
	}

	query, args, err := ApplyListParams(baseQuery(), filter, allowed).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "status = $1")
	assert.Contains(t, query, "ORDER BY created_at DESC")
	assert.Contains(t, query, "LIMIT 10")
	assert.Contains(t, query, "OFFSET 20")
	assert.Equal(t, []interface{}{"in-progress"}, args)
}

func TestApplyListParamsIgnoresUnknownColumns(t *testing.T) {
	filter := types.Filter{
		Filter: map[string]interface{}{"password": "x"},
		Sort:   map[string]string{"password": "asc"},
	}

	query, args, err := ApplyListParams(baseQuery(), filter, allowed).ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM rmas", query)
	assert.Empty(t, args)
}

func TestApplyFiltersCommaListBecomesIn(t *testing.T) {
	filter := types.Filter{
		Filter: map[string]interface{}{"status": "pending,completed"},
	}

	query, args, err := ApplyFilters(baseQuery(), filter, allowed).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "status IN ($1,$2)")
	assert.Equal(t, []interface{}{"pending", "completed"}, args)
}

func TestApplyListParamsPaginationOptOut(t *testing.T) {
	filter := types.Filter{Limit: 10, Offset: 20, WithPagination: false}

	query, _, err := ApplyListParams(baseQuery(), filter, allowed).ToSql()
	require.NoError(t, err)

	assert.NotContains(t, query, "LIMIT")
	assert.NotContains(t, query, "OFFSET")
}
