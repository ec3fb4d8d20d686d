package utils

import (
	"net/url"
	"strconv"
	"strings"

	"rma-system/pkg/types"
)

// ParseFilterFromQuery understands the list-endpoint query convention:
//
//	?search=acme&filter[status]=in-progress&sort[created_at]=desc&limit=20&offset=0
func ParseFilterFromQuery(query url.Values) types.Filter {
	filter := types.Filter{
		Filter:         make(map[string]interface{}),
		Sort:           make(map[string]string),
		Limit:          20,
		Offset:         0,
		Page:           1,
		WithPagination: true,
	}

	for key, values := range query {
		if len(values) == 0 {
			continue
		}
		if strings.HasPrefix(key, "filter[") && strings.HasSuffix(key, "]") {
			filter.Filter[key[7:len(key)-1]] = values[0]
		}
		if strings.HasPrefix(key, "sort[") && strings.HasSuffix(key, "]") {
			filter.Sort[key[5:len(key)-1]] = values[0]
		}
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			filter.Limit = l
		}
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			filter.Offset = o
			if filter.Limit > 0 {
				filter.Page = (o / filter.Limit) + 1
			}
		}
	}
	// page only applies when an explicit offset was not given
	if pageStr := query.Get("page"); pageStr != "" && filter.Offset == 0 {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			filter.Page = p
			filter.Offset = (p - 1) * filter.Limit
		}
	}

	filter.Search = query.Get("search")

	if query.Get("withPagination") == "false" {
		filter.WithPagination = false
	}

	return filter
}
