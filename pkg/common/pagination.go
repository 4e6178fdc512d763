package common

import (
	"net/http"
	"strconv"
)

// ListParams are the query parameters of a listing endpoint
type ListParams struct {
	Sort  string
	Limit int
}

// ExtractListParams reads sort and limit. A missing or unparsable limit
// uses defaultLimit; a larger one is capped at maxLimit.
func ExtractListParams(r *http.Request, defaultLimit, maxLimit int) ListParams {
	params := ListParams{
		Sort:  r.URL.Query().Get("sort"),
		Limit: defaultLimit,
	}

	if limit := r.URL.Query().Get("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil && l > 0 {
			params.Limit = l
		}
	}
	if params.Limit > maxLimit {
		params.Limit = maxLimit
	}

	return params
}
