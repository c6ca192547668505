// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/menuhub/internal/app/system/apperr"
	"github.com/dalemusser/waffle/pantry/query"
)

// ParseLimit reads the "limit" query parameter. A missing value yields def;
// values above max are clamped to max. Non-numeric or non-positive values
// are a validation error.
func ParseLimit(r *http.Request, def, max int64) (int64, error) {
	s := query.Get(r, "limit")
	if s == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 1 {
		return 0, apperr.Validation("limit must be a positive integer")
	}
	if n > max {
		return max, nil
	}
	return n, nil
}
