package request

import (
	"fmt"
	"net/http"
	"strconv"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// Pagination holds keyset pagination parameters from the query string.
type Pagination struct {
	Limit  int
	Cursor string
}

// ParsePagination reads limit and cursor query parameters.
func ParsePagination(r *http.Request) (Pagination, error) {
	p := Pagination{Limit: defaultLimit, Cursor: r.URL.Query().Get("cursor")}

	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return Pagination{}, fmt.Errorf("invalid limit %q", s)
		}
		if n > maxLimit {
			n = maxLimit
		}
		p.Limit = n
	}
	return p, nil
}
