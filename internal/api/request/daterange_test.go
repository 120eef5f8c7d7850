package request

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateRange_Explicit(t *testing.T) {
	r := httptest.NewRequest("GET", "/costs?startDate=2026-01-01&endDate=2026-01-10", nil)

	dr, err := ParseDateRange(r)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-01", dr.StartString())
	assert.Equal(t, "2026-01-10", dr.EndString())
	assert.Len(t, dr.Days(), 10)
}

func TestParseDateRange_Defaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/costs", nil)

	dr, err := ParseDateRange(r)
	require.NoError(t, err)
	assert.InDelta(t, DefaultCostWindow, dr.End.Sub(dr.Start), float64(24*time.Hour))
}

func TestParseDateRange_BadFormat(t *testing.T) {
	r := httptest.NewRequest("GET", "/costs?startDate=01-02-2026", nil)

	_, err := ParseDateRange(r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}

func TestParseDateRange_EndBeforeStart(t *testing.T) {
	r := httptest.NewRequest("GET", "/costs?startDate=2026-02-01&endDate=2026-01-01", nil)

	_, err := ParseDateRange(r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "before startDate")
}

func TestParsePagination(t *testing.T) {
	r := httptest.NewRequest("GET", "/vulnerabilities?limit=10&cursor=abc", nil)
	p, err := ParsePagination(r)
	require.NoError(t, err)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, "abc", p.Cursor)
}

func TestParsePagination_Defaults(t *testing.T) {
	p, err := ParsePagination(httptest.NewRequest("GET", "/vulnerabilities", nil))
	require.NoError(t, err)
	assert.Equal(t, defaultLimit, p.Limit)
	assert.Empty(t, p.Cursor)
}

func TestParsePagination_Invalid(t *testing.T) {
	_, err := ParsePagination(httptest.NewRequest("GET", "/vulnerabilities?limit=zero", nil))
	assert.Error(t, err)
}

func TestParsePagination_ClampsToMax(t *testing.T) {
	p, err := ParsePagination(httptest.NewRequest("GET", "/vulnerabilities?limit=10000", nil))
	require.NoError(t, err)
	assert.Equal(t, maxLimit, p.Limit)
}
