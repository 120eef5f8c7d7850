package request

import (
	"fmt"
	"net/http"
	"time"
)

const dateLayout = "2006-01-02"

// DefaultCostWindow is used when no startDate/endDate is given.
const DefaultCostWindow = 30 * 24 * time.Hour

// DateRange is a validated startDate/endDate pair for cost queries.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDateRange reads startDate and endDate query parameters (YYYY-MM-DD).
// Missing values default to the last 30 days. An end before the start is
// rejected.
func ParseDateRange(r *http.Request) (DateRange, error) {
	now := time.Now().UTC().Truncate(24 * time.Hour)
	dr := DateRange{Start: now.Add(-DefaultCostWindow), End: now}

	if s := r.URL.Query().Get("startDate"); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return DateRange{}, fmt.Errorf("invalid startDate %q: expected YYYY-MM-DD", s)
		}
		dr.Start = t
	}
	if s := r.URL.Query().Get("endDate"); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return DateRange{}, fmt.Errorf("invalid endDate %q: expected YYYY-MM-DD", s)
		}
		dr.End = t
	}

	if dr.End.Before(dr.Start) {
		return DateRange{}, fmt.Errorf("endDate is before startDate")
	}
	return dr, nil
}

// Days returns each day in the range, inclusive.
func (dr DateRange) Days() []time.Time {
	var days []time.Time
	for d := dr.Start; !d.After(dr.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// StartString returns the start formatted as YYYY-MM-DD.
func (dr DateRange) StartString() string { return dr.Start.Format(dateLayout) }

// EndString returns the end formatted as YYYY-MM-DD.
func (dr DateRange) EndString() string { return dr.End.Format(dateLayout) }
