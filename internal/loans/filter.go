package loans

import (
	"strconv"
	"strings"
	"time"
)

// StatusAll disables status filtering.
const StatusAll = "ALL"

// DateRange names a relative date window for list filtering.
type DateRange string

const (
	DateRangeToday      DateRange = "today"
	DateRangeYesterday  DateRange = "yesterday"
	DateRangeLast7Days  DateRange = "last_7_days"
	DateRangeLast30Days DateRange = "last_30_days"
	DateRangeLast90Days DateRange = "last_90_days"
)

// Window resolves the range to [from, to] bounds relative to now, in now's
// location. Same-day ranges are inclusive whole days; the rolling last_N
// ranges have no upper bound. ok is false for unknown range names, which
// callers treat as "no date filter".
func (d DateRange) Window(now time.Time) (from time.Time, to *time.Time, ok bool) {
	dayBounds := func(t time.Time) (time.Time, time.Time) {
		start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		end := time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
		return start, end
	}
	switch d {
	case DateRangeToday:
		start, end := dayBounds(now)
		return start, &end, true
	case DateRangeYesterday:
		start, end := dayBounds(now.AddDate(0, 0, -1))
		return start, &end, true
	case DateRangeLast7Days:
		return now.AddDate(0, 0, -7), nil, true
	case DateRangeLast30Days:
		return now.AddDate(0, 0, -30), nil, true
	case DateRangeLast90Days:
		return now.AddDate(0, 0, -90), nil, true
	default:
		return time.Time{}, nil, false
	}
}

// FilterParams are the list filters the dashboards combine: free-text
// search, canonical status key (StatusAll passes everything) and a named
// date range. All active predicates must pass.
type FilterParams struct {
	Query     string
	Status    string
	DateRange DateRange
}

// Filter applies the three predicates to records in order, preserving input
// order. Search is a case-insensitive substring match over id, first name,
// last name and the stringified amount. The date predicate prefers
// CreatedAt and falls back to DateRequested; a record with neither is
// excluded only while a date filter is active.
func Filter(records []Loan, p FilterParams, now time.Time) []Loan {
	query := strings.ToLower(strings.TrimSpace(p.Query))
	from, to, dateActive := p.DateRange.Window(now)

	out := make([]Loan, 0, len(records))
	for _, rec := range records {
		if query != "" && !strings.Contains(searchBlob(rec), query) {
			continue
		}
		if p.Status != "" && p.Status != StatusAll && string(rec.Status) != p.Status {
			continue
		}
		if dateActive {
			when, ok := bestDate(rec)
			if !ok {
				continue
			}
			if when.Before(from) {
				continue
			}
			if to != nil && when.After(*to) {
				continue
			}
		}
		out = append(out, rec)
	}
	return out
}

func searchBlob(rec Loan) string {
	return strings.ToLower(strings.Join([]string{
		rec.ID,
		rec.UserFirstName,
		rec.UserLastName,
		strconv.FormatFloat(rec.Amount, 'f', -1, 64),
	}, " "))
}

// bestDate picks the record's filterable date: CreatedAt when set, else
// DateRequested. ok is false when neither is usable.
func bestDate(rec Loan) (time.Time, bool) {
	if !rec.CreatedAt.IsZero() {
		return rec.CreatedAt, true
	}
	if rec.DateRequested != nil && !rec.DateRequested.IsZero() {
		return *rec.DateRequested, true
	}
	return time.Time{}, false
}
