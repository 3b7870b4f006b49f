package domain

import "time"

// Review is the sole persisted entity: one classified customer comment.
// CreatedAt is assigned by the store when the caller supplies no date.
type Review struct {
	ID         int64
	Product    string
	Comment    string
	Sentiment  Sentiment
	Confidence float64
	CreatedAt  time.Time
}

// Candidate is a normalized-but-not-yet-classified ingestion row.
// Date is nil when the source cell was absent or unparsable; RawDate keeps
// the original cell text for data-quality warnings.
type Candidate struct {
	Product string
	Comment string
	Date    *time.Time
	RawDate string
}

// RawTable is the shape the file-reading collaborator hands to the
// normalizer: headers as found in the source, rows in source order.
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// DateRange is an inclusive calendar-date window. Only the year/month/day
// of Start and End are significant.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t's calendar date falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	d := civilDate(t)
	return !d.Before(civilDate(r.Start)) && !d.After(civilDate(r.End))
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
