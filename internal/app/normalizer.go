package app

import (
	"strings"
	"time"

	"starcuak/internal/domain"
)

/********** column alias registry (single source of truth) **********/

// Ingested files come from several operator tools; headers drift in casing,
// spacing and language. Matching is on the lowercased, trimmed header.
var columnAliases = map[string][]string{
	"comment": {"comentario", "comment", "opinion", "texto"},
	"product": {"producto", "product"},
	"date":    {"fecha", "date"},
}

// Day-first layouts, matching how the operator spreadsheets export dates.
var dateLayouts = []string{
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006",
	"2-1-2006 15:04",
	"2-1-2006",
}

// Normalizer converts a heterogeneous raw table into candidates ready for
// classification. It never drops or reorders rows and knows nothing about
// sentiment.
type Normalizer struct {
	fallbackProduct string
}

func NewNormalizer(fallbackProduct string) *Normalizer {
	return &Normalizer{fallbackProduct: fallbackProduct}
}

// Normalize produces one candidate per input row, in input order. A missing
// comment column is a hard error raised before any row is looked at; a
// missing product or date column is not. Empty comment cells become the
// literal placeholder "nan" rather than being dropped, so every row still
// reaches the classifier.
func (n *Normalizer) Normalize(t domain.RawTable) ([]domain.Candidate, error) {
	idx := headerIndex(t.Headers)

	ci, ok := findColumn(idx, "comment")
	if !ok {
		return nil, &domain.MissingColumnError{Column: "comentario"}
	}
	pi, hasProduct := findColumn(idx, "product")
	di, hasDate := findColumn(idx, "date")

	out := make([]domain.Candidate, 0, len(t.Rows))
	for _, row := range t.Rows {
		c := domain.Candidate{Product: n.fallbackProduct}

		c.Comment = strings.TrimSpace(cell(row, ci))
		if c.Comment == "" {
			c.Comment = "nan"
		}
		if hasProduct {
			if p := strings.TrimSpace(cell(row, pi)); p != "" {
				c.Product = p
			}
		}
		if hasDate {
			c.RawDate = strings.TrimSpace(cell(row, di))
			c.Date = parseDayFirst(c.RawDate)
		}
		out = append(out, c)
	}
	return out, nil
}

/********** tiny helpers **********/

// headerIndex maps canonical (lowercased, trimmed) header names to their
// column position; the first occurrence wins.
func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}
	return idx
}

func findColumn(idx map[string]int, field string) (int, bool) {
	for _, alias := range columnAliases[field] {
		if i, ok := idx[alias]; ok {
			return i, true
		}
	}
	return 0, false
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// parseDayFirst returns nil for absent or unparsable values; the store
// defaults those to the insertion time later.
func parseDayFirst(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return &t
		}
	}
	return nil
}
