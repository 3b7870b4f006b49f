package app

import (
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"starcuak/internal/domain"
)

// BuildReport computes the aggregate report over records, optionally
// restricted to an inclusive calendar-date range. Every record's sentiment
// and product are re-canonicalized first, regardless of origin: stored
// history may predate the current labeling convention. An empty input (or
// empty after filtering) is success, with all counts at zero.
func BuildReport(records []domain.Review, rng *domain.DateRange, fallbackProduct string) domain.Report {
	rep := domain.Report{
		Distribution: map[domain.Sentiment]int{},
		ByProduct:    map[string]map[domain.Sentiment]int{},
	}

	type dayKey struct {
		date string
		code domain.Sentiment
	}
	byDay := map[dayKey]int{}
	var confSum float64

	for _, rec := range records {
		if rng != nil {
			// records without a usable timestamp exist in the store but
			// are excluded from range-filtered views
			if rec.CreatedAt.IsZero() || !rng.Contains(rec.CreatedAt) {
				continue
			}
		}

		code, ok := domain.CanonicalSentiment(string(rec.Sentiment))
		if !ok {
			log.Warn().Int64("id", rec.ID).Str("label", string(rec.Sentiment)).
				Msg("unrecognized stored sentiment label, counted as NEU")
		}
		product := strings.TrimSpace(rec.Product)
		if product == "" {
			product = fallbackProduct
		}

		rep.Total++
		confSum += rec.Confidence
		rep.Distribution[code]++
		if rep.ByProduct[product] == nil {
			rep.ByProduct[product] = map[domain.Sentiment]int{}
		}
		rep.ByProduct[product][code]++
		if !rec.CreatedAt.IsZero() {
			byDay[dayKey{rec.CreatedAt.Format("2006-01-02"), code}]++
		}
	}

	if rep.Total == 0 {
		return rep
	}
	rep.PositivePercent = 100 * float64(rep.Distribution[domain.Positive]) / float64(rep.Total)
	rep.AverageConfidence = confSum / float64(rep.Total)

	// one series per code present, in the fixed NEG, NEU, POS display
	// order; consumers map a fixed color per code
	for _, code := range domain.SentimentOrder {
		var pts []domain.SeriesPoint
		for k, n := range byDay {
			if k.code == code {
				pts = append(pts, domain.SeriesPoint{Date: k.date, Count: n})
			}
		}
		if len(pts) == 0 {
			continue
		}
		sort.Slice(pts, func(i, j int) bool { return pts[i].Date < pts[j].Date })
		rep.Series = append(rep.Series, domain.SentimentSeries{Sentiment: code, Points: pts})
	}

	rep.TopPositive = topProduct(rep.ByProduct, domain.Positive)
	rep.TopNegative = topProduct(rep.ByProduct, domain.Negative)
	return rep
}

// topProduct picks the product with the most records of the given code.
// Ties break to the lexicographically smaller name so the highlight is
// stable across runs. Nil when no record of that sentiment exists.
func topProduct(byProduct map[string]map[domain.Sentiment]int, code domain.Sentiment) *string {
	var best string
	bestN := 0
	for product, counts := range byProduct {
		n := counts[code]
		if n == 0 {
			continue
		}
		if n > bestN || (n == bestN && product < best) {
			best, bestN = product, n
		}
	}
	if bestN == 0 {
		return nil
	}
	return &best
}
