package domain

// Report is the aggregate output computed per aggregate call: KPIs,
// global distribution, per-product crosstab, daily time series and
// executive highlights.
type Report struct {
	Total             int
	PositivePercent   float64
	AverageConfidence float64

	// Distribution counts records per canonical code; codes with zero
	// occurrences are absent, not zero-padded.
	Distribution map[Sentiment]int

	// ByProduct is a (product, sentiment) contingency table; its cells
	// sum to Total.
	ByProduct map[string]map[Sentiment]int

	// Series holds one entry per canonical code present in the data, in
	// SentimentOrder, each with per-calendar-day counts.
	Series []SentimentSeries

	// TopPositive/TopNegative are nil when no record of that sentiment
	// exists.
	TopPositive *string
	TopNegative *string
}

type SentimentSeries struct {
	Sentiment Sentiment
	Points    []SeriesPoint
}

// SeriesPoint counts one sentiment on one calendar day (Date is
// "2006-01-02").
type SeriesPoint struct {
	Date  string
	Count int
}
