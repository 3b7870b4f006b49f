package app

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"starcuak/internal/adapters/observability"
	"starcuak/internal/domain"
)

// Analyzer turns raw text into a canonical (sentiment, confidence) pair.
// It is stateless across calls; which model answers was decided once when
// the scorer was constructed.
type Analyzer struct {
	scorer domain.SentimentScorer
}

func NewAnalyzer(s domain.SentimentScorer) *Analyzer { return &Analyzer{scorer: s} }

// Classify scores text. Empty or whitespace-only input short-circuits to
// (Neutral, 0.0) without touching the model; that is defined behavior, not
// an error. Model failures surface as ClassificationError and are never
// retried here.
func (a *Analyzer) Classify(ctx context.Context, text string) (domain.Sentiment, float64, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Neutral, 0.0, nil
	}
	start := time.Now()
	label, score, err := a.scorer.Score(ctx, text)
	if err != nil {
		observability.ObserveClassification("", "error", time.Since(start))
		return "", 0, &domain.ClassificationError{Err: err}
	}
	observability.ObserveClassification(label, "ok", time.Since(start))
	code, ok := domain.CanonicalSentiment(label)
	if !ok {
		log.Warn().Str("label", label).Msg("unrecognized model label, coerced to NEU")
	}
	// defend the [0,1] invariant against misbehaving scorers
	if score < 0 {
		score = 0
	} else if score > 1 {
		score = 1
	}
	return code, score, nil
}
