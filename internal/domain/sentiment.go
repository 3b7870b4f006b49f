package domain

import "strings"

// Sentiment is the canonical three-letter sentiment code. These are the
// only values storage and aggregation logic reason about.
type Sentiment string

const (
	Negative Sentiment = "NEG"
	Neutral  Sentiment = "NEU"
	Positive Sentiment = "POS"
)

// SentimentOrder is the fixed display order consumers rely on for color
// assignment. Never derive ordering from data.
var SentimentOrder = [3]Sentiment{Negative, Neutral, Positive}

// Label vocabularies observed in stored history and in model outputs.
// Older records carry Spanish labels ("Positivo"), the beto model emits
// POS/NEG/NEU, the generic fallback emits POSITIVE/NEGATIVE/NEUTRAL.
var sentimentAliases = map[string]Sentiment{
	"pos": Positive, "positive": Positive, "positivo": Positive,
	"neg": Negative, "negative": Negative, "negativo": Negative,
	"neu": Neutral, "neutral": Neutral, "neutro": Neutral,
}

// CanonicalSentiment maps any historical or model label spelling to its
// canonical code. Case and surrounding whitespace are insignificant.
// Missing/empty labels resolve to Neutral with ok=true; an unrecognized
// non-empty label also resolves to Neutral but with ok=false so callers
// can log the drift instead of coercing silently.
func CanonicalSentiment(raw string) (Sentiment, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return Neutral, true
	}
	if c, ok := sentimentAliases[s]; ok {
		return c, true
	}
	return Neutral, false
}
