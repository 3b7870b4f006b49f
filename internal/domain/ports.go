package domain

import (
	"context"
	"time"
)

type ReviewStore interface {
	// Insert persists one classified review and returns its assigned id.
	// Ids are strictly increasing until Reset. A nil at lets the store
	// default the timestamp to the moment of insertion.
	Insert(ctx context.Context, product, comment string, s Sentiment, confidence float64, at *time.Time) (int64, error)

	// ReadAll returns every stored record in id order. An empty store is
	// an empty slice, not an error.
	ReadAll(ctx context.Context) ([]Review, error)

	// Reset atomically removes every record and rewinds the id sequence
	// to its initial value.
	Reset(ctx context.Context) error
}

// SentimentScorer is the pretrained scoring capability behind the
// classifier. Implementations return the model's top label verbatim;
// remapping to canonical codes is the caller's job.
type SentimentScorer interface {
	Score(ctx context.Context, text string) (label string, score float64, err error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// AuditLog records operator-visible events after successful operations.
// Implementations are fire-and-forget: they must never return an error to
// the originating operation.
type AuditLog interface {
	Event(msg string)
}
