package app

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"starcuak/internal/domain"
)

// reportCacheKey holds the cached unfiltered report; every mutating
// operation evicts it.
const reportCacheKey = "report:all"

// AnalysisService owns the write paths: manual classification, batch
// ingestion and the destructive reset. All collaborators are injected; the
// service keeps no state of its own.
type AnalysisService struct {
	analyzer *Analyzer
	store    domain.ReviewStore
	cache    domain.Cache
	audit    domain.AuditLog
	workers  int
}

func NewAnalysisService(a *Analyzer, st domain.ReviewStore, c domain.Cache, au domain.AuditLog, workers int) *AnalysisService {
	if workers < 1 {
		workers = 1
	}
	return &AnalysisService{analyzer: a, store: st, cache: c, audit: au, workers: workers}
}

// AnalyzeOne classifies and persists a single manually submitted comment.
// An empty comment is rejected before the model is consulted and never
// reaches the store.
func (s *AnalysisService) AnalyzeOne(ctx context.Context, product, comment string) (domain.Review, error) {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return domain.Review{}, domain.ErrEmptyComment
	}
	code, conf, err := s.analyzer.Classify(ctx, comment)
	if err != nil {
		return domain.Review{}, err
	}
	id, err := s.store.Insert(ctx, product, comment, code, conf, nil)
	if err != nil {
		return domain.Review{}, err
	}
	s.invalidateReport(ctx)
	if s.audit != nil {
		s.audit.Event(fmt.Sprintf("manual analysis: %s -> %s", product, code))
	}
	return domain.Review{ID: id, Product: product, Comment: comment, Sentiment: code, Confidence: conf}, nil
}

// RowFailure records one batch row whose classification or insert failed.
// Row is the 1-based position in the input.
type RowFailure struct {
	Row int
	Err error
}

type BatchResult struct {
	Inserted int
	Failures []RowFailure
}

// IngestBatch classifies and stores every candidate. Rows run under a
// bounded worker pool: classification is side-effect-free so it may
// overlap, and each row is inserted exactly once the moment its score is
// known (insert order across rows is not significant). One row's failure
// is recorded and does not stop the rest; a failure therefore leaves the
// already-inserted rows durably committed.
func (s *AnalysisService) IngestBatch(ctx context.Context, cands []domain.Candidate) (BatchResult, error) {
	sem := semaphore.NewWeighted(int64(s.workers))
	var wg sync.WaitGroup
	var mu sync.Mutex
	var res BatchResult

	for i, cand := range cands {
		if err := sem.Acquire(ctx, 1); err != nil {
			return res, err
		}
		wg.Add(1)
		go func(row int, c domain.Candidate) {
			defer wg.Done()
			defer sem.Release(1)

			if c.Date == nil && c.RawDate != "" {
				// data-quality warning, not a failure: the store defaults
				// the timestamp at insert time
				log.Warn().Int("row", row).Str("fecha", c.RawDate).
					Msg("unparsable date, defaulting to insertion time")
			}
			err := s.ingestRow(ctx, c)
			mu.Lock()
			if err != nil {
				res.Failures = append(res.Failures, RowFailure{Row: row, Err: err})
			} else {
				res.Inserted++
			}
			mu.Unlock()
		}(i+1, cand)
	}
	wg.Wait()

	s.invalidateReport(ctx)
	if s.audit != nil {
		s.audit.Event(fmt.Sprintf("batch ingestion completed: %d inserted, %d failed", res.Inserted, len(res.Failures)))
	}
	return res, nil
}

func (s *AnalysisService) ingestRow(ctx context.Context, c domain.Candidate) error {
	code, conf, err := s.analyzer.Classify(ctx, c.Comment)
	if err != nil {
		return err
	}
	_, err = s.store.Insert(ctx, c.Product, c.Comment, code, conf, c.Date)
	return err
}

// Reset empties the store and rewinds its id sequence.
func (s *AnalysisService) Reset(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return err
	}
	s.invalidateReport(ctx)
	if s.audit != nil {
		s.audit.Event("database cleared by the operator")
	}
	return nil
}

func (s *AnalysisService) invalidateReport(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Del(ctx, reportCacheKey)
	}
}
