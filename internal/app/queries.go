package app

import (
	"context"
	"time"

	"starcuak/internal/domain"
)

// ReportService owns the read paths: the raw record listing and the
// aggregate report. Only the unfiltered report is cached — ranged views are
// rare and cheap — and the write paths evict the key on every mutation.
type ReportService struct {
	store           domain.ReviewStore
	cache           domain.Cache
	cacheTTL        time.Duration
	fallbackProduct string
}

func NewReportService(st domain.ReviewStore, c domain.Cache, ttl time.Duration, fallbackProduct string) *ReportService {
	return &ReportService{store: st, cache: c, cacheTTL: ttl, fallbackProduct: fallbackProduct}
}

func (s *ReportService) ListReviews(ctx context.Context) ([]domain.Review, error) {
	return s.store.ReadAll(ctx)
}

func (s *ReportService) Aggregate(ctx context.Context, rng *domain.DateRange) (domain.Report, error) {
	if rng == nil && s.cache != nil {
		var rep domain.Report
		if ok, _ := s.cache.Get(ctx, reportCacheKey, &rep); ok {
			return rep, nil
		}
	}
	records, err := s.store.ReadAll(ctx)
	if err != nil {
		return domain.Report{}, err
	}
	rep := BuildReport(records, rng, s.fallbackProduct)
	if rng == nil && s.cache != nil {
		_ = s.cache.Set(ctx, reportCacheKey, rep, int(s.cacheTTL.Seconds()))
	}
	return rep, nil
}
