package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/gamelookup/internal/domain"
	"github.com/kitbuilder587/gamelookup/internal/metrics"
	"github.com/kitbuilder587/gamelookup/internal/search"
)

const (
	OutcomeOK           = "ok"
	OutcomeInvalidInput = "invalid_input"
	OutcomeCancelled    = "cancelled"
	OutcomeError        = "error"
)

type LookupResult struct {
	Query   domain.SearchQuery
	Summary domain.GameSummary
}

type LookupServiceDeps struct {
	Fetcher search.Fetcher
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// LookupService runs one lookup: validate the name, fetch the first match,
// project it. It keeps no state between calls.
type LookupService struct {
	fetcher search.Fetcher
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewLookupService(deps LookupServiceDeps) *LookupService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &LookupService{
		fetcher: deps.Fetcher,
		logger:  deps.Logger,
		metrics: deps.Metrics,
	}
}

// Lookup returns a *domain.InvalidInputError, a *search.FetchError or
// context.Canceled on failure.
func (s *LookupService) Lookup(ctx context.Context, rawName string) (*LookupResult, error) {
	query, err := domain.NewSearchQuery(rawName)
	if err != nil {
		s.recordLookup(OutcomeInvalidInput)
		return nil, err
	}

	s.logger.Debug("searching for game", zap.Stringer("query", query))

	start := time.Now()
	rec, err := s.fetcher.Fetch(ctx, query)
	status := fetchStatus(err)
	if s.metrics != nil {
		s.metrics.RecordFetchRequest(status, time.Since(start))
	}
	if err != nil {
		s.recordLookup(status)
		return nil, err
	}

	summary, degraded := domain.ProjectWithStatus(rec)
	if degraded {
		s.logger.Warn("HTML parsing failed, showing raw description")
		if s.metrics != nil {
			s.metrics.RecordStripFallback()
		}
	}

	s.recordLookup(OutcomeOK)
	return &LookupResult{Query: query, Summary: summary}, nil
}

func (s *LookupService) recordLookup(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordLookup(outcome)
	}
}

func fetchStatus(err error) string {
	if err == nil {
		return OutcomeOK
	}
	if kind, ok := search.KindOf(err); ok {
		return kind.String()
	}
	if errors.Is(err, context.Canceled) {
		return OutcomeCancelled
	}
	return OutcomeError
}
