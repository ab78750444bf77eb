// Package search parses closet queries and ranks the items of a closet
// against them.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/gcbaptista/go-wardrobe-search/config"
	"github.com/gcbaptista/go-wardrobe-search/index"
	apperrors "github.com/gcbaptista/go-wardrobe-search/internal/errors"
	"github.com/gcbaptista/go-wardrobe-search/internal/metrics"
	"github.com/gcbaptista/go-wardrobe-search/internal/parser"
	"github.com/gcbaptista/go-wardrobe-search/model"
	"github.com/gcbaptista/go-wardrobe-search/services"
)

// maxParallelQueries bounds the goroutines of one multi-search.
const maxParallelQueries = 8

// Service implements the search logic for a single closet.
// It fulfills the services.Searcher and services.MultiSearcher interfaces.
//
// Service does no locking of its own; the closet holds a read lock on the
// index for the duration of Search and MultiSearch.
type Service struct {
	index    *index.CategoryIndex[*model.Item]
	parser   *parser.Parser
	settings *config.ClosetSettings
	metrics  *metrics.Metrics
}

// NewService creates a new search Service. m may be nil.
func NewService(idx *index.CategoryIndex[*model.Item], p *parser.Parser, settings *config.ClosetSettings, m *metrics.Metrics) (*Service, error) {
	if idx == nil {
		return nil, fmt.Errorf("category index cannot be nil")
	}
	if p == nil {
		return nil, fmt.Errorf("parser cannot be nil")
	}
	if settings == nil {
		return nil, fmt.Errorf("settings cannot be nil")
	}
	return &Service{index: idx, parser: p, settings: settings, metrics: m}, nil
}

// Parse parses an expression with the closet grammar.
func (s *Service) Parse(expression string) (*model.ClothingAddress, error) {
	return s.parser.Parse(expression)
}

// Search parses query.Query and ranks the closet items against it.
func (s *Service) Search(query services.SearchQuery) (services.SearchResult, error) {
	startTime := time.Now()

	addr, err := s.parser.Parse(query.Query)
	if err != nil {
		var pe *apperrors.ParseError
		if errors.As(err, &pe) {
			s.metrics.ObserveParseError(s.settings.Name, pe.KindName())
		}
		return services.SearchResult{}, err
	}
	addr.Limit = s.effectiveLimit(query.Limit)

	// An empty address matches nothing, so the index is not consulted.
	var ranking Ranking[*model.Item]
	if !addr.IsEmpty() {
		ranking = Rank(s.index, addr)
	}
	hits := make([]services.HitResult, len(ranking.Hits))
	for i, h := range ranking.Hits {
		hits[i] = services.HitResult{Item: h.Item, Hits: h.Hits}
	}

	took := time.Since(startTime)
	s.metrics.ObserveSearch(s.settings.Name, took, len(hits))

	return services.SearchResult{
		Hits:    hits,
		Total:   ranking.Total,
		Limit:   addr.Limit,
		Address: addr,
		Took:    took.Milliseconds(),
		QueryId: uuid.New().String(),
	}, nil
}

func (s *Service) effectiveLimit(requested *int) int {
	limit := s.settings.DefaultLimit
	if requested != nil {
		limit = *requested
	}
	if limit < 0 {
		return model.NoLimit
	}
	return limit
}

// MultiSearch executes multiple named queries concurrently. The first failing
// query cancels the rest and its error is returned.
func (s *Service) MultiSearch(ctx context.Context, multiQuery services.MultiSearchQuery) (*services.MultiSearchResult, error) {
	startTime := time.Now()

	if len(multiQuery.Queries) == 0 {
		return nil, apperrors.NewValidationError("queries", "at least one query is required")
	}
	seen := make(map[string]struct{}, len(multiQuery.Queries))
	for _, nq := range multiQuery.Queries {
		if nq.Name == "" {
			return nil, apperrors.NewValidationError("queries", "each query must have a non-empty name")
		}
		if _, dup := seen[nq.Name]; dup {
			return nil, apperrors.NewValidationError("queries", fmt.Sprintf("duplicate query name '%s'", nq.Name))
		}
		seen[nq.Name] = struct{}{}
	}

	results := make([]services.SearchResult, len(multiQuery.Queries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelQueries)
	for i, nq := range multiQuery.Queries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			limit := nq.Limit
			if limit == nil {
				limit = multiQuery.Limit
			}
			result, err := s.Search(services.SearchQuery{Query: nq.Query, Limit: limit})
			if err != nil {
				return fmt.Errorf("error executing query '%s': %w", nq.Name, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("multi-search cancelled: %w", ctxErr)
		}
		return nil, err
	}

	byName := make(map[string]services.SearchResult, len(results))
	for i, nq := range multiQuery.Queries {
		byName[nq.Name] = results[i]
	}

	return &services.MultiSearchResult{
		Results:          byName,
		TotalQueries:     len(multiQuery.Queries),
		ProcessingTimeMs: float64(time.Since(startTime).Nanoseconds()) / 1e6,
	}, nil
}
