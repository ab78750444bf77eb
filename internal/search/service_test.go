package search

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-wardrobe-search/config"
	"github.com/gcbaptista/go-wardrobe-search/index"
	apperrors "github.com/gcbaptista/go-wardrobe-search/internal/errors"
	"github.com/gcbaptista/go-wardrobe-search/internal/metrics"
	"github.com/gcbaptista/go-wardrobe-search/internal/parser"
	"github.com/gcbaptista/go-wardrobe-search/model"
	"github.com/gcbaptista/go-wardrobe-search/services"
)

// --- Test Helpers ---

func newTestClosetSettings() *config.ClosetSettings {
	s := &config.ClosetSettings{Name: "test_closet"}
	s.ApplyDefaults()
	return s
}

func setupTestSearchService(t *testing.T, settings *config.ClosetSettings, m *metrics.Metrics) *Service {
	t.Helper()
	if settings == nil {
		settings = newTestClosetSettings()
	}

	p, err := parser.NewParser(settings.Grammar)
	require.NoError(t, err)

	svc, err := NewService(scenarioIndex(), p, settings, m)
	require.NoError(t, err)
	return svc
}

func hitIDs(r services.SearchResult) []string {
	out := make([]string, len(r.Hits))
	for i, h := range r.Hits {
		out[i] = h.Item.ItemID
	}
	return out
}

func intPtr(i int) *int { return &i }

// --- Test Cases ---

func TestNewService_NilArguments(t *testing.T) {
	settings := newTestClosetSettings()
	p, err := parser.NewParser(settings.Grammar)
	require.NoError(t, err)

	_, err = NewService(nil, p, settings, nil)
	assert.Error(t, err)
	_, err = NewService(index.NewCategoryIndex[*model.Item](), nil, settings, nil)
	assert.Error(t, err)
	_, err = NewService(index.NewCategoryIndex[*model.Item](), p, nil, nil)
	assert.Error(t, err)
}

func TestSearch(t *testing.T) {
	svc := setupTestSearchService(t, nil, nil)

	result, err := svc.Search(services.SearchQuery{Query: "brand=nike;size=m;"})
	require.NoError(t, err)

	assert.Equal(t, []string{"B", "C", "A"}, hitIDs(result))
	assert.Equal(t, 2, result.Hits[2].Hits)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, model.NoLimit, result.Limit)
	assert.Equal(t, []string{"nike"}, result.Address.Brands)
	assert.NotEmpty(t, result.QueryId)
}

func TestSearch_Limits(t *testing.T) {
	tests := []struct {
		name         string
		defaultLimit int
		limit        *int
		want         []string
	}{
		{"no limit anywhere", 0, nil, []string{"B", "C", "A"}},
		{"closet default applies", 1, nil, []string{"A"}},
		{"request overrides default", 1, intPtr(2), []string{"C", "A"}},
		{"request zero means unbounded", 1, intPtr(0), []string{"B", "C", "A"}},
		{"negative means unbounded", 0, intPtr(-3), []string{"B", "C", "A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := newTestClosetSettings()
			settings.DefaultLimit = tt.defaultLimit
			svc := setupTestSearchService(t, settings, nil)

			result, err := svc.Search(services.SearchQuery{Query: "brand=nike;size=m;", Limit: tt.limit})
			require.NoError(t, err)
			assert.Equal(t, tt.want, hitIDs(result))
			assert.Equal(t, 3, result.Total)
		})
	}
}

func TestSearch_InvalidQuery(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	svc := setupTestSearchService(t, nil, m)

	_, err := svc.Search(services.SearchQuery{Query: "brand=adidas,"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnterminatedExpression))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ParseErrorsTotal.WithLabelValues("unterminated_expression")))
}

func TestSearch_RecordsMetrics(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	svc := setupTestSearchService(t, nil, m)

	_, err := svc.Search(services.SearchQuery{Query: "color=purple;"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchesTotal.WithLabelValues("test_closet", metrics.OutcomeZeroResult)))
}

func TestSearch_EmptyQuery(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	svc := setupTestSearchService(t, nil, m)

	for _, q := range []string{"", "   ", "brand=;"} {
		result, err := svc.Search(services.SearchQuery{Query: q, Limit: intPtr(2)})
		require.NoError(t, err, "query %q", q)
		assert.NotNil(t, result.Hits, "query %q", q)
		assert.Empty(t, result.Hits, "query %q", q)
		assert.Equal(t, 0, result.Total, "query %q", q)
		assert.Equal(t, 2, result.Limit, "query %q", q)
		assert.True(t, result.Address.IsEmpty(), "query %q", q)
		assert.NotEmpty(t, result.QueryId, "query %q", q)
	}
	assert.Equal(t, 3.0, testutil.ToFloat64(m.SearchesTotal.WithLabelValues("test_closet", metrics.OutcomeZeroResult)))
}

func TestSearch_CustomGrammar(t *testing.T) {
	settings := newTestClosetSettings()
	settings.Grammar = config.Grammar{Equality: ":", Separator: "/", Terminator: "."}
	settings.Grammar.ApplyDefaults()
	svc := setupTestSearchService(t, settings, nil)

	result, err := svc.Search(services.SearchQuery{Query: "brand:adidas/puma."})
	require.NoError(t, err)
	assert.Equal(t, []string{"C"}, hitIDs(result))
}

func TestMultiSearch(t *testing.T) {
	svc := setupTestSearchService(t, nil, nil)

	res, err := svc.MultiSearch(context.Background(), services.MultiSearchQuery{
		Limit: intPtr(1),
		Queries: []services.NamedSearchQuery{
			{Name: "nike", Query: "brand=nike;"},
			{Name: "medium", Query: "size=m;", Limit: intPtr(0)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, res.TotalQueries)
	assert.Equal(t, []string{"B"}, hitIDs(res.Results["nike"]))
	assert.Equal(t, []string{"A", "C"}, hitIDs(res.Results["medium"]))
}

func TestMultiSearch_Validation(t *testing.T) {
	svc := setupTestSearchService(t, nil, nil)

	tests := []struct {
		name    string
		queries []services.NamedSearchQuery
	}{
		{"no queries", nil},
		{"missing name", []services.NamedSearchQuery{{Query: "brand=nike;"}}},
		{"duplicate name", []services.NamedSearchQuery{{Name: "q", Query: "brand=nike;"}, {Name: "q", Query: "size=m;"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.MultiSearch(context.Background(), services.MultiSearchQuery{Queries: tt.queries})
			assert.True(t, errors.Is(err, apperrors.ErrInvalidInput), "got %v", err)
		})
	}
}

func TestMultiSearch_FailingQuery(t *testing.T) {
	svc := setupTestSearchService(t, nil, nil)

	_, err := svc.MultiSearch(context.Background(), services.MultiSearchQuery{
		Queries: []services.NamedSearchQuery{
			{Name: "ok", Query: "brand=nike;"},
			{Name: "bad", Query: "xyz=1;"},
		},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnknownField))
	assert.Contains(t, err.Error(), "'bad'")
}

func TestMultiSearch_Cancelled(t *testing.T) {
	svc := setupTestSearchService(t, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.MultiSearch(ctx, services.MultiSearchQuery{
		Queries: []services.NamedSearchQuery{{Name: "q", Query: "brand=nike;"}},
	})
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}
