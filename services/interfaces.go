package services

import (
	"context"

	"github.com/gcbaptista/go-wardrobe-search/config"
	"github.com/gcbaptista/go-wardrobe-search/model"
)

// HitResult is one ranked item with the number of query values it matched.
type HitResult struct {
	Item *model.Item `json:"item"`
	Hits int         `json:"hits"`
}

// SearchResult lists hits weakest match first. When a limit applies only the
// strongest Limit candidates are kept.
type SearchResult struct {
	Hits    []HitResult            `json:"hits"`
	Total   int                    `json:"total"` // Candidates matched before the limit was applied
	Limit   int                    `json:"limit"` // Effective limit; 0 means unbounded
	Address *model.ClothingAddress `json:"address"`
	Took    int64                  `json:"took"`     // milliseconds
	QueryId string                 `json:"query_id"` // unique UUID for this search query
}

// SearchQuery is a query expression plus an optional result cap. A nil Limit
// falls back to the closet's default limit.
type SearchQuery struct {
	Query string `json:"query"`
	Limit *int   `json:"limit,omitempty"`
}

// MultiSearchQuery represents a request to execute multiple named search queries
type MultiSearchQuery struct {
	Queries []NamedSearchQuery `json:"queries"`
	Limit   *int               `json:"limit,omitempty"` // Applies to queries that do not set their own
}

// NamedSearchQuery represents a single named search query within a multi-search request
type NamedSearchQuery struct {
	Name  string `json:"name"`
	Query string `json:"query"`
	Limit *int   `json:"limit,omitempty"`
}

// MultiSearchResult represents the response from a multi-search operation
type MultiSearchResult struct {
	Results          map[string]SearchResult `json:"results"`
	TotalQueries     int                     `json:"total_queries"`
	ProcessingTimeMs float64                 `json:"processing_time_ms"`
}

// ClosetStats summarizes one closet.
type ClosetStats struct {
	Name        string         `json:"name"`
	ItemCount   int            `json:"item_count"`
	BucketCount int            `json:"bucket_count"`
	Values      map[string]int `json:"values_per_dimension"`
}

// Indexer defines operations for changing the items of a closet
type Indexer interface {
	PutItems(items []*model.Item) ([]string, error)
	DeleteItem(itemID string) error
	DeleteAllItems() error
}

// ItemReader defines read access to the items of a closet
type ItemReader interface {
	GetItem(itemID string) (*model.Item, error)
	ListItems() []*model.Item
}

// QueryParser turns an expression into an address using the closet grammar
type QueryParser interface {
	Parse(expression string) (*model.ClothingAddress, error)
}

// Searcher defines operations for querying a closet
type Searcher interface {
	Search(query SearchQuery) (SearchResult, error)
}

// MultiSearcher defines operations for performing multiple queries in a single request
type MultiSearcher interface {
	MultiSearch(ctx context.Context, query MultiSearchQuery) (*MultiSearchResult, error)
}

// ClosetManager manages the lifecycle of closets
type ClosetManager interface {
	CreateCloset(settings config.ClosetSettings) error
	GetCloset(name string) (ClosetAccessor, error)
	GetClosetSettings(name string) (config.ClosetSettings, error)
	UpdateClosetSettings(name string, settings config.ClosetSettings) error
	DeleteCloset(name string) error
	ListClosets() []string
	PersistClosetData(name string) error
}

// ClosetAccessor is everything a caller can do with one closet
type ClosetAccessor interface {
	Indexer
	ItemReader
	QueryParser
	Searcher
	MultiSearcher
	Settings() config.ClosetSettings
	Stats() ClosetStats
}
