package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/gcbaptista/go-wardrobe-search/config"
	"github.com/gcbaptista/go-wardrobe-search/index"
	"github.com/gcbaptista/go-wardrobe-search/internal/errors"
	"github.com/gcbaptista/go-wardrobe-search/internal/metrics"
	"github.com/gcbaptista/go-wardrobe-search/internal/parser"
	"github.com/gcbaptista/go-wardrobe-search/internal/search"
	"github.com/gcbaptista/go-wardrobe-search/model"
	"github.com/gcbaptista/go-wardrobe-search/services"
	"github.com/gcbaptista/go-wardrobe-search/store"
)

// ClosetInstance holds all components and services for a single closet.
// It implements the services.ClosetAccessor interface.
//
// mu serializes writers against searches: the category index itself does no
// locking, so every index read happens under mu.RLock and every add or
// remove under mu.Lock.
type ClosetInstance struct {
	mu       sync.RWMutex
	settings *config.ClosetSettings
	store    *store.ItemStore
	index    *index.CategoryIndex[*model.Item]
	searcher *search.Service
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// newClosetInstance builds a closet over items and indexes all of them.
func newClosetInstance(settings config.ClosetSettings, items *store.ItemStore, logger *slog.Logger, m *metrics.Metrics) (*ClosetInstance, error) {
	if settings.Name == "" {
		return nil, fmt.Errorf("closet name cannot be empty in settings")
	}

	idx := index.NewCategoryIndex[*model.Item]()
	for _, item := range items.All() {
		idx.Add(item)
	}

	instance := &ClosetInstance{
		store:   items,
		index:   idx,
		logger:  logger.With("closet", settings.Name),
		metrics: m,
	}
	if err := instance.applySettings(settings); err != nil {
		return nil, err
	}
	m.SetItemsIndexed(settings.Name, idx.Len())
	return instance, nil
}

// applySettings swaps in settings and a searcher compiled from its grammar.
func (i *ClosetInstance) applySettings(settings config.ClosetSettings) error {
	p, err := parser.NewParser(settings.Grammar)
	if err != nil {
		return fmt.Errorf("failed to compile grammar: %w", err)
	}
	searcher, err := search.NewService(i.index, p, &settings, i.metrics)
	if err != nil {
		return fmt.Errorf("failed to create search service: %w", err)
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	i.settings = &settings
	i.searcher = searcher
	return nil
}

// PutItems validates and upserts items. An item without an ID gets a fresh
// UUID. A replaced item leaves every bucket of its old version before the new
// version is indexed. It returns the IDs in input order.
func (i *ClosetInstance) PutItems(items []*model.Item) ([]string, error) {
	prepared := make([]*model.Item, len(items))
	for n, item := range items {
		if item == nil {
			return nil, errors.NewValidationError(fmt.Sprintf("items[%d]", n), "item cannot be null")
		}
		c := item.Clone()
		c.ItemID = strings.TrimSpace(c.ItemID)
		if c.ItemID == "" {
			c.ItemID = uuid.New().String()
		}
		if c.Size != model.SizeUnspecified && !c.Size.Valid() {
			return nil, errors.NewValidationError(fmt.Sprintf("items[%d].size", n), fmt.Sprintf("unknown size %d", int(c.Size)))
		}
		prepared[n] = c
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	ids := make([]string, len(prepared))
	for n, item := range prepared {
		if old, existed := i.store.Put(item); existed {
			i.index.Remove(old)
		}
		i.index.Add(item)
		ids[n] = item.ItemID
	}

	i.metrics.SetItemsIndexed(i.settings.Name, i.index.Len())
	i.logger.Debug("items upserted", "count", len(prepared), "total", i.index.Len())
	return ids, nil
}

// DeleteItem removes an item from the store and from every bucket.
func (i *ClosetInstance) DeleteItem(itemID string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	old, ok := i.store.Delete(itemID)
	if !ok {
		return errors.NewItemNotFoundError(itemID, i.settings.Name)
	}
	i.index.Remove(old)

	i.metrics.SetItemsIndexed(i.settings.Name, i.index.Len())
	i.logger.Debug("item deleted", "item", itemID)
	return nil
}

// DeleteAllItems empties the closet.
func (i *ClosetInstance) DeleteAllItems() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	for _, item := range i.store.All() {
		i.store.Delete(item.ItemID)
	}
	i.index.Clear()

	i.metrics.SetItemsIndexed(i.settings.Name, 0)
	i.logger.Info("all items deleted")
	return nil
}

// GetItem returns a copy of the item with the given ID.
func (i *ClosetInstance) GetItem(itemID string) (*model.Item, error) {
	item, ok := i.store.Get(itemID)
	if !ok {
		return nil, errors.NewItemNotFoundError(itemID, i.Settings().Name)
	}
	return item.Clone(), nil
}

// ListItems returns copies of all items ordered by ID.
func (i *ClosetInstance) ListItems() []*model.Item {
	all := i.store.All()
	out := make([]*model.Item, len(all))
	for n, item := range all {
		out[n] = item.Clone()
	}
	return out
}

// Parse parses an expression with the closet grammar.
func (i *ClosetInstance) Parse(expression string) (*model.ClothingAddress, error) {
	i.mu.RLock()
	searcher := i.searcher
	i.mu.RUnlock()
	return searcher.Parse(expression)
}

// Search ranks the closet items against query.
func (i *ClosetInstance) Search(query services.SearchQuery) (services.SearchResult, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.searcher.Search(query)
}

// MultiSearch runs several queries against one consistent view of the closet.
func (i *ClosetInstance) MultiSearch(ctx context.Context, query services.MultiSearchQuery) (*services.MultiSearchResult, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.searcher.MultiSearch(ctx, query)
}

// Settings returns the configuration settings for this closet.
func (i *ClosetInstance) Settings() config.ClosetSettings {
	i.mu.RLock()
	defer i.mu.RUnlock()
	s := *i.settings
	s.Grammar.Keys = cloneKeys(s.Grammar.Keys)
	return s
}

// Stats summarizes the closet index.
func (i *ClosetInstance) Stats() services.ClosetStats {
	i.mu.RLock()
	defer i.mu.RUnlock()

	values := make(map[string]int, len(model.AllDimensions))
	for _, d := range model.AllDimensions {
		values[string(d)] = len(i.index.Values(d))
	}
	return services.ClosetStats{
		Name:        i.settings.Name,
		ItemCount:   i.store.Len(),
		BucketCount: i.index.BucketCount(),
		Values:      values,
	}
}
