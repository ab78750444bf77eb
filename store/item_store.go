// Package store holds the items of a closet, keyed by item ID.
package store

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sort"
	"sync"

	"github.com/gcbaptista/go-wardrobe-search/model"
)

// ItemStore is the backing collection of a closet. The CategoryIndex of the
// closet is derived from it and rebuilt from it on load.
type ItemStore struct {
	Mu    sync.RWMutex
	Items map[string]*model.Item // Item ID to item
}

// gobItemStoreData is a helper struct for Gob encoding/decoding ItemStore data.
// It excludes the mutex.
type gobItemStoreData struct {
	Items map[string]*model.Item
}

// NewItemStore creates an empty store.
func NewItemStore() *ItemStore {
	return &ItemStore{Items: make(map[string]*model.Item)}
}

// Get returns the item with the given ID.
func (s *ItemStore) Get(id string) (*model.Item, bool) {
	s.Mu.RLock()
	defer s.Mu.RUnlock()
	item, ok := s.Items[id]
	return item, ok
}

// Put stores item and returns the version it replaced, if any.
func (s *ItemStore) Put(item *model.Item) (*model.Item, bool) {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	old, existed := s.Items[item.ItemID]
	s.Items[item.ItemID] = item
	return old, existed
}

// Delete removes the item with the given ID and returns it.
func (s *ItemStore) Delete(id string) (*model.Item, bool) {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	item, ok := s.Items[id]
	if ok {
		delete(s.Items, id)
	}
	return item, ok
}

// All returns every item ordered by ID.
func (s *ItemStore) All() []*model.Item {
	s.Mu.RLock()
	defer s.Mu.RUnlock()
	items := make([]*model.Item, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Compare(items[j]) < 0
	})
	return items
}

// Len returns the number of stored items.
func (s *ItemStore) Len() int {
	s.Mu.RLock()
	defer s.Mu.RUnlock()
	return len(s.Items)
}

// GobEncode implements the gob.GobEncoder interface for ItemStore.
func (s *ItemStore) GobEncode() ([]byte, error) {
	s.Mu.RLock()
	defer s.Mu.RUnlock()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(gobItemStoreData{Items: s.Items}); err != nil {
		return nil, fmt.Errorf("failed to gob encode item store data: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface for ItemStore.
func (s *ItemStore) GobDecode(data []byte) error {
	decoded := gobItemStoreData{}
	if err := gob.NewDecoder(bytes.NewBuffer(data)).Decode(&decoded); err != nil {
		return fmt.Errorf("failed to gob decode item store data: %w", err)
	}

	s.Mu.Lock()
	defer s.Mu.Unlock()

	s.Items = decoded.Items
	// An empty store decodes to a nil map.
	if s.Items == nil {
		s.Items = make(map[string]*model.Item)
	}
	for id, item := range s.Items {
		if item == nil {
			delete(s.Items, id)
		}
	}
	return nil
}
