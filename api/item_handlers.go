package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-wardrobe-search/model"
)

// PutItemsHandler adds or replaces items. The body is one item or an array of
// items; items without an itemID get a generated one.
func (api *API) PutItemsHandler(c *gin.Context) {
	closet, name, ok := api.closet(c)
	if !ok {
		return
	}

	var raw json.RawMessage
	if result := ValidateJSONBinding(c, &raw); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	items, err := decodeItems(raw)
	if err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	if result := ValidateItems(items); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	ids, err := closet.PutItems(items)
	if err != nil {
		if !SendEngineError(c, name, err) {
			SendIndexingError(c, "add items", err)
		}
		return
	}
	if !api.persist(c, name) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"message":  fmt.Sprintf("%d item(s) added/updated in closet '%s'", len(ids), name),
		"item_ids": ids,
	})
}

// decodeItems accepts either a single item object or an array of items.
func decodeItems(raw json.RawMessage) ([]*model.Item, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty body")
	}

	switch trimmed[0] {
	case '[':
		var items []*model.Item
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		return items, nil
	case '{':
		var item model.Item
		if err := json.Unmarshal(trimmed, &item); err != nil {
			return nil, err
		}
		return []*model.Item{&item}, nil
	default:
		return nil, fmt.Errorf("expecting an item object or an array of items")
	}
}

// ListItemsHandler lists every item of a closet ordered by ID.
func (api *API) ListItemsHandler(c *gin.Context) {
	closet, _, ok := api.closet(c)
	if !ok {
		return
	}
	items := closet.ListItems()
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

// GetItemHandler returns one item.
func (api *API) GetItemHandler(c *gin.Context) {
	closet, name, ok := api.closet(c)
	if !ok {
		return
	}
	itemID := c.Param("itemId")
	if result := ValidateItemID(itemID); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	item, err := closet.GetItem(itemID)
	if err != nil {
		if !SendEngineError(c, name, err) {
			SendInternalError(c, "item lookup", err)
		}
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteItemHandler removes one item.
func (api *API) DeleteItemHandler(c *gin.Context) {
	closet, name, ok := api.closet(c)
	if !ok {
		return
	}
	itemID := c.Param("itemId")
	if result := ValidateItemID(itemID); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if err := closet.DeleteItem(itemID); err != nil {
		if !SendEngineError(c, name, err) {
			SendIndexingError(c, "delete item", err)
		}
		return
	}
	if !api.persist(c, name) {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "deleted",
		"message": "Item '" + itemID + "' deleted from closet '" + name + "'",
	})
}

// DeleteAllItemsHandler empties a closet.
func (api *API) DeleteAllItemsHandler(c *gin.Context) {
	closet, name, ok := api.closet(c)
	if !ok {
		return
	}

	if err := closet.DeleteAllItems(); err != nil {
		SendIndexingError(c, "delete all items", err)
		return
	}
	if !api.persist(c, name) {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "deleted",
		"message": "All items deleted from closet '" + name + "'",
	})
}
