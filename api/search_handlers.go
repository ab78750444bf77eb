package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-wardrobe-search/services"
)

// SearchRequest is the body of a search: a query expression in the closet
// grammar plus an optional result cap.
type SearchRequest struct {
	Query string `json:"query"`
	Limit *int   `json:"limit,omitempty"` // Overrides the closet default limit; 0 means unbounded
}

// ParseRequest is the body of a parse-only request.
type ParseRequest struct {
	Query string `json:"query"`
}

// MultiSearchRequest runs several named searches against one closet.
type MultiSearchRequest struct {
	Queries []services.NamedSearchQuery `json:"queries"`
	Limit   *int                        `json:"limit,omitempty"`
}

// SearchHandler handles search requests to a closet.
// Hits are ordered weakest match first.
func (api *API) SearchHandler(c *gin.Context) {
	closet, name, ok := api.closet(c)
	if !ok {
		return
	}

	var req SearchRequest
	if result := ValidateJSONBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	result := &ValidationResult{Valid: true}
	ValidateLimit("limit", req.Limit, result)
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	results, err := closet.Search(services.SearchQuery{Query: req.Query, Limit: req.Limit})
	if err != nil {
		if !SendEngineError(c, name, err) {
			SendSearchError(c, name, err)
		}
		return
	}

	c.JSON(http.StatusOK, results)
}

// ParseHandler parses an expression with the closet grammar without searching.
func (api *API) ParseHandler(c *gin.Context) {
	closet, name, ok := api.closet(c)
	if !ok {
		return
	}

	var req ParseRequest
	if result := ValidateJSONBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	addr, err := closet.Parse(req.Query)
	if err != nil {
		if !SendEngineError(c, name, err) {
			SendSearchError(c, name, err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"address": addr})
}

// MultiSearchHandler runs several named queries concurrently against one closet.
func (api *API) MultiSearchHandler(c *gin.Context) {
	closet, name, ok := api.closet(c)
	if !ok {
		return
	}

	var req MultiSearchRequest
	if result := ValidateJSONBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	result := &ValidationResult{Valid: true}
	if len(req.Queries) == 0 {
		result.AddError("queries", "At least one query is required")
	}
	ValidateLimit("limit", req.Limit, result)
	for i, q := range req.Queries {
		ValidateLimit(fmt.Sprintf("queries[%d].limit", i), q.Limit, result)
	}
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	results, err := closet.MultiSearch(c.Request.Context(), services.MultiSearchQuery{
		Queries: req.Queries,
		Limit:   req.Limit,
	})
	if err != nil {
		if !SendEngineError(c, name, err) {
			SendSearchError(c, name, err)
		}
		return
	}

	c.JSON(http.StatusOK, results)
}
