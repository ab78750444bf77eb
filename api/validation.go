// Package api provides the HTTP surface of the wardrobe service.
package api

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-wardrobe-search/config"
	"github.com/gcbaptista/go-wardrobe-search/model"
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidateClosetName validates a closet name parameter
func ValidateClosetName(closetName string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if closetName == "" {
		result.AddError("closetName", "Closet name is required")
		return result
	}

	if strings.TrimSpace(closetName) != closetName {
		result.AddError("closetName", "Closet name cannot have leading or trailing whitespace")
	}

	return result
}

// ValidateItemID validates an item ID path parameter
func ValidateItemID(itemID string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if itemID == "" {
		result.AddError("itemID", "Item ID is required")
		return result
	}

	if strings.TrimSpace(itemID) != itemID {
		result.AddError("itemID", "Item ID cannot have leading or trailing whitespace")
	}

	return result
}

// ValidateClosetSettings validates the request-level fields of closet settings.
// Grammar problems are reported by the engine once defaults are applied.
func ValidateClosetSettings(settings *config.ClosetSettings) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if settings == nil {
		result.AddError("settings", "Closet settings are required")
		return result
	}

	nameResult := ValidateClosetName(settings.Name)
	result.Errors = append(result.Errors, nameResult.Errors...)
	if nameResult.Valid && !config.ValidClosetName(settings.Name) {
		result.AddError("name", "Closet name must start with a letter or digit and use only letters, digits, '_', '-' or '.'")
	}
	if settings.DefaultLimit < 0 {
		result.AddError("default_limit", "Default limit cannot be negative")
	}
	result.Valid = !result.HasErrors()

	return result
}

// ValidateItems validates a batch of items for upsert
func ValidateItems(items []*model.Item) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if len(items) == 0 {
		result.AddError("items", "No items provided")
		return result
	}

	seen := make(map[string]int, len(items))
	for i, item := range items {
		if item == nil {
			result.AddError(fmt.Sprintf("items[%d]", i), "Item cannot be null")
			continue
		}
		id := strings.TrimSpace(item.ItemID)
		if id == "" {
			continue
		}
		if first, dup := seen[id]; dup {
			result.AddError(fmt.Sprintf("items[%d].itemID", i), fmt.Sprintf("Duplicate item ID '%s' (also at items[%d])", id, first))
			continue
		}
		seen[id] = i
	}

	return result
}

// ValidateLimit validates an optional result limit
func ValidateLimit(field string, limit *int, result *ValidationResult) {
	if limit != nil && *limit < 0 {
		result.AddError(field, "Limit cannot be negative")
	}
}

// SendValidationError sends a standardized validation error response
func SendValidationError(c *gin.Context, result *ValidationResult) {
	SendStructuredValidationError(c, result)
}

// ValidateJSONBinding validates JSON binding and returns a standardized error
func ValidateJSONBinding(c *gin.Context, target interface{}) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if err := c.ShouldBindJSON(target); err != nil {
		result.AddError("request_body", "Invalid request body: "+err.Error())
	}

	return result
}
