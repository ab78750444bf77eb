package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-wardrobe-search/config"
)

// CreateClosetHandler handles the request to create a new closet.
// Request Body: config.ClosetSettings
func (api *API) CreateClosetHandler(c *gin.Context) {
	var settings config.ClosetSettings
	if result := ValidateJSONBinding(c, &settings); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	if result := ValidateClosetSettings(&settings); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if err := api.engine.CreateCloset(settings); err != nil {
		if !SendEngineError(c, settings.Name, err) {
			SendPersistenceError(c, settings.Name, err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "created",
		"message": "Closet '" + settings.Name + "' created successfully",
	})
}

// ListClosetsHandler lists all closets.
func (api *API) ListClosetsHandler(c *gin.Context) {
	names := api.engine.ListClosets()
	c.JSON(http.StatusOK, gin.H{"closets": names, "count": len(names)})
}

// GetClosetHandler retrieves the settings of a closet.
func (api *API) GetClosetHandler(c *gin.Context) {
	closet, _, ok := api.closet(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, closet.Settings())
}

// DeleteClosetHandler removes a closet and its data.
func (api *API) DeleteClosetHandler(c *gin.Context) {
	name := c.Param("name")
	if result := ValidateClosetName(name); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if err := api.engine.DeleteCloset(name); err != nil {
		if !SendEngineError(c, name, err) {
			SendInternalError(c, "closet deletion", err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "deleted",
		"message": "Closet '" + name + "' deleted successfully",
	})
}

// UpdateClosetSettingsHandler replaces the grammar and default limit of a closet.
// The closet name in the body may be omitted but cannot differ from the path.
func (api *API) UpdateClosetSettingsHandler(c *gin.Context) {
	name := c.Param("name")
	if result := ValidateClosetName(name); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	var settings config.ClosetSettings
	if result := ValidateJSONBinding(c, &settings); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	if settings.Name == "" {
		settings.Name = name
	}
	if result := ValidateClosetSettings(&settings); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if err := api.engine.UpdateClosetSettings(name, settings); err != nil {
		if !SendEngineError(c, name, err) {
			SendPersistenceError(c, name, err)
		}
		return
	}

	updated, err := api.engine.GetClosetSettings(name)
	if err != nil {
		SendInternalError(c, "settings lookup", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "updated",
		"settings": updated,
	})
}

// GetClosetStatsHandler reports item and bucket counts of a closet.
func (api *API) GetClosetStatsHandler(c *gin.Context) {
	closet, _, ok := api.closet(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, closet.Stats())
}
