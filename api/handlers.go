package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-wardrobe-search/internal/logger"
	"github.com/gcbaptista/go-wardrobe-search/internal/metrics"
	"github.com/gcbaptista/go-wardrobe-search/services"
)

// API holds dependencies for API handlers, primarily the closet manager.
type API struct {
	engine  services.ClosetManager
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures the API.
type Option func(*API)

// WithLogger sets the logger used for request and failure logging.
func WithLogger(l *slog.Logger) Option {
	return func(a *API) { a.logger = l }
}

// WithMetrics exposes m on /metrics and records request metrics in it.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *API) { a.metrics = m }
}

// NewAPI creates a new API handler structure.
func NewAPI(engine services.ClosetManager, opts ...Option) *API {
	a := &API{engine: engine, logger: logger.Discard()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SetupRoutes defines all the API routes for the wardrobe service.
func SetupRoutes(router *gin.Engine, engine services.ClosetManager, opts ...Option) {
	apiHandler := NewAPI(engine, opts...)

	router.Use(RequestIDMiddleware(), RequestLoggerMiddleware(apiHandler.logger, apiHandler.metrics))

	router.GET("/health", apiHandler.HealthCheckHandler)
	if apiHandler.metrics != nil {
		router.GET("/metrics", gin.WrapH(apiHandler.metrics.Handler()))
	}

	closetRoutes := router.Group("/closets")
	{
		closetRoutes.POST("", apiHandler.CreateClosetHandler)                          // Create a new closet
		closetRoutes.GET("", apiHandler.ListClosetsHandler)                            // List all closets
		closetRoutes.GET("/:name", apiHandler.GetClosetHandler)                        // Get closet settings
		closetRoutes.DELETE("/:name", apiHandler.DeleteClosetHandler)                  // Delete a closet
		closetRoutes.PATCH("/:name/settings", apiHandler.UpdateClosetSettingsHandler) // Update closet settings
		closetRoutes.GET("/:name/stats", apiHandler.GetClosetStatsHandler)            // Get closet statistics

		itemRoutes := closetRoutes.Group("/:name/items")
		{
			itemRoutes.PUT("", apiHandler.PutItemsHandler)               // Add/Update items
			itemRoutes.GET("", apiHandler.ListItemsHandler)              // List items
			itemRoutes.DELETE("", apiHandler.DeleteAllItemsHandler)      // Delete all items
			itemRoutes.GET("/:itemId", apiHandler.GetItemHandler)       // Get specific item
			itemRoutes.DELETE("/:itemId", apiHandler.DeleteItemHandler) // Delete specific item
		}

		closetRoutes.POST("/:name/_search", apiHandler.SearchHandler)
		closetRoutes.POST("/:name/_parse", apiHandler.ParseHandler)
		closetRoutes.POST("/:name/_msearch", apiHandler.MultiSearchHandler)
	}
}

// HealthCheckHandler returns the health status of the service
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"closets": len(api.engine.ListClosets()),
	})
}

// closet resolves the :name parameter, writing the error response itself when
// the name is invalid or unknown.
func (api *API) closet(c *gin.Context) (services.ClosetAccessor, string, bool) {
	name := c.Param("name")
	if result := ValidateClosetName(name); result.HasErrors() {
		SendValidationError(c, result)
		return nil, name, false
	}

	closet, err := api.engine.GetCloset(name)
	if err != nil {
		if !SendEngineError(c, name, err) {
			SendInternalError(c, "closet lookup", err)
		}
		return nil, name, false
	}
	return closet, name, true
}

// persist writes the closet to disk after a mutation and reports whether it
// succeeded; on failure the error response has been sent.
func (api *API) persist(c *gin.Context, name string) bool {
	if err := api.engine.PersistClosetData(name); err != nil {
		api.logger.Error("failed to persist closet", "closet", name, "error", err)
		SendPersistenceError(c, name, err)
		return false
	}
	return true
}
