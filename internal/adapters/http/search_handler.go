package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zephyr-app/core/internal/application/services"
	"github.com/zephyr-app/core/internal/infrastructure/logger"
)

// SearchHandler handles cross-collection search requests
type SearchHandler struct {
	searchService *services.SearchService
	logger        *logger.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService *services.SearchService, logger *logger.Logger) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		logger:        logger,
	}
}

// Search handles grouped search results. With flat=true the four result
// groups collapse into one list.
func (h *SearchHandler) Search(c echo.Context) error {
	query := c.QueryParam("q")

	if c.QueryParam("flat") == "true" {
		hits, err := h.searchService.SearchFlat(c.Request().Context(), query)
		if err != nil {
			h.logger.Error("Search failed", "error", err, "query", query)
			return echo.NewHTTPError(http.StatusInternalServerError, "Search failed")
		}
		return c.JSON(http.StatusOK, hits)
	}

	results, err := h.searchService.Search(c.Request().Context(), query)
	if err != nil {
		h.logger.Error("Search failed", "error", err, "query", query)
		return echo.NewHTTPError(http.StatusInternalServerError, "Search failed")
	}

	return c.JSON(http.StatusOK, results)
}
