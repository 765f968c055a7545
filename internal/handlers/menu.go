package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"salchimonster-backend/internal/menu"
)

type MenuHandler struct {
	cache  *menu.Cache
	siteID int
}

func NewMenuHandler(cache *menu.Cache, siteID int) *MenuHandler {
	return &MenuHandler{cache: cache, siteID: siteID}
}

// GetMenu returns the menu of the configured site
func (h *MenuHandler) GetMenu(c *gin.Context) {
	m, err := h.cache.GetMenu(c.Request.Context(), h.siteID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch menu"})
		return
	}
	c.JSON(http.StatusOK, m)
}

// GetSiteMenu returns the menu of an explicit site
func (h *MenuHandler) GetSiteMenu(c *gin.Context) {
	siteID, err := strconv.Atoi(c.Param("site_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid site ID"})
		return
	}

	m, err := h.cache.GetMenu(c.Request.Context(), siteID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch menu"})
		return
	}
	c.JSON(http.StatusOK, m)
}

// RefreshMenu drops the cached menu for a site (admin only)
func (h *MenuHandler) RefreshMenu(c *gin.Context) {
	siteID, err := strconv.Atoi(c.Param("site_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid site ID"})
		return
	}

	h.cache.Invalidate(siteID)
	c.JSON(http.StatusOK, gin.H{"message": "Menu cache invalidated"})
}
