package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"nivesh_pathshala/services/ipo"
	"nivesh_pathshala/services/news"
)

// IPOController serves IPO listings and IPO-tagged news.
type IPOController struct {
	ipos *ipo.Service
	news *news.Service
}

// NewIPOController creates a new IPO controller
func NewIPOController(ipos *ipo.Service, newsService *news.Service) *IPOController {
	return &IPOController{ipos: ipos, news: newsService}
}

// GetIPOs returns the merged IPO list with freshness metadata.
// GET /api/ipo
func (ic *IPOController) GetIPOs(c *gin.Context) {
	list := ic.ipos.Get(c.Request.Context())

	status := strings.ToLower(strings.TrimSpace(c.Query("status")))
	if status != "" {
		filtered := make([]ipo.IPO, 0, len(list.IPOs))
		for _, item := range list.IPOs {
			if item.Status == status {
				filtered = append(filtered, item)
			}
		}
		list.IPOs = filtered
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       list.IPOs,
		"count":      len(list.IPOs),
		"source":     list.Source,
		"is_stale":   list.IsStale,
		"fetched_at": list.FetchedAt,
	})
}

// GetIPONews returns news articles tagged with the IPO category.
// GET /api/ipo/news
func (ic *IPOController) GetIPONews(c *gin.Context) {
	articles := ic.news.ByCategory(c.Request.Context(), news.CategoryIPO)
	c.JSON(http.StatusOK, gin.H{
		"data":  articles,
		"count": len(articles),
	})
}

// GetIPO returns one IPO by its slug ID.
// GET /api/ipo/:id
func (ic *IPOController) GetIPO(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	item, ok := ic.ipos.GetByID(c.Request.Context(), id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "IPO not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": item})
}

// RefreshIPOs forces a refetch past the cache. Admin only.
// POST /api/ipo/refresh
func (ic *IPOController) RefreshIPOs(c *gin.Context) {
	list := ic.ipos.Refresh(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"message":    "IPO list refreshed",
		"count":      len(list.IPOs),
		"source":     list.Source,
		"is_stale":   list.IsStale,
		"fetched_at": list.FetchedAt,
	})
}
