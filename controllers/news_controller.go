package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"nivesh_pathshala/services/news"
)

// NewsController serves market news and the economic calendar.
type NewsController struct {
	news *news.Service
}

// NewNewsController creates a new news controller
func NewNewsController(newsService *news.Service) *NewsController {
	return &NewsController{news: newsService}
}

// GetNews returns the merged article list, optionally filtered by
// category.
// GET /api/news?category=
func (nc *NewsController) GetNews(c *gin.Context) {
	category := strings.ToLower(strings.TrimSpace(c.Query("category")))

	var articles []news.Article
	if category != "" {
		articles = nc.news.ByCategory(c.Request.Context(), category)
	} else {
		articles = nc.news.Articles(c.Request.Context())
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  articles,
		"count": len(articles),
	})
}

// GetFeatured returns the top articles for the homepage strip.
// GET /api/news/featured
func (nc *NewsController) GetFeatured(c *gin.Context) {
	articles := nc.news.Featured(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"data":  articles,
		"count": len(articles),
	})
}

// GetCategories returns the known news categories.
// GET /api/news/categories
func (nc *NewsController) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": news.Categories()})
}

// GetEconomicCalendar returns upcoming economic events.
// GET /api/economic-calendar
func (nc *NewsController) GetEconomicCalendar(c *gin.Context) {
	events := nc.news.Calendar(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"data":  events,
		"count": len(events),
	})
}
