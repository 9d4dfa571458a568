package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"nivesh_pathshala/services/marketdata"
)

// MarketController serves the public market data endpoints backed by
// the quote fallback chain.
type MarketController struct {
	quotes *marketdata.QuoteService
}

// NewMarketController creates a new market controller
func NewMarketController(quotes *marketdata.QuoteService) *MarketController {
	return &MarketController{quotes: quotes}
}

// GetLive returns the fixed website basket of indices and stocks.
// GET /api/market/live
func (mc *MarketController) GetLive(c *gin.Context) {
	quotes := mc.quotes.Live(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"data":  quotes,
		"count": len(quotes),
	})
}

// GetQuote returns one quote by internal symbol.
// GET /api/market/quote/:symbol
func (mc *MarketController) GetQuote(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol is required"})
		return
	}

	quote := mc.quotes.GetQuote(c.Request.Context(), symbol)
	c.JSON(http.StatusOK, gin.H{"data": quote})
}

// Search looks up symbols by name or code.
// GET /api/market/search?q=
func (mc *MarketController) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	matches := mc.quotes.Search(c.Request.Context(), query)
	c.JSON(http.StatusOK, gin.H{
		"data":  matches,
		"count": len(matches),
	})
}
