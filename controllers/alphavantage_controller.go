package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"nivesh_pathshala/services/marketdata"
)

// AlphaVantageController exposes the same acquisition layer under the
// paths the charting widgets call directly.
type AlphaVantageController struct {
	quotes *marketdata.QuoteService
}

// NewAlphaVantageController creates a new controller
func NewAlphaVantageController(quotes *marketdata.QuoteService) *AlphaVantageController {
	return &AlphaVantageController{quotes: quotes}
}

// GetQuote returns a single quote.
// GET /api/alphavantage/quote/:symbol
func (ac *AlphaVantageController) GetQuote(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol is required"})
		return
	}

	quote := ac.quotes.GetQuote(c.Request.Context(), symbol)
	c.JSON(http.StatusOK, gin.H{"data": quote})
}

// GetIntraday returns 5-minute bars for charting.
// GET /api/alphavantage/intraday/:symbol
func (ac *AlphaVantageController) GetIntraday(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol is required"})
		return
	}

	candles := ac.quotes.Intraday(c.Request.Context(), symbol)
	c.JSON(http.StatusOK, gin.H{
		"symbol": symbol,
		"data":   candles,
		"count":  len(candles),
	})
}

// Search looks up symbols.
// GET /api/alphavantage/search?q=
func (ac *AlphaVantageController) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	matches := ac.quotes.Search(c.Request.Context(), query)
	c.JSON(http.StatusOK, gin.H{
		"data":  matches,
		"count": len(matches),
	})
}

// GetStatus reports provider configuration and cache state.
// GET /api/alphavantage/status
func (ac *AlphaVantageController) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, ac.quotes.Status())
}
