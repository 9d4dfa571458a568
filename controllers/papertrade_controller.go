package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"nivesh_pathshala/middleware"
	"nivesh_pathshala/models"
	"nivesh_pathshala/services/marketdata"
	"nivesh_pathshala/services/papertrade"
)

// PaperTradeController serves the paper trading simulator.
type PaperTradeController struct {
	ledger *papertrade.Service
	quotes *marketdata.QuoteService
}

// NewPaperTradeController creates a new paper trade controller
func NewPaperTradeController(ledger *papertrade.Service, quotes *marketdata.QuoteService) *PaperTradeController {
	return &PaperTradeController{ledger: ledger, quotes: quotes}
}

// GetAccount returns balance, valued positions and recent trades.
// GET /api/paper-trade/account
func (pt *PaperTradeController) GetAccount(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	portfolio, err := pt.ledger.BuildPortfolio(userID, func(symbol string) (decimal.Decimal, bool) {
		quote := pt.quotes.GetQuote(c.Request.Context(), symbol)
		if quote.Price <= 0 {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(quote.Price).Round(2), true
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load account"})
		return
	}

	trades, err := pt.ledger.Trades(userID, 20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load trades"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"portfolio":     portfolio,
			"recent_trades": trades,
		},
	})
}

// Execute places a market order at the current quote price.
// POST /api/paper-trade/execute
func (pt *PaperTradeController) Execute(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var request struct {
		Side     string `json:"side" binding:"required"`
		Symbol   string `json:"symbol" binding:"required"`
		Quantity int64  `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	side := strings.ToUpper(strings.TrimSpace(request.Side))
	symbol := strings.ToUpper(strings.TrimSpace(request.Symbol))

	quote := pt.quotes.GetQuote(c.Request.Context(), symbol)
	if quote.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no price available for symbol"})
		return
	}
	price := decimal.NewFromFloat(quote.Price).Round(2)

	var trade *models.PaperTrade
	switch side {
	case models.TradeSideBuy:
		trade, err = pt.ledger.Buy(userID, symbol, request.Quantity, price)
	case models.TradeSideSell:
		trade, err = pt.ledger.Sell(userID, symbol, request.Quantity, price)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "side must be BUY or SELL"})
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, papertrade.ErrInsufficientFunds),
			errors.Is(err, papertrade.ErrInsufficientHoldings),
			errors.Is(err, papertrade.ErrInvalidQuantity),
			errors.Is(err, papertrade.ErrInvalidPrice):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to execute trade"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": trade})
}

// Reset restores the starting balance and clears the ledger.
// POST /api/paper-trade/reset
func (pt *PaperTradeController) Reset(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	account, err := pt.ledger.Reset(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": account})
}

// GetQuote returns the quote used for simulator pricing.
// GET /api/paper-trade/quote/:symbol
func (pt *PaperTradeController) GetQuote(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol is required"})
		return
	}

	quote := pt.quotes.GetQuote(c.Request.Context(), symbol)
	c.JSON(http.StatusOK, gin.H{"data": quote})
}

// Search looks up tradeable symbols.
// GET /api/paper-trade/search?q=
func (pt *PaperTradeController) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	matches := pt.quotes.Search(c.Request.Context(), query)
	c.JSON(http.StatusOK, gin.H{
		"data":  matches,
		"count": len(matches),
	})
}

// GetTrades returns the full trade log with a limit.
// GET /api/paper-trade/trades
func (pt *PaperTradeController) GetTrades(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	trades, err := pt.ledger.Trades(userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load trades"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  trades,
		"count": len(trades),
	})
}
