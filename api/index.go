package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nivesh_pathshala/config"
	"nivesh_pathshala/models"
	"nivesh_pathshala/routes"
	"nivesh_pathshala/services"
	"nivesh_pathshala/services/ipo"
	"nivesh_pathshala/services/marketdata"
	"nivesh_pathshala/services/news"
)

var router *gin.Engine

func init() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("Failed to load configuration")
	}

	// Initialize database
	db, err := config.InitDB()
	if err != nil {
		panic("Failed to connect to database")
	}

	// Run migrations
	models.MigrateUserModels(db)
	models.MigrateLeadModels(db)
	models.MigratePaymentModels(db)
	models.MigrateChatModels(db)
	models.MigratePaperTradeModels(db)
	models.MigrateAdminModels(db)
	models.SeedDefaultAdminUser(db)

	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	// Initialize router
	router = gin.New()
	router.Use(gin.Recovery())

	// CORS middleware
	router.Use(corsMiddleware())

	// Build the acquisition layer and services
	quotes := marketdata.NewQuoteService(
		marketdata.NewYahooClient(),
		marketdata.NewAlphaVantageClient(cfg.AlphaVantageKey),
		nil,
	)
	newsService := news.NewService(
		news.NewGNewsClient(cfg.GNewsKey),
		news.NewMoneyControlScraper(),
		news.NewFinnhubClient(cfg.FinnhubKey),
		nil,
	)
	services.InitOtpService(db)
	services.InitLiveMarketService(quotes)

	// No local disk in the serverless runtime, so the snapshot store
	// stays disabled and the IPO chain serves samples on total failure.
	ipoService := ipo.NewService(
		ipo.NewIPOAlertsClient(),
		ipo.NewFinnhubIPOClient(cfg.FinnhubKey),
		nil,
		nil,
	)

	// Setup routes
	routes.SetupRoutes(router, db, quotes, ipoService, newsService)
}

// Handler is the Vercel serverless function handler
func Handler(w http.ResponseWriter, r *http.Request) {
	router.ServeHTTP(w, r)
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
