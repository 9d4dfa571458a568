package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"nivesh_pathshala/controllers"
	"nivesh_pathshala/middleware"
	"nivesh_pathshala/services"
	"nivesh_pathshala/services/ipo"
	"nivesh_pathshala/services/marketdata"
	"nivesh_pathshala/services/news"
	"nivesh_pathshala/services/papertrade"
)

// SetupRoutes sets up all API routes
func SetupRoutes(router *gin.Engine, db *gorm.DB, quotes *marketdata.QuoteService, ipoService *ipo.Service, newsService *news.Service) {
	// Initialize controllers
	marketController := controllers.NewMarketController(quotes)
	avController := controllers.NewAlphaVantageController(quotes)
	ipoController := controllers.NewIPOController(ipoService, newsService)
	newsController := controllers.NewNewsController(newsService)
	authController := controllers.NewAuthController(db, services.GlobalOtpService)
	leadController := controllers.NewLeadController(db)
	paymentController := controllers.NewPaymentController(db)
	chatController := controllers.NewChatController(db, services.GlobalChatArchive)
	paperController := controllers.NewPaperTradeController(papertrade.NewService(db), quotes)

	api := router.Group("/api")
	{
		// Market data routes
		market := api.Group("/market")
		{
			market.GET("/live", marketController.GetLive)
			market.GET("/quote/:symbol", marketController.GetQuote)
			market.GET("/search", marketController.Search)
		}

		// Alpha Vantage proxy routes for the charting widgets
		av := api.Group("/alphavantage")
		{
			av.GET("/quote/:symbol", avController.GetQuote)
			av.GET("/intraday/:symbol", avController.GetIntraday)
			av.GET("/search", avController.Search)
			av.GET("/status", avController.GetStatus)
		}

		// IPO routes
		ipoRoutes := api.Group("/ipo")
		{
			ipoRoutes.GET("", ipoController.GetIPOs)
			ipoRoutes.GET("/news", ipoController.GetIPONews)
			ipoRoutes.GET("/:id", ipoController.GetIPO)
			ipoRoutes.POST("/refresh",
				middleware.JWTAuthMiddleware(), middleware.AdminRoleMiddleware(),
				ipoController.RefreshIPOs)
		}

		// News routes
		newsRoutes := api.Group("/news")
		{
			newsRoutes.GET("", newsController.GetNews)
			newsRoutes.GET("/featured", newsController.GetFeatured)
			newsRoutes.GET("/categories", newsController.GetCategories)
		}
		api.GET("/economic-calendar", newsController.GetEconomicCalendar)

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/otp/request", middleware.OtpRateLimitMiddleware(), authController.RequestOTP)
			auth.POST("/otp/verify", authController.VerifyOTP)
			auth.GET("/me", middleware.JWTAuthMiddleware(), authController.Me)
		}

		// Leads
		api.POST("/leads", leadController.CreateLead)

		// Paper trading routes (authenticated)
		paper := api.Group("/paper-trade", middleware.JWTAuthMiddleware())
		{
			paper.GET("/account", paperController.GetAccount)
			paper.POST("/execute", paperController.Execute)
			paper.POST("/reset", paperController.Reset)
			paper.GET("/quote/:symbol", paperController.GetQuote)
			paper.GET("/search", paperController.Search)
			paper.GET("/trades", paperController.GetTrades)
		}

		// Payment routes (authenticated)
		payments := api.Group("/payments", middleware.JWTAuthMiddleware())
		{
			payments.POST("/order", paymentController.CreateOrder)
			payments.POST("/:id/status", paymentController.UpdateStatus)
			payments.GET("", paymentController.GetMyPayments)
		}

		// Chat routes (authenticated)
		chat := api.Group("/chat", middleware.JWTAuthMiddleware())
		{
			chat.POST("", chatController.PostMessage)
			chat.GET("", chatController.GetMessages)
		}

		// Admin routes
		api.POST("/admin/login", authController.AdminLogin)
		admin := api.Group("/admin", middleware.JWTAuthMiddleware(), middleware.AdminRoleMiddleware())
		{
			admin.GET("/leads", leadController.GetLeads)
			admin.PATCH("/leads/:id", leadController.UpdateLeadStatus)
			admin.GET("/payments", paymentController.GetAllPayments)
		}
	}

	// WebSocket live quote stream
	router.GET("/ws/market", func(c *gin.Context) {
		if services.GlobalLiveMarket == nil {
			c.JSON(503, gin.H{"error": "live market service not ready"})
			return
		}
		services.GlobalLiveMarket.HandleWebSocket(c.Writer, c.Request)
	})
}
