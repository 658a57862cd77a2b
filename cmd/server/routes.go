package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cover-chain.backend/internal/interfaces/http/handlers"
	"cover-chain.backend/internal/interfaces/http/middleware"
	"cover-chain.backend/internal/observability"
)

type routeDeps struct {
	quoteHandler         *handlers.QuoteHandler
	priceHandler         *handlers.PriceHandler
	chainHandler         *handlers.ChainHandler
	bridgeHandler        *handlers.BridgeHandler
	coverageHandler      *handlers.CoverageHandler
	authorizationHandler *handlers.AuthorizationHandler
	authMiddleware       gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Pricing routes (public)
		insurance := v1.Group("/insurance")
		{
			insurance.POST("/quote", d.quoteHandler.Quote)
		}
		v1.GET("/prices", d.priceHandler.GetPrices)

		// Chain routes (public)
		chains := v1.Group("/chains")
		{
			chains.GET("", d.chainHandler.ListChains)
		}

		// Bridge routes (fee and status public, sends protected)
		bridge := v1.Group("/bridge")
		{
			bridge.GET("/fee", d.bridgeHandler.EstimateFee)
			bridge.GET("/messages/:id", d.bridgeHandler.GetMessage)
			bridge.POST("/coverage", d.authMiddleware, middleware.IdempotencyMiddleware(), d.bridgeHandler.SendCoverage)
		}

		// Coverage portfolio routes (public)
		coverage := v1.Group("/coverage")
		{
			coverage.GET("/summary/:address", d.coverageHandler.GetSummary)
		}

		// Authorization routes (public)
		authorizations := v1.Group("/authorizations")
		{
			authorizations.POST("/verify", d.authorizationHandler.Verify)
		}
	}
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(observability.Handler()))
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, Idempotency-Key, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}
