package api

import (
	"net/http"

	"ftour-be/internal/logger"
	"ftour-be/internal/middleware"

	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	InternalKey string
	CORSOrigin  string
	// Limiter is optional; nil disables rate limiting.
	Limiter *middleware.Limiter
}

// NewRouter registers every route on a gin engine and wraps it in the
// net/http middleware chain.
func NewRouter(h *Handlers, cfg RouterConfig) http.Handler {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.HandleMethodNotAllowed = true

	engine.GET("/health", h.Health)
	engine.GET("/internal/metrics", requireInternal(cfg.InternalKey), h.MetricsSnapshot)

	api := engine.Group("/api")
	{
		api.POST("/sessions", h.CreateSession)

		api.GET("/products", h.ListProducts)
		api.GET("/categories", h.ListCategories)
		api.GET("/tags", h.ListTags)
		api.GET("/packages", h.ListPackages)
		api.GET("/packages/:id", h.GetPackage)

		api.GET("/delivery/quote", h.DeliveryQuote)
		api.GET("/delivery/status", h.DeliveryStatus)

		api.GET("/cart", h.GetCart)
		api.DELETE("/cart", h.ClearCart)
		api.POST("/cart/items", h.AddToCart)
		api.PATCH("/cart/items/:id", h.UpdateCartItem)
		api.DELETE("/cart/items/:id", h.RemoveCartItem)
		api.GET("/cart/items/:id/savings", h.PackageSavings)

		api.POST("/package-sessions", h.OpenPackage)
		api.GET("/package-sessions/:id", h.GetPackageSession)
		api.DELETE("/package-sessions/:id", h.CancelPackage)
		api.POST("/package-sessions/:id/selections", h.SelectOption)
		api.PATCH("/package-sessions/:id/selections", h.AdjustOption)
		api.DELETE("/package-sessions/:id/selections", h.RemoveOption)
		api.POST("/package-sessions/:id/finalize", h.FinalizePackage)

		api.POST("/checkout", h.Checkout)
		api.GET("/orders/:id", h.GetOrder)

		api.POST("/admin/sessions", h.AdminLogin)
		api.GET("/admin/orders", h.ListOrders)
		api.PATCH("/admin/orders/:id/status", h.UpdateOrderStatus)
	}

	var handler http.Handler = engine
	if cfg.Limiter != nil {
		handler = cfg.Limiter.Middleware(handler)
	}
	handler = middleware.SessionAuth(h.Sessions)(handler)
	handler = logger.LoggingMiddleware(handler)
	handler = logger.RequestIDMiddleware(handler)
	handler = middleware.CORS(cfg.CORSOrigin)(handler)
	return handler
}

// requireInternal adapts middleware.RequireInternalKey to a gin handler.
func requireInternal(key string) gin.HandlerFunc {
	guard := middleware.RequireInternalKey(key)
	return func(c *gin.Context) {
		passed := false
		guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
		})).ServeHTTP(c.Writer, c.Request)

		if !passed {
			c.Abort()
			return
		}
		c.Next()
	}
}
