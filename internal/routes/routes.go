package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	"labubu_store/internal/handlers"
	"labubu_store/internal/middleware"
)

type Options struct {
	CORSOrigins   []string
	Sessions      sessions.Store
	Tokens        *middleware.SessionTokens
	Counter       middleware.Counter
	RateLimit     int
	CartRateLimit int
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func RegisterRoutes(r *gin.Engine, h *handlers.Handler, opts Options) {
	r.Use(cors.New(corsConfig(opts.CORSOrigins)))
	r.GET("/healthz", handlers.Health)

	api := r.Group("/api")
	api.Use(middleware.Session(opts.Sessions, opts.Tokens))
	api.Use(middleware.RequestLogger())
	api.Use(middleware.APIRateLimit(opts.Counter, opts.RateLimit))

	api.POST("/session", h.IssueSession)
	api.GET("/home", h.Home)
	api.GET("/ws", h.Stream)

	products := api.Group("/products")
	products.GET("", h.ListProducts)
	products.GET("/series", h.Series)
	products.GET("/:slug", h.GetProduct)
	products.GET("/:slug/related", h.RelatedProducts)

	cart := api.Group("/cart")
	cart.GET("", h.GetCart)
	cart.DELETE("", h.ClearCart)
	cart.POST("/items", middleware.CartRateLimit(opts.Counter, opts.CartRateLimit), h.AddCartItem)
	cart.PATCH("/items/:lineId", h.UpdateCartItem)
	cart.DELETE("/items/:lineId", h.RemoveCartItem)

	checkout := api.Group("/checkout")
	checkout.GET("", h.GetCheckout)
	checkout.POST("/shipping-address", h.SubmitShipping)
	checkout.POST("/shipping-method", h.SelectShippingMethod)
	checkout.POST("/payment", h.SubmitPayment)
	checkout.POST("/step", h.OpenStep)

	api.GET("/orders/:id/qr", h.OrderQRCode)
}
