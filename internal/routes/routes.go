package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/handlers"
	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/middleware"
)

// Deps carries everything the router needs. main builds it once; nothing in
// here reads the environment.
type Deps struct {
	JWTSecret string
	FrontURL  string
	Redis     *redis.Client

	Auth       *handlers.AuthHandler
	Products   *handlers.ProductHandler
	Categories *handlers.CategoryHandler
	Cart       *handlers.CartHandler
	Checkout   *handlers.CheckoutHandler
	Orders     *handlers.OrderHandler
	Campaigns  *handlers.CampaignHandler
	Reviews    *handlers.ReviewHandler
	Favorites  *handlers.FavoriteHandler
	Addresses  *handlers.AddressHandler
	Banners    *handlers.BannerHandler
	Users      *handlers.UserHandler
	Sales      *handlers.SalesHandler
	Webhooks   *handlers.WebhookHandler
}

func Register(r *gin.Engine, d Deps) {
	corsCfg := cors.DefaultConfig()
	if d.FrontURL != "" {
		corsCfg.AllowOrigins = []string{d.FrontURL}
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Stripe calls this, no auth, no rate limit.
	r.POST("/api/webhooks/stripe", d.Webhooks.HandleStripe)

	api := r.Group("/api")
	api.Use(middleware.APIRateLimit(d.Redis))

	// public
	api.POST("/auth/register", d.Auth.Register)
	api.POST("/auth/login", middleware.LoginRateLimit(d.Redis), d.Auth.Login)
	api.GET("/products", d.Products.List)
	api.GET("/products/search", d.Products.Search)
	api.GET("/products/:id", d.Products.Get)
	api.GET("/products/:id/reviews", d.Reviews.ListByProduct)
	api.GET("/categories", d.Categories.List)
	api.GET("/campaigns", d.Campaigns.ListActive)
	api.GET("/banners", d.Banners.ListActive)

	// authenticated customer
	auth := api.Group("")
	auth.Use(middleware.AuthRequired(d.JWTSecret))
	{
		auth.GET("/auth/me", d.Auth.Me)

		auth.GET("/cart", d.Cart.Get)
		auth.POST("/cart/items", d.Cart.Add)
		auth.PUT("/cart/items/:productId", d.Cart.UpdateQuantity)
		auth.DELETE("/cart/items/:productId", d.Cart.Remove)
		auth.DELETE("/cart", d.Cart.Clear)

		auth.POST("/checkout/quote", d.Checkout.Quote)
		auth.POST("/checkout/session", d.Checkout.CreateSession)
		auth.GET("/checkout/verify", d.Checkout.Verify)

		auth.GET("/orders", d.Orders.ListMine)
		auth.GET("/orders/:id", d.Orders.GetMine)
		auth.POST("/orders/:id/cancel", d.Orders.CancelMine)

		auth.POST("/products/:id/reviews", d.Reviews.Create)
		auth.PUT("/reviews/:id", d.Reviews.Update)
		auth.DELETE("/reviews/:id", d.Reviews.Delete)

		auth.GET("/favorites", d.Favorites.List)
		auth.POST("/favorites/:productId", d.Favorites.Add)
		auth.DELETE("/favorites/:productId", d.Favorites.Remove)

		auth.GET("/addresses", d.Addresses.List)
		auth.POST("/addresses", d.Addresses.Create)
		auth.PUT("/addresses/:id", d.Addresses.Update)
		auth.DELETE("/addresses/:id", d.Addresses.Delete)
	}

	// admin
	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(d.JWTSecret), middleware.RequireAdmin)
	{
		admin.POST("/products", d.Products.AdminCreate)
		admin.PUT("/products/:id", d.Products.AdminUpdate)
		admin.DELETE("/products/:id", d.Products.AdminDiscontinue)
		admin.POST("/products/:id/stock", d.Products.AdminAdjustStock)
		admin.GET("/products/:id/stock", d.Products.AdminStockHistory)
		admin.POST("/products/:id/images", d.Products.AdminUploadImage)
		admin.POST("/products/import", d.Products.AdminImportCSV)
		admin.GET("/products/export", d.Products.AdminExportCSV)

		admin.POST("/categories", d.Categories.AdminCreate)
		admin.PUT("/categories/:id", d.Categories.AdminUpdate)
		admin.DELETE("/categories/:id", d.Categories.AdminDelete)

		admin.GET("/orders", d.Orders.AdminList)
		admin.GET("/orders/export", d.Orders.AdminExportCSV)
		admin.GET("/orders/:id", d.Orders.AdminGet)
		admin.PUT("/orders/:id/status", d.Orders.AdminUpdateStatus)
		admin.PUT("/orders/:id/tracking", d.Orders.AdminUpsertTracking)

		admin.GET("/campaigns", d.Campaigns.AdminList)
		admin.GET("/campaigns/:id", d.Campaigns.AdminGet)
		admin.POST("/campaigns", d.Campaigns.AdminCreate)
		admin.PUT("/campaigns/:id", d.Campaigns.AdminUpdate)
		admin.DELETE("/campaigns/:id", d.Campaigns.AdminDelete)

		admin.GET("/banners", d.Banners.AdminList)
		admin.POST("/banners", d.Banners.AdminCreate)
		admin.POST("/banners/images", d.Banners.AdminUploadImage)
		admin.PUT("/banners/:id", d.Banners.AdminUpdate)
		admin.DELETE("/banners/:id", d.Banners.AdminDelete)

		admin.GET("/users", d.Users.AdminList)
		admin.PUT("/users/:id/role", d.Users.AdminSetRole)
		admin.PUT("/users/:id/active", d.Users.AdminSetActive)

		admin.GET("/sales/summary", d.Sales.Summary)
		admin.GET("/sales/daily", d.Sales.Daily)
		admin.GET("/sales/products", d.Sales.ByProduct)
		admin.GET("/dashboard", d.Sales.Dashboard)
	}
}
