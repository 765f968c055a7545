package main

import (
	"log"

	"salchimonster-backend/internal/cart"
	"salchimonster-backend/internal/config"
	"salchimonster-backend/internal/cuponera"
	"salchimonster-backend/internal/database"
	"salchimonster-backend/internal/handlers"
	"salchimonster-backend/internal/menu"
	"salchimonster-backend/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	r := gin.Default()

	// Initialize session store
	middleware.InitSessionStore(cfg.JWTSecret)

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.HealthCheck("/health"))

	// Session middleware
	r.Use(middleware.SessionMiddleware())

	carts := cart.NewManager()
	cuponeraClient := cuponera.NewClient(cfg.CuponeraAPIURL)
	menuCache := menu.NewCache(menu.NewClient(cfg.MenuAPIURL), cfg.MenuCacheTTL, nil)
	couponQueries := database.NewCouponQueries(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg.JWTSecret)
	cartHandler := handlers.NewCartHandler(carts)
	discountHandler := handlers.NewDiscountHandler(couponQueries, cuponeraClient, carts, cfg.SiteID)
	menuHandler := handlers.NewMenuHandler(menuCache, cfg.SiteID)

	// Public routes
	public := r.Group("/api")
	{
		public.GET("/menu", menuHandler.GetMenu)
		public.GET("/menu/:site_id", menuHandler.GetSiteMenu)
	}

	// Cart routes (public but require session)
	cartRoutes := r.Group("/api/cart")
	cartRoutes.Use(middleware.OptionalAuthMiddleware(cfg.JWTSecret))
	{
		cartRoutes.GET("", cartHandler.GetCart)
		cartRoutes.POST("/add", cartHandler.AddToCart)
		cartRoutes.PUT("/update/:signature", cartHandler.UpdateCartItem)
		cartRoutes.POST("/increment/:signature", cartHandler.IncrementCartItem)
		cartRoutes.POST("/decrement/:signature", cartHandler.DecrementCartItem)
		cartRoutes.DELETE("/remove/:signature", cartHandler.RemoveFromCart)
		cartRoutes.POST("/clear", cartHandler.ClearCart)
		cartRoutes.GET("/count", cartHandler.GetCartCount)
	}

	// Discount routes
	discounts := r.Group("/api/discounts")
	discounts.Use(middleware.OptionalAuthMiddleware(cfg.JWTSecret))
	{
		discounts.POST("/coupon", discountHandler.ApplyCoupon)
		discounts.DELETE("/coupon", discountHandler.RemoveCoupon)
		discounts.POST("/cuponera", discountHandler.RedeemCuponera)
		discounts.DELETE("/cuponera", discountHandler.RemoveCuponera)
	}

	// Auth routes
	authRoutes := r.Group("/api/auth")
	{
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.GET("/me", middleware.AuthMiddleware(cfg.JWTSecret), authHandler.Me)
	}

	// Admin routes
	admin := r.Group("/api/admin")
	admin.Use(middleware.AdminMiddleware(cfg.JWTSecret))
	{
		// Coupon code management
		admin.GET("/coupons", discountHandler.GetCouponCodes)
		admin.POST("/coupons", discountHandler.CreateCouponCode)
		admin.GET("/coupons/:id", discountHandler.GetCouponCode)
		admin.PUT("/coupons/:id", discountHandler.UpdateCouponCode)
		admin.DELETE("/coupons/:id", discountHandler.DeleteCouponCode)
		admin.GET("/coupons/:id/usage", discountHandler.GetCouponCodeUsage)

		// Menu cache management
		admin.POST("/menu/:site_id/refresh", menuHandler.RefreshMenu)
	}

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
