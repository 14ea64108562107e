package router

import (
	"github.com/gin-gonic/gin"
	"github.com/minhngo/birdnest-backend/config"
	"github.com/minhngo/birdnest-backend/internal/app/controller"
	"github.com/minhngo/birdnest-backend/internal/middleware"
)

type Router struct {
	authController          *controller.AuthController
	passwordResetController *controller.PasswordResetController
	productController       *controller.ProductController
	cartController          *controller.CartController
	checkoutController      *controller.CheckoutController
	orderController         *controller.OrderController
	paymentController       *controller.PaymentController
	reviewController        *controller.ReviewController
	wishlistController      *controller.WishlistController
	addressController       *controller.AddressController
	notificationController  *controller.NotificationController
	settingController       *controller.SettingController
	divisionController      *controller.DivisionController
	uploadController        *controller.UploadController
	authMiddleware          *middleware.AuthMiddleware
	config                  *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	passwordResetController *controller.PasswordResetController,
	productController *controller.ProductController,
	cartController *controller.CartController,
	checkoutController *controller.CheckoutController,
	orderController *controller.OrderController,
	paymentController *controller.PaymentController,
	reviewController *controller.ReviewController,
	wishlistController *controller.WishlistController,
	addressController *controller.AddressController,
	notificationController *controller.NotificationController,
	settingController *controller.SettingController,
	divisionController *controller.DivisionController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:          authController,
		passwordResetController: passwordResetController,
		productController:       productController,
		cartController:          cartController,
		checkoutController:      checkoutController,
		orderController:         orderController,
		paymentController:       paymentController,
		reviewController:        reviewController,
		wishlistController:      wishlistController,
		addressController:       addressController,
		notificationController:  notificationController,
		settingController:       settingController,
		divisionController:      divisionController,
		uploadController:        uploadController,
		authMiddleware:          authMiddleware,
		config:                  cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Yến Sào API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/refresh", r.authController.RefreshToken)
			auth.POST("/forgot-password", r.passwordResetController.ForgotPassword)
			auth.POST("/reset-password", r.passwordResetController.ResetPassword)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateMe)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.authMiddleware.OptionalAuthenticate(), r.productController.ListProducts)
			products.GET("/featured", r.productController.GetFeaturedProducts)
			products.GET("/:slug", r.productController.GetProductBySlug)
			products.GET("/:slug/related", r.productController.GetRelatedProducts)
		}

		v1.GET("/categories", r.productController.ListCategories)
		v1.GET("/divisions", r.divisionController.ListDivisions)
		v1.GET("/settings", r.settingController.GetPublicSettings)

		cart := v1.Group("/cart")
		cart.Use(r.authMiddleware.Authenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("", r.cartController.AddToCart)
			cart.PUT("/:id", r.cartController.UpdateCartItem)
			cart.DELETE("/:id", r.cartController.RemoveFromCart)
			cart.DELETE("", r.cartController.ClearCart)
		}

		// Checkout chấp nhận cả khách vãng lai nên chỉ gắn optional auth
		checkout := v1.Group("/checkout")
		checkout.Use(r.authMiddleware.OptionalAuthenticate())
		{
			checkout.POST("", r.checkoutController.CreateCheckout)
			checkout.GET("/:token", r.checkoutController.GetCheckout)
		}

		v1.GET("/payments/methods", r.paymentController.ListPaymentMethods)

		orders := v1.Group("/orders")
		{
			orders.POST("", r.authMiddleware.Authenticate(), r.orderController.CreateOrder)
			orders.GET("", r.authMiddleware.Authenticate(), r.orderController.GetMyOrders)
			orders.POST("/guest", r.authMiddleware.OptionalAuthenticate(), r.orderController.CreateGuestOrder)
			orders.POST("/guest/search", r.orderController.SearchGuestOrders)
			orders.GET("/:id", r.authMiddleware.Authenticate(), r.orderController.GetOrder)
		}

		reviews := v1.Group("/reviews")
		{
			reviews.GET("", r.reviewController.GetProductReviews)
			reviews.GET("/me", r.authMiddleware.Authenticate(), r.reviewController.GetMyReviews)
			reviews.POST("", r.authMiddleware.Authenticate(), r.reviewController.CreateReview)
			reviews.PUT("/:id", r.authMiddleware.Authenticate(), r.reviewController.UpdateReview)
			reviews.DELETE("/:id", r.authMiddleware.Authenticate(), r.reviewController.DeleteReview)
		}

		wishlist := v1.Group("/wishlist")
		wishlist.Use(r.authMiddleware.Authenticate())
		{
			wishlist.GET("", r.wishlistController.GetWishlist)
			wishlist.POST("", r.wishlistController.AddToWishlist)
			wishlist.DELETE("/:product_id", r.wishlistController.RemoveFromWishlist)
		}

		addresses := v1.Group("/addresses")
		addresses.Use(r.authMiddleware.Authenticate())
		{
			addresses.GET("", r.addressController.ListAddresses)
			addresses.POST("", r.addressController.CreateAddress)
			addresses.PUT("/:id", r.addressController.UpdateAddress)
			addresses.DELETE("/:id", r.addressController.DeleteAddress)
			addresses.PUT("/:id/default", r.addressController.SetDefaultAddress)
		}

		notifications := v1.Group("/notifications")
		notifications.Use(r.authMiddleware.Authenticate())
		{
			notifications.GET("", r.notificationController.GetNotifications)
			notifications.GET("/unread-count", r.notificationController.GetUnreadCount)
			notifications.PATCH("/:id/read", r.notificationController.MarkAsRead)
			notifications.PATCH("/read-all", r.notificationController.MarkAllAsRead)
			notifications.DELETE("/:id", r.notificationController.DeleteNotification)
		}

		// WebSocket: token đi qua query string, middleware đọc cả hai nơi
		v1.GET("/ws", r.authMiddleware.Authenticate(), r.notificationController.ServeWS)

		upload := v1.Group("/upload")
		upload.Use(r.authMiddleware.Authenticate())
		{
			upload.POST("/presigned-url", r.uploadController.GeneratePresignedURL)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"))
		{
			admin.GET("/dashboard", r.orderController.GetDashboardStats)
			admin.GET("/orders", r.orderController.ListOrders)
			admin.PUT("/orders/:id/status", r.orderController.UpdateOrderStatus)

			admin.POST("/products", r.productController.CreateProduct)
			admin.PUT("/products/:id", r.productController.UpdateProduct)
			admin.DELETE("/products/:id", r.productController.DeleteProduct)

			admin.PUT("/settings", r.settingController.UpdateSettings)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
