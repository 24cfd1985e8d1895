package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joelyk/maison-du-parfum/config"
	"github.com/joelyk/maison-du-parfum/internal/app/controller"
	"github.com/joelyk/maison-du-parfum/internal/middleware"
)

const (
	CustomerLoginPath = "/api/v1/account/login"
	AdminLoginPath    = "/api/v1/admin/login"
)

type Router struct {
	productController *controller.ProductController
	cartController    *controller.CartController
	orderController   *controller.OrderController
	authController    *controller.AuthController
	adminController   *controller.AdminController
	feedController    *controller.FeedController
	sessionMiddleware *middleware.SessionMiddleware
	config            *config.Config
}

func NewRouter(
	productController *controller.ProductController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	authController *controller.AuthController,
	adminController *controller.AdminController,
	feedController *controller.FeedController,
	sessionMiddleware *middleware.SessionMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		productController: productController,
		cartController:    cartController,
		orderController:   orderController,
		authController:    authController,
		adminController:   adminController,
		feedController:    feedController,
		sessionMiddleware: sessionMiddleware,
		config:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	if origins := r.config.CORS.AllowedOrigins; len(origins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
			ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Maison du Parfum API is running",
		})
	})

	// uploaded avatars and product images
	router.Static("/static/images", r.config.Upload.Dir)

	requireCustomer := middleware.RequireCustomer(CustomerLoginPath)
	requireAdmin := middleware.RequireAdmin(AdminLoginPath)

	v1 := router.Group("/api/v1")
	v1.Use(r.sessionMiddleware.Handle())
	{
		v1.GET("/home", r.productController.Home)

		products := v1.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/:id", r.productController.GetProduct)
			products.POST("/:id/reviews", requireCustomer, r.productController.SubmitReview)
		}

		cart := v1.Group("/cart")
		{
			cart.GET("", r.cartController.GetCart)
			cart.GET("/count", r.cartController.Count)
			cart.POST("/items", r.cartController.AddItem)
			cart.PUT("/items/:id", r.cartController.UpdateItem)
			cart.DELETE("/items/:id", r.cartController.RemoveItem)
		}

		checkout := v1.Group("/checkout", requireCustomer)
		{
			checkout.GET("", r.orderController.Preview)
			checkout.POST("", r.orderController.PlaceOrder)
		}

		account := v1.Group("/account")
		{
			account.POST("/register", r.authController.Register)
			account.POST("/login", r.authController.Login)
			account.POST("/logout", r.authController.Logout)
			account.GET("", requireCustomer, r.authController.GetAccount)
			account.PUT("", requireCustomer, r.authController.UpdateAccount)
			account.GET("/orders/:id", requireCustomer, r.authController.GetOrder)
		}

		admin := v1.Group("/admin")
		{
			admin.POST("/login", r.adminController.Login)
			admin.POST("/logout", r.adminController.Logout)

			guarded := admin.Group("", requireAdmin)
			{
				guarded.GET("/dashboard", r.adminController.Dashboard)
				guarded.GET("/products", r.adminController.ListProducts)
				guarded.POST("/products", r.adminController.CreateProduct)
				guarded.PUT("/products/:id", r.adminController.UpdateProduct)
				guarded.DELETE("/products/:id", r.adminController.DeleteProduct)
				guarded.PATCH("/orders/:id/status", r.adminController.UpdateOrderStatus)
				guarded.GET("/feed", r.feedController.Connect)
			}
		}
	}

	return router
}
