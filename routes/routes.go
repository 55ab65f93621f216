package routes

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"backend/configs"
	"backend/controllers"
	"backend/middlewares"
	"backend/pkg/gateway"
	"backend/repository"
	"backend/services"
)

func RegisterRoutes(r *gin.Engine, db *mongo.Database, cfg *configs.Config) {
	foodRepo := repository.NewFoodRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	gw := gateway.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret)

	catalogSvc := services.NewCatalogService(foodRepo)
	checkoutSvc := services.NewCheckoutService(orderRepo, foodRepo, gw, cfg.FrontendURL)
	authSvc := services.NewAuthService(adminRepo, cfg.JWTSecret, cfg.JWTTTL)

	foodCtrl := controllers.NewFoodController(catalogSvc)
	payCtrl := controllers.NewPaymentController(checkoutSvc)
	authCtrl := controllers.NewAuthController(authSvc)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/login", authCtrl.Login)
	}

	foods := api.Group("/foods")
	{
		foods.GET("", foodCtrl.List)
		foods.GET("/categories", foodCtrl.Categories)
		// slug route must come before /:id
		foods.GET("/slug/:slug", foodCtrl.GetBySlug)
		foods.GET("/:id", foodCtrl.Get)

		admin := foods.Group("", middlewares.AuthMiddleware(cfg.JWTSecret, "admin"))
		{
			admin.POST("", foodCtrl.Create)
			admin.PUT("/:id", foodCtrl.Update)
			admin.DELETE("/:id", foodCtrl.Delete)
			admin.PATCH("/fix-missing-prices", foodCtrl.FixMissingPrices)
		}
	}

	payment := api.Group("/payment")
	{
		payment.POST("/create-checkout-session", payCtrl.CreateCheckoutSession)
		payment.POST("/webhook", payCtrl.Webhook)
		payment.GET("/verify/:sessionId", payCtrl.Verify)
		payment.GET("/orders", payCtrl.ListPaidOrders)
	}
}
