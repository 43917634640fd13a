package routes

import (
	"github.com/amirfagh/justeat/configs"
	"github.com/amirfagh/justeat/controllers"
	"github.com/amirfagh/justeat/middlewares"
	"github.com/amirfagh/justeat/pkg/events"
	"github.com/amirfagh/justeat/repository"
	"github.com/amirfagh/justeat/services"
	"github.com/amirfagh/justeat/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *configs.Config, pub events.Publisher) {
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.CORSMiddleware(cfg.CORSOrigins))
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	// Repositories
	userRepo := repository.NewUserRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	seqRepo := repository.NewSequenceRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	tx := repository.NewTransactor(db, cfg.TxMaxAttempts)

	// Services
	carts := services.NewCartStore()
	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	menuSvc := services.NewMenuService(menuRepo)
	cartSvc := services.NewCartService(carts, menuRepo)
	orderSvc := services.NewOrderService(tx, orderRepo, seqRepo, userRepo, pub)
	checkoutSvc := services.NewCheckoutService(carts, orderSvc, userRepo)
	settingsSvc := services.NewSettingsService(settingRepo)

	hub := ws.NewStatusHub(orderSvc)
	orderSvc.Notifier = hub
	go hub.Run()

	// Controllers
	authCtrl := controllers.NewAuthController(authSvc)
	menuCtrl := controllers.NewMenuController(menuSvc)
	cartCtrl := controllers.NewCartController(cartSvc)
	orderCtrl := controllers.NewOrderController(orderSvc, checkoutSvc)
	settingsCtrl := controllers.NewSettingsController(settingsSvc)
	adminCtrl := controllers.NewAdminController(orderSvc, settingsSvc)

	auth := middlewares.AuthMiddleware(cfg.JWTSecret)

	// Auth (public)
	a := r.Group("/auth")
	{
		a.POST("/register", authCtrl.Register)
		a.POST("/login", authCtrl.Login)
	}

	// Auth (protected)
	aAuth := a.Group("", auth)
	{
		aAuth.GET("/me", authCtrl.Me)
		aAuth.PATCH("/me", authCtrl.UpdateMe)
	}

	// Public catalog
	r.GET("/settings/restaurant", settingsCtrl.Restaurant)
	r.GET("/menu", menuCtrl.List)
	r.GET("/menu/:id", menuCtrl.Get)

	// Cart (per session)
	cart := r.Group("/cart", auth)
	{
		cart.GET("", cartCtrl.Get)
		cart.GET("/quote", orderCtrl.Quote)
		cart.POST("/items", cartCtrl.Add)
		cart.PUT("/items/:index", cartCtrl.Replace)
		cart.DELETE("/items/:index", cartCtrl.Remove)
		cart.DELETE("", cartCtrl.Clear)
	}

	// Orders (user)
	o := r.Group("/orders", auth)
	{
		o.POST("/checkout", orderCtrl.Create)
		o.GET("/latest/status", orderCtrl.LatestStatus)
		o.GET("/:id", orderCtrl.Detail)
	}

	// Profile
	profile := r.Group("/profile", auth)
	{
		profile.GET("/orders", orderCtrl.ListForMe)
	}

	// Live status
	r.GET("/ws/orders/:id", middlewares.WSAuthMiddleware(cfg.JWTSecret), hub.HandleWebSocket)

	// Fulfillment operator (admin only)
	admin := r.Group("/admin", middlewares.AuthMiddleware(cfg.JWTSecret, services.RoleAdmin))
	{
		admin.PATCH("/orders/:id/status", adminCtrl.AdvanceOrder)
		admin.PUT("/settings/restaurant", adminCtrl.SetRestaurant)
		admin.POST("/order-sequence", adminCtrl.SeedSequence)
	}
}
