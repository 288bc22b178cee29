package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodshare/foodshare-backend/internal/config"
	"github.com/foodshare/foodshare-backend/internal/http/handlers"
	"github.com/foodshare/foodshare-backend/internal/http/middleware"
	"github.com/foodshare/foodshare-backend/internal/models"
	"github.com/foodshare/foodshare-backend/internal/service"
)

// SetupRouter собирает все маршруты приложения.
func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	listingHandler *handlers.ListingHandler,
	requestHandler *handlers.RequestHandler,
	feedbackHandler *handlers.FeedbackHandler,
	complaintHandler *handlers.ComplaintHandler,
	notificationHandler *handlers.NotificationHandler,
	mediaHandler *handlers.MediaHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	seedHandler *handlers.SeedHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)
	r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))

	api := r.Group("/api")

	if seedHandler != nil && cfg.Env == "development" {
		api.POST("/seed", seedHandler.Seed)
	}

	// Аутентификация с rate limit против перебора паролей.
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
	}

	// Публичные маршруты.
	api.GET("/ws", wsHandler.Handle)
	api.GET("/users/:id/profile", middleware.UUIDValidator("id"), profileHandler.GetPublic)
	api.GET("/users/:id/feedback", middleware.UUIDValidator("id"), feedbackHandler.ListByUser)
	api.GET("/listings/:id/feedback", middleware.UUIDValidator("id"), feedbackHandler.ListByListing)

	// Защищённые маршруты.
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/profile", profileHandler.GetOwn)
		protected.PUT("/profile", profileHandler.Update)

		// Каталог доступен обеим ролям: НКО выбирает еду, ресторан
		// смотрит чужие объявления.
		protected.GET("/listings", listingHandler.List)
		protected.GET("/listings/mine", middleware.RequireRole(models.RoleDonor), listingHandler.ListMine)
		protected.GET("/listings/:id", middleware.UUIDValidator("id"), listingHandler.Get)
		protected.GET("/listings/:id/contacts", middleware.UUIDValidator("id"), listingHandler.Contacts)

		// Жизненный цикл объявления — только ресторан.
		donor := protected.Group("/")
		donor.Use(middleware.RequireRole(models.RoleDonor))
		{
			donor.POST("/listings", listingHandler.Create)
			donor.PUT("/listings/:id", middleware.UUIDValidator("id"), listingHandler.Update)
			donor.POST("/listings/:id/cancel", middleware.UUIDValidator("id"), listingHandler.Cancel)
			donor.POST("/listings/:id/complete", middleware.UUIDValidator("id"), listingHandler.Complete)
			donor.POST("/listings/:id/requests/:requestId/accept",
				middleware.UUIDValidator("id"), middleware.UUIDValidator("requestId"), requestHandler.Accept)
			donor.POST("/listings/:id/requests/:requestId/reject",
				middleware.UUIDValidator("id"), middleware.UUIDValidator("requestId"), requestHandler.Reject)
		}

		// Заявки — только НКО.
		protected.POST("/listings/:id/requests",
			middleware.RequireRole(models.RoleNGO), middleware.UUIDValidator("id"), requestHandler.Submit)
		protected.GET("/listings/:id/requests", middleware.UUIDValidator("id"), requestHandler.ListForListing)
		protected.GET("/requests/mine", middleware.RequireRole(models.RoleNGO), requestHandler.ListMine)

		protected.POST("/feedback", feedbackHandler.Create)

		protected.POST("/complaints", complaintHandler.Create)
		protected.GET("/complaints/mine", complaintHandler.ListMine)

		protected.GET("/notifications", notificationHandler.List)
		protected.POST("/notifications/:id/read", middleware.UUIDValidator("id"), notificationHandler.MarkRead)
		protected.POST("/notifications/read-all", notificationHandler.MarkAllRead)

		protected.POST("/media/photos", mediaHandler.Upload)
		protected.GET("/media/:id", middleware.UUIDValidator("id"), mediaHandler.Get)

		// Админка.
		admin := protected.Group("/admin")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/complaints", complaintHandler.ListForAdmin)
			admin.POST("/complaints/:id/resolve", middleware.UUIDValidator("id"), complaintHandler.Resolve)
		}
	}

	return r
}
