package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pavelgrishin/worklink-backend/internal/config"
	"github.com/pavelgrishin/worklink-backend/internal/http/handlers"
	"github.com/pavelgrishin/worklink-backend/internal/http/middleware"
	"github.com/pavelgrishin/worklink-backend/internal/models"
	"github.com/pavelgrishin/worklink-backend/internal/service"
)

// Handlers собирает все хендлеры приложения для маршрутизации.
type Handlers struct {
	Auth    *handlers.AuthHandler
	User    *handlers.UserHandler
	Job     *handlers.JobHandler
	Payment *handlers.PaymentHandler
	Review  *handlers.ReviewHandler
	Message *handlers.MessageHandler
	Media   *handlers.MediaHandler
	WS      *handlers.WSHandler
	Health  *handlers.HealthHandler
}

// SetupRouter настраивает маршруты и middleware.
func SetupRouter(cfg *config.Config, h Handlers, tokenManager *service.TokenManager) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)
	r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
		authGroup.POST("/logout", h.Auth.Logout)
	}

	protectedAuth := api.Group("/auth")
	protectedAuth.Use(middleware.AuthMiddleware(tokenManager))
	{
		protectedAuth.GET("/sessions", h.Auth.ListSessions)
		protectedAuth.DELETE("/sessions/:id", middleware.UUIDValidator("id"), h.Auth.DeleteSession)
	}

	// Публичные маршруты
	api.GET("/users/:id", middleware.UUIDValidator("id"), h.User.GetUser)
	api.GET("/users/:id/reviews", middleware.UUIDValidator("id"), h.Review.ListFreelancerReviews)
	api.GET("/users/:id/rating", middleware.UUIDValidator("id"), h.User.GetFreelancerRating)
	api.GET("/freelancers", h.User.ListFreelancers)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/ws", h.WS.Connect)

		protected.GET("/users/me", h.User.GetMe)
		protected.PUT("/users/me", h.User.UpdateMe)
		protected.PUT("/users/me/role", h.Auth.ConfirmRole)
		protected.POST("/users/me/resume", h.Media.UploadResume)

		protected.GET("/jobs", h.Job.ListJobs)
		protected.GET("/jobs/my", h.Job.ListMyJobs)
		protected.GET("/jobs/bookmarked", h.Job.ListBookmarked)
		protected.POST("/jobs", h.Job.CreateJob)

		jobByID := protected.Group("/jobs/:id")
		jobByID.Use(middleware.UUIDValidator("id"))
		{
			jobByID.GET("", h.Job.GetJob)
			jobByID.DELETE("", h.Job.DeleteJob)
			jobByID.PUT("/title", h.Job.RenameJob)
			jobByID.PUT("/description", h.Job.SetDescription)
			jobByID.PUT("/budget", h.Job.SetBudget)
			jobByID.PUT("/deadline", h.Job.SetDeadline)
			jobByID.PUT("/skills", h.Job.SetSkills)
			jobByID.PUT("/status", h.Job.UpdateStatus)
			jobByID.POST("/bookmark", h.Job.ToggleBookmark)
			jobByID.POST("/applications", h.Job.CreateApplication)
			jobByID.GET("/applications", h.Job.ListApplications)
			jobByID.GET("/transactions", h.Payment.ListJobTransactions)
			jobByID.POST("/media", h.Media.UploadJobImage)
			jobByID.GET("/media", h.Media.ListJobMedia)
			jobByID.POST("/reviews", h.Review.CreateReview)
			jobByID.GET("/reviews", h.Review.ListJobReviews)
		}

		protected.GET("/applications/my", h.Job.ListMyApplications)
		protected.POST("/applications/:id/accept", middleware.UUIDValidator("id"), h.Job.AcceptApplication)
		protected.POST("/applications/:id/reject", middleware.UUIDValidator("id"), h.Job.RejectApplication)

		protected.GET("/payments/balance", h.Payment.GetBalance)
		protected.POST("/payments/deposit", h.Payment.InitiateDeposit)
		protected.POST("/payments/deposit/confirm", h.Payment.ConfirmDeposit)
		protected.POST("/payments/withdraw", h.Payment.Withdraw)
		protected.GET("/payments/transactions", h.Payment.ListTransactions)
		protected.POST("/payments/escrow/release",
			middleware.RequireRole(models.RoleAdmin), h.Payment.ReleaseEscrow)

		protected.POST("/conversations", h.Message.StartConversation)
		protected.GET("/conversations", h.Message.ListConversations)
		protected.POST("/conversations/:id/messages", middleware.UUIDValidator("id"), h.Message.SendMessage)
		protected.GET("/conversations/:id/messages", middleware.UUIDValidator("id"), h.Message.ListMessages)

		protected.DELETE("/media/:id", middleware.UUIDValidator("id"), h.Media.DeleteMedia)
	}

	return r
}
