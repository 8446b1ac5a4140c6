// Package http wires the application services into the gin router.
package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	authapp "netreq/internal/application/auth"
	locationapp "netreq/internal/application/location"
	notificationapp "netreq/internal/application/notification"
	requestapp "netreq/internal/application/request"
	resourceapp "netreq/internal/application/resource"
	userapp "netreq/internal/application/user"
	"netreq/internal/infrastructure/auth"
	"netreq/internal/infrastructure/config"
	"netreq/internal/interfaces/http/handlers"
	"netreq/internal/interfaces/http/middleware"
	"netreq/internal/shared/authorization"
	"netreq/internal/shared/logger"
)

// Services carries the application services the router exposes.
type Services struct {
	Auth         *authapp.Service
	User         *userapp.Service
	Location     *locationapp.Service
	Resource     *resourceapp.Service
	Request      *requestapp.Service
	Notification *notificationapp.Service
}

// NewRouter builds the gin engine with all routes and middleware attached.
// redisClient may be nil, which disables login rate limiting.
func NewRouter(cfg *config.Config, services Services, jwtService *auth.JWTService, redisClient *redis.Client, log logger.Interface) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger(log))
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	authMW := middleware.NewAuthMiddleware(jwtService, log)

	authHandler := handlers.NewAuthHandler(services.Auth, log)
	userHandler := handlers.NewUserHandler(services.User, log)
	locationHandler := handlers.NewLocationHandler(services.Location, log)
	resourceHandler := handlers.NewResourceHandler(services.Resource, log)
	requestHandler := handlers.NewRequestHandler(services.Request, log)
	notificationHandler := handlers.NewNotificationHandler(services.Notification, log)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")

	authGroup := api.Group("/auth")
	{
		if redisClient != nil {
			limiter := middleware.NewRateLimiter(
				redisClient,
				cfg.Auth.LoginRateLimit,
				time.Duration(cfg.Auth.LoginRateWindow)*time.Second,
			)
			authGroup.Use(limiter.Limit())
		}
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	protected := api.Group("")
	protected.Use(authMW.RequireAuth())
	{
		protected.GET("/auth/profile", authHandler.Profile)

		locations := protected.Group("/locations")
		{
			locations.GET("", locationHandler.ListLocations)
			locations.GET("/:id", locationHandler.GetLocation)

			adminOnly := locations.Group("", authorization.RequireAdmin())
			adminOnly.POST("", locationHandler.CreateLocation)
			adminOnly.PUT("/:id", locationHandler.UpdateLocation)
			adminOnly.DELETE("/:id", locationHandler.DeleteLocation)
		}

		resources := protected.Group("/resources")
		{
			resources.GET("", resourceHandler.ListResources)
			resources.GET("/:id", resourceHandler.GetResource)

			adminOnly := resources.Group("", authorization.RequireAdmin())
			adminOnly.POST("", resourceHandler.CreateResource)
			adminOnly.PUT("/:id", resourceHandler.UpdateResource)
			adminOnly.DELETE("/:id", resourceHandler.DeleteResource)
		}

		requests := protected.Group("/requests")
		{
			requests.POST("", requestHandler.CreateRequest)
			requests.GET("", requestHandler.ListRequests)
			requests.GET("/:id", requestHandler.GetRequest)
			requests.POST("/:id/cancel", requestHandler.CancelRequest)
			requests.PATCH("/:id/status", authorization.RequireAdmin(), requestHandler.UpdateRequestStatus)
		}

		protected.GET("/reports", authorization.RequireAdmin(), requestHandler.GenerateReport)

		notifications := protected.Group("/notifications")
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.PATCH("/:id/seen", notificationHandler.MarkSeen)
		}

		users := protected.Group("/users")
		{
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", userHandler.UpdateUser)

			adminOnly := users.Group("", authorization.RequireAdmin())
			adminOnly.GET("", userHandler.ListUsers)
			adminOnly.POST("", userHandler.CreateUser)
			adminOnly.DELETE("/:id", userHandler.DeleteUser)
		}
	}

	return router
}
