package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mroshb/sweatcheck/internal/config"
	"github.com/mroshb/sweatcheck/internal/middleware"
	"github.com/mroshb/sweatcheck/internal/services"
)

// HandlerManager holds the services behind the HTTP API. Every route handler is
// a method on it.
type HandlerManager struct {
	Config        *config.Config
	Users         *services.UserService
	Friends       *services.FriendService
	Notifications *services.NotificationService
	Workouts      *services.WorkoutService
	Reports       *services.ReportService
	Images        *services.ImageService
}

func NewHandlerManager(
	cfg *config.Config,
	users *services.UserService,
	friends *services.FriendService,
	notifications *services.NotificationService,
	workouts *services.WorkoutService,
	reports *services.ReportService,
	images *services.ImageService,
) *HandlerManager {
	return &HandlerManager{
		Config:        cfg,
		Users:         users,
		Friends:       friends,
		Notifications: notifications,
		Workouts:      workouts,
		Reports:       reports,
		Images:        images,
	}
}

// Router builds the gin engine with middleware and every API route.
func (h *HandlerManager) Router(limiter *middleware.RateLimiter) *gin.Engine {
	router := gin.New()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     h.Config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	if limiter != nil {
		router.Use(limiter.LimitIP())
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := middleware.NewAuthMiddleware(h.Users, h.Config.JWTSecret)
	api := router.Group("/api")

	public := api.Group("/auth")
	{
		public.POST("/register", h.Register)
		public.POST("/login", h.Login)
	}

	protected := api.Group("")
	protected.Use(auth.RequireAuth())
	if limiter != nil {
		protected.Use(limiter.LimitUser())
	}
	{
		protected.GET("/profile", h.GetProfile)
		protected.PUT("/profile/nick", h.UpdateNick)
		protected.PUT("/profile/password", h.ChangePassword)
		protected.POST("/profile/avatar", h.UploadAvatar)

		protected.GET("/friends", h.ListFriends)
		protected.DELETE("/friends/:id", h.RemoveFriend)
		protected.POST("/friend-requests", h.SendFriendRequest)
		protected.GET("/friend-requests/incoming", h.ListIncomingRequests)
		protected.GET("/friend-requests/outgoing", h.ListOutgoingRequests)
		protected.POST("/friend-requests/:id/accept", h.AcceptFriendRequest)
		protected.POST("/friend-requests/:id/decline", h.DeclineFriendRequest)
		protected.POST("/friend-requests/:id/cancel", h.CancelFriendRequest)

		protected.GET("/notifications", h.ListNotifications)
		protected.GET("/notifications/unread-count", h.UnreadCount)
		protected.PUT("/notifications/read-all", h.MarkAllNotificationsRead)
		protected.PUT("/notifications/:id/read", h.MarkNotificationRead)
		protected.DELETE("/notifications/:id", h.DeleteNotification)

		protected.GET("/workouts", h.ListWorkouts)
		protected.POST("/workouts", h.CreateWorkout)
		protected.GET("/workouts/:id", h.GetWorkout)
		protected.PUT("/workouts/:id", h.UpdateWorkout)
		protected.DELETE("/workouts/:id", h.DeleteWorkout)
		protected.GET("/feed", h.Feed)

		protected.GET("/reports/activity", h.ActivityReport)
		protected.GET("/reports/activity.xlsx", h.ExportActivityReport)

		admin := protected.Group("/admin")
		admin.Use(auth.RequireAdmin())
		{
			admin.POST("/broadcast", h.Broadcast)
			admin.PUT("/users/:id/role", h.SetRole)
		}
	}

	return router
}
