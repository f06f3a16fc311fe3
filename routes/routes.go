package routes

import (
	"net/http"
	"time"

	"gatherly/handlers"
	"gatherly/middleware"
	"gatherly/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes registers consumer account endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.POST("/register", hb.User.RegisterHandler)
		api.POST("/login", hb.User.LoginHandler)

		// Protected routes (Require Authentication)
		api.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		api.GET("/me", hb.User.GetProfileHandler)
		api.PUT("/me", hb.User.UpdateProfileHandler)
		api.PUT("/me/fcm-token", hb.User.UpdateFCMTokenHandler)
		api.DELETE("/me/token", hb.User.RevokeTokenHandler)
		api.DELETE("/me", hb.User.DeleteAccountHandler)
	}
}

// RegisterProviderRoutes registers provider account endpoints.
func RegisterProviderRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/providers")
	{
		api.POST("/register", hb.Provider.RegisterHandler)
		api.POST("/login", hb.Provider.LoginHandler)
		api.GET("/id/:id", hb.Provider.GetPublicHandler)

		// Endpoints that read or modify the provider's own account.
		protected := api.Group("")
		protected.Use(middleware.JWTAuthProviderMiddleware(hb.ProviderRepo))
		protected.GET("/me", hb.Provider.GetProfileHandler)
		protected.PUT("/me", hb.Provider.UpdateProfileHandler)
		protected.PUT("/me/fcm-token", hb.Provider.UpdateFCMTokenHandler)
		protected.DELETE("/me/token", hb.Provider.RevokeTokenHandler)
		protected.DELETE("/me", hb.Provider.DeleteAccountHandler)
	}
}

// RegisterListingRoutes registers listing catalogue endpoints. Discovery and
// calendars are public; mutation requires the owning provider.
func RegisterListingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/listings")
	{
		api.GET("/search", hb.Listing.SearchHandler)
		api.GET("/:id", hb.Listing.GetHandler)
		api.GET("/:id/calendar", hb.Booking.CalendarHandler)
		api.GET("/:id/reviews", hb.Review.ListingReviewsHandler)

		provider := api.Group("")
		provider.Use(middleware.JWTAuthProviderMiddleware(hb.ProviderRepo))
		provider.POST("", hb.Listing.CreateHandler)
		provider.GET("/mine/all", hb.Listing.ListMineHandler)
		provider.PUT("/:id", hb.Listing.UpdateHandler)
		provider.PUT("/:id/schedule", hb.Listing.UpdateScheduleHandler)
		provider.DELETE("/:id", hb.Listing.DeleteHandler)
		provider.POST("/:id/blocks", hb.Booking.CreateBlockHandler)
		provider.GET("/:id/bookings", hb.Booking.ListingBookingsHandler)
	}
}

// RegisterBookingRoutes sets up the booking engine endpoints, including the
// draft session flow.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		user := api.Group("")
		user.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		user.POST("", hb.Booking.CreateHandler)
		user.GET("/mine", hb.Booking.MyBookingsHandler)
		user.POST("/session", hb.Booking.StartSessionHandler)
		user.PUT("/session/:sessionID", hb.Booking.QuoteSessionHandler)
		user.POST("/session/:sessionID/confirm", hb.Booking.ConfirmSessionHandler)
		user.DELETE("/session/:sessionID", hb.Booking.CancelSessionHandler)

		provider := api.Group("")
		provider.Use(middleware.JWTAuthProviderMiddleware(hb.ProviderRepo))
		provider.GET("/provider", hb.Booking.ProviderBookingsHandler)

		// Status transitions are role-dependent, so either side may call.
		any := api.Group("")
		any.Use(middleware.JWTAuthAnyMiddleware(hb.UserRepo, hb.ProviderRepo))
		any.PUT("/:id/status", hb.Booking.UpdateStatusHandler)
	}
}

// RegisterReviewRoutes registers review submission endpoints.
func RegisterReviewRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/reviews")
	{
		api.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		api.POST("", hb.Review.CreateHandler)
	}
}

// RegisterPromotionRoutes registers hot-deal management endpoints.
func RegisterPromotionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/promotions")
	{
		api.Use(middleware.JWTAuthProviderMiddleware(hb.ProviderRepo))
		api.POST("", hb.Promotion.CreateHandler)
		api.GET("/mine", hb.Promotion.ListMineHandler)
		api.DELETE("/:id", hb.Promotion.CancelHandler)
	}
}

// RegisterChatRoutes registers messaging endpoints shared by both roles.
func RegisterChatRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/chat")
	{
		api.Use(middleware.JWTAuthAnyMiddleware(hb.UserRepo, hb.ProviderRepo))
		api.GET("/conversations", hb.Chat.ListHandler)
		api.POST("/conversations", hb.Chat.SendHandler)
		api.GET("/conversations/:id/messages", hb.Chat.MessagesHandler)
		api.POST("/conversations/:id/messages", hb.Chat.SendHandler)
		api.PUT("/conversations/:id/read", hb.Chat.MarkReadHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "dependencies": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterUserRoutes(r, hb)
	RegisterProviderRoutes(r, hb)
	RegisterListingRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterReviewRoutes(r, hb)
	RegisterPromotionRoutes(r, hb)
	RegisterChatRoutes(r, hb)
	RegisterHealthRoute(r)
}
